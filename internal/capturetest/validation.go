package capturetest

import (
	"github.com/fivetwenty-io/capture-client/pkg/capture"
)

func forceUnlockItem(s *Server, req *request) (interface{}, error) {
	lockedType, ok := s.store.locks[req.Item.ID]
	if !ok || lockedType != req.Item.Type {
		return nil, notFound("lock on item", req.Item.ID)
	}

	delete(s.store.locks, req.Item.ID)

	return nil, nil
}

func validateDocument(s *Server, req *request) (interface{}, error) {
	d, err := s.store.document(req.DocumentID)
	if err != nil {
		return nil, err
	}

	return d.valid(), nil
}

func validateDocumentField(s *Server, req *request) (interface{}, error) {
	return s.store.checkField(req.DocumentTypeID, req.Field.Name, req.Field.Value), nil
}

func (s *store) checkFields(documentTypeID string, fields []capture.RuntimeField) []capture.FieldValidationResult {
	results := make([]capture.FieldValidationResult, 0, len(fields))
	for _, field := range fields {
		results = append(results, s.checkField(documentTypeID, field.Name, field.Value))
	}

	return results
}

func validateDocumentFields(s *Server, req *request) (interface{}, error) {
	return s.store.checkFields(req.DocumentTypeID, req.Fields), nil
}

func validateAllDocumentFields(s *Server, req *request) (interface{}, error) {
	result := capture.ValidationResult{
		Valid:  req.State == nil || !req.State.Rejected,
		Fields: s.store.checkFields(req.DocumentTypeID, req.Fields),
	}

	for _, field := range result.Fields {
		result.Valid = result.Valid && field.Valid
	}

	return result, nil
}

// runDocumentFieldsValidation re-evaluates the stored values of d and
// updates their status.
func runDocumentFieldsValidation(s *Server, req *request) (interface{}, error) {
	d, err := s.store.document(req.DocumentID)
	if err != nil {
		return nil, err
	}

	targets := d.fields

	if len(req.Fields) > 0 {
		targets = make([]*capture.FieldValue, 0, len(req.Fields))

		for _, want := range req.Fields {
			field := findField(d.fields, want.FieldIdentity)
			if field == nil {
				return nil, notFound("field", want.Key())
			}

			targets = append(targets, field)
		}
	}

	result := capture.ValidationResult{Valid: true, Fields: make([]capture.FieldValidationResult, 0, len(targets))}

	for _, field := range targets {
		s.store.applyValidation(d.documentTypeID(), field)

		result.Valid = result.Valid && field.Valid
		result.Fields = append(result.Fields, capture.FieldValidationResult{
			Name:         field.Name,
			Value:        field.Value,
			Valid:        field.Valid,
			ErrorMessage: field.ErrorDescription,
		})
	}

	return result, nil
}

func validateDocumentForReview(s *Server, req *request) (interface{}, error) {
	d, err := s.store.document(req.DocumentID)
	if err != nil {
		return nil, err
	}

	switch {
	case d.rejected:
		return capture.ReviewValidationResult{Message: "document is rejected"}, nil
	case !d.reviewValid:
		return capture.ReviewValidationResult{Message: "document is marked review invalid"}, nil
	default:
		return capture.ReviewValidationResult{ReviewValid: true}, nil
	}
}

func getValidationContext(s *Server, req *request) (interface{}, error) {
	d, err := s.store.document(req.DocumentID)
	if err != nil {
		return nil, err
	}

	return capture.ValidationExecutionContext{
		DocumentID:     d.id,
		DocumentTypeID: d.documentTypeID(),
		FolderID:       d.folderID,
		PageCount:      len(d.pages),
	}, nil
}
