package capturetest

import (
	"encoding/json"
	"fmt"

	"github.com/fivetwenty-io/capture-client/internal/constants"
	"github.com/fivetwenty-io/capture-client/pkg/capture"
)

var operations = map[string]operation{
	constants.OpCreateFolder:               createFolder,
	constants.OpCreateOnlineLearningFolder: createOnlineLearningFolder,
	constants.OpGetFolder:                  getFolder,
	constants.OpDeleteFolder:               deleteFolder,
	constants.OpMoveFolder:                 moveFolder,
	constants.OpSplitFolder:                splitFolder,
	constants.OpSetFolderStatus:            setFolderStatus,
	constants.OpSetFolderFieldStatus:       setFolderFieldStatus,
	constants.OpGetFolderFieldValues:       getFolderFieldValues,
	constants.OpUpdateFolderFieldValues:    updateFolderFieldValues,

	constants.OpForceUnlockItem:             forceUnlockItem,
	constants.OpValidateDocument:            validateDocument,
	constants.OpValidateDocumentField:       validateDocumentField,
	constants.OpValidateDocumentFields:      validateDocumentFields,
	constants.OpValidateAllDocumentFields:   validateAllDocumentFields,
	constants.OpRunDocumentFieldsValidation: runDocumentFieldsValidation,
	constants.OpValidateDocumentForReview:   validateDocumentForReview,
	constants.OpGetValidationContext:        getValidationContext,

	constants.OpCreateDocument:                    createDocument,
	constants.OpCreateDocumentWithPages:           createDocumentWithPages,
	constants.OpGetDocument:                       getDocument,
	constants.OpDeleteDocument:                    deleteDocument,
	constants.OpDeleteDocuments:                   deleteDocuments,
	constants.OpCopyDocument:                      copyDocument,
	constants.OpCopyDocumentWithPages:             copyDocumentWithPages,
	constants.OpCopyDocumentFieldValues:           copyDocumentFieldValues,
	constants.OpMoveDocument:                      moveDocument,
	constants.OpSplitDocument:                     splitDocument,
	constants.OpSplitDocumentAndClassify:          splitDocumentAndClassify,
	constants.OpMergeDocuments:                    mergeDocuments,
	constants.OpRejectDocument:                    rejectDocument,
	constants.OpUnrejectDocuments:                 unrejectDocuments,
	constants.OpSetDocumentStatus:                 setDocumentStatus,
	constants.OpSetDocumentFieldStatus:            setDocumentFieldStatus,
	constants.OpGetDocumentFieldValue:             getDocumentFieldValue,
	constants.OpGetDocumentFieldsAlternatives:     getDocumentFieldsAlternatives,
	constants.OpUpdateDocumentFieldValues:         updateDocumentFieldValues,
	constants.OpUpdateDocumentFieldPropertyValues: updateDocumentFieldPropertyValues,
	constants.OpInsertTableFieldRow:               insertTableFieldRow,
	constants.OpUpdateDocumentType:                updateDocumentType,
	constants.OpUpdateDocumentTypeWithConfidence:  updateDocumentType,
	constants.OpUpdateSourceFile:                  updateSourceFile,
	constants.OpGetSourceFile:                     getSourceFile,
	constants.OpGetDocumentFile:                   getDocumentFile,
	constants.OpGetRejectedPages:                  getRejectedPages,
	constants.OpSaveTextExtension:                 saveTextExtension,
	constants.OpGetTextExtension:                  getTextExtension,
	constants.OpDeleteExtension:                   deleteExtension,

	constants.OpDeletePages:                     deletePages,
	constants.OpMovePages:                       movePages,
	constants.OpRejectPages:                     rejectPages,
	constants.OpUpdatePages:                     updatePages,
	constants.OpSavePageImage:                   savePageImage,
	constants.OpSavePageRendition:               savePageRendition,
	constants.OpSetPageSourceImageFromRendition: setPageSourceImageFromRendition,
	constants.OpGetImage:                        getImage,
	constants.OpGetPageRendition:                getPageRendition,
	constants.OpGetPageRenditionImageSummary:    getPageRenditionImageSummary,
	constants.OpGetPageSummary:                  getPageSummary,
	constants.OpGetPagePropertyValues:           getPagePropertyValues,
	constants.OpSavePageTextExtension:           savePageTextExtension,
	constants.OpGetPageTextExtension:            getPageTextExtension,
}

func createFolder(s *Server, req *request) (interface{}, error) {
	f, err := s.store.addFolder(req.ParentID, req.Name, req.FolderTypeID, req.InsertIndex)
	if err != nil {
		return nil, err
	}

	for _, field := range req.Fields {
		f.fields = s.store.setField(f.fields, "", field)
	}

	return f.id, nil
}

func createOnlineLearningFolder(s *Server, req *request) (interface{}, error) {
	if req.DocumentCount < 1 {
		return nil, invalidOperation("document count must be positive, got %d", req.DocumentCount)
	}

	f, err := s.store.addFolder("", "Online Learning", "OnlineLearning", capture.AppendIndex)
	if err != nil {
		return nil, err
	}

	for i := range req.DocumentCount {
		s.store.addDocument(f, fmt.Sprintf("Sample %d", i+1), capture.AppendIndex)
	}

	return f.id, nil
}

func getFolder(s *Server, req *request) (interface{}, error) {
	f, err := s.store.folder(req.FolderID)
	if err != nil {
		return nil, err
	}

	return s.store.folderSnapshot(f), nil
}

func deleteFolder(s *Server, req *request) (interface{}, error) {
	f, err := s.store.folder(req.FolderID)
	if err != nil {
		return nil, err
	}

	var options capture.DeleteOptions

	if len(req.Options) > 0 && string(req.Options) != "null" {
		err = json.Unmarshal(req.Options, &options)
		if err != nil {
			return nil, capture.NewFault(capture.FaultKindRemote, "malformed delete options")
		}
	}

	if !req.Force && s.store.isLockedTree(f) {
		return nil, precondition("folder %q or one of its items is locked", f.id)
	}

	if options.KeepDocuments {
		if f.parentID == "" {
			return nil, invalidOperation("documents of root folder %q have no parent to move to", f.id)
		}

		parent := s.store.folders[f.parentID]
		for _, documentID := range f.documents {
			s.store.documents[documentID].folderID = parent.id
			parent.documents = append(parent.documents, documentID)
		}

		f.documents = nil
	}

	s.store.deleteFolder(f)

	return nil, nil
}

// moveFolder reorders or reparents a folder without changing its depth.
func moveFolder(s *Server, req *request) (interface{}, error) {
	f, err := s.store.folder(req.FolderID)
	if err != nil {
		return nil, err
	}

	err = checkInsertIndex(req.Index)
	if err != nil {
		return nil, err
	}

	newDepth := 0

	if req.NewParentID != "" {
		parent, parentErr := s.store.folder(req.NewParentID)
		if parentErr != nil {
			return nil, parentErr
		}

		newDepth = s.store.depth(parent) + 1
	}

	if newDepth != s.store.depth(f) {
		return nil, invalidOperation("folder %q cannot move from level %d to level %d", f.id, s.store.depth(f), newDepth)
	}

	oldSiblings := s.store.siblings(f.parentID)
	*oldSiblings = removeID(*oldSiblings, f.id)

	f.parentID = req.NewParentID
	newSiblings := s.store.siblings(f.parentID)
	*newSiblings = insertAt(*newSiblings, f.id, req.Index)

	return nil, nil
}

// splitFolder moves the documents from documentIndex on into a new sibling
// folder placed right after the original.
func splitFolder(s *Server, req *request) (interface{}, error) {
	f, err := s.store.folder(req.FolderID)
	if err != nil {
		return nil, err
	}

	if req.DocumentIndex < 1 || req.DocumentIndex >= len(f.documents) {
		return nil, invalidOperation("cannot split folder %q with %d documents at %d", f.id, len(f.documents), req.DocumentIndex)
	}

	siblings := *s.store.siblings(f.parentID)

	created, err := s.store.addFolder(f.parentID, f.name, f.folderTypeID, indexOf(siblings, f.id)+1)
	if err != nil {
		return nil, err
	}

	created.documents = append(created.documents, f.documents[req.DocumentIndex:]...)
	f.documents = f.documents[:req.DocumentIndex]

	for _, documentID := range created.documents {
		s.store.documents[documentID].folderID = created.id
	}

	return created.id, nil
}

func setFolderStatus(s *Server, req *request) (interface{}, error) {
	f, err := s.store.folder(req.FolderID)
	if err != nil {
		return nil, err
	}

	return nil, applyItemStatus(capture.ItemStatus(req.Status), &f.reviewValid, &f.overridden)
}

func setFolderFieldStatus(s *Server, req *request) (interface{}, error) {
	f, err := s.store.folder(req.FolderID)
	if err != nil {
		return nil, err
	}

	return nil, applyFieldStatus(f.fields, req, f.valid())
}

func getFolderFieldValues(s *Server, req *request) (interface{}, error) {
	f, err := s.store.folder(req.FolderID)
	if err != nil {
		return nil, err
	}

	return selectFields(f.fields, req.Fields)
}

func updateFolderFieldValues(s *Server, req *request) (interface{}, error) {
	f, err := s.store.folder(req.FolderID)
	if err != nil {
		return nil, err
	}

	for _, field := range req.Fields {
		f.fields = s.store.setField(f.fields, "", field)
	}

	return nil, nil
}

func applyItemStatus(status capture.ItemStatus, reviewValid, overridden *bool) error {
	switch status {
	case capture.ItemStatusReviewInvalid:
		*reviewValid = false
	case capture.ItemStatusReviewValid:
		*reviewValid = true
	case capture.ItemStatusOverride:
		*overridden = true
	case capture.ItemStatusRestore:
		*overridden = false
	default:
		return invalidOperation("unknown item status %d", int(status))
	}

	return nil
}

// applyFieldStatus moves a field to the requested status. Verified requires
// the owner to be valid.
func applyFieldStatus(fields []*capture.FieldValue, req *request, ownerValid bool) error {
	field := findField(fields, req.Field.FieldIdentity)
	if field == nil {
		return notFound("field", req.Field.Key())
	}

	status := capture.FieldStatus(req.Status)

	switch status {
	case capture.FieldStatusInvalid:
		field.Status = status
		field.Valid = false
		field.ErrorDescription = req.ErrorMessage
	case capture.FieldStatusValid, capture.FieldStatusForceValid:
		field.Status = status
		field.Valid = true
		field.ErrorDescription = ""
	case capture.FieldStatusConfirmed:
		if req.Value != "" {
			field.Value = req.Value
		}

		field.Status = status
		field.Valid = true
	case capture.FieldStatusVerified:
		if !ownerValid {
			return precondition("field %s cannot be verified while its owner is not valid", field.Key())
		}

		field.Status = status
	case capture.FieldStatusUnverified:
		field.Status = status
	case capture.FieldStatusExtractionConfident:
		field.ExtractionConfident = req.Confident
	default:
		return invalidOperation("unknown field status %d", int(status))
	}

	return nil
}

// selectFields returns the requested fields, or all of them when none are named.
func selectFields(fields []*capture.FieldValue, wanted []capture.RuntimeField) ([]capture.FieldValue, error) {
	if len(wanted) == 0 {
		return snapshotFields(fields), nil
	}

	values := make([]capture.FieldValue, 0, len(wanted))

	for _, want := range wanted {
		field := findField(fields, want.FieldIdentity)
		if field == nil {
			return nil, notFound("field", want.Key())
		}

		values = append(values, *field)
	}

	return values, nil
}
