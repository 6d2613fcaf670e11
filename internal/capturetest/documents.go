package capturetest

import (
	"encoding/json"
	"path/filepath"
	"strings"

	"github.com/fivetwenty-io/capture-client/pkg/capture"
)

// documentParent resolves the folder a new document goes into, creating a
// root folder when parentID is empty.
func (s *Server) documentParent(parentID, name string) (*folder, error) {
	if parentID == "" {
		return s.store.addFolder("", name, "", capture.AppendIndex)
	}

	return s.store.folder(parentID)
}

func (s *Server) newDocument(req *request) (*document, error) {
	err := checkInsertIndex(req.InsertIndex)
	if err != nil {
		return nil, err
	}

	parent, err := s.documentParent(req.ParentID, req.Name)
	if err != nil {
		return nil, err
	}

	d := s.store.addDocument(parent, req.Name, req.InsertIndex)
	d.filePath = req.FilePath

	if req.DocumentTypeID != "" {
		d.documentType = &capture.DocumentType{ID: req.DocumentTypeID}
	}

	if len(req.Properties) > 0 && string(req.Properties) != "null" {
		err = json.Unmarshal(req.Properties, &d.properties)
		if err != nil {
			return nil, capture.NewFault(capture.FaultKindRemote, "malformed document properties")
		}
	}

	for _, field := range req.Fields {
		d.fields = s.store.setField(d.fields, d.documentTypeID(), field)
	}

	return d, nil
}

func createDocument(s *Server, req *request) (interface{}, error) {
	d, err := s.newDocument(req)
	if err != nil {
		return nil, err
	}

	return capture.CreatedDocument{DocumentID: d.id, FolderID: d.folderID}, nil
}

func createDocumentWithPages(s *Server, req *request) (interface{}, error) {
	var images []capture.PageImage

	err := json.Unmarshal(req.Pages, &images)
	if err != nil || len(images) == 0 {
		return nil, invalidOperation("a document needs at least one page image")
	}

	d, err := s.newDocument(req)
	if err != nil {
		return nil, err
	}

	for _, image := range images {
		d.pages = append(d.pages, s.store.newPage(&capture.ImageData{MimeType: image.MimeType, Data: image.Data}))
	}

	return capture.CreatedDocument{DocumentID: d.id, FolderID: d.folderID}, nil
}

func getDocument(s *Server, req *request) (interface{}, error) {
	d, err := s.store.document(req.DocumentID)
	if err != nil {
		return nil, err
	}

	return s.store.documentSnapshot(d), nil
}

func deleteDocument(s *Server, req *request) (interface{}, error) {
	d, err := s.store.document(req.DocumentID)
	if err != nil {
		return nil, err
	}

	if _, locked := s.store.locks[d.id]; locked {
		return nil, precondition("document %q is locked", d.id)
	}

	s.store.deleteDocument(d)

	return nil, nil
}

func deleteDocuments(s *Server, req *request) (interface{}, error) {
	documents := make([]*document, 0, len(req.DocumentIDs))

	for _, id := range req.DocumentIDs {
		d, err := s.store.document(id)
		if err != nil {
			return nil, err
		}

		if _, locked := s.store.locks[d.id]; locked {
			return nil, precondition("document %q is locked", d.id)
		}

		documents = append(documents, d)
	}

	for _, d := range documents {
		s.store.deleteDocument(d)
	}

	return nil, nil
}

// cloneDocument copies source into target at index.
func (s *Server) cloneDocument(source *document, target *folder, index int, mode capture.CopyMode, fieldNames []string) *document {
	clone := s.store.addDocument(target, source.name, index)
	clone.filePath = source.filePath
	clone.classificationConfident = source.classificationConfident
	clone.confidence = source.confidence

	if source.documentType != nil {
		documentType := *source.documentType
		clone.documentType = &documentType
	}

	for key, value := range source.properties {
		clone.properties[key] = value
	}

	if mode >= capture.CopyModeFields {
		clone.fields = copyFields(source.fields, fieldNames)
	}

	if mode >= capture.CopyModeAll {
		for _, p := range source.pages {
			clone.pages = append(clone.pages, s.store.copyPage(p))
		}
	}

	return clone
}

func copyDocument(s *Server, req *request) (interface{}, error) {
	source, err := s.store.document(req.DocumentID)
	if err != nil {
		return nil, err
	}

	target, err := s.store.folder(req.DestinationFolderID)
	if err != nil {
		return nil, err
	}

	if req.CopyMode < capture.CopyModeStructure || req.CopyMode > capture.CopyModeAll {
		return nil, invalidOperation("unknown copy mode %d", int(req.CopyMode))
	}

	return s.cloneDocument(source, target, capture.AppendIndex, req.CopyMode, req.FieldNames).id, nil
}

func copyDocumentWithPages(s *Server, req *request) (interface{}, error) {
	source, err := s.store.document(req.DocumentID)
	if err != nil {
		return nil, err
	}

	err = checkInsertIndex(req.InsertIndex)
	if err != nil {
		return nil, err
	}

	return s.cloneDocument(source, s.store.folders[source.folderID], req.InsertIndex, capture.CopyModeAll, nil).id, nil
}

func copyDocumentFieldValues(s *Server, req *request) (interface{}, error) {
	source, err := s.store.document(req.SourceDocumentID)
	if err != nil {
		return nil, err
	}

	target, err := s.store.document(req.DestinationDocumentID)
	if err != nil {
		return nil, err
	}

	values, err := selectFields(source.fields, req.Fields)
	if err != nil {
		return nil, err
	}

	for _, value := range values {
		identity := value.FieldIdentity
		if identity.Name != "" {
			identity.ID = ""
		}

		target.fields = s.store.setField(target.fields, target.documentTypeID(), capture.RuntimeField{
			FieldIdentity: identity,
			Value:         value.Value,
		})
	}

	return nil, nil
}

func moveDocument(s *Server, req *request) (interface{}, error) {
	d, err := s.store.document(req.DocumentID)
	if err != nil {
		return nil, err
	}

	target, err := s.store.folder(req.DestinationFolderID)
	if err != nil {
		return nil, err
	}

	err = checkInsertIndex(req.InsertIndex)
	if err != nil {
		return nil, err
	}

	source := s.store.folders[d.folderID]
	source.documents = removeID(source.documents, d.id)
	target.documents = insertAt(target.documents, d.id, req.InsertIndex)
	d.folderID = target.id

	return nil, nil
}

// splitOff moves the pages from pageIndex on into a new document placed
// right after d.
func (s *Server) splitOff(d *document, pageIndex int) *document {
	parent := s.store.folders[d.folderID]

	created := s.store.addDocument(parent, d.name, indexOf(parent.documents, d.id)+1)
	created.documentType = d.documentType
	created.pages = append(created.pages, d.pages[pageIndex:]...)
	d.pages = d.pages[:pageIndex:pageIndex]

	return created
}

func splitDocument(s *Server, req *request) (interface{}, error) {
	d, err := s.store.document(req.DocumentID)
	if err != nil {
		return nil, err
	}

	if req.PageIndex < 1 || req.PageIndex >= len(d.pages) {
		return nil, invalidOperation("cannot split document %q with %d pages at %d", d.id, len(d.pages), req.PageIndex)
	}

	return s.splitOff(d, req.PageIndex).id, nil
}

// splitDocumentAndClassify cuts d at every split index and classifies each
// resulting document. The original keeps the first range.
func splitDocumentAndClassify(s *Server, req *request) (interface{}, error) {
	d, err := s.store.document(req.DocumentID)
	if err != nil {
		return nil, err
	}

	if len(req.Splits) == 0 {
		return nil, invalidOperation("no split points given")
	}

	previous := 0

	for _, split := range req.Splits {
		if split.SplitIndex <= previous || split.SplitIndex >= len(d.pages) {
			return nil, invalidOperation("split index %d is out of order or range", split.SplitIndex)
		}

		previous = split.SplitIndex
	}

	ids := []string{d.id}
	current := d
	offset := 0

	for _, split := range req.Splits {
		next := s.splitOff(current, split.SplitIndex-offset)
		offset = split.SplitIndex

		if split.DocumentTypeID != "" {
			next.documentType = &capture.DocumentType{ID: split.DocumentTypeID}
		}

		next.classificationConfident = split.ClassificationConfident
		next.confidence = split.ConfidenceLevel
		next.reviewValid = split.ReviewValid

		ids = append(ids, next.id)
		current = next
	}

	return ids, nil
}

// mergeDocuments appends the pages of every other document to the first one
// and deletes the others.
func mergeDocuments(s *Server, req *request) (interface{}, error) {
	if len(req.DocumentIDs) < 2 {
		return nil, invalidOperation("merging needs at least two documents")
	}

	documents := make([]*document, 0, len(req.DocumentIDs))
	seen := make(map[string]bool, len(req.DocumentIDs))

	for _, id := range req.DocumentIDs {
		if seen[id] {
			return nil, invalidOperation("document %q listed twice", id)
		}

		seen[id] = true

		d, err := s.store.document(id)
		if err != nil {
			return nil, err
		}

		documents = append(documents, d)
	}

	survivor := documents[0]

	for _, d := range documents[1:] {
		survivor.pages = append(survivor.pages, d.pages...)
		s.store.deleteDocument(d)
	}

	return survivor.id, nil
}

func rejectDocument(s *Server, req *request) (interface{}, error) {
	d, err := s.store.document(req.DocumentID)
	if err != nil {
		return nil, err
	}

	d.rejected = true
	d.rejectionReason = req.Reason

	return nil, nil
}

func unrejectDocuments(s *Server, req *request) (interface{}, error) {
	for _, id := range req.DocumentIDs {
		d, err := s.store.document(id)
		if err != nil {
			return nil, err
		}

		d.rejected = false
		d.rejectionReason = ""
	}

	return nil, nil
}

func setDocumentStatus(s *Server, req *request) (interface{}, error) {
	d, err := s.store.document(req.DocumentID)
	if err != nil {
		return nil, err
	}

	return nil, applyItemStatus(capture.ItemStatus(req.Status), &d.reviewValid, &d.overridden)
}

func setDocumentFieldStatus(s *Server, req *request) (interface{}, error) {
	d, err := s.store.document(req.DocumentID)
	if err != nil {
		return nil, err
	}

	return nil, applyFieldStatus(d.fields, req, d.valid())
}

func getDocumentFieldValue(s *Server, req *request) (interface{}, error) {
	d, err := s.store.document(req.DocumentID)
	if err != nil {
		return nil, err
	}

	field := findField(d.fields, req.Field.FieldIdentity)
	if field == nil {
		return nil, notFound("field", req.Field.Key())
	}

	return field, nil
}

func getDocumentFieldsAlternatives(s *Server, req *request) (interface{}, error) {
	d, err := s.store.document(req.DocumentID)
	if err != nil {
		return nil, err
	}

	if req.MaxAlternatives < 1 {
		return nil, invalidOperation("max alternatives must be positive, got %d", req.MaxAlternatives)
	}

	values, err := selectFields(d.fields, req.Fields)
	if err != nil {
		return nil, err
	}

	alternatives := make([]capture.FieldAlternatives, 0, len(values))
	for _, value := range values {
		alternatives = append(alternatives, capture.FieldAlternatives{
			FieldIdentity: value.FieldIdentity,
			Alternatives:  []capture.FieldValue{value},
		})
	}

	return alternatives, nil
}

func updateDocumentFieldValues(s *Server, req *request) (interface{}, error) {
	d, err := s.store.document(req.DocumentID)
	if err != nil {
		return nil, err
	}

	for _, field := range req.Fields {
		d.fields = s.store.setField(d.fields, d.documentTypeID(), field)
	}

	return nil, nil
}

func updateDocumentFieldPropertyValues(s *Server, req *request) (interface{}, error) {
	d, err := s.store.document(req.DocumentID)
	if err != nil {
		return nil, err
	}

	field := findField(d.fields, req.Field.FieldIdentity)
	if field == nil {
		return nil, notFound("field", req.Field.Key())
	}

	var properties capture.FieldProperties

	err = json.Unmarshal(req.Properties, &properties)
	if err != nil {
		return nil, capture.NewFault(capture.FaultKindRemote, "malformed field properties")
	}

	if properties.Value != nil {
		field.Value = *properties.Value
		s.store.applyValidation(d.documentTypeID(), field)
	}

	if properties.ErrorDescription != nil {
		field.ErrorDescription = *properties.ErrorDescription
	}

	if properties.ExtractionConfident != nil {
		field.ExtractionConfident = *properties.ExtractionConfident
	}

	return nil, nil
}

// insertTableFieldRow shifts rows at and below rowIndex down and adds an
// empty row with one cell per known column.
func insertTableFieldRow(s *Server, req *request) (interface{}, error) {
	d, err := s.store.document(req.DocumentID)
	if err != nil {
		return nil, err
	}

	table := req.Field.FieldIdentity
	table.Cell = nil

	cells := tableRows(d.fields, table)
	if len(cells) == 0 {
		return nil, notFound("table field", table.Key())
	}

	if req.RowIndex < 0 {
		return nil, invalidOperation("row index %d is invalid", req.RowIndex)
	}

	columns := make(map[int]bool)

	for _, cell := range cells {
		columns[cell.Cell.Column] = true

		if cell.Cell.Row >= req.RowIndex {
			cell.Cell.Row++
		}
	}

	template := cells[0]

	for column := range columns {
		d.fields = append(d.fields, &capture.FieldValue{
			FieldIdentity: capture.FieldIdentity{
				ID:   template.ID,
				Name: template.Name,
				Cell: &capture.TableCell{Row: req.RowIndex, Column: column},
			},
			Status: capture.FieldStatusValid,
			Valid:  true,
		})
	}

	return nil, nil
}

func updateDocumentType(s *Server, req *request) (interface{}, error) {
	d, err := s.store.document(req.DocumentID)
	if err != nil {
		return nil, err
	}

	if req.DocumentType.ID == "" && req.DocumentType.Name == "" {
		return nil, invalidOperation("document type id or name is required")
	}

	documentType := req.DocumentType
	d.documentType = &documentType
	d.classificationConfident = req.ClassificationConfident
	d.confidence = req.ConfidenceLevel

	return nil, nil
}

func updateSourceFile(s *Server, req *request) (interface{}, error) {
	d, err := s.store.document(req.DocumentID)
	if err != nil {
		return nil, err
	}

	if req.SourceFile == nil {
		return nil, invalidOperation("source file is required")
	}

	d.sourceFile = req.SourceFile

	return nil, nil
}

func getSourceFile(s *Server, req *request) (interface{}, error) {
	d, err := s.store.document(req.DocumentID)
	if err != nil {
		return nil, err
	}

	if d.sourceFile == nil {
		return nil, notFound("source file of document", d.id)
	}

	return d.sourceFile, nil
}

// getDocumentFile returns the source file when fileType is empty or names
// its mime type or extension.
func getDocumentFile(s *Server, req *request) (interface{}, error) {
	d, err := s.store.document(req.DocumentID)
	if err != nil {
		return nil, err
	}

	if d.sourceFile == nil {
		return nil, notFound("file of document", d.id)
	}

	extension := strings.TrimPrefix(filepath.Ext(d.sourceFile.FileName), ".")
	fileType := strings.TrimPrefix(req.FileType, ".")

	if fileType != "" && !strings.EqualFold(fileType, d.sourceFile.MimeType) && !strings.EqualFold(fileType, extension) {
		return nil, invalidOperation("document %q has no %s file", d.id, req.FileType)
	}

	return d.sourceFile.Data, nil
}

func getRejectedPages(s *Server, req *request) (interface{}, error) {
	d, err := s.store.document(req.DocumentID)
	if err != nil {
		return nil, err
	}

	rejected := capture.RejectedPages{
		DocumentID:  d.id,
		PageIndexes: []int{},
		Reasons:     make(map[int]string),
	}

	for i, p := range d.pages {
		if p.rejected {
			rejected.PageIndexes = append(rejected.PageIndexes, i)
			rejected.Reasons[i] = p.rejectionReason
		}
	}

	return rejected, nil
}

func saveTextExtension(s *Server, req *request) (interface{}, error) {
	d, err := s.store.document(req.DocumentID)
	if err != nil {
		return nil, err
	}

	d.extensions[req.Name] = req.Value

	return nil, nil
}

func getTextExtension(s *Server, req *request) (interface{}, error) {
	d, err := s.store.document(req.DocumentID)
	if err != nil {
		return nil, err
	}

	value, ok := d.extensions[req.Name]
	if !ok {
		return nil, notFound("extension", req.Name)
	}

	return value, nil
}

func deleteExtension(s *Server, req *request) (interface{}, error) {
	d, err := s.store.document(req.DocumentID)
	if err != nil {
		return nil, err
	}

	if _, ok := d.extensions[req.Name]; !ok {
		return nil, notFound("extension", req.Name)
	}

	delete(d.extensions, req.Name)

	return nil, nil
}
