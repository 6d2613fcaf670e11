package capturetest

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/fivetwenty-io/capture-client/pkg/capture"
)

type folder struct {
	id           string
	name         string
	parentID     string
	folderTypeID string
	folders      []string
	documents    []string
	fields       []*capture.FieldValue
	reviewValid  bool
	overridden   bool
}

type document struct {
	id                      string
	name                    string
	folderID                string
	filePath                string
	documentType            *capture.DocumentType
	classificationConfident bool
	confidence              float64
	properties              map[string]string
	pages                   []*page
	fields                  []*capture.FieldValue
	rejected                bool
	rejectionReason         string
	reviewValid             bool
	overridden              bool
	sourceFile              *capture.SourceFile
	extensions              map[string]string
}

type page struct {
	id              string
	imageID         string
	sheetID         string
	isFront         bool
	rotation        int
	width           int
	height          int
	barcodes        []string
	rejected        bool
	rejectionReason string
	renditions      map[int]*capture.ImageData
	extensions      map[string]string
}

// store is the in-memory capture tree. Callers hold Server.mu.
type store struct {
	roots     []string
	folders   map[string]*folder
	documents map[string]*document
	images    map[string]*capture.ImageData
	locks     map[string]capture.ItemType
	rules     map[string]map[string]*regexp.Regexp
}

func newStore() *store {
	return &store{
		folders:   make(map[string]*folder),
		documents: make(map[string]*document),
		images:    make(map[string]*capture.ImageData),
		locks:     make(map[string]capture.ItemType),
		rules:     make(map[string]map[string]*regexp.Regexp),
	}
}

// newID returns a 32 digit hex id like the ones the service issues.
func newID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}

func notFound(kind, id string) *capture.Fault {
	return capture.NewFault(capture.FaultKindNotFound, fmt.Sprintf("%s %q not found", kind, id))
}

func invalidOperation(format string, a ...interface{}) *capture.Fault {
	return capture.NewFault(capture.FaultKindInvalidOperation, fmt.Sprintf(format, a...))
}

func precondition(format string, a ...interface{}) *capture.Fault {
	return capture.NewFault(capture.FaultKindPrecondition, fmt.Sprintf(format, a...))
}

func (s *store) folder(id string) (*folder, error) {
	f, ok := s.folders[id]
	if !ok {
		return nil, notFound("folder", id)
	}

	return f, nil
}

func (s *store) document(id string) (*document, error) {
	d, ok := s.documents[id]
	if !ok {
		return nil, notFound("document", id)
	}

	return d, nil
}

func (d *document) page(index int) (*page, error) {
	if index < 0 || index >= len(d.pages) {
		return nil, invalidOperation("page index %d out of range for document %q with %d pages", index, d.id, len(d.pages))
	}

	return d.pages[index], nil
}

func (s *store) depth(f *folder) int {
	depth := 0

	for f.parentID != "" {
		depth++
		f = s.folders[f.parentID]
	}

	return depth
}

// siblings returns the ordered child list that holds folders under parentID.
func (s *store) siblings(parentID string) *[]string {
	if parentID == "" {
		return &s.roots
	}

	return &s.folders[parentID].folders
}

func checkInsertIndex(index int) error {
	if index < capture.AppendIndex {
		return invalidOperation("insert index %d is invalid", index)
	}

	return nil
}

// insertAt places id at index. AppendIndex or any index past the end appends.
func insertAt(ids []string, id string, index int) []string {
	if index == capture.AppendIndex || index >= len(ids) {
		return append(ids, id)
	}

	ids = append(ids, "")
	copy(ids[index+1:], ids[index:])
	ids[index] = id

	return ids
}

func insertPages(pages []*page, inserted []*page, index int) []*page {
	if index == capture.AppendIndex || index >= len(pages) {
		return append(pages, inserted...)
	}

	result := make([]*page, 0, len(pages)+len(inserted))
	result = append(result, pages[:index]...)
	result = append(result, inserted...)

	return append(result, pages[index:]...)
}

func removeID(ids []string, id string) []string {
	for i, candidate := range ids {
		if candidate == id {
			return append(ids[:i], ids[i+1:]...)
		}
	}

	return ids
}

func indexOf(ids []string, id string) int {
	for i, candidate := range ids {
		if candidate == id {
			return i
		}
	}

	return -1
}

func (s *store) addFolder(parentID, name, folderTypeID string, index int) (*folder, error) {
	err := checkInsertIndex(index)
	if err != nil {
		return nil, err
	}

	if parentID != "" {
		_, err = s.folder(parentID)
		if err != nil {
			return nil, err
		}
	}

	f := &folder{
		id:           newID(),
		name:         name,
		parentID:     parentID,
		folderTypeID: folderTypeID,
		reviewValid:  true,
	}

	s.folders[f.id] = f
	siblings := s.siblings(parentID)
	*siblings = insertAt(*siblings, f.id, index)

	return f, nil
}

func (s *store) addDocument(f *folder, name string, index int) *document {
	d := &document{
		id:          newID(),
		name:        name,
		folderID:    f.id,
		reviewValid: true,
		properties:  make(map[string]string),
		extensions:  make(map[string]string),
	}

	s.documents[d.id] = d
	f.documents = insertAt(f.documents, d.id, index)

	return d
}

func (s *store) newPage(image *capture.ImageData) *page {
	p := &page{
		id:         newID(),
		isFront:    true,
		renditions: make(map[int]*capture.ImageData),
		extensions: make(map[string]string),
	}

	if image != nil {
		p.imageID = s.saveImage(image.MimeType, image.Data)
	}

	return p
}

func (s *store) saveImage(mimeType string, data []byte) string {
	id := newID()
	s.images[id] = &capture.ImageData{MimeType: mimeType, Data: append([]byte(nil), data...)}

	return id
}

func (s *store) copyPage(source *page) *page {
	p := s.newPage(nil)
	p.imageID = source.imageID
	p.sheetID = source.sheetID
	p.isFront = source.isFront
	p.rotation = source.rotation
	p.width = source.width
	p.height = source.height
	p.barcodes = append([]string(nil), source.barcodes...)

	for index, rendition := range source.renditions {
		p.renditions[index] = &capture.ImageData{MimeType: rendition.MimeType, Data: append([]byte(nil), rendition.Data...)}
	}

	return p
}

func (s *store) deleteDocument(d *document) {
	if f, ok := s.folders[d.folderID]; ok {
		f.documents = removeID(f.documents, d.id)
	}

	delete(s.documents, d.id)
	delete(s.locks, d.id)
}

func (s *store) deleteFolder(f *folder) {
	for _, childID := range append([]string(nil), f.folders...) {
		s.deleteFolder(s.folders[childID])
	}

	for _, documentID := range append([]string(nil), f.documents...) {
		s.deleteDocument(s.documents[documentID])
	}

	siblings := s.siblings(f.parentID)
	*siblings = removeID(*siblings, f.id)

	delete(s.folders, f.id)
	delete(s.locks, f.id)
}

func (s *store) isLockedTree(f *folder) bool {
	if _, ok := s.locks[f.id]; ok {
		return true
	}

	for _, documentID := range f.documents {
		if _, ok := s.locks[documentID]; ok {
			return true
		}
	}

	for _, childID := range f.folders {
		if s.isLockedTree(s.folders[childID]) {
			return true
		}
	}

	return false
}

func cellsEqual(a, b *capture.TableCell) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}

	return *a == *b
}

func identityMatches(field, want capture.FieldIdentity) bool {
	if want.ID != "" {
		if field.ID != want.ID {
			return false
		}
	} else if field.Name != want.Name {
		return false
	}

	return cellsEqual(field.Cell, want.Cell)
}

func findField(fields []*capture.FieldValue, want capture.FieldIdentity) *capture.FieldValue {
	for _, field := range fields {
		if identityMatches(field.FieldIdentity, want) {
			return field
		}
	}

	return nil
}

// tableRows returns the cells of the table named by want, in any order.
func tableRows(fields []*capture.FieldValue, want capture.FieldIdentity) []*capture.FieldValue {
	var cells []*capture.FieldValue

	for _, field := range fields {
		if field.Cell == nil {
			continue
		}

		if (want.ID != "" && field.ID == want.ID) || (want.ID == "" && field.Name == want.Name) {
			cells = append(cells, field)
		}
	}

	return cells
}

func (s *store) checkField(documentTypeID, name, value string) capture.FieldValidationResult {
	result := capture.FieldValidationResult{Name: name, Value: value, Valid: true}

	if value == "" {
		result.Valid = false
		result.ErrorMessage = "a value is required"

		return result
	}

	if rule, ok := s.rules[documentTypeID][name]; ok && !rule.MatchString(value) {
		result.Valid = false
		result.ErrorMessage = fmt.Sprintf("value does not match %s", rule.String())
	}

	return result
}

func (s *store) applyValidation(documentTypeID string, field *capture.FieldValue) {
	result := s.checkField(documentTypeID, field.Name, field.Value)

	field.Valid = result.Valid
	field.ErrorDescription = result.ErrorMessage

	if result.Valid {
		field.Status = capture.FieldStatusValid
	} else {
		field.Status = capture.FieldStatusInvalid
	}
}

// setField writes a value, creating the field when the owner has none by that identity.
func (s *store) setField(fields []*capture.FieldValue, documentTypeID string, update capture.RuntimeField) []*capture.FieldValue {
	field := findField(fields, update.FieldIdentity)
	if field == nil {
		identity := update.FieldIdentity
		if identity.ID == "" {
			identity.ID = newID()
		}

		if identity.Cell != nil {
			cell := *identity.Cell
			identity.Cell = &cell
		}

		field = &capture.FieldValue{FieldIdentity: identity}
		fields = append(fields, field)
	}

	field.Value = update.Value
	s.applyValidation(documentTypeID, field)

	return fields
}

func copyFields(fields []*capture.FieldValue, names []string) []*capture.FieldValue {
	wanted := make(map[string]bool, len(names))
	for _, name := range names {
		wanted[name] = true
	}

	copied := make([]*capture.FieldValue, 0, len(fields))

	for _, field := range fields {
		if len(wanted) > 0 && !wanted[field.Name] && !wanted[field.ID] {
			continue
		}

		clone := *field
		if field.Cell != nil {
			cell := *field.Cell
			clone.Cell = &cell
		}

		copied = append(copied, &clone)
	}

	return copied
}

func snapshotFields(fields []*capture.FieldValue) []capture.FieldValue {
	values := make([]capture.FieldValue, 0, len(fields))
	for _, field := range fields {
		values = append(values, *field)
	}

	return values
}

func fieldsValid(fields []*capture.FieldValue) bool {
	for _, field := range fields {
		if field.Status == capture.FieldStatusInvalid {
			return false
		}
	}

	return true
}

func (f *folder) valid() bool {
	return f.overridden || (f.reviewValid && fieldsValid(f.fields))
}

func (d *document) valid() bool {
	return d.overridden || (d.reviewValid && !d.rejected && fieldsValid(d.fields))
}

func (d *document) documentTypeID() string {
	if d.documentType == nil {
		return ""
	}

	return d.documentType.ID
}

func (s *store) folderSnapshot(f *folder) *capture.Folder {
	snapshot := &capture.Folder{
		ID:           f.id,
		Name:         f.name,
		ParentID:     f.parentID,
		FolderTypeID: f.folderTypeID,
		Depth:        s.depth(f),
		Valid:        f.valid(),
		ReviewValid:  f.reviewValid,
		Folders:      make([]capture.FolderSummary, 0, len(f.folders)),
		Documents:    make([]capture.DocumentSummary, 0, len(f.documents)),
		Fields:       snapshotFields(f.fields),
	}

	for _, childID := range f.folders {
		snapshot.Folders = append(snapshot.Folders, capture.FolderSummary{ID: childID, Name: s.folders[childID].name})
	}

	for _, documentID := range f.documents {
		d := s.documents[documentID]

		summary := capture.DocumentSummary{ID: d.id, Name: d.name, PageCount: len(d.pages)}
		if d.documentType != nil {
			summary.DocumentType = d.documentType.Name
		}

		snapshot.Documents = append(snapshot.Documents, summary)
	}

	return snapshot
}

func (s *store) documentSnapshot(d *document) *capture.Document {
	snapshot := &capture.Document{
		ID:                      d.id,
		Name:                    d.name,
		FolderID:                d.folderID,
		ClassificationConfident: d.classificationConfident,
		Confidence:              d.confidence,
		Valid:                   d.valid(),
		ReviewValid:             d.reviewValid,
		Rejected:                d.rejected,
		RejectionReason:         d.rejectionReason,
		Pages:                   make([]capture.Page, 0, len(d.pages)),
		Fields:                  snapshotFields(d.fields),
	}

	if d.documentType != nil {
		documentType := *d.documentType
		snapshot.DocumentType = &documentType
	}

	for _, p := range d.pages {
		snapshot.Pages = append(snapshot.Pages, s.pageSnapshot(p))
	}

	return snapshot
}

func (s *store) pageSnapshot(p *page) capture.Page {
	snapshot := capture.Page{
		ID:              p.id,
		ImageID:         p.imageID,
		SheetID:         p.sheetID,
		IsFront:         p.isFront,
		Rotation:        p.rotation,
		Width:           p.width,
		Height:          p.height,
		Rejected:        p.rejected,
		RejectionReason: p.rejectionReason,
	}

	if image, ok := s.images[p.imageID]; ok {
		snapshot.MimeType = image.MimeType
	}

	return snapshot
}

func sortedKeys(renditions map[int]*capture.ImageData) []int {
	keys := make([]int, 0, len(renditions))
	for key := range renditions {
		keys = append(keys, key)
	}

	sort.Ints(keys)

	return keys
}
