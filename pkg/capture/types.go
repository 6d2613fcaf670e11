package capture

import "fmt"

// AppendIndex requests insertion after the last existing sibling.
const AppendIndex = -1

// FieldStatus is the review state attached to a field value.
type FieldStatus int

const (
	FieldStatusInvalid FieldStatus = iota
	FieldStatusValid
	FieldStatusForceValid
	FieldStatusConfirmed
	// FieldStatusVerified is only accepted while the owning folder or document is valid.
	FieldStatusVerified
	FieldStatusUnverified
	// FieldStatusExtractionConfident sets the extraction-confident flag of a field.
	FieldStatusExtractionConfident
)

var fieldStatusNames = map[FieldStatus]string{
	FieldStatusInvalid:             "Invalid",
	FieldStatusValid:               "Valid",
	FieldStatusForceValid:          "ForceValid",
	FieldStatusConfirmed:           "Confirmed",
	FieldStatusVerified:            "Verified",
	FieldStatusUnverified:          "Unverified",
	FieldStatusExtractionConfident: "ExtractionConfident",
}

func (s FieldStatus) String() string {
	if name, ok := fieldStatusNames[s]; ok {
		return name
	}

	return fmt.Sprintf("FieldStatus(%d)", int(s))
}

// ParseFieldStatus accepts a status name, case-sensitive.
func ParseFieldStatus(name string) (FieldStatus, error) {
	for status, candidate := range fieldStatusNames {
		if candidate == name {
			return status, nil
		}
	}

	return 0, fmt.Errorf("%w: %q", ErrUnknownFieldStatus, name)
}

// ItemStatus is a review transition applied to a whole folder or document.
type ItemStatus int

const (
	ItemStatusReviewInvalid ItemStatus = iota
	ItemStatusReviewValid
	ItemStatusOverride
	ItemStatusRestore
)

var itemStatusNames = map[ItemStatus]string{
	ItemStatusReviewInvalid: "ReviewInvalid",
	ItemStatusReviewValid:   "ReviewValid",
	ItemStatusOverride:      "Override",
	ItemStatusRestore:       "Restore",
}

func (s ItemStatus) String() string {
	if name, ok := itemStatusNames[s]; ok {
		return name
	}

	return fmt.Sprintf("ItemStatus(%d)", int(s))
}

// ParseItemStatus accepts a status name, case-sensitive.
func ParseItemStatus(name string) (ItemStatus, error) {
	for status, candidate := range itemStatusNames {
		if candidate == name {
			return status, nil
		}
	}

	return 0, fmt.Errorf("%w: %q", ErrUnknownItemStatus, name)
}

// ItemType identifies what kind of entity a lock belongs to.
type ItemType int

const (
	ItemTypeDocument ItemType = iota
	ItemTypeFolder
)

// LockedItem references a folder or document holding a server-side lock.
type LockedItem struct {
	ID   string   `json:"id"   yaml:"id"`
	Type ItemType `json:"type" yaml:"type"`
}

// DocumentType identifies a document classification.
type DocumentType struct {
	ID   string `json:"id,omitempty"   yaml:"id,omitempty"`
	Name string `json:"name,omitempty" yaml:"name,omitempty"`
}

// FieldValue is a snapshot of a single field on a folder, document or page.
type FieldValue struct {
	FieldIdentity

	Value               string      `json:"value"                      yaml:"value"`
	Status              FieldStatus `json:"status"                     yaml:"status"`
	Valid               bool        `json:"valid"                      yaml:"valid"`
	ErrorDescription    string      `json:"errorDescription,omitempty" yaml:"errorDescription,omitempty"`
	Confidence          float64     `json:"confidence,omitempty"       yaml:"confidence,omitempty"`
	ExtractionConfident bool        `json:"extractionConfident"        yaml:"extractionConfident"`
}

// FolderSummary is a child folder entry, in sibling order.
type FolderSummary struct {
	ID   string `json:"id"             yaml:"id"`
	Name string `json:"name,omitempty" yaml:"name,omitempty"`
}

// DocumentSummary is a document entry inside a folder, in sibling order.
type DocumentSummary struct {
	ID           string `json:"id"                     yaml:"id"`
	Name         string `json:"name,omitempty"         yaml:"name,omitempty"`
	DocumentType string `json:"documentType,omitempty" yaml:"documentType,omitempty"`
	PageCount    int    `json:"pageCount"              yaml:"pageCount"`
}

// Folder is a snapshot of a folder node.
type Folder struct {
	ID           string            `json:"id"                     yaml:"id"`
	Name         string            `json:"name,omitempty"         yaml:"name,omitempty"`
	ParentID     string            `json:"parentId,omitempty"     yaml:"parentId,omitempty"`
	FolderTypeID string            `json:"folderTypeId,omitempty" yaml:"folderTypeId,omitempty"`
	Depth        int               `json:"depth"                  yaml:"depth"`
	Valid        bool              `json:"valid"                  yaml:"valid"`
	ReviewValid  bool              `json:"reviewValid"            yaml:"reviewValid"`
	Folders      []FolderSummary   `json:"folders"                yaml:"folders"`
	Documents    []DocumentSummary `json:"documents"              yaml:"documents"`
	Fields       []FieldValue      `json:"fields"                 yaml:"fields"`
}

// ChildIndex returns the sibling position of folderID among f's children, or -1.
func (f *Folder) ChildIndex(folderID string) int {
	for i, child := range f.Folders {
		if child.ID == folderID {
			return i
		}
	}

	return -1
}

// Page is a snapshot of a page inside a document.
type Page struct {
	ID              string       `json:"id"                        yaml:"id"`
	ImageID         string       `json:"imageId,omitempty"         yaml:"imageId,omitempty"`
	MimeType        string       `json:"mimeType,omitempty"        yaml:"mimeType,omitempty"`
	SheetID         string       `json:"sheetId,omitempty"         yaml:"sheetId,omitempty"`
	IsFront         bool         `json:"isFront"                   yaml:"isFront"`
	Rotation        int          `json:"rotation"                  yaml:"rotation"`
	Width           int          `json:"width,omitempty"           yaml:"width,omitempty"`
	Height          int          `json:"height,omitempty"          yaml:"height,omitempty"`
	Rejected        bool         `json:"rejected"                  yaml:"rejected"`
	RejectionReason string       `json:"rejectionReason,omitempty" yaml:"rejectionReason,omitempty"`
	Fields          []FieldValue `json:"fields,omitempty"          yaml:"fields,omitempty"`
}

// Document is a snapshot of a document.
type Document struct {
	ID                      string        `json:"id"                        yaml:"id"`
	Name                    string        `json:"name,omitempty"            yaml:"name,omitempty"`
	FolderID                string        `json:"folderId"                  yaml:"folderId"`
	DocumentType            *DocumentType `json:"documentType,omitempty"    yaml:"documentType,omitempty"`
	ClassificationConfident bool          `json:"classificationConfident"   yaml:"classificationConfident"`
	Confidence              float64       `json:"confidence,omitempty"      yaml:"confidence,omitempty"`
	Valid                   bool          `json:"valid"                     yaml:"valid"`
	ReviewValid             bool          `json:"reviewValid"               yaml:"reviewValid"`
	Rejected                bool          `json:"rejected"                  yaml:"rejected"`
	RejectionReason         string        `json:"rejectionReason,omitempty" yaml:"rejectionReason,omitempty"`
	Pages                   []Page        `json:"pages"                     yaml:"pages"`
	Fields                  []FieldValue  `json:"fields"                    yaml:"fields"`
}

// PageIDs lists the page ids in their current order.
func (d *Document) PageIDs() []string {
	ids := make([]string, len(d.Pages))
	for i, page := range d.Pages {
		ids[i] = page.ID
	}

	return ids
}

// CreatedDocument is the result of a document creation.
type CreatedDocument struct {
	DocumentID string `json:"documentId" yaml:"documentId"`
	FolderID   string `json:"folderId"   yaml:"folderId"`
}

// ImageData carries raw image bytes.
type ImageData struct {
	MimeType string `json:"mimeType" yaml:"mimeType"`
	Data     []byte `json:"data"     yaml:"data"`
}

// ImageSummary describes one rendition stored for a page.
type ImageSummary struct {
	RenditionIndex int    `json:"renditionIndex" yaml:"renditionIndex"`
	MimeType       string `json:"mimeType"       yaml:"mimeType"`
	Size           int    `json:"size"           yaml:"size"`
}

// PageSummary is a lightweight page listing entry.
type PageSummary struct {
	PageIndex int    `json:"pageIndex"         yaml:"pageIndex"`
	ID        string `json:"id"                yaml:"id"`
	ImageID   string `json:"imageId,omitempty" yaml:"imageId,omitempty"`
	MimeType  string `json:"mimeType"          yaml:"mimeType"`
	Rejected  bool   `json:"rejected"          yaml:"rejected"`
}

// PageImage is one page of source content supplied on document creation.
type PageImage struct {
	MimeType string `json:"mimeType"`
	Data     []byte `json:"data"`
}

// SourceFile is the original file a document was captured from.
type SourceFile struct {
	FileName string `json:"fileName,omitempty" yaml:"fileName,omitempty"`
	MimeType string `json:"mimeType"           yaml:"mimeType"`
	Data     []byte `json:"data"               yaml:"-"`
}

// RejectedPages lists the rejected pages of a document.
type RejectedPages struct {
	DocumentID  string         `json:"documentId"  yaml:"documentId"`
	PageIndexes []int          `json:"pageIndexes" yaml:"pageIndexes"`
	Reasons     map[int]string `json:"reasons"     yaml:"reasons"`
}

// FieldAlternatives lists the candidate values the service extracted for a field.
type FieldAlternatives struct {
	FieldIdentity

	Alternatives []FieldValue `json:"alternatives" yaml:"alternatives"`
}

// FieldProperties are the mutable properties of a document field.
type FieldProperties struct {
	Value               *string `json:"value,omitempty"               yaml:"value,omitempty"`
	ErrorDescription    *string `json:"errorDescription,omitempty"    yaml:"errorDescription,omitempty"`
	ExtractionConfident *bool   `json:"extractionConfident,omitempty" yaml:"extractionConfident,omitempty"`
	Width               *int    `json:"width,omitempty"               yaml:"width,omitempty"`
}

// PageUpdate changes the properties of the page at PageIndex. Nil fields are left unchanged.
type PageUpdate struct {
	PageIndex int      `json:"pageIndex"`
	SheetID   *string  `json:"sheetId,omitempty"`
	IsFront   *bool    `json:"isFront,omitempty"`
	Rotation  *int     `json:"rotation,omitempty"`
	Width     *int     `json:"width,omitempty"`
	Barcodes  []string `json:"barcodes,omitempty"`
}

// SplitDocumentInfo describes one cut of SplitAndClassify.
type SplitDocumentInfo struct {
	SplitIndex              int     `json:"splitIndex"`
	DocumentTypeID          string  `json:"documentTypeId,omitempty"`
	ClassificationConfident bool    `json:"classificationConfident"`
	ConfidenceLevel         float64 `json:"confidenceLevel"`
	ReviewValid             bool    `json:"reviewValid"`
}

// DocumentState is the document context supplied to whole-document field validation.
type DocumentState struct {
	PageCount   int  `json:"pageCount"`
	Rejected    bool `json:"rejected"`
	ReviewValid bool `json:"reviewValid"`
}

// FieldValidationResult is the outcome of validating a single field value.
type FieldValidationResult struct {
	Name         string `json:"name"                   yaml:"name"`
	Value        string `json:"value"                  yaml:"value"`
	Valid        bool   `json:"valid"                  yaml:"valid"`
	ErrorMessage string `json:"errorMessage,omitempty" yaml:"errorMessage,omitempty"`
}

// ValidationResult aggregates per-field results.
type ValidationResult struct {
	Valid  bool                    `json:"valid"  yaml:"valid"`
	Fields []FieldValidationResult `json:"fields" yaml:"fields"`
}

// ReviewValidationResult is the outcome of a review validation.
type ReviewValidationResult struct {
	ReviewValid bool   `json:"reviewValid"       yaml:"reviewValid"`
	Message     string `json:"message,omitempty" yaml:"message,omitempty"`
}

// ValidationExecutionContext describes the context validation rules run in.
type ValidationExecutionContext struct {
	DocumentID     string `json:"documentId"     yaml:"documentId"`
	DocumentTypeID string `json:"documentTypeId" yaml:"documentTypeId"`
	FolderID       string `json:"folderId"       yaml:"folderId"`
	PageCount      int    `json:"pageCount"      yaml:"pageCount"`
}
