package capture

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// FolderCreateRequest creates a folder. An empty ParentID creates a root folder.
type FolderCreateRequest struct {
	ParentID     string         `json:"parentId,omitempty"`
	Name         string         `json:"name,omitempty"`
	FolderTypeID string         `json:"folderTypeId,omitempty"`
	Fields       []RuntimeField `json:"fields,omitempty"`
	// InsertIndex is the sibling position; AppendIndex places the folder last.
	InsertIndex int `json:"insertIndex"`
}

// Validate checks the request shape.
func (r *FolderCreateRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.InsertIndex, validation.Min(AppendIndex)),
		validation.Field(&r.Fields),
	)
}

// DocumentCreateRequest creates a document. An empty ParentID makes the
// service create the owning folder too.
type DocumentCreateRequest struct {
	ParentID       string            `json:"parentId,omitempty"`
	Name           string            `json:"name,omitempty"`
	Fields         []RuntimeField    `json:"fields,omitempty"`
	FilePath       string            `json:"filePath,omitempty"`
	InsertIndex    int               `json:"insertIndex"`
	DocumentTypeID string            `json:"documentTypeId,omitempty"`
	Properties     map[string]string `json:"properties,omitempty"`
}

// Validate checks the request shape.
func (r *DocumentCreateRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.InsertIndex, validation.Min(AppendIndex)),
		validation.Field(&r.Fields),
	)
}

// DocumentWithPagesCreateRequest creates a document and its pages in one call.
type DocumentWithPagesCreateRequest struct {
	DocumentCreateRequest

	Pages []PageImage `json:"pages"`
}

// Validate checks the request shape.
func (r *DocumentWithPagesCreateRequest) Validate() error {
	err := r.DocumentCreateRequest.Validate()
	if err != nil {
		return err
	}

	return validation.ValidateStruct(r,
		validation.Field(&r.Pages, validation.Required),
	)
}

// CopyMode selects how much of a document CopyDocument duplicates.
type CopyMode int

const (
	// CopyModeStructure copies the document and its classification only.
	CopyModeStructure CopyMode = iota
	// CopyModeFields also copies the named field values, or every field when none are named.
	CopyModeFields
	// CopyModeAll copies fields and pages.
	CopyModeAll
)

// DocumentCopyRequest copies a document into a destination folder.
type DocumentCopyRequest struct {
	DocumentID          string   `json:"documentId"`
	DestinationFolderID string   `json:"destinationFolderId"`
	FieldNames          []string `json:"fieldNames,omitempty"`
	Mode                CopyMode `json:"copyMode"`
}

// Validate checks the request shape.
func (r *DocumentCopyRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.DocumentID, validation.Required),
		validation.Field(&r.DestinationFolderID, validation.Required),
		validation.Field(&r.Mode, validation.Min(CopyModeStructure), validation.Max(CopyModeAll)),
	)
}

// PageMoveRequest moves pages by their current position.
type PageMoveRequest struct {
	SourceDocumentID      string `json:"sourceDocumentId"`
	DestinationDocumentID string `json:"destinationDocumentId"`
	PageIndexes           []int  `json:"pageIndexes"`
	InsertIndex           int    `json:"insertIndex"`
}

// Validate checks the request shape.
func (r *PageMoveRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.SourceDocumentID, validation.Required),
		validation.Field(&r.DestinationDocumentID, validation.Required),
		validation.Field(&r.PageIndexes, validation.Required, validation.Each(validation.Min(0))),
		validation.Field(&r.InsertIndex, validation.Min(AppendIndex)),
	)
}

// FieldStatusRequest asks the service to move a field to a new status.
// ErrorMessage accompanies Invalid, Value accompanies Confirmed and Confident
// accompanies ExtractionConfident.
type FieldStatusRequest struct {
	Field        FieldIdentity `json:"field"`
	Status       FieldStatus   `json:"status"`
	ErrorMessage string        `json:"errorMessage,omitempty"`
	Value        string        `json:"value,omitempty"`
	Confident    bool          `json:"confident,omitempty"`
}

// Validate checks the request shape. Transition rules are enforced by the service.
func (r *FieldStatusRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Field),
		validation.Field(&r.Status, validation.Min(FieldStatusInvalid), validation.Max(FieldStatusExtractionConfident)),
	)
}

// DeleteOptions tunes folder deletion.
type DeleteOptions struct {
	// KeepDocuments moves the folder's documents to its parent instead of deleting them.
	KeepDocuments bool `json:"keepDocuments"`
}

// ImageOptions scales or converts a fetched image. Zero values keep the stored image.
type ImageOptions struct {
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Format string `json:"format,omitempty"`
}
