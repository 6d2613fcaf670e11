package client

import (
	"context"
	"fmt"

	"github.com/fivetwenty-io/capture-client/internal/constants"
	"github.com/fivetwenty-io/capture-client/pkg/capture"
)

const minMergeDocuments = 2

// DocumentsClient implements capture.DocumentsClient.
type DocumentsClient struct {
	caller *caller
}

// NewDocumentsClient creates a new documents client.
func NewDocumentsClient(c *caller) *DocumentsClient {
	return &DocumentsClient{
		caller: c,
	}
}

func documentCreateArgs(request *capture.DocumentCreateRequest) args {
	return args{
		"parentId":       request.ParentID,
		"name":           request.Name,
		"fields":         request.Fields,
		"filePath":       request.FilePath,
		"insertIndex":    request.InsertIndex,
		"documentTypeId": request.DocumentTypeID,
		"properties":     request.Properties,
	}
}

// Create implements capture.DocumentsClient.Create.
func (c *DocumentsClient) Create(ctx context.Context, request *capture.DocumentCreateRequest) (*capture.CreatedDocument, error) {
	err := request.Validate()
	if err != nil {
		return nil, fmt.Errorf("invalid document request: %w", err)
	}

	var created capture.CreatedDocument

	err = c.caller.call(ctx, constants.OpCreateDocument, documentCreateArgs(request), &created)
	if err != nil {
		return nil, fmt.Errorf("creating document: %w", err)
	}

	return &created, nil
}

// CreateWithPages implements capture.DocumentsClient.CreateWithPages.
func (c *DocumentsClient) CreateWithPages(ctx context.Context, request *capture.DocumentWithPagesCreateRequest) (*capture.CreatedDocument, error) {
	err := request.Validate()
	if err != nil {
		return nil, fmt.Errorf("invalid document request: %w", err)
	}

	body := documentCreateArgs(&request.DocumentCreateRequest)
	body["pages"] = request.Pages

	var created capture.CreatedDocument

	err = c.caller.call(ctx, constants.OpCreateDocumentWithPages, body, &created)
	if err != nil {
		return nil, fmt.Errorf("creating document with pages: %w", err)
	}

	return &created, nil
}

// Get implements capture.DocumentsClient.Get.
func (c *DocumentsClient) Get(ctx context.Context, documentID string) (*capture.Document, error) {
	var document capture.Document

	err := c.caller.call(ctx, constants.OpGetDocument, args{"documentId": documentID}, &document)
	if err != nil {
		return nil, fmt.Errorf("getting document: %w", err)
	}

	return &document, nil
}

// Delete implements capture.DocumentsClient.Delete.
func (c *DocumentsClient) Delete(ctx context.Context, documentID string) error {
	err := c.caller.call(ctx, constants.OpDeleteDocument, args{"documentId": documentID}, nil)
	if err != nil {
		return fmt.Errorf("deleting document: %w", err)
	}

	return nil
}

// DeleteMany implements capture.DocumentsClient.DeleteMany.
func (c *DocumentsClient) DeleteMany(ctx context.Context, documentIDs []string) error {
	err := c.caller.call(ctx, constants.OpDeleteDocuments, args{"documentIds": documentIDs}, nil)
	if err != nil {
		return fmt.Errorf("deleting documents: %w", err)
	}

	return nil
}

// Copy implements capture.DocumentsClient.Copy.
func (c *DocumentsClient) Copy(ctx context.Context, request *capture.DocumentCopyRequest) (string, error) {
	err := request.Validate()
	if err != nil {
		return "", fmt.Errorf("invalid copy request: %w", err)
	}

	var documentID string

	err = c.caller.call(ctx, constants.OpCopyDocument, args{
		"documentId":          request.DocumentID,
		"destinationFolderId": request.DestinationFolderID,
		"fieldNames":          request.FieldNames,
		"copyMode":            request.Mode,
	}, &documentID)
	if err != nil {
		return "", fmt.Errorf("copying document: %w", err)
	}

	return documentID, nil
}

// CopyWithPages implements capture.DocumentsClient.CopyWithPages. The copy
// lands in the source document's folder.
func (c *DocumentsClient) CopyWithPages(ctx context.Context, documentID string, insertIndex int) (string, error) {
	var copyID string

	err := c.caller.call(ctx, constants.OpCopyDocumentWithPages, args{
		"documentId":  documentID,
		"insertIndex": insertIndex,
	}, &copyID)
	if err != nil {
		return "", fmt.Errorf("copying document with pages: %w", err)
	}

	return copyID, nil
}

// CopyFieldValues implements capture.DocumentsClient.CopyFieldValues.
func (c *DocumentsClient) CopyFieldValues(ctx context.Context, sourceID, destinationID string, fields ...capture.FieldIdentity) error {
	err := c.caller.call(ctx, constants.OpCopyDocumentFieldValues, args{
		"sourceDocumentId":      sourceID,
		"destinationDocumentId": destinationID,
		"fields":                fields,
	}, nil)
	if err != nil {
		return fmt.Errorf("copying document field values: %w", err)
	}

	return nil
}

// Move implements capture.DocumentsClient.Move.
func (c *DocumentsClient) Move(ctx context.Context, documentID, destinationFolderID string, insertIndex int) error {
	err := c.caller.call(ctx, constants.OpMoveDocument, args{
		"documentId":          documentID,
		"destinationFolderId": destinationFolderID,
		"insertIndex":         insertIndex,
	}, nil)
	if err != nil {
		return fmt.Errorf("moving document: %w", err)
	}

	return nil
}

// Split implements capture.DocumentsClient.Split. Pages from pageIndex on
// move into a new document placed right after the original.
func (c *DocumentsClient) Split(ctx context.Context, documentID string, pageIndex int) (string, error) {
	var newDocumentID string

	err := c.caller.call(ctx, constants.OpSplitDocument, args{
		"documentId": documentID,
		"pageIndex":  pageIndex,
	}, &newDocumentID)
	if err != nil {
		return "", fmt.Errorf("splitting document: %w", err)
	}

	return newDocumentID, nil
}

// SplitAndClassify implements capture.DocumentsClient.SplitAndClassify.
func (c *DocumentsClient) SplitAndClassify(ctx context.Context, documentID string, splits []capture.SplitDocumentInfo) ([]string, error) {
	var documentIDs []string

	err := c.caller.call(ctx, constants.OpSplitDocumentAndClassify, args{
		"documentId": documentID,
		"splits":     splits,
	}, &documentIDs)
	if err != nil {
		return nil, fmt.Errorf("splitting and classifying document: %w", err)
	}

	return documentIDs, nil
}

// Merge implements capture.DocumentsClient.Merge. The first document
// survives and receives the pages of the others, in order.
func (c *DocumentsClient) Merge(ctx context.Context, documentIDs []string) (string, error) {
	if len(documentIDs) < minMergeDocuments {
		return "", capture.ErrNotEnoughDocuments
	}

	var documentID string

	err := c.caller.call(ctx, constants.OpMergeDocuments, args{"documentIds": documentIDs}, &documentID)
	if err != nil {
		return "", fmt.Errorf("merging documents: %w", err)
	}

	return documentID, nil
}

// Reject implements capture.DocumentsClient.Reject.
func (c *DocumentsClient) Reject(ctx context.Context, documentID, reason string) error {
	err := c.caller.call(ctx, constants.OpRejectDocument, args{
		"documentId": documentID,
		"reason":     reason,
	}, nil)
	if err != nil {
		return fmt.Errorf("rejecting document: %w", err)
	}

	return nil
}

// Unreject implements capture.DocumentsClient.Unreject.
func (c *DocumentsClient) Unreject(ctx context.Context, documentIDs []string) error {
	err := c.caller.call(ctx, constants.OpUnrejectDocuments, args{"documentIds": documentIDs}, nil)
	if err != nil {
		return fmt.Errorf("unrejecting documents: %w", err)
	}

	return nil
}

// SetStatus implements capture.DocumentsClient.SetStatus.
func (c *DocumentsClient) SetStatus(ctx context.Context, documentID string, status capture.ItemStatus, message string) error {
	err := c.caller.call(ctx, constants.OpSetDocumentStatus, args{
		"documentId": documentID,
		"status":     status,
		"message":    message,
	}, nil)
	if err != nil {
		return fmt.Errorf("setting document status: %w", err)
	}

	return nil
}

// SetFieldStatus implements capture.DocumentsClient.SetFieldStatus. Verified
// fails with a Precondition fault while the document is not valid.
func (c *DocumentsClient) SetFieldStatus(ctx context.Context, documentID string, request *capture.FieldStatusRequest) error {
	err := request.Validate()
	if err != nil {
		return fmt.Errorf("invalid field status request: %w", err)
	}

	err = c.caller.call(ctx, constants.OpSetDocumentFieldStatus, fieldStatusArgs("documentId", documentID, request), nil)
	if err != nil {
		return fmt.Errorf("setting document field status: %w", err)
	}

	return nil
}

// GetFieldValue implements capture.DocumentsClient.GetFieldValue.
func (c *DocumentsClient) GetFieldValue(ctx context.Context, documentID string, field capture.FieldIdentity) (*capture.FieldValue, error) {
	var value capture.FieldValue

	err := c.caller.call(ctx, constants.OpGetDocumentFieldValue, args{
		"documentId": documentID,
		"field":      field,
	}, &value)
	if err != nil {
		return nil, fmt.Errorf("getting document field value: %w", err)
	}

	return &value, nil
}

// GetFieldAlternatives implements capture.DocumentsClient.GetFieldAlternatives.
func (c *DocumentsClient) GetFieldAlternatives(ctx context.Context, documentID string, maxAlternatives int, fields ...capture.FieldIdentity) ([]capture.FieldAlternatives, error) {
	var alternatives []capture.FieldAlternatives

	err := c.caller.call(ctx, constants.OpGetDocumentFieldsAlternatives, args{
		"documentId":      documentID,
		"maxAlternatives": maxAlternatives,
		"fields":          fields,
	}, &alternatives)
	if err != nil {
		return nil, fmt.Errorf("getting document field alternatives: %w", err)
	}

	return alternatives, nil
}

// UpdateFieldValues implements capture.FieldUpdater.
func (c *DocumentsClient) UpdateFieldValues(ctx context.Context, documentID string, fields ...capture.RuntimeField) error {
	err := capture.ValidateFieldUpdates(fields)
	if err != nil {
		return fmt.Errorf("invalid field updates: %w", err)
	}

	err = c.caller.call(ctx, constants.OpUpdateDocumentFieldValues, args{
		"documentId": documentID,
		"fields":     fields,
	}, nil)
	if err != nil {
		return fmt.Errorf("updating document field values: %w", err)
	}

	return nil
}

// UpdateFieldProperties implements capture.DocumentsClient.UpdateFieldProperties.
func (c *DocumentsClient) UpdateFieldProperties(ctx context.Context, documentID string, field capture.FieldIdentity, properties *capture.FieldProperties) error {
	err := field.Validate()
	if err != nil {
		return fmt.Errorf("invalid field: %w", err)
	}

	err = c.caller.call(ctx, constants.OpUpdateDocumentFieldPropertyValues, args{
		"documentId": documentID,
		"field":      field,
		"properties": properties,
	}, nil)
	if err != nil {
		return fmt.Errorf("updating document field properties: %w", err)
	}

	return nil
}

// InsertTableRow implements capture.DocumentsClient.InsertTableRow.
func (c *DocumentsClient) InsertTableRow(ctx context.Context, documentID string, table capture.FieldIdentity, rowIndex int) error {
	err := c.caller.call(ctx, constants.OpInsertTableFieldRow, args{
		"documentId": documentID,
		"field":      table,
		"rowIndex":   rowIndex,
	}, nil)
	if err != nil {
		return fmt.Errorf("inserting table row: %w", err)
	}

	return nil
}

// UpdateType implements capture.DocumentsClient.UpdateType.
func (c *DocumentsClient) UpdateType(ctx context.Context, documentID string, documentType capture.DocumentType) error {
	err := c.caller.call(ctx, constants.OpUpdateDocumentType, args{
		"documentId":   documentID,
		"documentType": documentType,
	}, nil)
	if err != nil {
		return fmt.Errorf("updating document type: %w", err)
	}

	return nil
}

// UpdateTypeWithConfidence implements capture.DocumentsClient.UpdateTypeWithConfidence.
func (c *DocumentsClient) UpdateTypeWithConfidence(ctx context.Context, documentID string, documentType capture.DocumentType, confident bool, confidence float64) error {
	err := c.caller.call(ctx, constants.OpUpdateDocumentTypeWithConfidence, args{
		"documentId":              documentID,
		"documentType":            documentType,
		"classificationConfident": confident,
		"confidenceLevel":         confidence,
	}, nil)
	if err != nil {
		return fmt.Errorf("updating document type: %w", err)
	}

	return nil
}

// UpdateSourceFile implements capture.DocumentsClient.UpdateSourceFile.
func (c *DocumentsClient) UpdateSourceFile(ctx context.Context, documentID string, file *capture.SourceFile) error {
	err := c.caller.call(ctx, constants.OpUpdateSourceFile, args{
		"documentId": documentID,
		"sourceFile": file,
	}, nil)
	if err != nil {
		return fmt.Errorf("updating source file: %w", err)
	}

	return nil
}

// GetSourceFile implements capture.DocumentsClient.GetSourceFile.
func (c *DocumentsClient) GetSourceFile(ctx context.Context, documentID string) (*capture.SourceFile, error) {
	var file capture.SourceFile

	err := c.caller.call(ctx, constants.OpGetSourceFile, args{"documentId": documentID}, &file)
	if err != nil {
		return nil, fmt.Errorf("getting source file: %w", err)
	}

	return &file, nil
}

// GetFile implements capture.DocumentsClient.GetFile.
func (c *DocumentsClient) GetFile(ctx context.Context, documentID, fileType string) ([]byte, error) {
	var data []byte

	err := c.caller.call(ctx, constants.OpGetDocumentFile, args{
		"documentId": documentID,
		"fileType":   fileType,
	}, &data)
	if err != nil {
		return nil, fmt.Errorf("getting document file: %w", err)
	}

	return data, nil
}

// GetRejectedPages implements capture.DocumentsClient.GetRejectedPages.
func (c *DocumentsClient) GetRejectedPages(ctx context.Context, documentID string) (*capture.RejectedPages, error) {
	var rejected capture.RejectedPages

	err := c.caller.call(ctx, constants.OpGetRejectedPages, args{"documentId": documentID}, &rejected)
	if err != nil {
		return nil, fmt.Errorf("getting rejected pages: %w", err)
	}

	return &rejected, nil
}

// SaveTextExtension implements capture.DocumentsClient.SaveTextExtension.
func (c *DocumentsClient) SaveTextExtension(ctx context.Context, documentID, name, value string) error {
	err := c.caller.call(ctx, constants.OpSaveTextExtension, args{
		"documentId": documentID,
		"name":       name,
		"value":      value,
	}, nil)
	if err != nil {
		return fmt.Errorf("saving text extension: %w", err)
	}

	return nil
}

// GetTextExtension implements capture.DocumentsClient.GetTextExtension.
func (c *DocumentsClient) GetTextExtension(ctx context.Context, documentID, name string) (string, error) {
	var value string

	err := c.caller.call(ctx, constants.OpGetTextExtension, args{
		"documentId": documentID,
		"name":       name,
	}, &value)
	if err != nil {
		return "", fmt.Errorf("getting text extension: %w", err)
	}

	return value, nil
}

// DeleteExtension implements capture.DocumentsClient.DeleteExtension.
func (c *DocumentsClient) DeleteExtension(ctx context.Context, documentID, name string) error {
	err := c.caller.call(ctx, constants.OpDeleteExtension, args{
		"documentId": documentID,
		"name":       name,
	}, nil)
	if err != nil {
		return fmt.Errorf("deleting extension: %w", err)
	}

	return nil
}
