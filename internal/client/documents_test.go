package client

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fivetwenty-io/capture-client/internal/constants"
	"github.com/fivetwenty-io/capture-client/pkg/capture"
)

//nolint:funlen // Test functions can be longer for comprehensive testing
func TestDocumentsClient_Lifecycle(t *testing.T) {
	t.Parallel()

	RunOperationTests(t, []TestOperation{
		{
			Name:      "create",
			Operation: constants.OpCreateDocument,
			WantArgs: map[string]interface{}{
				"parentId":       "folder-1",
				"name":           "Invoice 1",
				"insertIndex":    0,
				"documentTypeId": "Invoice",
				"properties":     map[string]string{"Source": "scanner"},
			},
			Result: capture.CreatedDocument{DocumentID: "doc-1", FolderID: "folder-1"},
			Call: func(ctx context.Context, client *Client) (interface{}, error) {
				return client.Documents().Create(ctx, &capture.DocumentCreateRequest{
					ParentID:       "folder-1",
					Name:           "Invoice 1",
					InsertIndex:    0,
					DocumentTypeID: "Invoice",
					Properties:     map[string]string{"Source": "scanner"},
				})
			},
			Check: func(t *testing.T, result interface{}) {
				t.Helper()

				created, ok := result.(*capture.CreatedDocument)
				require.True(t, ok)
				assert.Equal(t, "doc-1", created.DocumentID)
				assert.Equal(t, "folder-1", created.FolderID)
			},
		},
		{
			Name:      "create with pages",
			Operation: constants.OpCreateDocumentWithPages,
			WantArgs: map[string]interface{}{
				"insertIndex": -1,
				"pages": []capture.PageImage{
					{MimeType: constants.MimeTypeTIFF, Data: []byte("page-1")},
					{MimeType: constants.MimeTypeTIFF, Data: []byte("page-2")},
				},
			},
			Result: capture.CreatedDocument{DocumentID: "doc-2", FolderID: "implicit"},
			Call: func(ctx context.Context, client *Client) (interface{}, error) {
				return client.Documents().CreateWithPages(ctx, &capture.DocumentWithPagesCreateRequest{
					DocumentCreateRequest: capture.DocumentCreateRequest{InsertIndex: capture.AppendIndex},
					Pages: []capture.PageImage{
						{MimeType: constants.MimeTypeTIFF, Data: []byte("page-1")},
						{MimeType: constants.MimeTypeTIFF, Data: []byte("page-2")},
					},
				})
			},
		},
		{
			Name:      "create with pages requires pages",
			NoRequest: true,
			WantErr:   true,
			Call: func(ctx context.Context, client *Client) (interface{}, error) {
				return client.Documents().CreateWithPages(ctx, &capture.DocumentWithPagesCreateRequest{
					DocumentCreateRequest: capture.DocumentCreateRequest{InsertIndex: capture.AppendIndex},
				})
			},
		},
		{
			Name:      "get",
			Operation: constants.OpGetDocument,
			WantArgs:  map[string]interface{}{"documentId": "doc-1"},
			Result: capture.Document{
				ID:       "doc-1",
				FolderID: "folder-1",
				Pages:    []capture.Page{{ID: "p1"}, {ID: "p2"}},
			},
			Call: func(ctx context.Context, client *Client) (interface{}, error) {
				return client.Documents().Get(ctx, "doc-1")
			},
			Check: func(t *testing.T, result interface{}) {
				t.Helper()

				document, ok := result.(*capture.Document)
				require.True(t, ok)
				assert.Equal(t, []string{"p1", "p2"}, document.PageIDs())
			},
		},
		{
			Name:       "get unknown document",
			Operation:  constants.OpGetDocument,
			Fault:      fault(capture.FaultKindNotFound, "document not found"),
			StatusCode: http.StatusNotFound,
			WantErr:    true,
			ErrKind:    capture.FaultKindNotFound,
			ErrMessage: "getting document",
			Call: func(ctx context.Context, client *Client) (interface{}, error) {
				return client.Documents().Get(ctx, "missing")
			},
		},
		{
			Name:      "delete",
			Operation: constants.OpDeleteDocument,
			WantArgs:  map[string]interface{}{"documentId": "doc-1"},
			Call: func(ctx context.Context, client *Client) (interface{}, error) {
				return nil, client.Documents().Delete(ctx, "doc-1")
			},
		},
		{
			Name:      "delete many",
			Operation: constants.OpDeleteDocuments,
			WantArgs:  map[string]interface{}{"documentIds": []string{"doc-1", "doc-2"}},
			Call: func(ctx context.Context, client *Client) (interface{}, error) {
				return nil, client.Documents().DeleteMany(ctx, []string{"doc-1", "doc-2"})
			},
		},
		{
			Name:      "copy",
			Operation: constants.OpCopyDocument,
			WantArgs: map[string]interface{}{
				"documentId":          "doc-1",
				"destinationFolderId": "folder-2",
				"fieldNames":          []string{"Total"},
				"copyMode":            capture.CopyModeFields,
			},
			Result: "doc-3",
			Call: func(ctx context.Context, client *Client) (interface{}, error) {
				return client.Documents().Copy(ctx, &capture.DocumentCopyRequest{
					DocumentID:          "doc-1",
					DestinationFolderID: "folder-2",
					FieldNames:          []string{"Total"},
					Mode:                capture.CopyModeFields,
				})
			},
		},
		{
			Name:      "copy requires destination",
			NoRequest: true,
			WantErr:   true,
			Call: func(ctx context.Context, client *Client) (interface{}, error) {
				return client.Documents().Copy(ctx, &capture.DocumentCopyRequest{DocumentID: "doc-1"})
			},
		},
		{
			Name:      "copy with pages",
			Operation: constants.OpCopyDocumentWithPages,
			WantArgs:  map[string]interface{}{"documentId": "doc-1", "insertIndex": 1},
			Result:    "doc-4",
			Call: func(ctx context.Context, client *Client) (interface{}, error) {
				return client.Documents().CopyWithPages(ctx, "doc-1", 1)
			},
		},
		{
			Name:      "copy field values",
			Operation: constants.OpCopyDocumentFieldValues,
			WantArgs: map[string]interface{}{
				"sourceDocumentId":      "doc-1",
				"destinationDocumentId": "doc-2",
				"fields":                []capture.FieldIdentity{capture.FieldByName("Total")},
			},
			Call: func(ctx context.Context, client *Client) (interface{}, error) {
				return nil, client.Documents().CopyFieldValues(ctx, "doc-1", "doc-2", capture.FieldByName("Total"))
			},
		},
		{
			Name:      "move",
			Operation: constants.OpMoveDocument,
			WantArgs: map[string]interface{}{
				"documentId":          "doc-1",
				"destinationFolderId": "folder-2",
				"insertIndex":         -1,
			},
			Call: func(ctx context.Context, client *Client) (interface{}, error) {
				return nil, client.Documents().Move(ctx, "doc-1", "folder-2", capture.AppendIndex)
			},
		},
		{
			Name:      "split",
			Operation: constants.OpSplitDocument,
			WantArgs:  map[string]interface{}{"documentId": "doc-1", "pageIndex": 2},
			Result:    "doc-5",
			Call: func(ctx context.Context, client *Client) (interface{}, error) {
				return client.Documents().Split(ctx, "doc-1", 2)
			},
			Check: func(t *testing.T, result interface{}) {
				t.Helper()
				assert.Equal(t, "doc-5", result)
			},
		},
		{
			Name:      "split and classify",
			Operation: constants.OpSplitDocumentAndClassify,
			WantArgs: map[string]interface{}{
				"documentId": "doc-1",
				"splits": []capture.SplitDocumentInfo{
					{SplitIndex: 1, DocumentTypeID: "Invoice", ClassificationConfident: true, ConfidenceLevel: 0.9},
				},
			},
			Result: []string{"doc-1", "doc-6"},
			Call: func(ctx context.Context, client *Client) (interface{}, error) {
				return client.Documents().SplitAndClassify(ctx, "doc-1", []capture.SplitDocumentInfo{
					{SplitIndex: 1, DocumentTypeID: "Invoice", ClassificationConfident: true, ConfidenceLevel: 0.9},
				})
			},
			Check: func(t *testing.T, result interface{}) {
				t.Helper()
				assert.Equal(t, []string{"doc-1", "doc-6"}, result)
			},
		},
		{
			Name:      "merge",
			Operation: constants.OpMergeDocuments,
			WantArgs:  map[string]interface{}{"documentIds": []string{"doc-1", "doc-2"}},
			Result:    "doc-1",
			Call: func(ctx context.Context, client *Client) (interface{}, error) {
				return client.Documents().Merge(ctx, []string{"doc-1", "doc-2"})
			},
		},
		{
			Name:      "reject",
			Operation: constants.OpRejectDocument,
			WantArgs:  map[string]interface{}{"documentId": "doc-1", "reason": "illegible"},
			Call: func(ctx context.Context, client *Client) (interface{}, error) {
				return nil, client.Documents().Reject(ctx, "doc-1", "illegible")
			},
		},
		{
			Name:      "unreject",
			Operation: constants.OpUnrejectDocuments,
			WantArgs:  map[string]interface{}{"documentIds": []string{"doc-1"}},
			Call: func(ctx context.Context, client *Client) (interface{}, error) {
				return nil, client.Documents().Unreject(ctx, []string{"doc-1"})
			},
		},
		{
			Name:      "set status",
			Operation: constants.OpSetDocumentStatus,
			WantArgs: map[string]interface{}{
				"documentId": "doc-1",
				"status":     capture.ItemStatusReviewValid,
			},
			Call: func(ctx context.Context, client *Client) (interface{}, error) {
				return nil, client.Documents().SetStatus(ctx, "doc-1", capture.ItemStatusReviewValid, "")
			},
		},
		{
			Name:       "verify field on invalid document",
			Operation:  constants.OpSetDocumentFieldStatus,
			Fault:      fault(capture.FaultKindPrecondition, "document is not valid"),
			StatusCode: http.StatusPreconditionFailed,
			WantErr:    true,
			ErrKind:    capture.FaultKindPrecondition,
			Call: func(ctx context.Context, client *Client) (interface{}, error) {
				return nil, client.Documents().SetFieldStatus(ctx, "doc-1", &capture.FieldStatusRequest{
					Field:  capture.FieldByName("Total"),
					Status: capture.FieldStatusVerified,
				})
			},
		},
	})
}

func TestDocumentsClient_MergeNeedsTwoDocuments(t *testing.T) {
	t.Parallel()

	client := NewTestClient("http://127.0.0.1:1")

	for _, documentIDs := range [][]string{nil, {"doc-1"}} {
		_, err := client.Documents().Merge(context.Background(), documentIDs)
		require.Error(t, err)
		assert.True(t, errors.Is(err, capture.ErrNotEnoughDocuments))
	}
}

//nolint:funlen // Test functions can be longer for comprehensive testing
func TestDocumentsClient_Fields(t *testing.T) {
	t.Parallel()

	width := 120

	RunOperationTests(t, []TestOperation{
		{
			Name:      "get field value",
			Operation: constants.OpGetDocumentFieldValue,
			WantArgs: map[string]interface{}{
				"documentId": "doc-1",
				"field":      capture.FieldByName("Lines").InTable(1, 0),
			},
			Result: capture.FieldValue{FieldIdentity: capture.FieldByName("Lines").InTable(1, 0), Value: "Widget", Valid: true},
			Call: func(ctx context.Context, client *Client) (interface{}, error) {
				return client.Documents().GetFieldValue(ctx, "doc-1", capture.FieldByName("Lines").InTable(1, 0))
			},
			Check: func(t *testing.T, result interface{}) {
				t.Helper()

				value, ok := result.(*capture.FieldValue)
				require.True(t, ok)
				assert.Equal(t, "Widget", value.Value)
				require.True(t, value.IsTableCell())
				assert.Equal(t, 1, value.Cell.Row)
			},
		},
		{
			Name:      "get field alternatives",
			Operation: constants.OpGetDocumentFieldsAlternatives,
			WantArgs: map[string]interface{}{
				"documentId":      "doc-1",
				"maxAlternatives": 3,
				"fields":          []capture.FieldIdentity{capture.FieldByName("Total")},
			},
			Result: []capture.FieldAlternatives{{
				FieldIdentity: capture.FieldByName("Total"),
				Alternatives:  []capture.FieldValue{{Value: "10.00"}, {Value: "100.00"}},
			}},
			Call: func(ctx context.Context, client *Client) (interface{}, error) {
				return client.Documents().GetFieldAlternatives(ctx, "doc-1", 3, capture.FieldByName("Total"))
			},
			Check: func(t *testing.T, result interface{}) {
				t.Helper()

				alternatives, ok := result.([]capture.FieldAlternatives)
				require.True(t, ok)
				require.Len(t, alternatives, 1)
				assert.Len(t, alternatives[0].Alternatives, 2)
			},
		},
		{
			Name:      "update field values",
			Operation: constants.OpUpdateDocumentFieldValues,
			WantArgs: map[string]interface{}{
				"documentId": "doc-1",
				"fields":     []capture.RuntimeField{capture.Field("Total", "10.00")},
			},
			Call: func(ctx context.Context, client *Client) (interface{}, error) {
				return nil, capture.UpdateFieldValue(ctx, client.Documents(), "doc-1", capture.Field("Total", "10.00"))
			},
		},
		{
			Name:      "update requires fields",
			NoRequest: true,
			WantErr:   true,
			Call: func(ctx context.Context, client *Client) (interface{}, error) {
				return nil, client.Documents().UpdateFieldValues(ctx, "doc-1")
			},
		},
		{
			Name:      "update field properties",
			Operation: constants.OpUpdateDocumentFieldPropertyValues,
			WantArgs: map[string]interface{}{
				"documentId": "doc-1",
				"field":      capture.FieldByName("Total"),
				"properties": capture.FieldProperties{Width: &width},
			},
			Call: func(ctx context.Context, client *Client) (interface{}, error) {
				return nil, client.Documents().UpdateFieldProperties(ctx, "doc-1", capture.FieldByName("Total"), &capture.FieldProperties{Width: &width})
			},
		},
		{
			Name:      "update field properties requires identity",
			NoRequest: true,
			WantErr:   true,
			Call: func(ctx context.Context, client *Client) (interface{}, error) {
				return nil, client.Documents().UpdateFieldProperties(ctx, "doc-1", capture.FieldIdentity{}, &capture.FieldProperties{})
			},
		},
		{
			Name:      "insert table row",
			Operation: constants.OpInsertTableFieldRow,
			WantArgs: map[string]interface{}{
				"documentId": "doc-1",
				"field":      capture.FieldByName("Lines"),
				"rowIndex":   2,
			},
			Call: func(ctx context.Context, client *Client) (interface{}, error) {
				return nil, client.Documents().InsertTableRow(ctx, "doc-1", capture.FieldByName("Lines"), 2)
			},
		},
		{
			Name:      "update type",
			Operation: constants.OpUpdateDocumentType,
			WantArgs: map[string]interface{}{
				"documentId":   "doc-1",
				"documentType": capture.DocumentType{ID: "Invoice"},
			},
			Call: func(ctx context.Context, client *Client) (interface{}, error) {
				return nil, client.Documents().UpdateType(ctx, "doc-1", capture.DocumentType{ID: "Invoice"})
			},
		},
		{
			Name:      "update type with confidence",
			Operation: constants.OpUpdateDocumentTypeWithConfidence,
			WantArgs: map[string]interface{}{
				"documentType":            capture.DocumentType{ID: "Invoice"},
				"classificationConfident": true,
				"confidenceLevel":         0.75,
			},
			Call: func(ctx context.Context, client *Client) (interface{}, error) {
				return nil, client.Documents().UpdateTypeWithConfidence(ctx, "doc-1", capture.DocumentType{ID: "Invoice"}, true, 0.75)
			},
		},
	})
}

//nolint:funlen // Test functions can be longer for comprehensive testing
func TestDocumentsClient_Files(t *testing.T) {
	t.Parallel()

	RunOperationTests(t, []TestOperation{
		{
			Name:      "update source file",
			Operation: constants.OpUpdateSourceFile,
			WantArgs: map[string]interface{}{
				"documentId": "doc-1",
				"sourceFile": capture.SourceFile{FileName: "scan.pdf", MimeType: constants.MimeTypePDF, Data: []byte("%PDF")},
			},
			Call: func(ctx context.Context, client *Client) (interface{}, error) {
				return nil, client.Documents().UpdateSourceFile(ctx, "doc-1", &capture.SourceFile{
					FileName: "scan.pdf",
					MimeType: constants.MimeTypePDF,
					Data:     []byte("%PDF"),
				})
			},
		},
		{
			Name:      "get source file",
			Operation: constants.OpGetSourceFile,
			Result:    capture.SourceFile{FileName: "scan.pdf", MimeType: constants.MimeTypePDF, Data: []byte("%PDF")},
			Call: func(ctx context.Context, client *Client) (interface{}, error) {
				return client.Documents().GetSourceFile(ctx, "doc-1")
			},
			Check: func(t *testing.T, result interface{}) {
				t.Helper()

				file, ok := result.(*capture.SourceFile)
				require.True(t, ok)
				assert.Equal(t, []byte("%PDF"), file.Data)
			},
		},
		{
			Name:      "get file",
			Operation: constants.OpGetDocumentFile,
			WantArgs:  map[string]interface{}{"documentId": "doc-1", "fileType": "pdf"},
			Result:    []byte("%PDF-1.7"),
			Call: func(ctx context.Context, client *Client) (interface{}, error) {
				return client.Documents().GetFile(ctx, "doc-1", "pdf")
			},
			Check: func(t *testing.T, result interface{}) {
				t.Helper()
				assert.Equal(t, []byte("%PDF-1.7"), result)
			},
		},
		{
			Name:       "get file of wrong type",
			Operation:  constants.OpGetDocumentFile,
			Fault:      fault(capture.FaultKindInvalidOperation, "no tiff file"),
			StatusCode: http.StatusConflict,
			WantErr:    true,
			ErrKind:    capture.FaultKindInvalidOperation,
			Call: func(ctx context.Context, client *Client) (interface{}, error) {
				return client.Documents().GetFile(ctx, "doc-1", "tiff")
			},
		},
		{
			Name:      "get rejected pages",
			Operation: constants.OpGetRejectedPages,
			Result:    capture.RejectedPages{DocumentID: "doc-1", PageIndexes: []int{1}, Reasons: map[int]string{1: "blank"}},
			Call: func(ctx context.Context, client *Client) (interface{}, error) {
				return client.Documents().GetRejectedPages(ctx, "doc-1")
			},
			Check: func(t *testing.T, result interface{}) {
				t.Helper()

				rejected, ok := result.(*capture.RejectedPages)
				require.True(t, ok)
				assert.Equal(t, []int{1}, rejected.PageIndexes)
				assert.Equal(t, "blank", rejected.Reasons[1])
			},
		},
		{
			Name:      "save text extension",
			Operation: constants.OpSaveTextExtension,
			WantArgs:  map[string]interface{}{"documentId": "doc-1", "name": "ocr", "value": "hello"},
			Call: func(ctx context.Context, client *Client) (interface{}, error) {
				return nil, client.Documents().SaveTextExtension(ctx, "doc-1", "ocr", "hello")
			},
		},
		{
			Name:      "get text extension",
			Operation: constants.OpGetTextExtension,
			WantArgs:  map[string]interface{}{"documentId": "doc-1", "name": "ocr"},
			Result:    "hello",
			Call: func(ctx context.Context, client *Client) (interface{}, error) {
				return client.Documents().GetTextExtension(ctx, "doc-1", "ocr")
			},
			Check: func(t *testing.T, result interface{}) {
				t.Helper()
				assert.Equal(t, "hello", result)
			},
		},
		{
			Name:       "get missing text extension",
			Operation:  constants.OpGetTextExtension,
			Fault:      fault(capture.FaultKindNotFound, "extension not found"),
			StatusCode: http.StatusNotFound,
			WantErr:    true,
			ErrKind:    capture.FaultKindNotFound,
			Call: func(ctx context.Context, client *Client) (interface{}, error) {
				return client.Documents().GetTextExtension(ctx, "doc-1", "missing")
			},
		},
		{
			Name:      "delete extension",
			Operation: constants.OpDeleteExtension,
			WantArgs:  map[string]interface{}{"documentId": "doc-1", "name": "ocr"},
			Call: func(ctx context.Context, client *Client) (interface{}, error) {
				return nil, client.Documents().DeleteExtension(ctx, "doc-1", "ocr")
			},
		},
	})
}
