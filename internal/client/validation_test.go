package client

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fivetwenty-io/capture-client/internal/constants"
	"github.com/fivetwenty-io/capture-client/pkg/capture"
)

//nolint:funlen // Test functions can be longer for comprehensive testing
func TestValidationClient(t *testing.T) {
	t.Parallel()

	RunOperationTests(t, []TestOperation{
		{
			Name:      "validate document",
			Operation: constants.OpValidateDocument,
			WantArgs:  map[string]interface{}{"documentId": "doc-1"},
			Result:    true,
			Call: func(ctx context.Context, client *Client) (interface{}, error) {
				return client.Validation().ValidateDocument(ctx, "doc-1")
			},
			Check: func(t *testing.T, result interface{}) {
				t.Helper()
				assert.Equal(t, true, result)
			},
		},
		{
			Name:      "validate field",
			Operation: constants.OpValidateDocumentField,
			WantArgs: map[string]interface{}{
				"documentTypeId": "Invoice",
				"field":          capture.Field("Total", "abc"),
			},
			Result: capture.FieldValidationResult{Name: "Total", Value: "abc", ErrorMessage: "not a number"},
			Call: func(ctx context.Context, client *Client) (interface{}, error) {
				return client.Validation().ValidateField(ctx, "Invoice", capture.Field("Total", "abc"))
			},
			Check: func(t *testing.T, result interface{}) {
				t.Helper()

				validated, ok := result.(*capture.FieldValidationResult)
				require.True(t, ok)
				assert.False(t, validated.Valid)
				assert.Equal(t, "not a number", validated.ErrorMessage)
			},
		},
		{
			Name:      "validate field requires identity",
			NoRequest: true,
			WantErr:   true,
			Call: func(ctx context.Context, client *Client) (interface{}, error) {
				return client.Validation().ValidateField(ctx, "Invoice", capture.RuntimeField{Value: "abc"})
			},
		},
		{
			Name:      "validate fields",
			Operation: constants.OpValidateDocumentFields,
			WantArgs: map[string]interface{}{
				"documentTypeId": "Invoice",
				"fields":         []capture.RuntimeField{capture.Field("Total", "1"), capture.Field("Customer", "")},
			},
			Result: []capture.FieldValidationResult{
				{Name: "Total", Value: "1", Valid: true},
				{Name: "Customer", ErrorMessage: "value is required"},
			},
			Call: func(ctx context.Context, client *Client) (interface{}, error) {
				return client.Validation().ValidateFields(ctx, "Invoice", []capture.RuntimeField{
					capture.Field("Total", "1"),
					capture.Field("Customer", ""),
				})
			},
			Check: func(t *testing.T, result interface{}) {
				t.Helper()

				results, ok := result.([]capture.FieldValidationResult)
				require.True(t, ok)
				require.Len(t, results, 2)
				assert.True(t, results[0].Valid)
				assert.False(t, results[1].Valid)
			},
		},
		{
			Name:      "validate all fields",
			Operation: constants.OpValidateAllDocumentFields,
			WantArgs: map[string]interface{}{
				"documentTypeId": "Invoice",
				"state":          capture.DocumentState{PageCount: 2, Rejected: true},
			},
			Result: capture.ValidationResult{Valid: false},
			Call: func(ctx context.Context, client *Client) (interface{}, error) {
				return client.Validation().ValidateAllFields(ctx, "Invoice",
					[]capture.RuntimeField{capture.Field("Total", "1")},
					&capture.DocumentState{PageCount: 2, Rejected: true},
				)
			},
			Check: func(t *testing.T, result interface{}) {
				t.Helper()

				validated, ok := result.(*capture.ValidationResult)
				require.True(t, ok)
				assert.False(t, validated.Valid)
			},
		},
		{
			Name:      "run fields validation",
			Operation: constants.OpRunDocumentFieldsValidation,
			WantArgs: map[string]interface{}{
				"documentId": "doc-1",
				"fields":     []capture.FieldIdentity{capture.FieldByName("Total")},
			},
			Result: capture.ValidationResult{Valid: true, Fields: []capture.FieldValidationResult{{Name: "Total", Valid: true}}},
			Call: func(ctx context.Context, client *Client) (interface{}, error) {
				return client.Validation().RunFieldsValidation(ctx, "doc-1", capture.FieldByName("Total"))
			},
		},
		{
			Name:      "validate for review",
			Operation: constants.OpValidateDocumentForReview,
			Result:    capture.ReviewValidationResult{ReviewValid: true},
			Call: func(ctx context.Context, client *Client) (interface{}, error) {
				return client.Validation().ValidateForReview(ctx, "doc-1")
			},
			Check: func(t *testing.T, result interface{}) {
				t.Helper()

				review, ok := result.(*capture.ReviewValidationResult)
				require.True(t, ok)
				assert.True(t, review.ReviewValid)
			},
		},
		{
			Name:      "get execution context",
			Operation: constants.OpGetValidationContext,
			Result:    capture.ValidationExecutionContext{DocumentID: "doc-1", DocumentTypeID: "Invoice", PageCount: 3},
			Call: func(ctx context.Context, client *Client) (interface{}, error) {
				return client.Validation().GetExecutionContext(ctx, "doc-1")
			},
			Check: func(t *testing.T, result interface{}) {
				t.Helper()

				execCtx, ok := result.(*capture.ValidationExecutionContext)
				require.True(t, ok)
				assert.Equal(t, 3, execCtx.PageCount)
			},
		},
	})
}

func TestLocksClient(t *testing.T) {
	t.Parallel()

	RunOperationTests(t, []TestOperation{
		{
			Name:      "force unlock",
			Operation: constants.OpForceUnlockItem,
			WantArgs: map[string]interface{}{
				"item": capture.LockedItem{ID: "folder-1", Type: capture.ItemTypeFolder},
			},
			Call: func(ctx context.Context, client *Client) (interface{}, error) {
				return nil, client.Locks().ForceUnlock(ctx, capture.LockedItem{ID: "folder-1", Type: capture.ItemTypeFolder})
			},
		},
		{
			Name:       "force unlock an item that is not locked",
			Operation:  constants.OpForceUnlockItem,
			Fault:      fault(capture.FaultKindNotFound, "item is not locked"),
			StatusCode: http.StatusNotFound,
			WantErr:    true,
			ErrKind:    capture.FaultKindNotFound,
			ErrMessage: "unlocking item",
			Call: func(ctx context.Context, client *Client) (interface{}, error) {
				return nil, client.Locks().ForceUnlock(ctx, capture.LockedItem{ID: "doc-1"})
			},
		},
	})
}
