package client

import (
	"context"
	"fmt"

	"github.com/fivetwenty-io/capture-client/internal/constants"
	"github.com/fivetwenty-io/capture-client/pkg/capture"
)

// ValidationClient implements capture.ValidationClient.
type ValidationClient struct {
	caller *caller
}

// NewValidationClient creates a new validation client.
func NewValidationClient(c *caller) *ValidationClient {
	return &ValidationClient{
		caller: c,
	}
}

// ValidateDocument implements capture.ValidationClient.ValidateDocument.
func (c *ValidationClient) ValidateDocument(ctx context.Context, documentID string) (bool, error) {
	var valid bool

	err := c.caller.call(ctx, constants.OpValidateDocument, args{"documentId": documentID}, &valid)
	if err != nil {
		return false, fmt.Errorf("validating document: %w", err)
	}

	return valid, nil
}

// ValidateField implements capture.ValidationClient.ValidateField.
func (c *ValidationClient) ValidateField(ctx context.Context, documentTypeID string, field capture.RuntimeField) (*capture.FieldValidationResult, error) {
	err := field.Validate()
	if err != nil {
		return nil, fmt.Errorf("invalid field: %w", err)
	}

	var result capture.FieldValidationResult

	err = c.caller.call(ctx, constants.OpValidateDocumentField, args{
		"documentTypeId": documentTypeID,
		"field":          field,
	}, &result)
	if err != nil {
		return nil, fmt.Errorf("validating field: %w", err)
	}

	return &result, nil
}

// ValidateFields implements capture.ValidationClient.ValidateFields.
func (c *ValidationClient) ValidateFields(ctx context.Context, documentTypeID string, fields []capture.RuntimeField) ([]capture.FieldValidationResult, error) {
	var results []capture.FieldValidationResult

	err := c.caller.call(ctx, constants.OpValidateDocumentFields, args{
		"documentTypeId": documentTypeID,
		"fields":         fields,
	}, &results)
	if err != nil {
		return nil, fmt.Errorf("validating fields: %w", err)
	}

	return results, nil
}

// ValidateAllFields implements capture.ValidationClient.ValidateAllFields.
func (c *ValidationClient) ValidateAllFields(ctx context.Context, documentTypeID string, fields []capture.RuntimeField, state *capture.DocumentState) (*capture.ValidationResult, error) {
	var result capture.ValidationResult

	err := c.caller.call(ctx, constants.OpValidateAllDocumentFields, args{
		"documentTypeId": documentTypeID,
		"fields":         fields,
		"state":          state,
	}, &result)
	if err != nil {
		return nil, fmt.Errorf("validating all fields: %w", err)
	}

	return &result, nil
}

// RunFieldsValidation implements capture.ValidationClient.RunFieldsValidation.
func (c *ValidationClient) RunFieldsValidation(ctx context.Context, documentID string, fields ...capture.FieldIdentity) (*capture.ValidationResult, error) {
	var result capture.ValidationResult

	err := c.caller.call(ctx, constants.OpRunDocumentFieldsValidation, args{
		"documentId": documentID,
		"fields":     fields,
	}, &result)
	if err != nil {
		return nil, fmt.Errorf("running field validation: %w", err)
	}

	return &result, nil
}

// ValidateForReview implements capture.ValidationClient.ValidateForReview.
func (c *ValidationClient) ValidateForReview(ctx context.Context, documentID string) (*capture.ReviewValidationResult, error) {
	var result capture.ReviewValidationResult

	err := c.caller.call(ctx, constants.OpValidateDocumentForReview, args{"documentId": documentID}, &result)
	if err != nil {
		return nil, fmt.Errorf("validating document for review: %w", err)
	}

	return &result, nil
}

// GetExecutionContext implements capture.ValidationClient.GetExecutionContext.
func (c *ValidationClient) GetExecutionContext(ctx context.Context, documentID string) (*capture.ValidationExecutionContext, error) {
	var execCtx capture.ValidationExecutionContext

	err := c.caller.call(ctx, constants.OpGetValidationContext, args{"documentId": documentID}, &execCtx)
	if err != nil {
		return nil, fmt.Errorf("getting validation context: %w", err)
	}

	return &execCtx, nil
}
