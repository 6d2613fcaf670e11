package client

import (
	"context"
	"fmt"

	"github.com/fivetwenty-io/capture-client/internal/constants"
	"github.com/fivetwenty-io/capture-client/pkg/capture"
)

// FoldersClient implements capture.FoldersClient.
type FoldersClient struct {
	caller *caller
}

// NewFoldersClient creates a new folders client.
func NewFoldersClient(c *caller) *FoldersClient {
	return &FoldersClient{
		caller: c,
	}
}

// Create implements capture.FoldersClient.Create.
func (c *FoldersClient) Create(ctx context.Context, request *capture.FolderCreateRequest) (string, error) {
	err := request.Validate()
	if err != nil {
		return "", fmt.Errorf("invalid folder request: %w", err)
	}

	var folderID string

	err = c.caller.call(ctx, constants.OpCreateFolder, args{
		"parentId":     request.ParentID,
		"name":         request.Name,
		"folderTypeId": request.FolderTypeID,
		"fields":       request.Fields,
		"insertIndex":  request.InsertIndex,
	}, &folderID)
	if err != nil {
		return "", fmt.Errorf("creating folder: %w", err)
	}

	return folderID, nil
}

// CreateOnlineLearning implements capture.FoldersClient.CreateOnlineLearning.
func (c *FoldersClient) CreateOnlineLearning(ctx context.Context, documentCount int) (string, error) {
	var folderID string

	err := c.caller.call(ctx, constants.OpCreateOnlineLearningFolder, args{"documentCount": documentCount}, &folderID)
	if err != nil {
		return "", fmt.Errorf("creating online learning folder: %w", err)
	}

	return folderID, nil
}

// Get implements capture.FoldersClient.Get.
func (c *FoldersClient) Get(ctx context.Context, folderID string) (*capture.Folder, error) {
	var folder capture.Folder

	err := c.caller.call(ctx, constants.OpGetFolder, args{"folderId": folderID}, &folder)
	if err != nil {
		return nil, fmt.Errorf("getting folder: %w", err)
	}

	return &folder, nil
}

// Delete implements capture.FoldersClient.Delete.
func (c *FoldersClient) Delete(ctx context.Context, folderID string, options *capture.DeleteOptions, force bool) error {
	if options == nil {
		options = &capture.DeleteOptions{}
	}

	err := c.caller.call(ctx, constants.OpDeleteFolder, args{
		"folderId": folderID,
		"options":  options,
		"force":    force,
	}, nil)
	if err != nil {
		return fmt.Errorf("deleting folder: %w", err)
	}

	return nil
}

// Move implements capture.FoldersClient.Move. The service rejects moves that
// change the folder's depth with an InvalidOperation fault.
func (c *FoldersClient) Move(ctx context.Context, folderID, newParentID string, index int) error {
	err := c.caller.call(ctx, constants.OpMoveFolder, args{
		"folderId":    folderID,
		"newParentId": newParentID,
		"index":       index,
	}, nil)
	if err != nil {
		return fmt.Errorf("moving folder: %w", err)
	}

	return nil
}

// Split implements capture.FoldersClient.Split.
func (c *FoldersClient) Split(ctx context.Context, folderID string, documentIndex int) (string, error) {
	var newFolderID string

	err := c.caller.call(ctx, constants.OpSplitFolder, args{
		"folderId":      folderID,
		"documentIndex": documentIndex,
	}, &newFolderID)
	if err != nil {
		return "", fmt.Errorf("splitting folder: %w", err)
	}

	return newFolderID, nil
}

// SetStatus implements capture.FoldersClient.SetStatus.
func (c *FoldersClient) SetStatus(ctx context.Context, folderID string, status capture.ItemStatus, message string) error {
	err := c.caller.call(ctx, constants.OpSetFolderStatus, args{
		"folderId": folderID,
		"status":   status,
		"message":  message,
	}, nil)
	if err != nil {
		return fmt.Errorf("setting folder status: %w", err)
	}

	return nil
}

// SetFieldStatus implements capture.FoldersClient.SetFieldStatus.
func (c *FoldersClient) SetFieldStatus(ctx context.Context, folderID string, request *capture.FieldStatusRequest) error {
	err := request.Validate()
	if err != nil {
		return fmt.Errorf("invalid field status request: %w", err)
	}

	err = c.caller.call(ctx, constants.OpSetFolderFieldStatus, fieldStatusArgs("folderId", folderID, request), nil)
	if err != nil {
		return fmt.Errorf("setting folder field status: %w", err)
	}

	return nil
}

// GetFieldValues implements capture.FoldersClient.GetFieldValues. With no
// fields every folder field is returned.
func (c *FoldersClient) GetFieldValues(ctx context.Context, folderID string, fields ...capture.FieldIdentity) ([]capture.FieldValue, error) {
	var values []capture.FieldValue

	err := c.caller.call(ctx, constants.OpGetFolderFieldValues, args{
		"folderId": folderID,
		"fields":   fields,
	}, &values)
	if err != nil {
		return nil, fmt.Errorf("getting folder field values: %w", err)
	}

	return values, nil
}

// UpdateFieldValues implements capture.FieldUpdater.
func (c *FoldersClient) UpdateFieldValues(ctx context.Context, folderID string, fields ...capture.RuntimeField) error {
	err := capture.ValidateFieldUpdates(fields)
	if err != nil {
		return fmt.Errorf("invalid field updates: %w", err)
	}

	err = c.caller.call(ctx, constants.OpUpdateFolderFieldValues, args{
		"folderId": folderID,
		"fields":   fields,
	}, nil)
	if err != nil {
		return fmt.Errorf("updating folder field values: %w", err)
	}

	return nil
}

func fieldStatusArgs(ownerKey, ownerID string, request *capture.FieldStatusRequest) args {
	return args{
		ownerKey:       ownerID,
		"field":        request.Field,
		"status":       request.Status,
		"errorMessage": request.ErrorMessage,
		"value":        request.Value,
		"confident":    request.Confident,
	}
}
