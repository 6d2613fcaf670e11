package client

import (
	"context"
	"fmt"

	"github.com/fivetwenty-io/capture-client/internal/constants"
	"github.com/fivetwenty-io/capture-client/pkg/capture"
)

// PagesClient implements capture.PagesClient.
type PagesClient struct {
	caller    *caller
	documents capture.DocumentsClient
}

// NewPagesClient creates a new pages client. documents resolves page ids
// for MoveByID.
func NewPagesClient(c *caller, documents capture.DocumentsClient) *PagesClient {
	return &PagesClient{
		caller:    c,
		documents: documents,
	}
}

// Delete implements capture.PagesClient.Delete.
func (c *PagesClient) Delete(ctx context.Context, documentID string, pageIndexes []int) error {
	err := c.caller.call(ctx, constants.OpDeletePages, args{
		"documentId":  documentID,
		"pageIndexes": pageIndexes,
	}, nil)
	if err != nil {
		return fmt.Errorf("deleting pages: %w", err)
	}

	return nil
}

// Move implements capture.PagesClient.Move. Page positions shift after the
// move; re-fetch the documents before addressing pages again.
func (c *PagesClient) Move(ctx context.Context, request *capture.PageMoveRequest) error {
	err := request.Validate()
	if err != nil {
		return fmt.Errorf("invalid page move request: %w", err)
	}

	err = c.caller.call(ctx, constants.OpMovePages, args{
		"sourceDocumentId":      request.SourceDocumentID,
		"destinationDocumentId": request.DestinationDocumentID,
		"pageIndexes":           request.PageIndexes,
		"insertIndex":           request.InsertIndex,
	}, nil)
	if err != nil {
		return fmt.Errorf("moving pages: %w", err)
	}

	return nil
}

// MoveByID implements capture.PagesClient.MoveByID. It reads the source
// document to translate page ids into current positions, then moves them.
func (c *PagesClient) MoveByID(ctx context.Context, sourceDocumentID, destinationDocumentID string, pageIDs []string, insertIndex int) error {
	source, err := c.documents.Get(ctx, sourceDocumentID)
	if err != nil {
		return fmt.Errorf("resolving page ids: %w", err)
	}

	pageIndexes, err := capture.PageIndexesByID(source, pageIDs)
	if err != nil {
		return fmt.Errorf("resolving page ids: %w", err)
	}

	return c.Move(ctx, &capture.PageMoveRequest{
		SourceDocumentID:      sourceDocumentID,
		DestinationDocumentID: destinationDocumentID,
		PageIndexes:           pageIndexes,
		InsertIndex:           insertIndex,
	})
}

// Reject implements capture.PagesClient.Reject.
func (c *PagesClient) Reject(ctx context.Context, documentID string, pageIndexes []int, reason string) error {
	err := c.caller.call(ctx, constants.OpRejectPages, args{
		"documentId":  documentID,
		"pageIndexes": pageIndexes,
		"reason":      reason,
	}, nil)
	if err != nil {
		return fmt.Errorf("rejecting pages: %w", err)
	}

	return nil
}

// Update implements capture.PagesClient.Update.
func (c *PagesClient) Update(ctx context.Context, documentID string, updates []capture.PageUpdate) error {
	err := c.caller.call(ctx, constants.OpUpdatePages, args{
		"documentId": documentID,
		"pages":      updates,
	}, nil)
	if err != nil {
		return fmt.Errorf("updating pages: %w", err)
	}

	return nil
}

// SaveImage implements capture.PagesClient.SaveImage.
func (c *PagesClient) SaveImage(ctx context.Context, batchID string, image *capture.ImageData) (string, error) {
	var imageID string

	err := c.caller.call(ctx, constants.OpSavePageImage, args{
		"batchId":  batchID,
		"mimeType": image.MimeType,
		"data":     image.Data,
	}, &imageID)
	if err != nil {
		return "", fmt.Errorf("saving page image: %w", err)
	}

	return imageID, nil
}

// SaveRendition implements capture.PagesClient.SaveRendition.
func (c *PagesClient) SaveRendition(ctx context.Context, documentID string, pageIndex, renditionIndex int, image *capture.ImageData) error {
	err := c.caller.call(ctx, constants.OpSavePageRendition, args{
		"documentId":     documentID,
		"pageIndex":      pageIndex,
		"renditionIndex": renditionIndex,
		"mimeType":       image.MimeType,
		"data":           image.Data,
	}, nil)
	if err != nil {
		return fmt.Errorf("saving page rendition: %w", err)
	}

	return nil
}

// SetSourceImageFromRendition implements capture.PagesClient.SetSourceImageFromRendition.
func (c *PagesClient) SetSourceImageFromRendition(ctx context.Context, documentID string, pageIndex, renditionIndex int) error {
	err := c.caller.call(ctx, constants.OpSetPageSourceImageFromRendition, args{
		"documentId":     documentID,
		"pageIndex":      pageIndex,
		"renditionIndex": renditionIndex,
	}, nil)
	if err != nil {
		return fmt.Errorf("setting page source image: %w", err)
	}

	return nil
}

// GetImage implements capture.PagesClient.GetImage.
func (c *PagesClient) GetImage(ctx context.Context, imageID string, options *capture.ImageOptions) (*capture.ImageData, error) {
	var image capture.ImageData

	err := c.caller.call(ctx, constants.OpGetImage, args{
		"imageId": imageID,
		"options": options,
	}, &image)
	if err != nil {
		return nil, fmt.Errorf("getting image: %w", err)
	}

	return &image, nil
}

// GetRendition implements capture.PagesClient.GetRendition.
func (c *PagesClient) GetRendition(ctx context.Context, documentID string, pageIndex, renditionIndex int) (*capture.ImageData, error) {
	var image capture.ImageData

	err := c.caller.call(ctx, constants.OpGetPageRendition, args{
		"documentId":     documentID,
		"pageIndex":      pageIndex,
		"renditionIndex": renditionIndex,
	}, &image)
	if err != nil {
		return nil, fmt.Errorf("getting page rendition: %w", err)
	}

	return &image, nil
}

// GetRenditionSummary implements capture.PagesClient.GetRenditionSummary.
func (c *PagesClient) GetRenditionSummary(ctx context.Context, documentID string, pageIndex int) ([]capture.ImageSummary, error) {
	var summaries []capture.ImageSummary

	err := c.caller.call(ctx, constants.OpGetPageRenditionImageSummary, args{
		"documentId": documentID,
		"pageIndex":  pageIndex,
	}, &summaries)
	if err != nil {
		return nil, fmt.Errorf("getting rendition summary: %w", err)
	}

	return summaries, nil
}

// GetSummary implements capture.PagesClient.GetSummary.
func (c *PagesClient) GetSummary(ctx context.Context, documentID string) ([]capture.PageSummary, error) {
	var summaries []capture.PageSummary

	err := c.caller.call(ctx, constants.OpGetPageSummary, args{"documentId": documentID}, &summaries)
	if err != nil {
		return nil, fmt.Errorf("getting page summary: %w", err)
	}

	return summaries, nil
}

// GetPropertyValues implements capture.PagesClient.GetPropertyValues. With
// no property names every known property is returned.
func (c *PagesClient) GetPropertyValues(ctx context.Context, documentID string, pageIndex int, properties ...string) (map[string]string, error) {
	values := make(map[string]string)

	err := c.caller.call(ctx, constants.OpGetPagePropertyValues, args{
		"documentId": documentID,
		"pageIndex":  pageIndex,
		"properties": properties,
	}, &values)
	if err != nil {
		return nil, fmt.Errorf("getting page property values: %w", err)
	}

	return values, nil
}

// SaveTextExtension implements capture.PagesClient.SaveTextExtension.
func (c *PagesClient) SaveTextExtension(ctx context.Context, documentID string, pageIndex int, name, value string) error {
	err := c.caller.call(ctx, constants.OpSavePageTextExtension, args{
		"documentId": documentID,
		"pageIndex":  pageIndex,
		"name":       name,
		"value":      value,
	}, nil)
	if err != nil {
		return fmt.Errorf("saving page text extension: %w", err)
	}

	return nil
}

// GetTextExtension implements capture.PagesClient.GetTextExtension.
func (c *PagesClient) GetTextExtension(ctx context.Context, documentID string, pageIndex int, name string) (string, error) {
	var value string

	err := c.caller.call(ctx, constants.OpGetPageTextExtension, args{
		"documentId": documentID,
		"pageIndex":  pageIndex,
		"name":       name,
	}, &value)
	if err != nil {
		return "", fmt.Errorf("getting page text extension: %w", err)
	}

	return value, nil
}
