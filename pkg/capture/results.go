package capture

import (
	"context"
	"fmt"
)

// CreatedFolders records a root folder and the children created beneath it, in creation order.
type CreatedFolders struct {
	RootFolderID   string   `json:"rootFolderId"   yaml:"rootFolderId"`
	ChildFolderIDs []string `json:"childFolderIds" yaml:"childFolderIds"`
}

// All returns every created id, root first.
func (c *CreatedFolders) All() []string {
	return append([]string{c.RootFolderID}, c.ChildFolderIDs...)
}

// CreatedDocuments records documents created in one folder, in creation order.
type CreatedDocuments struct {
	FolderID    string   `json:"folderId"    yaml:"folderId"`
	DocumentIDs []string `json:"documentIds" yaml:"documentIds"`
}

// CreateFolderSet creates a root folder from root and one appended child per
// entry of children. It stops at the first failure and returns what was
// created so far alongside the error.
func CreateFolderSet(ctx context.Context, folders FoldersClient, root *FolderCreateRequest, children []FolderCreateRequest) (*CreatedFolders, error) {
	if len(children) == 0 {
		return nil, ErrNoChildFolders
	}

	if root == nil {
		root = &FolderCreateRequest{InsertIndex: AppendIndex}
	}

	rootID, err := folders.Create(ctx, root)
	if err != nil {
		return nil, fmt.Errorf("creating root folder: %w", err)
	}

	created := &CreatedFolders{RootFolderID: rootID}

	for i := range children {
		child := children[i]
		child.ParentID = rootID
		child.InsertIndex = AppendIndex

		childID, err := folders.Create(ctx, &child)
		if err != nil {
			return created, fmt.Errorf("creating child folder %d: %w", i, err)
		}

		created.ChildFolderIDs = append(created.ChildFolderIDs, childID)
	}

	return created, nil
}

// CreateDocumentSet creates documents in order. When parentID is empty the
// first document's implicit folder becomes the parent of the rest.
func CreateDocumentSet(ctx context.Context, documents DocumentsClient, parentID string, requests []DocumentCreateRequest) (*CreatedDocuments, error) {
	created := &CreatedDocuments{FolderID: parentID}

	for i := range requests {
		request := requests[i]
		request.ParentID = created.FolderID

		result, err := documents.Create(ctx, &request)
		if err != nil {
			return created, fmt.Errorf("creating document %d: %w", i, err)
		}

		created.FolderID = result.FolderID
		created.DocumentIDs = append(created.DocumentIDs, result.DocumentID)
	}

	return created, nil
}

// PageIndexesByID translates stable page ids into the positions they hold in doc.
func PageIndexesByID(doc *Document, pageIDs []string) ([]int, error) {
	positions := make(map[string]int, len(doc.Pages))
	for i, page := range doc.Pages {
		positions[page.ID] = i
	}

	indexes := make([]int, 0, len(pageIDs))

	for _, id := range pageIDs {
		index, ok := positions[id]
		if !ok {
			return nil, fmt.Errorf("%w: %s in %s", ErrPageNotFound, id, doc.ID)
		}

		indexes = append(indexes, index)
	}

	return indexes, nil
}
