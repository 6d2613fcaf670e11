package capture

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeFolders struct {
	FoldersClient

	requests []FolderCreateRequest
	failAt   int
}

func (f *fakeFolders) Create(_ context.Context, request *FolderCreateRequest) (string, error) {
	f.requests = append(f.requests, *request)
	if len(f.requests) == f.failAt {
		return "", NewFault(FaultKindNotFound, "parent gone")
	}

	return fmt.Sprintf("folder-%d", len(f.requests)), nil
}

type fakeDocuments struct {
	DocumentsClient

	requests []DocumentCreateRequest
}

func (f *fakeDocuments) Create(_ context.Context, request *DocumentCreateRequest) (*CreatedDocument, error) {
	f.requests = append(f.requests, *request)

	folderID := request.ParentID
	if folderID == "" {
		folderID = "implicit-folder"
	}

	if request.Name == "bad" {
		return nil, NewFault(FaultKindInvalidOperation, "bad document")
	}

	return &CreatedDocument{DocumentID: fmt.Sprintf("doc-%d", len(f.requests)), FolderID: folderID}, nil
}

func TestCreateFolderSet(t *testing.T) {
	t.Parallel()

	t.Run("children are appended under the root", func(t *testing.T) {
		t.Parallel()

		folders := &fakeFolders{}

		created, err := CreateFolderSet(context.Background(), folders, nil, []FolderCreateRequest{
			{Name: "a", InsertIndex: 0},
			{Name: "b", ParentID: "elsewhere"},
		})
		require.NoError(t, err)
		assert.Equal(t, "folder-1", created.RootFolderID)
		assert.Equal(t, []string{"folder-2", "folder-3"}, created.ChildFolderIDs)
		assert.Equal(t, []string{"folder-1", "folder-2", "folder-3"}, created.All())

		require.Len(t, folders.requests, 3)
		assert.Equal(t, AppendIndex, folders.requests[0].InsertIndex)

		for _, request := range folders.requests[1:] {
			assert.Equal(t, "folder-1", request.ParentID)
			assert.Equal(t, AppendIndex, request.InsertIndex)
		}
	})

	t.Run("requires children", func(t *testing.T) {
		t.Parallel()

		_, err := CreateFolderSet(context.Background(), &fakeFolders{}, nil, nil)
		require.ErrorIs(t, err, ErrNoChildFolders)
	})

	t.Run("returns partial result on failure", func(t *testing.T) {
		t.Parallel()

		folders := &fakeFolders{failAt: 3}

		created, err := CreateFolderSet(context.Background(), folders, &FolderCreateRequest{Name: "root"}, []FolderCreateRequest{
			{Name: "a"}, {Name: "b"}, {Name: "c"},
		})
		require.Error(t, err)
		assert.True(t, IsNotFound(err))
		assert.Contains(t, err.Error(), "creating child folder 1")
		assert.Equal(t, []string{"folder-2"}, created.ChildFolderIDs)
	})
}

func TestCreateDocumentSet(t *testing.T) {
	t.Parallel()

	t.Run("shares the implicit folder", func(t *testing.T) {
		t.Parallel()

		documents := &fakeDocuments{}

		created, err := CreateDocumentSet(context.Background(), documents, "", []DocumentCreateRequest{
			{Name: "one"}, {Name: "two"},
		})
		require.NoError(t, err)
		assert.Equal(t, "implicit-folder", created.FolderID)
		assert.Equal(t, []string{"doc-1", "doc-2"}, created.DocumentIDs)
		assert.Empty(t, documents.requests[0].ParentID)
		assert.Equal(t, "implicit-folder", documents.requests[1].ParentID)
	})

	t.Run("stops at the first failure", func(t *testing.T) {
		t.Parallel()

		created, err := CreateDocumentSet(context.Background(), &fakeDocuments{}, "folder-9", []DocumentCreateRequest{
			{Name: "one"}, {Name: "bad"}, {Name: "three"},
		})
		require.Error(t, err)
		assert.True(t, IsInvalidOperation(err))
		assert.Equal(t, []string{"doc-1"}, created.DocumentIDs)
	})
}

func TestPageIndexesByID(t *testing.T) {
	t.Parallel()

	doc := &Document{ID: "doc", Pages: []Page{{ID: "p1"}, {ID: "p2"}, {ID: "p3"}}}

	indexes, err := PageIndexesByID(doc, []string{"p3", "p1"})
	require.NoError(t, err)
	assert.Equal(t, []int{2, 0}, indexes)

	_, err = PageIndexesByID(doc, []string{"p4"})
	require.ErrorIs(t, err, ErrPageNotFound)
	assert.Contains(t, err.Error(), "p4 in doc")
}
