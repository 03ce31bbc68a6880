package app

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDocumentCreateStoresBlobAndRow(t *testing.T) {
	docs := newFakeDocumentStore()
	files := &fakeFileStore{}
	svc := NewDocumentService(docs, files)

	doc, err := svc.Create(CreateDocumentInput{
		Title:    "Quarterly Report",
		OwnerID:  3,
		Filename: "report.pdf",
		Content:  strings.NewReader("%PDF-1.4"),
	})
	require.NoError(t, err)
	assert.NotZero(t, doc.ID)
	assert.Equal(t, "Quarterly Report", doc.Title)
	assert.Equal(t, uint(3), doc.OwnerID)
	assert.False(t, doc.IsProcessed)
	assert.NotEmpty(t, doc.FilePath)
	assert.Equal(t, []byte("%PDF-1.4"), files.last)
}

func TestDocumentCreateRejectsMissingFields(t *testing.T) {
	svc := NewDocumentService(newFakeDocumentStore(), &fakeFileStore{})

	_, err := svc.Create(CreateDocumentInput{Title: "", OwnerID: 1, Content: strings.NewReader("x")})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.Create(CreateDocumentInput{Title: "T", OwnerID: 1, Content: nil})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestDocumentUpdateMergesTitleAndFile(t *testing.T) {
	docs := newFakeDocumentStore()
	files := &fakeFileStore{}
	svc := NewDocumentService(docs, files)

	doc, err := svc.Create(CreateDocumentInput{
		Title:    "Draft",
		OwnerID:  1,
		Filename: "draft.txt",
		Content:  strings.NewReader("v1"),
	})
	require.NoError(t, err)
	originalPath := doc.FilePath

	// Title only: file path untouched.
	updated, err := svc.Update(UpdateDocumentInput{ID: doc.ID, Title: "Final"})
	require.NoError(t, err)
	assert.Equal(t, "Final", updated.Title)
	assert.Equal(t, originalPath, updated.FilePath)

	// File only: title untouched, path replaced.
	updated, err = svc.Update(UpdateDocumentInput{
		ID:       doc.ID,
		Filename: "final.txt",
		Content:  strings.NewReader("v2"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Final", updated.Title)
	assert.NotEqual(t, originalPath, updated.FilePath)
}

func TestDocumentGetAndDeleteNotFound(t *testing.T) {
	svc := NewDocumentService(newFakeDocumentStore(), &fakeFileStore{})

	_, err := svc.Get(99)
	assert.ErrorIs(t, err, ErrNotFound)

	err = svc.Delete(99)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDocumentDelete(t *testing.T) {
	docs := newFakeDocumentStore()
	svc := NewDocumentService(docs, &fakeFileStore{})

	doc, err := svc.Create(CreateDocumentInput{
		Title:    "Temp",
		OwnerID:  1,
		Filename: "t.txt",
		Content:  strings.NewReader("x"),
	})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(doc.ID))
	_, err = svc.Get(doc.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDocumentTriggerIngestionShortcut(t *testing.T) {
	docs := newFakeDocumentStore()
	svc := NewDocumentService(docs, &fakeFileStore{})

	doc, err := svc.Create(CreateDocumentInput{
		Title:    "Shortcut",
		OwnerID:  1,
		Filename: "s.txt",
		Content:  strings.NewReader("x"),
	})
	require.NoError(t, err)

	flipped, err := svc.TriggerIngestion(doc.ID)
	require.NoError(t, err)
	assert.True(t, flipped.IsProcessed)

	stored, err := docs.GetByID(doc.ID)
	require.NoError(t, err)
	assert.True(t, stored.IsProcessed)

	_, err = svc.TriggerIngestion(404)
	assert.ErrorIs(t, err, ErrNotFound)
}
