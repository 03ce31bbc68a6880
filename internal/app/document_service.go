package app

import (
	"io"
	"strings"

	"docmanager/internal/model"
)

// DocumentStore is the document persistence collaborator. Reads resolve the
// owner; lookups return (nil, nil) when no row matches.
type DocumentStore interface {
	Create(doc *model.Document) error
	ListWithOwner() ([]model.Document, error)
	GetByID(id uint) (*model.Document, error)
	DeleteByID(id uint) (int64, error)
	Save(doc *model.Document) error
}

// FileStore is the blob sink. The returned path is opaque: it is stored on
// the document and never interpreted here.
type FileStore interface {
	Save(filename string, content io.Reader) (string, error)
}

type DocumentService struct {
	docs  DocumentStore
	files FileStore
}

type CreateDocumentInput struct {
	Title    string
	OwnerID  uint
	Filename string
	Content  io.Reader
}

type UpdateDocumentInput struct {
	ID       uint
	Title    string
	Filename string
	Content  io.Reader
}

func NewDocumentService(docs DocumentStore, files FileStore) *DocumentService {
	return &DocumentService{docs: docs, files: files}
}

func (s *DocumentService) Create(input CreateDocumentInput) (*model.Document, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" || input.OwnerID == 0 || input.Content == nil {
		return nil, ErrInvalidInput
	}

	path, err := s.files.Save(input.Filename, input.Content)
	if err != nil {
		return nil, err
	}

	doc := &model.Document{
		Title:    title,
		FilePath: path,
		OwnerID:  input.OwnerID,
	}
	if err := s.docs.Create(doc); err != nil {
		return nil, err
	}
	return doc, nil
}

func (s *DocumentService) List() ([]model.Document, error) {
	return s.docs.ListWithOwner()
}

func (s *DocumentService) Get(id uint) (*model.Document, error) {
	if id == 0 {
		return nil, ErrInvalidInput
	}
	doc, err := s.docs.GetByID(id)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, ErrNotFound
	}
	return doc, nil
}

// Update replaces the title and/or the stored file. Empty title and nil
// content leave the respective field untouched.
func (s *DocumentService) Update(input UpdateDocumentInput) (*model.Document, error) {
	doc, err := s.Get(input.ID)
	if err != nil {
		return nil, err
	}

	if title := strings.TrimSpace(input.Title); title != "" {
		doc.Title = title
	}
	if input.Content != nil {
		path, err := s.files.Save(input.Filename, input.Content)
		if err != nil {
			return nil, err
		}
		doc.FilePath = path
	}

	if err := s.docs.Save(doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// Delete removes the row. The underlying blob stays in the file store.
func (s *DocumentService) Delete(id uint) error {
	if id == 0 {
		return ErrInvalidInput
	}
	affected, err := s.docs.DeleteByID(id)
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// TriggerIngestion is the shortcut path: it marks the document processed
// immediately and creates no ingestion record. The full state machine lives
// in IngestionService; the two entry points are deliberately kept separate.
func (s *DocumentService) TriggerIngestion(id uint) (*model.Document, error) {
	doc, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	doc.IsProcessed = true
	if err := s.docs.Save(doc); err != nil {
		return nil, err
	}
	return doc, nil
}
