package app

import (
	"context"
	"log"
	"time"

	"docmanager/internal/model"
)

// IngestionStore persists ingestion records. GetLatestByDocumentID returns
// the most recently created record for a document, (nil, nil) when none
// exists.
type IngestionStore interface {
	Create(ing *model.Ingestion) error
	GetLatestByDocumentID(documentID uint) (*model.Ingestion, error)
	ListWithDocument() ([]model.Ingestion, error)
	Save(ing *model.Ingestion) error
}

// TriggerPublisher announces freshly triggered ingestions, e.g. to a queue
// a processing worker consumes. Publishing is advisory: a broker hiccup
// must not fail the trigger itself.
type TriggerPublisher interface {
	PublishTriggered(ctx context.Context, ing model.Ingestion) error
}

// StatusCache is a read-through cache of the latest record per document.
type StatusCache interface {
	GetLatest(ctx context.Context, documentID uint) (*model.Ingestion, bool, error)
	SetLatest(ctx context.Context, documentID uint, ing model.Ingestion) error
	Invalidate(ctx context.Context, documentID uint) error
}

// IngestionService owns the per-document ingestion state machine:
// pending -> processing -> {completed, failed}. Completed and failed are
// terminal. Publisher and cache are optional collaborators.
type IngestionService struct {
	ingestions IngestionStore
	docs       DocumentStore
	publisher  TriggerPublisher
	cache      StatusCache
}

func NewIngestionService(ingestions IngestionStore, docs DocumentStore, publisher TriggerPublisher, cache StatusCache) *IngestionService {
	return &IngestionService{
		ingestions: ingestions,
		docs:       docs,
		publisher:  publisher,
		cache:      cache,
	}
}

// Trigger creates a new pending record for the document. It does not look
// at prior records: concurrent triggers produce independent records, and
// the latest one defines the document's current status.
func (s *IngestionService) Trigger(ctx context.Context, documentID uint) (*model.Ingestion, error) {
	if documentID == 0 {
		return nil, ErrInvalidInput
	}

	doc, err := s.docs.GetByID(documentID)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, ErrNotFound
	}

	ing := &model.Ingestion{
		DocumentID: doc.ID,
		Status:     model.IngestionPending,
	}
	if err := s.ingestions.Create(ing); err != nil {
		return nil, err
	}

	s.invalidate(ctx, doc.ID)
	if s.publisher != nil {
		if err := s.publisher.PublishTriggered(ctx, *ing); err != nil {
			log.Printf("publish ingestion trigger failed: %v", err)
		}
	}
	return ing, nil
}

// GetStatus returns the latest record for the document.
func (s *IngestionService) GetStatus(ctx context.Context, documentID uint) (*model.Ingestion, error) {
	if documentID == 0 {
		return nil, ErrInvalidInput
	}

	if s.cache != nil {
		if ing, hit, err := s.cache.GetLatest(ctx, documentID); err == nil && hit {
			return ing, nil
		}
	}

	ing, err := s.ingestions.GetLatestByDocumentID(documentID)
	if err != nil {
		return nil, err
	}
	if ing == nil {
		return nil, ErrNotFound
	}

	if s.cache != nil {
		if err := s.cache.SetLatest(ctx, documentID, *ing); err != nil {
			log.Printf("cache ingestion status failed: %v", err)
		}
	}
	return ing, nil
}

// GetAllStatus returns every record across all documents, newest first,
// with the document reference resolved.
func (s *IngestionService) GetAllStatus() ([]model.Ingestion, error) {
	return s.ingestions.ListWithDocument()
}

// MarkProcessing advances the latest record out of pending.
func (s *IngestionService) MarkProcessing(ctx context.Context, documentID uint) (*model.Ingestion, error) {
	ing, err := s.currentMutable(documentID)
	if err != nil {
		return nil, err
	}

	ing.Status = model.IngestionProcessing
	if err := s.ingestions.Save(ing); err != nil {
		return nil, err
	}
	s.invalidate(ctx, documentID)
	return ing, nil
}

// Complete finishes the latest record and flips the document's processed
// flag. This is the only transition coupled to document state.
func (s *IngestionService) Complete(ctx context.Context, documentID uint) (*model.Ingestion, error) {
	ing, err := s.currentMutable(documentID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	ing.Status = model.IngestionCompleted
	ing.CompletedAt = &now
	ing.Error = nil
	if err := s.ingestions.Save(ing); err != nil {
		return nil, err
	}

	doc, err := s.docs.GetByID(ing.DocumentID)
	if err != nil {
		return nil, err
	}
	if doc != nil {
		doc.IsProcessed = true
		if err := s.docs.Save(doc); err != nil {
			return nil, err
		}
	}

	s.invalidate(ctx, documentID)
	return ing, nil
}

// Fail finishes the latest record with an error message. The document's
// processed flag is left untouched.
func (s *IngestionService) Fail(ctx context.Context, documentID uint, message string) (*model.Ingestion, error) {
	ing, err := s.currentMutable(documentID)
	if err != nil {
		return nil, err
	}

	if message == "" {
		message = "ingestion failed"
	}
	now := time.Now()
	ing.Status = model.IngestionFailed
	ing.CompletedAt = &now
	ing.Error = &message
	if err := s.ingestions.Save(ing); err != nil {
		return nil, err
	}

	s.invalidate(ctx, documentID)
	return ing, nil
}

// currentMutable loads the latest record and enforces the terminal-state
// guard. A violation is a caller defect, so it gets logged here as well.
func (s *IngestionService) currentMutable(documentID uint) (*model.Ingestion, error) {
	if documentID == 0 {
		return nil, ErrInvalidInput
	}

	ing, err := s.ingestions.GetLatestByDocumentID(documentID)
	if err != nil {
		return nil, err
	}
	if ing == nil {
		return nil, ErrNotFound
	}
	if ing.Status.Terminal() {
		log.Printf("ingestion %d for document %d is already %s", ing.ID, documentID, ing.Status)
		return nil, ErrInvalidTransition
	}
	return ing, nil
}

func (s *IngestionService) invalidate(ctx context.Context, documentID uint) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, documentID); err != nil {
		log.Printf("invalidate ingestion status cache failed: %v", err)
	}
}
