package repository

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"docmanager/internal/model"
)

type IngestionRepository struct {
	db *gorm.DB
}

func NewIngestionRepository(db *gorm.DB) *IngestionRepository {
	return &IngestionRepository{db: db}
}

func (r *IngestionRepository) Create(ing *model.Ingestion) error {
	if err := r.db.Create(ing).Error; err != nil {
		return fmt.Errorf("create ingestion failed: %w", err)
	}
	return nil
}

// GetLatestByDocumentID returns the most recently created record for a
// document. Same-timestamp rows are broken by id so "latest" stays
// deterministic under rapid re-triggers.
func (r *IngestionRepository) GetLatestByDocumentID(documentID uint) (*model.Ingestion, error) {
	var ing model.Ingestion
	err := r.db.Where("document_id = ?", documentID).
		Order("created_at DESC, id DESC").
		First(&ing).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("query latest ingestion failed: %w", err)
	}
	return &ing, nil
}

// ListWithDocument returns all records, newest first, with the document
// reference joined in.
func (r *IngestionRepository) ListWithDocument() ([]model.Ingestion, error) {
	var list []model.Ingestion
	err := r.db.Preload("Document").
		Order("created_at DESC, id DESC").
		Find(&list).Error
	if err != nil {
		return nil, fmt.Errorf("list ingestions failed: %w", err)
	}
	return list, nil
}

func (r *IngestionRepository) Save(ing *model.Ingestion) error {
	if err := r.db.Save(ing).Error; err != nil {
		return fmt.Errorf("save ingestion failed: %w", err)
	}
	return nil
}
