package repository

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"docmanager/internal/model"
)

type DocumentRepository struct {
	db *gorm.DB
}

func NewDocumentRepository(db *gorm.DB) *DocumentRepository {
	return &DocumentRepository{db: db}
}

func (r *DocumentRepository) Create(doc *model.Document) error {
	if err := r.db.Create(doc).Error; err != nil {
		return fmt.Errorf("create document failed: %w", err)
	}
	return nil
}

// ListWithOwner returns documents in insertion order with the owner row
// joined in.
func (r *DocumentRepository) ListWithOwner() ([]model.Document, error) {
	var docs []model.Document
	if err := r.db.Preload("Owner").Order("id ASC").Find(&docs).Error; err != nil {
		return nil, fmt.Errorf("list documents failed: %w", err)
	}
	return docs, nil
}

func (r *DocumentRepository) GetByID(id uint) (*model.Document, error) {
	var doc model.Document
	if err := r.db.Preload("Owner").First(&doc, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("query document by id failed: %w", err)
	}
	return &doc, nil
}

func (r *DocumentRepository) DeleteByID(id uint) (int64, error) {
	res := r.db.Delete(&model.Document{}, id)
	if res.Error != nil {
		return 0, fmt.Errorf("delete document failed: %w", res.Error)
	}
	return res.RowsAffected, nil
}

func (r *DocumentRepository) Save(doc *model.Document) error {
	if err := r.db.Save(doc).Error; err != nil {
		return fmt.Errorf("save document failed: %w", err)
	}
	return nil
}
