package model

import "time"

type IngestionStatus string

const (
	IngestionPending    IngestionStatus = "pending"
	IngestionProcessing IngestionStatus = "processing"
	IngestionCompleted  IngestionStatus = "completed"
	IngestionFailed     IngestionStatus = "failed"
)

// Terminal reports whether no further transition is permitted on a record
// carrying this status.
func (s IngestionStatus) Terminal() bool {
	return s == IngestionCompleted || s == IngestionFailed
}

// Ingestion is one processing attempt for a document. Re-triggering creates
// a new record; the latest record by creation time is the document's current
// status. Error is set only on failed records, CompletedAt only on terminal
// ones.
type Ingestion struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	DocumentID  uint            `gorm:"not null;index" json:"document_id"`
	Document    *Document       `gorm:"foreignKey:DocumentID" json:"document,omitempty"`
	Status      IngestionStatus `gorm:"size:16;not null" json:"status"`
	Error       *string         `gorm:"size:512" json:"error,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	CompletedAt *time.Time      `json:"completed_at,omitempty"`
}
