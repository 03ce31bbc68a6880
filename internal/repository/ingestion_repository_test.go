package repository

import (
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"

	"docmanager/internal/model"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	gdb, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      db,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{})
	require.NoError(t, err)
	return gdb, mock
}

func TestGetLatestByDocumentIDOrdersNewestFirst(t *testing.T) {
	gdb, mock := newMockDB(t)
	repo := NewIngestionRepository(gdb)

	created := time.Now()
	rows := sqlmock.NewRows([]string{"id", "document_id", "status", "error", "created_at", "completed_at"}).
		AddRow(7, 3, "pending", nil, created, nil)
	mock.ExpectQuery("SELECT (.+) FROM `ingestions` WHERE document_id = (.+) ORDER BY created_at DESC, id DESC").
		WillReturnRows(rows)

	ing, err := repo.GetLatestByDocumentID(3)
	require.NoError(t, err)
	require.NotNil(t, ing)
	assert.Equal(t, uint(7), ing.ID)
	assert.Equal(t, model.IngestionPending, ing.Status)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetLatestByDocumentIDMissesAsNil(t *testing.T) {
	gdb, mock := newMockDB(t)
	repo := NewIngestionRepository(gdb)

	mock.ExpectQuery("SELECT (.+) FROM `ingestions`").
		WillReturnRows(sqlmock.NewRows([]string{"id", "document_id", "status", "error", "created_at", "completed_at"}))

	ing, err := repo.GetLatestByDocumentID(3)
	require.NoError(t, err)
	assert.Nil(t, ing, "absent record maps to nil, not an error")

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateIngestionInsertsPendingRow(t *testing.T) {
	gdb, mock := newMockDB(t)
	repo := NewIngestionRepository(gdb)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `ingestions`").
		WillReturnResult(sqlmock.NewResult(11, 1))
	mock.ExpectCommit()

	ing := &model.Ingestion{DocumentID: 3, Status: model.IngestionPending}
	require.NoError(t, repo.Create(ing))
	assert.Equal(t, uint(11), ing.ID)

	require.NoError(t, mock.ExpectationsWereMet())
}
