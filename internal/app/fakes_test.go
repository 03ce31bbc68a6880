package app

import (
	"bytes"
	"fmt"
	"io"
	"time"

	"docmanager/internal/model"
)

// In-memory store fakes. Reads hand out copies so mutations only land via
// Save, mirroring how the gorm repositories behave.

type fakeUserStore struct {
	nextID uint
	users  map[uint]model.User
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: map[uint]model.User{}}
}

func (f *fakeUserStore) Create(user *model.User) error {
	f.nextID++
	user.ID = f.nextID
	user.CreatedAt = time.Now()
	f.users[user.ID] = *user
	return nil
}

func (f *fakeUserStore) GetByEmail(email string) (*model.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			u := u
			return &u, nil
		}
	}
	return nil, nil
}

func (f *fakeUserStore) GetByID(id uint) (*model.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (f *fakeUserStore) List() ([]model.User, error) {
	out := make([]model.User, 0, len(f.users))
	for id := uint(1); id <= f.nextID; id++ {
		if u, ok := f.users[id]; ok {
			out = append(out, u)
		}
	}
	return out, nil
}

func (f *fakeUserStore) UpdateRole(id uint, role model.Role) (*model.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, nil
	}
	u.Role = role
	f.users[id] = u
	return &u, nil
}

type fakeDocumentStore struct {
	nextID uint
	docs   map[uint]model.Document
}

func newFakeDocumentStore() *fakeDocumentStore {
	return &fakeDocumentStore{docs: map[uint]model.Document{}}
}

func (f *fakeDocumentStore) Create(doc *model.Document) error {
	f.nextID++
	doc.ID = f.nextID
	doc.CreatedAt = time.Now()
	doc.UpdatedAt = doc.CreatedAt
	f.docs[doc.ID] = *doc
	return nil
}

func (f *fakeDocumentStore) ListWithOwner() ([]model.Document, error) {
	out := make([]model.Document, 0, len(f.docs))
	for id := uint(1); id <= f.nextID; id++ {
		if d, ok := f.docs[id]; ok {
			out = append(out, d)
		}
	}
	return out, nil
}

func (f *fakeDocumentStore) GetByID(id uint) (*model.Document, error) {
	d, ok := f.docs[id]
	if !ok {
		return nil, nil
	}
	return &d, nil
}

func (f *fakeDocumentStore) DeleteByID(id uint) (int64, error) {
	if _, ok := f.docs[id]; !ok {
		return 0, nil
	}
	delete(f.docs, id)
	return 1, nil
}

func (f *fakeDocumentStore) Save(doc *model.Document) error {
	doc.UpdatedAt = time.Now()
	f.docs[doc.ID] = *doc
	return nil
}

type fakeIngestionStore struct {
	nextID  uint
	records map[uint]model.Ingestion
}

func newFakeIngestionStore() *fakeIngestionStore {
	return &fakeIngestionStore{records: map[uint]model.Ingestion{}}
}

func (f *fakeIngestionStore) Create(ing *model.Ingestion) error {
	f.nextID++
	ing.ID = f.nextID
	ing.CreatedAt = time.Now()
	f.records[ing.ID] = *ing
	return nil
}

// GetLatestByDocumentID breaks creation-time ties by id, matching the
// repository's ORDER BY created_at DESC, id DESC.
func (f *fakeIngestionStore) GetLatestByDocumentID(documentID uint) (*model.Ingestion, error) {
	var latest *model.Ingestion
	for id := uint(1); id <= f.nextID; id++ {
		rec, ok := f.records[id]
		if !ok || rec.DocumentID != documentID {
			continue
		}
		if latest == nil || rec.CreatedAt.After(latest.CreatedAt) ||
			(rec.CreatedAt.Equal(latest.CreatedAt) && rec.ID > latest.ID) {
			rec := rec
			latest = &rec
		}
	}
	return latest, nil
}

func (f *fakeIngestionStore) ListWithDocument() ([]model.Ingestion, error) {
	out := make([]model.Ingestion, 0, len(f.records))
	for id := f.nextID; id >= 1; id-- {
		if rec, ok := f.records[id]; ok {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (f *fakeIngestionStore) Save(ing *model.Ingestion) error {
	f.records[ing.ID] = *ing
	return nil
}

func (f *fakeIngestionStore) countByDocument(documentID uint) int {
	n := 0
	for _, rec := range f.records {
		if rec.DocumentID == documentID {
			n++
		}
	}
	return n
}

type fakeFileStore struct {
	saves int
	last  []byte
}

func (f *fakeFileStore) Save(filename string, content io.Reader) (string, error) {
	var buf bytes.Buffer
	if _, err := buf.ReadFrom(content); err != nil {
		return "", err
	}
	f.saves++
	f.last = buf.Bytes()
	return fmt.Sprintf("/blobs/%d_%s", f.saves, filename), nil
}
