package repository

import (
	"context"
	"sync"

	"flowpulse-docparse/internal/domain"
)

// MemoryDocumentRepository keeps parsed documents in process memory. Used
// when Supabase is not configured.
type MemoryDocumentRepository struct {
	mu   sync.RWMutex
	docs map[string]*domain.StoredDocument
}

func NewMemoryDocumentRepository() *MemoryDocumentRepository {
	return &MemoryDocumentRepository{docs: make(map[string]*domain.StoredDocument)}
}

func (r *MemoryDocumentRepository) Create(ctx context.Context, doc *domain.StoredDocument, token string) error {
	if err := doc.Validate(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *doc
	r.docs[doc.ID] = &cp
	return nil
}

func (r *MemoryDocumentRepository) GetByID(ctx context.Context, id string, token string) (*domain.StoredDocument, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	doc, ok := r.docs[id]
	if !ok {
		return nil, domain.ErrDocumentNotFound
	}
	cp := *doc
	return &cp, nil
}

func (r *MemoryDocumentRepository) GetByUserID(ctx context.Context, userID string, token string) ([]*domain.StoredDocument, error) {
	r.mu.RLock()
	docs := make([]*domain.StoredDocument, 0)
	for _, doc := range r.docs {
		if doc.UserID == userID {
			cp := *doc
			docs = append(docs, &cp)
		}
	}
	r.mu.RUnlock()

	sortNewestFirst(docs)
	return docs, nil
}

func (r *MemoryDocumentRepository) Delete(ctx context.Context, id string, token string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.docs[id]; !ok {
		return domain.ErrDocumentNotFound
	}
	delete(r.docs, id)
	return nil
}
