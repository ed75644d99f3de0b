package memory

import (
	"context"
	"sync"
	"time"

	"github.com/iho/vestlock/internal/domain"
)

// JournalRepository is an in-memory usecase.Journal. It backs deployments
// that run without PostgreSQL; the journal does not survive a restart.
type JournalRepository struct {
	mu  sync.RWMutex
	ops []*domain.Operation
}

// NewJournalRepository creates a new in-memory JournalRepository.
func NewJournalRepository() *JournalRepository {
	return &JournalRepository{}
}

// Append records an accepted operation.
func (r *JournalRepository) Append(ctx context.Context, op *domain.Operation) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored := *op
	r.ops = append(r.ops, &stored)
	return nil
}

// List returns all operations in application order.
func (r *JournalRepository) List(ctx context.Context) ([]*domain.Operation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ops := make([]*domain.Operation, 0, len(r.ops))
	for _, op := range r.ops {
		copied := *op
		ops = append(ops, &copied)
	}
	return ops, nil
}

// GetUnpublished returns up to limit operations not yet published.
func (r *JournalRepository) GetUnpublished(ctx context.Context, limit int) ([]*domain.Operation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var ops []*domain.Operation
	for _, op := range r.ops {
		if op.Published {
			continue
		}
		copied := *op
		ops = append(ops, &copied)
		if len(ops) == limit {
			break
		}
	}
	return ops, nil
}

// MarkPublished marks an operation as published.
func (r *JournalRepository) MarkPublished(ctx context.Context, id string, publishedAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, op := range r.ops {
		if op.ID == id {
			op.Published = true
			op.PublishedAt = &publishedAt
			return nil
		}
	}
	return nil
}
