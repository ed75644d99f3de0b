package mocks

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/iho/vestlock/internal/domain"
)

// MockJournal is an in-memory mock implementation of Journal.
type MockJournal struct {
	mu  sync.RWMutex
	ops []*domain.Operation

	AppendFunc         func(ctx context.Context, op *domain.Operation) error
	ListFunc           func(ctx context.Context) ([]*domain.Operation, error)
	GetUnpublishedFunc func(ctx context.Context, limit int) ([]*domain.Operation, error)
	MarkPublishedFunc  func(ctx context.Context, id string, publishedAt time.Time) error
}

func NewMockJournal() *MockJournal {
	return &MockJournal{}
}

func (m *MockJournal) Append(ctx context.Context, op *domain.Operation) error {
	if m.AppendFunc != nil {
		return m.AppendFunc(ctx, op)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ops = append(m.ops, op)
	return nil
}

func (m *MockJournal) List(ctx context.Context) ([]*domain.Operation, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]*domain.Operation(nil), m.ops...), nil
}

func (m *MockJournal) GetUnpublished(ctx context.Context, limit int) ([]*domain.Operation, error) {
	if m.GetUnpublishedFunc != nil {
		return m.GetUnpublishedFunc(ctx, limit)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var unpublished []*domain.Operation
	for _, op := range m.ops {
		if !op.Published {
			unpublished = append(unpublished, op)
		}
		if len(unpublished) == limit {
			break
		}
	}
	return unpublished, nil
}

func (m *MockJournal) MarkPublished(ctx context.Context, id string, publishedAt time.Time) error {
	if m.MarkPublishedFunc != nil {
		return m.MarkPublishedFunc(ctx, id, publishedAt)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, op := range m.ops {
		if op.ID == id {
			op.Published = true
			op.PublishedAt = &publishedAt
			return nil
		}
	}
	return fmt.Errorf("operation %s not found", id)
}

// Len returns the number of journaled operations.
func (m *MockJournal) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.ops)
}

// MockIDGenerator is a mock implementation of IDGenerator.
type MockIDGenerator struct {
	mu sync.Mutex
	n  int

	GenerateFunc func() string
}

func NewMockIDGenerator() *MockIDGenerator {
	return &MockIDGenerator{}
}

func (m *MockIDGenerator) Generate() string {
	if m.GenerateFunc != nil {
		return m.GenerateFunc()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.n++
	return fmt.Sprintf("op-%04d", m.n)
}

// MockRetrier is a mock implementation of Retrier that runs the
// operation once without retrying.
type MockRetrier struct {
	RetryFunc func(ctx context.Context, operation func() error) error
}

func NewMockRetrier() *MockRetrier {
	return &MockRetrier{}
}

func (m *MockRetrier) Retry(ctx context.Context, operation func() error) error {
	if m.RetryFunc != nil {
		return m.RetryFunc(ctx, operation)
	}
	return operation()
}
