package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/vestlock/internal/domain"
)

// AssetGateway moves the external asset in and out of the ledger's
// custody. Amounts are in external asset units.
type AssetGateway interface {
	// PullIn collects amount from the depositor. The ledger's internal
	// state is mutated only after PullIn succeeds.
	PullIn(ctx context.Context, from string, amount decimal.Decimal) error
	// PushOut disburses amount to the redeemer, invoked only after the
	// internal withdrawal succeeded.
	PushOut(ctx context.Context, to string, amount decimal.Decimal) error
}

// Journal is the append-only record of accepted operations. It doubles
// as the outbox for event publishing.
type Journal interface {
	Append(ctx context.Context, op *domain.Operation) error
	// List returns all operations in the order they were applied.
	List(ctx context.Context) ([]*domain.Operation, error)
	GetUnpublished(ctx context.Context, limit int) ([]*domain.Operation, error)
	MarkPublished(ctx context.Context, id string, publishedAt time.Time) error
}

// IDGenerator generates unique IDs.
type IDGenerator interface {
	Generate() string
}

// Retrier retries an operation on transient failures.
type Retrier interface {
	Retry(ctx context.Context, operation func() error) error
}

// IdempotencyPlaceholder is stored under a freshly claimed key until the
// final response is recorded. Stores return it for in-flight duplicates
// and the HTTP middleware keys replay detection off it, so both sides
// must agree on the value.
const IdempotencyPlaceholder = "processing"

// IdempotencyStore handles idempotency key storage.
type IdempotencyStore interface {
	// CheckAndSet atomically claims the key for the current request.
	// Returns (true, previous) when another request already holds it.
	CheckAndSet(ctx context.Context, key string, ttl time.Duration) (bool, []byte, error)
	// Update replaces the key's placeholder with the final response.
	Update(ctx context.Context, key string, response []byte, ttl time.Duration) error
}
