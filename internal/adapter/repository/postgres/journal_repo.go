package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/iho/vestlock/internal/domain"
)

// JournalRepository implements usecase.Journal on top of PostgreSQL. The
// operations table doubles as the outbox read by the event publisher.
type JournalRepository struct {
	pool *pgxpool.Pool
}

// NewJournalRepository creates a new JournalRepository.
func NewJournalRepository(pool *pgxpool.Pool) *JournalRepository {
	return &JournalRepository{pool: pool}
}

// Append inserts an accepted operation.
func (r *JournalRepository) Append(ctx context.Context, op *domain.Operation) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO operations (id, op_type, account_id, counterparty_id, amount, applied_at, created_at, published)
		VALUES ($1, $2, $3, NULLIF($4, ''), $5, $6, $7, FALSE)`,
		op.ID, op.Type, op.AccountID, op.CounterpartyID, op.Amount.String(), op.AppliedAt, op.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to append operation: %w", err)
	}
	return nil
}

// List returns all operations ordered by application time, then by
// creation time for operations applied at the same instant.
func (r *JournalRepository) List(ctx context.Context) ([]*domain.Operation, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, op_type, account_id, COALESCE(counterparty_id, ''), amount::text, applied_at, created_at, published, published_at
		FROM operations
		ORDER BY applied_at, created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list operations: %w", err)
	}
	defer rows.Close()

	return scanOperations(rows)
}

// GetUnpublished retrieves operations not yet handed to the publisher.
func (r *JournalRepository) GetUnpublished(ctx context.Context, limit int) ([]*domain.Operation, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, op_type, account_id, COALESCE(counterparty_id, ''), amount::text, applied_at, created_at, published, published_at
		FROM operations
		WHERE NOT published
		ORDER BY created_at, id
		LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get unpublished operations: %w", err)
	}
	defer rows.Close()

	return scanOperations(rows)
}

// MarkPublished marks an operation as published.
func (r *JournalRepository) MarkPublished(ctx context.Context, id string, publishedAt time.Time) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE operations SET published = TRUE, published_at = $2 WHERE id = $1`,
		id, publishedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to mark operation published: %w", err)
	}
	return nil
}

func scanOperations(rows pgx.Rows) ([]*domain.Operation, error) {
	var ops []*domain.Operation
	for rows.Next() {
		var (
			op     domain.Operation
			amount string
		)
		if err := rows.Scan(
			&op.ID, &op.Type, &op.AccountID, &op.CounterpartyID,
			&amount, &op.AppliedAt, &op.CreatedAt, &op.Published, &op.PublishedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan operation: %w", err)
		}

		d, err := decimal.NewFromString(amount)
		if err != nil {
			return nil, fmt.Errorf("invalid amount in journal row %s: %w", op.ID, err)
		}
		op.Amount = d

		ops = append(ops, &op)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return ops, nil
}
