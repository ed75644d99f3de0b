package eventpublisher

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rs/zerolog"

	"github.com/iho/vestlock/internal/domain"
	"github.com/iho/vestlock/internal/infrastructure/metrics"
	"github.com/iho/vestlock/internal/usecase"
)

// EventPublisher drains unpublished journal operations and hands them to
// a Publisher, marking each as published on success.
type EventPublisher struct {
	journal   usecase.Journal
	publisher Publisher
	logger    zerolog.Logger
	metrics   *metrics.Metrics
	batchSize int
	interval  time.Duration
}

// Publisher delivers a single operation event to an external system.
type Publisher interface {
	Publish(ctx context.Context, op *domain.Operation) error
}

// Config for EventPublisher.
type Config struct {
	Journal   usecase.Journal
	Publisher Publisher
	Logger    zerolog.Logger
	Metrics   *metrics.Metrics
	BatchSize int           // operations fetched per poll
	Interval  time.Duration // polling interval
}

// NewEventPublisher creates a new EventPublisher.
func NewEventPublisher(cfg Config) *EventPublisher {
	if cfg.BatchSize == 0 {
		cfg.BatchSize = 100
	}
	if cfg.Interval == 0 {
		cfg.Interval = 5 * time.Second
	}

	return &EventPublisher{
		journal:   cfg.Journal,
		publisher: cfg.Publisher,
		logger:    cfg.Logger,
		metrics:   cfg.Metrics,
		batchSize: cfg.BatchSize,
		interval:  cfg.Interval,
	}
}

// Start begins the publishing worker. It runs until the context is
// cancelled.
func (ep *EventPublisher) Start(ctx context.Context) error {
	ep.logger.Info().
		Int("batch_size", ep.batchSize).
		Dur("interval", ep.interval).
		Msg("event publisher started")

	ticker := time.NewTicker(ep.interval)
	defer ticker.Stop()

	// Drain anything left over from a previous run before the first tick.
	if err := ep.processEvents(ctx); err != nil {
		ep.logger.Error().Err(err).Msg("error processing events on start")
	}

	for {
		select {
		case <-ctx.Done():
			ep.logger.Info().Msg("event publisher shutting down")
			return ctx.Err()
		case <-ticker.C:
			if err := ep.processEvents(ctx); err != nil {
				ep.logger.Error().Err(err).Msg("error processing events")
			}
		}
	}
}

// processEvents fetches and publishes one batch of unpublished
// operations.
func (ep *EventPublisher) processEvents(ctx context.Context) error {
	ops, err := ep.journal.GetUnpublished(ctx, ep.batchSize)
	if err != nil {
		return err
	}

	if len(ops) == 0 {
		return nil
	}

	ep.logger.Info().Int("count", len(ops)).Msg("processing events")

	for _, op := range ops {
		if err := ep.publishOperation(ctx, op); err != nil {
			ep.logger.Error().Err(err).
				Str("operation_id", op.ID).
				Str("event_type", op.EventType()).
				Msg("failed to publish event")
			// keep going; the operation stays unpublished and will be
			// retried next poll
			continue
		}

		if err := ep.journal.MarkPublished(ctx, op.ID, time.Now()); err != nil {
			ep.logger.Error().Err(err).
				Str("operation_id", op.ID).
				Msg("failed to mark operation as published")
			// do not continue publishing this batch; a re-publish is
			// worse than a delayed one
			return err
		}

		if ep.metrics != nil {
			ep.metrics.EventsPublished.Inc()
		}
	}

	return nil
}

func (ep *EventPublisher) publishOperation(ctx context.Context, op *domain.Operation) error {
	ep.logger.Debug().
		Str("operation_id", op.ID).
		Str("event_type", op.EventType()).
		Str("account_id", op.AccountID).
		Msg("publishing event")

	if err := ep.publisher.Publish(ctx, op); err != nil {
		return err
	}

	ep.logger.Info().
		Str("operation_id", op.ID).
		Str("event_type", op.EventType()).
		Msg("event published")

	return nil
}

// LogPublisher writes events to the log. It stands in for a real broker
// in deployments that only need an audit trail.
type LogPublisher struct {
	logger zerolog.Logger
}

// NewLogPublisher creates a new LogPublisher.
func NewLogPublisher(logger zerolog.Logger) *LogPublisher {
	return &LogPublisher{logger: logger}
}

type eventPayload struct {
	OperationID    string    `json:"operation_id"`
	AccountID      string    `json:"account_id"`
	CounterpartyID string    `json:"counterparty_id,omitempty"`
	Amount         string    `json:"amount"`
	AppliedAt      time.Time `json:"applied_at"`
}

// Publish logs the event with its JSON payload.
func (p *LogPublisher) Publish(ctx context.Context, op *domain.Operation) error {
	payload, err := json.Marshal(eventPayload{
		OperationID:    op.ID,
		AccountID:      op.AccountID,
		CounterpartyID: op.CounterpartyID,
		Amount:         op.Amount.String(),
		AppliedAt:      op.AppliedAt,
	})
	if err != nil {
		return err
	}

	p.logger.Info().
		Str("event_type", op.EventType()).
		RawJSON("payload", payload).
		Msg("EVENT PUBLISHED")

	return nil
}
