package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/iho/vestlock/internal/domain"
	"github.com/iho/vestlock/internal/infrastructure/metrics"
	"github.com/iho/vestlock/internal/ledger"
)

// ErrInconsistentLedger is returned when the sum of account balances
// no longer matches the net external flow.
var ErrInconsistentLedger = errors.New("ledger is inconsistent: account sum does not match net flow")

// LedgerUseCase wraps the vesting engine with the external asset
// gateway and the operation journal. It is the single write path into
// the engine: the gateway is settled before/after the engine mutates,
// and every accepted operation is journaled.
type LedgerUseCase struct {
	engine  *ledger.Ledger
	gateway AssetGateway
	journal Journal
	idGen   IDGenerator
	retrier Retrier
	metrics *metrics.Metrics
	logger  zerolog.Logger
	nowFn   func() time.Time
}

// NewLedgerUseCase creates a new LedgerUseCase. metrics may be nil.
func NewLedgerUseCase(
	engine *ledger.Ledger,
	gateway AssetGateway,
	journal Journal,
	idGen IDGenerator,
	retrier Retrier,
	m *metrics.Metrics,
	logger zerolog.Logger,
) *LedgerUseCase {
	return &LedgerUseCase{
		engine:  engine,
		gateway: gateway,
		journal: journal,
		idGen:   idGen,
		retrier: retrier,
		metrics: m,
		logger:  logger,
		nowFn:   time.Now,
	}
}

// WithClock overrides the use case's time source, for tests.
func (uc *LedgerUseCase) WithClock(nowFn func() time.Time) *LedgerUseCase {
	uc.nowFn = nowFn
	return uc
}

// DepositInput represents input for a deposit.
type DepositInput struct {
	AccountID string
	Amount    decimal.Decimal // external asset units
}

// Deposit pulls the external asset in and locks it under a vesting
// schedule. The engine is mutated only after the pull succeeded.
func (uc *LedgerUseCase) Deposit(ctx context.Context, input DepositInput) (*domain.Operation, error) {
	if input.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, domain.ErrInvalidAmount
	}

	err := uc.retrier.Retry(ctx, func() error {
		return uc.gateway.PullIn(ctx, input.AccountID, input.Amount)
	})
	if err != nil {
		return nil, fmt.Errorf("pull in deposit: %w", err)
	}

	now := uc.nowFn().UTC()

	if err := uc.engine.Deposit(input.AccountID, input.Amount, now); err != nil {
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.DepositsAccepted.Inc()
		amt, _ := input.Amount.Float64()
		uc.metrics.DepositAmount.Observe(amt)
	}

	return uc.record(ctx, &domain.Operation{
		ID:        uc.idGen.Generate(),
		Type:      domain.OpTypeDeposit,
		AccountID: input.AccountID,
		Amount:    input.Amount,
		AppliedAt: now,
		CreatedAt: now,
	})
}

// WithdrawInput represents input for a withdrawal.
type WithdrawInput struct {
	AccountID string
	Amount    decimal.Decimal // internal ledger units
}

// WithdrawResult carries the externally redeemed quantity.
type WithdrawResult struct {
	Operation *domain.Operation
	Redeemed  decimal.Decimal // external asset units
}

// Withdraw removes vested value and pushes the redeemed asset out.
// The withdrawal is journaled before the push: a crash between the two
// leaves a journaled debit whose asset never left, which an operator
// can re-disburse, whereas the reverse order would let a restart
// resurrect already-redeemed balance.
func (uc *LedgerUseCase) Withdraw(ctx context.Context, input WithdrawInput) (*WithdrawResult, error) {
	now := uc.nowFn().UTC()

	redeemed, err := uc.engine.Withdraw(input.AccountID, input.Amount, now)
	if err != nil {
		if uc.metrics != nil {
			uc.metrics.OperationErrors.WithLabelValues(errorType(err)).Inc()
		}

		return nil, err
	}

	op, err := uc.record(ctx, &domain.Operation{
		ID:        uc.idGen.Generate(),
		Type:      domain.OpTypeWithdraw,
		AccountID: input.AccountID,
		Amount:    input.Amount,
		AppliedAt: now,
		CreatedAt: now,
	})
	if err != nil {
		return nil, err
	}

	err = uc.retrier.Retry(ctx, func() error {
		return uc.gateway.PushOut(ctx, input.AccountID, redeemed)
	})
	if err != nil {
		uc.logger.Error().
			Err(err).
			Str("operation_id", op.ID).
			Str("account_id", input.AccountID).
			Str("redeemed", redeemed.String()).
			Msg("asset push-out failed after journaled withdrawal, manual disbursement required")

		return nil, fmt.Errorf("push out withdrawal: %w", err)
	}

	if uc.metrics != nil {
		uc.metrics.WithdrawalsRedeemed.Inc()
		amt, _ := redeemed.Float64()
		uc.metrics.WithdrawAmount.Observe(amt)
	}

	return &WithdrawResult{Operation: op, Redeemed: redeemed}, nil
}

// TransferInput represents input for an internal transfer.
type TransferInput struct {
	FromAccountID string
	ToAccountID   string
	Amount        decimal.Decimal // internal ledger units
}

// Transfer moves vested value between accounts. The recipient's credit
// is immediately spendable; no external asset moves.
func (uc *LedgerUseCase) Transfer(ctx context.Context, input TransferInput) (*domain.Operation, error) {
	now := uc.nowFn().UTC()

	if err := uc.engine.Transfer(input.FromAccountID, input.ToAccountID, input.Amount, now); err != nil {
		if uc.metrics != nil {
			uc.metrics.OperationErrors.WithLabelValues(errorType(err)).Inc()
		}

		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.TransfersCompleted.Inc()
	}

	return uc.record(ctx, &domain.Operation{
		ID:             uc.idGen.Generate(),
		Type:           domain.OpTypeTransfer,
		AccountID:      input.FromAccountID,
		CounterpartyID: input.ToAccountID,
		Amount:         input.Amount,
		AppliedAt:      now,
		CreatedAt:      now,
	})
}

// BalanceOf returns the account's available balance in internal units.
func (uc *LedgerUseCase) BalanceOf(account string) (decimal.Decimal, error) {
	return uc.engine.BalanceOf(account, uc.nowFn().UTC())
}

// ScheduleOf returns the account's vesting schedule.
func (uc *LedgerUseCase) ScheduleOf(account string) (*domain.Schedule, error) {
	s := uc.engine.ScheduleOf(account)
	if s == nil {
		return nil, domain.ErrScheduleNotFound
	}

	return s, nil
}

// CheckConsistency verifies that the books balance: the sum of every
// account's fully-vested measure must equal net external flow.
func (uc *LedgerUseCase) CheckConsistency(ctx context.Context) (bool, error) {
	ledgerSum, netFlow := uc.engine.Consistency()

	if !ledgerSum.Equal(netFlow) {
		uc.logger.Error().
			Str("ledger_sum", ledgerSum.String()).
			Str("net_flow", netFlow.String()).
			Msg("ledger consistency check failed")

		return false, ErrInconsistentLedger
	}

	return true, nil
}

// Restore replays the journal into the engine. It must run before the
// use case accepts traffic; replayed operations bypass the gateway.
func (uc *LedgerUseCase) Restore(ctx context.Context) error {
	ops, err := uc.journal.List(ctx)
	if err != nil {
		return fmt.Errorf("list journal: %w", err)
	}

	for _, op := range ops {
		switch op.Type {
		case domain.OpTypeDeposit:
			err = uc.engine.Deposit(op.AccountID, op.Amount, op.AppliedAt)
		case domain.OpTypeWithdraw:
			_, err = uc.engine.Withdraw(op.AccountID, op.Amount, op.AppliedAt)
		case domain.OpTypeTransfer:
			err = uc.engine.Transfer(op.AccountID, op.CounterpartyID, op.Amount, op.AppliedAt)
		default:
			err = fmt.Errorf("unknown operation type %q", op.Type)
		}

		if err != nil {
			return fmt.Errorf("replay operation %s: %w", op.ID, err)
		}
	}

	if len(ops) > 0 {
		uc.logger.Info().Int("operations", len(ops)).Msg("ledger state restored from journal")
	}

	return nil
}

func (uc *LedgerUseCase) record(ctx context.Context, op *domain.Operation) (*domain.Operation, error) {
	if err := uc.journal.Append(ctx, op); err != nil {
		if uc.metrics != nil {
			uc.metrics.JournalAppendErrors.Inc()
		}

		// The engine already applied the operation; a journal gap must
		// be surfaced, not hidden.
		return nil, fmt.Errorf("journal append: %w", err)
	}

	if uc.metrics != nil {
		uc.metrics.JournalAppends.Inc()
	}

	return op, nil
}

func errorType(err error) string {
	switch {
	case errors.Is(err, domain.ErrInsufficientBalance):
		return "insufficient_balance"
	case errors.Is(err, domain.ErrInvalidAmount):
		return "invalid_amount"
	case errors.Is(err, domain.ErrNonMonotonicTime):
		return "non_monotonic_time"
	case errors.Is(err, domain.ErrSameAccount):
		return "same_account"
	default:
		return "other"
	}
}
