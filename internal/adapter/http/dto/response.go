package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/vestlock/internal/domain"
)

// OperationResponse represents an accepted operation in API responses.
type OperationResponse struct {
	ID             string          `json:"id"`
	Type           string          `json:"type"`
	AccountID      string          `json:"account_id"`
	CounterpartyID string          `json:"counterparty_id,omitempty"`
	Amount         decimal.Decimal `json:"amount"`
	AppliedAt      time.Time       `json:"applied_at"`
}

// OperationFromDomain converts a domain operation to a response.
func OperationFromDomain(op *domain.Operation) *OperationResponse {
	return &OperationResponse{
		ID:             op.ID,
		Type:           op.Type,
		AccountID:      op.AccountID,
		CounterpartyID: op.CounterpartyID,
		Amount:         op.Amount,
		AppliedAt:      op.AppliedAt,
	}
}

// WithdrawResponse carries the operation plus the quantity of the
// external asset that was redeemed.
type WithdrawResponse struct {
	Operation *OperationResponse `json:"operation"`
	Redeemed  decimal.Decimal    `json:"redeemed"`
}

// BalanceResponse represents an account's available balance.
type BalanceResponse struct {
	AccountID string          `json:"account_id"`
	Balance   decimal.Decimal `json:"balance"`
	AsOf      time.Time       `json:"as_of"`
}

// ScheduleResponse represents an account's vesting schedule.
type ScheduleResponse struct {
	AccountID    string          `json:"account_id"`
	VestingStart time.Time       `json:"vesting_start"`
	VestingEnd   time.Time       `json:"vesting_end"`
	Principal    decimal.Decimal `json:"principal"`
}

// ScheduleFromDomain converts a domain schedule to a response.
func ScheduleFromDomain(accountID string, s *domain.Schedule) *ScheduleResponse {
	return &ScheduleResponse{
		AccountID:    accountID,
		VestingStart: s.Start,
		VestingEnd:   s.End,
		Principal:    s.Principal,
	}
}

// ConsistencyResponse represents the outcome of a consistency check.
type ConsistencyResponse struct {
	Status     string `json:"status"`
	Consistent bool   `json:"consistent"`
	Message    string `json:"message,omitempty"`
}

// ErrorResponse represents an error in API responses.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
