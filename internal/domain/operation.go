package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Operation types
const (
	OpTypeDeposit  = "deposit"
	OpTypeWithdraw = "withdraw"
	OpTypeTransfer = "transfer"
)

// Operation is one accepted ledger mutation, recorded in the journal.
// Deposit amounts are in external asset units; withdraw and transfer
// amounts are in internal ledger units.
type Operation struct {
	ID             string
	Type           string
	AccountID      string
	CounterpartyID string
	Amount         decimal.Decimal
	AppliedAt      time.Time
	CreatedAt      time.Time
	Published      bool
	PublishedAt    *time.Time
}

// Event types emitted when journal records are published.
const (
	EventTypeDepositAccepted    = "deposit.accepted"
	EventTypeWithdrawalRedeemed = "withdrawal.redeemed"
	EventTypeTransferCompleted  = "transfer.completed"
)

// EventType returns the event name for the operation's type.
func (o *Operation) EventType() string {
	switch o.Type {
	case OpTypeDeposit:
		return EventTypeDepositAccepted
	case OpTypeWithdraw:
		return EventTypeWithdrawalRedeemed
	default:
		return EventTypeTransferCompleted
	}
}
