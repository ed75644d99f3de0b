package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Account holds the vesting state for a single holder.
//
// Withdrawn counts value ever removed from the account's own schedule
// and never decreases while the schedule lives. CreditedUnlocked is
// value received from other holders' already-vested tokens; it is never
// subject to a vesting delay.
type Account struct {
	ID               string
	Schedule         *Schedule
	Withdrawn        decimal.Decimal
	CreditedUnlocked decimal.Decimal
	LastOpAt         time.Time
}

// NewAccount creates an empty account with no schedule.
func NewAccount(id string) *Account {
	return &Account{
		ID:               id,
		Withdrawn:        decimal.Zero,
		CreditedUnlocked: decimal.Zero,
	}
}

// VestedAt returns the vested portion of the account's own schedule at t.
func (a *Account) VestedAt(t time.Time) decimal.Decimal {
	if a.Schedule == nil {
		return decimal.Zero
	}

	return a.Schedule.VestedAt(t)
}

// AvailableAt returns the spendable balance at t:
// vested minus withdrawn plus credited-unlocked.
func (a *Account) AvailableAt(t time.Time) decimal.Decimal {
	return a.VestedAt(t).Sub(a.Withdrawn).Add(a.CreditedUnlocked)
}

// Settled returns the fully-vested measure of the account:
// principal minus withdrawn plus credited-unlocked. AvailableAt
// converges to this once the schedule has run out.
func (a *Account) Settled() decimal.Decimal {
	principal := decimal.Zero
	if a.Schedule != nil {
		principal = a.Schedule.Principal
	}

	return principal.Sub(a.Withdrawn).Add(a.CreditedUnlocked)
}

// ValidateSpend checks whether amount can be removed from the account at t.
func (a *Account) ValidateSpend(amount decimal.Decimal, t time.Time) error {
	if amount.LessThanOrEqual(decimal.Zero) {
		return ErrInvalidAmount
	}

	if t.Before(a.LastOpAt) {
		return ErrNonMonotonicTime
	}

	if amount.GreaterThan(a.AvailableAt(t)) {
		return ErrInsufficientBalance
	}

	return nil
}

// ApplySpend removes amount from the account's spendable value, drawing
// from credited-unlocked first and then from vested principal. The
// caller must have validated the spend.
func (a *Account) ApplySpend(amount decimal.Decimal, t time.Time) {
	fromCredited := decimal.Min(a.CreditedUnlocked, amount)
	a.CreditedUnlocked = a.CreditedUnlocked.Sub(fromCredited)
	a.Withdrawn = a.Withdrawn.Add(amount.Sub(fromCredited))
	a.LastOpAt = t
}

// ApplyCredit adds immediately-spendable value received from another
// holder's vested tokens.
func (a *Account) ApplyCredit(amount decimal.Decimal, t time.Time) {
	a.CreditedUnlocked = a.CreditedUnlocked.Add(amount)
	a.LastOpAt = t
}

// ApplyDeposit locks amount (internal units) under a fresh schedule
// ending duration after t.
//
// If a schedule already exists, its vested-but-unwithdrawn value is
// settled into CreditedUnlocked and the unvested remainder is carried
// into the new schedule, so the fully-vested measure of the account
// grows by exactly amount.
func (a *Account) ApplyDeposit(amount decimal.Decimal, t time.Time, duration time.Duration) {
	principal := amount

	if a.Schedule != nil {
		vested := a.Schedule.VestedAt(t)
		settled := vested.Sub(a.Withdrawn)
		remainder := a.Schedule.Principal.Sub(vested)

		a.CreditedUnlocked = a.CreditedUnlocked.Add(settled)
		principal = principal.Add(remainder)
	}

	a.Schedule = &Schedule{
		Start:     t,
		End:       t.Add(duration),
		Principal: principal,
	}
	a.Withdrawn = decimal.Zero
	a.LastOpAt = t
}
