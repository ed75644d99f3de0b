package ledger

import (
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/vestlock/internal/domain"
)

// redemptionScale bounds the precision of internal-to-external
// conversion; the quotient is truncated, never rounded up.
const redemptionScale = 18

// Ledger owns all account balances and vesting schedules.
//
// Deposits convert external asset units through a fixed rate into
// internal units and lock them under a linear schedule of fixed
// duration. Withdrawals and transfers spend only vested value. The
// ledger reads no clock: every operation takes the caller's time,
// which must be non-decreasing per account.
type Ledger struct {
	rate     decimal.Decimal
	duration time.Duration

	mu       sync.RWMutex
	accounts map[string]*entry

	totalsMu       sync.Mutex
	totalDeposited decimal.Decimal
	totalWithdrawn decimal.Decimal
}

// entry pairs an account with its lock. Operations touching two
// accounts acquire locks in account-ID order.
type entry struct {
	mu   sync.Mutex
	acct *domain.Account
}

// New creates a ledger with the given conversion rate (internal units
// per external unit, must be positive) and vesting duration.
func New(rate decimal.Decimal, duration time.Duration) *Ledger {
	if rate.LessThanOrEqual(decimal.Zero) {
		panic("ledger: conversion rate must be positive")
	}

	if duration <= 0 {
		panic("ledger: vesting duration must be positive")
	}

	return &Ledger{
		rate:           rate,
		duration:       duration,
		accounts:       make(map[string]*entry),
		totalDeposited: decimal.Zero,
		totalWithdrawn: decimal.Zero,
	}
}

// Rate returns the configured conversion rate.
func (l *Ledger) Rate() decimal.Decimal {
	return l.rate
}

// Duration returns the configured vesting duration.
func (l *Ledger) Duration() time.Duration {
	return l.duration
}

// Deposit locks amount (external units) for account under a fresh
// schedule starting at now. An existing schedule is merged: its
// vested-but-unwithdrawn value settles as immediately spendable and
// the unvested remainder re-locks with the new deposit.
func (l *Ledger) Deposit(account string, amount decimal.Decimal, now time.Time) error {
	if amount.LessThanOrEqual(decimal.Zero) {
		return domain.ErrInvalidAmount
	}

	e := l.get(account)

	e.mu.Lock()
	defer e.mu.Unlock()

	if now.Before(e.acct.LastOpAt) {
		return domain.ErrNonMonotonicTime
	}

	internal := amount.Mul(l.rate)
	e.acct.ApplyDeposit(internal, now, l.duration)

	l.totalsMu.Lock()
	l.totalDeposited = l.totalDeposited.Add(internal)
	l.totalsMu.Unlock()

	return nil
}

// Withdraw removes amount (internal units) from account's spendable
// value at now and returns the externally-redeemable quantity for the
// caller to disburse. State is unchanged on error.
func (l *Ledger) Withdraw(account string, amount decimal.Decimal, now time.Time) (decimal.Decimal, error) {
	e := l.get(account)

	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.acct.ValidateSpend(amount, now); err != nil {
		return decimal.Zero, err
	}

	e.acct.ApplySpend(amount, now)

	l.totalsMu.Lock()
	l.totalWithdrawn = l.totalWithdrawn.Add(amount)
	l.totalsMu.Unlock()

	redeemable, _ := amount.QuoRem(l.rate, redemptionScale)

	return redeemable, nil
}

// Transfer moves amount (internal units) from one account's spendable
// value to another's credited-unlocked balance. The recipient's own
// schedule is untouched and the transferred value is immediately
// spendable. The operation fails atomically with no partial effect.
func (l *Ledger) Transfer(from, to string, amount decimal.Decimal, now time.Time) error {
	if from == to {
		return domain.ErrSameAccount
	}

	if amount.LessThanOrEqual(decimal.Zero) {
		return domain.ErrInvalidAmount
	}

	src, dst := l.get(from), l.get(to)

	first, second := src, dst
	if strings.Compare(from, to) > 0 {
		first, second = dst, src
	}

	first.mu.Lock()
	defer first.mu.Unlock()
	second.mu.Lock()
	defer second.mu.Unlock()

	if now.Before(dst.acct.LastOpAt) {
		return domain.ErrNonMonotonicTime
	}

	if err := src.acct.ValidateSpend(amount, now); err != nil {
		return err
	}

	src.acct.ApplySpend(amount, now)
	dst.acct.ApplyCredit(amount, now)

	return nil
}

// BalanceOf returns account's available balance (internal units) at
// now. An account the ledger has never seen has a zero balance.
func (l *Ledger) BalanceOf(account string, now time.Time) (decimal.Decimal, error) {
	l.mu.RLock()
	e, ok := l.accounts[account]
	l.mu.RUnlock()

	if !ok {
		return decimal.Zero, nil
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if now.Before(e.acct.LastOpAt) {
		return decimal.Zero, domain.ErrNonMonotonicTime
	}

	return e.acct.AvailableAt(now), nil
}

// ScheduleOf returns a copy of account's vesting schedule, or nil when
// the account has none.
func (l *Ledger) ScheduleOf(account string) *domain.Schedule {
	l.mu.RLock()
	e, ok := l.accounts[account]
	l.mu.RUnlock()

	if !ok {
		return nil
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.acct.Schedule == nil {
		return nil
	}

	s := *e.acct.Schedule

	return &s
}

// Consistency returns the sum over all accounts of their fully-vested
// measure (principal - withdrawn + credited-unlocked) and the net
// external flow (total deposited - total withdrawn), both in internal
// units. The two are equal whenever the ledger's books balance.
func (l *Ledger) Consistency() (ledgerSum, netFlow decimal.Decimal) {
	l.mu.RLock()
	entries := make([]*entry, 0, len(l.accounts))
	for _, e := range l.accounts {
		entries = append(entries, e)
	}
	l.mu.RUnlock()

	ledgerSum = decimal.Zero
	for _, e := range entries {
		e.mu.Lock()
		ledgerSum = ledgerSum.Add(e.acct.Settled())
		e.mu.Unlock()
	}

	l.totalsMu.Lock()
	netFlow = l.totalDeposited.Sub(l.totalWithdrawn)
	l.totalsMu.Unlock()

	return ledgerSum, netFlow
}

func (l *Ledger) get(account string) *entry {
	l.mu.RLock()
	e, ok := l.accounts[account]
	l.mu.RUnlock()

	if ok {
		return e
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if e, ok = l.accounts[account]; ok {
		return e
	}

	e = &entry{acct: domain.NewAccount(account)}
	l.accounts[account] = e

	return e
}
