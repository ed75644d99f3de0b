package ledger_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/vestlock/internal/domain"
	"github.com/iho/vestlock/internal/ledger"
)

const day = 86400 * time.Second

func newTestLedger() *ledger.Ledger {
	return ledger.New(decimal.New(1, 9), day) // 1e9 internal units per token
}

func balance(t *testing.T, l *ledger.Ledger, account string, at time.Time) decimal.Decimal {
	t.Helper()

	b, err := l.BalanceOf(account, at)
	if err != nil {
		t.Fatalf("unexpected error querying balance: %v", err)
	}

	return b
}

func TestLedger_LinearVesting(t *testing.T) {
	l := newTestLedger()

	if err := l.Deposit("alice", decimal.NewFromInt(10), time.Unix(0, 0)); err != nil {
		t.Fatalf("unexpected deposit error: %v", err)
	}

	if b := balance(t, l, "alice", time.Unix(0, 0)); !b.IsZero() {
		t.Errorf("expected zero balance at deposit time, got %s", b)
	}

	// 30% through the window.
	b := balance(t, l, "alice", time.Unix(25920, 0))
	expected := decimal.NewFromInt(3_000_000_000)
	if !b.Equal(expected) {
		t.Errorf("expected balance %s at 30%% of the window, got %s", expected, b)
	}

	full := decimal.NewFromInt(10_000_000_000)
	if b := balance(t, l, "alice", time.Unix(86400, 0)); !b.Equal(full) {
		t.Errorf("expected full balance %s at window end, got %s", full, b)
	}

	if b := balance(t, l, "alice", time.Unix(10*86400, 0)); !b.Equal(full) {
		t.Errorf("expected balance to stay at %s after window end, got %s", full, b)
	}
}

func TestLedger_PartialWithdrawThenContinuedVesting(t *testing.T) {
	l := newTestLedger()

	if err := l.Deposit("alice", decimal.NewFromInt(10), time.Unix(0, 0)); err != nil {
		t.Fatalf("unexpected deposit error: %v", err)
	}

	mid := time.Unix(25920, 0)
	avail := balance(t, l, "alice", mid)

	redeemed, err := l.Withdraw("alice", avail, mid)
	if err != nil {
		t.Fatalf("unexpected withdraw error: %v", err)
	}

	if !redeemed.Equal(decimal.NewFromInt(3)) {
		t.Errorf("expected 3 tokens redeemable, got %s", redeemed)
	}

	if b := balance(t, l, "alice", mid); !b.IsZero() {
		t.Errorf("expected zero balance right after full withdraw, got %s", b)
	}

	// One second later, exactly one tick of newly vested value.
	tick := balance(t, l, "alice", time.Unix(25921, 0))
	expected := decimal.NewFromInt(115_740) // trunc(1e10 * 25921/86400) - 3e9
	if !tick.Equal(expected) {
		t.Errorf("expected one tick %s of vested value, got %s", expected, tick)
	}
}

func TestLedger_MergeOnRedeposit(t *testing.T) {
	l := newTestLedger()

	if err := l.Deposit("alice", decimal.NewFromInt(10), time.Unix(0, 0)); err != nil {
		t.Fatalf("unexpected deposit error: %v", err)
	}

	mid := time.Unix(43200, 0)
	if err := l.Deposit("alice", decimal.NewFromInt(4), mid); err != nil {
		t.Fatalf("unexpected redeposit error: %v", err)
	}

	// Vested-but-unwithdrawn half stays immediately spendable.
	if b := balance(t, l, "alice", mid); !b.Equal(decimal.NewFromInt(5_000_000_000)) {
		t.Errorf("expected vested half to remain spendable after merge, got %s", b)
	}

	s := l.ScheduleOf("alice")
	if s == nil {
		t.Fatal("expected a schedule after merge")
	}

	// Unvested 5e9 re-locks together with the new 4e9.
	if !s.Principal.Equal(decimal.NewFromInt(9_000_000_000)) {
		t.Errorf("expected merged principal 9e9, got %s", s.Principal)
	}

	if !s.Start.Equal(mid) || !s.End.Equal(mid.Add(day)) {
		t.Errorf("expected schedule window [%v, %v], got [%v, %v]", mid, mid.Add(day), s.Start, s.End)
	}

	ledgerSum, netFlow := l.Consistency()
	if !ledgerSum.Equal(netFlow) {
		t.Errorf("conservation broken across merge: ledger sum %s, net flow %s", ledgerSum, netFlow)
	}
}

func TestLedger_TransferCreditsRecipientImmediately(t *testing.T) {
	l := newTestLedger()

	if err := l.Deposit("alice", decimal.NewFromInt(10), time.Unix(0, 0)); err != nil {
		t.Fatalf("unexpected deposit error: %v", err)
	}

	// Give bob his own in-progress schedule too.
	if err := l.Deposit("bob", decimal.NewFromInt(2), time.Unix(0, 0)); err != nil {
		t.Fatalf("unexpected deposit error: %v", err)
	}

	mid := time.Unix(43200, 0)
	bobBefore := balance(t, l, "bob", mid)
	bobSchedule := l.ScheduleOf("bob")

	amount := decimal.NewFromInt(1_000_000_000)
	if err := l.Transfer("alice", "bob", amount, mid); err != nil {
		t.Fatalf("unexpected transfer error: %v", err)
	}

	if b := balance(t, l, "bob", mid); !b.Equal(bobBefore.Add(amount)) {
		t.Errorf("expected recipient balance %s, got %s", bobBefore.Add(amount), b)
	}

	// The recipient's own schedule is untouched.
	after := l.ScheduleOf("bob")
	if !after.Start.Equal(bobSchedule.Start) || !after.End.Equal(bobSchedule.End) ||
		!after.Principal.Equal(bobSchedule.Principal) {
		t.Error("expected recipient schedule to be unchanged by incoming transfer")
	}

	// Transferred value never re-vests: spendable right away.
	if _, err := l.Withdraw("bob", amount, mid); err != nil {
		t.Errorf("expected transferred value to be immediately spendable: %v", err)
	}
}

func TestLedger_WithdrawErrors(t *testing.T) {
	tests := []struct {
		name      string
		amount    decimal.Decimal
		at        time.Time
		expectErr error
	}{
		{
			name:      "more than available",
			amount:    decimal.NewFromInt(6_000_000_000),
			at:        time.Unix(43200, 0),
			expectErr: domain.ErrInsufficientBalance,
		},
		{
			name:      "zero amount",
			amount:    decimal.Zero,
			at:        time.Unix(43200, 0),
			expectErr: domain.ErrInvalidAmount,
		},
		{
			name:      "negative amount",
			amount:    decimal.NewFromInt(-1),
			at:        time.Unix(43200, 0),
			expectErr: domain.ErrInvalidAmount,
		},
		{
			name:      "time before deposit",
			amount:    decimal.NewFromInt(1),
			at:        time.Unix(-1, 0),
			expectErr: domain.ErrNonMonotonicTime,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := newTestLedger()
			if err := l.Deposit("alice", decimal.NewFromInt(10), time.Unix(0, 0)); err != nil {
				t.Fatalf("unexpected deposit error: %v", err)
			}

			before := balance(t, l, "alice", time.Unix(43200, 0))

			_, err := l.Withdraw("alice", tt.amount, tt.at)
			if err != tt.expectErr {
				t.Fatalf("expected error %v, got %v", tt.expectErr, err)
			}

			// Failed operations leave state untouched.
			if b := balance(t, l, "alice", time.Unix(43200, 0)); !b.Equal(before) {
				t.Errorf("expected balance unchanged at %s, got %s", before, b)
			}
		})
	}
}

func TestLedger_TransferErrors(t *testing.T) {
	l := newTestLedger()
	if err := l.Deposit("alice", decimal.NewFromInt(10), time.Unix(0, 0)); err != nil {
		t.Fatalf("unexpected deposit error: %v", err)
	}

	mid := time.Unix(43200, 0)

	if err := l.Transfer("alice", "alice", decimal.NewFromInt(1), mid); err != domain.ErrSameAccount {
		t.Errorf("expected ErrSameAccount, got %v", err)
	}

	if err := l.Transfer("alice", "bob", decimal.NewFromInt(6_000_000_000), mid); err != domain.ErrInsufficientBalance {
		t.Errorf("expected ErrInsufficientBalance, got %v", err)
	}

	// Failed transfer must not credit the recipient.
	if b := balance(t, l, "bob", mid); !b.IsZero() {
		t.Errorf("expected no partial credit on failed transfer, got %s", b)
	}
}

func TestLedger_DepositRejectsNonMonotonicTime(t *testing.T) {
	l := newTestLedger()

	if err := l.Deposit("alice", decimal.NewFromInt(10), time.Unix(1000, 0)); err != nil {
		t.Fatalf("unexpected deposit error: %v", err)
	}

	if err := l.Deposit("alice", decimal.NewFromInt(1), time.Unix(999, 0)); err != domain.ErrNonMonotonicTime {
		t.Errorf("expected ErrNonMonotonicTime, got %v", err)
	}
}

func TestLedger_BalanceOfUnknownAccountIsZero(t *testing.T) {
	l := newTestLedger()

	if b := balance(t, l, "nobody", time.Unix(0, 0)); !b.IsZero() {
		t.Errorf("expected zero balance for unknown account, got %s", b)
	}

	if s := l.ScheduleOf("nobody"); s != nil {
		t.Errorf("expected no schedule for unknown account, got %+v", s)
	}
}

func TestLedger_BalanceOfRejectsEarlierTime(t *testing.T) {
	l := newTestLedger()

	if err := l.Deposit("alice", decimal.NewFromInt(10), time.Unix(1000, 0)); err != nil {
		t.Fatalf("unexpected deposit error: %v", err)
	}

	if _, err := l.BalanceOf("alice", time.Unix(999, 0)); err != domain.ErrNonMonotonicTime {
		t.Errorf("expected ErrNonMonotonicTime, got %v", err)
	}
}

func TestLedger_WithdrawReturnsRedeemableTokens(t *testing.T) {
	l := newTestLedger()

	if err := l.Deposit("alice", decimal.NewFromInt(10), time.Unix(0, 0)); err != nil {
		t.Fatalf("unexpected deposit error: %v", err)
	}

	redeemed, err := l.Withdraw("alice", decimal.NewFromInt(2_500_000_000), time.Unix(86400, 0))
	if err != nil {
		t.Fatalf("unexpected withdraw error: %v", err)
	}

	if !redeemed.Equal(decimal.NewFromFloat(2.5)) {
		t.Errorf("expected 2.5 tokens redeemable, got %s", redeemed)
	}
}
