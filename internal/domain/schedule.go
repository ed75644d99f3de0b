package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Schedule is a linear unlock window over a locked principal.
// The principal vests from zero at Start to the full amount at End and
// stays fully vested forever after End.
type Schedule struct {
	Start     time.Time
	End       time.Time
	Principal decimal.Decimal
}

// VestedAt returns the portion of the principal unlocked at t.
// The proportional share is truncated toward zero so the result never
// exceeds the true fraction.
func (s *Schedule) VestedAt(t time.Time) decimal.Decimal {
	if !t.After(s.Start) {
		return decimal.Zero
	}

	if !t.Before(s.End) {
		return s.Principal
	}

	elapsed := decimal.NewFromInt(t.Unix() - s.Start.Unix())
	window := decimal.NewFromInt(s.End.Unix() - s.Start.Unix())

	vested, _ := s.Principal.Mul(elapsed).QuoRem(window, 0)

	return vested
}

// FullyVestedAt reports whether the whole principal has unlocked by t.
func (s *Schedule) FullyVestedAt(t time.Time) bool {
	return !t.Before(s.End)
}
