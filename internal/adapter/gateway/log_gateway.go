package gateway

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// LogGateway acknowledges asset movements and logs them. It stands in
// for a real custodian integration; every pull and push succeeds.
type LogGateway struct {
	logger zerolog.Logger
}

// NewLogGateway creates a new LogGateway.
func NewLogGateway(logger zerolog.Logger) *LogGateway {
	return &LogGateway{logger: logger}
}

// PullIn acknowledges collection of the external asset.
func (g *LogGateway) PullIn(ctx context.Context, from string, amount decimal.Decimal) error {
	g.logger.Info().
		Str("account_id", from).
		Str("amount", amount.String()).
		Msg("asset pulled in")
	return nil
}

// PushOut acknowledges disbursement of the external asset.
func (g *LogGateway) PushOut(ctx context.Context, to string, amount decimal.Decimal) error {
	g.logger.Info().
		Str("account_id", to).
		Str("amount", amount.String()).
		Msg("asset pushed out")
	return nil
}
