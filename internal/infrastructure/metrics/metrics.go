package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// Ledger operation metrics
	DepositsAccepted    prometheus.Counter
	WithdrawalsRedeemed prometheus.Counter
	TransfersCompleted  prometheus.Counter
	OperationErrors     *prometheus.CounterVec
	DepositAmount       prometheus.Histogram
	WithdrawAmount      prometheus.Histogram

	// Journal metrics
	JournalAppends      prometheus.Counter
	JournalAppendErrors prometheus.Counter
	EventsPublished     prometheus.Counter
}

// New creates and registers all Prometheus metrics
func New() *Metrics {
	return &Metrics{
		DepositsAccepted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "vestlock_deposits_accepted_total",
			Help: "Total number of accepted deposits",
		}),
		WithdrawalsRedeemed: promauto.NewCounter(prometheus.CounterOpts{
			Name: "vestlock_withdrawals_redeemed_total",
			Help: "Total number of redeemed withdrawals",
		}),
		TransfersCompleted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "vestlock_transfers_completed_total",
			Help: "Total number of completed internal transfers",
		}),
		OperationErrors: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "vestlock_operation_errors_total",
				Help: "Total number of rejected operations by error type",
			},
			[]string{"error_type"},
		),
		DepositAmount: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "vestlock_deposit_amount",
			Help:    "Deposit amounts in external asset units",
			Buckets: []float64{1, 10, 100, 1000, 10000, 100000, 1000000},
		}),
		WithdrawAmount: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "vestlock_withdraw_amount",
			Help:    "Redeemed withdrawal amounts in external asset units",
			Buckets: []float64{1, 10, 100, 1000, 10000, 100000, 1000000},
		}),

		JournalAppends: promauto.NewCounter(prometheus.CounterOpts{
			Name: "vestlock_journal_appends_total",
			Help: "Total number of operations appended to the journal",
		}),
		JournalAppendErrors: promauto.NewCounter(prometheus.CounterOpts{
			Name: "vestlock_journal_append_errors_total",
			Help: "Total number of failed journal appends",
		}),
		EventsPublished: promauto.NewCounter(prometheus.CounterOpts{
			Name: "vestlock_events_published_total",
			Help: "Total number of journal records published as events",
		}),
	}
}
