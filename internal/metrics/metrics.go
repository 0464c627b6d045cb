package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Transition metrics - one observation per entry point call
var (
	Transitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "market_transitions_total",
			Help: "Total number of ledger transitions by module, operation and outcome",
		},
		[]string{"module", "op", "outcome"},
	)

	TransitionDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "market_transition_duration_seconds",
			Help:    "Time taken to run a ledger transition, including commit",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"module", "op"},
	)
)

// Store metrics
var (
	StoreTransactions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "market_store_transactions_total",
			Help: "Total number of read-write store transactions by backend and result",
		},
		[]string{"backend", "result"},
	)
)

// Domain metrics
var (
	BidsAccepted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "market_bids_accepted_total",
		Help: "Total number of bids admitted by the auction engine",
	})

	AuctionExtensions = promauto.NewCounter(prometheus.CounterOpts{
		Name: "market_auction_extensions_total",
		Help: "Total number of auction end-time extensions triggered by late bids",
	})
)
