package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Protocol activity metrics, registered on the default registry and served
// from the RPC listener's /metrics endpoint.
var (
	LoansOriginated = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "giglend",
		Subsystem: "lending",
		Name:      "loans_originated_total",
		Help:      "Total loans originated against the liquidity pool.",
	})

	LiquidityDeposits = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "giglend",
		Subsystem: "lending",
		Name:      "liquidity_deposits_total",
		Help:      "Total deposit records appended by liquidity providers.",
	})

	ProfileUpdates = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "giglend",
		Subsystem: "credit",
		Name:      "profile_updates_total",
		Help:      "Total credit profile writes.",
	})

	TotalLiquidity = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "giglend",
		Subsystem: "lending",
		Name:      "total_liquidity_units",
		Help:      "Current aggregate pool liquidity in base units.",
	})

	RPCRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "giglend",
		Subsystem: "rpc",
		Name:      "requests_total",
		Help:      "Total JSON-RPC requests segmented by method and outcome.",
	}, []string{"method", "outcome"})
)
