package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	LookupsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lookups_total",
			Help: "Total number of unit lookups by query kind and result status",
		},
		[]string{"kind", "status"},
	)

	LookupDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "lookup_duration_seconds",
			Help:    "Duration of a lookup including the store read, in seconds",
			Buckets: []float64{.05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"source"},
	)

	StoreFetchErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "store_fetch_errors_total",
			Help: "Total number of failed record store reads",
		},
		[]string{"source"},
	)

	StoreRecordsFetched = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "store_records_fetched",
			Help: "Number of records returned by the last store read",
		},
		[]string{"source"},
	)

	TelegramUpdates = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "telegram_updates_total",
			Help: "Telegram updates handled, by outcome",
		},
		[]string{"outcome"},
	)

	WorkerJobsCompleted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "worker_jobs_completed_total",
			Help: "Total number of Zeebe jobs completed by worker",
		},
		[]string{"task_type"},
	)

	OutboundRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "outbound_http_requests_total",
			Help: "Outbound HTTP requests by host and result",
		},
		[]string{"host", "result"},
	)
)
