package metrics

import (
	"context"
	"log/slog"
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	"painscout/internal/db"
)

// Actor and outcome label values for analysis metrics.
const (
	ActorGuest = "guest"
	ActorUser  = "user"

	OutcomeCompleted      = "completed"
	OutcomeError          = "error"
	OutcomeTransportError = "transport_error"
	OutcomeDenied         = "denied"
	OutcomeAborted        = "aborted"
)

var (
	analysesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "painscout_analyses_total",
			Help: "Total analysis submissions by actor and outcome",
		},
		[]string{"actor", "outcome"},
	)

	historyRecordsDesc = prometheus.NewDesc(
		"painscout_history_records",
		"Number of persisted analysis records",
		nil,
		nil,
	)
)

// HistoryCollector is a custom Prometheus collector that reads the persisted
// record count from the database on each scrape.
type HistoryCollector struct {
	db *db.DB
}

// Describe sends the metric descriptor to the channel.
func (c *HistoryCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- historyRecordsDesc
}

// Collect queries the database for the record count and emits it as a gauge.
func (c *HistoryCollector) Collect(ch chan<- prometheus.Metric) {
	total, err := c.db.CountHistory(context.Background())
	if err != nil {
		slog.Error("failed to collect history metrics", "error", err)
		return
	}
	ch <- prometheus.MustNewConstMetric(historyRecordsDesc, prometheus.GaugeValue, float64(total))
}

var initOnce sync.Once

// Init registers the collectors. Must be called once at startup.
func Init(database *db.DB) {
	initOnce.Do(func() {
		prometheus.MustRegister(analysesTotal)
		prometheus.MustRegister(&HistoryCollector{db: database})
	})
}

// RecordAnalysis counts one analysis submission outcome.
func RecordAnalysis(actor, outcome string) {
	analysesTotal.WithLabelValues(actor, outcome).Inc()
}
