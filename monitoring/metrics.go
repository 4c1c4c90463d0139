package monitoring

import (
	"context"
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/redis/go-redis/v9"
)

var (
	openGigs = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "gig_open_total",
			Help: "Gigs currently open for booking",
		},
	)

	decisionsServed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gig_decisions_total",
			Help: "Resolved viewer actions by kind",
		},
		[]string{"kind", "enabled"},
	)

	applicationOps = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gig_application_operations_total",
			Help: "Application mutations by operation and outcome",
		},
		[]string{"operation", "outcome"},
	)

	decisionDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "gig_decision_duration_seconds",
			Help:    "Latency of full decision reads",
			Buckets: prometheus.ExponentialBuckets(0.0005, 2, 12),
		},
	)

	goroutineCount = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "active_goroutines_total",
			Help: "Current number of active goroutines",
		},
	)
)

// TrackDecision records one resolved action.
func TrackDecision(kind string, enabled bool) {
	label := "false"
	if enabled {
		label = "true"
	}
	decisionsServed.WithLabelValues(kind, label).Inc()
}

// TrackApplicationOp records one mutation attempt outcome.
func TrackApplicationOp(operation, outcome string) {
	applicationOps.WithLabelValues(operation, outcome).Inc()
}

// ObserveDecisionDuration records the latency of a decision read.
func ObserveDecisionDuration(d time.Duration) {
	decisionDuration.Observe(d.Seconds())
}

type Monitor struct {
	redis *redis.Client
}

func NewMonitor(redisClient *redis.Client) *Monitor {
	monitor := &Monitor{redis: redisClient}

	// Start metrics collection
	go monitor.collectMetrics()

	return monitor
}

func (m *Monitor) collectMetrics() {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for range ticker.C {
		ctx := context.Background()

		m.collectGigMetrics(ctx)
		goroutineCount.Set(float64(runtime.NumGoroutine()))
	}
}

func (m *Monitor) collectGigMetrics(ctx context.Context) {
	count, err := m.redis.SCard(ctx, "open_gigs").Result()
	if err != nil {
		return
	}
	openGigs.Set(float64(count))
}
