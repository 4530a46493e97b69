// Package metrics holds the Prometheus collectors of the dailies server.
package metrics

import (
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcomes of a demo run.
const (
	OutcomeOK       = "ok"
	OutcomeRejected = "rejected"
)

type Metrics struct {
	demoRuns        *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
}

var (
	metrics     *Metrics
	metricsOnce sync.Once
)

// Get returns the process-wide collectors, registering them on first use.
func Get() *Metrics {
	metricsOnce.Do(func() {
		metrics = &Metrics{
			demoRuns: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Namespace: "dailies",
					Name:      "demo_runs_total",
					Help:      "Total number of demo runs by demo and outcome",
				},
				[]string{"demo", "outcome"},
			),
			requestDuration: promauto.NewHistogramVec(
				prometheus.HistogramOpts{
					Namespace: "dailies",
					Name:      "http_request_duration_seconds",
					Help:      "HTTP request latency by method and status",
					Buckets:   prometheus.DefBuckets,
				},
				[]string{"method", "status"},
			),
		}
	})
	return metrics
}

func (m *Metrics) DemoRun(demo string, err error) {
	outcome := OutcomeOK
	if err != nil {
		outcome = OutcomeRejected
	}
	m.demoRuns.WithLabelValues(demo, outcome).Inc()
}

func (m *Metrics) Request(method string, status int, d time.Duration) {
	m.requestDuration.WithLabelValues(method, strconv.Itoa(status)).Observe(d.Seconds())
}
