package scheduler

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

type metrics struct {
	runs     *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

func newMetrics(reg *prometheus.Registry) *metrics {
	m := &metrics{
		runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "yieldway",
			Subsystem: "scheduler",
			Name:      "job_runs_total",
			Help:      "Job runs by job type and outcome.",
		}, []string{"job", "outcome"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "yieldway",
			Subsystem: "scheduler",
			Name:      "job_duration_seconds",
			Help:      "Job run duration by job type.",
			Buckets:   prometheus.ExponentialBuckets(0.1, 2, 12),
		}, []string{"job"}),
	}
	reg.MustRegister(m.runs, m.duration)
	return m
}

func (m *metrics) observe(jobType JobType, success bool, d time.Duration) {
	outcome := "success"
	if !success {
		outcome = "failure"
	}
	m.runs.WithLabelValues(string(jobType), outcome).Inc()
	m.duration.WithLabelValues(string(jobType)).Observe(d.Seconds())
}
