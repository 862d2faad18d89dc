// Package metrics exports named lock activity as Prometheus metrics.
//
// Workers are short-lived processes, so besides the usual registry the
// package can dump a registry into a node-exporter textfile.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/mrz1836/namedlock/internal/constants"
	"github.com/mrz1836/namedlock/internal/namedlock"
)

// Observer records lock activity. It implements namedlock.Observer.
type Observer struct {
	acquisitions *prometheus.CounterVec
	releases     *prometheus.CounterVec
	waitSeconds  *prometheus.HistogramVec
	holdSeconds  *prometheus.HistogramVec
	held         *prometheus.GaugeVec
}

var _ namedlock.Observer = (*Observer)(nil)

// NewObserver creates an Observer and registers its metrics on reg.
// It panics if the metrics are already registered on reg.
func NewObserver(reg prometheus.Registerer) *Observer {
	o := &Observer{
		acquisitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: constants.MetricsNamespace,
			Name:      "acquisitions_total",
			Help:      "Total number of completed lock waits by outcome",
		}, []string{"name", "outcome"}),
		releases: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: constants.MetricsNamespace,
			Name:      "releases_total",
			Help:      "Total number of lock releases",
		}, []string{"name"}),
		waitSeconds: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: constants.MetricsNamespace,
			Name:      "wait_seconds",
			Help:      "Time spent waiting for a lock",
			Buckets:   prometheus.ExponentialBuckets(0.0005, 4, 10),
		}, []string{"name"}),
		holdSeconds: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: constants.MetricsNamespace,
			Name:      "hold_seconds",
			Help:      "Time a lock was held before release",
			Buckets:   prometheus.DefBuckets,
		}, []string{"name"}),
		held: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: constants.MetricsNamespace,
			Name:      "held",
			Help:      "Number of handles in this process currently holding the lock",
		}, []string{"name"}),
	}
	reg.MustRegister(o.acquisitions, o.releases, o.waitSeconds, o.holdSeconds, o.held)
	return o
}

// ObserveAcquire records a completed wait.
func (o *Observer) ObserveAcquire(name string, acq namedlock.Acquisition) {
	o.acquisitions.WithLabelValues(name, acq.Outcome.String()).Inc()
	o.waitSeconds.WithLabelValues(name).Observe(acq.Waited.Seconds())
	if acq.Outcome.Held() {
		o.held.WithLabelValues(name).Inc()
	}
}

// ObserveRelease records a release.
func (o *Observer) ObserveRelease(name string, held time.Duration) {
	o.releases.WithLabelValues(name).Inc()
	o.holdSeconds.WithLabelValues(name).Observe(held.Seconds())
	o.held.WithLabelValues(name).Dec()
}

// WriteTextfile writes everything gathered from g to path in the text
// exposition format. The file is replaced atomically.
func WriteTextfile(path string, g prometheus.Gatherer) error {
	return prometheus.WriteToTextfile(path, g)
}
