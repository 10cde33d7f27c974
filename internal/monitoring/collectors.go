package monitoring

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

type collectors struct {
	pushSends            *prometheus.CounterVec
	pushSendLatency      prometheus.Histogram
	triggerEvents        *prometheus.CounterVec
	apiLatency           *prometheus.HistogramVec
	recommendations      *prometheus.CounterVec
	indexRefreshes       *prometheus.CounterVec
	indexRefreshDuration prometheus.Histogram
	indexProducts        prometheus.Gauge
}

func newCollectors(namespace string) *collectors {
	buckets := prometheus.DefBuckets

	return &collectors{
		pushSends: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "push_sends_total",
				Help:      "Push delivery requests by result (success or the delivery error class)",
			},
			[]string{"result"},
		),
		pushSendLatency: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "push_send_latency_seconds",
				Help:      "Time until the push delivery service acknowledged or rejected a send",
				Buckets:   buckets,
			},
		),
		triggerEvents: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "trigger_events_total",
				Help:      "Database trigger events by outcome (accepted|skipped|invalid)",
			},
			[]string{"result"},
		),
		apiLatency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "api_latency_seconds",
				Help:      "API endpoint latency",
				Buckets:   buckets,
			},
			[]string{"method", "path", "status"},
		),
		recommendations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "recommendations_total",
				Help:      "Recommendation queries by endpoint and result",
			},
			[]string{"endpoint", "result"},
		),
		indexRefreshes: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "index_refresh_total",
				Help:      "Recommendation index rebuilds by result",
			},
			[]string{"result"},
		),
		indexRefreshDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "index_refresh_duration_seconds",
				Help:      "Duration of recommendation index rebuilds",
				Buckets:   buckets,
			},
		),
		indexProducts: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "index_products",
				Help:      "Distinct products in the current recommendation index",
			},
		),
	}
}

func (c *collectors) all() []prometheus.Collector {
	return []prometheus.Collector{
		c.pushSends,
		c.pushSendLatency,
		c.triggerEvents,
		c.apiLatency,
		c.recommendations,
		c.indexRefreshes,
		c.indexRefreshDuration,
		c.indexProducts,
	}
}

// observeDuration records a duration in seconds on the supplied histogram observer.
func observeDuration(observer prometheus.Observer, d time.Duration) {
	if observer == nil {
		return
	}
	if d < 0 {
		d = 0
	}
	observer.Observe(d.Seconds())
}
