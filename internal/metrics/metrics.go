package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Outcome statuses used as the status label.
const (
	StatusOK            = "ok"
	StatusAlreadySigned = "already_signed"
	StatusInvalid       = "invalid"
	StatusNotFound      = "not_found"
	StatusError         = "error"
)

// Metrics observes signing runs.
type Metrics interface {
	ObserveSignature(status string, duration time.Duration)
}

// Noop implements Metrics without emitting anything.
type Noop struct{}

func (Noop) ObserveSignature(string, time.Duration) {}

// Prom implements Metrics backed by Prometheus collectors.
type Prom struct {
	signatures *prometheus.CounterVec
	duration   prometheus.Histogram
	gatherer   prometheus.Gatherer
}

// NewProm registers the signing collectors in reg under namespace.
// A nil reg uses a private registry.
func NewProm(namespace string, reg *prometheus.Registry) (*Prom, error) {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}

	p := &Prom{
		signatures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "signatures_total",
			Help:      "Signing runs by outcome status",
		}, []string{"status"}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "sign_duration_seconds",
			Help:      "Duration of signing runs",
			Buckets:   prometheus.DefBuckets,
		}),
		gatherer: reg,
	}

	for _, c := range []prometheus.Collector{p.signatures, p.duration} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}

	return p, nil
}

func (p *Prom) ObserveSignature(status string, duration time.Duration) {
	p.signatures.WithLabelValues(status).Inc()
	p.duration.Observe(duration.Seconds())
}

// Handler returns an HTTP handler exposing the collectors of p for /metrics.
func (p *Prom) Handler() http.Handler {
	return promhttp.HandlerFor(p.gatherer, promhttp.HandlerOpts{})
}
