package graphql

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const statusOK = "ok"

// Metrics records one counter and one latency histogram per operation.
// A nil *Metrics records nothing.
type Metrics struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewMetrics creates the client collectors and registers them with reg.
// Pass prometheus.DefaultRegisterer to expose them on the default registry.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "saleor",
			Subsystem: "graphql",
			Name:      "requests_total",
			Help:      "GraphQL requests sent, by operation and outcome.",
		}, []string{"operation", "status"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "saleor",
			Subsystem: "graphql",
			Name:      "request_duration_seconds",
			Help:      "GraphQL request latency, by operation.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation"}),
	}
	if reg != nil {
		for _, c := range []prometheus.Collector{m.requests, m.duration} {
			if err := reg.Register(c); err != nil {
				return nil, err
			}
		}
	}
	return m, nil
}

func (m *Metrics) observe(operation, status string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(operation, status).Inc()
	m.duration.WithLabelValues(operation).Observe(elapsed.Seconds())
}

// statusOf labels the outcome of a request: "ok", "graphql_error" for errors
// reported by the server, or the client error code.
func statusOf(errs Errors) string {
	if len(errs) == 0 {
		return statusOK
	}
	if code := errs[0].GetCode(); code != "" {
		return code
	}
	return "graphql_error"
}
