package interceptor

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/ragnaraven/zitadel-go-dual/pkg/rpc"
)

// Metrics records a request counter and a latency histogram per call.
type Metrics struct {
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
}

// NewMetrics registers the client metrics with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		RequestsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "zitadel_client_requests_total",
			Help: "Total ZITADEL API calls by outcome code.",
		}, []string{"service", "method", "code"}),
		RequestDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "zitadel_client_request_duration_seconds",
			Help:    "ZITADEL API call duration in seconds.",
			Buckets: prometheus.DefBuckets,
		}, []string{"service", "method"}),
	}
}

func (m *Metrics) Intercept(ctx context.Context, call *rpc.Call, req, resp any, next rpc.Invoker) error {
	start := time.Now()
	err := next(ctx, call, req, resp)
	svc, method := call.Service(), call.Method()
	m.RequestsTotal.WithLabelValues(svc, method, rpc.Code(err).String()).Inc()
	m.RequestDuration.WithLabelValues(svc, method).Observe(time.Since(start).Seconds())
	return err
}
