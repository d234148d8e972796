// Package metrics exposes Prometheus collectors for admin requests and
// placement RPCs on a private registry.
package metrics

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"google.golang.org/grpc"
	"google.golang.org/grpc/status"
)

const DefaultNamespace = "maned_bridge"

// Metrics holds the bridge collectors.
type Metrics struct {
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	rpcTotal        *prometheus.CounterVec
	rpcDuration     *prometheus.HistogramVec

	registry *prometheus.Registry
}

// New creates and registers the collectors under namespace.
func New(namespace string) *Metrics {
	if namespace == "" {
		namespace = DefaultNamespace
	}
	m := &Metrics{registry: prometheus.NewRegistry()}

	m.requestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "admin_requests_total",
			Help:      "Admin requests by route and envelope code",
		},
		[]string{"route", "code"},
	)
	m.requestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "admin_request_duration_seconds",
			Help:      "Admin request duration in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"route"},
	)
	m.rpcTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "placement_rpc_total",
			Help:      "Placement RPCs by method and gRPC code",
		},
		[]string{"method", "code"},
	)
	m.rpcDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "placement_rpc_duration_seconds",
			Help:      "Placement RPC latency in seconds",
			Buckets:   prometheus.ExponentialBuckets(0.0005, 2, 14),
		},
		[]string{"method"},
	)

	m.registry.MustRegister(m.requestsTotal, m.requestDuration, m.rpcTotal, m.rpcDuration)
	return m
}

// ObserveRequest records one admin request that answered with envelope code.
func (m *Metrics) ObserveRequest(route string, code uint64, d time.Duration) {
	m.requestsTotal.WithLabelValues(route, strconv.FormatUint(code, 10)).Inc()
	m.requestDuration.WithLabelValues(route).Observe(d.Seconds())
}

// ObserveRPC records one placement RPC.
func (m *Metrics) ObserveRPC(method string, err error, d time.Duration) {
	m.rpcTotal.WithLabelValues(method, status.Code(err).String()).Inc()
	m.rpcDuration.WithLabelValues(method).Observe(d.Seconds())
}

// UnaryClientInterceptor times every placement call made through a pool
// dialed with it.
func (m *Metrics) UnaryClientInterceptor() grpc.UnaryClientInterceptor {
	return func(ctx context.Context, method string, req, reply any, cc *grpc.ClientConn, invoker grpc.UnaryInvoker, opts ...grpc.CallOption) error {
		start := time.Now()
		err := invoker(ctx, method, req, reply, cc, opts...)
		m.ObserveRPC(method, err, time.Since(start))
		return err
	}
}

// Registry returns the private registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{
		EnableOpenMetrics: false,
	})
}
