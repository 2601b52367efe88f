// Package metrics exports store activity to Prometheus.
package metrics

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/five82/logpanel/internal/logstore"
)

// Observer implements logstore.Observer with Prometheus collectors.
type Observer struct {
	appended *prometheus.CounterVec
	evicted  prometheus.Counter
	cleared  prometheus.Counter
	records  prometheus.Gauge
}

// NewObserver builds the collectors and registers them with reg.
func NewObserver(reg prometheus.Registerer) (*Observer, error) {
	o := &Observer{
		appended: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "logpanel",
			Name:      "records_appended_total",
			Help:      "Records appended to the store, by severity.",
		}, []string{"severity"}),
		evicted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "logpanel",
			Name:      "records_evicted_total",
			Help:      "Records dropped because the store was full.",
		}),
		cleared: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "logpanel",
			Name:      "store_clears_total",
			Help:      "Times the store was cleared.",
		}),
		records: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "logpanel",
			Name:      "records",
			Help:      "Records currently held by the store.",
		}),
	}

	for _, c := range []prometheus.Collector{o.appended, o.evicted, o.cleared, o.records} {
		if err := reg.Register(c); err != nil {
			return nil, fmt.Errorf("register metrics: %w", err)
		}
	}
	// expose every severity from the start, even at zero
	for _, sev := range logstore.Severities {
		o.appended.WithLabelValues(severityLabel(sev))
	}
	return o, nil
}

func (o *Observer) Appended(rec logstore.Record) {
	o.appended.WithLabelValues(severityLabel(rec.Severity)).Inc()
	o.records.Inc()
}

func (o *Observer) Evicted(logstore.Record) {
	o.evicted.Inc()
	o.records.Dec()
}

func (o *Observer) Cleared(n int) {
	o.cleared.Inc()
	o.records.Sub(float64(n))
}

func severityLabel(sev logstore.Severity) string {
	return strings.ToLower(sev.String())
}

// Server serves /metrics for one registry.
type Server struct {
	srv *http.Server
}

// NewServer returns an unstarted server for addr.
func NewServer(addr string, gatherer prometheus.Gatherer) *Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	return &Server{srv: &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}}
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- s.srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("metrics server: %w", err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := s.srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("metrics shutdown: %w", err)
		}
		return nil
	}
}

// Handler exposes the HTTP handler, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.srv.Handler
}
