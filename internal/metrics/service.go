package metrics

import (
	"context"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// PrometheusService exposes the default registry on /metrics.
type PrometheusService struct {
	Log    *zap.Logger
	server *http.Server
}

// Start serves metrics on addr in the background.
func (s *PrometheusService) Start(addr string) error {
	if s.Log == nil {
		s.Log = zap.NewNop()
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(prometheus.DefaultGatherer, promhttp.HandlerOpts{
		MaxRequestsInFlight: 5,
		Timeout:             30 * time.Second,
	}))

	s.server = &http.Server{Addr: addr, Handler: mux}

	go func() {
		s.Log.Info("starting metrics service", zap.String("address", s.server.Addr))
		err := s.server.ListenAndServe()
		if err != nil && err != http.ErrServerClosed {
			s.Log.Error("could not listen", zap.String("address", s.server.Addr), zap.Error(err))
		}
	}()
	return nil
}

// Stop shuts the service down gracefully.
func (s *PrometheusService) Stop() error {
	if s.server == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	return s.server.Shutdown(ctx)
}
