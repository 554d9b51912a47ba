// Package server assembles the HTTP surface: the Connect services, metrics
// and health endpoints.
package server

import (
	"net/http"

	"connectrpc.com/connect"
	"github.com/gorilla/mux"

	"github.com/PixelCode01/SHG-Mangement-sub000/internal/ledger"
	"github.com/PixelCode01/SHG-Mangement-sub000/internal/metrics"
	"github.com/PixelCode01/SHG-Mangement-sub000/internal/middleware"
	"github.com/PixelCode01/SHG-Mangement-sub000/internal/service"
	"github.com/PixelCode01/SHG-Mangement-sub000/pkg/api"
)

// HealthChecker reports whether a dependency is usable.
type HealthChecker interface {
	Ping() error
}

// NewRouter mounts the group ledger services on a router.
// health and m may be nil.
func NewRouter(l *ledger.Ledger, m *metrics.Metrics, health HealthChecker) http.Handler {
	router := mux.NewRouter()

	opts := connect.WithInterceptors(middleware.LoggingInterceptor())
	groupPath, groupHandler := api.NewGroupServiceHandler(service.NewGroupService(l), opts)
	contributionPath, contributionHandler := api.NewContributionServiceHandler(service.NewContributionService(l), opts)
	periodPath, periodHandler := api.NewPeriodServiceHandler(service.NewPeriodService(l), opts)

	router.PathPrefix(groupPath).Handler(groupHandler)
	router.PathPrefix(contributionPath).Handler(contributionHandler)
	router.PathPrefix(periodPath).Handler(periodHandler)

	router.HandleFunc("/healthz", healthHandler(health)).Methods(http.MethodGet)
	if m != nil {
		router.Handle("/metrics", m.Handler()).Methods(http.MethodGet)
	}

	router.Use(middleware.Logging, middleware.CORS)
	return router
}

func healthHandler(health HealthChecker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if health != nil {
			if err := health.Ping(); err != nil {
				http.Error(w, "unhealthy: "+err.Error(), http.StatusServiceUnavailable)
				return
			}
		}
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok\n"))
	}
}
