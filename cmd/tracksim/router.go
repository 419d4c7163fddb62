package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/tracksim/internal/metrics"
	chiTransport "github.com/kailas-cloud/tracksim/internal/transport/chi"
)

// newRouter assembles the middleware chain and routes.
// Metrics wrap auth so rejected requests are counted too.
func newRouter(logger *zap.Logger, apiKeys []string, server *chiTransport.Server) http.Handler {
	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(logger))
	r.Use(metrics.Middleware())
	r.Use(chiTransport.BearerAuthMiddleware(apiKeys))
	r.Handle("/metrics", promhttp.Handler())
	server.Routes(r)
	return r
}
