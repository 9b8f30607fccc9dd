/*
aodb REST API

This is the REST API for aodb, an embeddable MVCC key-value store.

Version: 1.0.0
Host: localhost:8080
BasePath: /v1

SecurityDefinitions:
  - ApiKeyAuth:
    type: apiKey
    in: header
    name: X-API-Key
*/
package api

import (
	"fmt"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/ssargent/aodb/pkg/aodb"
)

// StartServer starts the HTTP server with all routes configured
func StartServer(db *aodb.DB, config ServerConfig) error {
	metrics := NewMetrics()
	server := NewServer(db, config, metrics)

	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// Prometheus metrics endpoint (unprotected for scraping)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/v1", func(r chi.Router) {
		r.Use(metrics.InstrumentAuthMiddleware(apiKeyMiddleware(config.APIKey)))

		r.Get("/health", metrics.InstrumentHandler("GET", "/v1/health", server.handleHealth))
		r.Get("/stats", metrics.InstrumentHandler("GET", "/v1/stats", server.handleStats))
		r.Get("/current", metrics.InstrumentHandler("GET", "/v1/current", server.handleCurrent))
		r.Post("/commit", metrics.InstrumentHandler("POST", "/v1/commit", server.handleCommit))

		r.Get("/versions/{v}/keys/{key}", metrics.InstrumentHandler("GET", "/v1/versions/{v}/keys/{key}", server.handleGetKey))
		r.Put("/versions/{v}/keys/{key}", metrics.InstrumentHandler("PUT", "/v1/versions/{v}/keys/{key}", server.handlePutKey))
		r.Delete("/versions/{v}/keys/{key}", metrics.InstrumentHandler("DELETE", "/v1/versions/{v}/keys/{key}", server.handleDeleteKey))

		r.Get("/versions/{a}/based-on/{b}", metrics.InstrumentHandler("GET", "/v1/versions/{a}/based-on/{b}", server.handleBasedOn))
		r.Get("/versions/{a}/common-ancestor/{b}", metrics.InstrumentHandler("GET", "/v1/versions/{a}/common-ancestor/{b}", server.handleCommonAncestor))
		r.Get("/versions/{a}/diff/{b}", metrics.InstrumentHandler("GET", "/v1/versions/{a}/diff/{b}", server.handleDiff))

		r.Get("/versions/{v}/iterate", metrics.InstrumentHandler("GET", "/v1/versions/{v}/iterate", server.handleIterate))
		r.Post("/versions/{v}/apply", metrics.InstrumentHandler("POST", "/v1/versions/{v}/apply", server.handleApply))
	})

	addr := fmt.Sprintf(":%d", config.Port)
	fmt.Printf("Starting aodb REST API server on %s\n", addr)
	fmt.Printf("Metrics available at: http://localhost:%d/metrics\n", config.Port)
	log.Fatal(http.ListenAndServe(addr, r))

	return nil
}
