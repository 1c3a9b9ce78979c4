// Package api exposes the scrape and search operations over HTTP.
package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"travel-scraper/metrics"
	"travel-scraper/models"
	"travel-scraper/utils"
)

// TrainAPI is satisfied by *services.TrainService.
type TrainAPI interface {
	Scrape(ctx context.Context, req models.RouteScrapeRequest) (*models.ScrapeResult[*models.TrainRoute], error)
	Search(ctx context.Context, req models.TrainSearchRequest) (*models.SearchResult[*models.TrainRoute], error)
	Cities() []string
}

// FlightAPI is satisfied by *services.FlightService.
type FlightAPI interface {
	Scrape(ctx context.Context, req models.RouteScrapeRequest) (*models.ScrapeResult[*models.FlightRoute], error)
	Search(ctx context.Context, req models.FlightSearchRequest) (*models.SearchResult[*models.FlightRoute], error)
	Cities() []string
}

// ClassifiedAPI is satisfied by *services.ClassifiedService.
type ClassifiedAPI interface {
	Scrape(ctx context.Context, req models.ClassifiedScrapeRequest) (*models.ScrapeResult[*models.ClassifiedListing], error)
	Search(ctx context.Context, req models.ClassifiedSearchRequest) (*models.SearchResult[*models.ClassifiedListing], error)
	Deactivate(ctx context.Context, id string) error
	PriceHistory(ctx context.Context, id string) ([]*models.PriceHistoryEntry, error)
}

// Services groups the domain services the router dispatches to.
type Services struct {
	Trains      TrainAPI
	Flights     FlightAPI
	Classifieds ClassifiedAPI
}

// Server is the HTTP front of the scrape and search services.
type Server struct {
	httpServer *http.Server
	logger     *utils.Logger
}

// NewRouter builds the chi router. m may be nil, in which case /metrics is
// not mounted.
func NewRouter(svc Services, m *metrics.Metrics, logger *utils.Logger) http.Handler {
	h := &handlers{svc: svc, logger: logger}

	r := chi.NewRouter()
	r.Use(middleware.RealIP, requestLogger(logger), middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	if m != nil {
		r.Handle("/metrics", promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{}))
	}

	r.Route("/api", func(r chi.Router) {
		r.Route("/scrape", func(r chi.Router) {
			r.Post("/classifieds", h.scrapeClassifieds)
			r.Post("/trains", h.scrapeTrains)
			r.Post("/flights", h.scrapeFlights)
		})
		r.Route("/search", func(r chi.Router) {
			r.Post("/classifieds", h.searchClassifieds)
			r.Post("/trains", h.searchTrains)
			r.Post("/flights", h.searchFlights)
		})
		r.Get("/trains/cities", h.trainCities)
		r.Get("/flights/cities", h.flightCities)
		r.Get("/classifieds/{id}/price-history", h.priceHistory)
		r.Delete("/classifieds/{id}", h.deactivate)
	})
	return r
}

// NewServer wraps the router in an http.Server listening on addr.
func NewServer(addr string, svc Services, m *metrics.Metrics, logger *utils.Logger) *Server {
	return &Server{
		httpServer: &http.Server{
			Addr:              addr,
			Handler:           NewRouter(svc, m, logger),
			ReadHeaderTimeout: 10 * time.Second,
		},
		logger: logger,
	}
}

// Start serves until the server is stopped.
func (s *Server) Start() error {
	s.logger.Info("[api] Listening on %s", s.httpServer.Addr)
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("api: serve: %w", err)
	}
	return nil
}

// Stop shuts the server down gracefully.
func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("[api] Shutting down")
	return s.httpServer.Shutdown(ctx)
}
