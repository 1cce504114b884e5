// Package handler implements the HTTP handlers for the fleet journey API.
// All handlers are methods on Server. Methods are split into domain-specific
// files (journey.go, validation.go, worksite.go) but all share the same
// Server struct so they can access its dependencies.
package handler

import (
	"context"

	"github.com/go-chi/chi/v5"

	"github.com/prestanaute/backend/internal/domain"
	"github.com/prestanaute/backend/internal/service"
)

// IngestServicer defines the ingestion operation the journey handler depends
// on. Defining the interface here (in the consumer package) follows the Go
// convention: "accept interfaces, return concrete types". It lets handler
// tests inject a mock without touching the API client or the database.
type IngestServicer interface {
	IngestVehicle(ctx context.Context, vehicleID string) (service.IngestReport, error)
}

// ValidationServicer defines the validation workflow operations.
type ValidationServicer interface {
	Validate(ctx context.Context, req service.ValidationRequest) (domain.ValidatedEntry, error)
	Pending(ctx context.Context, vehicleID string) ([]domain.StoredJourney, error)
}

// WorksiteServicer defines the autocomplete lookup.
type WorksiteServicer interface {
	Search(ctx context.Context, term string) ([]string, error)
}

// Server holds the handlers for all API endpoints.
// Methods are in domain-specific files but all operate on this struct.
type Server struct {
	ingest     IngestServicer
	validation ValidationServicer
	worksites  WorksiteServicer
}

// NewServer constructs the Server with all its dependencies.
func NewServer(ingest IngestServicer, validation ValidationServicer, worksites WorksiteServicer) *Server {
	return &Server{ingest: ingest, validation: validation, worksites: worksites}
}

// Routes returns the API route tree. Middleware is the caller's concern;
// main.go wires the chain around this router.
func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/healthz", s.GetHealth)
	r.Route("/vehicles/{vehicleID}", func(r chi.Router) {
		r.Get("/journeys/pending", s.ListPendingJourneys)
		r.Post("/ingest", s.IngestVehicle)
	})
	r.Post("/validations", s.CreateValidation)
	r.Get("/worksites", s.SearchWorksites)

	return r
}
