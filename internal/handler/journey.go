package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// ListPendingJourneys handles GET /vehicles/{vehicleID}/journeys/pending.
// Returns the vehicle's journeys awaiting an operator decision; an empty list
// means everything has been validated.
func (s *Server) ListPendingJourneys(w http.ResponseWriter, r *http.Request) {
	vehicleID := chi.URLParam(r, "vehicleID")
	if vehicleID == "" {
		writeJSON(w, http.StatusUnprocessableEntity, requestBody("vehicle id is required"))
		return
	}

	journeys, err := s.validation.Pending(r.Context(), vehicleID)
	if err != nil {
		respondError(w, err, "vehicle not found")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"data": journeys})
}

// IngestVehicle handles POST /vehicles/{vehicleID}/ingest: a manual trigger
// of the ingestion pipeline for one vehicle. The report of the run is
// returned so the operator can see what landed.
func (s *Server) IngestVehicle(w http.ResponseWriter, r *http.Request) {
	vehicleID := chi.URLParam(r, "vehicleID")
	if vehicleID == "" {
		writeJSON(w, http.StatusUnprocessableEntity, requestBody("vehicle id is required"))
		return
	}

	report, err := s.ingest.IngestVehicle(r.Context(), vehicleID)
	if err != nil {
		// Fetch and window failures abort the run; nothing was persisted.
		writeJSON(w, http.StatusBadGateway,
			errorResponse{Error: errorDetail{Code: "ingestion_failed", Message: "failed to retrieve journeys from the tracking api"}})
		return
	}

	writeJSON(w, http.StatusOK, report)
}
