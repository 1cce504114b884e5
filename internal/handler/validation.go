package handler

import (
	"net/http"
	"time"

	"github.com/prestanaute/backend/internal/domain"
	"github.com/prestanaute/backend/internal/service"
)

// journeyTimeLayout is the timestamp layout used on the validation surface:
// local civil time, second precision, as stored.
const journeyTimeLayout = time.DateTime // "2006-01-02 15:04:05"

// createValidationRequest is the POST /validations body.
type createValidationRequest struct {
	VehicleID        string `json:"vehicle_id"`
	AccessID         int    `json:"access_id"`
	OperationType    int    `json:"operation_type"`
	StartTime        string `json:"start_time"`
	EndTime          string `json:"end_time"`
	Worksite         string `json:"worksite,omitempty"`
	Comment          string `json:"comment,omitempty"`
	IdleSecondsAfter int    `json:"idle_seconds_after"`
}

// CreateValidation handles POST /validations: an operator closing out a
// journey with a worksite and operation code.
func (s *Server) CreateValidation(w http.ResponseWriter, r *http.Request) {
	var body createValidationRequest
	if err := decodeJSON(r, &body); err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, requestBody("invalid request body"))
		return
	}

	req, err := requestToValidation(body)
	if err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, requestBody(err.Error()))
		return
	}

	entry, err := s.validation.Validate(r.Context(), req)
	if err != nil {
		respondError(w, err, "journey not found")
		return
	}

	writeJSON(w, http.StatusCreated, entry)
}

// requestToValidation converts the wire body into a service request,
// parsing the local-time timestamps. Field presence beyond the timestamps is
// the service's concern.
func requestToValidation(body createValidationRequest) (service.ValidationRequest, error) {
	start, err := time.ParseInLocation(journeyTimeLayout, body.StartTime, domain.Location)
	if err != nil {
		return service.ValidationRequest{}, err
	}
	end, err := time.ParseInLocation(journeyTimeLayout, body.EndTime, domain.Location)
	if err != nil {
		return service.ValidationRequest{}, err
	}

	return service.ValidationRequest{
		VehicleID:        body.VehicleID,
		AccessID:         body.AccessID,
		Operation:        domain.OperationType(body.OperationType),
		StartTime:        start,
		EndTime:          end,
		WorksiteToken:    body.Worksite,
		Comment:          body.Comment,
		IdleSecondsAfter: body.IdleSecondsAfter,
	}, nil
}
