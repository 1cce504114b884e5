package handler_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prestanaute/backend/internal/domain"
	"github.com/prestanaute/backend/internal/service"
)

func validationBody() map[string]any {
	return map[string]any{
		"vehicle_id":         "VEH-001",
		"access_id":          17,
		"operation_type":     7,
		"start_time":         "2024-03-04 08:15:00",
		"end_time":           "2024-03-04 09:00:00",
		"worksite":           "WS-1001 | Avenue Louise renovation",
		"comment":            "livraison matériel",
		"idle_seconds_after": 600,
	}
}

func postValidation(t *testing.T, svc *mockValidationServicer, body any) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/validations", jsonBody(t, body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	newHTTPHandler(nil, svc, nil).ServeHTTP(rec, req)
	return rec
}

func TestCreateValidation_201(t *testing.T) {
	var gotReq service.ValidationRequest
	svc := &mockValidationServicer{
		validate: func(_ context.Context, req service.ValidationRequest) (domain.ValidatedEntry, error) {
			gotReq = req
			return domain.ValidatedEntry{
				ID:         uuid.New(),
				WorksiteID: "WS-1001",
				AccessID:   req.AccessID,
				Operation:  req.Operation,
				StartTime:  req.StartTime,
				EndTime:    req.EndTime,
				Comment:    req.Comment,
				CreatedAt:  time.Now(),
			}, nil
		},
	}

	rec := postValidation(t, svc, validationBody())

	require.Equal(t, http.StatusCreated, rec.Code)

	// Timestamps arrive as local civil time.
	wantStart := time.Date(2024, 3, 4, 8, 15, 0, 0, domain.Location)
	assert.True(t, gotReq.StartTime.Equal(wantStart), "start time parsed in the local zone")
	assert.Equal(t, "VEH-001", gotReq.VehicleID)
	assert.Equal(t, domain.OperationType(7), gotReq.Operation)
	assert.Equal(t, "WS-1001 | Avenue Louise renovation", gotReq.WorksiteToken)

	var resp domain.ValidatedEntry
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.NotEqual(t, uuid.Nil, resp.ID)
	assert.Equal(t, "WS-1001", resp.WorksiteID)
}

func TestCreateValidation_422_MalformedBody(t *testing.T) {
	svc := &mockValidationServicer{}

	req := httptest.NewRequest(http.MethodPost, "/validations", strings.NewReader("{not json"))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	newHTTPHandler(nil, svc, nil).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "validation_error", errorCode(t, rec.Body))
}

func TestCreateValidation_422_UnknownField(t *testing.T) {
	svc := &mockValidationServicer{}

	body := validationBody()
	body["worskite"] = "typo" // unknown fields are rejected, not ignored

	rec := postValidation(t, svc, body)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestCreateValidation_422_BadTimestamp(t *testing.T) {
	svc := &mockValidationServicer{}

	body := validationBody()
	body["start_time"] = "04/03/2024 08:15"

	rec := postValidation(t, svc, body)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "validation_error", errorCode(t, rec.Body))
}

func TestCreateValidation_422_ServiceValidation(t *testing.T) {
	svc := &mockValidationServicer{
		validate: func(context.Context, service.ValidationRequest) (domain.ValidatedEntry, error) {
			return domain.ValidatedEntry{}, fmt.Errorf("%w: comment must not exceed 255 characters", domain.ErrValidation)
		},
	}

	rec := postValidation(t, svc, validationBody())

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	var resp struct {
		Error struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "validation_error", resp.Error.Code)
	assert.Equal(t, "comment must not exceed 255 characters", resp.Error.Message,
		"internal wrapping prefixes are stripped from the client message")
}

func TestCreateValidation_422_InvalidWorksite(t *testing.T) {
	svc := &mockValidationServicer{
		validate: func(context.Context, service.ValidationRequest) (domain.ValidatedEntry, error) {
			return domain.ValidatedEntry{}, fmt.Errorf("%w: unknown worksite %q", domain.ErrInvalidWorksite, "WS-9999")
		},
	}

	rec := postValidation(t, svc, validationBody())

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "invalid_worksite", errorCode(t, rec.Body))
}

func TestCreateValidation_409_AlreadyValidated(t *testing.T) {
	svc := &mockValidationServicer{
		validate: func(context.Context, service.ValidationRequest) (domain.ValidatedEntry, error) {
			return domain.ValidatedEntry{}, fmt.Errorf("wrap: %w", domain.ErrConflict)
		},
	}

	rec := postValidation(t, svc, validationBody())

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "already_validated", errorCode(t, rec.Body))
}

func TestCreateValidation_404_NoMatchingJourney(t *testing.T) {
	svc := &mockValidationServicer{
		validate: func(context.Context, service.ValidationRequest) (domain.ValidatedEntry, error) {
			return domain.ValidatedEntry{}, fmt.Errorf("wrap: %w", domain.ErrNotFound)
		},
	}

	rec := postValidation(t, svc, validationBody())

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "not_found", errorCode(t, rec.Body))
}
