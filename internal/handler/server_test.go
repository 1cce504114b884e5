package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/prestanaute/backend/internal/domain"
	"github.com/prestanaute/backend/internal/handler"
	"github.com/prestanaute/backend/internal/service"
)

// mockIngestServicer is a test double for handler.IngestServicer.
type mockIngestServicer struct {
	ingestVehicle func(ctx context.Context, vehicleID string) (service.IngestReport, error)
}

func (m *mockIngestServicer) IngestVehicle(ctx context.Context, vehicleID string) (service.IngestReport, error) {
	return m.ingestVehicle(ctx, vehicleID)
}

var _ handler.IngestServicer = (*mockIngestServicer)(nil)

// mockValidationServicer is a test double for handler.ValidationServicer.
// Set only the method fields your test needs.
type mockValidationServicer struct {
	validate func(ctx context.Context, req service.ValidationRequest) (domain.ValidatedEntry, error)
	pending  func(ctx context.Context, vehicleID string) ([]domain.StoredJourney, error)
}

func (m *mockValidationServicer) Validate(ctx context.Context, req service.ValidationRequest) (domain.ValidatedEntry, error) {
	return m.validate(ctx, req)
}
func (m *mockValidationServicer) Pending(ctx context.Context, vehicleID string) ([]domain.StoredJourney, error) {
	return m.pending(ctx, vehicleID)
}

var _ handler.ValidationServicer = (*mockValidationServicer)(nil)

// mockWorksiteServicer is a test double for handler.WorksiteServicer.
type mockWorksiteServicer struct {
	search func(ctx context.Context, term string) ([]string, error)
}

func (m *mockWorksiteServicer) Search(ctx context.Context, term string) ([]string, error) {
	return m.search(ctx, term)
}

var _ handler.WorksiteServicer = (*mockWorksiteServicer)(nil)

// ---- helpers ---------------------------------------------------------------

// newHTTPHandler wires a Server with the given mocks into the chi route tree,
// mirroring how main.go wires it in production. Nil mocks are fine for
// endpoints the test never hits.
func newHTTPHandler(ingest handler.IngestServicer, validation handler.ValidationServicer, worksites handler.WorksiteServicer) http.Handler {
	return handler.NewServer(ingest, validation, worksites).Routes()
}

func jsonBody(t *testing.T, v any) *bytes.Buffer {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewBuffer(b)
}

func storedJourneyFixture() domain.StoredJourney {
	start := time.Date(2024, 3, 4, 8, 15, 0, 0, domain.Location)
	return domain.StoredJourney{
		ID:        uuid.New(),
		VehicleID: "VEH-001",
		Journey: domain.Journey{
			StartTime:        start,
			EndTime:          start.Add(45 * time.Minute),
			StartAddress:     "Rue de la Loi 16, Bruxelles",
			EndAddress:       "Chaussee de Charleroi 110, Saint-Gilles",
			IdleSecondsAfter: 600,
		},
		NeedsValidation: true,
		CreatedAt:       time.Now(),
	}
}

// errorCode extracts the machine-readable error code from an error body.
func errorCode(t *testing.T, body *bytes.Buffer) string {
	t.Helper()
	var resp struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	require.NoError(t, json.NewDecoder(body).Decode(&resp))
	return resp.Error.Code
}
