package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/prestanaute/backend/internal/domain"
	"github.com/prestanaute/backend/internal/repo"
)

// ValidationRequest carries one operator decision from the HTTP layer:
// assign a worksite and operation code to a pending journey.
type ValidationRequest struct {
	VehicleID        string
	AccessID         int
	Operation        domain.OperationType
	StartTime        time.Time
	EndTime          time.Time
	WorksiteToken    string // "<id> | <name>", empty when the operation needs none
	Comment          string
	IdleSecondsAfter int
}

// ValidationService implements the validation workflow: the one transition a
// stored journey ever makes, from pending to validated.
type ValidationService struct {
	journeys  repo.JourneyRepo
	validated repo.ValidatedRepo
	worksites repo.WorksiteRepo
}

// NewValidationService constructs a ValidationService backed by the provided repos.
func NewValidationService(journeys repo.JourneyRepo, validated repo.ValidatedRepo, worksites repo.WorksiteRepo) *ValidationService {
	return &ValidationService{journeys: journeys, validated: validated, worksites: worksites}
}

// Validate applies an operator decision to a pending journey.
//
// Outcomes: domain.ErrValidation for bad input (over-long comment, missing
// required fields, worksite required but absent), domain.ErrInvalidWorksite
// for a malformed or unknown worksite token, domain.ErrConflict when the
// journey was already validated — whether caught by the pre-check or by the
// unique constraint at insert time, both race outcomes look the same to the
// caller. On success the entry insert and the journey flag flip commit as one
// transaction.
func (s *ValidationService) Validate(ctx context.Context, req ValidationRequest) (domain.ValidatedEntry, error) {
	if err := validateRequest(req); err != nil {
		return domain.ValidatedEntry{}, err
	}

	worksiteID := ""
	if req.Operation.RequiresWorksite() {
		if strings.TrimSpace(req.WorksiteToken) == "" {
			return domain.ValidatedEntry{}, fmt.Errorf("%w: worksite is required for this operation type", domain.ErrValidation)
		}

		id, err := domain.ParseWorksiteToken(req.WorksiteToken)
		if err != nil {
			return domain.ValidatedEntry{}, err
		}
		known, err := s.worksites.Exists(ctx, id)
		if err != nil {
			return domain.ValidatedEntry{}, fmt.Errorf("service.ValidationService.Validate: %w", err)
		}
		if !known {
			return domain.ValidatedEntry{}, fmt.Errorf("%w: unknown worksite %q", domain.ErrInvalidWorksite, id)
		}
		worksiteID = id
	}

	exists, err := s.validated.Exists(ctx, req.AccessID, req.StartTime)
	if err != nil {
		return domain.ValidatedEntry{}, fmt.Errorf("service.ValidationService.Validate: %w", err)
	}
	if exists {
		return domain.ValidatedEntry{}, fmt.Errorf("service.ValidationService.Validate: %w", domain.ErrConflict)
	}

	entry := domain.ValidatedEntry{
		WorksiteID:       worksiteID,
		AccessID:         req.AccessID,
		Operation:        req.Operation,
		StartTime:        req.StartTime,
		EndTime:          req.EndTime,
		Comment:          req.Comment,
		IdleSecondsAfter: req.IdleSecondsAfter,
	}

	created, err := s.validated.CreateAndClose(ctx, entry, req.VehicleID)
	if err != nil {
		return domain.ValidatedEntry{}, fmt.Errorf("service.ValidationService.Validate: %w", err)
	}
	return created, nil
}

// Pending returns the vehicle's journeys still awaiting validation.
// Always returns a non-nil slice so callers can safely range over it.
func (s *ValidationService) Pending(ctx context.Context, vehicleID string) ([]domain.StoredJourney, error) {
	journeys, err := s.journeys.PendingValidation(ctx, vehicleID)
	if err != nil {
		return nil, fmt.Errorf("service.ValidationService.Pending: %w", err)
	}
	if journeys == nil {
		return []domain.StoredJourney{}, nil
	}
	return journeys, nil
}

// validateRequest enforces the input rules checked before any lookup:
// required identifiers present, timestamps coherent, comment within bounds.
func validateRequest(req ValidationRequest) error {
	if strings.TrimSpace(req.VehicleID) == "" {
		return fmt.Errorf("%w: vehicle id is required", domain.ErrValidation)
	}
	if req.AccessID <= 0 {
		return fmt.Errorf("%w: access id is required", domain.ErrValidation)
	}
	if req.Operation <= 0 {
		return fmt.Errorf("%w: operation type is required", domain.ErrValidation)
	}
	if req.StartTime.IsZero() || req.EndTime.IsZero() {
		return fmt.Errorf("%w: start and end times are required", domain.ErrValidation)
	}
	if !req.StartTime.Before(req.EndTime) {
		return fmt.Errorf("%w: end time must be after start time", domain.ErrValidation)
	}
	if len(req.Comment) > domain.MaxCommentLength {
		return fmt.Errorf("%w: comment must not exceed %d characters", domain.ErrValidation, domain.MaxCommentLength)
	}
	return nil
}
