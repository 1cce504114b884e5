package repo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/prestanaute/backend/internal/domain"
)

// JourneyRepo defines the persistence operations for stored journeys.
// The service layer depends on this interface, not the concrete Postgres
// implementation, which allows the services to be unit-tested with mocks.
type JourneyRepo interface {
	// Insert persists a new journey and returns the stored record (with
	// DB-generated id and created_at populated). NeedsValidation is always
	// true on insert. Returns domain.ErrConflict if a journey with the same
	// (vehicle id, start time) already exists.
	Insert(ctx context.Context, journey domain.StoredJourney) (domain.StoredJourney, error)

	// Exists reports whether a journey with the given (vehicle id, start time)
	// is already stored.
	Exists(ctx context.Context, vehicleID string, startTime time.Time) (bool, error)

	// LastEndTime returns the end time of the vehicle's most recent stored
	// journey. Returns domain.ErrNotFound when the vehicle has no history.
	LastEndTime(ctx context.Context, vehicleID string) (time.Time, error)

	// PendingValidation returns the vehicle's journeys still awaiting an
	// operator decision, ordered by start time ascending. An empty slice is a
	// valid outcome, not an error.
	PendingValidation(ctx context.Context, vehicleID string) ([]domain.StoredJourney, error)

	// MarkValidated flips the journey's needs_validation flag to false.
	// Returns domain.ErrNotFound if no journey matches (vehicle id, start time).
	MarkValidated(ctx context.Context, vehicleID string, startTime time.Time) error

	// ZeroIdleTail returns the vehicle's most recent journey whose trailing
	// idle time is still unknown (idle_seconds_after = 0). Returns
	// domain.ErrNotFound when there is none.
	ZeroIdleTail(ctx context.Context, vehicleID string) (domain.StoredJourney, error)

	// UpdateIdleSeconds sets the stored journey's trailing idle time, used by
	// reconciliation once the following journey is known.
	UpdateIdleSeconds(ctx context.Context, id uuid.UUID, seconds int) error
}

// pgJourneyRepo is the Postgres implementation of JourneyRepo.
type pgJourneyRepo struct {
	db db
}

// NewJourneyRepo constructs a JourneyRepo backed by the provided db connection.
// In production pass *pgxpool.Pool; in tests pass a pgx.Tx for rollback isolation.
func NewJourneyRepo(db db) JourneyRepo {
	return &pgJourneyRepo{db: db}
}

const journeyColumns = `id, vehicle_id, needs_validation, start_time, end_time,
		start_address, end_address, start_longitude, start_latitude,
		end_longitude, end_latitude, idle_seconds_after, created_at`

func (r *pgJourneyRepo) Insert(ctx context.Context, journey domain.StoredJourney) (domain.StoredJourney, error) {
	const q = `
		INSERT INTO journeys (vehicle_id, needs_validation, start_time, end_time,
			start_address, end_address, start_longitude, start_latitude,
			end_longitude, end_latitude, idle_seconds_after)
		VALUES (@vehicle_id, TRUE, @start_time, @end_time,
			@start_address, @end_address, @start_longitude, @start_latitude,
			@end_longitude, @end_latitude, @idle_seconds_after)
		RETURNING ` + journeyColumns

	args := pgx.NamedArgs{
		"vehicle_id":         journey.VehicleID,
		"start_time":         journey.StartTime,
		"end_time":           journey.EndTime,
		"start_address":      journey.StartAddress,
		"end_address":        journey.EndAddress,
		"start_longitude":    journey.StartLongitude,
		"start_latitude":     journey.StartLatitude,
		"end_longitude":      journey.EndLongitude,
		"end_latitude":       journey.EndLatitude,
		"idle_seconds_after": journey.IdleSecondsAfter,
	}

	row := r.db.QueryRow(ctx, q, args)
	result, err := scanJourney(row)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.StoredJourney{}, fmt.Errorf("repo.JourneyRepo.Insert: vehicle %s at %s: %w",
				journey.VehicleID, journey.StartTime.Format(time.DateTime), domain.ErrConflict)
		}
		return domain.StoredJourney{}, fmt.Errorf("repo.JourneyRepo.Insert: %w", err)
	}
	return result, nil
}

func (r *pgJourneyRepo) Exists(ctx context.Context, vehicleID string, startTime time.Time) (bool, error) {
	const q = `
		SELECT EXISTS (
			SELECT 1 FROM journeys
			WHERE vehicle_id = @vehicle_id AND start_time = @start_time)`

	var exists bool
	row := r.db.QueryRow(ctx, q, pgx.NamedArgs{"vehicle_id": vehicleID, "start_time": startTime})
	if err := row.Scan(&exists); err != nil {
		return false, fmt.Errorf("repo.JourneyRepo.Exists: %w", err)
	}
	return exists, nil
}

func (r *pgJourneyRepo) LastEndTime(ctx context.Context, vehicleID string) (time.Time, error) {
	const q = `SELECT MAX(end_time) FROM journeys WHERE vehicle_id = @vehicle_id`

	// MAX over zero rows yields NULL, so scan into a nullable timestamp.
	var last pgtype.Timestamptz
	row := r.db.QueryRow(ctx, q, pgx.NamedArgs{"vehicle_id": vehicleID})
	if err := row.Scan(&last); err != nil {
		return time.Time{}, fmt.Errorf("repo.JourneyRepo.LastEndTime: %w", err)
	}
	if !last.Valid {
		return time.Time{}, fmt.Errorf("repo.JourneyRepo.LastEndTime: vehicle %s: %w", vehicleID, domain.ErrNotFound)
	}
	return last.Time.In(domain.Location), nil
}

func (r *pgJourneyRepo) PendingValidation(ctx context.Context, vehicleID string) ([]domain.StoredJourney, error) {
	const q = `
		SELECT ` + journeyColumns + `
		FROM journeys
		WHERE vehicle_id = @vehicle_id AND needs_validation
		ORDER BY start_time`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"vehicle_id": vehicleID})
	if err != nil {
		return nil, fmt.Errorf("repo.JourneyRepo.PendingValidation: %w", err)
	}
	defer rows.Close()

	var journeys []domain.StoredJourney
	for rows.Next() {
		j, err := scanJourney(rows)
		if err != nil {
			return nil, fmt.Errorf("repo.JourneyRepo.PendingValidation: scan: %w", err)
		}
		journeys = append(journeys, j)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.JourneyRepo.PendingValidation: rows: %w", err)
	}

	return journeys, nil
}

func (r *pgJourneyRepo) MarkValidated(ctx context.Context, vehicleID string, startTime time.Time) error {
	const q = `
		UPDATE journeys
		SET needs_validation = FALSE
		WHERE vehicle_id = @vehicle_id AND start_time = @start_time`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"vehicle_id": vehicleID, "start_time": startTime})
	if err != nil {
		return fmt.Errorf("repo.JourneyRepo.MarkValidated: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.JourneyRepo.MarkValidated: %w", domain.ErrNotFound)
	}
	return nil
}

func (r *pgJourneyRepo) ZeroIdleTail(ctx context.Context, vehicleID string) (domain.StoredJourney, error) {
	const q = `
		SELECT ` + journeyColumns + `
		FROM journeys
		WHERE vehicle_id = @vehicle_id AND idle_seconds_after = 0
		ORDER BY end_time DESC
		LIMIT 1`

	row := r.db.QueryRow(ctx, q, pgx.NamedArgs{"vehicle_id": vehicleID})
	result, err := scanJourney(row)
	if err != nil {
		return domain.StoredJourney{}, fmt.Errorf("repo.JourneyRepo.ZeroIdleTail: %w", err)
	}
	return result, nil
}

func (r *pgJourneyRepo) UpdateIdleSeconds(ctx context.Context, id uuid.UUID, seconds int) error {
	const q = `
		UPDATE journeys
		SET idle_seconds_after = @seconds
		WHERE id = @id`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"id": id, "seconds": seconds})
	if err != nil {
		return fmt.Errorf("repo.JourneyRepo.UpdateIdleSeconds: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.JourneyRepo.UpdateIdleSeconds: %w", domain.ErrNotFound)
	}
	return nil
}

// scanJourney maps a single database row into a domain.StoredJourney.
// Timestamps come back in the session zone and are converted to the fixed
// local zone so every layer above sees civil time.
func scanJourney(s scanner) (domain.StoredJourney, error) {
	var (
		j  domain.StoredJourney
		id pgtype.UUID
	)

	err := s.Scan(&id, &j.VehicleID, &j.NeedsValidation, &j.StartTime, &j.EndTime,
		&j.StartAddress, &j.EndAddress, &j.StartLongitude, &j.StartLatitude,
		&j.EndLongitude, &j.EndLatitude, &j.IdleSecondsAfter, &j.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.StoredJourney{}, domain.ErrNotFound
		}
		return domain.StoredJourney{}, err
	}

	j.ID = uuid.UUID(id.Bytes)
	j.StartTime = j.StartTime.In(domain.Location)
	j.EndTime = j.EndTime.In(domain.Location)

	return j, nil
}
