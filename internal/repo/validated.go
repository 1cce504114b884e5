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

// ValidatedRepo defines the persistence operations for validated entries.
type ValidatedRepo interface {
	// Exists reports whether an entry for (access id, start time) is already
	// recorded — the "already validated" guard.
	Exists(ctx context.Context, accessID int, startTime time.Time) (bool, error)

	// CreateAndClose inserts the validated entry and flips the matching
	// journey's needs_validation flag, as one transaction: either both writes
	// land or neither does. Returns domain.ErrConflict if an entry for
	// (access id, start time) already exists, domain.ErrNotFound if no pending
	// journey matches (vehicle id, start time).
	CreateAndClose(ctx context.Context, entry domain.ValidatedEntry, vehicleID string) (domain.ValidatedEntry, error)
}

// pgValidatedRepo is the Postgres implementation of ValidatedRepo.
// It holds a txdb rather than a plain db because CreateAndClose spans two
// statements that must commit together.
type pgValidatedRepo struct {
	db txdb
}

// NewValidatedRepo constructs a ValidatedRepo backed by the provided db
// connection. In production pass *pgxpool.Pool; in tests a pgx.Tx works too
// (the inner transaction becomes a savepoint).
func NewValidatedRepo(db txdb) ValidatedRepo {
	return &pgValidatedRepo{db: db}
}

func (r *pgValidatedRepo) Exists(ctx context.Context, accessID int, startTime time.Time) (bool, error) {
	const q = `
		SELECT EXISTS (
			SELECT 1 FROM validated_entries
			WHERE access_id = @access_id AND start_time = @start_time)`

	var exists bool
	row := r.db.QueryRow(ctx, q, pgx.NamedArgs{"access_id": accessID, "start_time": startTime})
	if err := row.Scan(&exists); err != nil {
		return false, fmt.Errorf("repo.ValidatedRepo.Exists: %w", err)
	}
	return exists, nil
}

func (r *pgValidatedRepo) CreateAndClose(ctx context.Context, entry domain.ValidatedEntry, vehicleID string) (domain.ValidatedEntry, error) {
	const insertQ = `
		INSERT INTO validated_entries (worksite_id, access_id, operation_type,
			start_time, end_time, comment, idle_seconds_after)
		VALUES (@worksite_id, @access_id, @operation_type,
			@start_time, @end_time, @comment, @idle_seconds_after)
		RETURNING id, worksite_id, access_id, operation_type, start_time,
			end_time, comment, idle_seconds_after, created_at`

	const closeQ = `
		UPDATE journeys
		SET needs_validation = FALSE
		WHERE vehicle_id = @vehicle_id AND start_time = @start_time`

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return domain.ValidatedEntry{}, fmt.Errorf("repo.ValidatedRepo.CreateAndClose: begin: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck // no-op after commit

	args := pgx.NamedArgs{
		"worksite_id":        entry.WorksiteID,
		"access_id":          entry.AccessID,
		"operation_type":     int(entry.Operation),
		"start_time":         entry.StartTime,
		"end_time":           entry.EndTime,
		"comment":            entry.Comment,
		"idle_seconds_after": entry.IdleSecondsAfter,
	}

	result, err := scanValidatedEntry(tx.QueryRow(ctx, insertQ, args))
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ValidatedEntry{}, fmt.Errorf("repo.ValidatedRepo.CreateAndClose: access %d at %s: %w",
				entry.AccessID, entry.StartTime.Format(time.DateTime), domain.ErrConflict)
		}
		return domain.ValidatedEntry{}, fmt.Errorf("repo.ValidatedRepo.CreateAndClose: insert: %w", err)
	}

	tag, err := tx.Exec(ctx, closeQ, pgx.NamedArgs{"vehicle_id": vehicleID, "start_time": entry.StartTime})
	if err != nil {
		return domain.ValidatedEntry{}, fmt.Errorf("repo.ValidatedRepo.CreateAndClose: close journey: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ValidatedEntry{}, fmt.Errorf("repo.ValidatedRepo.CreateAndClose: close journey: %w", domain.ErrNotFound)
	}

	if err := tx.Commit(ctx); err != nil {
		return domain.ValidatedEntry{}, fmt.Errorf("repo.ValidatedRepo.CreateAndClose: commit: %w", err)
	}
	return result, nil
}

// scanValidatedEntry maps a single database row into a domain.ValidatedEntry.
func scanValidatedEntry(s scanner) (domain.ValidatedEntry, error) {
	var (
		e  domain.ValidatedEntry
		id pgtype.UUID
		op int
	)

	err := s.Scan(&id, &e.WorksiteID, &e.AccessID, &op, &e.StartTime,
		&e.EndTime, &e.Comment, &e.IdleSecondsAfter, &e.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ValidatedEntry{}, domain.ErrNotFound
		}
		return domain.ValidatedEntry{}, err
	}

	e.ID = uuid.UUID(id.Bytes)
	e.Operation = domain.OperationType(op)
	e.StartTime = e.StartTime.In(domain.Location)
	e.EndTime = e.EndTime.In(domain.Location)

	return e, nil
}
