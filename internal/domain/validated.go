package domain

import (
	"time"

	"github.com/google/uuid"
)

// MaxCommentLength is the longest comment accepted on a validated entry.
// Checked by the validation service before any persistence attempt.
const MaxCommentLength = 255

// ValidatedEntry is an operator decision closing out a journey: the worksite
// and operation code assigned to it for billing. Created once, never mutated.
// No two entries share (AccessID, StartTime) — that pair is the "already
// validated" guard, enforced both by a pre-check and by a unique constraint.
type ValidatedEntry struct {
	ID uuid.UUID `json:"id"`

	// WorksiteID is empty for operation types that do not require a worksite.
	WorksiteID string        `json:"worksite_id,omitempty"`
	AccessID   int           `json:"access_id"`
	Operation  OperationType `json:"operation_type"`

	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`

	Comment string `json:"comment,omitempty"`

	// IdleSecondsAfter is copied from the journey at validation time.
	IdleSecondsAfter int `json:"idle_seconds_after"`

	CreatedAt time.Time `json:"created_at"`
}
