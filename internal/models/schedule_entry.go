package models

import (
	"time"

	"github.com/google/uuid"

	"inkwell/internal/state"
)

// PublishScheduleEntry is a unit of time-triggered work that publishes a
// content session at or after its due time. Entries are created ahead of
// time by the scheduling UI and claimed in batches by the schedule claimer.
type PublishScheduleEntry struct {
	ID         uuid.UUID            `json:"id"`
	SessionID  uuid.UUID            `json:"session_id"`
	RunAt      time.Time            `json:"run_at"`
	Visibility string               `json:"visibility"`
	Note       *string              `json:"note,omitempty"`
	Status     state.ScheduleStatus `json:"status"`
	Attempts   int                  `json:"attempts"`
	LastError  *string              `json:"last_error,omitempty"`
	CreatedAt  time.Time            `json:"created_at"`
	UpdatedAt  time.Time            `json:"updated_at"`
}

// BatchResult summarizes one claim pass. It is returned to the cron
// trigger; failures inside the batch never propagate past it.
type BatchResult struct {
	Processed int `json:"processed"`
	Failed    int `json:"failed"`
}
