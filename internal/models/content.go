package models

import (
	"time"

	"github.com/google/uuid"
)

// ContentSession is the content being published. Only the fields the
// publish mutation touches are modelled here; CRUD over sessions lives
// elsewhere in the platform.
type ContentSession struct {
	ID             uuid.UUID  `json:"id"`
	OwnerID        uuid.UUID  `json:"owner_id"`
	Title          string     `json:"title"`
	Visibility     string     `json:"visibility"`
	PublishStatus  string     `json:"publish_status"`
	PublishedAt    *time.Time `json:"published_at,omitempty"`
	QualityScore   *int       `json:"quality_score,omitempty"`
	QualityInsight *string    `json:"quality_insight,omitempty"`
	ContentHash    *string    `json:"content_hash,omitempty"`
	Snippets       []Snippet  `json:"snippets,omitempty"`
}

// Snippet is one ordered text fragment of a session.
type Snippet struct {
	ID        uuid.UUID `json:"id"`
	SessionID uuid.UUID `json:"session_id"`
	Position  int       `json:"position"`
	Body      string    `json:"body"`
}

// PublishFields is the field set written by the publish mutation. Each
// field is applied individually so a column missing from an older
// deployment only skips that field.
type PublishFields struct {
	PublishStatus  string
	Visibility     string
	PublishedAt    time.Time
	QualityScore   int
	QualityInsight string
	ContentHash    string
}

// AuditEvent is a best-effort audit record emitted next to a primary
// state transition.
type AuditEvent struct {
	Kind      string     `json:"kind"`
	SubjectID *uuid.UUID `json:"subject_id,omitempty"`
	Detail    string     `json:"detail"`
}
