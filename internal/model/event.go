package model

import (
	"time"

	"github.com/google/uuid"
)

// Event types published for external subscribers.
const (
	EventProjectCreated   = "project.created"
	EventProjectDeleted   = "project.deleted"
	EventDocumentIngested = "document.ingested"
	EventDocumentDeleted  = "document.deleted"
)

// Event is a best-effort lifecycle notification. Nothing in this process
// consumes events; they exist for downstream systems.
type Event struct {
	Type       string    `json:"type"`
	EntityID   uuid.UUID `json:"entity_id"`
	ProjectID  uuid.UUID `json:"project_id,omitempty"`
	ActorID    uuid.UUID `json:"actor_id"`
	OccurredAt time.Time `json:"occurred_at"`
}
