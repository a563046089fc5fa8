package models

import (
	"encoding/json"
	"time"
)

// AuditEntry records a mutating competition action with before/after snapshots.
type AuditEntry struct {
	ID           int             `json:"id" db:"id"`
	Action       string          `json:"action" db:"action"`
	ActorID      int             `json:"actor_id" db:"actor_id"`
	TournamentID int             `json:"tournament_id" db:"tournament_id"`
	Before       json.RawMessage `json:"before,omitempty" db:"before"`
	After        json.RawMessage `json:"after,omitempty" db:"after"`
	CreatedAt    time.Time       `json:"created_at" db:"created_at"`
}
