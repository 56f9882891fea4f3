package model

import "time"

const (
	TurnEventCompleted          = "turn_completed"
	TurnEventGenerationFallback = "generation_fallback"
)

// TurnEvent is an audit record for one completed chat turn, persisted
// asynchronously by the turn event worker.
type TurnEvent struct {
	ID            string    `gorm:"primaryKey;size:36" json:"id"`
	SessionID     string    `gorm:"size:36;not null;index" json:"session_id"`
	UserID        string    `gorm:"size:36;not null;index" json:"user_id"`
	Kind          string    `gorm:"size:32;not null" json:"kind"`
	Grounded      bool      `gorm:"not null" json:"grounded"`
	CitationCount int       `gorm:"not null" json:"citation_count"`
	CreatedAt     time.Time `json:"created_at"`
}
