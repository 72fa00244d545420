package models

// Team is the scoring unit of a session. Name is unique per session.
type Team struct {
	ID        int64  `json:"id"`         // Primary key
	SessionID int64  `json:"session_id"` // FK to game_sessions(id)
	Name      string `json:"name"`
	Score     int    `json:"score"` // non-negative
}
