package models

// Player links a session, an optional team and an optional account.
// A nil UserID means guest. Display name is unique per session.
type Player struct {
	ID        int64  `json:"id"`         // Primary key
	SessionID int64  `json:"session_id"` // FK to game_sessions(id)
	TeamID    *int64 `json:"team_id,omitempty"`
	UserID    *int64 `json:"user_id,omitempty"`
	Name      string `json:"name"`
	IsGuest   bool   `json:"is_guest"`
}
