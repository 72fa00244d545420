package models

import "time"

// SessionStatus is the closed set of game session states.
type SessionStatus string

const (
	StatusCreated     SessionStatus = "CREATED"
	StatusLobby       SessionStatus = "LOBBY"
	StatusRoundActive SessionStatus = "ROUND_ACTIVE"
	StatusRoundEnded  SessionStatus = "ROUND_ENDED"
	StatusCompleted   SessionStatus = "COMPLETED" // terminal
)

// sessionTransitions is the single source of truth for legal moves;
// call sites must not re-derive these rules.
var sessionTransitions = map[SessionStatus][]SessionStatus{
	StatusCreated:     {StatusLobby, StatusRoundActive, StatusRoundEnded},
	StatusLobby:       {StatusRoundActive, StatusRoundEnded},
	StatusRoundActive: {StatusRoundActive, StatusRoundEnded, StatusCompleted},
	StatusRoundEnded:  {StatusRoundActive, StatusRoundEnded, StatusCompleted},
	StatusCompleted:   {},
}

func (s SessionStatus) CanTransitionTo(next SessionStatus) bool {
	for _, allowed := range sessionTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Startable reports whether a "start game" action is valid from s.
// CREATED and LOBBY are both accepted as pre-start states.
func (s SessionStatus) Startable() bool {
	return s == StatusCreated || s == StatusLobby
}

type GameSession struct {
	ID           int64         `json:"id"`      // Primary key
	GameID       int64         `json:"game_id"` // FK to games(id)
	HostUserID   int64         `json:"host_user_id"`
	JoinCode     string        `json:"join_code"` // Unique human-enterable code
	Status       SessionStatus `json:"status"`
	CurrentRound int           `json:"current_round"` // 0 until started
	CategoryIDs  []int64       `json:"category_ids,omitempty"`
	VideoLink    string        `json:"video_link,omitempty"`
	CreatedAt    time.Time     `json:"created_at"`
	EndedAt      *time.Time    `json:"ended_at,omitempty"`
}
