package models

import "time"

// SessionQuestion binds one question to one round number within a
// session. A round is active iff StartedAt is set and EndedAt is not.
type SessionQuestion struct {
	ID          int64      `json:"id"`           // Primary key
	SessionID   int64      `json:"session_id"`   // FK to game_sessions(id)
	QuestionID  int64      `json:"question_id"`  // FK to questions(id)
	RoundNumber int        `json:"round_number"` // 1-based, dense per session
	StartedAt   *time.Time `json:"started_at,omitempty"`
	EndedAt     *time.Time `json:"ended_at,omitempty"`
}

func (sq *SessionQuestion) Active() bool {
	return sq.StartedAt != nil && sq.EndedAt == nil
}
