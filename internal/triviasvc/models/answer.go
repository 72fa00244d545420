package models

import "time"

// Answer is one submission per (session question, team) pair.
// IsCorrect stays nil for free-text answers until the host evaluates.
type Answer struct {
	ID                int64      `json:"id"`                  // Primary key
	SessionQuestionID int64      `json:"session_question_id"` // FK to session_questions(id)
	TeamID            int64      `json:"team_id"`             // FK to teams(id)
	AnswerID          *int64     `json:"answer_id,omitempty"` // FK to question_options(id)
	Answer            string     `json:"answer,omitempty"`    // free-text fallback
	IsCorrect         *bool      `json:"is_correct,omitempty"`
	UserID            *int64     `json:"user_id,omitempty"` // submitting user
	AnsweredAt        time.Time  `json:"answered_at"`
	EvaluatedAt       *time.Time `json:"evaluated_at,omitempty"`
}
