package models

type Question struct {
	ID           int64  `json:"id"`      // Primary key
	GameID       int64  `json:"game_id"` // FK to games(id)
	CategoryID   *int64 `json:"category_id,omitempty"`
	QuestionType string `json:"question_type"` // e.g. "TEXT", "IMAGE"
	QuestionText string `json:"question_text,omitempty"`
	MediaURL     string `json:"media_url,omitempty"`
	AnswerType   string `json:"answer_type"` // "SINGLE" or "FREE_TEXT"
}
