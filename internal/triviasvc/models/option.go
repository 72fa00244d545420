package models

type QuestionOption struct {
	ID           int64  `json:"id"`          // Primary key
	QuestionID   int64  `json:"question_id"` // FK to questions(id)
	OptionText   string `json:"option_text,omitempty"`
	OptionMedia  string `json:"option_media,omitempty"`
	IsCorrect    bool   `json:"-"` // never serialized to players
	DisplayOrder int    `json:"display_order"`
}
