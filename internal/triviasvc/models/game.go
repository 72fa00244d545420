package models

import "time"

// Game is master data: a playable trivia game definition.
type Game struct {
	ID          int64     `json:"id"`   // Primary key
	Code        string    `json:"code"` // Unique short code
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	GameType    string    `json:"game_type"`
	MinPlayers  int       `json:"min_players"`
	MaxPlayers  int       `json:"max_players"`
	MaxRounds   int       `json:"max_rounds"`
	IsActive    bool      `json:"is_active"`
	IconURL     string    `json:"icon_url,omitempty"`
	ThemeColor  string    `json:"theme_color,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}
