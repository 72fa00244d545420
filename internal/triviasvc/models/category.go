package models

// GameCategory groups a game's questions for optional round filtering.
type GameCategory struct {
	ID          int64  `json:"id"`      // Primary key
	GameID      int64  `json:"game_id"` // FK to games(id)
	Code        string `json:"code"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	IsActive    bool   `json:"is_active"`
}
