package store

import (
	"context"
	"fmt"

	"github.com/quizline/trivia-services/internal/apperr"
	"github.com/quizline/trivia-services/internal/triviasvc/models"
)

type PlayerStore struct {
	db DB
}

func NewPlayerStore(db DB) *PlayerStore {
	return &PlayerStore{db: db}
}

func (s *PlayerStore) Create(ctx context.Context, schema string, player *models.Player) (*models.Player, error) {
	query := fmt.Sprintf(`
		INSERT INTO %s (session_id, team_id, user_id, name, is_guest)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`, rel(schema, "players"))

	err := s.db.QueryRow(ctx, query,
		player.SessionID, player.TeamID, player.UserID, player.Name, player.IsGuest,
	).Scan(&player.ID)
	if err != nil {
		if uniqueViolation(err) == "players_session_id_name_key" {
			return nil, apperr.Newf(apperr.Duplicate, "player name %s already taken in session %d", player.Name, player.SessionID)
		}
		if fkViolation(err) {
			return nil, apperr.New(apperr.Validation, "session or team does not exist")
		}
		return nil, fmt.Errorf("failed to create player: %w", err)
	}
	return player, nil
}

func (s *PlayerStore) FindBySession(ctx context.Context, schema string, sessionID int64) ([]*models.Player, error) {
	query := fmt.Sprintf(`
		SELECT id, session_id, team_id, user_id, name, is_guest
		FROM %s
		WHERE session_id = $1
		ORDER BY id ASC
	`, rel(schema, "players"))

	rows, err := s.db.Query(ctx, query, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to list players: %w", err)
	}
	defer rows.Close()

	var players []*models.Player
	for rows.Next() {
		p := &models.Player{}
		if err := rows.Scan(&p.ID, &p.SessionID, &p.TeamID, &p.UserID, &p.Name, &p.IsGuest); err != nil {
			return nil, fmt.Errorf("failed to scan player: %w", err)
		}
		players = append(players, p)
	}
	return players, rows.Err()
}

// UpdateTeam reassigns a player within their session; a player never
// moves between sessions.
func (s *PlayerStore) UpdateTeam(ctx context.Context, schema string, playerID, teamID int64) (int64, error) {
	query := fmt.Sprintf(`UPDATE %s SET team_id = $2 WHERE id = $1`, rel(schema, "players"))
	res, err := s.db.Exec(ctx, query, playerID, teamID)
	if err != nil {
		return 0, fmt.Errorf("failed to update player team: %w", err)
	}
	return res.RowsAffected(), nil
}

func (s *PlayerStore) Delete(ctx context.Context, schema string, playerID int64) (int64, error) {
	query := fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, rel(schema, "players"))
	res, err := s.db.Exec(ctx, query, playerID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete player: %w", err)
	}
	return res.RowsAffected(), nil
}
