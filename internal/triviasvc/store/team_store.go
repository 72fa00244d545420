package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/quizline/trivia-services/internal/apperr"
	"github.com/quizline/trivia-services/internal/triviasvc/models"
)

type TeamStore struct {
	db DB
}

func NewTeamStore(db DB) *TeamStore {
	return &TeamStore{db: db}
}

func (s *TeamStore) Create(ctx context.Context, schema string, team *models.Team) (*models.Team, error) {
	query := fmt.Sprintf(`
		INSERT INTO %s (session_id, name, score)
		VALUES ($1, $2, 0)
		RETURNING id, score
	`, rel(schema, "teams"))

	err := s.db.QueryRow(ctx, query, team.SessionID, team.Name).Scan(&team.ID, &team.Score)
	if err != nil {
		if uniqueViolation(err) == "teams_session_id_name_key" {
			return nil, apperr.Newf(apperr.Duplicate, "team %s already exists in session %d", team.Name, team.SessionID)
		}
		if fkViolation(err) {
			return nil, apperr.Newf(apperr.Validation, "session %d does not exist", team.SessionID)
		}
		return nil, fmt.Errorf("failed to create team: %w", err)
	}
	return team, nil
}

func (s *TeamStore) FindByID(ctx context.Context, schema string, id int64) (*models.Team, error) {
	query := fmt.Sprintf(`SELECT id, session_id, name, score FROM %s WHERE id = $1`, rel(schema, "teams"))

	team := &models.Team{}
	err := s.db.QueryRow(ctx, query, id).Scan(&team.ID, &team.SessionID, &team.Name, &team.Score)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil // team not found
		}
		return nil, fmt.Errorf("failed to get team by ID: %w", err)
	}
	return team, nil
}

func (s *TeamStore) FindBySession(ctx context.Context, schema string, sessionID int64) ([]*models.Team, error) {
	query := fmt.Sprintf(`
		SELECT id, session_id, name, score FROM %s
		WHERE session_id = $1
		ORDER BY id ASC
	`, rel(schema, "teams"))

	rows, err := s.db.Query(ctx, query, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to list teams: %w", err)
	}
	defer rows.Close()

	var teams []*models.Team
	for rows.Next() {
		team := &models.Team{}
		if err := rows.Scan(&team.ID, &team.SessionID, &team.Name, &team.Score); err != nil {
			return nil, fmt.Errorf("failed to scan team: %w", err)
		}
		teams = append(teams, team)
	}
	return teams, rows.Err()
}

// FindWithLeastPlayers picks the least-loaded team for auto-join; ties
// break on lowest team id (insertion order).
func (s *TeamStore) FindWithLeastPlayers(ctx context.Context, schema string, sessionID int64) (*models.Team, error) {
	query := fmt.Sprintf(`
		SELECT t.id, t.session_id, t.name, t.score
		FROM %s t
		LEFT JOIN %s p ON p.team_id = t.id
		WHERE t.session_id = $1
		GROUP BY t.id, t.session_id, t.name, t.score
		ORDER BY COUNT(p.id) ASC, t.id ASC
		LIMIT 1
	`, rel(schema, "teams"), rel(schema, "players"))

	team := &models.Team{}
	err := s.db.QueryRow(ctx, query, sessionID).Scan(&team.ID, &team.SessionID, &team.Name, &team.Score)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil // session has no teams
		}
		return nil, fmt.Errorf("failed to find least loaded team: %w", err)
	}
	return team, nil
}

func (s *TeamStore) UpdateScore(ctx context.Context, schema string, teamID int64, score int) (int64, error) {
	query := fmt.Sprintf(`UPDATE %s SET score = $2 WHERE id = $1`, rel(schema, "teams"))
	res, err := s.db.Exec(ctx, query, teamID, score)
	if err != nil {
		return 0, fmt.Errorf("failed to update team score: %w", err)
	}
	return res.RowsAffected(), nil
}

func (s *TeamStore) Delete(ctx context.Context, schema string, teamID int64) (int64, error) {
	query := fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, rel(schema, "teams"))
	res, err := s.db.Exec(ctx, query, teamID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete team: %w", err)
	}
	return res.RowsAffected(), nil
}
