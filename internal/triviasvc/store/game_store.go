package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/quizline/trivia-services/internal/apperr"
	"github.com/quizline/trivia-services/internal/triviasvc/models"
)

const gameColumns = "id, code, name, description, game_type, min_players, max_players, max_rounds, is_active, icon_url, theme_color, created_at"

type GameStore struct {
	db DB
}

func NewGameStore(db DB) *GameStore {
	return &GameStore{db: db}
}

func scanGame(row pgx.Row) (*models.Game, error) {
	game := &models.Game{}
	var description, iconURL, themeColor *string
	err := row.Scan(
		&game.ID,
		&game.Code,
		&game.Name,
		&description,
		&game.GameType,
		&game.MinPlayers,
		&game.MaxPlayers,
		&game.MaxRounds,
		&game.IsActive,
		&iconURL,
		&themeColor,
		&game.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil // game not found
		}
		return nil, fmt.Errorf("failed to scan game: %w", err)
	}
	if description != nil {
		game.Description = *description
	}
	if iconURL != nil {
		game.IconURL = *iconURL
	}
	if themeColor != nil {
		game.ThemeColor = *themeColor
	}
	return game, nil
}

func (s *GameStore) FindByID(ctx context.Context, schema string, id int64) (*models.Game, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE id = $1`, gameColumns, rel(schema, "games"))
	return scanGame(s.db.QueryRow(ctx, query, id))
}

func (s *GameStore) FindByCode(ctx context.Context, schema string, code string) (*models.Game, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE code = $1`, gameColumns, rel(schema, "games"))
	return scanGame(s.db.QueryRow(ctx, query, code))
}

func (s *GameStore) FindAllActive(ctx context.Context, schema string) ([]*models.Game, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE is_active ORDER BY id`, gameColumns, rel(schema, "games"))

	rows, err := s.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list active games: %w", err)
	}
	defer rows.Close()

	var games []*models.Game
	for rows.Next() {
		game, err := scanGame(rows)
		if err != nil {
			return nil, err
		}
		games = append(games, game)
	}
	return games, rows.Err()
}

func (s *GameStore) Create(ctx context.Context, schema string, game *models.Game) (*models.Game, error) {
	query := fmt.Sprintf(`
		INSERT INTO %s (code, name, description, game_type, min_players, max_players, max_rounds, is_active, icon_url, theme_color)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at
	`, rel(schema, "games"))

	err := s.db.QueryRow(ctx, query,
		game.Code, game.Name, game.Description, game.GameType,
		game.MinPlayers, game.MaxPlayers, game.MaxRounds,
		game.IsActive, game.IconURL, game.ThemeColor,
	).Scan(&game.ID, &game.CreatedAt)
	if err != nil {
		if uniqueViolation(err) == "games_code_key" {
			return nil, apperr.Newf(apperr.Duplicate, "game code %s already exists", game.Code)
		}
		return nil, fmt.Errorf("failed to create game: %w", err)
	}
	return game, nil
}

func (s *GameStore) Deactivate(ctx context.Context, schema string, id int64) (int64, error) {
	query := fmt.Sprintf(`UPDATE %s SET is_active = false WHERE id = $1`, rel(schema, "games"))
	res, err := s.db.Exec(ctx, query, id)
	if err != nil {
		return 0, fmt.Errorf("failed to deactivate game: %w", err)
	}
	return res.RowsAffected(), nil
}

func (s *GameStore) CategoriesByGame(ctx context.Context, schema string, gameID int64, activeOnly bool) ([]*models.GameCategory, error) {
	query := fmt.Sprintf(`
		SELECT id, game_id, code, name, description, is_active
		FROM %s
		WHERE game_id = $1
	`, rel(schema, "game_categories"))
	if activeOnly {
		query += " AND is_active"
	}
	query += " ORDER BY id"

	rows, err := s.db.Query(ctx, query, gameID)
	if err != nil {
		return nil, fmt.Errorf("failed to list game categories: %w", err)
	}
	defer rows.Close()

	var categories []*models.GameCategory
	for rows.Next() {
		cat := &models.GameCategory{}
		var description *string
		if err := rows.Scan(&cat.ID, &cat.GameID, &cat.Code, &cat.Name, &description, &cat.IsActive); err != nil {
			return nil, fmt.Errorf("failed to scan game category: %w", err)
		}
		if description != nil {
			cat.Description = *description
		}
		categories = append(categories, cat)
	}
	return categories, rows.Err()
}

// ActiveCategoryIDs backs the category-filter validation in the
// session start path.
func (s *GameStore) ActiveCategoryIDs(ctx context.Context, schema string, gameID int64) ([]int64, error) {
	query := fmt.Sprintf(`SELECT id FROM %s WHERE game_id = $1 AND is_active`, rel(schema, "game_categories"))

	rows, err := s.db.Query(ctx, query, gameID)
	if err != nil {
		return nil, fmt.Errorf("failed to list active category ids: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan category id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
