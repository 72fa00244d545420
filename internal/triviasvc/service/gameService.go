package service

import (
	"context"
	"strings"

	"github.com/quizline/trivia-services/internal/apperr"
	"github.com/quizline/trivia-services/internal/triviasvc/models"
)

type gameStore interface {
	FindByID(ctx context.Context, schema string, id int64) (*models.Game, error)
	FindByCode(ctx context.Context, schema string, code string) (*models.Game, error)
	FindAllActive(ctx context.Context, schema string) ([]*models.Game, error)
	Create(ctx context.Context, schema string, game *models.Game) (*models.Game, error)
	Deactivate(ctx context.Context, schema string, id int64) (int64, error)
	CategoriesByGame(ctx context.Context, schema string, gameID int64, activeOnly bool) ([]*models.GameCategory, error)
}

// GameWithCategories is the catalog view exposed to hosts.
type GameWithCategories struct {
	*models.Game
	Categories []*models.GameCategory `json:"categories,omitempty"`
}

// GameService serves master data; the engine treats it as read-only
// reference.
type GameService struct {
	games gameStore
}

func NewGameService(games gameStore) *GameService {
	return &GameService{games: games}
}

func (s *GameService) withCategories(ctx context.Context, schema string, game *models.Game) (*GameWithCategories, error) {
	categories, err := s.games.CategoriesByGame(ctx, schema, game.ID, true)
	if err != nil {
		return nil, err
	}
	return &GameWithCategories{Game: game, Categories: categories}, nil
}

func (s *GameService) GetGameByID(ctx context.Context, schema string, id int64) (*GameWithCategories, error) {
	game, err := s.games.FindByID(ctx, schema, id)
	if err != nil {
		return nil, err
	}
	if game == nil {
		return nil, apperr.Newf(apperr.NotFound, "game %d not found", id)
	}
	return s.withCategories(ctx, schema, game)
}

func (s *GameService) GetGameByCode(ctx context.Context, schema string, code string) (*GameWithCategories, error) {
	game, err := s.games.FindByCode(ctx, schema, code)
	if err != nil {
		return nil, err
	}
	if game == nil {
		return nil, apperr.Newf(apperr.NotFound, "game %s not found", code)
	}
	return s.withCategories(ctx, schema, game)
}

func (s *GameService) GetAllActiveGames(ctx context.Context, schema string) ([]*GameWithCategories, error) {
	games, err := s.games.FindAllActive(ctx, schema)
	if err != nil {
		return nil, err
	}

	out := make([]*GameWithCategories, 0, len(games))
	for _, game := range games {
		g, err := s.withCategories(ctx, schema, game)
		if err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	return out, nil
}

func (s *GameService) CreateGame(ctx context.Context, schema string, game *models.Game) (*models.Game, error) {
	game.Code = strings.TrimSpace(game.Code)
	game.Name = strings.TrimSpace(game.Name)
	if game.Code == "" || game.Name == "" {
		return nil, apperr.New(apperr.Validation, "game code and name are required")
	}
	if game.MaxRounds <= 0 {
		return nil, apperr.New(apperr.Validation, "max rounds must be positive")
	}
	if game.MinPlayers == 0 {
		game.MinPlayers = 2
	}
	if game.MaxPlayers == 0 {
		game.MaxPlayers = 20
	}
	game.IsActive = true

	return s.games.Create(ctx, schema, game)
}

func (s *GameService) DeactivateGame(ctx context.Context, schema string, id int64) error {
	affected, err := s.games.Deactivate(ctx, schema, id)
	if err != nil {
		return err
	}
	if affected == 0 {
		return apperr.Newf(apperr.NotFound, "game %d not found", id)
	}
	return nil
}
