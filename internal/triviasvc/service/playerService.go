package service

import (
	"context"
	"strings"

	"github.com/quizline/trivia-services/internal/apperr"
	"github.com/quizline/trivia-services/internal/triviasvc/models"
)

type playerStore interface {
	Create(ctx context.Context, schema string, player *models.Player) (*models.Player, error)
	FindBySession(ctx context.Context, schema string, sessionID int64) ([]*models.Player, error)
	UpdateTeam(ctx context.Context, schema string, playerID, teamID int64) (int64, error)
	Delete(ctx context.Context, schema string, playerID int64) (int64, error)
}

type JoinSessionInput struct {
	SessionID int64
	Name      string
	TeamID    *int64
	UserID    *int64 // nil means guest
}

type PlayerService struct {
	players playerStore
}

func NewPlayerService(players playerStore) *PlayerService {
	return &PlayerService{players: players}
}

func (s *PlayerService) JoinSession(ctx context.Context, schema string, in JoinSessionInput) (*models.Player, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, apperr.New(apperr.Validation, "player name is required")
	}

	return s.players.Create(ctx, schema, &models.Player{
		SessionID: in.SessionID,
		TeamID:    in.TeamID,
		UserID:    in.UserID,
		Name:      name,
		IsGuest:   in.UserID == nil,
	})
}

func (s *PlayerService) GetPlayersBySession(ctx context.Context, schema string, sessionID int64) ([]*models.Player, error) {
	return s.players.FindBySession(ctx, schema, sessionID)
}

func (s *PlayerService) AssignTeam(ctx context.Context, schema string, playerID, teamID int64) error {
	affected, err := s.players.UpdateTeam(ctx, schema, playerID, teamID)
	if err != nil {
		return err
	}
	if affected == 0 {
		return apperr.Newf(apperr.NotFound, "player %d not found", playerID)
	}
	return nil
}

func (s *PlayerService) RemovePlayer(ctx context.Context, schema string, playerID int64) error {
	affected, err := s.players.Delete(ctx, schema, playerID)
	if err != nil {
		return err
	}
	if affected == 0 {
		return apperr.Newf(apperr.NotFound, "player %d not found", playerID)
	}
	return nil
}
