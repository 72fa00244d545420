package service

import (
	"context"
	"strings"

	"github.com/quizline/trivia-services/internal/apperr"
	"github.com/quizline/trivia-services/internal/triviasvc/models"
)

type teamStore interface {
	Create(ctx context.Context, schema string, team *models.Team) (*models.Team, error)
	FindByID(ctx context.Context, schema string, id int64) (*models.Team, error)
	FindBySession(ctx context.Context, schema string, sessionID int64) ([]*models.Team, error)
	FindWithLeastPlayers(ctx context.Context, schema string, sessionID int64) (*models.Team, error)
	UpdateScore(ctx context.Context, schema string, teamID int64, score int) (int64, error)
	Delete(ctx context.Context, schema string, teamID int64) (int64, error)
}

type TeamService struct {
	teams teamStore
}

func NewTeamService(teams teamStore) *TeamService {
	return &TeamService{teams: teams}
}

func (s *TeamService) CreateTeam(ctx context.Context, schema string, sessionID int64, name string) (*models.Team, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperr.New(apperr.Validation, "team name is required")
	}
	return s.teams.Create(ctx, schema, &models.Team{SessionID: sessionID, Name: name})
}

func (s *TeamService) GetTeamsBySession(ctx context.Context, schema string, sessionID int64) ([]*models.Team, error) {
	return s.teams.FindBySession(ctx, schema, sessionID)
}

// FindTeamWithLeastPlayers backs auto-join team balancing.
func (s *TeamService) FindTeamWithLeastPlayers(ctx context.Context, schema string, sessionID int64) (*models.Team, error) {
	team, err := s.teams.FindWithLeastPlayers(ctx, schema, sessionID)
	if err != nil {
		return nil, err
	}
	if team == nil {
		return nil, apperr.New(apperr.NotFound, "no teams available")
	}
	return team, nil
}

// UpdateScore sets a team's running score; scores never go negative.
func (s *TeamService) UpdateScore(ctx context.Context, schema string, teamID int64, score int) error {
	if score < 0 {
		return apperr.New(apperr.Validation, "score must be non-negative")
	}

	affected, err := s.teams.UpdateScore(ctx, schema, teamID, score)
	if err != nil {
		return err
	}
	if affected == 0 {
		return apperr.Newf(apperr.NotFound, "team %d not found", teamID)
	}
	return nil
}

func (s *TeamService) DeleteTeam(ctx context.Context, schema string, teamID int64) error {
	affected, err := s.teams.Delete(ctx, schema, teamID)
	if err != nil {
		return err
	}
	if affected == 0 {
		return apperr.Newf(apperr.NotFound, "team %d not found", teamID)
	}
	return nil
}
