package service

import (
	"context"
	"testing"

	"github.com/quizline/trivia-services/internal/apperr"
	"github.com/quizline/trivia-services/internal/triviasvc/models"
)

type fakeTeamStore struct {
	nextID int64
	teams  map[int64]*models.Team
	least  *models.Team
}

func newFakeTeamStore() *fakeTeamStore {
	return &fakeTeamStore{teams: map[int64]*models.Team{}}
}

func (f *fakeTeamStore) Create(ctx context.Context, schema string, team *models.Team) (*models.Team, error) {
	for _, t := range f.teams {
		if t.SessionID == team.SessionID && t.Name == team.Name {
			return nil, apperr.New(apperr.Duplicate, "team name already taken")
		}
	}
	f.nextID++
	team.ID = f.nextID
	f.teams[team.ID] = team
	return team, nil
}

func (f *fakeTeamStore) FindByID(ctx context.Context, schema string, id int64) (*models.Team, error) {
	return f.teams[id], nil
}

func (f *fakeTeamStore) FindBySession(ctx context.Context, schema string, sessionID int64) ([]*models.Team, error) {
	var out []*models.Team
	for _, t := range f.teams {
		if t.SessionID == sessionID {
			out = append(out, t)
		}
	}
	return out, nil
}

func (f *fakeTeamStore) FindWithLeastPlayers(ctx context.Context, schema string, sessionID int64) (*models.Team, error) {
	return f.least, nil
}

func (f *fakeTeamStore) UpdateScore(ctx context.Context, schema string, teamID int64, score int) (int64, error) {
	team, ok := f.teams[teamID]
	if !ok {
		return 0, nil
	}
	team.Score = score
	return 1, nil
}

func (f *fakeTeamStore) Delete(ctx context.Context, schema string, teamID int64) (int64, error) {
	if _, ok := f.teams[teamID]; !ok {
		return 0, nil
	}
	delete(f.teams, teamID)
	return 1, nil
}

func TestCreateTeam(t *testing.T) {
	store := newFakeTeamStore()
	svc := NewTeamService(store)

	team, err := svc.CreateTeam(context.Background(), "public", 1, "  Red  ")
	if err != nil {
		t.Fatalf("CreateTeam: %v", err)
	}
	if team.Name != "Red" {
		t.Fatalf("expected trimmed name, got %q", team.Name)
	}
	if team.Score != 0 {
		t.Fatalf("expected zero initial score, got %d", team.Score)
	}

	if _, err := svc.CreateTeam(context.Background(), "public", 1, "Red"); !apperr.IsKind(err, apperr.Duplicate) {
		t.Fatalf("expected Duplicate for same name in session, got %v", err)
	}
	if _, err := svc.CreateTeam(context.Background(), "public", 1, "   "); !apperr.IsKind(err, apperr.Validation) {
		t.Fatalf("expected Validation for blank name, got %v", err)
	}
}

func TestFindTeamWithLeastPlayers(t *testing.T) {
	store := newFakeTeamStore()
	svc := NewTeamService(store)

	if _, err := svc.FindTeamWithLeastPlayers(context.Background(), "public", 1); !apperr.IsKind(err, apperr.NotFound) {
		t.Fatalf("expected NotFound with no teams, got %v", err)
	}

	store.least = &models.Team{ID: 3, SessionID: 1, Name: "Blue"}
	team, err := svc.FindTeamWithLeastPlayers(context.Background(), "public", 1)
	if err != nil {
		t.Fatalf("FindTeamWithLeastPlayers: %v", err)
	}
	if team.ID != 3 {
		t.Fatalf("expected team 3, got %d", team.ID)
	}
}

func TestUpdateScore(t *testing.T) {
	store := newFakeTeamStore()
	svc := NewTeamService(store)
	team, _ := svc.CreateTeam(context.Background(), "public", 1, "Red")

	if err := svc.UpdateScore(context.Background(), "public", team.ID, 30); err != nil {
		t.Fatalf("UpdateScore: %v", err)
	}
	if store.teams[team.ID].Score != 30 {
		t.Fatalf("expected score 30, got %d", store.teams[team.ID].Score)
	}

	if err := svc.UpdateScore(context.Background(), "public", team.ID, -1); !apperr.IsKind(err, apperr.Validation) {
		t.Fatalf("expected Validation for negative score, got %v", err)
	}
	if err := svc.UpdateScore(context.Background(), "public", 999, 10); !apperr.IsKind(err, apperr.NotFound) {
		t.Fatalf("expected NotFound for missing team, got %v", err)
	}
}

func TestDeleteTeam(t *testing.T) {
	store := newFakeTeamStore()
	svc := NewTeamService(store)
	team, _ := svc.CreateTeam(context.Background(), "public", 1, "Red")

	if err := svc.DeleteTeam(context.Background(), "public", team.ID); err != nil {
		t.Fatalf("DeleteTeam: %v", err)
	}
	if err := svc.DeleteTeam(context.Background(), "public", team.ID); !apperr.IsKind(err, apperr.NotFound) {
		t.Fatalf("expected NotFound for deleted team, got %v", err)
	}
}
