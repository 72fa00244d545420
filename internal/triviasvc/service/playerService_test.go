package service

import (
	"context"
	"testing"

	"github.com/quizline/trivia-services/internal/apperr"
	"github.com/quizline/trivia-services/internal/triviasvc/models"
)

type fakePlayerStore struct {
	nextID  int64
	players map[int64]*models.Player
}

func newFakePlayerStore() *fakePlayerStore {
	return &fakePlayerStore{players: map[int64]*models.Player{}}
}

func (f *fakePlayerStore) Create(ctx context.Context, schema string, player *models.Player) (*models.Player, error) {
	for _, p := range f.players {
		if p.SessionID == player.SessionID && p.Name == player.Name {
			return nil, apperr.New(apperr.Duplicate, "player name already taken")
		}
	}
	f.nextID++
	player.ID = f.nextID
	f.players[player.ID] = player
	return player, nil
}

func (f *fakePlayerStore) FindBySession(ctx context.Context, schema string, sessionID int64) ([]*models.Player, error) {
	var out []*models.Player
	for _, p := range f.players {
		if p.SessionID == sessionID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakePlayerStore) UpdateTeam(ctx context.Context, schema string, playerID, teamID int64) (int64, error) {
	p, ok := f.players[playerID]
	if !ok {
		return 0, nil
	}
	p.TeamID = &teamID
	return 1, nil
}

func (f *fakePlayerStore) Delete(ctx context.Context, schema string, playerID int64) (int64, error) {
	if _, ok := f.players[playerID]; !ok {
		return 0, nil
	}
	delete(f.players, playerID)
	return 1, nil
}

func TestJoinSessionGuestFlag(t *testing.T) {
	svc := NewPlayerService(newFakePlayerStore())

	guest, err := svc.JoinSession(context.Background(), "public", JoinSessionInput{SessionID: 1, Name: "Dana"})
	if err != nil {
		t.Fatalf("JoinSession: %v", err)
	}
	if !guest.IsGuest {
		t.Fatal("player without an account should be a guest")
	}

	userID := int64(42)
	member, err := svc.JoinSession(context.Background(), "public", JoinSessionInput{SessionID: 1, Name: "Sam", UserID: &userID})
	if err != nil {
		t.Fatalf("JoinSession: %v", err)
	}
	if member.IsGuest {
		t.Fatal("player with an account should not be a guest")
	}
}

func TestJoinSessionValidation(t *testing.T) {
	svc := NewPlayerService(newFakePlayerStore())

	if _, err := svc.JoinSession(context.Background(), "public", JoinSessionInput{SessionID: 1, Name: "  "}); !apperr.IsKind(err, apperr.Validation) {
		t.Fatalf("expected Validation for blank name, got %v", err)
	}

	if _, err := svc.JoinSession(context.Background(), "public", JoinSessionInput{SessionID: 1, Name: "Dana"}); err != nil {
		t.Fatalf("JoinSession: %v", err)
	}
	if _, err := svc.JoinSession(context.Background(), "public", JoinSessionInput{SessionID: 1, Name: "Dana"}); !apperr.IsKind(err, apperr.Duplicate) {
		t.Fatalf("expected Duplicate for same name in session, got %v", err)
	}
}

func TestAssignTeam(t *testing.T) {
	store := newFakePlayerStore()
	svc := NewPlayerService(store)
	player, _ := svc.JoinSession(context.Background(), "public", JoinSessionInput{SessionID: 1, Name: "Dana"})

	if err := svc.AssignTeam(context.Background(), "public", player.ID, 7); err != nil {
		t.Fatalf("AssignTeam: %v", err)
	}
	if store.players[player.ID].TeamID == nil || *store.players[player.ID].TeamID != 7 {
		t.Fatal("expected team 7 assigned")
	}

	if err := svc.AssignTeam(context.Background(), "public", 999, 7); !apperr.IsKind(err, apperr.NotFound) {
		t.Fatalf("expected NotFound for missing player, got %v", err)
	}
}

func TestRemovePlayer(t *testing.T) {
	svc := NewPlayerService(newFakePlayerStore())
	player, _ := svc.JoinSession(context.Background(), "public", JoinSessionInput{SessionID: 1, Name: "Dana"})

	if err := svc.RemovePlayer(context.Background(), "public", player.ID); err != nil {
		t.Fatalf("RemovePlayer: %v", err)
	}
	if err := svc.RemovePlayer(context.Background(), "public", player.ID); !apperr.IsKind(err, apperr.NotFound) {
		t.Fatalf("expected NotFound for removed player, got %v", err)
	}
}
