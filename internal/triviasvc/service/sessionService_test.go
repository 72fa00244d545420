package service

import (
	"context"
	"regexp"
	"testing"

	"github.com/jackc/pgx/v5"

	"github.com/quizline/trivia-services/internal/apperr"
	"github.com/quizline/trivia-services/internal/triviasvc/models"
)

type fakeSessionStore struct {
	byID        map[int64]*models.GameSession
	nextID      int64
	createCalls int
	createFails int // leading Create calls fail with a join code collision

	startOK     bool
	startCalls  int
	startedCats []int64

	advanceOK    bool
	advanceCalls int
	advanceFrom  int

	completeOK bool
	completed  bool
	ended      bool
}

func newFakeSessionStore() *fakeSessionStore {
	return &fakeSessionStore{
		byID:       make(map[int64]*models.GameSession),
		startOK:    true,
		advanceOK:  true,
		completeOK: true,
	}
}

func (f *fakeSessionStore) Create(ctx context.Context, schema string, sess *models.GameSession) (*models.GameSession, error) {
	f.createCalls++
	if f.createFails > 0 {
		f.createFails--
		return nil, apperr.New(apperr.Duplicate, "duplicate join code")
	}
	f.nextID++
	sess.ID = f.nextID
	f.byID[sess.ID] = sess
	return sess, nil
}

func (f *fakeSessionStore) FindByID(ctx context.Context, schema string, id int64) (*models.GameSession, error) {
	return f.byID[id], nil
}

func (f *fakeSessionStore) FindByJoinCode(ctx context.Context, schema string, joinCode string) (*models.GameSession, error) {
	for _, sess := range f.byID {
		if sess.JoinCode == joinCode {
			return sess, nil
		}
	}
	return nil, nil
}

func (f *fakeSessionStore) Start(ctx context.Context, tx pgx.Tx, schema string, id int64, categoryIDs []int64) (bool, error) {
	f.startCalls++
	if !f.startOK {
		return false, nil
	}
	f.startedCats = categoryIDs
	sess := f.byID[id]
	sess.Status = models.StatusRoundActive
	sess.CurrentRound = 1
	return true, nil
}

func (f *fakeSessionStore) AdvanceRound(ctx context.Context, tx pgx.Tx, schema string, id int64, fromRound int) (bool, error) {
	f.advanceCalls++
	f.advanceFrom = fromRound
	if !f.advanceOK {
		return false, nil
	}
	f.byID[id].CurrentRound = fromRound + 1
	return true, nil
}

func (f *fakeSessionStore) Complete(ctx context.Context, tx pgx.Tx, schema string, id int64, finalRound int) (bool, error) {
	if !f.completeOK {
		return false, nil
	}
	f.completed = true
	f.byID[id].Status = models.StatusCompleted
	return true, nil
}

func (f *fakeSessionStore) End(ctx context.Context, tx pgx.Tx, schema string, id int64) error {
	f.ended = true
	return nil
}

type fakeCatalog struct {
	games      map[int64]*models.Game
	categories []int64
}

func (f *fakeCatalog) FindByID(ctx context.Context, schema string, id int64) (*models.Game, error) {
	return f.games[id], nil
}

func (f *fakeCatalog) ActiveCategoryIDs(ctx context.Context, schema string, gameID int64) ([]int64, error) {
	return f.categories, nil
}

type fakePool struct {
	ids []int64
}

func (f *fakePool) IDsByGame(ctx context.Context, schema string, gameID int64, categoryIDs []int64) ([]int64, error) {
	return f.ids, nil
}

type fakeLedger struct {
	added         []int64
	startedRounds []int
	endedRounds   []int
	endedActive   bool
}

func (f *fakeLedger) AddQuestions(ctx context.Context, tx pgx.Tx, schema string, sessionID int64, questionIDs []int64) error {
	f.added = questionIDs
	return nil
}

func (f *fakeLedger) StartRound(ctx context.Context, tx pgx.Tx, schema string, sessionID int64, roundNumber int) (*RoundPayload, error) {
	f.startedRounds = append(f.startedRounds, roundNumber)
	return &RoundPayload{Round: &models.SessionQuestion{SessionID: sessionID, RoundNumber: roundNumber}}, nil
}

func (f *fakeLedger) EndRound(ctx context.Context, tx pgx.Tx, schema string, sessionID int64, roundNumber int) error {
	f.endedRounds = append(f.endedRounds, roundNumber)
	return nil
}

func (f *fakeLedger) EndActiveRound(ctx context.Context, tx pgx.Tx, schema string, sessionID int64) error {
	f.endedActive = true
	return nil
}

type fakeAtomic struct{}

func (fakeAtomic) Within(ctx context.Context, fn func(tx pgx.Tx) error) error {
	return fn(nil)
}

func newTestService(maxRounds int, poolIDs []int64) (*SessionService, *fakeSessionStore, *fakeLedger) {
	sessions := newFakeSessionStore()
	catalog := &fakeCatalog{
		games:      map[int64]*models.Game{1: {ID: 1, Code: "TRIVIA", Name: "Trivia", MaxRounds: maxRounds}},
		categories: []int64{100, 200},
	}
	ledger := &fakeLedger{}
	svc := NewSessionService(sessions, catalog, &fakePool{ids: poolIDs}, ledger, fakeAtomic{})
	return svc, sessions, ledger
}

var joinCodeRe = regexp.MustCompile(`^[0-9A-F]{8}$`)

func TestCreateSession(t *testing.T) {
	svc, _, _ := newTestService(3, []int64{1, 2, 3})

	sess, err := svc.CreateSession(context.Background(), "public", 1, 42)
	if err != nil {
		t.Fatalf("CreateSession: %v", err)
	}
	if sess.Status != models.StatusCreated {
		t.Fatalf("expected CREATED, got %s", sess.Status)
	}
	if sess.CurrentRound != 0 {
		t.Fatalf("expected round 0 before start, got %d", sess.CurrentRound)
	}
	if !joinCodeRe.MatchString(sess.JoinCode) {
		t.Fatalf("join code %q is not 8 uppercase hex chars", sess.JoinCode)
	}
}

func TestCreateSessionRetriesOnCollision(t *testing.T) {
	svc, sessions, _ := newTestService(3, nil)
	sessions.createFails = 2

	if _, err := svc.CreateSession(context.Background(), "public", 1, 42); err != nil {
		t.Fatalf("CreateSession: %v", err)
	}
	if sessions.createCalls != 3 {
		t.Fatalf("expected 3 create attempts, got %d", sessions.createCalls)
	}
}

func TestCreateSessionUnknownGame(t *testing.T) {
	svc, _, _ := newTestService(3, nil)

	_, err := svc.CreateSession(context.Background(), "public", 99, 42)
	if !apperr.IsKind(err, apperr.NotFound) {
		t.Fatalf("expected NotFound, got %v", err)
	}
}

func TestJoinByCode(t *testing.T) {
	svc, _, _ := newTestService(3, nil)

	created, err := svc.CreateSession(context.Background(), "public", 1, 42)
	if err != nil {
		t.Fatalf("CreateSession: %v", err)
	}

	sess, err := svc.JoinByCode(context.Background(), "public", "  "+created.JoinCode+" ")
	if err != nil {
		t.Fatalf("JoinByCode: %v", err)
	}
	if sess.ID != created.ID {
		t.Fatalf("expected session %d, got %d", created.ID, sess.ID)
	}

	if _, err := svc.JoinByCode(context.Background(), "public", "NOPE1234"); !apperr.IsKind(err, apperr.NotFound) {
		t.Fatalf("expected NotFound for bad code, got %v", err)
	}
}

func TestStartSession(t *testing.T) {
	svc, sessions, ledger := newTestService(3, []int64{10, 20, 30, 40})
	sess, _ := svc.CreateSession(context.Background(), "public", 1, 42)

	payload, err := svc.StartSession(context.Background(), "public", sess.ID, 42, []int64{100})
	if err != nil {
		t.Fatalf("StartSession: %v", err)
	}

	if len(ledger.added) != 3 {
		t.Fatalf("expected one question per round, got %d", len(ledger.added))
	}
	if len(ledger.startedRounds) != 1 || ledger.startedRounds[0] != 1 {
		t.Fatalf("expected round 1 started, got %v", ledger.startedRounds)
	}
	if payload.Round.RoundNumber != 1 {
		t.Fatalf("expected round 1 payload, got %d", payload.Round.RoundNumber)
	}
	if sessions.byID[sess.ID].CurrentRound != 1 {
		t.Fatalf("expected current round 1, got %d", sessions.byID[sess.ID].CurrentRound)
	}
}

func TestStartSessionNonHost(t *testing.T) {
	svc, _, _ := newTestService(3, []int64{10})
	sess, _ := svc.CreateSession(context.Background(), "public", 1, 42)

	_, err := svc.StartSession(context.Background(), "public", sess.ID, 43, nil)
	if !apperr.IsKind(err, apperr.Permission) {
		t.Fatalf("expected Permission, got %v", err)
	}
}

func TestStartSessionWrongState(t *testing.T) {
	svc, sessions, _ := newTestService(3, []int64{10})
	sess, _ := svc.CreateSession(context.Background(), "public", 1, 42)
	sessions.byID[sess.ID].Status = models.StatusRoundActive

	_, err := svc.StartSession(context.Background(), "public", sess.ID, 42, nil)
	if !apperr.IsKind(err, apperr.InvalidState) {
		t.Fatalf("expected InvalidState, got %v", err)
	}
}

func TestStartSessionBadCategories(t *testing.T) {
	svc, sessions, ledger := newTestService(3, []int64{10})
	sess, _ := svc.CreateSession(context.Background(), "public", 1, 42)

	_, err := svc.StartSession(context.Background(), "public", sess.ID, 42, []int64{100, 999})
	if !apperr.IsKind(err, apperr.Validation) {
		t.Fatalf("expected Validation, got %v", err)
	}
	// a rejected start must leave the session untouched
	if sessions.startCalls != 0 || len(ledger.added) != 0 {
		t.Fatal("rejected start must not touch the session")
	}
	if sessions.byID[sess.ID].Status != models.StatusCreated {
		t.Fatalf("expected CREATED after rejected start, got %s", sessions.byID[sess.ID].Status)
	}
}

func TestStartSessionEmptyPool(t *testing.T) {
	svc, _, _ := newTestService(3, nil)
	sess, _ := svc.CreateSession(context.Background(), "public", 1, 42)

	_, err := svc.StartSession(context.Background(), "public", sess.ID, 42, nil)
	if !apperr.IsKind(err, apperr.NotFound) {
		t.Fatalf("expected NotFound for empty question pool, got %v", err)
	}
}

func TestStartSessionLostRace(t *testing.T) {
	svc, sessions, _ := newTestService(3, []int64{10})
	sess, _ := svc.CreateSession(context.Background(), "public", 1, 42)
	sessions.startOK = false

	_, err := svc.StartSession(context.Background(), "public", sess.ID, 42, nil)
	if !apperr.IsKind(err, apperr.Conflict) {
		t.Fatalf("expected Conflict, got %v", err)
	}
}

func TestStartNextRound(t *testing.T) {
	svc, sessions, _ := newTestService(3, []int64{10, 20, 30})
	sess, _ := svc.CreateSession(context.Background(), "public", 1, 42)
	if _, err := svc.StartSession(context.Background(), "public", sess.ID, 42, nil); err != nil {
		t.Fatalf("StartSession: %v", err)
	}

	payload, err := svc.StartNextRound(context.Background(), "public", sess.ID, 42)
	if err != nil {
		t.Fatalf("StartNextRound: %v", err)
	}
	if payload.Completed {
		t.Fatal("round 2 of 3 should not complete the game")
	}
	if payload.Round.RoundNumber != 2 {
		t.Fatalf("expected round 2, got %d", payload.Round.RoundNumber)
	}
	if sessions.advanceFrom != 1 {
		t.Fatalf("expected advance guarded on round 1, got %d", sessions.advanceFrom)
	}
	if sessions.byID[sess.ID].CurrentRound != 2 {
		t.Fatalf("expected current round 2, got %d", sessions.byID[sess.ID].CurrentRound)
	}
}

func TestStartNextRoundKeepsLedgerDense(t *testing.T) {
	svc, _, ledger := newTestService(3, []int64{10, 20, 30})
	sess, _ := svc.CreateSession(context.Background(), "public", 1, 42)
	if _, err := svc.StartSession(context.Background(), "public", sess.ID, 42, nil); err != nil {
		t.Fatalf("StartSession: %v", err)
	}

	for round := 2; round <= 3; round++ {
		if _, err := svc.StartNextRound(context.Background(), "public", sess.ID, 42); err != nil {
			t.Fatalf("StartNextRound to %d: %v", round, err)
		}
	}

	want := []int{1, 2, 3}
	if len(ledger.startedRounds) != len(want) {
		t.Fatalf("expected rounds %v, got %v", want, ledger.startedRounds)
	}
	for i := range want {
		if ledger.startedRounds[i] != want[i] {
			t.Fatalf("expected rounds %v, got %v", want, ledger.startedRounds)
		}
	}
}

func TestStartNextRoundCompletesAtCap(t *testing.T) {
	svc, sessions, ledger := newTestService(2, []int64{10, 20})
	sess, _ := svc.CreateSession(context.Background(), "public", 1, 42)
	if _, err := svc.StartSession(context.Background(), "public", sess.ID, 42, nil); err != nil {
		t.Fatalf("StartSession: %v", err)
	}
	if _, err := svc.StartNextRound(context.Background(), "public", sess.ID, 42); err != nil {
		t.Fatalf("StartNextRound: %v", err)
	}

	payload, err := svc.StartNextRound(context.Background(), "public", sess.ID, 42)
	if err != nil {
		t.Fatalf("StartNextRound at cap: %v", err)
	}
	if !payload.Completed {
		t.Fatal("expected completion past the final round")
	}
	if !sessions.completed {
		t.Fatal("expected session marked COMPLETED")
	}
	// no new ledger row past the cap
	if len(ledger.startedRounds) != 2 {
		t.Fatalf("expected 2 started rounds, got %v", ledger.startedRounds)
	}
	if len(ledger.endedRounds) != 1 || ledger.endedRounds[0] != 2 {
		t.Fatalf("expected final round 2 ended, got %v", ledger.endedRounds)
	}
}

func TestStartNextRoundAfterCompleted(t *testing.T) {
	svc, sessions, _ := newTestService(2, []int64{10})
	sess, _ := svc.CreateSession(context.Background(), "public", 1, 42)
	sessions.byID[sess.ID].Status = models.StatusCompleted

	_, err := svc.StartNextRound(context.Background(), "public", sess.ID, 42)
	if !apperr.IsKind(err, apperr.InvalidState) {
		t.Fatalf("expected InvalidState, got %v", err)
	}
}

func TestStartNextRoundNonHost(t *testing.T) {
	svc, sessions, _ := newTestService(2, []int64{10})
	sess, _ := svc.CreateSession(context.Background(), "public", 1, 42)
	sessions.byID[sess.ID].Status = models.StatusRoundActive
	sessions.byID[sess.ID].CurrentRound = 1

	_, err := svc.StartNextRound(context.Background(), "public", sess.ID, 7)
	if !apperr.IsKind(err, apperr.Permission) {
		t.Fatalf("expected Permission, got %v", err)
	}
}

func TestStartNextRoundLostRace(t *testing.T) {
	svc, sessions, _ := newTestService(3, []int64{10, 20, 30})
	sess, _ := svc.CreateSession(context.Background(), "public", 1, 42)
	if _, err := svc.StartSession(context.Background(), "public", sess.ID, 42, nil); err != nil {
		t.Fatalf("StartSession: %v", err)
	}
	sessions.advanceOK = false

	_, err := svc.StartNextRound(context.Background(), "public", sess.ID, 42)
	if !apperr.IsKind(err, apperr.Conflict) {
		t.Fatalf("expected Conflict on lost race, got %v", err)
	}
}

func TestEndSession(t *testing.T) {
	svc, sessions, ledger := newTestService(3, []int64{10, 20, 30})
	sess, _ := svc.CreateSession(context.Background(), "public", 1, 42)
	if _, err := svc.StartSession(context.Background(), "public", sess.ID, 42, nil); err != nil {
		t.Fatalf("StartSession: %v", err)
	}

	if err := svc.EndSession(context.Background(), "public", sess.ID); err != nil {
		t.Fatalf("EndSession: %v", err)
	}
	if !ledger.endedActive {
		t.Fatal("expected active round closed")
	}
	if !sessions.ended {
		t.Fatal("expected session ended")
	}
}
