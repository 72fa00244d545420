package service

import (
	"context"
	crand "crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	log "github.com/sirupsen/logrus"

	"github.com/quizline/trivia-services/internal/apperr"
	"github.com/quizline/trivia-services/internal/comm"
	"github.com/quizline/trivia-services/internal/triviasvc/models"
)

const joinCodeAttempts = 5

type sessionStore interface {
	Create(ctx context.Context, schema string, sess *models.GameSession) (*models.GameSession, error)
	FindByID(ctx context.Context, schema string, id int64) (*models.GameSession, error)
	FindByJoinCode(ctx context.Context, schema string, joinCode string) (*models.GameSession, error)
	Start(ctx context.Context, tx pgx.Tx, schema string, id int64, categoryIDs []int64) (bool, error)
	AdvanceRound(ctx context.Context, tx pgx.Tx, schema string, id int64, fromRound int) (bool, error)
	Complete(ctx context.Context, tx pgx.Tx, schema string, id int64, finalRound int) (bool, error)
	End(ctx context.Context, tx pgx.Tx, schema string, id int64) error
}

type gameCatalog interface {
	FindByID(ctx context.Context, schema string, id int64) (*models.Game, error)
	ActiveCategoryIDs(ctx context.Context, schema string, gameID int64) ([]int64, error)
}

type questionPool interface {
	IDsByGame(ctx context.Context, schema string, gameID int64, categoryIDs []int64) ([]int64, error)
}

type roundLedger interface {
	AddQuestions(ctx context.Context, tx pgx.Tx, schema string, sessionID int64, questionIDs []int64) error
	StartRound(ctx context.Context, tx pgx.Tx, schema string, sessionID int64, roundNumber int) (*RoundPayload, error)
	EndRound(ctx context.Context, tx pgx.Tx, schema string, sessionID int64, roundNumber int) error
	EndActiveRound(ctx context.Context, tx pgx.Tx, schema string, sessionID int64) error
}

type txRunner interface {
	Within(ctx context.Context, fn func(tx pgx.Tx) error) error
}

type publisher interface {
	Publish(subject string, data []byte) error
}

// SessionService owns the session state machine. Every multi-row
// transition runs through the atomic runner so a failure leaves the
// session exactly as it was.
type SessionService struct {
	sessions sessionStore
	games    gameCatalog
	pool     questionPool
	ledger   roundLedger
	atomic   txRunner
	events   publisher // optional lifecycle fan-out
}

func NewSessionService(sessions sessionStore, games gameCatalog, pool questionPool, ledger roundLedger, atomic txRunner) *SessionService {
	return &SessionService{
		sessions: sessions,
		games:    games,
		pool:     pool,
		ledger:   ledger,
		atomic:   atomic,
	}
}

// WithEvents enables session lifecycle announcements on NATS.
func (s *SessionService) WithEvents(events publisher) *SessionService {
	s.events = events
	return s
}

func generateJoinCode() (string, error) {
	b := make([]byte, 4)
	if _, err := crand.Read(b); err != nil {
		return "", fmt.Errorf("generate join code: %w", err)
	}
	return strings.ToUpper(hex.EncodeToString(b)), nil
}

// CreateSession allocates a session with a fresh join code, retrying
// on the rare collision with an existing code.
func (s *SessionService) CreateSession(ctx context.Context, schema string, gameID, hostUserID int64) (*models.GameSession, error) {
	game, err := s.games.FindByID(ctx, schema, gameID)
	if err != nil {
		return nil, err
	}
	if game == nil {
		return nil, apperr.Newf(apperr.NotFound, "game %d not found", gameID)
	}

	for attempt := 0; attempt < joinCodeAttempts; attempt++ {
		code, err := generateJoinCode()
		if err != nil {
			return nil, err
		}

		sess, err := s.sessions.Create(ctx, schema, &models.GameSession{
			GameID:     gameID,
			HostUserID: hostUserID,
			JoinCode:   code,
			Status:     models.StatusCreated,
		})
		if err != nil {
			if apperr.IsKind(err, apperr.Duplicate) {
				continue // join code collision, draw another
			}
			return nil, err
		}
		return sess, nil
	}

	return nil, apperr.New(apperr.Duplicate, "could not allocate a unique join code")
}

func (s *SessionService) GetSession(ctx context.Context, schema string, sessionID int64) (*models.GameSession, error) {
	sess, err := s.sessions.FindByID(ctx, schema, sessionID)
	if err != nil {
		return nil, err
	}
	if sess == nil {
		return nil, apperr.Newf(apperr.NotFound, "session %d not found", sessionID)
	}
	return sess, nil
}

func (s *SessionService) JoinByCode(ctx context.Context, schema string, joinCode string) (*models.GameSession, error) {
	sess, err := s.sessions.FindByJoinCode(ctx, schema, strings.ToUpper(strings.TrimSpace(joinCode)))
	if err != nil {
		return nil, err
	}
	if sess == nil {
		return nil, apperr.New(apperr.NotFound, "invalid join code")
	}
	return sess, nil
}

// StartSession validates the request, draws one question per round and,
// in a single transaction, marks the session started, materializes the
// full round ledger and activates round 1.
func (s *SessionService) StartSession(ctx context.Context, schema string, sessionID, requesterID int64, categoryIDs []int64) (*RoundPayload, error) {
	sess, err := s.GetSession(ctx, schema, sessionID)
	if err != nil {
		return nil, err
	}
	if sess.HostUserID != requesterID {
		return nil, apperr.New(apperr.Permission, "only the host can start the session")
	}
	if !sess.Status.Startable() {
		return nil, apperr.Newf(apperr.InvalidState, "session is %s, cannot start", sess.Status)
	}

	game, err := s.games.FindByID(ctx, schema, sess.GameID)
	if err != nil {
		return nil, err
	}
	if game == nil {
		return nil, apperr.Newf(apperr.NotFound, "game %d not found", sess.GameID)
	}

	if len(categoryIDs) > 0 {
		if err := s.validateCategories(ctx, schema, sess.GameID, categoryIDs); err != nil {
			return nil, err
		}
	}

	eligible, err := s.pool.IDsByGame(ctx, schema, sess.GameID, categoryIDs)
	if err != nil {
		return nil, err
	}
	if len(eligible) == 0 {
		return nil, apperr.New(apperr.NotFound, "no questions available for the selected categories")
	}

	picks := drawQuestions(eligible, game.MaxRounds, rand.Intn)

	var payload *RoundPayload
	err = s.atomic.Within(ctx, func(tx pgx.Tx) error {
		ok, err := s.sessions.Start(ctx, tx, schema, sessionID, categoryIDs)
		if err != nil {
			return err
		}
		if !ok {
			return apperr.New(apperr.Conflict, "session was started by another request")
		}
		if err := s.ledger.AddQuestions(ctx, tx, schema, sessionID, picks); err != nil {
			return err
		}
		payload, err = s.ledger.StartRound(ctx, tx, schema, sessionID, 1)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.announce(schema, sessionID, models.StatusRoundActive, 1)
	return payload, nil
}

func (s *SessionService) validateCategories(ctx context.Context, schema string, gameID int64, categoryIDs []int64) error {
	active, err := s.games.ActiveCategoryIDs(ctx, schema, gameID)
	if err != nil {
		return err
	}

	known := make(map[int64]bool, len(active))
	for _, id := range active {
		known[id] = true
	}

	var offending []int64
	for _, id := range categoryIDs {
		if !known[id] {
			offending = append(offending, id)
		}
	}
	if len(offending) > 0 {
		return apperr.Newf(apperr.Validation, "categories not active for this game: %v", offending)
	}
	return nil
}

// StartNextRound advances the session by one round, or completes the
// game once the final round has been played. The round increment is
// guarded optimistically: a lost race surfaces a retryable conflict.
func (s *SessionService) StartNextRound(ctx context.Context, schema string, sessionID, requesterID int64) (*RoundPayload, error) {
	sess, err := s.GetSession(ctx, schema, sessionID)
	if err != nil {
		return nil, err
	}
	if sess.HostUserID != requesterID {
		return nil, apperr.New(apperr.Permission, "only the host can advance the session")
	}
	if sess.Status == models.StatusCompleted {
		return nil, apperr.New(apperr.InvalidState, "session already completed")
	}
	if sess.Status != models.StatusRoundActive && sess.Status != models.StatusRoundEnded {
		return nil, apperr.Newf(apperr.InvalidState, "session is %s, no round to advance", sess.Status)
	}

	game, err := s.games.FindByID(ctx, schema, sess.GameID)
	if err != nil {
		return nil, err
	}
	if game == nil {
		return nil, apperr.Newf(apperr.NotFound, "game %d not found", sess.GameID)
	}

	if sess.CurrentRound >= game.MaxRounds {
		err = s.atomic.Within(ctx, func(tx pgx.Tx) error {
			if err := s.ledger.EndRound(ctx, tx, schema, sessionID, sess.CurrentRound); err != nil {
				return err
			}
			ok, err := s.sessions.Complete(ctx, tx, schema, sessionID, sess.CurrentRound)
			if err != nil {
				return err
			}
			if !ok {
				return apperr.New(apperr.Conflict, "session was completed by another request")
			}
			return nil
		})
		if err != nil {
			return nil, err
		}

		s.announce(schema, sessionID, models.StatusCompleted, sess.CurrentRound)
		return &RoundPayload{Completed: true}, nil
	}

	nextRound := sess.CurrentRound + 1

	var payload *RoundPayload
	err = s.atomic.Within(ctx, func(tx pgx.Tx) error {
		ok, err := s.sessions.AdvanceRound(ctx, tx, schema, sessionID, sess.CurrentRound)
		if err != nil {
			return err
		}
		if !ok {
			return apperr.New(apperr.Conflict, "another request advanced the session")
		}
		payload, err = s.ledger.StartRound(ctx, tx, schema, sessionID, nextRound)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.announce(schema, sessionID, models.StatusRoundActive, nextRound)
	return payload, nil
}

// EndSession closes any active round and marks the session ended. Safe
// to call repeatedly; only the timestamp moves.
func (s *SessionService) EndSession(ctx context.Context, schema string, sessionID int64) error {
	sess, err := s.GetSession(ctx, schema, sessionID)
	if err != nil {
		return err
	}

	err = s.atomic.Within(ctx, func(tx pgx.Tx) error {
		if err := s.ledger.EndActiveRound(ctx, tx, schema, sessionID); err != nil {
			return err
		}
		return s.sessions.End(ctx, tx, schema, sessionID)
	})
	if err != nil {
		return err
	}

	s.announce(schema, sessionID, models.StatusRoundEnded, sess.CurrentRound)
	return nil
}

// announce publishes a lifecycle event after a committed transition.
// Delivery is best-effort; the transition itself already happened.
func (s *SessionService) announce(schema string, sessionID int64, status models.SessionStatus, round int) {
	if s.events == nil {
		return
	}

	event := comm.SessionEvent{
		Schema:    schema,
		SessionId: sessionID,
		Status:    string(status),
		Round:     round,
		Timestamp: time.Now(),
	}
	data, err := json.Marshal(event)
	if err != nil {
		log.Errorf("unable to marshal session event: %v", err)
		return
	}

	payload, err := json.Marshal(&comm.Message{Type: "session-" + strings.ToLower(string(status)), Data: data})
	if err != nil {
		log.Errorf("unable to marshal session event envelope: %v", err)
		return
	}

	if err := s.events.Publish(comm.TopicSession, payload); err != nil {
		log.Errorf("error publishing session event for session %d: %v", sessionID, err)
	}
}
