package service

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/quizline/trivia-services/internal/apperr"
	"github.com/quizline/trivia-services/internal/triviasvc/models"
)

type sessionQuestionStore interface {
	BulkCreate(ctx context.Context, tx pgx.Tx, schema string, sessionID int64, questionIDs []int64) error
	FindBySession(ctx context.Context, schema string, sessionID int64) ([]*models.SessionQuestion, error)
	FindBySessionAndRound(ctx context.Context, tx pgx.Tx, schema string, sessionID int64, roundNumber int) (*models.SessionQuestion, error)
	MarkStarted(ctx context.Context, tx pgx.Tx, schema string, id int64) error
	MarkEnded(ctx context.Context, tx pgx.Tx, schema string, id int64) error
	EndActive(ctx context.Context, tx pgx.Tx, schema string, sessionID int64) error
}

type questionCatalog interface {
	FindByID(ctx context.Context, tx pgx.Tx, schema string, id int64) (*models.Question, error)
	OptionsByQuestion(ctx context.Context, tx pgx.Tx, schema string, questionID int64) ([]*models.QuestionOption, error)
}

// RoundPayload is what a host or player sees when a round goes live.
// Completed is set instead of a question when the game just finished.
type RoundPayload struct {
	Round     *models.SessionQuestion  `json:"round,omitempty"`
	Question  *models.Question         `json:"question,omitempty"`
	Options   []*models.QuestionOption `json:"options,omitempty"`
	Completed bool                     `json:"completed"`
}

// RoundService is the round ledger: it owns the (session, round number)
// → question assignments and their activation timestamps.
type RoundService struct {
	rounds  sessionQuestionStore
	catalog questionCatalog
}

func NewRoundService(rounds sessionQuestionStore, catalog questionCatalog) *RoundService {
	return &RoundService{rounds: rounds, catalog: catalog}
}

// AddQuestions materializes ledger rows for rounds 1..len(questionIDs).
func (s *RoundService) AddQuestions(ctx context.Context, tx pgx.Tx, schema string, sessionID int64, questionIDs []int64) error {
	return s.rounds.BulkCreate(ctx, tx, schema, sessionID, questionIDs)
}

// StartRound activates a pre-materialized round and assembles its full
// payload. A missing ledger row is a data error upstream, not a user
// mistake, but is still surfaced as not-found.
func (s *RoundService) StartRound(ctx context.Context, tx pgx.Tx, schema string, sessionID int64, roundNumber int) (*RoundPayload, error) {
	sq, err := s.rounds.FindBySessionAndRound(ctx, tx, schema, sessionID, roundNumber)
	if err != nil {
		return nil, err
	}
	if sq == nil {
		return nil, apperr.Newf(apperr.NotFound, "round %d not found for session %d", roundNumber, sessionID)
	}

	if err := s.rounds.MarkStarted(ctx, tx, schema, sq.ID); err != nil {
		return nil, err
	}
	now := time.Now()
	sq.StartedAt = &now

	question, err := s.catalog.FindByID(ctx, tx, schema, sq.QuestionID)
	if err != nil {
		return nil, err
	}
	if question == nil {
		return nil, apperr.Newf(apperr.NotFound, "question %d missing for round %d", sq.QuestionID, roundNumber)
	}

	options, err := s.catalog.OptionsByQuestion(ctx, tx, schema, sq.QuestionID)
	if err != nil {
		return nil, err
	}

	return &RoundPayload{Round: sq, Question: question, Options: options}, nil
}

// EndRound stamps ended_at. Re-ending an ended round just overwrites
// the timestamp.
func (s *RoundService) EndRound(ctx context.Context, tx pgx.Tx, schema string, sessionID int64, roundNumber int) error {
	sq, err := s.rounds.FindBySessionAndRound(ctx, tx, schema, sessionID, roundNumber)
	if err != nil {
		return err
	}
	if sq == nil {
		return apperr.Newf(apperr.NotFound, "round %d not found for session %d", roundNumber, sessionID)
	}
	return s.rounds.MarkEnded(ctx, tx, schema, sq.ID)
}

// EndActiveRound closes whatever round is open; no-op when none is.
func (s *RoundService) EndActiveRound(ctx context.Context, tx pgx.Tx, schema string, sessionID int64) error {
	return s.rounds.EndActive(ctx, tx, schema, sessionID)
}

func (s *RoundService) GetSessionQuestions(ctx context.Context, schema string, sessionID int64) ([]*models.SessionQuestion, error) {
	return s.rounds.FindBySession(ctx, schema, sessionID)
}
