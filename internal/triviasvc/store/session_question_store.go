package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/quizline/trivia-services/internal/apperr"
	"github.com/quizline/trivia-services/internal/triviasvc/models"
)

const sessionQuestionColumns = "id, session_id, question_id, round_number, started_at, ended_at"

type SessionQuestionStore struct {
	db DB
}

func NewSessionQuestionStore(db DB) *SessionQuestionStore {
	return &SessionQuestionStore{db: db}
}

func (s *SessionQuestionStore) q(tx pgx.Tx) DB {
	if tx != nil {
		return tx
	}
	return s.db
}

func scanSessionQuestion(row pgx.Row) (*models.SessionQuestion, error) {
	sq := &models.SessionQuestion{}
	err := row.Scan(
		&sq.ID,
		&sq.SessionID,
		&sq.QuestionID,
		&sq.RoundNumber,
		&sq.StartedAt,
		&sq.EndedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil // round not materialized
		}
		return nil, fmt.Errorf("failed to scan session question: %w", err)
	}
	return sq, nil
}

// BulkCreate materializes the round ledger: one row per round number,
// dense from 1. Must run inside the start-session transaction.
func (s *SessionQuestionStore) BulkCreate(ctx context.Context, tx pgx.Tx, schema string, sessionID int64, questionIDs []int64) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (session_id, question_id, round_number)
		VALUES ($1, $2, $3)
	`, rel(schema, "session_questions"))

	for i, questionID := range questionIDs {
		if _, err := s.q(tx).Exec(ctx, query, sessionID, questionID, i+1); err != nil {
			if uniqueViolation(err) == "session_questions_session_id_round_number_key" {
				return apperr.Newf(apperr.Duplicate, "round %d already exists for session %d", i+1, sessionID)
			}
			return fmt.Errorf("failed to create session question for round %d: %w", i+1, err)
		}
	}
	return nil
}

func (s *SessionQuestionStore) FindBySession(ctx context.Context, schema string, sessionID int64) ([]*models.SessionQuestion, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM %s
		WHERE session_id = $1
		ORDER BY round_number ASC
	`, sessionQuestionColumns, rel(schema, "session_questions"))

	rows, err := s.db.Query(ctx, query, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to list session questions: %w", err)
	}
	defer rows.Close()

	var out []*models.SessionQuestion
	for rows.Next() {
		sq := &models.SessionQuestion{}
		if err := rows.Scan(&sq.ID, &sq.SessionID, &sq.QuestionID, &sq.RoundNumber, &sq.StartedAt, &sq.EndedAt); err != nil {
			return nil, fmt.Errorf("failed to scan session question: %w", err)
		}
		out = append(out, sq)
	}
	return out, rows.Err()
}

func (s *SessionQuestionStore) FindByID(ctx context.Context, schema string, id int64) (*models.SessionQuestion, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE id = $1`, sessionQuestionColumns, rel(schema, "session_questions"))
	return scanSessionQuestion(s.db.QueryRow(ctx, query, id))
}

func (s *SessionQuestionStore) FindBySessionAndRound(ctx context.Context, tx pgx.Tx, schema string, sessionID int64, roundNumber int) (*models.SessionQuestion, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM %s
		WHERE session_id = $1 AND round_number = $2
	`, sessionQuestionColumns, rel(schema, "session_questions"))
	return scanSessionQuestion(s.q(tx).QueryRow(ctx, query, sessionID, roundNumber))
}

func (s *SessionQuestionStore) MarkStarted(ctx context.Context, tx pgx.Tx, schema string, id int64) error {
	query := fmt.Sprintf(`UPDATE %s SET started_at = now() WHERE id = $1`, rel(schema, "session_questions"))
	if _, err := s.q(tx).Exec(ctx, query, id); err != nil {
		return fmt.Errorf("failed to mark round started: %w", err)
	}
	return nil
}

// MarkEnded overwrites ended_at; calling it on an already-ended round
// is deliberately not an error.
func (s *SessionQuestionStore) MarkEnded(ctx context.Context, tx pgx.Tx, schema string, id int64) error {
	query := fmt.Sprintf(`UPDATE %s SET ended_at = now() WHERE id = $1`, rel(schema, "session_questions"))
	if _, err := s.q(tx).Exec(ctx, query, id); err != nil {
		return fmt.Errorf("failed to mark round ended: %w", err)
	}
	return nil
}

// EndActive closes whatever round is currently open for the session;
// a no-op when none is.
func (s *SessionQuestionStore) EndActive(ctx context.Context, tx pgx.Tx, schema string, sessionID int64) error {
	query := fmt.Sprintf(`
		UPDATE %s SET ended_at = now()
		WHERE session_id = $1 AND started_at IS NOT NULL AND ended_at IS NULL
	`, rel(schema, "session_questions"))
	if _, err := s.q(tx).Exec(ctx, query, sessionID); err != nil {
		return fmt.Errorf("failed to end active round: %w", err)
	}
	return nil
}
