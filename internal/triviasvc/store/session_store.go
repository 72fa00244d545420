package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/quizline/trivia-services/internal/apperr"
	"github.com/quizline/trivia-services/internal/triviasvc/models"
)

const sessionColumns = "id, game_id, host_user_id, join_code, status, current_round, category_ids, video_link, created_at, ended_at"

type SessionStore struct {
	db DB
}

func NewSessionStore(db DB) *SessionStore {
	return &SessionStore{db: db}
}

func (s *SessionStore) q(tx pgx.Tx) DB {
	if tx != nil {
		return tx
	}
	return s.db
}

func scanSession(row pgx.Row) (*models.GameSession, error) {
	sess := &models.GameSession{}
	var videoLink *string
	err := row.Scan(
		&sess.ID,
		&sess.GameID,
		&sess.HostUserID,
		&sess.JoinCode,
		&sess.Status,
		&sess.CurrentRound,
		&sess.CategoryIDs,
		&videoLink,
		&sess.CreatedAt,
		&sess.EndedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil // session not found
		}
		return nil, fmt.Errorf("failed to scan game session: %w", err)
	}
	if videoLink != nil {
		sess.VideoLink = *videoLink
	}
	return sess, nil
}

func (s *SessionStore) Create(ctx context.Context, schema string, sess *models.GameSession) (*models.GameSession, error) {
	query := fmt.Sprintf(`
		INSERT INTO %s (game_id, host_user_id, join_code, status, current_round)
		VALUES ($1, $2, $3, $4, 0)
		RETURNING id, created_at
	`, rel(schema, "game_sessions"))

	err := s.db.QueryRow(ctx, query, sess.GameID, sess.HostUserID, sess.JoinCode, sess.Status).
		Scan(&sess.ID, &sess.CreatedAt)
	if err != nil {
		if uniqueViolation(err) == "game_sessions_join_code_key" {
			return nil, apperr.New(apperr.Duplicate, "join code already in use")
		}
		if fkViolation(err) {
			return nil, apperr.Newf(apperr.Validation, "game %d does not exist", sess.GameID)
		}
		return nil, fmt.Errorf("failed to create game session: %w", err)
	}

	return sess, nil
}

func (s *SessionStore) FindByID(ctx context.Context, schema string, id int64) (*models.GameSession, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE id = $1`, sessionColumns, rel(schema, "game_sessions"))
	return scanSession(s.db.QueryRow(ctx, query, id))
}

func (s *SessionStore) FindByJoinCode(ctx context.Context, schema string, joinCode string) (*models.GameSession, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE join_code = $1`, sessionColumns, rel(schema, "game_sessions"))
	return scanSession(s.db.QueryRow(ctx, query, joinCode))
}

// Start flips a pre-start session to ROUND_ACTIVE at round 1 and
// records the chosen categories. The WHERE guard makes concurrent
// starts race-safe: exactly one caller sees a row update.
func (s *SessionStore) Start(ctx context.Context, tx pgx.Tx, schema string, id int64, categoryIDs []int64) (bool, error) {
	query := fmt.Sprintf(`
		UPDATE %s
		SET status = $2, current_round = 1, category_ids = $3
		WHERE id = $1 AND status IN ($4, $5)
	`, rel(schema, "game_sessions"))

	res, err := s.q(tx).Exec(ctx, query, id, models.StatusRoundActive, categoryIDs,
		models.StatusCreated, models.StatusLobby)
	if err != nil {
		return false, fmt.Errorf("failed to start session: %w", err)
	}
	return res.RowsAffected() == 1, nil
}

// AdvanceRound moves current_round from fromRound to fromRound+1 under
// an optimistic guard; zero rows affected means another request won.
func (s *SessionStore) AdvanceRound(ctx context.Context, tx pgx.Tx, schema string, id int64, fromRound int) (bool, error) {
	query := fmt.Sprintf(`
		UPDATE %s
		SET current_round = $2, status = $3
		WHERE id = $1 AND current_round = $4 AND status IN ($3, $5)
	`, rel(schema, "game_sessions"))

	res, err := s.q(tx).Exec(ctx, query, id, fromRound+1, models.StatusRoundActive,
		fromRound, models.StatusRoundEnded)
	if err != nil {
		return false, fmt.Errorf("failed to advance round: %w", err)
	}
	return res.RowsAffected() == 1, nil
}

// Complete terminally marks the session; guarded on the final round
// number so two racing completion calls cannot both succeed.
func (s *SessionStore) Complete(ctx context.Context, tx pgx.Tx, schema string, id int64, finalRound int) (bool, error) {
	query := fmt.Sprintf(`
		UPDATE %s
		SET status = $2, ended_at = now()
		WHERE id = $1 AND current_round = $3 AND status IN ($4, $5)
	`, rel(schema, "game_sessions"))

	res, err := s.q(tx).Exec(ctx, query, id, models.StatusCompleted, finalRound,
		models.StatusRoundActive, models.StatusRoundEnded)
	if err != nil {
		return false, fmt.Errorf("failed to complete session: %w", err)
	}
	return res.RowsAffected() == 1, nil
}

// End marks a session ended without completing it. Safe to call on an
// already-ended session; a COMPLETED session is left untouched.
func (s *SessionStore) End(ctx context.Context, tx pgx.Tx, schema string, id int64) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET status = $2, ended_at = now()
		WHERE id = $1 AND status <> $3
	`, rel(schema, "game_sessions"))

	_, err := s.q(tx).Exec(ctx, query, id, models.StatusRoundEnded, models.StatusCompleted)
	if err != nil {
		return fmt.Errorf("failed to end session: %w", err)
	}
	return nil
}
