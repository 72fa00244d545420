package store

import (
	"context"
	"fmt"

	"github.com/quizline/trivia-services/internal/apperr"
	"github.com/quizline/trivia-services/internal/triviasvc/models"
)

type AnswerStore struct {
	db DB
}

func NewAnswerStore(db DB) *AnswerStore {
	return &AnswerStore{db: db}
}

// Insert records one answer per (session question, team); the unique
// constraint makes first-write-wins authoritative under concurrency.
func (s *AnswerStore) Insert(ctx context.Context, schema string, answer *models.Answer) (*models.Answer, error) {
	query := fmt.Sprintf(`
		INSERT INTO %s (session_question_id, team_id, answer_id, answer, is_correct, user_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, answered_at
	`, rel(schema, "answers"))

	err := s.db.QueryRow(ctx, query,
		answer.SessionQuestionID, answer.TeamID, answer.AnswerID,
		answer.Answer, answer.IsCorrect, answer.UserID,
	).Scan(&answer.ID, &answer.AnsweredAt)
	if err != nil {
		if uniqueViolation(err) == "answers_session_question_id_team_id_key" {
			return nil, apperr.New(apperr.Duplicate, "answer already submitted for this round")
		}
		if fkViolation(err) {
			return nil, apperr.New(apperr.Validation, "round, team or option does not exist")
		}
		return nil, fmt.Errorf("failed to submit answer: %w", err)
	}
	return answer, nil
}

func (s *AnswerStore) FindBySessionQuestion(ctx context.Context, schema string, sessionQuestionID int64) ([]*models.Answer, error) {
	query := fmt.Sprintf(`
		SELECT id, session_question_id, team_id, answer_id, answer, is_correct, user_id, answered_at, evaluated_at
		FROM %s
		WHERE session_question_id = $1
		ORDER BY answered_at ASC
	`, rel(schema, "answers"))

	rows, err := s.db.Query(ctx, query, sessionQuestionID)
	if err != nil {
		return nil, fmt.Errorf("failed to list answers: %w", err)
	}
	defer rows.Close()

	var answers []*models.Answer
	for rows.Next() {
		a := &models.Answer{}
		var freeText *string
		if err := rows.Scan(&a.ID, &a.SessionQuestionID, &a.TeamID, &a.AnswerID, &freeText, &a.IsCorrect, &a.UserID, &a.AnsweredAt, &a.EvaluatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan answer: %w", err)
		}
		if freeText != nil {
			a.Answer = *freeText
		}
		answers = append(answers, a)
	}
	return answers, rows.Err()
}

// MarkCorrectness is the host's direct override for free-text answers.
func (s *AnswerStore) MarkCorrectness(ctx context.Context, schema string, id int64, isCorrect bool) (int64, error) {
	query := fmt.Sprintf(`UPDATE %s SET is_correct = $2, evaluated_at = now() WHERE id = $1`, rel(schema, "answers"))
	res, err := s.db.Exec(ctx, query, id, isCorrect)
	if err != nil {
		return 0, fmt.Errorf("failed to mark answer correctness: %w", err)
	}
	return res.RowsAffected(), nil
}
