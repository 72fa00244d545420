package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/quizline/trivia-services/internal/triviasvc/models"
)

type QuestionStore struct {
	db DB
}

func NewQuestionStore(db DB) *QuestionStore {
	return &QuestionStore{db: db}
}

func (s *QuestionStore) q(tx pgx.Tx) DB {
	if tx != nil {
		return tx
	}
	return s.db
}

// IDsByGame resolves the eligible question pool for a game, optionally
// restricted to the given categories.
func (s *QuestionStore) IDsByGame(ctx context.Context, schema string, gameID int64, categoryIDs []int64) ([]int64, error) {
	query := fmt.Sprintf(`SELECT id FROM %s WHERE game_id = $1 ORDER BY id`, rel(schema, "questions"))
	args := []any{gameID}
	if len(categoryIDs) > 0 {
		query = fmt.Sprintf(`SELECT id FROM %s WHERE game_id = $1 AND category_id = ANY($2) ORDER BY id`, rel(schema, "questions"))
		args = append(args, categoryIDs)
	}

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list question ids: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan question id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (s *QuestionStore) FindByID(ctx context.Context, tx pgx.Tx, schema string, id int64) (*models.Question, error) {
	query := fmt.Sprintf(`
		SELECT id, game_id, category_id, question_type, question_text, media_url, answer_type
		FROM %s
		WHERE id = $1
	`, rel(schema, "questions"))

	question := &models.Question{}
	var text, mediaURL *string
	err := s.q(tx).QueryRow(ctx, query, id).Scan(
		&question.ID,
		&question.GameID,
		&question.CategoryID,
		&question.QuestionType,
		&text,
		&mediaURL,
		&question.AnswerType,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil // question not found
		}
		return nil, fmt.Errorf("failed to get question by ID: %w", err)
	}
	if text != nil {
		question.QuestionText = *text
	}
	if mediaURL != nil {
		question.MediaURL = *mediaURL
	}
	return question, nil
}

func (s *QuestionStore) OptionsByQuestion(ctx context.Context, tx pgx.Tx, schema string, questionID int64) ([]*models.QuestionOption, error) {
	query := fmt.Sprintf(`
		SELECT id, question_id, option_text, option_media, is_correct, display_order
		FROM %s
		WHERE question_id = $1
		ORDER BY display_order ASC, id ASC
	`, rel(schema, "question_options"))

	rows, err := s.q(tx).Query(ctx, query, questionID)
	if err != nil {
		return nil, fmt.Errorf("failed to list question options: %w", err)
	}
	defer rows.Close()

	var options []*models.QuestionOption
	for rows.Next() {
		opt := &models.QuestionOption{}
		var text, media *string
		if err := rows.Scan(&opt.ID, &opt.QuestionID, &text, &media, &opt.IsCorrect, &opt.DisplayOrder); err != nil {
			return nil, fmt.Errorf("failed to scan question option: %w", err)
		}
		if text != nil {
			opt.OptionText = *text
		}
		if media != nil {
			opt.OptionMedia = *media
		}
		options = append(options, opt)
	}
	return options, rows.Err()
}

func (s *QuestionStore) OptionByID(ctx context.Context, schema string, id int64) (*models.QuestionOption, error) {
	query := fmt.Sprintf(`
		SELECT id, question_id, option_text, option_media, is_correct, display_order
		FROM %s
		WHERE id = $1
	`, rel(schema, "question_options"))

	opt := &models.QuestionOption{}
	var text, media *string
	err := s.db.QueryRow(ctx, query, id).Scan(&opt.ID, &opt.QuestionID, &text, &media, &opt.IsCorrect, &opt.DisplayOrder)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil // option not found
		}
		return nil, fmt.Errorf("failed to get option by ID: %w", err)
	}
	if text != nil {
		opt.OptionText = *text
	}
	if media != nil {
		opt.OptionMedia = *media
	}
	return opt, nil
}
