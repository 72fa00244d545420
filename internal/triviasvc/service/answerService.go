package service

import (
	"context"
	"strings"

	"github.com/quizline/trivia-services/internal/apperr"
	"github.com/quizline/trivia-services/internal/triviasvc/models"
)

type answerStore interface {
	Insert(ctx context.Context, schema string, answer *models.Answer) (*models.Answer, error)
	FindBySessionQuestion(ctx context.Context, schema string, sessionQuestionID int64) ([]*models.Answer, error)
	MarkCorrectness(ctx context.Context, schema string, id int64, isCorrect bool) (int64, error)
}

type roundLookup interface {
	FindByID(ctx context.Context, schema string, id int64) (*models.SessionQuestion, error)
}

type optionLookup interface {
	OptionByID(ctx context.Context, schema string, id int64) (*models.QuestionOption, error)
}

type SubmitAnswerInput struct {
	SessionQuestionID int64
	TeamID            int64
	UserID            *int64
	AnswerID          *int64 // selected option, if any
	FreeText          string
}

// AnswerService records one submission per team per round and derives
// correctness from the catalog at submission time.
type AnswerService struct {
	answers answerStore
	rounds  roundLookup
	options optionLookup
}

func NewAnswerService(answers answerStore, rounds roundLookup, options optionLookup) *AnswerService {
	return &AnswerService{answers: answers, rounds: rounds, options: options}
}

func (s *AnswerService) SubmitAnswer(ctx context.Context, schema string, in SubmitAnswerInput) (*models.Answer, error) {
	sq, err := s.rounds.FindByID(ctx, schema, in.SessionQuestionID)
	if err != nil {
		return nil, err
	}
	if sq == nil {
		return nil, apperr.Newf(apperr.NotFound, "session question %d not found", in.SessionQuestionID)
	}

	answer := &models.Answer{
		SessionQuestionID: in.SessionQuestionID,
		TeamID:            in.TeamID,
		UserID:            in.UserID,
		AnswerID:          in.AnswerID,
		Answer:            strings.TrimSpace(in.FreeText),
	}

	if in.AnswerID != nil {
		opt, err := s.options.OptionByID(ctx, schema, *in.AnswerID)
		if err != nil {
			return nil, err
		}
		if opt == nil {
			return nil, apperr.Newf(apperr.NotFound, "option %d not found", *in.AnswerID)
		}
		if opt.QuestionID != sq.QuestionID {
			return nil, apperr.New(apperr.Validation, "option does not belong to this round's question")
		}
		// verdict is fixed at submission time from the stored flag
		isCorrect := opt.IsCorrect
		answer.IsCorrect = &isCorrect
	} else if answer.Answer == "" {
		return nil, apperr.New(apperr.Validation, "either an option or a free-text answer is required")
	}
	// free-text answers stay undetermined until the host evaluates

	return s.answers.Insert(ctx, schema, answer)
}

func (s *AnswerService) GetAnswersForQuestion(ctx context.Context, schema string, sessionQuestionID int64) ([]*models.Answer, error) {
	return s.answers.FindBySessionQuestion(ctx, schema, sessionQuestionID)
}

// EvaluateAnswer is the host's direct override; no further validation.
func (s *AnswerService) EvaluateAnswer(ctx context.Context, schema string, answerID int64, isCorrect bool) error {
	affected, err := s.answers.MarkCorrectness(ctx, schema, answerID, isCorrect)
	if err != nil {
		return err
	}
	if affected == 0 {
		return apperr.Newf(apperr.NotFound, "answer %d not found", answerID)
	}
	return nil
}
