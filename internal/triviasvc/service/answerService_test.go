package service

import (
	"context"
	"testing"

	"github.com/quizline/trivia-services/internal/apperr"
	"github.com/quizline/trivia-services/internal/triviasvc/models"
)

type answerKey struct {
	sessionQuestionID int64
	teamID            int64
}

type fakeAnswerStore struct {
	nextID   int64
	byKey    map[answerKey]*models.Answer
	affected int64
}

func newFakeAnswerStore() *fakeAnswerStore {
	return &fakeAnswerStore{byKey: map[answerKey]*models.Answer{}, affected: 1}
}

func (f *fakeAnswerStore) Insert(ctx context.Context, schema string, answer *models.Answer) (*models.Answer, error) {
	key := answerKey{answer.SessionQuestionID, answer.TeamID}
	if _, ok := f.byKey[key]; ok {
		return nil, apperr.New(apperr.Duplicate, "answer already submitted for this round")
	}
	f.nextID++
	answer.ID = f.nextID
	f.byKey[key] = answer
	return answer, nil
}

func (f *fakeAnswerStore) FindBySessionQuestion(ctx context.Context, schema string, sessionQuestionID int64) ([]*models.Answer, error) {
	var out []*models.Answer
	for key, a := range f.byKey {
		if key.sessionQuestionID == sessionQuestionID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (f *fakeAnswerStore) MarkCorrectness(ctx context.Context, schema string, id int64, isCorrect bool) (int64, error) {
	return f.affected, nil
}

type fakeRoundLookup struct {
	byID map[int64]*models.SessionQuestion
}

func (f *fakeRoundLookup) FindByID(ctx context.Context, schema string, id int64) (*models.SessionQuestion, error) {
	return f.byID[id], nil
}

type fakeOptionLookup struct {
	byID map[int64]*models.QuestionOption
}

func (f *fakeOptionLookup) OptionByID(ctx context.Context, schema string, id int64) (*models.QuestionOption, error) {
	return f.byID[id], nil
}

func newAnswerTestService() (*AnswerService, *fakeAnswerStore) {
	answers := newFakeAnswerStore()
	rounds := &fakeRoundLookup{byID: map[int64]*models.SessionQuestion{
		10: {ID: 10, SessionID: 1, QuestionID: 5, RoundNumber: 1},
	}}
	options := &fakeOptionLookup{byID: map[int64]*models.QuestionOption{
		51: {ID: 51, QuestionID: 5, IsCorrect: true},
		52: {ID: 52, QuestionID: 5, IsCorrect: false},
		61: {ID: 61, QuestionID: 6, IsCorrect: true}, // different question
	}}
	return NewAnswerService(answers, rounds, options), answers
}

func optID(id int64) *int64 { return &id }

func TestSubmitAnswerDerivesCorrectness(t *testing.T) {
	svc, _ := newAnswerTestService()

	answer, err := svc.SubmitAnswer(context.Background(), "public", SubmitAnswerInput{
		SessionQuestionID: 10, TeamID: 1, AnswerID: optID(51),
	})
	if err != nil {
		t.Fatalf("SubmitAnswer: %v", err)
	}
	if answer.IsCorrect == nil || !*answer.IsCorrect {
		t.Fatal("expected correct verdict from the selected option")
	}

	wrong, err := svc.SubmitAnswer(context.Background(), "public", SubmitAnswerInput{
		SessionQuestionID: 10, TeamID: 2, AnswerID: optID(52),
	})
	if err != nil {
		t.Fatalf("SubmitAnswer: %v", err)
	}
	if wrong.IsCorrect == nil || *wrong.IsCorrect {
		t.Fatal("expected incorrect verdict from the selected option")
	}
}

func TestSubmitAnswerDuplicate(t *testing.T) {
	svc, _ := newAnswerTestService()

	in := SubmitAnswerInput{SessionQuestionID: 10, TeamID: 1, AnswerID: optID(51)}
	if _, err := svc.SubmitAnswer(context.Background(), "public", in); err != nil {
		t.Fatalf("first submit: %v", err)
	}
	_, err := svc.SubmitAnswer(context.Background(), "public", in)
	if !apperr.IsKind(err, apperr.Duplicate) {
		t.Fatalf("expected Duplicate for second submit, got %v", err)
	}
}

func TestSubmitAnswerOptionMismatch(t *testing.T) {
	svc, _ := newAnswerTestService()

	_, err := svc.SubmitAnswer(context.Background(), "public", SubmitAnswerInput{
		SessionQuestionID: 10, TeamID: 1, AnswerID: optID(61),
	})
	if !apperr.IsKind(err, apperr.Validation) {
		t.Fatalf("expected Validation for foreign option, got %v", err)
	}
}

func TestSubmitAnswerFreeTextStaysUndetermined(t *testing.T) {
	svc, _ := newAnswerTestService()

	answer, err := svc.SubmitAnswer(context.Background(), "public", SubmitAnswerInput{
		SessionQuestionID: 10, TeamID: 1, FreeText: " Ulaanbaatar ",
	})
	if err != nil {
		t.Fatalf("SubmitAnswer: %v", err)
	}
	if answer.IsCorrect != nil {
		t.Fatal("free-text answers must stay undetermined until evaluated")
	}
	if answer.Answer != "Ulaanbaatar" {
		t.Fatalf("expected trimmed free text, got %q", answer.Answer)
	}
}

func TestSubmitAnswerEmpty(t *testing.T) {
	svc, _ := newAnswerTestService()

	_, err := svc.SubmitAnswer(context.Background(), "public", SubmitAnswerInput{
		SessionQuestionID: 10, TeamID: 1, FreeText: "   ",
	})
	if !apperr.IsKind(err, apperr.Validation) {
		t.Fatalf("expected Validation for empty submission, got %v", err)
	}
}

func TestSubmitAnswerUnknownRound(t *testing.T) {
	svc, _ := newAnswerTestService()

	_, err := svc.SubmitAnswer(context.Background(), "public", SubmitAnswerInput{
		SessionQuestionID: 999, TeamID: 1, AnswerID: optID(51),
	})
	if !apperr.IsKind(err, apperr.NotFound) {
		t.Fatalf("expected NotFound, got %v", err)
	}
}

func TestSubmitAnswerUnknownOption(t *testing.T) {
	svc, _ := newAnswerTestService()

	_, err := svc.SubmitAnswer(context.Background(), "public", SubmitAnswerInput{
		SessionQuestionID: 10, TeamID: 1, AnswerID: optID(999),
	})
	if !apperr.IsKind(err, apperr.NotFound) {
		t.Fatalf("expected NotFound, got %v", err)
	}
}

func TestEvaluateAnswer(t *testing.T) {
	svc, answers := newAnswerTestService()

	if err := svc.EvaluateAnswer(context.Background(), "public", 1, true); err != nil {
		t.Fatalf("EvaluateAnswer: %v", err)
	}

	answers.affected = 0
	err := svc.EvaluateAnswer(context.Background(), "public", 999, true)
	if !apperr.IsKind(err, apperr.NotFound) {
		t.Fatalf("expected NotFound for missing answer, got %v", err)
	}
}
