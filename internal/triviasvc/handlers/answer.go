package handlers

import (
	"net/http"

	"github.com/quizline/trivia-services/internal/triviasvc/service"
)

type submitAnswerRequest struct {
	TeamID   int64  `json:"team_id"`
	AnswerID *int64 `json:"answer_id,omitempty"`
	Answer   string `json:"answer,omitempty"`
	Guest    bool   `json:"guest,omitempty"`
}

func (h *Handler) SubmitAnswer(w http.ResponseWriter, r *http.Request) {
	sessionQuestionID, err := urlID(r, "id")
	if err != nil {
		h.Fail(w, err)
		return
	}

	var req submitAnswerRequest
	if err := decodeBody(r, &req); err != nil {
		h.Fail(w, err)
		return
	}

	var userID *int64
	if !req.Guest {
		id, err := currentUserID(r)
		if err != nil {
			h.Fail(w, err)
			return
		}
		userID = &id
	}

	answer, err := h.answers.SubmitAnswer(r.Context(), SchemaFromRequest(r), service.SubmitAnswerInput{
		SessionQuestionID: sessionQuestionID,
		TeamID:            req.TeamID,
		UserID:            userID,
		AnswerID:          req.AnswerID,
		FreeText:          req.Answer,
	})
	if err != nil {
		h.Fail(w, err)
		return
	}
	h.OK(w, http.StatusCreated, answer)
}

func (h *Handler) GetAnswers(w http.ResponseWriter, r *http.Request) {
	sessionQuestionID, err := urlID(r, "id")
	if err != nil {
		h.Fail(w, err)
		return
	}

	answers, err := h.answers.GetAnswersForQuestion(r.Context(), SchemaFromRequest(r), sessionQuestionID)
	if err != nil {
		h.Fail(w, err)
		return
	}
	h.OK(w, http.StatusOK, answers)
}

type evaluateAnswerRequest struct {
	IsCorrect bool `json:"is_correct"`
}

// EvaluateAnswer lets the host settle free-text submissions.
func (h *Handler) EvaluateAnswer(w http.ResponseWriter, r *http.Request) {
	answerID, err := urlID(r, "id")
	if err != nil {
		h.Fail(w, err)
		return
	}

	var req evaluateAnswerRequest
	if err := decodeBody(r, &req); err != nil {
		h.Fail(w, err)
		return
	}

	if err := h.answers.EvaluateAnswer(r.Context(), SchemaFromRequest(r), answerID, req.IsCorrect); err != nil {
		h.Fail(w, err)
		return
	}
	h.CreateResponse(w, Response{Message: "answer evaluated", Code: http.StatusOK})
}
