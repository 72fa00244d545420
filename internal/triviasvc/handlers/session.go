package handlers

import (
	"net/http"
)

type createSessionRequest struct {
	GameID int64 `json:"game_id"`
}

type startSessionRequest struct {
	CategoryIDs []int64 `json:"category_ids,omitempty"`
}

func (h *Handler) CreateSession(w http.ResponseWriter, r *http.Request) {
	userID, err := currentUserID(r)
	if err != nil {
		h.Fail(w, err)
		return
	}

	var req createSessionRequest
	if err := decodeBody(r, &req); err != nil {
		h.Fail(w, err)
		return
	}

	sess, err := h.sessions.CreateSession(r.Context(), SchemaFromRequest(r), req.GameID, userID)
	if err != nil {
		h.Fail(w, err)
		return
	}
	h.OK(w, http.StatusCreated, sess)
}

func (h *Handler) GetSession(w http.ResponseWriter, r *http.Request) {
	sessionID, err := urlID(r, "id")
	if err != nil {
		h.Fail(w, err)
		return
	}

	sess, err := h.sessions.GetSession(r.Context(), SchemaFromRequest(r), sessionID)
	if err != nil {
		h.Fail(w, err)
		return
	}
	h.OK(w, http.StatusOK, sess)
}

func (h *Handler) StartSession(w http.ResponseWriter, r *http.Request) {
	userID, err := currentUserID(r)
	if err != nil {
		h.Fail(w, err)
		return
	}
	sessionID, err := urlID(r, "id")
	if err != nil {
		h.Fail(w, err)
		return
	}

	var req startSessionRequest
	if r.ContentLength > 0 {
		if err := decodeBody(r, &req); err != nil {
			h.Fail(w, err)
			return
		}
	}

	payload, err := h.sessions.StartSession(r.Context(), SchemaFromRequest(r), sessionID, userID, req.CategoryIDs)
	if err != nil {
		h.Fail(w, err)
		return
	}
	h.OK(w, http.StatusOK, payload)
}

func (h *Handler) StartNextRound(w http.ResponseWriter, r *http.Request) {
	userID, err := currentUserID(r)
	if err != nil {
		h.Fail(w, err)
		return
	}
	sessionID, err := urlID(r, "id")
	if err != nil {
		h.Fail(w, err)
		return
	}

	payload, err := h.sessions.StartNextRound(r.Context(), SchemaFromRequest(r), sessionID, userID)
	if err != nil {
		h.Fail(w, err)
		return
	}

	if payload.Completed {
		h.CreateResponse(w, Response{Message: "game completed", Code: http.StatusOK, Data: payload})
		return
	}
	h.OK(w, http.StatusOK, payload)
}

func (h *Handler) EndSession(w http.ResponseWriter, r *http.Request) {
	sessionID, err := urlID(r, "id")
	if err != nil {
		h.Fail(w, err)
		return
	}

	if err := h.sessions.EndSession(r.Context(), SchemaFromRequest(r), sessionID); err != nil {
		h.Fail(w, err)
		return
	}
	h.CreateResponse(w, Response{Message: "game session ended", Code: http.StatusOK})
}

func (h *Handler) GetSessionQuestions(w http.ResponseWriter, r *http.Request) {
	sessionID, err := urlID(r, "id")
	if err != nil {
		h.Fail(w, err)
		return
	}

	questions, err := h.rounds.GetSessionQuestions(r.Context(), SchemaFromRequest(r), sessionID)
	if err != nil {
		h.Fail(w, err)
		return
	}
	h.OK(w, http.StatusOK, questions)
}
