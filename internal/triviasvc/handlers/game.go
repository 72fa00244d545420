package handlers

import (
	"net/http"

	"github.com/go-chi/chi"

	"github.com/quizline/trivia-services/internal/triviasvc/models"
)

func (h *Handler) GetGames(w http.ResponseWriter, r *http.Request) {
	games, err := h.games.GetAllActiveGames(r.Context(), SchemaFromRequest(r))
	if err != nil {
		h.Fail(w, err)
		return
	}
	h.OK(w, http.StatusOK, games)
}

func (h *Handler) GetGame(w http.ResponseWriter, r *http.Request) {
	gameID, err := urlID(r, "id")
	if err != nil {
		h.Fail(w, err)
		return
	}

	game, err := h.games.GetGameByID(r.Context(), SchemaFromRequest(r), gameID)
	if err != nil {
		h.Fail(w, err)
		return
	}
	h.OK(w, http.StatusOK, game)
}

func (h *Handler) GetGameByCode(w http.ResponseWriter, r *http.Request) {
	game, err := h.games.GetGameByCode(r.Context(), SchemaFromRequest(r), chi.URLParam(r, "code"))
	if err != nil {
		h.Fail(w, err)
		return
	}
	h.OK(w, http.StatusOK, game)
}

func (h *Handler) CreateGame(w http.ResponseWriter, r *http.Request) {
	var game models.Game
	if err := decodeBody(r, &game); err != nil {
		h.Fail(w, err)
		return
	}

	created, err := h.games.CreateGame(r.Context(), SchemaFromRequest(r), &game)
	if err != nil {
		h.Fail(w, err)
		return
	}
	h.OK(w, http.StatusCreated, created)
}

func (h *Handler) DeactivateGame(w http.ResponseWriter, r *http.Request) {
	gameID, err := urlID(r, "id")
	if err != nil {
		h.Fail(w, err)
		return
	}

	if err := h.games.DeactivateGame(r.Context(), SchemaFromRequest(r), gameID); err != nil {
		h.Fail(w, err)
		return
	}
	h.CreateResponse(w, Response{Message: "game deactivated", Code: http.StatusOK})
}
