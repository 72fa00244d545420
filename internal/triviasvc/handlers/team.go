package handlers

import (
	"net/http"
)

type createTeamRequest struct {
	Name string `json:"name"`
}

func (h *Handler) CreateTeam(w http.ResponseWriter, r *http.Request) {
	sessionID, err := urlID(r, "id")
	if err != nil {
		h.Fail(w, err)
		return
	}

	var req createTeamRequest
	if err := decodeBody(r, &req); err != nil {
		h.Fail(w, err)
		return
	}

	team, err := h.teams.CreateTeam(r.Context(), SchemaFromRequest(r), sessionID, req.Name)
	if err != nil {
		h.Fail(w, err)
		return
	}
	h.OK(w, http.StatusCreated, team)
}

func (h *Handler) GetTeams(w http.ResponseWriter, r *http.Request) {
	sessionID, err := urlID(r, "id")
	if err != nil {
		h.Fail(w, err)
		return
	}

	teams, err := h.teams.GetTeamsBySession(r.Context(), SchemaFromRequest(r), sessionID)
	if err != nil {
		h.Fail(w, err)
		return
	}
	h.OK(w, http.StatusOK, teams)
}

type updateScoreRequest struct {
	Score int `json:"score"`
}

func (h *Handler) UpdateTeamScore(w http.ResponseWriter, r *http.Request) {
	teamID, err := urlID(r, "id")
	if err != nil {
		h.Fail(w, err)
		return
	}

	var req updateScoreRequest
	if err := decodeBody(r, &req); err != nil {
		h.Fail(w, err)
		return
	}

	if err := h.teams.UpdateScore(r.Context(), SchemaFromRequest(r), teamID, req.Score); err != nil {
		h.Fail(w, err)
		return
	}
	h.CreateResponse(w, Response{Message: "team score updated", Code: http.StatusOK})
}

func (h *Handler) DeleteTeam(w http.ResponseWriter, r *http.Request) {
	teamID, err := urlID(r, "id")
	if err != nil {
		h.Fail(w, err)
		return
	}

	if err := h.teams.DeleteTeam(r.Context(), SchemaFromRequest(r), teamID); err != nil {
		h.Fail(w, err)
		return
	}
	h.CreateResponse(w, Response{Message: "team deleted", Code: http.StatusOK})
}
