package handlers

import (
	"net/http"

	"github.com/go-chi/chi"
	log "github.com/sirupsen/logrus"

	"github.com/quizline/trivia-services/internal/triviasvc/models"
	"github.com/quizline/trivia-services/internal/triviasvc/service"
)

type joinByCodeRequest struct {
	Name   string `json:"name"`
	Email  string `json:"email,omitempty"`
	Mobile string `json:"mobile,omitempty"`
	TeamID *int64 `json:"team_id,omitempty"`
	Guest  bool   `json:"guest,omitempty"` // join without linking the account
}

type joinByCodeResponse struct {
	Session *models.GameSession `json:"session"`
	Player  *models.Player      `json:"player"`
	Team    *models.Team        `json:"team,omitempty"`
}

// LookupByCode is the polling entry point for participants who only
// hold a join code.
func (h *Handler) LookupByCode(w http.ResponseWriter, r *http.Request) {
	sess, err := h.sessions.JoinByCode(r.Context(), SchemaFromRequest(r), chi.URLParam(r, "code"))
	if err != nil {
		h.Fail(w, err)
		return
	}
	h.OK(w, http.StatusOK, sess)
}

// JoinByCode attaches a participant to a session: unless a team was
// chosen explicitly, the least-loaded team is assigned, and any
// pending invites matching the participant's address are consumed.
func (h *Handler) JoinByCode(w http.ResponseWriter, r *http.Request) {
	schema := SchemaFromRequest(r)

	var req joinByCodeRequest
	if err := decodeBody(r, &req); err != nil {
		h.Fail(w, err)
		return
	}

	sess, err := h.sessions.JoinByCode(r.Context(), schema, chi.URLParam(r, "code"))
	if err != nil {
		h.Fail(w, err)
		return
	}

	var team *models.Team
	teamID := req.TeamID
	if teamID == nil {
		team, err = h.teams.FindTeamWithLeastPlayers(r.Context(), schema, sess.ID)
		if err != nil {
			h.Fail(w, err)
			return
		}
		teamID = &team.ID
	}

	var accountID *int64
	if !req.Guest {
		userID, err := currentUserID(r)
		if err != nil {
			h.Fail(w, err)
			return
		}
		accountID = &userID
	}

	player, err := h.players.JoinSession(r.Context(), schema, service.JoinSessionInput{
		SessionID: sess.ID,
		Name:      req.Name,
		TeamID:    teamID,
		UserID:    accountID,
	})
	if err != nil {
		h.Fail(w, err)
		return
	}

	// invite matching is best-effort; the join itself already succeeded
	if _, err := h.invites.MatchAndConsume(r.Context(), schema, sess.ID, req.Email, req.Mobile); err != nil {
		log.Errorf("invite matching failed for session %d: %v", sess.ID, err)
	}

	h.OK(w, http.StatusCreated, joinByCodeResponse{Session: sess, Player: player, Team: team})
}

func (h *Handler) GetPlayers(w http.ResponseWriter, r *http.Request) {
	sessionID, err := urlID(r, "id")
	if err != nil {
		h.Fail(w, err)
		return
	}

	players, err := h.players.GetPlayersBySession(r.Context(), SchemaFromRequest(r), sessionID)
	if err != nil {
		h.Fail(w, err)
		return
	}
	h.OK(w, http.StatusOK, players)
}

type assignTeamRequest struct {
	TeamID int64 `json:"team_id"`
}

func (h *Handler) AssignTeam(w http.ResponseWriter, r *http.Request) {
	playerID, err := urlID(r, "id")
	if err != nil {
		h.Fail(w, err)
		return
	}

	var req assignTeamRequest
	if err := decodeBody(r, &req); err != nil {
		h.Fail(w, err)
		return
	}

	if err := h.players.AssignTeam(r.Context(), SchemaFromRequest(r), playerID, req.TeamID); err != nil {
		h.Fail(w, err)
		return
	}
	h.CreateResponse(w, Response{Message: "player team updated", Code: http.StatusOK})
}

func (h *Handler) RemovePlayer(w http.ResponseWriter, r *http.Request) {
	playerID, err := urlID(r, "id")
	if err != nil {
		h.Fail(w, err)
		return
	}

	if err := h.players.RemovePlayer(r.Context(), SchemaFromRequest(r), playerID); err != nil {
		h.Fail(w, err)
		return
	}
	h.CreateResponse(w, Response{Message: "player removed", Code: http.StatusOK})
}
