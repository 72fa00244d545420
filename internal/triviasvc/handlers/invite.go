package handlers

import (
	"net/http"
	"time"
)

type createInvitesRequest struct {
	List        string     `json:"list"` // comma-separated emails and mobiles
	InvitedName string     `json:"invited_name,omitempty"`
	ExpiresAt   *time.Time `json:"expires_at,omitempty"`
}

func (h *Handler) CreateInvites(w http.ResponseWriter, r *http.Request) {
	sessionID, err := urlID(r, "id")
	if err != nil {
		h.Fail(w, err)
		return
	}

	var req createInvitesRequest
	if err := decodeBody(r, &req); err != nil {
		h.Fail(w, err)
		return
	}

	schema := SchemaFromRequest(r)
	sess, err := h.sessions.GetSession(r.Context(), schema, sessionID)
	if err != nil {
		h.Fail(w, err)
		return
	}

	invites, err := h.invites.CreateInvites(r.Context(), schema, sess, req.List, req.InvitedName, req.ExpiresAt)
	if err != nil {
		h.Fail(w, err)
		return
	}
	h.OK(w, http.StatusCreated, invites)
}

func (h *Handler) GetInvites(w http.ResponseWriter, r *http.Request) {
	sessionID, err := urlID(r, "id")
	if err != nil {
		h.Fail(w, err)
		return
	}

	invites, err := h.invites.GetInvitesBySession(r.Context(), SchemaFromRequest(r), sessionID)
	if err != nil {
		h.Fail(w, err)
		return
	}
	h.OK(w, http.StatusOK, invites)
}

type markInvitesUsedRequest struct {
	IDs []int64 `json:"ids"`
}

func (h *Handler) MarkInvitesUsed(w http.ResponseWriter, r *http.Request) {
	var req markInvitesUsedRequest
	if err := decodeBody(r, &req); err != nil {
		h.Fail(w, err)
		return
	}

	if err := h.invites.MarkInvitesUsed(r.Context(), SchemaFromRequest(r), req.IDs); err != nil {
		h.Fail(w, err)
		return
	}
	h.CreateResponse(w, Response{Message: "invites marked used", Code: http.StatusOK})
}
