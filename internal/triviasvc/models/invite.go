package models

import "time"

type InviteStatus string

const (
	InviteSent    InviteStatus = "SENT"
	InviteUsed    InviteStatus = "USED"
	InviteExpired InviteStatus = "EXPIRED"
	InviteRevoked InviteStatus = "REVOKED"
)

// Invite is an outstanding or consumed invitation to a session, by
// email or mobile (exactly one of the two is set).
type Invite struct {
	ID          int64        `json:"id"`         // Primary key
	SessionID   int64        `json:"session_id"` // FK to game_sessions(id)
	Token       string       `json:"token"`      // public uuid for invite links
	Email       string       `json:"email,omitempty"`
	Mobile      string       `json:"mobile,omitempty"`
	InvitedName string       `json:"invited_name,omitempty"`
	Status      InviteStatus `json:"status"`
	ExpiresAt   *time.Time   `json:"expires_at,omitempty"`
	CreatedAt   time.Time    `json:"created_at"`
}
