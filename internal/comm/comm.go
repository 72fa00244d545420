package comm

import (
	"encoding/json"
	"time"
)

// Message is the envelope for every NATS payload exchanged between services.
type Message struct {
	Type string          `json:"type"` // e.g. "invite-created", "session-completed"
	Data json.RawMessage `json:"data"`
}

// InviteNotice tells the dispatch worker to deliver one invite.
type InviteNotice struct {
	Token       string     `json:"token"`
	Schema      string     `json:"schema"`
	SessionId   int64      `json:"session_id"`
	JoinCode    string     `json:"join_code"`
	Email       string     `json:"email,omitempty"`
	Mobile      string     `json:"mobile,omitempty"`
	InvitedName string     `json:"invited_name,omitempty"`
	ExpiresAt   *time.Time `json:"expires_at,omitempty"`
}

// SessionEvent announces a session lifecycle change for audit consumers.
type SessionEvent struct {
	Schema    string    `json:"schema"`
	SessionId int64     `json:"session_id"`
	Status    string    `json:"status"`
	Round     int       `json:"round"`
	Timestamp time.Time `json:"timestamp"`
}

const (
	TopicInvite  = "invite.dispatch"
	TopicSession = "session.events"
)
