package service

import (
	"context"
	"encoding/json"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/quizline/trivia-services/internal/apperr"
	"github.com/quizline/trivia-services/internal/comm"
	"github.com/quizline/trivia-services/internal/triviasvc/models"
)

type inviteStore interface {
	Create(ctx context.Context, schema string, invite *models.Invite) (*models.Invite, error)
	FindBySession(ctx context.Context, schema string, sessionID int64) ([]*models.Invite, error)
	FindPendingByAddress(ctx context.Context, schema string, sessionID int64, email, mobile string) ([]int64, error)
	MarkUsed(ctx context.Context, schema string, ids []int64) error
}

var emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

type InviteService struct {
	invites  inviteStore
	dispatch publisher // optional NATS fan-out to the delivery worker
}

func NewInviteService(invites inviteStore) *InviteService {
	return &InviteService{invites: invites}
}

// WithDispatch enables invite delivery announcements on NATS.
func (s *InviteService) WithDispatch(dispatch publisher) *InviteService {
	s.dispatch = dispatch
	return s
}

// CreateInvites accepts a comma-separated list of addresses; entries
// that look like emails are stored lower-cased, everything else is
// treated as a mobile number.
func (s *InviteService) CreateInvites(ctx context.Context, schema string, sess *models.GameSession, list, invitedName string, expiresAt *time.Time) ([]*models.Invite, error) {
	var values []string
	for _, v := range strings.Split(list, ",") {
		if v = strings.TrimSpace(v); v != "" {
			values = append(values, v)
		}
	}
	if len(values) == 0 {
		return nil, apperr.New(apperr.Validation, "email or mobile is required")
	}

	created := make([]*models.Invite, 0, len(values))
	for _, value := range values {
		invite := &models.Invite{
			SessionID:   sess.ID,
			Token:       uuid.NewString(),
			InvitedName: invitedName,
			Status:      models.InviteSent,
			ExpiresAt:   expiresAt,
		}
		if emailRe.MatchString(value) {
			invite.Email = strings.ToLower(value)
		} else {
			invite.Mobile = value
		}

		invite, err := s.invites.Create(ctx, schema, invite)
		if err != nil {
			return nil, err
		}
		created = append(created, invite)

		s.announce(schema, sess, invite)
	}

	return created, nil
}

func (s *InviteService) GetInvitesBySession(ctx context.Context, schema string, sessionID int64) ([]*models.Invite, error) {
	return s.invites.FindBySession(ctx, schema, sessionID)
}

func (s *InviteService) MarkInvitesUsed(ctx context.Context, schema string, ids []int64) error {
	return s.invites.MarkUsed(ctx, schema, ids)
}

// MatchAndConsume marks any outstanding invites matching the joining
// participant's address as USED and returns the consumed ids.
func (s *InviteService) MatchAndConsume(ctx context.Context, schema string, sessionID int64, email, mobile string) ([]int64, error) {
	ids, err := s.invites.FindPendingByAddress(ctx, schema, sessionID, email, mobile)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return nil, nil
	}
	if err := s.invites.MarkUsed(ctx, schema, ids); err != nil {
		return nil, err
	}
	return ids, nil
}

func (s *InviteService) announce(schema string, sess *models.GameSession, invite *models.Invite) {
	if s.dispatch == nil {
		return
	}

	notice := comm.InviteNotice{
		Token:       invite.Token,
		Schema:      schema,
		SessionId:   sess.ID,
		JoinCode:    sess.JoinCode,
		Email:       invite.Email,
		Mobile:      invite.Mobile,
		InvitedName: invite.InvitedName,
		ExpiresAt:   invite.ExpiresAt,
	}
	data, err := json.Marshal(notice)
	if err != nil {
		log.Errorf("unable to marshal invite notice: %v", err)
		return
	}

	payload, err := json.Marshal(&comm.Message{Type: "invite-created", Data: data})
	if err != nil {
		log.Errorf("unable to marshal invite envelope: %v", err)
		return
	}

	if err := s.dispatch.Publish(comm.TopicInvite, payload); err != nil {
		log.Errorf("error publishing invite %s: %v", invite.Token, err)
	}
}
