package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/quizline/trivia-services/internal/apperr"
	"github.com/quizline/trivia-services/internal/triviasvc/models"
)

const inviteColumns = "id, session_id, token, email, mobile, invited_name, status, expires_at, created_at"

type InviteStore struct {
	db DB
}

func NewInviteStore(db DB) *InviteStore {
	return &InviteStore{db: db}
}

func scanInviteRow(rows pgx.Rows, invite *models.Invite) error {
	var email, mobile, invitedName *string
	if err := rows.Scan(&invite.ID, &invite.SessionID, &invite.Token, &email, &mobile, &invitedName, &invite.Status, &invite.ExpiresAt, &invite.CreatedAt); err != nil {
		return fmt.Errorf("failed to scan invite: %w", err)
	}
	if email != nil {
		invite.Email = *email
	}
	if mobile != nil {
		invite.Mobile = *mobile
	}
	if invitedName != nil {
		invite.InvitedName = *invitedName
	}
	return nil
}

func (s *InviteStore) Create(ctx context.Context, schema string, invite *models.Invite) (*models.Invite, error) {
	query := fmt.Sprintf(`
		INSERT INTO %s (session_id, token, email, mobile, invited_name, status, expires_at)
		VALUES ($1, $2, NULLIF($3, ''), NULLIF($4, ''), NULLIF($5, ''), $6, $7)
		RETURNING id, created_at
	`, rel(schema, "invites"))

	err := s.db.QueryRow(ctx, query,
		invite.SessionID, invite.Token, invite.Email, invite.Mobile,
		invite.InvitedName, invite.Status, invite.ExpiresAt,
	).Scan(&invite.ID, &invite.CreatedAt)
	if err != nil {
		switch uniqueViolation(err) {
		case "invites_session_id_email_key":
			return nil, apperr.Newf(apperr.Duplicate, "invite for %s already exists", invite.Email)
		case "invites_session_id_mobile_key":
			return nil, apperr.Newf(apperr.Duplicate, "invite for %s already exists", invite.Mobile)
		}
		if fkViolation(err) {
			return nil, apperr.Newf(apperr.Validation, "session %d does not exist", invite.SessionID)
		}
		return nil, fmt.Errorf("failed to create invite: %w", err)
	}
	return invite, nil
}

func (s *InviteStore) FindBySession(ctx context.Context, schema string, sessionID int64) ([]*models.Invite, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM %s
		WHERE session_id = $1
		ORDER BY id ASC
	`, inviteColumns, rel(schema, "invites"))

	rows, err := s.db.Query(ctx, query, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to list invites: %w", err)
	}
	defer rows.Close()

	var invites []*models.Invite
	for rows.Next() {
		invite := &models.Invite{}
		if err := scanInviteRow(rows, invite); err != nil {
			return nil, err
		}
		invites = append(invites, invite)
	}
	return invites, rows.Err()
}

// FindPendingByAddress matches outstanding invites for the auto-join
// flow so the caller can mark them USED.
func (s *InviteStore) FindPendingByAddress(ctx context.Context, schema string, sessionID int64, email, mobile string) ([]int64, error) {
	query := fmt.Sprintf(`
		SELECT id FROM %s
		WHERE session_id = $1 AND status = $2
		  AND (email = NULLIF(lower($3), '') OR mobile = NULLIF($4, ''))
	`, rel(schema, "invites"))

	rows, err := s.db.Query(ctx, query, sessionID, models.InviteSent, email, mobile)
	if err != nil {
		return nil, fmt.Errorf("failed to match invites: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan invite id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (s *InviteStore) MarkUsed(ctx context.Context, schema string, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}
	query := fmt.Sprintf(`UPDATE %s SET status = $2 WHERE id = ANY($1)`, rel(schema, "invites"))
	if _, err := s.db.Exec(ctx, query, ids, models.InviteUsed); err != nil {
		return fmt.Errorf("failed to mark invites used: %w", err)
	}
	return nil
}

// ExpireOverdue flips overdue SENT invites to EXPIRED. SKIP LOCKED lets
// several sweeper instances run without stepping on each other.
func (s *InviteStore) ExpireOverdue(ctx context.Context, tx pgx.Tx, schema string) (int64, error) {
	table := rel(schema, "invites")
	query := fmt.Sprintf(`
		UPDATE %s SET status = $1
		WHERE id IN (
			SELECT id FROM %s
			WHERE status = $2 AND expires_at IS NOT NULL AND expires_at < now()
			FOR UPDATE SKIP LOCKED
		)
	`, table, table)

	var q DB = s.db
	if tx != nil {
		q = tx
	}
	res, err := q.Exec(ctx, query, models.InviteExpired, models.InviteSent)
	if err != nil {
		return 0, fmt.Errorf("failed to expire invites: %w", err)
	}
	return res.RowsAffected(), nil
}
