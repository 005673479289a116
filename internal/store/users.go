package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// UserBySession resolves a live session token to its user.
func (s *Store) UserBySession(ctx context.Context, token string) (*User, error) {
	var u User
	err := s.db.QueryRowContext(ctx,
		`SELECT u.id, u.username, u.email, u.img FROM session s JOIN user u ON u.id = s.user_id
		 WHERE s.token = ? AND s.expire_time > ?`,
		token, unix(time.Now())).Scan(&u.ID, &u.Username, &u.Email, &u.Avatar)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("session: %w", err)
	}
	return &u, nil
}

func (s *Store) UnreadNotificationCount(ctx context.Context, userID int64) (int, error) {
	return s.count(ctx, `SELECT COUNT(*) FROM notification WHERE to_user_id = ? AND is_read = 0`, userID)
}

// Notifications returns every notification addressed to userID, newest first.
func (s *Store) Notifications(ctx context.Context, userID int64) ([]*Notification, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, to_user_id, title, text, url, is_read, create_time FROM notification
		 WHERE to_user_id = ? ORDER BY create_time DESC, id DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("notifications for %d: %w", userID, err)
	}
	defer rows.Close()
	var out []*Notification
	for rows.Next() {
		var (
			n  Notification
			ct int64
		)
		if err := rows.Scan(&n.ID, &n.ToUserID, &n.Title, &n.Text, &n.URL, &n.IsRead, &ct); err != nil {
			return nil, err
		}
		n.CreateTime = fromUnix(ct)
		out = append(out, &n)
	}
	return out, rows.Err()
}
