package store

import (
	"context"
	"fmt"
	"time"
)

// The Create* helpers back `init-db --sample` and test fixtures. Content
// authoring itself happens in the admin application.

func (s *Store) insert(ctx context.Context, what, query string, args ...any) (int64, error) {
	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("insert %s: %w", what, err)
	}
	return res.LastInsertId()
}

func (s *Store) CreateCategory(ctx context.Context, name string) (int64, error) {
	return s.insert(ctx, "category", `INSERT INTO category (name) VALUES (?)`, name)
}

func (s *Store) CreateArticle(ctx context.Context, a *Article) (int64, error) {
	if a.PubTime.IsZero() {
		a.PubTime = time.Now()
	}
	var cat any
	if a.CategoryID != 0 {
		cat = a.CategoryID
	}
	id, err := s.insert(ctx, "article",
		`INSERT INTO article (title, en_title, summary, content, tags, status, view_times, pub_time, category_id)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		a.Title, a.Slug, a.Summary, a.Content, a.Tags, a.Status, a.ViewTimes, unix(a.PubTime), cat)
	if err == nil {
		a.ID = id
	}
	return id, err
}

func (s *Store) CreateColumn(ctx context.Context, name, summary string, articleIDs ...int64) (int64, error) {
	id, err := s.insert(ctx, "column", `INSERT INTO "column" (name, summary) VALUES (?, ?)`, name, summary)
	if err != nil {
		return 0, err
	}
	for _, aid := range articleIDs {
		if _, err := s.insert(ctx, "column_article",
			`INSERT INTO column_article (column_id, article_id) VALUES (?, ?)`, id, aid); err != nil {
			return 0, err
		}
	}
	return id, nil
}

func (s *Store) CreateCarousel(ctx context.Context, title, image string, articleID int64) (int64, error) {
	return s.insert(ctx, "carousel", `INSERT INTO carousel (title, img, article_id) VALUES (?, ?, ?)`, title, image, articleID)
}

func (s *Store) CreateNav(ctx context.Context, name, url string, status int) (int64, error) {
	return s.insert(ctx, "nav", `INSERT INTO nav (name, url, status) VALUES (?, ?, ?)`, name, url, status)
}

func (s *Store) CreateNews(ctx context.Context, title, url string, pub time.Time) (int64, error) {
	return s.insert(ctx, "news", `INSERT INTO news (title, url, pub_time) VALUES (?, ?, ?)`, title, url, unix(pub))
}

func (s *Store) CreateLink(ctx context.Context, name, url string, created time.Time) (int64, error) {
	return s.insert(ctx, "link", `INSERT INTO link (name, url, create_time) VALUES (?, ?, ?)`, name, url, unix(created))
}

func (s *Store) CreateComment(ctx context.Context, articleID int64, user, content string, created time.Time) (int64, error) {
	return s.insert(ctx, "comment",
		`INSERT INTO comment (article_id, user_name, content, create_time) VALUES (?, ?, ?, ?)`,
		articleID, user, content, unix(created))
}

func (s *Store) CreateUser(ctx context.Context, username, email string) (int64, error) {
	return s.insert(ctx, "user", `INSERT INTO user (username, email) VALUES (?, ?)`, username, email)
}

func (s *Store) CreateSession(ctx context.Context, token string, userID int64, ttl time.Duration) error {
	_, err := s.insert(ctx, "session", `INSERT INTO session (token, user_id, expire_time) VALUES (?, ?, ?)`,
		token, userID, unix(time.Now().Add(ttl)))
	return err
}

func (s *Store) CreateNotification(ctx context.Context, n *Notification) (int64, error) {
	if n.CreateTime.IsZero() {
		n.CreateTime = time.Now()
	}
	return s.insert(ctx, "notification",
		`INSERT INTO notification (to_user_id, title, text, url, is_read, create_time) VALUES (?, ?, ?, ?, ?, ?)`,
		n.ToUserID, n.Title, n.Text, n.URL, n.IsRead, unix(n.CreateTime))
}
