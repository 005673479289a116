package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

const articleColumns = `a.id, a.title, a.en_title, a.summary, a.content, a.tags, a.status, a.view_times, a.pub_time, COALESCE(a.category_id, 0)`

func scanArticles(rows *sql.Rows) ([]*Article, error) {
	defer rows.Close()
	var out []*Article
	for rows.Next() {
		a, err := scanArticle(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanArticle(r rowScanner) (*Article, error) {
	var (
		a   Article
		pub int64
	)
	if err := r.Scan(&a.ID, &a.Title, &a.Slug, &a.Summary, &a.Content, &a.Tags, &a.Status, &a.ViewTimes, &pub, &a.CategoryID); err != nil {
		return nil, err
	}
	a.PubTime = fromUnix(pub)
	return &a, nil
}

func (s *Store) queryArticles(ctx context.Context, query string, args ...any) ([]*Article, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return scanArticles(rows)
}

func (s *Store) count(ctx context.Context, query string, args ...any) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

// HotArticles returns the most viewed articles regardless of status.
func (s *Store) HotArticles(ctx context.Context, limit int) ([]*Article, error) {
	out, err := s.queryArticles(ctx,
		`SELECT `+articleColumns+` FROM article a ORDER BY a.view_times DESC, a.id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("hot articles: %w", err)
	}
	return out, nil
}

// PublishedArticles pages through published articles, newest first.
func (s *Store) PublishedArticles(ctx context.Context, offset, limit int) ([]*Article, error) {
	return s.SortedArticles(ctx, nil, OrderPubTime, offset, limit)
}

func (s *Store) CountPublished(ctx context.Context) (int, error) {
	return s.count(ctx, `SELECT COUNT(*) FROM article WHERE status = ?`, StatusPublished)
}

// SortedArticles lists published articles, optionally within a category,
// ordered by order descending.
func (s *Store) SortedArticles(ctx context.Context, categoryID *int64, order Order, offset, limit int) ([]*Article, error) {
	col := "a.pub_time"
	if order == OrderViewTimes {
		col = "a.view_times"
	}
	q := `SELECT ` + articleColumns + ` FROM article a WHERE a.status = ?`
	args := []any{StatusPublished}
	if categoryID != nil {
		q += ` AND a.category_id = ?`
		args = append(args, *categoryID)
	}
	q += ` ORDER BY ` + col + ` DESC, a.id DESC LIMIT ? OFFSET ?`
	args = append(args, limit, offset)
	out, err := s.queryArticles(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("sorted articles: %w", err)
	}
	return out, nil
}

// ArticleBySlug returns a published or hidden article.
func (s *Store) ArticleBySlug(ctx context.Context, slug string) (*Article, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+articleColumns+` FROM article a WHERE a.en_title = ? AND a.status IN (?, ?)`,
		slug, StatusPublished, StatusHidden)
	a, err := scanArticle(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("article %q: %w", slug, err)
	}
	return a, nil
}

// IncrementViewTimes bumps the persisted view counter by one.
func (s *Store) IncrementViewTimes(ctx context.Context, articleID int64) error {
	res, err := s.db.ExecContext(ctx, `UPDATE article SET view_times = view_times + 1 WHERE id = ?`, articleID)
	if err != nil {
		return fmt.Errorf("increment view times %d: %w", articleID, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

var searchWhere = ` WHERE a.status = ? AND (` + foldedContains("a.title") + ` OR ` + foldedContains("a.summary") + ` OR ` + foldedContains("a.tags") + `)`

var tagWhere = ` WHERE a.status = ? AND ` + foldedContains("a.tags")

// SearchArticles matches q case-insensitively against title, summary and tags.
func (s *Store) SearchArticles(ctx context.Context, q string, offset, limit int) ([]*Article, error) {
	p := needle(q)
	out, err := s.queryArticles(ctx,
		`SELECT `+articleColumns+` FROM article a`+searchWhere+` ORDER BY a.pub_time DESC, a.id DESC LIMIT ? OFFSET ?`,
		StatusPublished, p, p, p, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("search %q: %w", q, err)
	}
	return out, nil
}

func (s *Store) CountSearch(ctx context.Context, q string) (int, error) {
	p := needle(q)
	return s.count(ctx, `SELECT COUNT(*) FROM article a`+searchWhere, StatusPublished, p, p, p)
}

// TaggedArticles lists published articles whose tags contain tag.
func (s *Store) TaggedArticles(ctx context.Context, tag string, offset, limit int) ([]*Article, error) {
	out, err := s.queryArticles(ctx,
		`SELECT `+articleColumns+` FROM article a`+tagWhere+` ORDER BY a.pub_time DESC, a.id DESC LIMIT ? OFFSET ?`,
		StatusPublished, needle(tag), limit, offset)
	if err != nil {
		return nil, fmt.Errorf("tag %q: %w", tag, err)
	}
	return out, nil
}

func (s *Store) CountTagged(ctx context.Context, tag string) (int, error) {
	return s.count(ctx, `SELECT COUNT(*) FROM article a`+tagWhere,
		StatusPublished, needle(tag))
}

// CategoryArticles lists every article of a category, whatever its status.
func (s *Store) CategoryArticles(ctx context.Context, categoryID int64, offset, limit int) ([]*Article, error) {
	out, err := s.queryArticles(ctx,
		`SELECT `+articleColumns+` FROM article a WHERE a.category_id = ? ORDER BY a.pub_time DESC, a.id DESC LIMIT ? OFFSET ?`,
		categoryID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("category %d articles: %w", categoryID, err)
	}
	return out, nil
}

func (s *Store) CountCategoryArticles(ctx context.Context, categoryID int64) (int, error) {
	return s.count(ctx, `SELECT COUNT(*) FROM article WHERE category_id = ?`, categoryID)
}

// ColumnArticles lists every article attached to a column.
func (s *Store) ColumnArticles(ctx context.Context, columnID int64, offset, limit int) ([]*Article, error) {
	out, err := s.queryArticles(ctx,
		`SELECT `+articleColumns+` FROM article a JOIN column_article ca ON ca.article_id = a.id
		 WHERE ca.column_id = ? ORDER BY a.pub_time DESC, a.id DESC LIMIT ? OFFSET ?`,
		columnID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("column %d articles: %w", columnID, err)
	}
	return out, nil
}

func (s *Store) CountColumnArticles(ctx context.Context, columnID int64) (int, error) {
	return s.count(ctx, `SELECT COUNT(*) FROM column_article WHERE column_id = ?`, columnID)
}

// Comments returns an article's comments, oldest first.
func (s *Store) Comments(ctx context.Context, articleID int64) ([]*Comment, error) {
	return s.comments(ctx,
		`SELECT id, article_id, user_name, content, create_time FROM comment WHERE article_id = ? ORDER BY create_time, id`,
		articleID)
}

// LatestComments returns the newest comments site-wide.
func (s *Store) LatestComments(ctx context.Context, limit int) ([]*Comment, error) {
	return s.comments(ctx,
		`SELECT id, article_id, user_name, content, create_time FROM comment ORDER BY create_time DESC, id DESC LIMIT ?`,
		limit)
}

func (s *Store) comments(ctx context.Context, query string, args ...any) ([]*Comment, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("comments: %w", err)
	}
	defer rows.Close()
	var out []*Comment
	for rows.Next() {
		var (
			c  Comment
			ct int64
		)
		if err := rows.Scan(&c.ID, &c.ArticleID, &c.UserName, &c.Content, &ct); err != nil {
			return nil, err
		}
		c.CreateTime = fromUnix(ct)
		out = append(out, &c)
	}
	return out, rows.Err()
}
