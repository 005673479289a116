package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

func (s *Store) Navs(ctx context.Context) ([]*Nav, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, name, url, status FROM nav WHERE status = 0 ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("navs: %w", err)
	}
	defer rows.Close()
	var out []*Nav
	for rows.Next() {
		var n Nav
		if err := rows.Scan(&n.ID, &n.Name, &n.URL, &n.Status); err != nil {
			return nil, err
		}
		out = append(out, &n)
	}
	return out, rows.Err()
}

// Links returns the friendly links, oldest first.
func (s *Store) Links(ctx context.Context) ([]*Link, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, name, url, create_time FROM link ORDER BY create_time, id`)
	if err != nil {
		return nil, fmt.Errorf("links: %w", err)
	}
	defer rows.Close()
	var out []*Link
	for rows.Next() {
		var (
			l  Link
			ct int64
		)
		if err := rows.Scan(&l.ID, &l.Name, &l.URL, &ct); err != nil {
			return nil, err
		}
		l.CreateTime = fromUnix(ct)
		out = append(out, &l)
	}
	return out, rows.Err()
}

func (s *Store) Carousels(ctx context.Context) ([]*Carousel, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, title, img, COALESCE(article_id, 0) FROM carousel ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("carousels: %w", err)
	}
	defer rows.Close()
	var out []*Carousel
	for rows.Next() {
		var c Carousel
		if err := rows.Scan(&c.ID, &c.Title, &c.Image, &c.ArticleID); err != nil {
			return nil, err
		}
		out = append(out, &c)
	}
	return out, rows.Err()
}

func (s *Store) Categories(ctx context.Context) ([]*Category, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, name FROM category ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("categories: %w", err)
	}
	defer rows.Close()
	var out []*Category
	for rows.Next() {
		var c Category
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			return nil, err
		}
		out = append(out, &c)
	}
	return out, rows.Err()
}

func (s *Store) CategoryByName(ctx context.Context, name string) (*Category, error) {
	var c Category
	err := s.db.QueryRowContext(ctx, `SELECT id, name FROM category WHERE name = ?`, name).Scan(&c.ID, &c.Name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("category %q: %w", name, err)
	}
	return &c, nil
}

func (s *Store) ColumnByName(ctx context.Context, name string) (*Column, error) {
	var c Column
	err := s.db.QueryRowContext(ctx, `SELECT id, name, summary FROM "column" WHERE name = ?`, name).
		Scan(&c.ID, &c.Name, &c.Summary)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("column %q: %w", name, err)
	}
	return &c, nil
}

// NewsOn returns the news published on the calendar day of day, in day's location.
func (s *Store) NewsOn(ctx context.Context, day time.Time) ([]*News, error) {
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	end := start.AddDate(0, 0, 1)
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, title, summary, url, pub_time FROM news WHERE pub_time >= ? AND pub_time < ? ORDER BY pub_time DESC, id DESC`,
		unix(start), unix(end))
	if err != nil {
		return nil, fmt.Errorf("news on %s: %w", start.Format(time.DateOnly), err)
	}
	defer rows.Close()
	var out []*News
	for rows.Next() {
		var (
			n  News
			pt int64
		)
		if err := rows.Scan(&n.ID, &n.Title, &n.Summary, &n.URL, &pt); err != nil {
			return nil, err
		}
		n.PubTime = fromUnix(pt)
		out = append(out, &n)
	}
	return out, rows.Err()
}
