package store

import (
	"context"
	"fmt"
	"time"
)

// SeedSample fills an empty database with a handful of rows so a fresh
// checkout renders every page.
func (s *Store) SeedSample(ctx context.Context) error {
	now := time.Now()
	cat, err := s.CreateCategory(ctx, "security")
	if err != nil {
		return err
	}
	var ids []int64
	for i := 1; i <= 3; i++ {
		a := &Article{
			Title:      fmt.Sprintf("Sample article %d", i),
			Slug:       fmt.Sprintf("sample-article-%d", i),
			Summary:    "A short summary.",
			Content:    fmt.Sprintf("<h2>Part %d</h2><p>Hello from the <strong>sample</strong> data.</p>", i),
			Tags:       "sample,go",
			PubTime:    now.Add(-time.Duration(i) * time.Hour),
			CategoryID: cat,
		}
		id, err := s.CreateArticle(ctx, a)
		if err != nil {
			return err
		}
		ids = append(ids, id)
	}
	if _, err := s.CreateColumn(ctx, "getting-started", "Start here", ids...); err != nil {
		return err
	}
	if _, err := s.CreateCarousel(ctx, "Welcome", "/static/img/welcome.png", ids[0]); err != nil {
		return err
	}
	if _, err := s.CreateNav(ctx, "Home", "/", 0); err != nil {
		return err
	}
	if _, err := s.CreateLink(ctx, "Go", "https://go.dev", now); err != nil {
		return err
	}
	if _, err := s.CreateNews(ctx, "Blog launched", "/", now); err != nil {
		return err
	}
	_, err = s.CreateComment(ctx, ids[0], "admin", "First!", now)
	return err
}
