package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leonardcser/blog-web/internal/store"
	"github.com/leonardcser/blog-web/internal/store/storetest"
)

func slugs(as []*store.Article) []string {
	out := make([]string, 0, len(as))
	for _, a := range as {
		out = append(out, a.Slug)
	}
	return out
}

func mustArticle(t *testing.T, s *store.Store, a *store.Article) int64 {
	t.Helper()
	id, err := s.CreateArticle(context.Background(), a)
	require.NoError(t, err)
	return id
}

func TestPublishedArticlesOrderingAndPaging(t *testing.T) {
	ctx := context.Background()
	s := storetest.New(t)
	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	mustArticle(t, s, &store.Article{Title: "old", Slug: "old", PubTime: base})
	mustArticle(t, s, &store.Article{Title: "new", Slug: "new", PubTime: base.Add(2 * time.Hour)})
	mustArticle(t, s, &store.Article{Title: "mid", Slug: "mid", PubTime: base.Add(time.Hour)})
	mustArticle(t, s, &store.Article{Title: "draft", Slug: "draft", Status: store.StatusHidden, PubTime: base.Add(3 * time.Hour)})

	got, err := s.PublishedArticles(ctx, 0, 10)
	require.NoError(t, err)
	if diff := cmp.Diff([]string{"new", "mid", "old"}, slugs(got)); diff != "" {
		t.Fatalf("published order (-want +got):\n%s", diff)
	}

	got, err = s.PublishedArticles(ctx, 1, 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"mid"}, slugs(got))

	n, err := s.CountPublished(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
}

func TestSortedArticlesByViews(t *testing.T) {
	ctx := context.Background()
	s := storetest.New(t)
	cat, err := s.CreateCategory(ctx, "web")
	require.NoError(t, err)

	mustArticle(t, s, &store.Article{Title: "a", Slug: "a", ViewTimes: 5, CategoryID: cat})
	mustArticle(t, s, &store.Article{Title: "b", Slug: "b", ViewTimes: 50, CategoryID: cat})
	mustArticle(t, s, &store.Article{Title: "c", Slug: "c", ViewTimes: 500})

	all, err := s.SortedArticles(ctx, nil, store.OrderViewTimes, 0, 10)
	require.NoError(t, err)
	assert.Equal(t, []string{"c", "b", "a"}, slugs(all))

	inCat, err := s.SortedArticles(ctx, &cat, store.OrderViewTimes, 0, 10)
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "a"}, slugs(inCat))
}

func TestArticleBySlugAndIncrement(t *testing.T) {
	ctx := context.Background()
	s := storetest.New(t)
	mustArticle(t, s, &store.Article{Title: "Hidden", Slug: "hidden", Status: store.StatusHidden})
	mustArticle(t, s, &store.Article{Title: "Gone", Slug: "gone", Status: store.StatusDeleted})

	a, err := s.ArticleBySlug(ctx, "hidden")
	require.NoError(t, err)
	assert.Equal(t, "Hidden", a.Title)

	_, err = s.ArticleBySlug(ctx, "gone")
	assert.ErrorIs(t, err, store.ErrNotFound)
	_, err = s.ArticleBySlug(ctx, "nope")
	assert.ErrorIs(t, err, store.ErrNotFound)

	require.NoError(t, s.IncrementViewTimes(ctx, a.ID))
	require.NoError(t, s.IncrementViewTimes(ctx, a.ID))
	a, err = s.ArticleBySlug(ctx, "hidden")
	require.NoError(t, err)
	assert.EqualValues(t, 2, a.ViewTimes)

	assert.ErrorIs(t, s.IncrementViewTimes(ctx, 9999), store.ErrNotFound)
}

func TestSearchAndTags(t *testing.T) {
	ctx := context.Background()
	s := storetest.New(t)
	mustArticle(t, s, &store.Article{Title: "Intro to XSS", Slug: "xss", Tags: "web,security"})
	mustArticle(t, s, &store.Article{Title: "Fuzzing", Slug: "fuzz", Summary: "finding bugs in Parsers", Tags: "fuzzing"})
	mustArticle(t, s, &store.Article{Title: "100% coverage", Slug: "coverage", Tags: "testing"})
	mustArticle(t, s, &store.Article{Title: "Hidden xss", Slug: "hidden-xss", Status: store.StatusHidden})
	mustArticle(t, s, &store.Article{Title: "Über Sicherheit", Slug: "uber", Tags: "Übung"})

	got, err := s.SearchArticles(ctx, "xss", 0, 10)
	require.NoError(t, err)
	assert.Equal(t, []string{"xss"}, slugs(got))

	got, err = s.SearchArticles(ctx, "parsers", 0, 10)
	require.NoError(t, err)
	assert.Equal(t, []string{"fuzz"}, slugs(got))

	got, err = s.SearchArticles(ctx, "%", 0, 10)
	require.NoError(t, err)
	assert.Equal(t, []string{"coverage"}, slugs(got))

	n, err := s.CountSearch(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, 4, n)

	got, err = s.SearchArticles(ctx, "über", 0, 10)
	require.NoError(t, err)
	assert.Equal(t, []string{"uber"}, slugs(got))
	n, err = s.CountSearch(ctx, "SICHERHEIT")
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	got, err = s.TaggedArticles(ctx, "SECURITY", 0, 10)
	require.NoError(t, err)
	assert.Equal(t, []string{"xss"}, slugs(got))
	n, err = s.CountTagged(ctx, "security")
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	got, err = s.TaggedArticles(ctx, "übung", 0, 10)
	require.NoError(t, err)
	assert.Equal(t, []string{"uber"}, slugs(got))
	n, err = s.CountTagged(ctx, "ÜBUNG")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestCategoryAndColumnArticles(t *testing.T) {
	ctx := context.Background()
	s := storetest.New(t)
	cat, err := s.CreateCategory(ctx, "notes")
	require.NoError(t, err)
	a := mustArticle(t, s, &store.Article{Title: "A", Slug: "a", CategoryID: cat})
	b := mustArticle(t, s, &store.Article{Title: "B", Slug: "b", CategoryID: cat, Status: store.StatusHidden})
	mustArticle(t, s, &store.Article{Title: "C", Slug: "c"})

	c, err := s.CategoryByName(ctx, "notes")
	require.NoError(t, err)
	n, err := s.CountCategoryArticles(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, n, "category pages list every status")

	_, err = s.CategoryByName(ctx, "missing")
	assert.ErrorIs(t, err, store.ErrNotFound)

	_, err = s.CreateColumn(ctx, "series", "a series", a, b)
	require.NoError(t, err)
	col, err := s.ColumnByName(ctx, "series")
	require.NoError(t, err)
	got, err := s.ColumnArticles(ctx, col.ID, 0, 10)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"a", "b"}, slugs(got))
	n, err = s.CountColumnArticles(ctx, col.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	_, err = s.ColumnByName(ctx, "nothing")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestSidebarQueries(t *testing.T) {
	ctx := context.Background()
	s := storetest.New(t)
	now := time.Now()

	_, err := s.CreateNav(ctx, "Home", "/", 0)
	require.NoError(t, err)
	_, err = s.CreateNav(ctx, "Off", "/off", 1)
	require.NoError(t, err)
	navs, err := s.Navs(ctx)
	require.NoError(t, err)
	require.Len(t, navs, 1)
	assert.Equal(t, "Home", navs[0].Name)

	_, err = s.CreateLink(ctx, "second", "https://b.example", now)
	require.NoError(t, err)
	_, err = s.CreateLink(ctx, "first", "https://a.example", now.Add(-time.Hour))
	require.NoError(t, err)
	links, err := s.Links(ctx)
	require.NoError(t, err)
	require.Len(t, links, 2)
	assert.Equal(t, "first", links[0].Name)

	id := mustArticle(t, s, &store.Article{Title: "A", Slug: "a"})
	for i := 0; i < 12; i++ {
		_, err := s.CreateComment(ctx, id, "u", "c", now.Add(time.Duration(i)*time.Minute))
		require.NoError(t, err)
	}
	latest, err := s.LatestComments(ctx, 10)
	require.NoError(t, err)
	require.Len(t, latest, 10)
	assert.True(t, latest[0].CreateTime.After(latest[9].CreateTime))

	all, err := s.Comments(ctx, id)
	require.NoError(t, err)
	assert.Len(t, all, 12)
}

func TestNewsOn(t *testing.T) {
	ctx := context.Background()
	s := storetest.New(t)
	day := time.Date(2024, 5, 10, 0, 0, 0, 0, time.Local)

	_, err := s.CreateNews(ctx, "morning", "", day.Add(8*time.Hour))
	require.NoError(t, err)
	_, err = s.CreateNews(ctx, "late", "", day.Add(23*time.Hour+59*time.Minute))
	require.NoError(t, err)
	_, err = s.CreateNews(ctx, "next day", "", day.Add(24*time.Hour))
	require.NoError(t, err)

	got, err := s.NewsOn(ctx, day.Add(15*time.Hour))
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "late", got[0].Title)

	got, err = s.NewsOn(ctx, day.AddDate(0, 0, -1))
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestSessionsAndNotifications(t *testing.T) {
	ctx := context.Background()
	s := storetest.New(t)
	uid, err := s.CreateUser(ctx, "alice", "alice@example.com")
	require.NoError(t, err)
	require.NoError(t, s.CreateSession(ctx, "tok", uid, time.Hour))
	require.NoError(t, s.CreateSession(ctx, "stale", uid, -time.Hour))

	u, err := s.UserBySession(ctx, "tok")
	require.NoError(t, err)
	assert.Equal(t, "alice", u.Username)
	_, err = s.UserBySession(ctx, "stale")
	assert.ErrorIs(t, err, store.ErrNotFound)

	now := time.Now()
	_, err = s.CreateNotification(ctx, &store.Notification{ToUserID: uid, Title: "old", CreateTime: now.Add(-time.Hour), IsRead: true})
	require.NoError(t, err)
	_, err = s.CreateNotification(ctx, &store.Notification{ToUserID: uid, Title: "new", CreateTime: now})
	require.NoError(t, err)

	n, err := s.UnreadNotificationCount(ctx, uid)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	list, err := s.Notifications(ctx, uid)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "new", list[0].Title)
	assert.True(t, list[1].IsRead)
}

func TestBootstrapIsIdempotentAndSeeds(t *testing.T) {
	ctx := context.Background()
	s := storetest.New(t)
	require.NoError(t, s.Bootstrap(ctx))
	require.NoError(t, s.SeedSample(ctx))

	n, err := s.CountPublished(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
}

func TestTagList(t *testing.T) {
	a := store.Article{Tags: " go, web ,,security "}
	assert.Equal(t, []string{"go", "web", "security"}, a.TagList())
}
