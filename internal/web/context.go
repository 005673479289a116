package web

import (
	"net/http"

	"github.com/leonardcser/blog-web/internal/logger"
	"github.com/leonardcser/blog-web/internal/store"
)

const (
	hotArticleLimit    = 10
	latestCommentLimit = 10
)

// linkColors are handed out to the friendly links in turn.
var linkColors = []string{"primary", "success", "info", "warning", "danger"}

// Context is the template data for one page.
type Context map[string]any

// baseContext builds the data every page shares: site identity, popular
// articles, navigation, latest comments, links and the visitor's unread
// notification count. A failing query is logged and the page is rendered
// with whatever was loaded before it.
func (s *Server) baseContext(r *http.Request) Context {
	c := Context{
		"WebsiteTitle":      s.title,
		"WebsiteWelcome":    s.welcome,
		"HotArticleList":    []*store.Article(nil),
		"NavList":           []*store.Nav(nil),
		"LatestCommentList": []*store.Comment(nil),
		"Links":             []*store.Link(nil),
		"User":              (*store.User)(nil),
		"NotificationCount": 0,
		"S":                 "",
	}
	user, authenticated := s.auth.User(r)
	if authenticated {
		c["User"] = user
	}
	if err := s.fillSidebar(r, c, user); err != nil {
		logger.Errorf("[BaseMixin]Error loading basic information: %v", err)
	}
	return c
}

func (s *Server) fillSidebar(r *http.Request, c Context, user *store.User) error {
	ctx := r.Context()

	hot, err := s.blog.HotArticles(ctx, hotArticleLimit)
	if err != nil {
		return err
	}
	c["HotArticleList"] = hot

	navs, err := s.blog.Navs(ctx)
	if err != nil {
		return err
	}
	c["NavList"] = navs

	comments, err := s.blog.LatestComments(ctx, latestCommentLimit)
	if err != nil {
		return err
	}
	c["LatestCommentList"] = comments

	links, err := s.blog.Links(ctx)
	if err != nil {
		return err
	}
	colorLinks(links)
	c["Links"] = links

	if user != nil {
		n, err := s.blog.UnreadNotificationCount(ctx, user.ID)
		if err != nil {
			return err
		}
		c["NotificationCount"] = n
	}
	return nil
}

func colorLinks(links []*store.Link) {
	for i, l := range links {
		l.Color = linkColors[i%len(linkColors)]
	}
}
