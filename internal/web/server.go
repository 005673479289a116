// Package web implements the blog's HTTP views: listings, article detail
// with view counting, browsing by tag/category/column, search, the AJAX
// loader behind /all, the user panel and the news timeline.
package web

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/leonardcser/blog-web/internal/auth"
	"github.com/leonardcser/blog-web/internal/logger"
	"github.com/leonardcser/blog-web/internal/render"
	"github.com/leonardcser/blog-web/internal/store"
)

// Blog is the read side of the data model used by the views.
type Blog interface {
	HotArticles(ctx context.Context, limit int) ([]*store.Article, error)
	Navs(ctx context.Context) ([]*store.Nav, error)
	LatestComments(ctx context.Context, limit int) ([]*store.Comment, error)
	Links(ctx context.Context) ([]*store.Link, error)
	UnreadNotificationCount(ctx context.Context, userID int64) (int, error)
	Notifications(ctx context.Context, userID int64) ([]*store.Notification, error)
	Carousels(ctx context.Context) ([]*store.Carousel, error)

	PublishedArticles(ctx context.Context, offset, limit int) ([]*store.Article, error)
	CountPublished(ctx context.Context) (int, error)
	SortedArticles(ctx context.Context, categoryID *int64, order store.Order, offset, limit int) ([]*store.Article, error)
	ArticleBySlug(ctx context.Context, slug string) (*store.Article, error)
	Comments(ctx context.Context, articleID int64) ([]*store.Comment, error)
	SearchArticles(ctx context.Context, q string, offset, limit int) ([]*store.Article, error)
	CountSearch(ctx context.Context, q string) (int, error)
	TaggedArticles(ctx context.Context, tag string, offset, limit int) ([]*store.Article, error)
	CountTagged(ctx context.Context, tag string) (int, error)

	Categories(ctx context.Context) ([]*store.Category, error)
	CategoryByName(ctx context.Context, name string) (*store.Category, error)
	CategoryArticles(ctx context.Context, categoryID int64, offset, limit int) ([]*store.Article, error)
	CountCategoryArticles(ctx context.Context, categoryID int64) (int, error)
	ColumnByName(ctx context.Context, name string) (*store.Column, error)
	ColumnArticles(ctx context.Context, columnID int64, offset, limit int) ([]*store.Article, error)
	CountColumnArticles(ctx context.Context, columnID int64) (int, error)

	NewsOn(ctx context.Context, day time.Time) ([]*store.News, error)
}

// ViewRecorder counts article views.
type ViewRecorder interface {
	Record(ctx context.Context, slug, ip string) (bool, error)
}

type Option func(*Server)

// WithSite sets the title and welcome line shown on every page.
func WithSite(title, welcome string) Option {
	return func(s *Server) {
		s.title = title
		s.welcome = welcome
	}
}

// WithPageNum sets the list page size.
func WithPageNum(n int) Option {
	return func(s *Server) {
		if n > 0 {
			s.pageNum = n
		}
	}
}

func WithAuthenticator(a auth.Authenticator) Option {
	return func(s *Server) {
		if a != nil {
			s.auth = a
		}
	}
}

// WithClock overrides time.Now for the news timeline.
func WithClock(now func() time.Time) Option {
	return func(s *Server) {
		if now != nil {
			s.now = now
		}
	}
}

type Server struct {
	blog    Blog
	views   ViewRecorder
	tmpl    *render.Renderer
	auth    auth.Authenticator
	title   string
	welcome string
	pageNum int
	now     func() time.Time
	mux     *http.ServeMux
	root    http.Handler
}

func NewServer(blog Blog, views ViewRecorder, tmpl *render.Renderer, opts ...Option) *Server {
	s := &Server{
		blog:    blog,
		views:   views,
		tmpl:    tmpl,
		auth:    auth.Anonymous{},
		pageNum: 10,
		now:     time.Now,
		mux:     http.NewServeMux(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.routes()
	s.root = logRequests(s.mux)
	return s
}

func (s *Server) routes() {
	s.mux.Handle("GET /{$}", handler(s.index))
	s.mux.Handle("GET /article/{slug}", handler(s.article))
	s.mux.Handle("GET /all", handler(s.all))
	s.mux.Handle("POST /all", handler(s.allMore))
	s.mux.Handle("GET /search", handler(s.search))
	s.mux.Handle("GET /tag/{tag}", handler(s.tag))
	s.mux.Handle("GET /category/{category}", handler(s.category))
	s.mux.Handle("GET /column/{column}", handler(s.column))
	s.mux.Handle("GET /user/{slug}", handler(s.user))
	s.mux.Handle("GET /news", handler(s.news))
}

// Handler returns the routed views wrapped in request logging.
func (s *Server) Handler() http.Handler { return s.root }

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.root.ServeHTTP(w, r)
}

// handler adapts an error-returning view to http.Handler.
type handler func(w http.ResponseWriter, r *http.Request) error

type statusError struct {
	code int
	msg  string
}

func (e *statusError) Error() string { return e.msg }

var (
	errForbidden  = &statusError{code: http.StatusForbidden, msg: "forbidden"}
	errBadRequest = &statusError{code: http.StatusBadRequest, msg: "bad request"}
)

func (h handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	err := h(w, r)
	if err == nil {
		return
	}
	var se *statusError
	switch {
	case errors.As(err, &se):
		http.Error(w, se.msg, se.code)
	case errors.Is(err, store.ErrNotFound), errors.Is(err, errInvalidPage):
		http.NotFound(w, r)
	case errors.Is(err, context.Canceled):
	default:
		logger.Errorf("%s %s: %v", r.Method, r.URL.Path, err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}
