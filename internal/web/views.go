package web

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/leonardcser/blog-web/internal/logger"
	"github.com/leonardcser/blog-web/internal/render"
	"github.com/leonardcser/blog-web/internal/store"
	"github.com/leonardcser/blog-web/internal/viewcount"
)

// maxNewsDays bounds the number of days one news request may scan.
const maxNewsDays = 366

func (s *Server) page(w http.ResponseWriter, name string, c Context) error {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	return s.tmpl.Page(w, name, c)
}

// listPage paginates a list view and renders it with the articles under
// "ArticleList" and the page under "Pagination".
func (s *Server) listPage(w http.ResponseWriter, r *http.Request, name string, c Context,
	count func() (int, error), list func(offset, limit int) ([]*store.Article, error)) error {
	n, err := count()
	if err != nil {
		return err
	}
	p, err := paginate(r.URL, n, s.pageNum)
	if err != nil {
		return err
	}
	articles, err := list(p.Offset(), p.PerPage)
	if err != nil {
		return err
	}
	c["ArticleList"] = articles
	c["Pagination"] = p
	return s.page(w, name, c)
}

func (s *Server) index(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()
	carousels, err := s.blog.Carousels(ctx)
	if err != nil {
		return err
	}
	c := s.baseContext(r)
	c["CarouselPageList"] = carousels
	return s.listPage(w, r, "index", c,
		func() (int, error) { return s.blog.CountPublished(ctx) },
		func(offset, limit int) ([]*store.Article, error) { return s.blog.PublishedArticles(ctx, offset, limit) })
}

func (s *Server) article(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()
	slug := r.PathValue("slug")
	if md, ok := strings.CutSuffix(slug, ".md"); ok {
		// A slug that itself ends in .md still gets its HTML page.
		_, err := s.blog.ArticleBySlug(ctx, slug)
		switch {
		case errors.Is(err, store.ErrNotFound):
			return s.articleMarkdown(w, r, md)
		case err != nil:
			return err
		}
	}

	if _, err := s.views.Record(ctx, slug, viewcount.ClientIP(r)); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			logger.Errorf("[ArticleView]Access a nonexistent article:[%s]", slug)
			return err
		}
		logger.Warnf("[ArticleView]Could not count view of [%s]: %v", slug, err)
	}

	a, err := s.blog.ArticleBySlug(ctx, slug)
	if err != nil {
		return err
	}
	comments, err := s.blog.Comments(ctx, a.ID)
	if err != nil {
		return err
	}
	c := s.baseContext(r)
	c["Article"] = a
	c["CommentList"] = comments
	return s.page(w, "article", c)
}

func (s *Server) articleMarkdown(w http.ResponseWriter, r *http.Request, slug string) error {
	a, err := s.blog.ArticleBySlug(r.Context(), slug)
	if err != nil {
		return err
	}
	w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
	_, err = w.Write([]byte(render.Markdown(a)))
	return err
}

func (s *Server) all(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()
	categories, err := s.blog.Categories(ctx)
	if err != nil {
		return err
	}
	articles, err := s.blog.SortedArticles(ctx, nil, store.OrderPubTime, 0, s.pageNum)
	if err != nil {
		return err
	}
	c := s.baseContext(r)
	c["CategoryList"] = categories
	c["PageNum"] = s.pageNum
	c["ArticleList"] = articles
	return s.page(w, "all", c)
}

type allMoreResponse struct {
	HTML  string `json:"html"`
	IsEnd bool   `json:"isend"`
}

// allMore serves the AJAX loader of /all: the [start, end) slice of a
// category (or of everything for val=all) as pre-rendered list items.
func (s *Server) allMore(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()
	if err := r.ParseForm(); err != nil {
		return errBadRequest
	}
	val := r.PostForm.Get("val")
	start, err := formInt(r, "start", 0)
	if err != nil {
		return err
	}
	end, err := formInt(r, "end", s.pageNum)
	if err != nil {
		return err
	}
	if start < 0 || end < start {
		return errBadRequest
	}
	order := store.OrderPubTime
	if r.PostForm.Get("sort") == "recommend" {
		order = store.OrderViewTimes
	}

	var categoryID *int64
	if val != "all" {
		cat, err := s.blog.CategoryByName(ctx, val)
		if errors.Is(err, store.ErrNotFound) {
			logger.Errorf("[AllView]This category does not exist:[%s]", val)
			return errForbidden
		}
		if err != nil {
			return err
		}
		categoryID = &cat.ID
	}

	// One extra row tells whether anything follows this batch.
	articles, err := s.blog.SortedArticles(ctx, categoryID, order, start, end-start+1)
	if err != nil {
		return err
	}
	resp := allMoreResponse{IsEnd: len(articles) != end-start+1}
	if len(articles) > end-start {
		articles = articles[:end-start]
	}
	var sb strings.Builder
	for _, a := range articles {
		html, err := s.tmpl.Partial("all_post", map[string]any{"Post": a})
		if err != nil {
			return err
		}
		sb.WriteString(html)
	}
	resp.HTML = sb.String()

	w.Header().Set("Content-Type", "application/json")
	return json.NewEncoder(w).Encode(resp)
}

func (s *Server) search(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()
	q := r.URL.Query().Get("s")
	c := s.baseContext(r)
	c["S"] = q
	return s.listPage(w, r, "search", c,
		func() (int, error) { return s.blog.CountSearch(ctx, q) },
		func(offset, limit int) ([]*store.Article, error) { return s.blog.SearchArticles(ctx, q, offset, limit) })
}

func (s *Server) tag(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()
	tag := r.PathValue("tag")
	c := s.baseContext(r)
	c["Tag"] = tag
	return s.listPage(w, r, "tag", c,
		func() (int, error) { return s.blog.CountTagged(ctx, tag) },
		func(offset, limit int) ([]*store.Article, error) { return s.blog.TaggedArticles(ctx, tag, offset, limit) })
}

func (s *Server) category(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()
	name := r.PathValue("category")
	cat, err := s.blog.CategoryByName(ctx, name)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			logger.Errorf("[CategoryView]This category does not exist:[%s]", name)
		}
		return err
	}
	c := s.baseContext(r)
	c["Category"] = cat.Name
	return s.listPage(w, r, "category", c,
		func() (int, error) { return s.blog.CountCategoryArticles(ctx, cat.ID) },
		func(offset, limit int) ([]*store.Article, error) {
			return s.blog.CategoryArticles(ctx, cat.ID, offset, limit)
		})
}

func (s *Server) column(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()
	name := r.PathValue("column")
	col, err := s.blog.ColumnByName(ctx, name)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			logger.Errorf("[ColumnView]Access column does not exist: [%s]", name)
		}
		return err
	}
	c := s.baseContext(r)
	c["Column"] = col
	return s.listPage(w, r, "column", c,
		func() (int, error) { return s.blog.CountColumnArticles(ctx, col.ID) },
		func(offset, limit int) ([]*store.Article, error) {
			return s.blog.ColumnArticles(ctx, col.ID, offset, limit)
		})
}

// userPages maps /user/{slug} to its template; other slugs get "user".
var userPages = map[string]string{
	"changetx":       "user_changetx",
	"changepassword": "user_changepassword",
	"changeinfo":     "user_changeinfo",
	"message":        "user_message",
	"notification":   "user_notification",
}

func (s *Server) user(w http.ResponseWriter, r *http.Request) error {
	c := s.baseContext(r)
	user, _ := c["User"].(*store.User)
	if user == nil {
		logger.Errorf("[UserView]The user does not log in")
		return s.page(w, "login", c)
	}
	slug := r.PathValue("slug")
	name, ok := userPages[slug]
	if !ok {
		name = "user"
	}
	if slug == "notification" {
		ns, err := s.blog.Notifications(r.Context(), user.ID)
		if err != nil {
			return err
		}
		c["Notifications"] = ns
	}
	return s.page(w, name, c)
}

// news lists, for each day from start to end days ago, the news published
// that day. Days without news are skipped.
func (s *Server) news(w http.ResponseWriter, r *http.Request) error {
	startDay, err := queryInt(r, "start", 0)
	if err != nil {
		return err
	}
	endDay, err := queryInt(r, "end", 6)
	if err != nil {
		return err
	}
	if startDay < 0 || endDay-startDay > maxNewsDays {
		return errBadRequest
	}

	today := s.now()
	var timeblocks [][]*store.News
	for x := startDay; x <= endDay; x++ {
		list, err := s.blog.NewsOn(r.Context(), today.AddDate(0, 0, -x))
		if err != nil {
			return err
		}
		if len(list) > 0 {
			timeblocks = append(timeblocks, list)
		}
	}

	c := s.baseContext(r)
	c["Timeblocks"] = timeblocks
	c["Active"] = startDay / 7
	return s.page(w, "news", c)
}

func formInt(r *http.Request, key string, def int) (int, error) {
	return parseInt(r.PostForm.Get(key), def)
}

func queryInt(r *http.Request, key string, def int) (int, error) {
	return parseInt(r.URL.Query().Get(key), def)
}

func parseInt(raw string, def int) (int, error) {
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, errBadRequest
	}
	return n, nil
}
