package store

import (
	"strings"
	"time"
)

// Article status values.
const (
	StatusPublished = 0
	// StatusHidden articles are left out of listings but still open by slug.
	StatusHidden  = 1
	StatusDeleted = 2
)

type Article struct {
	ID         int64
	Title      string
	Slug       string
	Summary    string
	Content    string
	Tags       string
	Status     int
	ViewTimes  int64
	PubTime    time.Time
	CategoryID int64
}

// TagList splits the comma separated tags.
func (a *Article) TagList() []string {
	var out []string
	for _, t := range strings.Split(a.Tags, ",") {
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, t)
		}
	}
	return out
}

type Category struct {
	ID   int64
	Name string
}

type Column struct {
	ID      int64
	Name    string
	Summary string
}

type Carousel struct {
	ID        int64
	Title     string
	Image     string
	ArticleID int64
}

type Nav struct {
	ID     int64
	Name   string
	URL    string
	Status int
}

type News struct {
	ID      int64
	Title   string
	Summary string
	URL     string
	PubTime time.Time
}

type Link struct {
	ID         int64
	Name       string
	URL        string
	CreateTime time.Time
	// Color is assigned by the view layer.
	Color string
}

type Comment struct {
	ID         int64
	ArticleID  int64
	UserName   string
	Content    string
	CreateTime time.Time
}

type User struct {
	ID       int64
	Username string
	Email    string
	Avatar   string
}

type Notification struct {
	ID         int64
	ToUserID   int64
	Title      string
	Text       string
	URL        string
	IsRead     bool
	CreateTime time.Time
}
