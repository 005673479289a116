package web

import (
	"errors"
	"net/url"
	"strconv"
)

var errInvalidPage = errors.New("invalid page")

// Pagination describes one page of a list view. Pages start at 1.
type Pagination struct {
	Number   int
	NumPages int
	PerPage  int
	Count    int
	base     url.URL
}

// paginate resolves the ?page= parameter against count items. "last" selects
// the final page; anything else that is not an in-range integer is invalid.
// An empty list still has one page.
func paginate(u *url.URL, count, perPage int) (*Pagination, error) {
	numPages := 1
	if count > 0 {
		numPages = (count + perPage - 1) / perPage
	}
	number := 1
	switch raw := u.Query().Get("page"); raw {
	case "":
	case "last":
		number = numPages
	default:
		n, err := strconv.Atoi(raw)
		if err != nil {
			return nil, errInvalidPage
		}
		number = n
	}
	if number < 1 || number > numPages {
		return nil, errInvalidPage
	}
	return &Pagination{Number: number, NumPages: numPages, PerPage: perPage, Count: count, base: *u}, nil
}

func (p *Pagination) Offset() int { return (p.Number - 1) * p.PerPage }

func (p *Pagination) HasPrev() bool { return p.Number > 1 }
func (p *Pagination) HasNext() bool { return p.Number < p.NumPages }
func (p *Pagination) Prev() int     { return p.Number - 1 }
func (p *Pagination) Next() int     { return p.Number + 1 }

// URL links to page n keeping the other query parameters.
func (p *Pagination) URL(n int) string {
	u := p.base
	q := u.Query()
	q.Set("page", strconv.Itoa(n))
	u.RawQuery = q.Encode()
	return u.RequestURI()
}
