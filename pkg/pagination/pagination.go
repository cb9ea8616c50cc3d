// Package pagination holds the page/limit contract shared by every list endpoint.
package pagination

import "strconv"

const (
	DefaultPage  = 1
	DefaultLimit = 10
)

// Params is a normalized page request.
type Params struct {
	Page  int
	Limit int
}

// Meta is returned alongside every page of results.
type Meta struct {
	CurrentPage int  `json:"currentPage"`
	TotalPages  int  `json:"totalPages"`
	TotalCount  int  `json:"totalCount"`
	HasNextPage bool `json:"hasNextPage"`
	HasPrevPage bool `json:"hasPrevPage"`
}

// New normalizes page and limit. Pages below 1 clamp to 1, non-positive
// limits fall back to DefaultLimit and limits above maxLimit are capped.
// A maxLimit of zero disables the cap.
func New(page, limit, maxLimit int) Params {
	if page < 1 {
		page = DefaultPage
	}
	if limit < 1 {
		limit = DefaultLimit
	}
	if maxLimit > 0 && limit > maxLimit {
		limit = maxLimit
	}
	return Params{Page: page, Limit: limit}
}

// Parse reads raw query values, ignoring anything that is not an integer.
func Parse(page, limit string, maxLimit int) Params {
	p, _ := strconv.Atoi(page)
	l, _ := strconv.Atoi(limit)
	return New(p, l, maxLimit)
}

// Offset is the number of rows to skip.
func (p Params) Offset() int {
	return (p.Page - 1) * p.Limit
}

// Meta computes the pagination block for total matching rows.
func (p Params) Meta(total int) Meta {
	totalPages := 0
	if p.Limit > 0 {
		totalPages = (total + p.Limit - 1) / p.Limit
	}
	return Meta{
		CurrentPage: p.Page,
		TotalPages:  totalPages,
		TotalCount:  total,
		HasNextPage: p.Page < totalPages,
		HasPrevPage: p.Page > 1,
	}
}
