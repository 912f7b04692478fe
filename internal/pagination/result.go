package pagination

import (
	"fmt"
	"math"
)

const (
	DefaultPage    = 1
	DefaultPerPage = 100
)

// Row is a single result row keyed by column name.
type Row = map[string]any

// Params holds named bind values (":name" placeholders).
type Params map[string]any

// Request selects a row window. Both fields are 1-based and must be positive.
type Request struct {
	Page    int
	PerPage int
}

// Offset is the number of rows skipped before the window.
func (r Request) Offset() int { return (r.Page - 1) * r.PerPage }

// Validate rejects non-positive page numbers and sizes, and windows whose offset
// does not fit in an int.
func (r Request) Validate() error {
	if r.Page <= 0 {
		return fmt.Errorf("%w: page must be >= 1, got %d", ErrInvalidArgument, r.Page)
	}
	if r.PerPage <= 0 {
		return fmt.Errorf("%w: per_page must be >= 1, got %d", ErrInvalidArgument, r.PerPage)
	}
	if r.Page-1 > math.MaxInt/r.PerPage {
		return fmt.Errorf("%w: page %d is out of range for per_page %d", ErrInvalidArgument, r.Page, r.PerPage)
	}
	return nil
}

// Overrides are page settings taken from the incoming request at the transport boundary.
type Overrides struct {
	Page    *int
	PerPage *int
}

// Resolve builds a Request. An explicit page wins over the override; a per_page
// override wins over the caller's default size.
func Resolve(perPage int, page *int, ov Overrides) Request {
	req := Request{Page: DefaultPage, PerPage: DefaultPerPage}
	switch {
	case page != nil:
		req.Page = *page
	case ov.Page != nil:
		req.Page = *ov.Page
	}
	switch {
	case ov.PerPage != nil:
		req.PerPage = *ov.PerPage
	case perPage != 0:
		req.PerPage = perPage
	}
	return req
}

// ResultSet is one page of rows plus the metadata needed to render a pager.
type ResultSet[T any] struct {
	Pages   int `json:"pages"`
	Page    int `json:"page"`
	PerPage int `json:"per_page"`
	Total   int `json:"total"`
	List    []T `json:"list"`
}

// PageCount derives the number of pages. Sizes of 0 or 1 always report a single page.
func PageCount(total, perPage int) int {
	if perPage <= 1 {
		return 1
	}
	pages := (total + perPage - 1) / perPage
	if pages < 1 {
		return 1
	}
	return pages
}

// NewResultSet assembles a result set for req.
func NewResultSet[T any](req Request, total int, list []T) ResultSet[T] {
	if list == nil {
		list = []T{}
	}
	return ResultSet[T]{
		Pages:   PageCount(total, req.PerPage),
		Page:    req.Page,
		PerPage: req.PerPage,
		Total:   total,
		List:    list,
	}
}

// Map converts every list item with fn and keeps the page metadata.
// The first conversion error aborts the whole page.
func Map[T, U any](rs ResultSet[T], fn func(T) (U, error)) (ResultSet[U], error) {
	out := ResultSet[U]{
		Pages:   rs.Pages,
		Page:    rs.Page,
		PerPage: rs.PerPage,
		Total:   rs.Total,
		List:    make([]U, 0, len(rs.List)),
	}
	for i, item := range rs.List {
		u, err := fn(item)
		if err != nil {
			return ResultSet[U]{}, fmt.Errorf("list item %d: %w", i, err)
		}
		out.List = append(out.List, u)
	}
	return out, nil
}
