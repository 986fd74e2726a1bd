package inventory

import (
	"strings"

	"github.com/fairyhunter13/inventory-service/internal/model"
)

const (
	// DefaultPageSize is the listing page size used when none is configured.
	DefaultPageSize = 15
	windowSize      = 5
)

// Page is one page of a filtered listing.
type Page struct {
	Items      []model.Product `json:"items"`
	Query      string          `json:"query"`
	Page       int             `json:"page"`
	PerPage    int             `json:"per_page"`
	Total      int             `json:"total"`
	TotalPages int             `json:"total_pages"`
	Window     []int           `json:"window"`
}

// HasPrev reports whether a previous page exists.
func (p Page) HasPrev() bool { return p.Page > 1 }

// HasNext reports whether a next page exists.
func (p Page) HasNext() bool { return p.Page < p.TotalPages }

// Filter returns the products whose name contains query, ignoring case.
// An empty query matches everything. Order is preserved.
func Filter(ps []model.Product, query string) []model.Product {
	q := strings.ToLower(strings.TrimSpace(query))
	out := make([]model.Product, 0, len(ps))
	for _, p := range ps {
		if q == "" || strings.Contains(strings.ToLower(p.Name), q) {
			out = append(out, p)
		}
	}
	return out
}

// Paginate filters ps by query and returns the requested page. page is
// clamped into [1, TotalPages]; an empty result has one empty page.
func Paginate(ps []model.Product, query string, page, perPage int) Page {
	if perPage <= 0 {
		perPage = DefaultPageSize
	}
	matched := Filter(ps, query)
	total := len(matched)
	totalPages := (total + perPage - 1) / perPage
	if totalPages == 0 {
		totalPages = 1
	}
	page = min(max(page, 1), totalPages)

	start := (page - 1) * perPage
	end := min(start+perPage, total)

	return Page{
		Items:      matched[start:end],
		Query:      strings.TrimSpace(query),
		Page:       page,
		PerPage:    perPage,
		Total:      total,
		TotalPages: totalPages,
		Window:     pageWindow(page, totalPages),
	}
}

// pageWindow returns up to five consecutive page numbers around current.
func pageWindow(current, totalPages int) []int {
	first := max(1, current-2)
	last := min(totalPages, first+windowSize-1)
	if last-first+1 < windowSize {
		first = max(1, last-windowSize+1)
	}
	out := make([]int, 0, last-first+1)
	for i := first; i <= last; i++ {
		out = append(out, i)
	}
	return out
}
