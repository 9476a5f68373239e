// Package query turns loosely specified search input into a normalised page
// request plus a composed predicate that storage adapters translate.
package query

import (
	"math"
	"strings"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 100

	// MaxPage keeps (page-1)*size within range for any size up to MaxPageSize.
	MaxPage = math.MaxInt / MaxPageSize
)

type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

// PageRequest is a bounded, 1-based window over a result set.
// A zero Size means unpaged.
type PageRequest struct {
	Page      int
	Size      int
	SortField string
	Direction Direction
}

// SortPolicy restricts client-supplied sort fields to a known set. Allowed
// holds storage names; a client may also spell them the way the transfer
// objects do, so "firstName" selects "first_name".
type SortPolicy struct {
	Allowed []string
	Default string
}

func (p SortPolicy) resolve(field string) string {
	f := sortKey(field)
	if f == "" {
		return p.Default
	}
	for _, a := range p.Allowed {
		if sortKey(a) == f {
			return a
		}
	}
	return p.Default
}

func sortKey(s string) string {
	return strings.ToLower(strings.ReplaceAll(strings.TrimSpace(s), "_", ""))
}

// NewPageRequest normalises raw paging input: page<=0 becomes 1, size<=0
// becomes DefaultPageSize and size is capped at MaxPageSize. The page index
// is capped at MaxPage, which is always past the end of any result set.
func NewPageRequest(page, size int, sortField, direction string, policy SortPolicy) PageRequest {
	if page <= 0 {
		page = 1
	}
	if page > MaxPage {
		page = MaxPage
	}
	if size <= 0 {
		size = DefaultPageSize
	}
	if size > MaxPageSize {
		size = MaxPageSize
	}
	return PageRequest{
		Page:      page,
		Size:      size,
		SortField: policy.resolve(sortField),
		Direction: parseDirection(direction),
	}
}

// Unpaged returns a request for the whole result set sorted by field.
func Unpaged(sortField string) PageRequest {
	return PageRequest{Page: 1, SortField: sortField, Direction: Asc}
}

func parseDirection(s string) Direction {
	if strings.EqualFold(strings.TrimSpace(s), string(Desc)) {
		return Desc
	}
	return Asc
}

func (p PageRequest) Paged() bool { return p.Size > 0 }

// Offset is the number of matching elements skipped before this page.
func (p PageRequest) Offset() int64 {
	if !p.Paged() || p.Page <= 1 {
		return 0
	}
	if int64(p.Page-1) > math.MaxInt64/int64(p.Size) {
		return math.MaxInt64
	}
	return int64(p.Page-1) * int64(p.Size)
}

// Page is one slice of a filtered result set. Total counts the whole set.
type Page[T any] struct {
	Items      []T   `json:"items"`
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	PageSize   int   `json:"pageSize"`
	TotalPages int   `json:"totalPages"`
}

// NewPage assembles a page; items is never nil so it serialises as [].
func NewPage[T any](items []T, total int64, req PageRequest) Page[T] {
	if items == nil {
		items = []T{}
	}
	size := req.Size
	if !req.Paged() {
		size = len(items)
	}
	return Page[T]{
		Items:      items,
		Total:      total,
		Page:       req.Page,
		PageSize:   size,
		TotalPages: TotalPages(total, size),
	}
}

func TotalPages(total int64, size int) int {
	if size <= 0 || total <= 0 {
		return 0
	}
	return int((total + int64(size) - 1) / int64(size))
}

// MapPage converts the items of a page, keeping the paging metadata.
func MapPage[T, U any](p Page[T], fn func(T) U) Page[U] {
	items := make([]U, 0, len(p.Items))
	for _, it := range p.Items {
		items = append(items, fn(it))
	}
	return Page[U]{Items: items, Total: p.Total, Page: p.Page, PageSize: p.PageSize, TotalPages: p.TotalPages}
}

// Slice returns the window of items addressed by req. An out-of-range page
// yields an empty slice.
func Slice[T any](items []T, req PageRequest) []T {
	if !req.Paged() {
		return items
	}
	start := req.Offset()
	if start >= int64(len(items)) {
		return []T{}
	}
	end := start + int64(req.Size)
	if end > int64(len(items)) {
		end = int64(len(items))
	}
	return items[start:end]
}
