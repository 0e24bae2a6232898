package domain

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ErrInvalidPageRequest is returned when paging parameters cannot be parsed.
var ErrInvalidPageRequest = errors.New("invalid page request")

const (
	DefaultPageSize = 10
	MaxPageSize     = 100

	// MaxPage is the highest page whose offset fits an int at any page size.
	MaxPage = math.MaxInt / MaxPageSize
)

// SortDirection orders a sorted listing.
type SortDirection string

const (
	SortAsc  SortDirection = "asc"
	SortDesc SortDirection = "desc"
)

// PageRequest selects a zero-based page of a listing.
type PageRequest struct {
	Page      int
	Size      int
	SortField string // empty for storage order
	SortDir   SortDirection
}

// Offset returns the number of rows preceding the page.
func (p PageRequest) Offset() int {
	return p.Page * p.Size
}

// ParsePageRequest reads page, size and sort ("field" or "field,asc|desc") query values.
// Empty values fall back to page 0, DefaultPageSize and defaultSort.
func ParsePageRequest(page, size, sort, defaultSort string) (PageRequest, error) {
	req := PageRequest{
		Page:    0,
		Size:    DefaultPageSize,
		SortDir: SortAsc,
	}

	if page != "" {
		n, err := strconv.Atoi(page)
		if err != nil || n < 0 || n > MaxPage {
			return PageRequest{}, fmt.Errorf("%w: page %q", ErrInvalidPageRequest, page)
		}

		req.Page = n
	}

	if size != "" {
		n, err := strconv.Atoi(size)
		if err != nil || n < 1 {
			return PageRequest{}, fmt.Errorf("%w: size %q", ErrInvalidPageRequest, size)
		}

		req.Size = min(n, MaxPageSize)
	}

	if sort == "" {
		sort = defaultSort
	}

	if sort != "" {
		field, dir, _ := strings.Cut(sort, ",")
		req.SortField = strings.TrimSpace(field)

		switch strings.ToLower(strings.TrimSpace(dir)) {
		case "", string(SortAsc):
			req.SortDir = SortAsc
		case string(SortDesc):
			req.SortDir = SortDesc
		default:
			return PageRequest{}, fmt.Errorf("%w: sort %q", ErrInvalidPageRequest, sort)
		}
	}

	return req, nil
}

// Page is one page of a listing together with the size of the whole listing.
type Page[T any] struct {
	Content       []T   `json:"content"`
	Page          int   `json:"page"`
	Size          int   `json:"size"`
	TotalElements int64 `json:"totalElements"`
	TotalPages    int   `json:"totalPages"`
}

// NewPage assembles a Page from its content and the total element count.
func NewPage[T any](content []T, req PageRequest, total int64) Page[T] {
	if content == nil {
		content = []T{}
	}

	var pages int
	if req.Size > 0 {
		pages = int((total + int64(req.Size) - 1) / int64(req.Size))
	}

	return Page[T]{
		Content:       content,
		Page:          req.Page,
		Size:          req.Size,
		TotalElements: total,
		TotalPages:    pages,
	}
}

// MapPage converts the content of a page, keeping its paging metadata.
func MapPage[T, U any](page Page[T], fn func(T) U) Page[U] {
	content := make([]U, 0, len(page.Content))
	for _, item := range page.Content {
		content = append(content, fn(item))
	}

	return Page[U]{
		Content:       content,
		Page:          page.Page,
		Size:          page.Size,
		TotalElements: page.TotalElements,
		TotalPages:    page.TotalPages,
	}
}
