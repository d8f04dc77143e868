package pagination

import (
	"net/url"
	"strconv"
)

// PageRequest is a 1-indexed page of a fixed page size.
type PageRequest struct {
	Page     int `json:"page"`
	PageSize int `json:"pageSize"`
}

// NewPageRequest builds a normalized request for page under cfg.
func NewPageRequest(page int, cfg Config) PageRequest {
	r := PageRequest{Page: page}
	r.Normalize(cfg)
	return r
}

// Normalize clamps the page to at least 1 and applies the configured size.
func (r *PageRequest) Normalize(cfg Config) {
	if r.Page < 1 {
		r.Page = 1
	}
	r.PageSize = cfg.PageSize
}

// Offset calculates the number of records to skip based on page and page size.
func (r *PageRequest) Offset() int {
	return (r.Page - 1) * r.PageSize
}

// PageRequestFromQuery reads the page query parameter. Missing,
// non-numeric or non-positive values select page 1.
func PageRequestFromQuery(values url.Values, cfg Config) PageRequest {
	page, _ := strconv.Atoi(values.Get("page"))
	return NewPageRequest(page, cfg)
}

// PageResult holds a page of data along with pagination metadata.
type PageResult[T any] struct {
	Data       []T `json:"data"`
	Total      int `json:"total"`
	Page       int `json:"page"`
	PageSize   int `json:"pageSize"`
	TotalPages int `json:"totalPages"`
}

// NewPageResult creates a PageResult. TotalPages is ceil(total/pageSize),
// so an empty set has zero pages.
func NewPageResult[T any](data []T, total, page, pageSize int) PageResult[T] {
	if data == nil {
		data = []T{}
	}

	return PageResult[T]{
		Data:       data,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: TotalPages(total, pageSize),
	}
}

// TotalPages returns ceil(total/pageSize), or 0 when either is non-positive.
func TotalPages(total, pageSize int) int {
	if total <= 0 || pageSize <= 0 {
		return 0
	}
	return (total + pageSize - 1) / pageSize
}
