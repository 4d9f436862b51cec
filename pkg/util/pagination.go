package util

import "strconv"

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

type Page struct {
	Page   int
	Size   int
	Offset int
}

type Meta struct {
	Page       int   `json:"page"`
	Size       int   `json:"size"`
	Total      int64 `json:"total"`
	TotalPages int64 `json:"total_pages"`
	HasPrev    bool  `json:"has_prev"`
	HasNext    bool  `json:"has_next"`
}

func ParseIntDefault(s string, def int) int {
	if s == "" {
		return def
	}
	if v, err := strconv.Atoi(s); err == nil {
		return v
	}
	return def
}

func Calculate(page, size int) Page {
	if page < 1 {
		page = 1
	}
	if size <= 0 || size > MaxPageSize {
		size = DefaultPageSize
	}
	return Page{Page: page, Size: size, Offset: (page - 1) * size}
}

// ParsePage returns nil when the caller did not ask for a page.
func ParsePage(page, size string) *Page {
	if page == "" && size == "" {
		return nil
	}
	p := Calculate(ParseIntDefault(page, 1), ParseIntDefault(size, DefaultPageSize))
	return &p
}

func (p Page) Meta(total int64) Meta {
	return Meta{
		Page:       p.Page,
		Size:       p.Size,
		Total:      total,
		TotalPages: (total + int64(p.Size) - 1) / int64(p.Size),
		HasPrev:    p.Page > 1,
		HasNext:    int64(p.Offset+p.Size) < total,
	}
}
