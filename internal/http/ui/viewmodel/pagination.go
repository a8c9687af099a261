package viewmodel

import (
	"net/url"
	"strconv"
)

// Pagination contains pagination metadata for list views.
type Pagination struct {
	Page       int
	PageSize   int
	HasPrev    bool
	HasNext    bool
	TotalCount int64
	TotalPages int64
	PrevURL    string
	NextURL    string
}

// NewPagination derives navigation links for a page-numbered list. basePath
// and query are the current request's; only "current" and "pageSize" change.
func NewPagination(basePath string, query url.Values, page, pageSize int, total int64) Pagination {
	if page < 1 {
		page = 1
	}
	p := Pagination{Page: page, PageSize: pageSize, TotalCount: total}
	if pageSize > 0 {
		p.TotalPages = (total + int64(pageSize) - 1) / int64(pageSize)
	}
	p.HasPrev = page > 1
	p.HasNext = int64(page) < p.TotalPages
	if p.HasPrev {
		p.PrevURL = pageURL(basePath, query, page-1, pageSize)
	}
	if p.HasNext {
		p.NextURL = pageURL(basePath, query, page+1, pageSize)
	}
	return p
}

func pageURL(basePath string, query url.Values, page, pageSize int) string {
	q := url.Values{}
	for k, vs := range query {
		q[k] = append([]string(nil), vs...)
	}
	q.Set("current", strconv.Itoa(page))
	q.Set("pageSize", strconv.Itoa(pageSize))
	return basePath + "?" + q.Encode()
}
