package utils

import (
	"net/url"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/org-management-api/internal/constants"
)

// PaginationParams holds the pagination parameters
type PaginationParams struct {
	Page   int
	Limit  int
	Offset int
}

// Page is the paged list response: total count, links to the neighbouring
// pages and the current slice of results.
type Page[T any] struct {
	Count    int64   `json:"count"`
	Next     *string `json:"next"`
	Previous *string `json:"previous"`
	Results  []T     `json:"results"`
}

// NewPaginationParams returns the parameters for a 1-based page number,
// clamped to [1, constants.MaxPage].
func NewPaginationParams(page int) PaginationParams {
	page = max(1, min(page, constants.MaxPage))
	return PaginationParams{
		Page:   page,
		Limit:  constants.PageSize,
		Offset: (page - 1) * constants.PageSize,
	}
}

// GetPaginationParams extracts the page number from the request. Missing or
// malformed values fall back to the first page.
func GetPaginationParams(c *gin.Context) PaginationParams {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil {
		page = 1
	}
	return NewPaginationParams(page)
}

// NewPage builds a Page with absolute next/previous links derived from the
// current request URL.
func NewPage[T any](c *gin.Context, params PaginationParams, total int64, results []T) Page[T] {
	if results == nil {
		results = []T{}
	}

	page := Page[T]{
		Count:   total,
		Results: results,
	}

	if int64(params.Offset+params.Limit) < total {
		next := pageURL(c, params.Page+1)
		page.Next = &next
	}
	if params.Page > 1 {
		prev := pageURL(c, params.Page-1)
		page.Previous = &prev
	}

	return page
}

func pageURL(c *gin.Context, page int) string {
	scheme := "http"
	if c.Request.TLS != nil {
		scheme = "https"
	}
	if proto := c.GetHeader("X-Forwarded-Proto"); proto != "" {
		scheme = proto
	}

	query := c.Request.URL.Query()
	if page <= 1 {
		query.Del("page")
	} else {
		query.Set("page", strconv.Itoa(page))
	}

	u := url.URL{
		Scheme:   scheme,
		Host:     c.Request.Host,
		Path:     c.Request.URL.Path,
		RawQuery: query.Encode(),
	}
	return u.String()
}
