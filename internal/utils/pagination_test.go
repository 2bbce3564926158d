package utils

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/org-management-api/internal/constants"
)

func pageContext(target string) *gin.Context {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, target, nil)
	return c
}

func TestGetPaginationParams(t *testing.T) {
	params := GetPaginationParams(pageContext("/items?page=3"))
	require.Equal(t, PaginationParams{Page: 3, Limit: 10, Offset: 20}, params)

	params = GetPaginationParams(pageContext("/items?page=abc"))
	require.Equal(t, 1, params.Page)

	params = GetPaginationParams(pageContext("/items?page=-4"))
	require.Equal(t, 0, params.Offset)

	params = GetPaginationParams(pageContext("/items?page=9223372036854775807"))
	require.Equal(t, constants.MaxPage, params.Page)
	require.Equal(t, (constants.MaxPage-1)*constants.PageSize, params.Offset)
}

func TestNewPage_Links(t *testing.T) {
	c := pageContext("http://example.com/items?status=all")
	page := NewPage(c, NewPaginationParams(1), 11, []int{1, 2, 3})

	require.EqualValues(t, 11, page.Count)
	require.Nil(t, page.Previous)
	require.NotNil(t, page.Next)
	require.Equal(t, "http://example.com/items?page=2&status=all", *page.Next)

	c = pageContext("http://example.com/items?page=2&status=all")
	page = NewPage(c, NewPaginationParams(2), 11, []int{11})

	require.Nil(t, page.Next)
	require.NotNil(t, page.Previous)
	require.Equal(t, "http://example.com/items?status=all", *page.Previous)
}

func TestNewPage_EmptyResults(t *testing.T) {
	page := NewPage[string](pageContext("/items"), NewPaginationParams(1), 0, nil)
	require.NotNil(t, page.Results)
	require.Empty(t, page.Results)
}
