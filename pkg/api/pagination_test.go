package api

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestParsePagination(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name  string
		query string
		want  PageRequest
	}{
		{"defaults", "", PageRequest{Page: 1, PageSize: 50}},
		{"explicit", "?page=3&pageSize=10", PageRequest{Page: 3, PageSize: 10}},
		{"negative page", "?page=-1&pageSize=10", PageRequest{Page: 1, PageSize: 10}},
		{"garbage", "?page=abc&pageSize=xyz", PageRequest{Page: 1, PageSize: 50}},
		{"capped", "?pageSize=10000", PageRequest{Page: 1, PageSize: 500}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := gin.CreateTestContext(httptest.NewRecorder())
			c.Request = httptest.NewRequest("GET", "/items"+tt.query, nil)
			assert.Equal(t, tt.want, ParsePagination(c))
		})
	}
}

func TestPaginate(t *testing.T) {
	all := []int{1, 2, 3, 4, 5}

	page := Paginate(all, PageRequest{Page: 2, PageSize: 2})
	assert.Equal(t, []int{3, 4}, page.Data)
	assert.Equal(t, int64(5), page.TotalItems)
	assert.Equal(t, int64(3), page.TotalPages)
	assert.True(t, page.HasNext)
	assert.True(t, page.HasPrev)

	last := Paginate(all, PageRequest{Page: 3, PageSize: 2})
	assert.Equal(t, []int{5}, last.Data)
	assert.False(t, last.HasNext)

	beyond := Paginate(all, PageRequest{Page: 9, PageSize: 2})
	assert.Empty(t, beyond.Data)
	assert.NotNil(t, beyond.Data)

	empty := Paginate([]int{}, DefaultPageRequest())
	assert.Equal(t, int64(1), empty.TotalPages)
	assert.False(t, empty.HasPrev)
}
