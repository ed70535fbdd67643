package utils

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestNewPaginationParams(t *testing.T) {
	tests := []struct {
		name  string
		page  int
		limit int
		want  PaginationParams
	}{
		{name: "defaults", page: 0, limit: 0, want: PaginationParams{Page: 1, Limit: 20, Offset: 0}},
		{name: "third page", page: 3, limit: 10, want: PaginationParams{Page: 3, Limit: 10, Offset: 20}},
		{name: "limit too large", page: 2, limit: 1000, want: PaginationParams{Page: 2, Limit: 20, Offset: 20}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NewPaginationParams(tt.page, tt.limit))
		})
	}
}

func TestGetPaginationParams_FromQuery(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("GET", "/api/tasks?page=2&limit=5", nil)

	assert.Equal(t, PaginationParams{Page: 2, Limit: 5, Offset: 5}, GetPaginationParams(c))
}

func TestNewPaginationResponse(t *testing.T) {
	resp := NewPaginationResponse(NewPaginationParams(1, 10), 21)
	assert.Equal(t, 3, resp.TotalPages)
	assert.Equal(t, int64(21), resp.Total)
}
