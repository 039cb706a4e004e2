package handler

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dukerupert/stitchwork/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseReportFilters(t *testing.T) {
	t.Run("date only end covers the day", func(t *testing.T) {
		r := httptest.NewRequest("GET", "/api/admin/reports/sales?startDate=2024-01-01&endDate=2024-01-31", nil)
		f, err := ParseReportFilters(r)
		require.NoError(t, err)

		assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), *f.StartDate)
		assert.Equal(t, time.Date(2024, 1, 31, 23, 59, 59, 999999999, time.UTC), *f.EndDate)
		assert.Empty(t, f.Statuses)
	})

	t.Run("rfc3339 bounds are exact", func(t *testing.T) {
		r := httptest.NewRequest("GET", "/?startDate=2024-01-01T10:00:00Z&endDate=2024-01-01T12:00:00%2B02:00", nil)
		f, err := ParseReportFilters(r)
		require.NoError(t, err)

		assert.Equal(t, time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC), *f.StartDate)
		assert.Equal(t, time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC), *f.EndDate)
	})

	t.Run("statuses and scope", func(t *testing.T) {
		r := httptest.NewRequest("GET", "/?status=confirmed,%20shipped,&designerId=A&designId=D1", nil)
		f, err := ParseReportFilters(r)
		require.NoError(t, err)

		assert.Equal(t, []domain.OrderStatus{domain.StatusConfirmed, domain.StatusShipped}, f.Statuses)
		assert.Equal(t, "A", f.DesignerID)
		assert.Equal(t, "D1", f.DesignID)
	})

	tests := []struct {
		name  string
		query string
	}{
		{"bad start", "startDate=yesterday"},
		{"bad end", "endDate=2024-13-01"},
		{"inverted", "startDate=2024-02-01&endDate=2024-01-01"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseReportFilters(httptest.NewRequest("GET", "/?"+tt.query, nil))
			require.Error(t, err)
			assert.Equal(t, domain.EINVALID, domain.ErrorCode(err))
		})
	}
}

func TestQueryInt(t *testing.T) {
	r := httptest.NewRequest("GET", "/?page=3&limit=abc&neg=-1", nil)
	assert.Equal(t, 3, QueryInt(r, "page", 1))
	assert.Equal(t, 20, QueryInt(r, "limit", 20))
	assert.Equal(t, 1, QueryInt(r, "neg", 1))
	assert.Equal(t, 7, QueryInt(r, "missing", 7))
}
