package pagination_test

import (
	"testing"

	"tabitha-home/internal/pkg/pagination"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name       string
		page       int
		limit      int
		wantPage   int
		wantLimit  int
		wantOffset int
	}{
		{"defaults on zero", 0, 0, 1, pagination.DefaultLimit, 0},
		{"negative page clamps", -3, 10, 1, 10, 0},
		{"limit capped at max", 2, 500, 2, pagination.MaxLimit, pagination.MaxLimit},
		{"normal values pass through", 3, 25, 3, 25, 50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := pagination.Normalize(tt.page, tt.limit)
			assert.Equal(t, tt.wantPage, p.Page)
			assert.Equal(t, tt.wantLimit, p.Limit)
			assert.Equal(t, tt.wantOffset, p.Offset)
		})
	}
}

func TestGetMeta(t *testing.T) {
	params := pagination.Normalize(2, 20)
	meta := pagination.GetMeta(params, 45)

	assert.Equal(t, int64(45), meta.Total)
	assert.Equal(t, 3, meta.TotalPages)
	assert.True(t, meta.HasNext)
	assert.True(t, meta.HasPrev)

	last := pagination.GetMeta(pagination.Normalize(3, 20), 45)
	assert.False(t, last.HasNext)
}
