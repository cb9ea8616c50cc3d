package pagination

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMeta(t *testing.T) {
	tests := []struct {
		name  string
		page  int
		total int
		want  Meta
	}{
		{
			name:  "first page",
			page:  1,
			total: 23,
			want:  Meta{CurrentPage: 1, TotalPages: 3, TotalCount: 23, HasNextPage: true, HasPrevPage: false},
		},
		{
			name:  "middle page",
			page:  2,
			total: 23,
			want:  Meta{CurrentPage: 2, TotalPages: 3, TotalCount: 23, HasNextPage: true, HasPrevPage: true},
		},
		{
			name:  "last page",
			page:  3,
			total: 23,
			want:  Meta{CurrentPage: 3, TotalPages: 3, TotalCount: 23, HasNextPage: false, HasPrevPage: true},
		},
		{
			name:  "empty result",
			page:  1,
			total: 0,
			want:  Meta{CurrentPage: 1, TotalPages: 0, TotalCount: 0},
		},
		{
			name:  "exact multiple",
			page:  2,
			total: 20,
			want:  Meta{CurrentPage: 2, TotalPages: 2, TotalCount: 20, HasPrevPage: true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := New(tt.page, 10, 100)
			assert.Equal(t, tt.want, p.Meta(tt.total))
		})
	}
}

func TestNew(t *testing.T) {
	assert.Equal(t, Params{Page: 1, Limit: 10}, New(0, 0, 100))
	assert.Equal(t, Params{Page: 1, Limit: 10}, New(-4, -1, 100))
	assert.Equal(t, Params{Page: 3, Limit: 100}, New(3, 500, 100))
	assert.Equal(t, Params{Page: 3, Limit: 500}, New(3, 500, 0))
}

func TestParse(t *testing.T) {
	p := Parse("3", "25", 100)
	assert.Equal(t, 3, p.Page)
	assert.Equal(t, 25, p.Limit)
	assert.Equal(t, 50, p.Offset())

	p = Parse("abc", "", 100)
	assert.Equal(t, Params{Page: 1, Limit: 10}, p)
	assert.Equal(t, 0, p.Offset())
}
