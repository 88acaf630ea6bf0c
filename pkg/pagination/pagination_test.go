package pagination

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFromRequest(t *testing.T) {
	tests := []struct {
		name        string
		query       string
		wantPage    int
		wantPerPage int
		wantOffset  int
	}{
		{"defaults", "", 1, 20, 0},
		{"custom", "?page=3&per_page=50", 3, 50, 100},
		{"negative page", "?page=-1", 1, 20, 0},
		{"zero page", "?page=0", 1, 20, 0},
		{"page not a number", "?page=abc", 1, 20, 0},
		{"per_page above max", "?per_page=101", 1, 20, 0},
		{"per_page at max", "?per_page=100&page=2", 2, 100, 100},
		{"per_page zero", "?per_page=0", 1, 20, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := FromRequest(httptest.NewRequest(http.MethodGet, "/products"+tt.query, nil))
			assert.Equal(t, tt.wantPage, p.Page)
			assert.Equal(t, tt.wantPerPage, p.PerPage)
			assert.Equal(t, tt.wantOffset, p.Offset)
		})
	}
}

func TestNewResult(t *testing.T) {
	r := NewResult([]string{"a", "b"}, 25, Params{Page: 2, PerPage: 10, Offset: 10})

	assert.Equal(t, 3, r.TotalPages)
	assert.True(t, r.HasNext)
	assert.True(t, r.HasPrev)
	assert.Equal(t, 25, r.TotalCount)
}

func TestNewResult_NilData(t *testing.T) {
	r := NewResult[int](nil, 0, DefaultParams())

	assert.NotNil(t, r.Data)
	assert.Zero(t, r.TotalPages)
	assert.False(t, r.HasNext)
	assert.False(t, r.HasPrev)
}

func TestSlice(t *testing.T) {
	all := []int{1, 2, 3, 4, 5, 6, 7}

	first := Slice(all, Params{Page: 1, PerPage: 3, Offset: 0})
	assert.Equal(t, []int{1, 2, 3}, first.Data)
	assert.Equal(t, 3, first.TotalPages)
	assert.True(t, first.HasNext)

	last := Slice(all, Params{Page: 3, PerPage: 3, Offset: 6})
	assert.Equal(t, []int{7}, last.Data)
	assert.False(t, last.HasNext)

	past := Slice(all, Params{Page: 9, PerPage: 3, Offset: 24})
	assert.Empty(t, past.Data)
	assert.Equal(t, 7, past.TotalCount)
}

func TestSlice_DoesNotAliasAppend(t *testing.T) {
	all := []int{1, 2, 3, 4}
	page := Slice(all, Params{Page: 1, PerPage: 2})

	_ = append(page.Data, 99)
	assert.Equal(t, []int{1, 2, 3, 4}, all)
}
