package pagination

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromQuery(t *testing.T) {
	tests := []struct {
		name        string
		page        string
		perPage     string
		wantPage    int
		wantPerPage int
	}{
		{"defaults", "", "", 1, 15},
		{"explicit", "3", "20", 3, 20},
		{"garbage", "abc", "-4", 1, 15},
		{"capped", "1", "500", 1, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			params := FromQuery(tt.page, tt.perPage)
			assert.Equal(t, tt.wantPage, params.Page)
			assert.Equal(t, tt.wantPerPage, params.PerPage)
		})
	}
}

func TestNewPagination(t *testing.T) {
	pag := NewPagination(2, 10, 35)
	assert.Equal(t, 4, pag.TotalPages)
	assert.True(t, pag.HasNext)
	assert.True(t, pag.HasPrev)

	last := NewPagination(4, 10, 35)
	assert.False(t, last.HasNext)
}

func TestCursorRoundTrip(t *testing.T) {
	at := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	params := &CursorParams{Cursor: EncodeCursor("abc", at)}

	cursor, err := params.DecodeCursor()
	require.NoError(t, err)
	assert.Equal(t, "abc", cursor.ID)
	assert.True(t, cursor.At.Equal(at))
}

func TestNewCursorPaginationTrimsExtraRow(t *testing.T) {
	params := &CursorParams{Limit: 2}
	params.Validate()

	rows := []int{1, 2, 3}
	pag, items := NewCursorPagination(rows, params, func(n int) (string, time.Time) {
		return string(rune('a' + n)), time.Unix(int64(n), 0)
	})

	assert.Equal(t, []int{1, 2}, items)
	assert.True(t, pag.HasNext)
	assert.False(t, pag.HasPrev)
	require.NotNil(t, pag.NextCursor)
}

func TestNewCursorPaginationPrevDirection(t *testing.T) {
	key := func(n int) (string, time.Time) {
		return string(rune('a' + n)), time.Unix(int64(n), 0)
	}

	params := &CursorParams{Limit: 2, Cursor: EncodeCursor("z", time.Unix(0, 0)), Direction: CursorDirectionPrev}
	params.Validate()
	pag, items := NewCursorPagination([]int{5, 4, 3}, params, key)
	assert.Equal(t, []int{5, 4}, items)
	assert.True(t, pag.HasNext)
	assert.True(t, pag.HasPrev)

	pag, items = NewCursorPagination([]int{5, 4}, params, key)
	assert.Equal(t, []int{5, 4}, items)
	assert.True(t, pag.HasNext)
	assert.False(t, pag.HasPrev)
}
