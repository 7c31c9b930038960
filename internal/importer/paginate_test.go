package importer

import (
	"context"
	"testing"
	"todoblocks/internal/importer/todoist"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func cursor(s string) *string { return &s }

func TestCollect_WalksUntilCursorIsNull(t *testing.T) {
	pages := map[string]todoist.Page[int]{
		"":   {Results: []int{1, 2}, NextCursor: cursor("c1")},
		"c1": {Results: []int{3}, NextCursor: cursor("c2")},
		"c2": {Results: []int{4, 5}},
	}
	var seen []string
	items, err := Collect(context.Background(), func(_ context.Context, c string) (todoist.Page[int], error) {
		seen = append(seen, c)
		return pages[c], nil
	})
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3, 4, 5}, items)
	assert.Equal(t, []string{"", "c1", "c2"}, seen)
}

func TestCollect_EmptyCursorStops(t *testing.T) {
	calls := 0
	items, err := Collect(context.Background(), func(context.Context, string) (todoist.Page[int], error) {
		calls++
		return todoist.Page[int]{Results: []int{7}, NextCursor: cursor("")}, nil
	})
	require.NoError(t, err)
	assert.Equal(t, []int{7}, items)
	assert.Equal(t, 1, calls)
}

func TestCollect_PropagatesError(t *testing.T) {
	items, err := Collect(context.Background(), func(_ context.Context, c string) (todoist.Page[int], error) {
		if c == "" {
			return todoist.Page[int]{Results: []int{1}, NextCursor: cursor("next")}, nil
		}
		return todoist.Page[int]{}, errors.New("boom")
	})
	require.Error(t, err)
	assert.Nil(t, items)
}
