package importer

import (
	"context"
	"todoblocks/internal/importer/todoist"
)

// PageFunc fetches the page after cursor. The first call always receives an empty cursor.
type PageFunc[T any] func(ctx context.Context, cursor string) (todoist.Page[T], error)

// Collect walks every page in order and accumulates their results. Page N+1 is only
// requested once page N reported its cursor; iteration ends when the cursor is empty.
func Collect[T any](ctx context.Context, fetch PageFunc[T]) ([]T, error) {
	var (
		items  []T
		cursor string
	)
	for {
		page, err := fetch(ctx, cursor)
		if err != nil {
			return nil, err
		}
		items = append(items, page.Results...)
		cursor = page.Next()
		if cursor == "" {
			return items, nil
		}
	}
}
