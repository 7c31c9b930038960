package retrieve

import (
	"context"
	"todoblocks/internal/importer"
	"todoblocks/internal/importer/todoist"
)

var (
	_ Source = (*importer.Todoist)(nil)
	_ Source = (*importer.Noop)(nil)
)

// Source is the task service. Every list call returns a single page.
type Source interface {
	TasksByProject(ctx context.Context, projectID, cursor string) (todoist.Page[todoist.Task], error)
	TasksByFilter(ctx context.Context, filter, cursor string) (todoist.Page[todoist.Task], error)
	Projects(ctx context.Context, cursor string) (todoist.Page[todoist.Project], error)
	Sections(ctx context.Context, cursor string) (todoist.Page[todoist.Section], error)
	Labels(ctx context.Context, cursor string) (todoist.Page[todoist.Label], error)
	Comments(ctx context.Context, taskID, cursor string) (todoist.Page[todoist.Comment], error)
	DeleteTask(ctx context.Context, taskID string) error
}

func fetchTasksByProject(ctx context.Context, src Source, projectID string) ([]todoist.Task, error) {
	return importer.Collect(ctx, func(ctx context.Context, cursor string) (todoist.Page[todoist.Task], error) {
		return src.TasksByProject(ctx, projectID, cursor)
	})
}

func fetchTasksByFilter(ctx context.Context, src Source, filter string) ([]todoist.Task, error) {
	return importer.Collect(ctx, func(ctx context.Context, cursor string) (todoist.Page[todoist.Task], error) {
		return src.TasksByFilter(ctx, filter, cursor)
	})
}
