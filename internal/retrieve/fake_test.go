package retrieve

import (
	"context"
	"sync"
	"todoblocks/internal/importer/todoist"

	"github.com/pkg/errors"
)

type fakeSource struct {
	mu sync.Mutex

	tasks    []todoist.Task
	projects []todoist.Project
	sections []todoist.Section
	labels   []todoist.Label
	comments map[string][]todoist.Comment

	failTasks    error
	failComments error
	failDelete   error

	calls   map[string]int
	filters []string
	deleted []string
}

func newFakeSource(tasks ...todoist.Task) *fakeSource {
	return &fakeSource{tasks: tasks, comments: map[string][]todoist.Comment{}, calls: map[string]int{}}
}

func (f *fakeSource) record(name string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[name]++
}

func (f *fakeSource) count(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[name]
}

// paged splits results in pages of one item to exercise cursors.
func paged[T any](items []T, cursor string) todoist.Page[T] {
	start := 0
	if cursor != "" {
		for i := range items {
			if cursorFor(i) == cursor {
				start = i
			}
		}
	}
	if start >= len(items) {
		return todoist.Page[T]{}
	}
	page := todoist.Page[T]{Results: []T{items[start]}}
	if start+1 < len(items) {
		next := cursorFor(start + 1)
		page.NextCursor = &next
	}
	return page
}

func cursorFor(i int) string {
	return "c" + string(rune('a'+i))
}

func (f *fakeSource) TasksByProject(_ context.Context, _ string, cursor string) (todoist.Page[todoist.Task], error) {
	f.record("tasksByProject")
	if f.failTasks != nil {
		return todoist.Page[todoist.Task]{}, f.failTasks
	}
	return paged(f.tasks, cursor), nil
}

func (f *fakeSource) TasksByFilter(_ context.Context, filter, cursor string) (todoist.Page[todoist.Task], error) {
	f.record("tasksByFilter")
	f.mu.Lock()
	f.filters = append(f.filters, filter)
	f.mu.Unlock()
	if f.failTasks != nil {
		return todoist.Page[todoist.Task]{}, f.failTasks
	}
	return paged(f.tasks, cursor), nil
}

func (f *fakeSource) Projects(_ context.Context, cursor string) (todoist.Page[todoist.Project], error) {
	f.record("projects")
	return paged(f.projects, cursor), nil
}

func (f *fakeSource) Sections(_ context.Context, cursor string) (todoist.Page[todoist.Section], error) {
	f.record("sections")
	return paged(f.sections, cursor), nil
}

func (f *fakeSource) Labels(_ context.Context, cursor string) (todoist.Page[todoist.Label], error) {
	f.record("labels")
	return paged(f.labels, cursor), nil
}

func (f *fakeSource) Comments(_ context.Context, taskID, cursor string) (todoist.Page[todoist.Comment], error) {
	f.record("comments")
	if f.failComments != nil {
		return todoist.Page[todoist.Comment]{}, f.failComments
	}
	f.mu.Lock()
	comments := f.comments[taskID]
	f.mu.Unlock()
	return paged(comments, cursor), nil
}

func (f *fakeSource) DeleteTask(_ context.Context, taskID string) error {
	f.record("delete")
	if f.failDelete != nil {
		return f.failDelete
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, taskID)
	return nil
}

type message struct {
	msg   string
	level Level
}

type fakeNotifier struct {
	messages []message
}

func (n *fakeNotifier) ShowMsg(_ context.Context, msg string, level Level) {
	n.messages = append(n.messages, message{msg: msg, level: level})
}

var errBoom = errors.New("boom")
