package retrieve

import (
	"context"
	"testing"
	"time"
	"todoblocks/internal/importer/todoist"
	"todoblocks/internal/query"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingPrefs struct{}

func (failingPrefs) DateFormat(context.Context) (string, error) {
	return "", errors.New("no host")
}

func defaultSettings() Settings {
	return Settings{
		DefaultProject:  "Inbox (p1)",
		AppendTodo:      true,
		AppendTodoistID: true,
	}
}

func newTestRetriever(src Source, settings Settings, n Notifier) *Retriever {
	return New(src, settings, StaticPreferences(DefaultDateFormat), n, WithClock(func() time.Time { return fixedNow }))
}

func TestRetrieve_DefaultModeRequiresProject(t *testing.T) {
	src := newFakeSource(todoist.Task{ID: "1"})
	n := &fakeNotifier{}
	settings := defaultSettings()
	settings.DefaultProject = "--- ---"

	res := newTestRetriever(src, settings, n).Retrieve(context.Background(), ModeDefault, "")
	assert.True(t, res.Empty())
	assert.True(t, res.Failed)
	assert.Zero(t, src.count("tasksByProject"))
	require.Len(t, n.messages, 1)
	assert.Equal(t, LevelError, n.messages[0].level)
}

func TestRetrieve_DefaultMode(t *testing.T) {
	src := newFakeSource(
		todoist.Task{ID: "1", Content: "one", ChildOrder: 2},
		todoist.Task{ID: "2", Content: "two", ChildOrder: 1},
	)
	n := &fakeNotifier{}

	res := newTestRetriever(src, defaultSettings(), n).Retrieve(context.Background(), ModeDefault, "")
	require.Len(t, res.Blocks, 2)
	assert.Len(t, res.Tasks, 2)
	assert.Equal(t, "TODO two", res.Blocks[0].Content)
	assert.Equal(t, map[string]string{PropTodoistID: "2"}, res.Blocks[0].Properties)
	assert.Equal(t, 2, src.count("tasksByProject"), "one call per page")
	assert.Zero(t, src.count("projects"))
	assert.Empty(t, n.messages)
}

func TestRetrieve_TodayMode(t *testing.T) {
	src := newFakeSource(todoist.Task{ID: "1", Content: "one"})
	res := newTestRetriever(src, defaultSettings(), &fakeNotifier{}).Retrieve(context.Background(), ModeToday, "")
	assert.Equal(t, []string{"today"}, src.filters)
	assert.Equal(t, TodayTitle, res.Title)
	assert.Len(t, res.Blocks, 1)
}

func TestRetrieve_CustomModeRequiresFilter(t *testing.T) {
	src := newFakeSource(todoist.Task{ID: "1"})
	n := &fakeNotifier{}
	res := newTestRetriever(src, defaultSettings(), n).Retrieve(context.Background(), ModeCustom, "")
	assert.True(t, res.Empty())
	assert.True(t, res.Failed)
	assert.Equal(t, "Missing custom filter", n.messages[0].msg)
}

func TestRetrieve_NoTasksShortCircuits(t *testing.T) {
	src := newFakeSource()
	settings := defaultSettings()
	settings.ClearTasks = true

	res := newTestRetriever(src, settings, &fakeNotifier{}).RunQuery(context.Background(), query.FilterOnly("p1"))
	assert.True(t, res.Empty())
	assert.False(t, res.Failed, "no tasks is not a failure")
	assert.Zero(t, src.count("delete"))
	assert.Zero(t, src.count("projects"))
	assert.Zero(t, src.count("comments"))
}

func TestRunQuery_ClearsAfterCapture(t *testing.T) {
	src := newFakeSource(todoist.Task{ID: "1", Content: "a"}, todoist.Task{ID: "2", Content: "b"})
	settings := defaultSettings()
	settings.ClearTasks = true

	cfg := query.FilterOnly("overdue")
	cfg.Name = "Overdue"
	res := newTestRetriever(src, settings, &fakeNotifier{}).RunQuery(context.Background(), cfg)
	assert.Equal(t, []string{"1", "2"}, src.deleted)
	assert.Len(t, res.Blocks, 2, "deleted tasks are still rendered")
	assert.Equal(t, "Overdue", res.Title)
}

func TestRunQuery_GroupedByProject(t *testing.T) {
	src := newFakeSource(
		todoist.Task{ID: "1", Content: "a", ProjectID: "p2"},
		todoist.Task{ID: "2", Content: "b", ProjectID: "p1"},
	)
	src.projects = []todoist.Project{{ID: "p1", Name: "Inbox", ChildOrder: 0}, {ID: "p2", Name: "Work", ChildOrder: 1}}

	cfg, _, err := query.Parse("filter: overdue\ngroupBy: project\nshow: [project]")
	require.NoError(t, err)

	res := newTestRetriever(src, defaultSettings(), &fakeNotifier{}).RunQuery(context.Background(), cfg)
	require.Len(t, res.Blocks, 2)
	assert.Equal(t, "Inbox", res.Blocks[0].Content)
	assert.Equal(t, "TODO b — Inbox", res.Blocks[0].Children[0].Content)
	assert.Equal(t, "Inbox", res.Blocks[0].Children[0].Properties[PropProject])
	assert.Equal(t, "Work", res.Blocks[1].Content)
	assert.Zero(t, src.count("labels"))
}

func TestRunQuery_ErrorsBecomeEmptyResult(t *testing.T) {
	tests := []struct {
		name  string
		setup func(*fakeSource, *Settings)
		prefs PreferencesReader
	}{
		{
			name:  "fetch",
			setup: func(f *fakeSource, _ *Settings) { f.failTasks = errBoom },
		},
		{
			name:  "delete",
			setup: func(f *fakeSource, s *Settings) {
				f.failDelete = errBoom
				s.ClearTasks = true
			},
		},
		{
			name:  "comments",
			setup: func(f *fakeSource, _ *Settings) { f.failComments = errBoom },
		},
		{
			name: "host preferences",
			setup: func(_ *fakeSource, s *Settings) {
				s.AppendCreationDate = true
			},
			prefs: failingPrefs{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := newFakeSource(todoist.Task{ID: "1", Content: "a"})
			settings := defaultSettings()
			tt.setup(src, &settings)
			n := &fakeNotifier{}

			var prefs PreferencesReader = StaticPreferences(DefaultDateFormat)
			if tt.prefs != nil {
				prefs = tt.prefs
			}
			r := New(src, settings, prefs, n, WithClock(func() time.Time { return fixedNow }))

			cfg := query.FilterOnly("today")
			cfg.Name = "Named"
			res := r.RunQuery(context.Background(), cfg)
			assert.True(t, res.Empty())
			assert.True(t, res.Failed)
			assert.Empty(t, res.Tasks)
			assert.Equal(t, "Named", res.Title)
			require.Len(t, n.messages, 1)
			assert.Equal(t, LevelError, n.messages[0].level)
			assert.Contains(t, n.messages[0].msg, "Error: ")
		})
	}
}

func TestResolveRenderPreferences(t *testing.T) {
	settings := Settings{AppendTodo: true, AppendLabels: true, AppendURL: true}
	prefs := ResolveRenderPreferences(settings, nil)
	assert.True(t, prefs.PrependTodoKeyword)
	assert.True(t, prefs.EmbedLabelsInline)
	assert.Equal(t, query.NewMetadataSet(query.ShowDue, query.ShowLabels, query.ShowURL), prefs.ShowMetadata)

	cfg := query.FilterOnly("today")
	cfg.Show = query.NewMetadataSet(query.ShowProject)
	prefs = ResolveRenderPreferences(settings, &cfg)
	assert.False(t, prefs.EmbedLabelsInline)
	assert.Equal(t, cfg.Show, prefs.ShowMetadata)
}

func TestProjectSetting(t *testing.T) {
	assert.Equal(t, "123", ProjectID("Inbox (123)"))
	assert.Equal(t, "123", ProjectID("123"))
	assert.Equal(t, "", ProjectID("--- ---"))
	assert.Equal(t, "", ProjectID(" "))
	assert.Equal(t, "Inbox", ProjectName("Inbox (123)"))
	assert.Equal(t, "", ProjectName("123"))
}

func TestFormatPageDate(t *testing.T) {
	at := time.Date(2025, time.January, 2, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "[[Jan 2nd, 2025]]", FormatPageDate(at, ""))
	assert.Equal(t, "[[2025-01-02]]", FormatPageDate(at, "yyyy-MM-dd"))
	assert.Equal(t, "[[Thursday, 02.01.25]]", FormatPageDate(at, "EEEE, dd.MM.yy"))
	assert.Equal(t, "[[11th January]]", FormatPageDate(at.AddDate(0, 0, 9), "do MMMM"))
}
