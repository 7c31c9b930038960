package retrieve

import (
	"context"
	"time"
	"todoblocks/internal/importer/todoist"
	"todoblocks/internal/query"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type Mode string

const (
	ModeDefault Mode = "default"
	ModeToday   Mode = "today"
	ModeCustom  Mode = "custom"
)

const TodayTitle = "Todoist · Today"

type Level string

const (
	LevelSuccess Level = "success"
	LevelInfo    Level = "info"
	LevelWarning Level = "warning"
	LevelError   Level = "error"
)

// Notifier surfaces messages to the user.
type Notifier interface {
	ShowMsg(ctx context.Context, msg string, level Level)
}

// Result is what one retrieval hands back. Failures produce an empty result
// with Failed set, the user having been notified already.
type Result struct {
	Tasks  []todoist.Task
	Blocks []*TaskBlock
	Title  string
	Failed bool
}

func (r Result) Empty() bool {
	return len(r.Blocks) == 0
}

type Retriever struct {
	src      Source
	settings Settings
	prefs    PreferencesReader
	notifier Notifier
	now      func() time.Time
	log      zerolog.Logger
}

type Option func(*Retriever)

// WithClock replaces time.Now, mostly for tests.
func WithClock(now func() time.Time) Option {
	return func(r *Retriever) {
		r.now = now
	}
}

func New(src Source, settings Settings, prefs PreferencesReader, notifier Notifier, opts ...Option) *Retriever {
	r := &Retriever{
		src:      src,
		settings: settings,
		prefs:    prefs,
		notifier: notifier,
		now:      time.Now,
		log:      log.With().Str("cmp", "retrieve").Logger(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Retrieve runs one of the fixed retrieval modes.
func (r *Retriever) Retrieve(ctx context.Context, mode Mode, customFilter string) Result {
	switch mode {
	case ModeDefault:
		projectID := ProjectID(r.settings.DefaultProject)
		if projectID == "" {
			r.notifier.ShowMsg(ctx, "Please select a default project", LevelError)
			return Result{Failed: true}
		}
		title := ""
		if r.settings.ProjectAsParent {
			title = ProjectName(r.settings.DefaultProject)
		}
		return r.execute(ctx, title, nil, func(ctx context.Context) ([]todoist.Task, error) {
			return fetchTasksByProject(ctx, r.src, projectID)
		})
	case ModeToday:
		return r.execute(ctx, TodayTitle, nil, func(ctx context.Context) ([]todoist.Task, error) {
			return fetchTasksByFilter(ctx, r.src, "today")
		})
	case ModeCustom:
		if customFilter == "" {
			r.notifier.ShowMsg(ctx, "Missing custom filter", LevelError)
			return Result{Failed: true}
		}
		return r.execute(ctx, "", nil, func(ctx context.Context) ([]todoist.Task, error) {
			return fetchTasksByFilter(ctx, r.src, customFilter)
		})
	}
	r.notifier.ShowMsg(ctx, "Unknown retrieval mode "+string(mode), LevelError)
	return Result{Failed: true}
}

// RunQuery fetches by cfg.Filter and renders with cfg.
func (r *Retriever) RunQuery(ctx context.Context, cfg query.Config) Result {
	return r.execute(ctx, cfg.Name, &cfg, func(ctx context.Context) ([]todoist.Task, error) {
		return fetchTasksByFilter(ctx, r.src, cfg.Filter)
	})
}

func (r *Retriever) execute(ctx context.Context, title string, cfg *query.Config, fetch func(context.Context) ([]todoist.Task, error)) Result {
	res, err := r.pipeline(ctx, cfg, fetch)
	if err != nil {
		r.log.Err(err).Str("title", title).Msg("error retrieving tasks")
		r.notifier.ShowMsg(ctx, "Error: "+err.Error(), LevelError)
		return Result{Title: title, Failed: true}
	}
	res.Title = title
	return res
}

func (r *Retriever) pipeline(ctx context.Context, cfg *query.Config, fetch func(context.Context) ([]todoist.Task, error)) (Result, error) {
	tasks, err := fetch(ctx)
	if err != nil {
		return Result{}, errors.Wrap(err, "error fetching tasks")
	}
	if len(tasks) == 0 {
		return Result{}, nil
	}
	r.log.Debug().Int("tasks", len(tasks)).Msg("tasks fetched")

	if r.settings.ClearTasks {
		if err := r.deleteTasks(ctx, tasks); err != nil {
			return Result{}, err
		}
	}

	prefs := ResolveRenderPreferences(r.settings, cfg)
	effective := effectiveConfig(cfg, prefs)

	tctx, err := FetchContext(ctx, r.src, RequirementsFor(effective, prefs))
	if err != nil {
		return Result{}, err
	}

	dateFormat := ""
	if prefs.AppendCreationDate {
		if dateFormat, err = r.prefs.DateFormat(ctx); err != nil {
			return Result{}, errors.Wrap(err, "error reading date format")
		}
	}

	display, err := Enricher{
		Source:     r.src,
		Context:    tctx,
		Prefs:      prefs,
		DateFormat: dateFormat,
		Now:        r.now(),
	}.Enrich(ctx, tasks)
	if err != nil {
		return Result{}, err
	}

	return Result{
		Tasks:  tasks,
		Blocks: BuildBlocks(display, prefs, effective),
	}, nil
}

// deleteTasks removes the captured tasks remotely, one call at a time.
func (r *Retriever) deleteTasks(ctx context.Context, tasks []todoist.Task) error {
	for _, task := range tasks {
		if err := r.src.DeleteTask(ctx, task.ID); err != nil {
			return errors.Wrapf(err, "error deleting task %s", task.ID)
		}
		r.log.Debug().Str("taskID", task.ID).Msg("task deleted after retrieval")
	}
	return nil
}

// effectiveConfig stands in for a missing query config so that every mode
// renders through the same path.
func effectiveConfig(cfg *query.Config, prefs RenderPreferences) query.Config {
	if cfg != nil {
		return *cfg
	}
	return query.Config{
		GroupBy: query.GroupHierarchy,
		Sorting: query.DefaultSorting(),
		Show:    prefs.ShowMetadata,
	}
}
