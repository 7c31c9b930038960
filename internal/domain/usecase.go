package domain

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"todoblocks/internal/exporter"
	"todoblocks/internal/query"
	"todoblocks/internal/retrieve"

	"github.com/adhocore/gronx"
	"github.com/adhocore/gronx/pkg/tasker"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/sourcegraph/conc/pool"
)

const (
	msgNoProjectTasks = "No tasks available for the default project."
	msgNoTodayTasks   = "No tasks due today."
	msgNoQueryMatch   = "No tasks matched the query."
)

type UseCase struct {
	retriever *retrieve.Retriever
	exporter  exporter.TaskExporter
	notifier  retrieve.Notifier
	pool      *pool.ContextPool
	ctx       context.Context

	mu      sync.Mutex
	taskers []*tasker.Tasker
}

func New(ctx context.Context, retriever *retrieve.Retriever, taskExporter exporter.TaskExporter, notifier retrieve.Notifier) *UseCase {
	return &UseCase{
		retriever: retriever,
		exporter:  taskExporter,
		notifier:  notifier,
		pool:      pool.New().WithContext(ctx).WithMaxGoroutines(10),
		ctx:       ctx,
	}
}

// Retrieve runs a fixed retrieval mode and publishes the blocks.
func (uc *UseCase) Retrieve(mode retrieve.Mode, filter string) error {
	res := uc.retriever.Retrieve(uc.ctx, mode, filter)
	return uc.publish(res, exporter.FromResult(res, ""), emptyMessage(mode))
}

// RunQuery parses raw, runs it and publishes the blocks tagged with raw.
func (uc *UseCase) RunQuery(raw string) (query.Config, error) {
	cfg, err := uc.parse(raw)
	if err != nil {
		return cfg, err
	}
	res := uc.retriever.RunQuery(uc.ctx, cfg)
	return cfg, uc.publish(res, exporter.FromResult(res, raw), msgNoQueryMatch)
}

// TaskRefresh runs raw once, then again every autorefresh minutes when set.
func (uc *UseCase) TaskRefresh(raw string) error {
	cfg, err := uc.RunQuery(raw)
	if err != nil {
		return err
	}
	if cfg.Autorefresh <= 0 {
		log.Info().Str("query", cfg.Name).Msg("autorefresh disabled, query ran once")
		return nil
	}

	expr := cronExpr(cfg.Autorefresh)
	if !gronx.New().IsValid(expr) {
		return errors.New(fmt.Sprintf("error scheduling refresh: invalid cron expression %q", expr))
	}
	taskr := tasker.New(tasker.Option{})
	taskr.Task(expr, func(_ context.Context) (int, error) {
		if _, err := uc.RunQuery(raw); err != nil {
			log.Err(err).Str("query", cfg.Name).Msg("error refreshing query")
			return 1, err
		}
		return 0, nil
	})
	uc.mu.Lock()
	uc.taskers = append(uc.taskers, taskr)
	uc.mu.Unlock()

	log.Info().Str("query", cfg.Name).Str("cron", expr).Msg("autorefresh scheduled")
	uc.pool.Go(func(ctx context.Context) error {
		taskr.Run()
		return nil
	})
	return nil
}

func (uc *UseCase) Stop() {
	uc.mu.Lock()
	for _, taskr := range uc.taskers {
		taskr.Stop()
	}
	uc.mu.Unlock()
	uc.pool.Wait()
}

func (uc *UseCase) parse(raw string) (query.Config, error) {
	cfg, warnings, err := query.Parse(raw)
	if err != nil {
		var perr *query.ParseError
		msg := err.Error()
		if errors.As(err, &perr) && len(perr.Details) > 0 {
			msg += ": " + strings.Join(perr.Details, "; ")
		}
		uc.notifier.ShowMsg(uc.ctx, msg, retrieve.LevelError)
		return cfg, errors.Wrap(err, "error parsing query")
	}
	for _, warning := range warnings {
		uc.notifier.ShowMsg(uc.ctx, warning, retrieve.LevelWarning)
	}
	return cfg, nil
}

// publish hands out to the exporter. Failed and empty retrievals never reach
// it, so blocks published by an earlier run stay in place.
func (uc *UseCase) publish(res retrieve.Result, out exporter.Output, emptyMsg string) error {
	if res.Failed {
		log.Warn().Str("title", out.Title).Msg("retrieval failed, nothing published")
		return nil
	}
	if out.Empty() {
		uc.notifier.ShowMsg(uc.ctx, emptyMsg, retrieve.LevelWarning)
		return nil
	}
	if err := uc.exporter.Set(uc.ctx, out); err != nil {
		uc.notifier.ShowMsg(uc.ctx, "Error: "+err.Error(), retrieve.LevelError)
		return err
	}
	uc.notifier.ShowMsg(uc.ctx, fmt.Sprintf("%d tasks retrieved", len(out.Tasks)), retrieve.LevelSuccess)
	return nil
}

func emptyMessage(mode retrieve.Mode) string {
	switch mode {
	case retrieve.ModeDefault:
		return msgNoProjectTasks
	case retrieve.ModeToday:
		return msgNoTodayTasks
	}
	return msgNoQueryMatch
}

var (
	minuteSteps = []int{1, 2, 3, 4, 5, 6, 10, 12, 15, 20, 30}
	hourSteps   = []int{1, 2, 3, 4, 6, 8, 12}
)

// cronExpr turns a refresh interval in minutes into a cron schedule. Steps must
// divide the hour (or the day) to fire at even gaps, so the interval rounds down
// to the closest such step, capped at daily.
func cronExpr(minutes int) string {
	if minutes < 60 {
		return fmt.Sprintf("*/%d * * * *", stepAtMost(minuteSteps, minutes))
	}
	hours := minutes / 60
	if hours >= 24 {
		return "0 0 * * *"
	}
	step := stepAtMost(hourSteps, hours)
	if step == 1 {
		return "0 * * * *"
	}
	return fmt.Sprintf("0 */%d * * *", step)
}

func stepAtMost(steps []int, n int) int {
	best := steps[0]
	for _, step := range steps {
		if step <= n {
			best = step
		}
	}
	return best
}
