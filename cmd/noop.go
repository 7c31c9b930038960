package cmd

import (
	"context"
	"todoblocks/internal/config"
	"todoblocks/internal/domain"
	"todoblocks/internal/exporter"
	"todoblocks/internal/importer"
	"todoblocks/internal/retrieve"
)

func noopCmd(ctx context.Context) (func(), error) {
	notifier := exporter.NewConsole()
	r := retrieve.New(&importer.Noop{}, config.Settings(), retrieve.StaticPreferences(retrieve.DefaultDateFormat), notifier)
	useCase := domain.New(ctx, r, &exporter.Noop{}, notifier)
	if err := useCase.TaskRefresh("filter: today\nautorefresh: 1"); err != nil {
		return nil, err
	}
	return useCase.Stop, nil
}
