package cmd

import (
	"context"
	"os"
	"strings"
	"todoblocks/internal/config"
	"todoblocks/internal/importer"
	"todoblocks/internal/retrieve"

	"github.com/pkg/errors"
)

func defaultCmd(ctx context.Context) (func(), error) {
	return runMode(ctx, retrieve.ModeDefault, "")
}

func todayCmd(ctx context.Context) (func(), error) {
	return runMode(ctx, retrieve.ModeToday, "")
}

func customCmd(ctx context.Context) (func(), error) {
	return runMode(ctx, retrieve.ModeCustom, config.Gist().String(config.FILTER))
}

func queryCmd(ctx context.Context) (func(), error) {
	raw, err := rawQuery()
	if err != nil {
		return nil, err
	}
	app, err := newApp(ctx, todoistSource())
	if err != nil {
		return nil, err
	}
	defer app.close()
	_, err = app.useCase.RunQuery(raw)
	return nil, err
}

// watchCmd keeps re-running the query on its autorefresh cadence.
func watchCmd(ctx context.Context) (func(), error) {
	raw, err := rawQuery()
	if err != nil {
		return nil, err
	}
	app, err := newApp(ctx, todoistSource())
	if err != nil {
		return nil, err
	}
	if err := app.useCase.TaskRefresh(raw); err != nil {
		app.close()
		return nil, err
	}
	return func() {
		app.useCase.Stop()
		app.close()
	}, nil
}

func runMode(ctx context.Context, mode retrieve.Mode, filter string) (func(), error) {
	app, err := newApp(ctx, todoistSource())
	if err != nil {
		return nil, err
	}
	defer app.close()
	return nil, app.useCase.Retrieve(mode, filter)
}

func todoistSource() retrieve.Source {
	k := config.Gist()
	return importer.NewTodoist(k.String(config.TODOIST_BASEURL), k.String(config.TODOIST_TOKEN))
}

func rawQuery() (string, error) {
	k := config.Gist()
	if path := k.String(config.QUERY_FILE); path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return "", errors.Wrap(err, "error reading query file")
		}
		return string(raw), nil
	}
	raw := k.String(config.QUERY)
	if strings.TrimSpace(raw) == "" {
		return "", errors.New("query is required, set --query or --queryfile")
	}
	return raw, nil
}
