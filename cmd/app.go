package cmd

import (
	"context"
	"fmt"
	"todoblocks/internal/config"
	"todoblocks/internal/domain"
	"todoblocks/internal/exporter"
	"todoblocks/internal/retrieve"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

type app struct {
	useCase *domain.UseCase
	closers []func() error
}

func (a *app) close() {
	for _, c := range a.closers {
		if err := c(); err != nil {
			log.Err(err).Msg("error closing sink")
		}
	}
}

func newApp(ctx context.Context, src retrieve.Source) (*app, error) {
	k := config.Gist()
	a := &app{}
	notifier := exporter.NewConsole()

	var (
		sink  exporter.TaskExporter
		prefs retrieve.PreferencesReader = retrieve.StaticPreferences(retrieve.DefaultDateFormat)
	)
	switch name := k.String(config.SINK); name {
	case "", "stdout":
		sink = exporter.NewStdout(k.Bool(config.STDOUT_RAW))
	case "notes":
		notes, err := exporter.OpenNotes(k.String(config.NOTES_DB), k.String(config.NOTES_PAGE))
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, notes.Close)
		sink, prefs = notes, notes
	case "webdav":
		dav, err := exporter.NewWebDAV(
			k.String(config.WEBDAV_URL),
			k.String(config.WEBDAV_USER),
			k.String(config.WEBDAV_PASS),
			k.String(config.WEBDAV_DIR),
			&exporter.Noop{},
		)
		if err != nil {
			return nil, err
		}
		sink = dav
	case "ics":
		path := k.String(config.ICS_PATH)
		if path == "" {
			return nil, errors.New("ics.path is required for the ics sink")
		}
		sink = exporter.NewICS(path)
	case "noop":
		sink = &exporter.Noop{}
	default:
		return nil, errors.New(fmt.Sprintf("unknown sink %q", name))
	}

	if format := k.String(config.NOTES_DATEFORMAT); format != "" {
		prefs = retrieve.StaticPreferences(format)
	}

	r := retrieve.New(src, config.Settings(), prefs, notifier)
	a.useCase = domain.New(ctx, r, sink, notifier)
	return a, nil
}
