package importer

import (
	"context"
	"todoblocks/internal/importer/todoist"

	"github.com/rs/zerolog/log"
)

// Noop answers every list call with one empty page.
type Noop struct{}

func (i *Noop) TasksByProject(_ context.Context, projectID, _ string) (todoist.Page[todoist.Task], error) {
	log.Info().Str("projectID", projectID).Msg("noop importer tasks by project call")
	return todoist.Page[todoist.Task]{}, nil
}

func (i *Noop) TasksByFilter(_ context.Context, filter, _ string) (todoist.Page[todoist.Task], error) {
	log.Info().Str("filter", filter).Msg("noop importer tasks by filter call")
	return todoist.Page[todoist.Task]{}, nil
}

func (i *Noop) Projects(context.Context, string) (todoist.Page[todoist.Project], error) {
	return todoist.Page[todoist.Project]{}, nil
}

func (i *Noop) Sections(context.Context, string) (todoist.Page[todoist.Section], error) {
	return todoist.Page[todoist.Section]{}, nil
}

func (i *Noop) Labels(context.Context, string) (todoist.Page[todoist.Label], error) {
	return todoist.Page[todoist.Label]{}, nil
}

func (i *Noop) Comments(context.Context, string, string) (todoist.Page[todoist.Comment], error) {
	return todoist.Page[todoist.Comment]{}, nil
}

func (i *Noop) DeleteTask(_ context.Context, taskID string) error {
	log.Info().Str("taskID", taskID).Msg("noop importer delete call")
	return nil
}
