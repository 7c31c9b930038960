package importer

import (
	"context"
	"fmt"
	"strconv"
	"todoblocks/internal/importer/todoist"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

const (
	DefaultBaseURL = "https://api.todoist.com/api/v1"
	tasksPath      = "/tasks"
	filterPath     = "/tasks/filter"
	projectsPath   = "/projects"
	sectionsPath   = "/sections"
	labelsPath     = "/labels"
	commentsPath   = "/comments"
	pageLimit      = 200
)

// Todoist reads pages from the Todoist REST api. The token is handed to resty as is.
type Todoist struct {
	rc *resty.Client
}

func NewTodoist(baseURL, token string) *Todoist {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Todoist{
		rc: resty.New().
			SetBaseURL(baseURL).
			SetAuthToken(token),
	}
}

func (t *Todoist) TasksByProject(ctx context.Context, projectID, cursor string) (todoist.Page[todoist.Task], error) {
	return getPage[todoist.Task](ctx, t.rc, tasksPath, map[string]string{"project_id": projectID}, cursor)
}

func (t *Todoist) TasksByFilter(ctx context.Context, filter, cursor string) (todoist.Page[todoist.Task], error) {
	return getPage[todoist.Task](ctx, t.rc, filterPath, map[string]string{"query": filter}, cursor)
}

func (t *Todoist) Projects(ctx context.Context, cursor string) (todoist.Page[todoist.Project], error) {
	return getPage[todoist.Project](ctx, t.rc, projectsPath, nil, cursor)
}

func (t *Todoist) Sections(ctx context.Context, cursor string) (todoist.Page[todoist.Section], error) {
	return getPage[todoist.Section](ctx, t.rc, sectionsPath, nil, cursor)
}

func (t *Todoist) Labels(ctx context.Context, cursor string) (todoist.Page[todoist.Label], error) {
	return getPage[todoist.Label](ctx, t.rc, labelsPath, nil, cursor)
}

func (t *Todoist) Comments(ctx context.Context, taskID, cursor string) (todoist.Page[todoist.Comment], error) {
	return getPage[todoist.Comment](ctx, t.rc, commentsPath, map[string]string{"task_id": taskID}, cursor)
}

func (t *Todoist) DeleteTask(ctx context.Context, taskID string) error {
	resp, err := t.rc.R().
		SetContext(ctx).
		SetHeader("X-Request-Id", uuid.NewString()).
		Delete(tasksPath + "/" + taskID)
	if err != nil {
		return errors.Wrap(err, "error deleting todoist task")
	}
	if resp.IsError() {
		return errors.New(fmt.Sprintf("error deleting todoist task %s: %s", taskID, resp.Status()))
	}
	return nil
}

func getPage[T any](ctx context.Context, rc *resty.Client, path string, params map[string]string, cursor string) (todoist.Page[T], error) {
	var page todoist.Page[T]
	req := rc.R().
		SetContext(ctx).
		SetHeader("X-Request-Id", uuid.NewString()).
		SetQueryParams(params).
		SetQueryParam("limit", strconv.Itoa(pageLimit)).
		SetResult(&page)
	if cursor != "" {
		req.SetQueryParam("cursor", cursor)
	}
	resp, err := req.Get(path)
	if err != nil {
		return page, errors.Wrapf(err, "error getting %s", path)
	}
	if resp.IsError() {
		return page, errors.New(fmt.Sprintf("error getting %s: %s", path, resp.Status()))
	}
	log.Debug().
		Str("path", path).
		Int("results", len(page.Results)).
		Bool("hasNext", page.Next() != "").
		Msg("todoist page received")
	return page, nil
}
