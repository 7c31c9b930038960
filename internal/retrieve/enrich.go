package retrieve

import (
	"context"
	"fmt"
	"strings"
	"time"
	"todoblocks/internal/importer"
	"todoblocks/internal/importer/todoist"

	"github.com/pkg/errors"
	"github.com/sourcegraph/conc/pool"
)

const defaultCommentWorkers = 8

type Annotations struct {
	Comments    string
	Attachments string
}

// DisplayTask is a task with everything needed to render it. It only lives for
// one retrieval.
type DisplayTask struct {
	Source       todoist.Task
	Annotations  Annotations
	Project      *ProjectInfo
	Section      *SectionInfo
	LabelNames   []string
	DueInline    string
	DueISO       string
	DueHeading   string
	DueFlag      DueFlag
	DueHasTime   bool
	DueDate      time.Time
	CreationDate string
}

func (t DisplayTask) HasDue() bool {
	return !t.DueDate.IsZero()
}

type Enricher struct {
	Source     Source
	Context    TodoistContext
	Prefs      RenderPreferences
	DateFormat string
	Now        time.Time
	Workers    int
}

// Enrich builds one display task per raw task, keeping the input order. Comments
// are loaded per task concurrently and joined before any task is assembled.
func (e Enricher) Enrich(ctx context.Context, tasks []todoist.Task) ([]DisplayTask, error) {
	annotations, err := e.loadAnnotations(ctx, tasks)
	if err != nil {
		return nil, err
	}

	loc := e.Now.Location()
	out := make([]DisplayTask, 0, len(tasks))
	for i, task := range tasks {
		due := DueSourceFor(task)
		presentation := FormatDueDate(due, e.Now)
		dueDate, _ := ResolveDueDate(due, loc)

		dt := DisplayTask{
			Source:      task,
			Annotations: annotations[i],
			LabelNames:  resolveLabelNames(task.Labels, e.Context.Labels),
			DueInline:   presentation.Inline,
			DueISO:      FormatDueISO(due, loc),
			DueHeading:  presentation.Heading,
			DueFlag:     presentation.Flag,
			DueHasTime:  due.HasTime(),
			DueDate:     dueDate,
		}
		if project, ok := e.Context.Projects[task.ProjectID]; ok {
			dt.Project = &project
		}
		if task.SectionID != "" {
			if section, ok := e.Context.Sections[task.SectionID]; ok {
				dt.Section = &section
			}
		}
		if e.Prefs.AppendCreationDate && task.AddedAt != "" {
			if added, err := time.Parse(time.RFC3339Nano, task.AddedAt); err == nil {
				dt.CreationDate = FormatPageDate(added.In(loc), e.DateFormat)
			}
		}
		out = append(out, dt)
	}
	return out, nil
}

func (e Enricher) loadAnnotations(ctx context.Context, tasks []todoist.Task) ([]Annotations, error) {
	out := make([]Annotations, len(tasks))
	workers := e.Workers
	if workers <= 0 {
		workers = defaultCommentWorkers
	}
	p := pool.New().WithContext(ctx).WithMaxGoroutines(workers).WithCancelOnError()
	for i, task := range tasks {
		p.Go(func(ctx context.Context) error {
			a, err := loadComments(ctx, e.Source, task.ID)
			if err != nil {
				return errors.Wrapf(err, "error loading comments of task %s", task.ID)
			}
			out[i] = a
			return nil
		})
	}
	if err := p.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func loadComments(ctx context.Context, src Source, taskID string) (Annotations, error) {
	comments, err := importer.Collect(ctx, func(ctx context.Context, cursor string) (todoist.Page[todoist.Comment], error) {
		return src.Comments(ctx, taskID, cursor)
	})
	if err != nil {
		return Annotations{}, err
	}

	var texts, attachments []string
	for _, c := range comments {
		if c.FileAttachment == nil {
			texts = append(texts, c.Content)
			continue
		}
		if c.FileAttachment.FileURL == "" {
			continue
		}
		name := c.FileAttachment.FileName
		if name == "" {
			name = "attachment"
		}
		attachments = append(attachments, fmt.Sprintf("[%s](%s)", name, c.FileAttachment.FileURL))
	}
	return Annotations{
		Comments:    strings.Join(texts, ", "),
		Attachments: strings.Join(attachments, ", "),
	}, nil
}

// DueSourceFor prefers the deadline date over the due pair.
func DueSourceFor(task todoist.Task) *DueSource {
	if task.Deadline != nil && task.Deadline.Date != "" {
		return &DueSource{Date: task.Deadline.Date}
	}
	if task.Due == nil {
		return nil
	}
	return dueFromParts(task.Due.Date, task.Due.Datetime)
}

func resolveLabelNames(labels []string, lookup map[string]LabelInfo) []string {
	if len(labels) == 0 {
		return nil
	}
	names := make([]string, 0, len(labels))
	for _, label := range labels {
		if info, ok := lookup[label]; ok && info.Name != "" {
			names = append(names, info.Name)
			continue
		}
		names = append(names, label)
	}
	return names
}
