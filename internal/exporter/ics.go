package exporter

import (
	"context"
	"os"
	"strconv"
	"strings"
	"time"
	"todoblocks/internal/importer/todoist"
	"todoblocks/internal/retrieve"

	ics "github.com/arran4/golang-ical"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

var _ TaskExporter = (*ICS)(nil)

const (
	icsProductID   = "-//todoblocks//Todoist tasks//EN"
	icsDateFormat  = "20060102"
	icsStampFormat = "20060102T150405Z"
)

// ICS writes the tasks of an output as a VTODO feed file.
type ICS struct {
	path string
	loc  *time.Location
	now  func() time.Time
}

func NewICS(path string) *ICS {
	return &ICS{path: path, loc: time.Local, now: time.Now}
}

func (e *ICS) Set(_ context.Context, out Output) error {
	if len(out.Tasks) == 0 {
		return nil
	}
	feed := BuildCalendar(out, e.loc, e.now())
	if err := os.WriteFile(e.path, []byte(feed.Serialize()), 0644); err != nil {
		return errors.Wrap(err, "error writing ics file")
	}
	log.Info().Str("file", e.path).Int("tasks", len(out.Tasks)).Msg("ics feed written")
	return nil
}

// BuildCalendar maps tasks to VTODO components.
func BuildCalendar(out Output, loc *time.Location, now time.Time) *ics.Calendar {
	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId(icsProductID)
	if out.Title != "" {
		cal.SetName(out.Title)
	}

	for _, task := range out.Tasks {
		todo := cal.AddTodo(task.ID + "@todoist.com")
		todo.SetDtStampTime(now)
		todo.SetSummary(task.Content)
		if task.Description != "" {
			todo.SetDescription(task.Description)
		}
		todo.SetURL(task.Link())
		todo.SetProperty(ics.ComponentPropertyPriority, strconv.Itoa(icsPriority(task.Priority)))
		if len(task.Labels) > 0 {
			todo.SetProperty(ics.ComponentPropertyCategories, strings.Join(task.Labels, ","))
		}
		setDue(todo, task, loc)
	}
	return cal
}

func setDue(todo *ics.VTodo, task todoist.Task, loc *time.Location) {
	source := retrieve.DueSourceFor(task)
	due, ok := retrieve.ResolveDueDate(source, loc)
	if !ok {
		return
	}
	if source.HasTime() {
		todo.SetProperty(ics.ComponentProperty(ics.PropertyDue), due.UTC().Format(icsStampFormat))
		return
	}
	todo.SetProperty(ics.ComponentProperty(ics.PropertyDue), due.Format(icsDateFormat), ics.WithValue(string(ics.ValueDataTypeDate)))
}

// icsPriority maps Todoist priority (4 urgent) onto the RFC 5545 scale (1 highest).
func icsPriority(p int) int {
	switch p {
	case 4:
		return 1
	case 3:
		return 3
	case 2:
		return 5
	}
	return 9
}
