package retrieve

import (
	"fmt"
	"strings"
	"time"
)

type DueFlag string

const (
	DueOverdue  DueFlag = "overdue"
	DueToday    DueFlag = "today"
	DueTomorrow DueFlag = "tomorrow"
	DueUpcoming DueFlag = "upcoming"
	DueNone     DueFlag = "none"
)

const (
	dateLayout     = "2006-01-02"
	floatingLayout = "2006-01-02T15:04:05"
	displayDate    = "Mon, Jan 2"
	displayTime    = "3:04 PM"
	isoLayout      = "2006-01-02T15:04:05.000Z07:00"
)

// DueSource is the date/datetime pair a due presentation is computed from.
type DueSource struct {
	Date     string
	Datetime string
}

func (d *DueSource) HasTime() bool {
	return d != nil && d.Datetime != ""
}

type DuePresentation struct {
	Inline  string
	Heading string
	Flag    DueFlag
}

// ResolveDueDate parses the pair, preferring the datetime. Date-only values and
// datetimes without an offset are read in loc.
func ResolveDueDate(due *DueSource, loc *time.Location) (time.Time, bool) {
	if due == nil {
		return time.Time{}, false
	}
	value := due.Datetime
	if value == "" {
		value = due.Date
	}
	return parseDue(value, loc)
}

func parseDue(value string, loc *time.Location) (time.Time, bool) {
	if value == "" {
		return time.Time{}, false
	}
	if loc == nil {
		loc = time.Local
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t.In(loc), true
	}
	for _, layout := range []string{floatingLayout, dateLayout} {
		if t, err := time.ParseInLocation(layout, value, loc); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// FormatDueDate buckets the due date against now by calendar day.
func FormatDueDate(due *DueSource, now time.Time) DuePresentation {
	dueDate, ok := ResolveDueDate(due, now.Location())
	if !ok {
		return DuePresentation{Flag: DueNone}
	}

	diff := dayDifference(dueDate, now)
	flag := DueUpcoming
	switch {
	case diff < 0:
		flag = DueOverdue
	case diff == 0:
		flag = DueToday
	case diff == 1:
		flag = DueTomorrow
	}

	datePart := dueDate.Format(displayDate)
	descriptor := describeFlag(flag, diff)

	inline := datePart
	heading := datePart
	if descriptor != "" {
		inline = datePart + " • " + descriptor
		heading = datePart + " · " + descriptor
	}
	if due.HasTime() {
		inline = fmt.Sprintf("%s @ %s", inline, dueDate.Format(displayTime))
	}

	return DuePresentation{
		Inline:  inline,
		Heading: heading,
		Flag:    flag,
	}
}

// FormatDueISO returns the UTC ISO-8601 instant, or an empty string.
func FormatDueISO(due *DueSource, loc *time.Location) string {
	dueDate, ok := ResolveDueDate(due, loc)
	if !ok {
		return ""
	}
	return dueDate.UTC().Format(isoLayout)
}

// FormatStamp renders the org style stamp used on SCHEDULED and DEADLINE lines.
func FormatStamp(t time.Time, withTime bool) string {
	if withTime {
		return t.Format("<2006-01-02 Mon 15:04>")
	}
	return t.Format("<2006-01-02 Mon>")
}

func dayDifference(target, base time.Time) int {
	target = target.In(base.Location())
	ty, tm, td := target.Date()
	by, bm, bd := base.Date()
	t := time.Date(ty, tm, td, 0, 0, 0, 0, time.UTC)
	b := time.Date(by, bm, bd, 0, 0, 0, 0, time.UTC)
	return int(t.Sub(b).Hours() / 24)
}

func describeFlag(flag DueFlag, diff int) string {
	switch flag {
	case DueToday:
		return "Today"
	case DueTomorrow:
		return "Tomorrow"
	case DueOverdue:
		return relativeDays(diff)
	}
	return ""
}

func relativeDays(diff int) string {
	switch {
	case diff == -1:
		return "yesterday"
	case diff < 0:
		return fmt.Sprintf("%d days ago", -diff)
	case diff == 1:
		return "tomorrow"
	default:
		return fmt.Sprintf("in %d days", diff)
	}
}

func dueFromParts(date, datetime string) *DueSource {
	if date == "" && datetime == "" {
		return nil
	}
	if datetime == "" && strings.Contains(date, "T") {
		datetime = date
	}
	return &DueSource{Date: date, Datetime: datetime}
}
