package retrieve

import (
	"cmp"
	"fmt"
	"math"
	"slices"
	"todoblocks/internal/query"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

const (
	noProject = "No Project"
	noSection = "No Section"
	noLabels  = "No Labels"
	noDueDate = "No Due Date"
)

type Group struct {
	Heading string
	Order   int
	Tasks   []DisplayTask
}

// GroupTasks partitions tasks into ordered buckets. Hierarchy mode has no buckets.
func GroupTasks(tasks []DisplayTask, groupBy query.Grouping) []Group {
	switch groupBy {
	case query.GroupProject:
		return groupByProject(tasks)
	case query.GroupSection:
		return groupBySection(tasks)
	case query.GroupDue:
		return groupByDue(tasks)
	case query.GroupPriority:
		return groupByPriority(tasks)
	case query.GroupLabels:
		return groupByLabel(tasks)
	}
	return nil
}

// buckets keeps groups in first-seen order so that equal orders stay stable.
type buckets struct {
	index  map[string]int
	groups []Group
}

func newBuckets() *buckets {
	return &buckets{index: make(map[string]int)}
}

func (b *buckets) add(key, heading string, order int, task DisplayTask) {
	i, ok := b.index[key]
	if !ok {
		i = len(b.groups)
		b.index[key] = i
		b.groups = append(b.groups, Group{Heading: heading, Order: order})
	}
	b.groups[i].Tasks = append(b.groups[i].Tasks, task)
}

func (b *buckets) byOrder() []Group {
	slices.SortStableFunc(b.groups, func(x, y Group) int { return cmp.Compare(x.Order, y.Order) })
	return b.groups
}

func groupByProject(tasks []DisplayTask) []Group {
	b := newBuckets()
	for _, task := range tasks {
		name, order := noProject, math.MaxInt
		if task.Project != nil {
			name, order = task.Project.Name, task.Project.Order
		}
		b.add(name, name, order, task)
	}
	return b.byOrder()
}

func groupBySection(tasks []DisplayTask) []Group {
	b := newBuckets()
	for _, task := range tasks {
		project, section, order := noProject, noSection, math.MaxInt
		if task.Project != nil {
			project = task.Project.Name
		}
		if task.Section != nil {
			section, order = task.Section.Name, task.Section.Order
		}
		key := fmt.Sprintf("%s / %s", project, section)
		b.add(key, key, order, task)
	}
	return b.byOrder()
}

func groupByDue(tasks []DisplayTask) []Group {
	b := newBuckets()
	for _, task := range tasks {
		var heading string
		var order int
		switch task.DueFlag {
		case DueOverdue:
			heading, order = "Overdue", 0
		case DueToday:
			heading, order = "Today", 1
		case DueTomorrow:
			heading, order = "Tomorrow", 2
		case DueUpcoming:
			heading, order = task.DueHeading, 3
			if heading == "" {
				heading = "Upcoming"
			}
		default:
			heading, order = noDueDate, 4
		}
		b.add(heading, heading, order, task)
	}
	return b.byOrder()
}

// groupByPriority orders buckets urgent (4) first.
func groupByPriority(tasks []DisplayTask) []Group {
	b := newBuckets()
	for _, task := range tasks {
		p := task.Source.Priority
		b.add(fmt.Sprint(p), fmt.Sprintf("Priority %d", p), -p, task)
	}
	return b.byOrder()
}

// groupByLabel files each task under its alphabetically first label.
func groupByLabel(tasks []DisplayTask) []Group {
	b := newBuckets()
	for _, task := range tasks {
		if len(task.LabelNames) == 0 {
			b.add(noLabels, noLabels, 1, task)
			continue
		}
		primary := slices.Min(task.LabelNames)
		b.add("label:"+primary, primary, 0, task)
	}

	coll := collate.New(language.Und)
	slices.SortStableFunc(b.groups, func(x, y Group) int {
		if x.Order != y.Order {
			return cmp.Compare(x.Order, y.Order)
		}
		return coll.CompareString(x.Heading, y.Heading)
	})
	return b.groups
}
