package retrieve

import (
	"cmp"
	"math"
	"slices"
	"time"
	"todoblocks/internal/query"
)

// SortByOptions applies each rule as a stable sort of the whole list, in order.
// The last rule therefore decides the final order and earlier rules only break
// its ties. The input slice is left untouched.
func SortByOptions(tasks []DisplayTask, rules []query.Sorting) []DisplayTask {
	out := slices.Clone(tasks)
	for _, rule := range rules {
		slices.SortStableFunc(out, comparator(rule))
	}
	return out
}

func comparator(rule query.Sorting) func(a, b DisplayTask) int {
	switch rule {
	case query.SortDateAscending:
		return func(a, b DisplayTask) int { return compareDue(a, b, false) }
	case query.SortDateDescending:
		return func(a, b DisplayTask) int { return compareDue(a, b, true) }
	case query.SortPriorityAscending:
		return func(a, b DisplayTask) int { return cmp.Compare(a.Source.Priority, b.Source.Priority) }
	case query.SortPriorityDescending:
		return func(a, b DisplayTask) int { return cmp.Compare(b.Source.Priority, a.Source.Priority) }
	case query.SortAddedAscending:
		// missing timestamps count as +Inf
		return func(a, b DisplayTask) int {
			return cmp.Compare(addedAt(a, math.Inf(1)), addedAt(b, math.Inf(1)))
		}
	case query.SortAddedDescending:
		// missing timestamps count as 0, the oldest possible instant
		return func(a, b DisplayTask) int {
			return cmp.Compare(addedAt(b, 0), addedAt(a, 0))
		}
	default:
		return func(a, b DisplayTask) int { return cmp.Compare(a.Source.ChildOrder, b.Source.ChildOrder) }
	}
}

// compareDue keeps tasks without a due date at the end in both directions.
func compareDue(a, b DisplayTask, descending bool) int {
	switch {
	case !a.HasDue() && !b.HasDue():
		return 0
	case !a.HasDue():
		return 1
	case !b.HasDue():
		return -1
	}
	if descending {
		return b.DueDate.Compare(a.DueDate)
	}
	return a.DueDate.Compare(b.DueDate)
}

func addedAt(t DisplayTask, missing float64) float64 {
	if t.Source.AddedAt == "" {
		return missing
	}
	added, err := time.Parse(time.RFC3339Nano, t.Source.AddedAt)
	if err != nil {
		return missing
	}
	return float64(added.UnixMilli())
}
