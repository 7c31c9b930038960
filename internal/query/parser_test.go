package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func requireParseError(t *testing.T, err error) *ParseError {
	t.Helper()
	var perr *ParseError
	require.ErrorAs(t, err, &perr)
	return perr
}

func TestParse_BareFilter(t *testing.T) {
	cfg, warnings, err := Parse("today")
	require.NoError(t, err)

	assert.Equal(t, "today", cfg.Filter)
	assert.Equal(t, GroupHierarchy, cfg.GroupBy)
	assert.Equal(t, []Sorting{SortOrder}, cfg.Sorting)
	assert.Equal(t, DefaultShow(), cfg.Show)
	assert.Empty(t, cfg.Name)
	assert.Zero(t, cfg.Autorefresh)
	assert.Empty(t, warnings)
}

func TestParse_StructuredYAML(t *testing.T) {
	yaml := `
filter: "overdue"
groupBy: project
sorting:
  - dateDescending
show:
  - due
  - project
`
	cfg, warnings, err := Parse(yaml)
	require.NoError(t, err)

	assert.Equal(t, "overdue", cfg.Filter)
	assert.Equal(t, GroupProject, cfg.GroupBy)
	assert.Equal(t, []Sorting{SortDateDescending}, cfg.Sorting)
	assert.Equal(t, NewMetadataSet(ShowDue, ShowProject), cfg.Show)
	assert.Empty(t, warnings)
}

func TestParse_UnknownKeysWarnOncePerKey(t *testing.T) {
	cfg, warnings, err := Parse(`{
  "filter": "today",
  "unknown": true,
  "other": 1
}`)
	require.NoError(t, err)

	assert.Equal(t, "today", cfg.Filter)
	assert.Equal(t, []string{
		"Unknown option 'unknown' was ignored.",
		"Unknown option 'other' was ignored.",
	}, warnings)
}

func TestParse_AliasesAreRecognized(t *testing.T) {
	cfg, warnings, err := Parse("filter: p1\ngroup_by: due\nauto_refresh: 15\n")
	require.NoError(t, err)

	assert.Empty(t, warnings)
	assert.Equal(t, GroupDue, cfg.GroupBy)
	assert.Equal(t, 15, cfg.Autorefresh)
}

func TestParse_MalformedFallsBackToFilter(t *testing.T) {
	raw := "filter: \"today\"\n  invalid"
	cfg, warnings, err := Parse(raw)
	require.NoError(t, err)

	assert.Equal(t, raw, cfg.Filter)
	assert.Equal(t, []string{FallbackWarning}, warnings)
}

func TestParse_EmptyInput(t *testing.T) {
	for _, raw := range []string{"", "   ", "\n\t", "```\n```", "```todoist\n\n```", "```yaml\n   \n```"} {
		cfg, warnings, err := Parse(raw)
		perr := requireParseError(t, err)
		assert.Equal(t, "Query is empty", perr.Message, "raw=%q", raw)
		assert.Empty(t, cfg.Filter)
		assert.Empty(t, warnings)
	}
}

func TestParse_EmptyDefinition(t *testing.T) {
	_, _, err := Parse("~")
	perr := requireParseError(t, err)
	assert.Equal(t, "Query definition is empty", perr.Message)
}

func TestParse_EmptyStringFilter(t *testing.T) {
	_, _, err := Parse(`"  "`)
	perr := requireParseError(t, err)
	assert.Equal(t, "Query filter must be a non-empty string", perr.Message)
}

func TestParse_NonObjectShapes(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{name: "list", raw: "- today\n- overdue"},
		{name: "number", raw: "42"},
		{name: "bool", raw: "true"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := Parse(tt.raw)
			perr := requireParseError(t, err)
			assert.Equal(t, "Query definition must be an object", perr.Message)
		})
	}
}

func TestParse_FencedBlock(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{name: "language tag", raw: "```todoist\nfilter: today\nname: Daily\n```"},
		{name: "yaml tag", raw: "```yaml\nfilter: today\nname: Daily\n```"},
		{name: "no tag", raw: "```\nfilter: today\nname: Daily\n```"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, warnings, err := Parse(tt.raw)
			require.NoError(t, err)
			assert.Equal(t, "today", cfg.Filter)
			assert.Equal(t, "Daily", cfg.Name)
			assert.Empty(t, warnings)
		})
	}
}

func TestParse_SortingDedupe(t *testing.T) {
	cfg, _, err := Parse("filter: today\nsorting: [date, date, priority]")
	require.NoError(t, err)
	assert.Equal(t, []Sorting{SortDateAscending, SortPriorityAscending}, cfg.Sorting)
}

func TestParse_EmptySortingFallsBackToDefault(t *testing.T) {
	cfg, _, err := Parse("filter: today\nsorting: []")
	require.NoError(t, err)
	assert.Equal(t, []Sorting{SortOrder}, cfg.Sorting)
}

func TestParse_ShowNone(t *testing.T) {
	cfg, _, err := Parse("filter: today\nshow: none")
	require.NoError(t, err)
	assert.Empty(t, cfg.Show)
	assert.False(t, cfg.Show.Has(ShowDue))
}

func TestParse_ValidationDetails(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		details []string
	}{
		{
			name:    "missing filter",
			raw:     "name: nope",
			details: []string{"filter is required (filter)"},
		},
		{
			name:    "negative autorefresh",
			raw:     "filter: today\nautorefresh: -1",
			details: []string{"autorefresh must be greater or equal to 0 (autorefresh)"},
		},
		{
			name:    "fractional autorefresh",
			raw:     "filter: today\nautorefresh: 1.5",
			details: []string{"autorefresh must be an integer (autorefresh)"},
		},
		{
			name:    "bad sorting entry",
			raw:     "filter: today\nsorting: [order, sideways]",
			details: []string{"sorting must be one of order, date, dateDescending, priority, priorityDescending, dateAdded, dateAddedDescending (sorting.1)"},
		},
		{
			name:    "bad grouping",
			raw:     "filter: today\ngroupBy: color",
			details: []string{"groupBy must be one of hierarchy, project, section, due, labels, priority (groupBy)"},
		},
		{
			name:    "bad show",
			raw:     "filter: today\nshow: all",
			details: []string{`show must be a list of metadata kinds or "none" (show)`},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := Parse(tt.raw)
			perr := requireParseError(t, err)
			assert.Equal(t, "Invalid query configuration", perr.Message)
			assert.Equal(t, tt.details, perr.Details)
		})
	}
}

func TestParse_NumericStringAutorefresh(t *testing.T) {
	cfg, _, err := Parse(`{"filter": "today", "autorefresh": "30"}`)
	require.NoError(t, err)
	assert.Equal(t, 30, cfg.Autorefresh)
}
