package query

type Grouping string

const (
	GroupHierarchy Grouping = "hierarchy"
	GroupProject   Grouping = "project"
	GroupSection   Grouping = "section"
	GroupDue       Grouping = "due"
	GroupLabels    Grouping = "labels"
	GroupPriority  Grouping = "priority"
)

var groupings = []Grouping{GroupHierarchy, GroupProject, GroupSection, GroupDue, GroupLabels, GroupPriority}

type Sorting string

const (
	SortOrder              Sorting = "order"
	SortDateAscending      Sorting = "date"
	SortDateDescending     Sorting = "dateDescending"
	SortPriorityAscending  Sorting = "priority"
	SortPriorityDescending Sorting = "priorityDescending"
	SortAddedAscending     Sorting = "dateAdded"
	SortAddedDescending    Sorting = "dateAddedDescending"
)

var sortings = []Sorting{
	SortOrder,
	SortDateAscending,
	SortDateDescending,
	SortPriorityAscending,
	SortPriorityDescending,
	SortAddedAscending,
	SortAddedDescending,
}

type Metadata string

const (
	ShowDue         Metadata = "due"
	ShowDescription Metadata = "description"
	ShowLabels      Metadata = "labels"
	ShowProject     Metadata = "project"
	ShowURL         Metadata = "url"
)

var metadataKinds = []Metadata{ShowDue, ShowDescription, ShowLabels, ShowProject, ShowURL}

// MetadataSet holds the enabled metadata kinds. Only membership matters.
type MetadataSet map[Metadata]struct{}

func NewMetadataSet(kinds ...Metadata) MetadataSet {
	set := make(MetadataSet, len(kinds))
	for _, k := range kinds {
		set[k] = struct{}{}
	}
	return set
}

func (s MetadataSet) Has(kind Metadata) bool {
	_, ok := s[kind]
	return ok
}

func (s MetadataSet) Add(kind Metadata) {
	s[kind] = struct{}{}
}

// Config is the validated form of a user query.
type Config struct {
	Name        string
	Filter      string
	Autorefresh int
	GroupBy     Grouping
	Sorting     []Sorting
	Show        MetadataSet
}

// DefaultSorting is a fresh copy of the single service-native order rule.
func DefaultSorting() []Sorting {
	return []Sorting{SortOrder}
}

func DefaultShow() MetadataSet {
	return NewMetadataSet(ShowDue, ShowDescription, ShowLabels, ShowProject)
}

// FilterOnly builds a configuration where everything but the filter is defaulted.
func FilterOnly(filter string) Config {
	return Config{
		Filter:  filter,
		GroupBy: GroupHierarchy,
		Sorting: DefaultSorting(),
		Show:    DefaultShow(),
	}
}

// ParseError aborts a query. Details carry one line per violated rule.
type ParseError struct {
	Message string
	Details []string
}

func (e *ParseError) Error() string {
	return e.Message
}
