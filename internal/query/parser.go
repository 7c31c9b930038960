package query

import (
	"fmt"
	"math"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/hay-kot/criterio"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

const (
	FallbackWarning = "Unable to parse query as YAML or JSON. Treating content as Todoist filter."

	errEmptyQuery      = "Query is empty"
	errEmptyDefinition = "Query definition is empty"
	errEmptyFilter     = "Query filter must be a non-empty string"
	errNotObject       = "Query definition must be an object"
	errInvalidConfig   = "Invalid query configuration"
)

var (
	fencePattern = regexp.MustCompile("(?s)^```(?:[\\w-]+[ \\t]*\\r?\\n)?(.*?)```")

	knownKeys  = []string{"name", "filter", "autorefresh", "groupBy", "sorting", "show"}
	keyAliases = map[string]string{
		"group_by":     "groupBy",
		"auto_refresh": "autorefresh",
	}
)

// Parse turns raw block text into a Config. Structured text is YAML (and so JSON);
// text that fails to parse is kept as a bare filter with a warning.
func Parse(raw string) (Config, []string, error) {
	source := extractSource(raw)
	if source == "" {
		return Config{}, nil, &ParseError{Message: errEmptyQuery}
	}

	var doc yaml.Node
	if err := yaml.Unmarshal([]byte(source), &doc); err != nil {
		return FilterOnly(source), []string{FallbackWarning}, nil
	}
	if len(doc.Content) == 0 {
		return Config{}, nil, &ParseError{Message: errEmptyDefinition}
	}

	root := doc.Content[0]
	if root.Kind == yaml.AliasNode && root.Alias != nil {
		root = root.Alias
	}
	switch root.Kind {
	case yaml.ScalarNode:
		switch root.ShortTag() {
		case "!!null":
			return Config{}, nil, &ParseError{Message: errEmptyDefinition}
		case "!!str":
			filter := strings.TrimSpace(root.Value)
			if filter == "" {
				return Config{}, nil, &ParseError{Message: errEmptyFilter}
			}
			return FilterOnly(filter), nil, nil
		}
	case yaml.MappingNode:
		fields, order, err := decodeMapping(root)
		if err != nil {
			return Config{}, nil, &ParseError{Message: err.Error()}
		}
		return fromFields(fields, order)
	}
	return Config{}, nil, &ParseError{Message: errNotObject}
}

func extractSource(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if strings.HasPrefix(trimmed, "```") {
		if m := fencePattern.FindStringSubmatch(trimmed); m != nil {
			return strings.TrimSpace(m[1])
		}
	}
	return trimmed
}

// decodeMapping returns the top level keys, aliases already folded into their
// canonical names, together with their first-seen order.
func decodeMapping(node *yaml.Node) (map[string]any, []string, error) {
	fields := make(map[string]any, len(node.Content)/2)
	order := make([]string, 0, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		key := node.Content[i].Value
		if canonical, ok := keyAliases[key]; ok {
			key = canonical
		}
		var value any
		if err := node.Content[i+1].Decode(&value); err != nil {
			return nil, nil, errors.Wrapf(err, "error decoding %s", key)
		}
		if _, seen := fields[key]; !seen {
			order = append(order, key)
		}
		fields[key] = value
	}
	return fields, order, nil
}

func fromFields(fields map[string]any, order []string) (Config, []string, error) {
	var warnings []string
	for _, key := range order {
		if !slices.Contains(knownKeys, key) {
			warnings = append(warnings, fmt.Sprintf("Unknown option '%s' was ignored.", key))
		}
	}

	err := criterio.ValidateStruct(
		criterio.Run("name", fields["name"], validateName),
		criterio.Run("filter", fields["filter"], validateFilter),
		criterio.Run("autorefresh", fields["autorefresh"], validateAutorefresh),
		criterio.Run("groupBy", fields["groupBy"], validateGrouping),
		validateSorting(fields["sorting"]),
		validateShow(fields["show"]),
	)
	if err != nil {
		return Config{}, nil, &ParseError{Message: errInvalidConfig, Details: fieldDetails(err)}
	}

	name, _ := toName(fields["name"])
	filter, _ := toFilter(fields["filter"])
	autorefresh, _ := toAutorefresh(fields["autorefresh"])
	groupBy, _ := toGrouping(fields["groupBy"])
	sorting, _ := toSorting(fields["sorting"])
	show, _ := toShow(fields["show"])

	return Config{
		Name:        name,
		Filter:      filter,
		Autorefresh: autorefresh,
		GroupBy:     groupBy,
		Sorting:     dedupeSorting(sorting),
		Show:        show,
	}, warnings, nil
}

func fieldDetails(err error) []string {
	var fieldErrs criterio.FieldErrors
	if !errors.As(err, &fieldErrs) {
		return []string{err.Error()}
	}
	details := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		if fe.Field == "" {
			details = append(details, fe.Err.Error())
			continue
		}
		details = append(details, fmt.Sprintf("%s (%s)", fe.Err.Error(), fe.Field))
	}
	return details
}

func dedupeSorting(sorting []Sorting) []Sorting {
	seen := make(map[Sorting]struct{}, len(sorting))
	out := make([]Sorting, 0, len(sorting))
	for _, s := range sorting {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	if len(out) == 0 {
		return DefaultSorting()
	}
	return out
}

func validateName(v any) error {
	_, err := toName(v)
	return err
}

func validateFilter(v any) error {
	_, err := toFilter(v)
	return err
}

func validateGrouping(v any) error {
	_, err := toGrouping(v)
	return err
}

func validateAutorefresh(v any) error {
	_, err := toAutorefresh(v)
	return err
}

func toName(v any) (string, error) {
	if v == nil {
		return "", nil
	}
	s, ok := v.(string)
	if !ok {
		return "", errors.New("name must be a string")
	}
	return s, nil
}

func toFilter(v any) (string, error) {
	if v == nil {
		return "", errors.New("filter is required")
	}
	s, ok := v.(string)
	if !ok || strings.TrimSpace(s) == "" {
		return "", errors.New("filter must be a non-empty string")
	}
	return strings.TrimSpace(s), nil
}

func toAutorefresh(v any) (int, error) {
	var f float64
	switch n := v.(type) {
	case nil:
		return 0, nil
	case int:
		f = float64(n)
	case int64:
		f = float64(n)
	case uint64:
		f = float64(n)
	case float64:
		f = n
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return 0, errors.New("autorefresh must be a number")
		}
		f = parsed
	default:
		return 0, errors.New("autorefresh must be a number")
	}
	if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return 0, errors.New("autorefresh must be an integer")
	}
	if f < 0 {
		return 0, errors.New("autorefresh must be greater or equal to 0")
	}
	return int(f), nil
}

func toGrouping(v any) (Grouping, error) {
	if v == nil {
		return GroupHierarchy, nil
	}
	if s, ok := v.(string); ok {
		for _, g := range groupings {
			if string(g) == s {
				return g, nil
			}
		}
	}
	return "", errors.New(fmt.Sprintf("groupBy must be one of %s", joinOptions(groupings)))
}

func validateSorting(v any) error {
	if v == nil {
		return nil
	}
	items, ok := v.([]any)
	if !ok {
		return criterio.NewFieldErrors("sorting", errors.New("sorting must be a list"))
	}
	var errs criterio.FieldErrorsBuilder
	for i, item := range items {
		if _, ok := sortingOption(item); !ok {
			errs = errs.Append(fmt.Sprintf("sorting.%d", i),
				errors.New(fmt.Sprintf("sorting must be one of %s", joinOptions(sortings))))
		}
	}
	return errs.ToError()
}

func toSorting(v any) ([]Sorting, error) {
	if v == nil {
		return DefaultSorting(), nil
	}
	if err := validateSorting(v); err != nil {
		return nil, err
	}
	items := v.([]any)
	out := make([]Sorting, 0, len(items))
	for _, item := range items {
		s, _ := sortingOption(item)
		out = append(out, s)
	}
	return out, nil
}

func sortingOption(v any) (Sorting, bool) {
	s, ok := v.(string)
	if !ok {
		return "", false
	}
	for _, opt := range sortings {
		if string(opt) == s {
			return opt, true
		}
	}
	return "", false
}

func validateShow(v any) error {
	switch items := v.(type) {
	case nil:
		return nil
	case string:
		if items == "none" {
			return nil
		}
	case []any:
		var errs criterio.FieldErrorsBuilder
		for i, item := range items {
			if _, ok := metadataOption(item); !ok {
				errs = errs.Append(fmt.Sprintf("show.%d", i),
					errors.New(fmt.Sprintf("show must be one of %s", joinOptions(metadataKinds))))
			}
		}
		return errs.ToError()
	}
	return criterio.NewFieldErrors("show", errors.New(`show must be a list of metadata kinds or "none"`))
}

func toShow(v any) (MetadataSet, error) {
	if err := validateShow(v); err != nil {
		return nil, err
	}
	switch items := v.(type) {
	case string:
		return NewMetadataSet(), nil
	case []any:
		set := NewMetadataSet()
		for _, item := range items {
			m, _ := metadataOption(item)
			set.Add(m)
		}
		return set, nil
	}
	return DefaultShow(), nil
}

func metadataOption(v any) (Metadata, bool) {
	s, ok := v.(string)
	if !ok {
		return "", false
	}
	for _, opt := range metadataKinds {
		if string(opt) == s {
			return opt, true
		}
	}
	return "", false
}

func joinOptions[T ~string](opts []T) string {
	parts := make([]string, len(opts))
	for i, o := range opts {
		parts[i] = string(o)
	}
	return strings.Join(parts, ", ")
}
