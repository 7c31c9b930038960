package retrieve

import (
	"context"
	"regexp"
	"strings"
	"todoblocks/internal/query"
)

const unsetProject = "--- ---"

// Settings are the user preferences the retrieval reads.
type Settings struct {
	DefaultProject     string
	ClearTasks         bool
	AppendTodo         bool
	AppendLabels       bool
	AppendTodoistID    bool
	AppendCreationDate bool
	AppendURL          bool
	ProjectAsParent    bool
}

// PreferencesReader exposes the host display preferences.
type PreferencesReader interface {
	DateFormat(ctx context.Context) (string, error)
}

// StaticPreferences answers with a fixed date format.
type StaticPreferences string

func (p StaticPreferences) DateFormat(context.Context) (string, error) {
	return string(p), nil
}

type RenderPreferences struct {
	PrependTodoKeyword bool
	EmbedLabelsInline  bool
	AppendCreationDate bool
	AppendTodoistID    bool
	ShowMetadata       query.MetadataSet
}

// ResolveRenderPreferences combines the settings with an optional query config.
// Without a config the metadata shown comes from the settings, due always on.
func ResolveRenderPreferences(s Settings, cfg *query.Config) RenderPreferences {
	prefs := RenderPreferences{
		PrependTodoKeyword: s.AppendTodo,
		AppendCreationDate: s.AppendCreationDate,
		AppendTodoistID:    s.AppendTodoistID,
	}
	if cfg != nil {
		prefs.ShowMetadata = cfg.Show
		prefs.EmbedLabelsInline = cfg.Show.Has(query.ShowLabels)
		return prefs
	}

	show := query.NewMetadataSet(query.ShowDue)
	if s.AppendLabels {
		show.Add(query.ShowLabels)
	}
	if s.AppendURL {
		show.Add(query.ShowURL)
	}
	prefs.ShowMetadata = show
	prefs.EmbedLabelsInline = s.AppendLabels
	return prefs
}

// ProjectID extracts the id of a "Name (id)" setting. A bare value is taken as the id.
func ProjectID(setting string) string {
	setting = strings.TrimSpace(setting)
	if setting == "" || setting == unsetProject {
		return ""
	}
	if m := projectIDPattern.FindStringSubmatch(setting); m != nil {
		return m[1]
	}
	return setting
}

// ProjectName is the "Name" part of a "Name (id)" setting.
func ProjectName(setting string) string {
	idx := strings.Index(setting, "(")
	if idx < 0 {
		return ""
	}
	return strings.TrimSpace(setting[:idx])
}

var projectIDPattern = regexp.MustCompile(`\((.*?)\)`)
