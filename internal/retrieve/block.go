package retrieve

import (
	"fmt"
	"regexp"
	"strings"
	"todoblocks/internal/query"
)

const (
	PropTodoistID   = "todoistid"
	PropComments    = "comments"
	PropAttachments = "attachments"
	PropCreated     = "created"
	PropDeadline    = "todoist_deadline"
	PropDue         = "todoist_due"
	PropDescription = "todoist_description"
	PropProject     = "todoist_project"
	PropSection     = "todoist_section"
	PropLabels      = "todoist_labels"
	PropURL         = "todoist_url"
	PropQuery       = "todoist_query"
)

var keywordPattern = regexp.MustCompile(`^(TODO|LATER|NOW|DOING|DONE|WAITING|CANCELED)\s+`)

// TaskBlock is one output block. Properties is nil when there are none.
type TaskBlock struct {
	Content    string            `json:"content"`
	Children   []*TaskBlock      `json:"children"`
	Properties map[string]string `json:"properties,omitempty"`
}

func NewTaskBlock(content string, properties map[string]string, children ...*TaskBlock) *TaskBlock {
	if len(properties) == 0 {
		properties = nil
	}
	if children == nil {
		children = []*TaskBlock{}
	}
	return &TaskBlock{Content: content, Children: children, Properties: properties}
}

// BuildBlocks renders display tasks into blocks, nesting by parent id in
// hierarchy mode and under one heading block per group otherwise.
func BuildBlocks(tasks []DisplayTask, prefs RenderPreferences, cfg query.Config) []*TaskBlock {
	if cfg.GroupBy == "" || cfg.GroupBy == query.GroupHierarchy {
		return buildHierarchyBlocks(SortByOptions(tasks, sortingOrDefault(cfg)), prefs, cfg)
	}

	groups := GroupTasks(tasks, cfg.GroupBy)
	blocks := make([]*TaskBlock, 0, len(groups))
	for _, group := range groups {
		sorted := SortByOptions(group.Tasks, sortingOrDefault(cfg))
		children := make([]*TaskBlock, 0, len(sorted))
		for _, task := range sorted {
			children = append(children, renderTaskBlock(task, prefs, cfg))
		}
		blocks = append(blocks, NewTaskBlock(group.Heading, nil, children...))
	}
	return blocks
}

func buildHierarchyBlocks(tasks []DisplayTask, prefs RenderPreferences, cfg query.Config) []*TaskBlock {
	byID := make(map[string]*TaskBlock, len(tasks))
	for _, task := range tasks {
		byID[task.Source.ID] = renderTaskBlock(task, prefs, cfg)
	}

	roots := make([]*TaskBlock, 0, len(tasks))
	for _, task := range tasks {
		block := byID[task.Source.ID]
		if parent, ok := byID[task.Source.ParentID]; ok && task.Source.ParentID != "" && parent != block {
			parent.Children = append(parent.Children, block)
			continue
		}
		roots = append(roots, block)
	}
	return roots
}

func sortingOrDefault(cfg query.Config) []query.Sorting {
	if len(cfg.Sorting) == 0 {
		return query.DefaultSorting()
	}
	return cfg.Sorting
}

func renderTaskBlock(task DisplayTask, prefs RenderPreferences, cfg query.Config) *TaskBlock {
	return NewTaskBlock(TaskContent(task, prefs), TaskProperties(task, prefs, cfg))
}

// TaskContent renders the block text: keyword, inline labels, metadata summary,
// then SCHEDULED and DEADLINE lines.
func TaskContent(task DisplayTask, prefs RenderPreferences) string {
	content := task.Source.Content
	if prefs.PrependTodoKeyword && !keywordPattern.MatchString(content) {
		content = "TODO " + content
	}

	if prefs.EmbedLabelsInline && len(task.LabelNames) > 0 {
		links := make([]string, len(task.LabelNames))
		for i, label := range task.LabelNames {
			links[i] = fmt.Sprintf("[[%s]]", label)
		}
		content = strings.TrimSpace(content + " " + strings.Join(links, " "))
	}

	showDue := prefs.ShowMetadata.Has(query.ShowDue)
	var inline []string
	if showDue && task.DueInline != "" {
		inline = append(inline, task.DueInline)
	}
	if prefs.ShowMetadata.Has(query.ShowProject) && task.Project != nil {
		inline = append(inline, task.Project.Name)
	}
	if len(inline) > 0 {
		content = content + " — " + strings.Join(inline, " | ")
	}

	if showDue && task.HasDue() {
		content += "\nSCHEDULED: " + FormatStamp(task.DueDate, task.DueHasTime)
	}
	if showDue && task.Source.Deadline != nil && task.Source.Deadline.Date != "" {
		if deadline, ok := ResolveDueDate(&DueSource{Date: task.Source.Deadline.Date}, task.DueDate.Location()); ok {
			content += "\nDEADLINE: " + FormatStamp(deadline, false)
		}
	}
	return content
}

// TaskProperties returns the fully formed property map of a task block. Every
// key is gated by its preference or metadata kind and only set when non-empty.
func TaskProperties(task DisplayTask, prefs RenderPreferences, cfg query.Config) map[string]string {
	show := prefs.ShowMetadata
	props := make(map[string]string)
	set := func(enabled bool, key, value string) {
		if enabled && value != "" {
			props[key] = value
		}
	}

	set(prefs.AppendTodoistID, PropTodoistID, task.Source.ID)
	set(true, PropComments, task.Annotations.Comments)
	set(true, PropAttachments, task.Annotations.Attachments)
	set(prefs.AppendCreationDate, PropCreated, task.CreationDate)
	if task.Source.Deadline != nil {
		set(true, PropDeadline, task.Source.Deadline.Date)
	}
	set(show.Has(query.ShowDue), PropDue, task.DueISO)
	set(show.Has(query.ShowDescription), PropDescription, task.Source.Description)
	if task.Project != nil {
		set(show.Has(query.ShowProject), PropProject, task.Project.Name)
	}
	if task.Section != nil {
		set(cfg.GroupBy == query.GroupSection, PropSection, task.Section.Name)
	}
	set(show.Has(query.ShowLabels), PropLabels, strings.Join(task.LabelNames, ", "))
	set(show.Has(query.ShowURL), PropURL, task.Source.Link())
	return props
}
