package todoist

import "fmt"

const appTaskURL = "https://app.todoist.com/app/task/%s"

// Page is one page of a cursor paginated list endpoint.
type Page[T any] struct {
	Results    []T     `json:"results"`
	NextCursor *string `json:"next_cursor"`
}

// Next returns the cursor of the following page, empty when this is the last one.
func (p Page[T]) Next() string {
	if p.NextCursor == nil {
		return ""
	}
	return *p.NextCursor
}

type Task struct {
	ID          string    `json:"id,omitempty"`
	ProjectID   string    `json:"project_id,omitempty"`
	SectionID   string    `json:"section_id,omitempty"`
	ParentID    string    `json:"parent_id,omitempty"`
	ChildOrder  int       `json:"child_order,omitempty"`
	Content     string    `json:"content,omitempty"`
	Description string    `json:"description,omitempty"`
	Labels      []string  `json:"labels,omitempty"`
	Priority    int       `json:"priority,omitempty"`
	NoteCount   int       `json:"note_count,omitempty"`
	AddedAt     string    `json:"added_at,omitempty"`
	Due         *TaskDue  `json:"due,omitempty"`
	Deadline    *Deadline `json:"deadline,omitempty"`
	Duration    *Duration `json:"duration,omitempty"`
	URL         string    `json:"url,omitempty"`
}

// Link returns the task url, building the web app link when the api did not send one.
func (t Task) Link() string {
	if t.URL != "" {
		return t.URL
	}
	if t.ID == "" {
		return ""
	}
	return fmt.Sprintf(appTaskURL, t.ID)
}

type TaskDue struct {
	Date        string `json:"date,omitempty"`
	String      string `json:"string,omitempty"`
	Lang        string `json:"lang,omitempty"`
	IsRecurring bool   `json:"is_recurring,omitempty"`
	Datetime    string `json:"datetime,omitempty"`
	Timezone    string `json:"timezone,omitempty"`
}

type Deadline struct {
	Date string `json:"date,omitempty"`
	Lang string `json:"lang,omitempty"`
}

type Duration struct {
	Amount int    `json:"amount,omitempty"`
	Unit   string `json:"unit,omitempty"`
}

type Project struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	ParentID   string `json:"parent_id,omitempty"`
	ChildOrder int    `json:"child_order"`
	IsArchived bool   `json:"is_archived,omitempty"`
}

type Section struct {
	ID           string `json:"id"`
	ProjectID    string `json:"project_id"`
	Name         string `json:"name"`
	SectionOrder int    `json:"section_order"`
}

type Label struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	ItemOrder  int    `json:"item_order,omitempty"`
	IsFavorite bool   `json:"is_favorite,omitempty"`
}

type Comment struct {
	ID             string          `json:"id"`
	TaskID         string          `json:"item_id,omitempty"`
	Content        string          `json:"content"`
	PostedAt       string          `json:"posted_at,omitempty"`
	FileAttachment *FileAttachment `json:"file_attachment,omitempty"`
}

type FileAttachment struct {
	FileName     string `json:"file_name,omitempty"`
	FileType     string `json:"file_type,omitempty"`
	FileURL      string `json:"file_url,omitempty"`
	ResourceType string `json:"resource_type,omitempty"`
}
