package vikunja

import "time"

// zeroDate is the sentinel Vikunja uses for unset timestamps.
const zeroDate = "0001-01-01T00:00:00Z"

// Project is a Vikunja project.
type Project struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	ParentID    int64  `json:"parent_project_id,omitempty"`
	IsArchived  bool   `json:"is_archived,omitempty"`
	IsFavorite  bool   `json:"is_favorite,omitempty"`
}

// Task is a Vikunja task. Unset dates decode to the zero time.Time, so
// callers can use IsZero instead of comparing against the API's
// "0001-01-01" sentinel.
type Task struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Done        bool      `json:"done"`
	DoneAt      time.Time `json:"done_at,omitempty"`
	DueDate     time.Time `json:"due_date,omitempty"`
	StartDate   time.Time `json:"start_date,omitempty"`
	EndDate     time.Time `json:"end_date,omitempty"`
	Priority    int       `json:"priority,omitempty"`
	ProjectID   int64     `json:"project_id"`
	BucketID    int64     `json:"bucket_id,omitempty"`
	Labels      []Label   `json:"labels,omitempty"`
	Assignees   []User    `json:"assignees,omitempty"`
	Position    float64   `json:"position,omitempty"`
	PercentDone float64   `json:"percent_done,omitempty"`
	RepeatAfter int64     `json:"repeat_after,omitempty"`
	RepeatMode  int       `json:"repeat_mode,omitempty"`

	// RelatedTasks maps relation kind to the tasks on the other side.
	RelatedTasks map[string][]Task `json:"related_tasks,omitempty"`

	CreatedBy   *User     `json:"created_by,omitempty"`
	Created     time.Time `json:"created,omitempty"`
	Updated     time.Time `json:"updated,omitempty"`
}

// Label is a Vikunja label.
type Label struct {
	ID       int64  `json:"id"`
	Title    string `json:"title"`
	HexColor string `json:"hex_color,omitempty"`
}

// User is a Vikunja user.
type User struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Name     string `json:"name,omitempty"`
	Email    string `json:"email,omitempty"`
}

// View kinds as reported by the project views endpoint.
const (
	ViewKindList   = "list"
	ViewKindKanban = "kanban"
	ViewKindTable  = "table"
	ViewKindGantt  = "gantt"
)

// View is a project view, e.g. the kanban board.
type View struct {
	ID        int64  `json:"id"`
	Title     string `json:"title"`
	ProjectID int64  `json:"project_id"`
	ViewKind  string `json:"view_kind"`
}

// Bucket is a kanban column. Tasks is populated when listing buckets
// through a kanban view.
type Bucket struct {
	ID            int64  `json:"id"`
	Title         string `json:"title"`
	ProjectViewID int64  `json:"project_view_id,omitempty"`
	Limit         int    `json:"limit,omitempty"`
	Count         int    `json:"count,omitempty"`
	Position      float64 `json:"position,omitempty"`
	Tasks         []Task `json:"tasks,omitempty"`
}

// Relation kinds accepted by the task relations endpoint.
const (
	RelationSubtask     = "subtask"
	RelationParenttask  = "parenttask"
	RelationRelated     = "related"
	RelationBlocking    = "blocking"
	RelationBlocked     = "blocked"
	RelationPrecedes    = "precedes"
	RelationFollows     = "follows"
	RelationDuplicates  = "duplicates"
	RelationDuplicateOf = "duplicateof"
)

// TaskInput carries fields for task creation and partial updates. Nil
// pointer fields are omitted from the request so updates only touch what
// the caller set.
type TaskInput struct {
	Title       *string    `json:"title,omitempty"`
	Description *string    `json:"description,omitempty"`
	Done        *bool      `json:"done,omitempty"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	StartDate   *time.Time `json:"start_date,omitempty"`
	EndDate     *time.Time `json:"end_date,omitempty"`
	Priority    *int       `json:"priority,omitempty"`
	ProjectID   *int64     `json:"project_id,omitempty"`
	RepeatAfter *int64     `json:"repeat_after,omitempty"`
	RepeatMode  *int       `json:"repeat_mode,omitempty"`
}

// payload renders the input as a JSON-ready map. Zero times encode as the
// API's unset-date sentinel so a due date can be cleared explicitly.
func (in TaskInput) payload() map[string]interface{} {
	p := map[string]interface{}{}
	if in.Title != nil {
		p["title"] = *in.Title
	}
	if in.Description != nil {
		p["description"] = *in.Description
	}
	if in.Done != nil {
		p["done"] = *in.Done
	}
	if in.DueDate != nil {
		p["due_date"] = encodeDate(*in.DueDate)
	}
	if in.StartDate != nil {
		p["start_date"] = encodeDate(*in.StartDate)
	}
	if in.EndDate != nil {
		p["end_date"] = encodeDate(*in.EndDate)
	}
	if in.Priority != nil {
		p["priority"] = *in.Priority
	}
	if in.ProjectID != nil {
		p["project_id"] = *in.ProjectID
	}
	if in.RepeatAfter != nil {
		p["repeat_after"] = *in.RepeatAfter
	}
	if in.RepeatMode != nil {
		p["repeat_mode"] = *in.RepeatMode
	}
	return p
}

func encodeDate(t time.Time) string {
	if t.IsZero() {
		return zeroDate
	}
	return t.UTC().Format(time.RFC3339)
}

// IsEmpty reports whether the input carries no field changes.
func (in TaskInput) IsEmpty() bool {
	return len(in.payload()) == 0
}

// Ptr returns a pointer to v. Convenience for building TaskInput values.
func Ptr[T any](v T) *T {
	return &v
}
