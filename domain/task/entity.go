package task

import "time"

// Status represents the workflow state of a task.
type Status string

const (
	StatusPending    Status = "PENDING"
	StatusInProgress Status = "IN_PROGRESS"
	StatusDone       Status = "DONE"
)

// Valid reports whether s is a member of the closed status enumeration.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusDone:
		return true
	}
	return false
}

// DateLayout is the wire format for due dates. Due dates are calendar dates
// with no time-of-day component, stored as midnight UTC.
const DateLayout = "2006-01-02"

// ParseDate parses a YYYY-MM-DD date string into its midnight-UTC instant.
func ParseDate(s string) (time.Time, error) {
	return time.Parse(DateLayout, s)
}

// Task is the core domain entity representing a tracked unit of work.
type Task struct {
	ID          string    `gorm:"primarykey;size:36" json:"id"`
	Title       string    `gorm:"size:200;not null" json:"title"`
	Description string    `gorm:"size:1000" json:"description"`
	Status      Status    `gorm:"size:20;not null" json:"status"`
	DueDate     time.Time `gorm:"not null" json:"due_date"`
	Deleted     bool      `gorm:"index" json:"deleted"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TableName returns the table name for the Task model.
func (Task) TableName() string {
	return "tasks"
}

// Equal reports whether two tasks carry the same domain state. Bookkeeping
// timestamps and the deletion marker are not part of the equality contract.
func (t *Task) Equal(o *Task) bool {
	if t == nil || o == nil {
		return t == o
	}
	return t.ID == o.ID &&
		t.Title == o.Title &&
		t.Description == o.Description &&
		t.Status == o.Status &&
		t.DueDate.Equal(o.DueDate)
}
