// Package task parses, validates, and updates the tasks file.
package task

import (
	"encoding/json"
	"fmt"
	"time"
)

// TimeLayout is the timestamp layout used in the tasks file:
// ISO-8601 at second precision, no fractional seconds, no zone suffix.
// Times are interpreted in the local time zone.
const TimeLayout = "2006-01-02T15:04:05"

// Timestamp is a time.Time that marshals to the tasks-file layout.
type Timestamp struct {
	time.Time
}

// NewTimestamp returns t truncated to second precision.
func NewTimestamp(t time.Time) Timestamp {
	return Timestamp{t.Truncate(time.Second)}
}

// MarshalJSON encodes the timestamp as a quoted TimeLayout string.
func (t Timestamp) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.Format(TimeLayout))
}

// UnmarshalJSON decodes a quoted TimeLayout string in the local zone.
func (t *Timestamp) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := time.ParseInLocation(TimeLayout, s, time.Local)
	if err != nil {
		return fmt.Errorf("parse timestamp %q: %w", s, err)
	}
	t.Time = parsed
	return nil
}

// Status represents a task status.
type Status string

const (
	StatusTodo       Status = "todo"
	StatusInProgress Status = "in-progress"
	StatusDone       Status = "done"
)

// ParseStatus converts a raw token into a Status. Unknown tokens fail
// with a ValidationError so they are rejected at the boundary instead
// of being compared as raw text at every call site.
func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusTodo, StatusInProgress, StatusDone:
		return Status(s), nil
	default:
		return "", &ValidationError{
			Field: "status",
			Err:   fmt.Errorf("invalid status %q, must be one of: todo, in-progress, done", s),
		}
	}
}

// Task represents a single task in the tracker.
type Task struct {
	ID          int       `json:"id"`
	Description string    `json:"description"`
	Status      Status    `json:"status"`
	CreatedAt   Timestamp `json:"createdAt"`
	UpdatedAt   Timestamp `json:"updatedAt"`
}

// IsZero returns true if the task is empty (has no ID).
func (t *Task) IsZero() bool {
	return t.ID == 0
}

// Collection is the ordered set of tasks persisted together as one unit.
// Insertion order is creation order and is preserved across load/save.
type Collection struct {
	Tasks []Task
}

// Get returns the task with the given id, or nil if not found.
func (c *Collection) Get(id int) *Task {
	for i := range c.Tasks {
		if c.Tasks[i].ID == id {
			return &c.Tasks[i]
		}
	}
	return nil
}

// NextID returns 1 for an empty collection, else 1 + the maximum id.
// Deleting the highest-id task and adding a new one reuses that id;
// the original tool behaves the same way, so callers must not assume
// ids are unique across time, only within the collection.
func (c *Collection) NextID() int {
	max := 0
	for i := range c.Tasks {
		if c.Tasks[i].ID > max {
			max = c.Tasks[i].ID
		}
	}
	return max + 1
}

// List returns the tasks whose status matches filter, in insertion
// order. An empty filter returns every task. The collection is never
// mutated.
func (c *Collection) List(filter Status) []Task {
	if filter == "" {
		out := make([]Task, len(c.Tasks))
		copy(out, c.Tasks)
		return out
	}
	var out []Task
	for _, t := range c.Tasks {
		if t.Status == filter {
			out = append(out, t)
		}
	}
	return out
}

// Counts returns the number of tasks per status.
func (c *Collection) Counts() map[Status]int {
	counts := map[Status]int{
		StatusTodo:       0,
		StatusInProgress: 0,
		StatusDone:       0,
	}
	for _, t := range c.Tasks {
		counts[t.Status]++
	}
	return counts
}
