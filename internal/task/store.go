package task

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Store owns load/save/mutate operations over the task collection
// persisted at a single file path. It holds no other state: every
// invocation loads the collection fresh, mutates it in memory, and
// writes it back wholesale.
type Store struct {
	path string
	now  func() time.Time
}

// NewStore returns a store backed by the tasks file at path.
func NewStore(path string) *Store {
	return &Store{
		path: path,
		now:  time.Now,
	}
}

// Path returns the tasks file path the store operates on.
func (s *Store) Path() string {
	return s.path
}

// Load reads and parses the tasks file. If the file does not exist,
// an empty collection is created and persisted before returning.
func (s *Store) Load() (*Collection, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			c := &Collection{Tasks: []Task{}}
			if err := s.Save(c); err != nil {
				return nil, err
			}
			return c, nil
		}
		return nil, &StorageError{Op: "read", Path: s.path, Err: err}
	}

	var tasks []Task
	if err := json.Unmarshal(data, &tasks); err != nil {
		return nil, &StorageError{Op: "parse", Path: s.path, Err: err}
	}

	return &Collection{Tasks: tasks}, nil
}

// Save writes the full collection with 2-space indentation and a
// trailing newline, replacing any prior content. The data is written
// to a temporary file in the same directory and renamed into place so
// a failed write never leaves a half-written tasks file.
func (s *Store) Save(c *Collection) error {
	tasks := c.Tasks
	if tasks == nil {
		tasks = []Task{}
	}

	data, err := json.MarshalIndent(tasks, "", "  ")
	if err != nil {
		return &StorageError{Op: "write", Path: s.path, Err: err}
	}
	data = append(data, '\n')

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, ".tasks-*.json")
	if err != nil {
		return &StorageError{Op: "write", Path: s.path, Err: err}
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return &StorageError{Op: "write", Path: s.path, Err: err}
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return &StorageError{Op: "write", Path: s.path, Err: err}
	}
	if err := os.Chmod(tmpPath, 0644); err != nil {
		os.Remove(tmpPath)
		return &StorageError{Op: "write", Path: s.path, Err: err}
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		os.Remove(tmpPath)
		return &StorageError{Op: "write", Path: s.path, Err: err}
	}

	return nil
}

// Add appends a new task with a freshly generated id and status todo,
// persists the collection, and returns the created task. Whitespace-only
// descriptions are rejected before touching storage.
func (s *Store) Add(c *Collection, description string) (Task, error) {
	if err := validateDescription(description); err != nil {
		return Task{}, err
	}

	now := NewTimestamp(s.now())
	t := Task{
		ID:          c.NextID(),
		Description: description,
		Status:      StatusTodo,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	c.Tasks = append(c.Tasks, t)

	if err := s.Save(c); err != nil {
		return Task{}, err
	}
	return t, nil
}

// Update replaces the description of the task with the given id,
// refreshes updatedAt, persists, and returns the updated task.
func (s *Store) Update(c *Collection, id int, description string) (Task, error) {
	if err := validateDescription(description); err != nil {
		return Task{}, err
	}

	t := c.Get(id)
	if t == nil {
		return Task{}, &NotFoundError{ID: id}
	}
	t.Description = description
	t.UpdatedAt = NewTimestamp(s.now())

	if err := s.Save(c); err != nil {
		return Task{}, err
	}
	return *t, nil
}

// Delete removes the task with the given id, persists, and returns
// the removed task.
func (s *Store) Delete(c *Collection, id int) (Task, error) {
	for i := range c.Tasks {
		if c.Tasks[i].ID != id {
			continue
		}
		removed := c.Tasks[i]
		c.Tasks = append(c.Tasks[:i], c.Tasks[i+1:]...)
		if err := s.Save(c); err != nil {
			return Task{}, err
		}
		return removed, nil
	}
	return Task{}, &NotFoundError{ID: id}
}

// SetStatus replaces the status of the task with the given id,
// refreshes updatedAt, persists, and returns the updated task.
// The status is validated before the lookup so no save is issued
// on bad input.
func (s *Store) SetStatus(c *Collection, id int, status Status) (Task, error) {
	if _, err := ParseStatus(string(status)); err != nil {
		return Task{}, err
	}

	t := c.Get(id)
	if t == nil {
		return Task{}, &NotFoundError{ID: id}
	}
	t.Status = status
	t.UpdatedAt = NewTimestamp(s.now())

	if err := s.Save(c); err != nil {
		return Task{}, err
	}
	return *t, nil
}

func validateDescription(description string) error {
	if strings.TrimSpace(description) == "" {
		return &ValidationError{
			Field: "description",
			Err:   errors.New("must not be empty"),
		}
	}
	return nil
}

// Ensure creates the tasks file with an empty collection if it does
// not exist yet. Existing files are left untouched.
func (s *Store) Ensure() error {
	if _, err := os.Stat(s.path); err == nil {
		return nil
	} else if !os.IsNotExist(err) {
		return &StorageError{Op: "read", Path: s.path, Err: err}
	}
	return s.Save(&Collection{Tasks: []Task{}})
}
