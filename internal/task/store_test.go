package task

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// newTestStore returns a store backed by a temp file with a
// controllable clock.
func newTestStore(t *testing.T) (*Store, *time.Time) {
	t.Helper()
	now := time.Date(2024, 3, 15, 9, 30, 0, 0, time.Local)
	s := NewStore(filepath.Join(t.TempDir(), "tasks.json"))
	s.now = func() time.Time { return now }
	return s, &now
}

func TestLoadCreatesEmptyFile(t *testing.T) {
	s, _ := newTestStore(t)

	c, err := s.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(c.Tasks) != 0 {
		t.Errorf("expected empty collection, got %d tasks", len(c.Tasks))
	}

	data, err := os.ReadFile(s.Path())
	if err != nil {
		t.Fatalf("tasks file was not created: %v", err)
	}
	if got := string(data); got != "[]\n" {
		t.Errorf("file content: got %q, want %q", got, "[]\n")
	}
}

func TestLoadMalformedFile(t *testing.T) {
	s, _ := newTestStore(t)
	if err := os.WriteFile(s.Path(), []byte("{ not json"), 0644); err != nil {
		t.Fatal(err)
	}

	_, err := s.Load()
	if err == nil {
		t.Fatal("expected error for malformed file")
	}
	var stErr *StorageError
	if !errors.As(err, &stErr) {
		t.Fatalf("expected StorageError, got %T", err)
	}
	if stErr.Op != "parse" {
		t.Errorf("Op: got %q, want %q", stErr.Op, "parse")
	}
}

func TestSaveUnwritablePath(t *testing.T) {
	s := NewStore(filepath.Join(t.TempDir(), "missing-dir", "tasks.json"))

	err := s.Save(&Collection{})
	if err == nil {
		t.Fatal("expected error for unwritable path")
	}
	var stErr *StorageError
	if !errors.As(err, &stErr) {
		t.Errorf("expected StorageError, got %T", err)
	}
}

func TestAdd(t *testing.T) {
	s, _ := newTestStore(t)
	c, err := s.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	created, err := s.Add(c, "Buy milk")
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if created.ID != 1 {
		t.Errorf("ID: got %d, want 1", created.ID)
	}
	if created.Description != "Buy milk" {
		t.Errorf("Description: got %q, want %q", created.Description, "Buy milk")
	}
	if created.Status != StatusTodo {
		t.Errorf("Status: got %q, want %q", created.Status, StatusTodo)
	}
	if !created.CreatedAt.Time.Equal(created.UpdatedAt.Time) {
		t.Errorf("createdAt %v != updatedAt %v on creation", created.CreatedAt, created.UpdatedAt)
	}

	// The task must be persisted
	reloaded, err := s.Load()
	if err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	if len(reloaded.Tasks) != 1 || reloaded.Tasks[0].Description != "Buy milk" {
		t.Errorf("persisted collection: got %+v", reloaded.Tasks)
	}
}

func TestAddRejectsEmptyDescription(t *testing.T) {
	s, _ := newTestStore(t)
	c, _ := s.Load()
	before, _ := os.ReadFile(s.Path())

	for _, desc := range []string{"", "   ", "\t\n"} {
		_, err := s.Add(c, desc)
		var valErr *ValidationError
		if !errors.As(err, &valErr) {
			t.Errorf("Add(%q): expected ValidationError, got %v", desc, err)
		}
	}

	after, _ := os.ReadFile(s.Path())
	if string(before) != string(after) {
		t.Error("failed Add mutated the persisted file")
	}
}

func TestAddIDsStrictlyIncreasing(t *testing.T) {
	s, _ := newTestStore(t)
	c, _ := s.Load()

	prev := 0
	for _, desc := range []string{"A", "B", "C", "D"} {
		created, err := s.Add(c, desc)
		if err != nil {
			t.Fatalf("Add(%q) failed: %v", desc, err)
		}
		if created.ID <= prev {
			t.Errorf("ids not strictly increasing: %d after %d", created.ID, prev)
		}
		prev = created.ID
	}
}

func TestUpdate(t *testing.T) {
	s, now := newTestStore(t)
	c, _ := s.Load()
	created, _ := s.Add(c, "Buy milk")

	*now = now.Add(2 * time.Second)
	updated, err := s.Update(c, created.ID, "Buy oat milk")
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if updated.Description != "Buy oat milk" {
		t.Errorf("Description: got %q, want %q", updated.Description, "Buy oat milk")
	}
	if !updated.UpdatedAt.After(updated.CreatedAt.Time) {
		t.Errorf("updatedAt %v not after createdAt %v", updated.UpdatedAt, updated.CreatedAt)
	}
	if !updated.CreatedAt.Time.Equal(created.CreatedAt.Time) {
		t.Error("Update changed createdAt")
	}

	reloaded, _ := s.Load()
	if reloaded.Tasks[0].Description != "Buy oat milk" {
		t.Error("Update was not persisted")
	}
}

func TestUpdateValidationAndNotFound(t *testing.T) {
	s, _ := newTestStore(t)
	c, _ := s.Load()
	s.Add(c, "A")

	_, err := s.Update(c, 1, "  ")
	var valErr *ValidationError
	if !errors.As(err, &valErr) {
		t.Errorf("empty description: expected ValidationError, got %v", err)
	}

	_, err = s.Update(c, 42, "B")
	var nfErr *NotFoundError
	if !errors.As(err, &nfErr) {
		t.Fatalf("missing id: expected NotFoundError, got %v", err)
	}
	if nfErr.ID != 42 {
		t.Errorf("NotFoundError.ID: got %d, want 42", nfErr.ID)
	}
}

func TestDelete(t *testing.T) {
	s, _ := newTestStore(t)
	c, _ := s.Load()
	s.Add(c, "A")
	s.Add(c, "B")

	removed, err := s.Delete(c, 1)
	if err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if removed.Description != "A" {
		t.Errorf("removed: got %q, want %q", removed.Description, "A")
	}

	reloaded, _ := s.Load()
	if len(reloaded.Tasks) != 1 || reloaded.Tasks[0].ID != 2 {
		t.Errorf("persisted collection after delete: got %+v", reloaded.Tasks)
	}

	_, err = s.Delete(c, 1)
	var nfErr *NotFoundError
	if !errors.As(err, &nfErr) {
		t.Errorf("second delete: expected NotFoundError, got %v", err)
	}
}

func TestSetStatus(t *testing.T) {
	s, now := newTestStore(t)
	c, _ := s.Load()
	created, _ := s.Add(c, "Buy milk")

	*now = now.Add(time.Second)
	updated, err := s.SetStatus(c, created.ID, StatusDone)
	if err != nil {
		t.Fatalf("SetStatus failed: %v", err)
	}
	if updated.Status != StatusDone {
		t.Errorf("Status: got %q, want %q", updated.Status, StatusDone)
	}
	if !updated.UpdatedAt.After(updated.CreatedAt.Time) {
		t.Errorf("updatedAt %v not after createdAt %v", updated.UpdatedAt, updated.CreatedAt)
	}

	done := c.List(StatusDone)
	if len(done) != 1 || done[0].ID != created.ID {
		t.Errorf("List(done): got %+v, want the marked task", done)
	}
	if todos := c.List(StatusTodo); len(todos) != 0 {
		t.Errorf("List(todo): got %+v, want empty", todos)
	}
}

func TestSetStatusInvalid(t *testing.T) {
	s, _ := newTestStore(t)
	c, _ := s.Load()
	s.Add(c, "A")
	before, _ := os.ReadFile(s.Path())

	_, err := s.SetStatus(c, 1, Status("bogus"))
	var valErr *ValidationError
	if !errors.As(err, &valErr) {
		t.Errorf("expected ValidationError, got %v", err)
	}

	after, _ := os.ReadFile(s.Path())
	if string(before) != string(after) {
		t.Error("failed SetStatus mutated the persisted file")
	}
}

func TestNotFoundLeavesFileUnchanged(t *testing.T) {
	s, _ := newTestStore(t)
	c, _ := s.Load()
	s.Add(c, "A")
	before, _ := os.ReadFile(s.Path())

	if _, err := s.Update(c, 99, "B"); err == nil {
		t.Error("Update(99): expected error")
	}
	if _, err := s.Delete(c, 99); err == nil {
		t.Error("Delete(99): expected error")
	}
	if _, err := s.SetStatus(c, 99, StatusDone); err == nil {
		t.Error("SetStatus(99): expected error")
	}

	after, _ := os.ReadFile(s.Path())
	if string(before) != string(after) {
		t.Error("failed operation mutated the persisted file")
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	s, _ := newTestStore(t)
	c, _ := s.Load()
	s.Add(c, "A")
	s.Add(c, "B")
	s.SetStatus(c, 2, StatusInProgress)

	first, err := s.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if err := s.Save(first); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	second, err := s.Load()
	if err != nil {
		t.Fatalf("second Load failed: %v", err)
	}

	if len(first.Tasks) != len(second.Tasks) {
		t.Fatalf("task count changed: %d vs %d", len(first.Tasks), len(second.Tasks))
	}
	for i := range first.Tasks {
		a, b := first.Tasks[i], second.Tasks[i]
		if a.ID != b.ID || a.Description != b.Description || a.Status != b.Status ||
			!a.CreatedAt.Time.Equal(b.CreatedAt.Time) || !a.UpdatedAt.Time.Equal(b.UpdatedAt.Time) {
			t.Errorf("task %d changed across Save(Load()): %+v vs %+v", i, a, b)
		}
	}
}

func TestListNeverPersists(t *testing.T) {
	s, _ := newTestStore(t)
	c, _ := s.Load()
	s.Add(c, "A")

	info, _ := os.Stat(s.Path())
	before := info.ModTime()

	for i := 0; i < 5; i++ {
		c.List("")
		c.List(StatusTodo)
	}

	info, _ = os.Stat(s.Path())
	if !info.ModTime().Equal(before) {
		t.Error("List touched the persisted file")
	}
}

func TestScenarioSingleTaskLifecycle(t *testing.T) {
	s, now := newTestStore(t)
	c, _ := s.Load()

	created, err := s.Add(c, "Buy milk")
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if created.ID != 1 || created.Description != "Buy milk" || created.Status != StatusTodo {
		t.Errorf("created: got %+v", created)
	}

	*now = now.Add(3 * time.Second)
	marked, err := s.SetStatus(c, 1, StatusDone)
	if err != nil {
		t.Fatalf("SetStatus failed: %v", err)
	}
	if marked.Status != StatusDone {
		t.Errorf("Status: got %q, want done", marked.Status)
	}
	if !marked.UpdatedAt.After(marked.CreatedAt.Time) {
		t.Error("updatedAt not after createdAt after mark")
	}

	if _, err := s.Delete(c, 1); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if got := c.List(""); len(got) != 0 {
		t.Errorf("List after delete: got %+v, want empty", got)
	}
}

func TestScenarioIDReusedAfterMaxDeleted(t *testing.T) {
	s, _ := newTestStore(t)
	c, _ := s.Load()

	s.Add(c, "A") // id 1
	s.Add(c, "B") // id 2
	if _, err := s.Delete(c, 1); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	// Next id derives from the remaining max (2), not a running counter.
	created, err := s.Add(c, "C")
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if created.ID != 3 {
		t.Errorf("C's id: got %d, want 3", created.ID)
	}
}

func TestEnsure(t *testing.T) {
	s, _ := newTestStore(t)

	if err := s.Ensure(); err != nil {
		t.Fatalf("Ensure failed: %v", err)
	}
	if err := os.WriteFile(s.Path(), []byte("[{\"id\":1}]\n"), 0644); err != nil {
		t.Fatal(err)
	}

	// A second Ensure must not clobber existing content.
	if err := s.Ensure(); err != nil {
		t.Fatalf("second Ensure failed: %v", err)
	}
	data, _ := os.ReadFile(s.Path())
	if !strings.Contains(string(data), "\"id\":1") {
		t.Errorf("Ensure overwrote existing file: %q", data)
	}
}
