package client

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"go.uber.org/zap"
)

// Store is the local mirror: one JSON file holding the cached task list.
// It is the moral equivalent of the browser's localStorage blob — small,
// rewritten whole, and fully overwritten by reconciliation.
type Store struct {
	mu   sync.Mutex
	path string
}

func NewStore(path string) *Store {
	return &Store{path: path}
}

// Load returns the mirrored tasks. A missing or corrupt file yields an
// empty mirror, never an error: the mirror is a cache, not a source of
// truth.
func (s *Store) Load() []Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

// Save overwrites the entire mirror.
func (s *Store) Save(items []Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.save(items)
}

// InsertFront prepends a task, newest first like the server ordering.
func (s *Store) InsertFront(task Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	items := s.load()
	items = append([]Task{task}, items...)
	return s.save(items)
}

// Patch merges non-nil fields into the task with the given id and bumps
// its updated timestamp. It reports whether the id was present.
func (s *Store) Patch(id string, patch TaskPatch, updatedAt string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	items := s.load()
	for i := range items {
		if items[i].ID != id {
			continue
		}
		if patch.Title != nil {
			items[i].Title = *patch.Title
		}
		if patch.Description != nil {
			items[i].Description = patch.Description
		}
		if patch.DueDate != nil {
			items[i].DueDate = patch.DueDate
		}
		if patch.Status != nil {
			items[i].Status = *patch.Status
		}
		if patch.AssignedTo != nil {
			items[i].AssignedTo = patch.AssignedTo
		}
		items[i].UpdatedAt = updatedAt
		return true, s.save(items)
	}
	return false, nil
}

// Remove drops the task with the given id. Removing an absent id is not
// an error.
func (s *Store) Remove(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	items := s.load()
	kept := items[:0]
	for _, t := range items {
		if t.ID != id {
			kept = append(kept, t)
		}
	}
	return s.save(kept)
}

func (s *Store) load() []Task {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return []Task{}
	}

	var items []Task
	if err := json.Unmarshal(data, &items); err != nil {
		zap.L().Warn("corrupt task mirror, starting empty", zap.String("path", s.path), zap.Error(err))
		return []Task{}
	}
	if items == nil {
		items = []Task{}
	}
	return items
}

func (s *Store) save(items []Task) error {
	data, err := json.Marshal(items)
	if err != nil {
		return err
	}
	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return os.WriteFile(s.path, data, 0o644)
}

// FilterTasks applies the status filter the same way the server does.
func FilterTasks(items []Task, f Filters) []Task {
	if f.Status == "" || f.Status == StatusAll {
		return items
	}
	out := make([]Task, 0, len(items))
	for _, t := range items {
		if strings.EqualFold(t.Status, f.Status) {
			out = append(out, t)
		}
	}
	return out
}

// Paginate slices one page out of the filtered list with the same
// clamping rules as the server.
func Paginate(items []Task, f Filters) Page {
	page := f.Page
	if page < 1 {
		page = 1
	}
	pageSize := f.PageSize
	if pageSize < 1 {
		pageSize = defaultPageSize
	}

	start := (page - 1) * pageSize
	if start > len(items) {
		start = len(items)
	}
	end := start + pageSize
	if end > len(items) {
		end = len(items)
	}

	return Page{
		Items:    items[start:end],
		Total:    len(items),
		Page:     page,
		PageSize: pageSize,
	}
}
