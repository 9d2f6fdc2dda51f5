// Package taskstore holds the in-memory task collection the daemon and
// CLI operate on. It materializes capture commands into tasks and hands
// out snapshots for the query engine. Durable persistence lives outside
// this module; the store's only job is id allocation and safe copies.
package taskstore

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/noah-vh/masterlist/internal/models"
)

// ErrNotFound is returned when a task id does not exist.
var ErrNotFound = errors.New("task not found")

// Store is a mutex-guarded in-memory task collection.
type Store struct {
	mu    sync.RWMutex
	tasks []models.Task
	byID  map[string]int
	now   func() time.Time
}

// New creates an empty store.
func New() *Store {
	return &Store{
		byID: make(map[string]int),
		now:  time.Now,
	}
}

// SetClock overrides the store clock, for tests.
func (s *Store) SetClock(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

// Apply materializes a capture command into tasks. ApplyView commands
// create nothing and return an empty slice; view bookkeeping belongs to
// the caller.
func (s *Store) Apply(cmd models.Command) []models.Task {
	switch c := cmd.(type) {
	case models.CaptureTask:
		return []models.Task{s.create(c)}
	case models.CaptureTaskBatch:
		out := make([]models.Task, 0, len(c.Items))
		for _, item := range c.Items {
			out = append(out, s.create(item))
		}
		return out
	default:
		return []models.Task{}
	}
}

// create allocates an id, stamps the creation time and appends the task.
func (s *Store) create(c models.CaptureTask) models.Task {
	s.mu.Lock()
	defer s.mu.Unlock()

	src := c.Source
	task := models.Task{
		ID:           uuid.New().String(),
		Title:        c.Title,
		Status:       c.Status,
		CreatedAt:    s.now(),
		ActionDate:   copyTime(c.ActionDate),
		Tags:         append([]string{}, c.Tags...),
		TimeEstimate: c.TimeEstimate,
		Context:      c.Context,
		Participants: append([]string{}, c.Participants...),
		OccurredDate: copyTime(c.OccurredDate),
		Source:       &src,
		IsRoutine:    c.IsRoutine,
	}

	s.byID[task.ID] = len(s.tasks)
	s.tasks = append(s.tasks, task)
	return task
}

// Snapshot returns a copy of the collection in insertion order.
func (s *Store) Snapshot() []models.Task {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Task, len(s.tasks))
	copy(out, s.tasks)
	return out
}

// Get returns the task with the given id.
func (s *Store) Get(id string) (models.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i, ok := s.byID[id]
	if !ok {
		return models.Task{}, ErrNotFound
	}
	return s.tasks[i], nil
}

// SetCompleted marks a task complete or incomplete.
func (s *Store) SetCompleted(id string, done bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i, ok := s.byID[id]
	if !ok {
		return ErrNotFound
	}
	s.tasks[i].IsCompleted = done
	return nil
}

// UpdateStatus changes a task's workflow status.
func (s *Store) UpdateStatus(id string, status models.Status) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i, ok := s.byID[id]
	if !ok {
		return ErrNotFound
	}
	s.tasks[i].Status = status
	return nil
}

// Len returns the number of tasks in the collection.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.tasks)
}

func copyTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	c := *t
	return &c
}
