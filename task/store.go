package task

import (
	"fmt"
	"math"
	"slices"
	"strings"
)

// Store holds the task list in display order.
// It is not safe for concurrent use.
type Store struct {
	idCounter uint32
	tasks     []Task
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{}
}

// FromSnapshot builds a store from a persisted snapshot.
// The snapshot's tasks are copied.
func FromSnapshot(snapshot Snapshot) *Store {
	return &Store{
		idCounter: snapshot.IDCounter,
		tasks:     slices.Clone(snapshot.Tasks),
	}
}

// Snapshot returns the serializable projection of the store.
func (s *Store) Snapshot() Snapshot {
	tasks := slices.Clone(s.tasks)
	if tasks == nil {
		tasks = []Task{}
	}
	return Snapshot{IDCounter: s.idCounter, Tasks: tasks}
}

// Add appends a new task with status New and returns its id.
// The counter advances permanently, even if the task is later removed.
// Once the counter reaches the largest id, Add fails with ErrIDsExhausted.
func (s *Store) Add(content string) (uint32, error) {
	id, err := s.nextID()
	if err != nil {
		return 0, err
	}
	s.tasks = append(s.tasks, Task{
		ID:      id,
		Content: content,
		Status:  StatusNew,
	})
	return id, nil
}

func (s *Store) nextID() (uint32, error) {
	if s.idCounter == math.MaxUint32 {
		return 0, ErrIDsExhausted
	}
	s.idCounter++
	return s.idCounter, nil
}

// Find returns the task with the given id. The returned pointer stays valid
// until the next call that adds, removes or reorders tasks.
func (s *Store) Find(id uint32) (*Task, bool) {
	for i := range s.tasks {
		if s.tasks[i].ID == id {
			return &s.tasks[i], true
		}
	}
	return nil, false
}

// ChangeStatus sets the status of the task with the given id.
// It reports whether the task was found. Unknown statuses are rejected
// before the lookup.
func (s *Store) ChangeStatus(id uint32, status Status) (bool, error) {
	if !status.IsValid() {
		return false, formatInvalidStatusError(status)
	}
	t, ok := s.Find(id)
	if !ok {
		return false, nil
	}
	t.Status = status
	return true, nil
}

// CycleStatus advances the task with the given id to its next status.
// It reports whether the task was found.
func (s *Store) CycleStatus(id uint32) bool {
	t, ok := s.Find(id)
	if !ok {
		return false
	}
	t.Status = t.Status.Next()
	return true
}

// Remove deletes every task with the given id and reports whether any was found.
func (s *Store) Remove(id uint32) bool {
	before := len(s.tasks)
	s.tasks = slices.DeleteFunc(s.tasks, func(t Task) bool {
		return t.ID == id
	})
	return len(s.tasks) != before
}

// Clear removes all tasks. The id counter is kept.
func (s *Store) Clear() {
	s.tasks = nil
}

// IsEmpty reports whether the store has no tasks.
func (s *Store) IsEmpty() bool {
	return len(s.tasks) == 0
}

// Tasks returns a copy of the tasks in display order.
func (s *Store) Tasks() []Task {
	return slices.Clone(s.tasks)
}

// SortByStatus stably reorders tasks so that statuses earlier in order come
// first. Statuses not listed in order go last.
func (s *Store) SortByStatus(order []Status) {
	rank := statusRanks(order)
	slices.SortStableFunc(s.tasks, func(a, b Task) int {
		return rank(a.Status) - rank(b.Status)
	})
}

func statusRanks(order []Status) func(Status) int {
	ranks := make(map[Status]int, len(order))
	for i, status := range order {
		if _, ok := ranks[status]; !ok {
			ranks[status] = i
		}
	}
	return func(status Status) int {
		if r, ok := ranks[status]; ok {
			return r
		}
		return len(order)
	}
}

// Summary renders the tasks grouped by status. Each status in order with at
// least one task gets a header line and a list numbered from 1; sections are
// separated by a blank line.
func (s *Store) Summary(order []Status, labels Labels) string {
	var builder strings.Builder
	for _, status := range order {
		count := 0
		var section strings.Builder
		section.WriteString(labels.Header(status))
		section.WriteByte('\n')
		for _, t := range s.tasks {
			if t.Status != status {
				continue
			}
			count++
			fmt.Fprintf(&section, "%d. %s\n", count, t.Content)
		}
		if count == 0 {
			continue
		}
		builder.WriteString(section.String())
		builder.WriteByte('\n')
	}
	return strings.TrimSpace(builder.String())
}

const (
	memoHeader = "--- task ---"
	memoFooter = "------------"
)

// Memo frames a summary for display. An empty summary yields an empty memo.
func Memo(summary string) string {
	if summary == "" {
		return ""
	}
	return memoHeader + "\n" + summary + "\n" + memoFooter
}
