package task

import "fmt"

// Gateway loads and saves snapshots.
type Gateway interface {
	Load() Snapshot
	Save(Snapshot) error
}

// Session binds a Store to a Gateway. Each mutating call that changes the
// store saves once and then notifies subscribers. A failed save is returned
// but the in-memory change is kept.
type Session struct {
	store       *Store
	gateway     Gateway
	labels      Labels
	subscribers []func(Snapshot)
}

// SessionOptions configures a Session.
type SessionOptions struct {
	// Labels are used for summaries. Defaults to JapaneseLabels.
	Labels *Labels
}

// NewSession loads the gateway's snapshot into a new store.
func NewSession(gateway Gateway, opts SessionOptions) *Session {
	labels := JapaneseLabels
	if opts.Labels != nil {
		labels = *opts.Labels
	}
	return &Session{
		store:   FromSnapshot(gateway.Load()),
		gateway: gateway,
		labels:  labels,
	}
}

// Subscribe registers fn to be called with the new snapshot after every
// change, whether or not the save succeeded.
func (s *Session) Subscribe(fn func(Snapshot)) {
	s.subscribers = append(s.subscribers, fn)
}

// Add adds a task and returns its id.
func (s *Session) Add(content string) (uint32, error) {
	id, err := s.store.Add(content)
	if err != nil {
		return 0, err
	}
	return id, s.commit()
}

// CycleStatus advances the status of the task with the given id.
// It reports whether the task was found.
func (s *Session) CycleStatus(id uint32) (bool, error) {
	if !s.store.CycleStatus(id) {
		return false, nil
	}
	return true, s.commit()
}

// ChangeStatus sets the status of the task with the given id.
// It reports whether the task was found.
func (s *Session) ChangeStatus(id uint32, status Status) (bool, error) {
	found, err := s.store.ChangeStatus(id, status)
	if err != nil || !found {
		return false, err
	}
	return true, s.commit()
}

// Remove deletes the task with the given id and reports whether it existed.
func (s *Session) Remove(id uint32) (bool, error) {
	if !s.store.Remove(id) {
		return false, nil
	}
	return true, s.commit()
}

// Clear removes all tasks.
func (s *Session) Clear() error {
	s.store.Clear()
	return s.commit()
}

// Sort orders tasks by the canonical status order.
func (s *Session) Sort() error {
	s.store.SortByStatus(CanonicalOrder())
	return s.commit()
}

// Find returns a copy of the task with the given id.
func (s *Session) Find(id uint32) (Task, bool) {
	t, ok := s.store.Find(id)
	if !ok {
		return Task{}, false
	}
	return *t, true
}

// Tasks returns the tasks in display order.
func (s *Session) Tasks() []Task {
	return s.store.Tasks()
}

// IsEmpty reports whether there are no tasks.
func (s *Session) IsEmpty() bool {
	return s.store.IsEmpty()
}

// Labels returns the labels used by the session.
func (s *Session) Labels() Labels {
	return s.labels
}

// Summary returns the grouped summary in canonical order.
func (s *Session) Summary() string {
	return s.store.Summary(CanonicalOrder(), s.labels)
}

// Memo returns the framed summary.
func (s *Session) Memo() string {
	return Memo(s.Summary())
}

// Snapshot returns the current snapshot.
func (s *Session) Snapshot() Snapshot {
	return s.store.Snapshot()
}

func (s *Session) commit() error {
	snapshot := s.store.Snapshot()
	err := s.gateway.Save(snapshot)
	for _, fn := range s.subscribers {
		fn(snapshot)
	}
	if err != nil {
		return fmt.Errorf("save tasks: %w", err)
	}
	return nil
}
