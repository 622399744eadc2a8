package task

// Task represents a single entry in the list.
type Task struct {
	// ID is unique within a store and never reused.
	ID uint32 `json:"id" yaml:"id"`

	// Content is the free text entered by the user.
	Content string `json:"content" yaml:"content"`

	// Status is the current state of the task.
	Status Status `json:"status" yaml:"status"`
}

// Snapshot is the serializable projection of a Store.
// Its JSON shape is the save file format.
type Snapshot struct {
	IDCounter uint32 `json:"id_counter" yaml:"id_counter"`
	Tasks     []Task `json:"tasks" yaml:"tasks"`
}

// EmptySnapshot returns the snapshot of a fresh store.
func EmptySnapshot() Snapshot {
	return Snapshot{Tasks: []Task{}}
}
