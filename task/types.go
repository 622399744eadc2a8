// Package task implements the task list behind the tasking app.
//
// A Store holds tasks in display order together with a monotonically
// increasing id counter. Snapshots of a Store are persisted as a single JSON
// file by a FileGateway, and a Session ties the two together so that every
// mutation is followed by exactly one save.
//
// The public API mirrors the front end actions:
//   - Add, CycleStatus, ChangeStatus, Remove, Clear, SortByStatus for mutation
//   - Tasks, Find, IsEmpty, Summary for querying
package task

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Status represents the state of a task.
type Status string

const (
	// StatusNew indicates a task that has not been started.
	StatusNew Status = "New"

	// StatusProgress indicates a task that is being worked on.
	StatusProgress Status = "Progress"

	// StatusStop indicates a task that was started and is on hold.
	StatusStop Status = "Stop"

	// StatusDone indicates a finished task.
	StatusDone Status = "Done"
)

// ValidStatuses returns all valid status values in cycle order.
func ValidStatuses() []Status {
	return []Status{StatusNew, StatusProgress, StatusStop, StatusDone}
}

// CanonicalOrder is the status order used for sorting and memos.
func CanonicalOrder() []Status {
	return ValidStatuses()
}

// IsValid returns true if the status is a known valid value.
func (s Status) IsValid() bool {
	for _, valid := range ValidStatuses() {
		if s == valid {
			return true
		}
	}
	return false
}

// Next returns the status that follows s in the cycle
// New -> Progress -> Stop -> Done -> New.
// Unknown statuses restart the cycle at New.
func (s Status) Next() Status {
	switch s {
	case StatusNew:
		return StatusProgress
	case StatusProgress:
		return StatusStop
	case StatusStop:
		return StatusDone
	default:
		return StatusNew
	}
}

// Label returns the default display label for the status.
func (s Status) Label() string {
	return JapaneseLabels.Name(s)
}

// UnmarshalJSON rejects status literals other than the four known ones.
func (s *Status) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	status := Status(raw)
	if !status.IsValid() {
		return formatInvalidStatusError(status)
	}
	*s = status
	return nil
}

// ParseStatus resolves user input to a status. It accepts the wire literal
// or any known label, ignoring case and surrounding whitespace.
func ParseStatus(input string) (Status, error) {
	value := strings.TrimSpace(input)
	for _, status := range ValidStatuses() {
		if strings.EqualFold(value, string(status)) {
			return status, nil
		}
		for _, labels := range []Labels{JapaneseLabels, EnglishLabels} {
			if strings.EqualFold(value, labels.Name(status)) {
				return status, nil
			}
		}
	}
	return "", formatInvalidStatusError(Status(input))
}

// Labels maps statuses to display text.
type Labels struct {
	// Names holds the display name of each status.
	Names map[Status]string

	// HeaderFormat formats a summary section header from a status name.
	HeaderFormat string

	// Empty is shown in place of an empty task list.
	Empty string
}

var (
	// JapaneseLabels are the labels the app ships with.
	JapaneseLabels = Labels{
		Names: map[Status]string{
			StatusNew:      "新規",
			StatusProgress: "実行中",
			StatusStop:     "停止",
			StatusDone:     "完了",
		},
		HeaderFormat: "# %sタスク",
		Empty:        "タスクはまだありません",
	}

	// EnglishLabels are the alternative labels selectable in config.
	EnglishLabels = Labels{
		Names: map[Status]string{
			StatusNew:      "New",
			StatusProgress: "In progress",
			StatusStop:     "Stopped",
			StatusDone:     "Done",
		},
		HeaderFormat: "# %s tasks",
		Empty:        "No tasks yet.",
	}
)

// LabelsForLanguage returns the label set for a language code ("ja" or "en").
func LabelsForLanguage(language string) (Labels, error) {
	switch strings.ToLower(strings.TrimSpace(language)) {
	case "", "ja":
		return JapaneseLabels, nil
	case "en":
		return EnglishLabels, nil
	default:
		return Labels{}, fmt.Errorf("unknown language %q", language)
	}
}

// Name returns the display name for a status, falling back to the literal.
func (l Labels) Name(s Status) string {
	if name, ok := l.Names[s]; ok {
		return name
	}
	return string(s)
}

// Header returns the summary section header for a status.
func (l Labels) Header(s Status) string {
	format := l.HeaderFormat
	if format == "" {
		format = "# %s"
	}
	return fmt.Sprintf(format, l.Name(s))
}

// MaxContentLength is the maximum content length accepted by ValidateContent.
const MaxContentLength = 500
