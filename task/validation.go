package task

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/amonks/tasking/internal/validation"
)

var (
	// ErrEmptyContent is returned when task content is blank.
	ErrEmptyContent = errors.New("content cannot be empty")

	// ErrContentTooLong is returned when task content exceeds MaxContentLength.
	ErrContentTooLong = errors.New("content exceeds maximum length")

	// ErrInvalidStatus is returned when an unknown status is provided.
	ErrInvalidStatus = errors.New("invalid status")

	// ErrIDsExhausted is returned by Add once every id has been issued.
	ErrIDsExhausted = errors.New("task ids exhausted")
)

func formatInvalidStatusError(status Status) error {
	return validation.FormatInvalidValueError(ErrInvalidStatus, status, ValidStatuses())
}

// ValidateContent checks user input before it is added to a store.
// The store itself accepts any string.
func ValidateContent(content string) error {
	if strings.TrimSpace(content) == "" {
		return ErrEmptyContent
	}
	if n := utf8.RuneCountInString(content); n > MaxContentLength {
		return fmt.Errorf("%w: %d > %d", ErrContentTooLong, n, MaxContentLength)
	}
	return nil
}

// ValidateSnapshot checks that a snapshot can be saved and loaded back:
// every status is known and no id exceeds the counter. Duplicate ids from a
// hand-edited file are tolerated; Remove drops all of them.
func ValidateSnapshot(snapshot Snapshot) error {
	for i, t := range snapshot.Tasks {
		if !t.Status.IsValid() {
			return fmt.Errorf("task %d: %w", i, formatInvalidStatusError(t.Status))
		}
		if t.ID > snapshot.IDCounter {
			return fmt.Errorf("task %d: id %d exceeds id_counter %d", i, t.ID, snapshot.IDCounter)
		}
	}
	return nil
}
