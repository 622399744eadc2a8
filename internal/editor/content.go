package editor

import (
	"fmt"
	"os"

	internalstrings "github.com/amonks/tasking/internal/strings"
	"github.com/amonks/tasking/task"
)

const contentTemplate = `%s
# Enter the task above. Lines starting with '#' are ignored and
# line breaks are joined with spaces. An empty task aborts.
`

// RenderContent returns the editor buffer for initial content.
func RenderContent(initial string) string {
	return fmt.Sprintf(contentTemplate, initial)
}

// ParseContent extracts task content from an edited buffer and validates it.
func ParseContent(buffer string) (string, error) {
	content := internalstrings.NormalizeWhitespace(internalstrings.StripCommentLines(buffer))
	if err := task.ValidateContent(content); err != nil {
		return "", err
	}
	return content, nil
}

// EditContent opens the editor on initial and returns the edited task content.
func EditContent(initial string) (string, error) {
	tmpfile, err := os.CreateTemp("", "tasking-*.txt")
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmpfile.Name()
	defer os.Remove(tmpPath)

	if _, err := tmpfile.WriteString(RenderContent(initial)); err != nil {
		tmpfile.Close()
		return "", fmt.Errorf("write temp file: %w", err)
	}
	if err := tmpfile.Close(); err != nil {
		return "", fmt.Errorf("close temp file: %w", err)
	}

	if err := Edit(tmpPath); err != nil {
		return "", err
	}

	edited, err := os.ReadFile(tmpPath)
	if err != nil {
		return "", fmt.Errorf("read edited file: %w", err)
	}

	return ParseContent(string(edited))
}
