// Package editor opens the user's editor to enter task content.
package editor

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"golang.org/x/term"
)

// ErrEditorFailed is returned when the editor cannot be started or exits
// with a non-zero status. The task is not added in that case.
var ErrEditorFailed = errors.New("task editor failed")

// IsInteractive reports whether stdin is a terminal the editor can take over.
func IsInteractive() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// Command returns the editor command line from $VISUAL, then $EDITOR, then
// vi. The variables may carry arguments, as in "code --wait".
func Command() []string {
	for _, name := range []string{"VISUAL", "EDITOR"} {
		if fields := strings.Fields(os.Getenv(name)); len(fields) > 0 {
			return fields
		}
	}
	return []string{"vi"}
}

// Edit runs the editor on path with the terminal attached and waits for it.
func Edit(path string) error {
	args := Command()
	cmd := exec.Command(args[0], append(args[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return fmt.Errorf("%w: %s exited with status %d", ErrEditorFailed, args[0], exitErr.ExitCode())
		}
		return fmt.Errorf("%w: run %s: %w", ErrEditorFailed, args[0], err)
	}

	return nil
}
