package main

import (
	"fmt"
	"os"
	"strings"

	"golang.org/x/term"
)

// Prompter is used to ask the user for confirmation.
type Prompter interface {
	// Confirm asks the user a yes/no question and returns true if they say yes.
	Confirm(message string) (bool, error)
}

// StdioPrompter implements Prompter using stdin/stdout.
type StdioPrompter struct{}

// Confirm asks the user a yes/no question via stdin/stdout.
func (p StdioPrompter) Confirm(message string) (bool, error) {
	fmt.Printf("%s [y/n]: ", message)
	var response string
	_, err := fmt.Scanln(&response)
	if err != nil {
		return false, err
	}
	return isYes(response), nil
}

func isYes(response string) bool {
	switch strings.ToLower(strings.TrimSpace(response)) {
	case "y", "yes":
		return true
	default:
		return false
	}
}

// shouldConfirm reports whether p should be asked. The stdio prompter is
// only used when stdin is a terminal.
func shouldConfirm(p Prompter) bool {
	if _, ok := p.(StdioPrompter); !ok {
		return true
	}
	return term.IsTerminal(int(os.Stdin.Fd()))
}
