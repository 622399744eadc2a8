package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/amonks/tasking/internal/editor"
	"github.com/amonks/tasking/internal/log"
	"github.com/amonks/tasking/internal/markdown"
	"github.com/amonks/tasking/task"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// add
var addCmd = &cobra.Command{
	Use:   "add [content...]",
	Short: "Add a task",
	Long: `Add a task with status New.

The arguments are joined with spaces to form the task content. With no
arguments, $EDITOR is opened when running interactively. Use --edit to
force the editor, or --no-edit to never open it.`,
	RunE: runAdd,
}

var (
	addEdit   bool
	addNoEdit bool
)

// list
var listCmd = &cobra.Command{
	Use:     "list",
	Short:   "List tasks in display order",
	Aliases: []string{"ls"},
	Args:    cobra.NoArgs,
	RunE:    runList,
}

var (
	listJSON bool
	listYAML bool
)

// cycle
var cycleCmd = &cobra.Command{
	Use:   "cycle <id>...",
	Short: "Advance tasks to their next status",
	Long: `Advance each task to its next status.

Statuses cycle New -> Progress -> Stop -> Done -> New. Unknown ids are
skipped.`,
	Aliases: []string{"next"},
	Args:    cobra.MinimumNArgs(1),
	RunE:    runCycle,
}

// status
var statusCmd = &cobra.Command{
	Use:   "status <id> <status>",
	Short: "Set the status of a task",
	Long: `Set the status of a task.

The status may be given as New, Progress, Stop or Done, or as any of the
display labels, in any case.`,
	Args: cobra.ExactArgs(2),
	RunE: runStatus,
}

// rm
var rmCmd = &cobra.Command{
	Use:     "rm <id>...",
	Short:   "Remove tasks",
	Aliases: []string{"delete"},
	Args:    cobra.MinimumNArgs(1),
	RunE:    runRemove,
}

// clear
var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all tasks",
	Long: `Remove all tasks. Ids of removed tasks are never reused.

When stdin is a terminal, asks for confirmation unless --yes is given.`,
	Args: cobra.NoArgs,
	RunE: runClear,
}

var clearYes bool

// sort
var sortCmd = &cobra.Command{
	Use:   "sort",
	Short: "Order tasks by status (New, Progress, Stop, Done)",
	Args:  cobra.NoArgs,
	RunE:  runSort,
}

// memo
var memoCmd = &cobra.Command{
	Use:   "memo",
	Short: "Print a summary of tasks grouped by status",
	Args:  cobra.NoArgs,
	RunE:  runMemo,
}

var memoRender bool

// confirmer asks the user a yes/no question. Replaced in tests.
var confirmer Prompter = StdioPrompter{}

func init() {
	rootCmd.AddCommand(addCmd, listCmd, cycleCmd, statusCmd, rmCmd, clearCmd, sortCmd, memoCmd)
	addFlagAliases(confirmFlagAliases, clearCmd)
	addFlagAliases(formatFlagAliases, listCmd)

	addCmd.Flags().BoolVarP(&addEdit, "edit", "e", false, "Open $EDITOR (default if interactive and no content)")
	addCmd.Flags().BoolVar(&addNoEdit, "no-edit", false, "Do not open $EDITOR")

	listCmd.Flags().BoolVar(&listJSON, "json", false, "Output as JSON")
	listCmd.Flags().BoolVar(&listYAML, "yaml", false, "Output as YAML")
	listCmd.MarkFlagsMutuallyExclusive("json", "yaml")

	clearCmd.Flags().BoolVarP(&clearYes, "yes", "y", false, "Do not ask for confirmation")

	memoCmd.Flags().BoolVar(&memoRender, "render", false, "Render the summary as formatted markdown")
}

func runAdd(cmd *cobra.Command, args []string) error {
	content := strings.Join(args, " ")

	// Determine whether to open editor:
	// - --edit forces editor
	// - --no-edit skips editor
	// - otherwise, open editor only when no content and interactive
	useEditor := shouldUseEditor(len(args) > 0, addEdit, addNoEdit, editor.IsInteractive())
	if useEditor {
		edited, err := editor.EditContent(content)
		if err != nil {
			return err
		}
		content = edited
	} else {
		if len(args) == 0 {
			return fmt.Errorf("content is required (use --edit to open editor)")
		}
		if err := task.ValidateContent(content); err != nil {
			return err
		}
	}

	session, err := openSession()
	if err != nil {
		return err
	}

	id, err := session.Add(content)
	if err != nil {
		return err
	}
	fmt.Printf("Added task %d: %s\n", id, content)
	return nil
}

// shouldUseEditor decides whether to open $EDITOR for a command.
func shouldUseEditor(hasInput, edit, noEdit, interactive bool) bool {
	if edit {
		return true
	}
	if noEdit {
		return false
	}
	return !hasInput && interactive
}

func runList(cmd *cobra.Command, args []string) error {
	session, err := openSession()
	if err != nil {
		return err
	}

	tasks := session.Tasks()
	switch {
	case listJSON:
		return encodeJSONToStdout(tasks)
	case listYAML:
		return encodeYAMLToStdout(tasks)
	}

	printTaskTable(tasks, session.Labels())
	return nil
}

func runCycle(cmd *cobra.Command, args []string) error {
	ids, err := parseTaskIDs(args)
	if err != nil {
		return err
	}

	session, err := openSession()
	if err != nil {
		return err
	}

	labels := session.Labels()
	for _, id := range ids {
		found, err := session.CycleStatus(id)
		if err != nil {
			return err
		}
		if !found {
			appLogger.WithValues(log.Kv{"id": id}).Debugf("task not found, skipping")
			continue
		}
		updated, _ := session.Find(id)
		fmt.Printf("Task %d: %s\n", id, labels.Name(updated.Status))
	}
	return nil
}

func runStatus(cmd *cobra.Command, args []string) error {
	id, err := parseTaskID(args[0])
	if err != nil {
		return err
	}
	status, err := task.ParseStatus(args[1])
	if err != nil {
		return err
	}

	session, err := openSession()
	if err != nil {
		return err
	}

	found, err := session.ChangeStatus(id, status)
	if err != nil {
		return err
	}
	if !found {
		appLogger.WithValues(log.Kv{"id": id}).Debugf("task not found, skipping")
		return nil
	}
	fmt.Printf("Task %d: %s\n", id, session.Labels().Name(status))
	return nil
}

func runRemove(cmd *cobra.Command, args []string) error {
	ids, err := parseTaskIDs(args)
	if err != nil {
		return err
	}

	session, err := openSession()
	if err != nil {
		return err
	}

	for _, id := range ids {
		removed, err := session.Remove(id)
		if err != nil {
			return err
		}
		if !removed {
			appLogger.WithValues(log.Kv{"id": id}).Debugf("task not found, skipping")
			continue
		}
		fmt.Printf("Removed task %d\n", id)
	}
	return nil
}

func runClear(cmd *cobra.Command, args []string) error {
	session, err := openSession()
	if err != nil {
		return err
	}

	if !clearYes && shouldConfirm(confirmer) {
		confirmed, err := confirmer.Confirm(fmt.Sprintf("Remove all %d tasks?", len(session.Tasks())))
		if err != nil {
			return fmt.Errorf("prompt: %w", err)
		}
		if !confirmed {
			fmt.Println("Aborted.")
			return nil
		}
	}

	if err := session.Clear(); err != nil {
		return err
	}
	fmt.Println("Cleared all tasks.")
	return nil
}

func runSort(cmd *cobra.Command, args []string) error {
	session, err := openSession()
	if err != nil {
		return err
	}

	if err := session.Sort(); err != nil {
		return err
	}
	printTaskTable(session.Tasks(), session.Labels())
	return nil
}

func runMemo(cmd *cobra.Command, args []string) error {
	session, err := openSession()
	if err != nil {
		return err
	}

	summary := session.Summary()
	if summary == "" {
		return nil
	}

	if memoRender {
		width := terminalWidth()
		fmt.Println(string(markdown.SafeRender(width, 0, []byte(summary))))
		return nil
	}

	if appConfig != nil && !appConfig.Memo.Frame {
		fmt.Println(summary)
		return nil
	}
	fmt.Println(task.Memo(summary))
	return nil
}

// parseTaskID parses a decimal task id.
func parseTaskID(value string) (uint32, error) {
	id, err := strconv.ParseUint(strings.TrimSpace(value), 10, 32)
	if err != nil {
		var numErr *strconv.NumError
		if errors.As(err, &numErr) && errors.Is(numErr.Err, strconv.ErrRange) {
			return 0, fmt.Errorf("task id %q is out of range", value)
		}
		return 0, fmt.Errorf("invalid task id %q", value)
	}
	return uint32(id), nil
}

func parseTaskIDs(values []string) ([]uint32, error) {
	ids := make([]uint32, 0, len(values))
	for _, value := range values {
		id, err := parseTaskID(value)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func terminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return 80
	}
	return width
}
