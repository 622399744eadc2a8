package main

import (
	"fmt"
	"strconv"

	"github.com/amonks/tasking/internal/ui"
	"github.com/amonks/tasking/task"
)

// printTaskTable prints tasks in a table format.
func printTaskTable(tasks []task.Task, labels task.Labels) {
	if len(tasks) == 0 {
		fmt.Println(labels.Empty)
		return
	}

	fmt.Print(formatTaskTable(tasks, labels, ui.ColorEnabled()))
}

func formatTaskTable(tasks []task.Task, labels task.Labels, color bool) string {
	builder := ui.NewTableBuilder([]string{"ID", "STATUS", "CONTENT"}, len(tasks))

	for _, t := range tasks {
		builder.AddRow([]string{
			strconv.FormatUint(uint64(t.ID), 10),
			ui.StatusBadge(t.Status, labels, color),
			ui.TruncateTableCell(t.Content),
		})
	}

	return builder.String()
}
