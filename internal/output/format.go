// Package output provides formatters for CLI output.
package output

import (
	"fmt"
	"io"
	"strings"

	"todoclient/internal/service"
)

// FormatTask formats a task line.
// Format: "{N:>4}  [x] {NAME}\n" with "[ ]" for uncompleted tasks.
func FormatTask(w io.Writer, num int, task service.Task) {
	fmt.Fprintf(w, "%4d  %s %s\n", num, checkbox(task.Completed), normalizeName(task.Name))
}

// FormatTaskLong formats a task line followed by its uuid.
func FormatTaskLong(w io.Writer, num int, task service.Task) {
	fmt.Fprintf(w, "%4d  %s %s  %s\n", num, checkbox(task.Completed), normalizeName(task.Name), task.UUID)
}

// FormatEmpty writes the placeholder shown for a list without tasks.
func FormatEmpty(w io.Writer, filter service.Filter) {
	if filter == service.FilterAll {
		fmt.Fprintln(w, "No tasks.")
		return
	}
	fmt.Fprintf(w, "No %s tasks.\n", filter)
}

func checkbox(completed bool) string {
	if completed {
		return "[x]"
	}
	return "[ ]"
}

// normalizeName normalizes a task name for display.
// - Empty or whitespace-only names become "(untitled)"
// - Newlines are replaced with spaces
func normalizeName(name string) string {
	name = strings.ReplaceAll(name, "\r", " ")
	name = strings.ReplaceAll(name, "\n", " ")

	if strings.TrimSpace(name) == "" {
		return "(untitled)"
	}
	return name
}
