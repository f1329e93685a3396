package printer

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/slok/stepr/internal/model"
	"github.com/slok/stepr/internal/report"
)

// TablePrinter prints the results in a table format.
type TablePrinter struct {
	writer io.Writer
}

// NewTablePrinter creates a new table printer.
func NewTablePrinter(w io.Writer) *TablePrinter {
	return &TablePrinter{writer: w}
}

// PrintSummary prints one row per task followed by the totals.
func (t *TablePrinter) PrintSummary(summary report.Summary) error {
	if len(summary.Tasks) == 0 {
		return nil
	}

	tw := tabwriter.NewWriter(t.writer, 0, 0, 2, ' ', 0)

	// Print header.
	fmt.Fprintln(tw, "TASK\tEXECUTOR\tSTEPS\tFAILED\tSTATUS\tELAPSED\tLAST ERROR")

	// Print rows.
	for _, task := range summary.Tasks {
		lastErr := task.LastError
		if lastErr == "" {
			lastErr = "-"
		}
		fmt.Fprintf(tw, "%d\t%s\t%d/%d\t%d\t%s\t%s\t%s\n",
			task.ID,
			task.ExecutorID,
			task.Processed,
			task.Total,
			task.FailedSteps,
			TaskStatus(task),
			FormatElapsed(task.Elapsed),
			lastErr,
		)
	}

	if err := tw.Flush(); err != nil {
		return err
	}

	_, err := fmt.Fprintf(t.writer, "\nTasks: %d (succeeded: %d, completed: %d)  Steps: %d (failed: %d)\n",
		len(summary.Tasks), summary.Succeeded, summary.Completed, summary.TotalSteps, summary.FailedSteps)
	return err
}

// PrintMessage prints a simple text message.
func (t *TablePrinter) PrintMessage(msg string) error {
	_, err := fmt.Fprintln(t.writer, msg)
	return err
}

// TaskStatus returns the status of a task result.
func TaskStatus(t report.TaskResult) model.TaskStatus {
	switch {
	case !t.Complete:
		return model.TaskStatusRunning
	case t.Succeeded():
		return model.TaskStatusSucceeded
	default:
		return model.TaskStatusFailed
	}
}
