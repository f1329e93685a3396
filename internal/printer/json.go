package printer

import (
	"encoding/json"
	"io"

	"github.com/slok/stepr/internal/report"
)

// JSONPrinter prints the results in JSON format.
type JSONPrinter struct {
	writer io.Writer
}

// NewJSONPrinter creates a new JSON printer.
func NewJSONPrinter(w io.Writer) *JSONPrinter {
	return &JSONPrinter{writer: w}
}

// taskOutput represents a task in the summary output.
type taskOutput struct {
	ID          uint64  `json:"id"`
	ExecutorID  string  `json:"executor_id"`
	Total       int     `json:"total"`
	Processed   int     `json:"processed"`
	FailedSteps int     `json:"failed_steps"`
	LastError   string  `json:"last_error,omitempty"`
	Status      string  `json:"status"`
	ElapsedSec  float64 `json:"elapsed_sec"`
}

// summaryOutput represents the full summary output.
type summaryOutput struct {
	Tasks       []taskOutput `json:"tasks"`
	TotalSteps  int          `json:"total_steps"`
	FailedSteps int          `json:"failed_steps"`
	Succeeded   int          `json:"succeeded"`
	Completed   int          `json:"completed"`
}

// messageOutput represents a simple message output.
type messageOutput struct {
	Message string `json:"message"`
}

// PrintSummary prints the summary in JSON format.
func (j *JSONPrinter) PrintSummary(summary report.Summary) error {
	output := summaryOutput{
		Tasks:       make([]taskOutput, 0, len(summary.Tasks)),
		TotalSteps:  summary.TotalSteps,
		FailedSteps: summary.FailedSteps,
		Succeeded:   summary.Succeeded,
		Completed:   summary.Completed,
	}

	for _, t := range summary.Tasks {
		output.Tasks = append(output.Tasks, taskOutput{
			ID:          uint64(t.ID),
			ExecutorID:  string(t.ExecutorID),
			Total:       t.Total,
			Processed:   t.Processed,
			FailedSteps: t.FailedSteps,
			LastError:   t.LastError,
			Status:      string(TaskStatus(t)),
			ElapsedSec:  t.Elapsed.Seconds(),
		})
	}

	enc := json.NewEncoder(j.writer)
	enc.SetIndent("", "  ")
	return enc.Encode(output)
}

// PrintMessage prints a simple message in JSON format.
func (j *JSONPrinter) PrintMessage(msg string) error {
	output := messageOutput{Message: msg}
	enc := json.NewEncoder(j.writer)
	enc.SetIndent("", "  ")
	return enc.Encode(output)
}
