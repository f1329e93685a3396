package printer

import "github.com/slok/stepr/internal/report"

// Printer knows how to print the simulation results in different formats.
type Printer interface {
	PrintSummary(summary report.Summary) error
	PrintMessage(msg string) error
}
