package printer

import (
	"fmt"
	"time"
)

// FormatElapsed returns a human-readable elapsed time.
// Examples: "0.250s", "12.500s", "2m05s", "1h02m03s".
func FormatElapsed(d time.Duration) string {
	if d < 0 {
		d = 0
	}

	if d < time.Minute {
		return fmt.Sprintf("%.3fs", d.Seconds())
	}

	d = d.Round(time.Second)
	h := int(d / time.Hour)
	m := int(d % time.Hour / time.Minute)
	s := int(d % time.Minute / time.Second)
	if h > 0 {
		return fmt.Sprintf("%dh%02dm%02ds", h, m, s)
	}

	return fmt.Sprintf("%dm%02ds", m, s)
}
