package printer_test

import (
	"testing"
	"time"

	"github.com/slok/stepr/internal/printer"
	"github.com/stretchr/testify/assert"
)

func TestFormatElapsed(t *testing.T) {
	tests := map[string]struct {
		d        time.Duration
		expected string
	}{
		"zero": {
			d:        0,
			expected: "0.000s",
		},
		"negative": {
			d:        -time.Second,
			expected: "0.000s",
		},
		"sub second": {
			d:        250 * time.Millisecond,
			expected: "0.250s",
		},
		"seconds": {
			d:        12500 * time.Millisecond,
			expected: "12.500s",
		},
		"minutes": {
			d:        2*time.Minute + 5*time.Second,
			expected: "2m05s",
		},
		"hours": {
			d:        time.Hour + 2*time.Minute + 3*time.Second,
			expected: "1h02m03s",
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, test.expected, printer.FormatElapsed(test.d))
		})
	}
}
