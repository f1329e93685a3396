package console

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/slok/stepr/internal/worker"
)

const (
	lineBarWidth = 40
	lineBuckets  = 10
)

type lineTask struct {
	bucket int
	failed int
}

// LineRenderer prints one progress line per task every time the task advances
// a tenth of its steps, it works on any writer.
type LineRenderer struct {
	out   io.Writer
	state map[worker.TaskID]*lineTask
	mu    sync.Mutex
}

// NewLineRenderer returns a new LineRenderer.
func NewLineRenderer(out io.Writer) *LineRenderer {
	return &LineRenderer{
		out:   out,
		state: map[worker.TaskID]*lineTask{},
	}
}

func (l *LineRenderer) Start(tasks int) error {
	_, err := fmt.Fprintf(l.out, "Running %d tasks\n", tasks)
	return err
}

func (l *LineRenderer) Render(p worker.ProgressInfo) {
	l.mu.Lock()
	defer l.mu.Unlock()

	t, ok := l.state[p.ID]
	if !ok {
		t = &lineTask{bucket: -1}
		l.state[p.ID] = t
	}
	if p.Error {
		t.failed++
	}

	bucket := barPosition(p, lineBuckets)
	if bucket <= t.bucket && !p.Complete {
		return
	}
	t.bucket = bucket

	pct := 0.0
	if p.Total > 0 {
		pct = float64(p.Processed) / float64(p.Total) * 100
	}
	filled := barPosition(p, lineBarWidth)
	bar := strings.Repeat("=", filled) + strings.Repeat(" ", lineBarWidth-filled)
	fmt.Fprintf(l.out, "task %d [%s] %3.0f%% %d/%d steps, %d failed", p.ID, bar, pct, p.Processed, p.Total, t.failed)

	if p.Complete {
		fmt.Fprintf(l.out, ", done in %.3fs", p.ElapsedSec())
	}
	fmt.Fprintln(l.out)
}

func (l *LineRenderer) Finish() error {
	_, err := fmt.Fprintln(l.out, "Calculation finished")
	return err
}
