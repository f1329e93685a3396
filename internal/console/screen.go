package console

import (
	"fmt"
	"io"
	"sync"

	"github.com/slok/stepr/internal/worker"
)

const (
	screenBarWidth    = 80
	screenRowsPerTask = 5

	ansiClear   = "\x1b[2J"
	ansiReset   = "\x1b[0m"
	ansiErrorBg = "\x1b[41m"
	ansiShowCur = "\x1b[?25h"
	ansiHideCur = "\x1b[?25l"
)

type screenTask struct {
	pos  int
	seen bool
}

// ScreenRenderer draws every task on its own block of terminal rows and
// advances a bar of X as the steps are processed. Failed steps are drawn in
// red.
type ScreenRenderer struct {
	out     io.Writer
	noColor bool
	tasks   int
	state   map[worker.TaskID]*screenTask
	mu      sync.Mutex
}

// NewScreenRenderer returns a new ScreenRenderer.
func NewScreenRenderer(out io.Writer, noColor bool) *ScreenRenderer {
	return &ScreenRenderer{
		out:     out,
		noColor: noColor,
		state:   map[worker.TaskID]*screenTask{},
	}
}

func (s *ScreenRenderer) Start(tasks int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.tasks = tasks
	if s.noColor {
		_, err := fmt.Fprint(s.out, ansiClear)
		return err
	}

	_, err := fmt.Fprint(s.out, ansiReset+ansiHideCur+ansiClear)
	return err
}

func (s *ScreenRenderer) Render(p worker.ProgressInfo) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.state[p.ID]
	if !ok {
		t = &screenTask{}
		s.state[p.ID] = t
	}

	newPos := barPosition(p, screenBarWidth)
	if t.seen && newPos <= t.pos && !p.Error && !p.Complete {
		return
	}

	row := int(p.ID) * screenRowsPerTask
	if !t.seen {
		t.seen = true
		s.moveTo(0, row)
		fmt.Fprintf(s.out, "Task ID: %d", p.ID)
		s.moveTo(0, row+1)
		fmt.Fprintf(s.out, "Executor ID: %s", p.ExecutorID)
	}

	for x := t.pos; x < newPos; x++ {
		s.moveTo(x, row+2)
		s.cell(p.Error && x == newPos-1)
	}
	// The bar didn't advance, mark the failure on the last cell.
	if p.Error && newPos == t.pos && newPos > 0 {
		s.moveTo(newPos-1, row+2)
		s.cell(true)
	}
	t.pos = max(t.pos, newPos)

	if p.Complete {
		s.moveTo(0, row+3)
		fmt.Fprintf(s.out, "Elapsed: %.3fs", p.ElapsedSec())
	}
}

func (s *ScreenRenderer) Finish() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.moveTo(0, s.tasks*screenRowsPerTask+1)
	suffix := ""
	if !s.noColor {
		suffix = ansiReset + ansiShowCur
	}
	_, err := fmt.Fprintf(s.out, "Calculation finished%s\n", suffix)
	return err
}

// moveTo moves the cursor to a 0 based column and row.
func (s *ScreenRenderer) moveTo(x, y int) {
	fmt.Fprintf(s.out, "\x1b[%d;%dH", y+1, x+1)
}

func (s *ScreenRenderer) cell(failed bool) {
	switch {
	case !failed:
		fmt.Fprint(s.out, "X")
	case s.noColor:
		fmt.Fprint(s.out, "!")
	default:
		fmt.Fprint(s.out, ansiErrorBg+"X"+ansiReset)
	}
}
