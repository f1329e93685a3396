// Package console renders the progress of concurrent tasks on a terminal.
package console

import (
	"fmt"
	"io"

	"github.com/mattn/go-isatty"

	"github.com/slok/stepr/internal/log"
	"github.com/slok/stepr/internal/worker"
)

// Renderer knows how to display the progress of a group of tasks.
//
// Render is called concurrently from all the task runs.
type Renderer interface {
	// Start is called once before any task starts.
	Start(tasks int) error
	// Render displays a progress snapshot.
	Render(p worker.ProgressInfo)
	// Finish is called once after all the tasks finished.
	Finish() error
}

// Mode is the rendering mode.
type Mode string

const (
	// ModeAuto uses the screen mode on terminals and the line mode otherwise.
	ModeAuto   Mode = "auto"
	ModeScreen Mode = "screen"
	ModeLine   Mode = "line"
	ModeLog    Mode = "log"
)

// RendererConfig is the configuration to select a renderer.
type RendererConfig struct {
	Mode    Mode
	Out     io.Writer
	NoColor bool
	Logger  log.Logger
}

func (c *RendererConfig) defaults() error {
	if c.Mode == "" {
		c.Mode = ModeAuto
	}

	if c.Out == nil {
		c.Out = io.Discard
	}

	if c.Logger == nil {
		c.Logger = log.Noop
	}

	return nil
}

// NewRenderer returns the renderer for the configured mode.
func NewRenderer(cfg RendererConfig) (Renderer, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	mode := cfg.Mode
	if mode == ModeAuto {
		mode = ModeLine
		if IsTerminal(cfg.Out) {
			mode = ModeScreen
		}
	}

	switch mode {
	case ModeScreen:
		return NewScreenRenderer(cfg.Out, cfg.NoColor), nil
	case ModeLine:
		return NewLineRenderer(cfg.Out), nil
	case ModeLog:
		return NewLogRenderer(cfg.Logger), nil
	}

	return nil, fmt.Errorf("unknown render mode: %q", cfg.Mode)
}

// IsTerminal returns true when the writer is a terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(interface{ Fd() uintptr })
	if !ok {
		return false
	}

	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// barPosition maps the processed steps to a position in [0, width].
func barPosition(p worker.ProgressInfo, width int) int {
	if p.Total <= 0 {
		return 0
	}

	pos := width * p.Processed / p.Total
	return min(max(pos, 0), width)
}
