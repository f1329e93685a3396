package console

import (
	"github.com/slok/stepr/internal/log"
	"github.com/slok/stepr/internal/worker"
)

// LogRenderer reports the progress as log entries.
type LogRenderer struct {
	logger log.Logger
}

// NewLogRenderer returns a new LogRenderer.
func NewLogRenderer(logger log.Logger) *LogRenderer {
	if logger == nil {
		logger = log.Noop
	}

	return &LogRenderer{logger: logger.WithValues(log.Kv{"svc": "console.LogRenderer"})}
}

func (l *LogRenderer) Start(tasks int) error {
	l.logger.Infof("Running %d tasks", tasks)
	return nil
}

func (l *LogRenderer) Render(p worker.ProgressInfo) {
	logger := l.logger.WithValues(log.Kv{
		"task-id":     p.ID,
		"executor-id": p.ExecutorID,
		"processed":   p.Processed,
		"total":       p.Total,
	})

	switch {
	case p.Processed == 0:
		logger.Infof("Task started")
	case p.Error:
		logger.Warningf("Step %d failed: %s", p.Processed-1, p.ErrorMessage)
	default:
		logger.Debugf("Step %d done", p.Processed-1)
	}

	if p.Complete {
		logger.WithValues(log.Kv{"elapsed": p.Elapsed.String()}).Infof("Task completed")
	}
}

func (l *LogRenderer) Finish() error {
	l.logger.Infof("Calculation finished")
	return nil
}
