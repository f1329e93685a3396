package worker

import (
	"fmt"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/slok/stepr/internal/log"
)

// RunnerConfig is the configuration for the task runner.
type RunnerConfig[T any] struct {
	// StepRunner runs every step of the tasks.
	StepRunner StepRunner[T]
	// Callback receives the progress snapshots. Optional.
	Callback ProgressCallback[T]
	Logger   log.Logger
	// Now returns the current time. Defaults to time.Now.
	Now func() time.Time
	// NewExecutorID returns the identifier of a new run. Defaults to a ULID.
	NewExecutorID func() ExecutorID
}

func (c *RunnerConfig[T]) defaults() error {
	if c.StepRunner == nil {
		return fmt.Errorf("step runner is required")
	}

	if c.Callback == nil {
		c.Callback = NoopProgressCallback[T]
	}

	if c.Logger == nil {
		c.Logger = log.Noop
	}
	c.Logger = c.Logger.WithValues(log.Kv{"svc": "worker.Runner"})

	if c.Now == nil {
		c.Now = time.Now
	}

	if c.NewExecutorID == nil {
		c.NewExecutorID = func() ExecutorID { return ExecutorID(ulid.Make().String()) }
	}

	return nil
}

// Runner executes tasks step by step and reports their progress.
//
// A Runner holds no state of the runs, the same instance can execute
// multiple tasks concurrently, each one on its own goroutine.
type Runner[T any] struct {
	step          StepRunner[T]
	callback      ProgressCallback[T]
	logger        log.Logger
	now           func() time.Time
	newExecutorID func() ExecutorID
}

// NewRunner returns a new task runner.
func NewRunner[T any](cfg RunnerConfig[T]) (*Runner[T], error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Runner[T]{
		step:          cfg.StepRunner,
		callback:      cfg.Callback,
		logger:        cfg.Logger,
		now:           cfg.Now,
		newExecutorID: cfg.NewExecutorID,
	}, nil
}

// NewFuncRunner returns a new task runner whose steps are run by a function.
func NewFuncRunner[T any](step StepFunc[T], callback ProgressCallback[T]) (*Runner[T], error) {
	if step == nil {
		return nil, fmt.Errorf("invalid config: step func is required")
	}

	return NewRunner(RunnerConfig[T]{
		StepRunner: step,
		Callback:   callback,
	})
}

// Execute runs all the steps of the task in order and reports the progress
// through the callback: once with the initial state and once after every step.
//
// A failed step is reported on its snapshot and the run continues with the next
// step. Callback failures are ignored. Execute never fails, it returns when all
// the steps have been attempted.
func (r *Runner[T]) Execute(ts TaskStart[T]) {
	executorID := r.newExecutorID()
	logger := r.logger.WithValues(log.Kv{"task-id": ts.ID, "executor-id": executorID})
	logger.Debugf("Task started with %d steps", ts.Total)

	r.notify(ts, ProgressInfo{
		ID:         ts.ID,
		ExecutorID: executorID,
		Total:      ts.Total,
	})

	start := r.now()
	failed := 0
	for step := 0; step < ts.Total; step++ {
		err := r.runStep(ts, step)

		elapsed := r.now().Sub(start)
		if elapsed < 0 {
			elapsed = 0
		}

		progress := ProgressInfo{
			ID:         ts.ID,
			ExecutorID: executorID,
			Total:      ts.Total,
			Processed:  step + 1,
			Complete:   step == ts.Total-1,
			Elapsed:    elapsed,
		}
		if err != nil {
			failed++
			progress.Error = true
			progress.ErrorMessage = errorMessage(err, step)
		}

		r.notify(ts, progress)
	}

	logger.Debugf("Task finished: %d steps, %d failed", ts.Total, failed)
}

// runStep runs a step converting panics into errors.
func (r *Runner[T]) runStep(ts TaskStart[T], step int) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("step %d panicked: %v", step, rec)
		}
	}()

	return r.step.RunStep(ts, step)
}

// notify calls the progress callback discarding any panic from it.
func (r *Runner[T]) notify(ts TaskStart[T], p ProgressInfo) {
	defer func() { _ = recover() }()

	r.callback(ts, p)
}

// errorMessage returns the message of a step error. Errors that can't describe
// themselves (empty message, typed nil or a panicking Error method) get a
// generic message.
func errorMessage(err error, step int) (msg string) {
	defer func() {
		if rec := recover(); rec != nil || msg == "" {
			msg = fmt.Sprintf("step %d failed", step)
		}
	}()

	return err.Error()
}
