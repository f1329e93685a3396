// Package report aggregates the progress of task runs.
//
// A completed task only means that all its steps have been attempted, the
// collector is what tells if they succeeded.
package report

import (
	"sort"
	"sync"
	"time"

	"github.com/samber/lo"

	"github.com/slok/stepr/internal/worker"
)

// TaskResult is the aggregated state of a single task run.
type TaskResult struct {
	ID          worker.TaskID
	ExecutorID  worker.ExecutorID
	Total       int
	Processed   int
	FailedSteps int
	LastError   string
	Complete    bool
	Elapsed     time.Duration
}

// Succeeded returns true when the task completed without failed steps.
func (t TaskResult) Succeeded() bool {
	return t.Complete && t.FailedSteps == 0
}

// Summary is the aggregated state of all the observed tasks.
type Summary struct {
	Tasks       []TaskResult
	TotalSteps  int
	FailedSteps int
	Succeeded   int
	Completed   int
}

// Collector aggregates progress snapshots by task.
//
// It is safe to share the same collector between concurrent task runs.
type Collector[T any] struct {
	mu    sync.Mutex
	tasks map[worker.TaskID]*TaskResult
}

// NewCollector returns a new collector.
func NewCollector[T any]() *Collector[T] {
	return &Collector[T]{tasks: map[worker.TaskID]*TaskResult{}}
}

// Callback returns the progress callback that feeds the collector.
func (c *Collector[T]) Callback() worker.ProgressCallback[T] {
	return func(_ worker.TaskStart[T], p worker.ProgressInfo) {
		c.Observe(p)
	}
}

// Observe registers a progress snapshot.
func (c *Collector[T]) Observe(p worker.ProgressInfo) {
	c.mu.Lock()
	defer c.mu.Unlock()

	t, ok := c.tasks[p.ID]
	if !ok || (p.Processed == 0 && t.ExecutorID != p.ExecutorID) {
		// New run, or the same task ID executed again.
		t = &TaskResult{ID: p.ID}
		c.tasks[p.ID] = t
	}

	t.ExecutorID = p.ExecutorID
	t.Total = p.Total
	t.Processed = p.Processed
	t.Complete = p.Complete
	t.Elapsed = p.Elapsed
	if p.Error {
		t.FailedSteps++
		t.LastError = p.ErrorMessage
	}
}

// Summary returns the current state of all the tasks sorted by ID.
func (c *Collector[T]) Summary() Summary {
	c.mu.Lock()
	tasks := make([]TaskResult, 0, len(c.tasks))
	for _, t := range c.tasks {
		tasks = append(tasks, *t)
	}
	c.mu.Unlock()

	sort.Slice(tasks, func(i, j int) bool { return tasks[i].ID < tasks[j].ID })

	return Summary{
		Tasks:       tasks,
		TotalSteps:  lo.SumBy(tasks, func(t TaskResult) int { return t.Processed }),
		FailedSteps: lo.SumBy(tasks, func(t TaskResult) int { return t.FailedSteps }),
		Succeeded:   lo.CountBy(tasks, func(t TaskResult) bool { return t.Succeeded() }),
		Completed:   lo.CountBy(tasks, func(t TaskResult) bool { return t.Complete }),
	}
}

// Chain returns a callback that calls all the callbacks in order. A panic on
// one of them doesn't stop the others from being called.
func Chain[T any](callbacks ...worker.ProgressCallback[T]) worker.ProgressCallback[T] {
	callbacks = lo.Filter(callbacks, func(cb worker.ProgressCallback[T], _ int) bool { return cb != nil })

	return func(ts worker.TaskStart[T], p worker.ProgressInfo) {
		for _, cb := range callbacks {
			safeCall(cb, ts, p)
		}
	}
}

func safeCall[T any](cb worker.ProgressCallback[T], ts worker.TaskStart[T], p worker.ProgressInfo) {
	defer func() { _ = recover() }()

	cb(ts, p)
}
