package lib

import (
	"github.com/slok/stepr/internal/report"
	"github.com/slok/stepr/internal/worker"
)

type (
	// TaskID identifies a task instance.
	TaskID = worker.TaskID
	// ExecutorID identifies the execution context that runs a task.
	ExecutorID = worker.ExecutorID
	// TaskStart is the data a task run starts with.
	TaskStart[T any] = worker.TaskStart[T]
	// ProgressInfo is a snapshot of a task run.
	ProgressInfo = worker.ProgressInfo
	// StepRunner knows how to run a single step of a task.
	StepRunner[T any] = worker.StepRunner[T]
	// StepFunc is a helper to use plain functions as StepRunner.
	StepFunc[T any] = worker.StepFunc[T]
	// ProgressCallback receives the progress snapshots of a task run.
	ProgressCallback[T any] = worker.ProgressCallback[T]
	// RunnerConfig is the configuration of a Runner.
	RunnerConfig[T any] = worker.RunnerConfig[T]
	// Runner executes tasks step by step and reports their progress.
	Runner[T any] = worker.Runner[T]
	// Collector aggregates progress snapshots by task.
	Collector[T any] = report.Collector[T]
	// Summary is the aggregated state of the tasks observed by a Collector.
	Summary = report.Summary
	// TaskResult is the aggregated state of a single task run.
	TaskResult = report.TaskResult
)

// NewRunner returns a new task runner.
func NewRunner[T any](cfg RunnerConfig[T]) (*Runner[T], error) {
	return worker.NewRunner(cfg)
}

// NewFuncRunner returns a new task runner whose steps are run by a function.
func NewFuncRunner[T any](step StepFunc[T], callback ProgressCallback[T]) (*Runner[T], error) {
	return worker.NewFuncRunner(step, callback)
}

// NewCollector returns a new collector.
func NewCollector[T any]() *Collector[T] {
	return report.NewCollector[T]()
}

// ChainCallbacks returns a callback that calls all the callbacks in order.
func ChainCallbacks[T any](callbacks ...ProgressCallback[T]) ProgressCallback[T] {
	return report.Chain(callbacks...)
}
