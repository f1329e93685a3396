// Package worker runs a subdivided task step by step and reports a progress
// snapshot to an observer after the initial state and after every step.
//
// The package only knows how to drive the steps, it doesn't know what a step
// does (see [StepRunner]) nor how progress is displayed (see [ProgressCallback]).
package worker

import "time"

// TaskID identifies a task instance. IDs are assigned by the caller.
type TaskID uint64

// ExecutorID identifies the execution context that runs a task.
type ExecutorID string

// TaskStart is the data a task run starts with.
type TaskStart[T any] struct {
	// ID is the caller assigned task identifier.
	ID TaskID
	// Total is the number of steps of the task.
	Total int
	// Param is the task specific configuration, passed unchanged to every step.
	Param T
}

// ProgressInfo is a snapshot of a task run at one point in time.
type ProgressInfo struct {
	ID         TaskID
	ExecutorID ExecutorID
	Total      int
	// Processed is the number of steps attempted so far.
	Processed int
	// Error is set when the last attempted step failed.
	Error        bool
	ErrorMessage string
	// Complete is set on the snapshot that follows the last step.
	Complete bool
	// Elapsed is the time since the first step started.
	Elapsed time.Duration
}

// ElapsedSec returns the elapsed time in fractional seconds.
func (p ProgressInfo) ElapsedSec() float64 {
	return p.Elapsed.Seconds()
}

// StepRunner knows how to run a single step of a task.
type StepRunner[T any] interface {
	RunStep(ts TaskStart[T], step int) error
}

// StepFunc is a helper to use plain functions as StepRunner.
type StepFunc[T any] func(ts TaskStart[T], step int) error

// RunStep satisfies StepRunner interface.
func (f StepFunc[T]) RunStep(ts TaskStart[T], step int) error {
	return f(ts, step)
}

// ProgressCallback receives the progress snapshots of a task run.
//
// The same callback is normally shared by many concurrent runs, implementations
// must synchronize access to any shared state by themselves.
type ProgressCallback[T any] func(ts TaskStart[T], p ProgressInfo)

// NoopProgressCallback ignores all the progress snapshots.
func NoopProgressCallback[T any](TaskStart[T], ProgressInfo) {}
