// Package lib provides a Go SDK to run subdivided tasks step by step and
// observe their progress.
//
// A [Runner] executes a task in discrete steps and calls a [ProgressCallback]
// with a [ProgressInfo] snapshot once with the initial state and once after
// every step. The runner doesn't know what a step does nor how the progress
// is displayed.
//
// # Quick Start
//
// Use a function for the steps and another one to observe the progress:
//
//	runner, err := lib.NewFuncRunner(
//	    func(ts lib.TaskStart[string], step int) error {
//	        return process(ts.Param, step)
//	    },
//	    func(ts lib.TaskStart[string], p lib.ProgressInfo) {
//	        fmt.Printf("task %d: %d/%d\n", p.ID, p.Processed, p.Total)
//	    },
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	runner.Execute(lib.TaskStart[string]{ID: 1, Total: 100, Param: "input.csv"})
//
// # Step runners
//
// Steps can be provided in two ways, both with the same guarantees:
//
//   - A type that implements [StepRunner], for tasks with permanent step logic.
//   - A [StepFunc], for ad-hoc tasks.
//
// # Failures
//
// A failing step (returned error or panic) is reported on the snapshot that
// follows it with Error set and a non empty ErrorMessage, and the run
// continues with the next step. Complete means all the steps have been
// attempted, not that all of them succeeded. Use a [Collector] to aggregate
// the failures of the runs.
//
// Panics on the progress callback are ignored and never stop a run.
//
// # Concurrency
//
// Execute is meant to be the body of one goroutine per task. The same
// [Runner] can execute multiple tasks concurrently, every run gets its own
// executor ID. A callback shared by concurrent runs must synchronize its own
// state, the runner doesn't serialize the callback calls across runs.
package lib
