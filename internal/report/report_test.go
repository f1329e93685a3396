package report_test

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slok/stepr/internal/report"
	"github.com/slok/stepr/internal/worker"
)

func TestCollectorSummary(t *testing.T) {
	tests := map[string]struct {
		snapshots  []worker.ProgressInfo
		expSummary report.Summary
	}{
		"No snapshots should return an empty summary.": {
			expSummary: report.Summary{Tasks: []report.TaskResult{}},
		},
		"Failed steps should be aggregated per task.": {
			snapshots: []worker.ProgressInfo{
				{ID: 1, ExecutorID: "e1", Total: 2, Processed: 0},
				{ID: 0, ExecutorID: "e0", Total: 1, Processed: 0},
				{ID: 1, ExecutorID: "e1", Total: 2, Processed: 1, Error: true, ErrorMessage: "err1", Elapsed: time.Second},
				{ID: 0, ExecutorID: "e0", Total: 1, Processed: 1, Complete: true, Elapsed: time.Second},
				{ID: 1, ExecutorID: "e1", Total: 2, Processed: 2, Error: true, ErrorMessage: "err2", Complete: true, Elapsed: 2 * time.Second},
			},
			expSummary: report.Summary{
				Tasks: []report.TaskResult{
					{ID: 0, ExecutorID: "e0", Total: 1, Processed: 1, Complete: true, Elapsed: time.Second},
					{ID: 1, ExecutorID: "e1", Total: 2, Processed: 2, FailedSteps: 2, LastError: "err2", Complete: true, Elapsed: 2 * time.Second},
				},
				TotalSteps:  3,
				FailedSteps: 2,
				Succeeded:   1,
				Completed:   2,
			},
		},
		"Running tasks should not count as completed nor succeeded.": {
			snapshots: []worker.ProgressInfo{
				{ID: 3, ExecutorID: "e3", Total: 5, Processed: 0},
				{ID: 3, ExecutorID: "e3", Total: 5, Processed: 1, Elapsed: time.Second},
			},
			expSummary: report.Summary{
				Tasks: []report.TaskResult{
					{ID: 3, ExecutorID: "e3", Total: 5, Processed: 1, Elapsed: time.Second},
				},
				TotalSteps: 1,
			},
		},
		"A new run of the same task should reset its results.": {
			snapshots: []worker.ProgressInfo{
				{ID: 3, ExecutorID: "e3", Total: 1, Processed: 0},
				{ID: 3, ExecutorID: "e3", Total: 1, Processed: 1, Error: true, ErrorMessage: "err", Complete: true},
				{ID: 3, ExecutorID: "e4", Total: 1, Processed: 0},
				{ID: 3, ExecutorID: "e4", Total: 1, Processed: 1, Complete: true},
			},
			expSummary: report.Summary{
				Tasks: []report.TaskResult{
					{ID: 3, ExecutorID: "e4", Total: 1, Processed: 1, Complete: true},
				},
				TotalSteps: 1,
				Succeeded:  1,
				Completed:  1,
			},
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			c := report.NewCollector[string]()
			for _, s := range test.snapshots {
				c.Observe(s)
			}

			assert.Equal(t, test.expSummary, c.Summary())
		})
	}
}

func TestCollectorConcurrentRuns(t *testing.T) {
	require := require.New(t)

	c := report.NewCollector[int]()
	r, err := worker.NewFuncRunner[int](func(_ worker.TaskStart[int], step int) error {
		if step%2 == 0 {
			return assert.AnError
		}
		return nil
	}, c.Callback())
	require.NoError(err)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			r.Execute(worker.TaskStart[int]{ID: worker.TaskID(id), Total: 10})
		}(i)
	}
	wg.Wait()

	s := c.Summary()
	require.Len(s.Tasks, 8)
	require.Equal(80, s.TotalSteps)
	require.Equal(40, s.FailedSteps)
	require.Equal(0, s.Succeeded)
	require.Equal(8, s.Completed)
	for _, task := range s.Tasks {
		require.Equal(5, task.FailedSteps)
		require.False(task.Succeeded())
	}
}

func TestChain(t *testing.T) {
	assert := assert.New(t)

	var calls []string
	cb := report.Chain[string](
		func(worker.TaskStart[string], worker.ProgressInfo) { calls = append(calls, "a") },
		nil,
		func(worker.TaskStart[string], worker.ProgressInfo) {
			calls = append(calls, "b")
			panic("broken")
		},
		func(worker.TaskStart[string], worker.ProgressInfo) { calls = append(calls, "c") },
	)

	assert.NotPanics(func() {
		cb(worker.TaskStart[string]{}, worker.ProgressInfo{})
		cb(worker.TaskStart[string]{}, worker.ProgressInfo{})
	})
	assert.Equal([]string{"a", "b", "c", "a", "b", "c"}, calls)
}
