package simulate_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/slok/stepr/internal/app/simulate"
	"github.com/slok/stepr/internal/log"
	"github.com/slok/stepr/internal/model"
	"github.com/slok/stepr/internal/simulation"
	"github.com/slok/stepr/internal/worker"
)

type rendererMock struct {
	mock.Mock
}

func (m *rendererMock) Start(tasks int) error {
	args := m.Called(tasks)
	return args.Error(0)
}

func (m *rendererMock) Render(p worker.ProgressInfo) {
	m.Called(p)
}

func (m *rendererMock) Finish() error {
	args := m.Called()
	return args.Error(0)
}

// failOn returns a step that fails on the steps of the given tasks.
func failOn(steps map[worker.TaskID][]int) worker.StepFunc[simulation.Params] {
	return func(ts worker.TaskStart[simulation.Params], step int) error {
		for _, s := range steps[ts.ID] {
			if s == step {
				return fmt.Errorf("failure on step %d", step)
			}
		}
		return nil
	}
}

func TestNewService(t *testing.T) {
	tests := map[string]struct {
		config simulate.ServiceConfig
		expErr bool
	}{
		"valid config should create service": {
			config: simulate.ServiceConfig{
				Renderer: &rendererMock{},
				Step:     failOn(nil),
				Logger:   log.Noop,
			},
			expErr: false,
		},
		"missing step and logger should use defaults": {
			config: simulate.ServiceConfig{
				Renderer: &rendererMock{},
			},
			expErr: false,
		},
		"missing renderer should fail": {
			config: simulate.ServiceConfig{},
			expErr: true,
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			require := require.New(t)

			svc, err := simulate.NewService(test.config)

			if test.expErr {
				require.Error(err)
				require.Nil(svc)
			} else {
				require.NoError(err)
				require.NotNil(svc)
			}
		})
	}
}

func TestService_Run(t *testing.T) {
	tests := map[string]struct {
		plan         model.Plan
		failures     map[worker.TaskID][]int
		mockRenderer func(m *rendererMock)
		expTasks     int
		expSteps     int
		expFailed    int
		expSucceeded int
		expErr       bool
	}{
		"tasks without failures should all succeed": {
			plan: model.Plan{Tasks: []model.TaskPlan{{Steps: 3}, {Steps: 5}}},
			mockRenderer: func(m *rendererMock) {
				m.On("Start", 2).Once().Return(nil)
				m.On("Render", mock.Anything).Times(10)
				m.On("Finish").Once().Return(nil)
			},
			expTasks:     2,
			expSteps:     8,
			expSucceeded: 2,
		},
		"failed steps should be aggregated and tasks still complete": {
			plan:     model.Plan{Tasks: []model.TaskPlan{{Steps: 2}, {Steps: 4}, {Steps: 1}}},
			failures: map[worker.TaskID][]int{1: {0, 3}, 2: {0}},
			mockRenderer: func(m *rendererMock) {
				m.On("Start", 3).Once().Return(nil)
				m.On("Render", mock.Anything).Times(10)
				m.On("Finish").Once().Return(nil)
			},
			expTasks:     3,
			expSteps:     7,
			expFailed:    3,
			expSucceeded: 1,
		},
		"invalid plan should fail": {
			plan:         model.Plan{},
			mockRenderer: func(m *rendererMock) {},
			expErr:       true,
		},
		"renderer start error should fail": {
			plan: model.Plan{Tasks: []model.TaskPlan{{Steps: 3}}},
			mockRenderer: func(m *rendererMock) {
				m.On("Start", 1).Once().Return(fmt.Errorf("broken terminal"))
			},
			expErr: true,
		},
		"renderer finish error should fail": {
			plan: model.Plan{Tasks: []model.TaskPlan{{Steps: 1}}},
			mockRenderer: func(m *rendererMock) {
				m.On("Start", 1).Once().Return(nil)
				m.On("Render", mock.Anything).Times(2)
				m.On("Finish").Once().Return(fmt.Errorf("broken terminal"))
			},
			expErr: true,
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			assert := assert.New(t)
			require := require.New(t)

			// Setup
			mRenderer := &rendererMock{}
			test.mockRenderer(mRenderer)

			svc, err := simulate.NewService(simulate.ServiceConfig{
				Renderer: mRenderer,
				Step:     failOn(test.failures),
				Logger:   log.Noop,
			})
			require.NoError(err)

			// Execute
			summary, err := svc.Run(context.Background(), simulate.Request{Plan: test.plan})

			// Verify
			if test.expErr {
				assert.Error(err)
			} else if assert.NoError(err) {
				assert.Len(summary.Tasks, test.expTasks)
				assert.Equal(test.expTasks, summary.Completed)
				assert.Equal(test.expSteps, summary.TotalSteps)
				assert.Equal(test.expFailed, summary.FailedSteps)
				assert.Equal(test.expSucceeded, summary.Succeeded)
				for i, task := range summary.Tasks {
					assert.Equal(worker.TaskID(i), task.ID)
					assert.Equal(test.plan.Tasks[i].Steps, task.Processed)
					assert.NotEmpty(task.ExecutorID)
				}
			}

			mRenderer.AssertExpectations(t)
		})
	}
}

func TestService_RunUsesTaskParams(t *testing.T) {
	require := require.New(t)

	mRenderer := &rendererMock{}
	mRenderer.On("Start", 1).Once().Return(nil)
	mRenderer.On("Render", mock.Anything).Times(3)
	mRenderer.On("Finish").Once().Return(nil)

	var got []simulation.Params
	svc, err := simulate.NewService(simulate.ServiceConfig{
		Renderer: mRenderer,
		Step: worker.StepFunc[simulation.Params](func(ts worker.TaskStart[simulation.Params], _ int) error {
			got = append(got, ts.Param)
			return nil
		}),
	})
	require.NoError(err)

	_, err = svc.Run(context.Background(), simulate.Request{Plan: model.Plan{Tasks: []model.TaskPlan{
		{Steps: 2, StepDelay: time.Millisecond, ErrorProbability: 0.25},
	}}})
	require.NoError(err)

	exp := simulation.Params{StepDelay: time.Millisecond, ErrorProbability: 0.25}
	require.Equal([]simulation.Params{exp, exp}, got)
	mRenderer.AssertExpectations(t)
}

func TestService_RunStopsWaitingOnContextEnd(t *testing.T) {
	require := require.New(t)

	release := make(chan struct{})
	defer close(release)

	mRenderer := &rendererMock{}
	mRenderer.On("Start", 1).Once().Return(nil)
	mRenderer.On("Render", mock.Anything).Maybe()

	svc, err := simulate.NewService(simulate.ServiceConfig{
		Renderer: mRenderer,
		Step: worker.StepFunc[simulation.Params](func(worker.TaskStart[simulation.Params], int) error {
			<-release
			return nil
		}),
	})
	require.NoError(err)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	summary, err := svc.Run(ctx, simulate.Request{Plan: model.Plan{Tasks: []model.TaskPlan{{Steps: 1}}}})
	require.ErrorIs(err, context.DeadlineExceeded)
	require.Nil(summary)
	mRenderer.AssertNotCalled(t, "Finish")
}
