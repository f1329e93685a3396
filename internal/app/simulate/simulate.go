package simulate

import (
	"context"
	"fmt"

	"github.com/sourcegraph/conc"

	"github.com/slok/stepr/internal/console"
	"github.com/slok/stepr/internal/log"
	"github.com/slok/stepr/internal/model"
	"github.com/slok/stepr/internal/report"
	"github.com/slok/stepr/internal/simulation"
	"github.com/slok/stepr/internal/worker"
)

// ServiceConfig is the configuration for the simulate service.
type ServiceConfig struct {
	Renderer console.Renderer
	// Step runs the steps of every task. Defaults to the random simulated step.
	Step   worker.StepRunner[simulation.Params]
	Logger log.Logger
}

func (c *ServiceConfig) defaults() error {
	if c.Renderer == nil {
		return fmt.Errorf("renderer is required")
	}

	if c.Step == nil {
		c.Step = simulation.NewStep(simulation.StepConfig{})
	}

	if c.Logger == nil {
		c.Logger = log.Noop
	}
	c.Logger = c.Logger.WithValues(log.Kv{"svc": "app.simulate"})

	return nil
}

// Service runs the tasks of a plan concurrently, one goroutine per task, and
// renders their progress.
type Service struct {
	renderer console.Renderer
	step     worker.StepRunner[simulation.Params]
	logger   log.Logger
}

// NewService creates a new simulate service.
func NewService(cfg ServiceConfig) (*Service, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Service{
		renderer: cfg.Renderer,
		step:     cfg.Step,
		logger:   cfg.Logger,
	}, nil
}

// Request represents the simulate request parameters.
type Request struct {
	Plan model.Plan
}

// Run executes all the tasks of the plan and waits for them, the returned
// summary has the aggregated results of every task.
//
// Tasks can't be canceled: if the context ends before the tasks finish, Run
// stops waiting and returns the context error, the tasks keep running.
func (s *Service) Run(ctx context.Context, req Request) (*report.Summary, error) {
	if err := req.Plan.Validate(); err != nil {
		return nil, fmt.Errorf("invalid plan: %w", err)
	}

	collector := report.NewCollector[simulation.Params]()
	render := func(_ worker.TaskStart[simulation.Params], p worker.ProgressInfo) {
		s.renderer.Render(p)
	}

	runner, err := worker.NewRunner(worker.RunnerConfig[simulation.Params]{
		StepRunner: s.step,
		Callback:   report.Chain[simulation.Params](render, collector.Callback()),
		Logger:     s.logger,
	})
	if err != nil {
		return nil, fmt.Errorf("could not create task runner: %w", err)
	}

	if err := s.renderer.Start(len(req.Plan.Tasks)); err != nil {
		return nil, fmt.Errorf("could not start renderer: %w", err)
	}

	s.logger.Debugf("Launching %d tasks", len(req.Plan.Tasks))

	var wg conc.WaitGroup
	for i, t := range req.Plan.Tasks {
		ts := worker.TaskStart[simulation.Params]{
			ID:    worker.TaskID(i),
			Total: t.Steps,
			Param: simulation.Params{
				StepDelay:        t.StepDelay,
				ErrorProbability: t.ErrorProbability,
			},
		}
		wg.Go(func() { runner.Execute(ts) })
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		wg.Wait()
	}()

	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("stopped waiting for tasks: %w", ctx.Err())
	case <-done:
	}

	if err := s.renderer.Finish(); err != nil {
		return nil, fmt.Errorf("could not finish renderer: %w", err)
	}

	summary := collector.Summary()
	s.logger.Infof("%d tasks completed, %d succeeded, %d of %d steps failed", summary.Completed, summary.Succeeded, summary.FailedSteps, summary.TotalSteps)

	return &summary, nil
}
