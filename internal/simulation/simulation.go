// Package simulation has the step logic of the simulated tasks: every step
// takes some time and can fail randomly.
package simulation

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/slok/stepr/internal/worker"
)

// ErrStepFailed is returned by the simulated steps that fail.
var ErrStepFailed = errors.New("an error occurred")

// Params are the simulation parameters of a task.
type Params struct {
	// StepDelay is the time every step takes.
	StepDelay time.Duration
	// ErrorProbability is the probability of a step failing, from 0 to 1.
	ErrorProbability float64
}

// Validate checks the parameters are usable.
func (p Params) Validate() error {
	if p.StepDelay < 0 {
		return fmt.Errorf("step delay can't be negative, got: %s", p.StepDelay)
	}

	if p.ErrorProbability < 0 || p.ErrorProbability > 1 {
		return fmt.Errorf("error probability must be between 0 and 1, got: %v", p.ErrorProbability)
	}

	return nil
}

// StepConfig is the configuration of the simulated step.
type StepConfig struct {
	// Random returns a number in [0, 1). Defaults to math/rand.
	Random func() float64
	// Sleep blocks for a duration. Defaults to time.Sleep.
	Sleep func(time.Duration)
}

func (c *StepConfig) defaults() {
	if c.Random == nil {
		c.Random = rand.Float64
	}

	if c.Sleep == nil {
		c.Sleep = time.Sleep
	}
}

// Step is a worker.StepRunner that simulates work.
//
// Step is safe to use from multiple concurrent task runs.
type Step struct {
	random func() float64
	sleep  func(time.Duration)
	mu     sync.Mutex
}

var _ worker.StepRunner[Params] = (*Step)(nil)

// NewStep returns a new simulated step.
func NewStep(cfg StepConfig) *Step {
	cfg.defaults()

	return &Step{
		random: cfg.Random,
		sleep:  cfg.Sleep,
	}
}

// RunStep waits the step delay and fails with the configured probability.
// Steps of tasks with invalid parameters fail without waiting.
func (s *Step) RunStep(ts worker.TaskStart[Params], step int) error {
	if err := ts.Param.Validate(); err != nil {
		return fmt.Errorf("task %d step %d: invalid params: %w", ts.ID, step, err)
	}

	s.sleep(ts.Param.StepDelay)

	if s.roll() < ts.Param.ErrorProbability {
		return fmt.Errorf("task %d step %d: %w", ts.ID, step, ErrStepFailed)
	}

	return nil
}

// roll serializes the access to the random source, custom sources are not
// required to be safe for concurrent use.
func (s *Step) roll() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.random()
}
