package model

import (
	"fmt"
	"math/rand/v2"
	"time"
)

// TaskPlan describes a single simulated task.
type TaskPlan struct {
	// Steps is the number of steps of the task.
	Steps int
	// StepDelay is the time every step takes.
	StepDelay time.Duration
	// ErrorProbability is the probability of a step failing, from 0 to 1.
	ErrorProbability float64
}

// Validate validates the task plan.
func (t TaskPlan) Validate() error {
	if t.Steps <= 0 {
		return fmt.Errorf("steps must be positive, got: %d: %w", t.Steps, ErrNotValid)
	}

	if t.StepDelay < 0 {
		return fmt.Errorf("step delay can't be negative, got: %s: %w", t.StepDelay, ErrNotValid)
	}

	if t.ErrorProbability < 0 || t.ErrorProbability > 1 {
		return fmt.Errorf("error probability must be between 0 and 1, got: %v: %w", t.ErrorProbability, ErrNotValid)
	}

	return nil
}

// Plan is the set of tasks of a simulation, every task runs concurrently.
type Plan struct {
	Tasks []TaskPlan
}

// Validate validates the plan.
func (p Plan) Validate() error {
	if len(p.Tasks) == 0 {
		return fmt.Errorf("at least one task is required: %w", ErrNotValid)
	}

	for i, t := range p.Tasks {
		if err := t.Validate(); err != nil {
			return fmt.Errorf("task %d: %w", i, err)
		}
	}

	return nil
}

// RandomPlanConfig is the configuration to generate a random plan.
type RandomPlanConfig struct {
	Tasks            int
	MinSteps         int
	MaxSteps         int
	StepDelay        time.Duration
	ErrorProbability float64
	// IntN returns a number in [0, n). Defaults to math/rand.
	IntN func(n int) int
}

func (c *RandomPlanConfig) defaults() error {
	if c.Tasks <= 0 {
		return fmt.Errorf("tasks must be positive, got: %d", c.Tasks)
	}

	if c.MinSteps <= 0 {
		return fmt.Errorf("min steps must be positive, got: %d", c.MinSteps)
	}

	if c.MaxSteps < c.MinSteps {
		return fmt.Errorf("max steps (%d) can't be lower than min steps (%d)", c.MaxSteps, c.MinSteps)
	}

	if c.IntN == nil {
		c.IntN = rand.IntN
	}

	return nil
}

// NewRandomPlan returns a plan whose tasks share the step delay and error
// probability but have a random number of steps in [MinSteps, MaxSteps].
func NewRandomPlan(cfg RandomPlanConfig) (*Plan, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w: %w", err, ErrNotValid)
	}

	plan := &Plan{Tasks: make([]TaskPlan, 0, cfg.Tasks)}
	for range cfg.Tasks {
		plan.Tasks = append(plan.Tasks, TaskPlan{
			Steps:            cfg.MinSteps + cfg.IntN(cfg.MaxSteps-cfg.MinSteps+1),
			StepDelay:        cfg.StepDelay,
			ErrorProbability: cfg.ErrorProbability,
		})
	}

	if err := plan.Validate(); err != nil {
		return nil, err
	}

	return plan, nil
}
