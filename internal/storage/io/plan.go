package io

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/slok/stepr/internal/model"
)

// PlanYAMLRepository loads simulation plans from YAML files.
type PlanYAMLRepository struct {
	fs fs.FS
}

// NewPlanYAMLRepository creates a new YAML plan repository.
func NewPlanYAMLRepository(filesystem fs.FS) *PlanYAMLRepository {
	return &PlanYAMLRepository{fs: filesystem}
}

// GetPlan loads a plan from a YAML file and returns a validated domain model.
func (r *PlanYAMLRepository) GetPlan(ctx context.Context, path string) (*model.Plan, error) {
	data, err := fs.ReadFile(r.fs, path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("reading plan file %q: %w", path, model.ErrNotFound)
		}
		return nil, fmt.Errorf("reading plan file: %w", err)
	}

	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	var p Plan
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parsing YAML: %w", err)
	}

	plan := p.toModel()
	if err := plan.Validate(); err != nil {
		return nil, fmt.Errorf("invalid plan: %w", err)
	}

	return &plan, nil
}

// Plan represents the YAML structure of a simulation plan.
type Plan struct {
	Defaults TaskDefaults `yaml:"defaults"`
	Tasks    []Task       `yaml:"tasks"`
}

// TaskDefaults are the values used by the tasks that don't set them.
type TaskDefaults struct {
	StepDelay        time.Duration `yaml:"step_delay"`
	ErrorProbability float64       `yaml:"error_probability"`
}

// Task represents the YAML structure of a task, or a group of equal tasks.
type Task struct {
	Steps            int            `yaml:"steps"`
	StepDelay        *time.Duration `yaml:"step_delay,omitempty"`
	ErrorProbability *float64       `yaml:"error_probability,omitempty"`
	// Replicas is the number of equal tasks, defaults to 1.
	Replicas int `yaml:"replicas,omitempty"`
}

func (p Plan) toModel() model.Plan {
	plan := model.Plan{}
	for _, t := range p.Tasks {
		task := model.TaskPlan{
			Steps:            t.Steps,
			StepDelay:        p.Defaults.StepDelay,
			ErrorProbability: p.Defaults.ErrorProbability,
		}
		if t.StepDelay != nil {
			task.StepDelay = *t.StepDelay
		}
		if t.ErrorProbability != nil {
			task.ErrorProbability = *t.ErrorProbability
		}

		replicas := max(t.Replicas, 1)
		for range replicas {
			plan.Tasks = append(plan.Tasks, task)
		}
	}

	return plan
}
