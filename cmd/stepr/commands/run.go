package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/alecthomas/kingpin/v2"

	"github.com/slok/stepr/internal/app/simulate"
	"github.com/slok/stepr/internal/console"
	"github.com/slok/stepr/internal/model"
	"github.com/slok/stepr/internal/printer"
	storageio "github.com/slok/stepr/internal/storage/io"
)

const stoppedMessage = "Stopped waiting for the running tasks"

type RunCommand struct {
	Cmd     *kingpin.CmdClause
	rootCmd *RootCommand

	tasks            int
	minSteps         int
	maxSteps         int
	stepDelay        time.Duration
	errorProbability float64
	planFile         string
	render           string
	format           string
}

// NewRunCommand returns the run command.
func NewRunCommand(rootCmd *RootCommand, app *kingpin.Application) *RunCommand {
	c := &RunCommand{rootCmd: rootCmd}

	c.Cmd = app.Command("run", "Run simulated tasks concurrently and display their progress.")
	c.Cmd.Flag("tasks", "Number of concurrent tasks.").Default("3").IntVar(&c.tasks)
	c.Cmd.Flag("min-steps", "Minimum number of steps of a task.").Default("100").IntVar(&c.minSteps)
	c.Cmd.Flag("max-steps", "Maximum number of steps of a task.").Default("1000").IntVar(&c.maxSteps)
	c.Cmd.Flag("step-delay", "Time every step takes.").Default("10ms").DurationVar(&c.stepDelay)
	c.Cmd.Flag("error-probability", "Probability of a step failing (0 to 1).").Default("0.05").Float64Var(&c.errorProbability)
	c.Cmd.Flag("plan", "YAML plan file with the tasks to run, replaces the random plan flags.").Short('p').StringVar(&c.planFile)
	c.Cmd.Flag("render", "Progress rendering mode.").Default(string(console.ModeAuto)).EnumVar(&c.render,
		string(console.ModeAuto), string(console.ModeScreen), string(console.ModeLine), string(console.ModeLog))
	c.Cmd.Flag("format", "Summary output format (table, json).").Default("table").EnumVar(&c.format, "table", "json")

	return c
}

func (c RunCommand) Name() string { return c.Cmd.FullCommand() }

// Quiet returns true when the progress is drawn on the output instead of logged.
func (c RunCommand) Quiet() bool { return console.Mode(c.render) != console.ModeLog }

func (c RunCommand) Run(ctx context.Context) error {
	logger := c.rootCmd.Logger

	plan, err := c.loadPlan(ctx)
	if err != nil {
		return err
	}

	renderer, err := console.NewRenderer(console.RendererConfig{
		Mode:    console.Mode(c.render),
		Out:     c.rootCmd.Stdout,
		NoColor: c.rootCmd.NoColor,
		Logger:  logger,
	})
	if err != nil {
		return fmt.Errorf("could not create renderer: %w", err)
	}

	// Create simulate service.
	svc, err := simulate.NewService(simulate.ServiceConfig{
		Renderer: renderer,
		Logger:   logger,
	})
	if err != nil {
		return fmt.Errorf("could not create service: %w", err)
	}

	var p printer.Printer
	switch c.format {
	case "json":
		p = printer.NewJSONPrinter(c.rootCmd.Stdout)
	default: // table
		p = printer.NewTablePrinter(c.rootCmd.Stdout)
	}

	// Execute simulation.
	summary, err := svc.Run(ctx, simulate.Request{Plan: *plan})
	if err != nil {
		// Interrupted by the user, the tasks can't be stopped so we only tell we stopped waiting.
		if ctxErr := ctx.Err(); ctxErr != nil && errors.Is(err, ctxErr) {
			logger.Warningf("Execution interrupted: %s", err)
			return p.PrintMessage(stoppedMessage)
		}
		return fmt.Errorf("could not run tasks: %w", err)
	}

	// Print output.
	if err := p.PrintSummary(*summary); err != nil {
		return fmt.Errorf("could not print summary: %w", err)
	}

	return nil
}

func (c RunCommand) loadPlan(ctx context.Context) (*model.Plan, error) {
	if c.planFile == "" {
		plan, err := model.NewRandomPlan(model.RandomPlanConfig{
			Tasks:            c.tasks,
			MinSteps:         c.minSteps,
			MaxSteps:         c.maxSteps,
			StepDelay:        c.stepDelay,
			ErrorProbability: c.errorProbability,
		})
		if err != nil {
			return nil, fmt.Errorf("could not create plan: %w", err)
		}
		return plan, nil
	}

	planPath, err := filepath.Abs(c.planFile)
	if err != nil {
		return nil, fmt.Errorf("could not resolve plan path: %w", err)
	}

	repo := storageio.NewPlanYAMLRepository(os.DirFS("/"))
	plan, err := repo.GetPlan(ctx, planPath[1:])
	if err != nil {
		return nil, fmt.Errorf("could not load plan: %w", err)
	}

	return plan, nil
}
