// Package dispatch runs the requested phases for a resolved project.
//
// Phases always run in the order lint, build, run. Each phase asks the
// project kind for its command, so the table of tools lives with the
// kinds and this package only sequences them.
package dispatch

import (
	"context"

	"github.com/jakoblorz/go-quickbuild/internal/logging"
	"github.com/jakoblorz/go-quickbuild/internal/models"
	"github.com/jakoblorz/go-quickbuild/internal/output"
	"github.com/jakoblorz/go-quickbuild/internal/project"
	"github.com/jakoblorz/go-quickbuild/internal/runner"
	"github.com/rotisserie/eris"
)

const (
	// ExitOK is returned when every requested phase could be attempted,
	// whether or not the tools succeeded.
	ExitOK = 0

	// ExitNoTarget is returned when build or run was requested but nothing
	// could be built or run.
	ExitNoTarget = 2
)

// Phase names one stage of an invocation.
type Phase string

const (
	PhaseLint  Phase = "Lint"
	PhaseBuild Phase = "Build"
	PhaseRun   Phase = "Run"
)

// Status is how a phase ended.
type Status string

const (
	StatusSucceeded  Status = "succeeded"
	StatusFailed     Status = "failed"
	StatusNotStarted Status = "not-started"
	StatusAbnormal   Status = "abnormal"
	StatusSkipped    Status = "skipped"
	StatusPlanned    Status = "planned"
)

// PhaseResult records one attempted or skipped phase.
type PhaseResult struct {
	Phase    Phase
	Command  models.Command
	Status   Status
	ExitCode int
	Err      error
}

// Outcome is the result of one invocation.
type Outcome struct {
	ExitCode int
	Phases   []PhaseResult
}

// Phase returns the result for p, if it was recorded.
func (o *Outcome) Phase(p Phase) (PhaseResult, bool) {
	for _, r := range o.Phases {
		if r.Phase == p {
			return r, true
		}
	}
	return PhaseResult{}, false
}

// Dispatcher sequences the phases of one invocation.
type Dispatcher struct {
	runner runner.Runner
	out    *output.Reporter
	tools  map[string]string
	dryRun bool
}

// Option configures dispatcher behavior.
type Option func(*Dispatcher)

// WithTools replaces program names before commands are run.
func WithTools(tools map[string]string) Option {
	return func(d *Dispatcher) {
		d.tools = tools
	}
}

// WithDryRun prints commands instead of running them.
func WithDryRun(enabled bool) Option {
	return func(d *Dispatcher) {
		d.dryRun = enabled
	}
}

// New creates a Dispatcher.
func New(r runner.Runner, out *output.Reporter, options ...Option) *Dispatcher {
	d := &Dispatcher{
		runner: r,
		out:    out,
		tools:  map[string]string{},
	}

	for _, option := range options {
		option(d)
	}

	return d
}

// Dispatch runs the requested phases for kind. kind may be nil when
// nothing was resolved.
func (d *Dispatcher) Dispatch(ctx context.Context, kind project.Kind, actions models.Actions) Outcome {
	outcome := Outcome{ExitCode: ExitOK}
	release := actions.Release

	if actions.Lint {
		d.lint(ctx, kind, release, &outcome)
	}

	buildOK := true
	if actions.WantsBuild() {
		if kind == nil {
			d.out.Failure("No build target found")
			outcome.ExitCode = ExitNoTarget
			return outcome
		}
		buildOK = d.build(ctx, kind, release, &outcome)
	}

	if actions.Run {
		if !buildOK {
			d.out.Subtle("Skipping run, build failed")
			outcome.Phases = append(outcome.Phases, PhaseResult{Phase: PhaseRun, Status: StatusSkipped, ExitCode: runner.NoExitCode})
			return outcome
		}
		d.run(ctx, kind, release, &outcome)
	}

	return outcome
}

func (d *Dispatcher) lint(ctx context.Context, kind project.Kind, release bool, outcome *Outcome) {
	if kind == nil {
		d.out.Subtle("No lint target found")
		return
	}

	cmd, ok := kind.LintCommand(release)
	if !ok {
		d.out.Subtle("Nothing to lint for %s", kind.DisplayName())
		outcome.Phases = append(outcome.Phases, PhaseResult{Phase: PhaseLint, Status: StatusSkipped, ExitCode: runner.NoExitCode})
		return
	}

	d.out.Info("Lint target (%s)", kind.DisplayName())
	result := d.execute(ctx, PhaseLint, cmd)
	outcome.Phases = append(outcome.Phases, result)

	switch result.Status {
	case StatusSucceeded:
		d.out.Success("Lint Successful")
	case StatusFailed:
		d.out.Failure("Lint Failed")
	case StatusNotStarted:
		d.out.Failure("Failed to run lint command")
	case StatusAbnormal:
		d.out.Failure("Lint terminated abnormally (%v)", result.Err)
	}
}

// build reports whether a following run phase may proceed. A build tool
// that could not be started does not block run.
func (d *Dispatcher) build(ctx context.Context, kind project.Kind, release bool, outcome *Outcome) bool {
	d.out.Info("Build target (%s)", kind.DisplayName())
	result := d.execute(ctx, PhaseBuild, kind.BuildCommand(release))
	outcome.Phases = append(outcome.Phases, result)

	switch result.Status {
	case StatusSucceeded:
		d.out.Success("Build Successful")
	case StatusFailed:
		d.out.Failure("Build Failed")
		return false
	case StatusNotStarted:
		d.out.Failure("Failed to run build command")
	case StatusAbnormal:
		d.out.Failure("Build terminated abnormally (%v)", result.Err)
		return false
	}

	return true
}

func (d *Dispatcher) run(ctx context.Context, kind project.Kind, release bool, outcome *Outcome) {
	if kind == nil {
		d.out.Failure("No target to run found")
		outcome.ExitCode = ExitNoTarget
		return
	}

	bin, err := kind.BinaryName()
	if err != nil {
		logging.Log(ctx).Debug().Err(err).Str("target", kind.DisplayName()).Msg("no binary name")
		d.out.Failure("No target to run found (%s)", kind.DisplayName())
		outcome.ExitCode = ExitNoTarget
		return
	}

	d.out.Info("Run target (%s)", bin)
	result := d.execute(ctx, PhaseRun, kind.RunCommand(bin, release))
	outcome.Phases = append(outcome.Phases, result)

	switch result.Status {
	case StatusSucceeded, StatusFailed:
		d.out.Info("Run return code [%d]", result.ExitCode)
	case StatusNotStarted:
		d.out.Failure("Failed to run program")
	case StatusAbnormal:
		d.out.Failure("Run terminated abnormally (%v)", result.Err)
	}
}

// execute runs one command, or only announces it in dry-run mode.
func (d *Dispatcher) execute(ctx context.Context, phase Phase, cmd models.Command) PhaseResult {
	if replacement, ok := d.tools[cmd.Program]; ok && replacement != "" {
		cmd = cmd.WithProgram(replacement)
	}

	result := PhaseResult{Phase: phase, Command: cmd, ExitCode: runner.NoExitCode}

	if d.dryRun {
		d.out.Subtle("Would run: %s", cmd)
		result.Status = StatusPlanned
		return result
	}

	log := logging.Log(ctx)
	code, err := d.runner.Run(ctx, cmd)
	result.ExitCode = code
	result.Err = err

	switch {
	case err == nil && code == 0:
		result.Status = StatusSucceeded
	case err == nil:
		result.Status = StatusFailed
	case eris.Is(err, runner.ErrAbnormalTermination):
		result.Status = StatusAbnormal
	case eris.Is(err, runner.ErrSpawn):
		result.Status = StatusNotStarted
	default:
		// waiting on a started process failed; its status is unknown
		result.Status = StatusAbnormal
	}

	if err != nil {
		log.Debug().Err(err).Str("phase", string(phase)).Str("cmd", cmd.String()).Msg("phase did not complete")
	}

	return result
}
