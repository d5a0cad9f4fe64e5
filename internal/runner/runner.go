// Package runner spawns one external command at a time and classifies
// how it ended.
//
// A finished command yields its exit status and a nil error, whatever
// the status. Errors are reserved for commands that could not be started
// (ErrSpawn) and commands that ended without an exit status, such as
// those killed by a signal (ErrAbnormalTermination).
package runner

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"os"
	"os/exec"

	"github.com/jakoblorz/go-quickbuild/internal/logging"
	"github.com/jakoblorz/go-quickbuild/internal/models"
	"github.com/rotisserie/eris"
)

var (
	// ErrSpawn marks a command whose process could not be started.
	ErrSpawn = eris.New("failed to start command")

	// ErrAbnormalTermination marks a command that ended without an exit
	// status.
	ErrAbnormalTermination = eris.New("command terminated abnormally")
)

// NoExitCode is returned alongside an error.
const NoExitCode = -1

// Runner runs a command to completion.
type Runner interface {
	Run(ctx context.Context, cmd models.Command) (int, error)
}

// Options configures an OSRunner
type Options struct {
	Dir    string // Working directory, also the base for relative programs
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// OSRunner implements Runner with os/exec
type OSRunner struct {
	dir    string
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer

	// For mocking in tests
	commandFunc func(ctx context.Context, name string, args ...string) *exec.Cmd
}

// NewOSRunner creates an OSRunner. The child inherits the process's
// standard streams unless opts says otherwise.
func NewOSRunner(opts *Options) *OSRunner {
	if opts == nil {
		opts = &Options{}
	}

	r := &OSRunner{
		dir:         opts.Dir,
		stdin:       opts.Stdin,
		stdout:      opts.Stdout,
		stderr:      opts.Stderr,
		commandFunc: exec.CommandContext,
	}

	if r.stdin == nil {
		r.stdin = os.Stdin
	}
	if r.stdout == nil {
		r.stdout = os.Stdout
	}
	if r.stderr == nil {
		r.stderr = os.Stderr
	}

	return r
}

// Run starts cmd and waits for it.
func (r *OSRunner) Run(ctx context.Context, cmd models.Command) (int, error) {
	c := r.commandFunc(ctx, cmd.Program, cmd.Args...)
	if r.dir != "" {
		c.Dir = r.dir
	}
	c.Stdin = r.stdin
	c.Stdout = r.stdout
	c.Stderr = r.stderr

	log := logging.Log(ctx)
	log.Debug().Str("cmd", cmd.String()).Str("dir", r.dir).Msg("starting command")

	if err := c.Start(); err != nil {
		if isCommandNotFound(err) {
			return NoExitCode, eris.Wrapf(ErrSpawn, "%s: command not found (%v)", cmd.Program, err)
		}
		return NoExitCode, eris.Wrapf(ErrSpawn, "%s: %v", cmd.Program, err)
	}

	err := c.Wait()
	if err == nil {
		log.Debug().Str("cmd", cmd.Program).Int("status", 0).Msg("command finished")
		return 0, nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		if exitErr.Exited() {
			log.Debug().Str("cmd", cmd.Program).Int("status", exitErr.ExitCode()).Msg("command finished")
			return exitErr.ExitCode(), nil
		}
		return NoExitCode, eris.Wrapf(ErrAbnormalTermination, "%s: %s", cmd.Program, exitErr.String())
	}

	return NoExitCode, eris.Wrapf(err, "failed waiting for %s", cmd.Program)
}

// isCommandNotFound reports whether err means the program does not exist,
// either on PATH or at the relative path given.
func isCommandNotFound(err error) bool {
	return errors.Is(err, exec.ErrNotFound) || errors.Is(err, fs.ErrNotExist)
}
