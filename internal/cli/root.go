package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/jakoblorz/go-quickbuild/internal/config"
	"github.com/jakoblorz/go-quickbuild/internal/dispatch"
	"github.com/jakoblorz/go-quickbuild/internal/filesystem"
	"github.com/jakoblorz/go-quickbuild/internal/logging"
	"github.com/jakoblorz/go-quickbuild/internal/models"
	"github.com/jakoblorz/go-quickbuild/internal/output"
	"github.com/jakoblorz/go-quickbuild/internal/project"
	"github.com/jakoblorz/go-quickbuild/internal/runner"
	"github.com/spf13/cobra"
)

// ExitError carries a non-zero exit status out of a command that
// otherwise completed.
type ExitError struct {
	Code int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("exit status %d", e.Code)
}

// RunnerFactory creates the runner for one project directory.
type RunnerFactory func(dir string) runner.Runner

// RootCommand resolves the project in a directory and runs the requested
// phases.
type RootCommand struct {
	fs        filesystem.FileSystem
	newRunner RunnerFactory
	stdout    io.Writer
	stderr    io.Writer
}

// NewRootCommand creates the root command
func NewRootCommand(fs filesystem.FileSystem, newRunner RunnerFactory, stdout, stderr io.Writer) *cobra.Command {
	c := &RootCommand{
		fs:        fs,
		newRunner: newRunner,
		stdout:    stdout,
		stderr:    stderr,
	}

	rootCmd := &cobra.Command{
		Use:   "quickbuild [lint] [build] [run] [release]",
		Short: "Lint, build and run the project in a directory",
		Long: `Detects what kind of project lives in a directory and runs the
matching lint, build and run tools.

A Makefile wins over everything, a Cargo.toml wins over single source
files, and otherwise the first main.*, index.* or test.* file decides.

Actions always run in the order lint, build, run, whatever order they are
given in. "release" switches every phase to its release variant and
implies build.`,
		Example: `  # Build and run the project in the current directory
  quickbuild build run

  # Release build of another directory
  quickbuild release -C ./service

  # Show what would run
  quickbuild lint build run --dry-run`,
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          c.Run,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringP("dir", "C", ".", "Project directory")
	flags.String(config.ConfigFlag, "", "Config file (default: .quickbuild.yaml in the project directory)")
	flags.BoolP("verbose", "v", false, "Log diagnostics to stderr")
	flags.Bool("dry-run", false, "Print commands instead of running them")
	flags.Bool("native-order", false, "Resolve directory entries in filesystem order instead of sorted order")

	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	rootCmd.AddCommand(NewKindsCommand(fs, stdout))

	return rootCmd
}

// Run executes the root command
func (c *RootCommand) Run(cmd *cobra.Command, args []string) error {
	cfgFile, _ := cmd.Flags().GetString(config.ConfigFlag)
	cfg, err := config.Load(cfgFile, cmd.Flags())
	if err != nil {
		return err
	}

	ctx := logging.WithLogger(cmd.Context(), logging.New(c.stderr, cfg.Verbose))
	log := logging.Log(ctx)

	actions := models.ParseActions(args)
	for _, arg := range args {
		if !models.ActionType(arg).IsValid() {
			log.Warn().Str("arg", arg).Msg("ignoring unknown action")
		}
	}
	if actions.Empty() {
		return cmd.Help()
	}

	if cfg.FileUsed != "" {
		log.Debug().Str("file", cfg.FileUsed).Msg("loaded config")
	}

	order := project.OrderSorted
	if cfg.NativeOrder {
		order = project.OrderNative
	}

	kind, err := project.NewResolver(c.fs, cfg.Dir, project.WithOrder(order)).Scan(ctx)
	if err != nil {
		return fmt.Errorf("failed to resolve project: %w", err)
	}

	d := dispatch.New(
		c.newRunner(cfg.Dir),
		output.NewReporter(c.stdout),
		dispatch.WithTools(cfg.Tools),
		dispatch.WithDryRun(cfg.DryRun),
	)

	outcome := d.Dispatch(ctx, kind, actions)
	if outcome.ExitCode != dispatch.ExitOK {
		return &ExitError{Code: outcome.ExitCode}
	}

	return nil
}

// Execute runs the root command against the real filesystem and
// processes.
func Execute() error {
	fs := filesystem.NewOSFileSystem()
	newRunner := func(dir string) runner.Runner {
		return runner.NewOSRunner(&runner.Options{Dir: dir})
	}

	return NewRootCommand(fs, newRunner, os.Stdout, os.Stderr).Execute()
}
