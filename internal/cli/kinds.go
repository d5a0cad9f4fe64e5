package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/jakoblorz/go-quickbuild/internal/config"
	"github.com/jakoblorz/go-quickbuild/internal/filesystem"
	"github.com/jakoblorz/go-quickbuild/internal/models"
	"github.com/jakoblorz/go-quickbuild/internal/project"
	"github.com/spf13/cobra"
)

// KindsCommand handles the kinds command
type KindsCommand struct {
	fs     filesystem.FileSystem
	stdout io.Writer
}

// NewKindsCommand creates a new kinds command
func NewKindsCommand(fs filesystem.FileSystem, stdout io.Writer) *cobra.Command {
	cmd := &KindsCommand{
		fs:     fs,
		stdout: stdout,
	}

	cobraCmd := &cobra.Command{
		Use:   "kinds",
		Short: "List supported project kinds and their commands",
		Long: `Lists every project kind with the file that selects it and the
commands each phase runs. Configured tool overrides are applied.

Make and Cargo projects run the binary named in their manifest, shown
here as <bin>.`,
		Args: cobra.NoArgs,
		RunE: cmd.Run,
	}

	cobraCmd.Flags().Bool("release", false, "Show the release variant of each command")

	return cobraCmd
}

// Run executes the kinds command
func (c *KindsCommand) Run(cmd *cobra.Command, args []string) error {
	release, _ := cmd.Flags().GetBool("release")

	cfgFile, _ := cmd.Flags().GetString(config.ConfigFlag)
	cfg, err := config.Load(cfgFile, cmd.Flags())
	if err != nil {
		return err
	}

	renderer := lipgloss.NewRenderer(c.stdout)
	nameStyle := renderer.NewStyle().Foreground(lipgloss.Color("#7D56F4")).Bold(true).Width(7)
	fileStyle := renderer.NewStyle().Width(12)
	labelStyle := renderer.NewStyle().Foreground(lipgloss.Color("#888888")).Width(8)

	for _, kind := range project.Examples(c.fs, cfg.Dir) {
		bin := "<bin>"
		if kind.Name() != models.KindMake && kind.Name() != models.KindCargo {
			bin, _ = kind.BinaryName()
		}

		lint := "(none)"
		if lintCmd, ok := kind.LintCommand(release); ok {
			lint = withTool(cfg, lintCmd).String()
		}

		rows := [][2]string{
			{"lint", lint},
			{"build", withTool(cfg, kind.BuildCommand(release)).String()},
			{"run", withTool(cfg, kind.RunCommand(bin, release)).String()},
		}

		for i, row := range rows {
			name, file := "", ""
			if i == 0 {
				name, file = kind.Name().String(), kind.DisplayName()
			}
			line := nameStyle.Render(name) + fileStyle.Render(file) + labelStyle.Render(row[0]) + row[1]
			fmt.Fprintln(c.stdout, strings.TrimRight(line, " "))
		}
	}

	return nil
}

func withTool(cfg *config.Config, cmd models.Command) models.Command {
	return cmd.WithProgram(cfg.Tool(cmd.Program))
}
