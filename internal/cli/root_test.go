package cli

import (
	"bytes"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/gkampitakis/go-snaps/snaps"
	"github.com/jakoblorz/go-quickbuild/internal/filesystem"
	"github.com/jakoblorz/go-quickbuild/internal/runner"
	"github.com/stretchr/testify/require"
)

const testDir = "/workspace"

type testCLI struct {
	fs      *filesystem.MockFileSystem
	runner  *runner.MockRunner
	stdout  bytes.Buffer
	stderr  bytes.Buffer
	runDirs []string
}

func newTestCLI() *testCLI {
	return &testCLI{
		fs:     filesystem.NewMockFileSystem(),
		runner: runner.NewMockRunner(),
	}
}

func (c *testCLI) execute(args ...string) error {
	newRunner := func(dir string) runner.Runner {
		c.runDirs = append(c.runDirs, dir)
		return c.runner
	}

	cmd := NewRootCommand(c.fs, newRunner, &c.stdout, &c.stderr)
	cmd.SetArgs(append([]string{"--dir", testDir}, args...))
	return cmd.Execute()
}

func TestRoot_BuildAndRun(t *testing.T) {
	c := newTestCLI()
	c.fs.AddFile(testDir+"/main.c", []byte("int main() { return 0; }\n"))

	err := c.execute("run", "build")
	require.NoError(t, err)

	require.Equal(t, []string{"gcc main.c -o main", "./main"}, c.runner.Calls())
	require.Equal(t, []string{testDir}, c.runDirs)
	snaps.MatchSnapshot(t, c.stdout.String())
}

func TestRoot_NoTargetExitsWithTwo(t *testing.T) {
	c := newTestCLI()
	c.fs.AddFile(testDir+"/README.md", []byte("# readme\n"))

	err := c.execute("run")

	var exitErr *ExitError
	require.True(t, errors.As(err, &exitErr))
	require.Equal(t, 2, exitErr.Code)
	require.Empty(t, c.runner.Calls())
	require.Equal(t, "==== No target to run found\n", c.stdout.String())
}

func TestRoot_ToolFailureStillExitsZero(t *testing.T) {
	c := newTestCLI()
	c.fs.AddFile(testDir+"/main.rs", []byte{})
	c.runner.On("rustc", 1, nil)

	err := c.execute("build", "run")
	require.NoError(t, err)
	require.Equal(t, []string{"rustc main.rs"}, c.runner.Calls())
}

func TestRoot_NoActionsPrintsHelp(t *testing.T) {
	c := newTestCLI()
	c.fs.AddFile(testDir+"/main.c", []byte{})

	err := c.execute()
	require.NoError(t, err)
	require.Empty(t, c.runner.Calls())
	require.Contains(t, c.stdout.String(), "quickbuild [lint] [build] [run] [release]")
}

func TestRoot_UnknownActionsAreIgnored(t *testing.T) {
	c := newTestCLI()
	c.fs.AddFile(testDir+"/main.c", []byte{})

	err := c.execute("deploy", "build")
	require.NoError(t, err)
	require.Equal(t, []string{"gcc main.c -o main"}, c.runner.Calls())
	require.Contains(t, c.stderr.String(), "ignoring unknown action")
}

func TestRoot_DryRunFlag(t *testing.T) {
	c := newTestCLI()
	c.fs.AddFile(testDir+"/Cargo.toml", []byte("[package]\nname = \"demo\"\n"))

	err := c.execute("--dry-run", "lint", "release", "run")
	require.NoError(t, err)
	require.Empty(t, c.runner.Calls())
	snaps.MatchSnapshot(t, c.stdout.String())
}

func TestRoot_DryRunFromEnv(t *testing.T) {
	t.Setenv("QUICKBUILD_DRY_RUN", "true")

	c := newTestCLI()
	c.fs.AddFile(testDir+"/index.js", []byte{})

	err := c.execute("build")
	require.NoError(t, err)
	require.Empty(t, c.runner.Calls())
	require.Contains(t, c.stdout.String(), "==== Would run: eslint --env es6 index.js")
}

func TestRoot_NativeOrderFlag(t *testing.T) {
	c := newTestCLI()
	c.fs.AddFile(testDir+"/main.rs", []byte{})
	c.fs.AddFile(testDir+"/main.c", []byte{})

	require.NoError(t, c.execute("build"))
	require.NoError(t, c.execute("--native-order", "build"))

	require.Equal(t, []string{"gcc main.c -o main", "rustc main.rs"}, c.runner.Calls())
}

func TestRoot_ToolsFromConfigFile(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "quickbuild.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("tools:\n  gcc: clang\n"), 0o644))

	c := newTestCLI()
	c.fs.AddFile(testDir+"/main.c", []byte{})

	err := c.execute("--config", cfgPath, "release")
	require.NoError(t, err)
	require.Equal(t, []string{"clang main.c -o main -O3"}, c.runner.Calls())
}

func TestRoot_VerboseLogsResolution(t *testing.T) {
	c := newTestCLI()
	c.fs.AddFile(testDir+"/Makefile", []byte("TARGET := app\n"))

	err := c.execute("-v", "build")
	require.NoError(t, err)
	require.Contains(t, c.stderr.String(), "resolved project kind")
	require.Contains(t, c.stderr.String(), "kind=make")
}

func TestRoot_QuietByDefault(t *testing.T) {
	c := newTestCLI()
	c.fs.AddFile(testDir+"/Makefile", []byte("TARGET := app\n"))

	require.NoError(t, c.execute("build"))
	require.Empty(t, c.stderr.String())
}

func TestRoot_UnreadableDirectory(t *testing.T) {
	c := newTestCLI()
	c.fs.ReadErrors[testDir] = fs.ErrPermission

	err := c.execute("build")
	require.Error(t, err)
	require.True(t, errors.Is(err, fs.ErrPermission))

	var exitErr *ExitError
	require.False(t, errors.As(err, &exitErr))
	require.Empty(t, c.runner.Calls())
}

func TestKinds(t *testing.T) {
	c := newTestCLI()

	require.NoError(t, c.execute("kinds"))
	snaps.MatchSnapshot(t, c.stdout.String())
}

func TestKinds_Release(t *testing.T) {
	c := newTestCLI()

	require.NoError(t, c.execute("kinds", "--release"))
	snaps.MatchSnapshot(t, c.stdout.String())
}

func TestKinds_AppliesToolOverrides(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "quickbuild.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("tools:\n  g++: clang++\n  node: bun\n"), 0o644))

	c := newTestCLI()
	require.NoError(t, c.execute("kinds", "--config", cfgPath))

	out := c.stdout.String()
	require.Contains(t, out, "clang++ main.cpp -o main")
	require.Contains(t, out, "bun ./index.js")
}
