package runner

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"syscall"
	"testing"
	"time"

	"github.com/jakoblorz/go-quickbuild/internal/models"
	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/require"
)

// helperCommand re-executes the test binary as the child process.
func helperCommand(ctx context.Context, name string, args ...string) *exec.Cmd {
	cs := []string{"-test.run=TestHelperProcess", "--", name}
	cs = append(cs, args...)
	cmd := exec.CommandContext(ctx, os.Args[0], cs...)
	cmd.Env = []string{"GO_WANT_HELPER_PROCESS=1"}
	return cmd
}

// TestHelperProcess is the fake external tool
func TestHelperProcess(t *testing.T) {
	if os.Getenv("GO_WANT_HELPER_PROCESS") != "1" {
		return
	}

	args := os.Args
	for i, arg := range args {
		if arg == "--" {
			args = args[i+1:]
			break
		}
	}

	if len(args) == 0 {
		fmt.Fprintf(os.Stderr, "no command specified\n")
		os.Exit(1)
	}

	switch args[0] {
	case "echo":
		fmt.Println(args[1:])
		os.Exit(0)
	case "exit":
		code, _ := strconv.Atoi(args[1])
		os.Exit(code)
	case "kill":
		_ = syscall.Kill(os.Getpid(), syscall.SIGKILL)
		time.Sleep(10 * time.Second)
		os.Exit(0)
	case "pwd":
		wd, _ := os.Getwd()
		fmt.Println(wd)
		os.Exit(0)
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n", args[0])
		os.Exit(2)
	}
}

func newHelperRunner(stdout *bytes.Buffer, dir string) *OSRunner {
	r := NewOSRunner(&Options{Dir: dir, Stdout: stdout, Stderr: stdout, Stdin: bytes.NewReader(nil)})
	r.commandFunc = helperCommand
	return r
}

func TestOSRunner_Success(t *testing.T) {
	var out bytes.Buffer
	r := newHelperRunner(&out, "")

	code, err := r.Run(context.Background(), models.NewCommand("echo", "hello"))
	require.NoError(t, err)
	require.Equal(t, 0, code)
	require.Contains(t, out.String(), "hello")
}

func TestOSRunner_NonZeroExitIsNotAnError(t *testing.T) {
	var out bytes.Buffer
	r := newHelperRunner(&out, "")

	code, err := r.Run(context.Background(), models.NewCommand("exit", "3"))
	require.NoError(t, err)
	require.Equal(t, 3, code)
}

func TestOSRunner_KilledBySignal(t *testing.T) {
	var out bytes.Buffer
	r := newHelperRunner(&out, "")

	code, err := r.Run(context.Background(), models.NewCommand("kill"))
	require.Error(t, err)
	require.True(t, eris.Is(err, ErrAbnormalTermination))
	require.Equal(t, NoExitCode, code)
	require.Contains(t, err.Error(), "killed")
}

func TestOSRunner_UsesDir(t *testing.T) {
	var out bytes.Buffer
	dir := t.TempDir()
	r := newHelperRunner(&out, dir)

	_, err := r.Run(context.Background(), models.NewCommand("pwd"))
	require.NoError(t, err)

	resolved, err := filepath.EvalSymlinks(dir)
	require.NoError(t, err)
	require.Contains(t, out.String(), resolved)
}

func TestOSRunner_ProgramNotOnPath(t *testing.T) {
	r := NewOSRunner(nil)

	code, err := r.Run(context.Background(), models.NewCommand("quickbuild-test-no-such-tool"))
	require.Error(t, err)
	require.True(t, eris.Is(err, ErrSpawn))
	require.Equal(t, NoExitCode, code)
	require.Contains(t, err.Error(), "command not found")
}

func TestOSRunner_RelativeProgramMissing(t *testing.T) {
	r := NewOSRunner(&Options{Dir: t.TempDir()})

	_, err := r.Run(context.Background(), models.NewCommand("./main"))
	require.Error(t, err)
	require.True(t, eris.Is(err, ErrSpawn))
}

func TestOSRunner_RelativeProgramResolvedFromDir(t *testing.T) {
	dir := t.TempDir()
	script := "#!/bin/sh\necho from-script\nexit 4\n"
	require.NoError(t, os.WriteFile(dir+"/app", []byte(script), 0o755))

	var out bytes.Buffer
	r := NewOSRunner(&Options{Dir: dir, Stdout: &out, Stderr: &out})

	code, err := r.Run(context.Background(), models.NewCommand("./app"))
	require.NoError(t, err)
	require.Equal(t, 4, code)
	require.Contains(t, out.String(), "from-script")
}

func TestMockRunner(t *testing.T) {
	m := NewMockRunner().
		On("make", 2, nil).
		On("cargo run --release", 0, ErrSpawn)

	code, err := m.Run(context.Background(), models.NewCommand("make", "release"))
	require.NoError(t, err)
	require.Equal(t, 2, code)

	_, err = m.Run(context.Background(), models.NewCommand("cargo", "run", "--release"))
	require.True(t, eris.Is(err, ErrSpawn))

	code, err = m.Run(context.Background(), models.NewCommand("cargo", "run"))
	require.NoError(t, err)
	require.Equal(t, 0, code)

	require.Equal(t, []string{"make release", "cargo run --release", "cargo run"}, m.Calls())
}
