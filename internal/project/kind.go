package project

import (
	"errors"
	"path/filepath"
	"strings"

	"github.com/jakoblorz/go-quickbuild/internal/filesystem"
	"github.com/jakoblorz/go-quickbuild/internal/models"
)

const (
	MakefileName  = "Makefile"
	CargoManifest = "Cargo.toml"
)

// ErrNoBinaryName is returned by BinaryName when the manifest of a Make
// or Cargo project is unreadable or names no target.
var ErrNoBinaryName = errors.New("no binary name")

// Kind is a resolved project kind. Each implementation owns its row of
// the dispatch table, so there is no central switch over kinds.
type Kind interface {
	// Name identifies the kind
	Name() models.KindName

	// DisplayName is the manifest file name for Make and Cargo projects and
	// the source path for single-file projects
	DisplayName() string

	// BinaryName is the artifact run by the run phase. Make and Cargo read
	// it from their manifest on every call.
	BinaryName() (string, error)

	// LintCommand returns false when the kind has nothing to lint
	LintCommand(release bool) (models.Command, bool)
	BuildCommand(release bool) models.Command
	RunCommand(bin string, release bool) models.Command
}

// Make is a directory containing a Makefile.
type Make struct {
	fs  filesystem.FileSystem
	dir string
}

// NewMake creates a Make kind reading its Makefile from dir.
func NewMake(fs filesystem.FileSystem, dir string) *Make {
	return &Make{fs: fs, dir: dir}
}

func (m *Make) Name() models.KindName { return models.KindMake }
func (m *Make) DisplayName() string   { return MakefileName }

// BinaryName returns the value of the first "TARGET := name" line.
func (m *Make) BinaryName() (string, error) {
	return readIdentifier(m.fs, filepath.Join(m.dir, MakefileName), makeTargetPattern)
}

// LintCommand only exists for release invocations.
func (m *Make) LintCommand(release bool) (models.Command, bool) {
	if !release {
		return models.Command{}, false
	}
	return models.NewCommand("make", "lint"), true
}

func (m *Make) BuildCommand(release bool) models.Command {
	if release {
		return models.NewCommand("make", "release")
	}
	return models.NewCommand("make")
}

func (m *Make) RunCommand(bin string, release bool) models.Command {
	return models.NewCommand(localPath(bin))
}

// Cargo is a directory containing a Cargo.toml.
type Cargo struct {
	fs  filesystem.FileSystem
	dir string
}

// NewCargo creates a Cargo kind reading its manifest from dir.
func NewCargo(fs filesystem.FileSystem, dir string) *Cargo {
	return &Cargo{fs: fs, dir: dir}
}

func (c *Cargo) Name() models.KindName { return models.KindCargo }
func (c *Cargo) DisplayName() string   { return CargoManifest }

// BinaryName returns the value of the first `name = "..."` line.
func (c *Cargo) BinaryName() (string, error) {
	return readIdentifier(c.fs, filepath.Join(c.dir, CargoManifest), cargoNamePattern)
}

func (c *Cargo) LintCommand(release bool) (models.Command, bool) {
	return models.NewCommand("cargo", "fmt"), true
}

func (c *Cargo) BuildCommand(release bool) models.Command {
	return models.NewCommand("cargo", withRelease([]string{"build"}, release)...)
}

// RunCommand ignores bin; cargo picks the binary from the manifest.
func (c *Cargo) RunCommand(bin string, release bool) models.Command {
	return models.NewCommand("cargo", withRelease([]string{"run"}, release)...)
}

func withRelease(args []string, release bool) []string {
	if release {
		return append(args, "--release")
	}
	return args
}

// Cpp is a single C++ source file compiled with g++.
type Cpp struct {
	Path string
}

func (c *Cpp) Name() models.KindName       { return models.KindCpp }
func (c *Cpp) DisplayName() string         { return c.Path }
func (c *Cpp) BinaryName() (string, error) { return stripExt(c.Path), nil }

func (c *Cpp) LintCommand(release bool) (models.Command, bool) {
	return c.BuildCommand(release), true
}

func (c *Cpp) BuildCommand(release bool) models.Command {
	return compile("g++", c.Path, release)
}

func (c *Cpp) RunCommand(bin string, release bool) models.Command {
	return models.NewCommand(localPath(bin))
}

// C is a single C source file compiled with gcc.
type C struct {
	Path string
}

func (c *C) Name() models.KindName       { return models.KindC }
func (c *C) DisplayName() string         { return c.Path }
func (c *C) BinaryName() (string, error) { return stripExt(c.Path), nil }

func (c *C) LintCommand(release bool) (models.Command, bool) {
	return c.BuildCommand(release), true
}

func (c *C) BuildCommand(release bool) models.Command {
	return compile("gcc", c.Path, release)
}

func (c *C) RunCommand(bin string, release bool) models.Command {
	return models.NewCommand(localPath(bin))
}

func compile(compiler, file string, release bool) models.Command {
	args := []string{file, "-o", stripExt(file)}
	if release {
		args = append(args, "-O3")
	}
	return models.NewCommand(compiler, args...)
}

// Rust is a single Rust source file compiled with rustc. rustc names the
// binary after the file, so there is no -o.
type Rust struct {
	Path string
}

func (r *Rust) Name() models.KindName       { return models.KindRust }
func (r *Rust) DisplayName() string         { return r.Path }
func (r *Rust) BinaryName() (string, error) { return stripExt(r.Path), nil }

func (r *Rust) LintCommand(release bool) (models.Command, bool) {
	return r.BuildCommand(release), true
}

// BuildCommand passes no -o; rustc writes the binary next to the source
// under its file stem. release has no effect.
func (r *Rust) BuildCommand(release bool) models.Command {
	return models.NewCommand("rustc", r.Path)
}

func (r *Rust) RunCommand(bin string, release bool) models.Command {
	return models.NewCommand(localPath(bin))
}

// Js is a single JavaScript file, linted with eslint and run with node.
type Js struct {
	Path string
}

func (j *Js) Name() models.KindName       { return models.KindJs }
func (j *Js) DisplayName() string         { return j.Path }
func (j *Js) BinaryName() (string, error) { return j.Path, nil }

func (j *Js) LintCommand(release bool) (models.Command, bool) {
	return j.BuildCommand(release), true
}

func (j *Js) BuildCommand(release bool) models.Command {
	return models.NewCommand("eslint", "--env", "es6", j.Path)
}

func (j *Js) RunCommand(bin string, release bool) models.Command {
	return models.NewCommand("node", localPath(bin))
}

// Lua is a single Lua script, checked with luacheck and run with lua.
type Lua struct {
	Path string
}

func (l *Lua) Name() models.KindName       { return models.KindLua }
func (l *Lua) DisplayName() string         { return l.Path }
func (l *Lua) BinaryName() (string, error) { return l.Path, nil }

func (l *Lua) LintCommand(release bool) (models.Command, bool) {
	return l.BuildCommand(release), true
}

func (l *Lua) BuildCommand(release bool) models.Command {
	return models.NewCommand("luacheck", "-q", l.Path)
}

func (l *Lua) RunCommand(bin string, release bool) models.Command {
	return models.NewCommand("lua", localPath(bin))
}

// Bash is a single shell script. Lint reports style findings, build
// only fails on warnings.
type Bash struct {
	Path string
}

func (b *Bash) Name() models.KindName       { return models.KindBash }
func (b *Bash) DisplayName() string         { return b.Path }
func (b *Bash) BinaryName() (string, error) { return b.Path, nil }

func (b *Bash) LintCommand(release bool) (models.Command, bool) {
	return models.NewCommand("shellcheck", "--norc", "--severity=style", b.Path), true
}

func (b *Bash) BuildCommand(release bool) models.Command {
	return models.NewCommand("shellcheck", "--norc", "--severity=warning", b.Path)
}

func (b *Bash) RunCommand(bin string, release bool) models.Command {
	return models.NewCommand("bash", localPath(bin))
}

// stripExt removes the final extension: "main.cpp" -> "main",
// "main.v2.cpp" -> "main.v2". The compiled kinds hand the same name to
// the compiler and to the run phase, and rustc drops only the last
// extension when it names its output.
func stripExt(path string) string {
	return strings.TrimSuffix(path, filepath.Ext(path))
}

// localPath prefixes bin with "./" so it is executed from the project
// directory instead of being looked up on PATH.
func localPath(bin string) string {
	if filepath.IsAbs(bin) || strings.HasPrefix(bin, "./") {
		return bin
	}
	return "./" + bin
}

// Examples returns one kind per variant, in the order of models.AllKinds.
// Single-file kinds use the first file name that resolves to them.
func Examples(fs filesystem.FileSystem, dir string) []Kind {
	return []Kind{
		NewMake(fs, dir),
		NewCargo(fs, dir),
		&Cpp{Path: "main.cpp"},
		&C{Path: "main.c"},
		&Rust{Path: "main.rs"},
		&Js{Path: "index.js"},
		&Lua{Path: "main.lua"},
		&Bash{Path: "main.sh"},
	}
}
