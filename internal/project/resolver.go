package project

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/jakoblorz/go-quickbuild/internal/filesystem"
	"github.com/jakoblorz/go-quickbuild/internal/logging"
)

// Order controls the sequence in which directory entries are folded.
type Order int

const (
	// OrderSorted folds entries in lexicographic order, which makes the
	// result independent of the filesystem.
	OrderSorted Order = iota

	// OrderNative folds entries in the order the filesystem lists them.
	OrderNative
)

// sourceStems are the file name prefixes that mark a single-file project.
var sourceStems = []string{"main.", "index.", "test."}

// Resolver infers the project kind of one directory.
type Resolver struct {
	fs    filesystem.FileSystem
	dir   string
	order Order
}

// Option configures resolver behavior.
type Option func(*Resolver)

// WithOrder selects how entries are ordered before folding.
func WithOrder(order Order) Option {
	return func(r *Resolver) {
		r.order = order
	}
}

// NewResolver creates a Resolver for dir.
func NewResolver(fs filesystem.FileSystem, dir string, options ...Option) *Resolver {
	r := &Resolver{
		fs:    fs,
		dir:   dir,
		order: OrderSorted,
	}

	for _, option := range options {
		option(r)
	}

	return r
}

// Scan lists the directory once and resolves its kind. A nil Kind with a
// nil error means no entry was recognised.
func (r *Resolver) Scan(ctx context.Context) (Kind, error) {
	dirEntries, err := r.fs.ReadDir(r.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory %s: %w", r.dir, err)
	}

	entries := make([]string, 0, len(dirEntries))
	for _, entry := range dirEntries {
		if entry.IsDir() {
			continue
		}
		entries = append(entries, entry.Name())
	}

	if r.order == OrderSorted {
		sort.Strings(entries)
	}

	kind := r.Resolve(entries)

	log := logging.Log(ctx)
	if kind == nil {
		log.Debug().Str("dir", r.dir).Int("entries", len(entries)).Msg("no project kind recognised")
	} else {
		log.Debug().Str("dir", r.dir).Str("kind", kind.Name().String()).Str("target", kind.DisplayName()).Msg("resolved project kind")
	}

	return kind, nil
}

// Resolve folds entries into a single kind. A Makefile ends the scan:
// nothing seen after it can change the result.
func (r *Resolver) Resolve(entries []string) Kind {
	var current Kind
	for _, name := range entries {
		switch name {
		case MakefileName:
			return Fold(current, NewMake(r.fs, r.dir))
		case CargoManifest:
			current = Fold(current, NewCargo(r.fs, r.dir))
		default:
			if current == nil && hasSourceStem(name) {
				current = Fold(current, Classify(name))
			}
		}
	}
	return current
}

// Fold merges a newly seen candidate into the current kind. Make beats
// everything, Cargo beats everything but Make, otherwise the later
// candidate wins. A nil candidate keeps the current kind.
func Fold(current, candidate Kind) Kind {
	switch {
	case isMake(current):
		return current
	case isMake(candidate):
		return candidate
	case isCargo(current):
		return current
	case isCargo(candidate):
		return candidate
	case candidate != nil:
		return candidate
	default:
		return current
	}
}

// Classify maps a source file name to its kind by extension, or nil if
// the extension is not recognised.
func Classify(name string) Kind {
	switch filepath.Ext(name) {
	case ".js":
		return &Js{Path: name}
	case ".cpp", ".cxx":
		return &Cpp{Path: name}
	case ".lua":
		return &Lua{Path: name}
	case ".bash", ".sh":
		return &Bash{Path: name}
	case ".rs":
		return &Rust{Path: name}
	case ".c":
		return &C{Path: name}
	}
	return nil
}

func hasSourceStem(name string) bool {
	for _, stem := range sourceStems {
		if strings.HasPrefix(name, stem) {
			return true
		}
	}
	return false
}

func isMake(k Kind) bool {
	_, ok := k.(*Make)
	return ok
}

func isCargo(k Kind) bool {
	_, ok := k.(*Cargo)
	return ok
}
