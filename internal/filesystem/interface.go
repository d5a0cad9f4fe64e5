package filesystem

import (
	"io/fs"
)

// FileSystem provides an abstraction over file operations for testability
type FileSystem interface {
	// File operations
	ReadFile(path string) ([]byte, error)

	// Directory operations
	//
	// ReadDir makes no promise about entry order; callers that need a
	// stable order sort the result themselves.
	ReadDir(path string) ([]fs.DirEntry, error)
}
