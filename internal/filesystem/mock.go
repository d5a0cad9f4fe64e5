package filesystem

import (
	"errors"
	"io/fs"
	"path/filepath"
	"time"
)

// MockFileSystem provides in-memory filesystem for testing
//
// ReadDir returns entries in insertion order, standing in for the
// unspecified order a real directory listing has.
type MockFileSystem struct {
	files map[string]*MockFile
	order []string

	// Hooks for testing error scenarios, keyed by cleaned path
	ReadErrors map[string]error
}

// MockFile represents a file in the mock filesystem
type MockFile struct {
	Content []byte
	Mode    fs.FileMode
	ModTime time.Time
	IsDir   bool
}

// mockFileInfo implements fs.FileInfo
type mockFileInfo struct {
	name    string
	size    int64
	mode    fs.FileMode
	modTime time.Time
	isDir   bool
}

func (m *mockFileInfo) Name() string       { return m.name }
func (m *mockFileInfo) Size() int64        { return m.size }
func (m *mockFileInfo) Mode() fs.FileMode  { return m.mode }
func (m *mockFileInfo) ModTime() time.Time { return m.modTime }
func (m *mockFileInfo) IsDir() bool        { return m.isDir }
func (m *mockFileInfo) Sys() interface{}   { return nil }

// mockDirEntry implements fs.DirEntry
type mockDirEntry struct {
	info fs.FileInfo
}

func (m *mockDirEntry) Name() string               { return m.info.Name() }
func (m *mockDirEntry) IsDir() bool                { return m.info.IsDir() }
func (m *mockDirEntry) Type() fs.FileMode          { return m.info.Mode().Type() }
func (m *mockDirEntry) Info() (fs.FileInfo, error) { return m.info, nil }

// NewMockFileSystem creates a new MockFileSystem
func NewMockFileSystem() *MockFileSystem {
	mfs := &MockFileSystem{
		files:      make(map[string]*MockFile),
		ReadErrors: make(map[string]error),
	}
	mfs.AddDir("/workspace")
	return mfs
}

// AddFile adds a file to the mock filesystem
func (mfs *MockFileSystem) AddFile(path string, content []byte) {
	cleanPath := filepath.Clean(path)
	mfs.ensureParents(cleanPath)
	mfs.put(cleanPath, &MockFile{
		Content: content,
		Mode:    0644,
		ModTime: time.Now(),
		IsDir:   false,
	})
}

// AddDir adds a directory to the mock filesystem
func (mfs *MockFileSystem) AddDir(path string) {
	cleanPath := filepath.Clean(path)
	if _, exists := mfs.files[cleanPath]; exists {
		return
	}
	mfs.ensureParents(cleanPath)
	mfs.put(cleanPath, &MockFile{
		Mode:    0755 | fs.ModeDir,
		ModTime: time.Now(),
		IsDir:   true,
	})
}

func (mfs *MockFileSystem) ensureParents(cleanPath string) {
	dir := filepath.Dir(cleanPath)
	if dir != "." && dir != "/" && dir != cleanPath {
		if _, exists := mfs.files[dir]; !exists {
			mfs.AddDir(dir)
		}
	}
}

func (mfs *MockFileSystem) put(cleanPath string, file *MockFile) {
	if _, exists := mfs.files[cleanPath]; !exists {
		mfs.order = append(mfs.order, cleanPath)
	}
	mfs.files[cleanPath] = file
}

func (mfs *MockFileSystem) ReadFile(path string) ([]byte, error) {
	cleanPath := filepath.Clean(path)
	if err, ok := mfs.ReadErrors[cleanPath]; ok {
		return nil, &fs.PathError{Op: "open", Path: path, Err: err}
	}

	file, exists := mfs.files[cleanPath]
	if !exists {
		return nil, &fs.PathError{Op: "open", Path: path, Err: fs.ErrNotExist}
	}
	if file.IsDir {
		return nil, errors.New("is a directory")
	}
	return file.Content, nil
}

func (mfs *MockFileSystem) ReadDir(path string) ([]fs.DirEntry, error) {
	cleanPath := filepath.Clean(path)
	if err, ok := mfs.ReadErrors[cleanPath]; ok {
		return nil, &fs.PathError{Op: "open", Path: path, Err: err}
	}

	file, exists := mfs.files[cleanPath]
	if !exists {
		return nil, &fs.PathError{Op: "open", Path: path, Err: fs.ErrNotExist}
	}
	if !file.IsDir {
		return nil, errors.New("not a directory")
	}

	var entries []fs.DirEntry
	for _, p := range mfs.order {
		if p == cleanPath || filepath.Dir(p) != cleanPath {
			continue
		}
		entries = append(entries, &mockDirEntry{info: mfs.info(p)})
	}

	return entries, nil
}

func (mfs *MockFileSystem) info(cleanPath string) *mockFileInfo {
	file := mfs.files[cleanPath]
	return &mockFileInfo{
		name:    filepath.Base(cleanPath),
		size:    int64(len(file.Content)),
		mode:    file.Mode,
		modTime: file.ModTime,
		isDir:   file.IsDir,
	}
}
