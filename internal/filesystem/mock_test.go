package filesystem

import (
	"errors"
	"io/fs"
	"testing"

	"github.com/stretchr/testify/require"
)

func entryNames(t *testing.T, mfs *MockFileSystem, dir string) []string {
	t.Helper()

	entries, err := mfs.ReadDir(dir)
	require.NoError(t, err)

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		names = append(names, entry.Name())
	}
	return names
}

func TestMockReadDir_InsertionOrder(t *testing.T) {
	mfs := NewMockFileSystem()
	mfs.AddFile("/workspace/main.rs", nil)
	mfs.AddFile("/workspace/Makefile", nil)
	mfs.AddFile("/workspace/src/lib.rs", nil)
	mfs.AddFile("/workspace/main.c", nil)

	require.Equal(t, []string{"main.rs", "Makefile", "src", "main.c"}, entryNames(t, mfs, "/workspace"))
	require.Equal(t, []string{"lib.rs"}, entryNames(t, mfs, "/workspace/src"))
}

func TestMockReadDir_OverwriteKeepsPosition(t *testing.T) {
	mfs := NewMockFileSystem()
	mfs.AddFile("/workspace/a", []byte("1"))
	mfs.AddFile("/workspace/b", nil)
	mfs.AddFile("/workspace/a", []byte("2"))

	require.Equal(t, []string{"a", "b"}, entryNames(t, mfs, "/workspace"))

	content, err := mfs.ReadFile("/workspace/a")
	require.NoError(t, err)
	require.Equal(t, "2", string(content))
}

func TestMockReadDir_Errors(t *testing.T) {
	mfs := NewMockFileSystem()
	mfs.AddFile("/workspace/file", nil)

	_, err := mfs.ReadDir("/missing")
	require.True(t, errors.Is(err, fs.ErrNotExist))

	_, err = mfs.ReadDir("/workspace/file")
	require.Error(t, err)

	mfs.ReadErrors["/workspace"] = fs.ErrPermission
	_, err = mfs.ReadDir("/workspace/")
	require.True(t, errors.Is(err, fs.ErrPermission))
}

func TestMockReadFile(t *testing.T) {
	mfs := NewMockFileSystem()
	mfs.AddFile("/workspace/Makefile", []byte("TARGET := app\n"))

	content, err := mfs.ReadFile("/workspace/./Makefile")
	require.NoError(t, err)
	require.Equal(t, "TARGET := app\n", string(content))

	_, err = mfs.ReadFile("/workspace/Cargo.toml")
	require.True(t, errors.Is(err, fs.ErrNotExist))

	_, err = mfs.ReadFile("/workspace")
	require.Error(t, err)
}

func TestMockDirEntries(t *testing.T) {
	mfs := NewMockFileSystem()
	mfs.AddDir("/workspace/target")
	mfs.AddFile("/workspace/main.c", []byte("int main;"))

	entries, err := mfs.ReadDir("/workspace")
	require.NoError(t, err)
	require.Len(t, entries, 2)

	require.True(t, entries[0].IsDir())
	require.False(t, entries[1].IsDir())

	info, err := entries[1].Info()
	require.NoError(t, err)
	require.Equal(t, int64(9), info.Size())
}
