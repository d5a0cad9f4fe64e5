package project

import (
	"bufio"
	"bytes"
	"fmt"
	"path/filepath"
	"regexp"

	"github.com/jakoblorz/go-quickbuild/internal/filesystem"
)

var (
	makeTargetPattern = regexp.MustCompile(`^TARGET\s*:=\s*(\w+)`)
	cargoNamePattern  = regexp.MustCompile(`^name\s*=\s*"(\w+)"`)
)

const maxManifestLine = 1024 * 1024

// readIdentifier returns the first capture of pattern on any line of the
// file at path. The first matching line wins.
func readIdentifier(fs filesystem.FileSystem, path string, pattern *regexp.Regexp) (string, error) {
	data, err := fs.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("%w: failed to read %s: %w", ErrNoBinaryName, filepath.Base(path), err)
	}

	scanner := bufio.NewScanner(bytes.NewReader(data))
	scanner.Buffer(make([]byte, 0, 64*1024), maxManifestLine)
	for scanner.Scan() {
		if match := pattern.FindStringSubmatch(scanner.Text()); match != nil {
			return match[1], nil
		}
	}

	if err := scanner.Err(); err != nil {
		return "", fmt.Errorf("%w: failed to scan %s: %w", ErrNoBinaryName, filepath.Base(path), err)
	}

	return "", fmt.Errorf("%w: %s has no line matching %s", ErrNoBinaryName, filepath.Base(path), pattern)
}
