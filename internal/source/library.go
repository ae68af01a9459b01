package source

import (
	"context"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// DefaultPattern matches item files anywhere below the library root.
const DefaultPattern = "**/*.{json,yaml,yml}"

// ScannedFile is an item file found during a library scan.
type ScannedFile struct {
	RelPath string // Relative path from the library root, forward slashes
	AbsPath string // Path as passed to LoadItem
}

// Library is a directory of exported item files.
type Library struct {
	root    string
	pattern string
}

// NewLibrary returns a library rooted at root whose item files match the
// doublestar pattern (DefaultPattern when empty).
func NewLibrary(root, pattern string) (*Library, error) {
	if pattern == "" {
		pattern = DefaultPattern
	}
	if !doublestar.ValidatePattern(pattern) {
		return nil, fmt.Errorf("invalid library pattern %q", pattern)
	}
	return &Library{root: root, pattern: pattern}, nil
}

// Scan walks the library and returns every matching item file in lexical
// order. Hidden files and directories are skipped.
func (l *Library) Scan(ctx context.Context) ([]ScannedFile, error) {
	var files []ScannedFile

	err := filepath.WalkDir(l.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return fmt.Errorf("failed to access path %s: %w", path, err)
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		if path != l.root && strings.HasPrefix(d.Name(), ".") {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}

		relPath, err := filepath.Rel(l.root, path)
		if err != nil {
			return fmt.Errorf("failed to compute relative path for %s: %w", path, err)
		}
		relPath = filepath.ToSlash(relPath)

		if matched, err := doublestar.Match(l.pattern, relPath); err != nil || !matched {
			return nil
		}
		files = append(files, ScannedFile{RelPath: relPath, AbsPath: path})
		return nil
	})
	if err != nil {
		return files, fmt.Errorf("failed to scan library %s: %w", l.root, err)
	}
	return files, nil
}
