// Package filelist enumerates the candidate files of one directory.
package filelist

import (
	"errors"
	"fmt"
	"iter"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/spf13/afero"

	"SumKeeper/internal/checkpoint"
	"SumKeeper/internal/checksum"
	"SumKeeper/internal/hashing"
)

var ErrInaccessibleDirectory = errors.New("inaccessible directory")

// Lister walks a directory and yields the relative paths of regular files,
// skipping checksum files, checkpoint state and exclude matches.
type Lister struct {
	fs       afero.Fs
	excludes []string
	reserved map[string]bool
	stateDir string
}

// New creates a Lister. Exclude patterns use doublestar syntax; a pattern
// ending with "/" excludes a whole directory. Checkpoint and failure log
// files found directly in stateDir are never listed; an empty stateDir
// disables that check.
func New(fs afero.Fs, excludes []string, stateDir string) (*Lister, error) {
	for _, pattern := range excludes {
		if !doublestar.ValidatePattern(strings.TrimSuffix(pattern, "/")) {
			return nil, fmt.Errorf("invalid exclude pattern %q", pattern)
		}
	}

	reserved := make(map[string]bool)
	for _, alg := range hashing.Algorithms() {
		reserved[checksum.FileName(alg)] = true
	}

	return &Lister{fs: fs, excludes: excludes, reserved: reserved, stateDir: stateDir}, nil
}

// Files returns a restartable sequence of slash-separated paths relative to
// dir, in lexical walk order. Unreadable subdirectories are skipped.
func (l *Lister) Files(dir string) (iter.Seq[string], error) {
	info, err := l.fs.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInaccessibleDirectory, dir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s is not a directory", ErrInaccessibleDirectory, dir)
	}
	if _, err := afero.ReadDir(l.fs, dir); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInaccessibleDirectory, dir, err)
	}

	stateRel, hasState := l.stateRel(dir)

	return func(yield func(string) bool) {
		_ = afero.Walk(l.fs, dir, func(p string, info os.FileInfo, err error) error {
			if err != nil {
				if info != nil && info.IsDir() && p != dir {
					return filepath.SkipDir
				}
				return nil
			}
			if p == dir {
				return nil
			}

			rel, err := filepath.Rel(dir, p)
			if err != nil {
				return nil
			}
			rel = filepath.ToSlash(rel)

			if info.IsDir() {
				if l.isExcluded(rel, true) {
					return filepath.SkipDir
				}
				return nil
			}
			if !info.Mode().IsRegular() {
				return nil
			}
			if l.reserved[rel] || l.isExcluded(rel, false) {
				return nil
			}
			if hasState && path.Dir(rel) == stateRel && isStateFile(path.Base(rel)) {
				return nil
			}

			if !yield(rel) {
				return filepath.SkipAll
			}
			return nil
		})
	}, nil
}

// stateRel returns the state directory relative to dir, or false when it
// lies outside dir.
func (l *Lister) stateRel(dir string) (string, bool) {
	if l.stateDir == "" {
		return "", false
	}
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return "", false
	}
	absState, err := filepath.Abs(l.stateDir)
	if err != nil {
		return "", false
	}
	rel, err := filepath.Rel(absDir, absState)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", false
	}
	return filepath.ToSlash(rel), true
}

func isStateFile(name string) bool {
	for _, pattern := range checkpoint.StateFilePatterns {
		if matched, _ := doublestar.Match(pattern, name); matched {
			return true
		}
	}
	return false
}

func (l *Lister) isExcluded(rel string, isDir bool) bool {
	for _, pattern := range l.excludes {
		if strings.HasSuffix(pattern, "/") {
			if !isDir {
				continue
			}
			if matched, _ := doublestar.Match(strings.TrimSuffix(pattern, "/"), rel); matched {
				return true
			}
			continue
		}
		if matched, _ := doublestar.Match(pattern, rel); matched {
			return true
		}
	}
	return false
}
