// Package checksum reads and appends the per-directory <alg>sum.txt files.
//
// Lines use the coreutils layout "<hex hash>  <relative path>" so the file
// can be checked with e.g. `sha256sum -c` from inside the directory.
package checksum

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/spf13/afero"
)

var ErrChecksumFileUnavailable = errors.New("checksum file unavailable")

// lineRe captures hash and path. The second separator byte may be the
// coreutils binary-mode marker '*'.
var lineRe = regexp.MustCompile(`^([0-9A-Fa-f]+) [ *](.+)$`)

type Entry struct {
	Hash string
	Path string
}

// FileName returns the checksum file name for algorithm, e.g. "sha256sum.txt".
func FileName(algorithm string) string {
	return algorithm + "sum.txt"
}

func Path(dir, algorithm string) string {
	return filepath.Join(dir, FileName(algorithm))
}

// Format renders e without the trailing newline.
func Format(e Entry) string {
	return e.Hash + "  " + e.Path
}

// Parse extracts an entry from one line. ok is false for malformed lines.
func Parse(line string) (e Entry, ok bool) {
	m := lineRe.FindStringSubmatch(strings.TrimRight(line, "\r\n"))
	if m == nil {
		return Entry{}, false
	}
	return Entry{Hash: m[1], Path: m[2]}, true
}

// Writer appends entries to one checksum file.
type Writer struct {
	f afero.File
}

// OpenWriter opens dir's checksum file in create-or-append mode.
func OpenWriter(fs afero.Fs, dir, algorithm string) (*Writer, error) {
	p := Path(dir, algorithm)
	f, err := fs.OpenFile(p, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrChecksumFileUnavailable, p, err)
	}
	return &Writer{f: f}, nil
}

func (w *Writer) Append(e Entry) error {
	_, err := io.WriteString(w.f, Format(e)+"\n")
	return err
}

func (w *Writer) Close() error {
	return w.f.Close()
}

// Append writes entries to dir's checksum file, creating it if needed.
func Append(fs afero.Fs, dir, algorithm string, entries ...Entry) error {
	w, err := OpenWriter(fs, dir, algorithm)
	if err != nil {
		return err
	}
	for _, e := range entries {
		if err := w.Append(e); err != nil {
			_ = w.Close()
			return err
		}
	}
	return w.Close()
}

// ReadAll returns every parseable entry in append order. Malformed lines
// are skipped.
func ReadAll(fs afero.Fs, dir, algorithm string) ([]Entry, error) {
	p := Path(dir, algorithm)
	f, err := fs.Open(p)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrChecksumFileUnavailable, p, err)
	}
	defer func() {
		_ = f.Close()
	}()

	var entries []Entry
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 64*1024), 1<<20)
	for sc.Scan() {
		if e, ok := Parse(sc.Text()); ok {
			entries = append(entries, e)
		}
	}
	if err := sc.Err(); err != nil {
		return entries, fmt.Errorf("read %s: %w", p, err)
	}
	return entries, nil
}
