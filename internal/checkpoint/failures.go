package checkpoint

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Separators become "_"; characters that could make two directories share a
// name are percent-escaped, so "x_y" and "x:y" stay distinct.
var failureNameReplacer = strings.NewReplacer(
	"/", "_",
	"%", "%25",
	"_", "%5F",
	":", "%3A",
	"\\", "%5C",
)

// FailureLogName derives the failure log file name for dir, e.g.
// "data/d1" -> "to_check_data_d1.txt".
func FailureLogName(dir string) string {
	name := strings.TrimLeft(filepath.ToSlash(filepath.Clean(dir)), "/")
	if name == "" || name == "." {
		name = "root"
	}
	return "to_check_" + failureNameReplacer.Replace(name) + ".txt"
}

func (s *Store) FailureLogPath(dir string) string {
	return filepath.Join(s.dir, FailureLogName(dir))
}

// WriteFailures appends paths, one per line, to dir's failure log. The file
// is created even when paths is empty.
func (s *Store) WriteFailures(dir string, paths []string) error {
	p := s.FailureLogPath(dir)
	f, err := s.fs.OpenFile(p, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open %s: %w", p, err)
	}

	for _, line := range paths {
		if _, err := io.WriteString(f, line+"\n"); err != nil {
			_ = f.Close()
			return fmt.Errorf("write %s: %w", p, err)
		}
	}
	return f.Close()
}
