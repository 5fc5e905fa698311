package metrics

import (
	"fmt"
	"io"
)

type Snapshot struct {
	DurationMs     int64
	Directories    int64
	DirsDone       int64
	DirsOK         int64
	DirsFailed     int64
	Indeterminate  int64
	DirsSkipped    int64
	FilesHashed    int64
	HashErrors     int64
	HashMismatches int64
	BytesHashed    int64
}

func (s *Stats) Snapshot() Snapshot {
	return Snapshot{
		DurationMs:     s.Duration().Milliseconds(),
		Directories:    s.Directories.Load(),
		DirsDone:       s.DirsDone.Load(),
		DirsOK:         s.DirsOK.Load(),
		DirsFailed:     s.DirsFailed.Load(),
		Indeterminate:  s.Indeterminate.Load(),
		DirsSkipped:    s.DirsSkipped.Load(),
		FilesHashed:    s.FilesHashed.Load(),
		HashErrors:     s.HashErrors.Load(),
		HashMismatches: s.HashMismatches.Load(),
		BytesHashed:    s.BytesHashed.Load(),
	}
}

// Print writes the end-of-run summary.
func Print(w io.Writer, s *Stats) {
	snap := s.Snapshot()

	fmt.Fprintln(w, "--- stats ---")
	fmt.Fprintln(w, "duration_ms:", snap.DurationMs)
	fmt.Fprintln(w, "directories:", snap.Directories)
	fmt.Fprintln(w, "directories_done:", snap.DirsDone)
	fmt.Fprintln(w, "directories_skipped:", snap.DirsSkipped)
	fmt.Fprintln(w, "ok:", snap.DirsOK)
	fmt.Fprintln(w, "failed:", snap.DirsFailed)
	fmt.Fprintln(w, "indeterminate:", snap.Indeterminate)
	fmt.Fprintln(w, "files_hashed:", snap.FilesHashed)
	fmt.Fprintln(w, "hash_errors:", snap.HashErrors)
	fmt.Fprintln(w, "hash_mismatches:", snap.HashMismatches)
	fmt.Fprintln(w, "bytes_hashed:", formatBytes(snap.BytesHashed))

	if snap.DurationMs > 0 {
		secs := float64(snap.DurationMs) / 1000.0
		bps := float64(snap.BytesHashed) / secs
		fmt.Fprintf(w, "throughput_mb_per_sec: %.1f\n", bps/1_000_000.0)
	}
}

func formatBytes(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(bytes)/float64(div), "KMGTPE"[exp])
}
