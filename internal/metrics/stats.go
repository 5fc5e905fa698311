package metrics

import (
	"sync/atomic"
	"time"
)

// Stats counts directory and file outcomes across concurrent tasks.
type Stats struct {
	Directories   atomic.Int64
	DirsDone      atomic.Int64
	DirsOK        atomic.Int64
	DirsFailed    atomic.Int64
	Indeterminate atomic.Int64
	DirsSkipped   atomic.Int64

	FilesHashed    atomic.Int64
	HashErrors     atomic.Int64
	HashMismatches atomic.Int64
	BytesHashed    atomic.Int64

	Started  time.Time
	Finished time.Time
}

func (s *Stats) Start() { s.Started = time.Now() }
func (s *Stats) Stop()  { s.Finished = time.Now() }
func (s *Stats) Duration() time.Duration {
	if s.Finished.IsZero() {
		return time.Since(s.Started)
	}
	return s.Finished.Sub(s.Started)
}
