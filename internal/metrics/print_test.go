package metrics

import (
	"bytes"
	"strings"
	"testing"
	"time"
)

func TestFormatBytes(t *testing.T) {
	tests := []struct {
		in   int64
		want string
	}{
		{0, "0 B"},
		{1023, "1023 B"},
		{1024, "1.0 KB"},
		{1536, "1.5 KB"},
		{5 * 1024 * 1024, "5.0 MB"},
	}
	for _, tt := range tests {
		if got := formatBytes(tt.in); got != tt.want {
			t.Errorf("formatBytes(%d) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestPrint(t *testing.T) {
	s := &Stats{}
	s.Started = time.Now().Add(-2 * time.Second)
	s.Stop()
	s.Directories.Store(3)
	s.DirsOK.Add(2)
	s.DirsFailed.Add(1)
	s.BytesHashed.Add(2048)

	var buf bytes.Buffer
	Print(&buf, s)

	for _, want := range []string{"directories: 3\n", "ok: 2\n", "failed: 1\n", "bytes_hashed: 2.0 KB\n", "throughput_mb_per_sec:"} {
		if !strings.Contains(buf.String(), want) {
			t.Errorf("summary missing %q:\n%s", want, buf.String())
		}
	}
}
