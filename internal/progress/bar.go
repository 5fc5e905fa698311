package progress

import (
	"fmt"
	"io"
	"time"

	"github.com/schollz/progressbar/v3"

	"SumKeeper/internal/metrics"
)

type SnapshotFn func() metrics.Snapshot

var describeEvery = time.Second

// Bar is a single aggregate byte counter for update runs, where the total
// is not known up front.
type Bar struct {
	bar  *progressbar.ProgressBar
	ch   chan int64
	done chan struct{}
	stop chan struct{}
	tick chan struct{}

	snap   SnapshotFn
	lastB  int64
	lastAt time.Time
}

func NewBar(w io.Writer, snap SnapshotFn) *Bar {
	b := &Bar{
		ch:     make(chan int64, 16384),
		done:   make(chan struct{}),
		stop:   make(chan struct{}),
		tick:   make(chan struct{}),
		snap:   snap,
		lastAt: time.Now(),
	}

	b.bar = progressbar.NewOptions64(
		-1,
		progressbar.OptionSetWriter(w),
		progressbar.OptionUseANSICodes(true),
		progressbar.OptionSetDescription("hashing"),
		progressbar.OptionShowCount(),
		progressbar.OptionShowIts(),
		progressbar.OptionShowBytes(true),
		progressbar.OptionThrottle(120*time.Millisecond),
	)

	_ = b.bar.RenderBlank()
	go func() {
		defer close(b.done)
		for n := range b.ch {
			_ = b.bar.Add64(n)
		}
		_ = b.bar.Finish()
	}()

	go func() {
		defer close(b.tick)
		t := time.NewTicker(describeEvery)
		defer t.Stop()
		for {
			select {
			case <-t.C:
				b.updateDescription()
			case <-b.stop:
				return
			}
		}
	}()

	return b
}

func (b *Bar) AddBytes(n int64) {
	if n <= 0 {
		return
	}
	b.ch <- n
}

// Close stops the description ticker, drains pending bytes and finishes the
// bar. No snapshot is taken after Close returns.
func (b *Bar) Close() {
	close(b.stop)
	<-b.tick
	close(b.ch)
	<-b.done
}

func (b *Bar) updateDescription() {
	if b.snap == nil {
		return
	}
	s := b.snap()

	now := time.Now()
	dt := now.Sub(b.lastAt).Seconds()

	mbps := 0.0
	if dt > 0 {
		mbps = (float64(s.BytesHashed-b.lastB) / 1_000_000.0) / dt
	}

	b.lastB = s.BytesHashed
	b.lastAt = now

	b.bar.Describe(fmt.Sprintf("hashing %d/%d dirs | files=%d err=%d | %.1f MB/s",
		s.DirsDone, s.Directories, s.FilesHashed, s.HashErrors, mbps,
	))
}
