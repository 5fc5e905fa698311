// Package progress renders per-directory progress rows for concurrent
// verification tasks, plus an aggregate byte bar for updates.
package progress

import (
	"fmt"
	"io"
	"strings"
	"sync"
)

const barWidth = 60

// Presenter owns the terminal. Each task gets one row, counted upwards
// from the cursor: row 1 is the line just above it. Every write saves the
// cursor, moves up, clears the row and restores the cursor, all under mu.
type Presenter struct {
	mu   sync.Mutex
	w    io.Writer
	next int
}

func NewPresenter(w io.Writer) *Presenter {
	return &Presenter{w: w}
}

// Reserve prints n empty rows for AssignLine to hand out.
func (p *Presenter) Reserve(n int) {
	if n <= 0 {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	_, _ = io.WriteString(p.w, strings.Repeat("\n", n))
}

// AssignLine returns 1, 2, 3, ... in call order.
func (p *Presenter) AssignLine() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.next++
	return p.next
}

// Render draws "<label>: <percent>% <bar>" on line.
func (p *Presenter) Render(line int, percent float64, label string) {
	p.draw(line, fmt.Sprintf("%s: %3.2f%% %s", label, percent, Bar60(percent)))
}

// Message replaces line with "<label>: <text>".
func (p *Presenter) Message(line int, label, text string) {
	p.draw(line, label+": "+text)
}

func (p *Presenter) draw(line int, body string) {
	var sb strings.Builder
	sb.WriteString("\x1b[s")
	fmt.Fprintf(&sb, "\x1b[%dA\x1b[2K", line)
	sb.WriteString(body)
	sb.WriteString("\x1b[u")

	p.mu.Lock()
	defer p.mu.Unlock()
	_, _ = io.WriteString(p.w, sb.String())
}

// Bar60 renders the fixed-width bar: cell i is filled while i is below the
// percentage scaled to 60 cells.
func Bar60(percent float64) string {
	scaled := float64(barWidth) * percent / 100.0
	var sb strings.Builder
	sb.Grow(barWidth)
	for i := 0; i < barWidth; i++ {
		if float64(i) < scaled {
			sb.WriteByte('#')
		} else {
			sb.WriteByte('_')
		}
	}
	return sb.String()
}

// Percent returns processed/total as a percentage; 0 when total is 0.
func Percent(processed, total int64) float64 {
	if total <= 0 {
		return 0
	}
	return float64(processed) / float64(total) * 100.0
}
