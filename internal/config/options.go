package config

import (
	"errors"
	"fmt"
	"strings"

	"SumKeeper/internal/hashing"
)

var (
	ErrFolderRequired   = errors.New("folder is required")
	ErrNegativeThreads  = errors.New("threads must be >= 0")
	ErrStateDirRequired = errors.New("state dir is required")
)

// Level is the console verbosity. Progress replaces line logging with
// per-directory progress rows.
type Level int

const (
	Quiet Level = iota
	Info
	Debug
	Progress
)

func (l Level) String() string {
	switch l {
	case Quiet:
		return "quiet"
	case Info:
		return "info"
	case Debug:
		return "debug"
	case Progress:
		return "progress"
	default:
		return fmt.Sprintf("level(%d)", int(l))
	}
}

// InfoEnabled reports whether info lines are printed. Progress mode mutes
// line logging.
func (l Level) InfoEnabled() bool     { return l == Info || l == Debug }
func (l Level) DebugEnabled() bool    { return l == Debug }
func (l Level) ProgressEnabled() bool { return l == Progress }

func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "quiet":
		return Quiet, nil
	case "info":
		return Info, nil
	case "debug":
		return Debug, nil
	case "progress":
		return Progress, nil
	default:
		return Quiet, fmt.Errorf("unknown log level: %q", s)
	}
}

// Options is the per-run snapshot shared by every directory task. It is
// passed by value and never mutated after dispatch.
type Options struct {
	Folder    string
	Subdirs   bool
	Algorithm string
	Threads   int // 0 = one goroutine per directory
	Level     Level
	Excludes  []string
	StateDir  string
	External  bool
}

func (o Options) InfoEnabled() bool     { return o.Level.InfoEnabled() }
func (o Options) DebugEnabled() bool    { return o.Level.DebugEnabled() }
func (o Options) ProgressEnabled() bool { return o.Level.ProgressEnabled() }

// Validate checks the options and normalizes the algorithm name.
func (o *Options) Validate() error {
	if strings.TrimSpace(o.Folder) == "" {
		return ErrFolderRequired
	}
	if o.Threads < 0 {
		return ErrNegativeThreads
	}
	if strings.TrimSpace(o.StateDir) == "" {
		return ErrStateDirRequired
	}
	alg, err := hashing.Normalize(o.Algorithm)
	if err != nil {
		return err
	}
	o.Algorithm = alg
	return nil
}
