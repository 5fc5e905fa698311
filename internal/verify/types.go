package verify

import "SumKeeper/internal/dispatch"

// Outcome is the terminal state of one directory check.
type Outcome int

const (
	Succeeded Outcome = iota
	Failed
	// Indeterminate means the check could not run at all: the checksum
	// file or the external tool was unavailable. It is recorded like Failed.
	Indeterminate
)

func (o Outcome) String() string {
	switch o {
	case Succeeded:
		return "succeeded"
	case Failed:
		return "failed"
	case Indeterminate:
		return "indeterminate"
	default:
		return "unknown"
	}
}

type Result struct {
	Dir      string
	Outcome  Outcome
	Failures []string // relative paths, in checksum file order
}

// Strategy checks one directory against its checksum file.
type Strategy interface {
	Check(t dispatch.Task) Result
}

// Renderer draws progress rows. progress.Presenter implements it.
type Renderer interface {
	Render(line int, percent float64, label string)
	Message(line int, label, text string)
}
