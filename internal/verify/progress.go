package verify

import (
	"path/filepath"

	"SumKeeper/internal/checksum"
	"SumKeeper/internal/dispatch"
	"SumKeeper/internal/progress"
)

// sizeSeed keeps the percentage defined for directories with no bytes.
const sizeSeed = 5

// progressState is the byte accounting of one directory's row.
type progressState struct {
	line      int
	total     int64
	processed int64
}

// progressCheck sizes every referenced file first, then verifies entry by
// entry and redraws the directory's row after each one.
type progressCheck struct {
	v        *Verifier
	renderer Renderer
}

func (s progressCheck) Check(t dispatch.Task) Result {
	v := s.v
	entries, err := checksum.ReadAll(v.fs, t.Dir, v.opts.Algorithm)
	if err != nil {
		s.renderer.Message(t.Line, t.Dir, "checksum file unavailable")
		return Result{Dir: t.Dir, Outcome: Indeterminate}
	}

	st := progressState{line: t.Line, total: sizeSeed}
	for _, e := range entries {
		st.total += v.size(t.Dir, e.Path)
	}
	s.render(t.Dir, st)

	res := Result{Dir: t.Dir, Outcome: Succeeded}
	for _, e := range entries {
		if !v.matches(t.Dir, e) {
			res.Failures = append(res.Failures, e.Path)
		}
		st.processed += v.size(t.Dir, e.Path)
		s.render(t.Dir, st)
	}

	if len(res.Failures) > 0 {
		res.Outcome = Failed
		s.renderer.Message(t.Line, t.Dir, "checked: FAILED")
	} else {
		s.renderer.Message(t.Line, t.Dir, "checked: OK")
	}
	return res
}

func (s progressCheck) render(dir string, st progressState) {
	s.renderer.Render(st.line, progress.Percent(st.processed, st.total), dir)
}

// size returns the file's byte size, or 0 when it cannot be stat'ed.
func (v *Verifier) size(dir, rel string) int64 {
	info, err := v.fs.Stat(filepath.Join(dir, filepath.FromSlash(rel)))
	if err != nil {
		return 0
	}
	return info.Size()
}
