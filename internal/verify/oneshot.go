package verify

import (
	"path/filepath"

	"SumKeeper/internal/checksum"
	"SumKeeper/internal/dispatch"
	"SumKeeper/internal/hashing"
)

// oneshot recomputes every entry with the in-process hasher and reports
// only the outcome.
type oneshot struct {
	v *Verifier
}

func (s oneshot) Check(t dispatch.Task) Result {
	v := s.v
	entries, err := checksum.ReadAll(v.fs, t.Dir, v.opts.Algorithm)
	if err != nil {
		v.log.Info("Directory %s: %v", t.Dir, err)
		return Result{Dir: t.Dir, Outcome: Indeterminate}
	}

	res := Result{Dir: t.Dir, Outcome: Succeeded}
	for _, e := range entries {
		if !v.matches(t.Dir, e) {
			v.log.Info("%s: %s: FAILED", t.Dir, e.Path)
			res.Failures = append(res.Failures, e.Path)
		}
	}
	if len(res.Failures) > 0 {
		res.Outcome = Failed
	}
	return res
}

// matches recomputes e's hash. Unreadable files count as mismatches.
func (v *Verifier) matches(dir string, e checksum.Entry) bool {
	sum, err := hashing.FileHash(v.fs, filepath.Join(dir, filepath.FromSlash(e.Path)), v.opts.Algorithm, v.addBytes)
	if err != nil {
		v.stats.HashErrors.Add(1)
		v.log.Debug("%s: %s: %v", dir, e.Path, err)
		return false
	}
	v.stats.FilesHashed.Add(1)
	if sum != e.Hash {
		v.stats.HashMismatches.Add(1)
		return false
	}
	return true
}

func (v *Verifier) addBytes(n int64) {
	v.stats.BytesHashed.Add(n)
}
