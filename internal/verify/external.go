package verify

import (
	"bufio"
	"errors"
	"fmt"
	"os/exec"
	"regexp"

	"SumKeeper/internal/checksum"
	"SumKeeper/internal/dispatch"
)

var ErrToolUnavailable = errors.New("verification tool unavailable")

// Tool runs a host checksum verifier inside dir and streams the lines it
// prints for failing files.
type Tool interface {
	Check(dir, algorithm string, onLine func(string)) (ok bool, err error)
}

// CoreutilsTool runs `<alg>sum -c --quiet <alg>sum.txt`. It needs the real
// filesystem, so it is only usable with afero.OsFs.
type CoreutilsTool struct{}

func (CoreutilsTool) Check(dir, algorithm string, onLine func(string)) (bool, error) {
	name := algorithm + "sum"
	cmd := exec.Command(name, "-c", "--quiet", checksum.FileName(algorithm)) // #nosec G204 -- algorithm is validated against a fixed list
	cmd.Dir = dir

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrToolUnavailable, err)
	}
	if err := cmd.Start(); err != nil {
		return false, fmt.Errorf("%w: %s: %v", ErrToolUnavailable, name, err)
	}

	sc := bufio.NewScanner(stdout)
	for sc.Scan() {
		onLine(sc.Text())
	}

	if err := cmd.Wait(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return false, nil
		}
		return false, fmt.Errorf("%w: %s: %v", ErrToolUnavailable, name, err)
	}
	return true, nil
}

// toolLineRe matches "path: FAILED" and "path: FAILED open or read".
var toolLineRe = regexp.MustCompile(`^(.*): FAILED(?: open or read)?$`)

func failedPath(line string) string {
	if m := toolLineRe.FindStringSubmatch(line); m != nil {
		return m[1]
	}
	return line
}

// external delegates to a Tool. The exit status decides the outcome; the
// printed lines become the failure list. The two are not reconciled.
type external struct {
	v    *Verifier
	tool Tool
}

func (s external) Check(t dispatch.Task) Result {
	v := s.v
	var failures []string
	ok, err := s.tool.Check(t.Dir, v.opts.Algorithm, func(line string) {
		v.log.Info("%s: %s", t.Dir, line)
		failures = append(failures, failedPath(line))
	})
	if err != nil {
		v.log.Info("Directory %s: Permission Denied (%v)", t.Dir, err)
		return Result{Dir: t.Dir, Outcome: Indeterminate}
	}

	res := Result{Dir: t.Dir, Outcome: Succeeded, Failures: failures}
	if !ok {
		res.Outcome = Failed
	}
	return res
}
