// Package verify re-checks directories against their checksum files and
// records the outcome in the period's checkpoint store.
package verify

import (
	"fmt"
	"io"

	"github.com/spf13/afero"

	"SumKeeper/internal/checkpoint"
	"SumKeeper/internal/config"
	"SumKeeper/internal/dispatch"
	"SumKeeper/internal/logging"
	"SumKeeper/internal/metrics"
	"SumKeeper/internal/progress"
)

type Verifier struct {
	opts     config.Options
	fs       afero.Fs
	log      *logging.Logger
	stats    *metrics.Stats
	store    *checkpoint.Store
	strategy Strategy
}

// New picks the strategy from opts: per-directory progress rows at the
// progress level, otherwise a oneshot check, in-process by default or
// through tool when opts.External is set.
func New(opts config.Options, fs afero.Fs, log *logging.Logger, stats *metrics.Stats, store *checkpoint.Store, renderer Renderer, tool Tool) *Verifier {
	v := &Verifier{opts: opts, fs: fs, log: log, stats: stats, store: store}
	switch {
	case opts.ProgressEnabled():
		v.strategy = progressCheck{v: v, renderer: renderer}
	case opts.External:
		v.strategy = external{v: v, tool: tool}
	default:
		v.strategy = oneshot{v: v}
	}
	return v
}

// Directory checks t.Dir and records the result.
func (v *Verifier) Directory(t dispatch.Task) error {
	defer v.stats.DirsDone.Add(1)

	v.log.Info("Verifying Directory %s", t.Dir)
	res := v.strategy.Check(t)
	return v.record(res)
}

func (v *Verifier) record(res Result) error {
	if res.Outcome == Succeeded {
		v.stats.DirsOK.Add(1)
		if v.opts.Subdirs {
			if err := v.store.RecordGood(res.Dir); err != nil {
				return fmt.Errorf("record known good: %w", err)
			}
		}
		v.log.Info("%s: checked: OK", res.Dir)
		return nil
	}

	if res.Outcome == Indeterminate {
		v.stats.Indeterminate.Add(1)
	} else {
		v.stats.DirsFailed.Add(1)
	}

	if v.opts.Subdirs {
		if err := v.store.RecordBad(res.Dir); err != nil {
			return fmt.Errorf("record to check: %w", err)
		}
	}
	v.log.Info("Directory %s checked: FAILED", res.Dir)
	v.log.Debug("Filepath for Bad Files: %s", v.store.FailureLogPath(res.Dir))

	if err := v.store.WriteFailures(res.Dir, res.Failures); err != nil {
		return fmt.Errorf("write failure log: %w", err)
	}
	return nil
}

// Run verifies the root folder, or in subdirectory mode every immediate
// subdirectory not yet judged during period. Per-directory failures are
// logged, never returned.
func Run(opts config.Options, fs afero.Fs, log *logging.Logger, stats *metrics.Stats, out io.Writer, period checkpoint.Period, tool Tool) error {
	store, err := checkpoint.Open(fs, opts.StateDir, period)
	if err != nil {
		return err
	}
	defer func() {
		if err := store.Close(); err != nil {
			log.Error("close checkpoint files: %v", err)
		}
	}()
	log.Debug("Already checked subdirs: %v", append(store.KnownGood(), store.ToCheck()...))

	presenter := progress.NewPresenter(out)
	v := New(opts, fs, log, stats, store, presenter, tool)
	failed := func(t dispatch.Task, err error) {
		log.Info("Directory %s: %v", t.Dir, err)
	}

	if !opts.Subdirs {
		stats.Directories.Store(1)
		task := dispatch.Task{Dir: opts.Folder}
		if opts.ProgressEnabled() {
			presenter.Reserve(1)
			task.Line = presenter.AssignLine()
		}
		if err := v.Directory(task); err != nil {
			failed(task, err)
		}
		return nil
	}

	all, err := dispatch.Gather(fs, opts.Folder)
	if err != nil {
		return err
	}
	dirs := store.Filter(all)
	stats.DirsSkipped.Store(int64(len(all) - len(dirs)))
	stats.Directories.Store(int64(len(dirs)))

	tasks := dispatch.NewTasks(dirs)
	if opts.ProgressEnabled() {
		presenter.Reserve(len(tasks))
		for i := range tasks {
			tasks[i].Line = presenter.AssignLine()
		}
	}

	dispatch.NewPool(opts.Threads, failed).Run(tasks, v.Directory)
	return nil
}
