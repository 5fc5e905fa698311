// Package update appends fresh checksum entries to each directory's
// <alg>sum.txt.
package update

import (
	"io"
	"path/filepath"

	"github.com/spf13/afero"

	"SumKeeper/internal/checksum"
	"SumKeeper/internal/config"
	"SumKeeper/internal/dispatch"
	"SumKeeper/internal/filelist"
	"SumKeeper/internal/hashing"
	"SumKeeper/internal/logging"
	"SumKeeper/internal/metrics"
	"SumKeeper/internal/progress"
)

type Updater struct {
	opts   config.Options
	fs     afero.Fs
	lister *filelist.Lister
	log    *logging.Logger
	stats  *metrics.Stats
	bar    *progress.Bar
}

func New(opts config.Options, fs afero.Fs, log *logging.Logger, stats *metrics.Stats) (*Updater, error) {
	lister, err := filelist.New(fs, opts.Excludes, opts.StateDir)
	if err != nil {
		return nil, err
	}
	return &Updater{opts: opts, fs: fs, lister: lister, log: log, stats: stats}, nil
}

// Run updates the root folder, or every immediate subdirectory of it in
// subdirectory mode. Per-directory failures are logged, never returned;
// the only error is an unreadable root in subdirectory mode.
func Run(opts config.Options, fs afero.Fs, log *logging.Logger, stats *metrics.Stats, out io.Writer) error {
	u, err := New(opts, fs, log, stats)
	if err != nil {
		return err
	}
	if opts.ProgressEnabled() {
		u.bar = progress.NewBar(out, stats.Snapshot)
		defer u.bar.Close()
	}

	if !opts.Subdirs {
		stats.Directories.Store(1)
		task := dispatch.Task{Dir: opts.Folder}
		if err := u.Directory(task); err != nil {
			u.failed(task, err)
		}
		return nil
	}

	dirs, err := dispatch.Gather(fs, opts.Folder)
	if err != nil {
		return err
	}
	stats.Directories.Store(int64(len(dirs)))

	for _, d := range dirs {
		log.Info("Updating Directory %s", d)
	}

	dispatch.NewPool(opts.Threads, u.failed).Run(dispatch.NewTasks(dirs), u.Directory)
	return nil
}

func (u *Updater) failed(t dispatch.Task, err error) {
	u.stats.DirsFailed.Add(1)
	u.log.Info("Directory %s: %v", t.Dir, err)
}

// Directory hashes every candidate file of t.Dir and appends one entry per
// file. Existing entries are left alone, so an unchanged directory gains
// duplicate lines.
func (u *Updater) Directory(t dispatch.Task) error {
	defer u.stats.DirsDone.Add(1)

	files, err := u.lister.Files(t.Dir)
	if err != nil {
		return err
	}

	w, err := checksum.OpenWriter(u.fs, t.Dir, u.opts.Algorithm)
	if err != nil {
		return err
	}
	defer func() {
		if err := w.Close(); err != nil {
			u.log.Error("close checksum file in %s: %v", t.Dir, err)
		}
	}()

	for rel := range files {
		sum, err := hashing.FileHash(u.fs, filepath.Join(t.Dir, filepath.FromSlash(rel)), u.opts.Algorithm, u.addBytes)
		if err != nil {
			u.stats.HashErrors.Add(1)
			u.log.Info("%s: %s: %v", t.Dir, rel, err)
			continue
		}

		e := checksum.Entry{Hash: sum, Path: rel}
		if err := w.Append(e); err != nil {
			u.log.Error("Error writing to file: %v", err)
			continue
		}
		u.stats.FilesHashed.Add(1)
		u.log.Info("%s: %s", t.Dir, checksum.Format(e))
	}

	u.stats.DirsOK.Add(1)
	u.log.Info("Directory %s Updated", t.Dir)
	return nil
}

func (u *Updater) addBytes(n int64) {
	u.stats.BytesHashed.Add(n)
	if u.bar != nil {
		u.bar.AddBytes(n)
	}
}
