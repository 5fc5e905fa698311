package checkpoint

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/spf13/afero"
)

// Store holds the KnownGood and ToCheck directory sets of one period.
// Records are appended through one guarded handle per file; separate
// processes writing the same period are not coordinated.
type Store struct {
	fs     afero.Fs
	dir    string
	period Period

	mu   sync.Mutex
	good map[string]bool
	bad  map[string]bool

	goodLog *appendLog
	badLog  *appendLog
}

// Open loads both sets of period from dir. Missing files are empty sets.
func Open(fs afero.Fs, dir string, period Period) (*Store, error) {
	s := &Store{
		fs:      fs,
		dir:     dir,
		period:  period,
		goodLog: &appendLog{fs: fs, path: filepath.Join(dir, period.KnownGoodName())},
		badLog:  &appendLog{fs: fs, path: filepath.Join(dir, period.ToCheckName())},
	}

	var err error
	if s.good, err = readPaths(fs, s.goodLog.path); err != nil {
		return nil, err
	}
	if s.bad, err = readPaths(fs, s.badLog.path); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Store) Period() Period { return s.period }

// Contains reports whether dir was already judged good or bad this period.
func (s *Store) Contains(dir string) bool {
	key := filepath.Clean(dir)
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.good[key] || s.bad[key]
}

// Filter drops the directories already resolved this period, keeping order.
func (s *Store) Filter(dirs []string) []string {
	out := make([]string, 0, len(dirs))
	for _, d := range dirs {
		if !s.Contains(d) {
			out = append(out, d)
		}
	}
	return out
}

func (s *Store) RecordGood(dir string) error {
	return s.record(s.good, s.goodLog, dir)
}

func (s *Store) RecordBad(dir string) error {
	return s.record(s.bad, s.badLog, dir)
}

func (s *Store) record(set map[string]bool, log *appendLog, dir string) error {
	s.mu.Lock()
	set[filepath.Clean(dir)] = true
	s.mu.Unlock()
	return log.append(dir)
}

// KnownGood returns the sorted KnownGood set.
func (s *Store) KnownGood() []string { return s.sorted(s.good) }

// ToCheck returns the sorted ToCheck set.
func (s *Store) ToCheck() []string { return s.sorted(s.bad) }

func (s *Store) sorted(set map[string]bool) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, 0, len(set))
	for p := range set {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

func (s *Store) Close() error {
	return errors.Join(s.goodLog.close(), s.badLog.close())
}

type appendLog struct {
	fs   afero.Fs
	path string

	mu sync.Mutex
	f  afero.File
}

func (a *appendLog) append(line string) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.f == nil {
		f, err := a.fs.OpenFile(a.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return fmt.Errorf("open %s: %w", a.path, err)
		}
		a.f = f
	}
	_, err := io.WriteString(a.f, line+"\n")
	return err
}

func (a *appendLog) close() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.f == nil {
		return nil
	}
	err := a.f.Close()
	a.f = nil
	return err
}

func readPaths(fs afero.Fs, path string) (map[string]bool, error) {
	set := make(map[string]bool)

	f, err := fs.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return set, nil
		}
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer func() {
		_ = f.Close()
	}()

	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimRight(sc.Text(), "\r")
		if line == "" {
			continue
		}
		set[filepath.Clean(line)] = true
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return set, nil
}
