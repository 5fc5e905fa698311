// Package dispatch runs one operation per directory task, either with a
// goroutine per task or with a fixed pool of workers.
package dispatch

import (
	"fmt"
	"path/filepath"
	"sort"
	"sync"

	"github.com/spf13/afero"
)

// Task is one directory to process. Line is its progress row, 0 if none.
type Task struct {
	Dir  string
	Line int
}

type Op func(Task) error

// Pool dispatches tasks. Workers == 0 starts every task at once; N > 0 runs
// at most N tasks concurrently.
type Pool struct {
	workers int
	onError func(Task, error)
}

// NewPool creates a pool. onError receives every failed or panicking task;
// it may be called concurrently.
func NewPool(workers int, onError func(Task, error)) *Pool {
	if onError == nil {
		onError = func(Task, error) {}
	}
	return &Pool{workers: workers, onError: onError}
}

// Run calls op for every task and returns once all of them have finished.
func (p *Pool) Run(tasks []Task, op Op) {
	if p.workers <= 0 {
		p.runUnbounded(tasks, op)
		return
	}
	p.runPool(tasks, op)
}

func (p *Pool) runUnbounded(tasks []Task, op Op) {
	var wg sync.WaitGroup
	wg.Add(len(tasks))
	for _, t := range tasks {
		go func(t Task) {
			defer wg.Done()
			p.do(t, op)
		}(t)
	}
	wg.Wait()
}

func (p *Pool) runPool(tasks []Task, op Op) {
	jobs := make(chan Task)
	var wg sync.WaitGroup

	worker := func() {
		defer wg.Done()
		for t := range jobs {
			p.do(t, op)
		}
	}

	wg.Add(p.workers)
	for i := 0; i < p.workers; i++ {
		go worker()
	}

	for _, t := range tasks {
		jobs <- t
	}
	close(jobs)

	wg.Wait()
}

func (p *Pool) do(t Task, op Op) {
	defer func() {
		if r := recover(); r != nil {
			p.onError(t, fmt.Errorf("panic: %v", r))
		}
	}()
	if err := op(t); err != nil {
		p.onError(t, err)
	}
}

// Gather lists the immediate subdirectories of root in lexical order.
func Gather(fs afero.Fs, root string) ([]string, error) {
	entries, err := afero.ReadDir(fs, root)
	if err != nil {
		return nil, fmt.Errorf("read dir %s: %w", root, err)
	}

	dirs := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			dirs = append(dirs, filepath.Join(root, e.Name()))
		}
	}
	sort.Strings(dirs)
	return dirs, nil
}

// NewTasks wraps dirs as tasks without progress rows.
func NewTasks(dirs []string) []Task {
	tasks := make([]Task, len(dirs))
	for i, d := range dirs {
		tasks[i] = Task{Dir: d}
	}
	return tasks
}
