// Package jobmgr runs named background jobs with cancellation and in-memory
// tracking of what is running.
//
// Typical usage:
//
//	jm := jobmgr.NewManager(logger)
//
//	err := jm.StartAsync(ctx, "reminders", func(ctx context.Context) error {
//	    // do work until ctx is cancelled
//	    return nil
//	})
//
//	// on shutdown
//	jm.StopAll()
//
// No retry logic, no workers, no persistence. Jobs run in separate goroutines
// and are removed on completion.
package jobmgr

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/rs/zerolog"
)

// Job represents a running unit of work.
type Job struct {
	Name   string
	Cancel context.CancelFunc
}

// Manager orchestrates starting, stopping and tracking jobs.
// It is safe for concurrent use.
type Manager struct {
	mu   sync.Mutex
	jobs map[string]*Job
	wg   sync.WaitGroup
	log  zerolog.Logger
}

// NewManager creates a Manager that logs job lifecycle events to log.
func NewManager(log zerolog.Logger) *Manager {
	return &Manager{
		jobs: make(map[string]*Job),
		log:  log,
	}
}

// StartAsync runs a job in a separate goroutine and returns immediately.
// The job's context is derived from ctx. If a job with the same name is
// already running, an error is returned.
func (m *Manager) StartAsync(ctx context.Context, name string, runner func(ctx context.Context) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.jobs[name]; exists {
		return fmt.Errorf("job '%s' is already running", name)
	}

	jobCtx, cancel := context.WithCancel(ctx)
	job := &Job{Name: name, Cancel: cancel}
	m.jobs[name] = job
	m.wg.Add(1)

	go func() {
		defer m.wg.Done()
		defer cancel()
		m.log.Info().Str("job", name).Msg("Job running")

		err := runner(jobCtx)
		switch {
		case err == nil, errors.Is(err, context.Canceled):
			m.log.Info().Str("job", name).Msg("Job done")
		default:
			m.log.Error().Err(err).Str("job", name).Msg("Job failed")
		}

		m.mu.Lock()
		if m.jobs[name] == job {
			delete(m.jobs, name)
		}
		m.mu.Unlock()
	}()

	return nil
}

// Stop cancels a running job by name.
// If the job is not running, an error is returned.
func (m *Manager) Stop(name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	job, ok := m.jobs[name]
	if !ok {
		return fmt.Errorf("job '%s' not running", name)
	}

	job.Cancel()
	delete(m.jobs, name)
	return nil
}

// StopAll cancels every job and waits for them to return.
func (m *Manager) StopAll() {
	m.mu.Lock()
	for name, job := range m.jobs {
		job.Cancel()
		delete(m.jobs, name)
	}
	m.mu.Unlock()

	m.wg.Wait()
}

// List returns the sorted names of active jobs.
func (m *Manager) List() []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]string, 0, len(m.jobs))
	for k := range m.jobs {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Status returns a human-readable summary of active jobs.
// Example:
//
//	"Running jobs: analyze, reminders"
//
// If none are running: "No jobs are running."
func (m *Manager) Status() string {
	active := m.List()
	if len(active) == 0 {
		return "No jobs are running."
	}
	return fmt.Sprintf("Running jobs: %s", strings.Join(active, ", "))
}
