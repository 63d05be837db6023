// Package schedule runs named jobs on fixed intervals.
package schedule

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"
	"sort"
	"sync"
	"time"
)

// Job is run once at start and then on every tick of its interval. Runs of
// the same job never overlap; different jobs run concurrently.
type Job struct {
	Name     string
	Interval time.Duration
	Run      func(ctx context.Context, now time.Time) error
}

// Status is the outcome of a job's latest run.
type Status struct {
	Name    string    `json:"name"`
	LastRun time.Time `json:"last_run"`
	Runs    int       `json:"runs"`
	LastErr string    `json:"last_error,omitempty"`
}

type Scheduler struct {
	Now    func() time.Time
	Logger *slog.Logger

	jobs []Job

	mu     sync.Mutex
	status map[string]*Status
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func New(logger *slog.Logger, jobs ...Job) *Scheduler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Scheduler{
		Now:    time.Now,
		Logger: logger,
		jobs:   jobs,
		status: make(map[string]*Status),
	}
}

// Start launches one loop per job and returns immediately.
func (s *Scheduler) Start(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	for _, job := range s.jobs {
		s.wg.Add(1)
		go s.loop(ctx, job)
	}
	s.Logger.Info("scheduler started", "jobs", len(s.jobs))
}

// Stop cancels every loop and waits for in-flight runs to return.
func (s *Scheduler) Stop() {
	if s.cancel != nil {
		s.cancel()
	}
	s.wg.Wait()
	s.Logger.Info("scheduler stopped")
}

func (s *Scheduler) loop(ctx context.Context, job Job) {
	defer s.wg.Done()

	interval := job.Interval
	if interval <= 0 {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		s.RunOnce(ctx, job)
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// RunOnce runs the job a single time, turning a panic into a logged error.
func (s *Scheduler) RunOnce(ctx context.Context, job Job) {
	now := s.Now()
	err := safeRun(ctx, job, now)
	if err != nil {
		s.Logger.Error("job failed", "job", job.Name, "error", err)
	}
	s.record(job.Name, now, err)
}

func safeRun(ctx context.Context, job Job, now time.Time) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v\n%s", r, debug.Stack())
		}
	}()
	return job.Run(ctx, now)
}

func (s *Scheduler) record(name string, at time.Time, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.status[name]
	if !ok {
		st = &Status{Name: name}
		s.status[name] = st
	}
	st.LastRun = at
	st.Runs++
	st.LastErr = ""
	if err != nil {
		st.LastErr = err.Error()
	}
}

// Statuses returns a snapshot of every job that has run, sorted by name.
func (s *Scheduler) Statuses() []Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Status, 0, len(s.status))
	for _, st := range s.status {
		out = append(out, *st)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
