// Package scheduler runs the recurring background jobs: event ingestion,
// cache warm-up and analytics retention.
package scheduler

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

const (
	PreloadSpec   = "0 */5 * * * *"
	RetentionSpec = "0 30 3 * * *"
)

// Job is a named unit of scheduled work.
type Job struct {
	Name string
	Spec string
	Run  func(ctx context.Context) error
	// Timeout bounds one run; zero means ten minutes.
	Timeout time.Duration
}

// Manager owns the cron instance. Runs of the same job never overlap.
type Manager struct {
	cron *cron.Cron
	ctx  context.Context

	mu      sync.Mutex
	cancel  context.CancelFunc
	entries map[string]cron.EntryID
	last    map[string]RunInfo
}

type RunInfo struct {
	StartedAt time.Time     `json:"started_at"`
	Duration  time.Duration `json:"duration"`
	Error     string        `json:"error,omitempty"`
}

func New() *Manager {
	ctx, cancel := context.WithCancel(context.Background())
	return &Manager{
		cron:    cron.New(cron.WithSeconds(), cron.WithChain(cron.Recover(cron.DefaultLogger))),
		ctx:     ctx,
		cancel:  cancel,
		entries: map[string]cron.EntryID{},
		last:    map[string]RunInfo{},
	}
}

// Add registers a job. An invalid spec is returned as an error and nothing
// is registered.
func (m *Manager) Add(job Job) error {
	wrapped := cron.NewChain(cron.SkipIfStillRunning(cron.DefaultLogger)).Then(cron.FuncJob(func() {
		m.run(job)
	}))
	id, err := m.cron.AddJob(job.Spec, wrapped)
	if err != nil {
		return err
	}
	m.mu.Lock()
	m.entries[job.Name] = id
	m.mu.Unlock()
	log.Printf("[CRON] registered %s (%s)", job.Name, job.Spec)
	return nil
}

func (m *Manager) run(job Job) {
	timeout := job.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Minute
	}
	ctx, cancel := context.WithTimeout(m.ctx, timeout)
	defer cancel()

	started := time.Now()
	log.Printf("[CRON] Starting job: %s at %s", job.Name, started.Format(time.RFC3339))
	err := job.Run(ctx)
	info := RunInfo{StartedAt: started.UTC(), Duration: time.Since(started)}
	if err != nil {
		info.Error = err.Error()
		log.Printf("[CRON] Failed job: %s - %v", job.Name, err)
	} else {
		log.Printf("[CRON] Completed job: %s in %s", job.Name, info.Duration.Round(time.Millisecond))
	}
	m.mu.Lock()
	m.last[job.Name] = info
	m.mu.Unlock()
}

// LastRun reports the most recent completed run of a job.
func (m *Manager) LastRun(name string) (RunInfo, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	info, ok := m.last[name]
	return info, ok
}

func (m *Manager) Next(name string) (time.Time, bool) {
	m.mu.Lock()
	id, ok := m.entries[name]
	m.mu.Unlock()
	if !ok {
		return time.Time{}, false
	}
	return m.cron.Entry(id).Next, true
}

func (m *Manager) Start() {
	m.cron.Start()
	log.Println("[CRON] scheduler started")
}

// Stop cancels running jobs and waits for them to return.
func (m *Manager) Stop() {
	m.cancel()
	<-m.cron.Stop().Done()
	log.Println("[CRON] scheduler stopped")
}
