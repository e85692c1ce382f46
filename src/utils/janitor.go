package utils

import (
	"fmt"
	"sync"

	"market-analyzer/src/logger"

	"github.com/robfig/cron/v3"
)

// Janitor runs periodic housekeeping jobs (cache purges, session expiry).
type Janitor struct {
	cron   *cron.Cron
	jobs   map[string]func()
	Logger *logger.Logger
	mu     sync.Mutex
}

// -----------------------------------------------------------------------------

func NewJanitor(log *logger.Logger) *Janitor {
	return &Janitor{
		cron:   cron.New(),
		jobs:   make(map[string]func()),
		Logger: log,
	}
}

// -----------------------------------------------------------------------------

// AddJob schedules fn under a cron spec ("@every 1m", "*/5 * * * *").
// A panicking job is logged and does not stop the schedule.
func (j *Janitor) AddJob(name, schedule string, fn func()) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	if _, exists := j.jobs[name]; exists {
		return fmt.Errorf("janitor job %s already exists", name)
	}

	wrapped := func() {
		defer func() {
			if r := recover(); r != nil {
				j.Logger.Error("Janitor job %s panicked: %v", name, r)
			}
		}()
		fn()
	}

	if _, err := j.cron.AddFunc(schedule, wrapped); err != nil {
		return fmt.Errorf("invalid schedule %q for job %s: %w", schedule, name, err)
	}
	j.jobs[name] = wrapped
	j.Logger.Info("Janitor: scheduled %s (%s)", name, schedule)
	return nil
}

// -----------------------------------------------------------------------------

// RunNow executes every job once, synchronously.
func (j *Janitor) RunNow() {
	j.mu.Lock()
	jobs := make([]func(), 0, len(j.jobs))
	for _, fn := range j.jobs {
		jobs = append(jobs, fn)
	}
	j.mu.Unlock()

	for _, fn := range jobs {
		fn()
	}
}

// -----------------------------------------------------------------------------

func (j *Janitor) Start() {
	j.cron.Start()
	j.Logger.Info("Janitor started with %d jobs", len(j.jobs))
}

// -----------------------------------------------------------------------------

// Stop halts scheduling and waits for running jobs to finish.
func (j *Janitor) Stop() {
	<-j.cron.Stop().Done()
	j.Logger.Info("Janitor stopped")
}
