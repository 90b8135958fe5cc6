package jobs

import (
	"fmt"
)

// Job is a scheduled background task.
type Job interface {
	Start() error
	Stop()
}

// JobManager coordinates all scheduled jobs in the application.
// Provides a unified interface to start and stop all background jobs.
type JobManager struct {
	jobs    map[string]Job
	order   []string
	started []string
}

// NewJobManager creates an empty job manager. Register jobs before StartAll.
func NewJobManager() *JobManager {
	return &JobManager{jobs: make(map[string]Job)}
}

// Register adds a job under name. Registering the same name twice replaces the job.
func (jm *JobManager) Register(name string, job Job) {
	if _, exists := jm.jobs[name]; !exists {
		jm.order = append(jm.order, name)
	}
	jm.jobs[name] = job
}

// StartAll starts all registered jobs in registration order.
// If a job fails to start, the jobs already started are stopped again.
func (jm *JobManager) StartAll() error {
	for _, name := range jm.order {
		if err := jm.jobs[name].Start(); err != nil {
			jm.StopAll()
			return fmt.Errorf("failed to start %s job: %w", name, err)
		}
		jm.started = append(jm.started, name)
	}
	return nil
}

// StopAll stops the started jobs in reverse order.
func (jm *JobManager) StopAll() {
	for i := len(jm.started) - 1; i >= 0; i-- {
		jm.jobs[jm.started[i]].Stop()
	}
	jm.started = nil
}
