package jobmanagement

import (
	"context"
	"fmt"
	"log"
	"sort"
	"sync"
	"time"

	"whisper-wpm-eval/internal/coreengine/evaluationengine"
	"whisper-wpm-eval/internal/resultstore"
)

const (
	JobStatusPending   = "PENDING"
	JobStatusRunning   = "RUNNING"
	JobStatusCompleted = "COMPLETED"
	JobStatusFailed    = "FAILED"
)

// Job records one evaluation run triggered through the API. The run
// timestamp doubles as the job ID, since the result store names its
// files by timestamp.
type Job struct {
	ID          string                  `json:"id"`
	Name        string                  `json:"name,omitempty"`
	Status      string                  `json:"status"`
	StartedAt   *time.Time              `json:"started_at,omitempty"`
	CompletedAt *time.Time              `json:"completed_at,omitempty"`
	Error       string                  `json:"error,omitempty"`
	Scored      int                     `json:"scored"`
	Skipped     int                     `json:"skipped"`
	Summary     *resultstore.RunSummary `json:"summary,omitempty"`
}

// JobService runs evaluation jobs and keeps their records in memory for
// the lifetime of the server process. Finished runs also land in the
// result store, which is the durable record.
type JobService struct {
	Engine  *evaluationengine.Engine
	Results *resultstore.Store

	mu   sync.Mutex
	jobs map[string]*Job
}

// NewJobService creates a JobService around an evaluation engine and a
// result store.
func NewJobService(engine *evaluationengine.Engine, results *resultstore.Store) *JobService {
	return &JobService{
		Engine:  engine,
		Results: results,
		jobs:    make(map[string]*Job),
	}
}

// CreateAndRunJob runs a full evaluation synchronously and returns the
// finished job record. The job passes PENDING, RUNNING and then either
// COMPLETED or FAILED.
func (s *JobService) CreateAndRunJob(ctx context.Context, name string) (*Job, error) {
	started := time.Now()
	job := &Job{
		Name:      name,
		Status:    JobStatusPending,
		StartedAt: &started,
	}
	log.Printf("Evaluation job %q created with PENDING status.", name)

	job.Status = JobStatusRunning

	outcome, err := s.Engine.Run(ctx)
	completed := time.Now()
	job.CompletedAt = &completed

	if err != nil {
		job.Status = JobStatusFailed
		job.Error = err.Error()
		if job.ID == "" {
			job.ID = started.Format("20060102_150405")
		}
		s.register(job)
		return job, fmt.Errorf("evaluation run failed: %w", err)
	}

	job.ID = outcome.Timestamp
	job.Scored = len(outcome.Results)
	job.Skipped = len(outcome.Skipped)
	job.Summary = &outcome.Summary

	if err := s.Results.SaveRun(outcome.Timestamp, outcome.Results, outcome.Summary); err != nil {
		job.Status = JobStatusFailed
		job.Error = err.Error()
		s.register(job)
		return job, fmt.Errorf("failed to save run results: %w", err)
	}

	job.Status = JobStatusCompleted
	s.register(job)
	log.Printf("Evaluation job %s completed: %d scored, %d skipped.", job.ID, job.Scored, job.Skipped)
	return job, nil
}

// GetJob returns a job by run timestamp.
func (s *JobService) GetJob(id string) (*Job, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	job, ok := s.jobs[id]
	if !ok {
		return nil, fmt.Errorf("job %s not found", id)
	}
	return job, nil
}

// ListJobs returns all jobs from this process, newest first.
func (s *JobService) ListJobs() []*Job {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*Job, 0, len(s.jobs))
	for _, job := range s.jobs {
		out = append(out, job)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out
}

func (s *JobService) register(job *Job) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs[job.ID] = job
}
