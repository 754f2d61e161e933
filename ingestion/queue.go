// Copyright 2025 Loreweave Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package ingestion

import (
	"context"
	"log/slog"
	"runtime"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/panjf2000/ants/v2"
	"golang.org/x/time/rate"

	"github.com/loreweave/loreweave/core"
)

const (
	defaultMaxAttempts = 3
	defaultBackoffBase = time.Second
	defaultPendingSize = 1024
)

// Queue schedules per-file ingestion jobs over a bounded worker pool.
// At most `concurrency` jobs execute in parallel, and an additional rate
// limiter caps how many jobs may start per unit time to protect the shared
// LLM endpoint. Failed jobs are requeued with exponential backoff until
// their attempts are exhausted.
type Queue struct {
	pipeline *Pipeline
	pool     *ants.Pool
	limiter  *rate.Limiter
	logger   *slog.Logger

	maxAttempts int
	backoffBase time.Duration

	mu     sync.Mutex
	jobs   map[string]*Job
	closed bool

	pending chan *Job
}

// QueueOption configures a Queue.
type QueueOption func(*Queue) error

// WithConcurrency sets the worker pool size.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithConcurrency(size int) QueueOption {
	return func(q *Queue) error {
		if size < 1 {
			size = 1
		}
		if q.pool != nil {
			q.pool.Release()
		}
		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		q.pool = pool
		return nil
	}
}

// WithRateLimit caps job starts to at most max within any window.
// Default is unlimited.
func WithRateLimit(max int, window time.Duration) QueueOption {
	return func(q *Queue) error {
		if max < 1 || window <= 0 {
			q.limiter = rate.NewLimiter(rate.Inf, 0)
			return nil
		}
		q.limiter = rate.NewLimiter(rate.Every(window/time.Duration(max)), max)
		return nil
	}
}

// WithMaxAttempts sets the default attempt budget for enqueued jobs.
func WithMaxAttempts(attempts int) QueueOption {
	return func(q *Queue) error {
		if attempts > 0 {
			q.maxAttempts = attempts
		}
		return nil
	}
}

// WithBackoffBase sets the default backoff base for enqueued jobs. The
// delay after attempt n is base * 2^n.
func WithBackoffBase(base time.Duration) QueueOption {
	return func(q *Queue) error {
		if base > 0 {
			q.backoffBase = base
		}
		return nil
	}
}

// WithQueueLogger sets a custom logger. Default is slog.Default().
func WithQueueLogger(logger *slog.Logger) QueueOption {
	return func(q *Queue) error {
		if logger != nil {
			q.logger = logger
		}
		return nil
	}
}

// NewQueue creates a job queue driving the given pipeline.
func NewQueue(pipeline *Pipeline, opts ...QueueOption) (*Queue, error) {
	if pipeline == nil {
		return nil, ErrPipelineRequired
	}

	poolSize := runtime.NumCPU() / 2
	if poolSize < 1 {
		poolSize = 1
	}
	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}

	q := &Queue{
		pipeline:    pipeline,
		pool:        pool,
		limiter:     rate.NewLimiter(rate.Inf, 0),
		logger:      slog.Default().With("component", "queue"),
		maxAttempts: defaultMaxAttempts,
		backoffBase: defaultBackoffBase,
		jobs:        make(map[string]*Job),
		pending:     make(chan *Job, defaultPendingSize),
	}
	for _, opt := range opts {
		if err := opt(q); err != nil {
			q.pool.Release()
			return nil, err
		}
	}
	return q, nil
}

// EnqueueOptions overrides per-job retry parameters.
type EnqueueOptions struct {
	MaxAttempts int
	BackoffBase time.Duration
}

// Enqueue registers a job for filePath and returns its id.
func (q *Queue) Enqueue(filePath string, opts *EnqueueOptions) (string, error) {
	maxAttempts := q.maxAttempts
	backoffBase := q.backoffBase
	if opts != nil {
		if opts.MaxAttempts > 0 {
			maxAttempts = opts.MaxAttempts
		}
		if opts.BackoffBase > 0 {
			backoffBase = opts.BackoffBase
		}
	}

	job := &Job{
		Id:          uuid.NewString(),
		FilePath:    filePath,
		MaxAttempts: maxAttempts,
		BackoffBase: backoffBase,
		State:       JobStatePending,
		EnqueuedAt:  time.Now().UTC(),
	}

	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return "", ErrQueueClosed
	}
	select {
	case q.pending <- job:
		q.jobs[job.Id] = job
		return job.Id, nil
	default:
		return "", ErrQueueFull
	}
}

// Run pulls ready jobs and dispatches them to the worker pool until ctx is
// cancelled. Dispatch blocks on the rate limiter before each job start and
// on the pool when all workers are busy.
func (q *Queue) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case job := <-q.pending:
			if err := q.limiter.Wait(ctx); err != nil {
				q.requeue(job)
				return err
			}
			j := job
			if err := q.pool.Submit(func() { q.runJob(ctx, j) }); err != nil {
				q.requeue(j)
				return err
			}
		}
	}
}

// Process runs a single synchronous ingestion attempt for filePath,
// blocking until it completes or fails. Used for one-shot invocations.
func (q *Queue) Process(ctx context.Context, filePath string) error {
	job := &Job{
		Id:          uuid.NewString(),
		FilePath:    filePath,
		MaxAttempts: 1,
		BackoffBase: q.backoffBase,
		State:       JobStateRunning,
		EnqueuedAt:  time.Now().UTC(),
	}
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return ErrQueueClosed
	}
	q.jobs[job.Id] = job
	job.Attempts = 1
	q.mu.Unlock()

	if err := q.limiter.Wait(ctx); err != nil {
		return err
	}

	err := q.pipeline.Run(ctx, filePath, q.progressFunc(job))

	q.mu.Lock()
	defer q.mu.Unlock()
	if err != nil {
		job.State = JobStateFailed
		job.LastErr = err
		return err
	}
	job.State = JobStateCompleted
	job.advanceProgress(progressDone)
	return nil
}

// Job returns a snapshot of the job with the given id.
func (q *Queue) Job(id string) (Job, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	job, ok := q.jobs[id]
	if !ok {
		return Job{}, ErrJobNotFound
	}
	snapshot := *job
	snapshot.Delays = append([]time.Duration(nil), job.Delays...)
	return snapshot, nil
}

// Idle reports whether no job is pending, running, or waiting on backoff.
func (q *Queue) Idle() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	for _, job := range q.jobs {
		switch job.State {
		case JobStatePending, JobStateRunning, JobStateRetrying:
			return false
		}
	}
	return true
}

// WaitIdle blocks until every enqueued job reaches a terminal state or ctx
// is cancelled.
func (q *Queue) WaitIdle(ctx context.Context) error {
	ticker := time.NewTicker(50 * time.Millisecond)
	defer ticker.Stop()
	for {
		if q.Idle() {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// Release closes the queue and its worker pool. Jobs still waiting on a
// backoff timer are marked failed when the timer fires.
func (q *Queue) Release() {
	q.mu.Lock()
	q.closed = true
	q.mu.Unlock()
	q.pool.Release()
}

func (q *Queue) progressFunc(job *Job) ProgressFunc {
	return func(p int) {
		q.mu.Lock()
		job.advanceProgress(p)
		q.mu.Unlock()
	}
}

func (q *Queue) runJob(ctx context.Context, job *Job) {
	q.mu.Lock()
	job.State = JobStateRunning
	job.Attempts++
	attempt := job.Attempts
	q.mu.Unlock()

	logger := q.logger.With("job", job.Id, "file", job.FilePath, "attempt", attempt)
	err := q.pipeline.Run(ctx, job.FilePath, q.progressFunc(job))

	q.mu.Lock()
	defer q.mu.Unlock()

	if err == nil {
		job.State = JobStateCompleted
		job.advanceProgress(progressDone)
		logger.Info("job completed")
		return
	}

	job.LastErr = err
	if core.IsContentError(err) {
		// Caused by the input itself, not a transient fault. It still burns
		// attempts, but the operator should know waiting will not fix it.
		logger.Warn("content error: retrying will not self-heal", "err", err)
	}

	if attempt >= job.MaxAttempts {
		job.State = JobStateFailed
		logger.Error("job failed permanently, source file retained",
			"attempts", attempt, "err", err)
		return
	}

	delay := job.nextDelay()
	job.Delays = append(job.Delays, delay)
	job.State = JobStateRetrying
	logger.Warn("job attempt failed, scheduling retry", "delay", delay, "err", err)

	time.AfterFunc(delay, func() { q.requeue(job) })
}

// requeue puts a job back on the pending channel after its backoff delay.
func (q *Queue) requeue(job *Job) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		job.State = JobStateFailed
		if job.LastErr == nil {
			job.LastErr = ErrQueueClosed
		}
		return
	}
	select {
	case q.pending <- job:
		job.State = JobStatePending
	default:
		job.State = JobStateFailed
		job.LastErr = ErrQueueFull
		q.logger.Error("pending buffer full, dropping retry",
			"job", job.Id, "file", job.FilePath)
	}
}
