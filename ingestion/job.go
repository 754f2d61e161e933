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

import "time"

// JobState is the lifecycle state of an ingestion job.
type JobState string

const (
	// JobStatePending means the job is waiting for a worker.
	JobStatePending JobState = "pending"
	// JobStateRunning means pipeline stages are executing.
	JobStateRunning JobState = "running"
	// JobStateRetrying means the job failed and is waiting out its backoff
	// delay before being requeued.
	JobStateRetrying JobState = "retrying"
	// JobStateCompleted means the job finished successfully.
	JobStateCompleted JobState = "completed"
	// JobStateFailed means the job exhausted its attempts. The source file
	// is left in place for manual retry.
	JobStateFailed JobState = "failed"
)

// Job is one unit of ingestion work bound to a single source file.
// The queue exclusively owns job records; callers observe them through
// Queue.Job, which returns a snapshot.
type Job struct {
	Id          string
	FilePath    string
	Attempts    int
	MaxAttempts int
	BackoffBase time.Duration
	// Delays records the backoff delay scheduled after each failed attempt.
	Delays   []time.Duration
	Progress int
	State    JobState
	// LastErr is the error from the most recent failed attempt.
	LastErr    error
	EnqueuedAt time.Time
}

// advanceProgress raises the job's progress checkpoint. Progress is
// monotonic; a lower value is ignored.
func (j *Job) advanceProgress(p int) {
	if p > j.Progress {
		j.Progress = p
	}
}

// nextDelay computes the backoff delay after the current number of failed
// attempts: base * 2^attempts.
func (j *Job) nextDelay() time.Duration {
	return j.BackoffBase << uint(j.Attempts)
}
