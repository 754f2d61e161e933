// Package ingestion turns source files into graph mutations. A Queue
// schedules per-file jobs over a bounded worker pool with rate-limited
// starts and exponential-backoff retries; each job runs the Pipeline stages
// in sequence (extract, classify, optionally validate, generate commands,
// embed, execute, archive), and the Executor applies the resulting batch
// atomically against the graph store.
package ingestion
