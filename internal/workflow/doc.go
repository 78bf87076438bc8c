// Package workflow drives dub jobs through the pipeline stages.
//
// The Manager owns the job lifecycle: it creates the per-job workspace,
// advances the queue status through each stage's processing and done
// states, records the failing stage when a stage errors, and cleans the
// workspace afterwards. RunBatch fans jobs out over a bounded worker pool
// and drains gracefully on cancellation: in-flight jobs finish, queued
// jobs are failed without starting.
package workflow
