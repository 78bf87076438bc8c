package workflow

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"globaldub/internal/logging"
)

// JobResult is the outcome of one batch entry. Every requested URL yields
// exactly one result, in input order.
type JobResult struct {
	SourceURL  string
	JobID      int64
	OutputPath string
	Err        error
}

// Succeeded reports whether the entry produced a deliverable.
func (r JobResult) Succeeded() bool {
	return r.Err == nil
}

// RunBatch dubs every URL into targetLanguage over a bounded worker pool.
// One job's failure never stops the others. Cancelling ctx drains
// gracefully: running jobs finish their pipeline, queued entries are
// reported as canceled without starting.
func (m *Manager) RunBatch(ctx context.Context, urls []string, targetLanguage string) []JobResult {
	results := make([]JobResult, len(urls))
	for i, url := range urls {
		results[i] = JobResult{SourceURL: url}
	}
	if len(urls) == 0 {
		return results
	}

	batchStart := time.Now()
	workers := m.cfg.Workflow.MaxConcurrency
	if workers < 1 {
		workers = 1
	}
	if workers > len(urls) {
		workers = len(urls)
	}

	// The feeder stops handing out work once ctx is done; workers that
	// already took an entry keep running on an uncancellable context so the
	// stage timeouts, not the batch cancel, bound them.
	entries := make(chan int)
	go func() {
		defer close(entries)
		for i := range urls {
			// Checked first on its own: the blocking select below picks
			// randomly when both cases are ready, which would still hand out
			// work after cancellation.
			select {
			case <-ctx.Done():
				return
			default:
			}
			select {
			case entries <- i:
			case <-ctx.Done():
				return
			}
		}
	}()

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range entries {
				results[idx] = m.runBatchEntry(context.WithoutCancel(ctx), urls[idx], targetLanguage)
			}
		}()
	}
	wg.Wait()

	completed, failed := 0, 0
	for i := range results {
		if results[i].JobID == 0 && results[i].Err == nil {
			results[i].Err = fmt.Errorf("batch canceled before job started: %w", context.Cause(ctx))
		}
		if results[i].Succeeded() {
			completed++
		} else {
			failed++
		}
	}

	m.logger.Info("batch finished",
		logging.Int("requested", len(urls)),
		logging.Int("completed", completed),
		logging.Int("failed", failed),
		logging.Duration("batch_duration", time.Since(batchStart)),
	)
	_ = m.notifier.NotifyBatchCompleted(context.WithoutCancel(ctx), completed, failed, time.Since(batchStart))
	return results
}

func (m *Manager) runBatchEntry(ctx context.Context, url, targetLanguage string) JobResult {
	result := JobResult{SourceURL: url}
	job, err := m.store.NewJob(ctx, url, targetLanguage, "")
	if err != nil {
		result.Err = fmt.Errorf("enqueue %s: %w", url, err)
		return result
	}
	result.JobID = job.ID
	result.Err = m.RunJob(ctx, job)
	result.OutputPath = job.OutputPath
	return result
}

// ReadBatchFile loads a batch list: one URL per line, blank lines and
// #-comments skipped.
func ReadBatchFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open batch file: %w", err)
	}
	defer f.Close()

	var urls []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		urls = append(urls, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read batch file: %w", err)
	}
	return urls, nil
}
