package queue_test

import (
	"context"
	"testing"

	"globaldub/internal/queue"
	"globaldub/internal/testsupport"
)

func TestNewJobAndGet(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	ctx := context.Background()
	job, err := store.NewJob(ctx, "https://youtube.com/shorts/abc123", "es", "")
	if err != nil {
		t.Fatalf("NewJob failed: %v", err)
	}
	if job.ID == 0 {
		t.Fatal("expected job ID to be assigned")
	}
	if job.Status != queue.StatusPending {
		t.Fatalf("new job status = %s", job.Status)
	}

	fetched, err := store.GetByID(ctx, job.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if fetched == nil || fetched.SourceURL != "https://youtube.com/shorts/abc123" {
		t.Fatalf("unexpected fetched job: %#v", fetched)
	}
	if fetched.TargetLanguage != "es" {
		t.Fatalf("unexpected target language: %q", fetched.TargetLanguage)
	}
}

func TestNewJobRequiresURLAndLanguage(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	ctx := context.Background()
	if _, err := store.NewJob(ctx, "", "es", ""); err == nil {
		t.Fatal("expected error for missing URL")
	}
	if _, err := store.NewJob(ctx, "https://example.com/v", " ", ""); err == nil {
		t.Fatal("expected error for missing language")
	}
}

func TestUpdatePersistsFailureState(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	ctx := context.Background()
	job, err := store.NewJob(ctx, "https://example.com/v", "pt", "")
	if err != nil {
		t.Fatalf("NewJob failed: %v", err)
	}

	job.SetFailed("translating", "translation error: endpoint unreachable")
	if err := store.Update(ctx, job); err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	fetched, err := store.GetByID(ctx, job.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if fetched.Status != queue.StatusFailed {
		t.Fatalf("status = %s", fetched.Status)
	}
	if fetched.FailureStage != "translating" {
		t.Fatalf("failure stage = %q", fetched.FailureStage)
	}
	if fetched.ErrorMessage == "" {
		t.Fatal("expected error message to persist")
	}
}

func TestListOrdersByCreation(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	ctx := context.Background()
	for _, url := range []string{"https://a.example/1", "https://a.example/2", "https://a.example/3"} {
		if _, err := store.NewJob(ctx, url, "es", ""); err != nil {
			t.Fatalf("NewJob failed: %v", err)
		}
	}

	jobs, err := store.List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(jobs) != 3 {
		t.Fatalf("expected 3 jobs, got %d", len(jobs))
	}
	if jobs[0].SourceURL != "https://a.example/1" || jobs[2].SourceURL != "https://a.example/3" {
		t.Fatalf("jobs out of order: %q, %q", jobs[0].SourceURL, jobs[2].SourceURL)
	}
}

func TestClearTerminalLeavesActiveJobs(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	ctx := context.Background()
	done, err := store.NewJob(ctx, "https://a.example/done", "es", "")
	if err != nil {
		t.Fatalf("NewJob failed: %v", err)
	}
	done.Status = queue.StatusCompleted
	if err := store.Update(ctx, done); err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if _, err := store.NewJob(ctx, "https://a.example/pending", "es", ""); err != nil {
		t.Fatalf("NewJob failed: %v", err)
	}

	cleared, err := store.ClearTerminal(ctx)
	if err != nil {
		t.Fatalf("ClearTerminal failed: %v", err)
	}
	if cleared != 1 {
		t.Fatalf("expected 1 cleared job, got %d", cleared)
	}
	jobs, err := store.List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(jobs) != 1 || jobs[0].Status != queue.StatusPending {
		t.Fatalf("unexpected remaining jobs: %#v", jobs)
	}
}

func TestParseStatus(t *testing.T) {
	if status, ok := queue.ParseStatus(" Speed_Matching "); !ok || status != queue.StatusSpeedMatching {
		t.Fatalf("ParseStatus failed: %v %v", status, ok)
	}
	if _, ok := queue.ParseStatus("ripping"); ok {
		t.Fatal("unknown status should not parse")
	}
}
