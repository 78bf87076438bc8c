package notifications

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"globaldub/internal/testsupport"
)

func TestNoopWhenUnconfigured(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	cfg.Notifications.NtfyTopic = ""

	svc := NewService(cfg)
	if _, ok := svc.(noopService); !ok {
		t.Fatalf("expected noop service, got %T", svc)
	}
	if err := svc.NotifyJobStarted(context.Background(), "url", "es"); err != nil {
		t.Fatalf("noop notify failed: %v", err)
	}
}

func TestNotifyJobFailedSendsHighPriority(t *testing.T) {
	var gotTitle, gotPriority, gotBody string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotTitle = r.Header.Get("Title")
		gotPriority = r.Header.Get("Priority")
		body, _ := io.ReadAll(r.Body)
		gotBody = string(body)
	}))
	defer server.Close()

	cfg := testsupport.NewConfig(t)
	cfg.Notifications.NtfyTopic = server.URL

	svc := NewService(cfg)
	err := svc.NotifyJobFailed(context.Background(), "https://a.example/v", "translating", "endpoint unreachable")
	if err != nil {
		t.Fatalf("NotifyJobFailed failed: %v", err)
	}
	if gotTitle != "GlobalDub - Failed" {
		t.Fatalf("title = %q", gotTitle)
	}
	if gotPriority != "high" {
		t.Fatalf("priority = %q", gotPriority)
	}
	if !strings.Contains(gotBody, "translating") {
		t.Fatalf("body = %q", gotBody)
	}
}

func TestNotifySurfacesServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusForbidden)
	}))
	defer server.Close()

	cfg := testsupport.NewConfig(t)
	cfg.Notifications.NtfyTopic = server.URL

	svc := NewService(cfg)
	if err := svc.TestNotification(context.Background()); err == nil {
		t.Fatal("expected error for non-2xx response")
	}
}
