// Package notifications delivers workflow events via ntfy.
//
// When no topic is configured the returned service is a no-op, so workflow
// code can notify unconditionally.
package notifications

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"globaldub/internal/config"
)

const userAgent = "GlobalDub/0.1.0"

// Service defines the notification surface exposed to workflow components.
type Service interface {
	NotifyJobStarted(ctx context.Context, sourceURL, targetLanguage string) error
	NotifyJobCompleted(ctx context.Context, outputPath string, droppedSegments int) error
	NotifyJobFailed(ctx context.Context, sourceURL, failureStage, message string) error
	NotifyBatchCompleted(ctx context.Context, completed, failed int, duration time.Duration) error
	TestNotification(ctx context.Context) error
}

// NewService builds a notification service backed by ntfy when configured.
func NewService(cfg *config.Config) Service {
	topic := strings.TrimSpace(cfg.Notifications.NtfyTopic)
	if topic == "" {
		return noopService{}
	}

	timeout := time.Duration(cfg.Notifications.RequestTimeout) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &ntfyService{
		endpoint: topic,
		client:   &http.Client{Timeout: timeout},
	}
}

type payload struct {
	title    string
	message  string
	tags     []string
	priority string
}

type ntfyService struct {
	endpoint string
	client   *http.Client
}

func (n *ntfyService) NotifyJobStarted(ctx context.Context, sourceURL, targetLanguage string) error {
	return n.send(ctx, payload{
		title:   "GlobalDub - Job Started",
		message: fmt.Sprintf("Dubbing %s into %s", sourceURL, targetLanguage),
		tags:    []string{"globaldub", "job", "started"},
	})
}

func (n *ntfyService) NotifyJobCompleted(ctx context.Context, outputPath string, droppedSegments int) error {
	message := fmt.Sprintf("Dub complete: %s", outputPath)
	if droppedSegments > 0 {
		message += fmt.Sprintf(" (%d segments dropped)", droppedSegments)
	}
	return n.send(ctx, payload{
		title:   "GlobalDub - Complete",
		message: message,
		tags:    []string{"globaldub", "job", "completed"},
	})
}

func (n *ntfyService) NotifyJobFailed(ctx context.Context, sourceURL, failureStage, message string) error {
	return n.send(ctx, payload{
		title:    "GlobalDub - Failed",
		message:  fmt.Sprintf("%s failed at %s: %s", sourceURL, failureStage, message),
		tags:     []string{"globaldub", "job", "failed"},
		priority: "high",
	})
}

func (n *ntfyService) NotifyBatchCompleted(ctx context.Context, completed, failed int, duration time.Duration) error {
	return n.send(ctx, payload{
		title:   "GlobalDub - Batch Complete",
		message: fmt.Sprintf("Batch finished: %d dubbed, %d failed in %s", completed, failed, duration.Round(time.Second)),
		tags:    []string{"globaldub", "batch", "completed"},
	})
}

func (n *ntfyService) TestNotification(ctx context.Context) error {
	return n.send(ctx, payload{
		title:   "GlobalDub - Test",
		message: "Notifications are working.",
		tags:    []string{"globaldub", "test"},
	})
}

func (n *ntfyService) send(ctx context.Context, data payload) error {
	if n == nil || n.client == nil {
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.endpoint, strings.NewReader(data.message))
	if err != nil {
		return fmt.Errorf("build ntfy request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Content-Type", "text/plain; charset=utf-8")
	if data.title != "" {
		req.Header.Set("Title", data.title)
	}
	if len(data.tags) > 0 {
		req.Header.Set("Tags", strings.Join(data.tags, ","))
	}
	if data.priority != "" && data.priority != "default" {
		req.Header.Set("Priority", data.priority)
	}

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("send ntfy notification: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("ntfy returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

type noopService struct{}

func (noopService) NotifyJobStarted(context.Context, string, string) error        { return nil }
func (noopService) NotifyJobCompleted(context.Context, string, int) error         { return nil }
func (noopService) NotifyJobFailed(context.Context, string, string, string) error { return nil }
func (noopService) NotifyBatchCompleted(context.Context, int, int, time.Duration) error {
	return nil
}
func (noopService) TestNotification(context.Context) error { return nil }
