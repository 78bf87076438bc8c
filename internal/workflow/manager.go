package workflow

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"globaldub/internal/config"
	"globaldub/internal/logging"
	"globaldub/internal/notifications"
	"globaldub/internal/queue"
	"globaldub/internal/services"
	"globaldub/internal/stage"
)

// Manager coordinates dub jobs through the pipeline.
type Manager struct {
	cfg      *config.Config
	store    *queue.Store
	logger   *slog.Logger
	stages   []Stage
	notifier notifications.Service
}

// NewManager builds a manager over the given stage pipeline. A nil notifier
// falls back to the config-derived service.
func NewManager(cfg *config.Config, store *queue.Store, logger *slog.Logger, stages []Stage, notifier notifications.Service) (*Manager, error) {
	if cfg == nil {
		return nil, errors.New("config is required")
	}
	if store == nil {
		return nil, errors.New("queue store is required")
	}
	if len(stages) == 0 {
		return nil, errors.New("at least one stage is required")
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	if notifier == nil {
		notifier = notifications.NewService(cfg)
	}
	return &Manager{
		cfg:      cfg,
		store:    store,
		logger:   logging.NewComponentLogger(logger, "workflow-manager"),
		stages:   stages,
		notifier: notifier,
	}, nil
}

// HealthCheck reports the readiness of every stage.
func (m *Manager) HealthCheck(ctx context.Context) []stage.Health {
	reports := make([]stage.Health, 0, len(m.stages))
	for _, st := range m.stages {
		reports = append(reports, st.Handler.HealthCheck(ctx))
	}
	return reports
}

// RunJob drives one job from pending to a terminal state. The returned
// error is the stage failure, if any; the job row always reflects the
// outcome.
func (m *Manager) RunJob(ctx context.Context, job *queue.Job) error {
	workspace, err := m.createWorkspace(job)
	if err != nil {
		m.failJob(ctx, job, "workspace", err)
		return err
	}
	defer m.cleanupWorkspace(job, workspace)

	job.Workspace = workspace
	if err := m.store.Update(ctx, job); err != nil {
		return fmt.Errorf("persist workspace: %w", err)
	}

	_ = m.notifier.NotifyJobStarted(ctx, job.SourceURL, job.TargetLanguage)

	env := &stage.Env{Job: job, Workspace: workspace}
	for _, st := range m.stages {
		if err := m.runStage(ctx, st, env); err != nil {
			m.failJob(ctx, job, failureStageFor(st, err), err)
			_ = m.notifier.NotifyJobFailed(ctx, job.SourceURL, job.FailureStage, job.ErrorMessage)
			return err
		}
	}

	job.Status = queue.StatusCompleted
	job.SetProgress("Completed", job.OutputPath, 100)
	if err := m.store.Update(ctx, job); err != nil {
		return fmt.Errorf("persist completion: %w", err)
	}
	_ = m.notifier.NotifyJobCompleted(ctx, job.OutputPath, job.DroppedSegments)
	return nil
}

func (m *Manager) runStage(ctx context.Context, st Stage, env *stage.Env) error {
	stageCtx := services.WithJobID(ctx, env.Job.ID)
	stageCtx = services.WithStage(stageCtx, st.Name)
	stageCtx = services.WithRequestID(stageCtx, uuid.NewString())

	cancel := func() {}
	if timeout := time.Duration(m.cfg.Workflow.StageTimeoutSeconds) * time.Second; timeout > 0 {
		stageCtx, cancel = context.WithTimeout(stageCtx, timeout)
	}
	defer cancel()

	stageLogger := logging.WithContext(stageCtx, m.logger)
	if aware, ok := st.Handler.(stage.LoggerAware); ok {
		aware.SetLogger(stageLogger)
	}

	env.Job.Status = st.Processing
	env.Job.ErrorMessage = ""
	if err := m.store.Update(stageCtx, env.Job); err != nil {
		return fmt.Errorf("persist processing transition: %w", err)
	}

	stageStart := time.Now()
	stageLogger.Info("stage started",
		logging.String(logging.FieldEventType, "stage_start"),
		logging.String("processing_status", string(st.Processing)),
	)

	if err := st.Handler.Prepare(stageCtx, env); err != nil {
		return m.stageError(stageCtx, st, err)
	}
	if err := m.store.Update(stageCtx, env.Job); err != nil {
		return fmt.Errorf("persist stage preparation: %w", err)
	}

	if err := st.Handler.Execute(stageCtx, env); err != nil {
		return m.stageError(stageCtx, st, err)
	}

	env.Job.Status = st.Done
	if err := m.store.Update(stageCtx, env.Job); err != nil {
		return fmt.Errorf("persist stage result: %w", err)
	}

	stageLogger.Info("stage completed",
		logging.String(logging.FieldEventType, "stage_complete"),
		logging.String("next_status", string(st.Done)),
		logging.Duration("stage_duration", time.Since(stageStart)),
	)
	return nil
}

// stageError normalizes a stage failure, translating a blown deadline into
// the timeout taxonomy.
func (m *Manager) stageError(ctx context.Context, st Stage, err error) error {
	if errors.Is(err, context.DeadlineExceeded) && ctx.Err() == context.DeadlineExceeded {
		return services.Wrap(services.ErrTimeout, st.Name, "",
			fmt.Sprintf("stage exceeded %ds budget", m.cfg.Workflow.StageTimeoutSeconds), err)
	}
	return err
}

func failureStageFor(st Stage, err error) string {
	if errors.Is(err, services.ErrTimeout) || errors.Is(err, context.DeadlineExceeded) {
		return queue.FailureStageTimeout
	}
	return string(st.Processing)
}

func (m *Manager) failJob(ctx context.Context, job *queue.Job, failureStage string, stageErr error) {
	details := services.Details(stageErr)
	message := strings.TrimSpace(details.Message)
	if message == "" {
		message = fmt.Sprintf("%s failed without detail", failureStage)
	}
	job.SetFailed(failureStage, message)

	logger := m.logger.With(
		logging.Int64(logging.FieldJobID, job.ID),
		logging.String(logging.FieldStage, failureStage),
	)
	logger.Error("stage failed",
		logging.String(logging.FieldEventType, "stage_failure"),
		logging.String(logging.FieldErrorKind, string(details.Kind)),
		logging.Error(stageErr),
	)

	if err := m.store.Update(ctx, job); err != nil {
		if errors.Is(err, context.Canceled) {
			logger.Debug("shutdown interrupted failure persistence")
		} else {
			logger.Error("failed to persist job failure", logging.Error(err))
		}
	}
}

// createWorkspace makes a unique directory for one job's intermediate
// files. Jobs never share a workspace, so concurrent cleanup is safe.
func (m *Manager) createWorkspace(job *queue.Job) (string, error) {
	root := config.ExpandPath(m.cfg.Paths.WorkspaceDir)
	workspace := filepath.Join(root, fmt.Sprintf("job-%d-%s", job.ID, uuid.NewString()[:8]))
	if err := os.MkdirAll(workspace, 0o755); err != nil {
		return "", fmt.Errorf("create workspace: %w", err)
	}
	return workspace, nil
}

func (m *Manager) cleanupWorkspace(job *queue.Job, workspace string) {
	if m.cfg.Workflow.KeepWorkspace || workspace == "" {
		return
	}
	if err := os.RemoveAll(workspace); err != nil {
		m.logger.Warn("workspace cleanup failed",
			logging.Int64(logging.FieldJobID, job.ID),
			logging.String("workspace", workspace),
			logging.Error(err),
		)
	}
}
