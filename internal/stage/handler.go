package stage

import (
	"context"
	"log/slog"
)

// Handler describes the contract the workflow manager needs from each stage.
type Handler interface {
	Prepare(context.Context, *Env) error
	Execute(context.Context, *Env) error
	HealthCheck(context.Context) Health
}

// LoggerAware lets the manager hand a stage a job-scoped logger before
// execution.
type LoggerAware interface {
	SetLogger(*slog.Logger)
}

// Health reports whether a stage's collaborators are ready.
type Health struct {
	Name   string
	Ready  bool
	Detail string
}

// Healthy builds a ready Health report.
func Healthy(name string) Health {
	return Health{Name: name, Ready: true}
}

// Unhealthy builds a not-ready Health report with a reason.
func Unhealthy(name, detail string) Health {
	return Health{Name: name, Ready: false, Detail: detail}
}
