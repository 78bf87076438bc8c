// Package logging provides slog-based structured logging for GlobalDub.
//
// Two output formats are supported: a human-oriented console format and
// line-delimited JSON. Loggers carry standardized fields (component, job_id,
// stage, correlation_id) that downstream packages attach via WithContext.
package logging
