// Package queue persists dub jobs in SQLite and defines their lifecycle
// states. The workflow manager drives jobs through the status sequence and
// records the failing stage and cause on failure, so batch runs can be
// inspected after the fact with the queue CLI commands.
package queue
