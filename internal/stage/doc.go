// Package stage defines the contract between the workflow manager and the
// pipeline stages, plus the in-memory environment a job's stages share.
package stage
