// Package services defines the shared error taxonomy and context annotation
// helpers used by pipeline stages and collaborator clients.
//
// Stage and collaborator errors are wrapped with a sentinel kind via Wrap so
// that the workflow manager can classify failures (fatal vs segment-scoped)
// and record the failing stage without string matching.
package services
