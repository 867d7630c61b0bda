// Package daemon runs the pipeline service: it owns the sqlite store,
// exposes the HTTP API the CLI and frontend talk to, sweeps for stuck
// generation work on a schedule, and enforces single-instance execution
// through a file lock.
package daemon
