// Package daemon coordinates the long-running contentops process.
//
// It wires configuration and the workflow engine into a single lifecycle
// with flock-based locking to prevent multiple instances from serving the
// same data directory, and hosts the JSON HTTP API consumed by the web UI,
// the calendar collaborator and the CLI.
//
// Keep orchestration logic here: workflow rules live in internal/workflow and
// the wire format in internal/api, while the daemon focuses on startup,
// shutdown, routing and request identity.
package daemon
