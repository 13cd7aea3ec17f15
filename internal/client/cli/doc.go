// Package cli is the interactive notekeeper client.
//
// NewApp opens the local database, restores the session and wires the
// orchestrator. App.Run starts a background watcher that checks the
// server's health endpoint to keep the prompt's online indicator current,
// then reads commands until the user exits. The indicator never decides
// where a note goes: that is the orchestrator's job, per call.
package cli
