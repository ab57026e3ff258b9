// Package cli provides the interactive recallbox command-line client.
//
// It wires configuration, local storage, the sync engine, and an interactive
// REPL that supports online/offline operation. The background scheduler keeps
// the local store converging with the server while the user works.
//
// Key features:
//   - Add cards with optional model-generated example text
//   - List / Show / Edit cards
//   - Weighted review sessions
//   - Delete with cross-device tombstone propagation
//   - Sync with the server, manual or background
//
// The REPL is started via App.Root(ctx), which blocks until the user exits.
// See App, runREPL, and the sync package's Scheduler for details.
package cli
