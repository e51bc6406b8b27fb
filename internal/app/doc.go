// Package app wires the client together: it builds the logger from the
// configuration, dials the engine, and hands the connection to a session.
// It is decoupled from the process entrypoint so tests can drive it with
// injected writers and command input.
package app
