// Package cli parses process-level command-line arguments and handles
// process concerns like exit codes. It merges flags over the optional
// config file and the built-in defaults into one validated configuration.
// The interactive command language read from stdin lives in the command
// package, not here.
package cli
