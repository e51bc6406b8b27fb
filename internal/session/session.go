// Package session owns one duplex connection to the engine and runs its two
// concurrent activities: the inbound loop receiving and dispatching events,
// and the outbound loop reading interactive commands and transmitting the
// requests they encode. Either activity ending ends the session.
package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync/atomic"

	"github.com/vk/flowctl/internal/command"
	"github.com/vk/flowctl/internal/ctxlog"
	"github.com/vk/flowctl/internal/dispatch"
	"github.com/vk/flowctl/internal/export"
)

// Conn is the duplex message channel the session runs over. transport.Socket
// satisfies it; tests substitute their own. Receive reports an orderly
// closure as io.EOF.
type Conn interface {
	Send(ctx context.Context, v any) error
	Receive(ctx context.Context) ([]byte, error)
	Close() error
}

// LineReader supplies one command line per call. io.EOF is the deliberate
// end of input and ends the session without error.
type LineReader interface {
	ReadLine() (string, error)
}

// State is the lifecycle state of a session.
type State int32

// Session lifecycle states.
const (
	Connecting State = iota
	Active
	Closed
)

// String implements fmt.Stringer.
func (s State) String() string {
	switch s {
	case Connecting:
		return "connecting"
	case Active:
		return "active"
	case Closed:
		return "closed"
	default:
		return fmt.Sprintf("state(%d)", int32(s))
	}
}

const helpText = `Available commands:
  exec <plan.json> [<name>]
  page <operatorId> <size> <pageIndex> [--export <dir>]
  kill
  help
`

// Session drives one connection for its whole lifetime. The pending-export
// table is owned here and handed to both the encoder (writer role) and the
// dispatcher (consumer role); it does not outlive the session.
type Session struct {
	conn       Conn
	reader     LineReader
	out        io.Writer
	encoder    *command.Encoder
	dispatcher *dispatch.Dispatcher
	exports    *export.Registry
	state      atomic.Int32
}

// New creates a session over an established connection. out receives the
// interactive help text and prompt; defaultExportDir backs page exports
// that name no directory.
func New(conn Conn, reader LineReader, out io.Writer, defaultExportDir string) *Session {
	exports := export.NewRegistry()
	s := &Session{
		conn:       conn,
		reader:     reader,
		out:        out,
		encoder:    command.NewEncoder(exports, defaultExportDir),
		dispatcher: dispatch.New(exports),
		exports:    exports,
	}
	s.state.Store(int32(Connecting))
	return s
}

// State reports the session's lifecycle state.
func (s *Session) State() State {
	return State(s.state.Load())
}

// Run drives the session until the transport closes, the command input
// reaches its end, or ctx is cancelled. The connection handshake already
// happened when the Conn was established, so Run enters Active immediately
// and Closed on the way out.
func (s *Session) Run(ctx context.Context) error {
	logger := ctxlog.FromContext(ctx)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	s.state.Store(int32(Active))
	defer s.state.Store(int32(Closed))

	recvDone := make(chan error, 1)
	go func() {
		recvDone <- s.receiveLoop(ctx)
	}()

	sendDone := make(chan error, 1)
	go func() {
		sendDone <- s.commandLoop(ctx)
	}()

	var runErr error
	select {
	case runErr = <-recvDone:
	case runErr = <-sendDone:
	}

	// Whichever loop is still running is blocked on the connection or on
	// the command reader; closing the connection unblocks the former, and
	// the process exits shortly after Run returns for the latter.
	cancel()
	s.conn.Close()

	if pending := s.exports.Len(); pending > 0 {
		logger.Warn("Session closing with export requests that never got a result.", "count", pending)
	}
	return runErr
}

// receiveLoop drains inbound frames and hands each to the dispatcher, in
// order. A frame the dispatcher rejects is reported and skipped; the loop
// only ends with the transport.
func (s *Session) receiveLoop(ctx context.Context) error {
	logger := ctxlog.FromContext(ctx)
	for {
		raw, err := s.conn.Receive(ctx)
		if err != nil {
			if errors.Is(err, io.EOF) || ctx.Err() != nil {
				logger.Warn("Connection closed, exiting receive loop.")
				return nil
			}
			return fmt.Errorf("receive: %w", err)
		}
		if err := s.dispatcher.Dispatch(ctx, raw); err != nil {
			logger.Error("Dropping undecodable event.", "error", err)
		}
	}
}

// commandLoop reads one command line at a time, encodes it, and transmits
// the result. Per-command failures are reported and the loop keeps going;
// only a send failure (the transport is gone) or the end of input ends it.
func (s *Session) commandLoop(ctx context.Context) error {
	logger := ctxlog.FromContext(ctx)
	fmt.Fprint(s.out, helpText)

	for {
		fmt.Fprint(s.out, "> ")
		line, err := s.reader.ReadLine()
		if err != nil {
			if errors.Is(err, io.EOF) {
				logger.Debug("Command input ended.")
				return nil
			}
			return fmt.Errorf("read command: %w", err)
		}
		if strings.TrimSpace(line) == "" {
			continue
		}

		cmd, err := command.Parse(line)
		if err != nil {
			logger.Warn("Rejected command.", "input", line, "error", err)
			continue
		}
		if err := s.handle(ctx, cmd); err != nil {
			return err
		}
	}
}

// handle executes one parsed command. A command that cannot be built (bad
// plan file, missing export directory) is reported and dropped without
// anything being sent; the returned error is reserved for transport
// failures, which end the session.
func (s *Session) handle(ctx context.Context, cmd *command.Command) error {
	logger := ctxlog.FromContext(ctx)

	switch cmd.Verb {
	case command.VerbExec:
		req, err := s.encoder.Execute(ctx, cmd.PlanPath, cmd.ExecName)
		if err != nil {
			logger.Error("Failed to read or convert plan.", "path", cmd.PlanPath, "error", err)
			return nil
		}
		if err := s.conn.Send(ctx, req); err != nil {
			return fmt.Errorf("send execute request: %w", err)
		}
		logger.Info("Sent execute request.", "name", req.ExecutionName, "plan", cmd.PlanPath)

	case command.VerbPage:
		req, err := s.encoder.Paginate(ctx, cmd)
		if err != nil {
			logger.Error("Rejected page command.", "error", err)
			return nil
		}
		if err := s.conn.Send(ctx, req); err != nil {
			return fmt.Errorf("send pagination request: %w", err)
		}
		logger.Info("Sent pagination request.",
			"operatorID", cmd.OperatorID, "size", cmd.PageSize, "page", cmd.PageIndex)

	case command.VerbKill:
		if err := s.conn.Send(ctx, s.encoder.Kill()); err != nil {
			return fmt.Errorf("send kill request: %w", err)
		}
		logger.Info("Sent kill request.")

	case command.VerbHelp:
		fmt.Fprint(s.out, helpText)
	}
	return nil
}
