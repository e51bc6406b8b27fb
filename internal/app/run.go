package app

import (
	"context"
	"fmt"
	"io"

	"github.com/vk/flowctl/internal/ctxlog"
	"github.com/vk/flowctl/internal/session"
	"github.com/vk/flowctl/internal/transport"
)

// Run dials the engine and drives one interactive session over the
// connection, reading commands from in. It returns when the session ends:
// transport closure, end of command input, or ctx cancellation. A failed
// dial is terminal; there is no reconnect.
func (a *App) Run(ctx context.Context, in io.Reader) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.")

	a.logger.Info("Connecting to engine.", "url", a.config.EngineURL, "wid", a.config.WorkflowID)
	sock, err := transport.Dial(ctx, a.config.EngineURL, a.config.WorkflowID)
	if err != nil {
		return fmt.Errorf("connection failed: %w", err)
	}
	defer sock.Close()
	a.logger.Info("Connected.")

	sess := session.New(sock, session.NewLineReader(in), a.outW, a.config.ExportDir)
	if err := sess.Run(ctx); err != nil {
		return fmt.Errorf("session ended with error: %w", err)
	}

	a.logger.Debug("App.Run method finished.")
	return nil
}
