// Package logging provides structured logging for kanban.
//
// This package wraps Go's log/slog to provide JSON-formatted logs with
// persistent attributes (component, board operation, task id). The board
// TUI owns the terminal, so interactive commands log to a file; the server
// and one-shot commands may log to stderr.
//
// # Thread Safety
//
// All types in this package are safe for concurrent use. Child loggers
// created via With* methods share the underlying writer.
//
// # Basic Usage
//
//	logger, err := logging.NewLogger("/path/to/logs", "INFO")
//	if err != nil {
//	    return err
//	}
//	defer logger.Close()
//
//	boardLog := logger.WithComponent("board").WithOp("create")
//	boardLog.Info("task created", "duration_ms", 12)
//
// Use [NopLogger] in tests or when logging is disabled.
package logging
