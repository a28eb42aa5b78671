package cmd

import (
	"fmt"

	"github.com/Iron-Ham/kanban/internal/board"
	"github.com/Iron-Ham/kanban/internal/config"
	"github.com/Iron-Ham/kanban/internal/logging"
	"github.com/Iron-Ham/kanban/internal/taskapi"
)

// session bundles what the task commands share: validated config, a file
// logger, the HTTP repository and a Manager on top of it.
type session struct {
	cfg     *config.Config
	logger  *logging.Logger
	client  *taskapi.Client
	manager *board.Manager
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// newLogger creates the logger described by cfg. With toStderr set, logs go
// to stderr instead of the log directory.
func newLogger(cfg *config.Config, toStderr bool) (*logging.Logger, error) {
	if !cfg.Logging.Enabled {
		return logging.NopLogger(), nil
	}
	dir := cfg.Logging.ResolveLogDir()
	if toStderr {
		dir = ""
	}
	logger, err := logging.NewLogger(dir, logging.ParseLevel(cfg.Logging.Level))
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}
	return logger, nil
}

func openSession() (*session, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	logger, err := newLogger(cfg, false)
	if err != nil {
		return nil, err
	}

	client, err := taskapi.New(cfg.API.BaseURL,
		taskapi.WithTimeout(cfg.API.Timeout),
		taskapi.WithLogger(logger),
	)
	if err != nil {
		_ = logger.Close()
		return nil, err
	}

	manager := board.NewManager(client,
		board.WithLogger(logger),
		board.WithSerializedMutations(cfg.Board.SerializeMutations),
	)

	return &session{cfg: cfg, logger: logger, client: client, manager: manager}, nil
}

func (s *session) Close() {
	_ = s.logger.Close()
}
