package tui

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"

	"github.com/Iron-Ham/kanban/internal/board"
	"github.com/Iron-Ham/kanban/internal/logging"
)

// themeKey is the configuration key watched for live theme changes.
const themeKey = "tui.theme"

// App wraps the Bubbletea program
type App struct {
	program *tea.Program
	model   Model
	logger  *logging.Logger
	watch   *viper.Viper
}

// AppOption configures an App.
type AppOption func(*App)

// WithConfigWatch applies theme changes from v's config file while the board
// runs. v must have a config file loaded.
func WithConfigWatch(v *viper.Viper) AppOption {
	return func(a *App) {
		a.watch = v
	}
}

// New creates a new TUI application
func New(manager *board.Manager, logger *logging.Logger, modelOpts []Option, opts ...AppOption) *App {
	if logger == nil {
		logger = logging.NopLogger()
	}
	modelOpts = append([]Option{WithLogger(logger)}, modelOpts...)
	a := &App{
		model:  NewModel(manager, modelOpts...),
		logger: logger.WithComponent("tui"),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Run starts the TUI application and blocks until the user quits or the
// process is signaled.
func (a *App) Run(ctx context.Context) error {
	a.model.ctx = ctx
	a.program = tea.NewProgram(
		a.model,
		tea.WithAltScreen(),
		tea.WithContext(ctx),
	)

	// Quit cleanly on termination so the terminal is restored
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)
	defer signal.Stop(sigChan)

	done := make(chan struct{})
	defer close(done)

	go forwardSignals(sigChan, done, func() { a.program.Send(tea.Quit()) })

	if a.watch != nil && a.watch.ConfigFileUsed() != "" {
		a.watch.OnConfigChange(func(e fsnotify.Event) {
			if !e.Has(fsnotify.Write) && !e.Has(fsnotify.Create) {
				return
			}
			theme := a.watch.GetString(themeKey)
			a.logger.Debug("config file changed", "file", e.Name, "theme", theme)
			a.program.Send(ThemeChangedMsg{Theme: theme})
		})
		a.watch.WatchConfig()
	}

	_, err := a.program.Run()
	if err != nil && ctx.Err() != nil {
		return nil
	}
	return err
}

// forwardSignals calls quit on the first signal. It returns after that call
// or once done is closed.
func forwardSignals(sig <-chan os.Signal, done <-chan struct{}, quit func()) {
	select {
	case <-sig:
		quit()
	case <-done:
	}
}
