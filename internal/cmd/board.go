package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Iron-Ham/kanban/internal/tui"
)

func newBoardCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "board",
		Short: "Open the interactive board",
		Long: `Open the interactive board.

Keys: ←/→ switch columns, ↑/↓ select a task, n new, e edit, d delete,
[ and ] move the selected task back or forward, r refresh, ? help, q quit.

The board logs to the log directory, never to the terminal. Theme changes
in the config file are applied while the board is open.`,
		Args: cobra.NoArgs,
		RunE: runBoard,
	}
}

func runBoard(cmd *cobra.Command, args []string) error {
	s, err := openSession()
	if err != nil {
		return err
	}
	defer s.Close()

	s.logger.Info("board starting", "base_url", s.client.BaseURL())

	app := tui.New(s.manager, s.logger,
		[]tui.Option{
			tui.WithTheme(s.cfg.TUI.Theme),
			tui.WithConfirmDelete(s.cfg.Board.ConfirmDelete),
		},
		tui.WithConfigWatch(viper.GetViper()),
	)
	return app.Run(cmd.Context())
}
