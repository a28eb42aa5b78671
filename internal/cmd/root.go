// Package cmd implements the kanban command line.
package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Iron-Ham/kanban/internal/config"
)

var rootCmd = newRootCmd()

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func newRootCmd() *cobra.Command {
	var cfgFile string

	root := &cobra.Command{
		Use:   "kanban",
		Short: "Three-column task board backed by a remote task collection",
		Long: `Kanban shows the tasks of a remote collection as a board with three
columns: To Do, In Progress and Done.

Without a subcommand it opens the interactive board. The task commands
(list, add, edit, move, rm) work against the same collection from scripts,
and "kanban serve" runs a compatible collection server.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initConfig(cfgFile)
		},
		RunE: runBoard,
	}

	// Global flags
	root.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default is $HOME/.config/kanban/config.yaml)")

	root.AddCommand(
		newBoardCmd(),
		newListCmd(),
		newAddCmd(),
		newEditCmd(),
		newMoveCmd(),
		newRemoveCmd(),
		newServeCmd(),
		newConfigCmd(),
	)
	return root
}

func initConfig(cfgFile string) error {
	// Set defaults first so they're available even without a config file
	config.SetDefaults()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(config.ConfigDir())
		viper.AddConfigPath(".")
	}

	viper.SetEnvPrefix(config.EnvPrefix)
	// Replace dots with underscores for nested keys in env vars
	// e.g., KANBAN_API_BASE_URL for api.base_url
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// A missing default config file is fine; an explicit one must exist
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			return fmt.Errorf("failed to read config: %w", err)
		}
	}
	return nil
}
