package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/Iron-Ham/kanban/internal/config"
)

// Output formats of `config show`.
const (
	formatYAML = "yaml"
	formatTOML = "toml"
)

// settableKeys maps every key accepted by `config set` to its value type.
var settableKeys = map[string]string{
	"api.base_url":              "string",
	"api.timeout":               "duration",
	"board.serialize_mutations": "bool",
	"board.confirm_delete":      "bool",
	"tui.theme":                 "string",
	"logging.enabled":           "bool",
	"logging.level":             "string",
	"logging.dir":               "string",
	"server.addr":               "string",
	"server.store":              "string",
	"server.sqlite_path":        "string",
	"server.redis_url":          "string",
	"server.redis_prefix":       "string",
	"server.seed_example":       "bool",
	"server.allow_origins":      "list",
}

func newConfigCmd() *cobra.Command {
	var format string

	configCmd := &cobra.Command{
		Use:   "config",
		Short: "View or modify kanban configuration",
		Long: `View or modify kanban configuration.

Without arguments, displays the current configuration.
Use subcommands to modify settings or create a config file.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigShow(cmd, format)
		},
	}
	configCmd.Flags().StringVarP(&format, "format", "f", formatYAML, "output format: yaml or toml")

	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigShow(cmd, format)
		},
	}
	showCmd.Flags().StringVarP(&format, "format", "f", formatYAML, "output format: yaml or toml")

	setCmd := &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a configuration value",
		Long: `Set a configuration value in the user's config file.

Keys use dot notation, e.g.:
  kanban config set api.base_url http://tasks.internal:8080
  kanban config set api.timeout 5s
  kanban config set tui.theme nord
  kanban config set server.allow_origins http://localhost:3000,http://localhost:5173

Valid keys:
  api.base_url               - Server root; tasks live at {base_url}/tasks
  api.timeout                - Per-request timeout, e.g. 5s (0s = none)
  board.serialize_mutations  - Run one operation at a time (true/false)
  board.confirm_delete       - Ask before deleting (true/false)
  tui.theme                  - Options: default, nord, dracula, mono
  logging.enabled            - Write a log file (true/false)
  logging.level              - Options: debug, info, warn, error
  logging.dir                - Log directory (empty = <config dir>/logs)
  server.addr                - Listen address of "kanban serve"
  server.store               - Options: memory, sqlite, redis
  server.sqlite_path         - Database file of the sqlite store
  server.redis_url           - Connection URL of the redis store
  server.redis_prefix        - Key prefix of the redis store
  server.seed_example        - Add an example task to an empty store
  server.allow_origins       - Comma-separated CORS origins`,
		Args: cobra.ExactArgs(2),
		RunE: runConfigSet,
	}

	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Create a default config file",
		Long:  `Create a default config file at ~/.config/kanban/config.yaml with all available options.`,
		Args:  cobra.NoArgs,
		RunE:  runConfigInit,
	}

	pathCmd := &cobra.Command{
		Use:   "path",
		Short: "Show the config file path",
		Args:  cobra.NoArgs,
		RunE:  runConfigPath,
	}

	configCmd.AddCommand(showCmd, setCmd, initCmd, pathCmd)
	return configCmd
}

func runConfigShow(cmd *cobra.Command, format string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	var data []byte
	switch strings.ToLower(format) {
	case formatYAML:
		data, err = yaml.Marshal(cfg.Settings())
	case formatTOML:
		data, err = toml.Marshal(cfg.Settings())
	default:
		return fmt.Errorf("unknown format %q: use %s or %s", format, formatYAML, formatTOML)
	}
	if err != nil {
		return fmt.Errorf("failed to encode configuration: %w", err)
	}

	out := cmd.OutOrStdout()
	// Show where config is being read from
	if used := viper.ConfigFileUsed(); used != "" {
		fmt.Fprintf(out, "# Config file: %s\n", used)
	} else {
		fmt.Fprintln(out, "# Config file: (none - using defaults)")
	}
	_, err = out.Write(data)
	return err
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	key := args[0]
	value := args[1]

	keyType, ok := settableKeys[key]
	if !ok {
		return fmt.Errorf("unknown configuration key: %s\nRun 'kanban config set --help' to see valid keys", key)
	}

	// Validate the value based on type
	var typedValue any
	switch keyType {
	case "string":
		typedValue = value
	case "bool":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid value for %s: expected true or false", key)
		}
		typedValue = b
	case "duration":
		if _, err := time.ParseDuration(value); err != nil {
			return fmt.Errorf("invalid value for %s: expected a duration such as 5s", key)
		}
		typedValue = value
	case "list":
		var items []string
		for _, item := range strings.Split(value, ",") {
			if item = strings.TrimSpace(item); item != "" {
				items = append(items, item)
			}
		}
		typedValue = items
	}

	previous := viper.Get(key)
	viper.Set(key, typedValue)
	if _, err := config.Load(); err != nil {
		viper.Set(key, previous)
		return fmt.Errorf("invalid value for %s: %w", key, err)
	}

	// Ensure config directory exists
	configFile := viper.ConfigFileUsed()
	if configFile == "" {
		configFile = config.ConfigFile()
	}
	if err := os.MkdirAll(filepath.Dir(configFile), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := viper.WriteConfigAs(configFile); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Set %s = %v\n", key, typedValue)
	fmt.Fprintf(out, "Config saved to %s\n", configFile)
	return nil
}

// defaultConfigContent is written by `config init`.
const defaultConfigContent = `# Kanban Configuration

# Remote task collection
api:
  # Server root; the collection lives at {base_url}/tasks
  base_url: http://localhost:8080
  # Per-request timeout (0s = none)
  timeout: 0s

# Board behavior
board:
  # Run one operation (mutation plus refresh) at a time. When false,
  # overlapping operations race and the last refresh to finish wins.
  serialize_mutations: true
  # Ask before deleting a task
  confirm_delete: true

# TUI (terminal user interface) settings
tui:
  # Color theme: default, nord, dracula, mono
  theme: default

# Logging
logging:
  enabled: true
  # debug, info, warn, error
  level: info
  # Log directory (empty = <config dir>/logs)
  dir: ""

# Reference server ("kanban serve")
server:
  addr: ":8080"
  # memory, sqlite, redis
  store: memory
  sqlite_path: kanban.db
  redis_url: redis://localhost:6379/0
  redis_prefix: kanban
  # Add an example task when the store is empty
  seed_example: true
  allow_origins:
    - "*"
`

func runConfigInit(cmd *cobra.Command, args []string) error {
	configDir := config.ConfigDir()
	configFile := config.ConfigFile()

	// Check if config file already exists
	if _, err := os.Stat(configFile); err == nil {
		return fmt.Errorf("config file already exists at %s\nUse 'kanban config set' to modify values", configFile)
	}

	// Create config directory
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := os.WriteFile(configFile, []byte(defaultConfigContent), 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Created config file at %s\n", configFile)
	fmt.Fprintln(out, "Edit this file to customize kanban's behavior.")
	return nil
}

func runConfigPath(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	if used := viper.ConfigFileUsed(); used != "" {
		fmt.Fprintf(out, "Active config: %s\n", used)
	} else {
		fmt.Fprintf(out, "Default path: %s (not created)\n", config.ConfigFile())
	}

	// Also show config search paths
	fmt.Fprintln(out, "\nSearch paths:")
	fmt.Fprintf(out, "  1. %s\n", config.ConfigFile())
	fmt.Fprintln(out, "  2. ./config.yaml (current directory)")
	fmt.Fprintf(out, "\nEnvironment variables: %s_* (e.g., %s_API_BASE_URL)\n", config.EnvPrefix, config.EnvPrefix)
	return nil
}
