package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

// AppName names the config directory and the environment prefix.
const AppName = "kanban"

// EnvPrefix is prepended to environment overrides, e.g. KANBAN_API_BASE_URL.
const EnvPrefix = "KANBAN"

// Config represents the complete kanban configuration
type Config struct {
	API     APIConfig     `mapstructure:"api"`
	Board   BoardConfig   `mapstructure:"board"`
	TUI     TUIConfig     `mapstructure:"tui"`
	Logging LoggingConfig `mapstructure:"logging"`
	Server  ServerConfig  `mapstructure:"server"`
}

// APIConfig locates the remote task collection
type APIConfig struct {
	// BaseURL is the server root; the collection lives at {BaseURL}/tasks
	BaseURL string `mapstructure:"base_url"`
	// Timeout bounds each HTTP request (0 = no timeout)
	Timeout time.Duration `mapstructure:"timeout"`
}

// BoardConfig controls the board state manager
type BoardConfig struct {
	// SerializeMutations runs one operation (mutation plus refresh) at a time.
	// When false, overlapping operations race and the last refresh to finish wins.
	SerializeMutations bool `mapstructure:"serialize_mutations"`
	// ConfirmDelete asks before deleting a task (default: true)
	ConfirmDelete bool `mapstructure:"confirm_delete"`
}

// TUIConfig controls the terminal UI
type TUIConfig struct {
	// Theme is the color theme (default: "default")
	// Options: "default", "nord", "dracula", "mono"
	Theme string `mapstructure:"theme"`
}

// LoggingConfig controls debug logging behavior
type LoggingConfig struct {
	// Enabled turns logging on (default: true)
	Enabled bool `mapstructure:"enabled"`
	// Level is the minimum log level: "debug", "info", "warn", "error"
	Level string `mapstructure:"level"`
	// Dir is the directory for kanban.log (default: <config dir>/logs)
	Dir string `mapstructure:"dir"`
}

// ServerConfig controls `kanban serve`
type ServerConfig struct {
	// Addr is the listen address (default: ":8080")
	Addr string `mapstructure:"addr"`
	// Store selects the backend: "memory", "sqlite", "redis"
	Store string `mapstructure:"store"`
	// SQLitePath is the database file for the sqlite store
	SQLitePath string `mapstructure:"sqlite_path"`
	// RedisURL is the connection URL for the redis store
	RedisURL string `mapstructure:"redis_url"`
	// RedisPrefix namespaces every redis key
	RedisPrefix string `mapstructure:"redis_prefix"`
	// SeedExample inserts an example task into an empty store on startup
	SeedExample bool `mapstructure:"seed_example"`
	// AllowOrigins lists the CORS origins (default: ["*"])
	AllowOrigins []string `mapstructure:"allow_origins"`
}

// Default returns a Config with sensible default values
func Default() *Config {
	return &Config{
		API: APIConfig{
			BaseURL: "http://localhost:8080",
			Timeout: 0,
		},
		Board: BoardConfig{
			SerializeMutations: true,
			ConfirmDelete:      true,
		},
		TUI: TUIConfig{
			Theme: "default",
		},
		Logging: LoggingConfig{
			Enabled: true,
			Level:   "info",
			Dir:     "",
		},
		Server: ServerConfig{
			Addr:         ":8080",
			Store:        "memory",
			SQLitePath:   "kanban.db",
			RedisURL:     "redis://localhost:6379/0",
			RedisPrefix:  "kanban",
			SeedExample:  true,
			AllowOrigins: []string{"*"},
		},
	}
}

// SetDefaults registers default values with viper
func SetDefaults() {
	setDefaults(viper.GetViper())
}

func setDefaults(v *viper.Viper) {
	defaults := Default()

	v.SetDefault("api.base_url", defaults.API.BaseURL)
	v.SetDefault("api.timeout", defaults.API.Timeout)

	v.SetDefault("board.serialize_mutations", defaults.Board.SerializeMutations)
	v.SetDefault("board.confirm_delete", defaults.Board.ConfirmDelete)

	v.SetDefault("tui.theme", defaults.TUI.Theme)

	v.SetDefault("logging.enabled", defaults.Logging.Enabled)
	v.SetDefault("logging.level", defaults.Logging.Level)
	v.SetDefault("logging.dir", defaults.Logging.Dir)

	v.SetDefault("server.addr", defaults.Server.Addr)
	v.SetDefault("server.store", defaults.Server.Store)
	v.SetDefault("server.sqlite_path", defaults.Server.SQLitePath)
	v.SetDefault("server.redis_url", defaults.Server.RedisURL)
	v.SetDefault("server.redis_prefix", defaults.Server.RedisPrefix)
	v.SetDefault("server.seed_example", defaults.Server.SeedExample)
	v.SetDefault("server.allow_origins", defaults.Server.AllowOrigins)
}

// Load reads the configuration from viper and validates it
func Load() (*Config, error) {
	return LoadFrom(viper.GetViper())
}

// LoadFrom reads and validates the configuration held by v
func LoadFrom(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if errs := cfg.Validate(); len(errs) > 0 {
		return nil, ValidationErrors(errs)
	}

	return &cfg, nil
}

// Get returns the current configuration, falling back to defaults when it
// cannot be loaded
func Get() *Config {
	cfg, err := Load()
	if err != nil {
		return Default()
	}
	return cfg
}

// ConfigDir returns the path to the user's config directory
func ConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, AppName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "." + AppName
	}
	return filepath.Join(home, ".config", AppName)
}

// ConfigFile returns the path to the config file
func ConfigFile() string {
	return filepath.Join(ConfigDir(), "config.yaml")
}

// ResolveLogDir returns the directory for log files: Logging.Dir when set,
// otherwise <config dir>/logs
func (c *LoggingConfig) ResolveLogDir() string {
	if c.Dir != "" {
		return c.Dir
	}
	return filepath.Join(ConfigDir(), "logs")
}

// Settings returns the configuration as nested maps keyed like the config
// file, with durations rendered as strings
func (c *Config) Settings() map[string]any {
	origins := make([]any, len(c.Server.AllowOrigins))
	for i, o := range c.Server.AllowOrigins {
		origins[i] = o
	}
	return map[string]any{
		"api": map[string]any{
			"base_url": c.API.BaseURL,
			"timeout":  c.API.Timeout.String(),
		},
		"board": map[string]any{
			"serialize_mutations": c.Board.SerializeMutations,
			"confirm_delete":      c.Board.ConfirmDelete,
		},
		"tui": map[string]any{
			"theme": c.TUI.Theme,
		},
		"logging": map[string]any{
			"enabled": c.Logging.Enabled,
			"level":   c.Logging.Level,
			"dir":     c.Logging.Dir,
		},
		"server": map[string]any{
			"addr":          c.Server.Addr,
			"store":         c.Server.Store,
			"sqlite_path":   c.Server.SQLitePath,
			"redis_url":     c.Server.RedisURL,
			"redis_prefix":  c.Server.RedisPrefix,
			"seed_example":  c.Server.SeedExample,
			"allow_origins": origins,
		},
	}
}
