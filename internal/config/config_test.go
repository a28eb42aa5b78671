package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/viper"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg == nil {
		t.Fatal("Default() returned nil")
	}

	if cfg.API.BaseURL != "http://localhost:8080" {
		t.Errorf("API.BaseURL = %q, want %q", cfg.API.BaseURL, "http://localhost:8080")
	}
	if cfg.API.Timeout != 0 {
		t.Errorf("API.Timeout = %v, want 0", cfg.API.Timeout)
	}

	if !cfg.Board.SerializeMutations {
		t.Error("Board.SerializeMutations should be true by default")
	}
	if !cfg.Board.ConfirmDelete {
		t.Error("Board.ConfirmDelete should be true by default")
	}

	if cfg.TUI.Theme != "default" {
		t.Errorf("TUI.Theme = %q, want %q", cfg.TUI.Theme, "default")
	}

	if !cfg.Logging.Enabled {
		t.Error("Logging.Enabled should be true by default")
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("Logging.Level = %q, want %q", cfg.Logging.Level, "info")
	}

	if cfg.Server.Addr != ":8080" {
		t.Errorf("Server.Addr = %q, want %q", cfg.Server.Addr, ":8080")
	}
	if cfg.Server.Store != "memory" {
		t.Errorf("Server.Store = %q, want %q", cfg.Server.Store, "memory")
	}
	if !cfg.Server.SeedExample {
		t.Error("Server.SeedExample should be true by default")
	}
	if len(cfg.Server.AllowOrigins) != 1 || cfg.Server.AllowOrigins[0] != "*" {
		t.Errorf("Server.AllowOrigins = %v, want [*]", cfg.Server.AllowOrigins)
	}
}

func TestConfigDir(t *testing.T) {
	t.Run("with XDG_CONFIG_HOME", func(t *testing.T) {
		t.Setenv("XDG_CONFIG_HOME", "/custom/config")
		result := ConfigDir()
		expected := "/custom/config/kanban"
		if result != expected {
			t.Errorf("ConfigDir() = %q, want %q", result, expected)
		}
	})

	t.Run("without XDG_CONFIG_HOME", func(t *testing.T) {
		t.Setenv("XDG_CONFIG_HOME", "")
		result := ConfigDir()

		home, _ := os.UserHomeDir()
		expected := filepath.Join(home, ".config", "kanban")
		if result != expected {
			t.Errorf("ConfigDir() = %q, want %q", result, expected)
		}
	})
}

func TestConfigFile(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/custom/config")
	result := ConfigFile()
	expected := "/custom/config/kanban/config.yaml"
	if result != expected {
		t.Errorf("ConfigFile() = %q, want %q", result, expected)
	}
}

func TestLoggingConfig_ResolveLogDir(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/custom/config")

	cfg := LoggingConfig{}
	if got := cfg.ResolveLogDir(); got != "/custom/config/kanban/logs" {
		t.Errorf("ResolveLogDir() = %q, want %q", got, "/custom/config/kanban/logs")
	}

	cfg.Dir = "/var/log/kanban"
	if got := cfg.ResolveLogDir(); got != "/var/log/kanban" {
		t.Errorf("ResolveLogDir() = %q, want %q", got, "/var/log/kanban")
	}
}

func TestGet(t *testing.T) {
	SetDefaults()

	cfg := Get()
	if cfg == nil {
		t.Fatal("Get() returned nil")
	}
	if cfg.API.BaseURL != "http://localhost:8080" {
		t.Errorf("Get().API.BaseURL = %q, want default", cfg.API.BaseURL)
	}
}

func TestLoadFrom_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `api:
  base_url: https://tasks.example.com/v1
  timeout: 5s
board:
  serialize_mutations: false
tui:
  theme: nord
server:
  store: sqlite
  sqlite_path: /tmp/tasks.db
  allow_origins:
    - https://app.example.com
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	v := viper.New()
	setDefaults(v)
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		t.Fatalf("ReadInConfig failed: %v", err)
	}

	cfg, err := LoadFrom(v)
	if err != nil {
		t.Fatalf("LoadFrom failed: %v", err)
	}
	if cfg.API.BaseURL != "https://tasks.example.com/v1" {
		t.Errorf("API.BaseURL = %q", cfg.API.BaseURL)
	}
	if cfg.API.Timeout != 5*time.Second {
		t.Errorf("API.Timeout = %v, want 5s", cfg.API.Timeout)
	}
	if cfg.Board.SerializeMutations {
		t.Error("Board.SerializeMutations should be false from file")
	}
	if !cfg.Board.ConfirmDelete {
		t.Error("Board.ConfirmDelete should keep its default")
	}
	if cfg.TUI.Theme != "nord" {
		t.Errorf("TUI.Theme = %q, want nord", cfg.TUI.Theme)
	}
	if cfg.Server.Store != "sqlite" || cfg.Server.SQLitePath != "/tmp/tasks.db" {
		t.Errorf("Server = %+v", cfg.Server)
	}
	if len(cfg.Server.AllowOrigins) != 1 || cfg.Server.AllowOrigins[0] != "https://app.example.com" {
		t.Errorf("Server.AllowOrigins = %v", cfg.Server.AllowOrigins)
	}
}

func TestLoadFrom_Env(t *testing.T) {
	t.Setenv("KANBAN_API_BASE_URL", "http://10.0.0.5:9000")
	t.Setenv("KANBAN_TUI_THEME", "dracula")

	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg, err := LoadFrom(v)
	if err != nil {
		t.Fatalf("LoadFrom failed: %v", err)
	}
	if cfg.API.BaseURL != "http://10.0.0.5:9000" {
		t.Errorf("API.BaseURL = %q", cfg.API.BaseURL)
	}
	if cfg.TUI.Theme != "dracula" {
		t.Errorf("TUI.Theme = %q", cfg.TUI.Theme)
	}
}

func TestLoadFrom_Invalid(t *testing.T) {
	v := viper.New()
	setDefaults(v)
	v.Set("tui.theme", "solarized")
	v.Set("logging.level", "verbose")

	_, err := LoadFrom(v)
	if err == nil {
		t.Fatal("LoadFrom should reject invalid values")
	}
	verrs, ok := err.(ValidationErrors)
	if !ok {
		t.Fatalf("error type = %T, want ValidationErrors", err)
	}
	if len(verrs) != 2 {
		t.Errorf("len(errors) = %d, want 2: %v", len(verrs), verrs)
	}
}

func TestConfig_Settings(t *testing.T) {
	cfg := Default()
	cfg.API.Timeout = 1500 * time.Millisecond
	settings := cfg.Settings()

	api, ok := settings["api"].(map[string]any)
	if !ok {
		t.Fatalf("settings[api] = %T", settings["api"])
	}
	if api["timeout"] != "1.5s" {
		t.Errorf("api.timeout = %v, want 1.5s", api["timeout"])
	}
	for _, section := range []string{"api", "board", "tui", "logging", "server"} {
		if _, ok := settings[section]; !ok {
			t.Errorf("settings missing section %q", section)
		}
	}
}
