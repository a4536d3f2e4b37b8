package shared

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestConfig(t *testing.T) {
	t.Run("DefaultConfig", func(t *testing.T) {
		config := DefaultConfig()

		if config.Emulator.Host != "localhost" {
			t.Errorf("expected emulator host localhost, got %s", config.Emulator.Host)
		}

		if config.Emulator.Port != 9010 {
			t.Errorf("expected emulator port 9010, got %d", config.Emulator.Port)
		}

		if !config.Emulator.Autostart {
			t.Error("expected autostart to default to true")
		}

		if config.Emulator.StartTimeout() != 30*time.Second {
			t.Errorf("expected 30s start timeout, got %v", config.Emulator.StartTimeout())
		}

		if config.Spanner.Project != "demo-project" {
			t.Errorf("expected project demo-project, got %s", config.Spanner.Project)
		}

		if config.Schema.Path != "" {
			t.Errorf("expected empty schema path, got %s", config.Schema.Path)
		}
	})

	t.Run("CreateConfigFile", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "config.toml")

		if err := CreateConfigFile(configPath); err != nil {
			t.Fatalf("failed to create config file: %v", err)
		}

		if _, err := os.Stat(configPath); err != nil {
			t.Fatalf("config file should exist: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load created config: %v", err)
		}

		defaultConfig := DefaultConfig()
		if config.Spanner.Database != defaultConfig.Spanner.Database {
			t.Errorf("created config database doesn't match default")
		}

		if err := CreateConfigFile(configPath); err == nil {
			t.Error("creating config file again should fail")
		}
	})

	t.Run("LoadConfig", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "config.toml")

		testConfig := `[emulator]
host = "10.0.0.5"
port = 9020
command = "spanner_emulator"
autostart = false
start_timeout_seconds = 5

[spanner]
project = "test-project"
instance = "test-instance"
database = "testdb"

[schema]
path = "/custom/schema.sql"
`
		if err := os.WriteFile(configPath, []byte(testConfig), 0644); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load config: %v", err)
		}

		if config.Emulator.Port != 9020 {
			t.Errorf("expected emulator port 9020, got %d", config.Emulator.Port)
		}

		if config.Emulator.Autostart {
			t.Error("expected autostart false")
		}

		if config.Spanner.Instance != "test-instance" {
			t.Errorf("expected instance test-instance, got %s", config.Spanner.Instance)
		}

		if config.Schema.Path != "/custom/schema.sql" {
			t.Errorf("expected schema path /custom/schema.sql, got %s", config.Schema.Path)
		}
	})

	t.Run("Addr", func(t *testing.T) {
		t.Run("from config", func(t *testing.T) {
			t.Setenv(EmulatorHostEnv, "")
			os.Unsetenv(EmulatorHostEnv)

			c := EmulatorConfig{Host: "localhost", Port: 9010}
			if got := c.Addr(); got != "localhost:9010" {
				t.Errorf("Addr() = %s, want localhost:9010", got)
			}
		})

		t.Run("environment wins", func(t *testing.T) {
			t.Setenv(EmulatorHostEnv, "emulator.internal:9900")

			c := EmulatorConfig{Host: "localhost", Port: 9010}
			if got := c.Addr(); got != "emulator.internal:9900" {
				t.Errorf("Addr() = %s, want emulator.internal:9900", got)
			}
		})
	})

	t.Run("ResourcePaths", func(t *testing.T) {
		c := SpannerConfig{Project: "p", Instance: "i", Database: "d"}

		if got := c.ProjectPath(); got != "projects/p" {
			t.Errorf("ProjectPath() = %s", got)
		}
		if got := c.InstancePath(); got != "projects/p/instances/i" {
			t.Errorf("InstancePath() = %s", got)
		}
		if got := c.DatabasePath(); got != "projects/p/instances/i/databases/d" {
			t.Errorf("DatabasePath() = %s", got)
		}
	})
}
