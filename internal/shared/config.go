package shared

import (
	_ "embed"
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

//go:embed config.example.toml
var exampleConf []byte

// EmulatorHostEnv is the environment variable the Spanner client libraries
// read to redirect every RPC to a local emulator. When it is already set it
// wins over the configured address.
const EmulatorHostEnv = "SPANNER_EMULATOR_HOST"

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	Emulator EmulatorConfig `toml:"emulator"`
	Spanner  SpannerConfig  `toml:"spanner"`
	Schema   SchemaConfig   `toml:"schema"`
}

// EmulatorConfig contains emulator process and address settings.
type EmulatorConfig struct {
	Host                string `toml:"host"`
	Port                int    `toml:"port"`
	Command             string `toml:"command"`
	Autostart           bool   `toml:"autostart"`
	StartTimeoutSeconds int    `toml:"start_timeout_seconds"`
}

// SpannerConfig names the resources provisioned on the emulator.
type SpannerConfig struct {
	Project  string `toml:"project"`
	Instance string `toml:"instance"`
	Database string `toml:"database"`
}

// SchemaConfig contains DDL script settings.
type SchemaConfig struct {
	Path string `toml:"path"`
}

// Addr returns the emulator address every client should dial. A
// SPANNER_EMULATOR_HOST value set in the environment takes precedence over
// the configured host and port.
func (c EmulatorConfig) Addr() string {
	if addr := os.Getenv(EmulatorHostEnv); addr != "" {
		return addr
	}
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// StartTimeout returns the configured readiness deadline as a [time.Duration].
func (c EmulatorConfig) StartTimeout() time.Duration {
	return time.Duration(c.StartTimeoutSeconds) * time.Second
}

// ProjectPath returns the resource path of the configured project.
func (c SpannerConfig) ProjectPath() string {
	return "projects/" + c.Project
}

// InstancePath returns the resource path of the configured instance.
func (c SpannerConfig) InstancePath() string {
	return fmt.Sprintf("projects/%s/instances/%s", c.Project, c.Instance)
}

// DatabasePath returns the resource path of the configured database.
func (c SpannerConfig) DatabasePath() string {
	return fmt.Sprintf("projects/%s/instances/%s/databases/%s", c.Project, c.Instance, c.Database)
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := toml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return &config, nil
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded example config.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	return &config
}

// CreateConfigFile creates a config.toml file at the specified path using the embedded example config.
func CreateConfigFile(path string) error {
	// Check if file already exists
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s: %w", path, err)
	}

	// Write the embedded example config to the file
	if err := os.WriteFile(path, exampleConf, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
