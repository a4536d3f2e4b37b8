package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/spindle/internal/demo"
	"github.com/desertthunder/spindle/internal/emulator"
	"github.com/desertthunder/spindle/internal/music"
	"github.com/desertthunder/spindle/internal/provision"
	"github.com/desertthunder/spindle/internal/shared"
	"github.com/urfave/cli/v3"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config     *shared.Config
	configPath string
	logger     *log.Logger
	output     io.Writer
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config     *shared.Config
	ConfigPath string
	Logger     *log.Logger
	Output     io.Writer
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}

	return &Runner{
		config:     opts.Config,
		configPath: opts.ConfigPath,
		logger:     opts.Logger,
		output:     opts.Output,
	}
}

// SetLogger replaces the runner's logger. Used when the terminal is handed
// over to the TUI.
func (r *Runner) SetLogger(l *log.Logger) {
	r.logger = l
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		runCommand, emulatorCommand, provisionCommand, schemaCommand, seedCommand, queryCommand, setupCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// resolveConfig loads the config file named by the command's --config flag,
// falling back to the runner's config (or embedded defaults) when the file
// is missing or malformed. A missing config file is never an error.
func (r *Runner) resolveConfig(cmd *cli.Command) *shared.Config {
	path := cmd.String("config")
	if path == "" {
		path = r.configPath
	}
	if path == "" {
		path = "config.toml"
	}

	if _, err := os.Stat(path); err == nil {
		config, err := shared.LoadConfig(path)
		if err == nil {
			r.config = config
			return config
		}
		r.logger.Warn("failed to load config, using defaults", "error", err)
	} else {
		r.logger.Info("config file not found, using defaults", "path", path)
	}

	if r.config == nil {
		r.config = shared.DefaultConfig()
	}
	return r.config
}

// newManager builds the emulator lifecycle manager from config.
func (r *Runner) newManager(config *shared.Config) *emulator.Manager {
	return emulator.NewManager(emulator.Opts{
		Addr:         config.Emulator.Addr(),
		Command:      config.Emulator.Command,
		Autostart:    config.Emulator.Autostart,
		StartTimeout: config.Emulator.StartTimeout(),
		Logger:       r.logger,
	})
}

// probeEmulator verifies an already running emulator is reachable and
// exports its address to the client libraries. Commands that do not own the
// emulator lifecycle call this before touching the admin or data APIs.
func (r *Runner) probeEmulator(ctx context.Context, config *shared.Config) error {
	mgr := emulator.NewManager(emulator.Opts{
		Addr:         config.Emulator.Addr(),
		Autostart:    false,
		StartTimeout: config.Emulator.StartTimeout(),
		Logger:       r.logger,
	})

	if err := mgr.Start(ctx); err != nil {
		return fmt.Errorf("emulator not reachable, start it with 'spindle emulator start': %w", err)
	}
	return nil
}

// newEngine wires the demo engine with real emulator, admin, and data
// clients.
func (r *Runner) newEngine(config *shared.Config, ddl []string) *demo.Engine {
	return demo.NewEngine(demo.Opts{
		Emulator: r.newManager(config),
		Provision: func(ctx context.Context) (demo.Provisioner, func(), error) {
			prov, closer, err := provision.Connect(ctx, r.logger)
			if err != nil {
				return nil, nil, err
			}
			return prov, closer, nil
		},
		Store: func(ctx context.Context) (demo.Store, error) {
			return music.Open(ctx, config.Spanner.DatabasePath(), r.logger)
		},
		Spanner: config.Spanner,
		DDL:     ddl,
		Logger:  r.logger,
	})
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainln(format string, args ...any) error {
	text := "\n" + fmt.Sprintf(format, args...) + "\n"
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainHeader(title string) {
	r.writePlain("═══════════════════════════════════════\n")
	r.writePlain("%v\n", title)
	r.writePlain("═══════════════════════════════════════\n")
}
