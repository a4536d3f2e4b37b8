package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v3"
)

// EmulatorStart launches the emulator and blocks until interrupted, then
// stops it.
func (r *Runner) EmulatorStart(ctx context.Context, cmd *cli.Command) error {
	config := r.resolveConfig(cmd)
	mgr := r.newManager(config)

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := mgr.Start(ctx); err != nil {
		return err
	}
	defer func() {
		if err := mgr.Stop(); err != nil {
			r.logger.Warn("failed to stop emulator", "error", err)
		}
	}()

	r.writePlain("Emulator ready at %s. Press Ctrl+C to stop.\n", mgr.Addr())
	<-ctx.Done()

	return nil
}

// EmulatorWait probes an already running emulator until it accepts
// connections or the start timeout elapses.
func (r *Runner) EmulatorWait(ctx context.Context, cmd *cli.Command) error {
	config := r.resolveConfig(cmd)

	if err := r.probeEmulator(ctx, config); err != nil {
		return err
	}

	r.writePlain("Emulator ready at %s\n", config.Emulator.Addr())
	return nil
}

// emulatorCommand handles emulator lifecycle operations
func emulatorCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "emulator",
		Usage: "Manage the local emulator process",
		Commands: []*cli.Command{
			{
				Name:  "start",
				Usage: "Start the emulator and block until interrupted",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "config",
						Aliases: []string{"c"},
						Usage:   "Path to configuration file",
						Value:   "config.toml",
					},
				},
				Action: r.EmulatorStart,
			},
			{
				Name:  "wait",
				Usage: "Wait for a running emulator to accept connections",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "config",
						Aliases: []string{"c"},
						Usage:   "Path to configuration file",
						Value:   "config.toml",
					},
				},
				Action: r.EmulatorWait,
			},
		},
	}
}
