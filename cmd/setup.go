package main

import (
	"context"

	"github.com/desertthunder/spindle/internal/shared"
	"github.com/urfave/cli/v3"
)

// Setup materializes config.toml from the embedded example config.
func (r *Runner) Setup(ctx context.Context, cmd *cli.Command) error {
	configPath := cmd.String("config")

	if err := shared.CreateConfigFile(configPath); err != nil {
		return err
	}

	r.logger.Info("config file created", "path", configPath)

	r.writePlain("✓ Configuration written to %s\n", configPath)
	r.writePlainln("Next steps:")
	r.writePlain("1. Adjust [emulator] and [spanner] to taste\n")
	r.writePlain("2. Run 'spindle run' to execute the full demo\n")

	return nil
}

// setupCommand creates the configuration file
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Create a config.toml from the embedded example",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to configuration file",
				Value:   "config.toml",
			},
		},
		Action: r.Setup,
	}
}
