package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/spindle/internal/provision"
	"github.com/desertthunder/spindle/internal/schema"
	"github.com/desertthunder/spindle/internal/shared"
	"github.com/desertthunder/spindle/internal/ui"
	"github.com/urfave/cli/v3"
)

// Provision ensures the configured instance and database exist on a running
// emulator. Safe to re-run: existing resources are reported, not touched.
func (r *Runner) Provision(ctx context.Context, cmd *cli.Command) error {
	config := r.resolveConfig(cmd)

	if err := r.probeEmulator(ctx, config); err != nil {
		return err
	}

	script, err := schema.Load(config.Schema.Path)
	if err != nil {
		return fmt.Errorf("failed to load schema: %w", err)
	}

	ddl := schema.Statements(script)
	if len(ddl) == 0 {
		return shared.ErrEmptySchema
	}

	prov, closer, err := provision.Connect(ctx, r.logger)
	if err != nil {
		return fmt.Errorf("failed to connect admin clients: %w", err)
	}
	defer closer()

	instanceOutcome, err := prov.EnsureInstance(ctx, config.Spanner.Project, config.Spanner.Instance)
	if err != nil {
		return err
	}
	r.writePlain("%s instance %q %s\n", ui.Ok("✓"), config.Spanner.Instance, instanceOutcome)

	databaseOutcome, err := prov.EnsureDatabase(ctx, config.Spanner.InstancePath(), config.Spanner.Database, ddl)
	if err != nil {
		return err
	}
	r.writePlain("%s database %q %s (%d DDL statements)\n", ui.Ok("✓"), config.Spanner.Database, databaseOutcome, len(ddl))

	return nil
}

// provisionCommand ensures emulator resources exist
func provisionCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "provision",
		Usage: "Idempotently create the instance and database on the emulator",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to configuration file",
				Value:   "config.toml",
			},
		},
		Action: r.Provision,
	}
}
