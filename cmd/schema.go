package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/spindle/internal/provision"
	"github.com/desertthunder/spindle/internal/schema"
	"github.com/desertthunder/spindle/internal/shared"
	"github.com/urfave/cli/v3"
)

// SchemaShow prints the DDL statements the configured script splits into.
func (r *Runner) SchemaShow(ctx context.Context, cmd *cli.Command) error {
	config := r.resolveConfig(cmd)

	script, err := schema.Load(config.Schema.Path)
	if err != nil {
		return fmt.Errorf("failed to load schema: %w", err)
	}

	statements := schema.Statements(script)
	if len(statements) == 0 {
		return shared.ErrEmptySchema
	}

	for i, stmt := range statements {
		r.writePlain("-- statement %d\n%s;\n\n", i+1, stmt)
	}

	return nil
}

// SchemaApply runs the configured DDL script against an existing database.
//
// The demo itself never takes this path: its schema rides database
// creation. This is the operator escape hatch for evolving a database that
// already exists.
func (r *Runner) SchemaApply(ctx context.Context, cmd *cli.Command) error {
	config := r.resolveConfig(cmd)

	if err := r.probeEmulator(ctx, config); err != nil {
		return err
	}

	path := cmd.String("file")
	if path == "" {
		path = config.Schema.Path
	}

	script, err := schema.Load(path)
	if err != nil {
		return fmt.Errorf("failed to load schema: %w", err)
	}

	statements := schema.Statements(script)
	if len(statements) == 0 {
		return shared.ErrEmptySchema
	}

	prov, closer, err := provision.Connect(ctx, r.logger)
	if err != nil {
		return fmt.Errorf("failed to connect admin clients: %w", err)
	}
	defer closer()

	if err := prov.ApplyDDL(ctx, config.Spanner.DatabasePath(), statements); err != nil {
		return err
	}

	r.writePlain("Applied %d statement(s) to %s\n", len(statements), config.Spanner.DatabasePath())
	return nil
}

// schemaCommand handles DDL script operations
func schemaCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "schema",
		Usage: "Inspect and apply DDL scripts",
		Commands: []*cli.Command{
			{
				Name:  "show",
				Usage: "Print the statements the configured script splits into",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "config",
						Aliases: []string{"c"},
						Usage:   "Path to configuration file",
						Value:   "config.toml",
					},
				},
				Action: r.SchemaShow,
			},
			{
				Name:  "apply",
				Usage: "Apply a DDL script to the existing database",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "config",
						Aliases: []string{"c"},
						Usage:   "Path to configuration file",
						Value:   "config.toml",
					},
					&cli.StringFlag{
						Name:    "file",
						Aliases: []string{"f"},
						Usage:   "Path to a DDL script (defaults to the configured schema)",
					},
				},
				Action: r.SchemaApply,
			},
		},
	}
}
