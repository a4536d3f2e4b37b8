package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/spindle/internal/demo"
	"github.com/desertthunder/spindle/internal/schema"
	"github.com/desertthunder/spindle/internal/shared"
	"github.com/desertthunder/spindle/internal/ui"
	"github.com/urfave/cli/v3"
)

// RunDemo executes the full demonstration: emulator, provisioning, schema,
// and the sample data exercise, in that order, with the emulator stopped on
// the way out no matter what failed.
func (r *Runner) RunDemo(ctx context.Context, cmd *cli.Command) error {
	config := r.resolveConfig(cmd)

	script, err := schema.Load(config.Schema.Path)
	if err != nil {
		return fmt.Errorf("failed to load schema: %w", err)
	}

	ddl := schema.Statements(script)
	if len(ddl) == 0 {
		return shared.ErrEmptySchema
	}

	if cmd.Bool("tui") {
		return r.runTUI(ctx, config, ddl)
	}

	engine := r.newEngine(config, ddl)

	progress := make(chan demo.ProgressUpdate, 16)
	drained := make(chan struct{})
	go func() {
		for update := range progress {
			r.writePlain("[%d/%d] %s\n", update.Step, update.Total, update.Message)
		}
		close(drained)
	}()

	result, err := engine.Run(ctx, progress)
	close(progress)
	<-drained

	if err != nil {
		return fmt.Errorf("demo run failed: %w", err)
	}

	r.writeResult(config, result)
	return nil
}

// writeResult prints the post-run summary.
func (r *Runner) writeResult(config *shared.Config, result *demo.Result) {
	r.writePlainln("")
	r.writePlainHeader("Demo results")

	r.writePlain("%s instance %q %s\n", ui.Ok("✓"), config.Spanner.Instance, result.InstanceOutcome)
	r.writePlain("%s database %q %s (%d DDL statements)\n", ui.Ok("✓"), config.Spanner.Database, result.DatabaseOutcome, result.Statements)

	if result.Sample != nil {
		r.writePlain("%s committed %s %s, album %q, and track %q in one transaction\n",
			ui.Ok("✓"),
			result.Sample.Singer.FirstName,
			result.Sample.Singer.LastName,
			result.Sample.Album.Title,
			result.Sample.Track.Title,
		)
	}

	if result.Track != nil {
		r.writePlain("%s lookup (%s, %d) found track %q\n", ui.Ok("✓"), result.Track.AlbumID, result.Track.TrackID, result.Track.Title)
	}

	r.writePlain("%s full-name query matched %d singer(s)\n", ui.Ok("✓"), len(result.Singers))
	for _, singer := range result.Singers {
		r.writePlain("  %s (last name %s)\n", singer.FullName, singer.LastName)
	}
}

// runCommand executes the end-to-end demonstration.
func runCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "run",
		Usage: "Run the full emulator demo: provision, schema, seed, and query",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to configuration file",
				Value:   "config.toml",
			},
			&cli.BoolFlag{
				Name:  "tui",
				Usage: "Render progress with the interactive terminal UI",
			},
		},
		Action: r.RunDemo,
	}
}
