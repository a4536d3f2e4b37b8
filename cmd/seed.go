package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/spindle/internal/music"
	"github.com/desertthunder/spindle/internal/shared"
	"github.com/desertthunder/spindle/internal/ui"
	"github.com/urfave/cli/v3"
)

// Seed commits one singer, album, and track in a single transaction against
// the provisioned database.
func (r *Runner) Seed(ctx context.Context, cmd *cli.Command) error {
	config := r.resolveConfig(cmd)

	if err := r.probeEmulator(ctx, config); err != nil {
		return err
	}

	library, err := music.Open(ctx, config.Spanner.DatabasePath(), r.logger)
	if err != nil {
		return err
	}
	defer library.Close()

	set, err := library.InsertSample(ctx)
	if err != nil {
		return err
	}

	r.writePlain("%s committed in one transaction:\n", ui.Ok("✓"))
	r.writePlain("  singer %s %s (%s)\n", set.Singer.FirstName, set.Singer.LastName, set.Singer.SingerID)
	r.writePlain("  album %q (%s)\n", set.Album.Title, set.Album.AlbumID)
	r.writePlain("  track %d %q\n", set.Track.TrackID, set.Track.Title)

	return nil
}

// QueryTrack looks up one track by its composite (album, track) key.
func (r *Runner) QueryTrack(ctx context.Context, cmd *cli.Command) error {
	albumID := cmd.String("album")
	if albumID == "" {
		return fmt.Errorf("%w: album ID is required", shared.ErrMissingArgument)
	}
	trackID := cmd.Int("track")

	config := r.resolveConfig(cmd)

	if err := r.probeEmulator(ctx, config); err != nil {
		return err
	}

	library, err := music.Open(ctx, config.Spanner.DatabasePath(), r.logger)
	if err != nil {
		return err
	}
	defer library.Close()

	track, err := library.TrackByKey(ctx, albumID, int64(trackID))
	if err != nil {
		return err
	}

	r.writePlain("%s track (%s, %d): %q\n", ui.Ok("✓"), track.AlbumID, track.TrackID, track.Title)
	return nil
}

// QuerySinger lists singers whose derived full name matches exactly.
func (r *Runner) QuerySinger(ctx context.Context, cmd *cli.Command) error {
	fullName := cmd.String("name")

	config := r.resolveConfig(cmd)

	if err := r.probeEmulator(ctx, config); err != nil {
		return err
	}

	library, err := music.Open(ctx, config.Spanner.DatabasePath(), r.logger)
	if err != nil {
		return err
	}
	defer library.Close()

	singers, err := library.SingersByFullName(ctx, fullName)
	if err != nil {
		return err
	}

	r.writePlain("%d singer(s) matching %q\n", len(singers), fullName)
	for _, singer := range singers {
		r.writePlain("  %s (last name %s, id %s)\n", singer.FullName, singer.LastName, singer.SingerID)
	}

	return nil
}

// seedCommand writes the sample records
func seedCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "seed",
		Usage: "Insert the sample singer, album, and track in one transaction",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to configuration file",
				Value:   "config.toml",
			},
		},
		Action: r.Seed,
	}
}

// queryCommand reads the sample records back
func queryCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "query",
		Usage: "Read sample records back from the database",
		Commands: []*cli.Command{
			{
				Name:  "track",
				Usage: "Look up a track by its composite (album, track) key",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "album",
						Usage:    "Album ID of the track",
						Required: true,
					},
					&cli.IntFlag{
						Name:  "track",
						Usage: "Track number within the album",
						Value: 1,
					},
					&cli.StringFlag{
						Name:    "config",
						Aliases: []string{"c"},
						Usage:   "Path to configuration file",
						Value:   "config.toml",
					},
				},
				Action: r.QueryTrack,
			},
			{
				Name:  "singer",
				Usage: "Find singers by exact full name",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "name",
						Usage: "Full name to match",
						Value: "Bob Allison",
					},
					&cli.StringFlag{
						Name:    "config",
						Aliases: []string{"c"},
						Usage:   "Path to configuration file",
						Value:   "config.toml",
					},
				},
				Action: r.QuerySinger,
			},
		},
	}
}
