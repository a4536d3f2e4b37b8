package music

import (
	"context"
	"fmt"

	"cloud.google.com/go/spanner"
	"github.com/charmbracelet/log"
	"github.com/desertthunder/spindle/internal/shared"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
)

var trackColumns = []string{"AlbumId", "TrackId", "Title"}

// Library provides data access to the demo database.
//
// Rows come and go through the client's struct mapping: InsertStruct on the
// write side, Row.ToStruct on the read side. Nothing in the demo ever
// updates or deletes a row.
type Library struct {
	client *spanner.Client
	logger *log.Logger
}

// Open creates a Library bound to the database at databasePath
// (projects/P/instances/I/databases/D).
func Open(ctx context.Context, databasePath string, logger *log.Logger) (*Library, error) {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}

	client, err := spanner.NewClient(ctx, databasePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database %s: %w", databasePath, err)
	}

	return &Library{client: client, logger: logger}, nil
}

// Close releases the underlying session pool.
func (l *Library) Close() {
	l.client.Close()
}

// InsertSample writes one sample set in a single read-write transaction and
// returns the records it committed.
func (l *Library) InsertSample(ctx context.Context) (*SampleSet, error) {
	set := NewSampleSet()

	_, err := l.client.ReadWriteTransaction(ctx, func(ctx context.Context, txn *spanner.ReadWriteTransaction) error {
		rows := []struct {
			table string
			row   any
		}{
			{"Singers", set.Singer},
			{"Albums", set.Album},
			{"Tracks", set.Track},
		}

		muts := make([]*spanner.Mutation, 0, len(rows))
		for _, r := range rows {
			m, err := spanner.InsertStruct(r.table, r.row)
			if err != nil {
				return fmt.Errorf("failed to build %s mutation: %w", r.table, err)
			}
			muts = append(muts, m)
		}

		return txn.BufferWrite(muts)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to commit sample data: %w", err)
	}

	l.logger.Info("sample data committed",
		"singer", set.Singer.SingerID,
		"album", set.Album.AlbumID,
		"track", set.Track.TrackID,
	)
	return &set, nil
}

// TrackByKey point-reads one Tracks row by its composite (AlbumId, TrackId)
// key.
func (l *Library) TrackByKey(ctx context.Context, albumID string, trackID int64) (*Track, error) {
	row, err := l.client.Single().ReadRow(ctx, "Tracks", spanner.Key{albumID, trackID}, trackColumns)
	if err != nil {
		if spanner.ErrCode(err) == codes.NotFound {
			return nil, fmt.Errorf("%w: track (%s, %d)", shared.ErrNotFound, albumID, trackID)
		}
		return nil, fmt.Errorf("failed to read track: %w", err)
	}

	var track Track
	if err := row.ToStruct(&track); err != nil {
		return nil, fmt.Errorf("failed to scan track: %w", err)
	}

	return &track, nil
}

// SingersByFullName returns every singer whose database-computed FullName
// matches exactly.
func (l *Library) SingersByFullName(ctx context.Context, fullName string) ([]SingerRow, error) {
	iter := l.client.Single().Query(ctx, singersByFullNameStatement(fullName))
	defer iter.Stop()

	var singers []SingerRow
	for {
		row, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to query singers: %w", err)
		}

		var singer SingerRow
		if err := row.ToStruct(&singer); err != nil {
			return nil, fmt.Errorf("failed to scan singer: %w", err)
		}
		singers = append(singers, singer)
	}

	return singers, nil
}

// singersByFullNameStatement builds the parameterized full-name query.
func singersByFullNameStatement(fullName string) spanner.Statement {
	return spanner.Statement{
		SQL:    "SELECT SingerId, FirstName, LastName, FullName FROM Singers WHERE FullName = @fullName",
		Params: map[string]any{"fullName": fullName},
	}
}
