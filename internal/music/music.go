// package music defines the sample entities stored in the demo database.
//
// Singers own Albums, Albums own Tracks. Ownership is enforced by the
// database schema (a foreign key and an interleaved table), not here: a
// Track cannot outlive its Album, an Album cannot outlive its Singer.
package music

import (
	"github.com/desertthunder/spindle/internal/shared"
)

// Singer is the write-side shape of a Singers row.
//
// FullName is a stored generated column and is deliberately absent: the
// database derives it from FirstName and LastName.
type Singer struct {
	SingerID  string `spanner:"SingerId"`
	FirstName string `spanner:"FirstName"`
	LastName  string `spanner:"LastName"`
}

// SingerRow is the read-side shape of a Singers row, including the
// database-computed FullName column.
type SingerRow struct {
	SingerID  string `spanner:"SingerId"`
	FirstName string `spanner:"FirstName"`
	LastName  string `spanner:"LastName"`
	FullName  string `spanner:"FullName"`
}

// Album is a row in the Albums table, owned by one Singer.
type Album struct {
	AlbumID  string `spanner:"AlbumId"`
	Title    string `spanner:"Title"`
	SingerID string `spanner:"SingerId"`
}

// Track is a row in the Tracks table. Its identity is the composite
// (AlbumId, TrackId) key of the interleaved table.
type Track struct {
	AlbumID string `spanner:"AlbumId"`
	TrackID int64  `spanner:"TrackId"`
	Title   string `spanner:"Title"`
}

// SampleSet holds one related Singer/Album/Track trio ready for insertion.
type SampleSet struct {
	Singer Singer
	Album  Album
	Track  Track
}

// NewSampleSet builds the demo records: Bob Allison, his album "Total
// Junk", and its first track "Go, Go, Go". Singer and album IDs are
// generated fresh on every call; the track rides its album's key.
func NewSampleSet() SampleSet {
	singer := Singer{
		SingerID:  shared.GenerateID(),
		FirstName: "Bob",
		LastName:  "Allison",
	}

	album := Album{
		AlbumID:  shared.GenerateID(),
		Title:    "Total Junk",
		SingerID: singer.SingerID,
	}

	track := Track{
		AlbumID: album.AlbumID,
		TrackID: 1,
		Title:   "Go, Go, Go",
	}

	return SampleSet{Singer: singer, Album: album, Track: track}
}
