package demo

import (
	"context"
	"errors"
	"testing"

	"github.com/desertthunder/spindle/internal/music"
	"github.com/desertthunder/spindle/internal/provision"
	"github.com/desertthunder/spindle/internal/shared"
)

type fakeLifecycler struct {
	startErr error
	started  int
	stopped  int
}

func (f *fakeLifecycler) Start(ctx context.Context) error {
	f.started++
	return f.startErr
}

func (f *fakeLifecycler) Stop() error {
	f.stopped++
	return nil
}

func (f *fakeLifecycler) Addr() string { return "localhost:9010" }

type fakeProvisioner struct {
	instanceErr   error
	databaseErr   error
	instanceCalls int
	databaseCalls int
	gotInstance   string
	gotDatabase   string
	gotDDL        []string
}

func (f *fakeProvisioner) EnsureInstance(ctx context.Context, project, instanceID string) (provision.Outcome, error) {
	f.instanceCalls++
	f.gotInstance = instanceID
	if f.instanceErr != nil {
		return 0, f.instanceErr
	}
	return provision.Created, nil
}

func (f *fakeProvisioner) EnsureDatabase(ctx context.Context, instancePath, databaseID string, ddl []string) (provision.Outcome, error) {
	f.databaseCalls++
	f.gotDatabase = databaseID
	f.gotDDL = ddl
	if f.databaseErr != nil {
		return 0, f.databaseErr
	}
	return provision.AlreadyExisted, nil
}

type fakeStore struct {
	insertErr error
	trackErr  error
	queryErr  error
	closed    int
	inserted  int
}

func (f *fakeStore) InsertSample(ctx context.Context) (*music.SampleSet, error) {
	f.inserted++
	if f.insertErr != nil {
		return nil, f.insertErr
	}
	set := music.NewSampleSet()
	return &set, nil
}

func (f *fakeStore) TrackByKey(ctx context.Context, albumID string, trackID int64) (*music.Track, error) {
	if f.trackErr != nil {
		return nil, f.trackErr
	}
	return &music.Track{AlbumID: albumID, TrackID: trackID, Title: "Go, Go, Go"}, nil
}

func (f *fakeStore) SingersByFullName(ctx context.Context, fullName string) ([]music.SingerRow, error) {
	if f.queryErr != nil {
		return nil, f.queryErr
	}
	return []music.SingerRow{{FirstName: "Bob", LastName: "Allison", FullName: fullName}}, nil
}

func (f *fakeStore) Close() { f.closed++ }

func newTestEngine(lc *fakeLifecycler, prov *fakeProvisioner, store *fakeStore, provErr, storeErr error, provCalls *int) *Engine {
	return NewEngine(Opts{
		Emulator: lc,
		Provision: func(ctx context.Context) (Provisioner, func(), error) {
			if provCalls != nil {
				*provCalls++
			}
			if provErr != nil {
				return nil, nil, provErr
			}
			return prov, func() {}, nil
		},
		Store: func(ctx context.Context) (Store, error) {
			if storeErr != nil {
				return nil, storeErr
			}
			return store, nil
		},
		Spanner: shared.SpannerConfig{Project: "p", Instance: "i", Database: "d"},
		DDL:     []string{"CREATE TABLE A (Id INT64) PRIMARY KEY (Id)"},
	})
}

func TestEngineRun(t *testing.T) {
	ctx := context.Background()

	t.Run("full run", func(t *testing.T) {
		lc := &fakeLifecycler{}
		prov := &fakeProvisioner{}
		store := &fakeStore{}
		engine := newTestEngine(lc, prov, store, nil, nil, nil)

		progress := make(chan ProgressUpdate, totalSteps)
		result, err := engine.Run(ctx, progress)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if lc.started != 1 || lc.stopped != 1 {
			t.Errorf("emulator started %d times, stopped %d times", lc.started, lc.stopped)
		}
		if result.InstanceOutcome != provision.Created {
			t.Errorf("instance outcome = %v", result.InstanceOutcome)
		}
		if result.DatabaseOutcome != provision.AlreadyExisted {
			t.Errorf("database outcome = %v", result.DatabaseOutcome)
		}
		if result.Statements != 1 {
			t.Errorf("statements = %d", result.Statements)
		}
		if result.Track == nil || result.Track.Title != "Go, Go, Go" {
			t.Errorf("track = %+v", result.Track)
		}
		if len(result.Singers) != 1 || result.Singers[0].LastName != "Allison" {
			t.Errorf("singers = %+v", result.Singers)
		}
		if result.Track.AlbumID != result.Sample.Album.AlbumID {
			t.Error("track lookup should use the seeded album key")
		}
		if store.closed != 1 {
			t.Errorf("store closed %d times", store.closed)
		}

		close(progress)
		var got []ProgressUpdate
		for update := range progress {
			got = append(got, update)
		}
		if len(got) != totalSteps {
			t.Fatalf("expected %d progress updates, got %d", totalSteps, len(got))
		}
		for i, phase := range Phases() {
			if got[i].Phase != phase {
				t.Errorf("update %d phase = %v, want %v", i, got[i].Phase, phase)
			}
			if got[i].Step != i+1 || got[i].Total != totalSteps {
				t.Errorf("update %d numbering = %d/%d", i, got[i].Step, got[i].Total)
			}
		}
	})

	t.Run("ddl reaches database ensure", func(t *testing.T) {
		prov := &fakeProvisioner{}
		engine := newTestEngine(&fakeLifecycler{}, prov, &fakeStore{}, nil, nil, nil)

		if _, err := engine.Run(ctx, nil); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if len(prov.gotDDL) != 1 {
			t.Errorf("expected 1 DDL statement, got %v", prov.gotDDL)
		}
		if prov.gotInstance != "i" || prov.gotDatabase != "d" {
			t.Errorf("provisioned %s/%s", prov.gotInstance, prov.gotDatabase)
		}
	})

	t.Run("start failure skips everything", func(t *testing.T) {
		lc := &fakeLifecycler{startErr: errors.New("port in use")}
		provCalls := 0
		engine := newTestEngine(lc, &fakeProvisioner{}, &fakeStore{}, nil, nil, &provCalls)

		if _, err := engine.Run(ctx, nil); err == nil {
			t.Fatal("expected error")
		}

		if provCalls != 0 {
			t.Error("no admin client should be built when the emulator fails to start")
		}
		if lc.stopped != 0 {
			t.Error("nothing was acquired, nothing should be stopped")
		}
	})

	t.Run("provisioning failure still stops emulator", func(t *testing.T) {
		lc := &fakeLifecycler{}
		prov := &fakeProvisioner{instanceErr: errors.New("rpc failure")}
		store := &fakeStore{}
		engine := newTestEngine(lc, prov, store, nil, nil, nil)

		if _, err := engine.Run(ctx, nil); err == nil {
			t.Fatal("expected error")
		}

		if lc.stopped != 1 {
			t.Error("emulator must be stopped after a provisioning failure")
		}
		if store.inserted != 0 {
			t.Error("no data call should follow a provisioning failure")
		}
	})

	t.Run("data exercise failure still stops emulator", func(t *testing.T) {
		lc := &fakeLifecycler{}
		store := &fakeStore{insertErr: errors.New("commit aborted")}
		engine := newTestEngine(lc, &fakeProvisioner{}, store, nil, nil, nil)

		if _, err := engine.Run(ctx, nil); err == nil {
			t.Fatal("expected error")
		}

		if lc.stopped != 1 {
			t.Error("emulator must be stopped after a data failure")
		}
		if store.closed != 1 {
			t.Error("store must be closed after a data failure")
		}
	})

	t.Run("nil progress channel is safe", func(t *testing.T) {
		engine := newTestEngine(&fakeLifecycler{}, &fakeProvisioner{}, &fakeStore{}, nil, nil, nil)
		if _, err := engine.Run(ctx, nil); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("full progress channel never blocks", func(t *testing.T) {
		engine := newTestEngine(&fakeLifecycler{}, &fakeProvisioner{}, &fakeStore{}, nil, nil, nil)

		progress := make(chan ProgressUpdate, 1)
		if _, err := engine.Run(ctx, progress); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})
}

func TestPhase(t *testing.T) {
	for _, phase := range Phases() {
		if phase.String() == "" {
			t.Errorf("phase %d has no string form", phase)
		}
		if phase.Label() == "" {
			t.Errorf("phase %d has no label", phase)
		}
	}

	if Phase(99).String() != "" || Phase(99).Label() != "" {
		t.Error("unknown phase should render empty")
	}
}
