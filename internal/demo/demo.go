// package demo orchestrates the end-to-end emulator demonstration.
//
// The core abstraction is Engine, which sequences emulator startup, resource
// provisioning, schema creation, and the sample data exercise. Steps emit
// progress updates via channels for non-blocking status reporting to CLI/UI
// layers. The run is strictly sequential: every step awaits the one before
// it, and the emulator is stopped on the way out no matter which step
// failed.
package demo

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/spindle/internal/music"
	"github.com/desertthunder/spindle/internal/provision"
	"github.com/desertthunder/spindle/internal/shared"
)

// Lifecycler defines the emulator lifecycle operations the engine depends on.
type Lifecycler interface {
	Start(ctx context.Context) error
	Stop() error
	Addr() string
}

// Provisioner defines the idempotent ensure operations the engine depends on.
type Provisioner interface {
	EnsureInstance(ctx context.Context, project, instanceID string) (provision.Outcome, error)
	EnsureDatabase(ctx context.Context, instancePath, databaseID string, ddl []string) (provision.Outcome, error)
}

// Store defines the data exercise operations the engine depends on.
type Store interface {
	InsertSample(ctx context.Context) (*music.SampleSet, error)
	TrackByKey(ctx context.Context, albumID string, trackID int64) (*music.Track, error)
	SingersByFullName(ctx context.Context, fullName string) ([]music.SingerRow, error)
	Close()
}

// ProvisionerFactory builds a Provisioner once the emulator is reachable.
// The returned func releases the underlying client connections.
type ProvisionerFactory func(ctx context.Context) (Provisioner, func(), error)

// StoreFactory opens a Store once the database exists.
type StoreFactory func(ctx context.Context) (Store, error)

// Result aggregates everything a demo run produced.
type Result struct {
	InstanceOutcome provision.Outcome // How the instance ensure resolved
	DatabaseOutcome provision.Outcome // How the database ensure resolved
	Statements      int               // DDL statements in the creation batch
	Sample          *music.SampleSet  // Records committed by the write transaction
	Track           *music.Track      // Result of the composite-key lookup
	Singers         []music.SingerRow // Result of the full-name query
}

// Engine implements the four-step demonstration run.
type Engine struct {
	emulator  Lifecycler
	provision ProvisionerFactory
	store     StoreFactory
	spanner   shared.SpannerConfig
	ddl       []string
	logger    *log.Logger
}

// Opts contains configuration options for creating an Engine.
type Opts struct {
	Emulator  Lifecycler
	Provision ProvisionerFactory
	Store     StoreFactory
	Spanner   shared.SpannerConfig
	DDL       []string
	Logger    *log.Logger
}

// NewEngine creates a new Engine with the provided dependencies.
func NewEngine(opts Opts) *Engine {
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}

	return &Engine{
		emulator:  opts.Emulator,
		provision: opts.Provision,
		store:     opts.Store,
		spanner:   opts.Spanner,
		ddl:       opts.DDL,
		logger:    opts.Logger,
	}
}

// Run executes the full demonstration: start the emulator, ensure the
// instance and database, seed the sample records in one transaction, then
// read them back with a point lookup and a filtered query.
//
// The emulator is stopped via defer as soon as startup succeeds, so cleanup
// runs even when a later step fails.
func (e *Engine) Run(ctx context.Context, progress chan<- ProgressUpdate) (*Result, error) {
	e.sendProgress(progress, startEmulatorUpdate(1, totalSteps, e.emulator.Addr()))
	if err := e.emulator.Start(ctx); err != nil {
		return nil, fmt.Errorf("emulator startup failed: %w", err)
	}
	defer func() {
		if err := e.emulator.Stop(); err != nil {
			e.logger.Warn("failed to stop emulator", "error", err)
		}
	}()

	prov, closeProv, err := e.provision(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to connect admin clients: %w", err)
	}
	defer closeProv()

	result := &Result{Statements: len(e.ddl)}

	e.sendProgress(progress, ensureInstanceUpdate(2, totalSteps, e.spanner.Instance))
	result.InstanceOutcome, err = prov.EnsureInstance(ctx, e.spanner.Project, e.spanner.Instance)
	if err != nil {
		return nil, err
	}

	e.sendProgress(progress, ensureDatabaseUpdate(3, totalSteps, e.spanner.Database, len(e.ddl)))
	result.DatabaseOutcome, err = prov.EnsureDatabase(ctx, e.spanner.InstancePath(), e.spanner.Database, e.ddl)
	if err != nil {
		return nil, err
	}

	store, err := e.store(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	defer store.Close()

	e.sendProgress(progress, seedUpdate(4, totalSteps))
	result.Sample, err = store.InsertSample(ctx)
	if err != nil {
		return nil, err
	}

	e.sendProgress(progress, lookupUpdate(5, totalSteps, result.Sample.Album.AlbumID, result.Sample.Track.TrackID))
	result.Track, err = store.TrackByKey(ctx, result.Sample.Album.AlbumID, result.Sample.Track.TrackID)
	if err != nil {
		return nil, err
	}

	fullName := result.Sample.Singer.FirstName + " " + result.Sample.Singer.LastName
	e.sendProgress(progress, queryUpdate(6, totalSteps, fullName))
	result.Singers, err = store.SingersByFullName(ctx, fullName)
	if err != nil {
		return nil, err
	}

	return result, nil
}

// sendProgress sends a progress update through the channel without blocking.
// Uses select with default to ensure progress reporting never blocks execution.
func (e *Engine) sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
		// Sent successfully
	default:
		// Channel full or closed, skip this update
	}
}
