// package provision ensures the demo instance and database exist.
//
// Create calls are idempotent: a gRPC AlreadyExists status is reported as a
// distinct Outcome rather than an error, so a run against an already
// provisioned emulator succeeds without touching existing resources. Every
// other failure propagates to the caller and aborts the run.
package provision

import (
	"context"
	"fmt"

	database "cloud.google.com/go/spanner/admin/database/apiv1"
	"cloud.google.com/go/spanner/admin/database/apiv1/databasepb"
	instance "cloud.google.com/go/spanner/admin/instance/apiv1"
	"cloud.google.com/go/spanner/admin/instance/apiv1/instancepb"
	"github.com/charmbracelet/log"
	"github.com/desertthunder/spindle/internal/shared"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// Outcome reports how an ensure operation resolved.
type Outcome int

const (
	Created Outcome = iota
	AlreadyExisted
)

func (o Outcome) String() string {
	switch o {
	case Created:
		return "created"
	case AlreadyExisted:
		return "already existed"
	default:
		return ""
	}
}

// InstanceCreator issues a CreateInstance call and waits for the
// long-running operation to finish.
type InstanceCreator interface {
	CreateInstance(ctx context.Context, req *instancepb.CreateInstanceRequest) (*instancepb.Instance, error)
}

// DatabaseCreator issues database admin calls and waits for their
// long-running operations to finish.
type DatabaseCreator interface {
	CreateDatabase(ctx context.Context, req *databasepb.CreateDatabaseRequest) (*databasepb.Database, error)
	UpdateDatabaseDdl(ctx context.Context, req *databasepb.UpdateDatabaseDdlRequest) error
}

// Provisioner implements idempotent ensure operations over the admin API.
type Provisioner struct {
	instances InstanceCreator
	databases DatabaseCreator
	logger    *log.Logger
}

// NewProvisioner creates a Provisioner over the provided admin clients.
func NewProvisioner(instances InstanceCreator, databases DatabaseCreator, logger *log.Logger) *Provisioner {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &Provisioner{instances: instances, databases: databases, logger: logger}
}

// Connect builds a Provisioner backed by real admin clients. The returned
// close function releases both client connections.
//
// With SPANNER_EMULATOR_HOST exported the clients dial the emulator
// unauthenticated; nothing here ever reaches a production endpoint.
func Connect(ctx context.Context, logger *log.Logger) (*Provisioner, func(), error) {
	instanceAdmin, err := instance.NewInstanceAdminClient(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create instance admin client: %w", err)
	}

	databaseAdmin, err := database.NewDatabaseAdminClient(ctx)
	if err != nil {
		instanceAdmin.Close()
		return nil, nil, fmt.Errorf("failed to create database admin client: %w", err)
	}

	closer := func() {
		databaseAdmin.Close()
		instanceAdmin.Close()
	}

	p := NewProvisioner(
		instanceAdminClient{instanceAdmin},
		databaseAdminClient{databaseAdmin},
		logger,
	)
	return p, closer, nil
}

// EnsureInstance creates the named instance under the project, treating an
// existing instance as success.
func (p *Provisioner) EnsureInstance(ctx context.Context, project, instanceID string) (Outcome, error) {
	req := &instancepb.CreateInstanceRequest{
		Parent:     "projects/" + project,
		InstanceId: instanceID,
		Instance: &instancepb.Instance{
			Config:      fmt.Sprintf("projects/%s/instanceConfigs/emulator-config", project),
			DisplayName: instanceID,
			NodeCount:   1,
		},
	}

	_, err := p.instances.CreateInstance(ctx, req)
	if status.Code(err) == codes.AlreadyExists {
		p.logger.Info("instance already exists", "instance", instanceID)
		return AlreadyExisted, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to create instance %s: %w", instanceID, err)
	}

	p.logger.Info("instance created", "instance", instanceID)
	return Created, nil
}

// EnsureDatabase creates the named database under the instance, applying
// the DDL statements as the creation batch. The statements ride the create
// call, so they run exactly once per database lifetime: when the database
// already exists the DDL is not re-applied.
func (p *Provisioner) EnsureDatabase(ctx context.Context, instancePath, databaseID string, ddl []string) (Outcome, error) {
	req := &databasepb.CreateDatabaseRequest{
		Parent:          instancePath,
		CreateStatement: fmt.Sprintf("CREATE DATABASE `%s`", databaseID),
		ExtraStatements: ddl,
	}

	_, err := p.databases.CreateDatabase(ctx, req)
	if status.Code(err) == codes.AlreadyExists {
		p.logger.Info("database already exists", "database", databaseID)
		return AlreadyExisted, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to create database %s: %w", databaseID, err)
	}

	p.logger.Info("database created", "database", databaseID, "statements", len(ddl))
	return Created, nil
}

// ApplyDDL runs a DDL batch against an existing database.
func (p *Provisioner) ApplyDDL(ctx context.Context, databasePath string, ddl []string) error {
	if len(ddl) == 0 {
		return shared.ErrEmptySchema
	}

	req := &databasepb.UpdateDatabaseDdlRequest{
		Database:   databasePath,
		Statements: ddl,
	}

	if err := p.databases.UpdateDatabaseDdl(ctx, req); err != nil {
		return fmt.Errorf("failed to apply DDL to %s: %w", databasePath, err)
	}

	p.logger.Info("DDL applied", "database", databasePath, "statements", len(ddl))
	return nil
}

// instanceAdminClient adapts the generated instance admin client to
// [InstanceCreator], folding the long-running operation wait into the call.
type instanceAdminClient struct {
	client *instance.InstanceAdminClient
}

func (a instanceAdminClient) CreateInstance(ctx context.Context, req *instancepb.CreateInstanceRequest) (*instancepb.Instance, error) {
	op, err := a.client.CreateInstance(ctx, req)
	if err != nil {
		return nil, err
	}
	return op.Wait(ctx)
}

// databaseAdminClient adapts the generated database admin client to
// [DatabaseCreator].
type databaseAdminClient struct {
	client *database.DatabaseAdminClient
}

func (a databaseAdminClient) CreateDatabase(ctx context.Context, req *databasepb.CreateDatabaseRequest) (*databasepb.Database, error) {
	op, err := a.client.CreateDatabase(ctx, req)
	if err != nil {
		return nil, err
	}
	return op.Wait(ctx)
}

func (a databaseAdminClient) UpdateDatabaseDdl(ctx context.Context, req *databasepb.UpdateDatabaseDdlRequest) error {
	op, err := a.client.UpdateDatabaseDdl(ctx, req)
	if err != nil {
		return err
	}
	return op.Wait(ctx)
}
