package provision

import (
	"context"
	"errors"
	"strings"
	"testing"

	tu "github.com/desertthunder/spindle/internal/testing"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func TestEnsureInstance(t *testing.T) {
	ctx := context.Background()

	t.Run("creates missing instance", func(t *testing.T) {
		instances := &tu.MockInstanceAdmin{}
		p := NewProvisioner(instances, &tu.MockDatabaseAdmin{}, nil)

		outcome, err := p.EnsureInstance(ctx, "demo-project", "demo-instance")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if outcome != Created {
			t.Errorf("expected Created, got %v", outcome)
		}

		if len(instances.Requests) != 1 {
			t.Fatalf("expected 1 request, got %d", len(instances.Requests))
		}

		req := instances.Requests[0]
		if req.Parent != "projects/demo-project" {
			t.Errorf("parent = %s", req.Parent)
		}
		if req.InstanceId != "demo-instance" {
			t.Errorf("instance id = %s", req.InstanceId)
		}
		if req.Instance.Config != "projects/demo-project/instanceConfigs/emulator-config" {
			t.Errorf("instance config = %s", req.Instance.Config)
		}
		if req.Instance.NodeCount != 1 {
			t.Errorf("node count = %d", req.Instance.NodeCount)
		}
	})

	t.Run("already exists is success", func(t *testing.T) {
		instances := &tu.MockInstanceAdmin{Err: status.Error(codes.AlreadyExists, "instance exists")}
		p := NewProvisioner(instances, &tu.MockDatabaseAdmin{}, nil)

		outcome, err := p.EnsureInstance(ctx, "demo-project", "demo-instance")
		if err != nil {
			t.Fatalf("expected already-exists to be recovered, got %v", err)
		}
		if outcome != AlreadyExisted {
			t.Errorf("expected AlreadyExisted, got %v", outcome)
		}
	})

	t.Run("rerun does not modify resources", func(t *testing.T) {
		instances := &tu.MockInstanceAdmin{Err: status.Error(codes.AlreadyExists, "instance exists")}
		p := NewProvisioner(instances, &tu.MockDatabaseAdmin{}, nil)

		for range 3 {
			if _, err := p.EnsureInstance(ctx, "demo-project", "demo-instance"); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		}

		// Every attempt is a create; the admin service owns idempotence.
		// Nothing else (delete, update) must ever be issued.
		if len(instances.Requests) != 3 {
			t.Errorf("expected 3 create requests, got %d", len(instances.Requests))
		}
	})

	t.Run("other errors propagate", func(t *testing.T) {
		cause := status.Error(codes.Unavailable, "emulator down")
		instances := &tu.MockInstanceAdmin{Err: cause}
		p := NewProvisioner(instances, &tu.MockDatabaseAdmin{}, nil)

		_, err := p.EnsureInstance(ctx, "demo-project", "demo-instance")
		if err == nil {
			t.Fatal("expected error to propagate")
		}
		if !errors.Is(err, cause) {
			t.Errorf("expected wrapped cause, got %v", err)
		}
	})
}

func TestEnsureDatabase(t *testing.T) {
	ctx := context.Background()
	ddl := []string{"CREATE TABLE A (Id INT64) PRIMARY KEY (Id)"}

	t.Run("creates missing database with DDL batch", func(t *testing.T) {
		databases := &tu.MockDatabaseAdmin{}
		p := NewProvisioner(&tu.MockInstanceAdmin{}, databases, nil)

		outcome, err := p.EnsureDatabase(ctx, "projects/p/instances/i", "musicdb", ddl)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if outcome != Created {
			t.Errorf("expected Created, got %v", outcome)
		}

		if len(databases.CreateRequests) != 1 {
			t.Fatalf("expected 1 request, got %d", len(databases.CreateRequests))
		}

		req := databases.CreateRequests[0]
		if req.Parent != "projects/p/instances/i" {
			t.Errorf("parent = %s", req.Parent)
		}
		if req.CreateStatement != "CREATE DATABASE `musicdb`" {
			t.Errorf("create statement = %s", req.CreateStatement)
		}
		if len(req.ExtraStatements) != 1 || !strings.HasPrefix(req.ExtraStatements[0], "CREATE TABLE A") {
			t.Errorf("extra statements = %v", req.ExtraStatements)
		}
	})

	t.Run("already exists skips DDL", func(t *testing.T) {
		databases := &tu.MockDatabaseAdmin{CreateErr: status.Error(codes.AlreadyExists, "database exists")}
		p := NewProvisioner(&tu.MockInstanceAdmin{}, databases, nil)

		outcome, err := p.EnsureDatabase(ctx, "projects/p/instances/i", "musicdb", ddl)
		if err != nil {
			t.Fatalf("expected already-exists to be recovered, got %v", err)
		}
		if outcome != AlreadyExisted {
			t.Errorf("expected AlreadyExisted, got %v", outcome)
		}

		if len(databases.DDLRequests) != 0 {
			t.Errorf("DDL must not be applied to an existing database, got %d requests", len(databases.DDLRequests))
		}
	})

	t.Run("other errors propagate", func(t *testing.T) {
		cause := status.Error(codes.InvalidArgument, "malformed DDL")
		databases := &tu.MockDatabaseAdmin{CreateErr: cause}
		p := NewProvisioner(&tu.MockInstanceAdmin{}, databases, nil)

		_, err := p.EnsureDatabase(ctx, "projects/p/instances/i", "musicdb", ddl)
		if !errors.Is(err, cause) {
			t.Errorf("expected wrapped cause, got %v", err)
		}
	})
}

func TestApplyDDL(t *testing.T) {
	ctx := context.Background()

	t.Run("submits statements to existing database", func(t *testing.T) {
		databases := &tu.MockDatabaseAdmin{}
		p := NewProvisioner(&tu.MockInstanceAdmin{}, databases, nil)

		ddl := []string{"ALTER TABLE Albums ADD COLUMN ReleaseDate DATE"}
		if err := p.ApplyDDL(ctx, "projects/p/instances/i/databases/d", ddl); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if len(databases.DDLRequests) != 1 {
			t.Fatalf("expected 1 request, got %d", len(databases.DDLRequests))
		}

		req := databases.DDLRequests[0]
		if req.Database != "projects/p/instances/i/databases/d" {
			t.Errorf("database = %s", req.Database)
		}
		if len(req.Statements) != 1 {
			t.Errorf("statements = %v", req.Statements)
		}
	})

	t.Run("empty batch fails", func(t *testing.T) {
		p := NewProvisioner(&tu.MockInstanceAdmin{}, &tu.MockDatabaseAdmin{}, nil)

		if err := p.ApplyDDL(ctx, "projects/p/instances/i/databases/d", nil); err == nil {
			t.Error("expected error for empty DDL batch")
		}
	})
}

func TestOutcomeString(t *testing.T) {
	if Created.String() != "created" {
		t.Errorf("Created.String() = %s", Created.String())
	}
	if AlreadyExisted.String() != "already existed" {
		t.Errorf("AlreadyExisted.String() = %s", AlreadyExisted.String())
	}
}
