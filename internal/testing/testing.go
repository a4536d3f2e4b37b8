// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"io"
	"os"
	"testing"

	"cloud.google.com/go/spanner/admin/database/apiv1/databasepb"
	"cloud.google.com/go/spanner/admin/instance/apiv1/instancepb"
)

// MockInstanceAdmin is a test double for [provision.InstanceCreator].
//
// It records every request and resolves with the configured error.
type MockInstanceAdmin struct {
	Requests []*instancepb.CreateInstanceRequest
	Err      error
}

func (m *MockInstanceAdmin) CreateInstance(ctx context.Context, req *instancepb.CreateInstanceRequest) (*instancepb.Instance, error) {
	m.Requests = append(m.Requests, req)
	if m.Err != nil {
		return nil, m.Err
	}
	return &instancepb.Instance{Name: req.Parent + "/instances/" + req.InstanceId}, nil
}

// MockDatabaseAdmin is a test double for [provision.DatabaseCreator].
type MockDatabaseAdmin struct {
	CreateRequests []*databasepb.CreateDatabaseRequest
	DDLRequests    []*databasepb.UpdateDatabaseDdlRequest
	CreateErr      error
	DDLErr         error
}

func (m *MockDatabaseAdmin) CreateDatabase(ctx context.Context, req *databasepb.CreateDatabaseRequest) (*databasepb.Database, error) {
	m.CreateRequests = append(m.CreateRequests, req)
	if m.CreateErr != nil {
		return nil, m.CreateErr
	}
	return &databasepb.Database{Name: req.Parent + "/databases/pending"}, nil
}

func (m *MockDatabaseAdmin) UpdateDatabaseDdl(ctx context.Context, req *databasepb.UpdateDatabaseDdlRequest) error {
	m.DDLRequests = append(m.DDLRequests, req)
	return m.DDLErr
}

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// LimitedWriter fails after a certain number of writes
type LimitedWriter struct {
	maxWrites int
	written   int
	target    io.Writer
}

func (l *LimitedWriter) Write(p []byte) (n int, err error) {
	if l.written >= l.maxWrites {
		return 0, errors.New("write limit exceeded")
	}
	l.written++
	return l.target.Write(p)
}

func NewLimitedWriter(maxWrites, written int, target io.Writer) LimitedWriter {
	return LimitedWriter{maxWrites: maxWrites, written: written, target: target}
}

func MustGetwd(t *testing.T) string {
	t.Helper()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Failed to get working directory: %v", err)
	}
	return wd
}

func MustChdir(t *testing.T, dir string) {
	t.Helper()
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("Failed to change directory to %s: %v", dir, err)
	}
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}
