// Package testing starts disposable infrastructure for integration tests.
package testing

import (
	"context"
	"fmt"
	stdtesting "testing"

	"github.com/testcontainers/testcontainers-go/modules/mongodb"
)

// MongoImage is the server version the repository is tested against
const MongoImage = "mongo:6"

// MongoDBContainer is a running MongoDB and its connection string
type MongoDBContainer struct {
	Container *mongodb.MongoDBContainer
	URI       string
}

// NewMongoDBContainer starts MongoImage with test credentials
func NewMongoDBContainer(ctx context.Context) (*MongoDBContainer, error) {
	container, err := mongodb.Run(ctx, MongoImage,
		mongodb.WithUsername("pallet"),
		mongodb.WithPassword("pallet"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to start %s: %w", MongoImage, err)
	}

	uri, err := container.ConnectionString(ctx)
	if err != nil {
		_ = container.Terminate(ctx)
		return nil, fmt.Errorf("failed to read connection string: %w", err)
	}
	return &MongoDBContainer{Container: container, URI: uri}, nil
}

// StartMongoDB starts a container for t and terminates it on cleanup
func StartMongoDB(t stdtesting.TB, ctx context.Context) *MongoDBContainer {
	t.Helper()

	m, err := NewMongoDBContainer(ctx)
	if err != nil {
		t.Fatalf("mongodb container: %v", err)
	}
	t.Cleanup(func() { _ = m.Close(context.Background()) })
	return m
}

// Close terminates the container
func (m *MongoDBContainer) Close(ctx context.Context) error {
	if m.Container == nil {
		return nil
	}
	return m.Container.Terminate(ctx)
}
