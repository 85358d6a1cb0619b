// Package testdb provides a shared PostgreSQL container for integration tests.
package testdb

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"neowatch/pkg/database"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/gorm"
)

var (
	once     sync.Once
	sharedDB *gorm.DB
	initErr  error
)

// Setup starts the container once per test binary, migrates the schema and
// returns a connection with every table emptied. Skipped in -short mode and
// when no container runtime is reachable.
func Setup(t *testing.T) *gorm.DB {
	t.Helper()

	if testing.Short() {
		t.Skip("skipping postgres integration test in short mode")
	}
	testcontainers.SkipIfProviderIsNotHealthy(t)

	once.Do(func() {
		sharedDB, initErr = startContainerAndMigrate()
	})
	if initErr != nil {
		t.Fatalf("testdb: failed to setup test DB: %v", initErr)
	}

	err := sharedDB.Exec(
		"TRUNCATE TABLE watchlist_items, flybys, asteroids, users, ingestion_runs RESTART IDENTITY CASCADE",
	).Error
	if err != nil {
		t.Fatalf("testdb: failed to truncate tables: %v", err)
	}

	return sharedDB
}

func startContainerAndMigrate() (*gorm.DB, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 120*time.Second)
	defer cancel()

	req := testcontainers.ContainerRequest{
		Image:        "postgres:16-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "testuser",
			"POSTGRES_PASSWORD": "testpass",
			"POSTGRES_DB":       "neowatch_test",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(60 * time.Second),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		return nil, fmt.Errorf("start container: %w", err)
	}

	host, err := container.Host(ctx)
	if err != nil {
		return nil, fmt.Errorf("get container host: %w", err)
	}

	port, err := container.MappedPort(ctx, "5432")
	if err != nil {
		return nil, fmt.Errorf("get mapped port: %w", err)
	}

	db, err := database.Connect(database.Config{
		Host:     host,
		Port:     port.Port(),
		User:     "testuser",
		Password: "testpass",
		DBName:   "neowatch_test",
		SSLMode:  "disable",
	})
	if err != nil {
		return nil, err
	}

	if err := database.Migrate(db); err != nil {
		return nil, err
	}

	return db, nil
}
