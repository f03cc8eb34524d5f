// Package dbtest starts a throwaway PostgreSQL container with the schema
// applied, for repository integration tests.
package dbtest

import (
	"context"
	"fmt"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/Tomas5220/f1-api/internal/config"
	"github.com/Tomas5220/f1-api/internal/database"
)

const (
	image    = "postgres:16-alpine"
	user     = "postgres"
	password = "password"
	dbName   = "f1_test"
)

// Postgres is a running container plus a migrated connection pool
type Postgres struct {
	container testcontainers.Container
	DB        *database.DB
	DSN       string
}

// Start launches the container, applies migrations and opens a pool
func Start(ctx context.Context) (*Postgres, error) {
	req := testcontainers.ContainerRequest{
		Image:        image,
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     user,
			"POSTGRES_PASSWORD": password,
			"POSTGRES_DB":       dbName,
		},
		Cmd: []string{"postgres", "-c", "fsync=off"},
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(time.Minute),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to start postgres container: %w", err)
	}

	host, err := container.Host(ctx)
	if err != nil {
		_ = container.Terminate(ctx)
		return nil, err
	}
	port, err := container.MappedPort(ctx, "5432/tcp")
	if err != nil {
		_ = container.Terminate(ctx)
		return nil, err
	}

	cfg := &config.DatabaseConfig{
		URL:            fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable", user, password, host, port.Port(), dbName),
		MaxConnections: 5,
		MinConnections: 1,
	}

	if err := database.Migrate(cfg.DSN()); err != nil {
		_ = container.Terminate(ctx)
		return nil, err
	}

	db, err := database.NewDB(ctx, cfg)
	if err != nil {
		_ = container.Terminate(ctx)
		return nil, err
	}

	return &Postgres{container: container, DB: db, DSN: cfg.DSN()}, nil
}

// Truncate empties every table between tests
func (p *Postgres) Truncate(ctx context.Context) error {
	_, err := p.DB.GetPool().Exec(ctx, `
		TRUNCATE apuestas, f1_resultados_gp, f1_clasificaciones_equipos,
		         f1_clasificaciones_pilotos, f1_carreras, f1_pilotos, usuarios
		RESTART IDENTITY CASCADE`)
	return err
}

// Terminate closes the pool and removes the container
func (p *Postgres) Terminate(ctx context.Context) error {
	p.DB.Close()
	return p.container.Terminate(ctx)
}
