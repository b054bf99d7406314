package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dtroode/jobboard/database"
	"github.com/dtroode/jobboard/internal/config"
)

// uniqueViolation is the Postgres SQLSTATE for unique constraint failures.
const uniqueViolation = "23505"

// Connection is the pool shared by every repository in this package.
type Connection struct {
	*pgxpool.Pool
}

// NewConnection opens a pool for cfg.DSN and verifies it answers. With
// cfg.AutoMigrate the schema is brought to the latest version first.
func NewConnection(ctx context.Context, cfg config.Database) (*Connection, error) {
	poolConf, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to parse postgres dsn: %w", err)
	}
	if cfg.MaxConns > 0 {
		poolConf.MaxConns = cfg.MaxConns
	}
	if cfg.MaxConnIdleTime > 0 {
		poolConf.MaxConnIdleTime = cfg.MaxConnIdleTime
	}

	if cfg.AutoMigrate {
		if err := database.Migrate(ctx, cfg.DSN); err != nil {
			return nil, fmt.Errorf("failed to migrate database: %w", err)
		}
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConf)
	if err != nil {
		return nil, fmt.Errorf("failed to open connection pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to reach postgres: %w", err)
	}

	return &Connection{Pool: pool}, nil
}

func (c *Connection) Close() error {
	c.Pool.Close()
	return nil
}

// Ping satisfies the readiness check of the HTTP health endpoint.
func (c *Connection) Ping(ctx context.Context) error {
	return c.Pool.Ping(ctx)
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}
