// Package database owns the SQL schema and applies it with goose.
package database

import (
	"context"
	"database/sql"
	"embed"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

//go:embed migrations/*.sql
var migrations embed.FS

const migrationsDir = "migrations"

// Command is a goose direction understood by Run.
type Command string

const (
	CommandUp     Command = "up"
	CommandDown   Command = "down"
	CommandStatus Command = "status"
)

// ParseCommand validates a migrate sub-command name.
func ParseCommand(s string) (Command, error) {
	switch c := Command(s); c {
	case CommandUp, CommandDown, CommandStatus:
		return c, nil
	}
	return "", fmt.Errorf("unknown migrate command %q", s)
}

// Migrate brings the schema up to the latest version.
func Migrate(ctx context.Context, dsn string) error {
	return Run(ctx, dsn, CommandUp)
}

// Run executes a goose command against the embedded migrations.
func Run(ctx context.Context, dsn string, command Command) error {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	goose.SetBaseFS(migrations)
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}

	switch command {
	case CommandUp:
		err = goose.UpContext(ctx, db, migrationsDir)
	case CommandDown:
		err = goose.DownContext(ctx, db, migrationsDir)
	case CommandStatus:
		err = goose.StatusContext(ctx, db, migrationsDir)
	default:
		return fmt.Errorf("unknown migrate command %q", command)
	}
	if err != nil {
		return fmt.Errorf("failed to run migrations %s: %w", command, err)
	}

	return nil
}
