package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"

	"invoice-ocr/pkg/config"
)

// querier is the subset of *pgx.Conn used by the create-database step
type querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// EnsureDatabase connects to the administrative database and creates the
// application database when it does not exist yet. It reports whether the
// database was created.
func EnsureDatabase(ctx context.Context, cfg config.DatabaseConfig, log *zap.Logger) (bool, error) {
	conn, err := pgx.Connect(ctx, cfg.AdminDSN())
	if err != nil {
		return false, fmt.Errorf("failed to connect to admin database %q: %w", cfg.AdminName, err)
	}
	defer conn.Close(ctx)

	return ensureDatabase(ctx, conn, cfg.Name, log)
}

func ensureDatabase(ctx context.Context, q querier, name string, log *zap.Logger) (bool, error) {
	var one int
	err := q.QueryRow(ctx, "SELECT 1 FROM pg_database WHERE datname = $1", name).Scan(&one)
	switch {
	case err == nil:
		log.Info("database already exists", zap.String("database", name))
		return false, nil
	case !errors.Is(err, pgx.ErrNoRows):
		return false, fmt.Errorf("failed to check database %q: %w", name, err)
	}

	// CREATE DATABASE takes no bind parameters
	stmt := "CREATE DATABASE " + pgx.Identifier{name}.Sanitize()
	if _, err := q.Exec(ctx, stmt); err != nil {
		return false, fmt.Errorf("failed to create database %q: %w", name, err)
	}
	log.Info("database created", zap.String("database", name))
	return true, nil
}
