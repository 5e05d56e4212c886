// Package migrations applies the schema files under migrations/ to Postgres.
package migrations

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/TheDarkness2001/SMS-sub001/internal/db"
)

const trackingTable = "schema_migrations"

const createTrackingTable = `CREATE TABLE IF NOT EXISTS ` + trackingTable + ` (
	version    VARCHAR(255) PRIMARY KEY,
	applied_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
)`

// Migrator applies each SQL file of a directory once, in name order.
type Migrator struct {
	pool   *pgxpool.Pool
	sb     squirrel.StatementBuilderType
	logger zerolog.Logger
}

// NewMigrator creates a new migrator
func NewMigrator(pool *pgxpool.Pool, logger zerolog.Logger) *Migrator {
	return &Migrator{
		pool:   pool,
		sb:     squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
		logger: logger.With().Str("component", "migrator").Logger(),
	}
}

// Version extracts the version prefix of a migration file ("001_init.sql" => "001").
func Version(filename string) string {
	return strings.SplitN(filepath.Base(filename), "_", 2)[0]
}

// Files lists the .sql files of dir sorted by name.
func Files(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read migration directory: %w", err)
	}

	var files []string
	for _, entry := range entries {
		if entry.Type().IsRegular() && filepath.Ext(entry.Name()) == ".sql" {
			files = append(files, filepath.Join(dir, entry.Name()))
		}
	}
	sort.Strings(files)
	return files, nil
}

// Pending returns the files whose version is not in applied, keeping their order.
func Pending(files []string, applied map[string]bool) []string {
	var pending []string
	for _, file := range files {
		if !applied[Version(file)] {
			pending = append(pending, file)
		}
	}
	return pending
}

// Up applies every pending file of dir and returns how many were applied. Each file and
// its tracking row commit together.
func (m *Migrator) Up(ctx context.Context, dir string) (int, error) {
	files, err := Files(dir)
	if err != nil {
		return 0, err
	}
	if _, err := m.pool.Exec(ctx, createTrackingTable); err != nil {
		return 0, fmt.Errorf("failed to create migration tracking table: %w", err)
	}
	applied, err := m.appliedVersions(ctx)
	if err != nil {
		return 0, err
	}

	pending := Pending(files, applied)
	for _, file := range pending {
		if err := m.apply(ctx, file); err != nil {
			return 0, err
		}
	}
	m.logger.Info().Int("applied", len(pending)).Int("total", len(files)).Msg("Schema up to date")
	return len(pending), nil
}

func (m *Migrator) appliedVersions(ctx context.Context) (map[string]bool, error) {
	query, args, err := m.sb.Select("version").From(trackingTable).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build migration status query: %w", err)
	}
	rows, err := m.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to read applied migrations: %w", err)
	}
	versions, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("failed to read applied migrations: %w", err)
	}

	applied := make(map[string]bool, len(versions))
	for _, version := range versions {
		applied[version] = true
	}
	return applied, nil
}

func (m *Migrator) apply(ctx context.Context, file string) error {
	content, err := os.ReadFile(file)
	if err != nil {
		return fmt.Errorf("failed to read migration file: %w", err)
	}
	version := Version(file)

	record, args, err := m.sb.Insert(trackingTable).
		Columns("version", "applied_at").
		Values(version, time.Now().UTC()).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build migration record: %w", err)
	}

	err = db.WithTransaction(ctx, m.pool, func(ctx context.Context, tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, string(content)); err != nil {
			return fmt.Errorf("migration %s failed: %w", filepath.Base(file), err)
		}
		if _, err := tx.Exec(ctx, record, args...); err != nil {
			return fmt.Errorf("failed to record migration %s: %w", version, err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	m.logger.Info().Str("file", filepath.Base(file)).Str("version", version).Msg("Migration applied")
	return nil
}
