// Package db opens the Postgres pool holding the ledger and runs units of work in
// transactions.
package db

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/TheDarkness2001/SMS-sub001/internal/config"
	"github.com/TheDarkness2001/SMS-sub001/internal/pkg/logger"
)

const (
	connectTimeout = 10 * time.Second
	// txTimeout bounds a transaction whose context carries no deadline.
	txTimeout = 30 * time.Second
)

// PoolConfig turns the database section into a pgxpool configuration.
func PoolConfig(cfg *config.Config) (*pgxpool.Config, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.GetPostgresConnectionString())
	if err != nil {
		return nil, fmt.Errorf("invalid postgres settings: %w", err)
	}

	lifetime, err := time.ParseDuration(cfg.Database.ConnMaxLifetime)
	if err != nil {
		return nil, fmt.Errorf("invalid connection lifetime: %w", err)
	}
	poolConfig.MaxConnLifetime = lifetime
	if cfg.Database.MaxOpenConns > 0 {
		poolConfig.MaxConns = int32(cfg.Database.MaxOpenConns)
	}
	if cfg.Database.MaxIdleConns > 0 && cfg.Database.MaxIdleConns <= cfg.Database.MaxOpenConns {
		poolConfig.MinConns = int32(cfg.Database.MaxIdleConns)
	}
	poolConfig.ConnConfig.RuntimeParams["application_name"] = "tutoring-payments"
	poolConfig.ConnConfig.RuntimeParams["timezone"] = "UTC"
	return poolConfig, nil
}

// Open connects the pool and checks the server answers.
func Open(ctx context.Context, cfg *config.Config) (*pgxpool.Pool, error) {
	poolConfig, err := PoolConfig(cfg)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create database connection pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("database %s unreachable: %w", cfg.Database.Host, err)
	}
	return pool, nil
}

// TxBeginner is satisfied by *pgxpool.Pool and pgx.Tx.
type TxBeginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// WithTransaction commits when fn succeeds and rolls back otherwise. fn's error is
// returned unchanged so callers can match sentinels.
func WithTransaction(ctx context.Context, conn TxBeginner, fn func(ctx context.Context, tx pgx.Tx) error) (err error) {
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, txTimeout)
		defer cancel()
	}

	tx, err := conn.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback(ctx)
			panic(p)
		}
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				logger.Error().Err(rbErr).Msg("Failed to rollback transaction")
			}
		}
	}()

	if err = fn(ctx, tx); err != nil {
		return err
	}
	if err = tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}
