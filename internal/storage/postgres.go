package storage

import (
	"context"
	"fmt"
	"time"

	pgxdecimal "github.com/jackc/pgx-shopspring-decimal"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Store manages PostgreSQL operations
type Store struct {
	pool *pgxpool.Pool
}

// NewStore creates a new PostgreSQL store with connection pooling
func NewStore(ctx context.Context, dsn string) (*Store, error) {
	config, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	// Tune connection pool
	config.MaxConns = 10
	config.MinConns = 2
	config.MaxConnLifetime = 1 * time.Hour
	config.MaxConnIdleTime = 30 * time.Minute

	// NUMERIC columns map to shopspring decimals
	config.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		pgxdecimal.Register(conn.TypeMap())
		return nil
	}

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping PostgreSQL: %w", err)
	}

	return &Store{pool: pool}, nil
}

// Close closes the connection pool
func (s *Store) Close() {
	s.pool.Close()
}

// BatchInsertReserves inserts one poll's reserve entries using pgx.Batch
func (s *Store) BatchInsertReserves(ctx context.Context, snapshots []ReserveSnapshot) error {
	if len(snapshots) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for _, snap := range snapshots {
		batch.Queue(`
			INSERT INTO reserve_snapshots
			(queried_at, error_code, token_address, raw_amount, amount)
			VALUES ($1, $2, $3, $4, $5)`,
			snap.QueriedAt,
			snap.ErrorCode,
			snap.TokenAddress,
			snap.RawAmount.String(),
			snap.Amount,
		)
	}

	br := s.pool.SendBatch(ctx, batch)
	defer br.Close()

	for range snapshots {
		if _, err := br.Exec(); err != nil {
			return fmt.Errorf("batch insert failed: %w", err)
		}
	}

	return nil
}

// InsertFundSnapshot records the fund token supply for one poll
func (s *Store) InsertFundSnapshot(ctx context.Context, snap FundSnapshot) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO fund_snapshots (queried_at, total_supply)
		VALUES ($1, $2)`,
		snap.QueriedAt,
		snap.TotalSupply,
	)
	if err != nil {
		return fmt.Errorf("failed to insert fund snapshot: %w", err)
	}
	return nil
}

// Ping verifies the connection is alive
func (s *Store) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}
