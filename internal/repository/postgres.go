package repository

import (
	"context"
	"fmt"

	"street-segment-api/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/encoding/wkb"
	"github.com/paulmach/orb/encoding/wkt"
)

// Schema creates the street fragments table and its spatial index.
const Schema = `
	CREATE EXTENSION IF NOT EXISTS postgis;

	CREATE TABLE IF NOT EXISTS street_fragments (
		id BIGSERIAL PRIMARY KEY,
		street_key VARCHAR(255) NOT NULL,
		name VARCHAR(255) NOT NULL,
		seq INTEGER NOT NULL,
		geom GEOMETRY(LINESTRING, 4326) NOT NULL,
		UNIQUE (street_key, seq)
	);

	CREATE INDEX IF NOT EXISTS street_fragments_key_idx ON street_fragments (street_key);
	CREATE INDEX IF NOT EXISTS street_fragments_geom_idx ON street_fragments USING GIST (geom);
`

const maxPoolConns = 10

// OpenPool connects to PostgreSQL and checks the connection.
func OpenPool(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("repository: failed to parse database url: %w", err)
	}
	poolCfg.MaxConns = maxPoolConns

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("repository: failed to create pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("repository: failed to ping database: %w", err)
	}
	return pool, nil
}

// PostgresDataset serves the street dataset from a PostGIS table.
type PostgresDataset struct {
	db *pgxpool.Pool
}

// NewPostgresDataset creates a PostGIS backed dataset.
func NewPostgresDataset(db *pgxpool.Pool) *PostgresDataset {
	return &PostgresDataset{db: db}
}

// EnsureSchema creates the table when it does not exist yet.
func (r *PostgresDataset) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.Exec(ctx, Schema); err != nil {
		return fmt.Errorf("repository: failed to create schema: %w", err)
	}
	return nil
}

// LoadStreets returns every street with its fragments in seq order. The
// display name of a street is the name of its first fragment.
func (r *PostgresDataset) LoadStreets(ctx context.Context) ([]models.StreetRecord, error) {
	sql := `
		SELECT
			street_key,
			name,
			ST_AsBinary(geom)
		FROM street_fragments
		ORDER BY street_key, seq
	`

	rows, err := r.db.Query(ctx, sql)
	if err != nil {
		return nil, fmt.Errorf("repository: failed to execute streets query: %w", err)
	}
	defer rows.Close()

	var records []models.StreetRecord
	for rows.Next() {
		var (
			key, name string
			line      orb.LineString
		)
		if err := rows.Scan(&key, &name, wkb.Scanner(&line)); err != nil {
			return nil, fmt.Errorf("repository: failed to scan street fragment: %w", err)
		}

		if n := len(records); n == 0 || records[n-1].Key != key {
			records = append(records, models.StreetRecord{Key: key, DisplayName: name})
		}
		last := &records[len(records)-1]
		last.Fragments = append(last.Fragments, line)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repository: error iterating rows: %w", err)
	}

	return records, nil
}

// ReplaceStreets deletes every stored fragment and bulk inserts records in
// one transaction. It returns the number of fragments written.
func (r *PostgresDataset) ReplaceStreets(ctx context.Context, records []models.StreetRecord) (int64, error) {
	type row struct {
		key, name string
		seq       int
		line      orb.LineString
	}
	var rowsToCopy []row
	for _, rec := range records {
		for i, f := range rec.Fragments {
			rowsToCopy = append(rowsToCopy, row{key: rec.Key, name: rec.DisplayName, seq: i, line: f})
		}
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("repository: failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, "DELETE FROM street_fragments"); err != nil {
		return 0, fmt.Errorf("repository: failed to clear street fragments: %w", err)
	}

	n, err := tx.CopyFrom(
		ctx,
		pgx.Identifier{"street_fragments"},
		[]string{"street_key", "name", "seq", "geom"},
		pgx.CopyFromSlice(len(rowsToCopy), func(i int) ([]any, error) {
			rw := rowsToCopy[i]
			geom := "SRID=4326;" + wkt.MarshalString(rw.line)
			return []any{rw.key, rw.name, rw.seq, geom}, nil
		}),
	)
	if err != nil {
		return 0, fmt.Errorf("repository: failed to copy street fragments: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("repository: failed to commit street fragments: %w", err)
	}
	return n, nil
}
