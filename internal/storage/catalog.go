package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/san-kum/gravsim/internal/nbody"
)

const catalogSchema = `
CREATE TABLE IF NOT EXISTS runs (
    id            TEXT PRIMARY KEY,
    name          TEXT NOT NULL,
    created_at    TEXT NOT NULL,
    dt            REAL NOT NULL,
    steps         INTEGER NOT NULL,
    sim_time      REAL NOT NULL,
    workers       INTEGER NOT NULL,
    elapsed       REAL NOT NULL,
    energy_drift  REAL NOT NULL,
    body_count    INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS bodies (
    run_id  TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
    idx     INTEGER NOT NULL,
    name    TEXT NOT NULL,
    mass    REAL NOT NULL,
    x REAL, y REAL, z REAL,
    vx REAL, vy REAL, vz REAL,
    PRIMARY KEY (run_id, idx)
);

CREATE INDEX IF NOT EXISTS idx_bodies_name ON bodies(name);
`

// Catalog indexes finished runs and their final body states in SQLite.
type Catalog struct {
	db *sql.DB
}

// OpenCatalog opens or creates the catalog database at path.
func OpenCatalog(ctx context.Context, path string) (*Catalog, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create catalog directory: %w", err)
	}

	db, err := sql.Open("sqlite", path+"?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)")
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog: %w", err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, catalogSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return &Catalog{db: db}, nil
}

func (c *Catalog) Close() error {
	return c.db.Close()
}

// Record stores meta and the final particle states, replacing any earlier
// entry for the same run id.
func (c *Catalog) Record(ctx context.Context, meta *RunMetadata, final []nbody.Particle) error {
	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM runs WHERE id = ?`, meta.ID); err != nil {
		return fmt.Errorf("failed to clear run: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO runs (id, name, created_at, dt, steps, sim_time, workers, elapsed, energy_drift, body_count)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		meta.ID, meta.Name, meta.Timestamp.UTC().Format(time.RFC3339Nano),
		meta.Dt, meta.Steps, meta.SimTime, meta.Workers, meta.Elapsed, meta.EnergyDrift, len(final),
	)
	if err != nil {
		return fmt.Errorf("failed to insert run: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO bodies (run_id, idx, name, mass, x, y, z, vx, vy, vz)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare body insert: %w", err)
	}
	defer stmt.Close()

	for i, p := range final {
		if _, err := stmt.ExecContext(ctx, meta.ID, i, p.Name, p.Mass,
			p.Position.X, p.Position.Y, p.Position.Z,
			p.Velocity.X, p.Velocity.Y, p.Velocity.Z,
		); err != nil {
			return fmt.Errorf("failed to insert body %s: %w", p.Name, err)
		}
	}

	return tx.Commit()
}

// CatalogRun is one row of the runs table.
type CatalogRun struct {
	ID          string
	Name        string
	CreatedAt   time.Time
	Dt          float64
	Steps       int
	SimTime     float64
	EnergyDrift float64
	Bodies      int
}

// Runs lists catalogued runs, newest first.
func (c *Catalog) Runs(ctx context.Context) ([]CatalogRun, error) {
	rows, err := c.db.QueryContext(ctx, `
		SELECT id, name, created_at, dt, steps, sim_time, energy_drift, body_count
		FROM runs ORDER BY created_at DESC, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	runs := make([]CatalogRun, 0)
	for rows.Next() {
		var r CatalogRun
		var created string
		if err := rows.Scan(&r.ID, &r.Name, &created, &r.Dt, &r.Steps, &r.SimTime, &r.EnergyDrift, &r.Bodies); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		r.CreatedAt, _ = time.Parse(time.RFC3339Nano, created)
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// Bodies returns the final particle states of a run in insertion order.
func (c *Catalog) Bodies(ctx context.Context, runID string) ([]nbody.Particle, error) {
	rows, err := c.db.QueryContext(ctx, `
		SELECT name, mass, x, y, z, vx, vy, vz
		FROM bodies WHERE run_id = ? ORDER BY idx`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query bodies: %w", err)
	}
	defer rows.Close()

	bodies := make([]nbody.Particle, 0)
	for rows.Next() {
		var name string
		var mass float64
		var pos nbody.Point
		var vel nbody.Vector
		if err := rows.Scan(&name, &mass, &pos.X, &pos.Y, &pos.Z, &vel.X, &vel.Y, &vel.Z); err != nil {
			return nil, fmt.Errorf("failed to scan body: %w", err)
		}
		bodies = append(bodies, nbody.NewParticle(name, mass, pos, vel))
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(bodies) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, runID)
	}
	return bodies, nil
}
