// Package persistence provides SQLite-based storage for seed ledgers and
// sweep results.
package persistence

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/talgya/colony-sim/internal/engine"
	"github.com/talgya/colony-sim/internal/ledger"
	"github.com/talgya/colony-sim/internal/scenario"
)

// ErrNotFound is returned when a requested ledger or sweep does not exist.
var ErrNotFound = errors.New("not found")

// DB wraps a SQLite connection for run persistence.
type DB struct {
	conn *sqlx.DB
}

// Open opens or creates a SQLite database at the given path.
func Open(path string) (*DB, error) {
	conn, err := sqlx.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	db := &DB{conn: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return db, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

func (db *DB) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS ledgers (
		id TEXT PRIMARY KEY,
		created_at INTEGER NOT NULL,
		shock_probability REAL NOT NULL,
		selection_coefficient REAL NOT NULL,
		shock_severity REAL NOT NULL,
		years INTEGER NOT NULL,
		outcome TEXT NOT NULL,
		seeds_json TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS sweeps (
		id TEXT PRIMARY KEY,
		created_at INTEGER NOT NULL,
		trials INTEGER NOT NULL,
		selection_coefficient REAL NOT NULL,
		shock_severity REAL NOT NULL,
		root_seed INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS sweep_rows (
		sweep_id TEXT NOT NULL REFERENCES sweeps(id),
		idx INTEGER NOT NULL,
		probability REAL NOT NULL,
		colony_wins INTEGER NOT NULL,
		trials INTEGER NOT NULL,
		fraction REAL NOT NULL,
		PRIMARY KEY (sweep_id, idx)
	);

	CREATE TABLE IF NOT EXISTS sim_meta (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_ledgers_created ON ledgers(created_at);
	`
	_, err := db.conn.Exec(schema)
	return err
}

// LedgerSummary describes a stored ledger without its seeds.
type LedgerSummary struct {
	ID        string `db:"id"`
	CreatedAt int64  `db:"created_at"`
	Years     int    `db:"years"`
	Outcome   string `db:"outcome"`
	scenario.Params
}

// Created returns the creation time.
func (s LedgerSummary) Created() time.Time {
	return time.Unix(0, s.CreatedAt)
}

// SaveLedger stores a sealed ledger along with its trial outcome and returns its ID.
func (db *DB) SaveLedger(l *ledger.Ledger, outcome engine.Outcome) (string, error) {
	if !l.Sealed() {
		return "", fmt.Errorf("save ledger: trial still running")
	}
	seedsJSON, err := json.Marshal(l.Seeds())
	if err != nil {
		return "", fmt.Errorf("encode seeds: %w", err)
	}

	id := uuid.NewString()
	p := l.Params()
	_, err = db.conn.Exec(`INSERT INTO ledgers
		(id, created_at, shock_probability, selection_coefficient, shock_severity, years, outcome, seeds_json)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		id, time.Now().UnixNano(), p.ShockProbability, p.SelectionCoefficient, p.ShockSeverity,
		l.Len(), outcome.String(), string(seedsJSON),
	)
	if err != nil {
		return "", fmt.Errorf("insert ledger: %w", err)
	}

	slog.Debug("ledger saved", "id", id, "years", l.Len())
	return id, nil
}

// LoadLedger retrieves a stored ledger. The result is sealed.
func (db *DB) LoadLedger(id string) (*ledger.Ledger, error) {
	var row struct {
		scenario.Params
		SeedsJSON string `db:"seeds_json"`
	}
	err := db.conn.Get(&row, `SELECT shock_probability, selection_coefficient, shock_severity, seeds_json
		FROM ledgers WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("ledger %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("load ledger %s: %w", id, err)
	}

	var seeds []int64
	if err := json.Unmarshal([]byte(row.SeedsJSON), &seeds); err != nil {
		return nil, fmt.Errorf("ledger %s: %w: %v", id, ledger.ErrMalformed, err)
	}
	return ledger.FromSeeds(row.Params, seeds), nil
}

// ListLedgers returns the most recent ledgers, newest first.
func (db *DB) ListLedgers(limit int) ([]LedgerSummary, error) {
	var out []LedgerSummary
	err := db.conn.Select(&out, `SELECT id, created_at, years, outcome,
		shock_probability, selection_coefficient, shock_severity
		FROM ledgers ORDER BY created_at DESC, rowid DESC LIMIT ?`, limit)
	return out, err
}

// SaveSweep stores a sweep request and its table. Rows keep their order.
func (db *DB) SaveSweep(req engine.SweepRequest, table *engine.Table) (string, error) {
	tx, err := db.conn.Beginx()
	if err != nil {
		return "", err
	}
	defer tx.Rollback()

	id := uuid.NewString()
	_, err = tx.Exec(`INSERT INTO sweeps
		(id, created_at, trials, selection_coefficient, shock_severity, root_seed)
		VALUES (?, ?, ?, ?, ?, ?)`,
		id, time.Now().UnixNano(), req.Trials, req.SelectionCoefficient, req.ShockSeverity, table.RootSeed,
	)
	if err != nil {
		return "", fmt.Errorf("insert sweep: %w", err)
	}

	stmt, err := tx.Preparex(`INSERT INTO sweep_rows
		(sweep_id, idx, probability, colony_wins, trials, fraction)
		VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return "", err
	}
	defer stmt.Close()

	for i, r := range table.Rows {
		if _, err := stmt.Exec(id, i, r.Probability, r.ColonyWins, r.Trials, r.Fraction); err != nil {
			return "", fmt.Errorf("insert sweep row %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", err
	}
	slog.Info("sweep saved", "id", id, "rows", len(table.Rows))
	return id, nil
}

// LoadSweep retrieves a stored sweep table in its original order.
func (db *DB) LoadSweep(id string) (*engine.Table, error) {
	table := &engine.Table{}
	err := db.conn.Get(&table.RootSeed, "SELECT root_seed FROM sweeps WHERE id = ?", id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("sweep %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("load sweep %s: %w", id, err)
	}

	err = db.conn.Select(&table.Rows, `SELECT probability, colony_wins, trials, fraction
		FROM sweep_rows WHERE sweep_id = ? ORDER BY idx`, id)
	if err != nil {
		return nil, fmt.Errorf("load sweep rows %s: %w", id, err)
	}
	return table, nil
}

// SaveMeta stores a key-value pair in simulator metadata.
func (db *DB) SaveMeta(key, value string) error {
	_, err := db.conn.Exec(
		"INSERT OR REPLACE INTO sim_meta (key, value) VALUES (?, ?)",
		key, value,
	)
	return err
}

// GetMeta retrieves a metadata value.
func (db *DB) GetMeta(key string) (string, error) {
	var value string
	err := db.conn.Get(&value, "SELECT value FROM sim_meta WHERE key = ?", key)
	if errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("meta %s: %w", key, ErrNotFound)
	}
	return value, err
}
