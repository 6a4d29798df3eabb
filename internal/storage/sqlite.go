package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/lao-tseu-is-alive/go-ga-steering/pkg/planner"

	_ "modernc.org/sqlite"
)

type SQLiteStore struct {
	path string

	mu sync.RWMutex
	db *sql.DB
}

func NewSQLiteStore(path string) *SQLiteStore {
	return &SQLiteStore{path: path}
}

func (s *SQLiteStore) Init(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.path == "" {
		return errors.New("sqlite path is required")
	}
	if s.db != nil {
		return nil
	}

	db, err := sql.Open("sqlite", s.path)
	if err != nil {
		return err
	}
	// planners append from many goroutines; a single connection serializes writers
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return err
	}
	if err := createTables(ctx, db); err != nil {
		_ = db.Close()
		return err
	}
	s.db = db
	return nil
}

func (s *SQLiteStore) SaveRun(ctx context.Context, run planner.RunLog) (err error) {
	db, err := s.getDB()
	if err != nil {
		return err
	}
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO runs (id, agent_id, tick, started, duration_ns, velocity_x, velocity_y)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			agent_id = excluded.agent_id,
			tick = excluded.tick,
			started = excluded.started,
			duration_ns = excluded.duration_ns,
			velocity_x = excluded.velocity_x,
			velocity_y = excluded.velocity_y
	`, run.RunID.String(), run.AgentID, int64(run.Tick), run.Started.UnixNano(), int64(run.Duration),
		run.Velocity.X, run.Velocity.Y)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}
	if _, err = tx.ExecContext(ctx, `DELETE FROM generations WHERE run_id = ?`, run.RunID.String()); err != nil {
		return fmt.Errorf("clear generations: %w", err)
	}
	for _, rec := range run.Records {
		var path []byte
		path, err = json.Marshal(rec.BestPath)
		if err != nil {
			return err
		}
		_, err = tx.ExecContext(ctx, `
			INSERT INTO generations (run_id, generation, final, best, mean, stddev, best_path)
			VALUES (?, ?, ?, ?, ?, ?, ?)
		`, run.RunID.String(), rec.Generation, rec.Final, finiteOrNull(rec.Best), rec.Mean, rec.StdDev, path)
		if err != nil {
			return fmt.Errorf("insert generation %d: %w", rec.Generation, err)
		}
	}
	return tx.Commit()
}

func (s *SQLiteStore) GetRun(ctx context.Context, id uuid.UUID) (planner.RunLog, error) {
	db, err := s.getDB()
	if err != nil {
		return planner.RunLog{}, err
	}
	row := db.QueryRowContext(ctx, `
		SELECT id, agent_id, tick, started, duration_ns, velocity_x, velocity_y
		FROM runs WHERE id = ?
	`, id.String())
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return planner.RunLog{}, ErrNotFound
	}
	if err != nil {
		return planner.RunLog{}, err
	}

	rows, err := db.QueryContext(ctx, `
		SELECT generation, final, best, mean, stddev, best_path
		FROM generations WHERE run_id = ? ORDER BY generation
	`, id.String())
	if err != nil {
		return planner.RunLog{}, err
	}
	defer rows.Close()
	for rows.Next() {
		var (
			rec  planner.GenerationRecord
			best sql.NullFloat64
			path []byte
		)
		if err := rows.Scan(&rec.Generation, &rec.Final, &best, &rec.Mean, &rec.StdDev, &path); err != nil {
			return planner.RunLog{}, err
		}
		rec.Best = negInfIfNull(best)
		if err := json.Unmarshal(path, &rec.BestPath); err != nil {
			return planner.RunLog{}, fmt.Errorf("decode best path: %w", err)
		}
		run.Records = append(run.Records, rec)
	}
	return run, rows.Err()
}

func (s *SQLiteStore) ListRuns(ctx context.Context, filter RunFilter) ([]planner.RunLog, error) {
	db, err := s.getDB()
	if err != nil {
		return nil, err
	}
	var (
		query strings.Builder
		args  []any
	)
	query.WriteString(`SELECT id, agent_id, tick, started, duration_ns, velocity_x, velocity_y FROM runs`)
	if filter.AgentID != nil {
		query.WriteString(` WHERE agent_id = ?`)
		args = append(args, *filter.AgentID)
	}
	query.WriteString(` ORDER BY rowid`)
	if filter.Limit > 0 {
		query.WriteString(` LIMIT ?`)
		args = append(args, filter.Limit)
	}

	rows, err := db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []planner.RunLog
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, run)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) GenerationAverages(ctx context.Context) ([]GenerationAverage, error) {
	db, err := s.getDB()
	if err != nil {
		return nil, err
	}
	rows, err := db.QueryContext(ctx, `
		SELECT generation, AVG(best), AVG(mean), COUNT(*)
		FROM generations
		GROUP BY generation
		ORDER BY generation
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []GenerationAverage
	for rows.Next() {
		var (
			avg  GenerationAverage
			best sql.NullFloat64
		)
		if err := rows.Scan(&avg.Generation, &best, &avg.Mean, &avg.Runs); err != nil {
			return nil, err
		}
		avg.Best = negInfIfNull(best)
		out = append(out, avg)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

func (s *SQLiteStore) getDB() (*sql.DB, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.db == nil {
		return nil, ErrNotInitialized
	}
	return s.db, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(row scanner) (planner.RunLog, error) {
	var (
		run              planner.RunLog
		id               string
		tick             int64
		started, elapsed int64
	)
	if err := row.Scan(&id, &run.AgentID, &tick, &started, &elapsed, &run.Velocity.X, &run.Velocity.Y); err != nil {
		return planner.RunLog{}, err
	}
	parsed, err := uuid.Parse(id)
	if err != nil {
		return planner.RunLog{}, fmt.Errorf("invalid run id %q: %w", id, err)
	}
	run.RunID = parsed
	run.Tick = uint64(tick)
	run.Started = time.Unix(0, started)
	run.Duration = time.Duration(elapsed)
	return run, nil
}

func createTables(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			agent_id INTEGER NOT NULL,
			tick INTEGER NOT NULL,
			started INTEGER NOT NULL,
			duration_ns INTEGER NOT NULL,
			velocity_x REAL NOT NULL,
			velocity_y REAL NOT NULL
		);
		CREATE TABLE IF NOT EXISTS generations (
			run_id TEXT NOT NULL REFERENCES runs(id),
			generation INTEGER NOT NULL,
			final INTEGER NOT NULL,
			best REAL,
			mean REAL NOT NULL,
			stddev REAL NOT NULL,
			best_path BLOB NOT NULL,
			PRIMARY KEY (run_id, generation)
		);
		CREATE INDEX IF NOT EXISTS runs_agent ON runs(agent_id);
	`)
	return err
}

// sqlite has no infinities; an empty population's -Inf best is stored as NULL.
func finiteOrNull(v float64) sql.NullFloat64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: v, Valid: true}
}

func negInfIfNull(v sql.NullFloat64) float64 {
	if !v.Valid {
		return math.Inf(-1)
	}
	return v.Float64
}
