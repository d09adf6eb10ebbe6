// Package store persists evolution runs to SQLite.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/XiaoConstantine/shinka-go/pkg/core"
	"github.com/XiaoConstantine/shinka-go/pkg/engine"
	"github.com/XiaoConstantine/shinka-go/pkg/errors"
	"github.com/XiaoConstantine/shinka-go/pkg/logging"
)

// SQLiteStore implements engine.Recorder on a SQLite database. One store can
// hold any number of runs; rows for an individual are upserted so fitness
// values written before evaluation are refreshed by later generations.
type SQLiteStore struct {
	db   *sql.DB
	mu   sync.RWMutex
	path string

	initialized sync.Once
}

var _ engine.Recorder = (*SQLiteStore)(nil)

// RunSummary is the stored view of a run.
type RunSummary struct {
	RunID         string
	StartedAt     time.Time
	FinishedAt    time.Time // zero until the run ends
	State         string
	Config        engine.Config
	ComputeTarget string
	Generations   int
	BestFitness   float64
	BestID        string // empty until the run ends
}

// NewSQLiteStore opens (or creates) the database at path.
// If path is ":memory:", the database will be created in-memory.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, errors.WithFields(
			errors.Wrap(err, errors.StorageFailed, "failed to open SQLite database"),
			errors.Fields{"path": path},
		)
	}

	store := &SQLiteStore{
		db:   db,
		path: path,
	}
	if err := store.ensureInitialized(); err != nil {
		return nil, err
	}
	return store, nil
}

func (s *SQLiteStore) ensureInitialized() error {
	var initErr error
	s.initialized.Do(func() {
		// Enable WAL mode for better concurrency
		if _, err := s.db.Exec("PRAGMA journal_mode=WAL;"); err != nil {
			initErr = errors.Wrap(err, errors.StorageFailed, "failed to enable WAL mode")
			return
		}

		query := `
        CREATE TABLE IF NOT EXISTS runs (
            run_id TEXT PRIMARY KEY,
            started_at INTEGER NOT NULL,
            finished_at INTEGER,
            state TEXT NOT NULL,
            config TEXT NOT NULL,
            compute_target TEXT NOT NULL,
            generations INTEGER NOT NULL DEFAULT 0,
            best_fitness REAL NOT NULL DEFAULT 0,
            best_id TEXT
        );

        CREATE TABLE IF NOT EXISTS generations (
            run_id TEXT NOT NULL REFERENCES runs(run_id),
            generation INTEGER NOT NULL,
            population_size INTEGER NOT NULL,
            archive_size INTEGER NOT NULL,
            best_fitness REAL NOT NULL,
            proposed INTEGER NOT NULL,
            evaluated INTEGER NOT NULL,
            evaluation_failures INTEGER NOT NULL,
            mutation_failures INTEGER NOT NULL,
            fills INTEGER NOT NULL,
            recorded_at INTEGER NOT NULL,
            PRIMARY KEY (run_id, generation)
        );

        CREATE TABLE IF NOT EXISTS individuals (
            id TEXT PRIMARY KEY,
            run_id TEXT NOT NULL REFERENCES runs(run_id),
            parent_id TEXT,
            generation INTEGER NOT NULL,
            origin TEXT NOT NULL,
            fitness REAL NOT NULL,
            payload TEXT NOT NULL,
            created_at INTEGER NOT NULL
        );

        -- Lineage and progress queries filter by run
        CREATE INDEX IF NOT EXISTS idx_individuals_run
        ON individuals(run_id, generation);
        `

		if _, err := s.db.Exec(query); err != nil {
			initErr = errors.Wrap(err, errors.StorageFailed, "failed to initialize schema")
			return
		}
	})
	return initErr
}

const upsertIndividualQuery = `
    INSERT INTO individuals (id, run_id, parent_id, generation, origin, fitness, payload, created_at)
    VALUES (?, ?, ?, ?, ?, ?, ?, ?)
    ON CONFLICT(id) DO UPDATE SET fitness = excluded.fitness
    `

func upsertIndividuals(ctx context.Context, tx *sql.Tx, runID string, records []engine.IndividualRecord) error {
	for _, rec := range records {
		ind := rec.Individual
		var parentID interface{}
		if rec.ParentID != "" {
			parentID = rec.ParentID
		}

		_, err := tx.ExecContext(ctx, upsertIndividualQuery,
			ind.ID, runID, parentID, ind.Generation, ind.Origin.String(),
			ind.Fitness, ind.Payload, ind.CreatedAt.UnixNano())
		if err != nil {
			return errors.WithFields(
				errors.Wrap(err, errors.StorageFailed, "failed to store individual"),
				errors.Fields{"individual_id": ind.ID},
			)
		}
	}
	return nil
}

func (s *SQLiteStore) rollback(tx *sql.Tx) {
	if err := tx.Rollback(); err != nil && err != sql.ErrTxDone {
		logging.GetLogger().Error(context.Background(), "failed to rollback transaction: %v", err)
	}
}

// BeginRun implements engine.Recorder.
func (s *SQLiteStore) BeginRun(ctx context.Context, info engine.RunInfo) error {
	if err := s.ensureInitialized(); err != nil {
		return err
	}

	configJSON, err := json.Marshal(info.Config)
	if err != nil {
		return errors.WithFields(
			errors.Wrap(err, errors.InvalidInput, "failed to marshal run config"),
			errors.Fields{"run_id": info.RunID},
		)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return errors.Wrap(err, errors.StorageFailed, "failed to begin transaction")
	}
	defer s.rollback(tx)

	_, err = tx.ExecContext(ctx, `
    INSERT INTO runs (run_id, started_at, state, config, compute_target)
    VALUES (?, ?, ?, ?, ?)`,
		info.RunID, info.StartedAt.UnixNano(), "running", string(configJSON), info.ComputeTarget)
	if err != nil {
		return errors.WithFields(
			errors.Wrap(err, errors.StorageFailed, "failed to store run"),
			errors.Fields{"run_id": info.RunID},
		)
	}

	if err := upsertIndividuals(ctx, tx, info.RunID, info.Population); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return errors.Wrap(err, errors.StorageFailed, "failed to commit transaction")
	}
	return nil
}

// RecordGeneration implements engine.Recorder.
func (s *SQLiteStore) RecordGeneration(ctx context.Context, rec engine.GenerationRecord) error {
	if err := s.ensureInitialized(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return errors.Wrap(err, errors.StorageFailed, "failed to begin transaction")
	}
	defer s.rollback(tx)

	_, err = tx.ExecContext(ctx, `
    INSERT INTO generations (run_id, generation, population_size, archive_size, best_fitness,
                             proposed, evaluated, evaluation_failures, mutation_failures, fills, recorded_at)
    VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.RunID, rec.Generation, rec.PopulationSize, rec.ArchiveSize, rec.BestFitness,
		rec.Proposed, rec.Evaluated, rec.EvaluationFailures, rec.MutationFailures, rec.Fills,
		time.Now().UnixNano())
	if err != nil {
		return errors.WithFields(
			errors.Wrap(err, errors.StorageFailed, "failed to store generation"),
			errors.Fields{"run_id": rec.RunID, "generation": rec.Generation},
		)
	}

	if err := upsertIndividuals(ctx, tx, rec.RunID, rec.NewIndividuals); err != nil {
		return err
	}
	// Survivors are upserted again to pick up fitness values assigned after
	// their row was first written.
	if err := upsertIndividuals(ctx, tx, rec.RunID, rec.Population); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return errors.Wrap(err, errors.StorageFailed, "failed to commit transaction")
	}
	return nil
}

// EndRun implements engine.Recorder.
func (s *SQLiteStore) EndRun(ctx context.Context, result engine.RunResult) error {
	if err := s.ensureInitialized(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return errors.Wrap(err, errors.StorageFailed, "failed to begin transaction")
	}
	defer s.rollback(tx)

	var bestID interface{}
	if result.Best != nil {
		bestID = result.Best.Individual.ID
		if err := upsertIndividuals(ctx, tx, result.RunID, []engine.IndividualRecord{*result.Best}); err != nil {
			return err
		}
	}

	res, err := tx.ExecContext(ctx, `
    UPDATE runs
    SET finished_at = ?, state = ?, generations = ?, best_fitness = ?, best_id = ?
    WHERE run_id = ?`,
		result.FinishedAt.UnixNano(), result.State.String(), result.Generations,
		result.BestFitness, bestID, result.RunID)
	if err != nil {
		return errors.WithFields(
			errors.Wrap(err, errors.StorageFailed, "failed to finalize run"),
			errors.Fields{"run_id": result.RunID},
		)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return errors.WithFields(
			errors.New(errors.ResourceNotFound, "run not found"),
			errors.Fields{"run_id": result.RunID},
		)
	}

	if err := tx.Commit(); err != nil {
		return errors.Wrap(err, errors.StorageFailed, "failed to commit transaction")
	}
	return nil
}

// GetRun returns the stored view of one run.
func (s *SQLiteStore) GetRun(ctx context.Context, runID string) (*RunSummary, error) {
	if err := s.ensureInitialized(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var (
		summary    RunSummary
		startedAt  int64
		finishedAt sql.NullInt64
		configJSON string
		bestID     sql.NullString
	)

	err := s.db.QueryRowContext(ctx, `
    SELECT run_id, started_at, finished_at, state, config, compute_target, generations, best_fitness, best_id
    FROM runs WHERE run_id = ?`, runID).Scan(
		&summary.RunID, &startedAt, &finishedAt, &summary.State, &configJSON,
		&summary.ComputeTarget, &summary.Generations, &summary.BestFitness, &bestID)
	if err == sql.ErrNoRows {
		return nil, errors.WithFields(
			errors.New(errors.ResourceNotFound, "run not found"),
			errors.Fields{"run_id": runID},
		)
	}
	if err != nil {
		return nil, errors.Wrap(err, errors.StorageFailed, "failed to load run")
	}

	summary.StartedAt = time.Unix(0, startedAt)
	if finishedAt.Valid {
		summary.FinishedAt = time.Unix(0, finishedAt.Int64)
	}
	if bestID.Valid {
		summary.BestID = bestID.String
	}
	if err := json.Unmarshal([]byte(configJSON), &summary.Config); err != nil {
		return nil, errors.Wrap(err, errors.StorageFailed, "failed to unmarshal run config")
	}

	return &summary, nil
}

// ListGenerations returns a run's generation records in order.
func (s *SQLiteStore) ListGenerations(ctx context.Context, runID string) ([]engine.GenerationRecord, error) {
	if err := s.ensureInitialized(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
    SELECT run_id, generation, population_size, archive_size, best_fitness,
           proposed, evaluated, evaluation_failures, mutation_failures, fills
    FROM generations WHERE run_id = ? ORDER BY generation`, runID)
	if err != nil {
		return nil, errors.Wrap(err, errors.StorageFailed, "failed to list generations")
	}
	defer rows.Close()

	var records []engine.GenerationRecord
	for rows.Next() {
		var rec engine.GenerationRecord
		if err := rows.Scan(&rec.RunID, &rec.Generation, &rec.PopulationSize, &rec.ArchiveSize,
			&rec.BestFitness, &rec.Proposed, &rec.Evaluated, &rec.EvaluationFailures,
			&rec.MutationFailures, &rec.Fills); err != nil {
			return nil, errors.Wrap(err, errors.StorageFailed, "failed to scan generation")
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, errors.StorageFailed, "error iterating generations")
	}

	return records, nil
}

// BestIndividual returns the best individual recorded for a finished run.
func (s *SQLiteStore) BestIndividual(ctx context.Context, runID string) (*engine.IndividualRecord, error) {
	if err := s.ensureInitialized(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var (
		ind       core.Individual
		parentID  sql.NullString
		origin    string
		createdAt int64
	)

	err := s.db.QueryRowContext(ctx, `
    SELECT i.id, i.parent_id, i.generation, i.origin, i.fitness, i.payload, i.created_at
    FROM runs r JOIN individuals i ON i.id = r.best_id
    WHERE r.run_id = ?`, runID).Scan(
		&ind.ID, &parentID, &ind.Generation, &origin, &ind.Fitness, &ind.Payload, &createdAt)
	if err == sql.ErrNoRows {
		return nil, errors.WithFields(
			errors.New(errors.ResourceNotFound, "no best individual recorded"),
			errors.Fields{"run_id": runID},
		)
	}
	if err != nil {
		return nil, errors.Wrap(err, errors.StorageFailed, "failed to load best individual")
	}

	parsed, err := core.ParseOrigin(origin)
	if err != nil {
		return nil, err
	}
	ind.Origin = parsed
	ind.Parent = core.NoParent // handles are process-local
	ind.CreatedAt = time.Unix(0, createdAt)

	rec := &engine.IndividualRecord{Individual: &ind}
	if parentID.Valid {
		rec.ParentID = parentID.String
	}
	return rec, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.db.Close(); err != nil {
		return errors.Wrap(err, errors.StorageFailed, "failed to close database connection")
	}
	return nil
}
