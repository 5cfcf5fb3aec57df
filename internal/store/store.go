package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/encoding/json"
	_ "modernc.org/sqlite"

	"github.com/driftcheck/engine/pkg/types"
)

// Store persists completed evaluation runs to SQLite. The completion adapter
// itself never caches; only finished pipeline runs and their reports are
// recorded here.
type Store struct {
	db *sql.DB
}

// RunRecord is one persisted evaluation run.
type RunRecord struct {
	ID                   string
	CreatedAt            time.Time
	SourceText           string
	IntermediateLanguage string
	IdentityA            string
	IdentityB            string
	TranslationModel     string
	JudgeModel           string
	Pipeline             *types.PipelineResult
	Report               *types.DivergenceReport
}

// RunSummary is the listing view of a persisted run.
type RunSummary struct {
	ID                   string
	CreatedAt            time.Time
	IntermediateLanguage string
	TranslationModel     string
	Inconclusive         bool
	SycophancyScore      int
}

// Open opens (or creates) the run-history database at dbPath.
func Open(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if _, err := db.Exec(`PRAGMA journal_mode=WAL`); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id                    TEXT PRIMARY KEY,
		created_at            INTEGER NOT NULL,
		source_text           TEXT NOT NULL,
		intermediate_language TEXT NOT NULL,
		identity_a            TEXT NOT NULL,
		identity_b            TEXT NOT NULL,
		translation_model     TEXT NOT NULL,
		judge_model           TEXT NOT NULL,
		inconclusive          INTEGER NOT NULL DEFAULT 0,
		sycophancy_score      INTEGER,
		report_json           BLOB
	);

	CREATE TABLE IF NOT EXISTS run_jobs (
		run_id            TEXT NOT NULL,
		label             TEXT NOT NULL,
		status            TEXT NOT NULL,
		intermediate_text TEXT,
		final_text        TEXT,
		error_kind        TEXT,
		error_message     TEXT,
		PRIMARY KEY (run_id, label),
		FOREIGN KEY (run_id) REFERENCES runs(id)
	);

	CREATE INDEX IF NOT EXISTS idx_runs_created ON runs(created_at);
	`
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

// SaveRun persists a run and its per-label job rows in one transaction.
// A missing ID is assigned; a zero CreatedAt is set to now.
func (s *Store) SaveRun(ctx context.Context, rec *RunRecord) error {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}

	var reportJSON []byte
	var inconclusive bool
	var score sql.NullInt64
	if rec.Report != nil {
		raw, err := json.Marshal(rec.Report)
		if err != nil {
			return fmt.Errorf("marshal report: %w", err)
		}
		reportJSON = raw
		inconclusive = rec.Report.Inconclusive
		if !rec.Report.Inconclusive {
			score = sql.NullInt64{Int64: int64(rec.Report.SycophancyScore), Valid: true}
		}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO runs(id, created_at, source_text, intermediate_language, identity_a, identity_b,
		                  translation_model, judge_model, inconclusive, sycophancy_score, report_json)
		 VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.CreatedAt.UnixNano(), rec.SourceText, rec.IntermediateLanguage,
		rec.IdentityA, rec.IdentityB, rec.TranslationModel, rec.JudgeModel,
		inconclusive, score, reportJSON,
	); err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	if rec.Pipeline != nil {
		for _, job := range rec.Pipeline.Results {
			var errKind, errMsg sql.NullString
			if job.Err != nil {
				errKind = sql.NullString{String: string(job.Err.Kind), Valid: true}
				errMsg = sql.NullString{String: job.Err.Message, Valid: true}
			}
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO run_jobs(run_id, label, status, intermediate_text, final_text, error_kind, error_message)
				 VALUES(?, ?, ?, ?, ?, ?, ?)`,
				rec.ID, string(job.Label), string(job.Status),
				job.IntermediateText, job.FinalText, errKind, errMsg,
			); err != nil {
				return fmt.Errorf("insert job %s: %w", job.Label, err)
			}
		}
	}

	return tx.Commit()
}

// ListRuns returns the most recent runs, newest first.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]RunSummary, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, created_at, intermediate_language, translation_model, inconclusive, COALESCE(sycophancy_score, 0)
		 FROM runs ORDER BY created_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var out []RunSummary
	for rows.Next() {
		var rs RunSummary
		var createdNanos int64
		if err := rows.Scan(&rs.ID, &createdNanos, &rs.IntermediateLanguage, &rs.TranslationModel, &rs.Inconclusive, &rs.SycophancyScore); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		rs.CreatedAt = time.Unix(0, createdNanos).UTC()
		out = append(out, rs)
	}
	return out, rows.Err()
}

// GetRun loads one persisted run, including its job rows and report.
func (s *Store) GetRun(ctx context.Context, id string) (*RunRecord, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, created_at, source_text, intermediate_language, identity_a, identity_b,
		        translation_model, judge_model, report_json
		 FROM runs WHERE id = ?`, id)

	rec := &RunRecord{}
	var createdNanos int64
	var reportJSON []byte
	if err := row.Scan(&rec.ID, &createdNanos, &rec.SourceText, &rec.IntermediateLanguage,
		&rec.IdentityA, &rec.IdentityB, &rec.TranslationModel, &rec.JudgeModel, &reportJSON); err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("run %s not found", id)
		}
		return nil, fmt.Errorf("get run: %w", err)
	}
	rec.CreatedAt = time.Unix(0, createdNanos).UTC()

	if len(reportJSON) > 0 {
		var report types.DivergenceReport
		if err := json.Unmarshal(reportJSON, &report); err != nil {
			return nil, fmt.Errorf("decode report: %w", err)
		}
		rec.Report = &report
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT label, status, intermediate_text, final_text, error_kind, error_message
		 FROM run_jobs WHERE run_id = ?`, id)
	if err != nil {
		return nil, fmt.Errorf("get run jobs: %w", err)
	}
	defer rows.Close()

	pipeline := &types.PipelineResult{StartedAt: rec.CreatedAt, CompletedAt: rec.CreatedAt}
	byLabel := make(map[types.JobLabel]types.TranslationJobResult, 3)
	for rows.Next() {
		var job types.TranslationJobResult
		var label, status string
		var errKind, errMsg sql.NullString
		if err := rows.Scan(&label, &status, &job.IntermediateText, &job.FinalText, &errKind, &errMsg); err != nil {
			return nil, fmt.Errorf("scan job: %w", err)
		}
		job.Label = types.JobLabel(label)
		job.Status = types.JobStatus(status)
		if errKind.Valid {
			job.Err = &types.ErrorInfo{Kind: types.ErrorKind(errKind.String), Message: errMsg.String}
		}
		byLabel[job.Label] = job
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// Reassemble in the fixed label order.
	for _, label := range types.JobOrder {
		if job, ok := byLabel[label]; ok {
			pipeline.Results = append(pipeline.Results, job)
		}
	}
	if len(pipeline.Results) > 0 {
		rec.Pipeline = pipeline
	}

	return rec, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}
