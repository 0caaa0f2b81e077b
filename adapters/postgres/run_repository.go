package postgres

import (
	"context"
	"encoding/json"

	"lifereg/domain/model"
	"lifereg/domain/run"
	"lifereg/internal/errors"
	"lifereg/ports"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

// RunRepositoryImpl implements RunRepository for PostgreSQL
type RunRepositoryImpl struct {
	db *sqlx.DB
}

// NewRunRepository creates a new PostgreSQL run repository
func NewRunRepository(db *sqlx.DB) ports.RunRepository {
	return &RunRepositoryImpl{db: db}
}

// Connect opens a PostgreSQL connection and ensures the schema exists.
func Connect(ctx context.Context, url string) (*sqlx.DB, error) {
	db, err := sqlx.ConnectContext(ctx, "postgres", url)
	if err != nil {
		return nil, errors.Wrap(err, "failed to connect to database")
	}
	if err := ensureSchema(ctx, db); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

func ensureSchema(ctx context.Context, db *sqlx.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS analysis_runs (
			run_id        TEXT PRIMARY KEY,
			dataset_path  TEXT NOT NULL,
			year_start    INT NOT NULL,
			year_end      INT NOT NULL,
			vif_threshold DOUBLE PRECISION NOT NULL,
			manifest      JSONB NOT NULL,
			model_summary JSONB NOT NULL,
			vif_table     JSONB NOT NULL,
			created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`)
	if err != nil {
		return errors.Wrap(err, "failed to ensure analysis_runs schema")
	}
	return nil
}

// SaveRun stores the run manifest, final model summary, and VIF table
func (r *RunRepositoryImpl) SaveRun(ctx context.Context, manifest *run.Manifest, fit *model.FitSummary, vifs *model.VIFTable) error {
	manifestJSON, err := json.Marshal(manifest)
	if err != nil {
		return errors.Wrap(err, "failed to marshal run manifest")
	}
	summaryJSON, err := json.Marshal(fit)
	if err != nil {
		return errors.Wrap(err, "failed to marshal model summary")
	}
	vifJSON, err := json.Marshal(vifs)
	if err != nil {
		return errors.Wrap(err, "failed to marshal VIF table")
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO analysis_runs (
			run_id, dataset_path, year_start, year_end, vif_threshold,
			manifest, model_summary, vif_table
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (run_id) DO UPDATE SET
			manifest = EXCLUDED.manifest,
			model_summary = EXCLUDED.model_summary,
			vif_table = EXCLUDED.vif_table`,
		manifest.RunID.String(), manifest.DatasetPath, manifest.YearStart, manifest.YearEnd,
		manifest.VIFThreshold, manifestJSON, summaryJSON, vifJSON)
	if err != nil {
		return errors.Wrap(err, "failed to save analysis run")
	}
	return nil
}
