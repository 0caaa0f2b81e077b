package pipeline

import (
	"context"
	"path/filepath"
	"time"

	"lifereg/adapters/tabular"
	"lifereg/domain/model"
	"lifereg/domain/run"
	"lifereg/internal"
	"lifereg/internal/config"
	"lifereg/internal/errors"
	"lifereg/internal/regress"
	"lifereg/ports"
)

// RunResult bundles everything a single pipeline run produced.
type RunResult struct {
	Manifest *run.Manifest

	Scales      []ColumnScale
	InitialFit  *model.FitSummary
	Elimination []model.EliminationStep
	PruneSteps  []model.PruneStep
	PostPrune   []model.EliminationStep
	FinalFit    *model.FitSummary
	FinalVIF    *model.VIFTable
	Diagnostics *regress.Diagnostics
}

// Runner orchestrates the sequential batch pipeline: load, aggregate,
// select, transform, fit, eliminate, prune, diagnose. Each run owns its
// loaded table exclusively; nothing is shared across runs.
type Runner struct {
	cfg  *config.Config
	log  *internal.Logger
	repo ports.RunRepository // nil disables persistence
}

// NewRunner creates a runner; repo may be nil.
func NewRunner(cfg *config.Config, logger *internal.Logger, repo ports.RunRepository) *Runner {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &Runner{cfg: cfg, log: logger, repo: repo}
}

// Run executes the whole pipeline once. Any stage error aborts the run;
// there are no retries in a deterministic batch computation.
func (r *Runner) Run(ctx context.Context) (*RunResult, error) {
	if r.cfg.Data.DatasetFile == "" {
		return nil, errors.ConfigInvalid("dataset file is required")
	}

	started := time.Now()
	manifest := run.NewManifest(
		r.cfg.Data.DatasetFile,
		r.cfg.Analysis.YearStart,
		r.cfg.Analysis.YearEnd,
		r.cfg.Data.SkipRows,
		r.cfg.Analysis.VIFThreshold,
	)
	r.log.Info("run %s: loading %s", manifest.RunID, r.cfg.Data.DatasetFile)

	reader := tabular.NewDataReader(r.cfg.Data.DatasetFile, tabular.ReaderOptions{
		SkipRows:  r.cfg.Data.SkipRows,
		SheetName: r.cfg.Data.SheetName,
	})
	raw, err := reader.ReadTable()
	if err != nil {
		return nil, errors.Wrap(err, "loading dataset failed")
	}

	obs, err := Melt(raw, MeltOptions{
		CountryColumn:   r.cfg.Data.CountryColumn,
		IndicatorColumn: r.cfg.Data.IndicatorColumn,
	})
	if err != nil {
		return nil, errors.Wrap(err, "reshaping to long form failed")
	}
	manifest.ObservationsMelted = len(obs)

	aggregator := NewAggregator(r.cfg.Analysis.YearStart, r.cfg.Analysis.YearEnd)
	matrix, err := aggregator.Aggregate(obs)
	if err != nil {
		return nil, errors.Wrap(err, "aggregation failed")
	}
	manifest.CountriesAggregated = len(matrix.Countries)
	r.log.Info("aggregated %d countries x %d indicators over %d-%d",
		len(matrix.Countries), len(matrix.Indicators), r.cfg.Analysis.YearStart, r.cfg.Analysis.YearEnd)

	if dir := r.cfg.Paths.CheckpointDir; dir != "" {
		path := filepath.Join(dir, "country_indicator_matrix.csv")
		if err := tabular.WriteMatrixCSV(path, matrix); err != nil {
			return nil, errors.Wrap(err, "writing matrix checkpoint failed")
		}
		r.log.Debug("checkpoint written: %s", path)
	}

	selector := NewSelector(RequiredIndicators())
	features, err := selector.SelectClean(matrix)
	if err != nil {
		return nil, errors.Wrap(err, "selection failed")
	}
	manifest.CountriesModeled = features.Rows()
	manifest.IndicatorsSelected = len(features.Columns)
	r.log.Info("selected %d complete countries over %d indicators", features.Rows(), len(features.Columns))

	transformer := NewTransformer(RightSkewedIndicators, LeftSkewedIndicators, r.cfg.Analysis.ReflectOffset)
	transformed, scales, err := transformer.Apply(features)
	if err != nil {
		return nil, errors.Wrap(err, "transformation failed")
	}

	if dir := r.cfg.Paths.CheckpointDir; dir != "" {
		path := filepath.Join(dir, "transformed_features.csv")
		if err := tabular.WriteFeatureCSV(path, transformed); err != nil {
			return nil, errors.Wrap(err, "writing feature checkpoint failed")
		}
		r.log.Debug("checkpoint written: %s", path)
	}

	spec := DefaultModelSpec()
	manifest.PredictorsInitial = len(spec.Predictors)

	initial, err := regress.Fit(transformed, spec)
	if err != nil {
		return nil, errors.Wrap(err, "fitting the full model failed")
	}
	r.log.Info("full model: R2=%.4f AIC=%.2f", initial.R2, initial.AIC)

	reduced, trail, err := regress.BackwardEliminate(transformed, spec)
	if err != nil {
		return nil, errors.Wrap(err, "backward elimination failed")
	}
	r.log.Info("backward elimination removed %d predictors, AIC=%.2f", len(trail), reduced.AIC)

	pruner := regress.NewPruner(r.cfg.Analysis.VIFThreshold)
	final, pruneSteps, postTrail, err := pruner.Prune(ctx, transformed, reduced.Spec)
	if err != nil {
		return nil, errors.Wrap(err, "collinearity pruning failed")
	}
	manifest.PredictorsFinal = len(final.Spec.Predictors)
	r.log.Info("pruning removed %d collinear predictors, final model has %d terms, R2=%.4f",
		len(pruneSteps), len(final.Spec.Predictors), final.R2)

	finalVIF, err := regress.ComputeVIF(ctx, transformed, final.Spec)
	if err != nil {
		return nil, errors.Wrap(err, "final VIF computation failed")
	}

	manifest.RuntimeMs = time.Since(started).Milliseconds()

	result := &RunResult{
		Manifest:    manifest,
		Scales:      scales,
		InitialFit:  initial,
		Elimination: trail,
		PruneSteps:  pruneSteps,
		PostPrune:   postTrail,
		FinalFit:    final,
		FinalVIF:    finalVIF,
		Diagnostics: regress.Diagnose(final),
	}

	if r.repo != nil {
		if err := r.repo.SaveRun(ctx, manifest, final, finalVIF); err != nil {
			return nil, errors.Wrap(err, "persisting run failed")
		}
		r.log.Info("run %s persisted", manifest.RunID)
	}

	return result, nil
}
