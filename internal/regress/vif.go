package regress

import (
	"context"

	"lifereg/domain/dataset"
	"lifereg/domain/model"
	"lifereg/internal/errors"

	"golang.org/x/sync/errgroup"
)

// ComputeVIF computes the variance inflation factor of every predictor
// in the specification: VIF_i = 1/(1-R2_i), where R2_i comes from
// regressing predictor i on all other current predictors. The
// per-predictor auxiliary regressions are independent over immutable
// data and run concurrently.
func ComputeVIF(ctx context.Context, table *dataset.FeatureTable, spec model.ModelSpec) (*model.VIFTable, error) {
	if len(spec.Predictors) == 0 {
		return nil, errors.InvalidInput("cannot compute VIF without predictors")
	}

	design, names, err := buildDesign(table, spec)
	if err != nil {
		return nil, err
	}

	entries := make([]model.VIFEntry, len(spec.Predictors))
	g, _ := errgroup.WithContext(ctx)
	for i := range spec.Predictors {
		i := i
		g.Go(func() error {
			r2 := auxiliaryR2(design, i+1)
			vif := 1 / (1 - r2) // +Inf under perfect collinearity, pruned first
			entries[i] = model.VIFEntry{Predictor: names[i+1], VIF: vif}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &model.VIFTable{Entries: entries}, nil
}

// Pruner removes collinear predictors until every VIF falls under the
// threshold, then re-runs backward elimination over the survivors.
type Pruner struct {
	Threshold float64
}

// NewPruner creates a pruner with the given VIF threshold (10 by
// convention; 4 is sometimes advised but not enforced here).
func NewPruner(threshold float64) *Pruner {
	return &Pruner{Threshold: threshold}
}

// Prune iterates: compute VIFs, and while the maximum exceeds the
// threshold remove that predictor and recompute. The loop terminates
// because every iteration shrinks the predictor set; a single surviving
// predictor is terminal regardless of threshold. Pruning an empty
// specification is a threshold-unsatisfiable error. After termination
// backward elimination confirms the AIC-optimal subset within the
// non-collinear space.
func (p *Pruner) Prune(ctx context.Context, table *dataset.FeatureTable, spec model.ModelSpec) (*model.FitSummary, []model.PruneStep, []model.EliminationStep, error) {
	if len(spec.Predictors) == 0 {
		return nil, nil, nil, errors.ThresholdUnsatisfiable(p.Threshold)
	}

	var removals []model.PruneStep
	for len(spec.Predictors) > 1 {
		vt, err := ComputeVIF(ctx, table, spec)
		if err != nil {
			return nil, nil, nil, err
		}
		worst, idx := vt.Max()
		if worst.VIF <= p.Threshold {
			break
		}
		removals = append(removals, model.PruneStep{Removed: worst.Predictor, VIF: worst.VIF})
		spec = spec.WithoutPredictor(idx)
	}

	fit, trail, err := BackwardEliminate(table, spec)
	if err != nil {
		return nil, nil, nil, err
	}
	return fit, removals, trail, nil
}
