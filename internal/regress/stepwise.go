package regress

import (
	"math"

	"lifereg/domain/dataset"
	"lifereg/domain/model"
)

// aicTieTolerance treats criterion differences below it as ties.
const aicTieTolerance = 1e-9

// BackwardEliminate performs stepwise backward elimination under AIC.
// At every step it fits each single-predictor-removed variant and
// adopts the removal with the lowest criterion; when no removal
// strictly improves on the current model it stops. Tied removals are
// broken by dropping the predictor with the highest p-value in the
// current model (the least statistically supported); this is a policy
// choice, not a property of the algorithm. The search never goes below
// one predictor and terminates in at most len(spec.Predictors) steps.
func BackwardEliminate(table *dataset.FeatureTable, spec model.ModelSpec) (*model.FitSummary, []model.EliminationStep, error) {
	current, err := Fit(table, spec)
	if err != nil {
		return nil, nil, err
	}

	var trail []model.EliminationStep
	for len(current.Spec.Predictors) > 1 {
		bestIdx := -1
		bestAIC := math.Inf(1)
		var bestFit *model.FitSummary

		for i := range current.Spec.Predictors {
			candidate, err := Fit(table, current.Spec.WithoutPredictor(i))
			if err != nil {
				// A removal that makes the reduced design unfit is
				// simply not a legal move.
				continue
			}
			switch {
			case candidate.AIC < bestAIC-aicTieTolerance:
				bestIdx, bestAIC, bestFit = i, candidate.AIC, candidate
			case math.Abs(candidate.AIC-bestAIC) <= aicTieTolerance && bestIdx >= 0:
				if current.Coefficients[i].PValue > current.Coefficients[bestIdx].PValue {
					bestIdx, bestFit = i, candidate
				}
			}
		}

		if bestFit == nil || bestAIC >= current.AIC-aicTieTolerance {
			break
		}

		trail = append(trail, model.EliminationStep{
			Removed: current.Coefficients[bestIdx].Name,
			AIC:     bestAIC,
		})
		current = bestFit
	}

	return current, trail, nil
}
