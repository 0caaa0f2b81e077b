package regress

import (
	"testing"

	"lifereg/domain/core"
	"lifereg/domain/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBackwardEliminate_DropsNullPredictor(t *testing.T) {
	// X2 is exactly orthogonal to the outcome signal, so removing it
	// leaves the residual sum of squares unchanged and lowers AIC by
	// exactly 2 (one parameter fewer).
	x2 := make([]float64, len(p3Fixture))
	for i, v := range p3Fixture {
		x2[i] = 0.5 + 0.1*v
	}
	table := fixtureTable(t, map[core.IndicatorKey][]float64{
		"Y":  outcomeFixture(),
		"X1": x1Fixture,
		"X2": x2,
	})
	spec := model.ModelSpec{
		Outcome: "Y",
		Predictors: []model.PredictorSpec{
			{Column: "X1", Link: model.LinkIdentity},
			{Column: "X2", Link: model.LinkIdentity},
		},
	}

	initial, err := Fit(table, spec)
	require.NoError(t, err)

	final, trail, err := BackwardEliminate(table, spec)
	require.NoError(t, err)

	require.Len(t, trail, 1)
	assert.Equal(t, "X2", trail[0].Removed)
	require.Len(t, final.Spec.Predictors, 1)
	assert.Equal(t, core.IndicatorKey("X1"), final.Spec.Predictors[0].Column)
	assert.InDelta(t, initial.AIC-2, final.AIC, 1e-6)
}

func TestBackwardEliminate_TrailIsStrictlyDecreasing(t *testing.T) {
	x2 := make([]float64, len(p3Fixture))
	x3 := make([]float64, len(p4Fixture))
	for i := range p3Fixture {
		x2[i] = 0.5 + 0.1*p3Fixture[i]
		x3[i] = 0.5 + 0.1*p4Fixture[i]
	}
	table := fixtureTable(t, map[core.IndicatorKey][]float64{
		"Y":  outcomeFixture(),
		"X1": x1Fixture,
		"X2": x2,
		"X3": x3,
	})
	spec := model.ModelSpec{
		Outcome: "Y",
		Predictors: []model.PredictorSpec{
			{Column: "X1", Link: model.LinkIdentity},
			{Column: "X2", Link: model.LinkIdentity},
			{Column: "X3", Link: model.LinkIdentity},
		},
	}

	initial, err := Fit(table, spec)
	require.NoError(t, err)

	final, trail, err := BackwardEliminate(table, spec)
	require.NoError(t, err)

	// Both null predictors go; at most one step per initial predictor.
	require.Len(t, trail, 2)
	assert.LessOrEqual(t, len(trail), len(spec.Predictors))

	prev := initial.AIC
	for _, step := range trail {
		assert.Less(t, step.AIC, prev, "criterion must decrease at every adopted step")
		prev = step.AIC
	}
	assert.Equal(t, prev, final.AIC)

	require.Len(t, final.Spec.Predictors, 1)
	assert.Equal(t, core.IndicatorKey("X1"), final.Spec.Predictors[0].Column)
}

func TestBackwardEliminate_NeverGoesBelowOnePredictor(t *testing.T) {
	table := fixtureTable(t, map[core.IndicatorKey][]float64{
		"Y":  outcomeFixture(),
		"X1": x1Fixture,
	})
	spec := model.ModelSpec{
		Outcome:    "Y",
		Predictors: []model.PredictorSpec{{Column: "X1", Link: model.LinkIdentity}},
	}

	final, trail, err := BackwardEliminate(table, spec)
	require.NoError(t, err)
	assert.Empty(t, trail)
	assert.Len(t, final.Spec.Predictors, 1)
}
