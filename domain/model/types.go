package model

import (
	"fmt"
	"math"

	"lifereg/domain/core"
)

// Link is the documented nonlinear form a predictor enters the design
// matrix with. Links are applied to normalized columns, so sqrt(1-x)
// stays real-valued.
type Link string

const (
	LinkIdentity     Link = "identity"
	LinkSqrt         Link = "sqrt"
	LinkSqrtOneMinus Link = "sqrt_one_minus"
)

// Apply evaluates the link at a single value.
func (l Link) Apply(x float64) float64 {
	switch l {
	case LinkSqrt:
		return math.Sqrt(x)
	case LinkSqrtOneMinus:
		return math.Sqrt(1 - x)
	default:
		return x
	}
}

// Label renders the linked form of a column for display and reporting.
func (l Link) Label(column core.IndicatorKey) string {
	switch l {
	case LinkSqrt:
		return fmt.Sprintf("sqrt(%s)", column)
	case LinkSqrtOneMinus:
		return fmt.Sprintf("sqrt(1-%s)", column)
	default:
		return string(column)
	}
}

// PredictorSpec is one structured predictor term: a column plus its
// link function. This replaces any formula-string building.
type PredictorSpec struct {
	Column core.IndicatorKey `json:"column"`
	Link   Link              `json:"link"`
}

// Name returns the display form of the term.
func (p PredictorSpec) Name() string {
	return p.Link.Label(p.Column)
}

// ModelSpec is the full structured model specification consumed by the
// fitting routine: one outcome column and an ordered predictor list.
type ModelSpec struct {
	Outcome    core.IndicatorKey `json:"outcome"`
	Predictors []PredictorSpec   `json:"predictors"`
}

// WithoutPredictor returns a copy of the spec with predictor i removed.
func (s ModelSpec) WithoutPredictor(i int) ModelSpec {
	preds := make([]PredictorSpec, 0, len(s.Predictors)-1)
	preds = append(preds, s.Predictors[:i]...)
	preds = append(preds, s.Predictors[i+1:]...)
	return ModelSpec{Outcome: s.Outcome, Predictors: preds}
}

// PredictorNames returns the ordered display names of all terms.
func (s ModelSpec) PredictorNames() []string {
	names := make([]string, len(s.Predictors))
	for i, p := range s.Predictors {
		names[i] = p.Name()
	}
	return names
}

// Coefficient is one fitted term with its inference statistics.
type Coefficient struct {
	Name     string            `json:"name"`
	Column   core.IndicatorKey `json:"column,omitempty"`
	Link     Link              `json:"link,omitempty"`
	Estimate float64           `json:"estimate"`
	StdError float64           `json:"std_error"`
	TStat    float64           `json:"t_stat"`
	PValue   float64           `json:"p_value"`
}

// FitSummary is a fitted ordinary-least-squares model. It is created by
// the model builder and treated as read-only once diagnostics begin.
type FitSummary struct {
	Spec         ModelSpec     `json:"spec"`
	Intercept    Coefficient   `json:"intercept"`
	Coefficients []Coefficient `json:"coefficients"`

	N          int     `json:"n"`
	DFModel    int     `json:"df_model"`
	DFResidual int     `json:"df_residual"`

	R2            float64 `json:"r2"`
	AdjustedR2    float64 `json:"adjusted_r2"`
	FStat         float64 `json:"f_stat"`
	FPValue       float64 `json:"f_p_value"`
	RSS           float64 `json:"rss"`
	TSS           float64 `json:"tss"`
	LogLikelihood float64 `json:"log_likelihood"`
	AIC           float64 `json:"aic"`

	Fitted    []float64 `json:"-"`
	Residuals []float64 `json:"-"`
}

// CoefficientByName looks up a fitted term by its display name.
func (f *FitSummary) CoefficientByName(name string) (Coefficient, bool) {
	for _, c := range f.Coefficients {
		if c.Name == name {
			return c, true
		}
	}
	return Coefficient{}, false
}

// VIFEntry scores one predictor's variance inflation.
type VIFEntry struct {
	Predictor string  `json:"predictor"`
	VIF       float64 `json:"vif"`
}

// VIFTable maps every current predictor to its variance inflation
// factor. It is transient: recomputed whenever the predictor set changes.
type VIFTable struct {
	Entries []VIFEntry `json:"entries"`
}

// Max returns the entry with the highest VIF and its position.
func (t *VIFTable) Max() (VIFEntry, int) {
	best := -1
	for i, e := range t.Entries {
		if best < 0 || e.VIF > t.Entries[best].VIF {
			best = i
		}
	}
	if best < 0 {
		return VIFEntry{}, -1
	}
	return t.Entries[best], best
}

// EliminationStep records one accepted backward-elimination removal.
type EliminationStep struct {
	Removed string  `json:"removed"`
	AIC     float64 `json:"aic"`
}

// PruneStep records one accepted collinearity-pruning removal.
type PruneStep struct {
	Removed string  `json:"removed"`
	VIF     float64 `json:"vif"`
}
