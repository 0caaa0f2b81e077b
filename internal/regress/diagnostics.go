package regress

import (
	"math"

	"lifereg/domain/model"

	"github.com/montanaflynn/stats"
)

// Diagnostics exposes the fitted values and residuals of a finalized
// model for external distributional and pattern checks. It makes no
// pass/fail judgement.
type Diagnostics struct {
	Fitted    []float64 `json:"fitted"`
	Residuals []float64 `json:"residuals"`

	ResidualMean   float64 `json:"residual_mean"`
	ResidualStdDev float64 `json:"residual_std_dev"`
	ResidualMin    float64 `json:"residual_min"`
	ResidualMedian float64 `json:"residual_median"`
	ResidualMax    float64 `json:"residual_max"`
	ResidualSkew   float64 `json:"residual_skew"`
}

// Diagnose is a pure function of a finalized fit: it copies the
// parallel fitted/residual sequences and summarizes the residual
// distribution. The fit is not mutated.
func Diagnose(fit *model.FitSummary) *Diagnostics {
	d := &Diagnostics{
		Fitted:    append([]float64(nil), fit.Fitted...),
		Residuals: append([]float64(nil), fit.Residuals...),
	}

	d.ResidualMean, _ = stats.Mean(d.Residuals)
	d.ResidualStdDev, _ = stats.StandardDeviation(d.Residuals)
	d.ResidualMin, _ = stats.Min(d.Residuals)
	d.ResidualMedian, _ = stats.Median(d.Residuals)
	d.ResidualMax, _ = stats.Max(d.Residuals)
	d.ResidualSkew = skewness(d.Residuals, d.ResidualMean, d.ResidualStdDev)

	return d
}

// skewness computes the adjusted Fisher-Pearson coefficient.
func skewness(data []float64, mean, stdDev float64) float64 {
	if len(data) < 3 || stdDev == 0 {
		return 0
	}

	n := float64(len(data))
	sumCubedDeviations := 0.0
	for _, x := range data {
		deviation := (x - mean) / stdDev
		sumCubedDeviations += deviation * deviation * deviation
	}

	skew := sumCubedDeviations / n
	correction := math.Sqrt(n*(n-1)) / (n - 2)
	return skew * correction
}
