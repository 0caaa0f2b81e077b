package regress

import (
	"math"

	"lifereg/domain/dataset"
	"lifereg/domain/model"
	"lifereg/internal/errors"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"
)

// Fit estimates an ordinary-least-squares model for the structured
// specification against the transformed feature table. The design
// matrix carries an intercept column followed by one column per
// predictor term with its link applied. A rank-deficient design is an
// error naming the implicated columns, never a silent drop.
func Fit(table *dataset.FeatureTable, spec model.ModelSpec) (*model.FitSummary, error) {
	n := table.Rows()
	p := len(spec.Predictors)
	if p == 0 {
		return nil, errors.InvalidInput("model specification has no predictors")
	}
	if n <= p+1 {
		return nil, errors.InvalidInput("not enough observations to fit the model")
	}

	y := table.Column(spec.Outcome)
	if y == nil {
		return nil, errors.SchemaMismatch(spec.Outcome.String())
	}

	design, names, err := buildDesign(table, spec)
	if err != nil {
		return nil, err
	}

	if implicated := rankDeficientColumns(design, names); len(implicated) > 0 {
		return nil, errors.RankDeficientDesign(implicated)
	}

	yVec := mat.NewVecDense(n, y)
	var qr mat.QR
	qr.Factorize(design)

	beta := mat.NewVecDense(p+1, nil)
	if err := qr.SolveVecTo(beta, false, yVec); err != nil {
		return nil, errors.Wrap(err, "least squares solve failed")
	}

	// Fitted values and residuals
	fittedVec := mat.NewVecDense(n, nil)
	fittedVec.MulVec(design, beta)

	fitted := make([]float64, n)
	residuals := make([]float64, n)
	rss := 0.0
	meanY := 0.0
	for i := 0; i < n; i++ {
		meanY += y[i]
	}
	meanY /= float64(n)

	tss := 0.0
	for i := 0; i < n; i++ {
		fitted[i] = fittedVec.AtVec(i)
		residuals[i] = y[i] - fitted[i]
		rss += residuals[i] * residuals[i]
		dev := y[i] - meanY
		tss += dev * dev
	}

	dfResidual := n - p - 1
	sigma2 := rss / float64(dfResidual)

	// Coefficient covariance: sigma^2 * (X'X)^-1. The rank check above
	// guarantees the Gram matrix is invertible.
	var gram mat.Dense
	gram.Mul(design.T(), design)
	var gramInv mat.Dense
	if err := gramInv.Inverse(&gram); err != nil {
		return nil, errors.Wrap(err, "failed to invert design Gram matrix")
	}

	tDist := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: float64(dfResidual)}

	coefficientAt := func(idx int, name string) model.Coefficient {
		estimate := beta.AtVec(idx)
		se := math.Sqrt(sigma2 * gramInv.At(idx, idx))
		tStat := estimate / se
		pValue := 2 * (1 - tDist.CDF(math.Abs(tStat)))
		return model.Coefficient{
			Name:     name,
			Estimate: estimate,
			StdError: se,
			TStat:    tStat,
			PValue:   pValue,
		}
	}

	summary := &model.FitSummary{
		Spec:       spec,
		Intercept:  coefficientAt(0, "(Intercept)"),
		N:          n,
		DFModel:    p,
		DFResidual: dfResidual,
		RSS:        rss,
		TSS:        tss,
		Fitted:     fitted,
		Residuals:  residuals,
	}

	for i, pred := range spec.Predictors {
		coef := coefficientAt(i+1, pred.Name())
		coef.Column = pred.Column
		coef.Link = pred.Link
		summary.Coefficients = append(summary.Coefficients, coef)
	}

	summary.R2 = 1 - rss/tss
	summary.AdjustedR2 = 1 - (1-summary.R2)*float64(n-1)/float64(dfResidual)

	summary.FStat = (summary.R2 / float64(p)) / ((1 - summary.R2) / float64(dfResidual))
	fDist := distuv.F{D1: float64(p), D2: float64(dfResidual)}
	summary.FPValue = 1 - fDist.CDF(summary.FStat)

	// Gaussian-error log-likelihood at the MLE variance RSS/n; the
	// parameter count for AIC includes every coefficient plus the
	// error variance, matching the usual OLS convention.
	summary.LogLikelihood = -float64(n) / 2 * (math.Log(2*math.Pi) + math.Log(rss/float64(n)) + 1)
	k := float64(p + 2)
	summary.AIC = 2*k - 2*summary.LogLikelihood

	return summary, nil
}

// buildDesign assembles the n x (p+1) design matrix with an intercept
// in column zero and linked predictor terms after it.
func buildDesign(table *dataset.FeatureTable, spec model.ModelSpec) (*mat.Dense, []string, error) {
	n := table.Rows()
	p := len(spec.Predictors)

	design := mat.NewDense(n, p+1, nil)
	names := make([]string, p+1)
	names[0] = "(Intercept)"
	for i := 0; i < n; i++ {
		design.Set(i, 0, 1)
	}

	for j, pred := range spec.Predictors {
		col := table.Column(pred.Column)
		if col == nil {
			return nil, nil, errors.SchemaMismatch(pred.Column.String())
		}
		names[j+1] = pred.Name()
		for i := 0; i < n; i++ {
			design.Set(i, j+1, pred.Link.Apply(col[i]))
		}
	}

	return design, names, nil
}

// rankDeficientColumns returns the names of design columns implicated
// in perfect collinearity, or nil when the design has full column rank.
// Implicated columns are found by regressing each non-intercept column
// on the remaining ones and flagging near-unit R-squared.
func rankDeficientColumns(design *mat.Dense, names []string) []string {
	n, cols := design.Dims()

	var svd mat.SVD
	if !svd.Factorize(design, mat.SVDThin) {
		return names[1:]
	}
	values := svd.Values(nil)
	tol := float64(max(n, cols)) * values[0] * 1e-14
	rank := 0
	for _, v := range values {
		if v > tol {
			rank++
		}
	}
	if rank == cols {
		return nil
	}

	var implicated []string
	for j := 1; j < cols; j++ {
		r2 := auxiliaryR2(design, j)
		if r2 > 1-1e-9 {
			implicated = append(implicated, names[j])
		}
	}
	if len(implicated) == 0 {
		// Deficiency without a clean single-column culprit; report all.
		implicated = append(implicated, names[1:]...)
	}
	return implicated
}

// auxiliaryR2 regresses design column j on the remaining columns and
// returns the R-squared of that auxiliary regression.
func auxiliaryR2(design *mat.Dense, j int) float64 {
	n, cols := design.Dims()

	target := make([]float64, n)
	others := mat.NewDense(n, cols-1, nil)
	for i := 0; i < n; i++ {
		target[i] = design.At(i, j)
		k := 0
		for c := 0; c < cols; c++ {
			if c == j {
				continue
			}
			others.Set(i, k, design.At(i, c))
			k++
		}
	}

	// Least squares via SVD pseudo-inverse so the auxiliary fit never
	// fails on its own collinearity.
	var svd mat.SVD
	if !svd.Factorize(others, mat.SVDThin) {
		return 0
	}
	beta := mat.NewDense(cols-1, 1, nil)
	svd.SolveTo(beta, mat.NewDense(n, 1, target), svdRank(&svd, n, cols-1))

	mean := 0.0
	for _, v := range target {
		mean += v
	}
	mean /= float64(n)

	rss := 0.0
	tss := 0.0
	for i := 0; i < n; i++ {
		pred := 0.0
		for c := 0; c < cols-1; c++ {
			pred += others.At(i, c) * beta.At(c, 0)
		}
		resid := target[i] - pred
		rss += resid * resid
		dev := target[i] - mean
		tss += dev * dev
	}
	if tss == 0 {
		// Constant column against an intercept-bearing design is
		// perfectly explained.
		return 1
	}
	return 1 - rss/tss
}

func svdRank(svd *mat.SVD, rows, cols int) int {
	values := svd.Values(nil)
	if len(values) == 0 {
		return 0
	}
	tol := float64(max(rows, cols)) * values[0] * 1e-14
	rank := 0
	for _, v := range values {
		if v > tol {
			rank++
		}
	}
	return rank
}
