package pipeline

import (
	"context"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"lifereg/internal/config"
)

// writeSyntheticDataset writes a wide-format CSV covering the full
// indicator whitelist for 30 countries over 2012-2017, with two ragged
// metadata rows between the header and the data. Values are a smooth
// deterministic function of country, indicator, and year, kept inside
// the ranges the skew transforms require.
func writeSyntheticDataset(t *testing.T) string {
	t.Helper()

	var b strings.Builder
	b.WriteString("Country Name,Country Code,Indicator Name,Indicator Code,2012,2013,2014,2015,2016,2017\n")
	b.WriteString("last updated,2020\n")
	b.WriteString("synthetic fixture\n")

	indicators := RequiredIndicators()
	for ci := 0; ci < 30; ci++ {
		country := fmt.Sprintf("Country %02d", ci)
		for ii, ind := range indicators {
			fmt.Fprintf(&b, "%s,C%02d,Indicator %d,%s", country, ci, ii, ind)
			for year := 2012; year <= 2017; year++ {
				v := 50 +
					40*math.Sin(0.7*float64(ci)+1.3*float64(ii)) +
					5*math.Sin(float64(ci*ii+year))
				fmt.Fprintf(&b, ",%.4f", v)
			}
			b.WriteString("\n")
		}
	}

	path := filepath.Join(t.TempDir(), "wdi.csv")
	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}
	return path
}

func TestRunner_EndToEnd(t *testing.T) {
	checkpointDir := t.TempDir()
	cfg := &config.Config{
		Data: config.DataConfig{
			DatasetFile:     writeSyntheticDataset(t),
			SkipRows:        2,
			CountryColumn:   "Country Name",
			IndicatorColumn: "Indicator Code",
		},
		Analysis: config.AnalysisConfig{
			YearStart:     2013,
			YearEnd:       2017,
			VIFThreshold:  10,
			ReflectOffset: 101,
		},
		Paths: config.PathConfig{CheckpointDir: checkpointDir},
	}

	runner := NewRunner(cfg, nil, nil)
	result, err := runner.Run(context.Background())
	if err != nil {
		t.Fatalf("pipeline run failed: %v", err)
	}

	m := result.Manifest
	if m.RunID == "" {
		t.Error("manifest should carry a run id")
	}
	if m.CountriesAggregated != 30 {
		t.Errorf("expected 30 aggregated countries, got %d", m.CountriesAggregated)
	}
	if m.CountriesModeled != 30 {
		t.Errorf("expected 30 complete countries, got %d", m.CountriesModeled)
	}
	if m.IndicatorsSelected != 20 {
		t.Errorf("expected the 20-indicator whitelist, got %d", m.IndicatorsSelected)
	}
	if m.PredictorsInitial != 19 {
		t.Errorf("expected 19 initial predictors, got %d", m.PredictorsInitial)
	}
	if m.PredictorsFinal < 1 || m.PredictorsFinal > m.PredictorsInitial {
		t.Errorf("final predictor count out of range: %d", m.PredictorsFinal)
	}

	if result.InitialFit == nil || result.FinalFit == nil {
		t.Fatal("initial and final fits must both be present")
	}
	if result.FinalFit.AIC > result.InitialFit.AIC+1e-9 && len(result.PruneSteps) == 0 {
		t.Errorf("without pruning the final AIC cannot exceed the initial: %v > %v",
			result.FinalFit.AIC, result.InitialFit.AIC)
	}

	// The surviving predictor set satisfies the threshold unless pruning
	// ran down to a single terminal predictor.
	if len(result.FinalFit.Spec.Predictors) > 1 {
		worst, _ := result.FinalVIF.Max()
		if worst.VIF > cfg.Analysis.VIFThreshold {
			t.Errorf("final max VIF %.2f exceeds threshold", worst.VIF)
		}
	}

	d := result.Diagnostics
	if d == nil {
		t.Fatal("diagnostics missing")
	}
	if len(d.Fitted) != m.CountriesModeled || len(d.Residuals) != m.CountriesModeled {
		t.Errorf("diagnostics sequences must parallel the modeled countries")
	}
	if math.Abs(d.ResidualMean) > 1e-6 {
		t.Errorf("residual mean should be ~0 for an intercept model, got %v", d.ResidualMean)
	}

	for _, name := range []string{"country_indicator_matrix.csv", "transformed_features.csv"} {
		if _, err := os.Stat(filepath.Join(checkpointDir, name)); err != nil {
			t.Errorf("expected checkpoint %s: %v", name, err)
		}
	}
}

func TestRunner_RequiresDataset(t *testing.T) {
	cfg := &config.Config{
		Analysis: config.AnalysisConfig{YearStart: 2013, YearEnd: 2017, VIFThreshold: 10, ReflectOffset: 101},
	}
	if _, err := NewRunner(cfg, nil, nil).Run(context.Background()); err == nil {
		t.Fatal("expected error without a dataset file")
	}
}
