package report

import (
	"strings"
	"testing"

	"lifereg/domain/model"
	"lifereg/domain/run"
	"lifereg/internal/pipeline"
	"lifereg/internal/regress"
)

func sampleResult() *pipeline.RunResult {
	manifest := run.NewManifest("wdi.csv", 2013, 2017, 3084, 10)
	manifest.CountriesModeled = 120

	fit := &model.FitSummary{
		Spec: model.ModelSpec{
			Outcome: "SP.DYN.LE00.IN",
			Predictors: []model.PredictorSpec{
				{Column: "SH.DYN.MORT", Link: model.LinkSqrtOneMinus},
				{Column: "NY.GDP.PCAP.CD", Link: model.LinkIdentity},
			},
		},
		Intercept: model.Coefficient{Name: "(Intercept)", Estimate: 0.9, StdError: 0.02, TStat: 45, PValue: 1e-40},
		Coefficients: []model.Coefficient{
			{Name: "sqrt(1-SH.DYN.MORT)", Estimate: -0.6, StdError: 0.05, TStat: -12, PValue: 1e-20},
			{Name: "NY.GDP.PCAP.CD", Estimate: 0.2, StdError: 0.04, TStat: 5, PValue: 1e-6},
		},
		N: 120, R2: 0.91, AdjustedR2: 0.90, FStat: 600, FPValue: 1e-50, AIC: -410.2,
		Fitted:    []float64{0.5, 0.6},
		Residuals: []float64{0.01, -0.01},
	}

	return &pipeline.RunResult{
		Manifest:    manifest,
		FinalFit:    fit,
		Elimination: []model.EliminationStep{{Removed: "SL.UEM.TOTL.ZS", AIC: -408.8}},
		PruneSteps:  []model.PruneStep{{Removed: "NY.GNP.PCAP.CD", VIF: 24.7}},
		FinalVIF: &model.VIFTable{Entries: []model.VIFEntry{
			{Predictor: "sqrt(1-SH.DYN.MORT)", VIF: 1.8},
			{Predictor: "NY.GDP.PCAP.CD", VIF: 1.8},
		}},
		Diagnostics: regress.Diagnose(fit),
	}
}

func TestBuildMarkdown_CoversAllSections(t *testing.T) {
	md := BuildMarkdown(sampleResult())

	for _, want := range []string{
		"## Final model",
		"## Backward elimination",
		"## Collinearity pruning",
		"## Variance inflation factors",
		"## Residuals",
		"Life expectancy at birth", // display name, not the raw code
		"sqrt(1-SH.DYN.MORT)",
		"removed SL.UEM.TOTL.ZS",
		"removed NY.GNP.PCAP.CD (VIF 24.70)",
	} {
		if !strings.Contains(md, want) {
			t.Errorf("markdown report missing %q", want)
		}
	}
}

func TestBuildMarkdown_OmitsEmptyTrails(t *testing.T) {
	res := sampleResult()
	res.Elimination = nil
	res.PruneSteps = nil

	md := BuildMarkdown(res)
	if strings.Contains(md, "## Backward elimination") {
		t.Error("empty elimination trail should not produce a section")
	}
	if strings.Contains(md, "## Collinearity pruning") {
		t.Error("empty pruning trail should not produce a section")
	}
}

func TestRenderHTML(t *testing.T) {
	out := string(RenderHTML(BuildMarkdown(sampleResult())))

	if !strings.Contains(out, "<html") {
		t.Error("expected a complete HTML page")
	}
	if !strings.Contains(out, "<table>") {
		t.Error("expected the coefficient table to render as HTML")
	}
}

func TestDisplayName_FallsBackToCode(t *testing.T) {
	if got := DisplayName("XX.UNKNOWN"); got != "XX.UNKNOWN" {
		t.Errorf("unknown code should fall back to itself, got %q", got)
	}
}
