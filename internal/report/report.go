package report

import (
	"fmt"
	"strings"

	"lifereg/domain/core"
	"lifereg/internal/pipeline"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
)

// displayNames maps indicator codes to readable labels. This is purely
// presentational; the computational core only ever sees the codes.
var displayNames = map[core.IndicatorKey]string{
	"SP.DYN.LE00.IN":    "Life expectancy at birth",
	"EG.ELC.ACCS.ZS":    "Access to electricity",
	"SH.H2O.BASW.ZS":    "Basic drinking water",
	"SH.STA.BASS.ZS":    "Basic sanitation",
	"NY.GDP.PCAP.CD":    "GDP per capita",
	"NY.GNP.PCAP.CD":    "GNI per capita",
	"SP.URB.TOTL.IN.ZS": "Urban population share",
	"SH.XPD.CHEX.PC.CD": "Health expenditure per capita",
	"SE.PRM.ENRR":       "Primary school enrollment",
	"SH.DYN.MORT":       "Under-5 mortality",
	"SP.DYN.TFRT.IN":    "Fertility rate",
	"SH.IMM.MEAS":       "Measles immunization",
	"SH.IMM.IDPT":       "DPT immunization",
	"EN.ATM.CO2E.PC":    "CO2 emissions per capita",
	"EN.ATM.PM25.MC.M3": "PM2.5 air pollution",
	"SP.POP.GROW":       "Population growth",
	"SL.UEM.TOTL.ZS":    "Unemployment",
	"AG.LND.FRST.ZS":    "Forest area",
	"SH.TBS.INCD":       "Tuberculosis incidence",
	"IT.NET.USER.ZS":    "Internet users",
}

// DisplayName returns the readable label for an indicator code,
// falling back to the code itself.
func DisplayName(key core.IndicatorKey) string {
	if name, ok := displayNames[key]; ok {
		return name
	}
	return key.String()
}

// BuildMarkdown renders the run result as a markdown report: fit
// statistics, coefficient table, elimination trail, pruning trail, VIF
// table, and residual summary.
func BuildMarkdown(res *pipeline.RunResult) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Life Expectancy Regression Run %s\n\n", res.Manifest.RunID)
	fmt.Fprintf(&b, "Dataset: `%s`, years %d-%d, %d countries modeled.\n\n",
		res.Manifest.DatasetPath, res.Manifest.YearStart, res.Manifest.YearEnd, res.Manifest.CountriesModeled)

	fit := res.FinalFit
	fmt.Fprintf(&b, "## Final model\n\n")
	fmt.Fprintf(&b, "Outcome: %s (normalized). N=%d, R²=%.4f, adjusted R²=%.4f, F=%.2f (p=%.4g), AIC=%.2f.\n\n",
		DisplayName(fit.Spec.Outcome), fit.N, fit.R2, fit.AdjustedR2, fit.FStat, fit.FPValue, fit.AIC)

	fmt.Fprintf(&b, "| Term | Estimate | Std. Error | t | p |\n")
	fmt.Fprintf(&b, "|---|---|---|---|---|\n")
	fmt.Fprintf(&b, "| %s | %.4f | %.4f | %.2f | %.4g |\n",
		fit.Intercept.Name, fit.Intercept.Estimate, fit.Intercept.StdError, fit.Intercept.TStat, fit.Intercept.PValue)
	for _, c := range fit.Coefficients {
		fmt.Fprintf(&b, "| %s | %.4f | %.4f | %.2f | %.4g |\n",
			c.Name, c.Estimate, c.StdError, c.TStat, c.PValue)
	}
	b.WriteString("\n")

	if len(res.Elimination) > 0 {
		fmt.Fprintf(&b, "## Backward elimination\n\n")
		for _, step := range res.Elimination {
			fmt.Fprintf(&b, "- removed %s (AIC %.2f)\n", step.Removed, step.AIC)
		}
		b.WriteString("\n")
	}

	if len(res.PruneSteps) > 0 {
		fmt.Fprintf(&b, "## Collinearity pruning\n\n")
		for _, step := range res.PruneSteps {
			fmt.Fprintf(&b, "- removed %s (VIF %.2f)\n", step.Removed, step.VIF)
		}
		b.WriteString("\n")
	}

	if res.FinalVIF != nil && len(res.FinalVIF.Entries) > 0 {
		fmt.Fprintf(&b, "## Variance inflation factors\n\n")
		fmt.Fprintf(&b, "| Predictor | VIF |\n|---|---|\n")
		for _, e := range res.FinalVIF.Entries {
			fmt.Fprintf(&b, "| %s | %.2f |\n", e.Predictor, e.VIF)
		}
		b.WriteString("\n")
	}

	if d := res.Diagnostics; d != nil {
		fmt.Fprintf(&b, "## Residuals\n\n")
		fmt.Fprintf(&b, "mean %.4g, sd %.4g, min %.4g, median %.4g, max %.4g, skew %.3f\n",
			d.ResidualMean, d.ResidualStdDev, d.ResidualMin, d.ResidualMedian, d.ResidualMax, d.ResidualSkew)
	}

	return b.String()
}

// RenderHTML converts a markdown report to a standalone HTML document.
func RenderHTML(md string) []byte {
	p := parser.NewWithExtensions(parser.CommonExtensions | parser.Tables)
	doc := p.Parse([]byte(md))
	renderer := html.NewRenderer(html.RendererOptions{Flags: html.CommonFlags | html.CompletePage})
	return markdown.Render(doc, renderer)
}
