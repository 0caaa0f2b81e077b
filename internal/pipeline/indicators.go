package pipeline

import (
	"lifereg/domain/core"
	"lifereg/domain/model"
)

// OutcomeIndicator is the modeled outcome: life expectancy at birth.
const OutcomeIndicator = core.IndicatorKey("SP.DYN.LE00.IN")

// PredictorIndicators is the fixed 19-indicator predictor whitelist.
// Together with the outcome this is the 20-indicator selection the
// cleaner requires; a matrix missing any of these fails loudly.
var PredictorIndicators = []core.IndicatorKey{
	"EG.ELC.ACCS.ZS",    // access to electricity (% of population)
	"SH.H2O.BASW.ZS",    // basic drinking water services (% of population)
	"SH.STA.BASS.ZS",    // basic sanitation services (% of population)
	"NY.GDP.PCAP.CD",    // GDP per capita (current US$)
	"NY.GNP.PCAP.CD",    // GNI per capita (current US$)
	"SP.URB.TOTL.IN.ZS", // urban population (% of total)
	"SH.XPD.CHEX.PC.CD", // current health expenditure per capita (US$)
	"SE.PRM.ENRR",       // primary school enrollment (% gross)
	"SH.DYN.MORT",       // under-5 mortality rate (per 1,000)
	"SP.DYN.TFRT.IN",    // fertility rate (births per woman)
	"SH.IMM.MEAS",       // measles immunization (% of children 12-23 months)
	"SH.IMM.IDPT",       // DPT immunization (% of children 12-23 months)
	"EN.ATM.CO2E.PC",    // CO2 emissions (metric tons per capita)
	"EN.ATM.PM25.MC.M3", // PM2.5 air pollution (micrograms per cubic meter)
	"SP.POP.GROW",       // population growth (annual %)
	"SL.UEM.TOTL.ZS",    // unemployment (% of labor force)
	"AG.LND.FRST.ZS",    // forest area (% of land area)
	"SH.TBS.INCD",       // tuberculosis incidence (per 100,000)
	"IT.NET.USER.ZS",    // individuals using the internet (% of population)
}

// RightSkewedIndicators receive log(1+x) before normalization.
var RightSkewedIndicators = []core.IndicatorKey{
	"NY.GDP.PCAP.CD",
	"NY.GNP.PCAP.CD",
	"SH.XPD.CHEX.PC.CD",
	"SH.DYN.MORT",
	"EN.ATM.CO2E.PC",
	"SH.TBS.INCD",
}

// LeftSkewedIndicators are percentage columns piled up near 100; they
// receive log(C-x) with the configured reflect offset (101 by default).
var LeftSkewedIndicators = []core.IndicatorKey{
	"EG.ELC.ACCS.ZS",
	"SH.H2O.BASW.ZS",
	"SH.IMM.MEAS",
	"SH.IMM.IDPT",
}

// RequiredIndicators returns the full whitelist: outcome plus predictors.
func RequiredIndicators() []core.IndicatorKey {
	required := make([]core.IndicatorKey, 0, len(PredictorIndicators)+1)
	required = append(required, OutcomeIndicator)
	required = append(required, PredictorIndicators...)
	return required
}

// DefaultModelSpec builds the full structured model: every predictor,
// with sqrt links on the saturating adoption shares and sqrt(1-x) links
// on the decreasing-and-concave hazards. Links apply to normalized
// columns, so both forms stay real-valued.
func DefaultModelSpec() model.ModelSpec {
	links := map[core.IndicatorKey]model.Link{
		"IT.NET.USER.ZS":    model.LinkSqrt,
		"SP.URB.TOTL.IN.ZS": model.LinkSqrt,
		"SH.DYN.MORT":       model.LinkSqrtOneMinus,
		"SP.DYN.TFRT.IN":    model.LinkSqrtOneMinus,
	}

	spec := model.ModelSpec{Outcome: OutcomeIndicator}
	for _, col := range PredictorIndicators {
		link := model.LinkIdentity
		if l, ok := links[col]; ok {
			link = l
		}
		spec.Predictors = append(spec.Predictors, model.PredictorSpec{Column: col, Link: link})
	}
	return spec
}
