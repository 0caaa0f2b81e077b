package run

import (
	"lifereg/domain/core"
)

// Manifest captures the complete specification and shape of one
// pipeline run: which dataset, which window, which thresholds, and how
// many rows survived each stage. One manifest per run, immutable once
// the run finishes.
type Manifest struct {
	RunID        core.RunID `json:"run_id"`
	DatasetPath  string     `json:"dataset_path"`
	YearStart    int        `json:"year_start"`
	YearEnd      int        `json:"year_end"`
	SkipRows     int        `json:"skip_rows"`
	VIFThreshold float64    `json:"vif_threshold"`

	ObservationsMelted  int `json:"observations_melted"`
	CountriesAggregated int `json:"countries_aggregated"`
	CountriesModeled    int `json:"countries_modeled"`
	IndicatorsSelected  int `json:"indicators_selected"`
	PredictorsInitial   int `json:"predictors_initial"`
	PredictorsFinal     int `json:"predictors_final"`

	RuntimeMs int64          `json:"runtime_ms"`
	CreatedAt core.Timestamp `json:"created_at"`
}

// NewManifest creates a manifest with a fresh run identifier.
func NewManifest(datasetPath string, yearStart, yearEnd, skipRows int, vifThreshold float64) *Manifest {
	return &Manifest{
		RunID:        core.RunID(core.NewID()),
		DatasetPath:  datasetPath,
		YearStart:    yearStart,
		YearEnd:      yearEnd,
		SkipRows:     skipRows,
		VIFThreshold: vifThreshold,
		CreatedAt:    core.Now(),
	}
}
