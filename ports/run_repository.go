package ports

import (
	"context"

	"lifereg/domain/model"
	"lifereg/domain/run"
)

// RunRepository persists finished pipeline runs. The analysis core
// never depends on a concrete store; persistence is optional and
// strictly after the fact.
type RunRepository interface {
	// SaveRun stores the run manifest together with the final model
	// summary and its VIF table.
	SaveRun(ctx context.Context, manifest *run.Manifest, fit *model.FitSummary, vifs *model.VIFTable) error
}
