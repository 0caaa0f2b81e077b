package pipeline

import (
	"math"

	"lifereg/domain/core"
	"lifereg/domain/dataset"
	"lifereg/internal/errors"

	"github.com/montanaflynn/stats"
)

// SkewTransform identifies which monotonic compression a column received.
type SkewTransform string

const (
	TransformNone         SkewTransform = "none"
	TransformLog1p        SkewTransform = "log1p"        // log(1+x), right-skewed columns
	TransformReflectedLog SkewTransform = "reflected_log" // log(C-x), left-skewed columns
)

// ColumnScale records the normalization parameters fitted for one
// column; coefficient interpretation downstream depends on them.
type ColumnScale struct {
	Column    core.IndicatorKey `json:"column"`
	Transform SkewTransform     `json:"transform"`
	Min       float64           `json:"min"` // post-transform minimum
	Max       float64           `json:"max"` // post-transform maximum
}

// Transformer applies variable-specific monotonic transforms followed
// by min-max normalization to [0,1] on every column. Min-max is the
// documented convention here; the alternative z-score convention was
// deliberately not adopted so that the sqrt(1-x) predictor link stays
// well defined on every normalized column.
type Transformer struct {
	RightSkewed   []core.IndicatorKey
	LeftSkewed    []core.IndicatorKey
	ReflectOffset float64 // C in log(C-x); must exceed every left-skewed value
}

// NewTransformer creates a transformer with the given skew sets and
// reflection constant (101 for percentage-scaled columns).
func NewTransformer(rightSkewed, leftSkewed []core.IndicatorKey, reflectOffset float64) *Transformer {
	return &Transformer{
		RightSkewed:   rightSkewed,
		LeftSkewed:    leftSkewed,
		ReflectOffset: reflectOffset,
	}
}

// Apply returns a transformed copy of the feature table plus the fitted
// per-column scales. The input table is never mutated. Both transforms
// are strictly monotonic: log1p is increasing, log(C-x) is decreasing,
// so reflected columns flip orientation but never collapse ranks.
func (t *Transformer) Apply(table *dataset.FeatureTable) (*dataset.FeatureTable, []ColumnScale, error) {
	out := table.Clone()
	scales := make([]ColumnScale, len(out.Columns))

	for j, col := range out.Columns {
		transform := t.transformFor(col)

		for i := range out.Data {
			v := out.Data[i][j]
			switch transform {
			case TransformLog1p:
				if v <= -1 {
					return nil, nil, errors.InvalidInput("column " + col.String() + " has values <= -1, log(1+x) undefined")
				}
				out.Data[i][j] = math.Log1p(v)
			case TransformReflectedLog:
				if v >= t.ReflectOffset {
					return nil, nil, errors.InvalidInput("column " + col.String() + " has values >= reflect offset, log(C-x) undefined")
				}
				out.Data[i][j] = math.Log(t.ReflectOffset - v)
			}
		}

		column := make([]float64, len(out.Data))
		for i := range out.Data {
			column[i] = out.Data[i][j]
		}
		min, err := stats.Min(column)
		if err != nil {
			return nil, nil, errors.Wrapf(err, "normalization failed for column %s", col)
		}
		max, err := stats.Max(column)
		if err != nil {
			return nil, nil, errors.Wrapf(err, "normalization failed for column %s", col)
		}
		if max == min {
			return nil, nil, errors.DegenerateColumn(col.String())
		}

		span := max - min
		for i := range out.Data {
			out.Data[i][j] = (out.Data[i][j] - min) / span
		}

		scales[j] = ColumnScale{
			Column:    col,
			Transform: transform,
			Min:       min,
			Max:       max,
		}
	}

	return out, scales, nil
}

func (t *Transformer) transformFor(col core.IndicatorKey) SkewTransform {
	for _, c := range t.RightSkewed {
		if c == col {
			return TransformLog1p
		}
	}
	for _, c := range t.LeftSkewed {
		if c == col {
			return TransformReflectedLog
		}
	}
	return TransformNone
}
