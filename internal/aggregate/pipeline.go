package aggregate

import (
	"context"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/agdataworks/soilsum-cli/internal/model"
)

// Dataset is the output of one pipeline run: the base and cumulative
// summaries plus the depth ordering they were built under. All three are
// derived wholesale per run and immutable afterwards.
type Dataset struct {
	Base       []model.SummaryRow
	Cumulative []model.SummaryRow
	Depths     DepthOrder
}

// Run executes the full aggregation pipeline: normalize, base-aggregate,
// resolve the depth ordering, cumulative-aggregate, sanitize variances,
// and verify the row-count invariant. A row-count mismatch between the base
// and cumulative summaries is a data-integrity failure and aborts the
// build: downstream filtering assumes a 1:1 correspondence, and silent loss
// would corrupt every consumer's row counts.
func Run(ctx context.Context, records []model.Record, opts Options) (*Dataset, error) {
	normalized := Normalize(records)
	base := BuildBase(normalized, opts)
	order := ResolveDepthOrder(base)

	cumulative, err := BuildCumulative(ctx, base, order)
	if err != nil {
		return nil, eris.Wrap(err, "aggregate: cumulative build")
	}
	SanitizeVariance(cumulative)

	if len(cumulative) != len(base) {
		return nil, eris.Errorf("aggregate: row-count invariant violated: base=%d cumulative=%d",
			len(base), len(cumulative))
	}

	zap.L().Info("aggregate: pipeline complete",
		zap.Int("records", len(records)),
		zap.Int("rows", len(base)),
		zap.Int("depth_levels", len(order.Levels())),
	)
	return &Dataset{Base: base, Cumulative: cumulative, Depths: order}, nil
}
