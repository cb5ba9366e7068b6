package aggregate

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/agdataworks/soilsum-cli/internal/model"
)

// BuildCumulative recomputes each base row's statistics as the unweighted
// mean over all base rows of the same cumulative configuration at
// shallower-or-equal depths. Each depth level is an independent filter and
// regroup over the read-only base rows, so levels are evaluated
// concurrently and concatenated back in canonical depth order.
//
// The cumulative figure is a mean of the per-depth means and SEs already in
// the base summary, not a re-aggregation of raw records: shallower depths
// may summarize more raw rows than deeper ones, but every depth level
// carries equal weight. That approximation is deliberate — it gives
// "surface through D" statistics at each depth in one pass over the base
// summary.
//
// Exactly one output row is produced per base row.
func BuildCumulative(ctx context.Context, base []model.SummaryRow, order DepthOrder) ([]model.SummaryRow, error) {
	levels := order.Levels()
	perLevel := make([][]model.SummaryRow, len(levels))

	g, ctx := errgroup.WithContext(ctx)
	for i := range levels {
		i := i
		g.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}
			perLevel[i] = cumulativeAtDepth(base, order, i)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var out []model.SummaryRow
	for _, rows := range perLevel {
		out = append(out, rows...)
	}
	return out, nil
}

// cumulativeAtDepth computes the cumulative rows emitted at the depth level
// with rank depthRank: base rows in the ordering prefix are pooled by
// cumulative key, the pooled statistics are averaged, and only rows whose
// own depth is exactly the level are emitted, carrying the pooled figures
// under their original depth label.
func cumulativeAtDepth(base []model.SummaryRow, order DepthOrder, depthRank int) []model.SummaryRow {
	type pool struct {
		pctMean, pctSE []float64
		absMean, absSE []float64
	}

	pools := make(map[model.CumulativeKey]*pool)
	for _, row := range base {
		if order.Rank(row.Key.SampleDepth) > depthRank {
			continue
		}
		k := row.Key.Cumulative()
		p, ok := pools[k]
		if !ok {
			p = &pool{}
			pools[k] = p
		}
		p.pctMean = append(p.pctMean, row.PercentChangeMean)
		p.pctSE = append(p.pctSE, row.PercentChangeSE)
		p.absMean = append(p.absMean, row.AbsDifferenceMean)
		p.absSE = append(p.absSE, row.AbsDifferenceSE)
	}

	level := order.Levels()[depthRank]
	var out []model.SummaryRow
	for _, row := range base {
		if row.Key.SampleDepth != level {
			continue
		}
		p := pools[row.Key.Cumulative()]
		row.PercentChangeMean = mean(defined(p.pctMean))
		row.PercentChangeSE = mean(defined(p.pctSE))
		row.AbsDifferenceMean = mean(defined(p.absMean))
		row.AbsDifferenceSE = mean(defined(p.absSE))
		out = append(out, row)
	}
	return out
}
