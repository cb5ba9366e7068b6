package aggregate

import (
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/agdataworks/soilsum-cli/internal/model"
)

// DefaultMinComparisons is the minimum group size a base summary row must
// exceed to survive the sample-size filter.
const DefaultMinComparisons = 4

// Options tunes the aggregation filters.
type Options struct {
	// MinComparisons drops base groups with this many comparisons or fewer.
	MinComparisons int

	// KeepZeroSE disables the degenerate-variance filter. Off by default:
	// a zero standard error means every value in the group was identical,
	// which is non-informative rather than infinitely confident.
	KeepZeroSE bool
}

// DefaultOptions returns the filter settings matching the original analysis.
func DefaultOptions() Options {
	return Options{MinComparisons: DefaultMinComparisons}
}

// BuildBase partitions normalized records by their full configuration key
// (depth included) and computes per-group statistics for both outcome
// measures. Groups failing the sample-size, degenerate-variance, or
// self-comparison filters never reach the output. Output order is not
// significant; consumers re-sort.
func BuildBase(records []model.Record, opts Options) []model.SummaryRow {
	type group struct {
		pct    []float64
		abs    []float64
		papers map[string]struct{}
		count  int
	}

	groups := make(map[model.ConfigKey]*group)
	for _, r := range records {
		key := keyOf(r)
		g, ok := groups[key]
		if !ok {
			g = &group{papers: make(map[string]struct{})}
			groups[key] = g
		}
		g.count++
		g.papers[r.PaperID] = struct{}{}
		if model.Defined(r.PercentChange) {
			g.pct = append(g.pct, r.PercentChange)
		}
		if model.Defined(r.AbsDifference) {
			g.abs = append(g.abs, r.AbsDifference)
		}
	}

	rows := make([]model.SummaryRow, 0, len(groups))
	var dropped, selfDropped int
	for key, g := range groups {
		// Self-comparisons are meaningless unless both names are the NA
		// category, where the pair identifiers still distinguish the arms.
		if key.Trt1Name == key.Trt2Name && key.Trt1Name != model.NAValue {
			selfDropped++
			continue
		}

		row := model.SummaryRow{
			Key:               key,
			PercentChangeMean: mean(g.pct),
			PercentChangeSE:   stdErr(g.pct),
			AbsDifferenceMean: mean(g.abs),
			AbsDifferenceSE:   stdErr(g.abs),
			PaperCount:        len(g.papers),
			Comparisons:       g.count,
			PaperIDs:          joinPapers(g.papers),
			GroupFacet:        key.GroupLevel3 + "_" + key.GroupLevel2,
		}

		if row.Comparisons <= opts.MinComparisons {
			dropped++
			continue
		}
		// NaN fails both comparisons, so undefined SEs are dropped here too.
		if !opts.KeepZeroSE && !(row.PercentChangeSE > 0 && row.AbsDifferenceSE > 0) {
			dropped++
			continue
		}

		rows = append(rows, row)
	}

	zap.L().Info("aggregate: base summary built",
		zap.Int("groups", len(groups)),
		zap.Int("rows", len(rows)),
		zap.Int("filtered", dropped),
		zap.Int("self_comparisons", selfDropped),
	)
	return rows
}

// keyOf builds the full configuration key for one record, substituting the
// surface label for records with no recorded depth.
func keyOf(r model.Record) model.ConfigKey {
	depth := r.SampleDepth
	if depth == "" || depth == model.NAValue {
		depth = model.SoilSurface
	}
	return model.ConfigKey{
		ReviewID:       r.ReviewID,
		GroupLevel1:    r.GroupLevel1,
		GroupLevel2:    r.GroupLevel2,
		GroupLevel3:    r.GroupLevel3,
		SampleDepth:    depth,
		SampleYear:     r.SampleYear,
		TrtCompareID:   r.TrtCompareID,
		Trt1:           r.Trt1,
		Trt2:           r.Trt2,
		Trt1Name:       r.Trt1Name,
		Trt2Name:       r.Trt2Name,
		Trt1Specific:   r.Trt1Specific,
		Trt2Specific:   r.Trt2Specific,
		NutrientGroup:  r.NutrientGroup,
		CoverCropGroup: r.CoverCropGroup,
		TillageGroup:   r.TillageGroup,
		PMGroup:        r.PMGroup,
	}
}

func joinPapers(papers map[string]struct{}) string {
	ids := make([]string, 0, len(papers))
	for id := range papers {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return strings.Join(ids, "; ")
}
