package store

import (
	"strings"

	"github.com/agdataworks/soilsum-cli/internal/model"
)

// summaryColumns is the column order shared by both backends for
// summary_rows inserts and selects.
var summaryColumns = []string{
	"build_id", "kind",
	"review_id", "group_level1", "group_level2", "group_level3",
	"sample_depth", "sample_year", "trt_compare", "trt1", "trt2",
	"trt1_name", "trt2_name", "trt1_specific", "trt2_specific",
	"nutrient_group", "cc_group", "tillage_group", "pm_group",
	"pct_mean", "pct_se", "abs_mean", "abs_se",
	"paper_count", "comparisons", "paper_ids", "group_facet",
}

func summaryArgs(buildID string, kind Kind, row model.SummaryRow) []any {
	k := row.Key
	return []any{
		buildID, string(kind),
		k.ReviewID, k.GroupLevel1, k.GroupLevel2, k.GroupLevel3,
		k.SampleDepth, k.SampleYear, k.TrtCompareID, k.Trt1, k.Trt2,
		k.Trt1Name, k.Trt2Name, k.Trt1Specific, k.Trt2Specific,
		k.NutrientGroup, k.CoverCropGroup, k.TillageGroup, k.PMGroup,
		row.PercentChangeMean, row.PercentChangeSE,
		row.AbsDifferenceMean, row.AbsDifferenceSE,
		row.PaperCount, row.Comparisons, row.PaperIDs, row.GroupFacet,
	}
}

// scanTargets returns scan destinations for the non-key columns of one
// summary row, in summaryColumns order minus build_id and kind.
func scanTargets(row *model.SummaryRow) []any {
	k := &row.Key
	return []any{
		&k.ReviewID, &k.GroupLevel1, &k.GroupLevel2, &k.GroupLevel3,
		&k.SampleDepth, &k.SampleYear, &k.TrtCompareID, &k.Trt1, &k.Trt2,
		&k.Trt1Name, &k.Trt2Name, &k.Trt1Specific, &k.Trt2Specific,
		&k.NutrientGroup, &k.CoverCropGroup, &k.TillageGroup, &k.PMGroup,
		&row.PercentChangeMean, &row.PercentChangeSE,
		&row.AbsDifferenceMean, &row.AbsDifferenceSE,
		&row.PaperCount, &row.Comparisons, &row.PaperIDs, &row.GroupFacet,
	}
}

// selectColumns is the projection used when loading summary rows.
var selectColumns = strings.Join(summaryColumns[2:], ", ")

// filterPairs maps filter fields to their column predicates. Both backends
// build WHERE clauses from the same pairs; only the placeholder syntax
// differs.
func filterPairs(f SummaryFilter) (cols []string, args []any) {
	if f.ReviewID != "" {
		cols = append(cols, "review_id")
		args = append(args, f.ReviewID)
	}
	if f.GroupFacet != "" {
		cols = append(cols, "group_facet")
		args = append(args, f.GroupFacet)
	}
	if f.NutrientGroup != "" {
		cols = append(cols, "nutrient_group")
		args = append(args, f.NutrientGroup)
	}
	if f.Depth != "" {
		cols = append(cols, "sample_depth")
		args = append(args, f.Depth)
	}
	return cols, args
}
