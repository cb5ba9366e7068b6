package aggregate

import "github.com/agdataworks/soilsum-cli/internal/model"

// rec builds a comparison record with sensible defaults, letting each test
// override only what it exercises.
func rec(mut func(*model.Record)) model.Record {
	r := model.Record{
		ReviewID:       "SHDB",
		GroupLevel1:    "Physical",
		GroupLevel2:    "Bulk density",
		GroupLevel3:    "Soil",
		SampleDepth:    "0-10cm",
		SampleYear:     "2015",
		TrtCompareID:   "CC-vs-None",
		Trt1:           "T1",
		Trt2:           "T2",
		Trt1Name:       "Cover crop",
		Trt2Name:       "No cover",
		Trt1Specific:   "rye",
		Trt2Specific:   "none",
		NutrientGroup:  "N",
		CoverCropGroup: "Legume",
		TillageGroup:   "No-till",
		PMGroup:        "Organic",
		PaperID:        "P1",
		PercentChange:  1.0,
		AbsDifference:  0.5,
	}
	if mut != nil {
		mut(&r)
	}
	return r
}

// groupOf builds n records in one configuration group with distinct outcome
// values so neither standard error degenerates to zero.
func groupOf(n int, mut func(i int, r *model.Record)) []model.Record {
	records := make([]model.Record, 0, n)
	for i := 0; i < n; i++ {
		r := rec(nil)
		r.PercentChange = float64(i + 1)
		r.AbsDifference = float64(i+1) / 10
		if mut != nil {
			mut(i, &r)
		}
		records = append(records, r)
	}
	return records
}

// baseRow builds a base summary row for cumulative-stage tests that bypass
// BuildBase.
func baseRow(depth string, pctMean, pctSE float64) model.SummaryRow {
	return model.SummaryRow{
		Key: model.ConfigKey{
			ReviewID:       "SHDB",
			GroupLevel1:    "Physical",
			GroupLevel2:    "Bulk density",
			GroupLevel3:    "Soil",
			SampleDepth:    depth,
			SampleYear:     "2015",
			TrtCompareID:   "CC-vs-None",
			Trt1:           "T1",
			Trt2:           "T2",
			Trt1Name:       "Cover crop",
			Trt2Name:       "No cover",
			Trt1Specific:   "rye",
			Trt2Specific:   "none",
			NutrientGroup:  "N",
			CoverCropGroup: "Legume",
			TillageGroup:   "No-till",
			PMGroup:        "Organic",
		},
		PercentChangeMean: pctMean,
		PercentChangeSE:   pctSE,
		AbsDifferenceMean: pctMean / 2,
		AbsDifferenceSE:   pctSE / 2,
		PaperCount:        2,
		Comparisons:       6,
		PaperIDs:          "P1; P2",
		GroupFacet:        "Soil_Bulk density",
	}
}
