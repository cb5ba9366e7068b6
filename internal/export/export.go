// Package export writes summary datasets for external filtering and
// plotting consumers.
package export

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"math"
	"strconv"

	"github.com/rotisserie/eris"

	"github.com/agdataworks/soilsum-cli/internal/model"
)

var csvHeader = []string{
	"review_id", "group_level1", "group_level2", "group_level3",
	"sample_depth", "sample_year", "trt_compare", "trt1", "trt2",
	"trt1_name", "trt2_name", "trt1_specific", "trt2_specific",
	"nutrient_group", "cc_group", "tillage_group", "pm_group",
	"pct_mean", "pct_se", "abs_mean", "abs_se",
	"paper_count", "comparisons", "paper_ids", "group_facet",
}

// WriteCSV writes rows as CSV. Infinite standard errors render as "Inf".
func WriteCSV(w io.Writer, rows []model.SummaryRow) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return eris.Wrap(err, "export: write csv header")
	}
	for _, r := range rows {
		k := r.Key
		rec := []string{
			k.ReviewID, k.GroupLevel1, k.GroupLevel2, k.GroupLevel3,
			k.SampleDepth, k.SampleYear, k.TrtCompareID, k.Trt1, k.Trt2,
			k.Trt1Name, k.Trt2Name, k.Trt1Specific, k.Trt2Specific,
			k.NutrientGroup, k.CoverCropGroup, k.TillageGroup, k.PMGroup,
			formatFloat(r.PercentChangeMean), formatFloat(r.PercentChangeSE),
			formatFloat(r.AbsDifferenceMean), formatFloat(r.AbsDifferenceSE),
			strconv.Itoa(r.PaperCount), strconv.Itoa(r.Comparisons),
			r.PaperIDs, r.GroupFacet,
		}
		if err := cw.Write(rec); err != nil {
			return eris.Wrap(err, "export: write csv row")
		}
	}
	cw.Flush()
	return eris.Wrap(cw.Error(), "export: flush csv")
}

func formatFloat(v float64) string {
	if math.IsInf(v, 1) {
		return "Inf"
	}
	if math.IsNaN(v) {
		return "NA"
	}
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// Float renders a statistic in JSON: numbers as numbers, the infinite
// sentinel as the string "Inf", undefined as null. Plain float64 would
// fail to encode the sentinel.
type Float float64

func (f Float) MarshalJSON() ([]byte, error) {
	v := float64(f)
	switch {
	case math.IsInf(v, 1):
		return []byte(`"Inf"`), nil
	case math.IsNaN(v):
		return []byte("null"), nil
	default:
		return json.Marshal(v)
	}
}

// Row is the JSON shape of one summary row.
type Row struct {
	ReviewID     string `json:"review_id"`
	GroupLevel1  string `json:"group_level1"`
	GroupLevel2  string `json:"group_level2"`
	GroupLevel3  string `json:"group_level3"`
	SampleDepth  string `json:"sample_depth"`
	SampleYear   string `json:"sample_year"`
	TrtCompareID string `json:"trt_compare"`
	Trt1         string `json:"trt1"`
	Trt2         string `json:"trt2"`
	Trt1Name     string `json:"trt1_name"`
	Trt2Name     string `json:"trt2_name"`
	Trt1Specific string `json:"trt1_specific"`
	Trt2Specific string `json:"trt2_specific"`

	NutrientGroup  string `json:"nutrient_group"`
	CoverCropGroup string `json:"cc_group"`
	TillageGroup   string `json:"tillage_group"`
	PMGroup        string `json:"pm_group"`

	PercentChangeMean Float `json:"pct_mean"`
	PercentChangeSE   Float `json:"pct_se"`
	AbsDifferenceMean Float `json:"abs_mean"`
	AbsDifferenceSE   Float `json:"abs_se"`

	PaperCount  int    `json:"paper_count"`
	Comparisons int    `json:"comparisons"`
	PaperIDs    string `json:"paper_ids"`
	GroupFacet  string `json:"group_facet"`
}

// ToRow converts a summary row to its JSON shape.
func ToRow(r model.SummaryRow) Row {
	k := r.Key
	return Row{
		ReviewID:          k.ReviewID,
		GroupLevel1:       k.GroupLevel1,
		GroupLevel2:       k.GroupLevel2,
		GroupLevel3:       k.GroupLevel3,
		SampleDepth:       k.SampleDepth,
		SampleYear:        k.SampleYear,
		TrtCompareID:      k.TrtCompareID,
		Trt1:              k.Trt1,
		Trt2:              k.Trt2,
		Trt1Name:          k.Trt1Name,
		Trt2Name:          k.Trt2Name,
		Trt1Specific:      k.Trt1Specific,
		Trt2Specific:      k.Trt2Specific,
		NutrientGroup:     k.NutrientGroup,
		CoverCropGroup:    k.CoverCropGroup,
		TillageGroup:      k.TillageGroup,
		PMGroup:           k.PMGroup,
		PercentChangeMean: Float(r.PercentChangeMean),
		PercentChangeSE:   Float(r.PercentChangeSE),
		AbsDifferenceMean: Float(r.AbsDifferenceMean),
		AbsDifferenceSE:   Float(r.AbsDifferenceSE),
		PaperCount:        r.PaperCount,
		Comparisons:       r.Comparisons,
		PaperIDs:          r.PaperIDs,
		GroupFacet:        r.GroupFacet,
	}
}

// WriteJSON writes rows as a JSON array.
func WriteJSON(w io.Writer, rows []model.SummaryRow) error {
	out := make([]Row, len(rows))
	for i, r := range rows {
		out[i] = ToRow(r)
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return eris.Wrap(enc.Encode(out), "export: write json")
}
