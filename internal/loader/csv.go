package loader

import (
	"encoding/csv"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/agdataworks/soilsum-cli/internal/model"
)

// requiredColumns are the columns a comparison-record source must carry.
// The remaining schema columns are optional and load as blank (normalized
// to the NA category downstream).
var requiredColumns = []string{"review_id", "paper_id"}

// LoadCSV reads comparison records from a CSV file.
func LoadCSV(path string) ([]model.Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrapf(err, "loader: open %s", path)
	}
	defer f.Close()

	records, err := ReadRecords(f)
	if err != nil {
		return nil, eris.Wrapf(err, "loader: read %s", path)
	}
	return records, nil
}

// ReadRecords parses comparison records from CSV data. Column order is
// free; names are matched case-insensitively. Rows with the wrong field
// count are skipped; malformed numeric cells load as undefined.
func ReadRecords(r io.Reader) ([]model.Record, error) {
	reader := csv.NewReader(r)
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, eris.Wrap(err, "loader: read CSV header")
	}
	colIdx := mapColumns(header)

	for _, col := range requiredColumns {
		if _, ok := colIdx[col]; !ok {
			return nil, eris.Errorf("loader: missing required column %q", col)
		}
	}

	var records []model.Record
	var skipped int
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			skipped++
			continue
		}
		records = append(records, recordFromRow(row, colIdx))
	}

	if skipped > 0 {
		zap.L().Warn("loader: skipped malformed rows", zap.Int("rows", skipped))
	}
	return records, nil
}

func recordFromRow(row []string, colIdx map[string]int) model.Record {
	get := func(name string) string {
		return strings.TrimSpace(getCol(row, colIdx, name))
	}
	return model.Record{
		ReviewID:       get("review_id"),
		GroupLevel1:    get("group_level1"),
		GroupLevel2:    get("group_level2"),
		GroupLevel3:    get("group_level3"),
		SampleDepth:    get("sample_depth"),
		SampleYear:     get("sample_year"),
		TrtCompareID:   get("trt_compare"),
		Trt1:           get("trt1"),
		Trt2:           get("trt2"),
		Trt1Name:       get("trt1_name"),
		Trt2Name:       get("trt2_name"),
		Trt1Specific:   get("trt1_specific"),
		Trt2Specific:   get("trt2_specific"),
		NutrientGroup:  get("nutrient_group"),
		CoverCropGroup: get("cc_group"),
		TillageGroup:   get("tillage_group"),
		PMGroup:        get("pm_group"),
		PaperID:        get("paper_id"),
		PercentChange:  parseFloatOrUndefined(get("percent_change")),
		AbsDifference:  parseFloatOrUndefined(get("abs_difference")),
	}
}

// parseFloatOrUndefined treats blanks, "NA", and unparseable cells as
// no-value: they are excluded from mean/SE computation, not read as zero.
func parseFloatOrUndefined(s string) float64 {
	if s == "" || s == model.NAValue {
		return model.Undefined()
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		zap.L().Debug("loader: unparseable numeric cell", zap.String("value", s))
		return model.Undefined()
	}
	return v
}

// mapColumns builds a case-insensitive column name to index map.
func mapColumns(header []string) map[string]int {
	m := make(map[string]int, len(header))
	for i, col := range header {
		m[strings.ToLower(strings.TrimSpace(col))] = i
	}
	return m
}

// getCol gets a column value by name, returning empty string if not found.
func getCol(row []string, colIdx map[string]int, name string) string {
	idx, ok := colIdx[name]
	if !ok || idx >= len(row) {
		return ""
	}
	return row[idx]
}
