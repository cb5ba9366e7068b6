package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agdataworks/soilsum-cli/internal/model"
)

func TestLoadRecords_CSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "comparisons.csv")
	csv := `review_id,paper_id,sample_depth,percent_change
SHDB,P1,0-10cm,12.5
SHDB,P2,0-10cm,8.0`
	require.NoError(t, os.WriteFile(path, []byte(csv), 0o644))

	records, err := loadRecords(path, "")
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "P1", records[0].PaperID)
}

func TestLoadRecords_MissingFile(t *testing.T) {
	_, err := loadRecords(filepath.Join(t.TempDir(), "absent.csv"), "")
	assert.Error(t, err)
}

func TestWriteRows_Formats(t *testing.T) {
	rows := []model.SummaryRow{{
		Key:               model.ConfigKey{ReviewID: "SHDB", SampleDepth: "0-10cm"},
		PercentChangeMean: 3.5,
		GroupFacet:        "Soil_Bulk density",
	}}

	csvPath := filepath.Join(t.TempDir(), "out.csv")
	require.NoError(t, writeRows(rows, csvPath, "csv"))
	data, err := os.ReadFile(csvPath)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "review_id,"))

	jsonPath := filepath.Join(t.TempDir(), "out.json")
	require.NoError(t, writeRows(rows, jsonPath, "json"))
	data, err = os.ReadFile(jsonPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"pct_mean": 3.5`)

	assert.Error(t, writeRows(rows, filepath.Join(t.TempDir(), "out.x"), "xml"))
}

func TestFormatCoord(t *testing.T) {
	assert.Equal(t, "51.8", formatCoord(51.8))
	assert.Equal(t, "", formatCoord(model.Undefined()))
}
