package loader

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agdataworks/soilsum-cli/internal/model"
)

func TestReadRecords_ColumnMapping(t *testing.T) {
	// Columns out of schema order, mixed-case header.
	csv := `Paper_ID,review_id,SAMPLE_DEPTH,percent_change,abs_difference,trt1_name,trt2_name
P1,SHDB,0-10cm,12.5,0.4,Cover crop,No cover
P2,SHDB,10-20cm,-3,,Cover crop,No cover`

	records, err := ReadRecords(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, "P1", records[0].PaperID)
	assert.Equal(t, "0-10cm", records[0].SampleDepth)
	assert.Equal(t, 12.5, records[0].PercentChange)
	assert.Equal(t, 0.4, records[0].AbsDifference)

	// Missing numeric cell loads as undefined, not zero.
	assert.Equal(t, -3.0, records[1].PercentChange)
	assert.False(t, model.Defined(records[1].AbsDifference))

	// Columns absent from the file load as blank.
	assert.Equal(t, "", records[0].NutrientGroup)
}

func TestReadRecords_UnparseableNumericUndefined(t *testing.T) {
	csv := `review_id,paper_id,percent_change
SHDB,P1,not-a-number
SHDB,P2,NA`

	records, err := ReadRecords(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.False(t, model.Defined(records[0].PercentChange))
	assert.False(t, model.Defined(records[1].PercentChange))
}

func TestReadRecords_MissingRequiredColumn(t *testing.T) {
	csv := `review_id,percent_change
SHDB,1.0`

	_, err := ReadRecords(strings.NewReader(csv))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "paper_id")
}

func TestReadRecords_TrimsWhitespace(t *testing.T) {
	csv := `review_id, paper_id , sample_depth
SHDB, P1 , 0-10cm `

	records, err := ReadRecords(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "P1", records[0].PaperID)
	assert.Equal(t, "0-10cm", records[0].SampleDepth)
}
