package aggregate

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/agdataworks/soilsum-cli/internal/model"
)

func TestNormalize_FillsBlankCategoricals(t *testing.T) {
	records := []model.Record{
		rec(func(r *model.Record) {
			r.GroupLevel2 = ""
			r.Trt1Name = ""
			r.TillageGroup = ""
		}),
	}

	out := Normalize(records)

	assert.Equal(t, model.NAValue, out[0].GroupLevel2)
	assert.Equal(t, model.NAValue, out[0].Trt1Name)
	assert.Equal(t, model.NAValue, out[0].TillageGroup)
	// Non-blank cells are untouched.
	assert.Equal(t, "SHDB", out[0].ReviewID)
}

func TestNormalize_LeavesNumericsAlone(t *testing.T) {
	records := []model.Record{
		rec(func(r *model.Record) {
			r.PercentChange = model.Undefined()
			r.AbsDifference = -3.2
		}),
	}

	out := Normalize(records)

	assert.True(t, math.IsNaN(out[0].PercentChange))
	assert.Equal(t, -3.2, out[0].AbsDifference)
}

func TestNormalize_Idempotent(t *testing.T) {
	records := []model.Record{
		rec(func(r *model.Record) { r.GroupLevel3 = "" }),
		rec(nil),
		rec(func(r *model.Record) { r.PaperID = "" }),
	}

	once := Normalize(records)
	twice := Normalize(once)

	assert.Equal(t, once, twice)
}

func TestNormalize_DoesNotMutateInput(t *testing.T) {
	records := []model.Record{
		rec(func(r *model.Record) { r.SampleYear = "" }),
	}

	_ = Normalize(records)

	assert.Equal(t, "", records[0].SampleYear)
}
