package aggregate

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agdataworks/soilsum-cli/internal/model"
)

func TestRun_EndToEnd(t *testing.T) {
	// One configuration at two depths, plus blanks for the normalizer.
	records := append(
		groupOf(5, func(i int, r *model.Record) {
			r.GroupLevel1 = "" // normalized to NA
		}),
		groupOf(5, func(i int, r *model.Record) {
			r.GroupLevel1 = ""
			r.SampleDepth = "20-40cm"
			r.PercentChange = float64(i + 2)
		})...,
	)

	ds, err := Run(context.Background(), records, DefaultOptions())
	require.NoError(t, err)

	require.Len(t, ds.Base, 2)
	require.Len(t, ds.Cumulative, len(ds.Base))
	assert.Equal(t, []string{"0-10cm", "20-40cm"}, ds.Depths.Levels())

	byDepth := make(map[string]model.SummaryRow)
	for _, r := range ds.Cumulative {
		byDepth[r.Key.SampleDepth] = r
	}
	// Base means: 3.0 at 0-10cm, 4.0 at 20-40cm; cumulative at the deeper
	// level is their unweighted mean.
	assert.InDelta(t, 3.0, byDepth["0-10cm"].PercentChangeMean, 1e-9)
	assert.InDelta(t, 3.5, byDepth["20-40cm"].PercentChangeMean, 1e-9)

	// Normalized blanks grouped under NA rather than dropping out.
	assert.Equal(t, model.NAValue, ds.Base[0].Key.GroupLevel1)
}

func TestRun_RowCountInvariantHolds(t *testing.T) {
	var records []model.Record
	for _, depth := range []string{"", "0-10cm", "10-20cm", "40-100cm"} {
		for _, nutrient := range []string{"N", "P"} {
			records = append(records, groupOf(6, func(i int, r *model.Record) {
				r.SampleDepth = depth
				r.NutrientGroup = nutrient
				r.PercentChange += float64(i) * 0.3
			})...)
		}
	}

	ds, err := Run(context.Background(), records, DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, len(ds.Base), len(ds.Cumulative))
	assert.Equal(t, 8, len(ds.Base))
}

func TestRun_AllGroupsFilteredIsValid(t *testing.T) {
	ds, err := Run(context.Background(), groupOf(3, nil), DefaultOptions())
	require.NoError(t, err)
	assert.Empty(t, ds.Base)
	assert.Empty(t, ds.Cumulative)
}

func TestRun_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Run(ctx, groupOf(6, nil), DefaultOptions())
	assert.Error(t, err)
}
