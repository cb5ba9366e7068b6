package aggregate

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agdataworks/soilsum-cli/internal/model"
)

func TestBuildCumulative_MeanOfMeans(t *testing.T) {
	// Two depths of one configuration: the shallow row pools only itself,
	// the deep row pools both depths with equal weight.
	base := []model.SummaryRow{
		baseRow("0-10cm", 2.0, 1.0),
		baseRow("10-20cm", 4.0, 3.0),
	}
	order := ResolveDepthOrder(base)

	out, err := BuildCumulative(context.Background(), base, order)
	require.NoError(t, err)
	require.Len(t, out, 2)

	byDepth := make(map[string]model.SummaryRow)
	for _, r := range out {
		byDepth[r.Key.SampleDepth] = r
	}

	assert.InDelta(t, 2.0, byDepth["0-10cm"].PercentChangeMean, 1e-9)
	assert.InDelta(t, 1.0, byDepth["0-10cm"].PercentChangeSE, 1e-9)
	assert.InDelta(t, 3.0, byDepth["10-20cm"].PercentChangeMean, 1e-9)
	assert.InDelta(t, 2.0, byDepth["10-20cm"].PercentChangeSE, 1e-9)

	// Rows keep their own depth label and base counts.
	assert.Equal(t, 6, byDepth["10-20cm"].Comparisons)
	assert.Equal(t, "P1; P2", byDepth["10-20cm"].PaperIDs)
}

func TestBuildCumulative_DeeperRowsDoNotAffectShallower(t *testing.T) {
	base := []model.SummaryRow{
		baseRow("0-10cm", 2.0, 1.0),
		baseRow("10-20cm", 4.0, 1.0),
		baseRow("20-40cm", 9.0, 1.0),
	}
	order := ResolveDepthOrder(base)

	out, err := BuildCumulative(context.Background(), base, order)
	require.NoError(t, err)

	byDepth := make(map[string]model.SummaryRow)
	for _, r := range out {
		byDepth[r.Key.SampleDepth] = r
	}
	assert.InDelta(t, 2.0, byDepth["0-10cm"].PercentChangeMean, 1e-9)
	assert.InDelta(t, 3.0, byDepth["10-20cm"].PercentChangeMean, 1e-9)
	assert.InDelta(t, 5.0, byDepth["20-40cm"].PercentChangeMean, 1e-9)
}

func TestBuildCumulative_NarrowedKeyPoolsSubgroups(t *testing.T) {
	// Two base rows at one depth differing only in tillage group: distinct
	// under the base key, pooled under the cumulative key.
	a := baseRow("0-10cm", 2.0, 1.0)
	b := baseRow("0-10cm", 6.0, 3.0)
	b.Key.TillageGroup = "Conventional"
	base := []model.SummaryRow{a, b}

	out, err := BuildCumulative(context.Background(), base, ResolveDepthOrder(base))
	require.NoError(t, err)
	require.Len(t, out, 2)

	for _, r := range out {
		assert.InDelta(t, 4.0, r.PercentChangeMean, 1e-9)
		assert.InDelta(t, 2.0, r.PercentChangeSE, 1e-9)
	}
}

func TestBuildCumulative_DistinctConfigsStaySeparate(t *testing.T) {
	a := baseRow("0-10cm", 2.0, 1.0)
	b := baseRow("0-10cm", 8.0, 1.0)
	b.Key.NutrientGroup = "P"
	base := []model.SummaryRow{a, b}

	out, err := BuildCumulative(context.Background(), base, ResolveDepthOrder(base))
	require.NoError(t, err)
	require.Len(t, out, 2)

	means := map[string]float64{}
	for _, r := range out {
		means[r.Key.NutrientGroup] = r.PercentChangeMean
	}
	assert.InDelta(t, 2.0, means["N"], 1e-9)
	assert.InDelta(t, 8.0, means["P"], 1e-9)
}

func TestBuildCumulative_RowCountMatchesBase(t *testing.T) {
	var base []model.SummaryRow
	for _, depth := range []string{model.SoilSurface, "0-10cm", "10-20cm", "40-60cm"} {
		for _, nutrient := range []string{"N", "P", "K"} {
			r := baseRow(depth, 1.5, 0.2)
			r.Key.NutrientGroup = nutrient
			base = append(base, r)
		}
	}

	out, err := BuildCumulative(context.Background(), base, ResolveDepthOrder(base))
	require.NoError(t, err)
	assert.Len(t, out, len(base))
}

func TestBuildCumulative_CanonicalConcatenationOrder(t *testing.T) {
	base := []model.SummaryRow{
		baseRow("10-20cm", 4.0, 1.0),
		baseRow("0-10cm", 2.0, 1.0),
		baseRow(model.SoilSurface, 1.0, 1.0),
	}
	order := ResolveDepthOrder(base)

	out, err := BuildCumulative(context.Background(), base, order)
	require.NoError(t, err)
	require.Len(t, out, 3)

	// Per-depth results are concatenated in depth order regardless of the
	// input row order.
	assert.Equal(t, model.SoilSurface, out[0].Key.SampleDepth)
	assert.Equal(t, "0-10cm", out[1].Key.SampleDepth)
	assert.Equal(t, "10-20cm", out[2].Key.SampleDepth)
}

func TestBuildCumulative_EmptyBase(t *testing.T) {
	out, err := BuildCumulative(context.Background(), nil, ResolveDepthOrder(nil))
	require.NoError(t, err)
	assert.Empty(t, out)
}
