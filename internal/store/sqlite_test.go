package store

import (
	"context"
	"math"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agdataworks/soilsum-cli/internal/aggregate"
	"github.com/agdataworks/soilsum-cli/internal/model"
)

func newTestSQLite(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLite(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	require.NoError(t, s.Migrate(context.Background()))
	return s
}

func testRow(depth, nutrient string) model.SummaryRow {
	return model.SummaryRow{
		Key: model.ConfigKey{
			ReviewID:       "SHDB",
			GroupLevel1:    "Physical",
			GroupLevel2:    "Bulk density",
			GroupLevel3:    "Soil",
			SampleDepth:    depth,
			SampleYear:     "2015",
			TrtCompareID:   "CC-vs-None",
			Trt1Name:       "Cover crop",
			Trt2Name:       "No cover",
			Trt1Specific:   "rye",
			Trt2Specific:   "none",
			NutrientGroup:  nutrient,
			CoverCropGroup: "Legume",
			TillageGroup:   "No-till",
			PMGroup:        "Organic",
		},
		PercentChangeMean: 3.5,
		PercentChangeSE:   0.25,
		AbsDifferenceMean: 1.2,
		AbsDifferenceSE:   0.1,
		PaperCount:        3,
		Comparisons:       6,
		PaperIDs:          "P1; P2; P3",
		GroupFacet:        "Soil_Bulk density",
	}
}

func testStoreDataset() *aggregate.Dataset {
	base := []model.SummaryRow{
		testRow("0-10cm", "N"),
		testRow("10-20cm", "N"),
		testRow("0-10cm", "P"),
	}
	return &aggregate.Dataset{
		Base:       base,
		Cumulative: base,
		Depths:     aggregate.ResolveDepthOrder(base),
	}
}

func TestSQLiteStore_SaveAndLoad(t *testing.T) {
	s := newTestSQLite(t)
	ctx := context.Background()

	buildID, err := s.SaveDataset(ctx, testStoreDataset())
	require.NoError(t, err)
	require.NotEmpty(t, buildID)

	rows, err := s.LoadSummary(ctx, buildID, KindBase, SummaryFilter{})
	require.NoError(t, err)
	assert.Len(t, rows, 3)

	rows, err = s.LoadSummary(ctx, buildID, KindCumulative, SummaryFilter{Depth: "0-10cm"})
	require.NoError(t, err)
	assert.Len(t, rows, 2)

	rows, err = s.LoadSummary(ctx, buildID, KindBase, SummaryFilter{NutrientGroup: "P"})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "P", rows[0].Key.NutrientGroup)
	assert.Equal(t, 3.5, rows[0].PercentChangeMean)
	assert.Equal(t, "P1; P2; P3", rows[0].PaperIDs)
}

func TestSQLiteStore_InfiniteSERoundTrip(t *testing.T) {
	s := newTestSQLite(t)
	ctx := context.Background()

	ds := testStoreDataset()
	ds.Base[0].AbsDifferenceSE = model.InfiniteSE
	ds.Cumulative = ds.Base

	buildID, err := s.SaveDataset(ctx, ds)
	require.NoError(t, err)

	rows, err := s.LoadSummary(ctx, buildID, KindBase, SummaryFilter{Depth: "0-10cm", NutrientGroup: "N"})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.True(t, math.IsInf(rows[0].AbsDifferenceSE, 1))
}

func TestSQLiteStore_LatestBuild(t *testing.T) {
	s := newTestSQLite(t)
	ctx := context.Background()

	latest, err := s.LatestBuild(ctx)
	require.NoError(t, err)
	assert.Nil(t, latest)

	buildID, err := s.SaveDataset(ctx, testStoreDataset())
	require.NoError(t, err)

	latest, err = s.LatestBuild(ctx)
	require.NoError(t, err)
	require.NotNil(t, latest)
	assert.Equal(t, buildID, latest.ID)
	assert.Equal(t, 3, latest.Rows)
	assert.Equal(t, []string{"0-10cm", "10-20cm"}, latest.DepthLevels)
}

func TestSQLiteStore_ListBuilds(t *testing.T) {
	s := newTestSQLite(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := s.SaveDataset(ctx, testStoreDataset())
		require.NoError(t, err)
	}

	builds, err := s.ListBuilds(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, builds, 2)
}
