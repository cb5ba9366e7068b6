package store

import (
	"context"
	"time"

	"github.com/agdataworks/soilsum-cli/internal/aggregate"
	"github.com/agdataworks/soilsum-cli/internal/model"
)

// Kind selects one of the two summaries of a build.
type Kind string

const (
	KindBase       Kind = "base"
	KindCumulative Kind = "cumulative"
)

// Build records one persisted pipeline run.
type Build struct {
	ID          string
	CreatedAt   time.Time
	Rows        int
	DepthLevels []string
}

// SummaryFilter specifies criteria for loading summary rows. Zero-valued
// fields match everything.
type SummaryFilter struct {
	ReviewID      string
	GroupFacet    string
	NutrientGroup string
	Depth         string
	Limit         int
	Offset        int
}

// Store persists summary datasets. Each pipeline run is saved wholesale as
// a new build; rows are never updated in place.
type Store interface {
	SaveDataset(ctx context.Context, ds *aggregate.Dataset) (string, error)
	LatestBuild(ctx context.Context) (*Build, error)
	ListBuilds(ctx context.Context, limit int) ([]Build, error)
	LoadSummary(ctx context.Context, buildID string, kind Kind, filter SummaryFilter) ([]model.SummaryRow, error)

	Migrate(ctx context.Context) error
	Close() error
}
