// Package sites joins study locations against the region lookup so map
// consumers can facet sites by region without carrying the mapping table.
package sites

import (
	"math"

	"github.com/twpayne/go-geom"
	"go.uber.org/zap"

	"github.com/agdataworks/soilsum-cli/internal/loader"
	"github.com/agdataworks/soilsum-cli/internal/model"
)

// regionBounds are coarse lon/lat boxes used to place a site when its
// country is absent from the mapping table but coordinates exist. Boxes
// are checked in order; the first containing box wins.
var regionBounds = []struct {
	region string
	bounds *geom.Bounds
}{
	{"North America", geom.NewBounds(geom.XY).Set(-169, 12, -52, 84)},
	{"South America", geom.NewBounds(geom.XY).Set(-82, -56, -34, 13)},
	{"Europe", geom.NewBounds(geom.XY).Set(-25, 35, 45, 72)},
	{"Africa", geom.NewBounds(geom.XY).Set(-18, -35, 52, 38)},
	{"Asia", geom.NewBounds(geom.XY).Set(26, -11, 180, 78)},
	{"Oceania", geom.NewBounds(geom.XY).Set(110, -48, 180, -6)},
}

// Join fills each site's region from the country mapping, falling back to
// bounding-box containment for mappable coordinates. Sites that resolve
// neither way carry the NA category so they still group downstream.
func Join(in []model.Site, regions loader.RegionMap) []model.Site {
	out := make([]model.Site, len(in))
	var unmapped int
	for i, s := range in {
		if region, ok := regions[s.Country]; ok {
			s.Region = region
		} else if region := regionForPoint(s.Lon, s.Lat); region != "" {
			s.Region = region
		} else {
			s.Region = model.NAValue
			unmapped++
		}
		out[i] = s
	}
	if unmapped > 0 {
		zap.L().Warn("sites: unmapped locations",
			zap.Int("sites", unmapped),
			zap.Int("total", len(in)),
		)
	}
	return out
}

func regionForPoint(lon, lat float64) string {
	if math.IsNaN(lon) || math.IsNaN(lat) {
		return ""
	}
	for _, rb := range regionBounds {
		if rb.bounds.OverlapsPoint(geom.XY, geom.Coord{lon, lat}) {
			return rb.region
		}
	}
	return ""
}
