package aggregate

import (
	"math"

	"go.uber.org/zap"

	"github.com/agdataworks/soilsum-cli/internal/model"
)

// SanitizeVariance replaces undefined standard errors with the infinite
// sentinel, in place. An undefined SE can only come from a single-element
// cumulative partition (the zero-SE case was already filtered during base
// aggregation); the sentinel lets consumers rank by uncertainty without
// special-casing missing values. Row count is unchanged.
func SanitizeVariance(rows []model.SummaryRow) {
	var substituted int
	for i := range rows {
		if math.IsNaN(rows[i].PercentChangeSE) {
			rows[i].PercentChangeSE = model.InfiniteSE
			substituted++
		}
		if math.IsNaN(rows[i].AbsDifferenceSE) {
			rows[i].AbsDifferenceSE = model.InfiniteSE
			substituted++
		}
	}
	if substituted > 0 {
		zap.L().Debug("aggregate: infinite-SE substitutions",
			zap.Int("fields", substituted),
		)
	}
}
