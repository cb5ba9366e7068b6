package aggregate

import (
	"go.uber.org/zap"

	"github.com/agdataworks/soilsum-cli/internal/model"
)

// Normalize returns a copy of records with every blank categorical cell
// replaced by the explicit NA category, so missing metadata groups like any
// other value instead of silently dropping out of every group-by. Numeric
// fields are not touched. Idempotent.
func Normalize(records []model.Record) []model.Record {
	out := make([]model.Record, len(records))
	var filled int
	for i, r := range records {
		if r.NormalizeCategoricals() {
			filled++
		}
		out[i] = r
	}
	if filled > 0 {
		zap.L().Debug("normalize: filled blank categoricals",
			zap.Int("records_touched", filled),
			zap.Int("records_total", len(records)),
		)
	}
	return out
}
