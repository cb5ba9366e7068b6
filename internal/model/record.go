package model

import "math"

const (
	// NAValue is the explicit category substituted for blank categorical
	// cells so they participate in grouping like any other value.
	NAValue = "NA"

	// SoilSurface is the depth label substituted for records with no
	// recorded sample depth. It always ranks first in the depth ordering.
	SoilSurface = "Soil Surface"
)

// InfiniteSE is the sentinel substituted for standard errors that are
// undefined. Consumers treat it as maximal uncertainty rather than a
// missing value.
var InfiniteSE = math.Inf(1)

// Record is one raw treatment-comparison observation. Numeric outcomes
// use NaN for "no value recorded"; categorical blanks are normalized to
// NAValue before aggregation. Records are immutable once loaded.
type Record struct {
	ReviewID     string
	GroupLevel1  string
	GroupLevel2  string
	GroupLevel3  string
	SampleDepth  string
	SampleYear   string
	TrtCompareID string
	Trt1         string
	Trt2         string
	Trt1Name     string
	Trt2Name     string
	Trt1Specific string
	Trt2Specific string

	NutrientGroup  string
	CoverCropGroup string
	TillageGroup   string
	PMGroup        string

	PaperID string

	PercentChange float64
	AbsDifference float64
}

// Defined reports whether a numeric outcome value was actually recorded.
func Defined(v float64) bool {
	return !math.IsNaN(v)
}

// Undefined is the NaN placeholder for outcome values that were not recorded.
func Undefined() float64 {
	return math.NaN()
}

// categoricalFields returns pointers to every categorical cell of r, in a
// fixed order. Used by the normalizer so a new field cannot be missed there.
func (r *Record) categoricalFields() []*string {
	return []*string{
		&r.ReviewID,
		&r.GroupLevel1, &r.GroupLevel2, &r.GroupLevel3,
		&r.SampleDepth, &r.SampleYear,
		&r.TrtCompareID,
		&r.Trt1, &r.Trt2,
		&r.Trt1Name, &r.Trt2Name,
		&r.Trt1Specific, &r.Trt2Specific,
		&r.NutrientGroup, &r.CoverCropGroup, &r.TillageGroup, &r.PMGroup,
		&r.PaperID,
	}
}

// NormalizeCategoricals replaces blank categorical cells with NAValue and
// reports whether any cell changed. Idempotent: a cell already holding
// NAValue is left alone.
func (r *Record) NormalizeCategoricals() bool {
	var changed bool
	for _, f := range r.categoricalFields() {
		if *f == "" {
			*f = NAValue
			changed = true
		}
	}
	return changed
}
