package model

// ConfigKey identifies one comparison configuration, sample depth included.
// Two records share a configuration iff every field compares equal, with
// NAValue standing in for cells that were blank in the source.
type ConfigKey struct {
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
}

// CumulativeKey identifies a configuration for the depth-cumulative
// regrouping. Depth is excluded so rows at different depths can pool, and
// the cover-crop/tillage/practice-management subgroups are excluded as well
// (a deliberate narrowing relative to the base grouping key).
type CumulativeKey struct {
	ReviewID     string
	GroupLevel1  string
	GroupLevel2  string
	GroupLevel3  string
	SampleYear   string
	TrtCompareID string
	Trt1         string
	Trt2         string
	Trt1Name     string
	Trt2Name     string
	Trt1Specific string
	Trt2Specific string

	NutrientGroup string
}

// Cumulative projects the full key onto the cumulative regrouping key.
func (k ConfigKey) Cumulative() CumulativeKey {
	return CumulativeKey{
		ReviewID:      k.ReviewID,
		GroupLevel1:   k.GroupLevel1,
		GroupLevel2:   k.GroupLevel2,
		GroupLevel3:   k.GroupLevel3,
		SampleYear:    k.SampleYear,
		TrtCompareID:  k.TrtCompareID,
		Trt1:          k.Trt1,
		Trt2:          k.Trt2,
		Trt1Name:      k.Trt1Name,
		Trt2Name:      k.Trt2Name,
		Trt1Specific:  k.Trt1Specific,
		Trt2Specific:  k.Trt2Specific,
		NutrientGroup: k.NutrientGroup,
	}
}

// SummaryRow is one aggregated row of a summary dataset, keyed by a full
// configuration (depth included). The same shape serves both the base
// summary (stats computed from raw records) and the cumulative summary
// (stats recomputed as the unweighted mean over shallower-or-equal depths).
type SummaryRow struct {
	Key ConfigKey

	PercentChangeMean float64
	PercentChangeSE   float64
	AbsDifferenceMean float64
	AbsDifferenceSE   float64

	// PaperCount is the number of distinct source papers in the group;
	// Comparisons is the total number of records.
	PaperCount  int
	Comparisons int

	// PaperIDs is the sorted-unique, semicolon-joined display list of
	// source-paper identifiers.
	PaperIDs string

	// GroupFacet is the two-level facet label, groupLevel3_groupLevel2.
	GroupFacet string
}

// Site is one study location, joined against the region lookup for map
// consumers. Coordinates may be NaN when the source row had none.
type Site struct {
	StudyID  string
	SiteName string
	Country  string
	Lat      float64
	Lon      float64
	Region   string
}

// Reference is one bibliography entry. Display carries the hyperlink
// rewrite when the citation embeds a DOI marker.
type Reference struct {
	PaperID  string
	Citation string
	Display  string
}
