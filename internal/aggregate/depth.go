package aggregate

import (
	"sort"
	"strconv"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/agdataworks/soilsum-cli/internal/model"
)

// DepthOrder is the canonical total order over the depth labels observed in
// one base summary: numeric-aware ascending, with the surface label forced
// to rank first. It is fixed for the lifetime of one dataset build and
// threaded explicitly into the cumulative aggregator.
type DepthOrder struct {
	levels []string
	rank   map[string]int
}

// ResolveDepthOrder derives the depth ordering from the distinct depth
// labels present in rows. Labels compare by their embedded numeric
// segments, parsed and compared as numbers ("0-10cm" before "2-10cm"
// before "10-20cm"); labels with no number, and labels whose numbers tie,
// fall back to their collated placement.
func ResolveDepthOrder(rows []model.SummaryRow) DepthOrder {
	seen := make(map[string]struct{})
	var labels []string
	var hasSurface bool
	for _, row := range rows {
		d := row.Key.SampleDepth
		if _, ok := seen[d]; ok {
			continue
		}
		seen[d] = struct{}{}
		if d == model.SoilSurface {
			hasSurface = true
			continue
		}
		labels = append(labels, d)
	}

	sortDepthLabels(labels)

	levels := make([]string, 0, len(labels)+1)
	if hasSurface {
		levels = append(levels, model.SoilSurface)
	}
	levels = append(levels, labels...)

	rank := make(map[string]int, len(levels))
	for i, l := range levels {
		rank[l] = i
	}
	return DepthOrder{levels: levels, rank: rank}
}

// sortDepthLabels orders depth labels shallowest first. The comparison is
// driven by the numeric segments of each label, not by collation: the
// collator's numeric mode ranks a leading "0" segment after every other
// number, which would place "0-10cm" below "100cm". Labels whose numeric
// segments compare equal, and labels carrying no number at all, are
// ordered by the collator.
func sortDepthLabels(labels []string) {
	c := collate.New(language.Und)
	sort.SliceStable(labels, func(i, j int) bool {
		a, b := labels[i], labels[j]
		na, nb := numericSegments(a), numericSegments(b)
		switch {
		case len(na) > 0 && len(nb) > 0:
			for k := 0; k < len(na) && k < len(nb); k++ {
				if na[k] != nb[k] {
					return na[k] < nb[k]
				}
			}
			if len(na) != len(nb) {
				return len(na) < len(nb)
			}
			return c.CompareString(a, b) < 0
		case len(na) > 0:
			return true
		case len(nb) > 0:
			return false
		default:
			return c.CompareString(a, b) < 0
		}
	})
}

// numericSegments extracts every maximal digit run of label, parsed as a
// number. "0-10cm" yields [0 10]; "subsoil" yields nothing.
func numericSegments(label string) []float64 {
	var segs []float64
	for i := 0; i < len(label); {
		if label[i] < '0' || label[i] > '9' {
			i++
			continue
		}
		j := i
		for j < len(label) && (label[j] >= '0' && label[j] <= '9' || label[j] == '.') {
			j++
		}
		if v, err := strconv.ParseFloat(strings.TrimRight(label[i:j], "."), 64); err == nil {
			segs = append(segs, v)
		}
		i = j
	}
	return segs
}

// Levels returns the depth labels in canonical order, shallowest first.
func (o DepthOrder) Levels() []string {
	return o.levels
}

// Rank returns the position of label in the ordering. Unknown labels rank
// after every known one.
func (o DepthOrder) Rank(label string) int {
	if r, ok := o.rank[label]; ok {
		return r
	}
	return len(o.levels)
}
