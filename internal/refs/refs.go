// Package refs prepares the citation table for display. The only transform
// is the DOI hyperlink rewrite; citations without a DOI marker pass through
// unchanged.
package refs

import (
	"fmt"
	"strings"

	"github.com/agdataworks/soilsum-cli/internal/model"
)

const doiMarker = "DOI:"

// Rewrite returns the display form of a citation. A citation containing a
// "DOI:" marker becomes an anchor tag linking the DOI resolver, with the
// full original citation as the link label.
func Rewrite(citation string) string {
	idx := strings.Index(citation, doiMarker)
	if idx < 0 {
		return citation
	}
	doi := strings.TrimSpace(citation[idx+len(doiMarker):])
	if doi == "" {
		return citation
	}
	return fmt.Sprintf(`<a href="http://dx.doi.org/%s" target="_blank">%s</a>`, doi, citation)
}

// Prepare fills the Display field of every reference.
func Prepare(in []model.Reference) []model.Reference {
	out := make([]model.Reference, len(in))
	for i, r := range in {
		r.Display = Rewrite(r.Citation)
		out[i] = r
	}
	return out
}
