package refs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agdataworks/soilsum-cli/internal/model"
)

func TestRewrite_DOI(t *testing.T) {
	got := Rewrite("Foo et al. DOI: 10.1/xyz")

	assert.Equal(t,
		`<a href="http://dx.doi.org/10.1/xyz" target="_blank">Foo et al. DOI: 10.1/xyz</a>`,
		got,
	)
}

func TestRewrite_NoMarker(t *testing.T) {
	citation := "Smith, J. (2014). Tillage effects on soil carbon. Geoderma 220, 1-10."
	assert.Equal(t, citation, Rewrite(citation))
}

func TestRewrite_EmptyDOI(t *testing.T) {
	citation := "Bar et al. DOI: "
	assert.Equal(t, citation, Rewrite(citation))
}

func TestPrepare(t *testing.T) {
	refs := Prepare([]model.Reference{
		{PaperID: "P1", Citation: "Foo et al. DOI: 10.5555/abc"},
		{PaperID: "P2", Citation: "Plain citation"},
	})

	require.Len(t, refs, 2)
	assert.Contains(t, refs[0].Display, `href="http://dx.doi.org/10.5555/abc"`)
	assert.Equal(t, "Plain citation", refs[1].Display)
}
