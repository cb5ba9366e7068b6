package loader

import (
	"encoding/csv"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/agdataworks/soilsum-cli/internal/model"
)

// LoadSites reads the site-location table. Coordinates that fail to parse
// load as NaN; the region field is filled by the sites join, not here.
func LoadSites(path string) ([]model.Site, error) {
	rows, colIdx, err := readTable(path, "study_id")
	if err != nil {
		return nil, err
	}

	sites := make([]model.Site, 0, len(rows))
	for _, row := range rows {
		get := func(name string) string {
			return strings.TrimSpace(getCol(row, colIdx, name))
		}
		sites = append(sites, model.Site{
			StudyID:  get("study_id"),
			SiteName: get("site_name"),
			Country:  get("country"),
			Lat:      parseCoord(get("latitude")),
			Lon:      parseCoord(get("longitude")),
		})
	}
	return sites, nil
}

// LoadReferences reads the citation table.
func LoadReferences(path string) ([]model.Reference, error) {
	rows, colIdx, err := readTable(path, "paper_id")
	if err != nil {
		return nil, err
	}

	refs := make([]model.Reference, 0, len(rows))
	for _, row := range rows {
		refs = append(refs, model.Reference{
			PaperID:  strings.TrimSpace(getCol(row, colIdx, "paper_id")),
			Citation: strings.TrimSpace(getCol(row, colIdx, "citation")),
		})
	}
	return refs, nil
}

func readTable(path string, required string) ([][]string, map[string]int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, eris.Wrapf(err, "loader: open %s", path)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, nil, eris.Wrapf(err, "loader: read header of %s", path)
	}
	colIdx := mapColumns(header)
	if _, ok := colIdx[required]; !ok {
		return nil, nil, eris.Errorf("loader: %s missing required column %q", path, required)
	}

	var rows [][]string
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			continue
		}
		rows = append(rows, row)
	}
	return rows, colIdx, nil
}

func parseCoord(s string) float64 {
	if s == "" || s == model.NAValue {
		return model.Undefined()
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return model.Undefined()
	}
	return v
}
