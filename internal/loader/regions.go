package loader

import (
	"os"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

// RegionMap maps country names to display regions for the site-location
// join. Lookup is exact on the country name as written in the site table.
type RegionMap map[string]string

// defaultRegions is the built-in region-name mapping, used when no override
// file is configured.
var defaultRegions = RegionMap{
	"USA":            "North America",
	"United States":  "North America",
	"Canada":         "North America",
	"Mexico":         "North America",
	"Brazil":         "South America",
	"Argentina":      "South America",
	"Chile":          "South America",
	"China":          "Asia",
	"India":          "Asia",
	"Japan":          "Asia",
	"Pakistan":       "Asia",
	"Iran":           "Asia",
	"Turkey":         "Asia",
	"Germany":        "Europe",
	"France":         "Europe",
	"Spain":          "Europe",
	"Italy":          "Europe",
	"United Kingdom": "Europe",
	"Denmark":        "Europe",
	"Sweden":         "Europe",
	"Norway":         "Europe",
	"Finland":        "Europe",
	"Poland":         "Europe",
	"Nigeria":        "Africa",
	"Kenya":          "Africa",
	"Ethiopia":       "Africa",
	"South Africa":   "Africa",
	"Egypt":          "Africa",
	"Australia":      "Oceania",
	"New Zealand":    "Oceania",
}

// LoadRegions returns the region mapping. With an empty path the built-in
// mapping is used; otherwise the YAML file at path replaces it wholesale.
func LoadRegions(path string) (RegionMap, error) {
	if path == "" {
		return defaultRegions, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "loader: read regions %s", path)
	}
	var m RegionMap
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, eris.Wrapf(err, "loader: parse regions %s", path)
	}
	if len(m) == 0 {
		return nil, eris.Errorf("loader: regions file %s maps no countries", path)
	}
	return m, nil
}
