package course

import (
	_ "embed"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed data/races.yaml
var rawCatalog []byte

// CatalogEntry is a known race with measured course characteristics.
type CatalogEntry struct {
	ID             string   `yaml:"id"`
	Name           string   `yaml:"name"`
	Location       string   `yaml:"location"`
	Category       Category `yaml:"category"`
	ElevationGainM float64  `yaml:"elevation_gain_m"`
	Lat            float64  `yaml:"lat"`
	Lon            float64  `yaml:"lon"`
}

var (
	catalogOnce sync.Once
	catalogByID map[string]CatalogEntry
	catalogErr  error
)

// loadCatalog decodes the embedded race catalog exactly once.
func loadCatalog() (map[string]CatalogEntry, error) {
	catalogOnce.Do(func() {
		var doc struct {
			Races []CatalogEntry `yaml:"races"`
		}
		if err := yaml.Unmarshal(rawCatalog, &doc); err != nil {
			catalogErr = err
			return
		}
		catalogByID = make(map[string]CatalogEntry, len(doc.Races))
		for _, r := range doc.Races {
			catalogByID[r.ID] = r
		}
	})
	return catalogByID, catalogErr
}

// LookupRace returns the catalog entry for id, if known.
func LookupRace(id string) (CatalogEntry, bool) {
	catalog, err := loadCatalog()
	if err != nil {
		return CatalogEntry{}, false
	}
	entry, ok := catalog[id]
	return entry, ok
}
