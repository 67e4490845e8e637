// Package products maps fueling targets and athlete profile onto
// concrete catalog products, one selection per fueling slot.
package products

import (
	_ "embed"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed data/products.yaml
var rawCatalog []byte

// Slot identifies a fueling role a product fills on race day.
type Slot string

const (
	SlotPrimaryGel     Slot = "primary_gel"
	SlotCaffeinatedGel Slot = "caffeinated_gel"
	SlotDrinkMix       Slot = "drink_mix"
	SlotEarlySolid     Slot = "early_solid"
)

// Slots lists every fueling slot in presentation order.
func Slots() []Slot {
	return []Slot{SlotPrimaryGel, SlotCaffeinatedGel, SlotDrinkMix, SlotEarlySolid}
}

// Product is one catalog entry.
type Product struct {
	ID         string  `yaml:"id" json:"id"`
	Name       string  `yaml:"name" json:"name"`
	Brand      string  `yaml:"brand" json:"brand,omitempty"`
	Slot       Slot    `yaml:"slot" json:"slot"`
	CarbsG     float64 `yaml:"carbsG" json:"carbsG"`
	SodiumMg   float64 `yaml:"sodiumMg" json:"sodiumMg"`
	CaffeineMg float64 `yaml:"caffeineMg" json:"caffeineMg,omitempty"`
	HeatSuited bool    `yaml:"heatSuited" json:"-"`
}

var (
	catalogOnce   sync.Once
	catalogByID   map[string]Product
	catalogBySlot map[Slot][]Product
	catalogErr    error
)

// loadCatalog decodes the embedded product catalog exactly once.
func loadCatalog() error {
	catalogOnce.Do(func() {
		var doc struct {
			Products []Product `yaml:"products"`
		}
		if err := yaml.Unmarshal(rawCatalog, &doc); err != nil {
			catalogErr = err
			return
		}
		catalogByID = make(map[string]Product, len(doc.Products))
		catalogBySlot = make(map[Slot][]Product)
		for _, p := range doc.Products {
			catalogByID[p.ID] = p
			catalogBySlot[p.Slot] = append(catalogBySlot[p.Slot], p)
		}
	})
	return catalogErr
}

// Lookup returns the catalog product for id, if known.
func Lookup(id string) (Product, bool) {
	if err := loadCatalog(); err != nil {
		return Product{}, false
	}
	p, ok := catalogByID[id]
	return p, ok
}

// bySlot returns the catalog products registered under slot.
func bySlot(slot Slot) []Product {
	if err := loadCatalog(); err != nil {
		return nil
	}
	return catalogBySlot[slot]
}
