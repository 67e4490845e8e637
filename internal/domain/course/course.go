// Package course resolves race geometry into a canonical course profile.
// Resolution walks an ordered strategy chain: uploaded track, imported
// route summary, catalog entry, distance-category default. A failure in
// one tier logs the downgrade and falls through to the next.
package course

import "github.com/racedayai/planner/internal/domain/track"

// Category is the race distance category.
type Category string

const (
	CategorySprint  Category = "sprint"
	CategoryOlympic Category = "olympic"
	CategoryHalf    Category = "half"
	CategoryFull    Category = "full"
)

// Canonical segment distances in meters per category.
var categoryDistances = map[Category]struct{ swim, bike, run float64 }{
	CategorySprint:  {750, 20_000, 5_000},
	CategoryOlympic: {1_500, 40_000, 10_000},
	CategoryHalf:    {1_900, 90_100, 21_100},
	CategoryFull:    {3_800, 180_200, 42_200},
}

// ResolutionTier identifies which strategy produced a profile.
type ResolutionTier string

const (
	TierUploadedTrack ResolutionTier = "uploaded_track"
	TierImportedRoute ResolutionTier = "imported_route"
	TierCatalog       ResolutionTier = "catalog"
	TierCategory      ResolutionTier = "category_default"
)

// Profile is the canonical course description. Resolved once per plan and
// immutable afterward.
type Profile struct {
	Name           string         `json:"name"`
	Category       Category       `json:"category"`
	SwimM          float64        `json:"swimM"`
	BikeM          float64        `json:"bikeM"`
	RunM           float64        `json:"runM"`
	ElevationGainM float64        `json:"elevationGainM"`
	Lat            float64        `json:"lat"`
	Lon            float64        `json:"lon"`
	Points         []track.Point  `json:"points,omitempty"`
	ResolvedFrom   ResolutionTier `json:"resolvedFrom"`
}

// Valid reports whether c is a known distance category.
func (c Category) Valid() bool {
	_, ok := categoryDistances[c]
	return ok
}

// Distances returns the canonical swim/bike/run distances for a category.
// Unknown categories resolve to the half distance, the most common race.
func (c Category) Distances() (swimM, bikeM, runM float64) {
	d, ok := categoryDistances[c]
	if !ok {
		d = categoryDistances[CategoryHalf]
	}
	return d.swim, d.bike, d.run
}

// ImportedRoute is the summary form of a route imported from a third-party
// platform: no point sequence, only aggregates.
type ImportedRoute struct {
	DistanceM      float64 `json:"distanceM"`
	ElevationGainM float64 `json:"elevationGainM"`
}

// Request carries everything the resolver chain may consult.
type Request struct {
	RaceName  string
	Category  Category
	CatalogID string
	// TrackKey addresses an uploaded track file in object storage.
	TrackKey string
	Imported *ImportedRoute
	Lat      float64
	Lon      float64
}
