package course

import (
	"context"

	"github.com/racedayai/planner/internal/domain/track"
	"github.com/racedayai/planner/pkg/logger"
	"github.com/racedayai/planner/pkg/metrics"
)

// TrackReader reads raw uploaded track bytes by storage key.
type TrackReader interface {
	Read(ctx context.Context, key string) ([]byte, error)
}

// Strategy is one tier in the resolution chain. It returns ok=false when
// it cannot produce a profile; an error is informational and also falls
// through to the next tier.
type Strategy interface {
	Tier() ResolutionTier
	Resolve(ctx context.Context, req Request) (Profile, bool, error)
}

// Resolver walks an ordered strategy chain until one tier yields a
// profile. The category-default tier always succeeds, so Resolve never
// returns an error for a syntactically valid request.
type Resolver struct {
	strategies []Strategy
	log        logger.Logger
}

// Option applies a configuration option to the Resolver.
type Option func(*Resolver)

// WithLogger sets a custom logger for the resolver.
func WithLogger(log logger.Logger) Option {
	return func(r *Resolver) {
		if log != nil {
			r.log = log
		}
	}
}

// NewResolver builds the standard four-tier chain. tracks may be nil when
// no upload storage is configured; the uploaded-track tier then never
// matches.
func NewResolver(tracks TrackReader, opts ...Option) *Resolver {
	r := &Resolver{
		strategies: []Strategy{
			&uploadedTrackStrategy{tracks: tracks},
			&importedRouteStrategy{},
			&catalogStrategy{},
			&categoryDefaultStrategy{},
		},
		log: logger.Named("course-resolver"),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve walks the chain in priority order.
func (r *Resolver) Resolve(ctx context.Context, req Request) Profile {
	for _, s := range r.strategies {
		profile, ok, err := s.Resolve(ctx, req)
		if err != nil {
			// A tier failure downgrades resolution fidelity; it never
			// aborts the plan.
			r.log.Warn(ctx, "course tier failed, falling through",
				logger.String("tier", string(s.Tier())),
				logger.Error(err),
			)
			continue
		}
		if !ok {
			continue
		}
		metrics.RecordCourseResolution(string(s.Tier()))
		return profile
	}
	// Unreachable: the category-default tier always resolves.
	metrics.RecordCourseResolution(string(TierCategory))
	return (&categoryDefaultStrategy{}).profile(req)
}

type uploadedTrackStrategy struct {
	tracks TrackReader
}

func (s *uploadedTrackStrategy) Tier() ResolutionTier { return TierUploadedTrack }

func (s *uploadedTrackStrategy) Resolve(ctx context.Context, req Request) (Profile, bool, error) {
	if s.tracks == nil || req.TrackKey == "" {
		return Profile{}, false, nil
	}
	data, err := s.tracks.Read(ctx, req.TrackKey)
	if err != nil {
		return Profile{}, false, err
	}
	decoded, err := track.Parse(data)
	if err != nil {
		return Profile{}, false, err
	}
	if len(decoded.Points) == 0 {
		return Profile{}, false, nil
	}

	swimM, _, runM := req.Category.Distances()
	profile := Profile{
		Name:           req.RaceName,
		Category:       req.Category,
		SwimM:          swimM,
		BikeM:          decoded.TotalDistanceM,
		RunM:           runM,
		ElevationGainM: decoded.ElevationGainM,
		Lat:            decoded.Points[0].Lat,
		Lon:            decoded.Points[0].Lon,
		Points:         decoded.Points,
		ResolvedFrom:   TierUploadedTrack,
	}
	return profile, true, nil
}

type importedRouteStrategy struct{}

func (s *importedRouteStrategy) Tier() ResolutionTier { return TierImportedRoute }

func (s *importedRouteStrategy) Resolve(_ context.Context, req Request) (Profile, bool, error) {
	if req.Imported == nil || req.Imported.DistanceM <= 0 {
		return Profile{}, false, nil
	}
	swimM, _, runM := req.Category.Distances()
	return Profile{
		Name:           req.RaceName,
		Category:       req.Category,
		SwimM:          swimM,
		BikeM:          req.Imported.DistanceM,
		RunM:           runM,
		ElevationGainM: req.Imported.ElevationGainM,
		Lat:            req.Lat,
		Lon:            req.Lon,
		ResolvedFrom:   TierImportedRoute,
	}, true, nil
}

type catalogStrategy struct{}

func (s *catalogStrategy) Tier() ResolutionTier { return TierCatalog }

func (s *catalogStrategy) Resolve(_ context.Context, req Request) (Profile, bool, error) {
	if req.CatalogID == "" {
		return Profile{}, false, nil
	}
	entry, ok := LookupRace(req.CatalogID)
	if !ok {
		return Profile{}, false, nil
	}
	swimM, bikeM, runM := entry.Category.Distances()
	return Profile{
		Name:           entry.Name,
		Category:       entry.Category,
		SwimM:          swimM,
		BikeM:          bikeM,
		RunM:           runM,
		ElevationGainM: entry.ElevationGainM,
		Lat:            entry.Lat,
		Lon:            entry.Lon,
		ResolvedFrom:   TierCatalog,
	}, true, nil
}

type categoryDefaultStrategy struct{}

func (s *categoryDefaultStrategy) Tier() ResolutionTier { return TierCategory }

func (s *categoryDefaultStrategy) Resolve(_ context.Context, req Request) (Profile, bool, error) {
	return s.profile(req), true, nil
}

func (s *categoryDefaultStrategy) profile(req Request) Profile {
	swimM, bikeM, runM := req.Category.Distances()
	category := req.Category
	if !category.Valid() {
		category = CategoryHalf
	}
	return Profile{
		Name:         req.RaceName,
		Category:     category,
		SwimM:        swimM,
		BikeM:        bikeM,
		RunM:         runM,
		Lat:          req.Lat,
		Lon:          req.Lon,
		ResolvedFrom: TierCategory,
	}
}
