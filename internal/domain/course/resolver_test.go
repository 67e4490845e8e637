package course_test

import (
	"context"
	"errors"
	"testing"

	"github.com/racedayai/planner/internal/domain/course"
	"github.com/racedayai/planner/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

type fakeTracks struct {
	data map[string][]byte
	err  error
}

func (f *fakeTracks) Read(_ context.Context, key string) ([]byte, error) {
	if f.err != nil {
		return nil, f.err
	}
	data, ok := f.data[key]
	if !ok {
		return nil, errors.New("no such key")
	}
	return data, nil
}

const gpxBikeCourse = `<?xml version="1.0"?>
<gpx version="1.1"><trk><trkseg>
  <trkpt lat="47.00" lon="8.00"><ele>400</ele></trkpt>
  <trkpt lat="47.09" lon="8.00"><ele>550</ele></trkpt>
  <trkpt lat="47.18" lon="8.00"><ele>500</ele></trkpt>
</trkseg></trk></gpx>`

func TestResolverChain(t *testing.T) {
	if err := logger.Init(); err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()

	Convey("Given a resolver with upload storage", t, func() {
		tracks := &fakeTracks{data: map[string][]byte{
			"uploads/course.gpx": []byte(gpxBikeCourse),
			"uploads/broken.gpx": []byte("<?xml not a gpx"),
		}}
		r := course.NewResolver(tracks)

		Convey("An uploaded track wins over every other tier", func() {
			p := r.Resolve(ctx, course.Request{
				Category:  course.CategoryHalf,
				TrackKey:  "uploads/course.gpx",
				CatalogID: "im703-zell-am-see",
			})
			So(p.ResolvedFrom, ShouldEqual, course.TierUploadedTrack)
			So(p.BikeM, ShouldBeGreaterThan, 19_000)
			So(p.ElevationGainM, ShouldEqual, 150)
			So(p.SwimM, ShouldEqual, 1_900)
		})

		Convey("A broken upload downgrades to the next tier", func() {
			p := r.Resolve(ctx, course.Request{
				Category:  course.CategoryHalf,
				TrackKey:  "uploads/broken.gpx",
				CatalogID: "im703-zell-am-see",
			})
			So(p.ResolvedFrom, ShouldEqual, course.TierCatalog)
			So(p.Name, ShouldEqual, "IRONMAN 70.3 Zell am See-Kaprun")
			So(p.ElevationGainM, ShouldEqual, 900)
		})

		Convey("An imported route summary beats the catalog", func() {
			p := r.Resolve(ctx, course.Request{
				Category:  course.CategoryHalf,
				CatalogID: "im703-zell-am-see",
				Imported:  &course.ImportedRoute{DistanceM: 88_000, ElevationGainM: 640},
			})
			So(p.ResolvedFrom, ShouldEqual, course.TierImportedRoute)
			So(p.BikeM, ShouldEqual, 88_000)
			So(p.ElevationGainM, ShouldEqual, 640)
		})

		Convey("An unknown catalog id falls to the category default", func() {
			p := r.Resolve(ctx, course.Request{
				Category:  course.CategoryOlympic,
				CatalogID: "does-not-exist",
			})
			So(p.ResolvedFrom, ShouldEqual, course.TierCategory)
			So(p.SwimM, ShouldEqual, 1_500)
			So(p.BikeM, ShouldEqual, 40_000)
			So(p.RunM, ShouldEqual, 10_000)
		})

		Convey("A bare request still resolves via category defaults", func() {
			p := r.Resolve(ctx, course.Request{Category: course.CategorySprint})
			So(p.ResolvedFrom, ShouldEqual, course.TierCategory)
			So(p.BikeM, ShouldEqual, 20_000)
		})
	})

	Convey("Given a resolver with failing storage", t, func() {
		r := course.NewResolver(&fakeTracks{err: errors.New("storage down")})

		Convey("Storage failure degrades instead of aborting", func() {
			p := r.Resolve(ctx, course.Request{
				Category: course.CategoryHalf,
				TrackKey: "uploads/course.gpx",
			})
			So(p.ResolvedFrom, ShouldEqual, course.TierCategory)
		})
	})
}

func TestCategories(t *testing.T) {
	Convey("Category distances are canonical", t, func() {
		swim, bike, run := course.CategoryFull.Distances()
		So(swim, ShouldEqual, 3_800)
		So(bike, ShouldEqual, 180_200)
		So(run, ShouldEqual, 42_200)

		Convey("Unknown categories default to the half distance", func() {
			swim, bike, run := course.Category("ultra").Distances()
			So(swim, ShouldEqual, 1_900)
			So(bike, ShouldEqual, 90_100)
			So(run, ShouldEqual, 21_100)
		})
	})
}
