package track_test

import (
	"testing"

	"github.com/racedayai/planner/internal/domain/track"
	. "github.com/smartystreets/goconvey/convey"
)

const gpxTwoPoints = `<?xml version="1.0" encoding="UTF-8"?>
<gpx version="1.1" creator="test">
  <trk><trkseg>
    <trkpt lat="47.0000" lon="8.0000"><ele>400</ele></trkpt>
    <trkpt lat="47.0090" lon="8.0000"><ele>450</ele></trkpt>
    <trkpt lat="47.0180" lon="8.0000"><ele>430</ele></trkpt>
  </trkseg></trk>
</gpx>`

const gpxSinglePoint = `<?xml version="1.0"?>
<gpx version="1.1"><trk><trkseg>
  <trkpt lat="47.0" lon="8.0"><ele>400</ele></trkpt>
</trkseg></trk></gpx>`

func TestParseGPX(t *testing.T) {
	Convey("Given a GPX track with three points", t, func() {
		profile, err := track.Parse([]byte(gpxTwoPoints))
		So(err, ShouldBeNil)

		Convey("Distance accumulates over consecutive points", func() {
			So(len(profile.Points), ShouldEqual, 3)
			// 0.009 deg latitude is almost exactly 1km.
			So(profile.TotalDistanceM, ShouldAlmostEqual, 2002, 20)
			So(profile.Points[0].CumulativeM, ShouldEqual, 0)
			So(profile.Points[1].CumulativeM, ShouldBeGreaterThan, 0)
			So(profile.Points[2].CumulativeM, ShouldEqual, profile.TotalDistanceM)
		})

		Convey("Elevation gain counts only positive deltas", func() {
			So(profile.ElevationGainM, ShouldEqual, 50)
		})

		Convey("Decoding is deterministic", func() {
			again, err := track.Parse([]byte(gpxTwoPoints))
			So(err, ShouldBeNil)
			So(again, ShouldResemble, profile)
		})
	})

	Convey("Given a single-point track", t, func() {
		profile, err := track.Parse([]byte(gpxSinglePoint))
		So(err, ShouldBeNil)

		Convey("It yields a zero-distance, zero-gain profile", func() {
			So(len(profile.Points), ShouldEqual, 1)
			So(profile.TotalDistanceM, ShouldEqual, 0)
			So(profile.ElevationGainM, ShouldEqual, 0)
		})
	})

	Convey("Given a GPX document with no points", t, func() {
		profile, err := track.Parse([]byte(`<?xml version="1.0"?><gpx version="1.1"></gpx>`))
		So(err, ShouldBeNil)
		So(len(profile.Points), ShouldEqual, 0)
		So(profile.TotalDistanceM, ShouldEqual, 0)
	})
}

func TestParseSniffing(t *testing.T) {
	Convey("Given unrecognizable payloads", t, func() {
		Convey("Empty input reports an empty-track error", func() {
			_, err := track.Parse(nil)
			So(err, ShouldWrap, track.ErrEmptyTrack)
		})

		Convey("Arbitrary bytes report an unknown format", func() {
			_, err := track.Parse([]byte("not a track at all"))
			So(err, ShouldWrap, track.ErrUnknownFormat)
		})

		Convey("Broken XML reports a malformed track", func() {
			_, err := track.Parse([]byte(`<?xml version="1.0"?><gpx><trk>`))
			So(err, ShouldWrap, track.ErrMalformedTrack)
		})
	})

	Convey("Given bytes carrying the FIT header signature", t, func() {
		// 14-byte header with ".FIT" at offset 8 but garbage payload.
		data := []byte{14, 0x10, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, '.', 'F', 'I', 'T', 0x00, 0x00}

		Convey("The FIT decoder is selected and rejects the payload", func() {
			_, err := track.Parse(data)
			So(err, ShouldWrap, track.ErrMalformedTrack)
		})
	})
}
