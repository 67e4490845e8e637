package track

import (
	"bytes"
	"fmt"
	"math"

	"github.com/tormoder/fit"
)

// parseFIT decodes record messages from an activity or course FIT file.
// Records without a valid position are skipped; altitude falls back to the
// previous point's value when absent so gain accumulation stays stable.
func parseFIT(data []byte) (Profile, error) {
	decoded, err := fit.Decode(bytes.NewReader(data))
	if err != nil {
		return Profile{}, fmt.Errorf("%w: %w", ErrMalformedTrack, err)
	}

	activity, err := decoded.Activity()
	if err != nil {
		return Profile{}, fmt.Errorf("%w: %w", ErrMalformedTrack, err)
	}

	var points []Point
	lastEle := math.NaN()
	for _, rec := range activity.Records {
		lat := rec.PositionLat.Degrees()
		lon := rec.PositionLong.Degrees()
		if math.IsNaN(lat) || math.IsNaN(lon) {
			continue
		}
		ele := rec.GetAltitudeScaled()
		if math.IsNaN(ele) {
			if math.IsNaN(lastEle) {
				ele = 0
			} else {
				ele = lastEle
			}
		}
		lastEle = ele
		points = append(points, Point{Lat: lat, Lon: lon, ElevationM: ele})
	}
	return build(points), nil
}
