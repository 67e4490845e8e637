// Package track decodes uploaded geographic track files (GPX or FIT) into
// an ordered, distance-accumulated point sequence.
package track

import (
	"bytes"
	"math"
)

// Point is a single track point with its accumulated distance from the
// start of the track.
type Point struct {
	Lat         float64 `json:"lat"`
	Lon         float64 `json:"lon"`
	ElevationM  float64 `json:"elevationM"`
	CumulativeM float64 `json:"cumulativeM"`
}

// Profile is the decoded result of a track file.
type Profile struct {
	Points         []Point `json:"points"`
	TotalDistanceM float64 `json:"totalDistanceM"`
	ElevationGainM float64 `json:"elevationGainM"`
}

const earthRadiusM = 6371e3

// haversine returns the great-circle distance in meters between two
// coordinates.
func haversine(lat1, lon1, lat2, lon2 float64) float64 {
	phi1 := lat1 * math.Pi / 180
	phi2 := lat2 * math.Pi / 180
	dPhi := (lat2 - lat1) * math.Pi / 180
	dLambda := (lon2 - lon1) * math.Pi / 180

	a := math.Sin(dPhi/2)*math.Sin(dPhi/2) +
		math.Cos(phi1)*math.Cos(phi2)*math.Sin(dLambda/2)*math.Sin(dLambda/2)
	return earthRadiusM * 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
}

// build accumulates distance and elevation gain over raw points. Gain
// counts positive deltas only. Zero- and one-point inputs produce a
// zero-distance, zero-gain profile.
func build(points []Point) Profile {
	p := Profile{Points: points}
	for i := 1; i < len(points); i++ {
		prev, cur := &points[i-1], &points[i]
		p.TotalDistanceM += haversine(prev.Lat, prev.Lon, cur.Lat, cur.Lon)
		cur.CumulativeM = p.TotalDistanceM
		if delta := cur.ElevationM - prev.ElevationM; delta > 0 {
			p.ElevationGainM += delta
		}
	}
	return p
}

// fitSignature appears at offset 8 of a FIT file header.
var fitSignature = []byte(".FIT")

// Parse sniffs the track format and decodes it. GPX is recognized by XML
// leaders, FIT by its header signature.
func Parse(data []byte) (Profile, error) {
	if len(data) == 0 {
		return Profile{}, ErrEmptyTrack
	}
	if len(data) >= 12 && bytes.Equal(data[8:12], fitSignature) {
		return parseFIT(data)
	}
	trimmed := bytes.TrimLeft(data, " \t\r\n")
	if bytes.HasPrefix(trimmed, []byte("<?xml")) || bytes.HasPrefix(trimmed, []byte("<gpx")) {
		return parseGPX(data)
	}
	return Profile{}, ErrUnknownFormat
}
