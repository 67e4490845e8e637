package track

import (
	"encoding/xml"
	"fmt"
)

// gpxDoc mirrors the subset of the GPX 1.1 schema the planner needs:
// track segments with lat/lon/ele points. Route points (<rtept>) are
// accepted as a fallback for exports that carry no track.
type gpxDoc struct {
	Tracks []struct {
		Segments []struct {
			Points []gpxPoint `xml:"trkpt"`
		} `xml:"trkseg"`
	} `xml:"trk"`
	Routes []struct {
		Points []gpxPoint `xml:"rtept"`
	} `xml:"rte"`
}

type gpxPoint struct {
	Lat float64 `xml:"lat,attr"`
	Lon float64 `xml:"lon,attr"`
	Ele float64 `xml:"ele"`
}

func parseGPX(data []byte) (Profile, error) {
	var doc gpxDoc
	if err := xml.Unmarshal(data, &doc); err != nil {
		return Profile{}, fmt.Errorf("%w: %w", ErrMalformedTrack, err)
	}

	var raw []gpxPoint
	for _, trk := range doc.Tracks {
		for _, seg := range trk.Segments {
			raw = append(raw, seg.Points...)
		}
	}
	if len(raw) == 0 {
		for _, rte := range doc.Routes {
			raw = append(raw, rte.Points...)
		}
	}

	points := make([]Point, len(raw))
	for i, gp := range raw {
		points[i] = Point{Lat: gp.Lat, Lon: gp.Lon, ElevationM: gp.Ele}
	}
	return build(points), nil
}
