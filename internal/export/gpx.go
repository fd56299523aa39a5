package export

import (
	"encoding/xml"
	"time"

	"backend-workouttrack/internal/workout"
)

// GPX is the document root of a GPX 1.1 export.
type GPX struct {
	XMLName  xml.Name `xml:"gpx"`
	Version  string   `xml:"version,attr"`
	Creator  string   `xml:"creator,attr"`
	Xmlns    string   `xml:"xmlns,attr"`
	Metadata Metadata `xml:"metadata"`
	Track    Track    `xml:"trk"`
}

type Metadata struct {
	Time time.Time `xml:"time"`
}

type Track struct {
	Name    string  `xml:"name"`
	Segment Segment `xml:"trkseg"`
}

type Segment struct {
	Points []Point `xml:"trkpt"`
}

// Point carries the fused altitude, not the raw GPS reading.
type Point struct {
	Lat       float64   `xml:"lat,attr"`
	Lon       float64   `xml:"lon,attr"`
	Elevation float64   `xml:"ele"`
	Time      time.Time `xml:"time"`
}

// Build assembles a single-segment GPX track from a session's samples.
func Build(session workout.Session, samples []workout.Sample) GPX {
	points := make([]Point, 0, len(samples))
	for _, s := range samples {
		points = append(points, Point{
			Lat:       s.Lat,
			Lon:       s.Lng,
			Elevation: workout.FusedAltitudeM(s),
			Time:      s.RecordedAt,
		})
	}

	return GPX{
		Version:  "1.1",
		Creator:  "workouttrack",
		Xmlns:    "http://www.topografix.com/GPX/1/1",
		Metadata: Metadata{Time: session.StartedAt},
		Track: Track{
			Name:    "workout " + session.ID,
			Segment: Segment{Points: points},
		},
	}
}

// Marshal renders the document with the standard XML header.
func Marshal(g GPX) ([]byte, error) {
	body, err := xml.MarshalIndent(g, "", "  ")
	if err != nil {
		return nil, err
	}
	return append([]byte(xml.Header), body...), nil
}
