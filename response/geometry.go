package response

import (
	"bytes"
	"fmt"

	"github.com/goccy/go-json"

	osrmruntime "github.com/wippyai/osrm-runtime"
)

// GeometryKind tells which variant a Geometry holds.
type GeometryKind uint8

const (
	GeometryAbsent GeometryKind = iota
	GeometryEncoded
	GeometryGeoJSON
)

func (k GeometryKind) String() string {
	switch k {
	case GeometryEncoded:
		return "encoded"
	case GeometryGeoJSON:
		return "geojson"
	default:
		return "absent"
	}
}

// LineString is a GeoJSON LineString. Positions are (lon, lat).
type LineString struct {
	Type        string       `json:"type"`
	Coordinates [][2]float64 `json:"coordinates"`
}

// Points returns the positions as coordinates.
func (l *LineString) Points() []osrmruntime.Coordinate {
	out := make([]osrmruntime.Coordinate, len(l.Coordinates))
	for i, p := range l.Coordinates {
		out[i] = osrmruntime.Coordinate{Lon: p[0], Lat: p[1]}
	}
	return out
}

// Geometry is absent, an encoded polyline, or a GeoJSON line. The variant
// is decided by the shape of the JSON node.
type Geometry struct {
	Line     *LineString
	Polyline string
	kind     GeometryKind
}

// EncodedGeometry returns a polyline variant.
func EncodedGeometry(s string) Geometry {
	return Geometry{Polyline: s, kind: GeometryEncoded}
}

// GeoJSONGeometry returns a LineString variant.
func GeoJSONGeometry(l *LineString) Geometry {
	return Geometry{Line: l, kind: GeometryGeoJSON}
}

func (g Geometry) Kind() GeometryKind { return g.kind }

func (g Geometry) IsAbsent() bool { return g.kind == GeometryAbsent }

func (g *Geometry) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return fmt.Errorf("empty geometry")
	}
	switch data[0] {
	case 'n':
		*g = Geometry{}
		return nil
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*g = EncodedGeometry(s)
		return nil
	case '{':
		var l LineString
		if err := json.Unmarshal(data, &l); err != nil {
			return err
		}
		if l.Type != "LineString" {
			return fmt.Errorf("geometry type %q, want LineString", l.Type)
		}
		*g = GeoJSONGeometry(&l)
		return nil
	}
	return fmt.Errorf("geometry must be a string or an object, got %.20s", data)
}

func (g Geometry) MarshalJSON() ([]byte, error) {
	switch g.kind {
	case GeometryEncoded:
		return json.Marshal(g.Polyline)
	case GeometryGeoJSON:
		return json.Marshal(g.Line)
	}
	return []byte("null"), nil
}
