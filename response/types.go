package response

import (
	"strconv"

	osrmruntime "github.com/wippyai/osrm-runtime"
)

// Envelope is the status part every payload carries.
type Envelope struct {
	Code    string `json:"code"`
	Message string `json:"message,omitempty"`
}

func (e *Envelope) envelope() *Envelope { return e }

// Waypoint is an input coordinate snapped to the road network.
type Waypoint struct {
	Nodes    *NodeIDs   `json:"nodes,omitempty"`
	Hint     string     `json:"hint,omitempty"`
	Name     string     `json:"name"`
	Location [2]float64 `json:"location"`
	Distance float64    `json:"distance"`
}

// Coordinate returns the snapped location.
func (w *Waypoint) Coordinate() osrmruntime.Coordinate {
	return osrmruntime.Coordinate{Lon: w.Location[0], Lat: w.Location[1]}
}

// TripWaypoint is a waypoint with its position in the computed trip.
type TripWaypoint struct {
	Waypoint
	TripsIndex    int `json:"trips_index"`
	WaypointIndex int `json:"waypoint_index"`
}

// Tracepoint is a trace coordinate matched to a road. Unmatched trace
// points decode as nil entries of MatchResponse.Tracepoints.
type Tracepoint struct {
	Waypoint
	MatchingsIndex    int `json:"matchings_index"`
	WaypointIndex     int `json:"waypoint_index"`
	AlternativesCount int `json:"alternatives_count"`
}

type Maneuver struct {
	Exit          *int       `json:"exit,omitempty"`
	Type          string     `json:"type"`
	Modifier      string     `json:"modifier,omitempty"`
	Location      [2]float64 `json:"location"`
	BearingBefore int        `json:"bearing_before"`
	BearingAfter  int        `json:"bearing_after"`
}

type Lane struct {
	Indications []string `json:"indications"`
	Valid       bool     `json:"valid"`
}

type Intersection struct {
	In       *int       `json:"in,omitempty"`
	Out      *int       `json:"out,omitempty"`
	Bearings []int      `json:"bearings"`
	Entry    []bool     `json:"entry"`
	Classes  []string   `json:"classes,omitempty"`
	Lanes    []Lane     `json:"lanes,omitempty"`
	Location [2]float64 `json:"location"`
}

// Step is one maneuver of a leg, present when steps were requested.
type Step struct {
	Geometry      Geometry       `json:"geometry"`
	Intersections []Intersection `json:"intersections"`
	Name          string         `json:"name"`
	Ref           string         `json:"ref,omitempty"`
	Mode          string         `json:"mode"`
	DrivingSide   string         `json:"driving_side,omitempty"`
	Maneuver      Maneuver       `json:"maneuver"`
	Distance      float64        `json:"distance"`
	Duration      float64        `json:"duration"`
	Weight        float64        `json:"weight"`
}

type Metadata struct {
	DatasourceNames []string `json:"datasource_names"`
}

// Annotation carries per-segment data along a leg. Every field is present
// only if its annotation was requested.
type Annotation struct {
	Nodes       *NodeIDs  `json:"nodes,omitempty"`
	Metadata    *Metadata `json:"metadata,omitempty"`
	Distance    []float64 `json:"distance,omitempty"`
	Duration    []float64 `json:"duration,omitempty"`
	Weight      []float64 `json:"weight,omitempty"`
	Speed       []float64 `json:"speed,omitempty"`
	Datasources []int     `json:"datasources,omitempty"`
}

// Leg is the part of a route between two waypoints.
type Leg struct {
	Annotation *Annotation `json:"annotation,omitempty"`
	Steps      []Step      `json:"steps"`
	Summary    string      `json:"summary"`
	Weight     float64     `json:"weight"`
	Duration   float64     `json:"duration"`
	Distance   float64     `json:"distance"`
}

type Route struct {
	Geometry   Geometry `json:"geometry"`
	Legs       []Leg    `json:"legs"`
	WeightName string   `json:"weight_name"`
	Weight     float64  `json:"weight"`
	Duration   float64  `json:"duration"`
	Distance   float64  `json:"distance"`
}

// Matching is a route through matched trace points.
type Matching struct {
	Route
	Confidence float64 `json:"confidence"`
}

type TableResponse struct {
	Envelope
	Sources            []Waypoint `json:"sources"`
	Destinations       []Waypoint `json:"destinations"`
	Durations          Matrix     `json:"durations,omitempty"`
	Distances          Matrix     `json:"distances,omitempty"`
	FallbackSpeedCells [][]int    `json:"fallback_speed_cells,omitempty"`
}

type RouteResponse struct {
	Envelope
	Routes    []Route    `json:"routes"`
	Waypoints []Waypoint `json:"waypoints"`
}

type TripResponse struct {
	Envelope
	Trips     []Route        `json:"trips"`
	Waypoints []TripWaypoint `json:"waypoints"`
}

type MatchResponse struct {
	Envelope
	Matchings   []Matching    `json:"matchings"`
	Tracepoints []*Tracepoint `json:"tracepoints"`
}

type NearestResponse struct {
	Envelope
	Waypoints []Waypoint `json:"waypoints"`
}

// SimpleRoute is the distance and duration of the first leg of the first
// route between two points.
type SimpleRoute struct {
	Code     string  `json:"code"`
	Duration float64 `json:"duration"`
	Distance float64 `json:"distance"`
}

// Warnings lists node IDs that decoded lossily.
func (r *TableResponse) Warnings() []Warning {
	out := waypointWarnings("sources", r.Sources)
	return append(out, waypointWarnings("destinations", r.Destinations)...)
}

func (r *RouteResponse) Warnings() []Warning {
	return append(routeWarnings("routes", r.Routes), waypointWarnings("waypoints", r.Waypoints)...)
}

func (r *TripResponse) Warnings() []Warning {
	out := routeWarnings("trips", r.Trips)
	for i := range r.Waypoints {
		out = append(out, r.Waypoints[i].Nodes.warnings(join("waypoints", i, "nodes"))...)
	}
	return out
}

func (r *MatchResponse) Warnings() []Warning {
	var out []Warning
	for i := range r.Matchings {
		out = append(out, legWarnings(join("matchings", i, "legs"), r.Matchings[i].Legs)...)
	}
	for i, tp := range r.Tracepoints {
		if tp != nil {
			out = append(out, tp.Nodes.warnings(join("tracepoints", i, "nodes"))...)
		}
	}
	return out
}

func (r *NearestResponse) Warnings() []Warning {
	return waypointWarnings("waypoints", r.Waypoints)
}

func routeWarnings(field string, routes []Route) []Warning {
	var out []Warning
	for i := range routes {
		out = append(out, legWarnings(join(field, i, "legs"), routes[i].Legs)...)
	}
	return out
}

func legWarnings(prefix string, legs []Leg) []Warning {
	var out []Warning
	for i := range legs {
		if a := legs[i].Annotation; a != nil {
			out = append(out, a.Nodes.warnings(join(prefix, i, "annotation.nodes"))...)
		}
	}
	return out
}

func waypointWarnings(field string, wps []Waypoint) []Warning {
	var out []Warning
	for i := range wps {
		out = append(out, wps[i].Nodes.warnings(join(field, i, "nodes"))...)
	}
	return out
}

func join(prefix string, i int, suffix string) string {
	return prefix + "." + strconv.Itoa(i) + "." + suffix
}
