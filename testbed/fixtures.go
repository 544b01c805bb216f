package testbed

import (
	"fmt"

	"github.com/goccy/go-json"

	osrmruntime "github.com/wippyai/osrm-runtime"
	"github.com/wippyai/osrm-runtime/codec"
	"github.com/wippyai/osrm-runtime/native"
)

// TimestampMismatch is the message the default match handler fails with when
// timestamps and coordinates differ in count.
const TimestampMismatch = "Number of timestamps does not match number of coordinates"

// DefaultHandlers returns handlers that synthesize plausible engine payloads
// shaped by the call's arguments.
func DefaultHandlers() map[osrmruntime.Capability]Handler {
	return map[osrmruntime.Capability]Handler{
		osrmruntime.CapabilityTable:   tableHandler,
		osrmruntime.CapabilityRoute:   routeHandler,
		osrmruntime.CapabilityTrip:    tripHandler,
		osrmruntime.CapabilityMatch:   matchHandler,
		osrmruntime.CapabilityNearest: nearestHandler,
	}
}

type object = map[string]any

func ok(payload object) native.Result {
	payload["code"] = "Ok"
	b, err := json.Marshal(payload)
	if err != nil {
		return native.Result{Code: native.StatusError, Message: []byte(err.Error())}
	}
	return native.Result{Code: native.StatusOk, Message: b}
}

func points(flat []float64) []osrmruntime.Coordinate {
	coords, err := codec.UnflattenCoordinates(flat)
	if err != nil {
		return nil
	}
	return coords
}

func waypoint(i int, c osrmruntime.Coordinate) object {
	return object{
		"hint":     fmt.Sprintf("hint-%d", i),
		"location": []float64{c.Lon, c.Lat},
		"name":     fmt.Sprintf("Street %d", i),
		"distance": 1.5,
	}
}

func waypoints(coords []osrmruntime.Coordinate) []object {
	out := make([]object, len(coords))
	for i, c := range coords {
		out[i] = waypoint(i, c)
	}
	return out
}

func tableHandler(call *Call) native.Result {
	a := call.Args.(*native.TableArgs)
	coords := points(a.Coordinates)

	cell := func(src, dst int) float64 {
		if src == dst {
			return 0
		}
		d := src - dst
		if d < 0 {
			d = -d
		}
		return float64(d) * 600
	}
	matrix := func(scale float64) [][]float64 {
		rows := make([][]float64, len(a.Sources))
		for i, s := range a.Sources {
			rows[i] = make([]float64, len(a.Destinations))
			for j, d := range a.Destinations {
				rows[i][j] = cell(s, d) * scale
			}
		}
		return rows
	}

	sources := make([]object, len(a.Sources))
	for i, s := range a.Sources {
		sources[i] = waypoint(s, coords[s])
	}
	dests := make([]object, len(a.Destinations))
	for i, d := range a.Destinations {
		dests[i] = waypoint(d, coords[d])
	}

	payload := object{"sources": sources, "destinations": dests}
	if a.IncludeDuration {
		payload["durations"] = matrix(1)
	}
	if a.IncludeDistance {
		payload["distances"] = matrix(12.5)
	}
	return ok(payload)
}

func geometry(geometries *string, coords []osrmruntime.Coordinate) any {
	if geometries != nil && *geometries == "geojson" {
		line := make([][]float64, len(coords))
		for i, c := range coords {
			line[i] = []float64{c.Lon, c.Lat}
		}
		return object{"type": "LineString", "coordinates": line}
	}
	return "_p~iF~ps|U_ulLnnqC_mqNvxq`@"
}

func route(coords []osrmruntime.Coordinate, geometries *string, steps bool, annotate bool) object {
	legCount := len(coords) - 1
	if legCount < 1 {
		legCount = 1
	}
	legs := make([]object, legCount)
	var total float64
	for i := range legs {
		leg := object{
			"distance": 1200.0,
			"duration": 180.0,
			"weight":   180.0,
			"summary":  "Boulevard Albert 1er",
			"steps":    []object{},
		}
		if steps {
			leg["steps"] = []object{{
				"distance":      1200.0,
				"duration":      180.0,
				"weight":        180.0,
				"name":          "Boulevard Albert 1er",
				"mode":          "driving",
				"driving_side":  "right",
				"geometry":      geometry(geometries, coords),
				"maneuver":      object{"type": "depart", "location": []float64{coords[0].Lon, coords[0].Lat}, "bearing_before": 0, "bearing_after": 90},
				"intersections": []object{{"location": []float64{coords[0].Lon, coords[0].Lat}, "bearings": []int{90}, "entry": []bool{true}, "out": 0}},
			}}
		}
		if annotate {
			leg["annotation"] = object{
				"distance": []float64{600, 600},
				"duration": []float64{90, 90},
				"nodes":    []int64{1001, 1002, 1003},
			}
		}
		legs[i] = leg
		total += 1200
	}
	return object{
		"geometry":    geometry(geometries, coords),
		"legs":        legs,
		"distance":    total,
		"duration":    total * 0.15,
		"weight":      total * 0.15,
		"weight_name": "routability",
	}
}

func routeHandler(call *Call) native.Result {
	a := call.Args.(*native.RouteArgs)
	coords := points(a.Coordinates)
	if len(coords) < 2 {
		return native.Result{Code: native.StatusError, Message: []byte("Number of coordinates needs to be at least two.")}
	}

	routes := []object{route(coords, a.Geometries, a.Steps, len(a.Annotations) > 0)}
	for i := int32(0); i < a.Alternatives && i < 1; i++ {
		routes = append(routes, route(coords, a.Geometries, a.Steps, len(a.Annotations) > 0))
	}
	return ok(object{"routes": routes, "waypoints": waypoints(coords)})
}

func tripHandler(call *Call) native.Result {
	a := call.Args.(*native.TripArgs)
	coords := points(a.Coordinates)

	wps := waypoints(coords)
	for i, w := range wps {
		w["trips_index"] = 0
		w["waypoint_index"] = (len(wps) - i) % len(wps)
	}
	closed := append(append([]osrmruntime.Coordinate(nil), coords...), coords[0])
	return ok(object{"trips": []object{route(closed, nil, false, false)}, "waypoints": wps})
}

func matchHandler(call *Call) native.Result {
	a := call.Args.(*native.MatchArgs)
	coords := points(a.Coordinates)
	if len(a.Timestamps) > 0 && len(a.Timestamps) != len(coords) {
		return native.Result{Code: native.StatusError, Message: []byte(TimestampMismatch)}
	}

	m := route(coords, nil, false, false)
	m["confidence"] = 0.92
	tps := make([]any, len(coords))
	for i, c := range coords {
		w := waypoint(i, c)
		w["matchings_index"] = 0
		w["waypoint_index"] = i
		w["alternatives_count"] = 0
		tps[i] = w
	}
	return ok(object{"matchings": []object{m}, "tracepoints": tps})
}

func nearestHandler(call *Call) native.Result {
	a := call.Args.(*native.NearestArgs)
	coords := points(a.Coordinates)
	if len(coords) != 1 {
		return native.Result{Code: native.StatusError, Message: []byte("Only one input coordinate is supported")}
	}

	wps := make([]object, a.Number)
	for i := range wps {
		w := waypoint(i, coords[0])
		w["distance"] = float64(i) * 4.2
		w["nodes"] = []int64{int64(5000 + i), int64(5001 + i)}
		wps[i] = w
	}
	return ok(object{"waypoints": wps})
}
