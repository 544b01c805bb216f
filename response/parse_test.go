package response

import (
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	osrmruntime "github.com/wippyai/osrm-runtime"
	"github.com/wippyai/osrm-runtime/errors"
	"github.com/wippyai/osrm-runtime/native"
)

func okResult(payload string) native.Result {
	return native.Result{Code: native.StatusOk, Message: []byte(payload)}
}

const routePayload = `{
	"code": "Ok",
	"routes": [{
		"geometry": "_p~iF~ps|U_ulLnnqC_mqNvxq` + "`" + `@",
		"legs": [{
			"steps": [],
			"summary": "Boulevard Royal",
			"weight": 263.1,
			"duration": 260.2,
			"distance": 1886.3,
			"annotation": {"nodes": [1001, 1002.0, 1003], "distance": [10.5, 20.25]}
		}],
		"weight_name": "routability",
		"weight": 263.1,
		"duration": 260.2,
		"distance": 1886.3
	}],
	"waypoints": [
		{"hint": "aGludA==", "location": [6.1319, 49.6116], "name": "Rue A", "distance": 4.1},
		{"location": [6.1063, 49.7508], "name": "Rue B", "distance": 0}
	]
}`

func TestRaw_Status(t *testing.T) {
	c := osrmruntime.CapabilityRoute

	_, err := Raw(c, native.Result{Code: native.StatusOk})
	assert.ErrorIs(t, err, errors.ErrEmptyResult)

	_, err = Raw(c, native.Result{Code: native.StatusError})
	assert.ErrorIs(t, err, errors.ErrEmptyResult)

	_, err = Raw(c, native.Result{Code: native.StatusError, Message: []byte("Invalid coordinate value.")})
	require.ErrorIs(t, err, errors.ErrEngine)
	var e *errors.Error
	require.ErrorAs(t, err, &e)
	assert.Equal(t, "Invalid coordinate value.", e.Detail)
	assert.Equal(t, "route", e.Capability)
	assert.Equal(t, native.StatusError, e.Value)

	_, err = Raw(c, native.Result{Code: native.StatusOk, Message: []byte{}})
	assert.ErrorIs(t, err, errors.ErrEmptyResult)
	assert.NotErrorIs(t, err, errors.ErrMalformed)

	_, err = Raw(c, native.Result{Code: native.StatusError, Message: []byte{}})
	assert.ErrorIs(t, err, errors.ErrEmptyResult)
	assert.NotErrorIs(t, err, errors.ErrEngine)
}

func TestRaw_Envelope(t *testing.T) {
	c := osrmruntime.CapabilityRoute

	_, err := Raw(c, okResult(`{"code": "NoRoute", "message": "Impossible route between points"}`))
	require.ErrorIs(t, err, errors.ErrNoRouteFound)
	assert.ErrorIs(t, err, errors.ErrAPI)
	var e *errors.Error
	require.ErrorAs(t, err, &e)
	assert.Equal(t, "Impossible route between points", e.Detail)

	_, err = Raw(c, okResult(`{"code": "TooBig"}`))
	assert.ErrorIs(t, err, errors.ErrAPI)
	assert.NotErrorIs(t, err, errors.ErrNoRouteFound)

	_, err = Raw(c, okResult(`{"routes": []}`))
	assert.ErrorIs(t, err, errors.ErrMalformed)

	_, err = Raw(c, okResult(`not json`))
	require.ErrorIs(t, err, errors.ErrMalformed)
	require.ErrorAs(t, err, &e)
	assert.Equal(t, "route", e.Capability)
}

func TestParseRoute(t *testing.T) {
	r, err := ParseRoute(okResult(routePayload))
	require.NoError(t, err)

	require.Len(t, r.Routes, 1)
	route := r.Routes[0]
	assert.Equal(t, GeometryEncoded, route.Geometry.Kind())
	assert.Equal(t, "routability", route.WeightName)
	require.Len(t, route.Legs, 1)
	leg := route.Legs[0]
	assert.Equal(t, 1886.3, leg.Distance)
	require.NotNil(t, leg.Annotation)
	require.NotNil(t, leg.Annotation.Nodes)
	assert.Equal(t, []uint64{1001, 1002, 1003}, leg.Annotation.Nodes.IDs)
	assert.Nil(t, leg.Annotation.Duration)
	assert.Empty(t, r.Warnings())

	require.Len(t, r.Waypoints, 2)
	assert.Equal(t, "aGludA==", r.Waypoints[0].Hint)
	assert.Equal(t, "", r.Waypoints[1].Hint)
	assert.Equal(t, osrmruntime.Coordinate{Lon: 6.1063, Lat: 49.7508}, r.Waypoints[1].Coordinate())
	assert.Nil(t, r.Waypoints[1].Nodes)

	s, err := Simple(r)
	require.NoError(t, err)
	assert.Equal(t, &SimpleRoute{Code: "Ok", Duration: 260.2, Distance: 1886.3}, s)
}

func TestParseRoute_Schema(t *testing.T) {
	_, err := ParseRoute(okResult(`{"code": "Ok", "waypoints": []}`))
	var e *errors.Error
	require.ErrorAs(t, err, &e)
	assert.Equal(t, errors.KindMalformedResponse, e.Kind)
	assert.Equal(t, []string{"routes"}, e.Path)

	_, err = ParseRoute(okResult(`{"code": "Ok", "routes": [{"distance": "far"}], "waypoints": []}`))
	assert.ErrorIs(t, err, errors.ErrMalformed)

	_, err = ParseRoute(okResult(`{"code": "Ok", "routes": [{"geometry": 42}], "waypoints": []}`))
	assert.ErrorIs(t, err, errors.ErrMalformed)
}

func TestSimple_NoRoute(t *testing.T) {
	r, err := ParseRoute(okResult(`{"code": "Ok", "routes": [], "waypoints": []}`))
	require.NoError(t, err)

	s, err := Simple(r)
	assert.Nil(t, s)
	assert.ErrorIs(t, err, errors.ErrNoRouteFound)
	assert.ErrorIs(t, err, errors.ErrAPI)
}

func TestGeometry_Variants(t *testing.T) {
	var r Route

	require.NoError(t, json.Unmarshal([]byte(`{"legs": []}`), &r))
	assert.True(t, r.Geometry.IsAbsent())

	require.NoError(t, json.Unmarshal([]byte(`{"geometry": null}`), &r))
	assert.Equal(t, GeometryAbsent, r.Geometry.Kind())

	require.NoError(t, json.Unmarshal([]byte(`{"geometry": "abc"}`), &r))
	assert.Equal(t, GeometryEncoded, r.Geometry.Kind())
	assert.Equal(t, "abc", r.Geometry.Polyline)

	require.NoError(t, json.Unmarshal([]byte(
		`{"geometry": {"type": "LineString", "coordinates": [[6.1319, 49.6116], [6.1063, 49.7508]]}}`), &r))
	assert.Equal(t, GeometryGeoJSON, r.Geometry.Kind())
	require.NotNil(t, r.Geometry.Line)
	assert.Equal(t, []osrmruntime.Coordinate{{Lon: 6.1319, Lat: 49.6116}, {Lon: 6.1063, Lat: 49.7508}},
		r.Geometry.Line.Points())

	assert.Error(t, json.Unmarshal([]byte(`{"geometry": {"type": "Point", "coordinates": []}}`), &r))
	assert.Error(t, json.Unmarshal([]byte(`{"geometry": [1, 2]}`), &r))
}

func TestGeometry_Marshal(t *testing.T) {
	b, err := json.Marshal(EncodedGeometry("abc"))
	require.NoError(t, err)
	assert.JSONEq(t, `"abc"`, string(b))

	b, err = json.Marshal(Geometry{})
	require.NoError(t, err)
	assert.JSONEq(t, `null`, string(b))

	b, err = json.Marshal(GeoJSONGeometry(&LineString{Type: "LineString", Coordinates: [][2]float64{{1, 2}}}))
	require.NoError(t, err)
	assert.JSONEq(t, `{"type": "LineString", "coordinates": [[1, 2]]}`, string(b))
}

func TestParseTable(t *testing.T) {
	payload := `{
		"code": "Ok",
		"sources": [{"location": [6.1319, 49.6116], "name": "", "distance": 0}],
		"destinations": [
			{"location": [6.1063, 49.7508], "name": "", "distance": 0},
			{"location": [5.9675, 49.5009], "name": "", "distance": 0}
		],
		"durations": [[1200.5, null]]
	}`
	r, err := ParseTable(okResult(payload))
	require.NoError(t, err)

	assert.Equal(t, 1, r.Durations.Rows())
	assert.Equal(t, 2, r.Durations.Cols())
	v, ok := r.Durations.At(0, 0)
	assert.True(t, ok)
	assert.Equal(t, 1200.5, v)
	_, ok = r.Durations.At(0, 1)
	assert.False(t, ok)
	_, ok = r.Durations.At(3, 0)
	assert.False(t, ok)
	assert.Nil(t, r.Distances)
	assert.Zero(t, r.Distances.Rows())
}

func TestParseTable_Shape(t *testing.T) {
	payload := `{
		"code": "Ok",
		"sources": [{"location": [0, 0], "name": "", "distance": 0}],
		"destinations": [{"location": [0, 0], "name": "", "distance": 0}],
		"distances": [[1, 2]]
	}`
	_, err := ParseTable(okResult(payload))
	var e *errors.Error
	require.ErrorAs(t, err, &e)
	assert.Equal(t, errors.KindMalformedResponse, e.Kind)
	assert.Equal(t, []string{"distances", "0"}, e.Path)
	assert.Equal(t, "table", e.Capability)

	_, err = ParseTable(okResult(`{"code": "Ok", "destinations": []}`))
	require.ErrorAs(t, err, &e)
	assert.Equal(t, []string{"sources"}, e.Path)
}

func TestParseMatch_NullTracepoints(t *testing.T) {
	payload := `{
		"code": "Ok",
		"matchings": [{"geometry": "abc", "legs": [], "weight_name": "routability",
			"weight": 1, "duration": 1, "distance": 1, "confidence": 0.92}],
		"tracepoints": [
			{"location": [0, 0], "name": "", "distance": 0, "matchings_index": 0, "waypoint_index": 0, "alternatives_count": 2},
			null
		]
	}`
	r, err := ParseMatch(okResult(payload))
	require.NoError(t, err)

	require.Len(t, r.Matchings, 1)
	assert.Equal(t, 0.92, r.Matchings[0].Confidence)
	assert.Equal(t, GeometryEncoded, r.Matchings[0].Geometry.Kind())
	require.Len(t, r.Tracepoints, 2)
	require.NotNil(t, r.Tracepoints[0])
	assert.Equal(t, 2, r.Tracepoints[0].AlternativesCount)
	assert.Nil(t, r.Tracepoints[1])
}

func TestParseMatch_BadMatchingIndex(t *testing.T) {
	payload := `{"code": "Ok", "matchings": [],
		"tracepoints": [{"location": [0, 0], "name": "", "distance": 0, "matchings_index": 1}]}`
	_, err := ParseMatch(okResult(payload))
	assert.ErrorIs(t, err, errors.ErrMalformed)
}

func TestParseTrip(t *testing.T) {
	payload := `{"code": "Ok",
		"trips": [{"geometry": "abc", "legs": [{"steps": [], "summary": "", "weight": 1, "duration": 1, "distance": 1}],
			"weight_name": "routability", "weight": 1, "duration": 1, "distance": 1}],
		"waypoints": [
			{"location": [0, 0], "name": "", "distance": 0, "trips_index": 0, "waypoint_index": 1},
			{"location": [1, 1], "name": "", "distance": 0, "trips_index": 0, "waypoint_index": 0}
		]}`
	r, err := ParseTrip(okResult(payload))
	require.NoError(t, err)
	require.Len(t, r.Waypoints, 2)
	assert.Equal(t, 1, r.Waypoints[0].WaypointIndex)
	assert.Equal(t, osrmruntime.Coordinate{Lon: 1, Lat: 1}, r.Waypoints[1].Coordinate())

	_, err = ParseTrip(okResult(`{"code": "Ok", "trips": []}`))
	assert.ErrorIs(t, err, errors.ErrMalformed)
}

func TestParseNearest(t *testing.T) {
	payload := `{"code": "Ok", "waypoints": [
		{"location": [6.13, 49.61], "name": "Rue A", "distance": 0.5, "nodes": [5000, 5001]},
		{"location": [6.13, 49.61], "name": "Rue B", "distance": 4.2, "nodes": [5001, 5002]}
	]}`

	r, err := ParseNearest(okResult(payload), 3)
	require.NoError(t, err)
	require.Len(t, r.Waypoints, 2)
	assert.Equal(t, []uint64{5001, 5002}, r.Waypoints[1].Nodes.IDs)

	_, err = ParseNearest(okResult(payload), 1)
	var e *errors.Error
	require.ErrorAs(t, err, &e)
	assert.Equal(t, errors.KindMalformedResponse, e.Kind)
	assert.Equal(t, "nearest", e.Capability)
}

func TestNodeIDs(t *testing.T) {
	var n NodeIDs
	require.NoError(t, json.Unmarshal([]byte(`[1, 18446744073709551615, 9007199254740993, 2.0]`), &n))
	assert.Equal(t, []uint64{1, 18446744073709551615, 9007199254740993, 2}, n.IDs)
	assert.Empty(t, n.Lossy)

	require.NoError(t, json.Unmarshal([]byte(`[7.5, 1e17, 3]`), &n))
	assert.Equal(t, []uint64{7, 100000000000000000, 3}, n.IDs)
	require.Len(t, n.Lossy, 2)
	assert.Equal(t, LossyNode{Raw: "7.5", Index: 0}, n.Lossy[0])
	assert.Equal(t, 1, n.Lossy[1].Index)

	for _, bad := range []string{`[-1]`, `[-0.5]`, `[1.8446744073709552e19]`, `[18446744073709551616]`, `{}`} {
		assert.Error(t, json.Unmarshal([]byte(bad), &n), bad)
	}
}

func TestNodeIDs_Marshal(t *testing.T) {
	b, err := json.Marshal(NodeIDs{IDs: []uint64{1, 2}})
	require.NoError(t, err)
	assert.JSONEq(t, `[1, 2]`, string(b))
}

func TestWarnings(t *testing.T) {
	payload := `{"code": "Ok",
		"routes": [{"legs": [
			{"steps": [], "summary": "", "weight": 0, "duration": 0, "distance": 0},
			{"steps": [], "summary": "", "weight": 0, "duration": 0, "distance": 0,
			 "annotation": {"nodes": [1, 2.5]}}
		], "weight_name": "", "weight": 0, "duration": 0, "distance": 0}],
		"waypoints": [{"location": [0, 0], "name": "", "distance": 0, "nodes": [9.9]}]}`

	r, err := ParseRoute(okResult(payload))
	require.NoError(t, err)

	w := r.Warnings()
	require.Len(t, w, 2)
	assert.Equal(t, Warning{Path: "routes.0.legs.1.annotation.nodes.1", Raw: "2.5", Value: 2}, w[0])
	assert.Equal(t, "waypoints.0.nodes.0", w[1].Path)
	assert.Equal(t, uint64(9), w[1].Value)
	assert.Contains(t, w[0].String(), "2.5")
}

func TestParse_NodeIDError(t *testing.T) {
	payload := `{"code": "Ok", "waypoints": [{"location": [0, 0], "name": "", "distance": 0, "nodes": [-4]}]}`
	_, err := ParseNearest(okResult(payload), 1)
	assert.ErrorIs(t, err, errors.ErrMalformed)
}
