package runtime

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	osrmruntime "github.com/wippyai/osrm-runtime"
	"github.com/wippyai/osrm-runtime/engine"
	"github.com/wippyai/osrm-runtime/errors"
	"github.com/wippyai/osrm-runtime/native"
	"github.com/wippyai/osrm-runtime/query"
	"github.com/wippyai/osrm-runtime/response"
	"github.com/wippyai/osrm-runtime/testbed"
)

var (
	luxembourg = osrmruntime.Coordinate{Lon: 6.1319, Lat: 49.6116}
	ettelbruck = osrmruntime.Coordinate{Lon: 6.1063, Lat: 49.7508}
	esch       = osrmruntime.Coordinate{Lon: 5.9675, Lat: 49.5009}
)

func open(t *testing.T, lib *testbed.Library, opts Options) *Runtime {
	t.Helper()
	opts.Library = lib
	rt, err := Open(context.Background(), "/data/luxembourg-latest.osrm", osrmruntime.AlgorithmMLD, opts)
	require.NoError(t, err)
	t.Cleanup(func() { _ = rt.Close(context.Background()) })
	return rt
}

func TestNew(t *testing.T) {
	lib := testbed.New()
	cfg := engine.PathConfig("/data/luxembourg-latest.osrm", osrmruntime.AlgorithmCH)
	cfg.MaxResultsNearest = 10

	rt, err := New(context.Background(), cfg, Options{Library: lib})
	require.NoError(t, err)

	assert.Equal(t, int32(10), lib.LastConfig().MaxResultsNearest)
	assert.Equal(t, osrmruntime.AlgorithmCH, rt.Engine().Config().Algorithm)

	require.NoError(t, rt.Close(context.Background()))
	assert.Equal(t, 1, lib.Stats().Destroys)
}

func TestOpen_Failure(t *testing.T) {
	lib := testbed.New()

	_, err := Open(context.Background(), "", osrmruntime.AlgorithmMLD, Options{Library: lib})
	assert.ErrorIs(t, err, errors.ErrInitialization)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = Open(ctx, "/data/luxembourg-latest.osrm", osrmruntime.AlgorithmMLD, Options{Library: lib})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, lib.Stats().Creates)
}

func TestTable_DefaultIndices(t *testing.T) {
	lib := testbed.New()
	rt := open(t, lib, DefaultOptions())

	resp, err := rt.Table(context.Background(), query.NewTableRequest(luxembourg, ettelbruck, esch))
	require.NoError(t, err)

	args := lib.LastCall().Args.(*native.TableArgs)
	assert.Equal(t, []int{0, 1, 2}, args.Sources)
	assert.Equal(t, []int{0, 1, 2}, args.Destinations)
	assert.Equal(t, 3, resp.Durations.Rows())
	assert.Equal(t, 3, resp.Distances.Cols())
}

func TestTable_OneByTwo(t *testing.T) {
	lib := testbed.New()
	rt := open(t, lib, DefaultOptions())

	req := query.NewTableRequest(luxembourg, ettelbruck, esch)
	req.Sources = []int{0}
	req.Destinations = []int{1, 2}

	resp, err := rt.Table(context.Background(), req)
	require.NoError(t, err)

	require.Len(t, resp.Sources, 1)
	require.Len(t, resp.Destinations, 2)
	assert.Equal(t, 1, resp.Durations.Rows())
	assert.Equal(t, 2, resp.Durations.Cols())
	d, ok := resp.Durations.At(0, 1)
	assert.True(t, ok)
	assert.Equal(t, 1200.0, d)
}

func TestRoute(t *testing.T) {
	lib := testbed.New()
	rt := open(t, lib, DefaultOptions())

	req := query.NewRouteRequest(luxembourg, ettelbruck)
	req.Steps = true
	req.Annotations = []query.Annotation{query.AnnotationNodes}
	req.Hints = []*string{nil, osrmruntime.Ptr("aGludA==")}

	resp, err := rt.Route(context.Background(), req)
	require.NoError(t, err)

	require.NotEmpty(t, resp.Routes)
	route := resp.Routes[0]
	require.NotEmpty(t, route.Legs)
	assert.Positive(t, route.Legs[0].Distance)
	assert.NotEmpty(t, route.Legs[0].Steps)
	assert.Equal(t, response.GeometryEncoded, route.Geometry.Kind())
	assert.Equal(t, []uint64{1001, 1002, 1003}, route.Legs[0].Annotation.Nodes.IDs)

	call := lib.LastCall()
	assert.Equal(t, []string{"", "aGludA=="}, call.Strings["hints"])
	assert.Equal(t, []string{"nodes"}, call.Strings["annotations"])
	assert.Zero(t, lib.Stats().OutstandingBufs)
}

func TestRoute_GeoJSON(t *testing.T) {
	lib := testbed.New()
	rt := open(t, lib, DefaultOptions())

	req := query.NewRouteRequest(luxembourg, ettelbruck)
	req.Geometries = osrmruntime.Ptr(query.GeometriesGeoJSON)

	resp, err := rt.Route(context.Background(), req)
	require.NoError(t, err)
	g := resp.Routes[0].Geometry
	require.Equal(t, response.GeometryGeoJSON, g.Kind())
	assert.Equal(t, []osrmruntime.Coordinate{luxembourg, ettelbruck}, g.Line.Points())
}

func TestRoute_EngineError(t *testing.T) {
	lib := testbed.New()
	rt := open(t, lib, DefaultOptions())

	_, err := rt.Route(context.Background(), query.NewRouteRequest(luxembourg))
	require.ErrorIs(t, err, errors.ErrEngine)

	var e *errors.Error
	require.ErrorAs(t, err, &e)
	assert.Equal(t, "Number of coordinates needs to be at least two.", e.Detail)
}

func TestSimpleRoute(t *testing.T) {
	lib := testbed.New()
	rt := open(t, lib, DefaultOptions())

	s, err := rt.SimpleRoute(context.Background(), luxembourg, ettelbruck)
	require.NoError(t, err)
	assert.Equal(t, &response.SimpleRoute{Code: "Ok", Duration: 180, Distance: 1200}, s)
}

func TestSimpleRoute_NoRoute(t *testing.T) {
	lib := testbed.New()
	rt := open(t, lib, DefaultOptions())

	lib.Respond(osrmruntime.CapabilityRoute, `{"code": "Ok", "routes": [], "waypoints": []}`)
	s, err := rt.SimpleRoute(context.Background(), luxembourg, ettelbruck)
	assert.Nil(t, s)
	assert.ErrorIs(t, err, errors.ErrNoRouteFound)

	lib.Fail(osrmruntime.CapabilityRoute, "Impossible route between points")
	s, err = rt.SimpleRoute(context.Background(), luxembourg, ettelbruck)
	assert.Nil(t, s)
	require.ErrorIs(t, err, errors.ErrNoRouteFound)
	assert.ErrorIs(t, err, errors.ErrEngine)

	var e *errors.Error
	require.ErrorAs(t, err, &e)
	assert.Equal(t, errors.KindAPIError, e.Kind)
	require.Error(t, e.Cause)
	assert.Contains(t, e.Cause.Error(), "Impossible route between points")
}

func TestSimpleRoute_OtherErrorsKept(t *testing.T) {
	lib := testbed.New()
	rt := open(t, lib, DefaultOptions())
	require.NoError(t, rt.Close(context.Background()))

	_, err := rt.SimpleRoute(context.Background(), luxembourg, ettelbruck)
	assert.ErrorIs(t, err, errors.ErrClosed)
	assert.NotErrorIs(t, err, errors.ErrNoRouteFound)
}

func TestTrip(t *testing.T) {
	lib := testbed.New()
	rt := open(t, lib, DefaultOptions())

	resp, err := rt.Trip(context.Background(), query.NewTripRequest(luxembourg, ettelbruck, esch))
	require.NoError(t, err)
	require.Len(t, resp.Trips, 1)
	require.Len(t, resp.Waypoints, 3)
	assert.Len(t, resp.Trips[0].Legs, 3)
}

func TestMatch_TimestampMismatch(t *testing.T) {
	lib := testbed.New()
	rt := open(t, lib, DefaultOptions())

	req := query.NewMatchRequest(luxembourg, ettelbruck, esch)
	req.Timestamps = []uint32{1700000000, 1700000060}

	_, err := rt.Match(context.Background(), req)
	require.ErrorIs(t, err, errors.ErrEngine)

	var e *errors.Error
	require.ErrorAs(t, err, &e)
	assert.Equal(t, testbed.TimestampMismatch, e.Detail)
	assert.Equal(t, 1, lib.Stats().Calls)
}

func TestMatch(t *testing.T) {
	lib := testbed.New()
	rt := open(t, lib, DefaultOptions())

	req := query.NewMatchRequest(luxembourg, ettelbruck, esch)
	req.Timestamps = []uint32{1700000000, 1700000060, 1700000120}

	resp, err := rt.Match(context.Background(), req)
	require.NoError(t, err)
	require.Len(t, resp.Matchings, 1)
	assert.InDelta(t, 0.92, resp.Matchings[0].Confidence, 1e-9)
	assert.Len(t, resp.Tracepoints, 3)
}

func TestNearest(t *testing.T) {
	lib := testbed.New()
	rt := open(t, lib, DefaultOptions())

	req := query.NewNearestRequest(luxembourg)
	req.Number = osrmruntime.Ptr(3)

	resp, err := rt.Nearest(context.Background(), req)
	require.NoError(t, err)
	assert.Len(t, resp.Waypoints, 3)
	assert.Equal(t, int32(3), lib.LastCall().Args.(*native.NearestArgs).Number)
}

func TestNearest_TooMany(t *testing.T) {
	lib := testbed.New()
	rt := open(t, lib, DefaultOptions())

	lib.Respond(osrmruntime.CapabilityNearest, `{"code": "Ok", "waypoints": [
		{"location": [0, 0], "name": "", "distance": 0},
		{"location": [0, 0], "name": "", "distance": 0}
	]}`)

	_, err := rt.Nearest(context.Background(), query.NewNearestRequest(luxembourg))
	assert.ErrorIs(t, err, errors.ErrMalformed)
}

func TestNullBuffer(t *testing.T) {
	lib := testbed.New()
	rt := open(t, lib, DefaultOptions())

	lib.Null(osrmruntime.CapabilityTrip)
	_, err := rt.Trip(context.Background(), query.NewTripRequest(luxembourg, esch))
	assert.ErrorIs(t, err, errors.ErrEmptyResult)
}

func TestValidation_NoNativeCall(t *testing.T) {
	lib := testbed.New()
	rt := open(t, lib, DefaultOptions())

	_, err := rt.Route(context.Background(), query.NewRouteRequest())
	assert.ErrorIs(t, err, errors.ErrInvalidArgument)

	req := query.NewTableRequest(luxembourg, ettelbruck)
	req.Radiuses = []*float64{nil}
	_, err = rt.Table(context.Background(), req)
	assert.ErrorIs(t, err, errors.ErrInvalidArgument)

	assert.Zero(t, lib.Stats().Calls)
}

func TestCanceledContext(t *testing.T) {
	lib := testbed.New()
	rt := open(t, lib, DefaultOptions())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := rt.Route(ctx, query.NewRouteRequest(luxembourg, ettelbruck))
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, lib.Stats().Calls)
}

func TestClosed(t *testing.T) {
	lib := testbed.New()
	rt := open(t, lib, DefaultOptions())

	require.NoError(t, rt.Close(context.Background()))
	require.NoError(t, rt.Close(context.Background()))

	_, err := rt.Route(context.Background(), query.NewRouteRequest(luxembourg, ettelbruck))
	assert.ErrorIs(t, err, errors.ErrClosed)

	stats := lib.Stats()
	assert.Equal(t, 1, stats.Destroys)
	assert.Zero(t, stats.DoubleDestroys)
	assert.Zero(t, stats.UseAfterDestroy)
}

func TestMaxInFlight(t *testing.T) {
	lib := testbed.New()
	lib.Delay = 20 * time.Millisecond
	rt := open(t, lib, Options{MaxInFlight: 1})

	var wg sync.WaitGroup
	for range 4 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := rt.Route(context.Background(), query.NewRouteRequest(luxembourg, ettelbruck))
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	stats := lib.Stats()
	assert.Equal(t, 4, stats.Calls)
	assert.Equal(t, 1, stats.MaxInFlight)
}

func TestMaxInFlight_ContextWhileQueued(t *testing.T) {
	lib := testbed.New()
	lib.Delay = 200 * time.Millisecond
	rt := open(t, lib, Options{MaxInFlight: 1})

	go func() {
		_, _ = rt.Route(context.Background(), query.NewRouteRequest(luxembourg, ettelbruck))
	}()
	require.Eventually(t, func() bool { return rt.Engine().InFlight() == 1 }, time.Second, time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	_, err := rt.Route(ctx, query.NewRouteRequest(luxembourg, ettelbruck))
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestCallsPerSecond(t *testing.T) {
	lib := testbed.New()
	rt := open(t, lib, Options{CallsPerSecond: 0.5, Burst: 1})

	_, err := rt.Route(context.Background(), query.NewRouteRequest(luxembourg, ettelbruck))
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = rt.Route(ctx, query.NewRouteRequest(luxembourg, ettelbruck))
	assert.Error(t, err)
	assert.Equal(t, 1, lib.Stats().Calls)
}

func TestDo(t *testing.T) {
	lib := testbed.New()
	rt := open(t, lib, DefaultOptions())
	ctx := context.Background()

	v, err := rt.Do(ctx, query.NewTableRequest(luxembourg, esch))
	require.NoError(t, err)
	assert.IsType(t, &response.TableResponse{}, v)

	v, err = rt.Do(ctx, query.NewNearestRequest(luxembourg))
	require.NoError(t, err)
	assert.IsType(t, &response.NearestResponse{}, v)

	v, err = rt.Do(ctx, query.NewRouteRequest())
	assert.Nil(t, v)
	assert.ErrorIs(t, err, errors.ErrInvalidArgument)

	_, err = rt.Do(ctx, nil)
	assert.ErrorIs(t, err, errors.ErrInvalidArgument)
}

func TestBatch(t *testing.T) {
	lib := testbed.New()
	lib.Delay = 5 * time.Millisecond
	rt := open(t, lib, Options{BatchConcurrency: 3})

	qs := []query.Query{
		query.NewTableRequest(luxembourg, ettelbruck),
		query.NewRouteRequest(luxembourg, ettelbruck),
		query.NewTripRequest(luxembourg, ettelbruck, esch),
		query.NewMatchRequest(luxembourg, ettelbruck),
		query.NewNearestRequest(esch),
		query.NewRouteRequest(luxembourg),
	}

	results, err := rt.Batch(context.Background(), qs)
	require.NoError(t, err)
	require.Len(t, results, len(qs))

	for i, r := range results[:5] {
		assert.Same(t, qs[i], r.Query)
		assert.NoError(t, r.Err, "query %d", i)
		assert.NotNil(t, r.Value)
	}
	assert.IsType(t, &response.TripResponse{}, results[2].Value)
	assert.ErrorIs(t, results[5].Err, errors.ErrEngine)
	assert.Nil(t, results[5].Value)

	stats := lib.Stats()
	assert.Equal(t, 6, stats.Calls)
	assert.LessOrEqual(t, stats.MaxInFlight, 3)
	assert.Zero(t, stats.OutstandingBufs)
}

func TestBatch_Canceled(t *testing.T) {
	lib := testbed.New()
	rt := open(t, lib, DefaultOptions())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	results, err := rt.Batch(ctx, []query.Query{query.NewRouteRequest(luxembourg, ettelbruck)})
	assert.ErrorIs(t, err, context.Canceled)
	require.Len(t, results, 1)
	assert.ErrorIs(t, results[0].Err, context.Canceled)
	assert.Zero(t, lib.Stats().Calls)
}

func TestLossyNodeWarning(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	lib := testbed.New()
	rt := open(t, lib, Options{Logger: zap.New(core)})

	lib.Respond(osrmruntime.CapabilityNearest, `{"code": "Ok", "waypoints": [
		{"location": [6.13, 49.61], "name": "", "distance": 0, "nodes": [5000, 5001.5]}
	]}`)

	resp, err := rt.Nearest(context.Background(), query.NewNearestRequest(luxembourg))
	require.NoError(t, err)
	assert.Equal(t, []uint64{5000, 5001}, resp.Waypoints[0].Nodes.IDs)

	entries := logs.FilterMessage("lossy node id").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "nearest", fields["capability"])
	assert.Equal(t, "waypoints.0.nodes.1", fields["path"])
	assert.Equal(t, uint64(5001), fields["value"])
}
