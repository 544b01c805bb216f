// Package runtime is the query facade over one native routing engine.
//
// # Quick Start
//
//	ctx := context.Background()
//	rt, err := runtime.Open(ctx, "/data/luxembourg-latest.osrm", osrmruntime.AlgorithmMLD, runtime.DefaultOptions())
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer rt.Close(ctx)
//
//	req := query.NewTableRequest(
//	    osrmruntime.Coordinate{Lon: 6.1319, Lat: 49.6116},
//	    osrmruntime.Coordinate{Lon: 6.1063, Lat: 49.7508},
//	)
//	table, err := rt.Table(ctx, req)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	d, ok := table.Durations.At(0, 1)
//
// # Calls
//
// Every call lowers its request to flat native arguments, waits for
// admission, runs the native query synchronously and decodes the payload.
// The context is honored only while waiting for admission: once the native
// call starts it runs to completion.
//
//	Table(ctx, *query.TableRequest)     - duration/distance matrix
//	Route(ctx, *query.RouteRequest)     - route through points in order
//	Trip(ctx, *query.TripRequest)       - round trip over all points
//	Match(ctx, *query.MatchRequest)     - snap a GPS trace
//	Nearest(ctx, *query.NearestRequest) - nearest road segments
//	SimpleRoute(ctx, from, to)          - first-leg distance and duration
//	Do(ctx, query.Query)                - dispatch any request
//	Batch(ctx, []query.Query)           - run requests concurrently
//
// # Admission
//
// Options.MaxInFlight caps concurrent native calls and
// Options.CallsPerSecond caps their rate. Both are off by default.
//
// # Errors
//
// Errors come from package errors and can be tested with errors.Is:
//
//	if errors.Is(err, errors.ErrNoRouteFound) { ... }
//
// A context that ends before admission returns the context's error.
package runtime
