// Package osrmruntime provides Go bindings for a native OSRM routing engine.
//
// The engine itself (graph preparation, contraction hierarchies, multi-level
// Dijkstra, map matching) is a pre-built C++ library reached through a small
// C wrapper. This module is the layer in between: it flattens typed queries
// into the dense arrays the wrapper expects, owns the engine handle, and
// turns the engine's JSON output back into typed responses.
//
// # Architecture Overview
//
//	osrmruntime/        Root package with core value types and the Allocator interface
//	├── runtime/        High-level API: Table, Route, Trip, Match, Nearest, SimpleRoute, Batch
//	├── query/          Request types, pre-flight validation, lowering to native arguments
//	├── codec/          Primitive codec: flattening, sentinels, scoped C string buffers
//	├── native/         The C call boundary (cgo, build tag "osrm") and its argument structs
//	├── engine/         Engine handle lifecycle and configuration
//	├── resource/       Borrow-tracked handle table guaranteeing exactly-once destroy
//	├── response/       Typed response models and the JSON response parser
//	├── errors/         Structured error taxonomy
//	└── testbed/        In-process fake of the native library for tests
//
// # Quick Start
//
//	cfg := engine.PathConfig("/data/luxembourg-latest.osrm", osrmruntime.AlgorithmMLD)
//	rt, err := runtime.New(ctx, cfg, runtime.DefaultOptions())
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer rt.Close(ctx)
//
//	res, err := rt.SimpleRoute(ctx,
//	    osrmruntime.Coordinate{Lon: 6.1319, Lat: 49.6116},
//	    osrmruntime.Coordinate{Lon: 6.1063, Lat: 49.7508})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(res.Distance, res.Duration)
//
// # Building
//
// The cgo binding is compiled only with the "osrm" build tag and expects
// libosrm_wrapper plus libosrm to be installed:
//
//	go build -tags osrm ./...
//
// Without the tag every package still compiles; creating an engine then
// fails with an "unavailable" error. Tests use the testbed fake.
//
// # Thread Safety
//
// Runtime and Engine are safe for concurrent use. The native engine is
// read-only after load, every call allocates its own buffers, and Close waits
// for in-flight calls before the native instance is destroyed.
//
// # Cancellation
//
// A context is honored while a call waits for admission (rate limit,
// in-flight cap). Once a call crosses into the native engine it runs to
// completion; there is no way to interrupt it.
package osrmruntime
