// Package native is the fixed function-call boundary to the routing engine.
//
// A Library exposes the wrapper's C entry points with Go signatures that take
// only flat primitives: dense float64 arrays, index slices, string slices and
// scalars. Strings are copied into buffers owned by a call-scoped
// codec.StringArena, which the caller releases after the call returns.
//
// Every query entry point returns a Result. The wrapper's message buffer is
// copied into Go memory and freed through the wrapper's free function before
// the entry point returns, so a Result never references native memory.
//
// The cgo implementation is compiled with the "osrm" build tag and links
// libosrm_wrapper together with the engine's static libraries:
//
//	CGO_LDFLAGS="-L/path/to/osrm/lib" go build -tags osrm ./...
//
// Without the tag, Default returns a library whose constructors fail with an
// errors.KindUnavailable error. Tests substitute an in-process Library (see
// package testbed).
package native
