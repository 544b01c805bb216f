// Package codec converts query fields into the flat, primitive
// representation the native engine boundary accepts, and back.
//
// # Representation
//
//	Go value                     Boundary value
//	──────────────────────────────────────────────────────────────
//	[]Coordinate (N points)      []float64 {lon0, lat0, lon1, lat1, ...}  (2N)
//	[]*Bearing                   []float64 {v0, r0, v1, r1, ...}          (2N), absent = (-1, -1)
//	[]*float64 (radiuses)        []float64                                (N),  absent = -1
//	[]*string (hints)            []string                                 (N),  absent = ""
//	[]int (indices), nil         [0, 1, ..., N-1]
//	*float64 (scalar option)     float64, absent = -1
//
// A nil per-point slice means "engine default for every point" and flattens
// to nil, which is distinct from a slice whose entries are all absent.
//
// # Sentinels
//
// Sentinels exist only at the boundary. Unflatten functions map them back to
// nil entries immediately. Because -1 is a sentinel, the encoder rejects
// bearings outside 0..360 / 0..180 and negative radiuses; no legitimate value
// can collide with a sentinel.
//
// # String Buffers
//
// StringArena owns every NUL-terminated buffer handed to one native call.
// Acquire it per call and defer Release so buffers are freed on every exit
// path:
//
//	arena := codec.NewStringArena(alloc)
//	defer arena.Release()
//	hints := arena.AddAll(args.Hints)
//
// # Key Types
//
//	Encoder      - Capability-scoped flattening with length checks
//	StringArena  - Call-scoped owner of boundary string buffers
//	GoAllocator  - Allocator backed by the Go heap, for in-process libraries
package codec
