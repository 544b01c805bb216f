// Package query defines the request types accepted by the routing engine.
//
// Each request implements Query. Validate runs the pre-flight checks that do
// not need the engine; Lower runs them and flattens the request into the
// native argument struct for its capability:
//
//	req := query.NewTableRequest(a, b, c)
//	req.Sources = []int{0}
//	args, err := req.Lower() // *native.TableArgs, sources [0], destinations [0 1 2]
//
// Optional values are pointers or nil slices. A nil per-point slice leaves
// every point at the engine default; a slice of nil entries sets the option
// explicitly with every point absent. Per-point slices must have one entry
// per coordinate.
//
// Checks the engine is authoritative for, such as timestamp counts or
// whether a match waypoint list includes the first and last trace points,
// are left to the engine and surface as engine errors.
package query
