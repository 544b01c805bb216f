// Package errors provides the structured error taxonomy of osrm-runtime.
//
// Errors are categorized by Phase (where in a call the error occurred) and
// Kind (what went wrong). The Error type carries the capability of the
// failing call, the engine status code when there is one, the field path and
// the cause chain.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseEncode, errors.KindInvalidArgument).
//		Capability(osrmruntime.CapabilityRoute).
//		Path("radiuses").
//		Detail("length %d does not match %d coordinates", 3, 2).
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.Engine(osrmruntime.CapabilityMatch, 1, message)
//	err := errors.NoRouteFound(osrmruntime.CapabilityRoute)
//
// All errors implement the standard error interface and support errors.Is/As.
// The package-level sentinels match on Kind alone:
//
//	if errors.Is(err, oerrors.ErrNoRouteFound) { ... }
package errors
