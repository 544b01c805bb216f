// Package engine owns the native routing engine handle.
//
// An Engine is created once from a Config (or a dataset path), shared by any
// number of goroutines, and closed once:
//
//	eng, err := engine.Open(native.Default(), engine.PathConfig("/data/monaco.osrm", osrmruntime.AlgorithmMLD))
//	if err != nil {
//	    return err
//	}
//	defer eng.Close()
//
//	res, err := eng.Invoke(&native.RouteArgs{...})
//
// # Handle Lifecycle
//
// The native instance lives in a resource.Table. Invoke borrows it for the
// duration of one call; Close stops new borrows, waits for the outstanding
// ones, then calls the library's destroy function exactly once. Calls after
// Close fail with errors.KindClosed.
//
// Creation failures are reported as errors.KindInitialization (or
// errors.KindUnavailable when the binary has no native engine) and never
// expose a partial handle.
//
// # Configuration
//
// Config mirrors the engine's creation options. DefaultConfig matches the
// engine's defaults; PathConfig loads a dataset from disk; ConfigFromEnv reads
// OSRM_* environment variables:
//
//	OSRM_PATH                          dataset base path
//	OSRM_ALGORITHM                     CH or MLD
//	OSRM_SHARED_MEMORY, OSRM_MMAP      booleans
//	OSRM_DATASET_NAME                  shared memory dataset name
//	OSRM_DISABLE_FEATURES              "steps,geometry"
//	OSRM_MAX_LOCATIONS_*               per-service location limits
//	OSRM_MAX_RADIUS_MAP_MATCHING       meters
//	OSRM_MAX_RESULTS_NEAREST           nearest result cap
//	OSRM_MAX_ALTERNATIVES              route alternatives cap
//	OSRM_DEFAULT_RADIUS                meters
//
// # Logging
//
// Engine creation and destruction are logged at info level, failed native
// calls and handle lifecycle events at debug level. Use SetLogger or
// WithLogger to attach a zap logger.
package engine
