//go:build osrm

package native

/*
#cgo LDFLAGS: -losrm_wrapper -losrm -losrm_store -losrm_extract -losrm_partition -losrm_update -losrm_guidance -losrm_customize -losrm_contract
#cgo LDFLAGS: -lboost_thread -lboost_filesystem -lboost_iostreams -ltbb -lfmt -llua -lz -lbz2 -lexpat
#cgo linux LDFLAGS: -lstdc++
#cgo darwin LDFLAGS: -lc++
#include <stdlib.h>
#include <string.h>
#include "osrm_wrapper.h"
*/
import "C"

import (
	"unsafe"

	osrmruntime "github.com/wippyai/osrm-runtime"
	"github.com/wippyai/osrm-runtime/codec"
	"github.com/wippyai/osrm-runtime/errors"
)

// Available reports whether the binary links the native engine.
const Available = true

type cAllocator struct{}

func (cAllocator) CString(s string) unsafe.Pointer {
	return unsafe.Pointer(C.CString(s))
}

func (cAllocator) Free(p unsafe.Pointer) {
	C.free(p)
}

type cgoLibrary struct{}

// Default returns the library linked into the binary.
func Default() Library {
	return cgoLibrary{}
}

func (cgoLibrary) Allocator() osrmruntime.Allocator {
	return cAllocator{}
}

func (cgoLibrary) Create(cfg *Config, arena *codec.StringArena) (Instance, error) {
	c := C.OSRM_Config{
		algorithm:                     cOptional(arena, cfg.Algorithm),
		shared_memory:                 C.bool(cfg.SharedMemory),
		dataset_name:                  cOptional(arena, cfg.DatasetName),
		mmap_memory:                   C.bool(cfg.MmapMemory),
		path:                          cOptional(arena, cfg.Path),
		disable_feature_dataset_flags: C.int(cfg.DisableFeatureDatasetFlags),
		max_locations_trip:            C.int(cfg.MaxLocationsTrip),
		max_locations_viaroute:        C.int(cfg.MaxLocationsViaroute),
		max_locations_distance_table:  C.int(cfg.MaxLocationsDistanceTable),
		max_locations_map_matching:    C.int(cfg.MaxLocationsMapMatching),
		max_radius_map_matching:       C.double(cfg.MaxRadiusMapMatching),
		max_results_nearest:           C.int(cfg.MaxResultsNearest),
		max_alternatives:              C.int(cfg.MaxAlternatives),
		default_radius:                C.double(cfg.DefaultRadius),
	}
	inst := C.osrm_create_with_config(&c)
	if inst == nil {
		return nil, errors.Initialization("engine rejected configuration for "+cfg.Path, nil)
	}
	return Instance(inst), nil
}

func (cgoLibrary) CreateFromPath(path, algorithm string, maxTableSize int32, arena *codec.StringArena) (Instance, error) {
	inst := C.osrm_create(
		(*C.char)(arena.Add(path)),
		(*C.char)(arena.Add(algorithm)),
		C.int(maxTableSize),
	)
	if inst == nil {
		return nil, errors.Initialization("engine could not load "+path, nil)
	}
	return Instance(inst), nil
}

func (cgoLibrary) Destroy(inst Instance) {
	C.osrm_destroy(unsafe.Pointer(inst))
}

func (cgoLibrary) Table(inst Instance, a *TableArgs, arena *codec.StringArena) Result {
	coords, nc := cDoubles(a.Coordinates)
	sources, ns := cSizes(a.Sources)
	dests, nd := cSizes(a.Destinations)
	bearings, nb := cDoubles(a.Bearings)
	radiuses, nr := cDoubles(a.Radiuses)
	hints, nh := cStrings(arena, a.Hints)
	approaches, na := cStrings(arena, a.Approaches)

	return takeResult(C.osrm_table(
		unsafe.Pointer(inst),
		coords, nc/2,
		sources, ns,
		dests, nd,
		C.bool(a.IncludeDuration), C.bool(a.IncludeDistance),
		bearings, nb/2,
		radiuses, nr,
		hints, nh,
		C.bool(a.GenerateHints),
		approaches, na,
		C.double(a.FallbackSpeed),
		cString(arena, a.FallbackCoordinate),
		C.double(a.ScaleFactor),
		cString(arena, a.Snapping),
	))
}

func (cgoLibrary) Route(inst Instance, a *RouteArgs, arena *codec.StringArena) Result {
	coords, nc := cDoubles(a.Coordinates)
	bearings, nb := cDoubles(a.Bearings)
	radiuses, nr := cDoubles(a.Radiuses)
	hints, nh := cStrings(arena, a.Hints)
	approaches, na := cStrings(arena, a.Approaches)
	annotations, nan := cStrings(arena, a.Annotations)
	exclude, ne := cStrings(arena, a.Exclude)
	waypoints, nw := cSizes(a.Waypoints)

	return takeResult(C.osrm_route(
		unsafe.Pointer(inst),
		coords, nc/2,
		bearings, nb/2,
		radiuses, nr,
		hints, nh,
		C.bool(a.GenerateHints),
		approaches, na,
		cString(arena, a.Snapping),
		C.bool(a.Steps),
		C.int(a.Alternatives),
		annotations, nan,
		cString(arena, a.Geometries),
		cString(arena, a.Overview),
		C.bool(a.ContinueStraight),
		exclude, ne,
		waypoints, nw,
	))
}

func (cgoLibrary) Trip(inst Instance, a *TripArgs, arena *codec.StringArena) Result {
	coords, nc := cDoubles(a.Coordinates)
	bearings, nb := cDoubles(a.Bearings)
	radiuses, nr := cDoubles(a.Radiuses)
	hints, nh := cStrings(arena, a.Hints)
	approaches, na := cStrings(arena, a.Approaches)

	return takeResult(C.osrm_trip(
		unsafe.Pointer(inst),
		coords, nc/2,
		bearings, nb/2,
		radiuses, nr,
		hints, nh,
		C.bool(a.GenerateHints),
		approaches, na,
		cString(arena, a.Snapping),
	))
}

func (cgoLibrary) Match(inst Instance, a *MatchArgs, arena *codec.StringArena) Result {
	coords, nc := cDoubles(a.Coordinates)
	timestamps, nt := cUnsigned(a.Timestamps)
	radiuses, nr := cDoubles(a.Radiuses)
	bearings, nb := cDoubles(a.Bearings)
	hints, nh := cStrings(arena, a.Hints)
	approaches, na := cStrings(arena, a.Approaches)
	waypoints, nw := cSizes(a.Waypoints)

	return takeResult(C.osrm_match(
		unsafe.Pointer(inst),
		coords, nc/2,
		timestamps, nt,
		radiuses, nr,
		bearings, nb/2,
		hints, nh,
		C.bool(a.GenerateHints),
		approaches, na,
		cString(arena, a.Gaps),
		C.bool(a.Tidy),
		waypoints, nw,
		cString(arena, a.Snapping),
	))
}

func (cgoLibrary) Nearest(inst Instance, a *NearestArgs, arena *codec.StringArena) Result {
	coords, nc := cDoubles(a.Coordinates)
	bearings, nb := cDoubles(a.Bearings)
	radiuses, nr := cDoubles(a.Radiuses)
	hints, nh := cStrings(arena, a.Hints)
	approaches, na := cStrings(arena, a.Approaches)

	return takeResult(C.osrm_nearest(
		unsafe.Pointer(inst),
		coords, nc/2,
		bearings, nb/2,
		radiuses, nr,
		hints, nh,
		C.bool(a.GenerateHints),
		C.int(a.Number),
		approaches, na,
		cString(arena, a.Snapping),
	))
}

// takeResult copies the message out and frees the wrapper's buffer.
func takeResult(r C.OSRM_Result) Result {
	out := Result{Code: int32(r.code)}
	if r.message != nil {
		out.Message = C.GoBytes(unsafe.Pointer(r.message), C.int(C.strlen(r.message)))
		C.osrm_free_string(r.message)
	}
	return out
}

// Float64 slices hold no Go pointers, so they are passed in place.
func cDoubles(s []float64) (*C.double, C.size_t) {
	if len(s) == 0 {
		return nil, 0
	}
	return (*C.double)(unsafe.Pointer(&s[0])), C.size_t(len(s))
}

func cSizes(idx []int) (*C.size_t, C.size_t) {
	if len(idx) == 0 {
		return nil, 0
	}
	out := make([]C.size_t, len(idx))
	for i, v := range idx {
		out[i] = C.size_t(v)
	}
	return &out[0], C.size_t(len(out))
}

func cUnsigned(ts []uint32) (*C.uint, C.size_t) {
	if len(ts) == 0 {
		return nil, 0
	}
	out := make([]C.uint, len(ts))
	for i, v := range ts {
		out[i] = C.uint(v)
	}
	return &out[0], C.size_t(len(out))
}

// cStrings builds a char* array. The array itself lives in Go memory and
// holds only C pointers.
func cStrings(arena *codec.StringArena, ss []string) (**C.char, C.size_t) {
	if len(ss) == 0 {
		return nil, 0
	}
	ptrs := make([]*C.char, len(ss))
	for i, s := range ss {
		ptrs[i] = (*C.char)(arena.Add(s))
	}
	return &ptrs[0], C.size_t(len(ptrs))
}

func cString(arena *codec.StringArena, s *string) *C.char {
	return (*C.char)(arena.Optional(s))
}

func cOptional(arena *codec.StringArena, s string) *C.char {
	if s == "" {
		return nil
	}
	return (*C.char)(arena.Add(s))
}
