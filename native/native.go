package native

import (
	"unsafe"

	osrmruntime "github.com/wippyai/osrm-runtime"
	"github.com/wippyai/osrm-runtime/codec"
)

// Instance is the opaque engine handle returned by a Library.
type Instance unsafe.Pointer

// Status codes returned in Result.Code.
const (
	StatusOk    int32 = 0
	StatusError int32 = 1
)

// Result is a query outcome copied out of native memory.
// Message is nil when the wrapper returned a null buffer.
type Result struct {
	Message []byte
	Code    int32
}

// Config mirrors the wrapper's OSRM_Config struct field for field.
// Zero or negative limits leave the engine default in place.
type Config struct {
	Algorithm                  string
	DatasetName                string
	Path                       string
	MaxRadiusMapMatching       float64
	DefaultRadius              float64
	DisableFeatureDatasetFlags int32
	MaxLocationsTrip           int32
	MaxLocationsViaroute       int32
	MaxLocationsDistanceTable  int32
	MaxLocationsMapMatching    int32
	MaxResultsNearest          int32
	MaxAlternatives            int32
	SharedMemory               bool
	MmapMemory                 bool
}

// TableArgs are the flattened arguments of osrm_table.
type TableArgs struct {
	FallbackCoordinate *string
	Snapping           *string
	Coordinates        []float64
	Sources            []int
	Destinations       []int
	Bearings           []float64
	Radiuses           []float64
	Hints              []string
	Approaches         []string
	FallbackSpeed      float64
	ScaleFactor        float64
	IncludeDuration    bool
	IncludeDistance    bool
	GenerateHints      bool
}

// RouteArgs are the flattened arguments of osrm_route.
type RouteArgs struct {
	Snapping         *string
	Geometries       *string
	Overview         *string
	Coordinates      []float64
	Bearings         []float64
	Radiuses         []float64
	Hints            []string
	Approaches       []string
	Annotations      []string
	Exclude          []string
	Waypoints        []int
	Alternatives     int32
	GenerateHints    bool
	Steps            bool
	ContinueStraight bool
}

// TripArgs are the flattened arguments of osrm_trip.
type TripArgs struct {
	Snapping      *string
	Coordinates   []float64
	Bearings      []float64
	Radiuses      []float64
	Hints         []string
	Approaches    []string
	GenerateHints bool
}

// MatchArgs are the flattened arguments of osrm_match.
type MatchArgs struct {
	Gaps          *string
	Snapping      *string
	Coordinates   []float64
	Timestamps    []uint32
	Radiuses      []float64
	Bearings      []float64
	Hints         []string
	Approaches    []string
	Waypoints     []int
	GenerateHints bool
	Tidy          bool
}

// NearestArgs are the flattened arguments of osrm_nearest.
type NearestArgs struct {
	Snapping      *string
	Coordinates   []float64
	Bearings      []float64
	Radiuses      []float64
	Hints         []string
	Approaches    []string
	Number        int32
	GenerateHints bool
}

// Args is implemented by the five argument structs.
type Args interface {
	Capability() osrmruntime.Capability
}

func (*TableArgs) Capability() osrmruntime.Capability { return osrmruntime.CapabilityTable }
func (*RouteArgs) Capability() osrmruntime.Capability { return osrmruntime.CapabilityRoute }
func (*TripArgs) Capability() osrmruntime.Capability { return osrmruntime.CapabilityTrip }
func (*MatchArgs) Capability() osrmruntime.Capability { return osrmruntime.CapabilityMatch }
func (*NearestArgs) Capability() osrmruntime.Capability { return osrmruntime.CapabilityNearest }

// Library is the set of native entry points.
//
// Strings handed to the library are built in the supplied arena; the caller
// releases it after the call. Query methods must be safe for concurrent use
// on the same Instance.
type Library interface {
	// Allocator returns the allocator arenas must use for this library.
	Allocator() osrmruntime.Allocator

	Create(cfg *Config, arena *codec.StringArena) (Instance, error)
	CreateFromPath(path, algorithm string, maxTableSize int32, arena *codec.StringArena) (Instance, error)
	Destroy(inst Instance)

	Table(inst Instance, args *TableArgs, arena *codec.StringArena) Result
	Route(inst Instance, args *RouteArgs, arena *codec.StringArena) Result
	Trip(inst Instance, args *TripArgs, arena *codec.StringArena) Result
	Match(inst Instance, args *MatchArgs, arena *codec.StringArena) Result
	Nearest(inst Instance, args *NearestArgs, arena *codec.StringArena) Result
}

// Call dispatches args to the matching Library method.
func Call(lib Library, inst Instance, args Args, arena *codec.StringArena) Result {
	switch a := args.(type) {
	case *TableArgs:
		return lib.Table(inst, a, arena)
	case *RouteArgs:
		return lib.Route(inst, a, arena)
	case *TripArgs:
		return lib.Trip(inst, a, arena)
	case *MatchArgs:
		return lib.Match(inst, a, arena)
	case *NearestArgs:
		return lib.Nearest(inst, a, arena)
	}
	return Result{Code: StatusError, Message: []byte("unsupported argument type")}
}
