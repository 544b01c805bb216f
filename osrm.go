package osrmruntime

import (
	"fmt"
	"math"
	"strings"
	"unsafe"
)

// Coordinate is a (longitude, latitude) pair in degrees.
type Coordinate struct {
	Lon float64
	Lat float64
}

// Validate checks that both components are finite.
// Geographic range is left to the engine.
func (c Coordinate) Validate() error {
	if math.IsNaN(c.Lon) || math.IsInf(c.Lon, 0) {
		return fmt.Errorf("longitude %v is not finite", c.Lon)
	}
	if math.IsNaN(c.Lat) || math.IsInf(c.Lat, 0) {
		return fmt.Errorf("latitude %v is not finite", c.Lat)
	}
	return nil
}

func (c Coordinate) String() string {
	return fmt.Sprintf("%.6f,%.6f", c.Lon, c.Lat)
}

// Bearing restricts snapping to segments whose direction is within
// Range degrees of Value (clockwise from true north).
type Bearing struct {
	Value int16
	Range int16
}

// Validate checks the engine's accepted domain: value 0..360, range 0..180.
func (b Bearing) Validate() error {
	if b.Value < 0 || b.Value > 360 {
		return fmt.Errorf("bearing value %d outside 0..360", b.Value)
	}
	if b.Range < 0 || b.Range > 180 {
		return fmt.Errorf("bearing range %d outside 0..180", b.Range)
	}
	return nil
}

// Approach restricts the side of the road a waypoint is approached from.
type Approach string

const (
	ApproachUnrestricted Approach = "unrestricted"
	ApproachCurb         Approach = "curb"
	ApproachOpposite     Approach = "opposite"
)

// Snapping selects which edges coordinates may snap to.
type Snapping string

const (
	SnappingDefault Snapping = "default"
	SnappingAny     Snapping = "any"
)

// Algorithm selects the engine's search algorithm. It must match the way
// the dataset was prepared.
type Algorithm string

const (
	AlgorithmCH  Algorithm = "CH"  // contraction hierarchies
	AlgorithmMLD Algorithm = "MLD" // multi-level Dijkstra
)

// ParseAlgorithm accepts "CH" or "MLD" in any case.
func ParseAlgorithm(s string) (Algorithm, error) {
	switch Algorithm(strings.ToUpper(strings.TrimSpace(s))) {
	case AlgorithmCH:
		return AlgorithmCH, nil
	case AlgorithmMLD:
		return AlgorithmMLD, nil
	}
	return "", fmt.Errorf("unknown algorithm %q (want CH or MLD)", s)
}

// Capability identifies one of the engine's query services.
type Capability string

const (
	CapabilityTable   Capability = "table"
	CapabilityRoute   Capability = "route"
	CapabilityTrip    Capability = "trip"
	CapabilityMatch   Capability = "match"
	CapabilityNearest Capability = "nearest"
)

func (c Capability) String() string { return string(c) }

// Capabilities lists every capability in a stable order.
var Capabilities = []Capability{
	CapabilityTable,
	CapabilityRoute,
	CapabilityTrip,
	CapabilityMatch,
	CapabilityNearest,
}

// Allocator hands out NUL-terminated buffers the native side can read.
// Buffers stay valid until passed to Free.
type Allocator interface {
	CString(s string) unsafe.Pointer
	Free(p unsafe.Pointer)
}

// Ptr returns a pointer to v. Handy for optional request fields.
func Ptr[T any](v T) *T {
	return &v
}
