package query

import (
	osrmruntime "github.com/wippyai/osrm-runtime"
	"github.com/wippyai/osrm-runtime/codec"
	"github.com/wippyai/osrm-runtime/errors"
	"github.com/wippyai/osrm-runtime/native"
)

// NearestRequest asks for the road segments closest to one coordinate.
// Per-point options, when set, have exactly one entry.
type NearestRequest struct {
	Number     *int // results wanted, default 1
	Coordinate osrmruntime.Coordinate
	PointOptions
}

// NewNearestRequest returns a request for the single nearest segment.
func NewNearestRequest(c osrmruntime.Coordinate) *NearestRequest {
	return &NearestRequest{
		Coordinate:   c,
		Number:       osrmruntime.Ptr(1),
		PointOptions: PointOptions{GenerateHints: true},
	}
}

func (r *NearestRequest) Capability() osrmruntime.Capability {
	return osrmruntime.CapabilityNearest
}

// Count returns the number of results requested.
func (r *NearestRequest) Count() int {
	if r.Number == nil {
		return 1
	}
	return *r.Number
}

func (r *NearestRequest) Validate() error {
	if n := r.Count(); n < 1 || n > 1<<31-1 {
		return errors.InvalidArgument(r.Capability(), []string{"number"}, "must be at least 1")
	}
	return nil
}

func (r *NearestRequest) Lower() (native.Args, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}
	enc := codec.NewEncoder(r.Capability(), 1)

	coords, err := enc.Coordinates([]osrmruntime.Coordinate{r.Coordinate})
	if err != nil {
		return nil, err
	}
	pts, err := r.PointOptions.lower(enc)
	if err != nil {
		return nil, err
	}

	return &native.NearestArgs{
		Coordinates:   coords,
		Bearings:      pts.bearings,
		Radiuses:      pts.radiuses,
		Hints:         pts.hints,
		GenerateHints: r.GenerateHints,
		Number:        int32(r.Count()),
		Approaches:    pts.approaches,
		Snapping:      pts.snapping,
	}, nil
}
