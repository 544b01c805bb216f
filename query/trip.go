package query

import (
	osrmruntime "github.com/wippyai/osrm-runtime"
	"github.com/wippyai/osrm-runtime/codec"
	"github.com/wippyai/osrm-runtime/native"
)

// TripRequest asks for a round trip visiting every coordinate.
type TripRequest struct {
	Coordinates []osrmruntime.Coordinate
	PointOptions
}

// NewTripRequest returns a trip over coords with hints generated.
func NewTripRequest(coords ...osrmruntime.Coordinate) *TripRequest {
	return &TripRequest{
		Coordinates:  coords,
		PointOptions: PointOptions{GenerateHints: true},
	}
}

func (r *TripRequest) Capability() osrmruntime.Capability {
	return osrmruntime.CapabilityTrip
}

func (r *TripRequest) Validate() error {
	return requireCoordinates(r.Capability(), r.Coordinates)
}

func (r *TripRequest) Lower() (native.Args, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}
	enc := codec.NewEncoder(r.Capability(), len(r.Coordinates))

	coords, err := enc.Coordinates(r.Coordinates)
	if err != nil {
		return nil, err
	}
	pts, err := r.PointOptions.lower(enc)
	if err != nil {
		return nil, err
	}

	return &native.TripArgs{
		Coordinates:   coords,
		Bearings:      pts.bearings,
		Radiuses:      pts.radiuses,
		Hints:         pts.hints,
		GenerateHints: r.GenerateHints,
		Approaches:    pts.approaches,
		Snapping:      pts.snapping,
	}, nil
}
