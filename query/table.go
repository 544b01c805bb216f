package query

import (
	osrmruntime "github.com/wippyai/osrm-runtime"
	"github.com/wippyai/osrm-runtime/codec"
	"github.com/wippyai/osrm-runtime/native"
)

// TableRequest asks for a duration and/or distance matrix between sources
// and destinations. Nil Sources or Destinations mean every coordinate.
type TableRequest struct {
	FallbackSpeed      *float64 // m/s used for unreachable pairs
	FallbackCoordinate *FallbackCoordinate
	ScaleFactor        *float64

	Coordinates  []osrmruntime.Coordinate
	Sources      []int
	Destinations []int

	PointOptions

	IncludeDuration bool
	IncludeDistance bool
}

// NewTableRequest returns a request for both matrices with hints generated.
func NewTableRequest(coords ...osrmruntime.Coordinate) *TableRequest {
	return &TableRequest{
		Coordinates:     coords,
		IncludeDuration: true,
		IncludeDistance: true,
		PointOptions:    PointOptions{GenerateHints: true},
	}
}

func (r *TableRequest) Capability() osrmruntime.Capability {
	return osrmruntime.CapabilityTable
}

func (r *TableRequest) Validate() error {
	c := r.Capability()
	if err := requireCoordinates(c, r.Coordinates); err != nil {
		return err
	}
	if err := positive(c, "fallback_speed", r.FallbackSpeed); err != nil {
		return err
	}
	if err := positive(c, "scale_factor", r.ScaleFactor); err != nil {
		return err
	}
	return oneOf(c, "fallback_coordinate", r.FallbackCoordinate, FallbackInput, FallbackSnapped)
}

func (r *TableRequest) Lower() (native.Args, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}
	enc := codec.NewEncoder(r.Capability(), len(r.Coordinates))

	coords, err := enc.Coordinates(r.Coordinates)
	if err != nil {
		return nil, err
	}
	sources, err := enc.Indices("sources", r.Sources)
	if err != nil {
		return nil, err
	}
	dests, err := enc.Indices("destinations", r.Destinations)
	if err != nil {
		return nil, err
	}
	pts, err := r.PointOptions.lower(enc)
	if err != nil {
		return nil, err
	}

	return &native.TableArgs{
		Coordinates:        coords,
		Sources:            sources,
		Destinations:       dests,
		IncludeDuration:    r.IncludeDuration,
		IncludeDistance:    r.IncludeDistance,
		Bearings:           pts.bearings,
		Radiuses:           pts.radiuses,
		Hints:              pts.hints,
		GenerateHints:      r.GenerateHints,
		Approaches:         pts.approaches,
		FallbackSpeed:      codec.Scalar(r.FallbackSpeed),
		FallbackCoordinate: optString(r.FallbackCoordinate),
		ScaleFactor:        codec.Scalar(r.ScaleFactor),
		Snapping:           pts.snapping,
	}, nil
}
