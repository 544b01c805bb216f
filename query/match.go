package query

import (
	osrmruntime "github.com/wippyai/osrm-runtime"
	"github.com/wippyai/osrm-runtime/codec"
	"github.com/wippyai/osrm-runtime/native"
)

// MatchRequest snaps a GPS trace to the road network.
//
// Timestamps, when set, should have one entry per coordinate, and Waypoints
// should include the first and last trace index. Neither is checked here;
// the engine rejects violations.
type MatchRequest struct {
	Gaps *Gaps

	Coordinates []osrmruntime.Coordinate
	Timestamps  []uint32 // seconds since epoch, increasing

	// Waypoints selects which trace points become route waypoints.
	// Nil treats every trace point as a waypoint.
	Waypoints []int

	PointOptions

	Tidy bool
}

// NewMatchRequest returns a match over coords with hints generated.
func NewMatchRequest(coords ...osrmruntime.Coordinate) *MatchRequest {
	return &MatchRequest{
		Coordinates:  coords,
		PointOptions: PointOptions{GenerateHints: true},
	}
}

func (r *MatchRequest) Capability() osrmruntime.Capability {
	return osrmruntime.CapabilityMatch
}

func (r *MatchRequest) Validate() error {
	c := r.Capability()
	if err := requireCoordinates(c, r.Coordinates); err != nil {
		return err
	}
	return oneOf(c, "gaps", r.Gaps, GapsSplit, GapsIgnore)
}

func (r *MatchRequest) Lower() (native.Args, error) {
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
	var waypoints []int
	if r.Waypoints != nil {
		if waypoints, err = enc.Indices("waypoints", r.Waypoints); err != nil {
			return nil, err
		}
	}

	return &native.MatchArgs{
		Coordinates:   coords,
		Timestamps:    r.Timestamps,
		Radiuses:      pts.radiuses,
		Bearings:      pts.bearings,
		Hints:         pts.hints,
		GenerateHints: r.GenerateHints,
		Approaches:    pts.approaches,
		Gaps:          optString(r.Gaps),
		Tidy:          r.Tidy,
		Waypoints:     waypoints,
		Snapping:      pts.snapping,
	}, nil
}
