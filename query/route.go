package query

import (
	"fmt"

	osrmruntime "github.com/wippyai/osrm-runtime"
	"github.com/wippyai/osrm-runtime/codec"
	"github.com/wippyai/osrm-runtime/errors"
	"github.com/wippyai/osrm-runtime/native"
)

// RouteRequest asks for the fastest route through the coordinates in order.
type RouteRequest struct {
	Alternatives *int // number of alternative routes, nil or 0 for none
	Geometries   *Geometries
	Overview     *Overview

	Coordinates []osrmruntime.Coordinate
	Annotations []Annotation
	Exclude     []string // road classes to avoid, e.g. "toll"

	// Waypoints selects which coordinates split the route into legs.
	// Nil treats every coordinate as a waypoint.
	Waypoints []int

	PointOptions

	Steps            bool
	ContinueStraight bool
}

// NewRouteRequest returns a request through coords with hints generated.
func NewRouteRequest(coords ...osrmruntime.Coordinate) *RouteRequest {
	return &RouteRequest{
		Coordinates:  coords,
		PointOptions: PointOptions{GenerateHints: true},
	}
}

func (r *RouteRequest) Capability() osrmruntime.Capability {
	return osrmruntime.CapabilityRoute
}

func (r *RouteRequest) Validate() error {
	c := r.Capability()
	if err := requireCoordinates(c, r.Coordinates); err != nil {
		return err
	}
	if r.Alternatives != nil {
		if n := *r.Alternatives; n < 0 || n > 1<<31-1 {
			return errors.InvalidArgument(c, []string{"alternatives"}, "must be between 0 and 2147483647")
		}
	}
	if err := oneOf(c, "geometries", r.Geometries, GeometriesPolyline, GeometriesPolyline6, GeometriesGeoJSON); err != nil {
		return err
	}
	if err := oneOf(c, "overview", r.Overview, OverviewSimplified, OverviewFull, OverviewFalse); err != nil {
		return err
	}
	for i, a := range r.Annotations {
		switch a {
		case AnnotationAll, AnnotationNodes, AnnotationDistance, AnnotationDuration,
			AnnotationDatasources, AnnotationWeight, AnnotationSpeed:
		default:
			return errors.InvalidArgument(c, []string{"annotations", fmt.Sprint(i)},
				fmt.Sprintf("unknown annotation %q", a))
		}
	}
	return nil
}

func (r *RouteRequest) Lower() (native.Args, error) {
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
	exclude, err := enc.Names("exclude", r.Exclude)
	if err != nil {
		return nil, err
	}
	var waypoints []int
	if r.Waypoints != nil {
		if waypoints, err = enc.Indices("waypoints", r.Waypoints); err != nil {
			return nil, err
		}
	}

	var annotations []string
	if r.Annotations != nil {
		annotations = make([]string, len(r.Annotations))
		for i, a := range r.Annotations {
			annotations[i] = string(a)
		}
	}

	var alternatives int32
	if r.Alternatives != nil {
		alternatives = int32(*r.Alternatives)
	}

	return &native.RouteArgs{
		Coordinates:      coords,
		Bearings:         pts.bearings,
		Radiuses:         pts.radiuses,
		Hints:            pts.hints,
		GenerateHints:    r.GenerateHints,
		Approaches:       pts.approaches,
		Snapping:         pts.snapping,
		Steps:            r.Steps,
		Alternatives:     alternatives,
		Annotations:      annotations,
		Geometries:       optString(r.Geometries),
		Overview:         optString(r.Overview),
		ContinueStraight: r.ContinueStraight,
		Exclude:          exclude,
		Waypoints:        waypoints,
	}, nil
}
