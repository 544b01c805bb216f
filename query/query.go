package query

import (
	"fmt"
	"math"

	osrmruntime "github.com/wippyai/osrm-runtime"
	"github.com/wippyai/osrm-runtime/codec"
	"github.com/wippyai/osrm-runtime/errors"
	"github.com/wippyai/osrm-runtime/native"
)

// Query is one of TableRequest, RouteRequest, TripRequest, MatchRequest or
// NearestRequest.
type Query interface {
	Capability() osrmruntime.Capability
	Validate() error
	Lower() (native.Args, error)
}

// Geometries selects the route geometry encoding.
type Geometries string

const (
	GeometriesPolyline  Geometries = "polyline"
	GeometriesPolyline6 Geometries = "polyline6"
	GeometriesGeoJSON   Geometries = "geojson"
)

// Overview selects how much of the route geometry is returned.
type Overview string

const (
	OverviewSimplified Overview = "simplified"
	OverviewFull       Overview = "full"
	OverviewFalse      Overview = "false"
)

// Gaps selects how match handles gaps in a trace.
type Gaps string

const (
	GapsSplit  Gaps = "split"
	GapsIgnore Gaps = "ignore"
)

// FallbackCoordinate selects which coordinate fallback table cells use.
type FallbackCoordinate string

const (
	FallbackInput   FallbackCoordinate = "input"
	FallbackSnapped FallbackCoordinate = "snapped"
)

// Annotation names per-segment metadata a route may carry.
type Annotation string

const (
	AnnotationAll         Annotation = "all"
	AnnotationNodes       Annotation = "nodes"
	AnnotationDistance    Annotation = "distance"
	AnnotationDuration    Annotation = "duration"
	AnnotationDatasources Annotation = "datasources"
	AnnotationWeight      Annotation = "weight"
	AnnotationSpeed       Annotation = "speed"
)

// PointOptions are the per-coordinate snapping options every service takes.
type PointOptions struct {
	Snapping *osrmruntime.Snapping

	Bearings   []*osrmruntime.Bearing
	Radiuses   []*float64 // meters
	Hints      []*string  // base64 hints from a previous response
	Approaches []*osrmruntime.Approach

	GenerateHints bool
}

type pointArgs struct {
	snapping   *string
	bearings   []float64
	radiuses   []float64
	hints      []string
	approaches []string
}

func (o *PointOptions) lower(enc codec.Encoder) (pointArgs, error) {
	var (
		out pointArgs
		err error
	)
	if out.bearings, err = enc.Bearings(o.Bearings); err != nil {
		return out, err
	}
	if out.radiuses, err = enc.Radiuses(o.Radiuses); err != nil {
		return out, err
	}
	if out.hints, err = enc.Strings("hints", o.Hints); err != nil {
		return out, err
	}
	if out.approaches, err = enc.Approaches(o.Approaches); err != nil {
		return out, err
	}
	if o.Snapping != nil {
		switch *o.Snapping {
		case osrmruntime.SnappingDefault, osrmruntime.SnappingAny:
		default:
			return out, errors.InvalidArgument(enc.Capability(), []string{"snapping"},
				fmt.Sprintf("unknown snapping %q", *o.Snapping))
		}
		s := string(*o.Snapping)
		out.snapping = &s
	}
	return out, nil
}

func requireCoordinates(c osrmruntime.Capability, coords []osrmruntime.Coordinate) error {
	if len(coords) == 0 {
		return errors.InvalidArgument(c, []string{"coordinates"}, "at least one coordinate is required")
	}
	return nil
}

func oneOf[T ~string](c osrmruntime.Capability, field string, v *T, allowed ...T) error {
	if v == nil {
		return nil
	}
	for _, a := range allowed {
		if *v == a {
			return nil
		}
	}
	return errors.InvalidArgument(c, []string{field}, fmt.Sprintf("unknown value %q", string(*v)))
}

func positive(c osrmruntime.Capability, field string, v *float64) error {
	if v == nil {
		return nil
	}
	if math.IsNaN(*v) || math.IsInf(*v, 0) || *v <= 0 {
		return errors.InvalidArgument(c, []string{field}, "must be a positive finite number")
	}
	return nil
}

func optString[T ~string](v *T) *string {
	if v == nil {
		return nil
	}
	s := string(*v)
	return &s
}
