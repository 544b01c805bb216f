package codec

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	osrmruntime "github.com/wippyai/osrm-runtime"
	"github.com/wippyai/osrm-runtime/errors"
)

// Boundary sentinels for absent values.
const (
	AbsentBearing float64 = -1
	AbsentRadius  float64 = -1
	AbsentScalar  float64 = -1
)

// Encoder flattens per-point options for one capability and coordinate count.
// It holds no state besides those two values.
type Encoder struct {
	capability osrmruntime.Capability
	n          int
}

// NewEncoder creates an encoder for n coordinates.
func NewEncoder(c osrmruntime.Capability, n int) Encoder {
	return Encoder{capability: c, n: n}
}

// Capability returns the capability errors are attributed to.
func (e Encoder) Capability() osrmruntime.Capability {
	return e.capability
}

// Count returns the coordinate count the encoder checks lengths against.
func (e Encoder) Count() int {
	return e.n
}

// Coordinates flattens and validates the coordinate list.
func (e Encoder) Coordinates(coords []osrmruntime.Coordinate) ([]float64, error) {
	if len(coords) != e.n {
		return nil, errors.LengthMismatch(e.capability, "coordinates", len(coords), e.n)
	}
	for i, c := range coords {
		if err := c.Validate(); err != nil {
			return nil, errors.New(errors.PhaseEncode, errors.KindInvalidArgument).
				Capability(e.capability).
				Path("coordinates", strconv.Itoa(i)).
				Detail(err.Error()).
				Value(c).
				Build()
		}
	}
	return FlattenCoordinates(coords), nil
}

// Bearings flattens bearing constraints to interleaved (value, range) pairs.
func (e Encoder) Bearings(opts []*osrmruntime.Bearing) ([]float64, error) {
	if opts == nil {
		return nil, nil
	}
	if len(opts) != e.n {
		return nil, errors.LengthMismatch(e.capability, "bearings", len(opts), e.n)
	}
	flat := make([]float64, 0, 2*len(opts))
	for i, b := range opts {
		if b == nil {
			flat = append(flat, AbsentBearing, AbsentBearing)
			continue
		}
		if err := b.Validate(); err != nil {
			return nil, e.invalid("bearings", i, err.Error(), *b)
		}
		flat = append(flat, float64(b.Value), float64(b.Range))
	}
	return flat, nil
}

// Radiuses flattens snap radiuses in meters.
func (e Encoder) Radiuses(opts []*float64) ([]float64, error) {
	if opts == nil {
		return nil, nil
	}
	if len(opts) != e.n {
		return nil, errors.LengthMismatch(e.capability, "radiuses", len(opts), e.n)
	}
	flat := make([]float64, len(opts))
	for i, r := range opts {
		if r == nil {
			flat[i] = AbsentRadius
			continue
		}
		if math.IsNaN(*r) || math.IsInf(*r, 0) || *r < 0 {
			return nil, e.invalid("radiuses", i, "radius must be a finite non-negative number", *r)
		}
		flat[i] = *r
	}
	return flat, nil
}

// Strings flattens an optional per-point string list such as hints.
// Absent entries become "" to keep positions aligned with coordinates.
func (e Encoder) Strings(field string, opts []*string) ([]string, error) {
	if opts == nil {
		return nil, nil
	}
	if len(opts) != e.n {
		return nil, errors.LengthMismatch(e.capability, field, len(opts), e.n)
	}
	flat := make([]string, len(opts))
	for i, s := range opts {
		if s == nil {
			continue
		}
		if strings.IndexByte(*s, 0) >= 0 {
			return nil, e.invalid(field, i, "string contains a NUL byte", *s)
		}
		flat[i] = *s
	}
	return flat, nil
}

// Approaches flattens approach restrictions.
func (e Encoder) Approaches(opts []*osrmruntime.Approach) ([]string, error) {
	if opts == nil {
		return nil, nil
	}
	strs := make([]*string, len(opts))
	for i, a := range opts {
		if a == nil {
			continue
		}
		switch *a {
		case osrmruntime.ApproachUnrestricted, osrmruntime.ApproachCurb, osrmruntime.ApproachOpposite:
		default:
			return nil, e.invalid("approaches", i, fmt.Sprintf("unknown approach %q", *a), *a)
		}
		s := string(*a)
		strs[i] = &s
	}
	return e.Strings("approaches", strs)
}

// Indices returns idx checked against the coordinate count, or [0, N) if idx
// is nil.
func (e Encoder) Indices(field string, idx []int) ([]int, error) {
	if idx == nil {
		return FullRange(e.n), nil
	}
	out := make([]int, len(idx))
	for i, v := range idx {
		if v < 0 || v >= e.n {
			return nil, errors.OutOfRange(e.capability, field, v, e.n)
		}
		out[i] = v
	}
	return out, nil
}

// Names flattens a plain string list (annotations, exclude classes).
func (e Encoder) Names(field string, names []string) ([]string, error) {
	for i, s := range names {
		if strings.IndexByte(s, 0) >= 0 {
			return nil, e.invalid(field, i, "string contains a NUL byte", s)
		}
	}
	return names, nil
}

func (e Encoder) invalid(field string, i int, detail string, value any) error {
	return errors.New(errors.PhaseEncode, errors.KindInvalidArgument).
		Capability(e.capability).
		Path(field, strconv.Itoa(i)).
		Detail(detail).
		Value(value).
		Build()
}

// FlattenCoordinates interleaves coordinates as lon, lat pairs.
func FlattenCoordinates(coords []osrmruntime.Coordinate) []float64 {
	flat := make([]float64, 2*len(coords))
	for i, c := range coords {
		flat[2*i] = c.Lon
		flat[2*i+1] = c.Lat
	}
	return flat
}

// UnflattenCoordinates reverses FlattenCoordinates.
func UnflattenCoordinates(flat []float64) ([]osrmruntime.Coordinate, error) {
	if len(flat)%2 != 0 {
		return nil, fmt.Errorf("odd coordinate array length %d", len(flat))
	}
	coords := make([]osrmruntime.Coordinate, len(flat)/2)
	for i := range coords {
		coords[i] = osrmruntime.Coordinate{Lon: flat[2*i], Lat: flat[2*i+1]}
	}
	return coords, nil
}

// UnflattenBearings maps interleaved pairs back to optional bearings.
// A nil input means the option was absent as a whole and stays nil.
func UnflattenBearings(flat []float64) ([]*osrmruntime.Bearing, error) {
	if flat == nil {
		return nil, nil
	}
	if len(flat)%2 != 0 {
		return nil, fmt.Errorf("odd bearing array length %d", len(flat))
	}
	out := make([]*osrmruntime.Bearing, len(flat)/2)
	for i := range out {
		v, r := flat[2*i], flat[2*i+1]
		if v < 0 {
			continue
		}
		out[i] = &osrmruntime.Bearing{Value: int16(v), Range: int16(r)}
	}
	return out, nil
}

// UnflattenRadiuses maps the radius sentinel back to nil entries.
func UnflattenRadiuses(flat []float64) []*float64 {
	if flat == nil {
		return nil
	}
	out := make([]*float64, len(flat))
	for i, r := range flat {
		if r < 0 {
			continue
		}
		v := r
		out[i] = &v
	}
	return out
}

// UnflattenStrings maps empty strings back to nil entries.
func UnflattenStrings(flat []string) []*string {
	if flat == nil {
		return nil
	}
	out := make([]*string, len(flat))
	for i, s := range flat {
		if s == "" {
			continue
		}
		v := s
		out[i] = &v
	}
	return out
}

// Scalar returns *v or the AbsentScalar sentinel.
func Scalar(v *float64) float64 {
	if v == nil {
		return AbsentScalar
	}
	return *v
}

// FullRange returns [0, n).
func FullRange(n int) []int {
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	return idx
}
