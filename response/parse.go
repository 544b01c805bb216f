package response

import (
	stderrors "errors"
	"fmt"
	"strconv"

	"github.com/goccy/go-json"

	osrmruntime "github.com/wippyai/osrm-runtime"
	"github.com/wippyai/osrm-runtime/errors"
	"github.com/wippyai/osrm-runtime/native"
)

type payload interface {
	envelope() *Envelope
}

// Raw checks status and envelope and returns the payload bytes of a
// successful call. A null or empty buffer is EmptyResult whatever the status.
func Raw(c osrmruntime.Capability, raw native.Result) ([]byte, error) {
	if len(raw.Message) == 0 {
		return nil, errors.EmptyResult(c)
	}
	if raw.Code != native.StatusOk {
		return nil, errors.Engine(c, raw.Code, string(raw.Message))
	}

	var env Envelope
	if err := json.Unmarshal(raw.Message, &env); err != nil {
		return nil, errors.Malformed(c, nil, err)
	}
	if env.Code == "" {
		return nil, errors.Malformed(c, []string{"code"}, fmt.Errorf("missing response code"))
	}
	if env.Code != errors.CodeOk {
		return nil, errors.API(c, env.Code, env.Message)
	}
	return raw.Message, nil
}

func decode[T any, P interface {
	*T
	payload
}](c osrmruntime.Capability, raw native.Result) (*T, error) {
	data, err := Raw(c, raw)
	if err != nil {
		return nil, err
	}
	out := new(T)
	if err := json.Unmarshal(data, P(out)); err != nil {
		var nodeErr *NodeIDError
		if stderrors.As(err, &nodeErr) {
			return nil, errors.Malformed(c, []string{"nodes", strconv.Itoa(nodeErr.Index)}, err)
		}
		return nil, errors.Malformed(c, nil, err)
	}
	return out, nil
}

func ParseTable(raw native.Result) (*TableResponse, error) {
	c := osrmruntime.CapabilityTable
	r, err := decode[TableResponse](c, raw)
	if err != nil {
		return nil, err
	}
	if r.Sources == nil {
		return nil, missing(c, "sources")
	}
	if r.Destinations == nil {
		return nil, missing(c, "destinations")
	}
	for _, f := range []struct {
		name string
		m    Matrix
	}{{"durations", r.Durations}, {"distances", r.Distances}} {
		field, m := f.name, f.m
		if m == nil {
			continue
		}
		if len(m) != len(r.Sources) {
			return nil, errors.Malformed(c, []string{field},
				fmt.Errorf("%d rows for %d sources", len(m), len(r.Sources)))
		}
		if i := m.checkShape(len(r.Destinations)); i >= 0 {
			return nil, errors.Malformed(c, []string{field, strconv.Itoa(i)},
				fmt.Errorf("%d cells for %d destinations", len(m[i]), len(r.Destinations)))
		}
	}
	return r, nil
}

func ParseRoute(raw native.Result) (*RouteResponse, error) {
	c := osrmruntime.CapabilityRoute
	r, err := decode[RouteResponse](c, raw)
	if err != nil {
		return nil, err
	}
	if r.Routes == nil {
		return nil, missing(c, "routes")
	}
	return r, nil
}

func ParseTrip(raw native.Result) (*TripResponse, error) {
	c := osrmruntime.CapabilityTrip
	r, err := decode[TripResponse](c, raw)
	if err != nil {
		return nil, err
	}
	if r.Trips == nil {
		return nil, missing(c, "trips")
	}
	if r.Waypoints == nil {
		return nil, missing(c, "waypoints")
	}
	return r, nil
}

func ParseMatch(raw native.Result) (*MatchResponse, error) {
	c := osrmruntime.CapabilityMatch
	r, err := decode[MatchResponse](c, raw)
	if err != nil {
		return nil, err
	}
	if r.Matchings == nil {
		return nil, missing(c, "matchings")
	}
	if r.Tracepoints == nil {
		return nil, missing(c, "tracepoints")
	}
	for i, tp := range r.Tracepoints {
		if tp != nil && (tp.MatchingsIndex < 0 || tp.MatchingsIndex >= len(r.Matchings)) {
			return nil, errors.Malformed(c, []string{"tracepoints", strconv.Itoa(i), "matchings_index"},
				fmt.Errorf("index %d with %d matchings", tp.MatchingsIndex, len(r.Matchings)))
		}
	}
	return r, nil
}

// ParseNearest decodes a nearest payload. More waypoints than requested is
// a schema violation.
func ParseNearest(raw native.Result, requested int) (*NearestResponse, error) {
	c := osrmruntime.CapabilityNearest
	r, err := decode[NearestResponse](c, raw)
	if err != nil {
		return nil, err
	}
	if r.Waypoints == nil {
		return nil, missing(c, "waypoints")
	}
	if len(r.Waypoints) > requested {
		return nil, errors.Malformed(c, []string{"waypoints"},
			fmt.Errorf("%d waypoints for %d requested", len(r.Waypoints), requested))
	}
	return r, nil
}

// Simple projects the first leg of the first route. A response without
// routes or legs is a NoRoute API error.
func Simple(r *RouteResponse) (*SimpleRoute, error) {
	if len(r.Routes) == 0 || len(r.Routes[0].Legs) == 0 {
		return nil, errors.NoRouteFound(osrmruntime.CapabilityRoute)
	}
	leg := r.Routes[0].Legs[0]
	return &SimpleRoute{
		Code:     r.Code,
		Duration: leg.Duration,
		Distance: leg.Distance,
	}, nil
}

func missing(c osrmruntime.Capability, field string) error {
	return errors.Malformed(c, []string{field}, fmt.Errorf("missing %q", field))
}
