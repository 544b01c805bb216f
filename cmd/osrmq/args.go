package main

import (
	"fmt"
	"strconv"
	"strings"

	osrmruntime "github.com/wippyai/osrm-runtime"
	"github.com/wippyai/osrm-runtime/query"
)

// parseCoords parses "lon,lat;lon,lat".
func parseCoords(s string) ([]osrmruntime.Coordinate, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, fmt.Errorf("no coordinates")
	}
	var out []osrmruntime.Coordinate
	for i, pair := range strings.Split(s, ";") {
		parts := strings.Split(strings.TrimSpace(pair), ",")
		if len(parts) != 2 {
			return nil, fmt.Errorf("coordinate %d: want lon,lat, got %q", i, pair)
		}
		lon, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
		if err != nil {
			return nil, fmt.Errorf("coordinate %d: longitude: %w", i, err)
		}
		lat, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
		if err != nil {
			return nil, fmt.Errorf("coordinate %d: latitude: %w", i, err)
		}
		c := osrmruntime.Coordinate{Lon: lon, Lat: lat}
		if err := c.Validate(); err != nil {
			return nil, fmt.Errorf("coordinate %d: %w", i, err)
		}
		out = append(out, c)
	}
	return out, nil
}

// parseIndices parses "0;2;3". An empty string means all.
func parseIndices(s string) ([]int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	var out []int
	for _, f := range strings.FieldsFunc(s, func(r rune) bool { return r == ';' || r == ',' }) {
		v, err := strconv.Atoi(strings.TrimSpace(f))
		if err != nil {
			return nil, fmt.Errorf("index %q: %w", f, err)
		}
		out = append(out, v)
	}
	return out, nil
}

type request struct {
	capability   osrmruntime.Capability
	coords       string
	sources      string
	destinations string
	number       int
}

func (r request) build() (query.Query, error) {
	coords, err := parseCoords(r.coords)
	if err != nil {
		return nil, err
	}

	switch r.capability {
	case osrmruntime.CapabilityTable:
		q := query.NewTableRequest(coords...)
		if q.Sources, err = parseIndices(r.sources); err != nil {
			return nil, fmt.Errorf("sources: %w", err)
		}
		if q.Destinations, err = parseIndices(r.destinations); err != nil {
			return nil, fmt.Errorf("destinations: %w", err)
		}
		return q, nil
	case osrmruntime.CapabilityRoute:
		q := query.NewRouteRequest(coords...)
		q.Steps = true
		return q, nil
	case osrmruntime.CapabilityTrip:
		return query.NewTripRequest(coords...), nil
	case osrmruntime.CapabilityMatch:
		return query.NewMatchRequest(coords...), nil
	case osrmruntime.CapabilityNearest:
		if len(coords) != 1 {
			return nil, fmt.Errorf("nearest takes one coordinate, got %d", len(coords))
		}
		q := query.NewNearestRequest(coords[0])
		if r.number > 0 {
			q.Number = osrmruntime.Ptr(r.number)
		}
		return q, nil
	}
	return nil, fmt.Errorf("unknown capability %q", r.capability)
}
