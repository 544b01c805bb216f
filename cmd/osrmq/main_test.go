package main

import (
	"context"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	osrmruntime "github.com/wippyai/osrm-runtime"
	"github.com/wippyai/osrm-runtime/query"
	"github.com/wippyai/osrm-runtime/runtime"
	"github.com/wippyai/osrm-runtime/testbed"
)

func TestParseCoords(t *testing.T) {
	coords, err := parseCoords("6.1319,49.6116; 6.1063,49.7508")
	require.NoError(t, err)
	assert.Equal(t, []osrmruntime.Coordinate{{Lon: 6.1319, Lat: 49.6116}, {Lon: 6.1063, Lat: 49.7508}}, coords)

	for _, bad := range []string{"", "6.1", "a,b", "1,2;3", "NaN,1"} {
		_, err := parseCoords(bad)
		assert.Error(t, err, bad)
	}
}

func TestParseIndices(t *testing.T) {
	idx, err := parseIndices("0;2,3")
	require.NoError(t, err)
	assert.Equal(t, []int{0, 2, 3}, idx)

	idx, err = parseIndices(" ")
	require.NoError(t, err)
	assert.Nil(t, idx)

	_, err = parseIndices("1;x")
	assert.Error(t, err)
}

func TestRequestBuild(t *testing.T) {
	q, err := request{
		capability:   osrmruntime.CapabilityTable,
		coords:       "6.1319,49.6116;6.1063,49.7508",
		destinations: "1",
	}.build()
	require.NoError(t, err)
	table := q.(*query.TableRequest)
	assert.Nil(t, table.Sources)
	assert.Equal(t, []int{1}, table.Destinations)

	q, err = request{capability: osrmruntime.CapabilityNearest, coords: "6.1319,49.6116", number: 3}.build()
	require.NoError(t, err)
	assert.Equal(t, 3, q.(*query.NearestRequest).Count())

	_, err = request{capability: osrmruntime.CapabilityNearest, coords: "1,2;3,4"}.build()
	assert.Error(t, err)

	_, err = request{capability: "isochrone", coords: "1,2"}.build()
	assert.Error(t, err)
}

func TestSummary(t *testing.T) {
	rt, err := runtime.Open(context.Background(), "/data/luxembourg-latest.osrm", osrmruntime.AlgorithmMLD,
		runtime.Options{Library: testbed.New()})
	require.NoError(t, err)
	defer rt.Close(context.Background())

	q, err := request{
		capability: osrmruntime.CapabilityTable,
		coords:     "6.1319,49.6116;6.1063,49.7508",
	}.build()
	require.NoError(t, err)
	v, err := rt.Do(context.Background(), q)
	require.NoError(t, err)

	out := printer{}.summary(v)
	assert.Contains(t, out, "sources: 2")
	assert.Contains(t, out, "durations[0]: 0.0 600.0")
}

func TestInteractiveModel(t *testing.T) {
	rt, err := runtime.Open(context.Background(), "/data/luxembourg-latest.osrm", osrmruntime.AlgorithmMLD,
		runtime.Options{Library: testbed.New()})
	require.NoError(t, err)
	defer rt.Close(context.Background())

	m := newInteractiveModel(rt, "")
	assert.Contains(t, m.View(), "table")

	m.Update(tea.KeyMsg{Type: tea.KeyDown})
	assert.Equal(t, osrmruntime.CapabilityRoute, m.capability())

	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.Equal(t, stateInput, m.state)
	require.Len(t, m.inputs, 1)
	m.inputs[0].SetValue("6.1319,49.6116;6.1063,49.7508")

	msg := m.call()
	m.Update(msg)
	assert.Equal(t, stateResult, m.state)
	require.NoError(t, m.err)
	assert.True(t, strings.Contains(m.result, "routes"))
}
