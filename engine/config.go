package engine

import (
	"errors"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"

	osrmruntime "github.com/wippyai/osrm-runtime"
	"github.com/wippyai/osrm-runtime/native"
)

// Feature is a bit set of dataset features the engine may skip loading.
type Feature int32

const (
	FeatureRouteSteps    Feature = 1 << iota // turn-by-turn steps
	FeatureRouteGeometry                     // route geometries
)

// Has reports whether every bit of f is set.
func (s Feature) Has(f Feature) bool {
	return s&f == f
}

// ParseFeatures accepts a comma separated list of "steps" and "geometry",
// or the raw bit value.
func ParseFeatures(s string) (Feature, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	if n, err := strconv.Atoi(s); err == nil {
		if n < 0 || Feature(n)&^(FeatureRouteSteps|FeatureRouteGeometry) != 0 {
			return 0, fmt.Errorf("unknown feature bits %d", n)
		}
		return Feature(n), nil
	}
	var out Feature
	for _, name := range strings.Split(s, ",") {
		switch strings.ToLower(strings.TrimSpace(name)) {
		case "steps", "route_steps":
			out |= FeatureRouteSteps
		case "geometry", "route_geometry":
			out |= FeatureRouteGeometry
		default:
			return 0, fmt.Errorf("unknown feature %q", name)
		}
	}
	return out, nil
}

// ConfigError names the offending configuration field.
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config error: field %q: %s", e.Field, e.Message)
}

// Config holds engine creation settings. Zero limits keep the engine's
// built-in defaults.
type Config struct {
	Algorithm   osrmruntime.Algorithm
	Path        string // dataset base path, e.g. /data/monaco.osrm
	DatasetName string // shared memory dataset name

	// DisableFeatures lists dataset features not to load.
	DisableFeatures Feature

	MaxLocationsTrip          int
	MaxLocationsViaroute      int
	MaxLocationsDistanceTable int
	MaxLocationsMapMatching   int
	MaxResultsNearest         int
	MaxAlternatives           int

	MaxRadiusMapMatching float64 // meters
	DefaultRadius        float64 // meters

	SharedMemory bool
	MmapMemory   bool
}

// DefaultConfig returns the engine's documented defaults: CH over shared
// memory, a 5 m map-matching radius cap and 3 alternatives.
func DefaultConfig() *Config {
	return &Config{
		Algorithm:            osrmruntime.AlgorithmCH,
		SharedMemory:         true,
		MaxRadiusMapMatching: 5,
		MaxAlternatives:      3,
	}
}

// PathConfig returns a config that loads the dataset at path into process
// memory.
func PathConfig(path string, algorithm osrmruntime.Algorithm) *Config {
	cfg := DefaultConfig()
	cfg.Path = path
	cfg.Algorithm = algorithm
	cfg.SharedMemory = false
	return cfg
}

// Validate checks the config before it reaches the engine.
func (c *Config) Validate() error {
	var errs []error
	if _, err := osrmruntime.ParseAlgorithm(string(c.Algorithm)); err != nil {
		errs = append(errs, &ConfigError{Field: "Algorithm", Message: err.Error()})
	}
	if !c.SharedMemory && c.Path == "" {
		errs = append(errs, &ConfigError{Field: "Path", Message: "required unless SharedMemory is set"})
	}
	if c.MmapMemory && c.Path == "" {
		errs = append(errs, &ConfigError{Field: "MmapMemory", Message: "requires Path"})
	}
	if strings.IndexByte(c.Path, 0) >= 0 {
		errs = append(errs, &ConfigError{Field: "Path", Message: "contains a NUL byte"})
	}
	if strings.IndexByte(c.DatasetName, 0) >= 0 {
		errs = append(errs, &ConfigError{Field: "DatasetName", Message: "contains a NUL byte"})
	}
	limits := []struct {
		name  string
		value int
	}{
		{"MaxLocationsTrip", c.MaxLocationsTrip},
		{"MaxLocationsViaroute", c.MaxLocationsViaroute},
		{"MaxLocationsDistanceTable", c.MaxLocationsDistanceTable},
		{"MaxLocationsMapMatching", c.MaxLocationsMapMatching},
		{"MaxResultsNearest", c.MaxResultsNearest},
		{"MaxAlternatives", c.MaxAlternatives},
	}
	for _, l := range limits {
		if l.value < 0 || l.value > math.MaxInt32 {
			errs = append(errs, &ConfigError{Field: l.name, Message: "must be between 0 and 2^31-1"})
		}
	}
	radii := []struct {
		name  string
		value float64
	}{
		{"MaxRadiusMapMatching", c.MaxRadiusMapMatching},
		{"DefaultRadius", c.DefaultRadius},
	}
	for _, r := range radii {
		if math.IsNaN(r.value) || math.IsInf(r.value, 0) || r.value < 0 {
			errs = append(errs, &ConfigError{Field: r.name, Message: "must be a finite non-negative number"})
		}
	}
	return errors.Join(errs...)
}

// Native lowers the config to the wrapper's struct layout.
func (c *Config) Native() *native.Config {
	return &native.Config{
		Algorithm:                  string(c.Algorithm),
		SharedMemory:               c.SharedMemory,
		DatasetName:                c.DatasetName,
		MmapMemory:                 c.MmapMemory,
		Path:                       c.Path,
		DisableFeatureDatasetFlags: int32(c.DisableFeatures),
		MaxLocationsTrip:           int32(c.MaxLocationsTrip),
		MaxLocationsViaroute:       int32(c.MaxLocationsViaroute),
		MaxLocationsDistanceTable:  int32(c.MaxLocationsDistanceTable),
		MaxLocationsMapMatching:    int32(c.MaxLocationsMapMatching),
		MaxRadiusMapMatching:       c.MaxRadiusMapMatching,
		MaxResultsNearest:          int32(c.MaxResultsNearest),
		MaxAlternatives:            int32(c.MaxAlternatives),
		DefaultRadius:              c.DefaultRadius,
	}
}

// Environment variables read by ConfigFromEnv.
const (
	EnvPath                      = "OSRM_PATH"
	EnvAlgorithm                 = "OSRM_ALGORITHM"
	EnvSharedMemory              = "OSRM_SHARED_MEMORY"
	EnvDatasetName               = "OSRM_DATASET_NAME"
	EnvMmap                      = "OSRM_MMAP"
	EnvDisableFeatures           = "OSRM_DISABLE_FEATURES"
	EnvMaxLocationsTrip          = "OSRM_MAX_LOCATIONS_TRIP"
	EnvMaxLocationsViaroute      = "OSRM_MAX_LOCATIONS_VIAROUTE"
	EnvMaxLocationsDistanceTable = "OSRM_MAX_LOCATIONS_DISTANCE_TABLE"
	EnvMaxLocationsMapMatching   = "OSRM_MAX_LOCATIONS_MAP_MATCHING"
	EnvMaxRadiusMapMatching      = "OSRM_MAX_RADIUS_MAP_MATCHING"
	EnvMaxResultsNearest         = "OSRM_MAX_RESULTS_NEAREST"
	EnvMaxAlternatives           = "OSRM_MAX_ALTERNATIVES"
	EnvDefaultRadius             = "OSRM_DEFAULT_RADIUS"
)

// ConfigFromEnv builds a config from OSRM_* environment variables on top of
// DefaultConfig. Setting OSRM_PATH without OSRM_SHARED_MEMORY switches to
// loading the dataset from disk.
// Returns a ConfigError for any invalid value.
func ConfigFromEnv() (*Config, error) {
	return configFromLookup(os.LookupEnv)
}

func configFromLookup(lookup func(string) (string, bool)) (*Config, error) {
	cfg := DefaultConfig()

	if v, ok := lookup(EnvPath); ok && v != "" {
		cfg.Path = v
		cfg.SharedMemory = false
	}
	if v, ok := lookup(EnvAlgorithm); ok && v != "" {
		alg, err := osrmruntime.ParseAlgorithm(v)
		if err != nil {
			return nil, &ConfigError{Field: EnvAlgorithm, Message: "must be CH or MLD"}
		}
		cfg.Algorithm = alg
	}
	cfg.DatasetName, _ = lookup(EnvDatasetName)

	bools := []struct {
		key string
		dst *bool
	}{
		{EnvSharedMemory, &cfg.SharedMemory},
		{EnvMmap, &cfg.MmapMemory},
	}
	for _, b := range bools {
		v, ok := lookup(b.key)
		if !ok || v == "" {
			continue
		}
		parsed, err := strconv.ParseBool(v)
		if err != nil {
			return nil, &ConfigError{Field: b.key, Message: "must be a boolean"}
		}
		*b.dst = parsed
	}

	if v, ok := lookup(EnvDisableFeatures); ok {
		f, err := ParseFeatures(v)
		if err != nil {
			return nil, &ConfigError{Field: EnvDisableFeatures, Message: err.Error()}
		}
		cfg.DisableFeatures = f
	}

	ints := []struct {
		key string
		dst *int
	}{
		{EnvMaxLocationsTrip, &cfg.MaxLocationsTrip},
		{EnvMaxLocationsViaroute, &cfg.MaxLocationsViaroute},
		{EnvMaxLocationsDistanceTable, &cfg.MaxLocationsDistanceTable},
		{EnvMaxLocationsMapMatching, &cfg.MaxLocationsMapMatching},
		{EnvMaxResultsNearest, &cfg.MaxResultsNearest},
		{EnvMaxAlternatives, &cfg.MaxAlternatives},
	}
	for _, i := range ints {
		v, ok := lookup(i.key)
		if !ok || v == "" {
			continue
		}
		n, err := strconv.ParseInt(v, 10, 32)
		if err != nil || n < 0 {
			return nil, &ConfigError{Field: i.key, Message: "must be a non-negative integer"}
		}
		*i.dst = int(n)
	}

	floats := []struct {
		key string
		dst *float64
	}{
		{EnvMaxRadiusMapMatching, &cfg.MaxRadiusMapMatching},
		{EnvDefaultRadius, &cfg.DefaultRadius},
	}
	for _, f := range floats {
		v, ok := lookup(f.key)
		if !ok || v == "" {
			continue
		}
		x, err := strconv.ParseFloat(v, 64)
		if err != nil || math.IsNaN(x) || math.IsInf(x, 0) || x < 0 {
			return nil, &ConfigError{Field: f.key, Message: "must be a finite non-negative number"}
		}
		*f.dst = x
	}

	return cfg, nil
}
