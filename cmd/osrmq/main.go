package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	osrmruntime "github.com/wippyai/osrm-runtime"
	"github.com/wippyai/osrm-runtime/engine"
	"github.com/wippyai/osrm-runtime/runtime"
)

func main() {
	var (
		dataPath     = flag.String("data", "", "Path to the .osrm dataset (default: OSRM_* environment)")
		algorithm    = flag.String("algorithm", "MLD", "Search algorithm: CH or MLD")
		capability   = flag.String("capability", "route", "Service: table, route, trip, match or nearest")
		coords       = flag.String("coords", "", "Coordinates as lon,lat;lon,lat")
		sources      = flag.String("sources", "", "Table source indices (0;1;...)")
		destinations = flag.String("destinations", "", "Table destination indices (0;1;...)")
		number       = flag.Int("number", 1, "Nearest result count")
		asJSON       = flag.Bool("json", false, "Print the decoded response as JSON")
		verbose      = flag.Bool("v", false, "Log engine lifecycle events")
		interactive  = flag.Bool("i", false, "Interactive mode with TUI")
	)
	flag.Parse()

	logger := newLogger(*verbose)
	defer func() { _ = logger.Sync() }()

	alg, err := osrmruntime.ParseAlgorithm(*algorithm)
	if err != nil {
		fail(err)
	}

	ctx := context.Background()
	rt, err := openRuntime(ctx, *dataPath, alg, logger)
	if err != nil {
		fail(err)
	}
	defer func() { _ = rt.Close(ctx) }()

	if *interactive {
		if err := runInteractive(rt, *dataPath); err != nil {
			fail(err)
		}
		return
	}

	if *coords == "" {
		fmt.Fprintln(os.Stderr, "Usage: osrmq -data <file.osrm> -capability route -coords lon,lat;lon,lat")
		fmt.Fprintln(os.Stderr, "       osrmq -data <file.osrm> -capability table -coords ... [-sources 0] [-destinations 1;2]")
		fmt.Fprintln(os.Stderr, "       osrmq -data <file.osrm> -i  (interactive mode)")
		os.Exit(1)
	}

	req := request{
		capability:   osrmruntime.Capability(*capability),
		coords:       *coords,
		sources:      *sources,
		destinations: *destinations,
		number:       *number,
	}
	if err := run(ctx, rt, req, *asJSON); err != nil {
		fail(err)
	}
}

func run(ctx context.Context, rt *runtime.Runtime, req request, asJSON bool) error {
	q, err := req.build()
	if err != nil {
		return err
	}
	v, err := rt.Do(ctx, q)
	if err != nil {
		return err
	}

	if asJSON {
		return writeJSON(os.Stdout, v)
	}
	p := newPrinter(os.Stdout)
	fmt.Println(p.render(titleStyle, string(q.Capability())))
	fmt.Print(p.summary(v))
	return nil
}

func openRuntime(ctx context.Context, path string, alg osrmruntime.Algorithm, logger *zap.Logger) (*runtime.Runtime, error) {
	opts := runtime.DefaultOptions()
	opts.Logger = logger

	if path != "" {
		return runtime.Open(ctx, path, alg, opts)
	}
	cfg, err := engine.ConfigFromEnv()
	if err != nil {
		return nil, fmt.Errorf("configuration: %w", err)
	}
	return runtime.New(ctx, cfg, opts)
}

func newLogger(verbose bool) *zap.Logger {
	cfg := zap.NewDevelopmentConfig()
	cfg.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
	if verbose {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	l, err := cfg.Build()
	if err != nil {
		return zap.NewNop()
	}
	return l
}

func fail(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}
