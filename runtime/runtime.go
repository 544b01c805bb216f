package runtime

import (
	"context"
	stderrors "errors"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	osrmruntime "github.com/wippyai/osrm-runtime"
	"github.com/wippyai/osrm-runtime/engine"
	"github.com/wippyai/osrm-runtime/errors"
	"github.com/wippyai/osrm-runtime/native"
	"github.com/wippyai/osrm-runtime/query"
	"github.com/wippyai/osrm-runtime/response"
)

type Runtime struct {
	engine *engine.Engine
	admit  *admission
	logger *zap.Logger
	batch  int
}

// New creates a runtime over an engine built from cfg. A nil cfg means
// engine.DefaultConfig.
func New(ctx context.Context, cfg *engine.Config, opts Options) (*Runtime, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	opts = opts.withDefaults()

	eng, err := engine.Open(opts.Library, cfg, engine.WithLogger(opts.Logger))
	if err != nil {
		return nil, err
	}
	return newRuntime(eng, opts), nil
}

// Open creates a runtime over the dataset at path.
func Open(ctx context.Context, path string, algorithm osrmruntime.Algorithm, opts Options) (*Runtime, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	opts = opts.withDefaults()

	eng, err := engine.OpenPath(opts.Library, path, algorithm, opts.MaxTableSize, engine.WithLogger(opts.Logger))
	if err != nil {
		return nil, err
	}
	return newRuntime(eng, opts), nil
}

func newRuntime(eng *engine.Engine, opts Options) *Runtime {
	return &Runtime{
		engine: eng,
		admit:  newAdmission(opts),
		logger: opts.Logger,
		batch:  opts.BatchConcurrency,
	}
}

// Close destroys the engine once in-flight calls return. If ctx ends first
// Close returns its error; the engine is still destroyed when the calls
// finish.
func (r *Runtime) Close(ctx context.Context) error {
	done := make(chan error, 1)
	go func() { done <- r.engine.Close() }()
	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (r *Runtime) Engine() *engine.Engine {
	return r.engine
}

func (r *Runtime) invoke(ctx context.Context, q query.Query) (native.Result, error) {
	args, err := q.Lower()
	if err != nil {
		return native.Result{}, err
	}

	release, err := r.admit.acquire(ctx)
	if err != nil {
		return native.Result{}, err
	}
	defer release()

	return r.engine.Invoke(args)
}

type warner interface {
	Warnings() []response.Warning
}

func (r *Runtime) warn(c osrmruntime.Capability, resp warner) {
	for _, w := range resp.Warnings() {
		r.logger.Warn("lossy node id",
			zap.Stringer("capability", c),
			zap.String("path", w.Path),
			zap.String("raw", w.Raw),
			zap.Uint64("value", w.Value),
		)
	}
}

func (r *Runtime) Table(ctx context.Context, req *query.TableRequest) (*response.TableResponse, error) {
	raw, err := r.invoke(ctx, req)
	if err != nil {
		return nil, err
	}
	resp, err := response.ParseTable(raw)
	if err != nil {
		return nil, err
	}
	r.warn(req.Capability(), resp)
	return resp, nil
}

func (r *Runtime) Route(ctx context.Context, req *query.RouteRequest) (*response.RouteResponse, error) {
	raw, err := r.invoke(ctx, req)
	if err != nil {
		return nil, err
	}
	resp, err := response.ParseRoute(raw)
	if err != nil {
		return nil, err
	}
	r.warn(req.Capability(), resp)
	return resp, nil
}

func (r *Runtime) Trip(ctx context.Context, req *query.TripRequest) (*response.TripResponse, error) {
	raw, err := r.invoke(ctx, req)
	if err != nil {
		return nil, err
	}
	resp, err := response.ParseTrip(raw)
	if err != nil {
		return nil, err
	}
	r.warn(req.Capability(), resp)
	return resp, nil
}

// Match snaps a trace. Timestamp and waypoint preconditions are left to the
// engine, whose message comes back verbatim in an Engine error.
func (r *Runtime) Match(ctx context.Context, req *query.MatchRequest) (*response.MatchResponse, error) {
	raw, err := r.invoke(ctx, req)
	if err != nil {
		return nil, err
	}
	resp, err := response.ParseMatch(raw)
	if err != nil {
		return nil, err
	}
	r.warn(req.Capability(), resp)
	return resp, nil
}

// Nearest never returns more waypoints than requested.
func (r *Runtime) Nearest(ctx context.Context, req *query.NearestRequest) (*response.NearestResponse, error) {
	raw, err := r.invoke(ctx, req)
	if err != nil {
		return nil, err
	}
	resp, err := response.ParseNearest(raw, req.Count())
	if err != nil {
		return nil, err
	}
	r.warn(req.Capability(), resp)
	return resp, nil
}

// SimpleRoute routes from one point to another and returns the first leg's
// distance and duration. No route is an ErrNoRouteFound error; when the
// engine refused the route its message is kept as the cause.
func (r *Runtime) SimpleRoute(ctx context.Context, from, to osrmruntime.Coordinate) (*response.SimpleRoute, error) {
	resp, err := r.Route(ctx, query.NewRouteRequest(from, to))
	if err != nil {
		var e *errors.Error
		if stderrors.As(err, &e) && e.Kind == errors.KindEngineError {
			nr := errors.NoRouteFound(osrmruntime.CapabilityRoute)
			nr.Cause = e
			return nil, nr
		}
		return nil, err
	}
	return response.Simple(resp)
}

// Do runs any query and returns its typed response.
func (r *Runtime) Do(ctx context.Context, q query.Query) (any, error) {
	switch q := q.(type) {
	case *query.TableRequest:
		return value(r.Table(ctx, q))
	case *query.RouteRequest:
		return value(r.Route(ctx, q))
	case *query.TripRequest:
		return value(r.Trip(ctx, q))
	case *query.MatchRequest:
		return value(r.Match(ctx, q))
	case *query.NearestRequest:
		return value(r.Nearest(ctx, q))
	}
	return nil, errors.InvalidArgument(nil, nil, fmt.Sprintf("unsupported query type %T", q))
}

// value keeps a failed call's nil pointer from becoming a non-nil any.
func value[T any](v *T, err error) (any, error) {
	if err != nil {
		return nil, err
	}
	return v, nil
}

// BatchResult is the outcome of one query in a batch.
type BatchResult struct {
	Query query.Query
	Value any
	Err   error
}

// Batch runs queries concurrently on the shared engine. Results are in
// query order and each carries its own error. The returned error is set
// only when ctx ended before every query was admitted.
func (r *Runtime) Batch(ctx context.Context, qs []query.Query) ([]BatchResult, error) {
	results := make([]BatchResult, len(qs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.batch)

	for i, q := range qs {
		g.Go(func() error {
			v, err := r.Do(gctx, q)
			results[i] = BatchResult{Query: q, Value: v, Err: err}
			if ctxErr := gctx.Err(); ctxErr != nil && stderrors.Is(err, ctxErr) {
				return err
			}
			return nil
		})
	}
	return results, g.Wait()
}
