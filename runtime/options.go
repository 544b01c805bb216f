package runtime

import (
	"context"

	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"
	"golang.org/x/time/rate"

	"github.com/wippyai/osrm-runtime/engine"
	"github.com/wippyai/osrm-runtime/native"
)

const defaultBatchConcurrency = 8

// Options configures a Runtime.
type Options struct {
	// Logger defaults to engine.Logger().
	Logger *zap.Logger

	// Library defaults to native.Default().
	Library native.Library

	// MaxTableSize caps distance table locations for Open. Zero keeps the
	// engine default.
	MaxTableSize int

	// MaxInFlight caps concurrent native calls. Zero means unlimited.
	MaxInFlight int64

	// CallsPerSecond caps the native call rate. Zero means unlimited.
	CallsPerSecond float64
	// Burst defaults to CallsPerSecond rounded down, at least 1.
	Burst int

	// BatchConcurrency caps goroutines used by Batch.
	BatchConcurrency int
}

// DefaultOptions returns options with no admission limits.
func DefaultOptions() Options {
	return Options{BatchConcurrency: defaultBatchConcurrency}
}

func (o Options) withDefaults() Options {
	if o.Logger == nil {
		o.Logger = engine.Logger()
	}
	if o.Library == nil {
		o.Library = native.Default()
	}
	if o.BatchConcurrency <= 0 {
		o.BatchConcurrency = defaultBatchConcurrency
	}
	if o.CallsPerSecond > 0 && o.Burst <= 0 {
		o.Burst = max(1, int(o.CallsPerSecond))
	}
	return o
}

// admission gates native calls by count and rate.
type admission struct {
	sem     *semaphore.Weighted // nil if unlimited
	limiter *rate.Limiter       // nil if unlimited
}

func newAdmission(o Options) *admission {
	a := &admission{}
	if o.MaxInFlight > 0 {
		a.sem = semaphore.NewWeighted(o.MaxInFlight)
	}
	if o.CallsPerSecond > 0 {
		a.limiter = rate.NewLimiter(rate.Limit(o.CallsPerSecond), o.Burst)
	}
	return a
}

// acquire blocks until a call may start or ctx ends. The returned func
// must be called once the call returns.
func (a *admission) acquire(ctx context.Context) (func(), error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if a.limiter != nil {
		if err := a.limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}
	if a.sem == nil {
		return func() {}, nil
	}
	if err := a.sem.Acquire(ctx, 1); err != nil {
		return nil, err
	}
	return func() { a.sem.Release(1) }, nil
}
