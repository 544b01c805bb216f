package engine

import (
	"sync"

	"go.uber.org/zap"

	osrmruntime "github.com/wippyai/osrm-runtime"
	"github.com/wippyai/osrm-runtime/codec"
	"github.com/wippyai/osrm-runtime/errors"
	"github.com/wippyai/osrm-runtime/native"
	"github.com/wippyai/osrm-runtime/resource"
)

const handleKind = "osrm-engine"

// Engine owns one native engine instance.
//
// Invoke is safe for concurrent use. Each call borrows the instance for its
// duration and builds its own string buffers. Close waits for in-flight
// calls, then destroys the instance exactly once.
type Engine struct {
	lib       native.Library
	table     *resource.Table
	logger    *zap.Logger
	cfg       Config
	handle    resource.Handle
	closeOnce sync.Once
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the engine's logger. The package Logger is used otherwise.
func WithLogger(l *zap.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithObserver subscribes o to the engine handle's lifecycle events.
func WithObserver(o resource.Observer) Option {
	return func(e *Engine) {
		e.table.Subscribe(o)
	}
}

// instance pairs a native handle with the library that destroys it.
type instance struct {
	lib  native.Library
	inst native.Instance
}

func (i *instance) Drop() {
	i.lib.Destroy(i.inst)
}

// Open creates an engine from cfg. The config is copied; later changes to
// cfg have no effect. A nil cfg means DefaultConfig.
func Open(lib native.Library, cfg *Config, opts ...Option) (*Engine, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	c := *cfg
	if err := c.Validate(); err != nil {
		return nil, errors.Initialization("invalid configuration", err)
	}

	arena := codec.NewStringArena(lib.Allocator())
	defer arena.Release()

	inst, err := lib.Create(c.Native(), arena)
	if err != nil {
		return nil, initError(err)
	}
	return newEngine(lib, inst, c, opts)
}

// OpenPath creates an engine over the dataset at path, leaving every limit
// except the distance table size at the engine default. A maxTableSize of
// zero keeps that default too.
func OpenPath(lib native.Library, path string, algorithm osrmruntime.Algorithm, maxTableSize int, opts ...Option) (*Engine, error) {
	c := Config{
		Algorithm:                 algorithm,
		Path:                      path,
		MaxLocationsDistanceTable: maxTableSize,
	}
	if err := c.Validate(); err != nil {
		return nil, errors.Initialization("invalid configuration", err)
	}

	arena := codec.NewStringArena(lib.Allocator())
	defer arena.Release()

	inst, err := lib.CreateFromPath(path, string(algorithm), int32(maxTableSize), arena)
	if err != nil {
		return nil, initError(err)
	}
	return newEngine(lib, inst, c, opts)
}

func initError(err error) error {
	if errors.KindOf(err) != "" {
		return err
	}
	return errors.Initialization("engine creation failed", err)
}

func newEngine(lib native.Library, inst native.Instance, cfg Config, opts []Option) (*Engine, error) {
	if inst == nil {
		return nil, errors.Initialization("engine returned a null instance", nil)
	}

	e := &Engine{
		lib:    lib,
		table:  resource.NewTable(),
		logger: Logger(),
		cfg:    cfg,
	}
	for _, opt := range opts {
		opt(e)
	}
	e.table.Subscribe(lifecycleLogger{log: e.logger})

	h, err := e.table.Insert(handleKind, &instance{lib: lib, inst: inst})
	if err != nil {
		lib.Destroy(inst)
		return nil, errors.Initialization("register engine handle", err)
	}
	e.handle = h

	e.logger.Info("osrm engine created",
		zap.String("algorithm", string(cfg.Algorithm)),
		zap.String("path", cfg.Path),
		zap.Bool("shared_memory", cfg.SharedMemory),
	)
	return e, nil
}

// Config returns a copy of the configuration the engine was created with.
func (e *Engine) Config() Config {
	return e.cfg
}

// Invoke runs one native query. The returned Result is owned by Go; a
// non-zero status is not an error at this layer.
func (e *Engine) Invoke(args native.Args) (native.Result, error) {
	capability := args.Capability()

	v, err := e.table.Borrow(e.handle)
	if err != nil {
		return native.Result{}, errors.Closed(capability)
	}
	defer e.table.Return(e.handle)

	arena := codec.NewStringArena(e.lib.Allocator())
	defer arena.Release()

	res := native.Call(e.lib, v.(*instance).inst, args, arena)
	if res.Code != native.StatusOk {
		e.logger.Debug("native call failed",
			zap.Stringer("capability", capability),
			zap.Int32("status", res.Code),
		)
	}
	return res, nil
}

// InFlight returns the number of calls currently running.
func (e *Engine) InFlight() int {
	return e.table.Borrows(e.handle)
}

// Close destroys the native instance after in-flight calls return.
// Calling Close more than once is safe.
func (e *Engine) Close() error {
	e.closeOnce.Do(func() {
		e.table.Close()
		e.logger.Info("osrm engine destroyed",
			zap.String("algorithm", string(e.cfg.Algorithm)),
			zap.String("path", e.cfg.Path),
		)
	})
	return nil
}
