package testbed

import (
	"sync"
	"sync/atomic"
	"time"
	"unsafe"

	osrmruntime "github.com/wippyai/osrm-runtime"
	"github.com/wippyai/osrm-runtime/codec"
	"github.com/wippyai/osrm-runtime/native"
)

// Call is one recorded query. String arguments are read back from the
// boundary buffers the call received, so they reflect what native code
// would have seen.
type Call struct {
	Args        native.Args
	Strings     map[string][]string
	Optional    map[string]*string
	Instance    native.Instance
	Capability  osrmruntime.Capability
	Outstanding int // boundary buffers alive during the call
}

// Handler computes a result for a call.
type Handler func(call *Call) native.Result

type instanceState struct {
	destroyed bool
}

// Library is an in-process native.Library. It records every call, answers
// with canned payloads and counts handle and buffer lifecycles.
//
// The zero value is not usable; call New.
type Library struct {
	alloc     *codec.GoAllocator
	handlers  map[osrmruntime.Capability]Handler
	instances map[native.Instance]*instanceState
	calls     []*Call

	// CreateErr, when set, is returned by Create and CreateFromPath.
	CreateErr error
	// Delay is slept inside every query, while the instance is in use.
	Delay time.Duration

	lastConfig *native.Config

	inFlight    atomic.Int32
	maxInFlight atomic.Int32

	mu              sync.Mutex
	creates         int
	destroys        int
	useAfterDestroy int
	doubleDestroy   int
}

// New returns a library answering with the default handlers.
func New() *Library {
	l := &Library{
		alloc:     codec.NewGoAllocator(),
		handlers:  make(map[osrmruntime.Capability]Handler),
		instances: make(map[native.Instance]*instanceState),
	}
	for c, h := range DefaultHandlers() {
		l.handlers[c] = h
	}
	return l
}

// Handle replaces the handler for a capability.
func (l *Library) Handle(c osrmruntime.Capability, h Handler) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.handlers[c] = h
}

// Respond makes a capability answer with a successful payload.
func (l *Library) Respond(c osrmruntime.Capability, payload string) {
	l.Handle(c, func(*Call) native.Result {
		return native.Result{Code: native.StatusOk, Message: []byte(payload)}
	})
}

// Fail makes a capability answer with a non-zero status and message.
func (l *Library) Fail(c osrmruntime.Capability, message string) {
	l.Handle(c, func(*Call) native.Result {
		return native.Result{Code: native.StatusError, Message: []byte(message)}
	})
}

// Null makes a capability answer with a null message buffer.
func (l *Library) Null(c osrmruntime.Capability) {
	l.Handle(c, func(*Call) native.Result {
		return native.Result{Code: native.StatusOk}
	})
}

func (l *Library) Allocator() osrmruntime.Allocator {
	return l.alloc
}

func (l *Library) Create(cfg *native.Config, arena *codec.StringArena) (native.Instance, error) {
	c := *cfg
	c.Algorithm = codec.GoString(arena.Add(cfg.Algorithm))
	c.Path = codec.GoString(arena.Add(cfg.Path))

	l.mu.Lock()
	defer l.mu.Unlock()
	l.lastConfig = &c
	return l.newInstance()
}

func (l *Library) CreateFromPath(path, algorithm string, maxTableSize int32, arena *codec.StringArena) (native.Instance, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.lastConfig = &native.Config{
		Algorithm:                 codec.GoString(arena.Add(algorithm)),
		Path:                      codec.GoString(arena.Add(path)),
		MaxLocationsDistanceTable: maxTableSize,
	}
	return l.newInstance()
}

// newInstance is called with mu held.
func (l *Library) newInstance() (native.Instance, error) {
	if l.CreateErr != nil {
		return nil, l.CreateErr
	}
	st := &instanceState{}
	inst := native.Instance(unsafe.Pointer(st))
	l.instances[inst] = st
	l.creates++
	return inst, nil
}

func (l *Library) Destroy(inst native.Instance) {
	l.mu.Lock()
	defer l.mu.Unlock()
	st, ok := l.instances[inst]
	if !ok {
		return
	}
	if st.destroyed {
		l.doubleDestroy++
		return
	}
	st.destroyed = true
	l.destroys++
}

func (l *Library) Table(inst native.Instance, a *native.TableArgs, arena *codec.StringArena) native.Result {
	call := l.begin(inst, a, arena)
	call.Strings["hints"] = readStrings(arena, a.Hints)
	call.Strings["approaches"] = readStrings(arena, a.Approaches)
	call.Optional["fallback_coordinate"] = readOptional(arena, a.FallbackCoordinate)
	call.Optional["snapping"] = readOptional(arena, a.Snapping)
	return l.finish(call)
}

func (l *Library) Route(inst native.Instance, a *native.RouteArgs, arena *codec.StringArena) native.Result {
	call := l.begin(inst, a, arena)
	call.Strings["hints"] = readStrings(arena, a.Hints)
	call.Strings["approaches"] = readStrings(arena, a.Approaches)
	call.Strings["annotations"] = readStrings(arena, a.Annotations)
	call.Strings["exclude"] = readStrings(arena, a.Exclude)
	call.Optional["snapping"] = readOptional(arena, a.Snapping)
	call.Optional["geometries"] = readOptional(arena, a.Geometries)
	call.Optional["overview"] = readOptional(arena, a.Overview)
	return l.finish(call)
}

func (l *Library) Trip(inst native.Instance, a *native.TripArgs, arena *codec.StringArena) native.Result {
	call := l.begin(inst, a, arena)
	call.Strings["hints"] = readStrings(arena, a.Hints)
	call.Strings["approaches"] = readStrings(arena, a.Approaches)
	call.Optional["snapping"] = readOptional(arena, a.Snapping)
	return l.finish(call)
}

func (l *Library) Match(inst native.Instance, a *native.MatchArgs, arena *codec.StringArena) native.Result {
	call := l.begin(inst, a, arena)
	call.Strings["hints"] = readStrings(arena, a.Hints)
	call.Strings["approaches"] = readStrings(arena, a.Approaches)
	call.Optional["gaps"] = readOptional(arena, a.Gaps)
	call.Optional["snapping"] = readOptional(arena, a.Snapping)
	return l.finish(call)
}

func (l *Library) Nearest(inst native.Instance, a *native.NearestArgs, arena *codec.StringArena) native.Result {
	call := l.begin(inst, a, arena)
	call.Strings["hints"] = readStrings(arena, a.Hints)
	call.Strings["approaches"] = readStrings(arena, a.Approaches)
	call.Optional["snapping"] = readOptional(arena, a.Snapping)
	return l.finish(call)
}

func (l *Library) begin(inst native.Instance, args native.Args, arena *codec.StringArena) *Call {
	n := l.inFlight.Add(1)
	for {
		m := l.maxInFlight.Load()
		if n <= m || l.maxInFlight.CompareAndSwap(m, n) {
			break
		}
	}

	l.mu.Lock()
	if st, ok := l.instances[inst]; !ok || st.destroyed {
		l.useAfterDestroy++
	}
	l.mu.Unlock()

	return &Call{
		Capability: args.Capability(),
		Instance:   inst,
		Args:       args,
		Strings:    make(map[string][]string),
		Optional:   make(map[string]*string),
	}
}

func (l *Library) finish(call *Call) native.Result {
	defer l.inFlight.Add(-1)

	call.Outstanding = l.alloc.Outstanding()
	if l.Delay > 0 {
		time.Sleep(l.Delay)
	}

	l.mu.Lock()
	l.calls = append(l.calls, call)
	h := l.handlers[call.Capability]
	l.mu.Unlock()

	if h == nil {
		return native.Result{Code: native.StatusError, Message: []byte("no handler")}
	}
	return h(call)
}

func readStrings(arena *codec.StringArena, ss []string) []string {
	ptrs := arena.AddAll(ss)
	if ptrs == nil {
		return nil
	}
	out := make([]string, len(ptrs))
	for i, p := range ptrs {
		out[i] = codec.GoString(p)
	}
	return out
}

func readOptional(arena *codec.StringArena, s *string) *string {
	p := arena.Optional(s)
	if p == nil {
		return nil
	}
	v := codec.GoString(p)
	return &v
}

// Calls returns the recorded calls in order.
func (l *Library) Calls() []*Call {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]*Call(nil), l.calls...)
}

// LastCall returns the most recent call, or nil.
func (l *Library) LastCall() *Call {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.calls) == 0 {
		return nil
	}
	return l.calls[len(l.calls)-1]
}

// LastConfig returns the config of the most recent Create call.
func (l *Library) LastConfig() *native.Config {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.lastConfig
}

// Stats is a snapshot of lifecycle counters.
type Stats struct {
	Creates         int
	Destroys        int
	DoubleDestroys  int
	UseAfterDestroy int
	Calls           int
	MaxInFlight     int
	OutstandingBufs int
}

// Stats returns the current lifecycle counters.
func (l *Library) Stats() Stats {
	l.mu.Lock()
	defer l.mu.Unlock()
	return Stats{
		Creates:         l.creates,
		Destroys:        l.destroys,
		DoubleDestroys:  l.doubleDestroy,
		UseAfterDestroy: l.useAfterDestroy,
		Calls:           len(l.calls),
		MaxInFlight:     int(l.maxInFlight.Load()),
		OutstandingBufs: l.alloc.Outstanding(),
	}
}
