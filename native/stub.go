//go:build !osrm

package native

import (
	osrmruntime "github.com/wippyai/osrm-runtime"
	"github.com/wippyai/osrm-runtime/codec"
	"github.com/wippyai/osrm-runtime/errors"
)

// Available reports whether the binary links the native engine.
const Available = false

type unavailable struct {
	alloc *codec.GoAllocator
}

// Default returns the library linked into the binary. This build carries no
// engine; rebuild with -tags osrm.
func Default() Library {
	return unavailable{alloc: codec.NewGoAllocator()}
}

func (u unavailable) Allocator() osrmruntime.Allocator {
	return u.alloc
}

func (unavailable) Create(*Config, *codec.StringArena) (Instance, error) {
	return nil, errors.Unavailable("built without the osrm tag")
}

func (unavailable) CreateFromPath(string, string, int32, *codec.StringArena) (Instance, error) {
	return nil, errors.Unavailable("built without the osrm tag")
}

func (unavailable) Destroy(Instance) {}

func (unavailable) Table(Instance, *TableArgs, *codec.StringArena) Result { return notLinked() }

func (unavailable) Route(Instance, *RouteArgs, *codec.StringArena) Result { return notLinked() }

func (unavailable) Trip(Instance, *TripArgs, *codec.StringArena) Result { return notLinked() }

func (unavailable) Match(Instance, *MatchArgs, *codec.StringArena) Result { return notLinked() }

func (unavailable) Nearest(Instance, *NearestArgs, *codec.StringArena) Result { return notLinked() }

func notLinked() Result {
	return Result{Code: StatusError, Message: []byte("OSRM instance not found")}
}
