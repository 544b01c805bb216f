package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
)

// Phase indicates where in a call the error occurred
type Phase string

const (
	PhaseCreate   Phase = "create"   // engine handle creation
	PhaseValidate Phase = "validate" // pre-flight request checks
	PhaseEncode   Phase = "encode"   // Go to native arguments
	PhaseInvoke   Phase = "invoke"   // the native call itself
	PhaseDecode   Phase = "decode"   // native JSON to Go
	PhaseAPI      Phase = "api"      // well-formed result without an answer
)

// Kind categorizes the error
type Kind string

const (
	KindInitialization    Kind = "initialization"
	KindInvalidArgument   Kind = "invalid_argument"
	KindEmptyResult       Kind = "empty_result"
	KindEngineError       Kind = "engine_error"
	KindMalformedResponse Kind = "malformed_response"
	KindAPIError          Kind = "api_error"
	KindClosed            Kind = "closed"
	KindUnavailable       Kind = "unavailable"
)

// Codes reported by the engine in the "code" field of a response.
const (
	CodeOk           = "Ok"
	CodeNoRoute      = "NoRoute"
	CodeNoSegment    = "NoSegment"
	CodeNoMatch      = "NoMatch"
	CodeNoTable      = "NoTable"
	CodeNoTrips      = "NoTrips"
	CodeInvalidValue = "InvalidValue"
	CodeTooBig       = "TooBig"
)

// Error is the structured error type returned by every public operation
type Error struct {
	Value      any
	Cause      error
	Phase      Phase
	Kind       Kind
	Capability string
	Code       string
	Detail     string
	Path       []string
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Phase))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if e.Capability != "" {
		b.WriteString(" (")
		b.WriteString(e.Capability)
		b.WriteByte(')')
	}

	if len(e.Path) > 0 {
		b.WriteString(" at ")
		b.WriteString(strings.Join(e.Path, "."))
	}

	if e.Code != "" {
		b.WriteString(": ")
		b.WriteString(e.Code)
	}

	if e.Detail != "" {
		if e.Code != "" {
			b.WriteString(" - ")
		} else {
			b.WriteString(": ")
		}
		b.WriteString(e.Detail)
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error.
// A target with an empty Phase matches any phase; a target carrying a Code
// only matches errors with the same Code.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	if t.Phase != "" && e.Phase != t.Phase {
		return false
	}
	if e.Kind != t.Kind {
		return false
	}
	return t.Code == "" || e.Code == t.Code
}

// Sentinels for errors.Is.
var (
	ErrInitialization  = &Error{Kind: KindInitialization}
	ErrInvalidArgument = &Error{Kind: KindInvalidArgument}
	ErrEmptyResult     = &Error{Kind: KindEmptyResult}
	ErrEngine          = &Error{Kind: KindEngineError}
	ErrMalformed       = &Error{Kind: KindMalformedResponse}
	ErrAPI             = &Error{Kind: KindAPIError}
	ErrNoRouteFound    = &Error{Kind: KindAPIError, Code: CodeNoRoute}
	ErrClosed          = &Error{Kind: KindClosed}
	ErrUnavailable     = &Error{Kind: KindUnavailable}
)

// KindOf returns the Kind of the first *Error in err's chain, or "".
func KindOf(err error) Kind {
	var e *Error
	if stderrors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// Builder provides structured error construction
type Builder struct {
	err Error
}

// New creates a new error builder
func New(phase Phase, kind Kind) *Builder {
	return &Builder{
		err: Error{
			Phase: phase,
			Kind:  kind,
		},
	}
}

// Capability sets the capability the failing call belonged to
func (b *Builder) Capability(c fmt.Stringer) *Builder {
	b.err.Capability = c.String()
	return b
}

// Code sets the engine status code
func (b *Builder) Code(code string) *Builder {
	b.err.Code = code
	return b
}

// Path sets the field path
func (b *Builder) Path(path ...string) *Builder {
	b.err.Path = path
	return b
}

// Value sets the offending value
func (b *Builder) Value(v any) *Builder {
	b.err.Value = v
	return b
}

// Cause sets the underlying error
func (b *Builder) Cause(err error) *Builder {
	b.err.Cause = err
	return b
}

// Detail sets the human-readable detail message
func (b *Builder) Detail(msg string, args ...any) *Builder {
	if len(args) > 0 {
		b.err.Detail = fmt.Sprintf(msg, args...)
	} else {
		b.err.Detail = msg
	}
	return b
}

// Build returns the constructed error
func (b *Builder) Build() *Error {
	return &b.err
}

// Convenience constructors for common error patterns

// Initialization creates a handle creation error
func Initialization(detail string, cause error) *Error {
	return &Error{
		Phase:  PhaseCreate,
		Kind:   KindInitialization,
		Detail: detail,
		Cause:  cause,
	}
}

// InvalidArgument creates a pre-flight validation error
func InvalidArgument(capability fmt.Stringer, path []string, detail string) *Error {
	return &Error{
		Phase:      PhaseValidate,
		Kind:       KindInvalidArgument,
		Capability: capString(capability),
		Path:       path,
		Detail:     detail,
	}
}

// LengthMismatch reports a per-point list whose length differs from the
// coordinate count
func LengthMismatch(capability fmt.Stringer, field string, got, want int) *Error {
	return &Error{
		Phase:      PhaseEncode,
		Kind:       KindInvalidArgument,
		Capability: capString(capability),
		Path:       []string{field},
		Detail:     fmt.Sprintf("length %d does not match %d coordinates", got, want),
		Value:      got,
	}
}

// OutOfRange reports an index that does not address a coordinate
func OutOfRange(capability fmt.Stringer, field string, index, length int) *Error {
	return &Error{
		Phase:      PhaseEncode,
		Kind:       KindInvalidArgument,
		Capability: capString(capability),
		Path:       []string{field},
		Detail:     fmt.Sprintf("index %d out of range (%d coordinates)", index, length),
		Value:      index,
	}
}

// EmptyResult creates an error for a null result buffer
func EmptyResult(capability fmt.Stringer) *Error {
	return &Error{
		Phase:      PhaseInvoke,
		Kind:       KindEmptyResult,
		Capability: capString(capability),
		Detail:     "engine returned no message",
	}
}

// Engine creates an error carrying the engine's failure message verbatim
func Engine(capability fmt.Stringer, status int32, message string) *Error {
	return &Error{
		Phase:      PhaseInvoke,
		Kind:       KindEngineError,
		Capability: capString(capability),
		Detail:     message,
		Value:      status,
	}
}

// Malformed creates an error for a payload that does not match the schema
func Malformed(capability fmt.Stringer, path []string, cause error) *Error {
	return &Error{
		Phase:      PhaseDecode,
		Kind:       KindMalformedResponse,
		Capability: capString(capability),
		Path:       path,
		Detail:     "response does not match schema",
		Cause:      cause,
	}
}

// API creates an error for a well-formed response that carries no answer
func API(capability fmt.Stringer, code, detail string) *Error {
	return &Error{
		Phase:      PhaseAPI,
		Kind:       KindAPIError,
		Capability: capString(capability),
		Code:       code,
		Detail:     detail,
	}
}

// NoRouteFound creates the API error returned when zero routes come back
func NoRouteFound(capability fmt.Stringer) *Error {
	return API(capability, CodeNoRoute, "no route found")
}

// Closed creates an error for a call on a destroyed handle
func Closed(capability fmt.Stringer) *Error {
	return &Error{
		Phase:      PhaseInvoke,
		Kind:       KindClosed,
		Capability: capString(capability),
		Detail:     "engine handle closed",
	}
}

// Unavailable creates an error for a build without the native library
func Unavailable(detail string) *Error {
	return &Error{
		Phase:  PhaseCreate,
		Kind:   KindUnavailable,
		Detail: detail,
	}
}

// Wrap wraps an existing error with additional context
func Wrap(phase Phase, kind Kind, cause error, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   kind,
		Detail: detail,
		Cause:  cause,
	}
}

func capString(c fmt.Stringer) string {
	if c == nil {
		return ""
	}
	return c.String()
}
