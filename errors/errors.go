package errors

import (
	"fmt"
	"strings"
)

// Phase indicates where in the extraction pipeline the error occurred
type Phase string

const (
	PhaseInput   Phase = "input"   // path marshaling and validation
	PhaseOpen    Phase = "open"    // opening the container file
	PhaseDecode  Phase = "decode"  // reading a record from the container
	PhaseMarshal Phase = "marshal" // serialization and buffer allocation
	PhaseIsolate Phase = "isolate" // crash isolation boundary
)

// Kind categorizes the error
type Kind string

const (
	KindNullInput     Kind = "null_input"
	KindInvalidUTF8   Kind = "invalid_utf8"
	KindOpenFailed    Kind = "open_failed"
	KindDecodeFailed  Kind = "decode_failed"
	KindEmbeddedNull  Kind = "embedded_null"
	KindSerialization Kind = "serialization"
	KindAllocation    Kind = "allocation"
	KindInternalFault Kind = "internal_fault"
)

// Error is the structured error type used throughout the library
type Error struct {
	Cause  error
	Phase  Phase
	Kind   Kind
	File   string
	Detail string
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Phase))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if e.File != "" {
		b.WriteString(" for ")
		b.WriteString(e.File)
	}

	if e.Detail != "" {
		b.WriteString(": ")
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

// Is reports whether target matches this error
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Phase == t.Phase && e.Kind == t.Kind
	}
	return false
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

// File sets the container file path involved
func (b *Builder) File(path string) *Builder {
	b.err.File = path
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

// NullInput reports a null path pointer at the boundary.
func NullInput() *Error {
	return New(PhaseInput, KindNullInput).Detail("input file path is null").Build()
}

// InvalidUTF8 reports a path that is not valid UTF-8.
func InvalidUTF8(detail string) *Error {
	return New(PhaseInput, KindInvalidUTF8).Detail(detail).Build()
}

// OpenFailed reports a container that could not be opened.
func OpenFailed(file string, cause error) *Error {
	return New(PhaseOpen, KindOpenFailed).File(file).Cause(cause).Build()
}

// DecodeFailed reports a record that could not be read from an open container.
func DecodeFailed(file string, cause error) *Error {
	return New(PhaseDecode, KindDecodeFailed).File(file).Cause(cause).Build()
}

// EmbeddedNull reports decoded text that cannot become a NUL-terminated buffer.
func EmbeddedNull(file string) *Error {
	return New(PhaseMarshal, KindEmbeddedNull).File(file).
		Detail("decoded text contains an embedded NUL byte").Build()
}

// Internal wraps a value recovered at the crash isolation boundary.
func Internal(file string, recovered any) *Error {
	return New(PhaseIsolate, KindInternalFault).File(file).
		Detail("unexpected fault in decode path: %v", recovered).Build()
}
