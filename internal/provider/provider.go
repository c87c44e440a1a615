// Package provider defines the contract every metadata backend implements.
package provider

import (
	"context"
	"errors"
	"fmt"
	"reflect"

	"github.com/cesargomez89/mdlookup/internal/query"
)

// Provider compiles expressions into a backend's search syntax and runs them.
//
// Compile must not depend on instance state. Run issues exactly one request
// and returns either the decoded response or an *Error; it does not retry.
type Provider[R any] interface {
	Name() string
	Compile(q query.Expr) string
	Run(ctx context.Context, q query.Expr) (R, error)
}

// Any is a Provider whose response type has been erased, so different
// backends can live in one Registry.
type Any = Provider[any]

// Erase adapts p to Any.
func Erase[R any](p Provider[R]) Any {
	return erased[R]{p: p}
}

type erased[R any] struct {
	p Provider[R]
}

func (e erased[R]) Name() string { return e.p.Name() }

func (e erased[R]) Compile(q query.Expr) string { return e.p.Compile(q) }

// Run returns an untyped nil when the wrapped provider returns a nil
// pointer, map, slice or interface.
func (e erased[R]) Run(ctx context.Context, q query.Expr) (any, error) {
	res, err := e.p.Run(ctx, q)
	if err != nil {
		return nil, err
	}
	if isNil(res) {
		return nil, nil
	}
	return res, nil
}

func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Interface, reflect.Func, reflect.Chan:
		return rv.IsNil()
	}
	return false
}

// Sentinels matched by (*Error).Is.
var (
	ErrTransport       = errors.New("transport error")
	ErrDecode          = errors.New("decode error")
	ErrUnknownProvider = errors.New("unknown provider")
)

// Kind tells where a Run failed.
type Kind int

const (
	KindTransport Kind = iota + 1
	KindDecode
)

func (k Kind) String() string {
	switch k {
	case KindTransport:
		return "transport"
	case KindDecode:
		return "decode"
	default:
		return "unknown"
	}
}

// Error is the single failure value returned by Run.
type Error struct {
	Err        error
	Provider   string
	Kind       Kind
	StatusCode int // set for non-success HTTP responses
}

// TransportError wraps err as a transport failure of provider.
func TransportError(provider string, statusCode int, err error) *Error {
	return &Error{Provider: provider, Kind: KindTransport, StatusCode: statusCode, Err: err}
}

// DecodeError wraps err as a decode failure of provider.
func DecodeError(provider string, err error) *Error {
	return &Error{Provider: provider, Kind: KindDecode, Err: err}
}

func (e *Error) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s: %s error (status %d): %v", e.Provider, e.Kind, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s: %s error: %v", e.Provider, e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

func (e *Error) Is(target error) bool {
	switch target {
	case ErrTransport:
		return e.Kind == KindTransport
	case ErrDecode:
		return e.Kind == KindDecode
	}
	return false
}

// KindOf returns the failure kind carried by err, or 0 when err is not an *Error.
func KindOf(err error) Kind {
	var pe *Error
	if errors.As(err, &pe) {
		return pe.Kind
	}
	return 0
}
