// Package apperr holds the storefront error taxonomy shared by every layer.
//
// Services wrap the sentinels with context; transports carry the Kind as a
// string code so the far side can rebuild an error that still matches with
// errors.Is.
package apperr

import (
	"context"
	"errors"
	"strings"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

var (
	ErrNotFound          = errors.New("not found")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrEmptyCart         = errors.New("cart is empty")
	ErrNetwork           = errors.New("network error")
	ErrValidation        = errors.New("invalid input")
)

type Kind string

const (
	KindNotFound          Kind = "NOT_FOUND"
	KindInsufficientStock Kind = "INSUFFICIENT_STOCK"
	KindEmptyCart         Kind = "EMPTY_CART"
	KindNetwork           Kind = "NETWORK_ERROR"
	KindValidation        Kind = "VALIDATION_ERROR"
	KindInternal          Kind = "INTERNAL"
)

func KindOf(err error) Kind {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrNotFound):
		return KindNotFound
	case errors.Is(err, ErrInsufficientStock):
		return KindInsufficientStock
	case errors.Is(err, ErrEmptyCart):
		return KindEmptyCart
	case errors.Is(err, ErrNetwork):
		return KindNetwork
	case errors.Is(err, ErrValidation):
		return KindValidation
	default:
		return KindInternal
	}
}

func sentinel(kind Kind) error {
	switch kind {
	case KindNotFound:
		return ErrNotFound
	case KindInsufficientStock:
		return ErrInsufficientStock
	case KindEmptyCart:
		return ErrEmptyCart
	case KindNetwork:
		return ErrNetwork
	case KindValidation:
		return ErrValidation
	default:
		return nil
	}
}

// remoteError keeps the message produced on the other side of a transport
// while still unwrapping to the local sentinel.
type remoteError struct {
	kind Kind
	msg  string
}

func (e *remoteError) Error() string { return e.msg }

func (e *remoteError) Unwrap() error { return sentinel(e.kind) }

// FromKind rebuilds an error received as (code, message).
func FromKind(kind Kind, msg string) error {
	if msg == "" {
		if s := sentinel(kind); s != nil {
			msg = s.Error()
		} else {
			msg = "internal error"
		}
	}
	return &remoteError{kind: kind, msg: msg}
}

func GRPCCode(err error) codes.Code {
	if errors.Is(err, context.DeadlineExceeded) {
		return codes.DeadlineExceeded
	}
	if errors.Is(err, context.Canceled) {
		return codes.Canceled
	}
	switch KindOf(err) {
	case "":
		return codes.OK
	case KindNotFound:
		return codes.NotFound
	case KindInsufficientStock, KindEmptyCart:
		return codes.FailedPrecondition
	case KindValidation:
		return codes.InvalidArgument
	case KindNetwork:
		return codes.Unavailable
	default:
		return codes.Internal
	}
}

// ToStatus converts err into a gRPC status error. The Kind rides along in the
// status message prefix so that EmptyCart and InsufficientStock, which share
// a code, stay distinguishable.
func ToStatus(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := status.FromError(err); ok && KindOf(err) == KindInternal {
		return err
	}
	return status.Error(GRPCCode(err), string(KindOf(err))+"|"+err.Error())
}

// FromStatus is the inverse of ToStatus. Errors that did not originate from
// ToStatus are classified by their gRPC code.
func FromStatus(err error) error {
	if err == nil {
		return nil
	}
	st, ok := status.FromError(err)
	if !ok {
		return FromKind(KindNetwork, err.Error())
	}
	msg := st.Message()
	if prefix, rest, ok := strings.Cut(msg, "|"); ok {
		if kind := Kind(prefix); kind == KindInternal || sentinel(kind) != nil {
			return FromKind(kind, rest)
		}
	}
	switch st.Code() {
	case codes.NotFound:
		return FromKind(KindNotFound, msg)
	case codes.InvalidArgument:
		return FromKind(KindValidation, msg)
	case codes.Unavailable, codes.DeadlineExceeded:
		return FromKind(KindNetwork, msg)
	default:
		return FromKind(KindInternal, msg)
	}
}
