package facade

import (
	"github.com/dwikikusuma/ec-training/internal/apperr"
)

// Envelope is the uniform result of every data-access operation: either
// Success with Data, or a failure with a human readable Error. Code carries
// the error kind so a remote caller can rebuild it.
type Envelope[T any] struct {
	Success bool        `json:"success"`
	Data    T           `json:"data"`
	Error   string      `json:"error,omitempty"`
	Code    apperr.Kind `json:"code,omitempty"`
}

func OK[T any](data T) Envelope[T] {
	return Envelope[T]{Success: true, Data: data}
}

func Fail[T any](err error) Envelope[T] {
	return Envelope[T]{Error: err.Error(), Code: apperr.KindOf(err)}
}

// Err returns nil for a successful envelope, otherwise an error matching the
// apperr sentinel of its kind.
func (e Envelope[T]) Err() error {
	if e.Success {
		return nil
	}
	kind := e.Code
	if kind == "" {
		kind = apperr.KindInternal
	}
	return apperr.FromKind(kind, e.Error)
}

// Empty is the payload of operations that only report success.
type Empty struct{}

type AddToCartResult struct {
	ID       string `json:"id"`
	Quantity int    `json:"quantity"`
}
