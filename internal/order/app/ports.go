package app

import (
	"context"
	"time"

	"github.com/google/uuid"

	catalog "github.com/dwikikusuma/ec-training/internal/catalog/domain"
	"github.com/dwikikusuma/ec-training/internal/order/domain"
)

// Observer is told about an order after it has been committed. products holds
// the touched products with their new stock.
type Observer interface {
	OrderPlaced(ctx context.Context, o domain.Order, products []catalog.Product)
}

type ObserverFunc func(ctx context.Context, o domain.Order, products []catalog.Product)

func (f ObserverFunc) OrderPlaced(ctx context.Context, o domain.Order, products []catalog.Product) {
	f(ctx, o, products)
}

type Option func(*Service)

func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func WithIDs(newID func() string) Option {
	return func(s *Service) { s.newID = newID }
}

func WithObserver(o Observer) Option {
	return func(s *Service) { s.observers = append(s.observers, o) }
}

func defaultOptions(s *Service) {
	s.now = func() time.Time { return time.Now().UTC() }
	s.newID = uuid.NewString
}
