// Package store defines the persistence seam shared by the catalog, cart and
// order services.
//
// Every read and write happens inside a unit of work. A unit of work started
// with Do either applies all of its writes or none of them; this is what keeps
// order placement atomic across products, cart lines and orders.
package store

import (
	"context"
	"time"

	cart "github.com/dwikikusuma/ec-training/internal/cart/domain"
	catalog "github.com/dwikikusuma/ec-training/internal/catalog/domain"
	order "github.com/dwikikusuma/ec-training/internal/order/domain"
)

type ProductStore interface {
	// Get returns apperr.ErrNotFound when id is unknown. Inside Do the row
	// stays locked until the unit of work ends.
	Get(ctx context.Context, id int64) (catalog.Product, error)
	// List returns the matching products ordered by id.
	List(ctx context.Context, f catalog.Filter) ([]catalog.Product, error)
	Save(ctx context.Context, p catalog.Product) error
}

// CartStore writers hold the lock of the line's product (ProductStore.Get
// inside Do) before touching the line, so a line never changes while its
// product is locked by someone else.
type CartStore interface {
	Get(ctx context.Context, id string) (cart.CartItem, error)
	FindByMemberProduct(ctx context.Context, memberID, productID int64) (cart.CartItem, bool, error)
	// ListByMember returns lines in the order they were first added.
	ListByMember(ctx context.Context, memberID int64) ([]cart.CartItem, error)
	Insert(ctx context.Context, item cart.CartItem) error
	// Update stores a new quantity for an existing line and returns
	// apperr.ErrNotFound when the line is gone.
	Update(ctx context.Context, item cart.CartItem) error
	// Delete returns apperr.ErrNotFound when the line does not exist.
	Delete(ctx context.Context, id string) error
	// DeleteItems removes exactly the given lines.
	DeleteItems(ctx context.Context, ids []string) error
}

type OrderStore interface {
	Append(ctx context.Context, o order.Order) error
	// ListByMember returns orders in insertion order.
	ListByMember(ctx context.Context, memberID int64) ([]order.Order, error)
	Get(ctx context.Context, id string) (order.Order, error)
	UpdateStatus(ctx context.Context, id string, s order.Status, at time.Time) error
}

type Tx interface {
	Products() ProductStore
	Cart() CartStore
	Orders() OrderStore
}

type UnitOfWork interface {
	// Do runs fn with write access. If fn returns an error nothing it wrote
	// is kept.
	Do(ctx context.Context, fn func(Tx) error) error
	// View runs fn with read access only.
	View(ctx context.Context, fn func(Tx) error) error
}
