// Package memory is the in-process store used in mock mode. State lives only
// in process memory and is lost on restart.
package memory

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/dwikikusuma/ec-training/internal/apperr"
	cart "github.com/dwikikusuma/ec-training/internal/cart/domain"
	catalog "github.com/dwikikusuma/ec-training/internal/catalog/domain"
	order "github.com/dwikikusuma/ec-training/internal/order/domain"
	"github.com/dwikikusuma/ec-training/internal/store"
)

var errReadOnly = errors.New("write inside a read-only unit of work")

type state struct {
	products map[int64]catalog.Product
	cart     []cart.CartItem
	orders   []order.Order
}

func (s *state) clone() *state {
	products := make(map[int64]catalog.Product, len(s.products))
	for id, p := range s.products {
		products[id] = p
	}
	return &state{
		products: products,
		cart:     slices.Clone(s.cart),
		orders:   slices.Clone(s.orders),
	}
}

// Store serialises writers with a mutex. A writer works on a copy of the state
// which replaces the live state only when the unit of work succeeds.
type Store struct {
	mu sync.RWMutex
	st *state
}

func New(products []catalog.Product) *Store {
	st := &state{products: make(map[int64]catalog.Product, len(products))}
	for _, p := range products {
		p.SyncStatus()
		st.products[p.ID] = p
	}
	return &Store{st: st}
}

// NewSeeded returns a store holding the demo catalog.
func NewSeeded() *Store {
	return New(catalog.Seed())
}

func (s *Store) Do(ctx context.Context, fn func(store.Tx) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	work := s.st.clone()
	if err := fn(&tx{st: work}); err != nil {
		return err
	}
	s.st = work
	return nil
}

func (s *Store) View(ctx context.Context, fn func(store.Tx) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	return fn(&tx{st: s.st, readOnly: true})
}

type tx struct {
	st       *state
	readOnly bool
}

func (t *tx) Products() store.ProductStore { return products{t} }
func (t *tx) Cart() store.CartStore         { return carts{t} }
func (t *tx) Orders() store.OrderStore      { return orders{t} }

func (t *tx) writable() error {
	if t.readOnly {
		return errReadOnly
	}
	return nil
}

type products struct{ *tx }

func (r products) Get(_ context.Context, id int64) (catalog.Product, error) {
	p, ok := r.st.products[id]
	if !ok {
		return catalog.Product{}, fmt.Errorf("%w: product %d", apperr.ErrNotFound, id)
	}
	return p, nil
}

func (r products) List(_ context.Context, f catalog.Filter) ([]catalog.Product, error) {
	out := make([]catalog.Product, 0, len(r.st.products))
	for _, p := range r.st.products {
		if f.Match(p) {
			out = append(out, p)
		}
	}
	slices.SortFunc(out, func(a, b catalog.Product) int {
		return cmp.Compare(a.ID, b.ID)
	})
	return out, nil
}

func (r products) Save(_ context.Context, p catalog.Product) error {
	if err := r.writable(); err != nil {
		return err
	}
	if _, ok := r.st.products[p.ID]; !ok {
		return fmt.Errorf("%w: product %d", apperr.ErrNotFound, p.ID)
	}
	p.SyncStatus()
	r.st.products[p.ID] = p
	return nil
}

type carts struct{ *tx }

func (r carts) index(id string) int {
	return slices.IndexFunc(r.st.cart, func(it cart.CartItem) bool { return it.ID == id })
}

func (r carts) Get(_ context.Context, id string) (cart.CartItem, error) {
	i := r.index(id)
	if i < 0 {
		return cart.CartItem{}, fmt.Errorf("%w: cart item %s", apperr.ErrNotFound, id)
	}
	return r.st.cart[i], nil
}

func (r carts) FindByMemberProduct(_ context.Context, memberID, productID int64) (cart.CartItem, bool, error) {
	for _, it := range r.st.cart {
		if it.MemberID == memberID && it.ProductID == productID {
			return it, true, nil
		}
	}
	return cart.CartItem{}, false, nil
}

func (r carts) ListByMember(_ context.Context, memberID int64) ([]cart.CartItem, error) {
	var out []cart.CartItem
	for _, it := range r.st.cart {
		if it.MemberID == memberID {
			out = append(out, it)
		}
	}
	return out, nil
}

func (r carts) Insert(_ context.Context, item cart.CartItem) error {
	if err := r.writable(); err != nil {
		return err
	}
	if r.index(item.ID) >= 0 {
		return fmt.Errorf("cart item %s already exists", item.ID)
	}
	r.st.cart = append(r.st.cart, item)
	return nil
}

func (r carts) Update(_ context.Context, item cart.CartItem) error {
	if err := r.writable(); err != nil {
		return err
	}
	i := r.index(item.ID)
	if i < 0 {
		return fmt.Errorf("%w: cart item %s", apperr.ErrNotFound, item.ID)
	}
	r.st.cart[i].Quantity = item.Quantity
	return nil
}

func (r carts) Delete(_ context.Context, id string) error {
	if err := r.writable(); err != nil {
		return err
	}
	i := r.index(id)
	if i < 0 {
		return fmt.Errorf("%w: cart item %s", apperr.ErrNotFound, id)
	}
	r.st.cart = slices.Delete(r.st.cart, i, i+1)
	return nil
}

func (r carts) DeleteItems(_ context.Context, ids []string) error {
	if err := r.writable(); err != nil {
		return err
	}
	r.st.cart = slices.DeleteFunc(r.st.cart, func(it cart.CartItem) bool {
		return slices.Contains(ids, it.ID)
	})
	return nil
}

type orders struct{ *tx }

func (r orders) Append(_ context.Context, o order.Order) error {
	if err := r.writable(); err != nil {
		return err
	}
	o.Items = slices.Clone(o.Items)
	r.st.orders = append(r.st.orders, o)
	return nil
}

func (r orders) ListByMember(_ context.Context, memberID int64) ([]order.Order, error) {
	var out []order.Order
	for _, o := range r.st.orders {
		if o.MemberID == memberID {
			o.Items = slices.Clone(o.Items)
			out = append(out, o)
		}
	}
	return out, nil
}

func (r orders) Get(_ context.Context, id string) (order.Order, error) {
	for _, o := range r.st.orders {
		if o.ID == id {
			o.Items = slices.Clone(o.Items)
			return o, nil
		}
	}
	return order.Order{}, fmt.Errorf("%w: order %s", apperr.ErrNotFound, id)
}

func (r orders) UpdateStatus(_ context.Context, id string, s order.Status, at time.Time) error {
	if err := r.writable(); err != nil {
		return err
	}
	for i := range r.st.orders {
		if r.st.orders[i].ID == id {
			r.st.orders[i].Status = s
			r.st.orders[i].UpdatedAt = at
			return nil
		}
	}
	return fmt.Errorf("%w: order %s", apperr.ErrNotFound, id)
}

var _ store.UnitOfWork = (*Store)(nil)
