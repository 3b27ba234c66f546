package facade

import (
	"context"
	"time"

	cartapp "github.com/dwikikusuma/ec-training/internal/cart/app"
	cart "github.com/dwikikusuma/ec-training/internal/cart/domain"
	catalogapp "github.com/dwikikusuma/ec-training/internal/catalog/app"
	catalog "github.com/dwikikusuma/ec-training/internal/catalog/domain"
	checkoutapp "github.com/dwikikusuma/ec-training/internal/checkout/app"
	checkout "github.com/dwikikusuma/ec-training/internal/checkout/domain"
	"github.com/dwikikusuma/ec-training/internal/coupon"
	orderapp "github.com/dwikikusuma/ec-training/internal/order/app"
	order "github.com/dwikikusuma/ec-training/internal/order/domain"
)

type Services struct {
	Catalog  *catalogapp.Service
	Cart     *cartapp.Service
	Orders   *orderapp.Service
	Checkout *checkoutapp.Service
	Coupons  *coupon.Evaluator
}

// Local runs every operation in process against the services. In mock mode a
// simulated latency precedes each call.
type Local struct {
	svc     Services
	latency time.Duration
}

func NewLocal(svc Services, latency time.Duration) *Local {
	return &Local{svc: svc, latency: latency}
}

func (l *Local) wait(ctx context.Context) error {
	if l.latency <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(l.latency)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func run[T any](ctx context.Context, l *Local, fn func() (T, error)) Envelope[T] {
	if err := l.wait(ctx); err != nil {
		return Fail[T](err)
	}
	v, err := fn()
	if err != nil {
		return Fail[T](err)
	}
	return OK(v)
}

func (l *Local) GetProducts(ctx context.Context, f catalog.Filter) Envelope[[]catalog.Product] {
	return run(ctx, l, func() ([]catalog.Product, error) {
		return l.svc.Catalog.ListProducts(ctx, f)
	})
}

func (l *Local) GetProduct(ctx context.Context, id int64) Envelope[catalog.Product] {
	return run(ctx, l, func() (catalog.Product, error) {
		return l.svc.Catalog.GetProduct(ctx, id)
	})
}

func (l *Local) GetCart(ctx context.Context, memberID int64) Envelope[[]cart.Line] {
	return run(ctx, l, func() ([]cart.Line, error) {
		return l.svc.Cart.Read(ctx, memberID)
	})
}

func (l *Local) AddToCart(ctx context.Context, memberID, productID int64, quantity int) Envelope[AddToCartResult] {
	return run(ctx, l, func() (AddToCartResult, error) {
		item, err := l.svc.Cart.Add(ctx, memberID, productID, quantity)
		if err != nil {
			return AddToCartResult{}, err
		}
		return AddToCartResult{ID: item.ID, Quantity: item.Quantity}, nil
	})
}

func (l *Local) UpdateCartItem(ctx context.Context, itemID string, quantity int) Envelope[Empty] {
	return run(ctx, l, func() (Empty, error) {
		return Empty{}, l.svc.Cart.UpdateQuantity(ctx, itemID, quantity)
	})
}

func (l *Local) DeleteCartItem(ctx context.Context, itemID string) Envelope[Empty] {
	return run(ctx, l, func() (Empty, error) {
		return Empty{}, l.svc.Cart.Remove(ctx, itemID)
	})
}

func (l *Local) CreateOrder(ctx context.Context, req order.PlaceOrderRequest) Envelope[order.Placed] {
	return run(ctx, l, func() (order.Placed, error) {
		return l.svc.Orders.PlaceOrder(ctx, req)
	})
}

func (l *Local) GetOrders(ctx context.Context, memberID int64) Envelope[[]order.Order] {
	return run(ctx, l, func() ([]order.Order, error) {
		return l.svc.Orders.ListOrders(ctx, memberID)
	})
}

func (l *Local) ValidateCoupon(ctx context.Context, code string) Envelope[coupon.Validation] {
	return run(ctx, l, func() (coupon.Validation, error) {
		return l.svc.Coupons.Validate(code), nil
	})
}

func (l *Local) GetQuote(ctx context.Context, req checkoutapp.QuoteRequest) Envelope[checkout.Quote] {
	return run(ctx, l, func() (checkout.Quote, error) {
		return l.svc.Checkout.Quote(ctx, req)
	})
}

var _ DataAccess = (*Local)(nil)
