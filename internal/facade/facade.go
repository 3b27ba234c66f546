// Package facade is the single seam between the view layer and the stores.
// The strategy behind DataAccess is chosen once at startup.
package facade

import (
	"context"

	cart "github.com/dwikikusuma/ec-training/internal/cart/domain"
	catalog "github.com/dwikikusuma/ec-training/internal/catalog/domain"
	checkoutapp "github.com/dwikikusuma/ec-training/internal/checkout/app"
	checkout "github.com/dwikikusuma/ec-training/internal/checkout/domain"
	"github.com/dwikikusuma/ec-training/internal/coupon"
	order "github.com/dwikikusuma/ec-training/internal/order/domain"
)

type DataAccess interface {
	GetProducts(ctx context.Context, f catalog.Filter) Envelope[[]catalog.Product]
	GetProduct(ctx context.Context, id int64) Envelope[catalog.Product]
	GetCart(ctx context.Context, memberID int64) Envelope[[]cart.Line]
	AddToCart(ctx context.Context, memberID, productID int64, quantity int) Envelope[AddToCartResult]
	UpdateCartItem(ctx context.Context, itemID string, quantity int) Envelope[Empty]
	DeleteCartItem(ctx context.Context, itemID string) Envelope[Empty]
	CreateOrder(ctx context.Context, req order.PlaceOrderRequest) Envelope[order.Placed]
	GetOrders(ctx context.Context, memberID int64) Envelope[[]order.Order]
	ValidateCoupon(ctx context.Context, code string) Envelope[coupon.Validation]
	GetQuote(ctx context.Context, req checkoutapp.QuoteRequest) Envelope[checkout.Quote]
}

type Mode string

const (
	ModeMock   Mode = "mock"
	ModeRemote Mode = "remote"
	ModeGRPC   Mode = "grpc"
)

func (m Mode) Valid() bool {
	switch m {
	case ModeMock, ModeRemote, ModeGRPC:
		return true
	}
	return false
}
