package rpc

import (
	"context"
	"fmt"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/dwikikusuma/ec-training/internal/apperr"
	cart "github.com/dwikikusuma/ec-training/internal/cart/domain"
	catalog "github.com/dwikikusuma/ec-training/internal/catalog/domain"
	checkoutapp "github.com/dwikikusuma/ec-training/internal/checkout/app"
	checkout "github.com/dwikikusuma/ec-training/internal/checkout/domain"
	"github.com/dwikikusuma/ec-training/internal/coupon"
	"github.com/dwikikusuma/ec-training/internal/facade"
	order "github.com/dwikikusuma/ec-training/internal/order/domain"
)

// Client is the gRPC data-access strategy.
type Client struct {
	conn grpc.ClientConnInterface
}

func NewClient(conn grpc.ClientConnInterface) *Client {
	return &Client{conn: conn}
}

// Dial connects to a storefront backend. Extra options are appended after the
// defaults.
func Dial(target string, opts ...grpc.DialOption) (*grpc.ClientConn, error) {
	base := []grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithDefaultCallOptions(grpc.CallContentSubtype(CodecName)),
	}
	conn, err := grpc.Dial(target, append(base, opts...)...)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", target, err)
	}
	return conn, nil
}

func invoke[Resp any](ctx context.Context, c *Client, method string, req any) facade.Envelope[Resp] {
	var out Resp
	if err := c.conn.Invoke(ctx, fullMethod(method), req, &out, grpc.CallContentSubtype(CodecName)); err != nil {
		return facade.Fail[Resp](apperr.FromStatus(err))
	}
	return facade.OK(out)
}

func (c *Client) GetProducts(ctx context.Context, f catalog.Filter) facade.Envelope[[]catalog.Product] {
	return invoke[[]catalog.Product](ctx, c, methodGetProducts, &ProductsRequest{Filter: f})
}

func (c *Client) GetProduct(ctx context.Context, id int64) facade.Envelope[catalog.Product] {
	return invoke[catalog.Product](ctx, c, methodGetProduct, &ProductRequest{ID: id})
}

func (c *Client) GetCart(ctx context.Context, memberID int64) facade.Envelope[[]cart.Line] {
	return invoke[[]cart.Line](ctx, c, methodGetCart, &MemberRequest{MemberID: memberID})
}

func (c *Client) AddToCart(ctx context.Context, memberID, productID int64, quantity int) facade.Envelope[facade.AddToCartResult] {
	return invoke[facade.AddToCartResult](ctx, c, methodAddToCart, &facade.AddToCartRequest{
		MemberID:  memberID,
		ProductID: productID,
		Quantity:  quantity,
	})
}

func (c *Client) UpdateCartItem(ctx context.Context, itemID string, quantity int) facade.Envelope[facade.Empty] {
	return invoke[facade.Empty](ctx, c, methodUpdateCartItem, &facade.UpdateCartItemRequest{ID: itemID, Quantity: quantity})
}

func (c *Client) DeleteCartItem(ctx context.Context, itemID string) facade.Envelope[facade.Empty] {
	return invoke[facade.Empty](ctx, c, methodDeleteCartItem, &CartItemRequest{ID: itemID})
}

func (c *Client) CreateOrder(ctx context.Context, req order.PlaceOrderRequest) facade.Envelope[order.Placed] {
	return invoke[order.Placed](ctx, c, methodCreateOrder, &req)
}

func (c *Client) GetOrders(ctx context.Context, memberID int64) facade.Envelope[[]order.Order] {
	return invoke[[]order.Order](ctx, c, methodGetOrders, &MemberRequest{MemberID: memberID})
}

func (c *Client) ValidateCoupon(ctx context.Context, code string) facade.Envelope[coupon.Validation] {
	return invoke[coupon.Validation](ctx, c, methodValidateCoupon, &CouponRequest{Code: code})
}

func (c *Client) GetQuote(ctx context.Context, req checkoutapp.QuoteRequest) facade.Envelope[checkout.Quote] {
	return invoke[checkout.Quote](ctx, c, methodGetQuote, &req)
}

var _ facade.DataAccess = (*Client)(nil)
