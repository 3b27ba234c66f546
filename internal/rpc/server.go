package rpc

import (
	"context"
	"log/slog"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/status"

	cart "github.com/dwikikusuma/ec-training/internal/cart/domain"
	catalog "github.com/dwikikusuma/ec-training/internal/catalog/domain"
	checkoutapp "github.com/dwikikusuma/ec-training/internal/checkout/app"
	checkout "github.com/dwikikusuma/ec-training/internal/checkout/domain"
	"github.com/dwikikusuma/ec-training/internal/coupon"
	"github.com/dwikikusuma/ec-training/internal/facade"
	order "github.com/dwikikusuma/ec-training/internal/order/domain"
)

// Server exposes a DataAccess over gRPC. Failed envelopes become status
// errors that Client turns back into envelopes of the same kind.
type Server struct {
	data facade.DataAccess
}

func NewServer(data facade.DataAccess) *Server {
	return &Server{data: data}
}

func (*Server) isStorefrontBackend() {}

func result[T any](env facade.Envelope[T]) (T, error) {
	return env.Data, env.Err()
}

var serviceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*backend)(nil),
	Methods: []grpc.MethodDesc{
		unary(methodGetProducts, func(s *Server, ctx context.Context, req *ProductsRequest) ([]catalog.Product, error) {
			return result(s.data.GetProducts(ctx, req.Filter))
		}),
		unary(methodGetProduct, func(s *Server, ctx context.Context, req *ProductRequest) (catalog.Product, error) {
			return result(s.data.GetProduct(ctx, req.ID))
		}),
		unary(methodGetCart, func(s *Server, ctx context.Context, req *MemberRequest) ([]cart.Line, error) {
			return result(s.data.GetCart(ctx, req.MemberID))
		}),
		unary(methodAddToCart, func(s *Server, ctx context.Context, req *facade.AddToCartRequest) (facade.AddToCartResult, error) {
			return result(s.data.AddToCart(ctx, req.MemberID, req.ProductID, req.Quantity))
		}),
		unary(methodUpdateCartItem, func(s *Server, ctx context.Context, req *facade.UpdateCartItemRequest) (facade.Empty, error) {
			return result(s.data.UpdateCartItem(ctx, req.ID, req.Quantity))
		}),
		unary(methodDeleteCartItem, func(s *Server, ctx context.Context, req *CartItemRequest) (facade.Empty, error) {
			return result(s.data.DeleteCartItem(ctx, req.ID))
		}),
		unary(methodCreateOrder, func(s *Server, ctx context.Context, req *order.PlaceOrderRequest) (order.Placed, error) {
			return result(s.data.CreateOrder(ctx, *req))
		}),
		unary(methodGetOrders, func(s *Server, ctx context.Context, req *MemberRequest) ([]order.Order, error) {
			return result(s.data.GetOrders(ctx, req.MemberID))
		}),
		unary(methodValidateCoupon, func(s *Server, ctx context.Context, req *CouponRequest) (coupon.Validation, error) {
			return result(s.data.ValidateCoupon(ctx, req.Code))
		}),
		unary(methodGetQuote, func(s *Server, ctx context.Context, req *checkoutapp.QuoteRequest) (checkout.Quote, error) {
			return result(s.data.GetQuote(ctx, *req))
		}),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "storefront/v1/storefront.proto",
}

func Register(gs *grpc.Server, s *Server) {
	gs.RegisterService(&serviceDesc, s)
}

// LoggingInterceptor logs one line per unary call.
func LoggingInterceptor(log *slog.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		start := time.Now()
		resp, err := handler(ctx, req)

		attrs := []any{
			slog.String("method", info.FullMethod),
			slog.String("code", status.Code(err).String()),
			slog.Duration("duration", time.Since(start)),
		}
		if err != nil {
			log.Warn("grpc call failed", append(attrs, slog.Any("err", err))...)
		} else {
			log.Info("grpc call", attrs...)
		}
		return resp, err
	}
}
