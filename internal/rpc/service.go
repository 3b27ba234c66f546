package rpc

import (
	"context"

	"google.golang.org/grpc"

	"github.com/dwikikusuma/ec-training/internal/apperr"
	catalog "github.com/dwikikusuma/ec-training/internal/catalog/domain"
)

const ServiceName = "storefront.v1.Storefront"

const (
	methodGetProducts    = "GetProducts"
	methodGetProduct     = "GetProduct"
	methodGetCart        = "GetCart"
	methodAddToCart      = "AddToCart"
	methodUpdateCartItem = "UpdateCartItem"
	methodDeleteCartItem = "DeleteCartItem"
	methodCreateOrder    = "CreateOrder"
	methodGetOrders      = "GetOrders"
	methodValidateCoupon = "ValidateCoupon"
	methodGetQuote       = "GetQuote"
)

func fullMethod(name string) string {
	return "/" + ServiceName + "/" + name
}

type ProductsRequest struct {
	Filter catalog.Filter `json:"filter"`
}

type ProductRequest struct {
	ID int64 `json:"id"`
}

type MemberRequest struct {
	MemberID int64 `json:"member_id"`
}

type CartItemRequest struct {
	ID string `json:"id"`
}

type CouponRequest struct {
	Code string `json:"code"`
}

// backend is the handler type checked by grpc.Server.RegisterService.
type backend interface {
	isStorefrontBackend()
}

func unary[Req, Resp any](name string, call func(s *Server, ctx context.Context, req *Req) (Resp, error)) grpc.MethodDesc {
	invoke := func(s *Server, ctx context.Context, req *Req) (any, error) {
		resp, err := call(s, ctx, req)
		if err != nil {
			return nil, apperr.ToStatus(err)
		}
		return resp, nil
	}

	return grpc.MethodDesc{
		MethodName: name,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(Req)
			if err := dec(in); err != nil {
				return nil, err
			}
			s := srv.(*Server)
			if interceptor == nil {
				return invoke(s, ctx, in)
			}
			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod(name)}
			handler := func(ctx context.Context, req any) (any, error) {
				return invoke(s, ctx, req.(*Req))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}
