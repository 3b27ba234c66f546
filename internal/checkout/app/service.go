package app

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/dwikikusuma/ec-training/internal/apperr"
	"github.com/dwikikusuma/ec-training/internal/checkout/domain"
	"github.com/dwikikusuma/ec-training/internal/coupon"
	order "github.com/dwikikusuma/ec-training/internal/order/domain"
)

type CartReader interface {
	GetCart(ctx context.Context, memberID int64) ([]CartItem, error)
}

type CartItem struct {
	ProductID int64
	Quantity  int
}

type CatalogReader interface {
	GetProduct(ctx context.Context, productID int64) (Product, error)
}

type Product struct {
	ID    int64
	Name  string
	Price int64
	Stock int
}

type Service struct {
	Cart    CartReader
	Catalog CatalogReader
	Coupons *coupon.Evaluator

	maxConcurrent int
}

func NewService(cart CartReader, catalog CatalogReader, coupons *coupon.Evaluator, maxConcurrent int) *Service {
	if maxConcurrent <= 0 {
		maxConcurrent = 10
	}
	if coupons == nil {
		coupons = coupon.NewEvaluator()
	}

	return &Service{
		Cart:          cart,
		Catalog:       catalog,
		Coupons:       coupons,
		maxConcurrent: maxConcurrent,
	}
}

type QuoteRequest struct {
	MemberID       int64                `json:"member_id"`
	CouponCode     string               `json:"coupon_code,omitempty"`
	ShippingMethod order.ShippingMethod `json:"shipping_method,omitempty"`
}

// Quote prices the member's cart with the same rules order placement uses.
func (s *Service) Quote(ctx context.Context, req QuoteRequest) (domain.Quote, error) {
	if req.ShippingMethod == "" {
		req.ShippingMethod = order.ShippingStandard
	}
	if !req.ShippingMethod.Valid() {
		return domain.Quote{}, fmt.Errorf("%w: unknown shipping method %q", apperr.ErrValidation, req.ShippingMethod)
	}

	items, err := s.Cart.GetCart(ctx, req.MemberID)
	if err != nil {
		return domain.Quote{}, err
	}

	if len(items) == 0 {
		return domain.Quote{}, apperr.ErrEmptyCart
	}

	lines := make([]domain.QuoteLine, len(items))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.maxConcurrent)

	for idx := range items {
		idx := idx
		g.Go(func() error {
			it := items[idx]
			if it.Quantity <= 0 {
				return fmt.Errorf("%w: quantity must be greater than zero: %d", apperr.ErrValidation, it.Quantity)
			}

			product, err := s.Catalog.GetProduct(gctx, it.ProductID)
			if err != nil {
				return fmt.Errorf("failed to get product %d: %w", it.ProductID, err)
			}
			if it.Quantity > product.Stock {
				return fmt.Errorf("%w: %s has %d left in stock", apperr.ErrInsufficientStock, product.Name, product.Stock)
			}

			lines[idx] = domain.QuoteLine{
				ProductID: product.ID,
				Name:      product.Name,
				Quantity:  it.Quantity,
				UnitPrice: product.Price,
				LineTotal: product.Price * int64(it.Quantity),
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return domain.Quote{}, err
	}

	var subtotal int64
	for _, line := range lines {
		subtotal += line.LineTotal
	}

	q := domain.Quote{
		Lines:          lines,
		ShippingMethod: req.ShippingMethod,
	}

	var discount int64
	if code := coupon.Normalize(req.CouponCode); code != "" {
		v := s.Coupons.Validate(code)
		if v.Valid {
			discount = coupon.Apply(subtotal, *v.Coupon)
			q.CouponCode = v.Coupon.Code
		} else {
			q.CouponMessage = v.Message
		}
	}

	q.Totals = domain.ComputeTotals(subtotal, discount, req.ShippingMethod)
	q.FreeShippingRemaining = q.Totals.FreeShippingRemaining()
	return q, nil
}
