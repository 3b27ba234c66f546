package app

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/dwikikusuma/ec-training/internal/apperr"
	cart "github.com/dwikikusuma/ec-training/internal/cart/domain"
	catalog "github.com/dwikikusuma/ec-training/internal/catalog/domain"
	checkout "github.com/dwikikusuma/ec-training/internal/checkout/domain"
	"github.com/dwikikusuma/ec-training/internal/coupon"
	"github.com/dwikikusuma/ec-training/internal/order/domain"
	"github.com/dwikikusuma/ec-training/internal/store"
)

type Service struct {
	uow     store.UnitOfWork
	coupons *coupon.Evaluator

	now       func() time.Time
	newID     func() string
	observers []Observer
}

func NewService(uow store.UnitOfWork, coupons *coupon.Evaluator, opts ...Option) *Service {
	if coupons == nil {
		coupons = coupon.NewEvaluator()
	}
	s := &Service{uow: uow, coupons: coupons}
	defaultOptions(s)
	for _, o := range opts {
		o(s)
	}
	return s
}

func validate(req *domain.PlaceOrderRequest) error {
	if req.ShippingMethod == "" {
		req.ShippingMethod = domain.ShippingStandard
	}
	req.ShippingAddress = strings.TrimSpace(req.ShippingAddress)

	if !req.PaymentMethod.Valid() {
		return fmt.Errorf("%w: unknown payment method %q", apperr.ErrValidation, req.PaymentMethod)
	}
	if !req.ShippingMethod.Valid() {
		return fmt.Errorf("%w: unknown shipping method %q", apperr.ErrValidation, req.ShippingMethod)
	}
	if req.ShippingAddress == "" {
		return fmt.Errorf("%w: shipping address is required", apperr.ErrValidation)
	}
	return nil
}

// PlaceOrder turns the member's cart into a pending order. Stock check, stock
// decrement, cart clear and order append happen in one unit of work.
func (s *Service) PlaceOrder(ctx context.Context, req domain.PlaceOrderRequest) (domain.Placed, error) {
	if err := validate(&req); err != nil {
		return domain.Placed{}, err
	}

	var (
		placed  domain.Order
		touched []catalog.Product
	)
	err := s.uow.Do(ctx, func(tx store.Tx) error {
		seen, err := tx.Cart().ListByMember(ctx, req.MemberID)
		if err != nil {
			return err
		}
		if len(seen) == 0 {
			return apperr.ErrEmptyCart
		}

		// lock products in id order so concurrent checkouts cannot deadlock
		byID := make(map[int64]catalog.Product, len(seen))
		ids := make([]int64, 0, len(seen))
		for _, it := range seen {
			ids = append(ids, it.ProductID)
		}
		slices.Sort(ids)
		for _, id := range ids {
			p, err := tx.Products().Get(ctx, id)
			if err != nil {
				return err
			}
			byID[id] = p
		}

		// Lines of locked products cannot change any more. Read them again
		// and leave lines for other products in the cart.
		current, err := tx.Cart().ListByMember(ctx, req.MemberID)
		if err != nil {
			return err
		}
		items := slices.DeleteFunc(current, func(it cart.CartItem) bool {
			_, locked := byID[it.ProductID]
			return !locked
		})
		if len(items) == 0 {
			return apperr.ErrEmptyCart
		}

		now := s.now()
		o := domain.Order{
			ID:              s.newID(),
			MemberID:        req.MemberID,
			Status:          domain.StatusPending,
			PaymentMethod:   req.PaymentMethod,
			ShippingMethod:  req.ShippingMethod,
			ShippingAddress: req.ShippingAddress,
			CreatedAt:       now,
			UpdatedAt:       now,
			Items:           make([]domain.Item, 0, len(items)),
		}

		var subtotal int64
		for _, it := range items {
			p := byID[it.ProductID]
			if it.Quantity > p.Stock {
				return fmt.Errorf("%w: %s has %d left in stock", apperr.ErrInsufficientStock, p.Name, p.Stock)
			}
			line := p.Price * int64(it.Quantity)
			subtotal += line
			o.Items = append(o.Items, domain.Item{
				ID:          s.newID(),
				OrderID:     o.ID,
				ProductID:   p.ID,
				ProductName: p.Name,
				Quantity:    it.Quantity,
				UnitPrice:   p.Price,
				Subtotal:    line,
			})
		}

		var discount int64
		if code := coupon.Normalize(req.CouponCode); code != "" {
			if v := s.coupons.Validate(code); v.Valid {
				discount = coupon.Apply(subtotal, *v.Coupon)
				o.CouponCode = v.Coupon.Code
			}
		}
		totals := checkout.ComputeTotals(subtotal, discount, req.ShippingMethod)
		o.TotalAmount = totals.Subtotal
		o.DiscountAmount = totals.Discount
		o.ShippingFee = totals.ShippingFee

		touched = touched[:0]
		for _, it := range items {
			p := byID[it.ProductID]
			p.Take(it.Quantity, now)
			if err := tx.Products().Save(ctx, p); err != nil {
				return err
			}
			byID[p.ID] = p
			touched = append(touched, p)
		}

		lineIDs := make([]string, len(items))
		for i, it := range items {
			lineIDs[i] = it.ID
		}
		if err := tx.Cart().DeleteItems(ctx, lineIDs); err != nil {
			return err
		}
		if err := tx.Orders().Append(ctx, o); err != nil {
			return err
		}
		placed = o
		return nil
	})
	if err != nil {
		return domain.Placed{}, err
	}

	for _, obs := range s.observers {
		obs.OrderPlaced(ctx, placed, touched)
	}

	return domain.Placed{
		OrderID:     placed.ID,
		TotalAmount: placed.Payable(),
	}, nil
}

// ListOrders returns the member's orders in the order they were placed.
func (s *Service) ListOrders(ctx context.Context, memberID int64) ([]domain.Order, error) {
	out := []domain.Order{}
	err := s.uow.View(ctx, func(tx store.Tx) error {
		orders, err := tx.Orders().ListByMember(ctx, memberID)
		if err != nil {
			return err
		}
		out = append(out, orders...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Service) GetOrder(ctx context.Context, id string) (domain.Order, error) {
	var o domain.Order
	err := s.uow.View(ctx, func(tx store.Tx) error {
		var err error
		o, err = tx.Orders().Get(ctx, id)
		return err
	})
	return o, err
}

// Advance moves an order along its lifecycle. Only the next step or a
// cancellation of a non-terminal order is accepted.
func (s *Service) Advance(ctx context.Context, id string, to domain.Status) (domain.Order, error) {
	if !to.Valid() {
		return domain.Order{}, fmt.Errorf("%w: unknown order status %q", apperr.ErrValidation, to)
	}

	var o domain.Order
	err := s.uow.Do(ctx, func(tx store.Tx) error {
		var err error
		o, err = tx.Orders().Get(ctx, id)
		if err != nil {
			return err
		}

		next, err := o.Status.Transition(to)
		if err != nil {
			return fmt.Errorf("%w: %v", apperr.ErrValidation, err)
		}

		now := s.now()
		if err := tx.Orders().UpdateStatus(ctx, id, next, now); err != nil {
			return err
		}
		o.Status = next
		o.UpdatedAt = now
		return nil
	})
	if err != nil {
		return domain.Order{}, err
	}
	return o, nil
}
