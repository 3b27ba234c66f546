// Package storefront owns the shopper's application state and drives every
// change to it through the data-access facade.
package storefront

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/dwikikusuma/ec-training/internal/apperr"
	cart "github.com/dwikikusuma/ec-training/internal/cart/domain"
	catalog "github.com/dwikikusuma/ec-training/internal/catalog/domain"
	checkoutapp "github.com/dwikikusuma/ec-training/internal/checkout/app"
	checkout "github.com/dwikikusuma/ec-training/internal/checkout/domain"
	"github.com/dwikikusuma/ec-training/internal/coupon"
	"github.com/dwikikusuma/ec-training/internal/facade"
	"github.com/dwikikusuma/ec-training/internal/member"
	order "github.com/dwikikusuma/ec-training/internal/order/domain"
)

// State is a snapshot of what the views render.
type State struct {
	Member   *member.Member
	MemberID int64
	Filter   catalog.Filter
	Products []catalog.Product
	Cart     []cart.Line
	// Orders are sorted newest first.
	Orders []order.Order
	Coupon *coupon.Validation
}

func (s State) CartCount() int { return cart.Count(s.Cart) }

func (s State) Subtotal() int64 { return cart.Subtotal(s.Cart) }

// CheckoutForm is what the shopper fills in before placing an order.
type CheckoutForm struct {
	PaymentMethod   order.PaymentMethod
	ShippingMethod  order.ShippingMethod
	ShippingAddress string
}

type Controller struct {
	data    facade.DataAccess
	members *member.Service
	log     *slog.Logger

	mu    sync.RWMutex
	state State
}

// NewController starts with the demo member id; Login replaces it.
func NewController(data facade.DataAccess, members *member.Service, demoMemberID int64, log *slog.Logger) *Controller {
	if log == nil {
		log = slog.Default()
	}
	return &Controller{
		data:    data,
		members: members,
		log:     log,
		state:   State{MemberID: demoMemberID},
	}
}

// State returns a copy that the caller may keep.
func (c *Controller) State() State {
	c.mu.RLock()
	defer c.mu.RUnlock()
	s := c.state
	s.Products = slices.Clone(s.Products)
	s.Cart = slices.Clone(s.Cart)
	s.Orders = slices.Clone(s.Orders)
	return s
}

func (c *Controller) memberID() int64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state.MemberID
}

func (c *Controller) Login(ctx context.Context, email, password string) (member.Session, error) {
	sess, err := c.members.Login(ctx, email, password)
	if err != nil {
		return member.Session{}, err
	}
	c.mu.Lock()
	m := sess.Member
	c.state.Member = &m
	c.state.MemberID = m.ID
	c.state.Coupon = nil
	c.mu.Unlock()

	c.log.Info("member logged in", slog.Int64("member_id", m.ID))
	return sess, c.Refresh(ctx)
}

func (c *Controller) Register(ctx context.Context, in member.RegisterInput) (member.Member, error) {
	return c.members.Register(ctx, in)
}

func (c *Controller) Logout(demoMemberID int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = State{MemberID: demoMemberID, Filter: c.state.Filter}
}

// Refresh reloads products, cart and orders together.
func (c *Controller) Refresh(ctx context.Context) error {
	c.mu.RLock()
	id, f := c.state.MemberID, c.state.Filter
	c.mu.RUnlock()

	var (
		products []catalog.Product
		lines    []cart.Line
		orders   []order.Order
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		env := c.data.GetProducts(gctx, f)
		products = env.Data
		return env.Err()
	})
	g.Go(func() error {
		env := c.data.GetCart(gctx, id)
		lines = env.Data
		return env.Err()
	})
	g.Go(func() error {
		env := c.data.GetOrders(gctx, id)
		orders = env.Data
		return env.Err()
	})
	if err := g.Wait(); err != nil {
		return err
	}

	sortNewestFirst(orders)

	c.mu.Lock()
	c.state.Products = products
	c.state.Cart = lines
	c.state.Orders = orders
	c.mu.Unlock()
	return nil
}

// sortNewestFirst expects insertion order; orders sharing a timestamp keep
// the later one first.
func sortNewestFirst(orders []order.Order) {
	slices.Reverse(orders)
	slices.SortStableFunc(orders, func(a, b order.Order) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
}

func (c *Controller) SetFilter(ctx context.Context, f catalog.Filter) error {
	env := c.data.GetProducts(ctx, f)
	if err := env.Err(); err != nil {
		return err
	}
	c.mu.Lock()
	c.state.Filter = f
	c.state.Products = env.Data
	c.mu.Unlock()
	return nil
}

func (c *Controller) reloadCart(ctx context.Context) {
	id := c.memberID()
	env := c.data.GetCart(ctx, id)
	if err := env.Err(); err != nil {
		c.log.Warn("cart reload failed", slog.Int64("member_id", id), slog.Any("err", err))
		return
	}
	c.mu.Lock()
	c.state.Cart = env.Data
	c.mu.Unlock()
}

func (c *Controller) reloadProducts(ctx context.Context) {
	c.mu.RLock()
	f := c.state.Filter
	c.mu.RUnlock()
	env := c.data.GetProducts(ctx, f)
	if err := env.Err(); err != nil {
		c.log.Warn("product reload failed", slog.Any("err", err))
		return
	}
	c.mu.Lock()
	c.state.Products = env.Data
	c.mu.Unlock()
}

// reconcile throws tentative cart edits away by reloading cart and
// products from the data layer.
func (c *Controller) reconcile(ctx context.Context) {
	c.reloadCart(ctx)
	c.reloadProducts(ctx)
}

// mutateCart applies a tentative edit, runs the authoritative operation and
// reconciles with a reload whatever the outcome.
func (c *Controller) mutateCart(ctx context.Context, tentative func([]cart.Line) []cart.Line, op func() error) error {
	c.mu.Lock()
	c.state.Cart = tentative(slices.Clone(c.state.Cart))
	c.mu.Unlock()

	if err := op(); err != nil {
		c.reconcile(ctx)
		return err
	}
	c.reloadCart(ctx)
	return nil
}

func (c *Controller) productByID(id int64) (catalog.Product, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, p := range c.state.Products {
		if p.ID == id {
			return p, true
		}
	}
	return catalog.Product{}, false
}

func (c *Controller) AddToCart(ctx context.Context, productID int64, quantity int) error {
	if quantity < 1 {
		return fmt.Errorf("%w: quantity must be at least 1", apperr.ErrValidation)
	}
	id := c.memberID()
	p, known := c.productByID(productID)

	return c.mutateCart(ctx,
		func(lines []cart.Line) []cart.Line {
			for i := range lines {
				if lines[i].ProductID == productID {
					lines[i].Quantity += quantity
					return lines
				}
			}
			if !known {
				return lines
			}
			return append(lines, cart.Line{
				CartItem: cart.CartItem{MemberID: id, ProductID: productID, Quantity: quantity},
				Product:  p,
			})
		},
		func() error {
			return c.data.AddToCart(ctx, id, productID, quantity).Err()
		},
	)
}

// UpdateQuantity sets a line's quantity; anything below 1 becomes 1.
func (c *Controller) UpdateQuantity(ctx context.Context, itemID string, quantity int) error {
	quantity = max(quantity, 1)
	return c.mutateCart(ctx,
		func(lines []cart.Line) []cart.Line {
			for i := range lines {
				if lines[i].ID == itemID {
					lines[i].Quantity = quantity
				}
			}
			return lines
		},
		func() error {
			return c.data.UpdateCartItem(ctx, itemID, quantity).Err()
		},
	)
}

func (c *Controller) RemoveItem(ctx context.Context, itemID string) error {
	return c.mutateCart(ctx,
		func(lines []cart.Line) []cart.Line {
			return slices.DeleteFunc(lines, func(l cart.Line) bool { return l.ID == itemID })
		},
		func() error {
			return c.data.DeleteCartItem(ctx, itemID).Err()
		},
	)
}

// ApplyCoupon upper-cases the code before validating it. An unknown code is
// remembered as invalid rather than returned as an error.
func (c *Controller) ApplyCoupon(ctx context.Context, code string) (coupon.Validation, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return coupon.Validation{}, fmt.Errorf("%w: enter a coupon code", apperr.ErrValidation)
	}
	env := c.data.ValidateCoupon(ctx, code)
	if err := env.Err(); err != nil {
		return coupon.Validation{}, err
	}
	v := env.Data
	c.mu.Lock()
	c.state.Coupon = &v
	c.mu.Unlock()
	return v, nil
}

func (c *Controller) ClearCoupon() {
	c.mu.Lock()
	c.state.Coupon = nil
	c.mu.Unlock()
}

func (c *Controller) couponCode() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if v := c.state.Coupon; v != nil && v.Valid && v.Coupon != nil {
		return v.Coupon.Code
	}
	return ""
}

// Preview prices the cart the way placing the order would.
func (c *Controller) Preview(ctx context.Context, method order.ShippingMethod) (checkout.Quote, error) {
	env := c.data.GetQuote(ctx, checkoutapp.QuoteRequest{
		MemberID:       c.memberID(),
		CouponCode:     c.couponCode(),
		ShippingMethod: method,
	})
	return env.Data, env.Err()
}

func (f CheckoutForm) validate() error {
	if !f.PaymentMethod.Valid() {
		return fmt.Errorf("%w: choose a payment method", apperr.ErrValidation)
	}
	if f.ShippingMethod != "" && !f.ShippingMethod.Valid() {
		return fmt.Errorf("%w: unknown shipping method %q", apperr.ErrValidation, f.ShippingMethod)
	}
	if strings.TrimSpace(f.ShippingAddress) == "" {
		return fmt.Errorf("%w: shipping address is required", apperr.ErrValidation)
	}
	return nil
}

// Checkout places the order and reloads everything it changed.
func (c *Controller) Checkout(ctx context.Context, form CheckoutForm) (order.Placed, error) {
	if err := form.validate(); err != nil {
		return order.Placed{}, err
	}

	c.mu.RLock()
	empty := len(c.state.Cart) == 0
	c.mu.RUnlock()
	if empty {
		return order.Placed{}, apperr.ErrEmptyCart
	}

	id := c.memberID()
	env := c.data.CreateOrder(ctx, order.PlaceOrderRequest{
		MemberID:        id,
		PaymentMethod:   form.PaymentMethod,
		ShippingMethod:  form.ShippingMethod,
		CouponCode:      c.couponCode(),
		ShippingAddress: strings.TrimSpace(form.ShippingAddress),
	})
	if err := env.Err(); err != nil {
		c.reconcile(ctx)
		return order.Placed{}, err
	}

	c.log.Info("order placed",
		slog.Int64("member_id", id),
		slog.String("order_id", env.Data.OrderID),
		slog.Int64("total_amount", env.Data.TotalAmount),
	)

	c.ClearCoupon()
	if err := c.Refresh(ctx); err != nil {
		c.log.Warn("refresh after order failed", slog.Any("err", err))
	}
	return env.Data, nil
}
