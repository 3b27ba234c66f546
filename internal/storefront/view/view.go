// Package view renders storefront state as plain text.
package view

import (
	"errors"
	"io"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/dwikikusuma/ec-training/internal/apperr"
	cart "github.com/dwikikusuma/ec-training/internal/cart/domain"
	catalog "github.com/dwikikusuma/ec-training/internal/catalog/domain"
	checkout "github.com/dwikikusuma/ec-training/internal/checkout/domain"
	"github.com/dwikikusuma/ec-training/internal/coupon"
	"github.com/dwikikusuma/ec-training/internal/member"
	order "github.com/dwikikusuma/ec-training/internal/order/domain"
)

var statusLabels = map[order.Status]string{
	order.StatusPending:    "Order received",
	order.StatusPaid:       "Paid",
	order.StatusPreparing:  "Preparing",
	order.StatusShipped:    "Shipped",
	order.StatusDelivering: "Out for delivery",
	order.StatusDelivered:  "Delivered",
	order.StatusCompleted:  "Completed",
	order.StatusCancelled:  "Cancelled",
}

func StatusLabel(s order.Status) string {
	if l, ok := statusLabels[s]; ok {
		return l
	}
	return string(s)
}

var shippingLabels = map[order.ShippingMethod]string{
	order.ShippingStandard:  "Standard (3-5 days)",
	order.ShippingExpress:   "Express (1-2 days)",
	order.ShippingScheduled: "Scheduled delivery",
}

var paymentLabels = map[order.PaymentMethod]string{
	order.PaymentCredit:      "Credit card",
	order.PaymentCOD:         "Cash on delivery",
	order.PaymentConvenience: "Convenience store",
	order.PaymentBank:        "Bank transfer",
}

type Renderer struct {
	w io.Writer
	p *message.Printer
}

// New renders to w, formatting amounts for tag. Yen has no minor unit so
// amounts print as whole numbers.
func New(w io.Writer, tag language.Tag) *Renderer {
	return &Renderer{w: w, p: message.NewPrinter(tag)}
}

func (r *Renderer) Yen(amount int64) string {
	if amount < 0 {
		return r.p.Sprintf("-¥%d", -amount)
	}
	return r.p.Sprintf("¥%d", amount)
}

func (r *Renderer) printf(format string, args ...any) {
	_, _ = r.p.Fprintf(r.w, format, args...)
}

func (r *Renderer) title(s string) {
	r.printf("%s\n%s\n", s, strings.Repeat("=", len(s)))
}

func describeFilter(f catalog.Filter) string {
	var parts []string
	if f.Category != "" {
		parts = append(parts, "category="+f.Category)
	}
	if f.InStock {
		parts = append(parts, "in stock only")
	}
	if f.Search != "" {
		parts = append(parts, "search="+f.Search)
	}
	return strings.Join(parts, ", ")
}

func (r *Renderer) Catalog(products []catalog.Product, f catalog.Filter) {
	r.title("Products")
	if d := describeFilter(f); d != "" {
		r.printf("filter: %s\n", d)
	}
	if len(products) == 0 {
		r.printf("No products match.\n")
		return
	}
	for _, p := range products {
		stock := r.p.Sprintf("%d left", p.Stock)
		if p.Status == catalog.StatusOutOfStock {
			stock = "sold out"
		}
		r.printf("%3d  %-28s %-12s %10s  %s\n", p.ID, p.Name, p.Category, r.Yen(p.Price), stock)
	}
}

func (r *Renderer) Cart(lines []cart.Line) {
	r.title("Cart")
	if len(lines) == 0 {
		r.printf("Your cart is empty.\n")
		return
	}
	for _, l := range lines {
		r.printf("%-8s %-28s %10s x %-3d %10s\n", shortID(l.ID), l.Product.Name, r.Yen(l.Product.Price), l.Quantity, r.Yen(l.Subtotal()))
	}

	subtotal := cart.Subtotal(lines)
	fee := checkout.ShippingFee(subtotal, order.ShippingStandard)
	r.printf("\n%-20s %10s\n", "Subtotal", r.Yen(subtotal))
	r.printf("%-20s %10s\n", "Shipping", r.Yen(fee))
	r.printf("%-20s %10s\n", "Total", r.Yen(subtotal+fee))
	if rest := checkout.FreeShippingThreshold - subtotal; rest > 0 {
		r.printf("Add %s more for free shipping.\n", r.Yen(rest))
	}
}

func (r *Renderer) Coupon(v coupon.Validation) {
	if !v.Valid || v.Coupon == nil {
		r.printf("Coupon rejected: %s\n", v.Message)
		return
	}
	switch v.Coupon.DiscountType {
	case coupon.Percentage:
		r.printf("Coupon %s applied: %d%% off.\n", v.Coupon.Code, v.Coupon.DiscountValue)
	default:
		r.printf("Coupon %s applied: %s off.\n", v.Coupon.Code, r.Yen(v.Coupon.DiscountValue))
	}
}

func (r *Renderer) Checkout(q checkout.Quote) {
	r.title("Checkout")
	for _, l := range q.Lines {
		r.printf("%-28s x %-3d %10s\n", l.Name, l.Quantity, r.Yen(l.LineTotal))
	}
	r.printf("\n%-20s %10s\n", "Subtotal", r.Yen(q.Totals.Subtotal))
	if q.Totals.Discount > 0 {
		r.printf("%-20s %10s\n", "Discount ("+q.CouponCode+")", r.Yen(-q.Totals.Discount))
	}
	r.printf("%-20s %10s\n", "Shipping", r.Yen(q.Totals.ShippingFee))
	r.printf("%-20s %10s\n", "Payable", r.Yen(q.Totals.Payable))
	r.printf("Delivery: %s\n", shippingLabel(q.ShippingMethod))
	if q.CouponMessage != "" {
		r.printf("Coupon: %s\n", q.CouponMessage)
	}
	if q.FreeShippingRemaining > 0 {
		r.printf("Add %s more for free shipping.\n", r.Yen(q.FreeShippingRemaining))
	}
}

func (r *Renderer) Placed(p order.Placed) {
	r.printf("Order %s placed. Amount charged: %s\n", p.OrderID, r.Yen(p.TotalAmount))
}

// History expects orders already sorted newest first.
func (r *Renderer) History(orders []order.Order) {
	r.title("Order history")
	if len(orders) == 0 {
		r.printf("No orders yet.\n")
		return
	}
	for _, o := range orders {
		r.printf("%s  %s  [%s]  %s\n", shortID(o.ID), o.CreatedAt.Format("2006-01-02 15:04"), StatusLabel(o.Status), r.Yen(o.Payable()))
		for _, it := range o.Items {
			r.printf("    %-28s x %-3d %10s\n", it.ProductName, it.Quantity, r.Yen(it.Subtotal))
		}
		if o.DiscountAmount > 0 {
			r.printf("    %-34s %10s\n", "Discount", r.Yen(-o.DiscountAmount))
		}
		r.printf("    %-34s %10s\n", "Shipping", r.Yen(o.ShippingFee))
		r.printf("    %s, %s\n", paymentLabel(o.PaymentMethod), shippingLabel(o.ShippingMethod))
	}
}

func (r *Renderer) Member(m *member.Member, memberID int64) {
	if m == nil {
		r.printf("Browsing as demo member %d. Use `login` to sign in.\n", memberID)
		return
	}
	r.printf("Signed in as %s <%s>  rank: %s  points: %d\n", m.Name, m.Email, m.Rank, m.Points)
}

func (r *Renderer) Registered(m member.Member) {
	r.printf("Welcome, %s! Your member id is %d. You can now log in.\n", m.Name, m.ID)
}

// Error renders a failure as a user-facing notice.
func (r *Renderer) Error(err error) {
	switch {
	case errors.Is(err, apperr.ErrNetwork):
		r.printf("Network problem: %v\n", err)
	case errors.Is(err, apperr.ErrEmptyCart):
		r.printf("Your cart is empty.\n")
	default:
		r.printf("Error: %v\n", err)
	}
}

func shippingLabel(m order.ShippingMethod) string {
	if l, ok := shippingLabels[m]; ok {
		return l
	}
	return string(m)
}

func paymentLabel(m order.PaymentMethod) string {
	if l, ok := paymentLabels[m]; ok {
		return l
	}
	return string(m)
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
