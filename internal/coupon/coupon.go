// Package coupon maps coupon codes to discount rules.
package coupon

import (
	"strings"

	"github.com/shopspring/decimal"
)

type DiscountType string

const (
	Percentage DiscountType = "percentage"
	Fixed      DiscountType = "fixed"
)

type Coupon struct {
	Code          string       `json:"code"`
	DiscountType  DiscountType `json:"discount_type"`
	DiscountValue int64        `json:"discount_value"`
}

// Validation is the outcome of a lookup. An unknown code is a normal result,
// not an error.
type Validation struct {
	Valid   bool    `json:"valid"`
	Coupon  *Coupon `json:"coupon,omitempty"`
	Message string  `json:"message,omitempty"`
}

const InvalidMessage = "coupon code is not valid"

func Defaults() []Coupon {
	return []Coupon{
		{Code: "WELCOME10", DiscountType: Percentage, DiscountValue: 10},
		{Code: "BOOK500", DiscountType: Fixed, DiscountValue: 500},
	}
}

type Evaluator struct {
	table map[string]Coupon
}

// NewEvaluator builds an evaluator over coupons, or over Defaults when none
// are given.
func NewEvaluator(coupons ...Coupon) *Evaluator {
	if len(coupons) == 0 {
		coupons = Defaults()
	}
	table := make(map[string]Coupon, len(coupons))
	for _, c := range coupons {
		table[c.Code] = c
	}
	return &Evaluator{table: table}
}

// Normalize strips the whitespace a form or query string may carry. Quote and
// order placement both look codes up through it.
func Normalize(code string) string {
	return strings.TrimSpace(code)
}

// Validate looks code up by exact match. Callers upper-case user input first.
func (e *Evaluator) Validate(code string) Validation {
	c, ok := e.table[code]
	if !ok {
		return Validation{Valid: false, Message: InvalidMessage}
	}
	return Validation{Valid: true, Coupon: &c}
}

// Discount returns the discount code earns on subtotal, zero for unknown codes.
func (e *Evaluator) Discount(code string, subtotal int64) int64 {
	v := e.Validate(code)
	if !v.Valid {
		return 0
	}
	return Apply(subtotal, *v.Coupon)
}

// Apply computes the discount for subtotal. Percentages are floored to whole
// units; the result never exceeds subtotal.
func Apply(subtotal int64, c Coupon) int64 {
	if subtotal <= 0 || c.DiscountValue <= 0 {
		return 0
	}

	var discount int64
	switch c.DiscountType {
	case Percentage:
		discount = decimal.NewFromInt(subtotal).
			Mul(decimal.NewFromInt(c.DiscountValue)).
			Div(decimal.NewFromInt(100)).
			Floor().
			IntPart()
	case Fixed:
		discount = c.DiscountValue
	default:
		return 0
	}

	return min(discount, subtotal)
}
