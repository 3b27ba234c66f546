package domain

import (
	order "github.com/dwikikusuma/ec-training/internal/order/domain"
)

const (
	FreeShippingThreshold int64 = 5000
	BaseShippingFee       int64 = 500
)

// ShippingFee is zero once the pre-discount subtotal reaches the free shipping
// threshold; below it the base fee plus the method surcharge applies.
func ShippingFee(subtotal int64, method order.ShippingMethod) int64 {
	if subtotal >= FreeShippingThreshold {
		return 0
	}
	return BaseShippingFee + method.Surcharge()
}

type Totals struct {
	Subtotal    int64 `json:"subtotal"`
	Discount    int64 `json:"discount"`
	ShippingFee int64 `json:"shipping_fee"`
	Payable     int64 `json:"payable"`
}

func ComputeTotals(subtotal, discount int64, method order.ShippingMethod) Totals {
	shipping := ShippingFee(subtotal, method)
	return Totals{
		Subtotal:    subtotal,
		Discount:    discount,
		ShippingFee: shipping,
		Payable:     subtotal - discount + shipping,
	}
}

func (t Totals) FreeShippingRemaining() int64 {
	return max(FreeShippingThreshold-t.Subtotal, 0)
}

type QuoteLine struct {
	ProductID int64  `json:"product_id"`
	Name      string `json:"name"`
	Quantity  int    `json:"quantity"`
	UnitPrice int64  `json:"unit_price"`
	LineTotal int64  `json:"line_total"`
}

type Quote struct {
	Lines                 []QuoteLine          `json:"lines"`
	Totals                Totals               `json:"totals"`
	ShippingMethod        order.ShippingMethod `json:"shipping_method"`
	CouponCode            string               `json:"coupon_code,omitempty"`
	CouponMessage         string               `json:"coupon_message,omitempty"`
	FreeShippingRemaining int64                `json:"free_shipping_remaining"`
}
