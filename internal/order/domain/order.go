package domain

import "time"

type PaymentMethod string

const (
	PaymentCredit      PaymentMethod = "credit"
	PaymentCOD         PaymentMethod = "cod"
	PaymentConvenience PaymentMethod = "convenience"
	PaymentBank        PaymentMethod = "bank"
)

func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentCredit, PaymentCOD, PaymentConvenience, PaymentBank:
		return true
	}
	return false
}

type ShippingMethod string

const (
	ShippingStandard  ShippingMethod = "standard"
	ShippingExpress   ShippingMethod = "express"
	ShippingScheduled ShippingMethod = "scheduled"
)

func (m ShippingMethod) Valid() bool {
	switch m {
	case ShippingStandard, ShippingExpress, ShippingScheduled:
		return true
	}
	return false
}

// Surcharge is added on top of the base shipping fee when shipping is not free.
func (m ShippingMethod) Surcharge() int64 {
	switch m {
	case ShippingExpress:
		return 500
	case ShippingScheduled:
		return 300
	default:
		return 0
	}
}

type Order struct {
	ID              string         `json:"id"`
	MemberID        int64          `json:"member_id"`
	Status          Status         `json:"status"`
	TotalAmount     int64          `json:"total_amount"`
	DiscountAmount  int64          `json:"discount_amount"`
	ShippingFee     int64          `json:"shipping_fee"`
	PaymentMethod   PaymentMethod  `json:"payment_method"`
	ShippingMethod  ShippingMethod `json:"shipping_method"`
	ShippingAddress string         `json:"shipping_address"`
	CouponCode      string         `json:"coupon_code,omitempty"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
	Items           []Item         `json:"items"`
}

// Payable is what the member pays: total minus discount plus shipping.
func (o Order) Payable() int64 {
	return o.TotalAmount - o.DiscountAmount + o.ShippingFee
}

// Item is frozen at order time; later catalog price changes never touch it.
type Item struct {
	ID          string `json:"id"`
	OrderID     string `json:"order_id"`
	ProductID   int64  `json:"product_id"`
	ProductName string `json:"product_name"`
	Quantity    int    `json:"quantity"`
	UnitPrice   int64  `json:"unit_price"`
	Subtotal    int64  `json:"subtotal"`
}

type PlaceOrderRequest struct {
	MemberID        int64          `json:"member_id"`
	PaymentMethod   PaymentMethod  `json:"payment_method"`
	ShippingMethod  ShippingMethod `json:"shipping_method"`
	CouponCode      string         `json:"coupon_code,omitempty"`
	ShippingAddress string         `json:"shipping_address"`
}

type Placed struct {
	OrderID     string `json:"order_id"`
	TotalAmount int64  `json:"total_amount"`
}
