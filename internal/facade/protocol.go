package facade

import (
	"fmt"
	"net/url"
	"strconv"

	"github.com/dwikikusuma/ec-training/internal/apperr"
	catalog "github.com/dwikikusuma/ec-training/internal/catalog/domain"
	checkoutapp "github.com/dwikikusuma/ec-training/internal/checkout/app"
	order "github.com/dwikikusuma/ec-training/internal/order/domain"
)

// Wire protocol of the single remote endpoint. Reads are GET requests with
// every parameter in the query string; writes are POST requests whose query
// names the resource and verb and whose body carries the JSON payload.
const (
	ParamPath   = "path"
	ParamMethod = "method"

	PathProducts = "products"
	PathProduct  = "product"
	PathCart     = "cart"
	PathOrders   = "orders"
	PathCoupons  = "coupons"
	PathQuote    = "quote"

	VerbGet    = "GET"
	VerbPost   = "POST"
	VerbPut    = "PUT"
	VerbDelete = "DELETE"
)

type AddToCartRequest struct {
	MemberID  int64 `json:"member_id"`
	ProductID int64 `json:"product_id"`
	Quantity  int   `json:"quantity"`
}

type UpdateCartItemRequest struct {
	ID       string `json:"id"`
	Quantity int    `json:"quantity"`
}

func EncodeFilter(q url.Values, f catalog.Filter) {
	if f.Category != "" {
		q.Set("category", f.Category)
	}
	if f.InStock {
		q.Set("in_stock", "true")
	}
	if f.MinPrice > 0 {
		q.Set("min_price", strconv.FormatInt(f.MinPrice, 10))
	}
	if f.MaxPrice > 0 {
		q.Set("max_price", strconv.FormatInt(f.MaxPrice, 10))
	}
	if f.Search != "" {
		q.Set("search", f.Search)
	}
}

func DecodeFilter(q url.Values) (catalog.Filter, error) {
	f := catalog.Filter{
		Category: q.Get("category"),
		InStock:  q.Get("in_stock") == "true",
		Search:   q.Get("search"),
	}
	var err error
	if f.MinPrice, err = optionalInt(q, "min_price"); err != nil {
		return catalog.Filter{}, err
	}
	if f.MaxPrice, err = optionalInt(q, "max_price"); err != nil {
		return catalog.Filter{}, err
	}
	return f, nil
}

func EncodeQuote(q url.Values, req checkoutapp.QuoteRequest) {
	q.Set("member_id", strconv.FormatInt(req.MemberID, 10))
	if req.CouponCode != "" {
		q.Set("coupon_code", req.CouponCode)
	}
	if req.ShippingMethod != "" {
		q.Set("shipping_method", string(req.ShippingMethod))
	}
}

func DecodeQuote(q url.Values) (checkoutapp.QuoteRequest, error) {
	id, err := RequiredInt(q, "member_id")
	if err != nil {
		return checkoutapp.QuoteRequest{}, err
	}
	return checkoutapp.QuoteRequest{
		MemberID:       id,
		CouponCode:     q.Get("coupon_code"),
		ShippingMethod: order.ShippingMethod(q.Get("shipping_method")),
	}, nil
}

func optionalInt(q url.Values, key string) (int64, error) {
	v := q.Get(key)
	if v == "" {
		return 0, nil
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %s must be a number, got %q", apperr.ErrValidation, key, v)
	}
	return n, nil
}

func RequiredInt(q url.Values, key string) (int64, error) {
	if q.Get(key) == "" {
		return 0, fmt.Errorf("%w: %s is required", apperr.ErrValidation, key)
	}
	return optionalInt(q, key)
}
