package facade

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/dwikikusuma/ec-training/internal/apperr"
	cart "github.com/dwikikusuma/ec-training/internal/cart/domain"
	catalog "github.com/dwikikusuma/ec-training/internal/catalog/domain"
	checkoutapp "github.com/dwikikusuma/ec-training/internal/checkout/app"
	checkout "github.com/dwikikusuma/ec-training/internal/checkout/domain"
	"github.com/dwikikusuma/ec-training/internal/coupon"
	order "github.com/dwikikusuma/ec-training/internal/order/domain"
)

// Remote forwards every operation to a single HTTP endpoint and decodes the
// envelope it answers with. Transport failures become NETWORK_ERROR
// envelopes carrying the transport error text. Nothing is retried.
type Remote struct {
	endpoint string
	client   *http.Client
}

func NewRemote(endpoint string, client *http.Client) *Remote {
	// no client timeout: calls end when their context does
	if client == nil {
		client = &http.Client{}
	}
	return &Remote{endpoint: endpoint, client: client}
}

func networkFail[T any](err error) Envelope[T] {
	return Fail[T](apperr.FromKind(apperr.KindNetwork, err.Error()))
}

func do[T any](r *Remote, req *http.Request) Envelope[T] {
	resp, err := r.client.Do(req)
	if err != nil {
		return networkFail[T](err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return networkFail[T](err)
	}

	var env Envelope[T]
	if err := json.Unmarshal(raw, &env); err != nil {
		if resp.StatusCode >= 300 {
			return networkFail[T](fmt.Errorf("unexpected status %s", resp.Status))
		}
		return networkFail[T](fmt.Errorf("malformed response: %w", err))
	}
	if !env.Success && env.Error == "" {
		env.Error = resp.Status
	}
	return env
}

func get[T any](ctx context.Context, r *Remote, path string, q url.Values) Envelope[T] {
	if q == nil {
		q = url.Values{}
	}
	q.Set(ParamPath, path)
	q.Set(ParamMethod, VerbGet)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.endpoint+"?"+q.Encode(), nil)
	if err != nil {
		return networkFail[T](err)
	}
	return do[T](r, req)
}

func post[T any](ctx context.Context, r *Remote, path, verb string, q url.Values, body any) Envelope[T] {
	if q == nil {
		q = url.Values{}
	}
	q.Set(ParamPath, path)
	q.Set(ParamMethod, verb)

	var rd io.Reader = http.NoBody
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return Fail[T](fmt.Errorf("%w: %v", apperr.ErrValidation, err))
		}
		rd = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.endpoint+"?"+q.Encode(), rd)
	if err != nil {
		return networkFail[T](err)
	}
	req.Header.Set("Content-Type", "application/json")
	return do[T](r, req)
}

func memberQuery(memberID int64) url.Values {
	return url.Values{"member_id": {strconv.FormatInt(memberID, 10)}}
}

func (r *Remote) GetProducts(ctx context.Context, f catalog.Filter) Envelope[[]catalog.Product] {
	q := url.Values{}
	EncodeFilter(q, f)
	return get[[]catalog.Product](ctx, r, PathProducts, q)
}

func (r *Remote) GetProduct(ctx context.Context, id int64) Envelope[catalog.Product] {
	return get[catalog.Product](ctx, r, PathProduct, url.Values{"id": {strconv.FormatInt(id, 10)}})
}

func (r *Remote) GetCart(ctx context.Context, memberID int64) Envelope[[]cart.Line] {
	return get[[]cart.Line](ctx, r, PathCart, memberQuery(memberID))
}

func (r *Remote) AddToCart(ctx context.Context, memberID, productID int64, quantity int) Envelope[AddToCartResult] {
	return post[AddToCartResult](ctx, r, PathCart, VerbPost, nil, AddToCartRequest{
		MemberID:  memberID,
		ProductID: productID,
		Quantity:  quantity,
	})
}

func (r *Remote) UpdateCartItem(ctx context.Context, itemID string, quantity int) Envelope[Empty] {
	return post[Empty](ctx, r, PathCart, VerbPut, nil, UpdateCartItemRequest{ID: itemID, Quantity: quantity})
}

func (r *Remote) DeleteCartItem(ctx context.Context, itemID string) Envelope[Empty] {
	return post[Empty](ctx, r, PathCart, VerbDelete, url.Values{"id": {itemID}}, nil)
}

func (r *Remote) CreateOrder(ctx context.Context, req order.PlaceOrderRequest) Envelope[order.Placed] {
	return post[order.Placed](ctx, r, PathOrders, VerbPost, nil, req)
}

func (r *Remote) GetOrders(ctx context.Context, memberID int64) Envelope[[]order.Order] {
	return get[[]order.Order](ctx, r, PathOrders, memberQuery(memberID))
}

func (r *Remote) ValidateCoupon(ctx context.Context, code string) Envelope[coupon.Validation] {
	return get[coupon.Validation](ctx, r, PathCoupons, url.Values{"code": {code}})
}

func (r *Remote) GetQuote(ctx context.Context, req checkoutapp.QuoteRequest) Envelope[checkout.Quote] {
	q := url.Values{}
	EncodeQuote(q, req)
	return get[checkout.Quote](ctx, r, PathQuote, q)
}

var _ DataAccess = (*Remote)(nil)
