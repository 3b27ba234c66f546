package httpapi

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/dwikikusuma/ec-training/internal/apperr"
	"github.com/dwikikusuma/ec-training/internal/facade"
	order "github.com/dwikikusuma/ec-training/internal/order/domain"
)

type execHandler struct {
	data facade.DataAccess
	log  *slog.Logger
}

func unknownRoute(path, verb string) error {
	return fmt.Errorf("%w: no operation for path=%q method=%q", apperr.ErrNotFound, path, verb)
}

func (h *execHandler) get(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	path := q.Get(facade.ParamPath)
	if verb := strings.ToUpper(q.Get(facade.ParamMethod)); verb != "" && verb != facade.VerbGet {
		writeFailure(w, unknownRoute(path, verb))
		return
	}
	h.read(w, r, path)
}

func (h *execHandler) read(w http.ResponseWriter, r *http.Request, path string) {
	ctx := r.Context()
	q := r.URL.Query()

	switch path {
	case facade.PathProducts:
		f, err := facade.DecodeFilter(q)
		if err != nil {
			writeFailure(w, err)
			return
		}
		writeEnvelope(w, h.data.GetProducts(ctx, f))

	case facade.PathProduct:
		id, err := facade.RequiredInt(q, "id")
		if err != nil {
			writeFailure(w, err)
			return
		}
		writeEnvelope(w, h.data.GetProduct(ctx, id))

	case facade.PathCart:
		memberID, err := facade.RequiredInt(q, "member_id")
		if err != nil {
			writeFailure(w, err)
			return
		}
		writeEnvelope(w, h.data.GetCart(ctx, memberID))

	case facade.PathOrders:
		memberID, err := facade.RequiredInt(q, "member_id")
		if err != nil {
			writeFailure(w, err)
			return
		}
		writeEnvelope(w, h.data.GetOrders(ctx, memberID))

	case facade.PathCoupons:
		writeEnvelope(w, h.data.ValidateCoupon(ctx, q.Get("code")))

	case facade.PathQuote:
		req, err := facade.DecodeQuote(q)
		if err != nil {
			writeFailure(w, err)
			return
		}
		writeEnvelope(w, h.data.GetQuote(ctx, req))

	default:
		writeFailure(w, unknownRoute(path, facade.VerbGet))
	}
}

func (h *execHandler) post(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	q := r.URL.Query()
	path := q.Get(facade.ParamPath)
	verb := strings.ToUpper(q.Get(facade.ParamMethod))
	if verb == "" {
		verb = facade.VerbPost
	}

	switch {
	case verb == facade.VerbGet:
		h.read(w, r, path)

	case path == facade.PathCart && verb == facade.VerbPost:
		var req facade.AddToCartRequest
		if err := decodeJSON(w, r, &req); err != nil {
			writeFailure(w, err)
			return
		}
		writeEnvelope(w, h.data.AddToCart(ctx, req.MemberID, req.ProductID, req.Quantity))

	case path == facade.PathCart && verb == facade.VerbPut:
		var req facade.UpdateCartItemRequest
		if err := decodeJSON(w, r, &req); err != nil {
			writeFailure(w, err)
			return
		}
		writeEnvelope(w, h.data.UpdateCartItem(ctx, req.ID, req.Quantity))

	case path == facade.PathCart && verb == facade.VerbDelete:
		id := q.Get("id")
		if id == "" {
			writeFailure(w, fmt.Errorf("%w: id is required", apperr.ErrValidation))
			return
		}
		writeEnvelope(w, h.data.DeleteCartItem(ctx, id))

	case path == facade.PathOrders && verb == facade.VerbPost:
		var req order.PlaceOrderRequest
		if err := decodeJSON(w, r, &req); err != nil {
			writeFailure(w, err)
			return
		}
		env := h.data.CreateOrder(ctx, req)
		if env.Success {
			h.log.Info("order placed",
				slog.Int64("member_id", req.MemberID),
				slog.String("order_id", env.Data.OrderID),
				slog.Int64("total_amount", env.Data.TotalAmount),
			)
		}
		writeEnvelope(w, env)

	default:
		writeFailure(w, unknownRoute(path, verb))
	}
}
