package adapter

import (
	"context"

	cartapp "github.com/dwikikusuma/ec-training/internal/cart/app"
	checkoutapp "github.com/dwikikusuma/ec-training/internal/checkout/app"
)

type CartServiceReader struct {
	svc *cartapp.Service
}

func NewCartServiceReader(svc *cartapp.Service) *CartServiceReader {
	return &CartServiceReader{svc: svc}
}

func (r *CartServiceReader) GetCart(ctx context.Context, memberID int64) ([]checkoutapp.CartItem, error) {
	lines, err := r.svc.Read(ctx, memberID)
	if err != nil {
		return nil, err
	}

	items := make([]checkoutapp.CartItem, 0, len(lines))
	for _, l := range lines {
		items = append(items, checkoutapp.CartItem{
			ProductID: l.ProductID,
			Quantity:  l.Quantity,
		})
	}
	return items, nil
}
