package app

import (
	"context"

	"github.com/dwikikusuma/ec-training/internal/catalog/domain"
)

type ProductRepo interface {
	Get(ctx context.Context, id int64) (domain.Product, error)
	List(ctx context.Context, f domain.Filter) ([]domain.Product, error)
}
