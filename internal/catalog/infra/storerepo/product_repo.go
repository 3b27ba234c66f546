package storerepo

import (
	"context"

	"github.com/dwikikusuma/ec-training/internal/catalog/domain"
	"github.com/dwikikusuma/ec-training/internal/store"
)

// ProductRepo reads products through read-only units of work.
type ProductRepo struct {
	uow store.UnitOfWork
}

func NewProductRepo(uow store.UnitOfWork) *ProductRepo {
	return &ProductRepo{uow: uow}
}

func (r *ProductRepo) Get(ctx context.Context, id int64) (domain.Product, error) {
	var p domain.Product
	err := r.uow.View(ctx, func(tx store.Tx) error {
		var err error
		p, err = tx.Products().Get(ctx, id)
		return err
	})
	return p, err
}

func (r *ProductRepo) List(ctx context.Context, f domain.Filter) ([]domain.Product, error) {
	var out []domain.Product
	err := r.uow.View(ctx, func(tx store.Tx) error {
		var err error
		out, err = tx.Products().List(ctx, f)
		return err
	})
	return out, err
}
