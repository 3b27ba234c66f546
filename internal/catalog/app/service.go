package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/dwikikusuma/ec-training/internal/apperr"
	"github.com/dwikikusuma/ec-training/internal/catalog/domain"
)

type Service struct {
	repo ProductRepo
}

func NewService(repo ProductRepo) *Service {
	return &Service{
		repo: repo,
	}
}

func (s *Service) GetProduct(ctx context.Context, id int64) (domain.Product, error) {
	if id <= 0 {
		return domain.Product{}, fmt.Errorf("%w: product id must be positive, got %d", apperr.ErrValidation, id)
	}
	return s.repo.Get(ctx, id)
}

func (s *Service) ListProducts(ctx context.Context, f domain.Filter) ([]domain.Product, error) {
	f.Category = strings.TrimSpace(f.Category)
	f.Search = strings.TrimSpace(f.Search)

	if f.MinPrice < 0 || f.MaxPrice < 0 {
		return nil, fmt.Errorf("%w: price bounds cannot be negative", apperr.ErrValidation)
	}
	if f.MaxPrice > 0 && f.MinPrice > f.MaxPrice {
		return nil, fmt.Errorf("%w: min_price %d is above max_price %d", apperr.ErrValidation, f.MinPrice, f.MaxPrice)
	}

	products, err := s.repo.List(ctx, f)
	if err != nil {
		return nil, err
	}
	if products == nil {
		products = []domain.Product{}
	}
	return products, nil
}
