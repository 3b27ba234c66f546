package app

import (
	"context"
	"errors"
	"testing"

	"github.com/dwikikusuma/ec-training/internal/apperr"
	"github.com/dwikikusuma/ec-training/internal/catalog/domain"
)

type fakeRepo struct {
	products []domain.Product
	listed   int
}

func (f *fakeRepo) Get(ctx context.Context, id int64) (domain.Product, error) {
	for _, p := range f.products {
		if p.ID == id {
			return p, nil
		}
	}
	return domain.Product{}, apperr.ErrNotFound
}

func (f *fakeRepo) List(ctx context.Context, filter domain.Filter) ([]domain.Product, error) {
	f.listed++
	var out []domain.Product
	for _, p := range f.products {
		if filter.Match(p) {
			out = append(out, p)
		}
	}
	return out, nil
}

func TestListProductsValidation(t *testing.T) {
	repo := &fakeRepo{products: domain.Seed()}
	svc := NewService(repo)

	t.Run("min above max -> invalid", func(t *testing.T) {
		_, err := svc.ListProducts(context.Background(), domain.Filter{MinPrice: 3000, MaxPrice: 1000})
		if !errors.Is(err, apperr.ErrValidation) {
			t.Fatalf("expected ErrValidation, got %v", err)
		}
	})

	t.Run("negative bound -> invalid", func(t *testing.T) {
		_, err := svc.ListProducts(context.Background(), domain.Filter{MinPrice: -1})
		if !errors.Is(err, apperr.ErrValidation) {
			t.Fatalf("expected ErrValidation, got %v", err)
		}
	})

	if repo.listed != 0 {
		t.Fatalf("repo should not be queried for invalid filters, got %d calls", repo.listed)
	}

	t.Run("no match -> empty, not nil", func(t *testing.T) {
		got, err := svc.ListProducts(context.Background(), domain.Filter{Category: "garden"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got == nil || len(got) != 0 {
			t.Fatalf("expected empty slice, got %#v", got)
		}
	})

	t.Run("category is trimmed", func(t *testing.T) {
		got, err := svc.ListProducts(context.Background(), domain.Filter{Category: "  books "})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(got) != 4 {
			t.Fatalf("expected 4 books, got %d", len(got))
		}
	})
}

func TestGetProduct(t *testing.T) {
	svc := NewService(&fakeRepo{products: domain.Seed()})

	t.Run("zero id -> invalid", func(t *testing.T) {
		_, err := svc.GetProduct(context.Background(), 0)
		if !errors.Is(err, apperr.ErrValidation) {
			t.Fatalf("expected ErrValidation, got %v", err)
		}
	})

	t.Run("unknown id -> not found", func(t *testing.T) {
		_, err := svc.GetProduct(context.Background(), 99)
		if !errors.Is(err, apperr.ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("known id", func(t *testing.T) {
		p, err := svc.GetProduct(context.Background(), 3)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if p.Price != 1980 || p.Stock != 100 {
			t.Fatalf("unexpected product %+v", p)
		}
	})
}
