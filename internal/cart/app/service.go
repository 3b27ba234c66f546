package app

import (
	"context"
	"fmt"
	"time"

	"github.com/dwikikusuma/ec-training/internal/apperr"
	catalog "github.com/dwikikusuma/ec-training/internal/catalog/domain"
	"github.com/dwikikusuma/ec-training/internal/cart/domain"
	"github.com/dwikikusuma/ec-training/internal/store"
)

type Service struct {
	uow   store.UnitOfWork
	now   func() time.Time
	newID func() string
}

func NewService(uow store.UnitOfWork, opts ...Option) *Service {
	s := &Service{uow: uow}
	defaultOptions(s)
	for _, o := range opts {
		o(s)
	}
	return s
}

func insufficient(p catalog.Product) error {
	return fmt.Errorf("%w: %s has %d left in stock", apperr.ErrInsufficientStock, p.Name, p.Stock)
}

// Add puts quantity units of a product in the member's cart, merging with an
// existing line for the same product.
func (s *Service) Add(ctx context.Context, memberID, productID int64, quantity int) (domain.CartItem, error) {
	if quantity <= 0 {
		return domain.CartItem{}, fmt.Errorf("%w: quantity must be positive, got %d", apperr.ErrValidation, quantity)
	}

	var item domain.CartItem
	err := s.uow.Do(ctx, func(tx store.Tx) error {
		p, err := tx.Products().Get(ctx, productID)
		if err != nil {
			return err
		}

		existing, found, err := tx.Cart().FindByMemberProduct(ctx, memberID, productID)
		if err != nil {
			return err
		}

		total := quantity
		if found {
			total += existing.Quantity
		}
		if total > p.Stock {
			return insufficient(p)
		}

		if found {
			item = existing
			item.Quantity = total
			return tx.Cart().Update(ctx, item)
		}
		item = domain.CartItem{
			ID:        s.newID(),
			MemberID:  memberID,
			ProductID: productID,
			Quantity:  total,
			AddedAt:   s.now(),
		}
		return tx.Cart().Insert(ctx, item)
	})
	if err != nil {
		return domain.CartItem{}, err
	}
	return item, nil
}

// UpdateQuantity sets the quantity of a line. It does not enforce a lower
// bound; callers pass at least 1.
func (s *Service) UpdateQuantity(ctx context.Context, itemID string, quantity int) error {
	return s.uow.Do(ctx, func(tx store.Tx) error {
		item, err := tx.Cart().Get(ctx, itemID)
		if err != nil {
			return err
		}

		p, err := tx.Products().Get(ctx, item.ProductID)
		if err != nil {
			return err
		}
		if quantity > p.Stock {
			return insufficient(p)
		}

		// the line may have been checked out while we waited for the product
		item.Quantity = quantity
		return tx.Cart().Update(ctx, item)
	})
}

// Remove deletes a line. Removing the same line twice fails with ErrNotFound.
func (s *Service) Remove(ctx context.Context, itemID string) error {
	return s.uow.Do(ctx, func(tx store.Tx) error {
		item, err := tx.Cart().Get(ctx, itemID)
		if err != nil {
			return err
		}
		if _, err := tx.Products().Get(ctx, item.ProductID); err != nil {
			return err
		}
		return tx.Cart().Delete(ctx, itemID)
	})
}

// Read returns the member's lines joined with the products as they are now.
func (s *Service) Read(ctx context.Context, memberID int64) ([]domain.Line, error) {
	lines := []domain.Line{}
	err := s.uow.View(ctx, func(tx store.Tx) error {
		items, err := tx.Cart().ListByMember(ctx, memberID)
		if err != nil {
			return err
		}
		for _, it := range items {
			p, err := tx.Products().Get(ctx, it.ProductID)
			if err != nil {
				return err
			}
			lines = append(lines, domain.Line{CartItem: it, Product: p})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return lines, nil
}
