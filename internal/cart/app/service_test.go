package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/dwikikusuma/ec-training/internal/apperr"
	"github.com/dwikikusuma/ec-training/internal/store/memory"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	n := 0
	return NewService(memory.NewSeeded(),
		WithClock(func() time.Time { return time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC) }),
		WithIDs(func() string { n++; return fmt.Sprintf("line-%d", n) }),
	)
}

func TestAdd(t *testing.T) {
	ctx := context.Background()

	t.Run("new line then merge", func(t *testing.T) {
		svc := newTestService(t)

		item, err := svc.Add(ctx, 1, 3, 2)
		if err != nil {
			t.Fatalf("Add failed: %v", err)
		}
		if item.ID != "line-1" || item.Quantity != 2 {
			t.Fatalf("unexpected item %+v", item)
		}

		item, err = svc.Add(ctx, 1, 3, 3)
		if err != nil {
			t.Fatalf("Add failed: %v", err)
		}
		if item.ID != "line-1" || item.Quantity != 5 {
			t.Fatalf("expected merged line-1 qty 5, got %+v", item)
		}

		lines, err := svc.Read(ctx, 1)
		if err != nil {
			t.Fatalf("Read failed: %v", err)
		}
		if len(lines) != 1 {
			t.Fatalf("expected 1 line, got %d", len(lines))
		}
	})

	t.Run("unknown product -> not found", func(t *testing.T) {
		svc := newTestService(t)
		_, err := svc.Add(ctx, 1, 99, 1)
		if !errors.Is(err, apperr.ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("non-positive quantity -> invalid", func(t *testing.T) {
		svc := newTestService(t)
		_, err := svc.Add(ctx, 1, 3, 0)
		if !errors.Is(err, apperr.ErrValidation) {
			t.Fatalf("expected ErrValidation, got %v", err)
		}
	})

	t.Run("over stock leaves cart unchanged", func(t *testing.T) {
		svc := newTestService(t)
		if _, err := svc.Add(ctx, 1, 7, 3); err != nil {
			t.Fatalf("Add failed: %v", err)
		}

		_, err := svc.Add(ctx, 1, 7, 3)
		if !errors.Is(err, apperr.ErrInsufficientStock) {
			t.Fatalf("expected ErrInsufficientStock, got %v", err)
		}
		if !strings.Contains(err.Error(), "5 left") {
			t.Fatalf("message should carry remaining stock: %q", err.Error())
		}

		lines, _ := svc.Read(ctx, 1)
		if len(lines) != 1 || lines[0].Quantity != 3 {
			t.Fatalf("cart changed after failed add: %+v", lines)
		}
	})

	t.Run("sold out product", func(t *testing.T) {
		svc := newTestService(t)
		_, err := svc.Add(ctx, 1, 8, 1)
		if !errors.Is(err, apperr.ErrInsufficientStock) {
			t.Fatalf("expected ErrInsufficientStock, got %v", err)
		}
	})
}

func TestUpdateQuantity(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	item, err := svc.Add(ctx, 1, 7, 1)
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	t.Run("within stock", func(t *testing.T) {
		if err := svc.UpdateQuantity(ctx, item.ID, 5); err != nil {
			t.Fatalf("UpdateQuantity failed: %v", err)
		}
	})

	t.Run("above stock", func(t *testing.T) {
		err := svc.UpdateQuantity(ctx, item.ID, 6)
		if !errors.Is(err, apperr.ErrInsufficientStock) {
			t.Fatalf("expected ErrInsufficientStock, got %v", err)
		}
	})

	t.Run("missing line", func(t *testing.T) {
		err := svc.UpdateQuantity(ctx, "nope", 1)
		if !errors.Is(err, apperr.ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})

	lines, _ := svc.Read(ctx, 1)
	if lines[0].Quantity != 5 {
		t.Fatalf("expected quantity 5, got %d", lines[0].Quantity)
	}
}

func TestRemoveIsNotIdempotent(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	item, err := svc.Add(ctx, 1, 3, 1)
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if err := svc.Remove(ctx, item.ID); err != nil {
		t.Fatalf("Remove failed: %v", err)
	}
	if err := svc.Remove(ctx, item.ID); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("expected ErrNotFound on second remove, got %v", err)
	}
}

func TestReadJoinsCurrentProduct(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	if _, err := svc.Add(ctx, 1, 3, 2); err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if _, err := svc.Add(ctx, 2, 4, 1); err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	lines, err := svc.Read(ctx, 1)
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if len(lines) != 1 {
		t.Fatalf("expected 1 line for member 1, got %d", len(lines))
	}
	if lines[0].Product.Price != 1980 || lines[0].Subtotal() != 3960 {
		t.Fatalf("unexpected line %+v", lines[0])
	}

	empty, err := svc.Read(ctx, 42)
	if err != nil || empty == nil || len(empty) != 0 {
		t.Fatalf("expected empty non-nil cart, got %v %v", empty, err)
	}
}
