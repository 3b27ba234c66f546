package app_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"golang.org/x/sync/errgroup"

	"github.com/dwikikusuma/ec-training/internal/apperr"
	"github.com/dwikikusuma/ec-training/internal/cart/app"
	"github.com/dwikikusuma/ec-training/internal/store/memory"
)

func newTestService(t *testing.T) *app.Service {
	t.Helper()
	return app.NewService(memory.NewSeeded())
}

func TestCart_ConcurrentAddSingleLine(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	const N = 50
	g, gctx := errgroup.WithContext(ctx)
	for i := 0; i < N; i++ {
		g.Go(func() error {
			_, err := svc.Add(gctx, 1, 4, 1)
			return err
		})
	}

	if err := g.Wait(); err != nil {
		t.Fatalf("concurrent Add failed: %v", err)
	}

	lines, err := svc.Read(ctx, 1)
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if len(lines) != 1 {
		t.Fatalf("expected exactly 1 line, got %d", len(lines))
	}
	if lines[0].Quantity != N {
		t.Fatalf("expected quantity=%d, got=%d", N, lines[0].Quantity)
	}
}

func TestCart_ConcurrentAddNeverExceedsStock(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	// product 7 has 5 units
	const N = 20
	var ok, rejected atomic.Int32
	var g errgroup.Group
	for i := 0; i < N; i++ {
		g.Go(func() error {
			_, err := svc.Add(ctx, 1, 7, 1)
			switch {
			case err == nil:
				ok.Add(1)
			case errors.Is(err, apperr.ErrInsufficientStock):
				rejected.Add(1)
			default:
				return err
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok.Load() != 5 || rejected.Load() != N-5 {
		t.Fatalf("expected 5 accepted and %d rejected, got %d/%d", N-5, ok.Load(), rejected.Load())
	}
}
