package postgres

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/dwikikusuma/ec-training/internal/apperr"
	cartapp "github.com/dwikikusuma/ec-training/internal/cart/app"
	cart "github.com/dwikikusuma/ec-training/internal/cart/domain"
	catalog "github.com/dwikikusuma/ec-training/internal/catalog/domain"
	orderapp "github.com/dwikikusuma/ec-training/internal/order/app"
	order "github.com/dwikikusuma/ec-training/internal/order/domain"
	"github.com/dwikikusuma/ec-training/internal/store"
	pgpool "github.com/dwikikusuma/ec-training/pkg/postgres"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	if testing.Short() {
		t.Skip("postgres container tests skipped in -short mode")
	}

	ctx := context.Background()
	c, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "postgres:16-alpine",
			ExposedPorts: []string{"5432/tcp"},
			Env: map[string]string{
				"POSTGRES_USER":     "shop",
				"POSTGRES_PASSWORD": "shop",
				"POSTGRES_DB":       "shop",
			},
			WaitingFor: wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	if err != nil {
		t.Skipf("no container runtime: %v", err)
	}
	t.Cleanup(func() { _ = c.Terminate(context.Background()) })

	host, err := c.Host(ctx)
	require.NoError(t, err)
	port, err := c.MappedPort(ctx, "5432/tcp")
	require.NoError(t, err)

	pool, err := pgpool.Open(ctx, pgpool.Config{
		URL: fmt.Sprintf("postgres://shop:shop@%s:%s/shop?sslmode=disable", host, port.Port()),
	})
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	s := New(pool)
	require.NoError(t, s.Migrate(ctx))
	require.NoError(t, s.Seed(ctx, catalog.Seed()))
	return s
}

func TestStoreRoundTrip(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Microsecond)

	t.Run("filtered list", func(t *testing.T) {
		err := s.View(ctx, func(tx store.Tx) error {
			ps, err := tx.Products().List(ctx, catalog.Filter{Category: catalog.CategoryBooks, InStock: true})
			require.NoError(t, err)
			for _, p := range ps {
				assert.Equal(t, catalog.CategoryBooks, p.Category)
				assert.Positive(t, p.Stock)
			}
			ps, err = tx.Products().List(ctx, catalog.Filter{Search: "WIRELESS"})
			require.NoError(t, err)
			assert.Len(t, ps, 2)
			return nil
		})
		require.NoError(t, err)
	})

	t.Run("rollback keeps stock", func(t *testing.T) {
		err := s.Do(ctx, func(tx store.Tx) error {
			p, err := tx.Products().Get(ctx, 3)
			if err != nil {
				return err
			}
			p.Take(2, now)
			if err := tx.Products().Save(ctx, p); err != nil {
				return err
			}
			return apperr.ErrEmptyCart
		})
		require.ErrorIs(t, err, apperr.ErrEmptyCart)

		err = s.View(ctx, func(tx store.Tx) error {
			p, err := tx.Products().Get(ctx, 3)
			require.NoError(t, err)
			assert.Equal(t, 100, p.Stock)
			return nil
		})
		require.NoError(t, err)
	})

	t.Run("cart and orders", func(t *testing.T) {
		err := s.Do(ctx, func(tx store.Tx) error {
			require.NoError(t, tx.Cart().Insert(ctx, cart.CartItem{ID: "line-1", MemberID: 9, ProductID: 3, Quantity: 2, AddedAt: now}))
			require.NoError(t, tx.Cart().Update(ctx, cart.CartItem{ID: "line-1", Quantity: 5}))
			assert.ErrorIs(t, tx.Cart().Update(ctx, cart.CartItem{ID: "line-2", Quantity: 1}), apperr.ErrNotFound)

			it, ok, err := tx.Cart().FindByMemberProduct(ctx, 9, 3)
			require.NoError(t, err)
			require.True(t, ok)
			assert.Equal(t, 5, it.Quantity)

			return tx.Orders().Append(ctx, order.Order{
				ID: "order-1", MemberID: 9, Status: order.StatusPending,
				TotalAmount: 9900, ShippingFee: 0,
				PaymentMethod: order.PaymentCredit, ShippingMethod: order.ShippingStandard,
				ShippingAddress: "Tokyo", CreatedAt: now, UpdatedAt: now,
				Items: []order.Item{{ID: "item-1", OrderID: "order-1", ProductID: 3, ProductName: "Wireless Mouse", Quantity: 5, UnitPrice: 1980, Subtotal: 9900}},
			})
		})
		require.NoError(t, err)

		err = s.Do(ctx, func(tx store.Tx) error {
			require.NoError(t, tx.Cart().DeleteItems(ctx, []string{"line-1"}))
			assert.ErrorIs(t, tx.Cart().Delete(ctx, "line-1"), apperr.ErrNotFound)
			return tx.Orders().UpdateStatus(ctx, "order-1", order.StatusPaid, now)
		})
		require.NoError(t, err)

		err = s.View(ctx, func(tx store.Tx) error {
			os, err := tx.Orders().ListByMember(ctx, 9)
			require.NoError(t, err)
			require.Len(t, os, 1)
			assert.Equal(t, order.StatusPaid, os[0].Status)
			require.Len(t, os[0].Items, 1)
			assert.Equal(t, int64(1980), os[0].Items[0].UnitPrice)

			_, err = tx.Orders().Get(ctx, "missing")
			assert.ErrorIs(t, err, apperr.ErrNotFound)
			return nil
		})
		require.NoError(t, err)
	})
}

// waitForLockWaiters blocks until n sessions are queued on a row lock.
func waitForLockWaiters(t *testing.T, s *Store, n int) {
	t.Helper()
	require.Eventually(t, func() bool {
		var waiting int
		err := s.pool.QueryRow(context.Background(),
			`SELECT count(*) FROM pg_stat_activity WHERE wait_event_type = 'Lock'`).Scan(&waiting)
		return err == nil && waiting >= n
	}, 10*time.Second, 20*time.Millisecond)
}

func TestCheckoutRacingCartEdits(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	carts := cartapp.NewService(s)
	orders := orderapp.NewService(s, nil)

	const member = 21
	mouse, err := carts.Add(ctx, member, 3, 1)
	require.NoError(t, err)

	// hold the mouse row so checkout stops after its first cart read
	holder, err := s.pool.Begin(ctx)
	require.NoError(t, err)
	defer func() { _ = holder.Rollback(ctx) }()
	_, err = holder.Exec(ctx, `SELECT id FROM products WHERE id = 3 FOR UPDATE`)
	require.NoError(t, err)

	placedCh := make(chan error, 1)
	go func() {
		_, err := orders.PlaceOrder(ctx, order.PlaceOrderRequest{
			MemberID:        member,
			PaymentMethod:   order.PaymentCredit,
			ShippingAddress: "1-2-3 Chiyoda, Tokyo",
		})
		placedCh <- err
	}()
	waitForLockWaiters(t, s, 1)

	// a line for another product lands while checkout waits
	notebook, err := carts.Add(ctx, member, 5, 2)
	require.NoError(t, err)

	updateCh := make(chan error, 1)
	go func() { updateCh <- carts.UpdateQuantity(ctx, mouse.ID, 4) }()
	waitForLockWaiters(t, s, 2)

	require.NoError(t, holder.Commit(ctx))
	require.NoError(t, <-placedCh)
	assert.ErrorIs(t, <-updateCh, apperr.ErrNotFound)

	lines, err := carts.Read(ctx, member)
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, notebook.ID, lines[0].ID)
	assert.Equal(t, 2, lines[0].Quantity)

	placed, err := orders.ListOrders(ctx, member)
	require.NoError(t, err)
	require.Len(t, placed, 1)
	require.Len(t, placed[0].Items, 1)
	assert.Equal(t, int64(3), placed[0].Items[0].ProductID)
	assert.Equal(t, 1, placed[0].Items[0].Quantity)
}
