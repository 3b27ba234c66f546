// Package postgres implements the store ports on PostgreSQL through pgx.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dwikikusuma/ec-training/internal/apperr"
	cart "github.com/dwikikusuma/ec-training/internal/cart/domain"
	catalog "github.com/dwikikusuma/ec-training/internal/catalog/domain"
	order "github.com/dwikikusuma/ec-training/internal/order/domain"
	"github.com/dwikikusuma/ec-training/internal/store"
)

type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type Store struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

func (s *Store) execTX(ctx context.Context, opts pgx.TxOptions, fn func(*txn) error) error {
	tx, err := s.pool.BeginTx(ctx, opts)
	if err != nil {
		return err
	}

	err = fn(&txn{q: tx, lock: opts.AccessMode != pgx.ReadOnly})
	if err != nil {
		if rbErr := tx.Rollback(ctx); rbErr != nil {
			return fmt.Errorf("tx err: %w; rollback err: %v", err, rbErr)
		}
		return err
	}

	return tx.Commit(ctx)
}

func (s *Store) Do(ctx context.Context, fn func(store.Tx) error) error {
	return s.execTX(ctx, pgx.TxOptions{}, func(t *txn) error { return fn(t) })
}

func (s *Store) View(ctx context.Context, fn func(store.Tx) error) error {
	return s.execTX(ctx, pgx.TxOptions{AccessMode: pgx.ReadOnly}, func(t *txn) error { return fn(t) })
}

func (s *Store) Migrate(ctx context.Context) error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS products (
			id BIGINT PRIMARY KEY,
			name TEXT NOT NULL,
			price BIGINT NOT NULL CHECK (price >= 0),
			stock INTEGER NOT NULL CHECK (stock >= 0),
			category TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			status TEXT NOT NULL,
			updated_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW()
		)`,
		`CREATE INDEX IF NOT EXISTS idx_products_category ON products(category)`,

		`CREATE TABLE IF NOT EXISTS cart_items (
			seq BIGSERIAL,
			id TEXT PRIMARY KEY,
			member_id BIGINT NOT NULL,
			product_id BIGINT NOT NULL REFERENCES products(id),
			quantity INTEGER NOT NULL,
			added_at TIMESTAMP WITH TIME ZONE NOT NULL,
			UNIQUE (member_id, product_id)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_cart_items_member_id ON cart_items(member_id)`,

		`CREATE TABLE IF NOT EXISTS orders (
			seq BIGSERIAL,
			id TEXT PRIMARY KEY,
			member_id BIGINT NOT NULL,
			status TEXT NOT NULL,
			total_amount BIGINT NOT NULL,
			discount_amount BIGINT NOT NULL,
			shipping_fee BIGINT NOT NULL,
			payment_method TEXT NOT NULL,
			shipping_method TEXT NOT NULL,
			shipping_address TEXT NOT NULL,
			coupon_code TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMP WITH TIME ZONE NOT NULL,
			updated_at TIMESTAMP WITH TIME ZONE NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_orders_member_id ON orders(member_id)`,

		`CREATE TABLE IF NOT EXISTS order_items (
			id TEXT PRIMARY KEY,
			order_id TEXT NOT NULL REFERENCES orders(id) ON DELETE CASCADE,
			position INTEGER NOT NULL,
			product_id BIGINT NOT NULL,
			product_name TEXT NOT NULL,
			quantity INTEGER NOT NULL,
			unit_price BIGINT NOT NULL,
			subtotal BIGINT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_order_items_order_id ON order_items(order_id)`,
	}

	for _, m := range migrations {
		if _, err := s.pool.Exec(ctx, m); err != nil {
			return fmt.Errorf("failed to run migration: %w", err)
		}
	}
	return nil
}

// Seed inserts products that are not there yet. Existing rows keep their
// current stock.
func (s *Store) Seed(ctx context.Context, products []catalog.Product) error {
	now := time.Now().UTC()
	for _, p := range products {
		p.SyncStatus()
		_, err := s.pool.Exec(ctx, `
			INSERT INTO products (id, name, price, stock, category, description, status, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			ON CONFLICT (id) DO NOTHING`,
			p.ID, p.Name, p.Price, p.Stock, p.Category, p.Description, string(p.Status), now)
		if err != nil {
			return fmt.Errorf("failed to seed product %d: %w", p.ID, err)
		}
	}
	return nil
}

type txn struct {
	q    querier
	lock bool
}

func (t *txn) Products() store.ProductStore { return productRepo{t} }
func (t *txn) Cart() store.CartStore         { return cartRepo{t} }
func (t *txn) Orders() store.OrderStore      { return orderRepo{t} }

func notFound(err error, what string, id any) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%w: %s %v", apperr.ErrNotFound, what, id)
	}
	return err
}

type productRepo struct{ *txn }

const productColumns = `id, name, price, stock, category, description, status, updated_at`

func scanProduct(row pgx.Row) (catalog.Product, error) {
	var (
		p      catalog.Product
		status string
	)
	err := row.Scan(&p.ID, &p.Name, &p.Price, &p.Stock, &p.Category, &p.Description, &status, &p.UpdatedAt)
	p.Status = catalog.Status(status)
	return p, err
}

func (r productRepo) Get(ctx context.Context, id int64) (catalog.Product, error) {
	q := `SELECT ` + productColumns + ` FROM products WHERE id = $1`
	if r.lock {
		q += ` FOR UPDATE`
	}
	p, err := scanProduct(r.q.QueryRow(ctx, q, id))
	if err != nil {
		return catalog.Product{}, notFound(err, "product", id)
	}
	return p, nil
}

func (r productRepo) List(ctx context.Context, f catalog.Filter) ([]catalog.Product, error) {
	var (
		where []string
		args  []any
	)
	add := func(cond string, v any) {
		args = append(args, v)
		where = append(where, fmt.Sprintf(cond, len(args)))
	}
	if f.Category != "" {
		add("category = $%d", f.Category)
	}
	if f.InStock {
		where = append(where, "stock > 0")
	}
	if f.MinPrice > 0 {
		add("price >= $%d", f.MinPrice)
	}
	if f.MaxPrice > 0 {
		add("price <= $%d", f.MaxPrice)
	}
	if s := strings.TrimSpace(f.Search); s != "" {
		add("strpos(lower(name), lower($%d)) > 0", s)
	}

	q := `SELECT ` + productColumns + ` FROM products`
	if len(where) > 0 {
		q += ` WHERE ` + strings.Join(where, " AND ")
	}
	q += ` ORDER BY id`

	rows, err := r.q.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []catalog.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r productRepo) Save(ctx context.Context, p catalog.Product) error {
	p.SyncStatus()
	tag, err := r.q.Exec(ctx, `
		UPDATE products
		SET name = $2, price = $3, stock = $4, category = $5, description = $6, status = $7, updated_at = $8
		WHERE id = $1`,
		p.ID, p.Name, p.Price, p.Stock, p.Category, p.Description, string(p.Status), p.UpdatedAt)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: product %d", apperr.ErrNotFound, p.ID)
	}
	return nil
}

type cartRepo struct{ *txn }

const cartColumns = `id, member_id, product_id, quantity, added_at`

func scanCartItem(row pgx.Row) (cart.CartItem, error) {
	var it cart.CartItem
	err := row.Scan(&it.ID, &it.MemberID, &it.ProductID, &it.Quantity, &it.AddedAt)
	return it, err
}

func (r cartRepo) Get(ctx context.Context, id string) (cart.CartItem, error) {
	it, err := scanCartItem(r.q.QueryRow(ctx, `SELECT `+cartColumns+` FROM cart_items WHERE id = $1`, id))
	if err != nil {
		return cart.CartItem{}, notFound(err, "cart item", id)
	}
	return it, nil
}

func (r cartRepo) FindByMemberProduct(ctx context.Context, memberID, productID int64) (cart.CartItem, bool, error) {
	it, err := scanCartItem(r.q.QueryRow(ctx,
		`SELECT `+cartColumns+` FROM cart_items WHERE member_id = $1 AND product_id = $2`, memberID, productID))
	if errors.Is(err, pgx.ErrNoRows) {
		return cart.CartItem{}, false, nil
	}
	if err != nil {
		return cart.CartItem{}, false, err
	}
	return it, true, nil
}

func (r cartRepo) ListByMember(ctx context.Context, memberID int64) ([]cart.CartItem, error) {
	rows, err := r.q.Query(ctx, `SELECT `+cartColumns+` FROM cart_items WHERE member_id = $1 ORDER BY seq`, memberID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []cart.CartItem
	for rows.Next() {
		it, err := scanCartItem(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, it)
	}
	return out, rows.Err()
}

func (r cartRepo) Insert(ctx context.Context, it cart.CartItem) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO cart_items (id, member_id, product_id, quantity, added_at)
		VALUES ($1, $2, $3, $4, $5)`,
		it.ID, it.MemberID, it.ProductID, it.Quantity, it.AddedAt)
	if err != nil {
		return fmt.Errorf("failed to insert cart item: %w", err)
	}
	return nil
}

func (r cartRepo) Update(ctx context.Context, it cart.CartItem) error {
	tag, err := r.q.Exec(ctx, `UPDATE cart_items SET quantity = $2 WHERE id = $1`, it.ID, it.Quantity)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: cart item %s", apperr.ErrNotFound, it.ID)
	}
	return nil
}

func (r cartRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM cart_items WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: cart item %s", apperr.ErrNotFound, id)
	}
	return nil
}

func (r cartRepo) DeleteItems(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	_, err := r.q.Exec(ctx, `DELETE FROM cart_items WHERE id = ANY($1)`, ids)
	return err
}

type orderRepo struct{ *txn }

const orderColumns = `id, member_id, status, total_amount, discount_amount, shipping_fee,
	payment_method, shipping_method, shipping_address, coupon_code, created_at, updated_at`

func scanOrder(row pgx.Row) (order.Order, error) {
	var (
		o                        order.Order
		status, payment, shipping string
	)
	err := row.Scan(&o.ID, &o.MemberID, &status, &o.TotalAmount, &o.DiscountAmount, &o.ShippingFee,
		&payment, &shipping, &o.ShippingAddress, &o.CouponCode, &o.CreatedAt, &o.UpdatedAt)
	o.Status = order.Status(status)
	o.PaymentMethod = order.PaymentMethod(payment)
	o.ShippingMethod = order.ShippingMethod(shipping)
	return o, err
}

func (r orderRepo) Append(ctx context.Context, o order.Order) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO orders (id, member_id, status, total_amount, discount_amount, shipping_fee,
			payment_method, shipping_method, shipping_address, coupon_code, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		o.ID, o.MemberID, string(o.Status), o.TotalAmount, o.DiscountAmount, o.ShippingFee,
		string(o.PaymentMethod), string(o.ShippingMethod), o.ShippingAddress, o.CouponCode, o.CreatedAt, o.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create order: %w", err)
	}

	for i, it := range o.Items {
		_, err := r.q.Exec(ctx, `
			INSERT INTO order_items (id, order_id, position, product_id, product_name, quantity, unit_price, subtotal)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			it.ID, o.ID, i, it.ProductID, it.ProductName, it.Quantity, it.UnitPrice, it.Subtotal)
		if err != nil {
			return fmt.Errorf("failed to insert item %d: %w", i, err)
		}
	}
	return nil
}

func (r orderRepo) items(ctx context.Context, ids []string) (map[string][]order.Item, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id, order_id, product_id, product_name, quantity, unit_price, subtotal
		FROM order_items WHERE order_id = ANY($1) ORDER BY order_id, position`, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[string][]order.Item, len(ids))
	for rows.Next() {
		var it order.Item
		if err := rows.Scan(&it.ID, &it.OrderID, &it.ProductID, &it.ProductName, &it.Quantity, &it.UnitPrice, &it.Subtotal); err != nil {
			return nil, err
		}
		out[it.OrderID] = append(out[it.OrderID], it)
	}
	return out, rows.Err()
}

func (r orderRepo) ListByMember(ctx context.Context, memberID int64) ([]order.Order, error) {
	rows, err := r.q.Query(ctx, `SELECT `+orderColumns+` FROM orders WHERE member_id = $1 ORDER BY seq`, memberID)
	if err != nil {
		return nil, err
	}

	var (
		out []order.Order
		ids []string
	)
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			rows.Close()
			return nil, err
		}
		out = append(out, o)
		ids = append(ids, o.ID)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, nil
	}

	items, err := r.items(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range out {
		out[i].Items = items[out[i].ID]
	}
	return out, nil
}

func (r orderRepo) Get(ctx context.Context, id string) (order.Order, error) {
	q := `SELECT ` + orderColumns + ` FROM orders WHERE id = $1`
	if r.lock {
		q += ` FOR UPDATE`
	}
	o, err := scanOrder(r.q.QueryRow(ctx, q, id))
	if err != nil {
		return order.Order{}, notFound(err, "order", id)
	}

	items, err := r.items(ctx, []string{id})
	if err != nil {
		return order.Order{}, err
	}
	o.Items = items[id]
	return o, nil
}

func (r orderRepo) UpdateStatus(ctx context.Context, id string, s order.Status, at time.Time) error {
	tag, err := r.q.Exec(ctx, `UPDATE orders SET status = $2, updated_at = $3 WHERE id = $1`, id, string(s), at)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: order %s", apperr.ErrNotFound, id)
	}
	return nil
}

var _ store.UnitOfWork = (*Store)(nil)
