// Package bootstrap wires stores, services and the data-access strategy from
// configuration. It is shared by every binary.
package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	cartapp "github.com/dwikikusuma/ec-training/internal/cart/app"
	catalogapp "github.com/dwikikusuma/ec-training/internal/catalog/app"
	catalog "github.com/dwikikusuma/ec-training/internal/catalog/domain"
	"github.com/dwikikusuma/ec-training/internal/catalog/infra/rediscache"
	"github.com/dwikikusuma/ec-training/internal/catalog/infra/storerepo"
	checkoutapp "github.com/dwikikusuma/ec-training/internal/checkout/app"
	"github.com/dwikikusuma/ec-training/internal/checkout/infra/adapter"
	"github.com/dwikikusuma/ec-training/internal/coupon"
	"github.com/dwikikusuma/ec-training/internal/facade"
	orderapp "github.com/dwikikusuma/ec-training/internal/order/app"
	order "github.com/dwikikusuma/ec-training/internal/order/domain"
	"github.com/dwikikusuma/ec-training/internal/rpc"
	"github.com/dwikikusuma/ec-training/internal/store"
	"github.com/dwikikusuma/ec-training/internal/store/memory"
	pgstore "github.com/dwikikusuma/ec-training/internal/store/postgres"
	"github.com/dwikikusuma/ec-training/pkg/config"
	"github.com/dwikikusuma/ec-training/pkg/postgres"
)

// NewServices builds the application services over one unit of work.
// products may wrap the store (a cache, say); nil reads straight from it.
func NewServices(uow store.UnitOfWork, products catalogapp.ProductRepo, observers ...orderapp.Observer) facade.Services {
	if products == nil {
		products = storerepo.NewProductRepo(uow)
	}

	coupons := coupon.NewEvaluator()
	catalogSvc := catalogapp.NewService(products)
	cartSvc := cartapp.NewService(uow)

	opts := make([]orderapp.Option, 0, len(observers))
	for _, o := range observers {
		opts = append(opts, orderapp.WithObserver(o))
	}

	return facade.Services{
		Catalog: catalogSvc,
		Cart:    cartSvc,
		Orders:  orderapp.NewService(uow, coupons, opts...),
		Checkout: checkoutapp.NewService(
			adapter.NewCartServiceReader(cartSvc),
			adapter.NewCatalogServiceReader(catalogSvc),
			coupons,
			10,
		),
		Coupons: coupons,
	}
}

// Backend is the in-process side: store, optional cache and services.
type Backend struct {
	Store    store.UnitOfWork
	Services facade.Services

	ready   []func(context.Context) error
	closers []func()
}

func (b *Backend) Ready(ctx context.Context) error {
	for _, check := range b.ready {
		if err := check(ctx); err != nil {
			return err
		}
	}
	return nil
}

func (b *Backend) Close() {
	for i := len(b.closers) - 1; i >= 0; i-- {
		b.closers[i]()
	}
}

func OpenBackend(ctx context.Context, cfg config.Config, log *slog.Logger, observers ...orderapp.Observer) (*Backend, error) {
	b := &Backend{}

	switch cfg.StoreDriver {
	case "", "memory":
		b.Store = memory.NewSeeded()
		log.Info("store ready", slog.String("driver", "memory"))

	case "postgres":
		pool, err := postgres.Open(ctx, postgres.Config{URL: cfg.DatabaseURL})
		if err != nil {
			return nil, err
		}
		b.closers = append(b.closers, pool.Close)
		b.ready = append(b.ready, pool.Ping)

		pg := pgstore.New(pool)
		if err := pg.Migrate(ctx); err != nil {
			b.Close()
			return nil, err
		}
		if err := pg.Seed(ctx, catalog.Seed()); err != nil {
			b.Close()
			return nil, err
		}
		b.Store = pg
		log.Info("store ready", slog.String("driver", "postgres"))

	default:
		return nil, fmt.Errorf("unknown STORE_DRIVER %q", cfg.StoreDriver)
	}

	var products catalogapp.ProductRepo
	if cfg.RedisAddr != "" {
		rdb, err := rediscache.Connect(ctx, rediscache.Config{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err != nil {
			b.Close()
			return nil, err
		}
		b.closers = append(b.closers, func() { _ = rdb.Close() })
		b.ready = append(b.ready, func(ctx context.Context) error { return rdb.Ping(ctx).Err() })

		cached := rediscache.NewCachedProductRepo(storerepo.NewProductRepo(b.Store), rdb, cfg.CacheTTL, log)
		products = cached
		observers = append(observers, orderapp.ObserverFunc(func(ctx context.Context, _ order.Order, ps []catalog.Product) {
			ids := make([]int64, 0, len(ps))
			for _, p := range ps {
				ids = append(ids, p.ID)
			}
			cached.Invalidate(ctx, ids...)
		}))
		log.Info("product cache enabled", slog.String("addr", cfg.RedisAddr))
	}

	b.Services = NewServices(b.Store, products, observers...)
	return b, nil
}

// DataAccess builds the strategy named by cfg.DataMode. The returned close
// function releases whatever the strategy holds.
func DataAccess(ctx context.Context, cfg config.Config, log *slog.Logger, observers ...orderapp.Observer) (facade.DataAccess, *Backend, func(), error) {
	switch facade.Mode(cfg.DataMode) {
	case facade.ModeMock:
		b, err := OpenBackend(ctx, cfg, log, observers...)
		if err != nil {
			return nil, nil, nil, err
		}
		return facade.NewLocal(b.Services, cfg.MockLatency), b, b.Close, nil

	case facade.ModeRemote:
		if cfg.RemoteURL == "" {
			return nil, nil, nil, errors.New("REMOTE_URL is required in remote mode")
		}
		return facade.NewRemote(cfg.RemoteURL, nil), nil, func() {}, nil

	case facade.ModeGRPC:
		conn, err := rpc.Dial(cfg.GRPCTarget)
		if err != nil {
			return nil, nil, nil, err
		}
		return rpc.NewClient(conn), nil, func() { _ = conn.Close() }, nil

	default:
		return nil, nil, nil, fmt.Errorf("unknown DATA_MODE %q", cfg.DataMode)
	}
}
