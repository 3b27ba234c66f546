package main

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/text/language"

	"github.com/dwikikusuma/ec-training/internal/bootstrap"
	catalog "github.com/dwikikusuma/ec-training/internal/catalog/domain"
	"github.com/dwikikusuma/ec-training/internal/member"
	"github.com/dwikikusuma/ec-training/internal/storefront"
	"github.com/dwikikusuma/ec-training/internal/storefront/view"
	"github.com/dwikikusuma/ec-training/pkg/config"
	"github.com/dwikikusuma/ec-training/pkg/logger"
)

type rootOptions struct {
	mode       string
	remoteURL  string
	grpcTarget string
	latency    time.Duration
	logLevel   string
}

type app struct {
	cfg     config.Config
	log     *slog.Logger
	ctrl    *storefront.Controller
	closeFn func()
}

func (a *app) open(ctx context.Context, opts rootOptions) error {
	a.cfg = config.Load()
	if opts.mode != "" {
		a.cfg.DataMode = opts.mode
	}
	if opts.remoteURL != "" {
		a.cfg.RemoteURL = opts.remoteURL
	}
	if opts.grpcTarget != "" {
		a.cfg.GRPCTarget = opts.grpcTarget
	}
	if opts.latency > 0 {
		a.cfg.MockLatency = opts.latency
	}

	a.log = logger.New(logger.Options{Service: "shop", Env: a.cfg.AppEnv, Level: opts.logLevel, Output: os.Stderr})

	data, _, closeFn, err := bootstrap.DataAccess(ctx, a.cfg, a.log)
	if err != nil {
		return err
	}
	members, err := member.NewService(a.cfg.JWTSecret)
	if err != nil {
		closeFn()
		return err
	}

	a.closeFn = closeFn
	a.ctrl = storefront.NewController(data, members, a.cfg.MemberID, a.log)
	return a.ctrl.Refresh(ctx)
}

func (a *app) close() {
	if a.closeFn != nil {
		a.closeFn()
	}
}

func renderer(w io.Writer) *view.Renderer {
	return view.New(w, language.Japanese)
}

func newRootCmd() *cobra.Command {
	var opts rootOptions
	a := &app{}

	root := &cobra.Command{
		Use:           "shop",
		Short:         "Training storefront client",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.open(cmd.Context(), opts)
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			a.close()
		},
	}

	f := root.PersistentFlags()
	f.StringVar(&opts.mode, "mode", "", "data access mode: mock, remote or grpc (default from DATA_MODE)")
	f.StringVar(&opts.remoteURL, "remote-url", "", "endpoint used in remote mode")
	f.StringVar(&opts.grpcTarget, "grpc-target", "", "backend address used in grpc mode")
	f.DurationVar(&opts.latency, "latency", 0, "simulated latency in mock mode")
	f.StringVar(&opts.logLevel, "log-level", "warn", "log level")

	root.AddCommand(
		newProductsCmd(a),
		newCartCmd(a),
		newAddCmd(a),
		newOrdersCmd(a),
		newCouponCmd(a),
		newShellCmd(a),
	)
	return root
}

// report renders err for the shopper and hands it back to cobra so the exit
// code reflects it.
func report(cmd *cobra.Command, err error) error {
	if err != nil {
		renderer(cmd.ErrOrStderr()).Error(err)
	}
	return err
}

func newProductsCmd(a *app) *cobra.Command {
	var f catalog.Filter
	cmd := &cobra.Command{
		Use:   "products",
		Short: "List products",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.ctrl.SetFilter(cmd.Context(), f); err != nil {
				return report(cmd, err)
			}
			st := a.ctrl.State()
			renderer(cmd.OutOrStdout()).Catalog(st.Products, st.Filter)
			return nil
		},
	}
	cmd.Flags().StringVar(&f.Category, "category", "", "books, electronics or goods")
	cmd.Flags().BoolVar(&f.InStock, "in-stock", false, "hide sold out products")
	cmd.Flags().Int64Var(&f.MinPrice, "min-price", 0, "lowest price")
	cmd.Flags().Int64Var(&f.MaxPrice, "max-price", 0, "highest price")
	cmd.Flags().StringVar(&f.Search, "search", "", "match product names")
	return cmd
}

func newCartCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "cart",
		Short: "Show the cart",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			renderer(cmd.OutOrStdout()).Cart(a.ctrl.State().Cart)
			return nil
		},
	}
}

func newAddCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "add <product-id> [quantity]",
		Short: "Add a product to the cart",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, qty, err := parseAdd(args)
			if err != nil {
				return report(cmd, err)
			}
			if err := a.ctrl.AddToCart(cmd.Context(), id, qty); err != nil {
				return report(cmd, err)
			}
			renderer(cmd.OutOrStdout()).Cart(a.ctrl.State().Cart)
			return nil
		},
	}
}

func newOrdersCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "orders",
		Short: "Show order history",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			renderer(cmd.OutOrStdout()).History(a.ctrl.State().Orders)
			return nil
		},
	}
}

func newCouponCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "coupon <code>",
		Short: "Check a coupon code",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := a.ctrl.ApplyCoupon(cmd.Context(), args[0])
			if err != nil {
				return report(cmd, err)
			}
			renderer(cmd.OutOrStdout()).Coupon(v)
			return nil
		},
	}
}

func newShellCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "shell",
		Short: "Interactive session; mock state lives as long as the shell",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			sh := &shell{
				ctrl:   a.ctrl,
				out:    renderer(cmd.OutOrStdout()),
				w:      cmd.OutOrStdout(),
				demoID: a.cfg.MemberID,
			}
			return sh.run(cmd.Context(), cmd.InOrStdin())
		},
	}
}

func parseAdd(args []string) (int64, int, error) {
	id, err := parseID(args[0])
	if err != nil {
		return 0, 0, err
	}
	qty := 1
	if len(args) > 1 {
		if qty, err = parseQty(args[1]); err != nil {
			return 0, 0, err
		}
	}
	return id, qty, nil
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, invalidArg("product id", s)
	}
	return id, nil
}

func parseQty(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, invalidArg("quantity", s)
	}
	return n, nil
}
