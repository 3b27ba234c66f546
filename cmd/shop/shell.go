package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/dwikikusuma/ec-training/internal/apperr"
	catalog "github.com/dwikikusuma/ec-training/internal/catalog/domain"
	"github.com/dwikikusuma/ec-training/internal/member"
	order "github.com/dwikikusuma/ec-training/internal/order/domain"
	"github.com/dwikikusuma/ec-training/internal/storefront"
	"github.com/dwikikusuma/ec-training/internal/storefront/view"
)

const shellHelp = `commands:
  products [category]           list products, optionally one category
  instock on|off                hide or show sold out products
  search [text]                 filter by name
  add <product-id> [qty]        add to cart
  qty <item-id> <n>             change a cart line (minimum 1)
  rm <item-id>                  remove a cart line
  cart                          show the cart
  coupon <code>                 apply a coupon
  preview [shipping]            price the cart (standard, express, scheduled)
  checkout <payment> <shipping> <address...>
                                place the order (credit, cod, convenience, bank)
  orders                        order history
  login <email> <password>
  register <name> <email> <password> <confirm>
  logout
  whoami
  refresh
  quit
`

func invalidArg(what, got string) error {
	return fmt.Errorf("%w: invalid %s %q", apperr.ErrValidation, what, got)
}

type shell struct {
	ctrl   *storefront.Controller
	out    *view.Renderer
	w      io.Writer
	demoID int64
}

func (s *shell) run(ctx context.Context, in io.Reader) error {
	fmt.Fprint(s.w, "type `help` for commands\n> ")
	sc := bufio.NewScanner(in)
	for sc.Scan() {
		if s.exec(ctx, sc.Text()) {
			return nil
		}
		if ctx.Err() != nil {
			return nil
		}
		fmt.Fprint(s.w, "> ")
	}
	return sc.Err()
}

// exec runs one line and reports whether the shell should stop.
func (s *shell) exec(ctx context.Context, line string) bool {
	args := strings.Fields(line)
	if len(args) == 0 {
		return false
	}
	cmd, args := strings.ToLower(args[0]), args[1:]

	var err error
	switch cmd {
	case "quit", "exit":
		return true
	case "help":
		fmt.Fprint(s.w, shellHelp)
	case "products":
		err = s.filter(ctx, func(f *catalog.Filter) {
			f.Category = ""
			if len(args) > 0 {
				f.Category = args[0]
			}
		})
	case "instock":
		err = s.filter(ctx, func(f *catalog.Filter) {
			f.InStock = len(args) == 0 || args[0] != "off"
		})
	case "search":
		err = s.filter(ctx, func(f *catalog.Filter) { f.Search = strings.Join(args, " ") })
	case "add":
		err = s.add(ctx, args)
	case "qty":
		err = s.qty(ctx, args)
	case "rm":
		if len(args) != 1 {
			err = usage("rm <item-id>")
			break
		}
		if err = s.ctrl.RemoveItem(ctx, s.resolveItem(args[0])); err == nil {
			s.out.Cart(s.ctrl.State().Cart)
		}
	case "cart":
		s.out.Cart(s.ctrl.State().Cart)
	case "coupon":
		if len(args) != 1 {
			err = usage("coupon <code>")
			break
		}
		v, cerr := s.ctrl.ApplyCoupon(ctx, args[0])
		if err = cerr; err == nil {
			s.out.Coupon(v)
		}
	case "preview":
		var method order.ShippingMethod
		if len(args) > 0 {
			method = order.ShippingMethod(args[0])
		}
		q, perr := s.ctrl.Preview(ctx, method)
		if err = perr; err == nil {
			s.out.Checkout(q)
		}
	case "checkout":
		err = s.checkout(ctx, args)
	case "orders":
		s.out.History(s.ctrl.State().Orders)
	case "login":
		if len(args) != 2 {
			err = usage("login <email> <password>")
			break
		}
		if _, err = s.ctrl.Login(ctx, args[0], args[1]); err == nil {
			st := s.ctrl.State()
			s.out.Member(st.Member, st.MemberID)
		}
	case "register":
		if len(args) != 4 {
			err = usage("register <name> <email> <password> <confirm>")
			break
		}
		m, rerr := s.ctrl.Register(ctx, member.RegisterInput{Name: args[0], Email: args[1], Password: args[2], PasswordConfirm: args[3]})
		if err = rerr; err == nil {
			s.out.Registered(m)
		}
	case "logout":
		s.ctrl.Logout(s.demoID)
		err = s.ctrl.Refresh(ctx)
		st := s.ctrl.State()
		s.out.Member(st.Member, st.MemberID)
	case "whoami":
		st := s.ctrl.State()
		s.out.Member(st.Member, st.MemberID)
	case "refresh":
		err = s.ctrl.Refresh(ctx)
	default:
		err = fmt.Errorf("%w: unknown command %q, try `help`", apperr.ErrValidation, cmd)
	}

	if err != nil {
		s.out.Error(err)
	}
	return false
}

func usage(u string) error {
	return fmt.Errorf("%w: usage: %s", apperr.ErrValidation, u)
}

func (s *shell) filter(ctx context.Context, edit func(*catalog.Filter)) error {
	f := s.ctrl.State().Filter
	edit(&f)
	if err := s.ctrl.SetFilter(ctx, f); err != nil {
		return err
	}
	st := s.ctrl.State()
	s.out.Catalog(st.Products, st.Filter)
	return nil
}

func (s *shell) add(ctx context.Context, args []string) error {
	if len(args) < 1 || len(args) > 2 {
		return usage("add <product-id> [qty]")
	}
	id, qty, err := parseAdd(args)
	if err != nil {
		return err
	}
	if err := s.ctrl.AddToCart(ctx, id, qty); err != nil {
		return err
	}
	s.out.Cart(s.ctrl.State().Cart)
	return nil
}

func (s *shell) qty(ctx context.Context, args []string) error {
	if len(args) != 2 {
		return usage("qty <item-id> <n>")
	}
	n, err := parseQty(args[1])
	if err != nil {
		return err
	}
	if err := s.ctrl.UpdateQuantity(ctx, s.resolveItem(args[0]), n); err != nil {
		return err
	}
	s.out.Cart(s.ctrl.State().Cart)
	return nil
}

// resolveItem expands the short id the cart view prints.
func (s *shell) resolveItem(prefix string) string {
	for _, l := range s.ctrl.State().Cart {
		if strings.HasPrefix(l.ID, prefix) {
			return l.ID
		}
	}
	return prefix
}

func (s *shell) checkout(ctx context.Context, args []string) error {
	if len(args) < 3 {
		return usage("checkout <payment> <shipping> <address...>")
	}
	placed, err := s.ctrl.Checkout(ctx, storefront.CheckoutForm{
		PaymentMethod:   order.PaymentMethod(args[0]),
		ShippingMethod:  order.ShippingMethod(args[1]),
		ShippingAddress: strings.Join(args[2:], " "),
	})
	if err != nil {
		return err
	}
	s.out.Placed(placed)
	return nil
}
