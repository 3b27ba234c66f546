package main

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/dwikikusuma/ec-training/internal/bootstrap"
	"github.com/dwikikusuma/ec-training/internal/facade"
	"github.com/dwikikusuma/ec-training/internal/member"
	"github.com/dwikikusuma/ec-training/internal/store/memory"
	"github.com/dwikikusuma/ec-training/internal/storefront"
	"github.com/dwikikusuma/ec-training/pkg/logger"
)

func newTestShell(t *testing.T) (*shell, *bytes.Buffer) {
	t.Helper()

	data := facade.NewLocal(bootstrap.NewServices(memory.NewSeeded(), nil), 0)
	members, err := member.NewService("test-secret", member.WithCost(bcrypt.MinCost))
	require.NoError(t, err)

	ctrl := storefront.NewController(data, members, member.DemoID, logger.Discard())
	require.NoError(t, ctrl.Refresh(context.Background()))

	var out bytes.Buffer
	return &shell{ctrl: ctrl, out: renderer(&out), w: &out, demoID: member.DemoID}, &out
}

func TestShellSession(t *testing.T) {
	sh, out := newTestShell(t)

	script := strings.Join([]string{
		"products electronics",
		"add 3 2",
		"preview",
		"checkout credit standard 1-2-3 Shibuya, Tokyo",
		"orders",
		"quit",
		"cart",
	}, "\n")

	require.NoError(t, sh.run(context.Background(), strings.NewReader(script)))
	got := out.String()

	assert.Contains(t, got, "Wireless Mouse")
	assert.Contains(t, got, "¥3,960")
	assert.Contains(t, got, "Add ¥1,040 more for free shipping.")
	assert.Contains(t, got, "Amount charged: ¥4,460")
	assert.Contains(t, got, "[Order received]")
	assert.NotContains(t, got, "Your cart is empty.")

	st := sh.ctrl.State()
	assert.Empty(t, st.Cart)
	assert.Len(t, st.Orders, 1)
}

func TestShellReportsErrors(t *testing.T) {
	sh, out := newTestShell(t)
	ctx := context.Background()

	tests := []struct {
		line string
		want string
	}{
		{"add 8", "0 left in stock"},
		{"add x", `invalid product id "x"`},
		{"checkout credit standard somewhere", "Your cart is empty."},
		{"fly", `unknown command "fly"`},
		{"login test@example.com nope", "email or password is incorrect"},
		{"coupon", "usage: coupon <code>"},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			out.Reset()
			assert.False(t, sh.exec(ctx, tt.line))
			assert.Contains(t, out.String(), tt.want)
		})
	}
}

func TestShellEditsCartByShortID(t *testing.T) {
	sh, out := newTestShell(t)
	ctx := context.Background()

	sh.exec(ctx, "add 6 3")
	id := sh.ctrl.State().Cart[0].ID

	sh.exec(ctx, "qty "+id[:8]+" 0")
	assert.Equal(t, 1, sh.ctrl.State().Cart[0].Quantity)

	out.Reset()
	sh.exec(ctx, "rm "+id[:8])
	assert.Contains(t, out.String(), "Your cart is empty.")
}

func TestShellLogin(t *testing.T) {
	sh, out := newTestShell(t)
	ctx := context.Background()

	sh.exec(ctx, "login test@example.com password")
	assert.Contains(t, out.String(), "Signed in as Test User")

	out.Reset()
	sh.exec(ctx, "logout")
	assert.Contains(t, out.String(), "demo member 1")
}
