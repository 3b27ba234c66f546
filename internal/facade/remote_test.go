package facade_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dwikikusuma/ec-training/internal/apperr"
	catalog "github.com/dwikikusuma/ec-training/internal/catalog/domain"
	"github.com/dwikikusuma/ec-training/internal/facade"
)

type captured struct {
	method string
	query  url.Values
	body   string
}

// fakeEndpoint answers every request with the given status and body and
// records what it received.
func fakeEndpoint(t *testing.T, status int, body string) (*httptest.Server, *captured) {
	t.Helper()
	got := &captured{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		got.method = r.Method
		got.query = r.URL.Query()
		got.body = string(raw)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv, got
}

func TestRemoteReadsAreGetWithQuery(t *testing.T) {
	srv, got := fakeEndpoint(t, http.StatusOK, `{"success":true,"data":[{"id":3,"name":"Wireless Mouse","price":1980,"stock":100,"status":"available"}]}`)
	r := facade.NewRemote(srv.URL+"/exec", nil)

	env := r.GetProducts(context.Background(), catalog.Filter{Category: "electronics", InStock: true, MaxPrice: 2000})
	require.True(t, env.Success, env.Error)
	require.Len(t, env.Data, 1)
	assert.Equal(t, "Wireless Mouse", env.Data[0].Name)

	assert.Equal(t, http.MethodGet, got.method)
	assert.Equal(t, "products", got.query.Get("path"))
	assert.Equal(t, "GET", got.query.Get("method"))
	assert.Equal(t, "electronics", got.query.Get("category"))
	assert.Equal(t, "true", got.query.Get("in_stock"))
	assert.Equal(t, "2000", got.query.Get("max_price"))
	assert.Empty(t, got.query.Get("min_price"))
}

func TestRemoteWritesArePostWithBody(t *testing.T) {
	srv, got := fakeEndpoint(t, http.StatusOK, `{"success":true,"data":{"id":"abc","quantity":2}}`)
	r := facade.NewRemote(srv.URL, nil)

	env := r.AddToCart(context.Background(), 1, 3, 2)
	require.True(t, env.Success)
	assert.Equal(t, "abc", env.Data.ID)

	assert.Equal(t, http.MethodPost, got.method)
	assert.Equal(t, "cart", got.query.Get("path"))
	assert.Equal(t, "POST", got.query.Get("method"))

	var body facade.AddToCartRequest
	require.NoError(t, json.Unmarshal([]byte(got.body), &body))
	assert.Equal(t, facade.AddToCartRequest{MemberID: 1, ProductID: 3, Quantity: 2}, body)
}

func TestRemoteDeletePassesIDInQuery(t *testing.T) {
	srv, got := fakeEndpoint(t, http.StatusOK, `{"success":true,"data":{}}`)
	r := facade.NewRemote(srv.URL, nil)

	env := r.DeleteCartItem(context.Background(), "item-1")
	require.True(t, env.Success)
	assert.Equal(t, http.MethodPost, got.method)
	assert.Equal(t, "DELETE", got.query.Get("method"))
	assert.Equal(t, "item-1", got.query.Get("id"))
}

func TestRemoteFailureEnvelopeKeepsKind(t *testing.T) {
	srv, _ := fakeEndpoint(t, http.StatusConflict, `{"success":false,"data":{},"error":"cart is empty","code":"EMPTY_CART"}`)
	r := facade.NewRemote(srv.URL, nil)

	env := r.GetOrders(context.Background(), 1)
	assert.False(t, env.Success)
	assert.Equal(t, "cart is empty", env.Error)
	assert.True(t, errors.Is(env.Err(), apperr.ErrEmptyCart))
}

func TestRemoteNonJSONErrorIsNetwork(t *testing.T) {
	srv, _ := fakeEndpoint(t, http.StatusBadGateway, `<html>bad gateway</html>`)
	r := facade.NewRemote(srv.URL, nil)

	env := r.GetProduct(context.Background(), 1)
	assert.False(t, env.Success)
	assert.Equal(t, apperr.KindNetwork, env.Code)
	assert.Contains(t, env.Error, "502")
}

func TestRemoteUnreachableIsNetwork(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	endpoint := srv.URL
	srv.Close()

	r := facade.NewRemote(endpoint, nil)
	env := r.GetCart(context.Background(), 1)
	assert.False(t, env.Success)
	assert.Equal(t, apperr.KindNetwork, env.Code)
	assert.NotEmpty(t, env.Error)
	assert.True(t, errors.Is(env.Err(), apperr.ErrNetwork))
}

func TestRemoteEndsWithContext(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-release:
		}
	}))
	t.Cleanup(srv.Close)
	t.Cleanup(func() { close(release) })

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	env := facade.NewRemote(srv.URL+"/exec", nil).GetCart(ctx, 1)
	assert.False(t, env.Success)
	assert.Equal(t, apperr.KindNetwork, env.Code)
	assert.ErrorIs(t, env.Err(), apperr.ErrNetwork)
}
