package erp

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ridha-415/filaops-sub002/internal/shared"
)

func TestClientTokenResolution(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id": 1, "order_number": "SO-1001", "status": "pending"}`))
	}))
	defer srv.Close()

	t.Run("request token wins over service token", func(t *testing.T) {
		c := NewClient(srv.URL, WithServiceToken("service-tok"))
		ctx := shared.ContextWithToken(context.Background(), "operator-tok")

		_, err := c.GetSalesOrder(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, "Bearer operator-tok", gotAuth)
	})

	t.Run("service token is the fallback", func(t *testing.T) {
		c := NewClient(srv.URL, WithServiceToken("service-tok"))

		_, err := c.GetSalesOrder(context.Background(), 1)
		require.NoError(t, err)
		assert.Equal(t, "Bearer service-tok", gotAuth)
	})

	t.Run("no credential fails before any call", func(t *testing.T) {
		gotAuth = ""
		c := NewClient(srv.URL)

		_, err := c.GetSalesOrder(context.Background(), 1)
		assert.ErrorIs(t, err, shared.ErrMissingCredential)
		assert.Empty(t, gotAuth)
	})
}

func TestClientDecodesErrorDetail(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusConflict)
		_, _ = w.Write([]byte(`{"detail": "order already shipped"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, WithServiceToken("tok"))
	err := c.CancelSalesOrder(context.Background(), 1)
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusConflict, apiErr.Status)
	assert.Equal(t, "order already shipped", apiErr.Detail)
}

func TestClientMapsNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"detail": "sales order not found"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, WithServiceToken("tok"))
	_, err := c.GetSalesOrder(context.Background(), 404)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestClientWrapsTransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // refuse connections

	c := NewClient(srv.URL, WithServiceToken("tok"))
	err := c.Ping(context.Background())
	assert.ErrorIs(t, err, shared.ErrUpstreamUnavailable)
}

func TestGetRoutingByProductMissingIsNotAnError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, WithServiceToken("tok"))
	routing, err := c.GetRoutingByProduct(context.Background(), 42)
	require.NoError(t, err)
	assert.Nil(t, routing)
}

func TestListSalesOrdersStatusFilter(t *testing.T) {
	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"id": 1, "order_number": "SO-1001", "status": "shipped"}]`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, WithServiceToken("tok"))

	status := OrderStatusShipped
	orders, err := c.ListSalesOrders(context.Background(), &status)
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, "status=shipped", gotQuery)

	_, err = c.ListSalesOrders(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, gotQuery)
}

type recordingObserver struct {
	calls []string
}

func (r *recordingObserver) ObserveUpstreamCall(resource, outcome string) {
	r.calls = append(r.calls, resource+":"+outcome)
}

func TestClientObservesOutcomes(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/v1/health" {
			w.WriteHeader(http.StatusOK)
			return
		}
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	obs := &recordingObserver{}
	c := NewClient(srv.URL, WithServiceToken("tok"), WithObserver(obs))

	require.NoError(t, c.Ping(context.Background()))
	require.Error(t, c.CancelSalesOrder(context.Background(), 1))
	assert.Equal(t, []string{"health:ok", "sales_order_cancel:error"}, obs.calls)
}
