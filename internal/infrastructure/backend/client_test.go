package backend_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/cotizador/internal/application/ports"
	"github.com/jhoicas/cotizador/internal/domain"
	"github.com/jhoicas/cotizador/internal/domain/entity"
	"github.com/jhoicas/cotizador/internal/infrastructure/backend"
)

// countingTokens entrega un token distinto en cada llamada.
type countingTokens struct {
	n   int32
	err error
}

func (t *countingTokens) IDToken(context.Context) (string, error) {
	if t.err != nil {
		return "", t.err
	}
	n := atomic.AddInt32(&t.n, 1)
	return "tok-" + string(rune('0'+n)), nil
}

func newBackend(t *testing.T, h http.HandlerFunc) (ports.Backend, *countingTokens) {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	tokens := &countingTokens{}
	c := backend.NewClient(srv.URL, 5*time.Second, nil, backend.WithHTTPClient(srv.Client()))
	return c.For(tokens), tokens
}

func TestSync_EnviaTokenFrescoEnCadaRequest(t *testing.T) {
	var auths []string
	b, _ := newBackend(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/auth/sync", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)
		auths = append(auths, r.Header.Get("Authorization"))
		_ = json.NewEncoder(w).Encode(map[string]string{"uid": "u1", "email": "ana@example.com", "name": "Ana", "role": "ADMIN"})
	})

	u, err := b.Sync(context.Background())
	require.NoError(t, err)
	assert.Equal(t, entity.RoleAdmin, u.Role)
	assert.Equal(t, "Ana", u.Name)

	_, err = b.Sync(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"Bearer tok-1", "Bearer tok-2"}, auths)
}

func TestSync_403EsAccesoDenegado(t *testing.T) {
	b, _ := newBackend(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"code":"FORBIDDEN","message":"correo no autorizado"}`))
	})
	_, err := b.Sync(context.Background())
	assert.ErrorIs(t, err, domain.ErrAccessDenied)
}

func TestSync_RolDesconocidoFallaCerrado(t *testing.T) {
	b, _ := newBackend(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"uid":"u1","role":"root"}`))
	})
	u, err := b.Sync(context.Background())
	require.NoError(t, err)
	assert.Equal(t, entity.RoleUnknown, u.Role)
	assert.False(t, u.Role.IsAdmin())
}

func TestStatusMapping(t *testing.T) {
	tests := []struct {
		status int
		want   error
	}{
		{http.StatusBadRequest, domain.ErrInvalidInput},
		{http.StatusUnauthorized, domain.ErrUnauthorized},
		{http.StatusForbidden, domain.ErrForbidden},
		{http.StatusNotFound, domain.ErrNotFound},
		{http.StatusConflict, domain.ErrConflict},
	}
	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			b, _ := newBackend(t, func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
			})
			err := b.Clients().Delete(context.Background(), 1)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestStatusMapping_InvitacionRevocadaEsAccesoDenegado(t *testing.T) {
	b, _ := newBackend(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"code":"ACCESS_DENIED","message":"correo no autorizado"}`))
	})
	_, err := b.Quotations().List(context.Background(), 1, 10, "")
	assert.ErrorIs(t, err, domain.ErrAccessDenied)
	assert.NotErrorIs(t, err, domain.ErrForbidden, "no debe confundirse con falta de rol")
}

func TestStatusNoMapeadoEsAPIError(t *testing.T) {
	var calls int32
	b, _ := newBackend(t, func(w http.ResponseWriter, _ *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte(`{"code":"UPSTREAM","message":"caído"}`))
	})
	_, err := b.Quotations().Stats(context.Background())

	var apiErr *backend.APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusBadGateway, apiErr.Status)
	assert.Equal(t, "caído", apiErr.Message)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls), "sin reintentos")
}

func TestSinTokenNoLlamaAlBackend(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) { called = true }))
	defer srv.Close()
	b := backend.NewClient(srv.URL, time.Second, nil).For(&countingTokens{err: ports.ErrNotSignedIn})

	_, err := b.Clients().List(context.Background())
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
	assert.False(t, called)
}

func TestQuotations_ListConBusqueda(t *testing.T) {
	b, _ := newBackend(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/quotations", r.URL.Path)
		assert.Equal(t, "2", r.URL.Query().Get("page"))
		assert.Equal(t, "10", r.URL.Query().Get("limit"))
		assert.Equal(t, "el sol", r.URL.Query().Get("search"))
		_, _ = w.Write([]byte(`{"data":[{"id":7,"client":{"id":3,"name":"El Sol"},"items":[],"total":"201.60","createdAt":"2024-03-05T10:00:00Z"}],"totalPages":3}`))
	})

	page, err := b.Quotations().List(context.Background(), 2, 10, "el sol")
	require.NoError(t, err)
	assert.Equal(t, 2, page.Page)
	assert.Equal(t, 3, page.TotalPages)
	require.Len(t, page.Items, 1)
	q := page.Items[0]
	assert.Equal(t, int64(7), q.ID)
	assert.Equal(t, int64(3), q.ClientID)
	assert.True(t, q.Total.Equal(decimal.RequireFromString("201.6")))
}

func TestQuotations_CreateEnviaSnapshot(t *testing.T) {
	b, _ := newBackend(t, func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		var body map[string]interface{}
		require.NoError(t, json.Unmarshal(raw, &body))
		assert.Equal(t, float64(3), body["clientId"])
		assert.Equal(t, "201.6", body["total"])
		items := body["items"].([]interface{})
		assert.Equal(t, "180", items[0].(map[string]interface{})["total"])

		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id":9,"clientId":3,"items":[],"total":"201.6"}`))
	})

	q := &entity.Quotation{
		ClientID: 3,
		Items:    []entity.LineItem{{Quantity: 2, UnitPrice: decimal.NewFromInt(100), DiscountPercent: decimal.NewFromInt(10), LineTotal: decimal.NewFromInt(180)}},
		Subtotal: decimal.NewFromInt(180),
		Tax:      decimal.RequireFromString("21.6"),
		Total:    decimal.RequireFromString("201.6"),
	}
	saved, err := b.Quotations().Create(context.Background(), q)
	require.NoError(t, err)
	assert.Equal(t, int64(9), saved.ID)
}

func TestUsers_RevokeEscapaCorreo(t *testing.T) {
	b, _ := newBackend(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "/api/users/authorized/ana+1@example.com", r.URL.Path)
		w.WriteHeader(http.StatusNoContent)
	})
	require.NoError(t, b.Users().Revoke(context.Background(), "ana+1@example.com"))
}

func TestObserverRecibeRuta(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	var route string
	var status int
	c := backend.NewClient(srv.URL, time.Second, nil, backend.WithObserver(func(_ string, r string, s int, _ time.Duration) {
		route, status = r, s
	}))
	_, err := c.For(&countingTokens{}).Clients().List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "/clients", route)
	assert.Equal(t, http.StatusOK, status)
}
