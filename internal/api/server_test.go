package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edvin/cdcadmin/internal/cdc"
	"github.com/edvin/cdcadmin/internal/config"
	"github.com/edvin/cdcadmin/internal/core"
	"github.com/edvin/cdcadmin/internal/model"
	"github.com/edvin/cdcadmin/internal/store"
)

type stubPinger struct{ err error }

func (p stubPinger) Ping(context.Context) error { return p.err }

func (p stubPinger) Me(context.Context) (*model.User, error) {
	return &model.User{ID: "1", Email: "ops@example.com"}, nil
}

func newTestServer(t *testing.T, backendURL string, backend Backend) *Server {
	t.Helper()
	s, _ := newTestServerWithServices(t, backendURL, backend)
	return s
}

func newTestServerWithServices(t *testing.T, backendURL string, backend Backend) (*Server, *core.Services) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	st := store.New(ctx, zerolog.Nop())
	client := cdc.NewClient(backendURL, "service-token")
	if backend == nil {
		backend = client
	}
	cfg := &config.Config{PageSize: 10, CORSOrigins: []string{"*"}, AuthCacheTTL: time.Minute}
	services := core.NewServices(client, st, time.UTC)
	return NewServer(zerolog.Nop(), cfg, services, backend, nil), services
}

func TestServer_Healthz(t *testing.T) {
	s := newTestServer(t, "http://127.0.0.1:0", stubPinger{})

	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestServer_Readyz(t *testing.T) {
	s := newTestServer(t, "http://127.0.0.1:0", stubPinger{})
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	s = newTestServer(t, "http://127.0.0.1:0", stubPinger{err: errors.New("connection refused")})
	rec = httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	var checks map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &checks))
	assert.Equal(t, "connection refused", checks["cdc_api"])
	assert.Equal(t, "ok", checks["store"])
}

func TestServer_DocsArePublic(t *testing.T) {
	s := newTestServer(t, "http://127.0.0.1:0", stubPinger{})

	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/docs/openapi.json", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, json.Valid(rec.Body.Bytes()))

	rec = httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/docs", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "/docs/openapi.json")
}

func TestServer_APIRequiresToken(t *testing.T) {
	s := newTestServer(t, "http://127.0.0.1:0", stubPinger{})

	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/connections", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestServer_ForwardsOperatorToken(t *testing.T) {
	var gotAuth string
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if r.URL.Path == "/api/v1/auth/me" {
			w.Write([]byte(`{"id":1,"email":"ops@example.com"}`))
			return
		}
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`[{"id":1,"name":"orders","database_type":"mysql"}]`))
	}))
	t.Cleanup(backend.Close)
	s := newTestServer(t, backend.URL, nil)

	r := httptest.NewRequest(http.MethodGet, "/api/v1/connections?search=ord", nil)
	r.Header.Set("Authorization", "Bearer operator-token")
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, r)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Bearer operator-token", gotAuth)
	var page struct {
		Total int `json:"total"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &page))
	assert.Equal(t, 1, page.Total)
}

func TestServer_RoutesIDParams(t *testing.T) {
	var gotPath string
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.WriteHeader(http.StatusNoContent)
	}))
	t.Cleanup(backend.Close)
	s := newTestServer(t, backend.URL, stubPinger{})

	r := httptest.NewRequest(http.MethodDelete, "/api/v1/pipelines/42", nil)
	r.Header.Set("Authorization", "Bearer operator-token")
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, r)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "/api/v1/etl/pipelines/42", gotPath)
}

func TestServer_LoadedListRejectsUnverifiedToken(t *testing.T) {
	var listCalls, meCalls atomic.Int32
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/api/v1/auth/me":
			meCalls.Add(1)
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"detail":"Could not validate credentials"}`))
		case "/api/v1/connections":
			listCalls.Add(1)
			w.Write([]byte(`[{"id":1,"name":"orders","database_type":"mysql"}]`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(backend.Close)
	s, services := newTestServerWithServices(t, backend.URL, nil)

	// The poller fills the store with the service token.
	require.NoError(t, services.Connection.Load(context.Background()))
	require.Equal(t, int32(1), listCalls.Load())

	r := httptest.NewRequest(http.MethodGet, "/api/v1/connections", nil)
	r.Header.Set("Authorization", "Bearer forged-token")
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, r)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.NotContains(t, rec.Body.String(), "orders")
	assert.Equal(t, int32(1), meCalls.Load())
	assert.Equal(t, int32(1), listCalls.Load())
}
