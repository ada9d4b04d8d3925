package cdc

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edvin/cdcadmin/internal/model"
)

// ---------- ListConnections ----------

func TestClient_ListConnections_BareArray(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/v1/connections", r.URL.Path)
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
		assert.NotEmpty(t, r.Header.Get("X-Request-ID"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"id":1,"name":"orders","database_type":"mysql","port":3306}]`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "test-token")
	conns, err := client.ListConnections(context.Background())
	require.NoError(t, err)
	require.Len(t, conns, 1)
	assert.Equal(t, model.ID("1"), conns[0].ID)
	assert.Equal(t, "orders", conns[0].Name)
	assert.Equal(t, 3306, conns[0].Port)
}

func TestClient_ListConnections_ItemsEnvelope(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"items":[{"id":"a"},{"id":"b"}],"has_more":false}`))
	}))
	defer srv.Close()

	conns, err := NewClient(srv.URL, "").ListConnections(context.Background())
	require.NoError(t, err)
	require.Len(t, conns, 2)
	assert.Equal(t, model.ID("b"), conns[1].ID)
}

func TestClient_ListConnections_EmptyBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	conns, err := NewClient(srv.URL, "").ListConnections(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, conns)
	assert.Empty(t, conns)
}

func TestClient_TokenFromContextOverridesDefault(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer user-token", r.Header.Get("Authorization"))
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	ctx := WithToken(context.Background(), "user-token")
	_, err := NewClient(srv.URL, "service-token").ListUsers(ctx)
	require.NoError(t, err)
}

// ---------- CreateConnection ----------

func TestClient_CreateConnection_SendsPayload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var payload map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.Equal(t, "orders", payload["name"])
		assert.Equal(t, "mysql", payload["database_type"])
		assert.Equal(t, float64(3306), payload["port"])
		assert.Equal(t, "s3cret", payload["password"])

		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"id":7,"name":"orders","database_type":"mysql"}`))
	}))
	defer srv.Close()

	conn, err := NewClient(srv.URL, "t").CreateConnection(context.Background(), model.ConnectionPayload{
		Name: "orders", DatabaseType: "mysql", ConnectionType: "source", Host: "db", Port: 3306,
		Database: "shop", Username: "root", Password: "s3cret",
	})
	require.NoError(t, err)
	assert.Equal(t, model.ID("7"), conn.ID)
}

func TestClient_CreateConnection_ErrorMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write([]byte(`{"detail":[{"loc":["body","port"],"msg":"invalid"}]}`))
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, "t").CreateConnection(context.Background(), model.ConnectionPayload{})
	require.Error(t, err)
	apiErr, ok := AsAPIError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusUnprocessableEntity, apiErr.StatusCode)
	assert.Equal(t, "body.port: invalid", apiErr.Message)
	assert.Contains(t, err.Error(), "status 422")
}

// ---------- TestConnection ----------

func TestClient_TestConnection_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/connections/42/test", r.URL.Path)
		w.Write([]byte(`{"success":true,"message":"Connected in 12ms"}`))
	}))
	defer srv.Close()

	res, err := NewClient(srv.URL, "t").TestConnection(context.Background(), "42")
	require.NoError(t, err)
	assert.Equal(t, model.TestSuccess, res.State)
	assert.Equal(t, "Connected in 12ms", res.Message)
	assert.False(t, res.TestedAt.IsZero())
}

func TestClient_TestConnection_SuccessFalseInBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success":false,"message":"authentication failed"}`))
	}))
	defer srv.Close()

	res, err := NewClient(srv.URL, "t").TestConnection(context.Background(), "42")
	require.NoError(t, err)
	assert.Equal(t, model.TestError, res.State)
	assert.Equal(t, "authentication failed", res.Message)
}

func TestClient_TestConnection_FailedWithDetailList(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success":false,"detail":[{"loc":["body","host"],"msg":"unreachable"},{"loc":["body","port"],"msg":"closed"}]}`))
	}))
	defer srv.Close()

	res, err := NewClient(srv.URL, "t").TestConnectionPayload(context.Background(), model.ConnectionPayload{Name: "x"})
	require.NoError(t, err)
	assert.Equal(t, model.TestError, res.State)
	assert.Equal(t, "body.host: unreachable, body.port: closed", res.Message)
}

func TestClient_TestConnection_FailedWithDetailObject(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"failed","detail":{"message":"Access denied for user 'cdc'"}}`))
	}))
	defer srv.Close()

	res, err := NewClient(srv.URL, "t").TestConnection(context.Background(), "42")
	require.NoError(t, err)
	assert.Equal(t, model.TestError, res.State)
	assert.Equal(t, "Access denied for user 'cdc'", res.Message)
}

func TestClient_TestConnection_FailedWithoutMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success":false}`))
	}))
	defer srv.Close()

	res, err := NewClient(srv.URL, "t").TestConnection(context.Background(), "42")
	require.NoError(t, err)
	assert.Equal(t, model.TestError, res.State)
	assert.Equal(t, "Connection test failed", res.Message)
}

func TestClient_TestConnection_FieldErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write([]byte(`{"detail":[{"loc":["body","port"],"msg":"invalid"}]}`))
	}))
	defer srv.Close()

	res, err := NewClient(srv.URL, "t").TestConnectionPayload(context.Background(), model.ConnectionPayload{Name: "x"})
	require.NoError(t, err)
	assert.Equal(t, model.TestError, res.State)
	assert.Equal(t, "body.port: invalid", res.Message)
}

func TestClient_TestConnection_UnparseableError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("bad gateway"))
	}))
	defer srv.Close()

	res, err := NewClient(srv.URL, "t").TestConnection(context.Background(), "1")
	require.NoError(t, err)
	assert.Equal(t, model.TestError, res.State)
	assert.Equal(t, "Connection test failed", res.Message)
}

func TestClient_TestConnection_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	_, err := NewClient(url, "t", WithTimeout(time.Second)).TestConnection(context.Background(), "1")
	require.Error(t, err)
}

// ---------- Pipelines & runs ----------

func TestClient_RunPipeline(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/v1/etl/pipelines/p1/run", r.URL.Path)
		w.Write([]byte(`{"id":"r1","pipeline_id":"p1","status":"running"}`))
	}))
	defer srv.Close()

	run, err := NewClient(srv.URL, "t").RunPipeline(context.Background(), "p1")
	require.NoError(t, err)
	assert.Equal(t, model.StatusRunning, run.Status)
}

func TestClient_ListRuns_FiltersByPipeline(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/etl/runs", r.URL.Path)
		assert.Equal(t, "p 1", r.URL.Query().Get("pipeline_id"))
		w.Write([]byte(`{"items":[{"id":1,"pipeline_id":"p 1","status":"success"}]}`))
	}))
	defer srv.Close()

	runs, err := NewClient(srv.URL, "t").ListRuns(context.Background(), "p 1")
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, model.ID("1"), runs[0].ID)
}

func TestClient_DeletePipeline_NoContent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	require.NoError(t, NewClient(srv.URL, "t").DeletePipeline(context.Background(), "p1"))
}

// ---------- Monitoring ----------

func TestClient_ListMetrics_SendsSince(t *testing.T) {
	since := time.Date(2026, 10, 9, 0, 0, 0, 0, time.UTC)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "2026-10-09T00:00:00Z", r.URL.Query().Get("since"))
		w.Write([]byte(`[{"timestamp":"2026-10-10T08:00:00Z","replicated":5,"synced":4,"errors":1}]`))
	}))
	defer srv.Close()

	samples, err := NewClient(srv.URL, "t").ListMetrics(context.Background(), since)
	require.NoError(t, err)
	require.Len(t, samples, 1)
	assert.Equal(t, int64(5), samples[0].Replicated)
}

func TestClient_Login(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("Authorization"))
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "ops@example.com", body["email"])
		w.Write([]byte(`{"access_token":"abc","token_type":"bearer"}`))
	}))
	defer srv.Close()

	s, err := NewClient(srv.URL, "").Login(context.Background(), "ops@example.com", "pw")
	require.NoError(t, err)
	assert.Equal(t, "abc", s.AccessToken)
}

func TestClient_RateLimitHonoursContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "t", WithRateLimit(0.001))
	_, err := client.ListRoles(context.Background())
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err = client.ListRoles(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rate limit")
}

// ---------- Ping ----------

func TestClient_Ping(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/health" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Write([]byte(`{"status":"healthy"}`))
	}))
	defer srv.Close()

	require.NoError(t, NewClient(srv.URL, "").Ping(context.Background()))
	require.Error(t, NewClient(srv.URL+"/missing", "").Ping(context.Background()))
}
