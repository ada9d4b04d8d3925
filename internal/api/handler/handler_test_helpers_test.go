package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/edvin/cdcadmin/internal/api/middleware"
	"github.com/edvin/cdcadmin/internal/cdc"
	"github.com/edvin/cdcadmin/internal/core"
	"github.com/edvin/cdcadmin/internal/store"
)

// newRequest creates a new HTTP request with an optional JSON body.
func newRequest(method, target string, body any) *http.Request {
	var buf bytes.Buffer
	if body != nil {
		json.NewEncoder(&buf).Encode(body)
	}
	r := httptest.NewRequest(method, target, &buf)
	r.Header.Set("Content-Type", "application/json")
	return r
}

// newRequestRaw creates a new HTTP request with a raw string body.
func newRequestRaw(method, target, body string) *http.Request {
	r := httptest.NewRequest(method, target, bytes.NewBufferString(body))
	r.Header.Set("Content-Type", "application/json")
	return r
}

// withChiURLParam adds a chi URL parameter to the request context.
func withChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// errorBody is the decoded error reply.
type errorBody struct {
	Error  string `json:"error"`
	Fields []struct {
		Field   string `json:"field"`
		Message string `json:"message"`
	} `json:"fields"`
}

func decodeErrorResponse(rec *httptest.ResponseRecorder) errorBody {
	var body errorBody
	json.Unmarshal(rec.Body.Bytes(), &body)
	return body
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(rec.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode body %q: %v", rec.Body.String(), err)
	}
	return v
}

// ---------- Fake CDC backend ----------

type fakeCall struct {
	Path string
	Body []byte
}

// fakeCDC serves canned JSON replies for backend routes and records calls.
type fakeCDC struct {
	mux *http.ServeMux
	srv *httptest.Server

	mu    sync.Mutex
	calls map[string][]fakeCall
}

func newFakeCDC(t *testing.T) *fakeCDC {
	t.Helper()
	f := &fakeCDC{mux: http.NewServeMux(), calls: map[string][]fakeCall{}}
	f.srv = httptest.NewServer(f.mux)
	t.Cleanup(f.srv.Close)
	return f
}

// reply registers a JSON response for pattern, e.g. "GET /api/v1/connections".
func (f *fakeCDC) reply(pattern string, status int, body any) {
	f.mux.HandleFunc(pattern, func(w http.ResponseWriter, r *http.Request) {
		data, _ := io.ReadAll(r.Body)
		f.mu.Lock()
		f.calls[pattern] = append(f.calls[pattern], fakeCall{Path: r.URL.RequestURI(), Body: data})
		f.mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		if body != nil {
			json.NewEncoder(w).Encode(body)
		}
	})
}

func (f *fakeCDC) called(pattern string) []fakeCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]fakeCall(nil), f.calls[pattern]...)
}

// lastBody decodes the body of the most recent call to pattern.
func (f *fakeCDC) lastBody(t *testing.T, pattern string) map[string]any {
	t.Helper()
	calls := f.called(pattern)
	if len(calls) == 0 {
		t.Fatalf("no calls to %s", pattern)
	}
	var m map[string]any
	if err := json.Unmarshal(calls[len(calls)-1].Body, &m); err != nil {
		t.Fatalf("decode %s body: %v", pattern, err)
	}
	return m
}

var testNow = time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)

func newTestServices(t *testing.T, f *fakeCDC) *core.Services {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	st := store.New(ctx, zerolog.Nop(), store.WithClock(func() time.Time { return testNow }))
	return core.NewServices(cdc.NewClient(f.srv.URL, "service-token"), st, time.UTC)
}

// authed runs h behind the auth middleware, verifying tokens against f's
// GET /api/v1/auth/me reply.
func authed(f *fakeCDC, h http.HandlerFunc) http.Handler {
	verifier := cdc.NewClient(f.srv.URL, "service-token")
	return middleware.Auth(verifier, time.Minute, func() time.Time { return testNow })(h)
}

func withBearer(r *http.Request, raw string) *http.Request {
	r.Header.Set("Authorization", "Bearer "+raw)
	return r
}
