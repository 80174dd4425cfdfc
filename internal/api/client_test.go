// ABOUTME: Tests for the service transport
// ABOUTME: Uses httptest to mock service responses and verify classification

package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/Games-on/arena-cli/internal/notify"
)

// memCreds is an in-memory CredentialStore for tests.
type memCreds struct {
	mu    sync.Mutex
	token string
}

func (m *memCreds) Token() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.token
}

func (m *memCreds) Clear() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	had := m.token != ""
	m.token = ""
	return had
}

func newTestClient(url string, creds CredentialStore) *Client {
	return New(url, 5*time.Second, creds, notify.New())
}

func TestGet_UnwrapsEnvelope(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"success":true,"message":"ok","data":{"id":7,"name":"spring cup"}}`))
	}))
	defer server.Close()

	c := newTestClient(server.URL, nil)
	var out struct {
		ID   int    `json:"id"`
		Name string `json:"name"`
	}
	if err := c.Get(context.Background(), "/api/tournaments/7", &out); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.ID != 7 || out.Name != "spring cup" {
		t.Errorf("unexpected payload: %+v", out)
	}
}

func TestGet_BarePayload(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"id":1},{"id":2}]`))
	}))
	defer server.Close()

	c := newTestClient(server.URL, nil)
	var out []struct {
		ID int `json:"id"`
	}
	if err := c.Get(context.Background(), "/api/tournaments", &out); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out) != 2 {
		t.Errorf("expected 2 items, got %d", len(out))
	}
}

func TestSend_AttachesBearerAndRequestID(t *testing.T) {
	var auth, reqID string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		reqID = r.Header.Get("X-Request-Id")
		w.Write([]byte(`{"success":true}`))
	}))
	defer server.Close()

	c := newTestClient(server.URL, &memCreds{token: "tok-123"})
	if err := c.Get(context.Background(), "/api/tournaments", nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if auth != "Bearer tok-123" {
		t.Errorf("expected bearer header, got %q", auth)
	}
	if reqID == "" {
		t.Error("expected X-Request-Id header, got none")
	}
}

func TestClassification(t *testing.T) {
	cases := []struct {
		status int
		kind   Kind
	}{
		{http.StatusForbidden, KindPermission},
		{http.StatusNotFound, KindNotFound},
		{http.StatusUnprocessableEntity, KindValidation},
		{http.StatusInternalServerError, KindServer},
		{http.StatusTeapot, KindUnknown},
	}
	for _, tc := range cases {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(tc.status)
			w.Write([]byte(`{"message":"nope"}`))
		}))

		c := newTestClient(server.URL, nil)
		err := c.Get(context.Background(), "/api/tournaments", nil)
		if !IsKind(err, tc.kind) {
			t.Errorf("status %d: expected kind %s, got %v", tc.status, tc.kind, err)
		}
		server.Close()
	}
}

func TestValidation_CarriesFieldErrors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write([]byte(`{"message":"invalid","errors":{"name":["is required"],"maxTeams":["must be positive"]}}`))
	}))
	defer server.Close()

	c := newTestClient(server.URL, nil)
	err := c.Post(context.Background(), "/api/tournaments", map[string]string{}, nil)

	apiErr, ok := err.(*Error)
	if !ok {
		t.Fatalf("expected *Error, got %T", err)
	}
	if apiErr.Kind != KindValidation {
		t.Errorf("expected validation kind, got %s", apiErr.Kind)
	}
	if len(apiErr.Fields["name"]) != 1 || apiErr.Fields["name"][0] != "is required" {
		t.Errorf("expected field errors, got %+v", apiErr.Fields)
	}
}

func TestUnauthorized_ExpiresSessionOnce(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"message":"expired"}`))
	}))
	defer server.Close()

	creds := &memCreds{token: "tok"}
	c := newTestClient(server.URL, creds)

	var fired int
	c.OnSessionExpired(func() { fired++ })

	// Two consecutive 401s: the first clears the credential and fires the
	// hook; the second finds nothing to clear and stays silent.
	err := c.Get(context.Background(), "/api/v1/users", nil)
	if !IsKind(err, KindAuth) {
		t.Fatalf("expected auth error, got %v", err)
	}
	_ = c.Get(context.Background(), "/api/v1/users", nil)

	if fired != 1 {
		t.Errorf("expected expiry hook to fire once, fired %d times", fired)
	}
	if creds.Token() != "" {
		t.Error("expected credential to be cleared")
	}
}

func TestUnauthorized_LoginEndpointExempt(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"message":"bad credentials"}`))
	}))
	defer server.Close()

	creds := &memCreds{token: "existing"}
	c := newTestClient(server.URL, creds)

	var fired int
	c.OnSessionExpired(func() { fired++ })

	err := c.Post(context.Background(), "/api/v1/auth/login", map[string]string{}, nil)
	if !IsKind(err, KindAuth) {
		t.Fatalf("expected auth error, got %v", err)
	}
	if fired != 0 {
		t.Error("login rejection must not tear down the session")
	}
	if creds.Token() != "existing" {
		t.Error("login rejection must not clear an existing credential")
	}
}

func TestSuccessFalse_IsFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success":false,"message":"tournament is full"}`))
	}))
	defer server.Close()

	c := newTestClient(server.URL, nil)
	err := c.Get(context.Background(), "/api/tournaments/1", nil)

	apiErr, ok := err.(*Error)
	if !ok {
		t.Fatalf("expected *Error, got %T", err)
	}
	if apiErr.Kind != KindUnknown || apiErr.Message != "tournament is full" {
		t.Errorf("unexpected error: %+v", apiErr)
	}
}

func TestTimeout_IsNetworkError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer server.Close()

	c := New(server.URL, 20*time.Millisecond, nil, notify.New())
	err := c.Get(context.Background(), "/api/tournaments", nil)
	if !IsKind(err, KindNetwork) {
		t.Errorf("expected network error, got %v", err)
	}
}

func TestConnectionRefused_IsNetworkError(t *testing.T) {
	c := newTestClient("http://127.0.0.1:1", nil)
	err := c.Get(context.Background(), "/health", nil)
	if !IsKind(err, KindNetwork) {
		t.Errorf("expected network error, got %v", err)
	}
}

func TestDecodePagination(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success":true,"data":[],"pagination":{"currentPage":2,"totalPages":5}}`))
	}))
	defer server.Close()

	c := newTestClient(server.URL, nil)
	resp, err := c.Do(context.Background(), http.MethodGet, "/api/v1/news", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var pg struct {
		CurrentPage int `json:"currentPage"`
		TotalPages  int `json:"totalPages"`
	}
	if err := resp.DecodePagination(&pg); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if pg.CurrentPage != 2 || pg.TotalPages != 5 {
		t.Errorf("unexpected pagination: %+v", pg)
	}
}

func TestUpload_MultipartForm(t *testing.T) {
	var field, name, content string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("parse multipart: %v", err)
			return
		}
		for key, headers := range r.MultipartForm.File {
			field = key
			for _, h := range headers {
				name = h.Filename
				f, _ := h.Open()
				var buf [64]byte
				n, _ := f.Read(buf[:])
				content = string(buf[:n])
				f.Close()
			}
		}
		json.NewEncoder(w).Encode(map[string]any{"success": true, "data": []string{"/uploads/a.png"}})
	}))
	defer server.Close()

	c := newTestClient(server.URL, nil)
	resp, err := c.Upload(context.Background(), "/api/v1/news/uploads/3", "files", map[string][]byte{
		"a.png": []byte("png-bytes"),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if field != "files" || name != "a.png" || content != "png-bytes" {
		t.Errorf("unexpected form: field=%q name=%q content=%q", field, name, content)
	}

	var urls []string
	if err := resp.Decode(&urls); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(urls) != 1 {
		t.Errorf("expected 1 url, got %v", urls)
	}
}
