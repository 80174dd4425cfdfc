// ABOUTME: HTTP transport for the Arena tournament service API
// ABOUTME: Attaches credentials, normalizes response envelopes, classifies failures

package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Games-on/arena-cli/internal/notify"
)

// CredentialStore is the transport's view of the token store: read the
// current bearer token before each request, clear it on server-declared
// expiry. Clear reports whether a credential was actually present, which is
// what keeps the expiry hook from firing more than once per expiry event.
type CredentialStore interface {
	Token() string
	Clear() bool
}

// Response is the normalized service response. The service wraps payloads as
// {success, message, data} but some endpoints return bare arrays or objects;
// both shapes normalize to this struct so nothing downstream ever sniffs
// response shapes again.
type Response struct {
	Data       json.RawMessage
	Message    string
	Pagination json.RawMessage
}

// Decode unmarshals the response payload into out.
func (r *Response) Decode(out any) error {
	if len(r.Data) == 0 {
		return nil
	}
	if err := json.Unmarshal(r.Data, out); err != nil {
		return fmt.Errorf("invalid response payload: %w", err)
	}
	return nil
}

// DecodePagination unmarshals the listing metadata, when the endpoint sent
// any, into out.
func (r *Response) DecodePagination(out any) error {
	if len(r.Pagination) == 0 {
		return nil
	}
	if err := json.Unmarshal(r.Pagination, out); err != nil {
		return fmt.Errorf("invalid pagination payload: %w", err)
	}
	return nil
}

// Client is the single chokepoint for all HTTP calls to the service.
type Client struct {
	baseURL    string
	httpClient *http.Client
	creds      CredentialStore
	notifier   *notify.Notifier

	mu        sync.Mutex
	onExpired func()
}

// New creates a client for the service at baseURL. Requests that do not
// complete within timeout are abandoned and classified as network errors.
func New(baseURL string, timeout time.Duration, creds CredentialStore, notifier *notify.Notifier) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
		creds:    creds,
		notifier: notifier,
	}
}

// OnSessionExpired registers the hook invoked when any endpoint other than
// login/register answers 401 while a credential was held. The credential has
// already been cleared when the hook runs. Fired at most once per expiry.
func (c *Client) OnSessionExpired(fn func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onExpired = fn
}

// Get issues a GET and decodes the normalized payload into out (if non-nil).
func (c *Client) Get(ctx context.Context, path string, out any) error {
	return c.doJSON(ctx, http.MethodGet, path, nil, out)
}

// Post issues a POST with a JSON body and decodes the payload into out.
func (c *Client) Post(ctx context.Context, path string, body, out any) error {
	return c.doJSON(ctx, http.MethodPost, path, body, out)
}

// Put issues a PUT with a JSON body and decodes the payload into out.
func (c *Client) Put(ctx context.Context, path string, body, out any) error {
	return c.doJSON(ctx, http.MethodPut, path, body, out)
}

// Delete issues a DELETE and decodes the payload into out (if non-nil).
func (c *Client) Delete(ctx context.Context, path string, out any) error {
	return c.doJSON(ctx, http.MethodDelete, path, nil, out)
}

func (c *Client) doJSON(ctx context.Context, method, path string, body, out any) error {
	resp, err := c.Do(ctx, method, path, body)
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	return resp.Decode(out)
}

// Do issues a request and returns the normalized response. A JSON body is
// marshaled from body when non-nil.
func (c *Client) Do(ctx context.Context, method, path string, body any) (*Response, error) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return c.send(req)
}

// Upload sends files as a multipart form under the given field name and
// returns the normalized response. Used for news attachments.
func (c *Client) Upload(ctx context.Context, path, field string, files map[string][]byte) (*Response, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for name, content := range files {
		part, err := w.CreateFormFile(field, name)
		if err != nil {
			return nil, fmt.Errorf("failed to build upload form: %w", err)
		}
		if _, err := part.Write(content); err != nil {
			return nil, fmt.Errorf("failed to build upload form: %w", err)
		}
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("failed to build upload form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, &buf)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", w.FormDataContentType())
	return c.send(req)
}

func (c *Client) send(req *http.Request) (*Response, error) {
	if c.creds != nil {
		if token := c.creds.Token(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}
	req.Header.Set("X-Request-Id", uuid.NewString())

	source := req.Method + " " + req.URL.Path

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, c.networkError(req.Context(), source, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, c.networkError(req.Context(), source, err)
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return c.normalizeSuccess(source, raw)
	}
	return nil, c.handleFailure(req.URL.Path, source, resp.StatusCode, raw)
}

// networkError classifies transport-level failures: nothing was received, so
// the failure is a network error regardless of cause (timeout included).
func (c *Client) networkError(ctx context.Context, source string, err error) error {
	msg := userMessage(KindNetwork)
	if ctx.Err() == context.DeadlineExceeded {
		msg = "Request timed out. Please try again."
	}
	apiErr := &Error{Kind: KindNetwork, Message: msg}
	slog.Debug("request failed", "source", source, "error", err)
	c.notify(KindNetwork, source, msg)
	return apiErr
}

// normalizeSuccess unwraps the {success, message, data} envelope, tolerating
// bare payloads (arrays or objects without a success flag).
func (c *Client) normalizeSuccess(source string, raw []byte) (*Response, error) {
	if len(bytes.TrimSpace(raw)) == 0 {
		return &Response{}, nil
	}

	var env struct {
		Success    *bool           `json:"success"`
		Message    string          `json:"message"`
		Data       json.RawMessage `json:"data"`
		Pagination json.RawMessage `json:"pagination"`
	}
	if isJSONObject(raw) && json.Unmarshal(raw, &env) == nil && env.Success != nil {
		if !*env.Success {
			// 2xx with success=false is a contract violation; treat it
			// as an unclassified failure carrying the server message.
			msg := env.Message
			if msg == "" {
				msg = userMessage(KindUnknown)
			}
			c.notify(KindUnknown, source, msg)
			return nil, &Error{Kind: KindUnknown, Message: msg}
		}
		return &Response{Data: env.Data, Message: env.Message, Pagination: env.Pagination}, nil
	}

	// Bare payload: wrap it
	return &Response{Data: raw}, nil
}

func (c *Client) handleFailure(path, source string, status int, raw []byte) error {
	kind := classify(status)

	var body struct {
		Message string              `json:"message"`
		Error   string              `json:"error"`
		Errors  map[string][]string `json:"errors"`
	}
	_ = json.Unmarshal(raw, &body)

	msg := body.Message
	if msg == "" {
		msg = body.Error
	}
	if msg == "" {
		msg = userMessage(kind)
	}

	apiErr := &Error{Kind: kind, Status: status, Message: msg}
	if kind == KindValidation {
		apiErr.Fields = body.Errors
	}

	if kind == KindAuth {
		if isAuthEndpoint(path) {
			// Login/register rejections are the form's business, not a
			// session expiry; surface nothing globally.
			return apiErr
		}
		c.expireSession(source)
		return apiErr
	}

	c.notify(kind, source, msg)
	return apiErr
}

// expireSession clears the credential and fires the expiry hook. Clear
// reports whether a credential was held, so concurrent 401s collapse into a
// single teardown and the hook never loops.
func (c *Client) expireSession(source string) {
	if c.creds == nil || !c.creds.Clear() {
		return
	}
	slog.Info("session expired, credential cleared", "source", source)
	c.notify(KindAuth, "session", "Your session has expired. Please log in again.")

	c.mu.Lock()
	fn := c.onExpired
	c.mu.Unlock()
	if fn != nil {
		fn()
	}
}

func (c *Client) notify(kind Kind, source, msg string) {
	if c.notifier != nil {
		c.notifier.Error(kind.String(), source, msg)
	}
}

// isAuthEndpoint reports whether path is the login or register endpoint,
// whose 401 responses mean "bad credentials", not "session expired".
func isAuthEndpoint(path string) bool {
	return strings.Contains(path, "/auth/login") || strings.Contains(path, "/auth/register")
}

func isJSONObject(raw []byte) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) > 0 && trimmed[0] == '{'
}
