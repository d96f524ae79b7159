package client

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"report2resolve-be/models"
	"report2resolve-be/workflow"
)

// GenericFailure is shown when the server gives no detail.
const GenericFailure = "API request failed"

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the transport, e.g. with httptest's client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// WithSessionStore sets where the principal is kept. The default is in memory.
func WithSessionStore(s SessionStore) Option {
	return func(c *Client) { c.sessions = s }
}

// Client is safe for concurrent use.
type Client struct {
	baseURL  string
	http     *http.Client
	sessions SessionStore

	mu    sync.RWMutex
	token string
}

func New(cfg Config, opts ...Option) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	c := &Client{
		baseURL:  cfg.BaseURL(),
		http:     &http.Client{Timeout: timeout},
		sessions: &MemorySession{},
	}
	for _, opt := range opts {
		opt(c)
	}
	if tk, ok := c.sessions.(tokenKeeper); ok {
		if token, err := tk.Token(); err == nil {
			c.token = token
		}
	}
	return c
}

// Principal returns the stored principal. A store that cannot be read counts
// as signed out.
func (c *Client) Principal() *models.Principal {
	p, err := c.sessions.Load()
	if err != nil {
		logrus.WithError(err).Warn("session unreadable, treating as signed out")
		return nil
	}
	return p
}

// Enter asks the guard whether the stored principal may open portal.
func (c *Client) Enter(portal models.Portal) workflow.Decision {
	return workflow.Decide(c.Principal(), portal)
}

func (c *Client) setToken(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

func (c *Client) bearer() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

type apiError struct {
	Error  string `json:"error"`
	Detail string `json:"detail"`
}

// do sends in as JSON and decodes a 2xx body into out. Failures come back as
// *workflow.Error: Transport when the server could not be reached, otherwise
// the kind the server reported with its detail as the message.
func (c *Client) do(ctx context.Context, op, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return workflow.Wrap(workflow.KindValidation, op, err)
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return workflow.Wrap(workflow.KindUnknown, op, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())
	if token := c.bearer(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return &workflow.Error{Kind: workflow.KindTransport, Op: op, Message: "server unreachable", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return responseError(op, resp)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &workflow.Error{Kind: workflow.KindTransport, Op: op, Message: "malformed response", Err: err}
	}
	return nil
}

func responseError(op string, resp *http.Response) error {
	var body apiError
	// An unreadable body still yields a generic failure.
	_ = json.NewDecoder(resp.Body).Decode(&body)

	kind := workflow.ParseKind(body.Error)
	if kind == workflow.KindUnknown {
		kind = kindForStatus(resp.StatusCode)
	}
	msg := body.Detail
	if msg == "" {
		msg = GenericFailure
	}
	return workflow.E(kind, op, msg)
}

func kindForStatus(code int) workflow.Kind {
	switch code {
	case http.StatusBadRequest:
		return workflow.KindValidation
	case http.StatusUnauthorized, http.StatusForbidden:
		return workflow.KindAuthorization
	case http.StatusNotFound:
		return workflow.KindNotFound
	case http.StatusConflict:
		return workflow.KindConflict
	case http.StatusUnprocessableEntity:
		return workflow.KindInvalidTarget
	case http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return workflow.KindTransport
	}
	return workflow.KindUnknown
}
