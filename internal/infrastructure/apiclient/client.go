// Package apiclient is the single chokepoint for network calls made by the
// console. Every call resolves to a result.Result; nothing here returns a Go
// error or panics on a bad response.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/oauth2"

	"github.com/sactel/admin-console/internal/core/domain"
	"github.com/sactel/admin-console/internal/pkg/metrics"
	"github.com/sactel/admin-console/pkg/result"
)

const (
	defaultTimeout = 10 * time.Second
	maxBodyBytes   = 8 << 20
)

// Service selects one of the two configured base URLs.
type Service int

const (
	ServiceData Service = iota
	ServiceAuth
)

func (s Service) String() string {
	if s == ServiceAuth {
		return "auth"
	}
	return "data"
}

// Client issues requests against the data and auth services.
type Client struct {
	dataURL string
	authURL string
	http    *http.Client
	timeout time.Duration
	tokens  oauth2.TokenSource
	log     zerolog.Logger
}

// ClientOption customises a Client.
type ClientOption func(*Client)

// WithHTTPClient overrides the underlying http.Client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithTimeout sets the per-call deadline applied when the caller's context
// has none.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithTokenSource attaches a bearer token to every call that does not set
// one explicitly.
func WithTokenSource(ts oauth2.TokenSource) ClientOption {
	return func(c *Client) { c.tokens = ts }
}

// WithLogger sets the logger used for per-call debug lines.
func WithLogger(log zerolog.Logger) ClientOption {
	return func(c *Client) { c.log = log }
}

// New returns a client for the given base URLs.
func New(dataURL, authURL string, opts ...ClientOption) *Client {
	c := &Client{
		dataURL: strings.TrimRight(dataURL, "/"),
		authURL: strings.TrimRight(authURL, "/"),
		http:    &http.Client{},
		timeout: defaultTimeout,
		log:     zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type request struct {
	service Service
	method  string
	body    any
	header  http.Header
	bearer  string
	anon    bool
}

// RequestOption customises a single call.
type RequestOption func(*request)

// WithService selects the base URL. The default is ServiceData.
func WithService(s Service) RequestOption {
	return func(r *request) { r.service = s }
}

// WithMethod sets the HTTP method. The default is GET.
func WithMethod(m string) RequestOption {
	return func(r *request) { r.method = m }
}

// WithBody sets a value to be sent as the JSON request body.
func WithBody(v any) RequestOption {
	return func(r *request) { r.body = v }
}

// WithHeader sets a request header. Caller headers win over defaults.
func WithHeader(key, value string) RequestOption {
	return func(r *request) { r.header.Set(key, value) }
}

// WithBearer sends token as the Authorization header of this call.
func WithBearer(token string) RequestOption {
	return func(r *request) { r.bearer = token }
}

// Anonymous suppresses the client's token source for this call.
func Anonymous() RequestOption {
	return func(r *request) { r.anon = true }
}

// Do performs one request and decodes a 2xx JSON body into T. Empty bodies
// decode to the zero T. Non-2xx responses fail with a message naming the
// status code.
func Do[T any](ctx context.Context, c *Client, path string, opts ...RequestOption) result.Result[T] {
	req := request{service: ServiceData, method: http.MethodGet, header: http.Header{}}
	for _, opt := range opts {
		opt(&req)
	}

	ctx, cancel := ensureTimeout(ctx, c.timeout)
	defer cancel()

	start := time.Now()
	status, raw, failure := c.roundTrip(ctx, path, &req)
	elapsed := time.Since(start)

	outcome := strconv.Itoa(status)
	if status == 0 && failure != nil {
		outcome = string(failure.Kind)
	}
	metrics.ClientRequestsTotal.WithLabelValues(req.service.String(), outcome).Inc()
	metrics.ClientRequestDuration.WithLabelValues(req.service.String()).Observe(elapsed.Seconds())

	c.log.Debug().
		Str("service", req.service.String()).
		Str("method", req.method).
		Str("path", path).
		Int("status", status).
		Dur("duration", elapsed).
		Msg("api call")

	if failure != nil {
		return result.Fail[T](failure)
	}

	var out T
	if len(bytes.TrimSpace(raw)) == 0 {
		return result.Ok(out)
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return result.FailWith[T](result.KindDecode, status, "invalid response body: "+err.Error(), err)
	}
	return result.Ok(out)
}

func (c *Client) roundTrip(ctx context.Context, path string, req *request) (int, []byte, *result.Failure) {
	var body io.Reader
	if req.body != nil {
		buf, err := json.Marshal(req.body)
		if err != nil {
			return 0, nil, result.NewFailure(result.KindEncode, 0, "", err)
		}
		body = bytes.NewReader(buf)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.method, c.url(req.service, path), body)
	if err != nil {
		return 0, nil, result.NewFailure(result.KindTransport, 0, "", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	for k, vs := range req.header {
		httpReq.Header[k] = vs
	}
	c.authorize(httpReq, req)

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return 0, nil, classify(ctx, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return resp.StatusCode, nil, classify(ctx, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return resp.StatusCode, raw, result.StatusFailure(resp.StatusCode, errorDetail(raw))
	}
	return resp.StatusCode, raw, nil
}

func (c *Client) authorize(httpReq *http.Request, req *request) {
	if httpReq.Header.Get("Authorization") != "" {
		return
	}
	if req.bearer != "" {
		(&oauth2.Token{AccessToken: req.bearer, TokenType: "Bearer"}).SetAuthHeader(httpReq)
		return
	}
	if req.anon || c.tokens == nil {
		return
	}
	tok, err := c.tokens.Token()
	if err != nil {
		if !errors.Is(err, domain.ErrNoToken) {
			c.log.Debug().Err(err).Msg("token source failed, sending request without bearer")
		}
		return
	}
	tok.SetAuthHeader(httpReq)
}

func (c *Client) url(s Service, path string) string {
	base := c.dataURL
	if s == ServiceAuth {
		base = c.authURL
	}
	return base + "/" + strings.TrimLeft(path, "/")
}

// errorDetail pulls the message out of a {"error": "..."} body, if present.
func errorDetail(raw []byte) string {
	var env struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if json.Unmarshal(raw, &env) != nil {
		return ""
	}
	if env.Error != "" {
		return env.Error
	}
	return env.Message
}

func classify(ctx context.Context, err error) *result.Failure {
	switch {
	case errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded):
		return result.NewFailure(result.KindTimeout, 0, "request timed out", err)
	case errors.Is(err, context.Canceled) || errors.Is(ctx.Err(), context.Canceled):
		return result.NewFailure(result.KindCanceled, 0, "request canceled", err)
	}
	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		return result.NewFailure(result.KindTimeout, 0, "request timed out", err)
	}
	return result.NewFailure(result.KindTransport, 0, "", err)
}

func ensureTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if ctx == nil {
		ctx = context.Background()
	}

	if _, ok := ctx.Deadline(); ok {
		return ctx, func() {}
	}

	return context.WithTimeout(ctx, timeout)
}
