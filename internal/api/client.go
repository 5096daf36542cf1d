package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/sirupsen/logrus"

	"github.com/jonathan/prep-agent/internal/schemas"
	"github.com/jonathan/prep-agent/internal/types"
)

// DefaultTimeout is the default HTTP request timeout.
const DefaultTimeout = 30 * time.Second

// DefaultUserAgent is the user agent string for API requests.
const DefaultUserAgent = "Mozilla/5.0 (compatible; PrepAgent/1.0)"

// apiPrefix is the versioned path prefix of the prep service.
const apiPrefix = "/api/v1"

// Options configures the client behavior.
type Options struct {
	Timeout   time.Duration
	UserAgent string
	// Token is an optional bearer token attached to every request.
	Token string
	// Strict enables JSON Schema validation of response payloads.
	Strict bool
	Logger *logrus.Logger
}

// DefaultOptions returns sensible defaults for talking to the service.
func DefaultOptions() *Options {
	return &Options{
		Timeout:   DefaultTimeout,
		UserAgent: DefaultUserAgent,
	}
}

// Client talks to the prep service. All operations are asynchronous
// from the UI's point of view and single-attempt: retry policy belongs
// to the caller, not here.
type Client struct {
	baseURL string
	http    *http.Client
	opts    Options
	log     *logrus.Logger
}

// NewClient creates a client for the service at baseURL.
func NewClient(baseURL string, opts *Options) (*Client, error) {
	if opts == nil {
		opts = DefaultOptions()
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.UserAgent == "" {
		opts.UserAgent = DefaultUserAgent
	}

	parsed, err := url.Parse(baseURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return nil, &ValidationError{Field: "base_url", Message: fmt.Sprintf("invalid base URL %q", baseURL), Cause: err}
	}

	log := opts.Logger
	if log == nil {
		log = logrus.New()
		log.SetLevel(logrus.WarnLevel)
	}

	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: opts.Timeout},
		opts:    *opts,
		log:     log,
	}, nil
}

// checkToken fails fast on an expired bearer token so the caller gets a
// recoverable validation error instead of a round trip to a 401. The
// token is parsed unverified; signature checking is the server's job.
func (c *Client) checkToken() error {
	if c.opts.Token == "" {
		return nil
	}
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(c.opts.Token, claims); err != nil {
		// Opaque (non-JWT) tokens pass through untouched.
		return nil
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return nil
	}
	if exp.Before(time.Now()) {
		return &ValidationError{Field: "token", Message: "auth token is expired, log in again"}
	}
	return nil
}

// do executes one JSON request against the service and decodes the
// response envelope. resource names what a 404 refers to.
func (c *Client) do(ctx context.Context, method, path, resource string, query url.Values, body any) (*types.Envelope, error) {
	if err := c.checkToken(); err != nil {
		return nil, err
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, &ValidationError{Message: "request body is not serializable", Cause: err}
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.endpoint(path, query), reader)
	if err != nil {
		return nil, &RemoteError{Message: "failed to create request", Cause: err}
	}
	req.Header.Set("User-Agent", c.opts.UserAgent)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.opts.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.opts.Token)
	}

	return c.execute(req, resource)
}

// doMultipart executes one multipart/form-data request, used by the
// extraction endpoints that accept a file or a pasted text field.
func (c *Client) doMultipart(ctx context.Context, path, resource string, query url.Values, fields map[string]string, fileName string, file []byte) (*types.Envelope, error) {
	if err := c.checkToken(); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	for key, value := range fields {
		if err := writer.WriteField(key, value); err != nil {
			return nil, &RemoteError{Message: "failed to build form", Cause: err}
		}
	}
	if file != nil {
		part, err := writer.CreateFormFile("file", fileName)
		if err != nil {
			return nil, &RemoteError{Message: "failed to build form file", Cause: err}
		}
		if _, err := part.Write(file); err != nil {
			return nil, &RemoteError{Message: "failed to write form file", Cause: err}
		}
	}
	if err := writer.Close(); err != nil {
		return nil, &RemoteError{Message: "failed to finalize form", Cause: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint(path, query), &buf)
	if err != nil {
		return nil, &RemoteError{Message: "failed to create request", Cause: err}
	}
	req.Header.Set("User-Agent", c.opts.UserAgent)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", writer.FormDataContentType())
	if c.opts.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.opts.Token)
	}

	return c.execute(req, resource)
}

func (c *Client) endpoint(path string, query url.Values) string {
	u := c.baseURL + apiPrefix + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	return u
}

func (c *Client) execute(req *http.Request, resource string) (*types.Envelope, error) {
	started := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &RemoteError{Message: "request failed", Cause: err}
	}
	defer func() { _ = resp.Body.Close() }()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &RemoteError{Status: resp.StatusCode, Message: "failed to read response body", Cause: err}
	}

	c.log.WithFields(logrus.Fields{
		"method":   req.Method,
		"path":     req.URL.Path,
		"status":   resp.StatusCode,
		"duration": time.Since(started).String(),
	}).Debug("api request")

	if resp.StatusCode == http.StatusNotFound {
		return nil, &NotFoundError{Resource: resource}
	}

	var env types.Envelope
	if err := json.Unmarshal(bodyBytes, &env); err != nil {
		return nil, &RemoteError{Status: resp.StatusCode, Message: "malformed response envelope", Cause: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &RemoteError{Status: resp.StatusCode, Message: env.Message}
	}
	if !env.Success {
		return nil, &RemoteError{Status: resp.StatusCode, Message: env.Message}
	}

	return &env, nil
}

// decode unmarshals the envelope payload into out, optionally checking
// it against the named JSON Schema first. A payload that doesn't match
// its schema classifies as a malformed envelope.
func (c *Client) decode(env *types.Envelope, schemaName string, out any) error {
	if !env.HasPayload() {
		return &RemoteError{Message: "response payload is missing"}
	}
	if c.opts.Strict && schemaName != "" {
		if err := schemas.ValidatePayload(schemaName, env.Payload); err != nil {
			return &RemoteError{Message: "malformed response envelope", Cause: err}
		}
	}
	if err := json.Unmarshal(env.Payload, out); err != nil {
		return &RemoteError{Message: "malformed response envelope", Cause: err}
	}
	return nil
}
