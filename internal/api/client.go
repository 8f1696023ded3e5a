package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

var (
	// ErrUnauthorized is returned when the backend rejects the bearer token
	ErrUnauthorized = errors.New("session expired, log in again")
	// ErrBadResponse is returned when the backend answers with something other than JSON
	ErrBadResponse = errors.New("the server returned an unexpected response")
)

// Error is a failure reported by the backend
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("request failed with status %d", e.Status)
	}
	return e.Message
}

// Client talks to the devmatch backend
type Client struct {
	baseURL string
	http    *http.Client
	token   string
	log     logrus.FieldLogger
}

// Option configures a Client
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithTimeout sets the timeout of the default HTTP client
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.http.Timeout = d
	}
}

// WithToken sets the bearer token sent with authenticated requests
func WithToken(token string) Option {
	return func(c *Client) {
		c.token = token
	}
}

// WithLogger sets the request logger
func WithLogger(l logrus.FieldLogger) Option {
	return func(c *Client) {
		if l != nil {
			c.log = l
		}
	}
}

// New returns a client for the backend rooted at baseURL (e.g. http://host:8000/api)
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 10 * time.Second},
		log:     logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// envelope is the common shape of backend responses
type envelope struct {
	Success     bool                `json:"success"`
	Message     string              `json:"message"`
	AccessToken string              `json:"access_token"`
	Errors      map[string]any      `json:"errors"`
	Usuario     *User               `json:"usuario"`
}

func (e *envelope) errorMessage() string {
	if e.Message != "" {
		return e.Message
	}
	if len(e.Errors) == 0 {
		return ""
	}

	fields := make([]string, 0, len(e.Errors))
	for field := range e.Errors {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	var lines []string
	for _, field := range fields {
		switch v := e.Errors[field].(type) {
		case []any:
			for _, msg := range v {
				lines = append(lines, fmt.Sprint(msg))
			}
		default:
			lines = append(lines, fmt.Sprint(v))
		}
	}
	return strings.Join(lines, "\n")
}

// newJSONRequest builds a request with a JSON body
func (c *Client) newJSONRequest(ctx context.Context, method, path string, body any) (*http.Request, error) {
	var r io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		r = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, r)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req, nil
}

// do sends req and decodes the response envelope. The raw body is read as
// text first; lenient decoding turns a non-JSON body into an empty
// envelope instead of ErrBadResponse.
func (c *Client) do(req *http.Request, authenticated, lenient bool) (*envelope, int, error) {
	if authenticated {
		if c.token == "" {
			return nil, 0, ErrUnauthorized
		}
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.log.WithError(err).Errorf("%s %s failed", req.Method, req.URL.Path)
		return nil, 0, fmt.Errorf("could not reach the server: %w", err)
	}
	defer resp.Body.Close()

	text, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("error reading response: %w", err)
	}

	c.log.WithFields(logrus.Fields{
		"status":   resp.StatusCode,
		"duration": time.Since(start),
	}).Debugf("%s %s", req.Method, req.URL.Path)

	if authenticated && resp.StatusCode == http.StatusUnauthorized {
		return &envelope{}, resp.StatusCode, ErrUnauthorized
	}

	var env envelope
	if len(bytes.TrimSpace(text)) > 0 {
		if err := json.Unmarshal(text, &env); err != nil {
			c.log.Debugf("response is not JSON: %s", text)
			if !lenient {
				return nil, resp.StatusCode, ErrBadResponse
			}
			env = envelope{}
		}
	}

	return &env, resp.StatusCode, nil
}

func isOK(status int) bool {
	return status >= 200 && status < 300
}
