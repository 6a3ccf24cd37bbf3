package altegio

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"
)

const (
	defaultBaseURL       = "https://api.alteg.io/api/v1"
	acceptHeader         = "application/vnd.api.v2+json"
	maxResponseSizeBytes = 4 << 20
)

var (
	ErrNotAuthenticated = errors.New("altegio: user token is not set")
	ErrEmptyCredentials = errors.New("altegio: email and password are required")
)

// APIError is returned when Altegio answers with a non-2xx status or an
// envelope whose success flag is false.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("altegio: http status=%d", e.StatusCode)
	}
	return fmt.Sprintf("altegio: %s (status=%d)", e.Message, e.StatusCode)
}

type Config struct {
	APIBase      string        `envconfig:"API_BASE" default:"https://api.alteg.io/api/v1"`
	PartnerToken string        `split_words:"true" required:"true"`
	UserToken    string        `split_words:"true"`
	Timeout      time.Duration `split_words:"true" default:"30s"`
}

type Option func(*Client)

func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// Client talks to the Altegio REST API. The partner token is fixed for the
// process; the user token is obtained by Login and kept in memory only.
type Client struct {
	baseURL      string
	partnerToken string
	httpClient   *http.Client

	mu        sync.RWMutex
	userToken string
}

type envelope struct {
	Success *bool           `json:"success"`
	Data    json.RawMessage `json:"data"`
	Meta    json.RawMessage `json:"meta"`
}

func (e envelope) message() string {
	var meta struct {
		Message string `json:"message"`
	}
	if len(e.Meta) > 0 && e.Meta[0] == '{' {
		_ = json.Unmarshal(e.Meta, &meta)
	}
	return meta.Message
}

func New(cfg Config, opts ...Option) (*Client, error) {
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.APIBase), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	if _, err := url.ParseRequestURI(baseURL); err != nil {
		return nil, fmt.Errorf("invalid altegio api url: %w", err)
	}

	partner := strings.TrimSpace(cfg.PartnerToken)
	if partner == "" {
		return nil, errors.New("altegio partner token is required")
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	c := &Client{
		baseURL:      baseURL,
		partnerToken: partner,
		httpClient:   &http.Client{Timeout: timeout},
		userToken:    strings.TrimSpace(cfg.UserToken),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c, nil
}

func (c *Client) IsAuthenticated() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.userToken != ""
}

func (c *Client) Login(ctx context.Context, email, password string) error {
	if strings.TrimSpace(email) == "" || password == "" {
		return ErrEmptyCredentials
	}

	var out struct {
		UserToken string `json:"user_token"`
	}
	body := map[string]string{"login": email, "password": password}
	if err := c.do(ctx, http.MethodPost, "/auth", nil, body, &out, false); err != nil {
		return err
	}
	if out.UserToken == "" {
		return &APIError{StatusCode: http.StatusOK, Message: "no user token in response"}
	}

	c.mu.Lock()
	c.userToken = out.UserToken
	c.mu.Unlock()
	return nil
}

func (c *Client) Logout(context.Context) error {
	c.mu.Lock()
	c.userToken = ""
	c.mu.Unlock()
	return nil
}

func (c *Client) authorization(withUser bool) (string, error) {
	header := "Bearer " + c.partnerToken
	if !withUser {
		return header, nil
	}
	c.mu.RLock()
	user := c.userToken
	c.mu.RUnlock()
	if user == "" {
		return "", ErrNotAuthenticated
	}
	return header + ", User " + user, nil
}

// do executes one request and decodes the envelope's data into out (when out
// is non-nil).
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any, withUser bool) error {
	if c == nil {
		return errors.New("nil altegio client")
	}

	auth, err := c.authorization(withUser)
	if err != nil {
		return err
	}

	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal altegio request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return fmt.Errorf("build altegio request: %w", err)
	}
	req.Header.Set("Authorization", auth)
	req.Header.Set("Accept", acceptHeader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("execute altegio request %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSizeBytes))
	if err != nil {
		return fmt.Errorf("read altegio response: %w", err)
	}

	var env envelope
	if len(bytes.TrimSpace(raw)) > 0 {
		if err := json.Unmarshal(raw, &env); err != nil {
			if resp.StatusCode >= http.StatusMultipleChoices {
				return &APIError{StatusCode: resp.StatusCode, Message: strings.TrimSpace(string(raw))}
			}
			return fmt.Errorf("decode altegio response: %w", err)
		}
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return &APIError{StatusCode: resp.StatusCode, Message: env.message()}
	}
	if env.Success != nil && !*env.Success {
		return &APIError{StatusCode: resp.StatusCode, Message: env.message()}
	}

	if out == nil || len(env.Data) == 0 || bytes.Equal(env.Data, []byte("null")) {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("decode altegio data: %w", err)
	}
	return nil
}

func pageValues(page, count int) url.Values {
	q := url.Values{}
	if page > 0 {
		q.Set("page", strconv.Itoa(page))
	}
	if count > 0 {
		q.Set("count", strconv.Itoa(count))
	}
	return q
}
