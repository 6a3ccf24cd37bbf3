package state

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	defaultStoreKeyPrefix = "onboarding:session:"
	maxResponseSizeBytes  = 2 << 20
)

// StoreOption customizes UpstashRedisStore.
type StoreOption func(*UpstashRedisStore)

func WithKeyPrefix(prefix string) StoreOption {
	return func(s *UpstashRedisStore) {
		trimmed := strings.TrimSpace(prefix)
		if trimmed != "" {
			s.keyPrefix = trimmed
		}
	}
}

// WithTTL expires idle sessions. Zero (the default) keeps them forever.
func WithTTL(ttl time.Duration) StoreOption {
	return func(s *UpstashRedisStore) {
		s.ttl = ttl
	}
}

func WithHTTPClient(client *http.Client) StoreOption {
	return func(s *UpstashRedisStore) {
		if client != nil {
			s.httpClient = client
		}
	}
}

// UpstashRedisStore persists sessions in Upstash Redis via REST.
type UpstashRedisStore struct {
	baseURL    string
	token      string
	httpClient *http.Client
	keyPrefix  string
	ttl        time.Duration
}

type redisRESTResponse struct {
	Result json.RawMessage `json:"result"`
	Error  string          `json:"error"`
}

type UpstashRedisConfig struct {
	URL     string        `envconfig:"URL" split_words:"true"`
	Token   string        `envconfig:"TOKEN" split_words:"true"`
	Timeout time.Duration `envconfig:"TIMEOUT" split_words:"true" default:"10s"`
}

func NewUpstashRedisStore(cfg UpstashRedisConfig, opts ...StoreOption) (*UpstashRedisStore, error) {
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.URL), "/")
	if baseURL == "" {
		return nil, errors.New("upstash redis url is required")
	}
	if _, err := url.ParseRequestURI(baseURL); err != nil {
		return nil, fmt.Errorf("invalid redis rest url: %w", err)
	}

	token := strings.TrimSpace(cfg.Token)
	if token == "" {
		return nil, errors.New("upstash redis token is required")
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	store := &UpstashRedisStore{
		baseURL:    baseURL,
		token:      token,
		httpClient: &http.Client{Timeout: timeout},
		keyPrefix:  defaultStoreKeyPrefix,
	}

	for _, opt := range opts {
		if opt != nil {
			opt(store)
		}
	}

	if store.ttl < 0 {
		return nil, errors.New("ttl must be >= 0")
	}

	return store, nil
}

func (s *UpstashRedisStore) Load(ctx context.Context, companyID int) (*Session, error) {
	key, err := s.redisKey(companyID)
	if err != nil {
		return nil, err
	}

	resp, err := s.exec(ctx, []any{"GET", key})
	if err != nil {
		return nil, err
	}

	encoded, ok, err := resultString(resp.Result)
	if err != nil {
		return nil, fmt.Errorf("decode session payload: %w", err)
	}
	if !ok {
		return nil, ErrSessionNotFound
	}
	return decodeSession([]byte(encoded))
}

// CreateIfAbsent uses SET NX so two concurrent starts for the same company
// end up with one session.
func (s *UpstashRedisStore) CreateIfAbsent(ctx context.Context, companyID int, now time.Time) (*Session, bool, error) {
	key, err := s.redisKey(companyID)
	if err != nil {
		return nil, false, err
	}

	fresh := NewSession(companyID, now)
	payload, err := encodeSession(fresh)
	if err != nil {
		return nil, false, err
	}

	cmd := []any{"SET", key, string(payload), "NX"}
	if s.ttl > 0 {
		cmd = append(cmd, "EX", ttlSeconds(s.ttl))
	}
	resp, err := s.exec(ctx, cmd)
	if err != nil {
		return nil, false, err
	}

	if _, set, _ := resultString(resp.Result); set {
		return fresh, true, nil
	}

	existing, err := s.Load(ctx, companyID)
	if err != nil {
		return nil, false, err
	}
	return existing, false, nil
}

// saveScript writes ARGV[1] only while the stored document is absent or still
// at version ARGV[2]. ARGV[3] is the expiry in seconds, 0 for none.
const saveScript = `local cur = redis.call('GET', KEYS[1])
if cur then
  local doc = cjson.decode(cur)
  if tonumber(doc['version']) ~= tonumber(ARGV[2]) then
    return 0
  end
end
if tonumber(ARGV[3]) > 0 then
  redis.call('SET', KEYS[1], ARGV[1], 'EX', ARGV[3])
else
  redis.call('SET', KEYS[1], ARGV[1])
end
return 1`

func (s *UpstashRedisStore) Save(ctx context.Context, st *Session) error {
	payload, expected, err := encodeNextVersion(st)
	if err != nil {
		return err
	}

	key, err := s.redisKey(st.CompanyID)
	if err != nil {
		return err
	}

	var ttl int64
	if s.ttl > 0 {
		ttl = ttlSeconds(s.ttl)
	}
	resp, err := s.exec(ctx, []any{"EVAL", saveScript, 1, key, string(payload), expected, ttl})
	if err != nil {
		return err
	}

	var written int
	if err := json.Unmarshal(resp.Result, &written); err != nil {
		return fmt.Errorf("decode save result: %w", err)
	}
	if written != 1 {
		return fmt.Errorf("%w: company %d is no longer at version %d", ErrVersionConflict, st.CompanyID, expected)
	}
	st.Version = expected + 1
	return nil
}

func (s *UpstashRedisStore) Delete(ctx context.Context, companyID int) error {
	key, err := s.redisKey(companyID)
	if err != nil {
		return err
	}
	_, err = s.exec(ctx, []any{"DEL", key})
	return err
}

func (s *UpstashRedisStore) Close() error {
	s.httpClient.CloseIdleConnections()
	return nil
}

func (s *UpstashRedisStore) redisKey(companyID int) (string, error) {
	return sessionKey(strings.TrimSpace(s.keyPrefix), companyID)
}

func (s *UpstashRedisStore) exec(ctx context.Context, command []any) (*redisRESTResponse, error) {
	if s == nil {
		return nil, errors.New("nil store")
	}
	if len(command) == 0 {
		return nil, errors.New("empty redis command")
	}

	body, err := json.Marshal(command)
	if err != nil {
		return nil, fmt.Errorf("marshal redis command: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build redis request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute redis request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSizeBytes))
	if err != nil {
		return nil, fmt.Errorf("read redis response: %w", err)
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, fmt.Errorf("redis http status=%d body=%s", resp.StatusCode, string(raw))
	}

	var parsed redisRESTResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, fmt.Errorf("decode redis response: %w", err)
	}
	if parsed.Error != "" {
		return nil, errors.New(parsed.Error)
	}
	return &parsed, nil
}

// resultString unwraps a REST result that is either a JSON string or null.
func resultString(result json.RawMessage) (string, bool, error) {
	trimmed := bytes.TrimSpace(result)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return "", false, nil
	}
	var out string
	if err := json.Unmarshal(trimmed, &out); err != nil {
		return "", false, err
	}
	return out, true, nil
}

func ttlSeconds(ttl time.Duration) int64 {
	seconds := ttl / time.Second
	if seconds <= 0 {
		return 1
	}
	if ttl%time.Second != 0 {
		seconds++
	}
	return int64(seconds)
}
