package signer

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

var ErrNotConfigured = errors.New("signer is not configured")

// DefaultExpiry matches the presigner default used by the upstream storage.
const DefaultExpiry = 3600 * time.Second

// Signer generates a temporary, authenticated URL for a stored object key.
type Signer interface {
	SignedURL(ctx context.Context, key string, expires time.Duration) (string, error)
}

type cachedURL struct {
	url       string
	expiresAt time.Time
}

// HTTPSigner asks an external presigning service for time-limited URLs and
// caches them for slightly less than their lifetime, so a cached link is never
// handed out right before it dies.
type HTTPSigner struct {
	endpoint string
	bucket   string
	client   *http.Client
	logger   *logrus.Logger

	cache     map[string]cachedURL
	cacheLock sync.RWMutex
}

func NewHTTPSigner(endpoint, bucket string, logger *logrus.Logger) *HTTPSigner {
	if logger == nil {
		logger = logrus.New()
	}
	return &HTTPSigner{
		endpoint: endpoint,
		bucket:   bucket,
		client:   &http.Client{Timeout: 10 * time.Second},
		logger:   logger,
		cache:    make(map[string]cachedURL),
	}
}

type signRequest struct {
	Bucket    string `json:"bucket"`
	Key       string `json:"key"`
	ExpiresIn int    `json:"expires_in"`
}

type signResponse struct {
	URL   string `json:"url"`
	Error string `json:"error"`
}

func (s *HTTPSigner) SignedURL(ctx context.Context, key string, expires time.Duration) (string, error) {
	if s.endpoint == "" || s.bucket == "" {
		return "", ErrNotConfigured
	}
	if expires <= 0 {
		expires = DefaultExpiry
	}

	s.cacheLock.RLock()
	if entry, ok := s.cache[key]; ok && time.Now().Before(entry.expiresAt) {
		s.cacheLock.RUnlock()
		return entry.url, nil
	}
	s.cacheLock.RUnlock()

	payload, err := json.Marshal(signRequest{
		Bucket:    s.bucket,
		Key:       key,
		ExpiresIn: int(expires.Seconds()),
	})
	if err != nil {
		return "", fmt.Errorf("failed to encode sign request: %v", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("failed to create sign request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("sign request failed: %v", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read sign response: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("sign request returned status %d", resp.StatusCode)
	}

	var result signResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return "", fmt.Errorf("failed to parse sign response: %v", err)
	}
	if result.URL == "" {
		return "", fmt.Errorf("sign response missing url: %s", result.Error)
	}

	s.cacheLock.Lock()
	s.cache[key] = cachedURL{
		url:       result.URL,
		expiresAt: time.Now().Add(cacheTTL(expires)),
	}
	s.cacheLock.Unlock()

	return result.URL, nil
}

// cacheTTL keeps a safety margin between the cached entry and the real link
// lifetime: one minute, or a tenth of the expiry for short-lived links.
func cacheTTL(expires time.Duration) time.Duration {
	margin := time.Minute
	if expires/10 < margin {
		margin = expires / 10
	}
	return expires - margin
}
