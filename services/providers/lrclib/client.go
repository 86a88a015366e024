package lrclib

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"lyrics-resolver-go/circuitbreaker"
	"lyrics-resolver-go/logcolors"

	log "github.com/sirupsen/logrus"
)

const (
	// DefaultBaseURL is the public LRCLIB instance.
	DefaultBaseURL = "https://lrclib.net"

	getPath    = "/api/get"
	searchPath = "/api/search"

	// Request defaults
	defaultTimeout   = 8 * time.Second
	defaultUserAgent = "lyrics-resolver-go/1.0"
)

// SourceName identifies this lookup service in resolved results.
const SourceName = "lrclib"

// Client talks to an LRCLIB-compatible lyrics lookup service. The zero
// value is not usable; construct with NewClient.
type Client struct {
	baseURL    string
	userAgent  string
	httpClient *http.Client
	breaker    *circuitbreaker.CircuitBreaker
}

// NewClient creates a client for the given base URL. An empty baseURL falls
// back to the public instance; a nil breaker disables circuit breaking.
func NewClient(baseURL, userAgent string, timeout time.Duration, breaker *circuitbreaker.CircuitBreaker) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if userAgent == "" {
		userAgent = defaultUserAgent
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		userAgent:  userAgent,
		httpClient: &http.Client{Timeout: timeout},
		breaker:    breaker,
	}
}

// Get performs an exact lookup by track name, artist name and (optionally)
// duration in whole seconds. The service returns a single record or 404.
func (c *Client) Get(ctx context.Context, track, artist string, durationSec int) (*Record, error) {
	params := url.Values{}
	params.Set("track_name", track)
	if artist != "" {
		params.Set("artist_name", artist)
	}
	if durationSec > 0 {
		params.Set("duration", strconv.Itoa(durationSec))
	}

	log.Debugf("%s Exact lookup: %q / %q", logcolors.LogSearch, track, artist)

	body, err := c.doRequest(ctx, getPath, params)
	if err != nil {
		return nil, err
	}

	var rec Record
	if err := json.Unmarshal(body, &rec); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}
	return &rec, nil
}

// Search performs a free-text fuzzy query and returns all candidates the
// service knows about, possibly none.
func (c *Client) Search(ctx context.Context, query string) ([]Record, error) {
	params := url.Values{}
	params.Set("q", query)

	log.Debugf("%s Fuzzy search: %q", logcolors.LogSearch, query)

	body, err := c.doRequest(ctx, searchPath, params)
	if err != nil {
		return nil, err
	}

	var records []Record
	if err := json.Unmarshal(body, &records); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}
	return records, nil
}

func (c *Client) doRequest(ctx context.Context, path string, params url.Values) ([]byte, error) {
	if c.breaker != nil {
		if err := c.breaker.Allow(); err != nil {
			return nil, err
		}
	}

	requestURL := c.baseURL + path + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.recordFailure()
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		// 404 means no match for this query; the upstream itself is healthy
		if resp.StatusCode != http.StatusNotFound {
			c.recordFailure()
		} else {
			c.recordSuccess()
		}
		return nil, fmt.Errorf("API returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		c.recordFailure()
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if len(body) == 0 {
		c.recordSuccess()
		return nil, fmt.Errorf("empty response body")
	}

	c.recordSuccess()
	return body, nil
}

func (c *Client) recordSuccess() {
	if c.breaker != nil {
		c.breaker.RecordSuccess()
	}
}

func (c *Client) recordFailure() {
	if c.breaker != nil {
		c.breaker.RecordFailure()
	}
}
