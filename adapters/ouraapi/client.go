// Package ouraapi is the ring cloud API adapter: bearer-token auth,
// next_token pagination, and decoding into the domain record types. It
// implements ports.RecordSource.
package ouraapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"ringlab/domain/core"
	"ringlab/internal/config"
	"ringlab/internal/errors"
	"ringlab/internal/metrics"
)

const (
	defaultBaseURL = "https://api.ouraring.com"
	collectionPath = "/v2/usercollection/"
	maxErrorBody   = 256
)

// Client talks to the ring cloud API. Safe for concurrent use.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
	metrics *metrics.Registry
}

// New builds a client from configuration. The metrics registry may be nil.
func New(cfg config.OuraConfig, m *metrics.Registry) *Client {
	base := strings.TrimRight(cfg.BaseURL, "/")
	if base == "" {
		base = defaultBaseURL
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL: base,
		token:   cfg.Token,
		http:    &http.Client{Timeout: timeout},
		metrics: m,
	}
}

// envelope is the collection response shape: a data array plus an optional
// continuation token.
type envelope struct {
	Data      json.RawMessage `json:"data"`
	NextToken *string         `json:"next_token"`
}

// fetchPages walks a paginated collection endpoint, handing each page's
// data array to decode until the continuation token runs out.
func (c *Client) fetchPages(ctx context.Context, category string, params url.Values, decode func(json.RawMessage) error) error {
	token := ""
	for {
		env, err := c.getPage(ctx, category, params, token)
		if err != nil {
			return err
		}
		if len(env.Data) > 0 {
			if err := decode(env.Data); err != nil {
				return errors.Wrapf(err, "decode %s page", category)
			}
		}
		if env.NextToken == nil || *env.NextToken == "" {
			return nil
		}
		token = *env.NextToken
	}
}

func (c *Client) getPage(ctx context.Context, category string, params url.Values, nextToken string) (*envelope, error) {
	q := url.Values{}
	for key, vals := range params {
		for _, v := range vals {
			q.Add(key, v)
		}
	}
	if nextToken != "" {
		q.Set("next_token", nextToken)
	}

	raw, err := c.get(ctx, category, q)
	if err != nil {
		return nil, err
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("unmarshal %s response: %w", category, err)
	}
	return &env, nil
}

// get performs one authenticated GET against a collection endpoint and
// returns the raw body.
func (c *Client) get(ctx context.Context, category string, q url.Values) ([]byte, error) {
	endpoint := c.baseURL + collectionPath + category
	if len(q) > 0 {
		endpoint += "?" + q.Encode()
	}

	start := time.Now()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.http.Do(req)
	if err != nil {
		c.observe(category, "error", start)
		return nil, errors.UpstreamFailure("ring API", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		c.observe(category, "error", start)
		return nil, fmt.Errorf("read response: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		c.observe(category, "unauthorized", start)
		return nil, errors.New(errors.CodeUpstreamFailure, "ring API rejected the access token")
	case resp.StatusCode == http.StatusTooManyRequests:
		c.observe(category, "throttled", start)
		return nil, errors.New(errors.CodeUpstreamFailure, "ring API rate limit exceeded")
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		c.observe(category, "error", start)
		return nil, errors.UpstreamFailure("ring API", fmt.Errorf("http %d: %s", resp.StatusCode, truncate(raw)))
	}

	c.observe(category, "ok", start)
	return raw, nil
}

func (c *Client) observe(category, status string, start time.Time) {
	if c.metrics == nil {
		return
	}
	c.metrics.ObserveUpstream(category, status, time.Since(start))
}

func rangeParams(start, end core.Day) url.Values {
	q := url.Values{}
	q.Set("start_date", start.String())
	q.Set("end_date", end.String())
	return q
}

func truncate(raw []byte) string {
	if len(raw) > maxErrorBody {
		raw = raw[:maxErrorBody]
	}
	return string(raw)
}
