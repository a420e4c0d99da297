// Package mediawiki provides a throttled MediaWiki api.php client with per-session cookie jars
package mediawiki

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"sync/atomic"
	"time"

	perr "wikipub/internal/platform/errors"
	"wikipub/internal/platform/logger"
	str "wikipub/internal/platform/strings"

	"golang.org/x/net/publicsuffix"
	"golang.org/x/time/rate"
)

const (
	apiURLDefault  = "https://en.wikipedia.org/w/api.php"
	defaultTimeout = 30 * time.Second
	defaultUA      = "PsiAdirondackBot/2.0 (https://github.com/psiadirondack; wikipub)"
	defaultRPS     = 5.0
	defaultBurst   = 5
	maxBody        = 4 << 20
)

// Options configures the Client
type Options struct {
	APIURL    string
	UserAgent string
	Timeout   time.Duration

	// Outbound throttle shared by every session of this client
	// RatePerSec < 0 disables throttling
	RatePerSec float64
	Burst      int

	// Transport is the base round tripper; nil uses http.DefaultTransport
	Transport http.RoundTripper
}

// Client talks to a single api.php endpoint. It holds no auth state itself;
// cookies live on the Sessions it hands out
type Client struct {
	opts    Options
	limiter *rate.Limiter
	log     logger.Logger
	now     func() time.Time
	seq     atomic.Int64
}

// NewClient creates a new Client with sane defaults
func NewClient(o Options) *Client {
	if o.APIURL == "" {
		o.APIURL = apiURLDefault
	}
	if o.UserAgent == "" {
		o.UserAgent = defaultUA
	}
	if o.Timeout <= 0 {
		o.Timeout = defaultTimeout
	}
	if o.RatePerSec == 0 {
		o.RatePerSec = defaultRPS
	}
	if o.Burst <= 0 {
		o.Burst = defaultBurst
	}
	lim := rate.NewLimiter(rate.Inf, o.Burst)
	if o.RatePerSec > 0 {
		lim = rate.NewLimiter(rate.Limit(o.RatePerSec), o.Burst)
	}
	return &Client{
		opts:    o,
		limiter: lim,
		log:     *logger.Named("mediawiki"),
		now:     time.Now,
	}
}

// APIURL returns the configured endpoint
func (c *Client) APIURL() string { return c.opts.APIURL }

// NewSession opens a fresh cookie-backed conversation with the wiki
// Sessions are single-writer; do not share one between concurrent publishes
func (c *Client) NewSession() (*Session, error) {
	jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		return nil, perr.Wrapf(err, perr.ErrorCodeUnknown, "mediawiki cookie jar")
	}
	hc := &http.Client{Timeout: c.opts.Timeout, Jar: jar}
	if c.opts.Transport != nil {
		hc.Transport = c.opts.Transport
	}
	return &Session{c: c, http: hc, id: c.seq.Add(1)}, nil
}

// Ping checks that the endpoint answers a siteinfo query. It carries no cookies
func (c *Client) Ping(ctx context.Context) error {
	hc := &http.Client{Timeout: c.opts.Timeout, Transport: c.opts.Transport}
	return c.call(ctx, hc, 0, http.MethodGet, "query", url.Values{"meta": {"siteinfo"}}, nil)
}

// call performs one api.php round trip and decodes the envelope into out.
// It never retries; retry policy belongs to the caller
func (c *Client) call(ctx context.Context, hc *http.Client, sid int64, method, action string, params url.Values, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return perr.Wrapf(err, perr.ErrorCodeUnavailable, "mediawiki %s throttled", action)
	}

	if params == nil {
		params = url.Values{}
	}
	params.Set("action", action)
	params.Set("format", "json")
	params.Set("formatversion", "2")

	var (
		req *http.Request
		err error
	)
	if method == http.MethodPost {
		req, err = http.NewRequestWithContext(ctx, method, c.opts.APIURL, strings.NewReader(params.Encode()))
		if err == nil {
			req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		}
	} else {
		req, err = http.NewRequestWithContext(ctx, method, c.opts.APIURL+"?"+params.Encode(), nil)
	}
	if err != nil {
		return perr.Wrapf(err, perr.ErrorCodeUnknown, "mediawiki %s new request failed", action)
	}
	req.Header.Set("User-Agent", c.opts.UserAgent)
	req.Header.Set("Accept", "application/json")

	start := c.now()
	resp, err := hc.Do(req)
	lat := c.now().Sub(start)
	if err != nil {
		return perr.Wrapf(err, perr.ErrorCodeUnavailable, "mediawiki %s request failed", action)
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			c.log.Error().Err(cerr).Str("action", action).Msg("mediawiki close body failed")
		}
	}()

	c.log.Debug().
		Int64("session", sid).
		Str("method", method).
		Str("action", action).
		Int("status", resp.StatusCode).
		Dur("latency", lat).
		Msg("mediawiki http response")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		se := &StatusError{
			Status:     resp.StatusCode,
			RetryAfter: parseRetryAfter(resp.Header.Get("Retry-After"), c.now()),
		}
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		se.Body = string(body)
		c.log.Warn().
			Str("action", action).
			Int("status", resp.StatusCode).
			Dur("retry_after", se.RetryAfter).
			Str("body", str.Truncate(se.Body, 200)).
			Msg("mediawiki non-2xx response")
		return perr.Wrapf(se, perr.FromStatus(resp.StatusCode), "mediawiki %s http %d", action, resp.StatusCode)
	}

	b, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return perr.Wrapf(err, perr.ErrorCodeUnavailable, "mediawiki %s read body", action)
	}

	var env envelope
	if err := json.Unmarshal(b, &env); err != nil {
		return perr.Wrapf(err, perr.ErrorCodeJSON, "mediawiki %s malformed response", action)
	}
	if env.Error != nil {
		re := env.Error
		re.Action = action
		return perr.Wrap(re, re.code(), "mediawiki "+action+" rejected")
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(b, out); err != nil {
		return perr.Wrapf(err, perr.ErrorCodeJSON, "mediawiki %s unexpected shape", action)
	}
	return nil
}
