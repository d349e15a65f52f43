// Package gateway wraps every call to the remote job-board API: JSON and
// multipart encoding, the session cookie jar, rate limiting, and the
// translation of non-2xx responses into the typed failure set.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

type Client struct {
	base    *url.URL
	limiter *rate.Limiter

	// hc and jar are swapped together on ClearSession while other requests
	// may be in flight, so reads go through the accessors below.
	mu  sync.Mutex
	hc  *http.Client
	jar *cookiejar.Jar
}

func New(baseURL string, timeout time.Duration, reqPerSec float64, burst int) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("gateway base url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("gateway base url %q is not absolute", baseURL)
	}

	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}

	return &Client{
		base: u,
		hc: &http.Client{
			Timeout: timeout,
			Jar:     jar,
		},
		jar:     jar,
		limiter: rate.NewLimiter(rate.Limit(reqPerSec), burst),
	}, nil
}

func (c *Client) Host() string { return c.base.Host }

func (c *Client) httpClient() *http.Client {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hc
}

func (c *Client) cookieJar() *cookiejar.Jar {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.jar
}

func (c *Client) GetJSON(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodGet, path, nil, "", out)
}

func (c *Client) PostJSON(ctx context.Context, path string, body, out any) error {
	r, err := encodeJSON(body)
	if err != nil {
		return err
	}
	return c.do(ctx, http.MethodPost, path, r, "application/json", out)
}

func (c *Client) PatchJSON(ctx context.Context, path string, body, out any) error {
	r, err := encodeJSON(body)
	if err != nil {
		return err
	}
	return c.do(ctx, http.MethodPatch, path, r, "application/json", out)
}

func (c *Client) PutJSON(ctx context.Context, path string, body, out any) error {
	r, err := encodeJSON(body)
	if err != nil {
		return err
	}
	return c.do(ctx, http.MethodPut, path, r, "application/json", out)
}

func (c *Client) Delete(ctx context.Context, path string) error {
	return c.do(ctx, http.MethodDelete, path, nil, "", nil)
}

func encodeJSON(body any) (io.Reader, error) {
	if body == nil {
		return nil, nil
	}
	b, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("gateway encode body: %w", err)
	}
	return bytes.NewReader(b), nil
}

func (c *Client) do(ctx context.Context, method, path string, body io.Reader, contentType string, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return netErr("rate limit wait", err)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.base.String()+path, body)
	if err != nil {
		return netErr("build request", err)
	}
	req.Header.Set("User-Agent", "JobDesk/1.0 (+local)")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	res, err := c.httpClient().Do(req)
	if err != nil {
		return netErr(method+" "+path, err)
	}
	defer res.Body.Close()

	raw, err := io.ReadAll(res.Body)
	if err != nil {
		return netErr("read response", err)
	}

	if res.StatusCode >= 400 {
		apiErr := classify(res.StatusCode, raw)
		if res.StatusCode == http.StatusForbidden {
			// distinct from generic failures: usually an expired session
			log.Printf("[gateway] 403 on %s %s: possible session expiry", method, path)
		}
		return apiErr
	}

	if out == nil || len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("gateway decode %s %s: %w", method, path, err)
	}
	return nil
}

// RawJSON is for callers that dispatch on a discriminator and need the
// bytes (profile variants).
func (c *Client) RawJSON(ctx context.Context, method, path string, body any) ([]byte, error) {
	r, err := encodeJSON(body)
	if err != nil {
		return nil, err
	}
	var raw json.RawMessage
	if err := c.do(ctx, method, path, r, contentTypeFor(body), &raw); err != nil {
		return nil, err
	}
	return raw, nil
}

func contentTypeFor(body any) string {
	if body == nil {
		return ""
	}
	return "application/json"
}
