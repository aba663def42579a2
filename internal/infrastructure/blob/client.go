package blob

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"time"

	"github.com/shopstream/backend/internal/domain"
	"golang.org/x/time/rate"
)

// Client talks to the blob object store HTTP API. It is the only
// component the snapshot store uses to reach remote storage.
type Client struct {
	httpClient  *http.Client
	baseURL     string
	token       string
	rateLimiter *rate.Limiter
}

// NewClient creates a new blob store client. requestsPerMinute bounds
// outbound calls; the store's own quota is far above what snapshot
// traffic needs, so the limiter mostly guards against rebuild loops.
func NewClient(baseURL, token string, requestsPerMinute int) *Client {
	if requestsPerMinute <= 0 {
		requestsPerMinute = 120
	}
	limiter := rate.NewLimiter(rate.Limit(float64(requestsPerMinute)/60.0), 10)

	return &Client{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		baseURL:     baseURL,
		token:       token,
		rateLimiter: limiter,
	}
}

// doRequest executes an HTTP request with auth headers applied.
func (c *Client) doRequest(req *http.Request) (*http.Response, error) {
	req.Header.Set("User-Agent", "shopstream/1.0")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("blob store request failed: %w", err)
	}
	return resp, nil
}

// List returns the objects currently stored.
func (c *Client) List(ctx context.Context) ([]domain.BlobObject, error) {
	endpoint := fmt.Sprintf("%s/v1/objects", c.baseURL)

	// Retry up to 3 times for transient failures
	var lastErr error
	for attempt := 1; attempt <= 3; attempt++ {
		if err := c.rateLimiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter error: %w", err)
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to create request: %w", err)
		}

		resp, err := c.doRequest(req)
		if err != nil {
			log.Printf("[blob] list error (attempt %d): %v", attempt, err)
			lastErr = err
			time.Sleep(time.Duration(attempt*500) * time.Millisecond)
			continue
		}

		body, _ := io.ReadAll(resp.Body)
		resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			log.Printf("[blob] list error (attempt %d) - status: %d, body: %s", attempt, resp.StatusCode, string(body))
			lastErr = fmt.Errorf("blob store list: status %d", resp.StatusCode)
			time.Sleep(time.Duration(attempt*500) * time.Millisecond)
			continue
		}

		var listResp struct {
			Objects []domain.BlobObject `json:"objects"`
		}
		if err := json.Unmarshal(body, &listResp); err != nil {
			return nil, fmt.Errorf("failed to decode list response: %w", err)
		}
		return listResp.Objects, nil
	}

	return nil, lastErr
}

// Put uploads data under the given name, replacing any existing object
// with that name, and returns the object's URL.
func (c *Client) Put(ctx context.Context, name string, data []byte, opts domain.PutOptions) (string, error) {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("rate limiter error: %w", err)
	}

	endpoint := fmt.Sprintf("%s/v1/objects/%s", c.baseURL, url.PathEscape(name))
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, endpoint, bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	if opts.ContentType != "" {
		req.Header.Set("Content-Type", opts.ContentType)
	}
	if opts.Public {
		req.Header.Set("X-Blob-Access", "public")
	}

	resp, err := c.doRequest(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrBlobUploadFailed, err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return "", fmt.Errorf("%w: status %d, body: %s", domain.ErrBlobUploadFailed, resp.StatusCode, string(body))
	}

	var putResp struct {
		URL string `json:"url"`
	}
	if err := json.Unmarshal(body, &putResp); err != nil {
		return "", fmt.Errorf("failed to decode put response: %w", err)
	}

	log.Printf("[blob] uploaded %s (%d bytes) -> %s", name, len(data), putResp.URL)
	return putResp.URL, nil
}

// Fetch downloads an object's content by its URL.
func (c *Client) Fetch(ctx context.Context, objectURL string) ([]byte, error) {
	var lastErr error
	for attempt := 1; attempt <= 3; attempt++ {
		if err := c.rateLimiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter error: %w", err)
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, objectURL, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to create request: %w", err)
		}

		resp, err := c.doRequest(req)
		if err != nil {
			log.Printf("[blob] fetch error (attempt %d): %v", attempt, err)
			lastErr = err
			time.Sleep(time.Duration(attempt*500) * time.Millisecond)
			continue
		}

		body, _ := io.ReadAll(resp.Body)
		resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			log.Printf("[blob] fetch error (attempt %d) - status: %d", attempt, resp.StatusCode)
			lastErr = fmt.Errorf("blob store fetch: status %d", resp.StatusCode)
			time.Sleep(time.Duration(attempt*500) * time.Millisecond)
			continue
		}

		return body, nil
	}

	return nil, lastErr
}
