// Package catalog wraps the Google Books volumes API behind an explicit
// result-record type. Upstream results carry no stability guarantee
// between identical queries; callers treat the response as a point-in-time
// suggestion list, not a canonical catalog.
package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"
)

const (
	// Google Books allows generous anonymous quotas; stay well under them.
	rateLimit = 5 // requests per second
	rateBurst = 10

	maxRetries   = 3
	initialDelay = 500 * time.Millisecond
	maxDelay     = 8 * time.Second
)

// Result is one catalog hit, mapped at the service boundary so missing
// nested fields never leak into callers.
type Result struct {
	Title       string   `json:"title"`
	Author      string   `json:"author"`
	CoverURL    string   `json:"cover_url"`
	PageCount   int      `json:"page_count"`
	Description string   `json:"description"`
	Categories  []string `json:"categories"`
}

// Client handles volume search requests with rate limiting and retries.
type Client struct {
	apiURL      string
	apiKey      string
	httpClient  *http.Client
	rateLimiter *rate.Limiter
}

func NewClient(apiURL, apiKey string) *Client {
	return &Client{
		apiURL:      apiURL,
		apiKey:      apiKey,
		rateLimiter: rate.NewLimiter(rate.Limit(rateLimit), rateBurst),
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
}

type volumesResponse struct {
	Items []struct {
		VolumeInfo struct {
			Title       string   `json:"title"`
			Authors     []string `json:"authors"`
			Description string   `json:"description"`
			PageCount   int      `json:"pageCount"`
			Categories  []string `json:"categories"`
			ImageLinks  *struct {
				Thumbnail string `json:"thumbnail"`
			} `json:"imageLinks"`
		} `json:"volumeInfo"`
	} `json:"items"`
}

// Search queries the catalog and returns up to limit results. Failures
// degrade to an empty result set with a logged diagnostic only at the
// caller's discretion; the error is returned so handlers can decide.
func (c *Client) Search(ctx context.Context, query string, limit int) ([]Result, error) {
	if query == "" || limit <= 0 {
		return nil, nil
	}

	params := url.Values{}
	params.Set("q", query)
	params.Set("maxResults", fmt.Sprintf("%d", limit))
	if c.apiKey != "" {
		params.Set("key", c.apiKey)
	}
	endpoint := fmt.Sprintf("%s/volumes?%s", c.apiURL, params.Encode())

	body, err := c.getWithRetry(ctx, endpoint)
	if err != nil {
		return nil, err
	}

	var parsed volumesResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("decode catalog response: %w", err)
	}

	results := make([]Result, 0, len(parsed.Items))
	for _, item := range parsed.Items {
		info := item.VolumeInfo
		if info.Title == "" {
			continue
		}
		r := Result{
			Title:       info.Title,
			Author:      "Unknown author",
			PageCount:   info.PageCount,
			Description: info.Description,
			Categories:  info.Categories,
		}
		if len(info.Authors) > 0 {
			r.Author = info.Authors[0]
		}
		if info.ImageLinks != nil {
			r.CoverURL = info.ImageLinks.Thumbnail
		}
		results = append(results, r)
	}
	return results, nil
}

// getWithRetry performs a rate-limited GET with exponential backoff on
// transient failures.
func (c *Client) getWithRetry(ctx context.Context, endpoint string) ([]byte, error) {
	delay := initialDelay

	var lastErr error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		if attempt > 0 {
			log.Printf("[catalog] Retry %d/%d after error: %v", attempt, maxRetries, lastErr)
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
			delay *= 2
			if delay > maxDelay {
				delay = maxDelay
			}
		}

		if err := c.rateLimiter.Wait(ctx); err != nil {
			return nil, err
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return nil, err
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = err
			continue
		}

		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			lastErr = err
			continue
		}

		switch {
		case resp.StatusCode == http.StatusOK:
			return body, nil
		case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
			lastErr = fmt.Errorf("catalog returned status %d", resp.StatusCode)
			continue
		default:
			return nil, fmt.Errorf("catalog returned status %d", resp.StatusCode)
		}
	}
	return nil, fmt.Errorf("catalog request failed after %d retries: %w", maxRetries, lastErr)
}
