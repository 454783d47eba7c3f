package dining

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

const (
	// Rate limiting: keep well under the dining API's tolerance
	rateLimit = 2 // requests per second
	rateBurst = 5

	// Retry configuration
	maxRetries   = 4
	initialDelay = 1 * time.Second
	maxDelay     = 16 * time.Second
)

const locationMenuQuery = `
query getLocationMenu($name: String!, $date: Date!) {
  diningCourtByName(name: $name) {
    name
    dailyMenu(date: $date) {
      meals {
        name
        startTime
        endTime
        stations {
          name
          items {
            item {
              name
            }
          }
        }
      }
    }
  }
}`

// Client handles dining GraphQL API requests with rate limiting.
type Client struct {
	apiURL      string
	httpClient  *http.Client
	rateLimiter *rate.Limiter
}

func NewClient(apiURL string) *Client {
	return &Client{
		apiURL:      apiURL,
		rateLimiter: rate.NewLimiter(rate.Limit(rateLimit), rateBurst),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
}

type graphQLRequest struct {
	OperationName string         `json:"operationName"`
	Query         string         `json:"query"`
	Variables     map[string]any `json:"variables,omitempty"`
}

type graphQLResponse struct {
	Data   json.RawMessage `json:"data"`
	Errors []graphQLError  `json:"errors,omitempty"`
}

type graphQLError struct {
	Message string `json:"message"`
}

// GetLocationMenu fetches one dining court's menu for a given date
// (YYYY-MM-DD).
func (c *Client) GetLocationMenu(ctx context.Context, court, date string) (*DiningCourtMenu, error) {
	payload := graphQLRequest{
		OperationName: "getLocationMenu",
		Query:         locationMenuQuery,
		Variables: map[string]any{
			"name": court,
			"date": date,
		},
	}

	raw, err := c.post(ctx, payload)
	if err != nil {
		return nil, err
	}

	var data struct {
		DiningCourtByName *DiningCourtMenu `json:"diningCourtByName"`
	}
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("decode menu for %s: %w", court, err)
	}
	if data.DiningCourtByName == nil {
		return nil, fmt.Errorf("no dining court named %q", court)
	}
	return data.DiningCourtByName, nil
}

// post sends a GraphQL request with rate limiting and exponential-backoff
// retries on transient failures.
func (c *Client) post(ctx context.Context, payload graphQLRequest) (json.RawMessage, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	delay := initialDelay
	var lastErr error

	for attempt := 0; attempt < maxRetries; attempt++ {
		if err := c.rateLimiter.Wait(ctx); err != nil {
			return nil, err
		}

		raw, retryable, err := c.doRequest(ctx, body)
		if err == nil {
			return raw, nil
		}
		lastErr = err
		if !retryable {
			return nil, err
		}

		log.Printf("[DiningClient] attempt %d failed: %v (retrying in %s)", attempt+1, err, delay)
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
		if delay *= 2; delay > maxDelay {
			delay = maxDelay
		}
	}
	return nil, fmt.Errorf("dining API request failed after %d attempts: %w", maxRetries, lastErr)
}

func (c *Client) doRequest(ctx context.Context, body []byte) (json.RawMessage, bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL, bytes.NewReader(body))
	if err != nil {
		return nil, false, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "apero-menu-sync/1.0")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, true, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
		io.Copy(io.Discard, resp.Body)
		return nil, true, fmt.Errorf("dining API returned %d", resp.StatusCode)
	}
	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return nil, false, fmt.Errorf("dining API returned %d", resp.StatusCode)
	}

	var gqlResp graphQLResponse
	if err := json.NewDecoder(resp.Body).Decode(&gqlResp); err != nil {
		return nil, true, fmt.Errorf("decode response: %w", err)
	}
	if len(gqlResp.Errors) > 0 {
		return nil, false, fmt.Errorf("graphql error: %s", gqlResp.Errors[0].Message)
	}
	return gqlResp.Data, false, nil
}
