// Package tui provides a terminal UI for monitoring orizuru queues.
package tui

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Client is an HTTP client for the orizuru monitoring API.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewClient creates a new monitoring API client. apiKey may be empty when
// the server runs with auth disabled.
func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// apiResponse is the standard JSON envelope from the monitoring API.
type apiResponse struct {
	Data json.RawMessage `json:"data"`
}

// Queue is one queue as reported by the API. Processing and Unack are
// summed over all known consumers.
type Queue struct {
	Name       string `json:"name"`
	Source     int64  `json:"source"`
	Processing int64  `json:"processing"`
	Unack      int64  `json:"unack"`
	Total      int64  `json:"total"`
}

// Consumer is one consumer as reported by the API. LastHeartbeat is a Unix
// timestamp, zero when the consumer never announced itself.
type Consumer struct {
	ID            string `json:"id"`
	Alive         bool   `json:"alive"`
	LastHeartbeat int64  `json:"last_heartbeat"`
}

// CollectResult is the outcome of a garbage collection sweep.
type CollectResult struct {
	Collected int64            `json:"collected"`
	Queues    map[string]int64 `json:"queues"`
}

// ListQueues fetches all queues with their depths.
func (c *Client) ListQueues() ([]Queue, error) {
	var queues []Queue
	if err := c.get("/api/v1/queues", &queues); err != nil {
		return nil, err
	}
	return queues, nil
}

// ListConsumers fetches all known consumers with heartbeat state.
func (c *Client) ListConsumers() ([]Consumer, error) {
	var consumers []Consumer
	if err := c.get("/api/v1/consumers", &consumers); err != nil {
		return nil, err
	}
	return consumers, nil
}

// Collect triggers a garbage collection sweep over all configured queues.
// Requires an API key with the admin role.
func (c *Client) Collect() (CollectResult, error) {
	var result CollectResult
	if err := c.post("/api/v1/gc/collect", &result); err != nil {
		return CollectResult{}, err
	}
	return result, nil
}

// Health checks API connectivity.
func (c *Client) Health() error {
	return c.get("/health", nil)
}

func (c *Client) get(path string, result any) error {
	req, err := http.NewRequest("GET", c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	c.setHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	return decodeResponse(resp, result)
}

func (c *Client) post(path string, result any) error {
	req, err := http.NewRequest("POST", c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	c.setHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	return decodeResponse(resp, result)
}

// decodeResponse checks the status code and unwraps the {"data": ...}
// envelope into result. A nil result skips body decoding.
func decodeResponse(resp *http.Response, result any) error {
	if resp.StatusCode == http.StatusUnauthorized {
		return fmt.Errorf("unauthorized (check API key)")
	}
	if resp.StatusCode == http.StatusForbidden {
		return fmt.Errorf("forbidden (admin API key required)")
	}
	if resp.StatusCode != http.StatusOK {
		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return fmt.Errorf("API error %d (failed to read body: %w)", resp.StatusCode, err)
		}
		return fmt.Errorf("API error %d: %s", resp.StatusCode, string(body))
	}

	if result == nil {
		return nil
	}

	var envelope apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	if err := json.Unmarshal(envelope.Data, result); err != nil {
		return fmt.Errorf("decoding data: %w", err)
	}
	return nil
}

func (c *Client) setHeaders(req *http.Request) {
	if c.apiKey != "" {
		req.Header.Set("X-API-Key", c.apiKey)
	}
}
