// Package sentiment classifies ingested comments through an external AI
// service.
package sentiment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Client is a client for the AI sentiment classification service.
type Client struct {
	baseURL    string
	timeout    time.Duration
	httpClient *http.Client
}

// ClientConfig holds the configuration for the sentiment client.
type ClientConfig struct {
	BaseURL string        // e.g., "http://localhost:5000"
	Timeout time.Duration // Request timeout (default: 60 seconds)
}

// NewClient creates a new sentiment service client.
func NewClient(config ClientConfig) *Client {
	if config.Timeout == 0 {
		config.Timeout = 60 * time.Second
	}

	return &Client{
		baseURL: strings.TrimSuffix(config.BaseURL, "/"),
		timeout: config.Timeout,
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
	}
}

type batchRequest struct {
	Texts []string `json:"texts"`
}

type batchResponse struct {
	Results []Result `json:"results"`
}

// Result is one classification returned by the service.
type Result struct {
	Text       string  `json:"text"`
	Sentiment  string  `json:"sentiment"`
	Emotion    string  `json:"emotion"`
	Confidence float64 `json:"confidence"`
}

// AnalyzeBatch classifies a batch of texts in a single request and returns
// the results keyed by text. Duplicate texts keep the first result.
func (c *Client) AnalyzeBatch(ctx context.Context, texts []string) (map[string]Result, error) {
	if len(texts) == 0 {
		return nil, fmt.Errorf("no texts to analyze")
	}

	reqBody, err := json.Marshal(batchRequest{Texts: texts})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST",
		c.baseURL+"/api/analyze-sentiment/batch", bytes.NewReader(reqBody))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("send request to sentiment service: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("sentiment service returned status %d: %s", resp.StatusCode, string(body))
	}

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}

	var batch batchResponse
	if err := json.Unmarshal(respBody, &batch); err != nil {
		return nil, fmt.Errorf("parse sentiment response: %w", err)
	}

	results := make(map[string]Result, len(batch.Results))
	for _, result := range batch.Results {
		if _, ok := results[result.Text]; ok {
			continue
		}
		results[result.Text] = result
	}

	return results, nil
}
