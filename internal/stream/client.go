package stream

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Client opens generation streams against the upstream service.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		// No overall timeout: the read loop's lifetime belongs to the
		// caller's context, and generation streams can run for minutes.
		httpClient: &http.Client{},
	}
}

type generateRequest struct {
	DocumentID string `json:"document_id"`
	Prompt     string `json:"prompt,omitempty"`
}

// Open starts a generation stream for the document and returns the raw
// response body. The caller owns closing it. A non-OK response is a
// transport error; 429 and 5xx are retryable.
func (c *Client) Open(ctx context.Context, docID, prompt string) (io.ReadCloser, error) {
	body, err := json.Marshal(generateRequest{DocumentID: docID, Prompt: prompt})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/generate", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "text/event-stream")
	if c.apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("open stream: %w", err)
	}
	if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		resp.Body.Close()
		return nil, &RetryableError{StatusCode: resp.StatusCode, Message: string(respBody)}
	}
	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		resp.Body.Close()
		return nil, fmt.Errorf("upstream status %d: %s", resp.StatusCode, string(respBody))
	}
	return resp.Body, nil
}

// OpenWithRetry retries connection establishment on retryable failures.
// Once a stream is open, failures mid-read are fatal to the session and
// are not retried here.
func (c *Client) OpenWithRetry(ctx context.Context, docID, prompt string) (io.ReadCloser, error) {
	var lastErr error
	for attempt := 0; attempt < MaxRetries; attempt++ {
		body, err := c.Open(ctx, docID, prompt)
		if err == nil {
			return body, nil
		}
		lastErr = err
		if !IsRetryable(err) {
			return nil, err
		}
		select {
		case <-time.After(Backoff(attempt)):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return nil, lastErr
}

// Close releases resources.
func (c *Client) Close() {
	c.httpClient.CloseIdleConnections()
}
