package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/dgallion1/mdlive/internal/block"
)

// Remote stores snapshots in an external key-value service over HTTP.
type Remote struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

func NewRemote(baseURL, apiKey string) *Remote {
	return &Remote{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

func (s *Remote) Put(ctx context.Context, key string, doc block.Document) error {
	body, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshal document: %w", err)
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPut, s.keyURL(key), bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+s.apiKey)

	resp, err := s.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("put %s: %w", key, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("put %s: status %d: %s", key, resp.StatusCode, string(respBody))
	}
	return nil
}

func (s *Remote) Get(ctx context.Context, key string) (block.Document, bool, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, s.keyURL(key), nil)
	if err != nil {
		return nil, false, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+s.apiKey)

	resp, err := s.httpClient.Do(httpReq)
	if err != nil {
		return nil, false, fmt.Errorf("get %s: %w", key, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusNotFound {
		return nil, false, nil
	}
	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, false, fmt.Errorf("get %s: status %d: %s", key, resp.StatusCode, string(respBody))
	}

	var doc block.Document
	if err := json.NewDecoder(resp.Body).Decode(&doc); err != nil {
		return nil, false, fmt.Errorf("decode %s: %w", key, err)
	}
	return doc, true, nil
}

func (s *Remote) Close() error {
	s.httpClient.CloseIdleConnections()
	return nil
}

func (s *Remote) keyURL(key string) string {
	return s.baseURL + "/kv/" + url.PathEscape(key)
}
