package sanity

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	defaultAPIVersion = "2023-05-03"

	defaultTimeout     = 30 * time.Second
	maxRetries         = 3
	initialRetryDelay  = 1 * time.Second
	maxRetryDelay      = 30 * time.Second
	retryBackoffFactor = 2
)

// Config identifies a Sanity project and dataset.
type Config struct {
	ProjectID  string
	Dataset    string
	APIVersion string
	Token      string
	// APIHost overrides https://<project>.api.sanity.io.
	APIHost string
}

// Client talks to the Sanity HTTP API
type Client struct {
	cfg        Config
	baseURL    string
	httpClient *http.Client
	retryDelay time.Duration
}

// NewClient creates a new Sanity API client
func NewClient(cfg Config) *Client {
	if cfg.APIVersion == "" {
		cfg.APIVersion = defaultAPIVersion
	}
	host := cfg.APIHost
	if host == "" {
		host = fmt.Sprintf("https://%s.api.sanity.io", cfg.ProjectID)
	}

	return &Client{
		cfg:     cfg,
		baseURL: fmt.Sprintf("%s/v%s", strings.TrimRight(host, "/"), strings.TrimPrefix(cfg.APIVersion, "v")),
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
		retryDelay: initialRetryDelay,
	}
}

type queryResponse struct {
	Result json.RawMessage `json:"result"`
}

// Mutation is one entry of a mutate request.
type Mutation struct {
	Create map[string]any `json:"create,omitempty"`
	Delete *DeleteByID    `json:"delete,omitempty"`
}

type DeleteByID struct {
	ID string `json:"id"`
}

type mutateRequest struct {
	Mutations []Mutation `json:"mutations"`
}

// MutateResponse is the transaction summary returned by the mutate endpoint.
type MutateResponse struct {
	TransactionID string `json:"transactionId"`
	Results       []struct {
		ID        string `json:"id"`
		Operation string `json:"operation"`
	} `json:"results"`
}

// AssetDocument is the document created for an uploaded asset.
type AssetDocument struct {
	ID               string `json:"_id"`
	URL              string `json:"url"`
	MimeType         string `json:"mimeType"`
	OriginalFilename string `json:"originalFilename"`
}

type assetResponse struct {
	Document AssetDocument `json:"document"`
}

// Query runs a GROQ query and decodes its result into out. Params are sent as
// $name query parameters.
func (c *Client) Query(ctx context.Context, groq string, params map[string]any, out any) error {
	q := url.Values{}
	q.Set("query", groq)
	for name, value := range params {
		encoded, err := json.Marshal(value)
		if err != nil {
			return fmt.Errorf("failed to encode param %s: %w", name, err)
		}
		q.Set("$"+name, string(encoded))
	}

	endpoint := fmt.Sprintf("%s/data/query/%s?%s", c.baseURL, url.PathEscape(c.cfg.Dataset), q.Encode())

	var resp queryResponse
	if err := c.do(ctx, http.MethodGet, endpoint, nil, "", &resp, isRetryableError); err != nil {
		return err
	}
	if out == nil || len(resp.Result) == 0 {
		return nil
	}
	if err := json.Unmarshal(resp.Result, out); err != nil {
		return fmt.Errorf("failed to decode query result: %w", err)
	}
	return nil
}

// Mutate applies mutations in a single transaction.
func (c *Client) Mutate(ctx context.Context, mutations ...Mutation) (*MutateResponse, error) {
	body, err := json.Marshal(mutateRequest{Mutations: mutations})
	if err != nil {
		return nil, fmt.Errorf("failed to encode mutations: %w", err)
	}

	endpoint := fmt.Sprintf("%s/data/mutate/%s?returnIds=true", c.baseURL, url.PathEscape(c.cfg.Dataset))

	// A 5xx may arrive after the transaction committed; retrying a create
	// would duplicate the document. 429 means the request was not applied.
	var resp MutateResponse
	if err := c.do(ctx, http.MethodPost, endpoint, body, "application/json", &resp, isRateLimited); err != nil {
		return nil, err
	}
	return &resp, nil
}

// UploadAsset uploads an image and returns its asset document.
func (c *Client) UploadAsset(ctx context.Context, data []byte, filename, contentType string) (*AssetDocument, error) {
	q := url.Values{}
	if filename != "" {
		q.Set("filename", filename)
	}
	endpoint := fmt.Sprintf("%s/assets/images/%s", c.baseURL, url.PathEscape(c.cfg.Dataset))
	if len(q) > 0 {
		endpoint += "?" + q.Encode()
	}
	if contentType == "" {
		contentType = http.DetectContentType(data)
	}

	// Assets are deduplicated by content hash, so uploads are safe to retry.
	var resp assetResponse
	if err := c.do(ctx, http.MethodPost, endpoint, data, contentType, &resp, isRetryableError); err != nil {
		return nil, err
	}
	return &resp.Document, nil
}

func (c *Client) do(ctx context.Context, method, endpoint string, body []byte, contentType string, out any, retryable func(error) bool) error {
	var lastErr error

	for attempt := 0; attempt < maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(c.backoff(attempt)):
			}
		}

		lastErr = c.doRequest(ctx, method, endpoint, body, contentType, out)
		if lastErr == nil {
			return nil
		}

		if !retryable(lastErr) {
			return lastErr
		}
	}

	return fmt.Errorf("max retries exceeded: %w", lastErr)
}

func (c *Client) doRequest(ctx context.Context, method, endpoint string, body []byte, contentType string, out any) error {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if c.cfg.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.cfg.Token)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return ErrUnauthorized
	case resp.StatusCode == http.StatusTooManyRequests:
		return ErrRateLimited
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &APIError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(data))}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func (c *Client) backoff(attempt int) time.Duration {
	delay := c.retryDelay
	for i := 1; i < attempt; i++ {
		delay *= time.Duration(retryBackoffFactor)
	}
	if delay > maxRetryDelay {
		delay = maxRetryDelay
	}
	return delay
}

func isRateLimited(err error) bool {
	return errors.Is(err, ErrRateLimited)
}

// isRetryableError allows retries on rate limits and server errors.
func isRetryableError(err error) bool {
	if errors.Is(err, ErrRateLimited) {
		return true
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.retryable()
	}
	return false
}
