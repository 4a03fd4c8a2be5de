// Package libretranslate implements the translation provider contract
// against a LibreTranslate-compatible HTTP endpoint.
package libretranslate

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/wisatago/tourcms/internal/translate"
)

const defaultTimeout = 30 * time.Second

// Config configures the client.
type Config struct {
	// BaseURL is the instance root, e.g. https://libretranslate.example.com.
	BaseURL string
	// APIKey is optional; public instances accept anonymous calls.
	APIKey string
	// HTTPClient overrides the default client.
	HTTPClient *http.Client
}

// Client talks to one LibreTranslate instance.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

var _ translate.Provider = (*Client)(nil)

// ErrBaseURLRequired is returned when the instance URL is missing.
var ErrBaseURLRequired = errors.New("libretranslate: base url is required")

// New constructs a client.
func New(cfg Config) (*Client, error) {
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		return nil, ErrBaseURLRequired
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultTimeout}
	}
	return &Client{
		baseURL: baseURL,
		apiKey:  cfg.APIKey,
		http:    httpClient,
	}, nil
}

// Translate runs one POST /translate call.
func (c *Client) Translate(ctx context.Context, text, from, to string) (string, error) {
	body := map[string]any{
		"q":      text,
		"source": from,
		"target": to,
		"format": "text",
	}
	if c.apiKey != "" {
		body["api_key"] = c.apiKey
	}

	respBody, err := c.doJSONRequest(ctx, http.MethodPost, c.baseURL+"/translate", body)
	if err != nil {
		return "", err
	}

	var result struct {
		TranslatedText string `json:"translatedText"`
	}
	if err := json.Unmarshal(respBody, &result); err != nil {
		return "", &translate.ProviderError{
			Provider:  "libretranslate",
			Operation: "translate",
			Retryable: false,
			Err:       fmt.Errorf("decode response: %w", err),
		}
	}
	return result.TranslatedText, nil
}

// SupportedLanguages runs GET /languages and returns the language codes.
func (c *Client) SupportedLanguages(ctx context.Context) ([]string, error) {
	respBody, err := c.doJSONRequest(ctx, http.MethodGet, c.baseURL+"/languages", nil)
	if err != nil {
		return nil, err
	}

	var result []struct {
		Code string `json:"code"`
	}
	if err := json.Unmarshal(respBody, &result); err != nil {
		return nil, &translate.ProviderError{
			Provider:  "libretranslate",
			Operation: "languages",
			Retryable: false,
			Err:       fmt.Errorf("decode response: %w", err),
		}
	}
	codes := make([]string, 0, len(result))
	for _, lang := range result {
		codes = append(codes, lang.Code)
	}
	return codes, nil
}

func (c *Client) doJSONRequest(ctx context.Context, method, url string, body any) ([]byte, error) {
	operation := "translate"
	if method == http.MethodGet {
		operation = "languages"
	}

	var reader io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("libretranslate: marshal request: %w", err)
		}
		reader = bytes.NewReader(jsonBody)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return nil, fmt.Errorf("libretranslate: new request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &translate.ProviderError{
			Provider:  "libretranslate",
			Operation: operation,
			Retryable: true,
			Err:       err,
		}
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &translate.ProviderError{
			Provider:  "libretranslate",
			Operation: operation,
			Retryable: true,
			Err:       fmt.Errorf("read body: %w", err),
		}
	}

	if resp.StatusCode != http.StatusOK {
		return nil, &translate.ProviderError{
			Provider:  "libretranslate",
			Operation: operation,
			Retryable: retryableStatus(resp.StatusCode),
			Err:       fmt.Errorf("api error (status %d): %s", resp.StatusCode, string(respBody)),
		}
	}
	return respBody, nil
}

// 429 and 5xx are transient; auth and bad-request failures are not.
func retryableStatus(status int) bool {
	return status == http.StatusTooManyRequests || status >= http.StatusInternalServerError
}
