// Package azure implements the translation provider adapter for the
// Azure Translator REST API (v3). It wraps the single-string translate
// endpoint and owns the retry/backoff policy: a fixed number of attempts
// with an exponentially doubling delay and no jitter.
package azure

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// DefaultEndpoint is the global Azure Translator endpoint.
const DefaultEndpoint = "https://api.cognitive.microsofttranslator.com"

const (
	// DefaultRetryCount is the number of attempts before giving up.
	DefaultRetryCount = 3
	// DefaultRetryDelay is the wait after the first failed attempt; it
	// doubles after every further failure.
	DefaultRetryDelay = 1000 * time.Millisecond
)

// ---------------------------------------------------------------------------
// Errors
// ---------------------------------------------------------------------------

// TranslationError is returned once every attempt for a string has
// failed. It aborts the whole run: there is no partial-locale fallback.
type TranslationError struct {
	// Text is the original source string that could not be translated.
	Text string
	// Lang is the requested target language.
	Lang string
	// Attempts is how many calls were made before giving up.
	Attempts int
	// Err is the error from the final attempt.
	Err error
}

func (e *TranslationError) Error() string {
	return fmt.Sprintf("translating %q to %s failed after %d attempts: %v", e.Text, e.Lang, e.Attempts, e.Err)
}

func (e *TranslationError) Unwrap() error {
	return e.Err
}

// ---------------------------------------------------------------------------
// Client
// ---------------------------------------------------------------------------

// Client calls the Azure Translator text API.
type Client struct {
	// Endpoint is the API base URL (default: DefaultEndpoint).
	Endpoint string
	// APIKey is the Ocp-Apim-Subscription-Key value.
	APIKey string
	// Region is the Ocp-Apim-Subscription-Region value.
	Region string
	// RetryCount is the number of attempts per string (default 3).
	RetryCount int
	// RetryDelay is the initial backoff delay (default 1s), doubled
	// after each failed attempt.
	RetryDelay time.Duration
	// HTTPClient is the transport; a 30s-timeout client when nil.
	HTTPClient *http.Client
	// OnLog, when set, receives per-attempt failure messages.
	OnLog func(format string, args ...any)
}

// New returns a client with the default endpoint and retry policy.
func New(apiKey, region string) *Client {
	return &Client{
		Endpoint:   DefaultEndpoint,
		APIKey:     apiKey,
		Region:     region,
		RetryCount: DefaultRetryCount,
		RetryDelay: DefaultRetryDelay,
	}
}

func (c *Client) log(format string, args ...any) {
	if c.OnLog != nil {
		c.OnLog(format, args...)
	}
}

func (c *Client) httpClient() *http.Client {
	if c.HTTPClient != nil {
		return c.HTTPClient
	}
	return &http.Client{Timeout: 30 * time.Second}
}

func (c *Client) retryCount() int {
	if c.RetryCount > 0 {
		return c.RetryCount
	}
	return DefaultRetryCount
}

func (c *Client) retryDelay() time.Duration {
	if c.RetryDelay > 0 {
		return c.RetryDelay
	}
	return DefaultRetryDelay
}

// Translate translates one string into targetLang. The same text and
// language are sent on every attempt; after the final failure a
// *TranslationError is returned.
func (c *Client) Translate(ctx context.Context, text, targetLang string) (string, error) {
	attempts := c.retryCount()
	delay := c.retryDelay()

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		out, err := c.callOnce(ctx, text, targetLang)
		if err == nil {
			return out, nil
		}
		lastErr = err
		c.log("translation attempt %d/%d for %q failed: %v", attempt, attempts, text, err)

		if attempt == attempts {
			break
		}
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(delay):
		}
		delay *= 2
	}

	return "", &TranslationError{Text: text, Lang: targetLang, Attempts: attempts, Err: lastErr}
}

// ---------------------------------------------------------------------------
// Wire format
// ---------------------------------------------------------------------------

type requestItem struct {
	Text string `json:"Text"`
}

type responseItem struct {
	Translations []struct {
		Text string `json:"text"`
		To   string `json:"to"`
	} `json:"translations"`
}

// callOnce performs a single batch-of-one API call.
func (c *Client) callOnce(ctx context.Context, text, targetLang string) (string, error) {
	endpoint := c.Endpoint
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	u := fmt.Sprintf("%s/translate?api-version=3.0&to=%s", endpoint, url.QueryEscape(targetLang))

	body, err := json.Marshal([]requestItem{{Text: text}})
	if err != nil {
		return "", fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", u, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Ocp-Apim-Subscription-Key", c.APIKey)
	if c.Region != "" {
		req.Header.Set("Ocp-Apim-Subscription-Region", c.Region)
	}

	resp, err := c.httpClient().Do(req)
	if err != nil {
		return "", fmt.Errorf("API request failed: %w", err)
	}
	respBody, _ := io.ReadAll(resp.Body)
	resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("API returned status %d: %s", resp.StatusCode, truncate(string(respBody), 300))
	}

	var items []responseItem
	if err := json.Unmarshal(respBody, &items); err != nil {
		return "", fmt.Errorf("parsing response: %w", err)
	}
	if len(items) == 0 || len(items[0].Translations) == 0 {
		return "", fmt.Errorf("response contained no translation")
	}
	return items[0].Translations[0].Text, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
