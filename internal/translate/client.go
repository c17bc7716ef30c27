// Package translate binds the external translation service: an
// OpenAI-compatible chat-completions endpoint consumed over plain HTTP.
package translate

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/text/language"
)

const (
	// DefaultModel is the default chat model used for translation.
	DefaultModel = "gpt-4o-mini"
	// DefaultAPIURL is the standard chat completions endpoint.
	DefaultAPIURL = "https://api.openai.com/v1/chat/completions"
	// DefaultTimeout bounds one translation request.
	DefaultTimeout = 60 * time.Second
	// MaxRetries is the number of retry attempts after a retryable failure.
	MaxRetries = 2
	// BaseRetryDelay is the initial backoff delay; it doubles per attempt.
	BaseRetryDelay = 1 * time.Second
)

// Result is a completed translation. DetectedLang is only set when the
// source language was "auto".
type Result struct {
	TranslatedText string
	DetectedLang   string
}

// Config configures a Client.
type Config struct {
	APIKey     string
	Model      string
	APIURL     string
	Timeout    time.Duration
	RetryDelay time.Duration // backoff base; defaults to BaseRetryDelay
	Logger     zerolog.Logger
}

// Client is the HTTP translation client.
type Client struct {
	apiKey     string
	model      string
	apiURL     string
	client     *http.Client
	retryDelay time.Duration
	log        zerolog.Logger
}

// NewClient creates a translation client. Zero-value config fields fall back
// to the package defaults.
func NewClient(cfg Config) *Client {
	model := cfg.Model
	if model == "" {
		model = DefaultModel
	}
	apiURL := cfg.APIURL
	if apiURL == "" {
		apiURL = DefaultAPIURL
	} else {
		apiURL = normalizeAPIURL(apiURL)
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = DefaultTimeout
	}
	retryDelay := cfg.RetryDelay
	if retryDelay == 0 {
		retryDelay = BaseRetryDelay
	}
	return &Client{
		apiKey:     cfg.APIKey,
		model:      model,
		apiURL:     apiURL,
		client:     &http.Client{Timeout: timeout},
		retryDelay: retryDelay,
		log:        cfg.Logger,
	}
}

// normalizeAPIURL completes a bare base URL with the chat completions path.
func normalizeAPIURL(url string) string {
	url = strings.TrimSuffix(url, "/")
	if strings.HasSuffix(url, "/chat/completions") {
		return url
	}
	return url + "/chat/completions"
}

// ValidateLang checks that a language tag is well-formed. "auto" is accepted
// as a source language.
func ValidateLang(tag string) error {
	if tag == "auto" {
		return nil
	}
	if _, err := language.Parse(tag); err != nil {
		return fmt.Errorf("invalid language tag %q: %w", tag, err)
	}
	return nil
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Translate translates text from sourceLang to targetLang. When sourceLang
// is "auto" the service detects the language and reports it in the result.
func (c *Client) Translate(ctx context.Context, text, sourceLang, targetLang string) (Result, error) {
	if strings.TrimSpace(text) == "" {
		return Result{}, fmt.Errorf("empty text")
	}
	if err := ValidateLang(sourceLang); err != nil {
		return Result{}, err
	}
	if err := ValidateLang(targetLang); err != nil {
		return Result{}, err
	}

	auto := sourceLang == "auto" || sourceLang == ""
	system := fmt.Sprintf(
		"You translate short UI and photo text from %s to %s. "+
			"Reply with only the translation, no quotes or commentary.",
		sourceLang, targetLang)
	if auto {
		system = fmt.Sprintf(
			"You translate short UI and photo text to %s, detecting the source language. "+
				"Reply with the BCP-47 tag of the detected language, a tab character, "+
				"then only the translation.",
			targetLang)
	}

	body, err := json.Marshal(chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: text},
		},
	})
	if err != nil {
		return Result{}, fmt.Errorf("failed to encode request: %w", err)
	}

	content, err := c.post(ctx, body)
	if err != nil {
		return Result{}, err
	}

	res := Result{TranslatedText: strings.TrimSpace(content)}
	if auto {
		if lang, translated, ok := strings.Cut(res.TranslatedText, "\t"); ok {
			res.DetectedLang = strings.TrimSpace(lang)
			res.TranslatedText = strings.TrimSpace(translated)
		}
	}
	if res.TranslatedText == "" {
		return Result{}, fmt.Errorf("service returned an empty translation")
	}
	return res, nil
}

// post sends the request with bounded retries and exponential backoff on
// retryable failures (network errors, 429, 5xx).
func (c *Client) post(ctx context.Context, body []byte) (string, error) {
	var lastErr error
	for attempt := 0; attempt <= MaxRetries; attempt++ {
		if attempt > 0 {
			delay := c.retryDelay << (attempt - 1)
			c.log.Debug().Int("attempt", attempt).Dur("delay", delay).Msg("retrying translation request")
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(delay):
			}
		}

		content, retryable, err := c.attempt(ctx, body)
		if err == nil {
			return content, nil
		}
		lastErr = err
		if !retryable {
			return "", err
		}
	}
	return "", fmt.Errorf("translation failed after %d attempts: %w", MaxRetries+1, lastErr)
}

func (c *Client) attempt(ctx context.Context, body []byte) (content string, retryable bool, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL, bytes.NewReader(body))
	if err != nil {
		return "", false, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", true, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", true, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
		return "", true, fmt.Errorf("service returned status %d", resp.StatusCode)
	}
	if resp.StatusCode != http.StatusOK {
		return "", false, fmt.Errorf("service returned status %d: %s", resp.StatusCode, truncate(string(data), 200))
	}

	var parsed chatResponse
	if err := json.Unmarshal(data, &parsed); err != nil {
		return "", false, fmt.Errorf("failed to decode response: %w", err)
	}
	if parsed.Error != nil {
		return "", false, fmt.Errorf("service error: %s", parsed.Error.Message)
	}
	if len(parsed.Choices) == 0 {
		return "", false, fmt.Errorf("response contained no choices")
	}
	return parsed.Choices[0].Message.Content, false, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
