package ai

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"

	"google.golang.org/genai"
)

// Generation settings.
const (
	DefaultModel     = "gemini-1.5-flash-latest"
	DefaultAPIKeyEnv = "GEMINI_API_KEY"

	temperature     float32 = 0.3
	topK            float32 = 40
	topP            float32 = 0.95
	maxOutputTokens int32   = 8192
)

// GeminiConfig configures a GeminiClient.
type GeminiConfig struct {
	APIKey     string
	Model      string       // default: DefaultModel
	BaseURL    string       // overrides the API endpoint, for proxies and tests
	HTTPClient *http.Client // default: genai's client
}

// GeminiClient formats content with the Gemini generateContent API.
// The underlying genai client is created lazily on first use.
type GeminiClient struct {
	cfg GeminiConfig

	mu     sync.Mutex
	client *genai.Client
}

// Compile-time interface check.
var _ Client = (*GeminiClient)(nil)

// NewGeminiClient creates a GeminiClient. A missing API key is reported by
// Format as ErrConfiguration, not here.
func NewGeminiClient(cfg GeminiConfig) *GeminiClient {
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	return &GeminiClient{cfg: cfg}
}

// Format sends content with the tone instruction and returns sanitized markup.
func (c *GeminiClient) Format(ctx context.Context, content string, tone Tone) (string, error) {
	prompt, err := BuildPrompt(content, tone)
	if err != nil {
		return "", err
	}

	client, err := c.ensureClient(ctx)
	if err != nil {
		return "", err
	}

	resp, err := client.Models.GenerateContent(ctx, c.cfg.Model, genai.Text(prompt), &genai.GenerateContentConfig{
		Temperature:     genai.Ptr(temperature),
		TopK:            genai.Ptr(topK),
		TopP:            genai.Ptr(topP),
		MaxOutputTokens: maxOutputTokens,
	})
	if err != nil {
		return "", classifyGeminiError(err)
	}

	text := resp.Text()
	if strings.TrimSpace(text) == "" {
		return "", ErrEmptyResult
	}
	return Sanitize(ctx, text)
}

// ensureClient creates the genai client on first use.
func (c *GeminiClient) ensureClient(ctx context.Context) (*genai.Client, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.client != nil {
		return c.client, nil
	}
	if strings.TrimSpace(c.cfg.APIKey) == "" {
		return nil, fmt.Errorf("%w: missing API key", ErrConfiguration)
	}

	cc := &genai.ClientConfig{
		APIKey:     c.cfg.APIKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: c.cfg.HTTPClient,
	}
	if c.cfg.BaseURL != "" {
		cc.HTTPOptions = genai.HTTPOptions{BaseURL: c.cfg.BaseURL}
	}

	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfiguration, err)
	}
	c.client = client
	return client, nil
}

// classifyGeminiError maps a genai error onto the package sentinels.
// Context errors stay matchable through the wrap.
func classifyGeminiError(err error) error {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return fmt.Errorf("%w: status %d: %s", ErrUpstream, apiErr.Code, apiErr.Message)
	}
	var apiErrPtr *genai.APIError
	if errors.As(err, &apiErrPtr) {
		return fmt.Errorf("%w: status %d: %s", ErrUpstream, apiErrPtr.Code, apiErrPtr.Message)
	}
	return fmt.Errorf("%w: %w", ErrTransport, err)
}
