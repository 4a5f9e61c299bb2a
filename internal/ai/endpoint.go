package ai

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

// DefaultEndpointTimeout bounds one request to a format-with-ai endpoint.
const DefaultEndpointTimeout = 60 * time.Second

// maxReplyBytes caps the decoded reply body.
const maxReplyBytes = 4 << 20

// EndpointClient calls a deployed format-with-ai endpoint.
type EndpointClient struct {
	url    string
	client *http.Client
}

// Compile-time interface check.
var _ Client = (*EndpointClient)(nil)

// NewEndpointClient creates an EndpointClient for url. A nil httpClient
// gets one with DefaultEndpointTimeout.
func NewEndpointClient(url string, httpClient *http.Client) *EndpointClient {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: DefaultEndpointTimeout}
	}
	return &EndpointClient{
		url:    strings.TrimSpace(url),
		client: httpClient,
	}
}

// FormatRequest is the JSON body of a format-with-ai call.
type FormatRequest struct {
	Content string `json:"content"`
	Tone    Tone   `json:"tone,omitempty"`
}

// FormatResponse is the JSON reply of a format-with-ai call.
type FormatResponse struct {
	FormattedContent string `json:"formattedContent,omitempty"`
	Error            string `json:"error,omitempty"`
}

// Format posts content and tone, then sanitizes the returned markup.
func (c *EndpointClient) Format(ctx context.Context, content string, tone Tone) (string, error) {
	if c.url == "" {
		return "", fmt.Errorf("%w: missing endpoint URL", ErrConfiguration)
	}
	if !tone.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidTone, string(tone))
	}

	body, err := json.Marshal(FormatRequest{Content: content, Tone: tone})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrConfiguration, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: POST %s: %w", ErrTransport, c.url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("%w: HTTP %d from %s: %s", ErrUpstream, resp.StatusCode, c.url, strings.TrimSpace(string(respBody)))
	}

	var result FormatResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxReplyBytes)).Decode(&result); err != nil {
		return "", fmt.Errorf("%w: decode response: %v", ErrUpstream, err)
	}
	if strings.TrimSpace(result.FormattedContent) == "" {
		return "", ErrEmptyResult
	}
	return Sanitize(ctx, result.FormattedContent)
}
