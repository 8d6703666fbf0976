package client

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

const (
	DefaultCohereModel     = "command-xlarge-nightly"
	DefaultCohereMaxTokens = 500

	maxResponseBytes = 4 << 20
)

// Cohere calls a Cohere-style generate endpoint:
//
//	POST {prompt, model, max_tokens} -> {generations: [{text}, ...]}
type Cohere struct {
	endpoint string
	apiKey   string
	opts     options
}

// NewCohere creates a client for the generate endpoint at endpoint.
func NewCohere(endpoint, apiKey string, opts ...Option) *Cohere {
	o := defaultOptions()
	o.model = DefaultCohereModel
	o.maxTokens = DefaultCohereMaxTokens
	for _, opt := range opts {
		opt(&o)
	}
	return &Cohere{
		endpoint: endpoint,
		apiKey:   apiKey,
		opts:     o,
	}
}

// Generate returns the text of the first generation, untrimmed.
func (c *Cohere) Generate(ctx context.Context, prompt string) (string, error) {
	reqLog := c.opts.logger.StartRequest("cohere", c.opts.model)

	text, err := c.generate(ctx, prompt)
	if err != nil {
		reqLog.Error(err)
		return "", err
	}
	reqLog.Success(len(text))
	return text, nil
}

func (c *Cohere) generate(ctx context.Context, prompt string) (string, error) {
	body, err := c.requestBody(prompt)
	if err != nil {
		return "", fmt.Errorf("build request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.opts.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("%w: HTTP %d: %s", ErrStatus, resp.StatusCode, truncate(string(data), 200))
	}

	return parseGeneration(data)
}

func (c *Cohere) requestBody(prompt string) ([]byte, error) {
	body := []byte(`{}`)
	var err error
	if body, err = sjson.SetBytes(body, "prompt", prompt); err != nil {
		return nil, err
	}
	if body, err = sjson.SetBytes(body, "model", c.opts.model); err != nil {
		return nil, err
	}
	return sjson.SetBytes(body, "max_tokens", c.opts.maxTokens)
}

// parseGeneration extracts generations[0].text, which must be a string.
func parseGeneration(data []byte) (string, error) {
	if !gjson.ValidBytes(data) {
		return "", fmt.Errorf("%w: invalid JSON", ErrMalformedResponse)
	}
	text := gjson.GetBytes(data, "generations.0.text")
	if !text.Exists() {
		return "", fmt.Errorf("%w: missing generations[0].text", ErrMalformedResponse)
	}
	if text.Type != gjson.String {
		return "", fmt.Errorf("%w: generations[0].text is %s", ErrMalformedResponse, text.Type)
	}
	return text.String(), nil
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
