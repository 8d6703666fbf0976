package client

import (
	"context"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

const DefaultAnthropicModel = "claude-sonnet-4-5-20250929"

// Anthropic sends each prompt as a single-turn Messages request.
type Anthropic struct {
	client anthropic.Client
	opts   options
}

// NewAnthropic creates a Messages client. baseURL may be empty to use the
// SDK default.
func NewAnthropic(apiKey, baseURL string, opts ...Option) *Anthropic {
	o := defaultOptions()
	o.model = DefaultAnthropicModel
	o.maxTokens = DefaultCohereMaxTokens
	for _, opt := range opts {
		opt(&o)
	}

	reqOpts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithHTTPClient(o.httpClient),
		// a failed entry stays failed; no retries
		option.WithMaxRetries(0),
	}
	if baseURL != "" {
		reqOpts = append(reqOpts, option.WithBaseURL(baseURL))
	}

	return &Anthropic{
		client: anthropic.NewClient(reqOpts...),
		opts:   o,
	}
}

// Generate returns the concatenated text blocks of the reply.
func (a *Anthropic) Generate(ctx context.Context, prompt string) (string, error) {
	reqLog := a.opts.logger.StartRequest("anthropic", a.opts.model)

	resp, err := a.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(a.opts.model),
		MaxTokens: int64(a.opts.maxTokens),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		err = fmt.Errorf("messages request: %w", err)
		reqLog.Error(err)
		return "", err
	}

	var sb strings.Builder
	found := false
	for _, block := range resp.Content {
		if block.Type == "text" {
			sb.WriteString(block.Text)
			found = true
		}
	}
	if !found {
		err := fmt.Errorf("%w: no text content", ErrMalformedResponse)
		reqLog.Error(err)
		return "", err
	}

	reqLog.Success(sb.Len())
	return sb.String(), nil
}
