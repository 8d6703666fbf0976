// Package client talks to hosted text-generation APIs.
//
// Every provider implements Generator: one prompt in, one completion out.
// Cancellation is carried by the context; callers tell a user stop apart from
// other failures with errors.Is(err, context.Canceled).
package client

import (
	"context"
	"errors"
	"net/http"
	"time"

	"typechat/internal/logging"
)

// Generator produces a completion for a single prompt.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

var (
	// ErrStatus is returned when the API answers with a non-success status.
	ErrStatus = errors.New("unexpected status")
	// ErrMalformedResponse is returned when the response body does not have
	// the expected shape.
	ErrMalformedResponse = errors.New("malformed response")
)

// Option configures a provider client.
type Option func(*options)

type options struct {
	model      string
	maxTokens  int
	httpClient *http.Client
	logger     *logging.Logger
}

func defaultOptions() options {
	return options{
		httpClient: &http.Client{Timeout: 60 * time.Second},
		logger:     logging.Nop(),
	}
}

// WithModel sets the model identifier sent with each request.
func WithModel(model string) Option {
	return func(o *options) {
		o.model = model
	}
}

// WithMaxTokens sets the maximum output length.
func WithMaxTokens(n int) Option {
	return func(o *options) {
		o.maxTokens = n
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(o *options) {
		o.httpClient = c
	}
}

// WithTimeout sets the HTTP client timeout.
func WithTimeout(d time.Duration) Option {
	return func(o *options) {
		o.httpClient.Timeout = d
	}
}

// WithLogger sets the request logger.
func WithLogger(l *logging.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}
