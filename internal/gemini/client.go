// ABOUTME: Gemini client construction and the content generation seam
// ABOUTME: Shared by the joke and speech request clients
package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"google.golang.org/genai"
)

// ErrMissingAPIKey is returned when no API key is configured
var ErrMissingAPIKey = errors.New("missing Gemini API key")

// ContentGenerator is the part of the genai Models service the app uses
type ContentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

var _ ContentGenerator = (*genai.Models)(nil)

// Config holds client connection settings
type Config struct {
	APIKey  string
	BaseURL string
	// Timeout bounds each request; zero leaves requests unbounded
	Timeout time.Duration
}

// Client wraps a genai client with an optional per-request timeout
type Client struct {
	gen     ContentGenerator
	timeout time.Duration
}

// NewClient creates a client for the Gemini API backend
func NewClient(ctx context.Context, cfg Config) (*Client, error) {
	cfg.APIKey = strings.TrimSpace(cfg.APIKey)
	if cfg.APIKey == "" {
		return nil, ErrMissingAPIKey
	}

	cc := &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if cfg.BaseURL != "" {
		cc.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.BaseURL}
	}

	c, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}
	return &Client{gen: c.Models, timeout: cfg.Timeout}, nil
}

// NewWithGenerator wraps an existing generator, mainly for tests
func NewWithGenerator(gen ContentGenerator, timeout time.Duration) *Client {
	return &Client{gen: gen, timeout: timeout}
}

// GenerateContent forwards to the generator, applying the configured timeout
func (c *Client) GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}
	return c.gen.GenerateContent(ctx, model, contents, config)
}

// FirstInlineData returns the inline payload of the first part of the first candidate
func FirstInlineData(resp *genai.GenerateContentResponse) *genai.Blob {
	if resp == nil || len(resp.Candidates) == 0 {
		return nil
	}
	cand := resp.Candidates[0]
	if cand == nil || cand.Content == nil || len(cand.Content.Parts) == 0 {
		return nil
	}
	part := cand.Content.Parts[0]
	if part == nil || part.InlineData == nil || len(part.InlineData.Data) == 0 {
		return nil
	}
	return part.InlineData
}
