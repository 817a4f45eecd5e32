package agents

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"

	"google.golang.org/genai"
)

// Gemini reason codes reported alongside every generation attempt. The
// orchestrator surfaces them as sourceReason, so they are part of the wire
// contract.
const (
	ReasonOK           = "ok"
	ReasonNoAPIKey     = "no_api_key"
	ReasonTimeout      = "timeout"
	ReasonConnectError = "connect_error"
	ReasonTooShort     = "too_short"
	ReasonNoText       = "no_text"
	ReasonException    = "exception"
)

// Gemini wraps the generative delegate shared by the bundled agents. A nil
// *Gemini is valid and reports no_api_key on every call.
type Gemini struct {
	client *genai.Client
	model  string
}

// NewGemini builds the delegate. An empty API key yields a nil delegate, not
// an error: the agents then run on their deterministic paths.
func NewGemini(ctx context.Context, apiKey, model string) (*Gemini, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, nil
	}
	if model == "" {
		model = "gemini-2.5-flash"
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	return &Gemini{client: client, model: model}, nil
}

// Model returns the configured primary model name.
func (g *Gemini) Model() string {
	if g == nil {
		return ""
	}
	return g.model
}

// GenerateOptions tunes one generation call.
type GenerateOptions struct {
	Model             string
	SystemInstruction string
	Temperature       float32
	MaxOutputTokens   int32
	JSONOnly          bool
	MinChars          int
}

// Generate runs one generation attempt and maps every failure mode to a
// stable reason code. The returned text is empty exactly when the reason is
// not "ok".
func (g *Gemini) Generate(ctx context.Context, prompt string, opts GenerateOptions) (string, string) {
	if g == nil || g.client == nil {
		return "", ReasonNoAPIKey
	}

	model := opts.Model
	if model == "" {
		model = g.model
	}

	cfg := &genai.GenerateContentConfig{
		Temperature: genai.Ptr(opts.Temperature),
	}
	if opts.MaxOutputTokens > 0 {
		cfg.MaxOutputTokens = opts.MaxOutputTokens
	}
	if opts.SystemInstruction != "" {
		cfg.SystemInstruction = genai.NewContentFromText(opts.SystemInstruction, genai.RoleUser)
	}
	if opts.JSONOnly {
		cfg.ResponseMIMEType = "application/json"
	}

	contents := []*genai.Content{genai.NewContentFromText(prompt, genai.RoleUser)}
	resp, err := g.client.Models.GenerateContent(ctx, model, contents, cfg)
	if err != nil {
		return "", classifyGenerateError(err)
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", ReasonNoText
	}
	if opts.MinChars > 0 && len(text) < opts.MinChars {
		return "", ReasonTooShort
	}
	return text, ReasonOK
}

func classifyGenerateError(err error) string {
	if errors.Is(err, context.DeadlineExceeded) {
		return ReasonTimeout
	}
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return fmt.Sprintf("http_%d", apiErr.Code)
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		if netErr.Timeout() {
			return ReasonTimeout
		}
		return ReasonConnectError
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return ReasonConnectError
	}
	return ReasonException
}
