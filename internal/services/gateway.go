package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"hrsystem/resume-ranker/internal/config"
	"hrsystem/resume-ranker/internal/logger"
)

var (
	ErrMissingCredential = errors.New("completion API key is not configured")
	ErrRateLimitExceeded = errors.New("rate limit exceeded after retries")
	ErrRequestFailed     = errors.New("completion request failed")
)

const (
	defaultMaxAttempts = 3
	defaultRetryDelay  = 2 * time.Second
	responsePreviewLen = 200
)

// RetryPolicy bounds the gateway's retry loop. Sleep is injectable so tests
// can observe backoff without waiting.
type RetryPolicy struct {
	MaxAttempts int
	BaseDelay   time.Duration
	Sleep       func(time.Duration)
}

func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts: defaultMaxAttempts,
		BaseDelay:   defaultRetryDelay,
		Sleep:       time.Sleep,
	}
}

// textGenerator is the single-attempt request the retry loop wraps.
type textGenerator interface {
	GenerateText(ctx context.Context, prompt string) (string, error)
}

// CompletionGateway sends prompts to the external completion service,
// retrying with exponential backoff on rate limiting. Responses come back
// verbatim; interpreting content is the caller's job.
type CompletionGateway struct {
	generator textGenerator
	policy    RetryPolicy
	logger    *zap.Logger
}

func NewCompletionGateway(ctx context.Context, cfg config.GeminiConfig, log *zap.Logger) (*CompletionGateway, error) {
	gateway := &CompletionGateway{
		policy: DefaultRetryPolicy(),
		logger: log,
	}

	// A missing key is not a construction error: the gateway is optional
	// and every Complete call fails fast with ErrMissingCredential.
	if strings.TrimSpace(cfg.APIKey) == "" {
		return gateway, nil
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}

	gateway.generator = &geminiGenerator{client: client, model: cfg.Model}
	return gateway, nil
}

// newCompletionGatewayWith wires a gateway around an explicit generator and
// policy. Used by tests.
func newCompletionGatewayWith(generator textGenerator, policy RetryPolicy, log *zap.Logger) *CompletionGateway {
	return &CompletionGateway{generator: generator, policy: policy, logger: log}
}

// Configured reports whether the gateway has a usable credential.
func (g *CompletionGateway) Configured() bool {
	return g.generator != nil
}

func (g *CompletionGateway) Complete(ctx context.Context, prompt string) (string, error) {
	if g.generator == nil {
		return "", ErrMissingCredential
	}

	var lastErr error

	for attempt := 0; attempt < g.policy.MaxAttempts; attempt++ {
		response, err := g.generator.GenerateText(ctx, prompt)
		if err == nil {
			g.logger.Debug("completion response received",
				zap.Int("attempt", attempt+1),
				zap.String("preview", logger.TruncateForLog(response, responsePreviewLen)),
			)
			return response, nil
		}

		if !isRateLimited(err) {
			return "", fmt.Errorf("%w: %v", ErrRequestFailed, err)
		}

		lastErr = err
		if attempt == g.policy.MaxAttempts-1 {
			break
		}

		delay := retryHint(err, g.policy.BaseDelay) * time.Duration(1<<attempt)
		g.logger.Warn("completion rate limited, backing off",
			zap.Int("attempt", attempt+1),
			zap.Duration("delay", delay),
		)
		g.policy.Sleep(delay)
	}

	return "", fmt.Errorf("%w: %v", ErrRateLimitExceeded, lastErr)
}

func isRateLimited(err error) bool {
	var apiErr genai.APIError
	return errors.As(err, &apiErr) && apiErr.Code == http.StatusTooManyRequests
}

// retryHint reads the server-advertised retry delay from the error details
// when present, falling back to the policy default.
func retryHint(err error, fallback time.Duration) time.Duration {
	var apiErr genai.APIError
	if !errors.As(err, &apiErr) {
		return fallback
	}

	for _, detail := range apiErr.Details {
		raw, ok := detail["retryDelay"].(string)
		if !ok {
			continue
		}
		if delay, parseErr := time.ParseDuration(raw); parseErr == nil && delay > 0 {
			return delay
		}
	}
	return fallback
}

type geminiGenerator struct {
	client *genai.Client
	model  string
}

func (g *geminiGenerator) GenerateText(ctx context.Context, prompt string) (string, error) {
	temperature := float32(0.2)
	cfg := &genai.GenerateContentConfig{
		Temperature:     &temperature,
		MaxOutputTokens: 4096,
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), cfg)
	if err != nil {
		return "", err
	}

	text := resp.Text()
	if text == "" {
		return "", fmt.Errorf("no text content in response")
	}
	return text, nil
}
