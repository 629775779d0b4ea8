package mapping

import (
	"context"
	"errors"
	"strings"
	"time"
)

// WarningCode categorizes a recovered classifier failure. Purely diagnostic;
// control flow does not depend on the category.
type WarningCode string

const (
	WarnAINotConfigured WarningCode = "AI_NOT_CONFIGURED"
	WarnAIRateLimit     WarningCode = "AI_RATE_LIMIT"
	WarnAIAuthError     WarningCode = "AI_AUTH_ERROR"
	WarnAIError         WarningCode = "AI_ERROR"
)

// Warning is a categorized, human-readable note attached to a mapping result.
type Warning struct {
	Code    WarningCode
	Message string
}

// Result is what the engine hands back: always a usable mapping, plus which
// provider produced it and any recovered failures along the way.
type Result struct {
	ProviderUsed string
	Suggestion   *Suggestion
	Warnings     []Warning
}

// defaultAITimeout bounds the classifier call, the pipeline's only
// suspension point.
const defaultAITimeout = 30 * time.Second

// Engine orchestrates the AI and heuristic providers. The AI provider is
// optional; the heuristic one is not.
type Engine struct {
	ai        Provider
	heuristic Provider
	aiTimeout time.Duration
}

// Option configures an Engine.
type Option func(*Engine)

// WithAIProvider enables the classifier-backed path.
func WithAIProvider(p Provider) Option {
	return func(e *Engine) { e.ai = p }
}

// WithAITimeout overrides the classifier timeout.
func WithAITimeout(d time.Duration) Option {
	return func(e *Engine) {
		if d > 0 {
			e.aiTimeout = d
		}
	}
}

func NewEngine(opts ...Option) *Engine {
	engine := &Engine{
		heuristic: &HeuristicProvider{},
		aiTimeout: defaultAITimeout,
	}
	for _, opt := range opts {
		opt(engine)
	}
	return engine
}

// Suggest produces a column mapping. With an AI provider configured it is
// tried first under a bounded timeout; any failure falls back to the
// heuristic provider with a categorized warning. The caller always gets a
// mapping.
func (e *Engine) Suggest(ctx context.Context, req Request) (*Result, error) {
	result := &Result{}

	if e.ai == nil {
		result.Warnings = append(result.Warnings, Warning{
			Code:    WarnAINotConfigured,
			Message: "no classifier credentials configured; used heuristic mapping",
		})
		return e.runHeuristic(ctx, req, result)
	}

	aiCtx, cancel := context.WithTimeout(ctx, e.aiTimeout)
	defer cancel()

	suggestion, err := e.ai.SuggestMapping(aiCtx, req)
	if err == nil {
		result.ProviderUsed = e.ai.Name()
		result.Suggestion = suggestion
		return result, nil
	}

	result.Warnings = append(result.Warnings, Warning{
		Code:    classifyProviderError(err),
		Message: "classifier failed, fell back to heuristic mapping: " + err.Error(),
	})
	return e.runHeuristic(ctx, req, result)
}

func (e *Engine) runHeuristic(ctx context.Context, req Request, result *Result) (*Result, error) {
	suggestion, err := e.heuristic.SuggestMapping(ctx, req)
	if err != nil {
		return nil, err
	}
	result.ProviderUsed = e.heuristic.Name()
	result.Suggestion = suggestion
	return result, nil
}

// classifyProviderError buckets a classifier failure for diagnostics.
func classifyProviderError(err error) WarningCode {
	if errors.Is(err, context.DeadlineExceeded) {
		return WarnAIError
	}

	message := strings.ToLower(err.Error())
	switch {
	case strings.Contains(message, "429") || strings.Contains(message, "resource_exhausted") || strings.Contains(message, "rate limit"):
		return WarnAIRateLimit
	case strings.Contains(message, "401") || strings.Contains(message, "403") ||
		strings.Contains(message, "unauthenticated") || strings.Contains(message, "permission_denied") ||
		strings.Contains(message, "api key"):
		return WarnAIAuthError
	default:
		return WarnAIError
	}
}
