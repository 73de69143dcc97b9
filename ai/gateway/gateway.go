// Package gateway is the single entry point for model calls. Every
// pipeline stage goes through Gateway.Call with a prompt kind and a
// per-call timeout; when the provider is slow, broken, or absent the
// gateway answers from a deterministic per-kind fallback so callers
// always get usable content.
package gateway

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/scimatch/scimatch/ai/core/llm"
)

// PromptKind selects the prompt family of a call. It drives the fallback
// generator and the per-kind metrics labels.
type PromptKind string

const (
	KindRelevance  PromptKind = "relevance"
	KindClarity    PromptKind = "clarity"
	KindIntent     PromptKind = "intent_analysis"
	KindReason     PromptKind = "match_reason"
	KindAdvice     PromptKind = "academic_advice"
	KindComparison PromptKind = "comparison"
	KindGeneral    PromptKind = "general"
)

var (
	// ErrProviderTimeout marks a call that ran out of its per-call budget.
	ErrProviderTimeout = errors.New("llm provider timed out")
	// ErrProviderMalformed marks a provider response with no usable content.
	ErrProviderMalformed = errors.New("llm provider returned malformed content")
)

// Result is the outcome of a gateway call. Fallback reports whether
// Content came from the deterministic generator instead of the provider.
type Result struct {
	Content  string
	Fallback bool
	Stats    *llm.CallStats
}

// Recorder receives per-call observations. Satisfied by metrics.Exporter.
type Recorder interface {
	ObserveGatewayCall(kind, status string, duration time.Duration)
}

type nopRecorder struct{}

func (nopRecorder) ObserveGatewayCall(string, string, time.Duration) {}

// Gateway wraps an llm.Service with timeouts, fallbacks and metrics.
// A nil service is valid and means every call answers from fallback.
type Gateway struct {
	svc      llm.Service
	recorder Recorder
}

func New(svc llm.Service) *Gateway {
	return &Gateway{svc: svc, recorder: nopRecorder{}}
}

// WithRecorder sets the metrics sink and returns g for chaining.
func (g *Gateway) WithRecorder(r Recorder) *Gateway {
	if r != nil {
		g.recorder = r
	}
	return g
}

// Enabled reports whether a real provider is configured.
func (g *Gateway) Enabled() bool {
	return g != nil && g.svc != nil
}

type chatOutcome struct {
	content string
	stats   *llm.CallStats
	err     error
}

// Call sends messages to the provider under the given timeout. The error
// return is reserved for programmer mistakes (no messages); provider
// failures never surface to the caller: they are logged, counted and
// answered from the fallback generator for kind. A provider goroutine
// that outlives its budget has its eventual result discarded.
func (g *Gateway) Call(ctx context.Context, kind PromptKind, messages []llm.Message, timeout time.Duration) (*Result, error) {
	if len(messages) == 0 {
		return nil, errors.New("gateway: call requires at least one message")
	}
	userText := lastUserText(messages)

	if !g.Enabled() {
		g.recorder.ObserveGatewayCall(string(kind), "disabled", 0)
		return &Result{Content: fallbackContent(kind, userText), Fallback: true}, nil
	}

	callCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	start := time.Now()
	// Buffered so a provider that ignores cancellation can still complete
	// its send after we stop listening.
	outcome := make(chan chatOutcome, 1)
	go func() {
		content, stats, err := g.svc.Chat(callCtx, messages)
		outcome <- chatOutcome{content: content, stats: stats, err: err}
	}()

	select {
	case out := <-outcome:
		elapsed := time.Since(start)
		if err := classify(out, callCtx); err != nil {
			status := "error"
			if errors.Is(err, ErrProviderTimeout) {
				status = "timeout"
			}
			g.recorder.ObserveGatewayCall(string(kind), status, elapsed)
			slog.Warn("gateway call fell back", "kind", kind, "status", status, "duration", elapsed, "error", err)
			return &Result{Content: fallbackContent(kind, userText), Fallback: true}, nil
		}
		g.recorder.ObserveGatewayCall(string(kind), "ok", elapsed)
		return &Result{Content: out.content, Stats: out.stats}, nil
	case <-callCtx.Done():
		elapsed := time.Since(start)
		g.recorder.ObserveGatewayCall(string(kind), "timeout", elapsed)
		slog.Warn("gateway call timed out", "kind", kind, "timeout", timeout)
		return &Result{Content: fallbackContent(kind, userText), Fallback: true}, nil
	}
}

func classify(out chatOutcome, callCtx context.Context) error {
	if out.err != nil {
		if errors.Is(out.err, context.DeadlineExceeded) || callCtx.Err() == context.DeadlineExceeded {
			return errors.Wrap(ErrProviderTimeout, out.err.Error())
		}
		return out.err
	}
	if strings.TrimSpace(out.content) == "" {
		return ErrProviderMalformed
	}
	return nil
}

// lastUserText returns the content of the final user-role message, which
// the fallback generators key off.
func lastUserText(messages []llm.Message) string {
	for i := len(messages) - 1; i >= 0; i-- {
		if messages[i].Role == "user" {
			return messages[i].Content
		}
	}
	return messages[len(messages)-1].Content
}
