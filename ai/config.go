// Package ai assembles the dialog pipeline from a server profile.
package ai

import (
	"log/slog"
	"time"

	"github.com/scimatch/scimatch/ai/core/llm"
	"github.com/scimatch/scimatch/ai/dialog"
	"github.com/scimatch/scimatch/ai/gateway"
	"github.com/scimatch/scimatch/ai/intent"
	"github.com/scimatch/scimatch/ai/metrics"
	"github.com/scimatch/scimatch/ai/reason"
	"github.com/scimatch/scimatch/internal/profile"
	"github.com/scimatch/scimatch/store"
)

// reasonCacheCapacity bounds the per-process reason memo.
const reasonCacheCapacity = 1000

// NewLLMConfigFromProfile maps profile settings onto the provider client
// config.
func NewLLMConfigFromProfile(p *profile.Profile) *llm.Config {
	return &llm.Config{
		Provider: p.LLMProvider,
		Model:    p.LLMModel,
		APIKey:   p.LLMAPIKey,
		BaseURL:  p.LLMBaseURL,
		Timeout:  p.LLMTimeout,
	}
}

// NewEngineFromProfile wires the full turn pipeline. Without an API key
// the engine still works: the gateway answers every call from rule
// fallbacks. The returned service is nil when no provider is configured.
func NewEngineFromProfile(p *profile.Profile, directory *store.Store, exporter *metrics.Exporter) (*dialog.Engine, llm.Service, error) {
	var svc llm.Service
	if p.IsAIEnabled() {
		created, err := llm.NewService(NewLLMConfigFromProfile(p))
		if err != nil {
			return nil, nil, err
		}
		svc = created
		slog.Info("llm service initialized", "provider", p.LLMProvider, "model", p.LLMModel)
	} else {
		slog.Warn("no LLM API key configured, pipeline runs on rule fallbacks only")
	}

	gw := gateway.New(svc)
	var observer dialog.TurnObserver
	if exporter != nil {
		gw.WithRecorder(exporter)
		observer = exporter
	}

	engine := dialog.NewEngine(dialog.Config{
		Gateway:   gw,
		Extractor: intent.NewExtractor(gw, time.Duration(p.IntentTimeout)*time.Second),
		Reasons:   reason.NewGenerator(gw, reason.NewCache(reasonCacheCapacity), time.Duration(p.ReasonTimeout)*time.Second),
		Store:     directory,
		Budget:    time.Duration(p.TurnBudget) * time.Second,
		Observer:  observer,
	})
	return engine, svc, nil
}
