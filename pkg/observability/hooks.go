// Package observability provides hooks for instrumenting card runs.
//
// Generation and assembly report their progress through [PipelineHooks].
// The default hooks do nothing; embedders register their own at startup
// to feed metrics or tracing backends without the pipeline importing them.
//
//	func main() {
//	    observability.SetPipelineHooks(&myHooks{})
//	    // ... run application
//	}
//
// The pipeline emits events as it works:
//
//	observability.Pipeline().OnCardRendered(ctx, i, path, duration)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Pipeline Hooks
// =============================================================================

// PipelineHooks receives events from card generation and PDF assembly.
type PipelineHooks interface {
	// Generation events
	OnGenerateStart(ctx context.Context, count int)
	OnCardRendered(ctx context.Context, index int, path string, duration time.Duration)
	OnGenerateComplete(ctx context.Context, cards int, duration time.Duration, err error)

	// Assembly events, once per PDF
	OnAssembleStart(ctx context.Context, output string, cards int)
	OnAssembleComplete(ctx context.Context, output string, pages, skipped int, duration time.Duration, err error)
}

// NoopPipelineHooks is a no-op implementation of PipelineHooks.
type NoopPipelineHooks struct{}

func (NoopPipelineHooks) OnGenerateStart(context.Context, int)                          {}
func (NoopPipelineHooks) OnCardRendered(context.Context, int, string, time.Duration)    {}
func (NoopPipelineHooks) OnGenerateComplete(context.Context, int, time.Duration, error) {}
func (NoopPipelineHooks) OnAssembleStart(context.Context, string, int)                  {}
func (NoopPipelineHooks) OnAssembleComplete(context.Context, string, int, int, time.Duration, error) {
}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	pipelineHooks PipelineHooks = NoopPipelineHooks{}
	hooksMu       sync.RWMutex
)

// SetPipelineHooks registers custom pipeline hooks. A nil h is ignored.
func SetPipelineHooks(h PipelineHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		pipelineHooks = h
	}
}

// Pipeline returns the registered pipeline hooks.
func Pipeline() PipelineHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return pipelineHooks
}

// Reset restores the no-op hooks.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	pipelineHooks = NoopPipelineHooks{}
}
