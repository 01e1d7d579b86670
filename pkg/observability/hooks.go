// Package observability provides hooks for progress reporting and cache
// instrumentation without adding a hard dependency on any specific metrics
// or tracing backend.
//
// # Architecture
//
// The package uses a simple hooks pattern:
//   - Define hook interfaces for different event categories
//   - Provide no-op default implementations
//   - Allow registration of custom implementations at startup
//
// This approach:
//   - Avoids import cycles (hooks are registered by main, not by libraries)
//   - Keeps the engine dependency-free from observability frameworks
//   - Allows different backends (a terminal spinner, Prometheus, DataDog, etc.)
//
// # Usage
//
//	func main() {
//	    observability.SetEngineHooks(&myProgressBar{})
//	    // ... run the engine
//	}
//
// The engine calls hooks as work proceeds:
//
//	observability.Engine().OnSweepProgress(ctx, "reach", processed, total)
package observability

import (
	"context"
	"sync"
)

// EngineHooks receives progress events from the condensation sweep
// (component D). processed and total are measured in SCCs, not packages.
type EngineHooks interface {
	// OnSweepStart is called once before a metric sweep begins.
	OnSweepStart(ctx context.Context, metricKind string, total int)

	// OnSweepProgress is called periodically while a sweep is in progress:
	// about every 1,000 SCCs in the serial sweep, and once per completed
	// generation in the parallel sweep.
	OnSweepProgress(ctx context.Context, metricKind string, processed, total int)

	// OnSweepComplete is called once after a metric sweep finishes.
	OnSweepComplete(ctx context.Context, metricKind string, err error)
}

// CacheHooks receives events from store operations (pkg/store).
type CacheHooks interface {
	// OnCacheHit records a cache hit.
	OnCacheHit(ctx context.Context, keyType string)

	// OnCacheMiss records a cache miss.
	OnCacheMiss(ctx context.Context, keyType string)

	// OnCacheSet records a cache write.
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// NoopEngineHooks is a no-op implementation of EngineHooks.
type NoopEngineHooks struct{}

func (NoopEngineHooks) OnSweepStart(context.Context, string, int)            {}
func (NoopEngineHooks) OnSweepProgress(context.Context, string, int, int)    {}
func (NoopEngineHooks) OnSweepComplete(context.Context, string, error)      {}

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

var (
	engineHooks EngineHooks = NoopEngineHooks{}
	cacheHooks  CacheHooks  = NoopCacheHooks{}
	hooksMu     sync.RWMutex
)

// SetEngineHooks registers custom engine hooks. Call once at application
// startup before any engine operations.
func SetEngineHooks(h EngineHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		engineHooks = h
	}
}

// SetCacheHooks registers custom cache hooks. Call once at application
// startup before any store operations.
func SetCacheHooks(h CacheHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		cacheHooks = h
	}
}

// Engine returns the registered engine hooks.
func Engine() EngineHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return engineHooks
}

// Cache returns the registered cache hooks.
func Cache() CacheHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return cacheHooks
}

// Reset restores all hooks to their no-op defaults. Primarily useful for
// testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	engineHooks = NoopEngineHooks{}
	cacheHooks = NoopCacheHooks{}
}
