// Package browser manages the headless Chrome instance used to render
// statements to PDF.
//
// Key features:
//   - Thread-safe context holder shared by concurrent exports
//   - Lazy start: Chrome is launched on the first export, not at boot
//   - Restart after a failed allocation so the next export starts clean
package browser

import (
	"context"
	"log"
	"sync"

	"github.com/chromedp/chromedp"
)

// ContextHolder provides thread-safe access to a browser context.
//
// Each export opens its own tab from the held context, so one Chrome
// process serves every operator.
type ContextHolder struct {
	mu     sync.RWMutex
	ctx    context.Context
	cancel context.CancelFunc
	opts   []chromedp.ExecAllocatorOption
}

// NewContextHolder creates an empty holder. The browser is started by the
// first call to Get.
func NewContextHolder(opts ...chromedp.ExecAllocatorOption) *ContextHolder {
	return &ContextHolder{opts: opts}
}

// Get returns the current browser context, starting the browser if needed.
func (h *ContextHolder) Get() context.Context {
	h.mu.RLock()
	ctx := h.ctx
	h.mu.RUnlock()
	if ctx != nil && ctx.Err() == nil {
		return ctx
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.ctx == nil || h.ctx.Err() != nil {
		h.ctx, h.cancel = NewContext(h.opts...)
	}
	return h.ctx
}

// Set updates the browser context with a new one, cancelling the old one.
func (h *ContextHolder) Set(ctx context.Context, cancel context.CancelFunc) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.cancel != nil {
		h.cancel()
	}

	h.ctx = ctx
	h.cancel = cancel
}

// Restart replaces the browser with a fresh one. Used after a tab could not
// be allocated.
func (h *ContextHolder) Restart() {
	log.Println("  ⚠️  Restarting browser context...")
	ctx, cancel := NewContext(h.opts...)
	h.Set(ctx, cancel)
}

// Cancel shuts the browser down. Called on application shutdown.
func (h *ContextHolder) Cancel() {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.cancel != nil {
		h.cancel()
		h.cancel = nil
	}
	h.ctx = nil
}

// NewContext creates a new headless Chrome browser context.
//
// The allocator context is cancelled together with the browser context, so
// the returned cancel function releases the Chrome process as well.
func NewContext(opts ...chromedp.ExecAllocatorOption) (context.Context, context.CancelFunc) {
	log.Println("  → Creating new browser context...")

	allocOpts := append(chromedp.DefaultExecAllocatorOptions[:], opts...)
	allocCtx, allocCancel := chromedp.NewExecAllocator(context.Background(), allocOpts...)
	ctx, cancel := chromedp.NewContext(allocCtx, chromedp.WithLogf(log.Printf))

	log.Println("  ✓ Browser context created")
	return ctx, func() {
		cancel()
		allocCancel()
	}
}
