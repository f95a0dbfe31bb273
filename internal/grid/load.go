package grid

import (
	"errors"
	"time"

	"github.com/gridle/gridle/internal/i18n"
	"github.com/gridle/gridle/internal/request"
	"github.com/gridle/gridle/internal/state"
)

// Request schedules a load through the debounce window, collapsing a
// burst of state changes into one fetch of the final state.
func (g *Grid) Request() {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.destroyed {
		return
	}
	if g.debounce != nil {
		g.debounce.Stop()
	}
	g.debounce = time.AfterFunc(g.opts.DebounceDelay, g.Load)
}

// Load runs the pipeline immediately. Each call claims a new load
// generation; a continuation whose generation has been superseded
// discards its result instead of applying stale data.
func (g *Grid) Load() {
	g.mu.Lock()
	if g.destroyed {
		g.mu.Unlock()
		return
	}
	g.loadGen++
	gen := g.loadGen
	g.mu.Unlock()

	g.load(gen, g.opts.Retries())
}

func (g *Grid) load(gen uint64, retriesLeft int) {
	if g.opts.Hooks.PreDataLoad != nil {
		g.opts.Hooks.PreDataLoad()
	}
	g.mu.Lock()
	g.uiLoading = true
	g.mu.Unlock()

	snap := g.store.Snapshot()
	params := g.builder.ParamsFor(snap, snap.CurrentPage)
	url := g.builder.URL(params)

	if g.gateway != nil {
		// A filter change invalidates every cached page before any
		// read, so stale cross-filter hits cannot happen.
		g.gateway.SyncFingerprint(g.ctx, request.Fingerprint(snap.Filters))
		if payload, err := g.gateway.Get(g.ctx, url); err == nil {
			g.log.Debug("cache hit", "url", url)
			g.complete(gen, payload, "", url)
			return
		}
	}

	payload, err := g.client.Fetch(g.ctx, url)
	if err != nil {
		var dataErr *request.DataError
		if !errors.As(err, &dataErr) && retriesLeft > 0 {
			g.log.Debug("fetch failed, retrying", "url", url, "left", retriesLeft, "error", err)
			g.load(gen, retriesLeft-1)
			return
		}
		if g.stale(gen) {
			return
		}
		g.log.Warn("load failed", "url", url, "error", err)
		g.mu.Lock()
		g.uiLoading = false
		g.uiError = err.Error()
		g.mu.Unlock()
		return
	}
	g.complete(gen, payload, url, url)
}

// stale reports whether a continuation lost the generation race or
// arrived after Destroy.
func (g *Grid) stale(gen uint64) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.destroyed || gen != g.loadGen
}

// complete applies a payload to state, writes through to the cache
// when the data came off the network, and flags the tree for redraw.
// A payload whose page fell past the shrunk total re-enters the load
// on the clamped page instead of showing its out-of-range rows.
func (g *Grid) complete(gen uint64, payload *request.Payload, networkURL, url string) {
	if g.stale(gen) {
		g.log.Debug("discarding stale load", "url", url)
		return
	}

	var clamped bool
	if _, err := g.store.Mutate(func(draft *state.Grid) {
		draft.TotalRecords = payload.TotalRecords
		if tp := draft.TotalPages(); draft.CurrentPage > tp {
			draft.CurrentPage = tp
			clamped = true
			return
		}
		draft.Data = payload.Data
	}); err != nil {
		g.log.Warn("apply payload failed", "error", err)
		g.mu.Lock()
		g.uiLoading = false
		g.mu.Unlock()
		return
	}

	if networkURL != "" && g.gateway != nil {
		g.gateway.Put(g.ctx, networkURL, payload)
	}

	if clamped {
		g.log.Debug("page past shrunk total, reloading", "url", url)
		g.Load()
		return
	}

	g.mu.Lock()
	g.uiLoading = false
	g.uiClearSel = true
	g.uiDirty = true
	g.mu.Unlock()

	if g.opts.Hooks.PostDataLoad != nil {
		g.opts.Hooks.PostDataLoad()
	}
	g.preloadNext()
}

// preloadNext opportunistically warms the cache with the following
// page. Skipped without a cache, under data-saver, or on the last
// page; failures are abandoned silently.
func (g *Grid) preloadNext() {
	if !g.opts.PreloadNextPage || g.gateway == nil || g.env.DataSaver() {
		return
	}
	snap := g.store.Snapshot()
	next := snap.CurrentPage + 1
	if next > snap.TotalPages() {
		return
	}
	url := g.builder.URL(g.builder.ParamsFor(snap, next))

	go func() {
		if _, err := g.gateway.Get(g.ctx, url); err == nil {
			return
		}
		payload, err := g.client.Fetch(g.ctx, url)
		if err != nil {
			g.log.Debug("preload abandoned", "url", url, "error", err)
			return
		}
		g.gateway.Put(g.ctx, url, payload)
	}()
}

func (g *Grid) currentBundle() *i18n.Bundle {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.bundle
}
