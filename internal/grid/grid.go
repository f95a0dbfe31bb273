package grid

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/gridle/gridle/internal/cache"
	"github.com/gridle/gridle/internal/config"
	"github.com/gridle/gridle/internal/i18n"
	"github.com/gridle/gridle/internal/input"
	"github.com/gridle/gridle/internal/render"
	"github.com/gridle/gridle/internal/request"
	"github.com/gridle/gridle/internal/state"
)

// ErrDestroyed is returned by operations invoked after Destroy.
var ErrDestroyed = errors.New("grid: destroyed")

// Grid is the orchestrator: it owns the state store, the renderer,
// the interaction controller and the load pipeline, and exposes the
// public command surface.
type Grid struct {
	opts *config.Options
	log  *slog.Logger

	store   *state.Store
	rend    *render.Renderer
	ctrl    *input.Controller
	builder *request.Builder
	client  *request.Client
	gateway *cache.Gateway // nil when caching is off
	lang    *i18n.Provider
	env     Env

	ctx    context.Context
	cancel context.CancelFunc

	mu           sync.Mutex
	bundle       *i18n.Bundle
	debounce     *time.Timer
	loadGen      uint64
	destroyed    bool
	skipPersist  bool // set during live resize; release persists
	lastSelected int  // selection size, for announcement direction
	statePath    string
	unregister   func()

	// Pending load outcomes. Loads finish on timer goroutines and
	// never touch the scene tree themselves; syncUI applies these on
	// the host goroutine.
	uiDirty    bool   // payload applied; tree needs a redraw
	uiLoading  bool   // load in flight; overlay shown until it lands
	uiClearSel bool   // rows were replaced; selection resets
	uiError    string // terminal load failure awaiting display
}

// New validates options, restores persisted and location state, and
// kicks off the initial load. A missing or invalid mandatory option
// fails construction synchronously with a *config.ConfigError.
func New(opts config.Options, env Env) (*Grid, error) {
	checked, warnings, err := opts.Validate()
	if err != nil {
		return nil, err
	}
	validated := &checked
	log := validated.Logger()
	for _, w := range warnings {
		log.Warn("configuration warning", "option", w.Option, "reason", w.Reason)
	}
	if env == nil {
		env = NoopEnv{}
	}
	if validated.InstanceKey == "" {
		validated.InstanceKey = uuid.NewString()
	}

	builder, err := request.NewBuilder(validated.URL)
	if err != nil {
		return nil, &config.ConfigError{Option: "url", Reason: err.Error()}
	}

	ctx, cancel := context.WithCancel(context.Background())
	g := &Grid{
		opts:    validated,
		log:     log,
		rend:    render.New(validated, log),
		builder: builder,
		client:  &request.Client{},
		lang:    i18n.NewProvider(i18n.DirLoader{Dir: validated.LangPath}, log),
		env:     env,
		ctx:     ctx,
		cancel:  cancel,
	}
	g.ctrl = input.New(g, validated.Selectable, log)
	g.store = state.NewStore(g.initialGrid())
	g.statePath = filepath.Join(validated.StateDir, validated.InstanceKey+".toml")

	if validated.UseCache {
		dbPath, err := expandPath(filepath.Join(validated.StateDir, "cache.db"))
		if err == nil {
			g.gateway, err = cache.Open(dbPath, validated.InstanceKey, validated.CacheExpiry, log)
		}
		if err != nil {
			// Caching is an optimization; a broken cache store must
			// not prevent construction.
			log.Warn("cache unavailable", "error", err)
			g.gateway = nil
		}
	}

	g.restore()

	bundle, err := g.lang.Get(ctx, g.store.Snapshot().Language)
	if err != nil {
		log.Warn("language unavailable, using fallback", "language", validated.Language, "error", err)
	}
	g.bundle = bundle

	g.store.Subscribe(g.onSnapshot)

	if validated.ShouldDestroyOnUnload() {
		g.unregister = env.RegisterUnloadHandler(func() { g.Destroy() })
	}

	g.render()
	g.Load()
	g.syncUI()
	return g, nil
}

// initialGrid builds the first snapshot from validated options.
func (g *Grid) initialGrid() *state.Grid {
	return &state.Grid{
		CurrentPage:       1,
		RowsPerPage:       g.opts.RowsPerPage,
		Filters:           make(map[string]string),
		Columns:           append([]string(nil), g.opts.Columns...),
		ColumnTitles:      append([]string(nil), g.opts.ColumnTitles...),
		ColumnWidths:      make(map[string]int),
		HeaderCellClasses: append([]string(nil), g.opts.HeaderCellClasses...),
		Format:            g.opts.Format,
		Language:          g.opts.Language,
		Theme:             g.opts.Theme,
	}
}

// restore layers persisted UI state under the location query: the
// durable file first, then URL parameters override it.
func (g *Grid) restore() {
	_, err := g.store.Mutate(func(draft *state.Grid) {
		if g.opts.PersistState {
			if st, err := state.LoadUIState(g.statePath); err == nil && st != nil {
				st.Apply(draft)
			}
		}
		if values := g.env.ReadLocationQuery(); len(values) > 0 {
			state.ApplyQuery(draft, values)
		}
	})
	if err != nil {
		g.log.Warn("state restore failed", "error", err)
	}
}

// onSnapshot runs after every published state change: write-through
// persistence and history sync. Both are best-effort.
func (g *Grid) onSnapshot(snap *state.Grid) {
	g.mu.Lock()
	skip := g.skipPersist
	g.mu.Unlock()

	if g.opts.PersistState && !skip {
		if err := state.SaveUIState(g.statePath, state.Project(snap)); err != nil {
			g.log.Warn("state persist failed", "error", err)
		}
	}
	if g.opts.UsePushState {
		g.env.PushHistoryState(state.QueryValues(snap))
	}
}

// render redraws from the current snapshot, bracketed by the render
// lifecycle hooks.
func (g *Grid) render() {
	if g.opts.Hooks.PreRender != nil {
		g.opts.Hooks.PreRender()
	}
	snap := g.store.Snapshot()
	g.rend.Render(snap, g.currentBundle())
	g.rend.ApplyHighlights(snap.Format, g.ctrl.Cursor(), g.ctrl.SelectedSet())
	if g.opts.Hooks.PostRender != nil {
		g.opts.Hooks.PostRender()
	}
}

// Destroy tears the grid down: pending debounce cancelled, unload
// handler removed, cache handle closed. In-flight load continuations
// become no-ops. Destroy is idempotent.
func (g *Grid) Destroy() {
	g.mu.Lock()
	if g.destroyed {
		g.mu.Unlock()
		return
	}
	g.destroyed = true
	g.uiDirty, g.uiLoading, g.uiClearSel, g.uiError = false, false, false, ""
	if g.debounce != nil {
		g.debounce.Stop()
		g.debounce = nil
	}
	unregister := g.unregister
	g.unregister = nil
	g.mu.Unlock()

	g.cancel()
	if unregister != nil {
		unregister()
	}
	if g.gateway != nil {
		if err := g.gateway.Close(); err != nil {
			g.log.Warn("cache close failed", "error", err)
		}
	}
}

// Destroyed reports whether Destroy has run.
func (g *Grid) Destroyed() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.destroyed
}

// syncUI applies pending load outcomes to the scene tree: redraw,
// selection reset, loading and error overlays. Must run on the host
// goroutine; loads only leave the flags behind.
func (g *Grid) syncUI() {
	g.mu.Lock()
	dirty, loading, clearSel, errMsg := g.uiDirty, g.uiLoading, g.uiClearSel, g.uiError
	g.uiDirty, g.uiClearSel, g.uiError = false, false, ""
	g.mu.Unlock()

	if clearSel {
		g.ctrl.ClearSelection()
	}
	if errMsg != "" {
		g.rend.HideLoading()
		g.rend.ShowError(g.currentBundle(), errMsg)
		return
	}
	if dirty {
		g.render()
	}
	if loading {
		g.rend.ShowLoading(g.currentBundle())
	} else {
		g.rend.HideLoading()
	}
}

// View applies any pending load results and projects the scene tree
// for a terminal host.
func (g *Grid) View() string {
	g.syncUI()
	return g.rend.View()
}

// Controller exposes the interaction controller for host event
// translation.
func (g *Grid) Controller() *input.Controller { return g.ctrl }

// Renderer exposes the renderer for host sizing and tree access.
func (g *Grid) Renderer() *render.Renderer { return g.rend }

// expandPath resolves a leading ~ against the user's home directory.
func expandPath(path string) (string, error) {
	if !strings.HasPrefix(path, "~") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
}
