package grid

import (
	"maps"

	"github.com/gridle/gridle/internal/state"
)

// Public command surface. Setters that land on the current value
// publish no snapshot and trigger no load.

// Refresh drops this instance's cached pages and reloads the current
// view from the network.
func (g *Grid) Refresh() {
	if g.Destroyed() {
		return
	}
	if g.gateway != nil {
		g.gateway.InvalidateAll(g.ctx)
	}
	g.Load()
}

// ClearSelection deselects every row and resets the cursor.
func (g *Grid) ClearSelection() {
	g.ctrl.ClearSelection()
	snap := g.store.Snapshot()
	g.rend.ApplyHighlights(snap.Format, 0, nil)
}

// Data returns the rows of the current page.
func (g *Grid) Data() []state.Record {
	return g.store.Snapshot().Data
}

// SelectedRows returns the records behind the current selection.
func (g *Grid) SelectedRows() []state.Record {
	snap := g.store.Snapshot()
	rows := make([]state.Record, 0)
	for _, i := range g.ctrl.Selected() {
		if i >= 0 && i < len(snap.Data) {
			rows = append(rows, snap.Data[i])
		}
	}
	return rows
}

// Totals reports the server-side record count of the active query.
func (g *Grid) Totals() int {
	return g.store.Snapshot().TotalRecords
}

// SetRenderMode switches between the table, list and card layouts.
// No refetch: the containers share the same data.
func (g *Grid) SetRenderMode(mode state.Format) {
	changed, _ := g.store.Mutate(func(draft *state.Grid) {
		draft.Format = mode
	})
	if changed {
		g.render()
	}
}

// SetTheme swaps the visual skin. Unknown names fall back to the
// default theme.
func (g *Grid) SetTheme(theme string) {
	changed, _ := g.store.Mutate(func(draft *state.Grid) {
		draft.Theme = theme
	})
	if !changed {
		return
	}
	g.rend.SetTheme(theme)
	g.render()
}

// SetLanguage loads the new bundle before publishing the change, so a
// render never sees a half-switched language. The returned error
// reports fallback use; the grid keeps working either way.
func (g *Grid) SetLanguage(lang string) error {
	if g.Destroyed() {
		return ErrDestroyed
	}
	bundle, err := g.lang.Get(g.ctx, lang)

	g.mu.Lock()
	g.bundle = bundle
	g.mu.Unlock()

	g.store.Mutate(func(draft *state.Grid) {
		draft.Language = lang
	})
	g.render()
	return err
}

// SetRowsPerPage changes the page size and returns to the first page.
// Values outside the allowed set are ignored.
func (g *Grid) SetRowsPerPage(n int) {
	if !state.RowsPerPageAllowed(n) {
		g.log.Warn("rejected page size", "rowsPerPage", n)
		return
	}
	changed, _ := g.store.Mutate(func(draft *state.Grid) {
		if draft.RowsPerPage != n {
			draft.RowsPerPage = n
			draft.CurrentPage = 1
		}
	})
	if changed {
		g.Request()
	}
}

// Search replaces the filter set, or merges into it when merge is
// set. Empty values remove their column filter. Any filter change
// returns to the first page.
func (g *Grid) Search(filters map[string]string, merge bool) {
	changed, _ := g.store.Mutate(func(draft *state.Grid) {
		next := make(map[string]string)
		if merge {
			maps.Copy(next, draft.Filters)
		}
		for col, v := range filters {
			if v == "" {
				delete(next, col)
			} else {
				next[col] = v
			}
		}
		if !maps.Equal(next, draft.Filters) {
			draft.Filters = next
			draft.CurrentPage = 1
		}
	})
	if changed {
		g.Request()
	}
}

// Partial is a sparse update for UpdateParams; nil fields are left
// untouched.
type Partial struct {
	Page        *int
	RowsPerPage *int
	Filters     map[string]string // replaces the filter set when non-nil
	Format      *state.Format
	Theme       *string
	Language    *string
}

// UpdateParams applies several changes as one state transition and a
// single load.
func (g *Grid) UpdateParams(p Partial) {
	if p.Language != nil {
		// Language swaps block on bundle retrieval; route through the
		// dedicated setter first.
		if err := g.SetLanguage(*p.Language); err != nil {
			g.log.Warn("language fell back", "language", *p.Language, "error", err)
		}
	}

	changed, _ := g.store.Mutate(func(draft *state.Grid) {
		if p.RowsPerPage != nil && state.RowsPerPageAllowed(*p.RowsPerPage) {
			if draft.RowsPerPage != *p.RowsPerPage {
				draft.RowsPerPage = *p.RowsPerPage
				draft.CurrentPage = 1
			}
		}
		if p.Filters != nil {
			next := maps.Clone(p.Filters)
			if !maps.Equal(next, draft.Filters) {
				draft.Filters = next
				draft.CurrentPage = 1
			}
		}
		if p.Page != nil {
			page := *p.Page
			if page < 1 {
				page = 1
			} else if tp := draft.TotalPages(); page > tp {
				page = tp
			}
			draft.CurrentPage = page
		}
		if p.Format != nil {
			draft.Format = *p.Format
		}
		if p.Theme != nil {
			draft.Theme = *p.Theme
		}
	})
	if !changed {
		return
	}
	if p.Theme != nil {
		g.rend.SetTheme(*p.Theme)
	}
	g.Request()
}
