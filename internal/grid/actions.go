package grid

import (
	"strconv"

	"github.com/gridle/gridle/internal/i18n"
	"github.com/gridle/gridle/internal/render"
	"github.com/gridle/gridle/internal/state"
)

// minColumnWidth stops a resize drag from collapsing a column into
// something unclickable.
const minColumnWidth = 4

// The methods below implement input.Actions; the controller calls
// them in response to dispatched events.

// ToggleSort advances a column through NONE → ASC → DESC → removed.
// Other columns keep their positions; a newly sorted column is
// appended with the lowest priority.
func (g *Grid) ToggleSort(column string) {
	var announced string
	changed, _ := g.store.Mutate(func(draft *state.Grid) {
		for i, sc := range draft.SortConditions {
			if sc.Column != column {
				continue
			}
			if sc.Dir == state.SortAsc {
				draft.SortConditions[i].Dir = state.SortDesc
				announced = g.currentBundle().Announce.SortedDesc
			} else {
				draft.SortConditions = append(draft.SortConditions[:i], draft.SortConditions[i+1:]...)
				announced = g.currentBundle().Announce.SortCleared
			}
			return
		}
		draft.SortConditions = append(draft.SortConditions, state.SortCondition{Column: column, Dir: state.SortAsc})
		announced = g.currentBundle().Announce.SortedAsc
	})
	if !changed {
		return
	}
	g.rend.Announce(i18n.Expand(announced, map[string]string{"column": column}))
	g.Request()
}

// GotoPage navigates to a page, clamped into [1, totalPages].
// Navigating to the current page is a no-op.
func (g *Grid) GotoPage(page int) {
	var landed int
	changed, _ := g.store.Mutate(func(draft *state.Grid) {
		if page < 1 {
			page = 1
		} else if tp := draft.TotalPages(); page > tp {
			page = tp
		}
		draft.CurrentPage = page
		landed = page
	})
	if !changed {
		return
	}
	g.rend.Announce(i18n.Expand(g.currentBundle().Announce.PageChanged,
		map[string]string{"page": strconv.Itoa(landed)}))
	g.Request()
}

// Retry clears the error panel and re-enters the load with a fresh
// retry budget.
func (g *Grid) Retry() {
	g.rend.HideError()
	g.Load()
}

// Reset restores the initial query state: first page, no filters, no
// sorting, selection cleared. Columns, widths and view mode survive.
func (g *Grid) Reset() {
	g.ctrl.ClearSelection()
	changed, _ := g.store.Mutate(func(draft *state.Grid) {
		draft.CurrentPage = 1
		draft.Filters = make(map[string]string)
		draft.SortConditions = nil
	})
	if changed {
		g.Request()
	}
}

// Pages reports current and total pages for keyboard paging guards.
func (g *Grid) Pages() (current, total int) {
	snap := g.store.Snapshot()
	return snap.CurrentPage, snap.TotalPages()
}

// RowCount is the number of rows on the visible page.
func (g *Grid) RowCount() int {
	return len(g.store.Snapshot().Data)
}

// ColumnWidth returns the effective width of a column, used as the
// origin of a resize drag.
func (g *Grid) ColumnWidth(column string) int {
	if w, ok := g.store.Snapshot().ColumnWidths[column]; ok {
		return w
	}
	return render.DefaultColumnWidth
}

// ApplyColumnWidth writes a resize into state. Live drag updates skip
// persistence; the final call on release persists.
func (g *Grid) ApplyColumnWidth(column string, width int, final bool) {
	if width < minColumnWidth {
		width = minColumnWidth
	}

	g.mu.Lock()
	g.skipPersist = !final
	g.mu.Unlock()

	changed, _ := g.store.Mutate(func(draft *state.Grid) {
		if draft.ColumnWidths == nil {
			draft.ColumnWidths = make(map[string]int)
		}
		draft.ColumnWidths[column] = width
	})

	g.mu.Lock()
	g.skipPersist = false
	g.mu.Unlock()

	if final && !changed {
		// Width landed back on its persisted value mid-drag; force a
		// save so the live updates cannot leave the file stale.
		g.onSnapshot(g.store.Snapshot())
	}
	if changed || final {
		g.render()
	}
}

// ReorderColumns swaps two columns and re-renders. The header nodes
// are rebuilt, which is why dispatch works off roles rather than
// node-bound handlers.
func (g *Grid) ReorderColumns(src, dst string) {
	changed, _ := g.store.Mutate(func(draft *state.Grid) {
		draft.SwapColumns(src, dst)
	})
	if changed {
		g.render()
	}
}

// CursorMoved recomputes row highlights for keyboard cursor travel.
// Pure cursor moves never reach the selection hook.
func (g *Grid) CursorMoved(cursor int) {
	snap := g.store.Snapshot()
	g.rend.ApplyHighlights(snap.Format, cursor, g.ctrl.SelectedSet())
}

// SelectionChanged recomputes highlights, announces the transition
// and relays the selected records to the embedder's hook.
func (g *Grid) SelectionChanged(cursor int, selected []int) {
	snap := g.store.Snapshot()
	set := make(map[int]bool, len(selected))
	rows := make([]state.Record, 0, len(selected))
	for _, i := range selected {
		set[i] = true
		if i >= 0 && i < len(snap.Data) {
			rows = append(rows, snap.Data[i])
		}
	}
	g.rend.ApplyHighlights(snap.Format, cursor, set)

	vars := map[string]string{"row": strconv.Itoa(cursor + 1)}
	if n := len(selected); n > g.lastSelected {
		g.rend.Announce(i18n.Expand(g.currentBundle().Announce.RowSelected, vars))
	} else if n < g.lastSelected {
		g.rend.Announce(i18n.Expand(g.currentBundle().Announce.RowDeselected, vars))
	}
	g.lastSelected = len(selected)

	if g.opts.Hooks.SelectionChanged != nil {
		g.opts.Hooks.SelectionChanged(rows)
	}
}
