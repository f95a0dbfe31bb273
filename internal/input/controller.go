// Package input is the interaction controller: one delegated handler
// per event class, dispatching on the target's nearest role-carrying
// ancestor. Listener count stays constant no matter how many rows are
// on screen.
package input

import (
	"log/slog"
	"sort"
	"strconv"

	"github.com/gridle/gridle/internal/scene"
)

// Key identifies a handled keyboard input.
type Key int

const (
	KeyPageUp Key = iota
	KeyPageDown
	KeyArrowUp
	KeyArrowDown
	KeyHome
	KeyEnd
	KeyEnter
	KeySpace
)

// Actions is the command surface the controller drives. The
// orchestrator implements it; the controller never touches state or
// network directly.
type Actions interface {
	ToggleSort(column string)
	GotoPage(page int)
	Retry()
	Reset()

	// Pages reports the current and total page count for the
	// page-step guards.
	Pages() (current, total int)

	// RowCount is the number of rows in the active body.
	RowCount() int

	// ColumnWidth returns the effective width used as the resize
	// drag origin.
	ColumnWidth(column string) int
	ApplyColumnWidth(column string, width int, final bool)

	ReorderColumns(src, dst string)

	// CursorMoved fires when the current row changes without a
	// selection mutation.
	CursorMoved(cursor int)

	// SelectionChanged fires after every selection mutation with the
	// new cursor and the selected row indices.
	SelectionChanged(cursor int, selected []int)
}

// resizeDrag tracks an in-flight column resize.
type resizeDrag struct {
	column     string
	startWidth int
	startX     int
}

// Controller holds the transient interaction state: the row cursor,
// the selected-row set, and any in-flight resize or reorder drag.
type Controller struct {
	actions    Actions
	selectable bool
	log        *slog.Logger

	cursor   int
	selected map[int]bool

	resize     *resizeDrag
	dragSource string
	dragOver   *scene.Node
}

// New wires a controller to its command surface.
func New(actions Actions, selectable bool, log *slog.Logger) *Controller {
	if log == nil {
		log = slog.Default()
	}
	return &Controller{
		actions:    actions,
		selectable: selectable,
		log:        log,
		selected:   make(map[int]bool),
	}
}

// Cursor returns the current-row index.
func (c *Controller) Cursor() int { return c.cursor }

// Selected returns the selected row indices in ascending order.
func (c *Controller) Selected() []int {
	out := make([]int, 0, len(c.selected))
	for i := range c.selected {
		out = append(out, i)
	}
	sort.Ints(out)
	return out
}

// SelectedSet exposes the live selection set for highlight recompute.
func (c *Controller) SelectedSet() map[int]bool { return c.selected }

// ClearSelection drops the selection and resets the cursor. Called by
// the orchestrator when the underlying rows are replaced.
func (c *Controller) ClearSelection() {
	c.cursor = 0
	if len(c.selected) == 0 {
		return
	}
	c.selected = make(map[int]bool)
	c.actions.SelectionChanged(c.cursor, nil)
}

// Click resolves a click target by priority: sort affordance first,
// then pagination buttons, then the retry affordance, then row
// selection. First match wins.
func (c *Controller) Click(target *scene.Node) bool {
	if target == nil {
		return false
	}

	if handle := target.Closest(scene.RoleSortHandle); handle != nil {
		c.actions.ToggleSort(handle.Attr("col"))
		return true
	}

	if btn := target.Closest(scene.RolePageButton); btn != nil {
		if btn.Flag(scene.FlagDisabled) {
			return true // consumed, deliberately ignored
		}
		page, err := strconv.Atoi(btn.Attr("page"))
		if err != nil {
			c.log.Warn("page button without target", "key", btn.Key)
			return true
		}
		c.actions.GotoPage(page)
		return true
	}

	if target.Closest(scene.RoleRetry) != nil {
		c.actions.Retry()
		return true
	}

	if !c.selectable {
		return false
	}
	if row := target.Closest(scene.RoleRow); row != nil {
		if i := rowIndex(row); i >= 0 {
			c.cursor = i
			c.toggleSelection(i)
		}
		return true
	}
	return false
}

func rowIndex(row *scene.Node) int {
	parent := row.Parent()
	if parent == nil {
		return -1
	}
	for i, sibling := range parent.Children() {
		if sibling == row {
			return i
		}
	}
	return -1
}

func (c *Controller) toggleSelection(i int) {
	if c.selected[i] {
		delete(c.selected, i)
	} else {
		c.selected[i] = true
	}
	c.actions.SelectionChanged(c.cursor, c.Selected())
}

// PointerDown begins a column resize when the target sits on a resize
// handle. Returns whether the gesture was claimed.
func (c *Controller) PointerDown(target *scene.Node, x int) bool {
	if target == nil {
		return false
	}
	handle := target.Closest(scene.RoleResizeHandle)
	if handle == nil {
		return false
	}
	col := handle.Attr("col")
	c.resize = &resizeDrag{
		column:     col,
		startWidth: c.actions.ColumnWidth(col),
		startX:     x,
	}
	return true
}

// PointerMove applies the resize live while a drag is active.
func (c *Controller) PointerMove(x int) {
	if c.resize == nil {
		return
	}
	width := c.resize.startWidth + (x - c.resize.startX)
	c.actions.ApplyColumnWidth(c.resize.column, width, false)
}

// PointerUp finalizes and persists the resize.
func (c *Controller) PointerUp(x int) {
	if c.resize == nil {
		return
	}
	width := c.resize.startWidth + (x - c.resize.startX)
	c.actions.ApplyColumnWidth(c.resize.column, width, true)
	c.resize = nil
}

// DragStart marks the source column of a reorder drag.
func (c *Controller) DragStart(target *scene.Node) bool {
	if target == nil {
		return false
	}
	header := target.Closest(scene.RoleColumnHeader)
	if header == nil || !header.Flag("draggable") {
		return false
	}
	c.dragSource = header.Attr("col")
	return true
}

// DragOver highlights a single candidate target at a time.
func (c *Controller) DragOver(target *scene.Node) {
	if c.dragSource == "" || target == nil {
		return
	}
	header := target.Closest(scene.RoleColumnHeader)
	if header == c.dragOver {
		return
	}
	if c.dragOver != nil {
		c.dragOver.SetFlag(scene.FlagActive, false)
	}
	c.dragOver = header
	if header != nil {
		header.SetFlag(scene.FlagActive, true)
	}
}

// Drop commits the reorder; dropping a column on itself is a no-op.
func (c *Controller) Drop(target *scene.Node) {
	src := c.dragSource
	c.dragSource = ""
	if c.dragOver != nil {
		c.dragOver.SetFlag(scene.FlagActive, false)
		c.dragOver = nil
	}
	if src == "" || target == nil {
		return
	}
	header := target.Closest(scene.RoleColumnHeader)
	if header == nil {
		return
	}
	dst := header.Attr("col")
	if dst == "" || dst == src {
		return
	}
	c.actions.ReorderColumns(src, dst)
}

// HandleKey runs the two key tables. Page keys are always live but
// guarded by page existence; the rest only act when selection is
// enabled. Returns whether the key was consumed.
func (c *Controller) HandleKey(key Key) bool {
	current, total := c.actions.Pages()

	switch key {
	case KeyPageUp:
		if current > 1 {
			c.actions.GotoPage(current - 1)
		}
		return true
	case KeyPageDown:
		if current < total {
			c.actions.GotoPage(current + 1)
		}
		return true
	}

	if !c.selectable {
		return false
	}

	last := c.actions.RowCount() - 1
	switch key {
	case KeyArrowUp:
		c.moveCursor(c.cursor-1, last)
	case KeyArrowDown:
		c.moveCursor(c.cursor+1, last)
	case KeyHome:
		c.actions.Reset()
	case KeyEnd:
		c.moveCursor(last, last)
	case KeyEnter, KeySpace:
		if c.cursor >= 0 && c.cursor <= last {
			c.toggleSelection(c.cursor)
		}
	default:
		return false
	}
	return true
}

func (c *Controller) moveCursor(to, last int) {
	if last < 0 {
		return
	}
	if to < 0 {
		to = 0
	} else if to > last {
		to = last
	}
	if to == c.cursor {
		return
	}
	c.cursor = to
	c.actions.CursorMoved(c.cursor)
}
