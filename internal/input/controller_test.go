package input

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/gridle/gridle/internal/scene"
)

type call struct {
	name string
	args []any
}

// fakeActions records every command the controller issues.
type fakeActions struct {
	calls   []call
	current int
	total   int
	rows    int
	width   int
}

func (f *fakeActions) record(name string, args ...any) {
	f.calls = append(f.calls, call{name, args})
}

func (f *fakeActions) ToggleSort(col string)      { f.record("ToggleSort", col) }
func (f *fakeActions) GotoPage(page int)          { f.record("GotoPage", page) }
func (f *fakeActions) Retry()                     { f.record("Retry") }
func (f *fakeActions) Reset()                     { f.record("Reset") }
func (f *fakeActions) Pages() (int, int)          { return f.current, f.total }
func (f *fakeActions) RowCount() int              { return f.rows }
func (f *fakeActions) ColumnWidth(string) int     { return f.width }
func (f *fakeActions) ReorderColumns(src, dst string) {
	f.record("ReorderColumns", src, dst)
}
func (f *fakeActions) ApplyColumnWidth(col string, width int, final bool) {
	f.record("ApplyColumnWidth", col, width, final)
}
func (f *fakeActions) CursorMoved(cursor int) {
	f.record("CursorMoved", cursor)
}
func (f *fakeActions) SelectionChanged(cursor int, selected []int) {
	f.record("SelectionChanged", cursor, selected)
}

func (f *fakeActions) last(t *testing.T) call {
	t.Helper()
	if len(f.calls) == 0 {
		t.Fatalf("no action recorded")
	}
	return f.calls[len(f.calls)-1]
}

// tree builds a minimal grid scene: a header with a sortable column, a
// pager with one enabled and one disabled button, a retry node, and a
// body with three rows.
func tree() (root, sortHandle, pageBtn, disabledBtn, retry *scene.Node, rows []*scene.Node) {
	root = scene.New("grid", "root")

	header := scene.New("header", "header")
	cell := scene.New("header-cell", "h/name")
	cell.Role = scene.RoleColumnHeader
	cell.SetAttr("col", "name")
	sortHandle = scene.New("sort", "sort/name")
	sortHandle.Role = scene.RoleSortHandle
	sortHandle.SetAttr("col", "name")
	cell.Append(sortHandle)
	header.Append(cell)

	pager := scene.New("pager", "pager")
	pageBtn = scene.New("button", "page/5")
	pageBtn.Role = scene.RolePageButton
	pageBtn.SetAttr("page", "5")
	disabledBtn = scene.New("button", "prev")
	disabledBtn.Role = scene.RolePageButton
	disabledBtn.SetAttr("page", "0")
	disabledBtn.SetFlag(scene.FlagDisabled, true)
	pager.Append(disabledBtn, pageBtn)

	retry = scene.New("retry", "retry")
	retry.Role = scene.RoleRetry

	body := scene.New("body", "body")
	for _, key := range []string{"1", "2", "3"} {
		row := scene.New("row", key)
		row.Role = scene.RoleRow
		cellNode := scene.New("cell", key+"/name")
		row.Append(cellNode)
		body.Append(row)
		rows = append(rows, row)
	}

	root.Append(header, pager, retry, body)
	return root, sortHandle, pageBtn, disabledBtn, retry, rows
}

func TestClick_SortHandleTogglesSort(t *testing.T) {
	_, sortHandle, _, _, _, _ := tree()
	actions := &fakeActions{}
	c := New(actions, false, nil)

	if !c.Click(sortHandle) {
		t.Fatalf("click not consumed")
	}
	got := actions.last(t)
	if got.name != "ToggleSort" || got.args[0] != "name" {
		t.Fatalf("last call = %+v, want ToggleSort(name)", got)
	}
}

func TestClick_PageButtonNavigates(t *testing.T) {
	_, _, pageBtn, disabledBtn, _, _ := tree()
	actions := &fakeActions{}
	c := New(actions, false, nil)

	if !c.Click(disabledBtn) {
		t.Fatalf("disabled button click not consumed")
	}
	if len(actions.calls) != 0 {
		t.Fatalf("disabled button issued %+v", actions.calls)
	}

	c.Click(pageBtn)
	got := actions.last(t)
	if got.name != "GotoPage" || got.args[0] != 5 {
		t.Fatalf("last call = %+v, want GotoPage(5)", got)
	}
}

func TestClick_CellResolvesToRowSelection(t *testing.T) {
	_, _, _, _, _, rows := tree()
	actions := &fakeActions{}
	c := New(actions, true, nil)

	// Click lands on the inner cell; dispatch walks up to the row.
	cell := rows[1].Children()[0]
	if !c.Click(cell) {
		t.Fatalf("row click not consumed")
	}
	got := actions.last(t)
	if got.name != "SelectionChanged" {
		t.Fatalf("last call = %+v, want SelectionChanged", got)
	}
	if diff := cmp.Diff([]int{1}, c.Selected()); diff != "" {
		t.Fatalf("Selected (-want +got):\n%s", diff)
	}

	// Second click deselects.
	c.Click(cell)
	if len(c.Selected()) != 0 {
		t.Fatalf("Selected = %v after toggle off", c.Selected())
	}
}

func TestClick_RowIgnoredWhenNotSelectable(t *testing.T) {
	_, _, _, _, _, rows := tree()
	actions := &fakeActions{}
	c := New(actions, false, nil)

	if c.Click(rows[0]) {
		t.Fatalf("row click consumed with selection disabled")
	}
}

func TestClick_RetryFires(t *testing.T) {
	_, _, _, _, retry, _ := tree()
	actions := &fakeActions{}
	c := New(actions, false, nil)

	c.Click(retry)
	if actions.last(t).name != "Retry" {
		t.Fatalf("last call = %+v, want Retry", actions.last(t))
	}
}

func TestKeys_PageStepsAreGuarded(t *testing.T) {
	actions := &fakeActions{current: 1, total: 3}
	c := New(actions, false, nil)

	c.HandleKey(KeyPageUp) // no previous page
	if len(actions.calls) != 0 {
		t.Fatalf("PageUp on first page issued %+v", actions.calls)
	}

	c.HandleKey(KeyPageDown)
	got := actions.last(t)
	if got.name != "GotoPage" || got.args[0] != 2 {
		t.Fatalf("last call = %+v, want GotoPage(2)", got)
	}

	actions.current, actions.total = 3, 3
	n := len(actions.calls)
	c.HandleKey(KeyPageDown) // no further page
	if len(actions.calls) != n {
		t.Fatalf("PageDown on last page issued %+v", actions.calls[n:])
	}
}

func TestKeys_CursorAndSelection(t *testing.T) {
	actions := &fakeActions{current: 1, total: 1, rows: 3}
	c := New(actions, true, nil)

	// Arrow down then Enter selects exactly one row.
	c.HandleKey(KeyArrowDown)
	if c.Cursor() != 1 {
		t.Fatalf("Cursor = %d, want 1", c.Cursor())
	}
	c.HandleKey(KeyEnter)
	if diff := cmp.Diff([]int{1}, c.Selected()); diff != "" {
		t.Fatalf("Selected (-want +got):\n%s", diff)
	}

	// Cursor clamps at both ends.
	c.HandleKey(KeyArrowDown)
	c.HandleKey(KeyArrowDown)
	c.HandleKey(KeyArrowDown)
	if c.Cursor() != 2 {
		t.Fatalf("Cursor = %d, want clamp at 2", c.Cursor())
	}
	c.HandleKey(KeyEnd)
	if c.Cursor() != 2 {
		t.Fatalf("End moved cursor to %d", c.Cursor())
	}

	// Space toggles like Enter.
	c.HandleKey(KeySpace)
	if diff := cmp.Diff([]int{1, 2}, c.Selected()); diff != "" {
		t.Fatalf("Selected (-want +got):\n%s", diff)
	}

	// Home triggers the full reset command.
	c.HandleKey(KeyHome)
	if actions.last(t).name != "Reset" {
		t.Fatalf("last call = %+v, want Reset", actions.last(t))
	}
}

func TestKeys_CursorMoveIsNotASelectionChange(t *testing.T) {
	actions := &fakeActions{current: 1, total: 1, rows: 3}
	c := New(actions, true, nil)

	c.HandleKey(KeyArrowDown)
	c.HandleKey(KeyArrowDown)
	for _, got := range actions.calls {
		if got.name == "SelectionChanged" {
			t.Fatalf("cursor travel issued %+v", got)
		}
	}
	got := actions.last(t)
	if got.name != "CursorMoved" || got.args[0] != 2 {
		t.Fatalf("last call = %+v, want CursorMoved(2)", got)
	}

	c.HandleKey(KeyEnter)
	if actions.last(t).name != "SelectionChanged" {
		t.Fatalf("selection toggle did not issue SelectionChanged")
	}
}

func TestKeys_SelectionTableInertWhenDisabled(t *testing.T) {
	actions := &fakeActions{current: 1, total: 1, rows: 3}
	c := New(actions, false, nil)

	if c.HandleKey(KeyArrowDown) {
		t.Fatalf("ArrowDown consumed with selection disabled")
	}
	if c.HandleKey(KeyEnter) {
		t.Fatalf("Enter consumed with selection disabled")
	}
}

func TestResize_DragComputesWidthFromOrigin(t *testing.T) {
	actions := &fakeActions{width: 14}
	c := New(actions, false, nil)

	handle := scene.New("resize", "resize/name")
	handle.Role = scene.RoleResizeHandle
	handle.SetAttr("col", "name")

	if !c.PointerDown(handle, 100) {
		t.Fatalf("resize gesture not claimed")
	}
	c.PointerMove(108)
	got := actions.last(t)
	want := call{"ApplyColumnWidth", []any{"name", 22, false}}
	if diff := cmp.Diff(want, got, cmp.AllowUnexported(call{})); diff != "" {
		t.Fatalf("live resize (-want +got):\n%s", diff)
	}

	c.PointerUp(105)
	got = actions.last(t)
	want = call{"ApplyColumnWidth", []any{"name", 19, true}}
	if diff := cmp.Diff(want, got, cmp.AllowUnexported(call{})); diff != "" {
		t.Fatalf("final resize (-want +got):\n%s", diff)
	}

	// The gesture ended; further moves are inert.
	n := len(actions.calls)
	c.PointerMove(200)
	if len(actions.calls) != n {
		t.Fatalf("move after release issued %+v", actions.calls[n:])
	}
}

func TestDrag_ReorderSwapsSourceAndTarget(t *testing.T) {
	actions := &fakeActions{}
	c := New(actions, false, nil)

	src := scene.New("header-cell", "h/name")
	src.Role = scene.RoleColumnHeader
	src.SetAttr("col", "name")
	src.SetFlag("draggable", true)
	dst := scene.New("header-cell", "h/email")
	dst.Role = scene.RoleColumnHeader
	dst.SetAttr("col", "email")
	dst.SetFlag("draggable", true)

	if !c.DragStart(src) {
		t.Fatalf("drag not started on draggable header")
	}
	c.DragOver(dst)
	if !dst.Flag(scene.FlagActive) {
		t.Fatalf("drag-over candidate not highlighted")
	}
	c.Drop(dst)

	got := actions.last(t)
	if got.name != "ReorderColumns" || got.args[0] != "name" || got.args[1] != "email" {
		t.Fatalf("last call = %+v, want ReorderColumns(name, email)", got)
	}
	if dst.Flag(scene.FlagActive) {
		t.Fatalf("candidate highlight not cleared on drop")
	}
}

func TestDrag_DropOnSelfIsNoOp(t *testing.T) {
	actions := &fakeActions{}
	c := New(actions, false, nil)

	src := scene.New("header-cell", "h/name")
	src.Role = scene.RoleColumnHeader
	src.SetAttr("col", "name")
	src.SetFlag("draggable", true)

	c.DragStart(src)
	c.Drop(src)
	if len(actions.calls) != 0 {
		t.Fatalf("self-drop issued %+v", actions.calls)
	}
}

func TestDrag_NonDraggableHeaderRefused(t *testing.T) {
	actions := &fakeActions{}
	c := New(actions, false, nil)

	cell := scene.New("header-cell", "h/name")
	cell.Role = scene.RoleColumnHeader
	cell.SetAttr("col", "name")

	if c.DragStart(cell) {
		t.Fatalf("drag started on non-draggable header")
	}
}
