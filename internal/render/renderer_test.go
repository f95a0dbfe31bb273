package render

import (
	"testing"
	"time"

	"github.com/gridle/gridle/internal/config"
	"github.com/gridle/gridle/internal/i18n"
	"github.com/gridle/gridle/internal/scene"
	"github.com/gridle/gridle/internal/state"
)

func testOptions() *config.Options {
	return &config.Options{
		URL:             "http://x/api",
		Columns:         []string{"id", "name"},
		ColumnTitles:    []string{"ID", "Name"},
		IDField:         "id",
		FormatCacheSize: 16,
	}
}

func testGrid(records ...state.Record) *state.Grid {
	return &state.Grid{
		CurrentPage:  1,
		RowsPerPage:  10,
		Columns:      []string{"id", "name"},
		ColumnTitles: []string{"ID", "Name"},
		Data:         records,
		TotalRecords: len(records),
		Format:       state.FormatTable,
	}
}

func rec(id float64, name string) state.Record {
	return state.Record{"id": id, "name": name}
}

func TestRender_BuildsRowsAndFooter(t *testing.T) {
	r := New(testOptions(), nil)
	b := i18n.DefaultBundle()

	r.Render(testGrid(rec(1, "Ada"), rec(2, "Grace")), b)

	body := r.Body(state.FormatTable)
	if len(body.Children()) != 2 {
		t.Fatalf("rows = %d, want 2", len(body.Children()))
	}
	first := body.Children()[0]
	if first.Role != scene.RoleRow {
		t.Fatalf("row role = %v, want RoleRow", first.Role)
	}
	if got := first.Children()[1].Text; got != "Ada" {
		t.Fatalf("cell text = %q, want Ada", got)
	}
	if len(r.header.Children()) != 2 {
		t.Fatalf("header cells = %d, want 2", len(r.header.Children()))
	}
}

func TestRender_RowIdentitySurvivesRerender(t *testing.T) {
	r := New(testOptions(), nil)
	b := i18n.DefaultBundle()

	r.Render(testGrid(rec(1, "Ada"), rec(2, "Grace")), b)
	row := r.Body(state.FormatTable).ChildByKey("id:2")
	row.SetFlag(scene.FlagSelected, true)

	// Same record key, new text: node identity and flags persist.
	r.Render(testGrid(rec(2, "Grace Hopper"), rec(3, "Edsger")), b)

	got := r.Body(state.FormatTable).ChildByKey("id:2")
	if got != row {
		t.Fatalf("row id:2 recreated across renders")
	}
	if got.Children()[1].Text != "Grace Hopper" {
		t.Fatalf("cell text = %q, want updated", got.Children()[1].Text)
	}
	if !got.Flag(scene.FlagSelected) {
		t.Fatalf("selection flag lost across renders")
	}
}

func TestRender_EmptyDataShowsPlaceholder(t *testing.T) {
	r := New(testOptions(), nil)
	b := i18n.DefaultBundle()

	r.Render(testGrid(), b)

	body := r.Body(state.FormatTable)
	if len(body.Children()) != 1 || body.Children()[0].Kind != "placeholder" {
		t.Fatalf("body = %+v, want a single placeholder", body.Children())
	}
	if body.Children()[0].Text != b.Labels.NoData {
		t.Fatalf("placeholder text = %q", body.Children()[0].Text)
	}
}

func TestRender_FormatSwitchTogglesVisibility(t *testing.T) {
	r := New(testOptions(), nil)
	b := i18n.DefaultBundle()

	g := testGrid(rec(1, "Ada"))
	r.Render(g, b)
	if r.tables[state.FormatTable].Flag(scene.FlagHidden) {
		t.Fatalf("table container hidden in table mode")
	}

	g = g.Clone()
	g.Format = state.FormatCards
	r.Render(g, b)

	if !r.tables[state.FormatTable].Flag(scene.FlagHidden) {
		t.Fatalf("table container still visible in cards mode")
	}
	if r.tables[state.FormatCards].Flag(scene.FlagHidden) {
		t.Fatalf("cards container hidden in cards mode")
	}
	// The table body is retained, not destroyed.
	if len(r.Body(state.FormatTable).Children()) != 1 {
		t.Fatalf("table body discarded on mode switch")
	}
}

func TestHeader_NonSortableColumnHasNoSortHandle(t *testing.T) {
	r := New(testOptions(), nil)
	b := i18n.DefaultBundle()

	g := testGrid(rec(1, "Ada"))
	g.HeaderCellClasses = []string{"", "wide no-sorting"}
	r.Render(g, b)

	sortable := r.header.ChildByKey("h/id")
	if sortable.ChildByKey("sort/id") == nil {
		t.Fatalf("sortable column missing its sort handle")
	}
	plain := r.header.ChildByKey("h/name")
	if plain.ChildByKey("sort/name") != nil {
		t.Fatalf("no-sorting column still has a sort handle")
	}
	if plain.ChildByKey("resize/name") == nil {
		t.Fatalf("resize handle missing")
	}
}

func TestShowError_HidesContentAndOffersRetry(t *testing.T) {
	r := New(testOptions(), nil)
	b := i18n.DefaultBundle()

	r.Render(testGrid(rec(1, "Ada")), b)
	r.ShowError(b, "boom")

	if !r.ErrorVisible() {
		t.Fatalf("error panel not visible")
	}
	for f, container := range r.tables {
		if !container.Flag(scene.FlagHidden) {
			t.Fatalf("container %v still visible under error panel", f)
		}
	}
	retry := r.errPanel.ChildByKey("error/retry")
	if retry == nil || retry.Role != scene.RoleRetry {
		t.Fatalf("retry affordance missing")
	}

	// The next successful render clears the panel.
	r.Render(testGrid(rec(1, "Ada")), b)
	if r.ErrorVisible() {
		t.Fatalf("error panel survived a successful render")
	}
}

func TestShowLoading_IsIdempotent(t *testing.T) {
	r := New(testOptions(), nil)
	b := i18n.DefaultBundle()

	r.ShowLoading(b)
	r.overlay.Text = "sentinel"
	r.ShowLoading(b) // no-op while showing

	if r.overlay.Text != "sentinel" {
		t.Fatalf("repeated ShowLoading rebuilt the overlay")
	}
	r.HideLoading()
	if !r.overlay.Flag(scene.FlagHidden) {
		t.Fatalf("overlay still visible after HideLoading")
	}
}

func TestApplyHighlights_RecomputesFromSets(t *testing.T) {
	r := New(testOptions(), nil)
	b := i18n.DefaultBundle()
	r.Render(testGrid(rec(1, "a"), rec(2, "b"), rec(3, "c")), b)

	r.ApplyHighlights(state.FormatTable, 1, map[int]bool{2: true})

	rows := r.Body(state.FormatTable).Children()
	if rows[0].Flag(scene.FlagCurrent) || rows[0].Flag(scene.FlagSelected) {
		t.Fatalf("row 0 unexpectedly highlighted")
	}
	if !rows[1].Flag(scene.FlagCurrent) {
		t.Fatalf("row 1 not marked current")
	}
	if !rows[2].Flag(scene.FlagSelected) {
		t.Fatalf("row 2 not marked selected")
	}

	// Moving the cursor clears the old flag.
	r.ApplyHighlights(state.FormatTable, 2, nil)
	if rows[1].Flag(scene.FlagCurrent) {
		t.Fatalf("stale current flag on row 1")
	}
}

func TestAnnounce_ExpiresOnNextView(t *testing.T) {
	r := New(testOptions(), nil)
	base := time.Now()
	r.now = func() time.Time { return base }

	r.Announce("Page 2")
	if len(r.announcer.Children()) != 1 {
		t.Fatalf("announcement not added")
	}
	r.View()
	if len(r.announcer.Children()) != 1 {
		t.Fatalf("announcement dropped before its deadline")
	}

	r.now = func() time.Time { return base.Add(AnnounceTTL + time.Second) }
	r.View()
	if len(r.announcer.Children()) != 0 {
		t.Fatalf("expired announcement survived View")
	}
}

func TestPagerButtons_CarryTargetsAndDisabledState(t *testing.T) {
	r := New(testOptions(), nil)
	b := i18n.DefaultBundle()

	g := testGrid()
	g.TotalRecords = 95
	r.Render(g, b)

	pager := r.footer.ChildByKey("pager")
	prev := pager.ChildByKey("prev")
	if prev == nil || !prev.Flag(scene.FlagDisabled) {
		t.Fatalf("prev not disabled on page 1")
	}
	current := pager.ChildByKey("page/1")
	if current == nil || !current.Flag(scene.FlagCurrent) {
		t.Fatalf("current page button not flagged")
	}
	last := pager.ChildByKey("page/10")
	if last == nil || last.Attr(AttrPage) != "10" {
		t.Fatalf("last page button missing for 95 records")
	}
}
