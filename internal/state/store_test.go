package state

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func baseGrid() *Grid {
	return &Grid{
		CurrentPage:  1,
		RowsPerPage:  10,
		Columns:      []string{"id", "name", "email"},
		ColumnTitles: []string{"ID", "Name", "Email"},
		Filters:      map[string]string{},
		ColumnWidths: map[string]int{},
	}
}

func TestStore_MutatePublishesNewSnapshot(t *testing.T) {
	s := NewStore(baseGrid())
	before := s.Snapshot()

	changed, err := s.Mutate(func(g *Grid) { g.CurrentPage = 3 })
	if err != nil {
		t.Fatalf("Mutate returned error: %v", err)
	}
	if !changed {
		t.Fatalf("Mutate changed = false, want true")
	}

	after := s.Snapshot()
	if after == before {
		t.Fatalf("Mutate published the same snapshot pointer")
	}
	if before.CurrentPage != 1 {
		t.Fatalf("old snapshot CurrentPage = %d, want 1 (must stay immutable)", before.CurrentPage)
	}
	if after.CurrentPage != 3 {
		t.Fatalf("new snapshot CurrentPage = %d, want 3", after.CurrentPage)
	}
}

func TestStore_NoopTransformKeepsSnapshot(t *testing.T) {
	s := NewStore(baseGrid())
	before := s.Snapshot()

	notified := 0
	s.Subscribe(func(*Grid) { notified++ })

	changed, err := s.Mutate(func(g *Grid) { page := g.CurrentPage; g.CurrentPage = page })
	if err != nil {
		t.Fatalf("Mutate returned error: %v", err)
	}
	if changed {
		t.Fatalf("Mutate changed = true for a no-op transform")
	}
	if got := s.Snapshot(); got != before {
		t.Fatalf("no-op transform replaced the snapshot")
	}
	if notified != 0 {
		t.Fatalf("subscribers notified %d times for a no-op, want 0", notified)
	}
}

func TestStore_PanickingTransformLeavesStateIntact(t *testing.T) {
	s := NewStore(baseGrid())
	before := s.Snapshot()

	changed, err := s.Mutate(func(g *Grid) {
		g.CurrentPage = 99
		panic("boom")
	})
	if err == nil {
		t.Fatalf("Mutate returned nil error, want panic surfaced")
	}
	if changed {
		t.Fatalf("Mutate changed = true after panic")
	}
	if got := s.Snapshot(); got != before {
		t.Fatalf("snapshot replaced despite panicking transform")
	}
}

func TestStore_SubscribersSeeEachChange(t *testing.T) {
	s := NewStore(baseGrid())

	var pages []int
	s.Subscribe(func(g *Grid) { pages = append(pages, g.CurrentPage) })

	for _, p := range []int{2, 3, 3, 4} {
		if _, err := s.Mutate(func(g *Grid) { g.CurrentPage = p }); err != nil {
			t.Fatalf("Mutate(%d): %v", p, err)
		}
	}
	// The repeated 3 is a no-op and must not notify.
	if diff := cmp.Diff([]int{2, 3, 4}, pages); diff != "" {
		t.Fatalf("subscriber pages mismatch (-want +got):\n%s", diff)
	}
}

func TestGrid_SwapColumnsKeepsAlignment(t *testing.T) {
	g := baseGrid()
	g.HeaderCellClasses = []string{"", "wide", "no-sorting"}

	g.SwapColumns("id", "email")

	if diff := cmp.Diff([]string{"email", "name", "id"}, g.Columns); diff != "" {
		t.Fatalf("Columns mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"Email", "Name", "ID"}, g.ColumnTitles); diff != "" {
		t.Fatalf("ColumnTitles mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"no-sorting", "wide", ""}, g.HeaderCellClasses); diff != "" {
		t.Fatalf("HeaderCellClasses mismatch (-want +got):\n%s", diff)
	}
}

func TestGrid_SwapColumnsUnknownOrSelfIsNoop(t *testing.T) {
	g := baseGrid()
	want := append([]string(nil), g.Columns...)

	g.SwapColumns("id", "id")
	g.SwapColumns("id", "missing")

	if diff := cmp.Diff(want, g.Columns); diff != "" {
		t.Fatalf("Columns mismatch (-want +got):\n%s", diff)
	}
}

func TestGrid_TotalPages(t *testing.T) {
	cases := []struct {
		total, per, want int
	}{
		{95, 10, 10},
		{100, 10, 10},
		{101, 10, 11},
		{0, 10, 1},
		{5, 0, 1},
	}
	for _, tc := range cases {
		g := &Grid{TotalRecords: tc.total, RowsPerPage: tc.per}
		if got := g.TotalPages(); got != tc.want {
			t.Fatalf("TotalPages(total=%d per=%d) = %d, want %d", tc.total, tc.per, got, tc.want)
		}
	}
}

func TestRecord_Key(t *testing.T) {
	if k, ok := (Record{"id": float64(42)}).Key("id"); !ok || k != "42" {
		t.Fatalf("Key = %q/%v, want 42/true", k, ok)
	}
	if k, ok := (Record{"id": "abc"}).Key("id"); !ok || k != "abc" {
		t.Fatalf("Key = %q/%v, want abc/true", k, ok)
	}
	if _, ok := (Record{"name": "x"}).Key("id"); ok {
		t.Fatalf("Key reported ok for missing identifier")
	}
}
