package state

import (
	"net/url"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestQueryValues_Shape(t *testing.T) {
	g := baseGrid()
	g.CurrentPage = 2
	g.RowsPerPage = 20
	g.Filters = map[string]string{"name": "ada", "email": "x@y"}
	g.SortConditions = []SortCondition{{Column: "name", Dir: SortAsc}}

	values := QueryValues(g)

	if got := values.Get("page"); got != "2" {
		t.Fatalf("page = %q, want 2", got)
	}
	if got := values.Get("perPage"); got != "20" {
		t.Fatalf("perPage = %q, want 20", got)
	}
	if got := values.Get("filtering[name]"); got != "ada" {
		t.Fatalf("filtering[name] = %q, want ada", got)
	}
	if diff := cmp.Diff([]string{"name:ASC"}, values["sort"]); diff != "" {
		t.Fatalf("sort values (-want +got):\n%s", diff)
	}
}

func TestApplyQuery_RoundTripAndValidation(t *testing.T) {
	src := baseGrid()
	src.CurrentPage = 3
	src.RowsPerPage = 50
	src.Filters = map[string]string{"name": "ada"}
	src.SortConditions = []SortCondition{{Column: "email", Dir: SortDesc}}

	g := baseGrid()
	ApplyQuery(g, QueryValues(src))

	if g.CurrentPage != 3 || g.RowsPerPage != 50 {
		t.Fatalf("page/perPage = %d/%d, want 3/50", g.CurrentPage, g.RowsPerPage)
	}
	if diff := cmp.Diff(src.Filters, g.Filters); diff != "" {
		t.Fatalf("Filters mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(src.SortConditions, g.SortConditions); diff != "" {
		t.Fatalf("SortConditions mismatch (-want +got):\n%s", diff)
	}

	// Hostile/unknown values are discarded field by field.
	g2 := baseGrid()
	values := QueryValues(src)
	values.Set("page", "-4")
	values.Set("perPage", "17")
	values.Set("filtering[unknown]", "x")
	values["sort"] = []string{"name:SIDEWAYS", "unknown:ASC"}
	ApplyQuery(g2, values)

	if g2.CurrentPage != 1 || g2.RowsPerPage != 10 {
		t.Fatalf("page/perPage = %d/%d, want defaults 1/10", g2.CurrentPage, g2.RowsPerPage)
	}
	if _, ok := g2.Filters["unknown"]; ok {
		t.Fatalf("unknown filter column survived")
	}
	if len(g2.SortConditions) != 0 {
		t.Fatalf("invalid sort values survived: %+v", g2.SortConditions)
	}
}

func TestApplyQuery_SortPrioritySurvivesEncoding(t *testing.T) {
	// Deliberately not alphabetical: name must outrank email after the
	// full encode/parse round trip a history adapter performs.
	src := baseGrid()
	src.SortConditions = []SortCondition{
		{Column: "name", Dir: SortAsc},
		{Column: "email", Dir: SortDesc},
	}

	parsed, err := url.ParseQuery(QueryValues(src).Encode())
	if err != nil {
		t.Fatalf("ParseQuery: %v", err)
	}
	g := baseGrid()
	ApplyQuery(g, parsed)

	if diff := cmp.Diff(src.SortConditions, g.SortConditions); diff != "" {
		t.Fatalf("sort priority lost (-want +got):\n%s", diff)
	}
}

func TestApplyQuery_BracketSortAccepted(t *testing.T) {
	// Hand-written URLs may still use the request's bracket shape; it
	// carries no order, so the restored priority is alphabetical.
	g := baseGrid()
	ApplyQuery(g, url.Values{
		"sorting[name]":  []string{"ASC"},
		"sorting[email]": []string{"DESC"},
	})

	want := []SortCondition{
		{Column: "email", Dir: SortDesc},
		{Column: "name", Dir: SortAsc},
	}
	if diff := cmp.Diff(want, g.SortConditions); diff != "" {
		t.Fatalf("bracket sorts (-want +got):\n%s", diff)
	}
}
