package state

import (
	"net/url"
	"slices"
	"strconv"
	"strings"
)

// QueryValues encodes the sharable projection of a snapshot: page,
// perPage, filters in the request's bracket shape, and sort conditions
// as repeated ordered "sort=col:DIR" values. The bracket form cannot
// carry sort priority because query encoding orders keys
// alphabetically; repeated values under one key keep their order.
// Used for non-reloading history updates when push-state is enabled.
func QueryValues(g *Grid) url.Values {
	values := url.Values{}
	values.Set("page", strconv.Itoa(g.CurrentPage))
	values.Set("perPage", strconv.Itoa(g.RowsPerPage))
	cols := make([]string, 0, len(g.Filters))
	for col := range g.Filters {
		cols = append(cols, col)
	}
	slices.Sort(cols)
	for _, col := range cols {
		if v := g.Filters[col]; v != "" {
			values.Set("filtering["+col+"]", v)
		}
	}
	for _, sc := range g.SortConditions {
		values.Add("sort", sc.Column+":"+string(sc.Dir))
	}
	return values
}

// ApplyQuery merges location-query values into a draft, validating
// each field independently. Unknown keys and values referencing
// columns outside the current configuration are ignored.
func ApplyQuery(g *Grid, values url.Values) {
	if page, err := strconv.Atoi(values.Get("page")); err == nil && page >= 1 {
		g.CurrentPage = page
	}
	if per, err := strconv.Atoi(values.Get("perPage")); err == nil && RowsPerPageAllowed(per) {
		g.RowsPerPage = per
	}
	var bracketSorts []SortCondition
	for key, vals := range values {
		col, kind := parseBracketKey(key)
		if col == "" || len(vals) == 0 || !slices.Contains(g.Columns, col) {
			continue
		}
		switch kind {
		case "filtering":
			if v := vals[0]; v != "" {
				if g.Filters == nil {
					g.Filters = make(map[string]string)
				}
				g.Filters[col] = v
			}
		case "sorting":
			dir := SortDir(vals[0])
			if dir == SortAsc || dir == SortDesc {
				if _, dup := sortsContain(bracketSorts, col); !dup {
					bracketSorts = append(bracketSorts, SortCondition{Column: col, Dir: dir})
				}
			}
		}
	}

	// Ordered "sort" values carry the serialized priority and win over
	// the bracket form, which survives only for hand-written URLs.
	var sorts []SortCondition
	for _, raw := range values["sort"] {
		col, dir, ok := strings.Cut(raw, ":")
		if !ok || !slices.Contains(g.Columns, col) {
			continue
		}
		d := SortDir(dir)
		if d != SortAsc && d != SortDesc {
			continue
		}
		if _, dup := sortsContain(sorts, col); !dup {
			sorts = append(sorts, SortCondition{Column: col, Dir: d})
		}
	}
	if len(sorts) == 0 {
		// The bracket form lost its order at encoding time; restore it
		// deterministically.
		slices.SortFunc(bracketSorts, func(a, b SortCondition) int {
			return strings.Compare(a.Column, b.Column)
		})
		sorts = bracketSorts
	}
	if len(sorts) > 0 {
		g.SortConditions = sorts
	}
}

// parseBracketKey splits "filtering[name]" into ("name", "filtering").
func parseBracketKey(key string) (col, kind string) {
	open := strings.IndexByte(key, '[')
	if open <= 0 || !strings.HasSuffix(key, "]") {
		return "", ""
	}
	kind = key[:open]
	if kind != "filtering" && kind != "sorting" {
		return "", ""
	}
	return key[open+1 : len(key)-1], kind
}
