package state

import (
	"fmt"
	"maps"
	"reflect"
	"slices"
)

// Format selects one of the three mutually exclusive view shapes.
type Format int

const (
	FormatTable Format = iota
	FormatList
	FormatCards
)

// String returns the canonical name used in options and persisted state.
func (f Format) String() string {
	switch f {
	case FormatList:
		return "list"
	case FormatCards:
		return "mobile_cards"
	default:
		return "table"
	}
}

// ParseFormat maps a format name to a Format, defaulting to table.
func ParseFormat(s string) Format {
	switch s {
	case "list":
		return FormatList
	case "mobile_cards", "cards":
		return FormatCards
	default:
		return FormatTable
	}
}

// SortDir is a closed enum; values never need sanitizing.
type SortDir string

const (
	SortAsc  SortDir = "ASC"
	SortDesc SortDir = "DESC"
)

// SortCondition pairs a column with a direction. The position of a
// condition inside Grid.SortConditions encodes its priority.
type SortCondition struct {
	Column string
	Dir    SortDir
}

// Record is one row of opaque server data. Rows are read-only once
// fetched and replaced wholesale on every load.
type Record map[string]any

// Key returns the record's stable identity, stringified. Records carry
// a unique identifier under idField (string or integer). When the field
// is absent the caller falls back to the row index.
func (r Record) Key(idField string) (string, bool) {
	v, ok := r[idField]
	if !ok || v == nil {
		return "", false
	}
	switch id := v.(type) {
	case string:
		return id, id != ""
	case float64:
		// encoding/json decodes integers into float64.
		return fmt.Sprintf("%.0f", id), true
	case int:
		return fmt.Sprintf("%d", id), true
	case int64:
		return fmt.Sprintf("%d", id), true
	default:
		return fmt.Sprintf("%v", id), true
	}
}

// AllowedRowsPerPage is the closed set of accepted page sizes.
var AllowedRowsPerPage = []int{10, 20, 50, 100, 250, 500, 1000}

// RowsPerPageAllowed reports whether n is in the accepted set.
func RowsPerPageAllowed(n int) bool {
	return slices.Contains(AllowedRowsPerPage, n)
}

// Grid is one immutable snapshot of the component's state. A snapshot
// is never edited in place; every transition produces a replacement,
// so holders of an old snapshot never observe changes.
type Grid struct {
	CurrentPage  int
	RowsPerPage  int
	Filters      map[string]string
	SortConditions []SortCondition
	Columns      []string
	ColumnTitles []string
	ColumnWidths map[string]int
	HeaderCellClasses []string
	Data         []Record
	TotalRecords int
	Format       Format
	Language     string
	Theme        string
}

// TotalPages derives the page count from TotalRecords and RowsPerPage,
// floored at 1 so an empty result set still has a current page.
func (g *Grid) TotalPages() int {
	if g.RowsPerPage <= 0 {
		return 1
	}
	pages := (g.TotalRecords + g.RowsPerPage - 1) / g.RowsPerPage
	if pages < 1 {
		return 1
	}
	return pages
}

// Title returns the display title for the column at index i, falling
// back to the column key when ColumnTitles is shorter than Columns.
func (g *Grid) Title(i int) string {
	if i < len(g.ColumnTitles) && g.ColumnTitles[i] != "" {
		return g.ColumnTitles[i]
	}
	if i < len(g.Columns) {
		return g.Columns[i]
	}
	return ""
}

// HeaderClass returns the header class metadata for column i, or "".
func (g *Grid) HeaderClass(i int) string {
	if i < len(g.HeaderCellClasses) {
		return g.HeaderCellClasses[i]
	}
	return ""
}

// SortFor returns the active direction for a column and whether the
// column participates in the sort at all.
func (g *Grid) SortFor(column string) (SortDir, bool) {
	for _, sc := range g.SortConditions {
		if sc.Column == column {
			return sc.Dir, true
		}
	}
	return "", false
}

// SwapColumns exchanges two columns by key, keeping Columns,
// ColumnTitles and HeaderCellClasses positionally aligned. A missing
// key or src == dst is a no-op.
func (g *Grid) SwapColumns(src, dst string) {
	i := slices.Index(g.Columns, src)
	j := slices.Index(g.Columns, dst)
	if i < 0 || j < 0 || i == j {
		return
	}
	g.Columns[i], g.Columns[j] = g.Columns[j], g.Columns[i]
	if i < len(g.ColumnTitles) && j < len(g.ColumnTitles) {
		g.ColumnTitles[i], g.ColumnTitles[j] = g.ColumnTitles[j], g.ColumnTitles[i]
	}
	if i < len(g.HeaderCellClasses) && j < len(g.HeaderCellClasses) {
		g.HeaderCellClasses[i], g.HeaderCellClasses[j] = g.HeaderCellClasses[j], g.HeaderCellClasses[i]
	}
}

// Clone returns a deep copy suitable for use as a mutable draft.
// Record values themselves are shared: rows are read-only by contract,
// so structural sharing below the slice is safe.
func (g *Grid) Clone() *Grid {
	dup := *g
	dup.Filters = maps.Clone(g.Filters)
	dup.ColumnWidths = maps.Clone(g.ColumnWidths)
	dup.SortConditions = slices.Clone(g.SortConditions)
	dup.Columns = slices.Clone(g.Columns)
	dup.ColumnTitles = slices.Clone(g.ColumnTitles)
	dup.HeaderCellClasses = slices.Clone(g.HeaderCellClasses)
	dup.Data = slices.Clone(g.Data)
	return &dup
}

// Equal reports structural equality between two snapshots.
func (g *Grid) Equal(other *Grid) bool {
	if g == other {
		return true
	}
	if g == nil || other == nil {
		return false
	}
	return reflect.DeepEqual(g, other)
}
