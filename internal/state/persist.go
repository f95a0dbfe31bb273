// Durable persistence of the user-adjustable projection of grid state.
// The projection is stored as one TOML file per grid instance.
package state

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
)

// UIState is the persisted projection of a Grid snapshot: everything
// the user can adjust that should survive a restart. Data rows and
// totals are deliberately absent; they are refetched.
type UIState struct {
	Columns           []string          `toml:"columns"`
	ColumnWidths      []ColumnWidth     `toml:"column_widths,omitempty"`
	SortConditions    []SortEntry       `toml:"sort_conditions,omitempty"`
	Filters           map[string]string `toml:"filters,omitempty"`
	CurrentPage       int               `toml:"current_page"`
	RowsPerPage       int               `toml:"rows_per_page"`
	HeaderCellClasses []string          `toml:"header_cell_classes,omitempty"`
}

// ColumnWidth is one resized column.
type ColumnWidth struct {
	Name  string `toml:"name"`
	Width int    `toml:"width"`
}

// SortEntry is one persisted sort condition; order encodes priority.
type SortEntry struct {
	Column string `toml:"column"`
	Dir    string `toml:"dir"`
}

// Project extracts the persistable projection from a snapshot.
func Project(g *Grid) UIState {
	st := UIState{
		Columns:           slices.Clone(g.Columns),
		Filters:           cloneNonEmpty(g.Filters),
		CurrentPage:       g.CurrentPage,
		RowsPerPage:       g.RowsPerPage,
		HeaderCellClasses: slices.Clone(g.HeaderCellClasses),
	}
	for _, c := range g.Columns {
		if w, ok := g.ColumnWidths[c]; ok {
			st.ColumnWidths = append(st.ColumnWidths, ColumnWidth{Name: c, Width: w})
		}
	}
	for _, sc := range g.SortConditions {
		st.SortConditions = append(st.SortConditions, SortEntry{Column: sc.Column, Dir: string(sc.Dir)})
	}
	return st
}

// SaveUIState writes the projection, creating directories as needed.
func SaveUIState(path string, st UIState) error {
	resolved, err := resolvePath(path)
	if err != nil {
		return fmt.Errorf("resolve path: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(resolved), 0o755); err != nil {
		return fmt.Errorf("create state dir: %w", err)
	}
	bytes, err := toml.Marshal(st)
	if err != nil {
		return fmt.Errorf("marshal ui state: %w", err)
	}
	if err := os.WriteFile(resolved, bytes, 0o644); err != nil {
		return fmt.Errorf("write ui state: %w", err)
	}
	return nil
}

// LoadUIState reads a previously saved projection. A missing or
// unreadable file yields (nil, nil): persistence is best-effort and a
// bad file must never block construction.
func LoadUIState(path string) (*UIState, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return nil, nil
	}
	bytes, err := os.ReadFile(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, nil
	}
	var st UIState
	if err := toml.Unmarshal(bytes, &st); err != nil {
		return nil, fmt.Errorf("parse ui state: %w", err)
	}
	return &st, nil
}

// Apply merges a loaded projection into a draft snapshot, validating
// field by field against the current column configuration. Unknown or
// invalid fields are discarded rather than failing the whole load.
func (st *UIState) Apply(g *Grid) {
	if st == nil {
		return
	}
	known := func(col string) bool { return slices.Contains(g.Columns, col) }

	// A persisted column order is honored only when it is a permutation
	// of the configured columns; a stale set is ignored wholesale.
	if samePermutation(st.Columns, g.Columns) {
		reorderAligned(g, st.Columns)
	}
	for _, cw := range st.ColumnWidths {
		if known(cw.Name) && cw.Width > 0 {
			if g.ColumnWidths == nil {
				g.ColumnWidths = make(map[string]int)
			}
			g.ColumnWidths[cw.Name] = cw.Width
		}
	}
	var sorts []SortCondition
	for _, se := range st.SortConditions {
		dir := SortDir(se.Dir)
		if known(se.Column) && (dir == SortAsc || dir == SortDesc) {
			if _, dup := sortsContain(sorts, se.Column); !dup {
				sorts = append(sorts, SortCondition{Column: se.Column, Dir: dir})
			}
		}
	}
	if len(sorts) > 0 {
		g.SortConditions = sorts
	}
	for col, val := range st.Filters {
		if known(col) && strings.TrimSpace(val) != "" {
			if g.Filters == nil {
				g.Filters = make(map[string]string)
			}
			g.Filters[col] = val
		}
	}
	if st.CurrentPage >= 1 {
		g.CurrentPage = st.CurrentPage
	}
	if RowsPerPageAllowed(st.RowsPerPage) {
		g.RowsPerPage = st.RowsPerPage
	}
	if len(st.HeaderCellClasses) == len(g.Columns) {
		g.HeaderCellClasses = slices.Clone(st.HeaderCellClasses)
	}
}

func sortsContain(sorts []SortCondition, col string) (int, bool) {
	for i, sc := range sorts {
		if sc.Column == col {
			return i, true
		}
	}
	return -1, false
}

func samePermutation(a, b []string) bool {
	if len(a) != len(b) || len(a) == 0 {
		return false
	}
	as := slices.Clone(a)
	bs := slices.Clone(b)
	slices.Sort(as)
	slices.Sort(bs)
	return slices.Equal(as, bs)
}

// reorderAligned rewrites the draft's column order to match want,
// dragging titles and header classes along by their original index.
func reorderAligned(g *Grid, want []string) {
	type meta struct {
		title string
		class string
	}
	byCol := make(map[string]meta, len(g.Columns))
	for i, c := range g.Columns {
		m := meta{}
		if i < len(g.ColumnTitles) {
			m.title = g.ColumnTitles[i]
		}
		if i < len(g.HeaderCellClasses) {
			m.class = g.HeaderCellClasses[i]
		}
		byCol[c] = m
	}
	hadTitles := len(g.ColumnTitles) == len(g.Columns)
	hadClasses := len(g.HeaderCellClasses) == len(g.Columns)

	g.Columns = slices.Clone(want)
	if hadTitles {
		titles := make([]string, len(want))
		for i, c := range want {
			titles[i] = byCol[c].title
		}
		g.ColumnTitles = titles
	}
	if hadClasses {
		classes := make([]string, len(want))
		for i, c := range want {
			classes[i] = byCol[c].class
		}
		g.HeaderCellClasses = classes
	}
}

func cloneNonEmpty(m map[string]string) map[string]string {
	if len(m) == 0 {
		return nil
	}
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func resolvePath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
