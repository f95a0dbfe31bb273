// Package request turns grid state into canonical request descriptors
// and URLs, and performs the HTTP fetch itself.
package request

import (
	"fmt"
	"html"
	"net/url"
	"slices"
	"strconv"
	"strings"

	"github.com/gridle/gridle/internal/state"
)

// Params is the canonical request descriptor derived from a snapshot.
// It is deterministic: the same snapshot and page always produce the
// same Params and the same URL, which doubles as the cache key.
type Params struct {
	Page    int
	PerPage int
	Offset  int
	// Filtering values are HTML-sanitized at construction; keys are
	// column names from the closed column configuration.
	Filtering map[string]string
	// Sorting directions come from a closed enum and are never
	// sanitized.
	Sorting []state.SortCondition
}

// Builder constructs request URLs against a fixed base endpoint.
type Builder struct {
	base *url.URL
}

// NewBuilder parses and pins the endpoint URL.
func NewBuilder(raw string) (*Builder, error) {
	base, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return nil, fmt.Errorf("parse endpoint url %q: %w", raw, err)
	}
	if !base.IsAbs() || base.Host == "" {
		return nil, fmt.Errorf("endpoint url %q is not absolute", raw)
	}
	return &Builder{base: base}, nil
}

// ParamsFor derives the descriptor for fetching the given page of the
// snapshot. Filter values are sanitized here, once, so every consumer
// of Params sees defused text.
func (b *Builder) ParamsFor(g *state.Grid, page int) Params {
	if page < 1 {
		page = 1
	}
	p := Params{
		Page:    page,
		PerPage: g.RowsPerPage,
		Offset:  (page - 1) * g.RowsPerPage,
		Sorting: slices.Clone(g.SortConditions),
	}
	if len(g.Filters) > 0 {
		p.Filtering = make(map[string]string, len(g.Filters))
		for col, val := range g.Filters {
			if val == "" {
				continue
			}
			p.Filtering[col] = html.EscapeString(val)
		}
	}
	return p
}

// URL renders the descriptor as the final GET URL. Filter columns are
// emitted in sorted order so the URL is stable for cache keying.
func (b *Builder) URL(p Params) string {
	values := url.Values{}
	values.Set("page", strconv.Itoa(p.Page))
	values.Set("perPage", strconv.Itoa(p.PerPage))
	values.Set("offset", strconv.Itoa(p.Offset))

	cols := make([]string, 0, len(p.Filtering))
	for col := range p.Filtering {
		cols = append(cols, col)
	}
	slices.Sort(cols)
	for _, col := range cols {
		values.Set("filtering["+col+"]", p.Filtering[col])
	}
	for _, sc := range p.Sorting {
		values.Set("sorting["+sc.Column+"]", string(sc.Dir))
	}

	u := *b.base
	if existing := u.Query(); len(existing) > 0 {
		for k, vs := range values {
			existing[k] = vs
		}
		u.RawQuery = existing.Encode()
	} else {
		u.RawQuery = values.Encode()
	}
	return u.String()
}

// Fingerprint derives the cache-invalidation fingerprint from the
// active filter set: a canonical serialization over sorted keys.
// Sort and pagination changes deliberately leave it untouched.
func Fingerprint(filters map[string]string) string {
	if len(filters) == 0 {
		return ""
	}
	cols := make([]string, 0, len(filters))
	for col := range filters {
		cols = append(cols, col)
	}
	slices.Sort(cols)
	var sb strings.Builder
	for _, col := range cols {
		sb.WriteString(col)
		sb.WriteByte('=')
		sb.WriteString(filters[col])
		sb.WriteByte(';')
	}
	return sb.String()
}
