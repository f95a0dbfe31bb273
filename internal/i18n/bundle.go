// Package i18n loads and caches the grid's language bundles.
package i18n

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Bundle is the fixed translation schema. Pagination templates carry
// {start}, {end} and {total} placeholders; announcement strings carry
// the placeholders named in their comments.
type Bundle struct {
	Labels struct {
		NoData  string `json:"noData"`
		Loading string `json:"loading"`
		Retry   string `json:"retry"`
		Prev    string `json:"prev"`
		Next    string `json:"next"`
		// Totals is templated: "Showing {start}-{end} of {total}".
		Totals string `json:"totals"`
	} `json:"labels"`

	Errors struct {
		LoadFailed string `json:"loadFailed"` // shown on the error panel
		NoResponse string `json:"noResponse"`
	} `json:"errors"`

	Announce struct {
		PageChanged   string `json:"pageChanged"`   // {page}
		SortedAsc     string `json:"sortedAsc"`     // {column}
		SortedDesc    string `json:"sortedDesc"`    // {column}
		SortCleared   string `json:"sortCleared"`   // {column}
		RowSelected   string `json:"rowSelected"`   // {row}
		RowDeselected string `json:"rowDeselected"` // {row}
	} `json:"announce"`
}

// valid reports whether the decoded document covers the minimum the
// renderer needs; partial bundles are rejected so the fallback chain
// can take over.
func (b *Bundle) valid() bool {
	return b.Labels.NoData != "" && b.Labels.Totals != "" && b.Errors.LoadFailed != ""
}

// Expand substitutes {name} placeholders in a template.
func Expand(template string, vars map[string]string) string {
	out := template
	for name, val := range vars {
		out = strings.ReplaceAll(out, "{"+name+"}", val)
	}
	return out
}

// Totals renders the "showing X-Y of Z" footer line.
func (b *Bundle) Totals(start, end, total int) string {
	return Expand(b.Labels.Totals, map[string]string{
		"start": fmt.Sprintf("%d", start),
		"end":   fmt.Sprintf("%d", end),
		"total": fmt.Sprintf("%d", total),
	})
}

// Loader fetches the raw bundle document for one language. The
// transport (filesystem, HTTP, embedded assets) is the embedder's
// concern; the provider only sees this boundary.
type Loader interface {
	LoadBundle(ctx context.Context, language string) ([]byte, error)
}

// DirLoader reads bundles from {dir}/{language}.json.
type DirLoader struct {
	Dir string
}

func (l DirLoader) LoadBundle(_ context.Context, language string) ([]byte, error) {
	// Language tags come from configuration, but keep path traversal out.
	if strings.ContainsAny(language, `/\`) {
		return nil, fmt.Errorf("invalid language tag %q", language)
	}
	path := filepath.Join(l.Dir, language+".json")
	bytes, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read bundle %s: %w", path, err)
	}
	return bytes, nil
}

func decode(raw []byte) (*Bundle, error) {
	var b Bundle
	if err := json.Unmarshal(raw, &b); err != nil {
		return nil, fmt.Errorf("parse bundle: %w", err)
	}
	if !b.valid() {
		return nil, fmt.Errorf("bundle is missing required strings")
	}
	return &b, nil
}
