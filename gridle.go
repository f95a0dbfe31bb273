// Package gridle is a server-driven data grid for Go hosts: an
// immutable state store, a debounced and cached load pipeline, a
// reconciling retained-tree renderer with table, list and card
// layouts, and a delegated interaction controller.
//
// This package is the public surface; it re-exports the orchestrator
// so embedders never import internal packages.
package gridle

import (
	"github.com/gridle/gridle/internal/config"
	"github.com/gridle/gridle/internal/grid"
	"github.com/gridle/gridle/internal/state"
)

// Core types.
type (
	// Grid is a live grid instance; see New.
	Grid = grid.Grid

	// Options configures a grid. URL and Columns are mandatory.
	Options = config.Options

	// ConfigError reports a fatal construction problem.
	ConfigError = config.ConfigError

	// ButtonSpec customizes the prev/next pagination buttons.
	ButtonSpec = config.ButtonSpec

	// Hooks are the optional lifecycle callbacks.
	Hooks = config.Hooks

	// Formatter renders one cell value to display text.
	Formatter = config.Formatter

	// Partial is a sparse update for UpdateParams.
	Partial = grid.Partial

	// Env adapts the grid to its hosting environment.
	Env = grid.Env

	// NoopEnv is the default environment adapter.
	NoopEnv = grid.NoopEnv

	// Record is one row of server data.
	Record = state.Record

	// Format selects the view mode.
	Format = state.Format
)

// View modes.
const (
	FormatTable = state.FormatTable
	FormatList  = state.FormatList
	FormatCards = state.FormatCards
)

// ErrDestroyed is returned by operations invoked after Destroy.
var ErrDestroyed = grid.ErrDestroyed

// New validates options, restores persisted state and starts the
// initial load. Pass a nil env for a standalone grid.
func New(opts Options, env Env) (*Grid, error) {
	return grid.New(opts, env)
}
