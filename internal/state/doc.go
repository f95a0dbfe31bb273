// Package state owns the grid's single source of truth.
//
// # Overview
//
// The package implements an immutable-snapshot store for the data
// grid's entire domain state: page, page size, filters, sort
// conditions, column layout, current rows and totals. Every consumer
// (renderer, interaction controller, request builder, persistence)
// reads the same Grid snapshot; every transition flows through
// Store.Mutate.
//
// # Copy-on-write mutation
//
// Mutate follows an explicit builder pattern rather than a proxy-trap
// draft:
//
//	changed, err := store.Mutate(func(g *state.Grid) {
//		g.CurrentPage = 3
//	})
//
// The store clones the current snapshot, hands the clone to the
// transform, and publishes it only when the draft structurally differs
// from the original. Consumers holding a reference to an old snapshot
// never observe the change. Record values are shared between
// snapshots: rows are read-only once fetched, so structural sharing
// below the Data slice is safe and keeps cloning cheap.
//
// A transform that panics is recovered; the previous snapshot stays
// intact and the panic is reported as an error. This gives Mutate
// all-or-nothing semantics.
//
// # Invariants
//
//   - CurrentPage >= 1; RowsPerPage is drawn from AllowedRowsPerPage.
//   - Columns, ColumnTitles and HeaderCellClasses stay positionally
//     aligned: SwapColumns exchanges all three at the same indexes.
//   - A column appears at most once in SortConditions; slice order
//     encodes sort priority.
//
// # Persistence
//
// Two projections of a snapshot leave the process:
//
//   - UIState (persist.go): the user-adjustable fields, written as one
//     TOML file per grid instance and merged back on construction with
//     field-by-field validation. Stale columns are dropped, invalid
//     page sizes fall back to the configured default, and a corrupt
//     file never blocks startup.
//   - QueryValues (query.go): the same filter/sort encoding the
//     request builder uses, for non-reloading location updates when
//     push-state is enabled.
//
// Subscribers registered with Subscribe receive each published
// snapshot synchronously; the orchestrator uses this to fan out to
// both persistence channels. I/O failures in subscribers are logged by
// their owners, never propagated back into Mutate.
package state
