// Package render turns state snapshots into the retained scene tree
// and projects that tree to terminal output.
//
// # Overview
//
// The renderer keeps one persistent container per view mode and
// toggles visibility when the mode changes, so switching between
// table, list and card layouts never rebuilds content. Headers and the
// footer are rebuilt on every render; body rows go through keyed
// reconciliation so a row that survives a page flip keeps its node and
// with it its selection and highlight flags.
//
// # Rendering pipeline
//
// Render consumes a snapshot plus a language bundle and updates the
// tree. View then projects the tree to a string with lipgloss styles
// from the active theme. The two steps are deliberately separate: the
// input controller dispatches against the same tree View draws, which
// is what keeps hit-testing and output consistent.
//
// Formatter output is memoized in a bounded LRU keyed by column and
// raw value, so scrolling back and forth over the same pages does not
// re-run user formatters.
package render
