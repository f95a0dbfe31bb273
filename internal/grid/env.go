package grid

import "net/url"

// Env abstracts the hosting environment: lifecycle teardown, history
// integration and the data-saver signal. A browser-like host maps
// these onto its own primitives; the TUI host uses NoopEnv.
type Env interface {
	// RegisterUnloadHandler installs fn to run when the host goes
	// away and returns a function that removes it again.
	RegisterUnloadHandler(fn func()) (unregister func())

	// PushHistoryState publishes the grid's current query state to
	// the host's navigation history.
	PushHistoryState(values url.Values)

	// ReadLocationQuery returns the query parameters of the current
	// location, used to restore page, filters and sorting.
	ReadLocationQuery() url.Values

	// DataSaver reports whether the user asked to conserve
	// bandwidth; preloading is skipped when set.
	DataSaver() bool
}

// NoopEnv is the default environment: no history, no unload signal,
// no data-saver preference.
type NoopEnv struct{}

func (NoopEnv) RegisterUnloadHandler(func()) func() { return func() {} }
func (NoopEnv) PushHistoryState(url.Values)         {}
func (NoopEnv) ReadLocationQuery() url.Values       { return nil }
func (NoopEnv) DataSaver() bool                     { return false }
