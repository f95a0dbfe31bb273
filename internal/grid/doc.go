// Package grid is the orchestrator tying the subsystems together: it
// owns the state store, the renderer, the interaction controller, the
// request builder/client, the durable cache gateway and the language
// provider, and exposes the public command surface the root package
// re-exports.
//
// # Load pipeline
//
// State mutations call Request, which debounces; the timer fires Load.
// Load claims a monotonically increasing generation, checks the
// durable cache, falls back to the network with retries, applies the
// payload to the store, writes through to the cache, flags the tree
// for redraw and opportunistically preloads the next page. A
// continuation whose generation has been superseded (or that lands
// after Destroy) discards its payload, so out-of-order responses can
// never clobber a newer view. A payload whose page fell past a shrunk
// record total is not shown; the load re-enters on the clamped page.
//
// Transient fetch errors are retried with the load re-entered
// recursively; a response that arrived but failed application-level
// validation (request.DataError) is never retried. Exhausting the
// budget renders the error panel with a retry affordance.
//
// # Threading
//
// Commands are expected from one goroutine, matching an event-loop
// host such as bubbletea. The debounced load fires on a timer
// goroutine but never touches the scene tree from there: a completion
// mutates the store and leaves flags behind, and the next View call on
// the host goroutine applies them (redraw, selection reset, loading
// and error overlays). The store, the cache gateway and the generation
// bookkeeping carry their own synchronization.
package grid
