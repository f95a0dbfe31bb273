// Package config merges user options with defaults and validates them.
// Mandatory problems surface as *ConfigError at construction time;
// recoverable ones are downgraded to warnings and logged.
package config

import (
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/gridle/gridle/internal/state"
)

// ConfigError reports a missing or malformed mandatory option. It is
// thrown synchronously from construction and must be handled by the
// embedding application.
type ConfigError struct {
	Option string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid option %q: %s", e.Option, e.Reason)
}

// Warning is a non-fatal validation finding; operation continues.
type Warning struct {
	Option string
	Reason string
}

func (w Warning) String() string {
	return fmt.Sprintf("option %q: %s", w.Option, w.Reason)
}

// Formatter renders one cell value to display text.
type Formatter func(value any) string

// ButtonSpec customizes the prev/next pagination buttons.
type ButtonSpec struct {
	Text     string
	IsStyled bool   // text is pre-styled and used verbatim
	Template string // optional template with a {text} placeholder
}

// Hooks are the optional lifecycle callbacks.
type Hooks struct {
	PreDataLoad      func()
	PostDataLoad     func()
	PreRender        func()
	PostRender       func()
	SelectionChanged func(rows []state.Record)
}

// NoSortingMarker flags a non-sortable column when it appears inside
// the column's header class string.
const NoSortingMarker = "no-sorting"

// Options is the full inbound construction option set.
type Options struct {
	URL     string
	Columns []string

	ColumnTitles     []string
	ColumnFormatters map[string]Formatter
	Format           state.Format
	RowsPerPage      int
	UseCache         bool
	UsePushState     bool
	Language         string
	LangPath         string
	HeaderCellClasses []string
	CacheExpiry      time.Duration
	Selectable       bool
	Hooks            Hooks
	Theme            string
	DraggableColumns bool
	PrevButton       ButtonSpec
	NextButton       ButtonSpec
	RetryAttempts    *int // nil means the default (3); zero disables retries
	PreloadNextPage  bool
	PersistState     bool
	DestroyOnUnload  *bool // nil means the default (true)
	Debug            bool
	LazyLoadMedia    bool
	FormatCacheSize  int

	// IDField names the record field carrying the unique identifier.
	IDField string

	// InstanceKey isolates persisted state and cache entries between
	// grid instances. Defaults to a generated key.
	InstanceKey string

	// StateDir is where persisted UI state and the durable cache live.
	StateDir string

	// DebounceDelay collapses bursts of load triggers.
	DebounceDelay time.Duration
}

// Defaults mirrored from the public option documentation.
const (
	DefaultRowsPerPage     = 10
	DefaultLanguage        = "en_US"
	DefaultLangPath        = "/lang"
	DefaultCacheExpiry     = 8 * time.Hour
	DefaultRetryAttempts   = 3
	DefaultFormatCacheSize = 500
	DefaultDebounceDelay   = 250 * time.Millisecond
	DefaultIDField         = "id"
	DefaultTheme           = "default"
	defaultStateDir        = "~/.config/gridle"
)

// Validate fills defaults, checks mandatory options and collects
// warnings for the recoverable findings. The receiver is not modified.
func (o Options) Validate() (Options, []Warning, error) {
	var warnings []Warning

	if strings.TrimSpace(o.URL) == "" {
		return o, nil, &ConfigError{Option: "url", Reason: "mandatory and must be non-empty"}
	}
	parsed, err := url.Parse(o.URL)
	if err != nil || !parsed.IsAbs() || parsed.Host == "" {
		return o, nil, &ConfigError{Option: "url", Reason: fmt.Sprintf("not an absolute URL: %q", o.URL)}
	}
	if len(o.Columns) == 0 {
		return o, nil, &ConfigError{Option: "columns", Reason: "mandatory and must be non-empty"}
	}
	for _, c := range o.Columns {
		if strings.TrimSpace(c) == "" {
			return o, nil, &ConfigError{Option: "columns", Reason: "column keys must be non-empty"}
		}
	}

	if len(o.ColumnTitles) > 0 && len(o.ColumnTitles) != len(o.Columns) {
		warnings = append(warnings, Warning{
			Option: "columnTitles",
			Reason: fmt.Sprintf("length %d does not match columns length %d; column keys are used for the gap", len(o.ColumnTitles), len(o.Columns)),
		})
	}
	if len(o.HeaderCellClasses) > 0 && len(o.HeaderCellClasses) != len(o.Columns) {
		warnings = append(warnings, Warning{
			Option: "headerCellClasses",
			Reason: fmt.Sprintf("length %d does not match columns length %d", len(o.HeaderCellClasses), len(o.Columns)),
		})
	}
	for col, f := range o.ColumnFormatters {
		if f == nil {
			warnings = append(warnings, Warning{Option: "columnFormatters", Reason: fmt.Sprintf("formatter for %q is nil and is ignored", col)})
			delete(o.ColumnFormatters, col)
		}
	}

	if o.RowsPerPage == 0 {
		o.RowsPerPage = DefaultRowsPerPage
	} else if !state.RowsPerPageAllowed(o.RowsPerPage) {
		warnings = append(warnings, Warning{
			Option: "rowsPerPage",
			Reason: fmt.Sprintf("%d is not in the allowed set; falling back to %d", o.RowsPerPage, DefaultRowsPerPage),
		})
		o.RowsPerPage = DefaultRowsPerPage
	}

	if strings.TrimSpace(o.Language) == "" {
		o.Language = DefaultLanguage
	}
	if strings.TrimSpace(o.LangPath) == "" {
		o.LangPath = DefaultLangPath
	}
	if o.CacheExpiry <= 0 {
		o.CacheExpiry = DefaultCacheExpiry
	}
	if o.RetryAttempts != nil && *o.RetryAttempts < 0 {
		warnings = append(warnings, Warning{Option: "retryAttempts", Reason: "negative; falling back to default"})
		o.RetryAttempts = nil
	}
	if o.FormatCacheSize <= 0 {
		o.FormatCacheSize = DefaultFormatCacheSize
	}
	if o.DebounceDelay <= 0 {
		o.DebounceDelay = DefaultDebounceDelay
	}
	if strings.TrimSpace(o.IDField) == "" {
		o.IDField = DefaultIDField
	}

	switch o.Theme {
	case "", DefaultTheme, "light", "dark":
		if o.Theme == "" {
			o.Theme = DefaultTheme
		}
	default:
		warnings = append(warnings, Warning{Option: "theme", Reason: fmt.Sprintf("unknown theme %q; falling back to %q", o.Theme, DefaultTheme)})
		o.Theme = DefaultTheme
	}

	if strings.TrimSpace(o.StateDir) == "" {
		o.StateDir = defaultStateDir
	}

	return o, warnings, nil
}

// Retries resolves the retryAttempts option: the default when left
// unset, zero meaning a single attempt with no retry.
func (o Options) Retries() int {
	if o.RetryAttempts == nil {
		return DefaultRetryAttempts
	}
	return *o.RetryAttempts
}

// ShouldDestroyOnUnload resolves the destroyOnUnload option, which
// defaults to true when left unset.
func (o Options) ShouldDestroyOnUnload() bool {
	return o.DestroyOnUnload == nil || *o.DestroyOnUnload
}

// Logger builds the component logger: debug level when the debug
// option is set, warnings only otherwise.
func (o Options) Logger() *slog.Logger {
	level := slog.LevelWarn
	if o.Debug {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}
