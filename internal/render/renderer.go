package render

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/gridle/gridle/internal/config"
	"github.com/gridle/gridle/internal/i18n"
	"github.com/gridle/gridle/internal/scene"
	"github.com/gridle/gridle/internal/state"
)

// AnnounceTTL is how long a screen-reader announcement stays in the
// live region before it is removed again.
const AnnounceTTL = 3 * time.Second

// Node attribute keys the renderer and the input controller agree on.
const (
	AttrColumn = "col"
	AttrPage   = "page"
	AttrSource = "src"
)

// Renderer owns the retained scene tree: one persistent container per
// view mode (inactive ones are hidden, not destroyed, so switching
// modes is a visibility toggle), a header and footer rebuilt per
// render, and keyed body rows updated through reconciliation.
type Renderer struct {
	opts   *config.Options
	theme  Theme
	styles Styles
	log    *slog.Logger

	root      *scene.Node
	tables    map[state.Format]*scene.Node
	header    *scene.Node
	bodies    map[state.Format]*scene.Node
	footer    *scene.Node
	overlay   *scene.Node
	errPanel  *scene.Node
	announcer *scene.Node

	formats *formatCache

	width int

	announceTTL time.Duration
	now         func() time.Time // test seam
}

// New builds the persistent tree skeleton. Nothing is visible until
// the first Render call.
func New(opts *config.Options, log *slog.Logger) *Renderer {
	if log == nil {
		log = slog.Default()
	}
	r := &Renderer{
		opts:        opts,
		theme:       GetTheme(opts.Theme),
		log:         log,
		formats:     newFormatCache(opts.FormatCacheSize),
		tables:      make(map[state.Format]*scene.Node, 3),
		bodies:      make(map[state.Format]*scene.Node, 3),
		announceTTL: AnnounceTTL,
		now:         time.Now,
	}
	r.styles = r.theme.Styles()
	r.buildSkeleton()
	return r
}

func (r *Renderer) buildSkeleton() {
	r.root = scene.New("grid", "root")

	for _, f := range []state.Format{state.FormatTable, state.FormatList, state.FormatCards} {
		container := scene.New("container", "container/"+f.String())
		container.SetFlag(scene.FlagHidden, true)
		body := scene.New("body", "body/"+f.String())
		if f == state.FormatTable {
			r.header = scene.New("header", "header")
			container.Append(r.header)
		}
		container.Append(body)
		r.tables[f] = container
		r.bodies[f] = body
		r.root.Append(container)
	}

	r.overlay = scene.New("overlay", "overlay")
	r.overlay.SetFlag(scene.FlagHidden, true)
	r.errPanel = scene.New("error", "error")
	r.errPanel.SetFlag(scene.FlagHidden, true)
	r.footer = scene.New("footer", "footer")
	r.announcer = scene.New("announcer", "announcer")

	r.root.Append(r.overlay, r.errPanel, r.footer, r.announcer)
}

// Root exposes the tree for event dispatch and host drawing.
func (r *Renderer) Root() *scene.Node { return r.root }

// Body returns the body container for a view mode; used by the
// controller for row cursor math.
func (r *Renderer) Body(f state.Format) *scene.Node { return r.bodies[f] }

// SetTheme swaps the active skin. Unknown names fall back to default.
func (r *Renderer) SetTheme(name string) {
	r.theme = GetTheme(name)
	r.styles = r.theme.Styles()
}

// SetWidth records the host viewport width used by View.
func (r *Renderer) SetWidth(w int) { r.width = w }

// Render redraws the tree from a state snapshot: container visibility
// per view mode, header and footer rebuilt, body rows reconciled by
// record key. Any error panel from a previous failed load is cleared.
func (r *Renderer) Render(g *state.Grid, b *i18n.Bundle) {
	r.HideError()

	for f, container := range r.tables {
		container.SetFlag(scene.FlagHidden, f != g.Format)
	}

	if g.Format == state.FormatTable {
		r.rebuildHeader(g)
	}

	switch g.Format {
	case state.FormatList:
		r.renderList(g, b)
	case state.FormatCards:
		r.renderCards(g, b)
	default:
		r.renderTable(g, b)
	}

	r.rebuildFooter(g, b)
}

// rebuildHeader replaces the header cells wholesale; headers are cheap
// relative to body rows and carry per-render sort state anyway.
func (r *Renderer) rebuildHeader(g *state.Grid) {
	cells := make([]*scene.Node, 0, len(g.Columns))
	for i, col := range g.Columns {
		cell := scene.New("header-cell", "h/"+col)
		cell.Role = scene.RoleColumnHeader
		cell.Text = g.Title(i)
		cell.SetAttr(AttrColumn, col)
		if w, ok := g.ColumnWidths[col]; ok {
			cell.SetAttr("width", strconv.Itoa(w))
		}

		sortable := !strings.Contains(g.HeaderClass(i), config.NoSortingMarker)
		if sortable {
			handle := scene.New("sort", "sort/"+col)
			handle.Role = scene.RoleSortHandle
			handle.SetAttr(AttrColumn, col)
			handle.Text = sortGlyph(g, col)
			cell.Append(handle)
		}
		if r.opts.DraggableColumns {
			cell.SetFlag("draggable", true)
		}

		resize := scene.New("resize", "resize/"+col)
		resize.Role = scene.RoleResizeHandle
		resize.SetAttr(AttrColumn, col)
		cell.Append(resize)

		cells = append(cells, cell)
	}
	r.header.SetChildren(cells)
}

func sortGlyph(g *state.Grid, col string) string {
	dir, ok := g.SortFor(col)
	if !ok {
		return "↕"
	}
	if dir == state.SortAsc {
		return "▲"
	}
	return "▼"
}

func (r *Renderer) renderTable(g *state.Grid, b *i18n.Bundle) {
	body := r.bodies[state.FormatTable]
	if len(g.Data) == 0 {
		r.renderPlaceholder(body, b)
		return
	}

	specs := make([]scene.ChildSpec, 0, len(g.Data))
	for i, rec := range g.Data {
		rec := rec
		key := r.rowKey(g, i, rec)
		specs = append(specs, scene.ChildSpec{
			Key:    key,
			Create: func() *scene.Node { return newRowNode(key) },
			Update: func(n *scene.Node) { r.updateRowCells(n, g, rec) },
		})
	}
	scene.Reconcile(body, specs)
}

func newRowNode(key string) *scene.Node {
	n := scene.New("row", key)
	n.Role = scene.RoleRow
	return n
}

func (r *Renderer) updateRowCells(row *scene.Node, g *state.Grid, rec state.Record) {
	cells := make([]scene.ChildSpec, 0, len(g.Columns))
	for _, col := range g.Columns {
		col := col
		cells = append(cells, scene.ChildSpec{
			Key:    row.Key + "/" + col,
			Create: func() *scene.Node { return scene.New("cell", "") },
			Update: func(n *scene.Node) { r.fillCell(n, col, rec[col]) },
		})
	}
	scene.Reconcile(row, cells)
}

// fillCell writes the display text for one cell, routing media values
// through the lazy-load placeholder when enabled.
func (r *Renderer) fillCell(n *scene.Node, col string, value any) {
	if r.opts.LazyLoadMedia {
		if src, ok := mediaSource(value); ok {
			n.Kind = "media"
			n.SetAttr(AttrSource, src)
			n.Text = "[media]"
			return
		}
	}
	n.Kind = "cell"
	n.Text = r.formats.Format(col, r.opts.ColumnFormatters[col], value)
}

// mediaSource reports whether a cell value points at an image asset.
func mediaSource(value any) (string, bool) {
	s, ok := value.(string)
	if !ok {
		return "", false
	}
	for _, ext := range []string{".png", ".jpg", ".jpeg", ".gif", ".webp", ".svg"} {
		if strings.HasSuffix(strings.ToLower(s), ext) {
			return s, true
		}
	}
	return "", false
}

func (r *Renderer) renderList(g *state.Grid, b *i18n.Bundle) {
	body := r.bodies[state.FormatList]
	if len(g.Data) == 0 {
		r.renderPlaceholder(body, b)
		return
	}

	specs := make([]scene.ChildSpec, 0, len(g.Data))
	for i, rec := range g.Data {
		rec := rec
		key := r.rowKey(g, i, rec)
		specs = append(specs, scene.ChildSpec{
			Key:    key,
			Create: func() *scene.Node { return newRowNode(key) },
			Update: func(n *scene.Node) {
				parts := make([]string, 0, len(g.Columns))
				for _, col := range g.Columns {
					parts = append(parts, r.formats.Format(col, r.opts.ColumnFormatters[col], rec[col]))
				}
				n.Text = strings.Join(parts, " · ")
				n.SetChildren(nil)
			},
		})
	}
	scene.Reconcile(body, specs)
}

func (r *Renderer) renderCards(g *state.Grid, b *i18n.Bundle) {
	body := r.bodies[state.FormatCards]
	if len(g.Data) == 0 {
		r.renderPlaceholder(body, b)
		return
	}

	specs := make([]scene.ChildSpec, 0, len(g.Data))
	for i, rec := range g.Data {
		rec := rec
		key := r.rowKey(g, i, rec)
		specs = append(specs, scene.ChildSpec{
			Key: key,
			Create: func() *scene.Node {
				n := scene.New("card", key)
				n.Role = scene.RoleRow
				return n
			},
			Update: func(n *scene.Node) { r.updateCardFields(n, g, rec) },
		})
	}
	scene.Reconcile(body, specs)
}

func (r *Renderer) updateCardFields(card *scene.Node, g *state.Grid, rec state.Record) {
	fields := make([]scene.ChildSpec, 0, len(g.Columns))
	for i, col := range g.Columns {
		col, title := col, g.Title(i)
		fields = append(fields, scene.ChildSpec{
			Key:    card.Key + "/" + col,
			Create: func() *scene.Node { return scene.New("field", "") },
			Update: func(n *scene.Node) {
				n.Text = title + ": " + r.formats.Format(col, r.opts.ColumnFormatters[col], rec[col])
			},
		})
	}
	scene.Reconcile(card, fields)
}

func (r *Renderer) renderPlaceholder(body *scene.Node, b *i18n.Bundle) {
	placeholder := scene.New("placeholder", "empty")
	placeholder.Text = b.Labels.NoData
	body.SetChildren([]*scene.Node{placeholder})
}

// rowKey derives the reconciliation key: the record's id field when
// present, otherwise the absolute row position so keys stay unique.
func (r *Renderer) rowKey(g *state.Grid, i int, rec state.Record) string {
	if key, ok := rec.Key(r.opts.IDField); ok {
		return "id:" + key
	}
	return fmt.Sprintf("pos:%d", (g.CurrentPage-1)*g.RowsPerPage+i)
}

// rebuildFooter regenerates the totals line and pagination cluster.
func (r *Renderer) rebuildFooter(g *state.Grid, b *i18n.Bundle) {
	start, end := TotalsRange(g.CurrentPage, g.RowsPerPage, g.TotalRecords)
	totals := scene.New("totals", "totals")
	totals.Text = b.Totals(start, end, g.TotalRecords)

	pager := scene.New("pager", "pager")
	items := PageWindow(g.CurrentPage, g.TotalPages())
	dots := 0
	for _, item := range items {
		pager.Append(r.pageNode(item, b, &dots))
	}

	r.footer.SetChildren([]*scene.Node{totals, pager})
}

func (r *Renderer) pageNode(item PageItem, b *i18n.Bundle, dots *int) *scene.Node {
	switch item.Kind {
	case ItemPrev:
		n := scene.New("button", "prev")
		n.Role = scene.RolePageButton
		n.Text = buttonLabel(r.opts.PrevButton, b.Labels.Prev)
		n.SetAttr(AttrPage, strconv.Itoa(item.Page))
		n.SetFlag(scene.FlagDisabled, item.Disabled)
		return n
	case ItemNext:
		n := scene.New("button", "next")
		n.Role = scene.RolePageButton
		n.Text = buttonLabel(r.opts.NextButton, b.Labels.Next)
		n.SetAttr(AttrPage, strconv.Itoa(item.Page))
		n.SetFlag(scene.FlagDisabled, item.Disabled)
		return n
	case ItemEllipsis:
		*dots++
		n := scene.New("ellipsis", "dots/"+strconv.Itoa(*dots))
		n.Text = "…"
		return n
	default:
		n := scene.New("button", "page/"+strconv.Itoa(item.Page))
		n.Role = scene.RolePageButton
		n.Text = strconv.Itoa(item.Page)
		n.SetAttr(AttrPage, strconv.Itoa(item.Page))
		n.SetFlag(scene.FlagCurrent, item.Current)
		return n
	}
}

// buttonLabel applies the configured button customization over the
// localized default.
func buttonLabel(spec config.ButtonSpec, fallback string) string {
	text := fallback
	if spec.Text != "" {
		text = spec.Text
	}
	if spec.IsStyled {
		return text
	}
	if spec.Template != "" {
		return strings.ReplaceAll(spec.Template, "{text}", text)
	}
	return text
}

// ShowLoading inserts the loading indicator into the active container.
// Idempotent while already showing.
func (r *Renderer) ShowLoading(b *i18n.Bundle) {
	if !r.overlay.Flag(scene.FlagHidden) {
		return
	}
	r.overlay.Text = b.Labels.Loading
	r.overlay.SetFlag(scene.FlagHidden, false)
}

// HideLoading removes the loading indicator.
func (r *Renderer) HideLoading() {
	r.overlay.SetFlag(scene.FlagHidden, true)
}

// ShowError replaces the content area with a titled message and a
// retry affordance; normal content stays hidden until retry.
func (r *Renderer) ShowError(b *i18n.Bundle, detail string) {
	r.HideLoading()
	for _, container := range r.tables {
		container.SetFlag(scene.FlagHidden, true)
	}

	title := scene.New("error-title", "error/title")
	title.Text = b.Errors.LoadFailed
	message := scene.New("error-detail", "error/detail")
	message.Text = detail
	retry := scene.New("retry", "error/retry")
	retry.Role = scene.RoleRetry
	retry.Text = b.Labels.Retry

	r.errPanel.SetChildren([]*scene.Node{title, message, retry})
	r.errPanel.SetFlag(scene.FlagHidden, false)
}

// HideError clears the error panel. Container visibility is restored
// by the next Render.
func (r *Renderer) HideError() {
	r.errPanel.SetFlag(scene.FlagHidden, true)
	r.errPanel.SetChildren(nil)
}

// ErrorVisible reports whether the error panel is showing.
func (r *Renderer) ErrorVisible() bool {
	return !r.errPanel.Flag(scene.FlagHidden)
}

// ApplyHighlights recomputes the current-row and selected-row flags on
// the active body from scratch. Not incremental; the row count is one
// page, so correctness is worth more than the saved writes.
func (r *Renderer) ApplyHighlights(format state.Format, current int, selected map[int]bool) {
	for i, row := range r.bodies[format].Children() {
		row.SetFlag(scene.FlagCurrent, i == current)
		row.SetFlag(scene.FlagSelected, selected[i])
	}
}

// Announce pushes a transient message into the live region. Each
// message carries a deadline; View prunes the expired ones, so no
// timer ever touches the tree off the host goroutine.
func (r *Renderer) Announce(text string) {
	if text == "" {
		return
	}
	msg := scene.New("announcement", fmt.Sprintf("msg/%d", r.now().UnixNano()))
	msg.Text = text
	msg.SetAttr("expires", strconv.FormatInt(r.now().Add(r.announceTTL).UnixNano(), 10))
	r.announcer.Append(msg)
}

// pruneAnnouncements drops live-region messages past their deadline.
func (r *Renderer) pruneAnnouncements() {
	kids := r.announcer.Children()
	kept := make([]*scene.Node, 0, len(kids))
	cutoff := r.now().UnixNano()
	for _, msg := range kids {
		if exp, err := strconv.ParseInt(msg.Attr("expires"), 10, 64); err == nil && exp > cutoff {
			kept = append(kept, msg)
		}
	}
	if len(kept) != len(kids) {
		r.announcer.SetChildren(kept)
	}
}
