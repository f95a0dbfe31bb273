package render

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/gridle/gridle/internal/scene"
	"github.com/gridle/gridle/internal/state"
)

// DefaultColumnWidth pads table cells when no explicit width was set
// or resized in.
const DefaultColumnWidth = 14

// View projects the current scene tree into terminal output. The tree
// is the source of truth; View never consults the state store.
func (r *Renderer) View() string {
	r.pruneAnnouncements()

	var b strings.Builder

	if r.ErrorVisible() {
		b.WriteString(r.viewError())
		b.WriteString("\n")
		b.WriteString(r.viewFooter())
		return b.String()
	}

	for f, container := range r.tables {
		if container.Flag(scene.FlagHidden) {
			continue
		}
		switch f {
		case state.FormatTable:
			b.WriteString(r.viewTable(container))
		default:
			b.WriteString(r.viewLines(r.bodies[f]))
		}
	}

	if !r.overlay.Flag(scene.FlagHidden) {
		b.WriteString(r.styles.MutedText.Render(r.overlay.Text))
		b.WriteString("\n")
	}

	b.WriteString(r.viewFooter())

	for _, msg := range r.announcer.Children() {
		b.WriteString("\n")
		b.WriteString(r.styles.MutedText.Render(msg.Text))
	}

	return b.String()
}

func (r *Renderer) viewError() string {
	parts := make([]string, 0, 3)
	for _, c := range r.errPanel.Children() {
		switch c.Kind {
		case "error-title":
			parts = append(parts, r.styles.DangerText.Render(c.Text))
		case "retry":
			parts = append(parts, r.styles.Button.Render("["+c.Text+"]"))
		default:
			if c.Text != "" {
				parts = append(parts, r.styles.MutedText.Render(c.Text))
			}
		}
	}
	return strings.Join(parts, "\n")
}

func (r *Renderer) viewTable(container *scene.Node) string {
	var b strings.Builder

	widths := make([]int, len(r.header.Children()))
	for i, cell := range r.header.Children() {
		widths[i] = columnWidth(cell)
	}

	headers := make([]string, 0, len(r.header.Children()))
	for i, cell := range r.header.Children() {
		label := cell.Text
		if sort := cell.ChildByKey("sort/" + cell.Attr(AttrColumn)); sort != nil {
			label += " " + sort.Text
		}
		headers = append(headers, r.styles.Header.Width(widths[i]).Render(label))
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, headers...))
	b.WriteString("\n")

	for _, row := range r.bodies[state.FormatTable].Children() {
		if row.Kind == "placeholder" {
			b.WriteString(r.styles.MutedText.Render(row.Text))
			b.WriteString("\n")
			continue
		}
		cells := make([]string, 0, len(row.Children()))
		for i, cell := range row.Children() {
			w := DefaultColumnWidth
			if i < len(widths) {
				w = widths[i]
			}
			cells = append(cells, r.styles.Cell.Width(w).Render(cell.Text))
		}
		line := lipgloss.JoinHorizontal(lipgloss.Top, cells...)
		switch {
		case row.Flag(scene.FlagSelected):
			line = r.styles.SelectedRow.Render(line)
		case row.Flag(scene.FlagCurrent):
			line = r.styles.CurrentRow.Render(line)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	return b.String()
}

func columnWidth(cell *scene.Node) int {
	if w, err := strconv.Atoi(cell.Attr("width")); err == nil && w > 0 {
		return w
	}
	return DefaultColumnWidth
}

func (r *Renderer) viewLines(body *scene.Node) string {
	var b strings.Builder
	for _, row := range body.Children() {
		text := row.Text
		if row.Kind == "card" {
			fields := make([]string, 0, len(row.Children()))
			for _, f := range row.Children() {
				fields = append(fields, f.Text)
			}
			text = strings.Join(fields, "\n") + "\n"
		}
		style := r.styles.Cell
		switch {
		case row.Flag(scene.FlagSelected):
			style = r.styles.SelectedRow
		case row.Flag(scene.FlagCurrent):
			style = r.styles.CurrentRow
		case row.Kind == "placeholder":
			style = r.styles.MutedText
		}
		b.WriteString(style.Render(text))
		b.WriteString("\n")
	}
	return b.String()
}

func (r *Renderer) viewFooter() string {
	parts := make([]string, 0, 2)
	for _, c := range r.footer.Children() {
		switch c.Kind {
		case "totals":
			parts = append(parts, r.styles.MutedText.Render(c.Text))
		case "pager":
			buttons := make([]string, 0, len(c.Children()))
			for _, btn := range c.Children() {
				buttons = append(buttons, r.viewButton(btn))
			}
			parts = append(parts, strings.Join(buttons, " "))
		}
	}
	return strings.Join(parts, "  ")
}

func (r *Renderer) viewButton(btn *scene.Node) string {
	switch {
	case btn.Kind == "ellipsis":
		return r.styles.MutedText.Render(btn.Text)
	case btn.Flag(scene.FlagDisabled):
		return r.styles.ButtonDisabled.Render(btn.Text)
	case btn.Flag(scene.FlagCurrent):
		return r.styles.ButtonCurrent.Render(btn.Text)
	default:
		return r.styles.Button.Render(btn.Text)
	}
}
