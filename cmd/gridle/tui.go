package main

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/gridle/gridle"
	"github.com/gridle/gridle/internal/input"
	"github.com/gridle/gridle/internal/state"
)

// refreshEvery paces view refreshes; the grid's debounced loads land
// on their own goroutine and are applied by the next View call, so
// the host polls.
const refreshEvery = 100 * time.Millisecond

type refreshMsg struct{}

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	helpStyle  = lipgloss.NewStyle().Faint(true).Padding(0, 1)
)

type model struct {
	grid  *gridle.Grid
	vp    viewport.Model
	spin  spinner.Model
	ready bool

	modes  []state.Format
	themes []string
	mode   int
	theme  int
}

func runTUI(opts gridle.Options) error {
	g, err := gridle.New(opts, nil)
	if err != nil {
		return err
	}
	defer g.Destroy()

	m := model{
		grid:   g,
		spin:   spinner.New(spinner.WithSpinner(spinner.Dot)),
		modes:  []state.Format{state.FormatTable, state.FormatList, state.FormatCards},
		themes: []string{"default", "light", "dark"},
	}
	_, err = tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}

func (m model) Init() tea.Cmd {
	return tea.Batch(m.spin.Tick, refreshTick())
}

func refreshTick() tea.Cmd {
	return tea.Tick(refreshEvery, func(time.Time) tea.Msg { return refreshMsg{} })
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		headerHeight := 1
		footerHeight := 1
		if !m.ready {
			m.vp = viewport.New(msg.Width, msg.Height-headerHeight-footerHeight)
			m.ready = true
		} else {
			m.vp.Width = msg.Width
			m.vp.Height = msg.Height - headerHeight - footerHeight
		}
		m.grid.Renderer().SetWidth(msg.Width)
		m.vp.SetContent(m.grid.View())
		return m, nil

	case refreshMsg:
		m.vp.SetContent(m.grid.View())
		return m, refreshTick()

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	ctrl := m.grid.Controller()

	switch msg.String() {
	case "q", "ctrl+c":
		m.grid.Destroy()
		return m, tea.Quit
	case "pgup", "left", "p":
		ctrl.HandleKey(input.KeyPageUp)
	case "pgdown", "right", "n":
		ctrl.HandleKey(input.KeyPageDown)
	case "up":
		ctrl.HandleKey(input.KeyArrowUp)
	case "down":
		ctrl.HandleKey(input.KeyArrowDown)
	case "home":
		ctrl.HandleKey(input.KeyHome)
	case "end":
		ctrl.HandleKey(input.KeyEnd)
	case "enter":
		ctrl.HandleKey(input.KeyEnter)
	case " ":
		ctrl.HandleKey(input.KeySpace)
	case "m":
		m.mode = (m.mode + 1) % len(m.modes)
		m.grid.SetRenderMode(m.modes[m.mode])
	case "t":
		m.theme = (m.theme + 1) % len(m.themes)
		m.grid.SetTheme(m.themes[m.theme])
	case "r":
		m.grid.Refresh()
	case "c":
		m.grid.ClearSelection()
	default:
		var cmd tea.Cmd
		m.vp, cmd = m.vp.Update(msg)
		return m, cmd
	}

	m.vp.SetContent(m.grid.View())
	return m, nil
}

func (m model) View() string {
	if !m.ready {
		return m.spin.View() + " starting..."
	}
	header := titleStyle.Render(fmt.Sprintf("%s gridle — %d records", m.spin.View(), m.grid.Totals()))
	help := helpStyle.Render("←/→ page · ↑/↓ row · enter select · m mode · t theme · r refresh · q quit")
	return header + "\n" + m.vp.View() + "\n" + help
}
