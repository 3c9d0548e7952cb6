package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/mercurytools/actordef/bmsad"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	keyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#98FB98"))

	typeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4"))

	paneStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#444444")).
			Padding(0, 1)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

const listWidth = 36

type inspectModel struct {
	res      *bmsad.Resource
	source   string
	detail   viewport.Model
	selected int
	width    int
	height   int
	ready    bool
}

func newInspectModel(res *bmsad.Resource, source string) *inspectModel {
	return &inspectModel{res: res, source: source}
}

func (m *inspectModel) Init() tea.Cmd {
	return nil
}

func (m *inspectModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		detailWidth := m.width - listWidth - 6
		if detailWidth < 20 {
			detailWidth = 20
		}
		detailHeight := m.height - 5
		if detailHeight < 3 {
			detailHeight = 3
		}
		if !m.ready {
			m.detail = viewport.New(detailWidth, detailHeight)
			m.ready = true
		} else {
			m.detail.Width = detailWidth
			m.detail.Height = detailHeight
		}
		m.refreshDetail()
		return m, nil

	case tea.KeyMsg:
		entries := m.res.Definition.Components()
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.selected > 0 {
				m.selected--
				m.refreshDetail()
			}
			return m, nil
		case "down", "j":
			if m.selected < len(entries)-1 {
				m.selected++
				m.refreshDetail()
			}
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.detail, cmd = m.detail.Update(msg)
	return m, cmd
}

func (m *inspectModel) refreshDetail() {
	entries := m.res.Definition.Components()
	if !m.ready || m.selected >= len(entries) {
		return
	}
	c := entries[m.selected].Component
	m.detail.SetContent(strings.Join(componentDetail(&c), "\n"))
	m.detail.GotoTop()
}

func (m *inspectModel) View() string {
	if !m.ready {
		return "loading..."
	}

	title := titleStyle.Render(fmt.Sprintf(" %s — %s (%s) ",
		m.source, m.res.Name, m.res.Definition.TypeName()))

	entries := m.res.Definition.Components()
	var list strings.Builder
	for i, e := range entries {
		line := fmt.Sprintf("%s %s",
			keyStyle.Render(e.Key), typeStyle.Render(e.Component.Type))
		if i == m.selected {
			line = selectedStyle.Render("> " + e.Key + " " + e.Component.Type)
		} else {
			line = "  " + line
		}
		list.WriteString(line + "\n")
	}
	if len(entries) == 0 {
		list.WriteString(helpStyle.Render("(no components)"))
	}

	listPane := paneStyle.Width(listWidth).Render(list.String())
	detailPane := paneStyle.Render(m.detail.View())
	body := lipgloss.JoinHorizontal(lipgloss.Top, listPane, detailPane)
	help := helpStyle.Render("↑/↓ select component · pgup/pgdn scroll detail · q quit")

	return title + "\n" + body + "\n" + help
}

func runInteractive(res *bmsad.Resource, source string) error {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return fmt.Errorf("interactive mode requires a terminal")
	}
	p := tea.NewProgram(newInspectModel(res, source), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
