package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("212"))
	paneStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1)
	activePaneStyle = paneStyle.
			BorderForeground(lipgloss.Color("212"))
	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("229")).
			Background(lipgloss.Color("57"))
	dimStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	labelStyle = lipgloss.NewStyle().Bold(true).Width(10)
	alertStyle = lipgloss.NewStyle().
			Border(lipgloss.DoubleBorder()).
			BorderForeground(lipgloss.Color("203")).
			Padding(0, 2)
)

func (m model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Pick PG location"))
	b.WriteString("\n\n")
	b.WriteString(m.pane(focusSearch).Render(m.searchView()))
	b.WriteString("\n")
	b.WriteString(m.pane(focusMap).Render(m.mapView()))
	b.WriteString("\n")
	b.WriteString(m.formView())
	b.WriteString("\n")

	if m.alert != nil {
		b.WriteString("\n")
		b.WriteString(alertStyle.Render(m.alert.title + "\n\n" + m.alert.message + "\n\n" + dimStyle.Render("press any key")))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(dimStyle.Render(m.helpLine()))
	return b.String()
}

func (m model) pane(f focus) lipgloss.Style {
	style := paneStyle
	if m.focus == f {
		style = activePaneStyle
	}
	if m.width > 4 {
		style = style.Width(m.width - 4)
	}
	return style
}

func (m model) searchView() string {
	var b strings.Builder
	b.WriteString(m.input.View())
	if m.snap.Searching {
		b.WriteString(dimStyle.Render("  searching…"))
	}
	for i, r := range m.snap.Results {
		b.WriteString("\n")
		line := "  " + r.DisplayName
		if i == m.cursor && m.focus == focusSearch {
			line = selectedStyle.Render("› " + r.DisplayName)
		}
		b.WriteString(line)
	}
	return b.String()
}

func (m model) mapView() string {
	v := m.viewport
	lines := []string{
		labelStyle.Render("Center") + fmt.Sprintf("%.5f, %.5f", v.Latitude, v.Longitude),
		labelStyle.Render("Span") + fmt.Sprintf("%.4f° × %.4f°", v.LatitudeDelta, v.LongitudeDelta),
	}
	if m.snap.Locating {
		lines = append(lines, dimStyle.Render("locating…"))
	}
	return strings.Join(lines, "\n")
}

func (m model) formView() string {
	address := m.address
	if address == "" {
		address = dimStyle.Render("(none)")
	}
	if m.fetching {
		address += dimStyle.Render("  resolving…")
	}
	return labelStyle.Render("Pin") + m.coordinate.String() + "\n" +
		labelStyle.Render("Address") + address
}

func (m model) helpLine() string {
	var bindings []key.Binding
	if m.focus == focusSearch {
		bindings = []key.Binding{m.keys.Up, m.keys.Down, m.keys.Select, m.keys.Clear, m.keys.LocateAny, m.keys.FocusToggle}
	} else {
		bindings = []key.Binding{m.keys.PanNorth, m.keys.PanSouth, m.keys.PanWest, m.keys.PanEast, m.keys.ZoomIn, m.keys.ZoomOut, m.keys.Locate, m.keys.Reset, m.keys.FocusToggle, m.keys.Quit}
	}
	parts := make([]string, 0, len(bindings))
	for _, kb := range bindings {
		h := kb.Help()
		parts = append(parts, h.Key+" "+h.Desc)
	}
	return strings.Join(parts, " · ")
}
