package main

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/couchcryptid/pg-locator/internal/domain"
	"github.com/couchcryptid/pg-locator/internal/picker"
)

type focus int

const (
	focusSearch focus = iota
	focusMap
)

// Zoom limits for the map pane, in degrees of latitude span.
const (
	minSpan = 0.0025
	maxSpan = 1.0
)

// model is the listing form: it owns the coordinate and address fields and
// hosts the picker, mirroring how a mobile form embeds the picker card.
type model struct {
	picker *picker.Picker
	bridge *bridge
	keys   keyMap

	input    textinput.Model
	focus    focus
	viewport domain.Region
	snap     picker.Snapshot
	cursor   int

	saved      domain.Coordinate // coordinate the form was opened with
	coordinate domain.Coordinate
	address    string
	fetching   bool
	alert      *alertMsg

	width int
}

func newModel(p *picker.Picker, b *bridge, coordinate domain.Coordinate, address string) model {
	input := textinput.New()
	input.Placeholder = "Search area, street or landmark"
	input.CharLimit = 120
	input.Prompt = "🔍 "
	input.Focus()

	snap := p.Snapshot()
	return model{
		picker:     p,
		bridge:     b,
		keys:       defaultKeyMap,
		input:      input,
		viewport:   snap.Region,
		snap:       snap,
		saved:      coordinate,
		coordinate: coordinate,
		address:    address,
	}
}

func (m model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.bridge.next())
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case tea.KeyMsg:
		if m.alert != nil {
			m.alert = nil
			return m, nil
		}
		if m.focus == focusSearch {
			return m.handleSearchKeys(msg)
		}
		return m.handleMapKeys(msg)

	case stateChangedMsg:
		m.syncSnapshot()
		return m, m.bridge.next()

	case coordinatesMsg:
		m.coordinate = domain.Coordinate(msg)
		return m, m.bridge.next()

	case addressMsg:
		m.address = string(msg)
		m.picker.SetAddress(m.address)
		return m, m.bridge.next()

	case fetchingMsg:
		m.fetching = bool(msg)
		return m, m.bridge.next()

	case animateMsg:
		m.viewport = msg.region
		return m, m.bridge.next()

	case alertMsg:
		m.alert = &msg
		return m, m.bridge.next()
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m model) handleSearchKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case msg.Type == tea.KeyCtrlC:
		return m, tea.Quit
	case key.Matches(msg, m.keys.FocusToggle):
		m.setFocus(focusMap)
		return m, nil
	case key.Matches(msg, m.keys.LocateAny):
		m.picker.LocateMe()
		return m, nil
	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
		return m, nil
	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.snap.Results)-1 {
			m.cursor++
		}
		return m, nil
	case key.Matches(msg, m.keys.Select):
		if m.cursor < len(m.snap.Results) {
			m.picker.SelectResult(m.snap.Results[m.cursor])
			m.syncSnapshot()
		}
		return m, nil
	case key.Matches(msg, m.keys.Clear):
		m.picker.ClearSearch()
		m.syncSnapshot()
		return m, nil
	}

	before := m.input.Value()
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if v := m.input.Value(); v != before {
		m.picker.SetSearchText(v)
	}
	return m, cmd
}

func (m model) handleMapKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.FocusToggle), key.Matches(msg, m.keys.Search):
		m.setFocus(focusSearch)
	case key.Matches(msg, m.keys.Locate), key.Matches(msg, m.keys.LocateAny):
		m.picker.LocateMe()
	case key.Matches(msg, m.keys.PanNorth):
		m.pan(1, 0)
	case key.Matches(msg, m.keys.PanSouth):
		m.pan(-1, 0)
	case key.Matches(msg, m.keys.PanWest):
		m.pan(0, -1)
	case key.Matches(msg, m.keys.PanEast):
		m.pan(0, 1)
	case key.Matches(msg, m.keys.Reset):
		// Host-side change: the form puts its saved value back.
		m.coordinate = m.saved
		m.picker.SetCoordinates(m.saved)
	case key.Matches(msg, m.keys.ZoomIn):
		m.zoom(0.5)
	case key.Matches(msg, m.keys.ZoomOut):
		m.zoom(2)
	}
	return m, nil
}

// pan moves the viewport a quarter of its span and reports the finished
// move to the picker as a user drag.
func (m *model) pan(dLat, dLon float64) {
	r := m.viewport
	r.Latitude = clamp(r.Latitude+dLat*r.LatitudeDelta/4, -90, 90)
	r.Longitude = clamp(r.Longitude+dLon*r.LongitudeDelta/4, -180, 180)
	m.viewport = r
	m.picker.RegionChangeComplete(r)
}

func (m *model) zoom(factor float64) {
	span := clamp(m.viewport.LatitudeDelta*factor, minSpan, maxSpan)
	m.viewport.LongitudeDelta *= span / m.viewport.LatitudeDelta
	m.viewport.LatitudeDelta = span
}

func (m *model) setFocus(f focus) {
	m.focus = f
	if f == focusSearch {
		m.input.Focus()
	} else {
		m.input.Blur()
	}
}

// syncSnapshot reads the picker's current state. The text box follows the
// picker only when the picker changed the query itself (selection, drag,
// locate); typed text is already in the box.
func (m *model) syncSnapshot() {
	prev := m.snap.Region
	m.snap = m.picker.Snapshot()
	if m.snap.Region.Center() != prev.Center() {
		m.viewport = m.snap.Region
	}
	if m.snap.Query != m.input.Value() {
		m.input.SetValue(m.snap.Query)
		m.input.CursorEnd()
	}
	if m.cursor >= len(m.snap.Results) {
		m.cursor = max(len(m.snap.Results)-1, 0)
	}
}

func clamp(v, lo, hi float64) float64 {
	return min(max(v, lo), hi)
}
