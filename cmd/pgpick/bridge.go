package main

import (
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/couchcryptid/pg-locator/internal/domain"
	"github.com/couchcryptid/pg-locator/internal/picker"
)

type (
	stateChangedMsg struct{}
	coordinatesMsg  domain.Coordinate
	addressMsg      string
	fetchingMsg     bool
	animateMsg      struct {
		region   domain.Region
		duration time.Duration
	}
	alertMsg struct {
		title   string
		message string
	}
)

// bridge turns picker callbacks into tea messages. Callbacks may fire inside
// Update (synchronous picker calls) or on picker goroutines, so push never
// blocks; the model drains the queue one message at a time with next.
type bridge struct {
	mu     sync.Mutex
	queue  []tea.Msg
	notify chan struct{}
}

func newBridge() *bridge {
	return &bridge{notify: make(chan struct{}, 1)}
}

func (b *bridge) push(msg tea.Msg) {
	b.mu.Lock()
	b.queue = append(b.queue, msg)
	b.mu.Unlock()

	select {
	case b.notify <- struct{}{}:
	default:
	}
}

// next returns a command that waits for the next queued message.
func (b *bridge) next() tea.Cmd {
	return func() tea.Msg {
		for {
			if msg, ok := b.pop(); ok {
				return msg
			}
			<-b.notify
		}
	}
}

func (b *bridge) pop() (tea.Msg, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.queue) == 0 {
		return nil, false
	}
	msg := b.queue[0]
	b.queue = b.queue[1:]
	return msg, true
}

func (b *bridge) OnCoordinatesChange(c domain.Coordinate) { b.push(coordinatesMsg(c)) }
func (b *bridge) OnAddressChange(address string)          { b.push(addressMsg(address)) }
func (b *bridge) OnAddressFetchingChange(fetching bool)   { b.push(fetchingMsg(fetching)) }

func (b *bridge) AnimateToRegion(r domain.Region, d time.Duration) {
	b.push(animateMsg{region: r, duration: d})
}

func (b *bridge) Alert(title, message string) {
	b.push(alertMsg{title: title, message: message})
}

func (b *bridge) stateChanged(picker.Snapshot) { b.push(stateChangedMsg{}) }

var (
	_ picker.Host    = (*bridge)(nil)
	_ picker.MapView = (*bridge)(nil)
	_ picker.Alerter = (*bridge)(nil)
)
