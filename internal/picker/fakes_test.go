package picker_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/pg-locator/internal/domain"
	"github.com/couchcryptid/pg-locator/internal/observability"
	"github.com/couchcryptid/pg-locator/internal/picker"
)

// --- host ---

type hostEvent struct {
	kind       string // "coords", "address", "fetching"
	coordinate domain.Coordinate
	address    string
	fetching   bool
}

type recordingHost struct {
	mu     sync.Mutex
	events []hostEvent
}

func (h *recordingHost) OnCoordinatesChange(c domain.Coordinate) {
	h.add(hostEvent{kind: "coords", coordinate: c})
}

func (h *recordingHost) OnAddressChange(address string) {
	h.add(hostEvent{kind: "address", address: address})
}

func (h *recordingHost) OnAddressFetchingChange(fetching bool) {
	h.add(hostEvent{kind: "fetching", fetching: fetching})
}

func (h *recordingHost) add(e hostEvent) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.events = append(h.events, e)
}

func (h *recordingHost) all() []hostEvent {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]hostEvent, len(h.events))
	copy(out, h.events)
	return out
}

func (h *recordingHost) of(kind string) []hostEvent {
	var out []hostEvent
	for _, e := range h.all() {
		if e.kind == kind {
			out = append(out, e)
		}
	}
	return out
}

func (h *recordingHost) addresses() []string {
	var out []string
	for _, e := range h.of("address") {
		out = append(out, e.address)
	}
	return out
}

func (h *recordingHost) coordinates() []domain.Coordinate {
	var out []domain.Coordinate
	for _, e := range h.of("coords") {
		out = append(out, e.coordinate)
	}
	return out
}

func (h *recordingHost) fetchingFlags() []bool {
	var out []bool
	for _, e := range h.of("fetching") {
		out = append(out, e.fetching)
	}
	return out
}

// --- geocoder ---

type fakeGeocoder struct {
	mu           sync.Mutex
	queries      []string
	reverseCalls []domain.Coordinate

	results    []domain.SearchResult
	searchErr  error
	place      domain.Place
	reverseErr error

	// reverse, when set, replaces the canned place/error.
	reverse func(ctx context.Context, call int, lat, lon float64) (domain.Place, error)
}

func (g *fakeGeocoder) Search(_ context.Context, query string, _ int) ([]domain.SearchResult, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.queries = append(g.queries, query)
	return g.results, g.searchErr
}

func (g *fakeGeocoder) Reverse(ctx context.Context, lat, lon float64) (domain.Place, error) {
	g.mu.Lock()
	g.reverseCalls = append(g.reverseCalls, domain.Coordinate{Latitude: lat, Longitude: lon})
	call := len(g.reverseCalls)
	fn := g.reverse
	place, err := g.place, g.reverseErr
	g.mu.Unlock()

	if fn != nil {
		return fn(ctx, call, lat, lon)
	}
	return place, err
}

func (g *fakeGeocoder) searchQueries() []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]string(nil), g.queries...)
}

func (g *fakeGeocoder) reverseCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.reverseCalls)
}

// --- map, alerts, permission, position ---

type animation struct {
	region   domain.Region
	duration time.Duration
}

type recordingMap struct {
	mu         sync.Mutex
	animations []animation
}

func (m *recordingMap) AnimateToRegion(r domain.Region, d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.animations = append(m.animations, animation{region: r, duration: d})
}

func (m *recordingMap) all() []animation {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]animation(nil), m.animations...)
}

type recordingAlerts struct {
	mu     sync.Mutex
	titles []string
}

func (a *recordingAlerts) Alert(title, _ string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.titles = append(a.titles, title)
}

func (a *recordingAlerts) all() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]string(nil), a.titles...)
}

type staticPermission struct {
	granted bool
	err     error
}

func (s staticPermission) LocationPermission(context.Context) (bool, error) {
	return s.granted, s.err
}

type fakePosition struct {
	coordinate domain.Coordinate
	err        error
	gotOpts    picker.PositionOptions
}

func (f *fakePosition) CurrentPosition(_ context.Context, opts picker.PositionOptions) (domain.Coordinate, error) {
	f.gotOpts = opts
	return f.coordinate, f.err
}

var errUpstream = errors.New("upstream unavailable")

// --- harness ---

var (
	jaipur    = domain.Coordinate{Latitude: 26.9124, Longitude: 75.7873}
	bengaluru = domain.Coordinate{Latitude: 12.9716, Longitude: 77.5946}
)

func jaipurPlace() domain.Place {
	return domain.Place{
		DisplayName: "MG Road, Jaipur, Rajasthan, 302001, India",
		Address: domain.AddressParts{
			Road:     "MG Road",
			City:     "Jaipur",
			State:    "Rajasthan",
			Postcode: "302001",
			Country:  "India",
		},
	}
}

type harness struct {
	picker   *picker.Picker
	host     *recordingHost
	geocoder *fakeGeocoder
	mapView  *recordingMap
	alerts   *recordingAlerts
	position *fakePosition
	clock    fakeClock
}

// fakeClock is the part of clockwork's fake clock the tests drive.
type fakeClock interface {
	clockwork.Clock
	Advance(d time.Duration)
}

type harnessOption func(*picker.Config)

func withAddress(a string) harnessOption {
	return func(c *picker.Config) { c.Address = a }
}

func withPermission(granted bool) harnessOption {
	return func(c *picker.Config) { c.Permission = staticPermission{granted: granted} }
}

func newHarness(t *testing.T, geo *fakeGeocoder, opts ...harnessOption) *harness {
	t.Helper()
	h := &harness{
		host:     &recordingHost{},
		geocoder: geo,
		mapView:  &recordingMap{},
		alerts:   &recordingAlerts{},
		position: &fakePosition{},
		clock:    clockwork.NewFakeClock(),
	}
	cfg := picker.Config{
		Coordinate: jaipur,
		Address:    "Somewhere in Jaipur",
		Geocoder:   geo,
		Host:       h.host,
		Map:        h.mapView,
		Alerts:     h.alerts,
		Permission: staticPermission{granted: true},
		Position:   h.position,
		Clock:      h.clock,
		Logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
		Metrics:    observability.NewMetricsForTesting(),
	}
	for _, o := range opts {
		o(&cfg)
	}

	p, err := picker.New(cfg)
	require.NoError(t, err)
	t.Cleanup(p.Close)
	h.picker = p
	return h
}

// settle waits for every in-flight lookup to finish.
func (h *harness) settle() {
	h.picker.Wait()
}
