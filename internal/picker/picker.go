package picker

import (
	"context"
	"errors"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"github.com/couchcryptid/pg-locator/internal/domain"
	"github.com/couchcryptid/pg-locator/internal/observability"
)

// Thresholds, in degrees, for treating a coordinate change as a real move.
// Host updates can be exact echoes or float noise; drags need to be more
// sensitive so small deliberate moves are kept.
const (
	HostMoveThreshold = 0.001
	DragMoveThreshold = 0.0005
)

// Timings.
const (
	SearchDebounce    = 400 * time.Millisecond
	HostMoveAnimation = 500 * time.Millisecond
	FocusAnimation    = 350 * time.Millisecond
	PositionMaxAge    = 10 * time.Second
	PositionTimeout   = 15 * time.Second
)

// SearchLimit is the number of results requested per search.
const SearchLimit = 5

// Config wires a Picker to its collaborators. Geocoder and Host are required.
type Config struct {
	// Coordinate and Address seed the picker from the host.
	Coordinate domain.Coordinate
	Address    string

	Geocoder domain.Geocoder
	Host     Host

	Map        MapView            // optional
	Alerts     Alerter            // optional
	Permission PermissionProvider // nil means location permission is always granted
	Position   PositionProvider   // nil makes LocateMe fail

	Clock   clockwork.Clock        // defaults to the real clock
	Logger  *slog.Logger           // defaults to slog.Default()
	Metrics *observability.Metrics // defaults to unregistered metrics

	// OnStateChange, when set, receives a snapshot after every state change.
	OnStateChange func(Snapshot)
}

// Snapshot is a copy of the picker's display state.
type Snapshot struct {
	Region     domain.Region
	Coordinate domain.Coordinate // last committed coordinate
	Query      string
	Results    []domain.SearchResult
	Searching  bool
	Locating   bool
}

// Picker is the location picker state machine. All methods are safe for
// concurrent use and return without waiting on the network.
type Picker struct {
	geocoder   domain.Geocoder
	host       Host
	mapView    MapView
	alerts     Alerter
	permission PermissionProvider
	position   PositionProvider
	clock      clockwork.Clock
	logger     *slog.Logger
	metrics    *observability.Metrics
	onState    func(Snapshot)

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu          sync.Mutex
	closed      bool
	region      domain.Region
	lastKnown   domain.Coordinate
	hostAddress string
	initialLoad bool
	query       string
	results     []domain.SearchResult
	searching   bool
	locating    bool
	searchTimer clockwork.Timer
	searchSeq   uint64
	reverseSeq  uint64
}

// New creates a picker centered on cfg.Coordinate. When cfg.Address is empty
// it immediately starts a reverse lookup for that coordinate.
func New(cfg Config) (*Picker, error) {
	if cfg.Geocoder == nil {
		return nil, errors.New("picker: geocoder is required")
	}
	if cfg.Host == nil {
		return nil, errors.New("picker: host is required")
	}
	if err := cfg.Coordinate.Validate(); err != nil {
		return nil, err
	}
	if cfg.Clock == nil {
		cfg.Clock = clockwork.NewRealClock()
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Metrics == nil {
		cfg.Metrics = observability.NewMetricsForTesting()
	}

	ctx, cancel := context.WithCancel(context.Background())
	p := &Picker{
		geocoder:    cfg.Geocoder,
		host:        cfg.Host,
		mapView:     cfg.Map,
		alerts:      cfg.Alerts,
		permission:  cfg.Permission,
		position:    cfg.Position,
		clock:       cfg.Clock,
		logger:      cfg.Logger.With("picker_id", uuid.NewString()),
		metrics:     cfg.Metrics,
		onState:     cfg.OnStateChange,
		ctx:         ctx,
		cancel:      cancel,
		region:      domain.RegionAt(cfg.Coordinate, domain.DefaultSpan),
		lastKnown:   cfg.Coordinate,
		hostAddress: cfg.Address,
		initialLoad: true,
	}

	if cfg.Address == "" {
		p.resolveAddress(cfg.Coordinate)
	}
	return p, nil
}

// Snapshot returns the current display state.
func (p *Picker) Snapshot() Snapshot {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.snapshotLocked()
}

// SetAddress records the address the host currently holds. It is only used
// as the last fallback when a reverse lookup yields nothing printable.
func (p *Picker) SetAddress(address string) {
	p.mu.Lock()
	p.hostAddress = address
	p.mu.Unlock()
}

// Wait blocks until every scheduled search and in-flight lookup has settled.
// With a fake clock, advance past SearchDebounce first.
func (p *Picker) Wait() {
	p.wg.Wait()
}

// Close cancels the pending search, cancels in-flight lookups and waits for
// them to return. No Host method is called after Close returns. Close must
// not be called from inside a Host callback.
func (p *Picker) Close() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	p.stopSearchTimerLocked()
	p.mu.Unlock()

	p.cancel()
	p.wg.Wait()
}

func (p *Picker) snapshotLocked() Snapshot {
	return Snapshot{
		Region:     p.region,
		Coordinate: p.lastKnown,
		Query:      p.query,
		Results:    slices.Clone(p.results),
		Searching:  p.searching,
		Locating:   p.locating,
	}
}

// publish hands a snapshot to the state listener. Call without holding mu.
func (p *Picker) publish(s Snapshot) {
	if p.onState != nil {
		p.onState(s)
	}
}

func (p *Picker) animate(r domain.Region, d time.Duration) {
	if p.mapView != nil {
		p.mapView.AnimateToRegion(r, d)
	}
}

func (p *Picker) alert(title, message string) {
	if p.alerts != nil {
		p.alerts.Alert(title, message)
	}
}

// goAsync runs fn on a tracked goroutine unless the picker is closed.
func (p *Picker) goAsync(fn func(ctx context.Context)) {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.wg.Add(1)
	p.mu.Unlock()

	go func() {
		defer p.wg.Done()
		fn(p.ctx)
	}()
}

// permitted reports whether location permission is granted. Errors count as denial.
func (p *Picker) permitted(ctx context.Context) bool {
	if p.permission == nil {
		return true
	}
	ok, err := p.permission.LocationPermission(ctx)
	if err != nil {
		p.logger.Warn("location permission check failed", "error", err)
		return false
	}
	return ok
}
