// Package device provides location permission and position sources for hosts
// without a real location service, such as the terminal picker and tests.
package device

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/couchcryptid/pg-locator/internal/domain"
	"github.com/couchcryptid/pg-locator/internal/picker"
)

// ErrPositionTimeout is returned when a fix takes longer than the request allows.
var ErrPositionTimeout = errors.New("position request timed out")

// Permission is a location permission that can be flipped at runtime.
type Permission struct {
	granted atomic.Bool
}

// NewPermission returns a permission in the given state.
func NewPermission(granted bool) *Permission {
	p := &Permission{}
	p.granted.Store(granted)
	return p
}

// Set grants or revokes the permission.
func (p *Permission) Set(granted bool) {
	p.granted.Store(granted)
}

// Granted reports the current state.
func (p *Permission) Granted() bool {
	return p.granted.Load()
}

// LocationPermission implements picker.PermissionProvider.
func (p *Permission) LocationPermission(ctx context.Context) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	return p.granted.Load(), nil
}

// Fixed reports a configured coordinate as the device position after an
// optional simulated acquisition delay.
type Fixed struct {
	clock   clockwork.Clock
	latency time.Duration

	mu         sync.Mutex
	coordinate domain.Coordinate
	lastFix    time.Time
	err        error
}

// NewFixed returns a provider at c. A nil clock uses the real clock.
func NewFixed(c domain.Coordinate, latency time.Duration, clock clockwork.Clock) (*Fixed, error) {
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("fixed position: %w", err)
	}
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Fixed{clock: clock, latency: latency, coordinate: c}, nil
}

// Move changes the reported position. Cached fixes are discarded.
func (f *Fixed) Move(c domain.Coordinate) error {
	if err := c.Validate(); err != nil {
		return err
	}
	f.mu.Lock()
	f.coordinate = c
	f.lastFix = time.Time{}
	f.mu.Unlock()
	return nil
}

// Fail makes every following request return err until Fail(nil).
func (f *Fixed) Fail(err error) {
	f.mu.Lock()
	f.err = err
	f.mu.Unlock()
}

// CurrentPosition implements picker.PositionProvider. A fix younger than
// opts.MaximumAge is returned without delay; otherwise the provider waits for
// its latency, bounded by opts.Timeout and ctx.
func (f *Fixed) CurrentPosition(ctx context.Context, opts picker.PositionOptions) (domain.Coordinate, error) {
	f.mu.Lock()
	c, err, lastFix := f.coordinate, f.err, f.lastFix
	f.mu.Unlock()

	if err != nil {
		return domain.Coordinate{}, err
	}
	now := f.clock.Now()
	if !lastFix.IsZero() && opts.MaximumAge > 0 && now.Sub(lastFix) <= opts.MaximumAge {
		return c, nil
	}

	if f.latency > 0 {
		if opts.Timeout > 0 && f.latency > opts.Timeout {
			if err := f.sleep(ctx, opts.Timeout); err != nil {
				return domain.Coordinate{}, err
			}
			return domain.Coordinate{}, ErrPositionTimeout
		}
		if err := f.sleep(ctx, f.latency); err != nil {
			return domain.Coordinate{}, err
		}
	}

	f.mu.Lock()
	f.lastFix = f.clock.Now()
	f.mu.Unlock()
	return c, nil
}

func (f *Fixed) sleep(ctx context.Context, d time.Duration) error {
	t := f.clock.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.Chan():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
