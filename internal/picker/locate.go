package picker

import (
	"context"
	"errors"

	"github.com/couchcryptid/pg-locator/internal/domain"
)

var errNoPositionProvider = errors.New("no position provider configured")

// LocateMe centers the picker on the device position. Missing permission and
// failed fixes are reported through Alerter; a failure leaves the region and
// coordinate as they were.
func (p *Picker) LocateMe() {
	p.goAsync(func(ctx context.Context) {
		if !p.permitted(ctx) {
			if ctx.Err() == nil {
				p.metrics.PickerLocate.WithLabelValues("denied").Inc()
				p.alert(PermissionAlertTitle, PermissionAlertMessage)
			}
			return
		}

		p.setLocating(true)
		c, err := p.currentPosition(ctx)
		if err != nil {
			p.setLocating(false)
			if ctx.Err() != nil {
				return
			}
			p.metrics.PickerLocate.WithLabelValues("failed").Inc()
			p.logger.Warn("device location failed", "error", err)
			p.alert(LocateAlertTitle, LocateAlertMessage)
			return
		}

		p.mu.Lock()
		if p.closed {
			p.mu.Unlock()
			return
		}
		p.region = domain.RegionAt(c, domain.TightSpan)
		p.lastKnown = c
		p.query = ""
		region := p.region
		snap := p.snapshotLocked()
		p.mu.Unlock()

		p.publish(snap)
		p.animate(region, FocusAnimation)
		p.host.OnCoordinatesChange(c)
		p.resolveAddress(c)
		p.setLocating(false)
		p.metrics.PickerLocate.WithLabelValues("success").Inc()
	})
}

func (p *Picker) currentPosition(ctx context.Context) (domain.Coordinate, error) {
	if p.position == nil {
		return domain.Coordinate{}, errNoPositionProvider
	}
	ctx, cancel := context.WithTimeout(ctx, PositionTimeout)
	defer cancel()

	c, err := p.position.CurrentPosition(ctx, PositionOptions{
		HighAccuracy: true,
		MaximumAge:   PositionMaxAge,
		Timeout:      PositionTimeout,
	})
	if err != nil {
		return domain.Coordinate{}, err
	}
	if err := c.Validate(); err != nil {
		return domain.Coordinate{}, err
	}
	return c, nil
}

func (p *Picker) setLocating(v bool) {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.locating = v
	snap := p.snapshotLocked()
	p.mu.Unlock()

	p.publish(snap)
}
