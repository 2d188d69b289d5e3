package picker

import (
	"context"

	"github.com/couchcryptid/pg-locator/internal/domain"
)

// SetCoordinates feeds the host's current coordinate into the picker. Call it
// whenever the host value may have changed; echoes of a coordinate the picker
// just proposed fall under HostMoveThreshold and only recenter the region.
func (p *Picker) SetCoordinates(c domain.Coordinate) {
	if err := c.Validate(); err != nil {
		p.logger.Warn("ignoring invalid host coordinate", "error", err)
		return
	}

	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	significant := c.MovedBeyond(p.lastKnown, HostMoveThreshold)
	if significant {
		p.region = domain.RegionAt(c, domain.DefaultSpan)
	} else {
		p.region = p.region.Recenter(c)
	}
	p.lastKnown = c
	region := p.region
	snap := p.snapshotLocked()
	p.mu.Unlock()

	p.publish(snap)
	if !significant {
		return
	}
	p.animate(region, HostMoveAnimation)
	p.resolveAddress(c)
}

// RegionChangeComplete handles a map move finished by the person (not one
// started by AnimateToRegion). Without location permission the move is
// discarded and an alert shown. Moves within DragMoveThreshold are ignored.
func (p *Picker) RegionChangeComplete(r domain.Region) {
	c := r.Center()
	if err := c.Validate(); err != nil {
		p.logger.Warn("ignoring invalid map region", "error", err)
		return
	}

	p.goAsync(func(ctx context.Context) {
		if !p.permitted(ctx) {
			if ctx.Err() == nil {
				p.alert(PermissionAlertTitle, PermissionAlertMessage)
			}
			return
		}

		p.mu.Lock()
		if p.closed || !c.MovedBeyond(p.lastKnown, DragMoveThreshold) {
			p.mu.Unlock()
			return
		}
		p.region = r
		p.lastKnown = c
		p.query = ""
		snap := p.snapshotLocked()
		p.mu.Unlock()

		p.publish(snap)
		p.host.OnCoordinatesChange(c)
		p.resolveAddress(c)
	})
}
