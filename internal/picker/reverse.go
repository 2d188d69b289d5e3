package picker

import (
	"context"

	"github.com/couchcryptid/pg-locator/internal/domain"
)

// resolveAddress starts a reverse lookup for c. The first lookup to land
// after New uses the coarse address policy, since the seed coordinate is
// often a rough default; every later one uses full detail.
func (p *Picker) resolveAddress(c domain.Coordinate) {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.reverseSeq++
	seq := p.reverseSeq
	p.wg.Add(1)
	p.mu.Unlock()

	p.host.OnAddressFetchingChange(true)
	go func() {
		defer p.wg.Done()
		defer p.host.OnAddressFetchingChange(false)
		p.lookupAddress(p.ctx, seq, c)
	}()
}

func (p *Picker) lookupAddress(ctx context.Context, seq uint64, c domain.Coordinate) {
	place, err := p.geocoder.Reverse(ctx, c.Latitude, c.Longitude)
	if err != nil {
		if ctx.Err() == nil {
			p.logger.Warn("reverse geocoding failed",
				"lat", c.Latitude,
				"lon", c.Longitude,
				"error", err,
			)
		}
		return
	}

	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	if seq != p.reverseSeq {
		// A superseded lookup still counts as the first one to complete.
		p.initialLoad = false
		p.mu.Unlock()
		p.metrics.PickerStaleResponses.WithLabelValues("reverse").Inc()
		p.logger.Debug("dropping stale reverse geocoding response", "lat", c.Latitude, "lon", c.Longitude)
		return
	}
	detail := domain.DetailFull
	if p.initialLoad {
		detail = domain.DetailCoarse
		p.initialLoad = false
	}
	address := domain.FormatAddress(place, detail, p.hostAddress)
	p.mu.Unlock()

	p.host.OnAddressChange(address)
}
