package picker

import (
	"strings"

	"github.com/couchcryptid/pg-locator/internal/domain"
)

// SetSearchText records a keystroke. The text is stored immediately; the
// lookup runs SearchDebounce after the last call, so a burst of typing
// produces one search for the final text.
func (p *Picker) SetSearchText(text string) {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.query = text
	p.stopSearchTimerLocked()
	p.wg.Add(1)
	p.searchTimer = p.clock.AfterFunc(SearchDebounce, func() {
		defer p.wg.Done()
		p.runSearch(text)
	})
	snap := p.snapshotLocked()
	p.mu.Unlock()

	p.publish(snap)
}

// ClearSearch empties the search text and the result list.
func (p *Picker) ClearSearch() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.query = ""
	p.dropSearchLocked()
	snap := p.snapshotLocked()
	p.mu.Unlock()

	p.publish(snap)
}

// SelectResult moves the picker to a search result. Results whose position
// does not parse are ignored. The host gets the result's display name as the
// address right away; a reverse lookup for the point follows and may refine it.
func (p *Picker) SelectResult(r domain.SearchResult) {
	c, err := r.Coordinate()
	if err != nil {
		p.logger.Debug("ignoring search result without a usable position", "id", r.ID, "error", err)
		return
	}

	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.query = r.DisplayName
	p.dropSearchLocked()
	p.region = domain.RegionAt(c, domain.TightSpan)
	p.lastKnown = c
	region := p.region
	snap := p.snapshotLocked()
	p.mu.Unlock()

	p.publish(snap)
	p.animate(region, FocusAnimation)
	p.host.OnCoordinatesChange(c)
	p.host.OnAddressChange(r.DisplayName)
	p.resolveAddress(c)
}

// runSearch is the debounced body of SetSearchText.
func (p *Picker) runSearch(text string) {
	query := strings.TrimSpace(text)

	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.searchSeq++
	seq := p.searchSeq
	if query == "" {
		p.results = nil
		p.searching = false
		snap := p.snapshotLocked()
		p.mu.Unlock()

		p.metrics.PickerSearches.WithLabelValues("empty").Inc()
		p.publish(snap)
		return
	}
	p.searching = true
	snap := p.snapshotLocked()
	p.mu.Unlock()

	p.publish(snap)
	p.metrics.PickerSearches.WithLabelValues("issued").Inc()

	results, err := p.geocoder.Search(p.ctx, query, SearchLimit)

	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	if seq != p.searchSeq {
		p.mu.Unlock()
		p.metrics.PickerStaleResponses.WithLabelValues("search").Inc()
		p.logger.Debug("dropping stale search response", "query", query)
		return
	}
	if err != nil {
		p.results = nil
	} else {
		p.results = results
	}
	p.searching = false
	snap = p.snapshotLocked()
	p.mu.Unlock()

	if err != nil {
		p.metrics.PickerSearches.WithLabelValues("failed").Inc()
		p.logger.Warn("address search failed", "query", query, "error", err)
	}
	p.publish(snap)
}

// dropSearchLocked clears results, cancels the pending search and orphans any
// search in flight.
func (p *Picker) dropSearchLocked() {
	p.stopSearchTimerLocked()
	p.searchSeq++
	p.results = nil
	p.searching = false
}

func (p *Picker) stopSearchTimerLocked() {
	if p.searchTimer == nil {
		return
	}
	// A timer that already fired owns its own wg.Done.
	if p.searchTimer.Stop() {
		p.wg.Done()
	}
	p.searchTimer = nil
}
