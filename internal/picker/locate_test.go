package picker_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/pg-locator/internal/domain"
	"github.com/couchcryptid/pg-locator/internal/picker"
)

func TestLocateMe_Success(t *testing.T) {
	geo := &fakeGeocoder{place: jaipurPlace()}
	h := newHarness(t, geo)
	h.position.coordinate = bengaluru

	h.picker.SelectResult(domain.SearchResult{ID: "1", DisplayName: "MG Road", Latitude: "26.9124", Longitude: "75.7873"})
	h.settle()

	h.picker.LocateMe()
	h.settle()

	assert.Equal(t, picker.PositionOptions{
		HighAccuracy: true,
		MaximumAge:   picker.PositionMaxAge,
		Timeout:      picker.PositionTimeout,
	}, h.position.gotOpts)

	want := domain.RegionAt(bengaluru, domain.TightSpan)
	snap := h.picker.Snapshot()
	assert.Equal(t, want, snap.Region)
	assert.Equal(t, bengaluru, snap.Coordinate)
	assert.Empty(t, snap.Query)
	assert.False(t, snap.Locating)

	anims := h.mapView.all()
	require.NotEmpty(t, anims)
	assert.Equal(t, animation{region: want, duration: picker.FocusAnimation}, anims[len(anims)-1])

	coords := h.host.coordinates()
	assert.Equal(t, bengaluru, coords[len(coords)-1])
	assert.Equal(t, 2, geo.reverseCount())
	assert.Empty(t, h.alerts.all())
}

func TestLocateMe_PositionFailure(t *testing.T) {
	geo := &fakeGeocoder{place: jaipurPlace()}
	h := newHarness(t, geo)
	h.position.err = errUpstream

	h.picker.LocateMe()
	h.settle()

	assert.Equal(t, []string{picker.LocateAlertTitle}, h.alerts.all())
	snap := h.picker.Snapshot()
	assert.Equal(t, domain.RegionAt(jaipur, domain.DefaultSpan), snap.Region)
	assert.False(t, snap.Locating)
	assert.Empty(t, h.host.all())
	assert.Equal(t, 0, geo.reverseCount())
}

func TestLocateMe_InvalidFixIsFailure(t *testing.T) {
	geo := &fakeGeocoder{}
	h := newHarness(t, geo)
	h.position.coordinate = domain.Coordinate{Latitude: 120, Longitude: 0}

	h.picker.LocateMe()
	h.settle()

	assert.Equal(t, []string{picker.LocateAlertTitle}, h.alerts.all())
	assert.Equal(t, jaipur, h.picker.Snapshot().Coordinate)
}

func TestLocateMe_PermissionDenied(t *testing.T) {
	geo := &fakeGeocoder{}
	h := newHarness(t, geo, withPermission(false))

	h.picker.LocateMe()
	h.settle()

	assert.Equal(t, []string{picker.PermissionAlertTitle}, h.alerts.all())
	assert.Equal(t, picker.PositionOptions{}, h.position.gotOpts, "position must not be requested")
	assert.False(t, h.picker.Snapshot().Locating)
}

func TestLocateMe_NoProvider(t *testing.T) {
	geo := &fakeGeocoder{}
	h := newHarness(t, geo, func(c *picker.Config) { c.Position = nil })

	h.picker.LocateMe()
	h.settle()

	assert.Equal(t, []string{picker.LocateAlertTitle}, h.alerts.all())
}
