// Package geo adapts device location and map capabilities to plain Go calls.
//
// The device itself (GPS, native location picker, native map view, in-app
// page navigation) is reached through a Host. Gateway adds the application's
// rules on top: picker results must carry a name and an address, map calls are
// skipped for empty marker sets, and host failures are logged before they are
// returned.
package geo

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/pkordes/itinerary/internal/domain"
	"github.com/pkordes/itinerary/internal/metrics"
)

// Defaults used by NewGateway.
const (
	DefaultCoordinateType = "gcj02"
	DefaultScale          = 14
	DefaultMapPage        = "/pages/map/map"
)

// Host is the device capability surface the gateway drives.
// Implementations block until the device settles the request or ctx is done.
type Host interface {
	// GetLocation returns the device's current position in the coordinate
	// system named by coordType (e.g. "wgs84", "gcj02").
	GetLocation(ctx context.Context, coordType string) (domain.Position, error)

	// ChooseLocation opens the native location picker and returns what the
	// user selected, unvalidated.
	ChooseLocation(ctx context.Context) (domain.PickedLocation, error)

	// OpenLocation opens the native map view on a single point.
	OpenLocation(ctx context.Context, req domain.OpenLocationRequest) error

	// NavigateTo moves the app to the page at url.
	NavigateTo(ctx context.Context, url string) error
}

// Gateway wraps a Host with the application's location and map rules.
type Gateway struct {
	host      Host
	coordType string
	scale     int
	mapPage   string
	log       *slog.Logger
	metrics   *metrics.Metrics
}

// Option configures a Gateway.
type Option func(*Gateway)

// WithCoordinateType sets the coordinate system requested from the host.
func WithCoordinateType(coordType string) Option {
	return func(g *Gateway) { g.coordType = coordType }
}

// WithScale sets the zoom level used when opening the native map view.
func WithScale(scale int) Option {
	return func(g *Gateway) { g.scale = scale }
}

// WithMapPage sets the in-app page that renders a set of markers.
func WithMapPage(page string) Option {
	return func(g *Gateway) { g.mapPage = page }
}

// WithLogger sets the logger used to report host failures.
func WithLogger(log *slog.Logger) Option {
	return func(g *Gateway) { g.log = log }
}

// WithMetrics records per-call outcomes on m.
func WithMetrics(m *metrics.Metrics) Option {
	return func(g *Gateway) { g.metrics = m }
}

// NewGateway constructs a Gateway over host.
func NewGateway(host Host, opts ...Option) *Gateway {
	g := &Gateway{
		host:      host,
		coordType: DefaultCoordinateType,
		scale:     DefaultScale,
		mapPage:   DefaultMapPage,
		log:       slog.Default(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// CurrentLocation returns the device's current position as reported by the host.
func (g *Gateway) CurrentLocation(ctx context.Context) (domain.Position, error) {
	pos, err := g.host.GetLocation(ctx, g.coordType)
	g.metrics.ObserveGateway("current_location", err)
	if err != nil {
		g.log.ErrorContext(ctx, "get current location failed", "coord_type", g.coordType, "error", err)
		return domain.Position{}, fmt.Errorf("geo.Gateway.CurrentLocation: %w", err)
	}
	return pos, nil
}

// PickLocation opens the host picker. The selection is accepted only when it
// carries both a name and an address; otherwise domain.ErrNoValidLocation is
// returned.
func (g *Gateway) PickLocation(ctx context.Context) (domain.PickedLocation, error) {
	picked, err := g.host.ChooseLocation(ctx)
	if err != nil {
		g.metrics.ObserveGateway("pick_location", err)
		g.log.ErrorContext(ctx, "choose location failed", "error", err)
		return domain.PickedLocation{}, fmt.Errorf("geo.Gateway.PickLocation: %w", err)
	}
	if picked.Name == "" || picked.Address == "" {
		g.metrics.ObserveGateway("pick_location", domain.ErrNoValidLocation)
		return domain.PickedLocation{}, domain.ErrNoValidLocation
	}
	g.metrics.ObserveGateway("pick_location", nil)
	return domain.PickedLocation{
		Name:      picked.Name,
		Address:   picked.Address,
		Latitude:  picked.Latitude,
		Longitude: picked.Longitude,
	}, nil
}

// OpenMapWithMarkers opens the native map view anchored on the first marker.
// Nothing happens for an empty slice. Host failures are logged, not returned.
func (g *Gateway) OpenMapWithMarkers(ctx context.Context, markers []domain.Marker) {
	if len(markers) == 0 {
		return
	}
	first := markers[0]
	err := g.host.OpenLocation(ctx, domain.OpenLocationRequest{
		Latitude:  first.Latitude,
		Longitude: first.Longitude,
		Name:      first.Name,
		Address:   first.Address,
		Scale:     g.scale,
	})
	g.metrics.ObserveGateway("open_map", err)
	if err != nil {
		g.log.ErrorContext(ctx, "open map failed", "marker", first.Name, "error", err)
	}
}

// NavigateToMapOverview moves the app to the map page with every marker
// encoded into the page URL. Nothing happens for an empty slice. Encoding and
// host failures are logged, not returned.
func (g *Gateway) NavigateToMapOverview(ctx context.Context, markers []domain.Marker) {
	if len(markers) == 0 {
		return
	}
	target, err := g.MapPageURL(markers)
	if err != nil {
		g.log.ErrorContext(ctx, "encode map markers failed", "error", err)
		return
	}
	err = g.host.NavigateTo(ctx, target)
	g.metrics.ObserveGateway("navigate_map", err)
	if err != nil {
		g.log.ErrorContext(ctx, "navigate to map page failed", "url", target, "error", err)
	}
}

// MapPageURL returns the map page address with markers as a URL-encoded JSON
// array in the "markers" query parameter.
func (g *Gateway) MapPageURL(markers []domain.Marker) (string, error) {
	b, err := json.Marshal(markers)
	if err != nil {
		return "", fmt.Errorf("geo.Gateway.MapPageURL: %w", err)
	}
	sep := "?"
	if strings.Contains(g.mapPage, "?") {
		sep = "&"
	}
	return g.mapPage + sep + "markers=" + encodeURIComponent(string(b)), nil
}

// encodeURIComponent escapes s so that both url.QueryUnescape and a browser's
// decodeURIComponent recover it; spaces become %20 rather than "+".
func encodeURIComponent(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}

// Centroid returns the arithmetic mean of the markers' coordinates.
// ok is false for an empty slice.
func Centroid(markers []domain.Marker) (lat, lng float64, ok bool) {
	if len(markers) == 0 {
		return 0, 0, false
	}
	for _, m := range markers {
		lat += m.Latitude
		lng += m.Longitude
	}
	n := float64(len(markers))
	return lat / n, lng / n, true
}
