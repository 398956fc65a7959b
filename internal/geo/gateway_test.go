package geo_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/itinerary/internal/domain"
	"github.com/pkordes/itinerary/internal/geo"
)

// mockHost is a hand-written test double for geo.Host.
// Set only the function fields your test needs; calls are recorded.
type mockHost struct {
	getLocation    func(ctx context.Context, coordType string) (domain.Position, error)
	chooseLocation func(ctx context.Context) (domain.PickedLocation, error)
	openLocation   func(ctx context.Context, req domain.OpenLocationRequest) error
	navigateTo     func(ctx context.Context, url string) error

	opened    []domain.OpenLocationRequest
	navigated []string
}

func (m *mockHost) GetLocation(ctx context.Context, coordType string) (domain.Position, error) {
	return m.getLocation(ctx, coordType)
}
func (m *mockHost) ChooseLocation(ctx context.Context) (domain.PickedLocation, error) {
	return m.chooseLocation(ctx)
}
func (m *mockHost) OpenLocation(ctx context.Context, req domain.OpenLocationRequest) error {
	m.opened = append(m.opened, req)
	if m.openLocation == nil {
		return nil
	}
	return m.openLocation(ctx, req)
}
func (m *mockHost) NavigateTo(ctx context.Context, url string) error {
	m.navigated = append(m.navigated, url)
	if m.navigateTo == nil {
		return nil
	}
	return m.navigateTo(ctx, url)
}

// compile-time check: mockHost must satisfy geo.Host.
var _ geo.Host = (*mockHost)(nil)

func newTestGateway(host geo.Host, opts ...geo.Option) (*geo.Gateway, *bytes.Buffer) {
	var logs bytes.Buffer
	opts = append([]geo.Option{geo.WithLogger(slog.New(slog.NewJSONHandler(&logs, nil)))}, opts...)
	return geo.NewGateway(host, opts...), &logs
}

var (
	shibuya = domain.Marker{Name: "Shibuya", Address: "Shibuya City", Latitude: 35.66, Longitude: 139.70}
	asakusa = domain.Marker{Name: "Asakusa", Latitude: 35.71, Longitude: 139.80}
)

// ---- CurrentLocation -------------------------------------------------------

func TestGateway_CurrentLocation_RequestsConfiguredCoordinateType(t *testing.T) {
	var gotType string
	host := &mockHost{getLocation: func(_ context.Context, coordType string) (domain.Position, error) {
		gotType = coordType
		return domain.Position{Latitude: 35.66, Longitude: 139.70, Accuracy: 5}, nil
	}}
	g, _ := newTestGateway(host)

	pos, err := g.CurrentLocation(context.Background())

	require.NoError(t, err)
	assert.Equal(t, geo.DefaultCoordinateType, gotType)
	assert.Equal(t, domain.Position{Latitude: 35.66, Longitude: 139.70, Accuracy: 5}, pos)
}

func TestGateway_CurrentLocation_HostErrorLoggedAndReturned(t *testing.T) {
	denied := errors.New("getLocation:fail auth deny")
	host := &mockHost{getLocation: func(context.Context, string) (domain.Position, error) {
		return domain.Position{}, denied
	}}
	g, logs := newTestGateway(host, geo.WithCoordinateType("wgs84"))

	_, err := g.CurrentLocation(context.Background())

	assert.ErrorIs(t, err, denied)
	assert.Contains(t, logs.String(), "auth deny")
	assert.Contains(t, logs.String(), "wgs84")
}

// ---- PickLocation ----------------------------------------------------------

func TestGateway_PickLocation_Valid(t *testing.T) {
	host := &mockHost{chooseLocation: func(context.Context) (domain.PickedLocation, error) {
		return domain.PickedLocation{Name: "Shibuya Crossing", Address: "Shibuya City", Latitude: 35.66, Longitude: 139.70}, nil
	}}
	g, _ := newTestGateway(host)

	got, err := g.PickLocation(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "Shibuya Crossing", got.Name)
	assert.Equal(t, "Shibuya City", got.Address)
	assert.Equal(t, 35.66, got.Latitude)
}

func TestGateway_PickLocation_MissingNameOrAddress(t *testing.T) {
	tests := []struct {
		name   string
		picked domain.PickedLocation
	}{
		{"coordinates only", domain.PickedLocation{Latitude: 35.66, Longitude: 139.70}},
		{"no address", domain.PickedLocation{Name: "Shibuya"}},
		{"no name", domain.PickedLocation{Address: "Shibuya City"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			host := &mockHost{chooseLocation: func(context.Context) (domain.PickedLocation, error) {
				return tc.picked, nil
			}}
			g, _ := newTestGateway(host)

			_, err := g.PickLocation(context.Background())

			assert.ErrorIs(t, err, domain.ErrNoValidLocation)
		})
	}
}

func TestGateway_PickLocation_HostError(t *testing.T) {
	cancelled := errors.New("chooseLocation:fail cancel")
	host := &mockHost{chooseLocation: func(context.Context) (domain.PickedLocation, error) {
		return domain.PickedLocation{}, cancelled
	}}
	g, logs := newTestGateway(host)

	_, err := g.PickLocation(context.Background())

	assert.ErrorIs(t, err, cancelled)
	assert.NotErrorIs(t, err, domain.ErrNoValidLocation)
	assert.Contains(t, logs.String(), "choose location failed")
}

// ---- OpenMapWithMarkers ----------------------------------------------------

func TestGateway_OpenMapWithMarkers_Empty(t *testing.T) {
	host := &mockHost{}
	g, _ := newTestGateway(host)

	g.OpenMapWithMarkers(context.Background(), nil)

	assert.Empty(t, host.opened)
}

func TestGateway_OpenMapWithMarkers_AnchorsOnFirstMarker(t *testing.T) {
	host := &mockHost{}
	g, _ := newTestGateway(host)

	g.OpenMapWithMarkers(context.Background(), []domain.Marker{shibuya, asakusa})

	require.Len(t, host.opened, 1)
	assert.Equal(t, domain.OpenLocationRequest{
		Latitude:  35.66,
		Longitude: 139.70,
		Name:      "Shibuya",
		Address:   "Shibuya City",
		Scale:     geo.DefaultScale,
	}, host.opened[0])
}

func TestGateway_OpenMapWithMarkers_HostErrorLogged(t *testing.T) {
	host := &mockHost{openLocation: func(context.Context, domain.OpenLocationRequest) error {
		return errors.New("map app missing")
	}}
	g, logs := newTestGateway(host, geo.WithScale(16))

	g.OpenMapWithMarkers(context.Background(), []domain.Marker{asakusa})

	require.Len(t, host.opened, 1)
	assert.Equal(t, 16, host.opened[0].Scale)
	assert.Contains(t, logs.String(), "map app missing")
}

// ---- NavigateToMapOverview -------------------------------------------------

func TestGateway_NavigateToMapOverview_Empty(t *testing.T) {
	host := &mockHost{}
	g, _ := newTestGateway(host)

	g.NavigateToMapOverview(context.Background(), []domain.Marker{})

	assert.Empty(t, host.navigated)
}

func TestGateway_NavigateToMapOverview_EncodesMarkers(t *testing.T) {
	host := &mockHost{}
	g, _ := newTestGateway(host)

	g.NavigateToMapOverview(context.Background(), []domain.Marker{shibuya, asakusa})

	require.Len(t, host.navigated, 1)
	target := host.navigated[0]
	require.True(t, strings.HasPrefix(target, geo.DefaultMapPage+"?markers="), target)
	assert.NotContains(t, target, " ")
	assert.NotContains(t, target, "+")

	u, err := url.Parse(target)
	require.NoError(t, err)
	assert.JSONEq(t,
		`[{"name":"Shibuya","address":"Shibuya City","latitude":35.66,"longitude":139.7},
		  {"name":"Asakusa","latitude":35.71,"longitude":139.8}]`,
		u.Query().Get("markers"))
}

func TestGateway_NavigateToMapOverview_HostErrorLogged(t *testing.T) {
	host := &mockHost{navigateTo: func(context.Context, string) error { return errors.New("page stack full") }}
	g, logs := newTestGateway(host)

	g.NavigateToMapOverview(context.Background(), []domain.Marker{shibuya})

	assert.Contains(t, logs.String(), "page stack full")
}

func TestGateway_MapPageURL_CustomPageWithQuery(t *testing.T) {
	g, _ := newTestGateway(&mockHost{}, geo.WithMapPage("/pages/map/map?mode=day"))

	got, err := g.MapPageURL([]domain.Marker{asakusa})

	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(got, "/pages/map/map?mode=day&markers="), got)
}

// ---- Centroid --------------------------------------------------------------

func TestCentroid(t *testing.T) {
	lat, lng, ok := geo.Centroid([]domain.Marker{shibuya, asakusa})

	require.True(t, ok)
	assert.InDelta(t, 35.685, lat, 1e-9)
	assert.InDelta(t, 139.75, lng, 1e-9)

	_, _, ok = geo.Centroid(nil)
	assert.False(t, ok)
}
