package geo_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/itinerary/internal/domain"
	"github.com/pkordes/itinerary/internal/geo"
)

// newBridge starts a fake device bridge backed by handler and returns a
// BridgeHost pointed at it. The server is closed when the test finishes.
func newBridge(t *testing.T, handler http.HandlerFunc) *geo.BridgeHost {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(func() {
		srv.CloseClientConnections()
		srv.Close()
	})
	client := srv.Client()
	t.Cleanup(client.CloseIdleConnections)
	return geo.NewBridgeHost(srv.URL+"/", client)
}

func TestBridgeHost_GetLocation(t *testing.T) {
	var (
		mu      sync.Mutex
		gotBody map[string]string
	)
	host := newBridge(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/location", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		mu.Lock()
		defer mu.Unlock()
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		_, _ = w.Write([]byte(`{"latitude":35.66,"longitude":139.70,"accuracy":12}`))
	})

	pos, err := host.GetLocation(context.Background(), "gcj02")

	require.NoError(t, err)
	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, "gcj02", gotBody["type"])
	assert.Equal(t, domain.Position{Latitude: 35.66, Longitude: 139.70, Accuracy: 12}, pos)
}

func TestBridgeHost_ChooseLocation(t *testing.T) {
	host := newBridge(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/location/choose", r.URL.Path)
		_, _ = w.Write([]byte(`{"name":"Tokyo Tower","address":"Minato City","latitude":35.6586,"longitude":139.7454}`))
	})

	got, err := host.ChooseLocation(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "Tokyo Tower", got.Name)
	assert.Equal(t, "Minato City", got.Address)
}

func TestBridgeHost_OpenLocationAndNavigate(t *testing.T) {
	var (
		mu        sync.Mutex
		paths     []string
		navigated map[string]string
	)
	host := newBridge(t, func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		defer mu.Unlock()
		paths = append(paths, r.URL.Path)
		if r.URL.Path == "/navigate" {
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&navigated))
		}
		w.WriteHeader(http.StatusNoContent)
	})
	ctx := context.Background()

	require.NoError(t, host.OpenLocation(ctx, domain.OpenLocationRequest{Latitude: 1, Longitude: 2, Scale: 14}))
	require.NoError(t, host.NavigateTo(ctx, "/pages/map/map?markers=%5B%5D"))

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{"/map/open", "/navigate"}, paths)
	assert.Equal(t, "/pages/map/map?markers=%5B%5D", navigated["url"])
}

func TestBridgeHost_ErrorStatus(t *testing.T) {
	host := newBridge(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"errMsg":"getLocation:fail auth deny"}`))
	})

	_, err := host.GetLocation(context.Background(), "gcj02")

	var bridgeErr *geo.BridgeError
	require.True(t, errors.As(err, &bridgeErr))
	assert.Equal(t, http.StatusForbidden, bridgeErr.Status)
	assert.Equal(t, "getLocation:fail auth deny", bridgeErr.Message)
}

func TestBridgeHost_ErrorStatusPlainText(t *testing.T) {
	host := newBridge(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bridge offline", http.StatusBadGateway)
	})

	err := host.NavigateTo(context.Background(), "/x")

	var bridgeErr *geo.BridgeError
	require.True(t, errors.As(err, &bridgeErr))
	assert.Equal(t, "bridge offline", bridgeErr.Message)
}

func TestBridgeHost_ContextCancelled(t *testing.T) {
	host := newBridge(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := host.ChooseLocation(ctx)

	assert.ErrorIs(t, err, context.Canceled)
}

func TestUnavailableHost(t *testing.T) {
	var h geo.UnavailableHost
	ctx := context.Background()

	_, err := h.GetLocation(ctx, "gcj02")
	assert.ErrorIs(t, err, domain.ErrHostUnavailable)
	_, err = h.ChooseLocation(ctx)
	assert.ErrorIs(t, err, domain.ErrHostUnavailable)
	assert.ErrorIs(t, h.OpenLocation(ctx, domain.OpenLocationRequest{}), domain.ErrHostUnavailable)
	assert.ErrorIs(t, h.NavigateTo(ctx, "/"), domain.ErrHostUnavailable)
}
