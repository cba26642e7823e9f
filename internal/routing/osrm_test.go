package routing

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/outpost-labs/outpost-backend/internal/geo"
)

func TestDrivingRoute(t *testing.T) {
	var gotPath atomic.Value

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath.Store(r.URL.Path)
		assert.Equal(t, "full", r.URL.Query().Get("overview"))
		assert.Equal(t, "geojson", r.URL.Query().Get("geometries"))

		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"routes":[{"geometry":{"coordinates":[[21.01,52.23],[21.05,52.20],[19.94,50.06]]}}]}`)
	}))
	defer server.Close()

	client := NewClient(server.URL, 5*time.Second)
	path, err := client.DrivingRoute(context.Background(),
		geo.Coordinates{Lat: 52.23, Lon: 21.01},
		geo.Coordinates{Lat: 50.06, Lon: 19.94},
	)
	require.NoError(t, err)

	// GeoJSON pairs arrive lon-first and must be flipped.
	require.Len(t, path, 3)
	assert.Equal(t, geo.Coordinates{Lat: 52.23, Lon: 21.01}, path[0])
	assert.Equal(t, geo.Coordinates{Lat: 50.06, Lon: 19.94}, path[2])

	// Waypoints are sent lon,lat in the request path.
	assert.Equal(t, "/route/v1/driving/21.010000,52.230000;19.940000,50.060000", gotPath.Load())
}

func TestDrivingRouteNoRoutes(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `{"routes":[]}`)
	}))
	defer server.Close()

	client := NewClient(server.URL, 5*time.Second)
	_, err := client.DrivingRoute(context.Background(), geo.Coordinates{}, geo.Coordinates{})
	assert.ErrorContains(t, err, "no routes")
}

func TestDrivingRouteRetriesServerErrors(t *testing.T) {
	var calls atomic.Int32

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		fmt.Fprint(w, `{"routes":[{"geometry":{"coordinates":[[19.0,52.0],[19.5,52.5]]}}]}`)
	}))
	defer server.Close()

	client := NewClient(server.URL, 5*time.Second)
	path, err := client.DrivingRoute(context.Background(), geo.Coordinates{}, geo.Coordinates{})
	require.NoError(t, err)
	assert.Len(t, path, 2)
	assert.Equal(t, int32(3), calls.Load())
}

func TestDrivingRouteDoesNotRetryClientErrors(t *testing.T) {
	var calls atomic.Int32

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer server.Close()

	client := NewClient(server.URL, 5*time.Second)
	_, err := client.DrivingRoute(context.Background(), geo.Coordinates{}, geo.Coordinates{})
	require.Error(t, err)
	assert.Equal(t, int32(1), calls.Load())
}

func TestDrivingRouteHonorsContext(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	client := NewClient(server.URL, 5*time.Second)
	_, err := client.DrivingRoute(ctx, geo.Coordinates{}, geo.Coordinates{})
	assert.ErrorIs(t, err, context.Canceled)
}
