// Package routing fetches driving paths from an OSRM instance for map
// display. It is a non-critical enhancement: callers fall back to a
// straight line on any failure and never let routing block other work.
package routing

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/outpost-labs/outpost-backend/internal/geo"
)

type Client struct {
	session *http.Client
	baseURL string
	profile string
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		session: &http.Client{Timeout: timeout},
		baseURL: strings.TrimRight(baseURL, "/"),
		profile: "driving",
	}
}

type httpStatusError struct {
	Code int
	Body string
}

func (e *httpStatusError) Error() string {
	return fmt.Sprintf("status %d: %s", e.Code, e.Body)
}

type osrmResponse struct {
	Routes []struct {
		Geometry struct {
			// GeoJSON order: [lon, lat].
			Coordinates [][]float64 `json:"coordinates"`
		} `json:"geometry"`
	} `json:"routes"`
}

// DrivingRoute returns the driving path from a to b as an ordered list of
// coordinates.
func (c *Client) DrivingRoute(ctx context.Context, from, to geo.Coordinates) ([]geo.Coordinates, error) {
	// OSRM expects lon,lat pairs in the path.
	url := fmt.Sprintf("%s/route/v1/%s/%f,%f;%f,%f?overview=full&geometries=geojson",
		c.baseURL, c.profile, from.Lon, from.Lat, to.Lon, to.Lat)

	resp, err := c.doWithRetry(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("DrivingRoute: %w", err)
	}
	defer resp.Body.Close()

	var parsed osrmResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("DrivingRoute: decode: %w", err)
	}
	if len(parsed.Routes) == 0 {
		return nil, errors.New("DrivingRoute: no routes returned")
	}

	coords := parsed.Routes[0].Geometry.Coordinates
	path := make([]geo.Coordinates, 0, len(coords))
	for _, c := range coords {
		if len(c) < 2 {
			continue
		}
		path = append(path, geo.Coordinates{Lat: c[1], Lon: c[0]})
	}
	if len(path) == 0 {
		return nil, errors.New("DrivingRoute: empty geometry")
	}
	return path, nil
}

func (c *Client) do(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.session.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= 400 {
		b, _ := io.ReadAll(resp.Body)
		resp.Body.Close()
		return nil, &httpStatusError{
			Code: resp.StatusCode,
			Body: strings.TrimSpace(string(b)),
		}
	}
	return resp, nil
}

// doWithRetry retries transient failures (network errors, 429/5xx) with
// exponential backoff while respecting context cancellation.
func (c *Client) doWithRetry(ctx context.Context, url string) (*http.Response, error) {
	const maxAttempts = 3
	backoff := 200 * time.Millisecond

	var lastErr error

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		resp, err := c.do(ctx, url)
		if err == nil {
			return resp, nil
		}
		lastErr = err

		retry := false
		var he *httpStatusError
		if errors.As(err, &he) {
			switch he.Code {
			case 429, 500, 502, 503, 504:
				retry = true
			}
		}

		var netErr net.Error
		if !retry && errors.As(err, &netErr) {
			retry = true
		}

		if !retry || attempt == maxAttempts {
			return nil, lastErr
		}

		timer := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}

		backoff *= 2
	}

	return nil, lastErr
}
