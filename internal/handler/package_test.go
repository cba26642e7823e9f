package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/outpost-labs/outpost-backend/internal/auth"
	"github.com/outpost-labs/outpost-backend/internal/domain"
	"github.com/outpost-labs/outpost-backend/internal/geo"
	"github.com/outpost-labs/outpost-backend/internal/service"
)

type mockPackageService struct {
	pkg      *domain.Package
	price    decimal.Decimal
	sent     []domain.Package
	received []domain.Package
	assigned []domain.Package
	track    *service.TrackResult
	route    *service.RouteResult
	err      error

	collectedCode string
}

func (m *mockPackageService) Create(_ context.Context, _ int64, _ service.CreatePackageParams) (*domain.Package, decimal.Decimal, error) {
	return m.pkg, m.price, m.err
}

func (m *mockPackageService) Quote(_ context.Context, _ domain.PackageSize, _, _ string) (decimal.Decimal, error) {
	return m.price, m.err
}

func (m *mockPackageService) ListSent(_ context.Context, _ int64) ([]domain.Package, error) {
	return m.sent, m.err
}

func (m *mockPackageService) ListReceived(_ context.Context, _ string) ([]domain.Package, error) {
	return m.received, m.err
}

func (m *mockPackageService) ListForCourier(_ context.Context, _ int64) ([]domain.Package, error) {
	return m.assigned, m.err
}

func (m *mockPackageService) Advance(_ context.Context, _, _ int64, _ domain.PackageStatus) (*domain.Package, error) {
	return m.pkg, m.err
}

func (m *mockPackageService) Collect(_ context.Context, _, pickupCode string) (*domain.Package, error) {
	m.collectedCode = pickupCode
	return m.pkg, m.err
}

func (m *mockPackageService) Track(_ context.Context, _ string) (*service.TrackResult, error) {
	return m.track, m.err
}

func (m *mockPackageService) Route(_ context.Context, _, _ int64) (*service.RouteResult, error) {
	return m.route, m.err
}

func clientRequest(method, target, body string) *http.Request {
	return authedRequest(method, target, body, &auth.Claims{
		UserID: 1, Email: "client@test.com", Role: domain.RoleClient,
	})
}

func courierRequest(method, target, body string) *http.Request {
	return authedRequest(method, target, body, &auth.Claims{
		UserID: 77, Email: "courier@test.com", Role: domain.RoleCourier,
	})
}

func authedRequest(method, target, body string, claims *auth.Claims) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	return req.WithContext(auth.ContextWithClaims(req.Context(), claims))
}

func testPackage(status domain.PackageStatus) *domain.Package {
	dest := "KRK-01"
	return &domain.Package{
		ID:                  5,
		TrackingNumber:      "OP123456",
		PickupCode:          "4321",
		SenderID:            1,
		ReceiverEmail:       "client@test.com",
		LockerID:            "WAW-01",
		DestinationLockerID: &dest,
		Size:                domain.SizeSmall,
		Status:              status,
	}
}

func TestCreatePackage(t *testing.T) {
	validBody := `{"receiver_email":"client@test.com","size":"S","source_locker_id":"WAW-01","destination_locker_id":"KRK-01"}`

	tests := []struct {
		name       string
		body       string
		svcErr     error
		wantStatus int
		wantCode   string
	}{
		{
			name:       "created",
			body:       validBody,
			wantStatus: http.StatusCreated,
		},
		{
			name:       "invalid JSON",
			body:       "not-json",
			wantStatus: http.StatusBadRequest,
			wantCode:   "INVALID_REQUEST",
		},
		{
			name:       "missing fields",
			body:       `{"size":"S"}`,
			wantStatus: http.StatusBadRequest,
			wantCode:   "VALIDATION_FAILED",
		},
		{
			name:       "same locker",
			body:       validBody,
			svcErr:     fmt.Errorf("Create: %w", domain.ErrSameLocker),
			wantStatus: http.StatusUnprocessableEntity,
			wantCode:   "SAME_LOCKER",
		},
		{
			name:       "unknown receiver",
			body:       validBody,
			svcErr:     fmt.Errorf("Create: %w", domain.ErrReceiverNotFound),
			wantStatus: http.StatusUnprocessableEntity,
			wantCode:   "RECEIVER_NOT_FOUND",
		},
		{
			name:       "unknown locker",
			body:       validBody,
			svcErr:     fmt.Errorf("Create: %w", domain.ErrLockerNotFound),
			wantStatus: http.StatusUnprocessableEntity,
			wantCode:   "LOCKER_NOT_FOUND",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			svc := &mockPackageService{
				pkg:   testPackage(domain.StatusCreated),
				price: decimal.RequireFromString("42.59"),
				err:   tc.svcErr,
			}
			h := NewPackageHandler(svc)

			rr := httptest.NewRecorder()
			h.Create(rr, clientRequest(http.MethodPost, "/packages", tc.body))

			assert.Equal(t, tc.wantStatus, rr.Code)

			var resp APIResponse
			require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))

			if tc.wantCode == "" {
				assert.True(t, resp.Success)
			} else {
				assert.False(t, resp.Success)
				require.NotNil(t, resp.Error)
				assert.Equal(t, tc.wantCode, resp.Error.Code)
			}
		})
	}
}

func TestCreatePackage_ResponseShape(t *testing.T) {
	svc := &mockPackageService{
		pkg:   testPackage(domain.StatusCreated),
		price: decimal.RequireFromString("42.59"),
	}
	h := NewPackageHandler(svc)

	rr := httptest.NewRecorder()
	body := `{"receiver_email":"client@test.com","size":"S","source_locker_id":"WAW-01","destination_locker_id":"KRK-01"}`
	h.Create(rr, clientRequest(http.MethodPost, "/packages", body))

	require.Equal(t, http.StatusCreated, rr.Code)

	var resp struct {
		Data createPackageResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "OP123456", resp.Data.Package.TrackingNumber)
	assert.Equal(t, "4321", resp.Data.Package.PickupCode)
	assert.Equal(t, "42.59", resp.Data.Price)
	assert.Equal(t, "PLN", resp.Data.Currency)
}

func TestListPackagesByRole(t *testing.T) {
	svc := &mockPackageService{
		sent: []domain.Package{*testPackage(domain.StatusCreated)},
		received: []domain.Package{
			*testPackage(domain.StatusDelivered),
			*testPackage(domain.StatusCollected),
		},
		assigned: []domain.Package{
			*testPackage(domain.StatusCreated),
			*testPackage(domain.StatusInTransit),
		},
	}
	h := NewPackageHandler(svc)

	t.Run("client view", func(t *testing.T) {
		rr := httptest.NewRecorder()
		h.List(rr, clientRequest(http.MethodGet, "/packages", ""))

		require.Equal(t, http.StatusOK, rr.Code)

		var resp struct {
			Data clientPackagesResponse `json:"data"`
		}
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
		assert.Len(t, resp.Data.Sent, 1)
		assert.Len(t, resp.Data.Received, 2)
		assert.Equal(t, 1, resp.Data.ReadyToPickup)
	})

	t.Run("courier view", func(t *testing.T) {
		rr := httptest.NewRecorder()
		h.List(rr, courierRequest(http.MethodGet, "/packages", ""))

		require.Equal(t, http.StatusOK, rr.Code)

		var resp struct {
			Data courierPackagesResponse `json:"data"`
		}
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
		assert.Len(t, resp.Data.Assigned, 2)
	})

	t.Run("status filter", func(t *testing.T) {
		rr := httptest.NewRecorder()
		h.List(rr, courierRequest(http.MethodGet, "/packages?status=in_transit", ""))

		require.Equal(t, http.StatusOK, rr.Code)

		var resp struct {
			Data courierPackagesResponse `json:"data"`
		}
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
		require.Len(t, resp.Data.Assigned, 1)
		assert.Equal(t, "in_transit", resp.Data.Assigned[0].Status)
	})

	t.Run("unknown status filter", func(t *testing.T) {
		rr := httptest.NewRecorder()
		h.List(rr, courierRequest(http.MethodGet, "/packages?status=teleported", ""))

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("missing claims", func(t *testing.T) {
		rr := httptest.NewRecorder()
		h.List(rr, httptest.NewRequest(http.MethodGet, "/packages", nil))

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})
}

func TestTrackPackage(t *testing.T) {
	pkg := testPackage(domain.StatusInTransit)
	svc := &mockPackageService{track: &service.TrackResult{
		Package:  pkg,
		Position: &geo.Coordinates{Lat: 52.1, Lon: 19.2},
		Location: "On the way to Rynek",
	}}
	h := NewPackageHandler(svc)

	t.Run("with position", func(t *testing.T) {
		rr := httptest.NewRecorder()
		h.Track(rr, httptest.NewRequest(http.MethodGet, "/packages/track?tracking_number=OP123456", nil))

		require.Equal(t, http.StatusOK, rr.Code)

		var resp struct {
			Data trackResponse `json:"data"`
		}
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
		assert.Equal(t, "OP123456", resp.Data.Package.TrackingNumber)
		require.NotNil(t, resp.Data.Position)
		assert.Equal(t, [2]float64{52.1, 19.2}, resp.Data.Position.Coordinates)
		assert.Equal(t, "On the way to Rynek", resp.Data.Position.Location)
	})

	t.Run("missing tracking number", func(t *testing.T) {
		rr := httptest.NewRecorder()
		h.Track(rr, httptest.NewRequest(http.MethodGet, "/packages/track", nil))

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("unknown tracking number", func(t *testing.T) {
		h := NewPackageHandler(&mockPackageService{err: fmt.Errorf("Track: %w", domain.ErrNotFound)})

		rr := httptest.NewRecorder()
		h.Track(rr, httptest.NewRequest(http.MethodGet, "/packages/track?tracking_number=OP000000", nil))

		assert.Equal(t, http.StatusNotFound, rr.Code)
	})
}

func TestCollectPackage(t *testing.T) {
	t.Run("collected", func(t *testing.T) {
		svc := &mockPackageService{pkg: testPackage(domain.StatusCollected)}
		h := NewPackageHandler(svc)

		rr := httptest.NewRecorder()
		h.Collect(rr, clientRequest(http.MethodPost, "/packages/collect", `{"pickup_code":"4321"}`))

		require.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, "4321", svc.collectedCode)
	})

	t.Run("missing code", func(t *testing.T) {
		h := NewPackageHandler(&mockPackageService{})

		rr := httptest.NewRecorder()
		h.Collect(rr, clientRequest(http.MethodPost, "/packages/collect", `{}`))

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("rejected pickup", func(t *testing.T) {
		h := NewPackageHandler(&mockPackageService{err: fmt.Errorf("Collect: %w", domain.ErrInvalidPickup)})

		rr := httptest.NewRecorder()
		h.Collect(rr, clientRequest(http.MethodPost, "/packages/collect", `{"pickup_code":"9999"}`))

		assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)

		var resp APIResponse
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
		require.NotNil(t, resp.Error)
		assert.Equal(t, "INVALID_PICKUP", resp.Error.Code)
	})
}

func TestAdvancePackage(t *testing.T) {
	t.Run("advanced", func(t *testing.T) {
		svc := &mockPackageService{pkg: testPackage(domain.StatusPickedUp)}
		h := NewPackageHandler(svc)

		req := courierRequest(http.MethodPost, "/packages/5/advance", `{"status":"picked_up"}`)
		req.SetPathValue("id", "5")
		rr := httptest.NewRecorder()
		h.Advance(rr, req)

		require.Equal(t, http.StatusOK, rr.Code)

		var resp struct {
			Data packageDTO `json:"data"`
		}
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
		assert.Equal(t, "picked_up", resp.Data.Status)
	})

	t.Run("invalid transition", func(t *testing.T) {
		h := NewPackageHandler(&mockPackageService{err: fmt.Errorf("Advance: %w", domain.ErrInvalidTransition)})

		req := courierRequest(http.MethodPost, "/packages/5/advance", `{"status":"collected"}`)
		req.SetPathValue("id", "5")
		rr := httptest.NewRecorder()
		h.Advance(rr, req)

		assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
	})

	t.Run("bad path id", func(t *testing.T) {
		h := NewPackageHandler(&mockPackageService{})

		req := courierRequest(http.MethodPost, "/packages/abc/advance", `{"status":"picked_up"}`)
		req.SetPathValue("id", "abc")
		rr := httptest.NewRecorder()
		h.Advance(rr, req)

		// Unparseable ids look like missing resources.
		assert.Equal(t, http.StatusNotFound, rr.Code)
	})
}

func TestRoutePackage(t *testing.T) {
	svc := &mockPackageService{route: &service.RouteResult{
		Path: []geo.Coordinates{
			{Lat: 52.23, Lon: 21.01},
			{Lat: 50.06, Lon: 19.94},
		},
		Fallback: true,
	}}
	h := NewPackageHandler(svc)

	req := courierRequest(http.MethodGet, "/packages/5/route", "")
	req.SetPathValue("id", "5")
	rr := httptest.NewRecorder()
	h.Route(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)

	var resp struct {
		Data routeResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.True(t, resp.Data.Fallback)
	require.Len(t, resp.Data.Path, 2)
	assert.Equal(t, [2]float64{52.23, 21.01}, resp.Data.Path[0])
}
