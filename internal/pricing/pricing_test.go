package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/outpost-labs/outpost-backend/internal/domain"
	"github.com/outpost-labs/outpost-backend/internal/geo"
)

func TestQuote(t *testing.T) {
	tests := []struct {
		name     string
		size     domain.PackageSize
		distance float64
		want     string
	}{
		{"small at zero distance", domain.SizeSmall, 0, "10.00"},
		{"medium at zero distance", domain.SizeMedium, 0, "15.00"},
		{"large at zero distance", domain.SizeLarge, 0, "20.00"},
		{"small over 10 km", domain.SizeSmall, 10, "15.00"},
		{"large over 100 km", domain.SizeLarge, 100, "70.00"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Quote(tc.size, tc.distance)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got.StringFixed(2))
		})
	}
}

func TestQuoteInvalidSize(t *testing.T) {
	_, err := Quote(domain.PackageSize("XL"), 10)
	assert.ErrorIs(t, err, domain.ErrInvalidSize)
}

func TestQuoteNegativeDistance(t *testing.T) {
	_, err := Quote(domain.SizeSmall, -1)
	assert.ErrorIs(t, err, domain.ErrInvalidRequest)
}

func TestQuoteOrderedBySize(t *testing.T) {
	for _, distance := range []float64{0, 5, 50, 500} {
		s, err := Quote(domain.SizeSmall, distance)
		require.NoError(t, err)
		m, err := Quote(domain.SizeMedium, distance)
		require.NoError(t, err)
		l, err := Quote(domain.SizeLarge, distance)
		require.NoError(t, err)

		assert.True(t, s.LessThan(m), "S < M at %v km", distance)
		assert.True(t, m.LessThan(l), "M < L at %v km", distance)
	}
}

func TestQuoteIncreasesWithDistance(t *testing.T) {
	prev, err := Quote(domain.SizeMedium, 0)
	require.NoError(t, err)
	for _, distance := range []float64{1, 2.5, 10, 99.9} {
		q, err := Quote(domain.SizeMedium, distance)
		require.NoError(t, err)
		assert.True(t, prev.LessThan(q), "quote at %v km should exceed previous", distance)
		prev = q
	}
}

// The estimate for a concrete shipment equals the size base fee plus the
// distance fee over the haversine distance, and is deterministic.
func TestQuoteScenario(t *testing.T) {
	source := geo.Coordinates{Lat: 52.0, Lon: 19.0}
	dest := geo.Coordinates{Lat: 52.5, Lon: 19.5}
	distance := geo.Distance(source, dest)

	first, err := Quote(domain.SizeSmall, distance)
	require.NoError(t, err)
	second, err := Quote(domain.SizeSmall, distance)
	require.NoError(t, err)

	assert.True(t, first.Equal(second))
	assert.Equal(t, "42.59", first.StringFixed(2))
}
