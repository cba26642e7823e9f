// Package pricing computes deterministic delivery quotes: a base fee per
// size class plus a fee proportional to locker-to-locker distance.
package pricing

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/outpost-labs/outpost-backend/internal/domain"
)

const Currency = "PLN"

var (
	baseFees = map[domain.PackageSize]decimal.Decimal{
		domain.SizeSmall:  decimal.NewFromInt(10),
		domain.SizeMedium: decimal.NewFromInt(15),
		domain.SizeLarge:  decimal.NewFromInt(20),
	}
	perKilometer = decimal.RequireFromString("0.50")
)

// Quote returns the price for shipping a package of the given size over
// distanceKm kilometers, rounded to two decimal places. Size outside
// {S, M, L} is a caller contract violation and returns ErrInvalidSize.
func Quote(size domain.PackageSize, distanceKm float64) (decimal.Decimal, error) {
	base, ok := baseFees[size]
	if !ok {
		return decimal.Zero, fmt.Errorf("Quote: size %q: %w", size, domain.ErrInvalidSize)
	}
	if distanceKm < 0 {
		return decimal.Zero, fmt.Errorf("Quote: negative distance: %w", domain.ErrInvalidRequest)
	}

	fee := decimal.NewFromFloat(distanceKm).Mul(perKilometer)
	return base.Add(fee).Round(2), nil
}

// BaseFee returns the distance-independent portion of a quote.
func BaseFee(size domain.PackageSize) (decimal.Decimal, error) {
	base, ok := baseFees[size]
	if !ok {
		return decimal.Zero, fmt.Errorf("BaseFee: size %q: %w", size, domain.ErrInvalidSize)
	}
	return base, nil
}
