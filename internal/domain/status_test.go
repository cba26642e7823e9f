package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusNext(t *testing.T) {
	tests := []struct {
		status PackageStatus
		next   PackageStatus
		ok     bool
	}{
		{StatusCreated, StatusPickedUp, true},
		{StatusPickedUp, StatusInTransit, true},
		{StatusInTransit, StatusDelivered, true},
		{StatusDelivered, StatusCollected, true},
		{StatusCollected, "", false},
		{PackageStatus("lost"), "", false},
	}

	for _, tc := range tests {
		t.Run(string(tc.status), func(t *testing.T) {
			next, ok := tc.status.Next()
			assert.Equal(t, tc.ok, ok)
			assert.Equal(t, tc.next, next)
		})
	}
}

func TestStatusCanTransitionTo(t *testing.T) {
	all := []PackageStatus{StatusCreated, StatusPickedUp, StatusInTransit, StatusDelivered, StatusCollected}

	// Only the immediate successor is ever reachable.
	for i, from := range all {
		for j, to := range all {
			want := j == i+1
			assert.Equal(t, want, from.CanTransitionTo(to), "%s -> %s", from, to)
		}
	}
}

func TestStatusTerminal(t *testing.T) {
	assert.True(t, StatusCollected.Terminal())
	assert.False(t, StatusDelivered.Terminal())
	assert.False(t, StatusCreated.Terminal())
}

func TestStatusIsValid(t *testing.T) {
	assert.True(t, StatusInTransit.IsValid())
	assert.False(t, PackageStatus("returned").IsValid())
	assert.False(t, PackageStatus("").IsValid())
}
