package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestApplicationStatusTransitions(t *testing.T) {
	tests := []struct {
		from ApplicationStatus
		to   ApplicationStatus
		ok   bool
	}{
		{AppStatusPending, AppStatusPaid, true},
		{AppStatusPending, AppStatusCancelled, true},
		{AppStatusPendingPackage, AppStatusPaid, true},
		{AppStatusPendingPackage, AppStatusCancelled, true},
		{AppStatusPending, AppStatusPendingPackage, false},
		{AppStatusPaid, AppStatusCancelled, false},
		{AppStatusPaid, AppStatusPending, false},
		{AppStatusCancelled, AppStatusPaid, false},
		{AppStatusCancelled, AppStatusPending, false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.ok, tt.from.CanTransitionTo(tt.to), "%s -> %s", tt.from, tt.to)
	}
}

func TestApplicationStatusIsPending(t *testing.T) {
	assert.True(t, AppStatusPending.IsPending())
	assert.True(t, AppStatusPendingPackage.IsPending())
	assert.False(t, AppStatusPaid.IsPending())
	assert.False(t, AppStatusCancelled.IsPending())
}

func TestPolicyStatusTransitions(t *testing.T) {
	tests := []struct {
		from PolicyStatus
		to   PolicyStatus
		ok   bool
	}{
		{PolicyStatusActive, PolicyStatusCancelled, true},
		{PolicyStatusActive, PolicyStatusExpired, true},
		{PolicyStatusCancelled, PolicyStatusActive, false},
		{PolicyStatusCancelled, PolicyStatusExpired, false},
		{PolicyStatusExpired, PolicyStatusActive, false},
		{PolicyStatusExpired, PolicyStatusCancelled, false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.ok, tt.from.CanTransitionTo(tt.to), "%s -> %s", tt.from, tt.to)
	}
}

func TestPackageStatusTransitions(t *testing.T) {
	tests := []struct {
		from PackageStatus
		to   PackageStatus
		ok   bool
	}{
		{PackageStatusPending, PackageStatusCompleted, true},
		{PackageStatusPending, PackageStatusPartiallyCompleted, true},
		{PackageStatusPending, PackageStatusCancelled, true},
		{PackageStatusPartiallyCompleted, PackageStatusCompleted, true},
		{PackageStatusPartiallyCompleted, PackageStatusCancelled, true},
		{PackageStatusCompleted, PackageStatusCancelled, false},
		{PackageStatusCompleted, PackageStatusPending, false},
		{PackageStatusCancelled, PackageStatusPending, false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.ok, tt.from.CanTransitionTo(tt.to), "%s -> %s", tt.from, tt.to)
	}
}

func TestPackageStatusIsCancellable(t *testing.T) {
	assert.True(t, PackageStatusPending.IsCancellable())
	assert.True(t, PackageStatusPartiallyCompleted.IsCancellable())
	assert.False(t, PackageStatusCompleted.IsCancellable())
	assert.False(t, PackageStatusCancelled.IsCancellable())
}
