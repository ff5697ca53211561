package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func int64Ptr(v int64) *int64 { return &v }

func TestIsActive(t *testing.T) {
	now := int64(1_700_000_000_000)

	testCases := []struct {
		name     string
		record   ConsentRecord
		expected bool
	}{
		{
			name:     "granted without expiry",
			record:   ConsentRecord{CurrentStatus: StatusGranted},
			expected: true,
		},
		{
			name:     "granted with future expiry",
			record:   ConsentRecord{CurrentStatus: StatusGranted, ExpiryTime: int64Ptr(now + 1)},
			expected: true,
		},
		{
			name:     "granted with passed expiry",
			record:   ConsentRecord{CurrentStatus: StatusGranted, ExpiryTime: int64Ptr(now - 1)},
			expected: false,
		},
		{
			name:     "granted with expiry equal to now",
			record:   ConsentRecord{CurrentStatus: StatusGranted, ExpiryTime: int64Ptr(now)},
			expected: false,
		},
		{
			name:     "revoked",
			record:   ConsentRecord{CurrentStatus: StatusRevoked},
			expected: false,
		},
		{
			name:     "expired",
			record:   ConsentRecord{CurrentStatus: StatusExpired},
			expected: false,
		},
		{
			name:     "revoked with future expiry",
			record:   ConsentRecord{CurrentStatus: StatusRevoked, ExpiryTime: int64Ptr(now + 1000)},
			expected: false,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, tc.record.IsActive(now))
		})
	}
}

func TestIsTerminal(t *testing.T) {
	assert.False(t, (&ConsentRecord{CurrentStatus: StatusGranted}).IsTerminal())
	assert.True(t, (&ConsentRecord{CurrentStatus: StatusRevoked}).IsTerminal())
	assert.True(t, (&ConsentRecord{CurrentStatus: StatusExpired}).IsTerminal())
}

func TestNewConsentResponseComputesActivity(t *testing.T) {
	now := int64(1_700_000_000_000)

	// Status still says granted but the expiry has passed: the response
	// must report inactive regardless of the stored status.
	stale := ConsentRecord{CurrentStatus: StatusGranted, ExpiryTime: int64Ptr(now - 10)}
	response := NewConsentResponse(stale, now)
	assert.False(t, response.IsActive)
	assert.Equal(t, StatusGranted, response.CurrentStatus)

	active := ConsentRecord{CurrentStatus: StatusGranted}
	assert.True(t, NewConsentResponse(active, now).IsActive)
}
