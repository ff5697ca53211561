package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateRequired(t *testing.T) {
	assert.NoError(t, ValidateRequired("field", "value"))
	assert.ErrorContains(t, ValidateRequired("consentType", ""), "consentType")
}

func TestValidateConsentID(t *testing.T) {
	assert.NoError(t, ValidateConsentID(GenerateUUID()))
	assert.Error(t, ValidateConsentID(""))
	assert.Error(t, ValidateConsentID("not-a-uuid"))
}

func TestValidatePositiveID(t *testing.T) {
	assert.NoError(t, ValidatePositiveID("patientId", 1))
	assert.ErrorContains(t, ValidatePositiveID("patientId", 0), "patientId")
	assert.Error(t, ValidatePositiveID("officeId", -7))
}

func TestNormalizePagination(t *testing.T) {
	testCases := []struct {
		name       string
		limit      int
		offset     int
		wantLimit  int
		wantOffset int
	}{
		{name: "defaults applied", limit: 0, offset: 0, wantLimit: 100, wantOffset: 0},
		{name: "negative limit falls back", limit: -5, offset: 0, wantLimit: 100, wantOffset: 0},
		{name: "cap enforced", limit: 5000, offset: 10, wantLimit: 1000, wantOffset: 10},
		{name: "negative offset zeroed", limit: 50, offset: -1, wantLimit: 50, wantOffset: 0},
		{name: "in range untouched", limit: 250, offset: 500, wantLimit: 250, wantOffset: 500},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			limit, offset := NormalizePagination(tc.limit, tc.offset)
			assert.Equal(t, tc.wantLimit, limit)
			assert.Equal(t, tc.wantOffset, offset)
		})
	}
}

func TestGenerateUUID(t *testing.T) {
	first := GenerateUUID()
	second := GenerateUUID()
	assert.True(t, IsValidUUID(first))
	assert.True(t, IsValidUUID(second))
	assert.NotEqual(t, first, second)
}
