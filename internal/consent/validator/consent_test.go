package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/wso2/practice-management-api/internal/consent/model"
)

const testNow = int64(1_700_000_000_000)

func intPtr(v int) *int       { return &v }
func int64Ptr(v int64) *int64 { return &v }

func validCreateRequest() *model.ConsentCreateRequest {
	return &model.ConsentCreateRequest{
		ConsentType: "treatment",
		ConsentText: "I consent to treatment by this practice.",
		Purpose:     "care-delivery",
	}
}

func TestValidateCreateRequest(t *testing.T) {
	testCases := []struct {
		name      string
		patientID int64
		grantedBy int64
		mutate    func(r *model.ConsentCreateRequest)
		wantErr   string
	}{
		{name: "valid", patientID: 1, grantedBy: 2},
		{
			name: "valid with future expiry", patientID: 1, grantedBy: 2,
			mutate: func(r *model.ConsentCreateRequest) { r.ExpiryTime = int64Ptr(testNow + 1000) },
		},
		{
			name: "non-positive patient id", patientID: 0, grantedBy: 2,
			wantErr: "patientId",
		},
		{
			name: "non-positive actor id", patientID: 1, grantedBy: -5,
			wantErr: "grantedBy",
		},
		{
			name: "missing type", patientID: 1, grantedBy: 2,
			mutate:  func(r *model.ConsentCreateRequest) { r.ConsentType = "" },
			wantErr: "consentType",
		},
		{
			name: "missing purpose", patientID: 1, grantedBy: 2,
			mutate:  func(r *model.ConsentCreateRequest) { r.Purpose = "" },
			wantErr: "purpose",
		},
		{
			name: "short text", patientID: 1, grantedBy: 2,
			mutate:  func(r *model.ConsentCreateRequest) { r.ConsentText = "too short" },
			wantErr: "consentText",
		},
		{
			name: "whitespace padded short text", patientID: 1, grantedBy: 2,
			mutate:  func(r *model.ConsentCreateRequest) { r.ConsentText = "   yes    " },
			wantErr: "consentText",
		},
		{
			name: "zero version", patientID: 1, grantedBy: 2,
			mutate:  func(r *model.ConsentCreateRequest) { r.ConsentVersion = intPtr(0) },
			wantErr: "consentVersion",
		},
		{
			name: "expiry in the past", patientID: 1, grantedBy: 2,
			mutate:  func(r *model.ConsentCreateRequest) { r.ExpiryTime = int64Ptr(testNow - 1) },
			wantErr: "expiryTime",
		},
		{
			name: "expiry exactly now", patientID: 1, grantedBy: 2,
			mutate:  func(r *model.ConsentCreateRequest) { r.ExpiryTime = int64Ptr(testNow) },
			wantErr: "expiryTime",
		},
		{
			name: "blank third party entity", patientID: 1, grantedBy: 2,
			mutate: func(r *model.ConsentCreateRequest) {
				r.ThirdPartySharing = true
				r.ThirdPartyEntities = []string{"labcorp", "  "}
			},
			wantErr: "thirdPartyEntities",
		},
		{
			name: "entities without sharing flag", patientID: 1, grantedBy: 2,
			mutate: func(r *model.ConsentCreateRequest) {
				r.ThirdPartyEntities = []string{"labcorp"}
			},
			wantErr: "thirdPartySharing",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			request := validCreateRequest()
			if tc.mutate != nil {
				tc.mutate(request)
			}
			err := ValidateCreateRequest(tc.patientID, tc.grantedBy, request, testNow)
			if tc.wantErr == "" {
				assert.NoError(t, err)
			} else {
				assert.ErrorContains(t, err, tc.wantErr)
			}
		})
	}
}

func TestValidateSearchFilters(t *testing.T) {
	assert.NoError(t, ValidateSearchFilters(&model.ConsentSearchFilters{}))
	assert.NoError(t, ValidateSearchFilters(&model.ConsentSearchFilters{Status: model.StatusGranted}))

	err := ValidateSearchFilters(&model.ConsentSearchFilters{Status: "pending"})
	assert.ErrorContains(t, err, "status")

	err = ValidateSearchFilters(&model.ConsentSearchFilters{PatientID: int64Ptr(0)})
	assert.ErrorContains(t, err, "patientId")

	err = ValidateSearchFilters(&model.ConsentSearchFilters{
		GrantedAfter:  int64Ptr(2000),
		GrantedBefore: int64Ptr(1000),
	})
	assert.ErrorContains(t, err, "grantedAfter")

	err = ValidateSearchFilters(&model.ConsentSearchFilters{
		ExpiresAfter:  int64Ptr(2000),
		ExpiresBefore: int64Ptr(1000),
	})
	assert.ErrorContains(t, err, "expiresAfter")
}
