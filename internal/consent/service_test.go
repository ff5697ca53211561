package consent

import (
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	auditmodel "github.com/wso2/practice-management-api/internal/auditevents/model"
	"github.com/wso2/practice-management-api/internal/consent/model"
	"github.com/wso2/practice-management-api/internal/system/clock"
	"github.com/wso2/practice-management-api/internal/system/constants"
	dbmodel "github.com/wso2/practice-management-api/internal/system/database/model"
	"github.com/wso2/practice-management-api/internal/system/error/codes"
	"github.com/wso2/practice-management-api/internal/system/stores"
	"github.com/wso2/practice-management-api/internal/system/utils"
)

const (
	testNow    = int64(1_700_000_000_000)
	testDBType = "mysql"
)

func int64Ptr(v int64) *int64 { return &v }

type mockConsentStore struct {
	mock.Mock
}

func (m *mockConsentStore) Create(tx dbmodel.TxInterface, dbType string, record *model.ConsentRecord) error {
	args := m.Called(tx, dbType, record)
	return args.Error(0)
}

func (m *mockConsentStore) GetByID(consentID string) (*model.ConsentRecord, error) {
	args := m.Called(consentID)
	if record := args.Get(0); record != nil {
		return record.(*model.ConsentRecord), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockConsentStore) Search(filters model.ConsentSearchFilters, nowMillis int64) (
	[]model.ConsentRecord, int, error) {
	args := m.Called(filters, nowMillis)
	if records := args.Get(0); records != nil {
		return records.([]model.ConsentRecord), args.Int(1), args.Error(2)
	}
	return nil, args.Int(1), args.Error(2)
}

func (m *mockConsentStore) ListGrantedByPatientAndType(patientID int64, consentType string) (
	[]model.ConsentRecord, error) {
	args := m.Called(patientID, consentType)
	if records := args.Get(0); records != nil {
		return records.([]model.ConsentRecord), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockConsentStore) ListExpiring(from, to int64, officeID *int64) ([]model.ConsentRecord, error) {
	args := m.Called(from, to, officeID)
	if records := args.Get(0); records != nil {
		return records.([]model.ConsentRecord), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockConsentStore) ListDueForExpiry(nowMillis int64) ([]string, error) {
	args := m.Called(nowMillis)
	if ids := args.Get(0); ids != nil {
		return ids.([]string), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockConsentStore) MarkRevoked(tx dbmodel.TxInterface, dbType, consentID string,
	revokedBy, nowMillis int64) (int64, error) {
	args := m.Called(tx, dbType, consentID, revokedBy, nowMillis)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockConsentStore) MarkExpired(tx dbmodel.TxInterface, dbType, consentID string) (int64, error) {
	args := m.Called(tx, dbType, consentID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockConsentStore) Delete(tx dbmodel.TxInterface, dbType, consentID string) (int64, error) {
	args := m.Called(tx, dbType, consentID)
	return args.Get(0).(int64), args.Error(1)
}

type mockDBClient struct {
	mock.Mock
}

func (m *mockDBClient) Query(query dbmodel.DBQueryInterface, args ...interface{}) (
	[]map[string]interface{}, error) {
	called := m.Called(query, args)
	if rows := called.Get(0); rows != nil {
		return rows.([]map[string]interface{}), called.Error(1)
	}
	return nil, called.Error(1)
}

func (m *mockDBClient) Execute(query dbmodel.DBQueryInterface, args ...interface{}) (sql.Result, error) {
	called := m.Called(query, args)
	if result := called.Get(0); result != nil {
		return result.(sql.Result), called.Error(1)
	}
	return nil, called.Error(1)
}

func (m *mockDBClient) BeginTx() (dbmodel.TxInterface, error) {
	args := m.Called()
	if tx := args.Get(0); tx != nil {
		return tx.(dbmodel.TxInterface), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockDBClient) GetDBType() string {
	return testDBType
}

type mockTx struct {
	mock.Mock
}

func (m *mockTx) Exec(query string, args ...interface{}) (sql.Result, error) {
	called := m.Called(query, args)
	if result := called.Get(0); result != nil {
		return result.(sql.Result), called.Error(1)
	}
	return nil, called.Error(1)
}

func (m *mockTx) Query(query string, args ...interface{}) (*sql.Rows, error) {
	called := m.Called(query, args)
	return nil, called.Error(1)
}

func (m *mockTx) Commit() error {
	return m.Called().Error(0)
}

func (m *mockTx) Rollback() error {
	return m.Called().Error(0)
}

type mockRecorder struct {
	mock.Mock
}

func (m *mockRecorder) Record(event auditmodel.AuditEvent) {
	m.Called(event)
}

type serviceFixture struct {
	store    *mockConsentStore
	dbClient *mockDBClient
	tx       *mockTx
	events   *mockRecorder
	service  ConsentServiceInterface
}

func newFixture(t *testing.T) *serviceFixture {
	t.Helper()
	store := &mockConsentStore{}
	dbClient := &mockDBClient{}
	tx := &mockTx{}
	events := &mockRecorder{}
	registry := stores.NewStoreRegistry(dbClient, store, nil, nil, nil)
	clk := clock.Fixed(time.UnixMilli(testNow))
	return &serviceFixture{
		store:    store,
		dbClient: dbClient,
		tx:       tx,
		events:   events,
		service:  NewConsentService(store, registry, events, testDBType, clk),
	}
}

func (f *serviceFixture) expectCommit() {
	f.dbClient.On("BeginTx").Return(f.tx, nil).Once()
	f.tx.On("Commit").Return(nil).Once()
}

func (f *serviceFixture) expectRollback() {
	f.dbClient.On("BeginTx").Return(f.tx, nil).Once()
	f.tx.On("Rollback").Return(nil).Once()
}

func validCreateRequest() *model.ConsentCreateRequest {
	return &model.ConsentCreateRequest{
		ConsentType: "treatment",
		ConsentText: "I consent to treatment by this practice.",
		Purpose:     "care-delivery",
	}
}

func TestCreateConsentSuccess(t *testing.T) {
	f := newFixture(t)
	f.expectCommit()

	var created *model.ConsentRecord
	f.store.On("Create", f.tx, testDBType, mock.AnythingOfType("*model.ConsentRecord")).
		Run(func(args mock.Arguments) {
			created = args.Get(2).(*model.ConsentRecord)
		}).Return(nil).Once()
	f.events.On("Record", mock.MatchedBy(func(e auditmodel.AuditEvent) bool {
		return e.Action == auditmodel.ActionCreateConsent && e.Outcome == ""
	})).Once()

	response, svcErr := f.service.CreateConsent(42, 7, validCreateRequest())

	require.Nil(t, svcErr)
	require.NotNil(t, created)
	assert.True(t, utils.IsValidUUID(response.ConsentID))
	assert.Equal(t, model.StatusGranted, response.CurrentStatus)
	assert.Equal(t, testNow, response.GrantedTime)
	assert.Equal(t, int64(42), response.PatientID)
	assert.Equal(t, int64(7), response.GrantedBy)
	assert.Equal(t, 1, response.ConsentVersion)
	assert.True(t, response.IsActive)
	f.store.AssertExpectations(t)
	f.events.AssertExpectations(t)
	f.tx.AssertExpectations(t)
}

func TestCreateConsentValidationFailure(t *testing.T) {
	f := newFixture(t)

	request := validCreateRequest()
	request.ExpiryTime = int64Ptr(testNow - 1)

	response, svcErr := f.service.CreateConsent(42, 7, request)

	assert.Nil(t, response)
	require.NotNil(t, svcErr)
	assert.Equal(t, "validation_error", svcErr.Error)
	f.dbClient.AssertNotCalled(t, "BeginTx")
	f.events.AssertNotCalled(t, "Record", mock.Anything)
}

func TestCreateConsentStoreFailureRecordsFailureEvent(t *testing.T) {
	f := newFixture(t)
	f.expectRollback()

	f.store.On("Create", f.tx, testDBType, mock.Anything).
		Return(errors.New("insert failed")).Once()
	f.events.On("Record", mock.MatchedBy(func(e auditmodel.AuditEvent) bool {
		return e.Action == auditmodel.ActionCreateConsent && e.Outcome == auditmodel.OutcomeFailure
	})).Once()

	response, svcErr := f.service.CreateConsent(42, 7, validCreateRequest())

	assert.Nil(t, response)
	require.NotNil(t, svcErr)
	assert.Equal(t, codes.ConsentCreationFailed, svcErr.Code)
	f.tx.AssertExpectations(t)
	f.events.AssertExpectations(t)
}

func TestRevokeConsentSuccess(t *testing.T) {
	f := newFixture(t)
	f.expectCommit()

	consentID := utils.GenerateUUID()
	f.store.On("MarkRevoked", f.tx, testDBType, consentID, int64(7), testNow).
		Return(int64(1), nil).Once()
	f.store.On("GetByID", consentID).Return(&model.ConsentRecord{
		ConsentID:     consentID,
		PatientID:     42,
		ConsentType:   "treatment",
		CurrentStatus: model.StatusRevoked,
		RevokedTime:   int64Ptr(testNow),
		RevokedBy:     int64Ptr(7),
	}, nil).Once()
	f.events.On("Record", mock.MatchedBy(func(e auditmodel.AuditEvent) bool {
		return e.Action == auditmodel.ActionRevokeConsent && e.Outcome == ""
	})).Once()

	response, svcErr := f.service.RevokeConsent(consentID, 7)

	require.Nil(t, svcErr)
	assert.Equal(t, model.StatusRevoked, response.CurrentStatus)
	assert.False(t, response.IsActive)
	assert.Equal(t, int64Ptr(7), response.RevokedBy)
	f.store.AssertExpectations(t)
}

func TestRevokeConsentAlreadyTerminal(t *testing.T) {
	f := newFixture(t)
	f.expectCommit()

	consentID := utils.GenerateUUID()
	f.store.On("MarkRevoked", f.tx, testDBType, consentID, int64(7), testNow).
		Return(int64(0), nil).Once()
	f.store.On("GetByID", consentID).Return(&model.ConsentRecord{
		ConsentID:     consentID,
		CurrentStatus: model.StatusRevoked,
	}, nil).Once()

	response, svcErr := f.service.RevokeConsent(consentID, 7)

	assert.Nil(t, response)
	require.NotNil(t, svcErr)
	assert.Equal(t, "already_terminal", svcErr.Error)
	assert.Equal(t, codes.ConsentAlreadyRevoked, svcErr.Code)
}

func TestRevokeConsentNotFound(t *testing.T) {
	f := newFixture(t)
	f.expectCommit()

	consentID := utils.GenerateUUID()
	f.store.On("MarkRevoked", f.tx, testDBType, consentID, int64(7), testNow).
		Return(int64(0), nil).Once()
	f.store.On("GetByID", consentID).Return(nil, nil).Once()

	response, svcErr := f.service.RevokeConsent(consentID, 7)

	assert.Nil(t, response)
	require.NotNil(t, svcErr)
	assert.Equal(t, "resource_not_found", svcErr.Error)
	assert.Equal(t, codes.ConsentNotFound, svcErr.Code)
}

func TestRevokeConsentRejectsMalformedID(t *testing.T) {
	f := newFixture(t)

	response, svcErr := f.service.RevokeConsent("not-a-uuid", 7)

	assert.Nil(t, response)
	require.NotNil(t, svcErr)
	assert.Equal(t, "validation_error", svcErr.Error)
	f.dbClient.AssertNotCalled(t, "BeginTx")
}

func TestRevokeAllOfTypeNoMatchesIsNoOp(t *testing.T) {
	f := newFixture(t)

	f.store.On("ListGrantedByPatientAndType", int64(42), "marketing").
		Return([]model.ConsentRecord{}, nil).Once()
	f.events.On("Record", mock.MatchedBy(func(e auditmodel.AuditEvent) bool {
		return e.Action == auditmodel.ActionRevokeAllOfType &&
			e.Details["revoked_count"] == 0
	})).Once()

	response, svcErr := f.service.RevokeAllOfType(42, "marketing", 7)

	require.Nil(t, svcErr)
	assert.Equal(t, 0, response.RevokedCount)
	assert.Empty(t, response.Revoked)
	f.dbClient.AssertNotCalled(t, "BeginTx")
	f.events.AssertExpectations(t)
}

func TestRevokeAllOfTypeRevokesBatchInOneTransaction(t *testing.T) {
	f := newFixture(t)
	f.expectCommit()

	first := utils.GenerateUUID()
	second := utils.GenerateUUID()
	granted := []model.ConsentRecord{
		{ConsentID: first, PatientID: 42, ConsentType: "marketing", CurrentStatus: model.StatusGranted},
		{ConsentID: second, PatientID: 42, ConsentType: "marketing", CurrentStatus: model.StatusGranted},
	}
	f.store.On("ListGrantedByPatientAndType", int64(42), "marketing").Return(granted, nil).Once()
	f.store.On("MarkRevoked", f.tx, testDBType, first, int64(7), testNow).Return(int64(1), nil).Once()
	f.store.On("MarkRevoked", f.tx, testDBType, second, int64(7), testNow).Return(int64(1), nil).Once()
	f.events.On("Record", mock.MatchedBy(func(e auditmodel.AuditEvent) bool {
		return e.Action == auditmodel.ActionRevokeAllOfType && e.Details["revoked_count"] == 2
	})).Once()

	response, svcErr := f.service.RevokeAllOfType(42, "marketing", 7)

	require.Nil(t, svcErr)
	assert.Equal(t, 2, response.RevokedCount)
	for _, revoked := range response.Revoked {
		assert.Equal(t, model.StatusRevoked, revoked.CurrentStatus)
		assert.Equal(t, int64Ptr(7), revoked.RevokedBy)
		assert.False(t, revoked.IsActive)
	}
	f.store.AssertExpectations(t)
	f.tx.AssertExpectations(t)
}

func TestExpireDueConsentsNothingDue(t *testing.T) {
	f := newFixture(t)

	f.store.On("ListDueForExpiry", testNow).Return([]string{}, nil).Once()
	f.events.On("Record", mock.MatchedBy(func(e auditmodel.AuditEvent) bool {
		return e.Action == auditmodel.ActionExpireSweep
	})).Once()

	response, svcErr := f.service.ExpireDueConsents()

	require.Nil(t, svcErr)
	assert.Equal(t, 0, response.ExpiredCount)
	assert.Equal(t, testNow, response.SweepTime)
	f.dbClient.AssertNotCalled(t, "BeginTx")
}

func TestExpireDueConsentsCountsOnlyWonTransitions(t *testing.T) {
	f := newFixture(t)
	f.expectCommit()

	first := utils.GenerateUUID()
	second := utils.GenerateUUID()
	f.store.On("ListDueForExpiry", testNow).Return([]string{first, second}, nil).Once()
	f.store.On("MarkExpired", f.tx, testDBType, first).Return(int64(1), nil).Once()
	// A concurrent revoke won the race for the second record.
	f.store.On("MarkExpired", f.tx, testDBType, second).Return(int64(0), nil).Once()
	f.events.On("Record", mock.MatchedBy(func(e auditmodel.AuditEvent) bool {
		return e.Action == auditmodel.ActionExpireSweep &&
			e.Details["expired_count"] == int64(1) &&
			e.Details["actor"] == constants.ActorSystem
	})).Once()

	response, svcErr := f.service.ExpireDueConsents()

	require.Nil(t, svcErr)
	assert.Equal(t, 1, response.ExpiredCount)
	f.store.AssertExpectations(t)
}

func TestSearchConsentsClampsPagination(t *testing.T) {
	f := newFixture(t)

	f.store.On("Search", mock.MatchedBy(func(filters model.ConsentSearchFilters) bool {
		return filters.Limit == 1000 && filters.Offset == 0
	}), testNow).Return([]model.ConsentRecord{}, 0, nil).Once()

	response, svcErr := f.service.SearchConsents(model.ConsentSearchFilters{
		Limit:  5000,
		Offset: -3,
	})

	require.Nil(t, svcErr)
	assert.Equal(t, 1000, response.Limit)
	assert.Equal(t, 0, response.Offset)
	f.store.AssertExpectations(t)
}

func TestSearchConsentsRejectsUnknownStatus(t *testing.T) {
	f := newFixture(t)

	response, svcErr := f.service.SearchConsents(model.ConsentSearchFilters{Status: "pending"})

	assert.Nil(t, response)
	require.NotNil(t, svcErr)
	assert.Equal(t, "validation_error", svcErr.Error)
}

func TestGetConsentNotFound(t *testing.T) {
	f := newFixture(t)

	consentID := utils.GenerateUUID()
	f.store.On("GetByID", consentID).Return(nil, nil).Once()

	response, svcErr := f.service.GetConsent(consentID, int64Ptr(7))

	assert.Nil(t, response)
	require.NotNil(t, svcErr)
	assert.Equal(t, codes.ConsentNotFound, svcErr.Code)
}

func TestGetConsentRecordsViewEvent(t *testing.T) {
	f := newFixture(t)

	consentID := utils.GenerateUUID()
	f.store.On("GetByID", consentID).Return(&model.ConsentRecord{
		ConsentID:     consentID,
		PatientID:     42,
		ConsentType:   "treatment",
		CurrentStatus: model.StatusGranted,
	}, nil).Once()
	f.events.On("Record", mock.MatchedBy(func(e auditmodel.AuditEvent) bool {
		return e.Action == auditmodel.ActionViewConsent && e.UserID != nil && *e.UserID == 7
	})).Once()

	response, svcErr := f.service.GetConsent(consentID, int64Ptr(7))

	require.Nil(t, svcErr)
	assert.True(t, response.IsActive)
	f.events.AssertExpectations(t)
}

func TestListPatientConsentsRecordsAccessEvent(t *testing.T) {
	f := newFixture(t)

	f.store.On("Search", mock.MatchedBy(func(filters model.ConsentSearchFilters) bool {
		return filters.PatientID != nil && *filters.PatientID == 42
	}), testNow).Return([]model.ConsentRecord{}, 0, nil).Once()
	f.events.On("Record", mock.MatchedBy(func(e auditmodel.AuditEvent) bool {
		return e.Action == auditmodel.ActionViewPatientConsents &&
			e.PatientID != nil && *e.PatientID == 42
	})).Once()

	_, svcErr := f.service.ListPatientConsents(42, int64Ptr(7), model.ConsentSearchFilters{})

	require.Nil(t, svcErr)
	f.events.AssertExpectations(t)
}

func TestGetExpiringSoonDefaultsWindow(t *testing.T) {
	f := newFixture(t)

	expectedTo := testNow + utils.DaysToMillis(30)
	f.store.On("ListExpiring", testNow, expectedTo, (*int64)(nil)).
		Return([]model.ConsentRecord{}, nil).Once()

	responses, svcErr := f.service.GetExpiringSoon(0, nil)

	require.Nil(t, svcErr)
	assert.Empty(t, responses)
	f.store.AssertExpectations(t)
}

func TestDeleteConsentNotFound(t *testing.T) {
	f := newFixture(t)
	f.expectCommit()

	consentID := utils.GenerateUUID()
	f.store.On("Delete", f.tx, testDBType, consentID).Return(int64(0), nil).Once()

	svcErr := f.service.DeleteConsent(consentID, int64Ptr(7))

	require.NotNil(t, svcErr)
	assert.Equal(t, codes.ConsentNotFound, svcErr.Code)
}

func TestDeleteConsentSuccess(t *testing.T) {
	f := newFixture(t)
	f.expectCommit()

	consentID := utils.GenerateUUID()
	f.store.On("Delete", f.tx, testDBType, consentID).Return(int64(1), nil).Once()
	f.events.On("Record", mock.MatchedBy(func(e auditmodel.AuditEvent) bool {
		return e.Action == auditmodel.ActionDeleteConsent
	})).Once()

	svcErr := f.service.DeleteConsent(consentID, int64Ptr(7))

	assert.Nil(t, svcErr)
	f.events.AssertExpectations(t)
}
