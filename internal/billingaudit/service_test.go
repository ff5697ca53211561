package billingaudit

import (
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/wso2/practice-management-api/internal/billingaudit/model"
	"github.com/wso2/practice-management-api/internal/system/clock"
	dbmodel "github.com/wso2/practice-management-api/internal/system/database/model"
	"github.com/wso2/practice-management-api/internal/system/error/codes"
	"github.com/wso2/practice-management-api/internal/system/utils"
)

const testNow = int64(1_700_000_000_000)

type mockBillingAuditStore struct {
	mock.Mock
}

func (m *mockBillingAuditStore) Append(tx dbmodel.TxInterface, dbType string,
	entry *model.BillingAuditEntry) error {
	args := m.Called(tx, dbType, entry)
	return args.Error(0)
}

func (m *mockBillingAuditStore) ListByOffice(officeID int64, filters model.BillingAuditSearchFilters) (
	[]model.BillingAuditEntry, int, error) {
	args := m.Called(officeID, filters)
	if entries := args.Get(0); entries != nil {
		return entries.([]model.BillingAuditEntry), args.Int(1), args.Error(2)
	}
	return nil, args.Int(1), args.Error(2)
}

type mockOfficeChecker struct {
	mock.Mock
}

func (m *mockOfficeChecker) OfficeExists(officeID int64) (bool, error) {
	args := m.Called(officeID)
	return args.Bool(0), args.Error(1)
}

type mockTx struct {
	mock.Mock
}

func (m *mockTx) Exec(query string, args ...interface{}) (sql.Result, error) {
	called := m.Called(query, args)
	return nil, called.Error(1)
}

func (m *mockTx) Query(query string, args ...interface{}) (*sql.Rows, error) {
	called := m.Called(query, args)
	return nil, called.Error(1)
}

func (m *mockTx) Commit() error   { return m.Called().Error(0) }
func (m *mockTx) Rollback() error { return m.Called().Error(0) }

func newTestService(store BillingAuditStore, checker OfficeExistenceChecker) BillingAuditServiceInterface {
	return NewBillingAuditService(store, checker, "mysql", "practice-api",
		clock.Fixed(time.UnixMilli(testNow)))
}

func TestAppendEntryFillsDefaults(t *testing.T) {
	store := &mockBillingAuditStore{}
	tx := &mockTx{}

	var appended *model.BillingAuditEntry
	store.On("Append", tx, "mysql", mock.AnythingOfType("*model.BillingAuditEntry")).
		Run(func(args mock.Arguments) {
			appended = args.Get(2).(*model.BillingAuditEntry)
		}).Return(nil).Once()

	err := newTestService(store, &mockOfficeChecker{}).AppendEntry(tx, model.BillingAuditEntry{
		OfficeID:  12,
		EventType: model.EventSubscriptionInitialized,
	})

	require.NoError(t, err)
	require.NotNil(t, appended)
	assert.True(t, utils.IsValidUUID(appended.EntryID))
	assert.Equal(t, testNow, appended.EventTime)
	assert.Equal(t, "practice-api", appended.Source)
	assert.Equal(t, model.OutcomeSuccess, appended.Outcome)
}

func TestAppendEntryPropagatesFailure(t *testing.T) {
	store := &mockBillingAuditStore{}
	tx := &mockTx{}
	store.On("Append", tx, "mysql", mock.Anything).Return(errors.New("insert failed")).Once()

	err := newTestService(store, &mockOfficeChecker{}).AppendEntry(tx, model.BillingAuditEntry{
		OfficeID:  12,
		EventType: model.EventSubscriptionStatusChanged,
	})

	assert.Error(t, err)
}

func TestListOfficeAuditUnknownOffice(t *testing.T) {
	store := &mockBillingAuditStore{}
	checker := &mockOfficeChecker{}
	checker.On("OfficeExists", int64(99)).Return(false, nil).Once()

	response, svcErr := newTestService(store, checker).ListOfficeAudit(99,
		model.BillingAuditSearchFilters{})

	assert.Nil(t, response)
	require.NotNil(t, svcErr)
	assert.Equal(t, codes.OfficeNotFound, svcErr.Code)
	store.AssertNotCalled(t, "ListByOffice", mock.Anything, mock.Anything)
}

func TestListOfficeAuditReturnsEntries(t *testing.T) {
	store := &mockBillingAuditStore{}
	checker := &mockOfficeChecker{}
	checker.On("OfficeExists", int64(12)).Return(true, nil).Once()
	store.On("ListByOffice", int64(12), mock.MatchedBy(func(f model.BillingAuditSearchFilters) bool {
		return f.Limit == 100
	})).Return([]model.BillingAuditEntry{
		{EntryID: utils.GenerateUUID(), OfficeID: 12, EventType: model.EventSubscriptionStatusChanged},
	}, 1, nil).Once()

	response, svcErr := newTestService(store, checker).ListOfficeAudit(12,
		model.BillingAuditSearchFilters{})

	require.Nil(t, svcErr)
	assert.Equal(t, 1, response.TotalResults)
	assert.Equal(t, 1, response.Count)
	assert.Equal(t, int64(12), response.OfficeID)
}

func TestListOfficeAuditRejectsNonPositiveID(t *testing.T) {
	response, svcErr := newTestService(&mockBillingAuditStore{}, &mockOfficeChecker{}).
		ListOfficeAudit(0, model.BillingAuditSearchFilters{})

	assert.Nil(t, response)
	require.NotNil(t, svcErr)
	assert.Equal(t, "validation_error", svcErr.Error)
}
