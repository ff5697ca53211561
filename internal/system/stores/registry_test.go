package stores

import (
	"database/sql"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	dbmodel "github.com/wso2/practice-management-api/internal/system/database/model"
)

type mockDBClient struct {
	mock.Mock
}

func (m *mockDBClient) Query(query dbmodel.DBQueryInterface, args ...interface{}) (
	[]map[string]interface{}, error) {
	called := m.Called(query, args)
	return nil, called.Error(1)
}

func (m *mockDBClient) Execute(query dbmodel.DBQueryInterface, args ...interface{}) (sql.Result, error) {
	called := m.Called(query, args)
	return nil, called.Error(1)
}

func (m *mockDBClient) BeginTx() (dbmodel.TxInterface, error) {
	args := m.Called()
	if tx := args.Get(0); tx != nil {
		return tx.(dbmodel.TxInterface), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockDBClient) GetDBType() string { return "mysql" }

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

func TestExecuteTransactionCommitsWhenAllQueriesSucceed(t *testing.T) {
	dbClient := &mockDBClient{}
	tx := &mockTx{}
	dbClient.On("BeginTx").Return(tx, nil).Once()
	tx.On("Commit").Return(nil).Once()

	registry := NewStoreRegistry(dbClient, nil, nil, nil, nil)

	var order []int
	err := registry.ExecuteTransaction([]func(tx dbmodel.TxInterface) error{
		func(tx dbmodel.TxInterface) error { order = append(order, 1); return nil },
		func(tx dbmodel.TxInterface) error { order = append(order, 2); return nil },
	})

	require.NoError(t, err)
	assert.Equal(t, []int{1, 2}, order)
	tx.AssertExpectations(t)
}

func TestExecuteTransactionRollsBackOnFirstFailure(t *testing.T) {
	dbClient := &mockDBClient{}
	tx := &mockTx{}
	dbClient.On("BeginTx").Return(tx, nil).Once()
	tx.On("Rollback").Return(nil).Once()

	registry := NewStoreRegistry(dbClient, nil, nil, nil, nil)

	boom := errors.New("second query failed")
	thirdRan := false
	err := registry.ExecuteTransaction([]func(tx dbmodel.TxInterface) error{
		func(tx dbmodel.TxInterface) error { return nil },
		func(tx dbmodel.TxInterface) error { return boom },
		func(tx dbmodel.TxInterface) error { thirdRan = true; return nil },
	})

	assert.ErrorIs(t, err, boom)
	assert.False(t, thirdRan)
	tx.AssertExpectations(t)
	tx.AssertNotCalled(t, "Commit")
}

func TestExecuteTransactionBeginFailure(t *testing.T) {
	dbClient := &mockDBClient{}
	dbClient.On("BeginTx").Return(nil, errors.New("no connection")).Once()

	registry := NewStoreRegistry(dbClient, nil, nil, nil, nil)

	err := registry.ExecuteTransaction([]func(tx dbmodel.TxInterface) error{
		func(tx dbmodel.TxInterface) error { return nil },
	})

	assert.Error(t, err)
}
