package provider

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wso2/practice-management-api/internal/system/database"
	dbmodel "github.com/wso2/practice-management-api/internal/system/database/model"
)

func newMockClient(t *testing.T) (DBClientInterface, sqlmock.Sqlmock) {
	t.Helper()
	rawDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { rawDB.Close() })

	db := &database.DB{DB: sqlx.NewDb(rawDB, "sqlmock")}
	return NewDBClient(db, "mysql"), mock
}

func TestQueryReturnsNormalizedRowMaps(t *testing.T) {
	client, mock := newMockClient(t)

	query := &dbmodel.DBQuery{
		ID:    "TST-00001",
		Query: "SELECT CONSENT_ID, PATIENT_ID FROM PRACTICE_CONSENT WHERE PATIENT_ID = ?",
	}
	mock.ExpectQuery("SELECT CONSENT_ID, PATIENT_ID FROM PRACTICE_CONSENT").
		WithArgs(int64(42)).
		WillReturnRows(sqlmock.NewRows([]string{"CONSENT_ID", "PATIENT_ID"}).
			AddRow([]byte("aaaa-bbbb"), int64(42)))

	rows, err := client.Query(query, int64(42))

	require.NoError(t, err)
	require.Len(t, rows, 1)
	// Driver byte slices must come back as strings.
	assert.Equal(t, "aaaa-bbbb", rows[0]["CONSENT_ID"])
	assert.Equal(t, int64(42), rows[0]["PATIENT_ID"])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestExecuteReturnsDriverResult(t *testing.T) {
	client, mock := newMockClient(t)

	query := &dbmodel.DBQuery{
		ID:    "TST-00002",
		Query: "UPDATE PRACTICE_CONSENT SET CURRENT_STATUS = 'revoked' WHERE CONSENT_ID = ?",
	}
	mock.ExpectExec("UPDATE PRACTICE_CONSENT SET CURRENT_STATUS").
		WithArgs("aaaa-bbbb").
		WillReturnResult(sqlmock.NewResult(0, 1))

	result, err := client.Execute(query, "aaaa-bbbb")

	require.NoError(t, err)
	affected, err := result.RowsAffected()
	require.NoError(t, err)
	assert.Equal(t, int64(1), affected)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestQueryFailureWrapsQueryID(t *testing.T) {
	client, mock := newMockClient(t)

	query := &dbmodel.DBQuery{ID: "TST-00003", Query: "SELECT 1"}
	mock.ExpectQuery("SELECT 1").WillReturnError(assert.AnError)

	_, err := client.Query(query)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "TST-00003")
}

func TestBeginTxCommit(t *testing.T) {
	client, mock := newMockClient(t)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO AUDIT_EVENT").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	tx, err := client.BeginTx()
	require.NoError(t, err)

	_, err = tx.Exec("INSERT INTO AUDIT_EVENT (EVENT_ID) VALUES (?)", "aaaa-bbbb")
	require.NoError(t, err)
	require.NoError(t, tx.Commit())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetQuerySelectsDialectVariant(t *testing.T) {
	query := &dbmodel.DBQuery{
		ID:            "TST-00004",
		Query:         "SELECT 1",
		PostgresQuery: "SELECT 1::int",
	}
	assert.Equal(t, "SELECT 1", query.GetQuery("mysql"))
	assert.Equal(t, "SELECT 1::int", query.GetQuery("postgres"))
	assert.Equal(t, "SELECT 1", query.GetQuery("sqlite"))
}
