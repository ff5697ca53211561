package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildWhereClause(t *testing.T) {
	assert.Equal(t, "", BuildWhereClause(nil))
	assert.Equal(t, " WHERE A = ?", BuildWhereClause([]string{"A = ?"}))
	assert.Equal(t, " WHERE A = ? AND B >= ?", BuildWhereClause([]string{"A = ?", "B >= ?"}))
}

func TestBuildOrderByQuery(t *testing.T) {
	assert.Equal(t, "SELECT * FROM T ORDER BY GRANTED_TIME DESC",
		BuildOrderByQuery("SELECT * FROM T", "GRANTED_TIME", false))
	assert.Equal(t, "SELECT * FROM T ORDER BY EXPIRY_TIME ASC",
		BuildOrderByQuery("SELECT * FROM T", "EXPIRY_TIME", true))
}

func TestBuildPaginationQuery(t *testing.T) {
	assert.Equal(t, "SELECT * FROM T LIMIT 100 OFFSET 0",
		BuildPaginationQuery("SELECT * FROM T", 100, 0))
}

func TestConvertToPostgresParams(t *testing.T) {
	assert.Equal(t, "SELECT * FROM T WHERE A = $1 AND B = $2",
		ConvertToPostgresParams("SELECT * FROM T WHERE A = ? AND B = ?"))
}

func TestRowMappers(t *testing.T) {
	row := map[string]interface{}{
		"STR_COL":    "value",
		"BYTES_COL":  []byte("bytes"),
		"INT_COL":    int64(42),
		"INT_STR":    "17",
		"BOOL_INT":   int64(1),
		"BOOL_BYTES": []byte("0"),
		"NULL_COL":   nil,
	}

	s, err := RowString(row, "STR_COL")
	assert.NoError(t, err)
	assert.Equal(t, "value", s)

	s, err = RowString(row, "BYTES_COL")
	assert.NoError(t, err)
	assert.Equal(t, "bytes", s)

	_, err = RowString(row, "MISSING")
	assert.Error(t, err)

	n, err := RowInt64(row, "INT_COL")
	assert.NoError(t, err)
	assert.Equal(t, int64(42), n)

	n, err = RowInt64(row, "INT_STR")
	assert.NoError(t, err)
	assert.Equal(t, int64(17), n)

	b, err := RowBool(row, "BOOL_INT")
	assert.NoError(t, err)
	assert.True(t, b)

	b, err = RowBool(row, "BOOL_BYTES")
	assert.NoError(t, err)
	assert.False(t, b)

	assert.Nil(t, RowNullableInt64(row, "NULL_COL"))
	assert.Nil(t, RowNullableString(row, "NULL_COL"))
	assert.NotNil(t, RowNullableInt64(row, "INT_COL"))
}
