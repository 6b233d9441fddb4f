package migrate

import (
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
)

func TestEnsureSchemaCreatesTables(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS _geo_counties").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("CREATE TABLE IF NOT EXISTS _geo_constituencies").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("CREATE TABLE IF NOT EXISTS _geo_wards").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("CREATE INDEX IF NOT EXISTS idx_geo_wards_constituency").WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, EnsureSchema(db))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestEnsureSchemaStopsOnError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	boom := errors.New("permission denied")
	mock.ExpectExec("CREATE TABLE IF NOT EXISTS _geo_counties").WillReturnError(boom)

	require.ErrorIs(t, EnsureSchema(db), boom)
	require.NoError(t, mock.ExpectationsWereMet())
}
