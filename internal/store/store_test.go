package store

import (
	"database/sql"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpen_CreatesNewDatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")

	s, err := Open(path)
	require.NoError(t, err)
	defer s.Close()

	_, err = os.Stat(path)
	assert.NoError(t, err, "database file was not created")
}

func TestOpen_Idempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")

	for i := 0; i < 3; i++ {
		s, err := Open(path)
		require.NoError(t, err, "Open() iteration %d", i)
		s.Close()
	}

	s, err := Open(path)
	require.NoError(t, err)
	defer s.Close()

	tables := []string{"BOOKS", "SERIES", "AUTHORS", "TAGS", "LANGUAGES", "IDENTIFIERS", "FORMATS", "COVERS"}
	for _, table := range tables {
		var name string
		err := s.db.QueryRow(
			"SELECT name FROM sqlite_master WHERE type='table' AND name=?",
			table,
		).Scan(&name)
		assert.NoError(t, err, "table %q not found after idempotent opens", table)
	}
}

func TestOpen_InvalidPath(t *testing.T) {
	_, err := Open("/nonexistent/dir/test.db")
	assert.Error(t, err)
}

func TestClose_NilDB(t *testing.T) {
	s := &Store{db: nil}
	assert.NoError(t, s.Close())
}

func TestPragmas(t *testing.T) {
	s := createTestStore(t)

	tests := map[string]string{
		"journal_mode": "wal",
		"synchronous":  "1",
		"busy_timeout": "5000",
		"foreign_keys": "1",
	}
	for name, want := range tests {
		t.Run(name, func(t *testing.T) {
			assert.NoError(t, s.verifyPragma(name, want))
		})
	}
}

func TestSchema_BooksColumns(t *testing.T) {
	s := createTestStore(t)

	columns := getTableColumns(t, s.db, "BOOKS")
	assert.Equal(t, []string{
		"ID", "TITLE", "PUBLISHER", "DESCRIPTION", "CREATIONDATE",
		"PUBLICATIONDATE", "SERIES_ID", "SERIESVOLUME",
	}, columns)
}

func TestSchema_TitleRequired(t *testing.T) {
	s := createTestStore(t)

	_, err := s.db.Exec(`INSERT INTO BOOKS (ID, TITLE) VALUES ('x', NULL)`)
	assert.Error(t, err)
}

func TestMigration_SchemaVersion(t *testing.T) {
	s := createTestStore(t)

	var version int
	require.NoError(t, s.db.QueryRow("PRAGMA user_version").Scan(&version))
	assert.Equal(t, currentSchemaVersion, version)

	indexes := getTableIndexes(t, s.db, "BOOKS")
	assert.Contains(t, indexes, "idx_books_title")
}

func TestMigration_UpgradeFromV0(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")

	s, err := Open(path)
	require.NoError(t, err)
	_, err = s.db.Exec(`DROP INDEX idx_books_title`)
	require.NoError(t, err)
	_, err = s.db.Exec(`PRAGMA user_version = 0`)
	require.NoError(t, err)
	s.Close()

	s, err = Open(path)
	require.NoError(t, err)
	defer s.Close()

	assert.Contains(t, getTableIndexes(t, s.db, "BOOKS"), "idx_books_title")
}

func TestFoldUpper(t *testing.T) {
	tests := []struct {
		in   any
		want string
	}{
		{"ärger", "ÄRGER"},
		{[]byte("tor"), "TOR"},
		{[]byte(nil), ""},
		{int64(8), "8"},
		{2.5, "2.5"},
		{nil, ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, foldUpper(tt.in), "%#v", tt.in)
	}
}

func TestFoldUpper_RegisteredOnConnections(t *testing.T) {
	s := createTestStore(t)

	var got string
	require.NoError(t, s.db.QueryRow(`SELECT fold_upper('straße')`).Scan(&got))
	assert.Equal(t, "STRASSE", got)
}

func getTableColumns(t *testing.T, db *sql.DB, table string) []string {
	t.Helper()
	rows, err := db.Query("SELECT name FROM pragma_table_info(?)", table)
	require.NoError(t, err)
	defer rows.Close()

	var columns []string
	for rows.Next() {
		var name string
		require.NoError(t, rows.Scan(&name))
		columns = append(columns, name)
	}
	require.NoError(t, rows.Err())
	return columns
}

func getTableIndexes(t *testing.T, db *sql.DB, table string) []string {
	t.Helper()
	rows, err := db.Query("SELECT name FROM sqlite_master WHERE type='index' AND tbl_name=?", table)
	require.NoError(t, err)
	defer rows.Close()

	var indexes []string
	for rows.Next() {
		var name string
		require.NoError(t, rows.Scan(&name))
		indexes = append(indexes, name)
	}
	require.NoError(t, rows.Err())
	return indexes
}
