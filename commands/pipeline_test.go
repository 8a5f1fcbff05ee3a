package commands

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/learnerhub/learner-sheets/roster"
	"github.com/learnerhub/learner-sheets/store"
)

const credentials = `(
    "First Name" TEXT,
    "Last Name" TEXT,
    "Username" TEXT,
    "Password" TEXT,
    "Class/Grade" TEXT,
    "Section" TEXT,
    "Branch" TEXT,
    "Admission Number / Unique Identification Number" TEXT,
    "Remarks" TEXT
)`

var worksheet = [][]any{
	{"First Name", "Last Name", "Username", "Password", "Class/Grade", "Section", "Branch", "Admission Number / Unique Identification Number", "Remarks"},
	{"Ada", "Lovelace", "ada.l", "pw1", "Grade 5", "A", "North", "1001", ""},
	{"Alan", "Turing", "alan.t", "pw2", "Grade 6", "B", "South", "1002", "transfer"},
	{"Grace", "Hopper", "grace.h", "pw3", "Grade 5", "A", "North", "1003", ""},
}

func setup(t *testing.T) *store.DB {
	t.Helper()

	ctx := context.Background()
	db, err := store.Open("sqlite3", filepath.Join(t.TempDir(), "learners.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	for _, table := range []string{"master_credentials_file_l", "master_credentials_file_l2", "master_credentials_file_T"} {
		require.NoError(t, db.Exec(ctx, "CREATE TABLE "+table+" "+credentials))
	}

	require.NoError(t, db.Exec(ctx, `CREATE TABLE newenrolls (username TEXT, password TEXT)`))
	require.NoError(t, db.Exec(ctx, `CREATE TABLE csv_handle (username TEXT, password TEXT)`))
	require.NoError(t, db.Exec(ctx, `CREATE TABLE NOT_ENROLLED (username TEXT, reason TEXT)`))

	require.NoError(t, db.Exec(ctx, `INSERT INTO master_credentials_file_l ("First Name", "Last Name", "Class/Grade", "Branch") VALUES (?, ?, ?, ?)`, "Alan", "Turing", "Grade 6", "South"))
	require.NoError(t, db.Exec(ctx, `INSERT INTO csv_handle (username, password) VALUES (?, ?)`, "ada.l", "pw1"))
	require.NoError(t, db.Exec(ctx, `INSERT INTO NOT_ENROLLED (username, reason) VALUES (?, ?)`, "grace.h", nil))

	return db
}

func fetch(rows [][]any) func(context.Context) ([][]any, error) {
	return func(context.Context) ([][]any, error) {
		return rows, nil
	}
}

func count(t *testing.T, db *store.DB, table string) int {
	t.Helper()

	_, rows, err := db.Export(context.Background(), table)
	require.NoError(t, err)

	return len(rows)
}

func TestPipelineWithTruncate(t *testing.T) {
	db := setup(t)

	p := pipeline{
		db:        db,
		fetch:     fetch(worksheet),
		table:     "master_credentials_file_l",
		truncate:  NewConfig().Database.Truncate,
		timestamp: time.Date(2025, time.June, 1, 7, 30, 0, 0, time.Local),
	}

	s, err := p.run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 3, s.fetched)
	assert.Equal(t, 0, s.skipped)
	assert.Equal(t, 3, s.inserted)
	assert.Empty(t, s.exported)

	assert.Equal(t, 3, count(t, db, "master_credentials_file_l"))
	assert.Equal(t, 0, count(t, db, "csv_handle"))
	assert.Equal(t, 0, count(t, db, "NOT_ENROLLED"))
}

func TestPipelineWithoutTruncate(t *testing.T) {
	db := setup(t)

	p := pipeline{
		db:        db,
		fetch:     fetch(worksheet),
		table:     "master_credentials_file_l",
		timestamp: time.Date(2025, time.June, 1, 7, 30, 0, 0, time.Local),
	}

	s, err := p.run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 3, s.fetched)
	assert.Equal(t, 1, s.skipped)
	assert.Equal(t, 2, s.inserted)
	assert.Equal(t, 3, count(t, db, "master_credentials_file_l"))

	// ... second run inserts nothing
	s, err = p.run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 3, s.skipped)
	assert.Equal(t, 0, s.inserted)
	assert.Equal(t, 3, count(t, db, "master_credentials_file_l"))
}

func TestPipelineExports(t *testing.T) {
	db := setup(t)
	dir := t.TempDir()

	p := pipeline{
		db:    db,
		fetch: fetch(worksheet),
		table: "master_credentials_file_l",
		exports: []Export{
			{Table: "csv_handle", Dir: filepath.Join(dir, "LEARNER_cSV"), Prefix: "csv_handle"},
			{Table: "newenrolls", Dir: filepath.Join(dir, "CSV_HANDLE"), Prefix: "newenrolls"},
			{Table: "NOT_ENROLLED", Dir: filepath.Join(dir, "NOT_ENROLLED"), Prefix: "not_enrolled"},
		},
		timestamp: time.Date(2025, time.June, 1, 7, 30, 0, 0, time.Local),
	}

	s, err := p.run(context.Background())
	require.NoError(t, err)

	expected := []string{
		filepath.Join(dir, "LEARNER_cSV", "csv_handle_2025-06-01_07-30-00.csv"),
		filepath.Join(dir, "CSV_HANDLE", "newenrolls_2025-06-01_07-30-00.csv"),
		filepath.Join(dir, "NOT_ENROLLED", "not_enrolled_2025-06-01_07-30-00.csv"),
	}

	require.Equal(t, expected, s.exported)

	contents := map[string]string{
		expected[0]: "\ufeffusername,password\nada.l,pw1\n",
		expected[1]: "\ufeffusername,password\n",
		expected[2]: "\ufeffusername,reason\ngrace.h,\n",
	}

	for file, content := range contents {
		bytes, err := os.ReadFile(file)
		require.NoError(t, err)
		assert.Equal(t, content, string(bytes), file)
	}

	entries, err := os.ReadDir(filepath.Join(dir, "LEARNER_cSV"))
	require.NoError(t, err)
	for _, e := range entries {
		assert.False(t, strings.HasPrefix(e.Name(), ".export-"), "temporary file %v not removed", e.Name())
	}
}

func TestPipelineWithProcedureOnSQLite(t *testing.T) {
	db := setup(t)

	p := pipeline{
		db:         db,
		fetch:      fetch(worksheet),
		table:      "master_credentials_file_l",
		procedures: []string{"Initialize_Setup"},
		timestamp:  time.Now(),
	}

	_, err := p.run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not supported")

	assert.Equal(t, 3, count(t, db, "master_credentials_file_l"))
}

func TestPipelineWithInvalidWorksheet(t *testing.T) {
	db := setup(t)

	p := pipeline{
		db:        db,
		fetch:     fetch([][]any{{"First Name", "Last Name"}}),
		table:     "master_credentials_file_l",
		truncate:  []string{"master_credentials_file_l"},
		timestamp: time.Now(),
	}

	_, err := p.run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Missing 'Username' column")
}

func TestCompare(t *testing.T) {
	db := setup(t)

	learners, err := roster.MakeRoster(worksheet)
	require.NoError(t, err)

	added, skipped, err := compare(context.Background(), db, "master_credentials_file_l", learners)
	require.NoError(t, err)

	require.Len(t, added, 2)
	require.Len(t, skipped, 1)
	assert.Equal(t, "Ada", added[0].FirstName)
	assert.Equal(t, "Grace", added[1].FirstName)
	assert.Equal(t, "Alan", skipped[0].FirstName)

	assert.Equal(t, 1, count(t, db, "master_credentials_file_l"))
}
