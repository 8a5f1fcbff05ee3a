// Package store wraps the relational database that holds the learner credentials, the
// server-side processing procedures and the tables that are exported after a sync.
package store

import (
	"context"
	"database/sql"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	mssql "github.com/microsoft/go-mssqldb"

	"github.com/learnerhub/learner-sheets/roster"
)

type DB struct {
	db      *sqlx.DB
	dialect dialect
}

// Open connects to the database. All statements run sequentially on a single connection
// and are committed as they complete.
func Open(driver, dsn string) (*DB, error) {
	d, ok := dialects[driver]
	if !ok {
		return nil, fmt.Errorf("unsupported database driver '%s' (expected one of %v)", driver, Drivers())
	}

	if strings.TrimSpace(dsn) == "" {
		return nil, fmt.Errorf("missing database DSN")
	}

	db, err := sqlx.Connect(driver, dsn)
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	return &DB{
		db:      db,
		dialect: d,
	}, nil
}

func (d *DB) Close() error {
	return d.db.Close()
}

// Exec runs an arbitrary statement. Intended for setup and tests.
func (d *DB) Exec(ctx context.Context, query string, args ...any) error {
	_, err := d.db.ExecContext(ctx, d.db.Rebind(query), args...)

	return err
}

// Truncate empties each table in turn.
func (d *DB) Truncate(ctx context.Context, tables ...string) error {
	for _, table := range tables {
		if err := validate(table); err != nil {
			return err
		}

		if _, err := d.db.ExecContext(ctx, d.dialect.truncate(table)); err != nil {
			return fmt.Errorf("error truncating %v (%w)", table, err)
		}
	}

	return nil
}

// Keys returns the identifying tuples of the credential records already in the table.
func (d *DB) Keys(ctx context.Context, table string) (map[roster.Key]bool, error) {
	if err := validate(table); err != nil {
		return nil, err
	}

	columns := []string{}
	for _, c := range roster.KeyColumns {
		columns = append(columns, d.dialect.quote(c))
	}

	query := fmt.Sprintf("SELECT %s FROM %s", strings.Join(columns, ", "), table)
	rows, err := d.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("error retrieving existing records from %v (%w)", table, err)
	}

	defer rows.Close()

	keys := map[roster.Key]bool{}
	for rows.Next() {
		var first, last, grade, branch sql.NullString
		if err := rows.Scan(&first, &last, &grade, &branch); err != nil {
			return nil, err
		}

		// CHAR(n) columns come back space padded
		k := roster.Key{
			FirstName: strings.TrimSpace(first.String),
			LastName:  strings.TrimSpace(last.String),
			Grade:     strings.TrimSpace(grade.String),
			Branch:    strings.TrimSpace(branch.String),
		}

		keys[k] = true
	}

	return keys, rows.Err()
}

// Insert adds the credential records to the table, returning the number of rows inserted.
func (d *DB) Insert(ctx context.Context, table string, records []roster.Credential) (int, error) {
	if err := validate(table); err != nil {
		return 0, err
	}

	columns := []string{}
	placeholders := []string{}
	for _, c := range roster.Columns {
		columns = append(columns, d.dialect.quote(c))
		placeholders = append(placeholders, "?")
	}

	if len(records) == 0 {
		return 0, nil
	}

	query := d.db.Rebind(fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)", table, strings.Join(columns, ", "), strings.Join(placeholders, ", ")))
	stmt, err := d.db.PreparexContext(ctx, query)
	if err != nil {
		return 0, fmt.Errorf("error preparing insert into %v (%w)", table, err)
	}

	defer stmt.Close()

	count := 0
	for _, record := range records {
		args := []any{}
		for _, v := range record.Values() {
			args = append(args, v)
		}

		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			return count, fmt.Errorf("error inserting %v into %v (%w)", record.Key(), table, err)
		}

		count++
	}

	return count, nil
}

// Execute invokes each stored procedure in turn.
func (d *DB) Execute(ctx context.Context, procedures ...string) error {
	for _, procedure := range procedures {
		if err := validate(procedure); err != nil {
			return err
		}

		query, err := d.dialect.call(procedure)
		if err != nil {
			return err
		}

		if _, err := d.db.ExecContext(ctx, query); err != nil {
			return fmt.Errorf("error executing %v (%w)", procedure, err)
		}
	}

	return nil
}

// Export retrieves the column names and all rows of a table, with every value rendered as
// a string and NULL as an empty string.
func (d *DB) Export(ctx context.Context, table string) ([]string, [][]string, error) {
	if err := validate(table); err != nil {
		return nil, nil, err
	}

	rows, err := d.db.QueryxContext(ctx, "SELECT * FROM "+table)
	if err != nil {
		return nil, nil, fmt.Errorf("error reading %v (%w)", table, err)
	}

	defer rows.Close()

	header, err := rows.Columns()
	if err != nil {
		return nil, nil, err
	}

	types, err := rows.ColumnTypes()
	if err != nil {
		return nil, nil, err
	}

	records := [][]string{}
	for rows.Next() {
		values, err := rows.SliceScan()
		if err != nil {
			return nil, nil, err
		}

		record := make([]string, len(values))
		for i, v := range values {
			record[i] = render(v, types[i].DatabaseTypeName())
		}

		records = append(records, record)
	}

	return header, records, rows.Err()
}

// render formats a column value for CSV export. Binary columns are written as 0x-prefixed
// hex and SQL Server UNIQUEIDENTIFIER columns in their canonical GUID form.
func render(v any, dbtype string) string {
	switch x := v.(type) {
	case nil:
		return ""

	case []byte:
		switch strings.ToUpper(dbtype) {
		case "UNIQUEIDENTIFIER":
			var guid mssql.UniqueIdentifier
			if err := guid.Scan(x); err == nil {
				return guid.String()
			}

			return "0x" + strings.ToUpper(hex.EncodeToString(x))

		case "BINARY", "VARBINARY", "IMAGE", "BLOB", "BYTEA":
			return "0x" + strings.ToUpper(hex.EncodeToString(x))

		default:
			return string(x)
		}

	case string:
		return x

	case time.Time:
		return x.Format("2006-01-02 15:04:05")

	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)

	case float32:
		return strconv.FormatFloat(float64(x), 'f', -1, 32)

	default:
		return fmt.Sprintf("%v", x)
	}
}
